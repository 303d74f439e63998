package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	domdoc "github.com/kailas-cloud/searchdemo/internal/domain/document"
	"github.com/kailas-cloud/searchdemo/internal/logger"
	"github.com/kailas-cloud/searchdemo/internal/seed"
	"github.com/kailas-cloud/searchdemo/internal/shell"
)

type shellFlags struct {
	noSeed bool
	file   string
}

func (r *runner) newShellCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Recreate the index, seed it and open the interactive menu",
		Long: `Recreates the configured index (existing documents are deleted), uploads the
sample documents (or --file) and opens a numbered menu for keyword, category
and advanced search.`,
		Args: cobra.NoArgs,
		RunE: r.runShell,
	}
	bindShellFlags(cmd, &r.shell)
	return cmd
}

func bindShellFlags(cmd *cobra.Command, f *shellFlags) {
	cmd.Flags().BoolVar(&f.noSeed, "no-seed", false, "open the menu without recreating and seeding the index")
	cmd.Flags().StringVar(&f.file, "file", "", "seed from a JSON or YAML document file instead of the bundled samples")
}

func (r *runner) runShell(cmd *cobra.Command, _ []string) error {
	app, err := r.load(cmd, false)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if !r.shell.noSeed {
		docs := seed.Documents()
		if r.shell.file != "" {
			if docs, err = seed.LoadFile(r.shell.file); err != nil {
				return err
			}
		}
		if err := prepareIndex(ctx, app, docs, cmd.OutOrStdout()); err != nil {
			return err
		}
	}

	var answerer shell.Answerer
	if app.Answer.Enabled() {
		answerer = app.Answer
	}
	sh := shell.New(app.Search, answerer, cmd.InOrStdin(), cmd.OutOrStdout(), shell.Options{
		SnippetLength: app.Config.Query.SnippetLength,
		DefaultTop:    app.Config.Query.DefaultTop,
	})
	return sh.Run(ctx)
}

// prepareIndex recreates the index, uploads docs and waits until they are
// searchable. A visibility timeout is logged, not fatal.
func prepareIndex(ctx context.Context, app *App, docs []domdoc.Document, out io.Writer) error {
	if err := app.WaitForReady(ctx); err != nil {
		return err
	}
	def, err := app.IndexDefinition()
	if err != nil {
		return err
	}
	if err := app.Index.EnsureIndex(ctx, def); err != nil {
		return err
	}
	fmt.Fprintf(out, "Index '%s' created successfully.\n", def.Name())

	outcome, err := app.Ingest.UploadAll(ctx, docs)
	if err != nil {
		return err
	}
	writeOutcome(out, outcome)

	if outcome.Accepted() == 0 {
		return nil
	}
	timeout := time.Duration(app.Config.Ingest.WaitTimeout) * time.Second
	if _, err := app.Ingest.WaitVisible(ctx, outcome.Accepted(), timeout); err != nil {
		logger.FromContext(ctx).Warn("documents not yet searchable", zap.Error(err))
	}
	return nil
}
