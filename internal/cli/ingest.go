package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/searchdemo/internal/domain/batch"
	"github.com/kailas-cloud/searchdemo/internal/seed"
)

func (r *runner) newIngestCmd() *cobra.Command {
	var (
		file string
		wait bool
	)
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Upload documents into the existing index",
		Long: `Uploads the bundled sample documents, or the documents in --file (JSON or
YAML), in chunks of at most 1000. The index is not recreated.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			docs := seed.Documents()
			if file != "" {
				var err error
				if docs, err = seed.LoadFile(file); err != nil {
					return err
				}
			}

			app, err := r.load(cmd, false)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			outcome, err := app.Ingest.UploadAll(ctx, docs)
			writeOutcome(cmd.OutOrStdout(), outcome)
			if err != nil {
				return err
			}

			if wait && outcome.Accepted() > 0 {
				timeout := time.Duration(app.Config.Ingest.WaitTimeout) * time.Second
				n, err := app.Ingest.WaitVisible(ctx, outcome.Accepted(), timeout)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d documents searchable.\n", n)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "JSON or YAML file of documents")
	cmd.Flags().BoolVar(&wait, "wait", false, "wait until uploaded documents are searchable")
	return cmd
}

func writeOutcome(w io.Writer, outcome batch.Outcome) {
	for _, res := range outcome.Results() {
		status := "succeeded"
		if !res.OK() {
			status = "failed: " + res.Err().Error()
		}
		fmt.Fprintf(w, "Document ID: %s - Upload status: %s\n", res.ID(), status)
	}
	fmt.Fprintf(w, "%d accepted, %d rejected.\n", outcome.Accepted(), outcome.Rejected())
}
