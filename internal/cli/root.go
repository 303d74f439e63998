// Package cli implements the searchdemo command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchdemo/internal/config"
	"github.com/kailas-cloud/searchdemo/internal/domain"
	logpkg "github.com/kailas-cloud/searchdemo/internal/logger"
)

// Options customizes the command tree. Zero values select production wiring.
type Options struct {
	NewStore StoreFactory
	Stdin    io.Reader
}

// runner lazily builds the App on first use and owns its lifetime.
type runner struct {
	opts Options

	env        string
	configPath string
	logLevel   string

	shell shellFlags

	app *App
}

// NewRootCmd builds the command tree. Running it without a subcommand starts
// the interactive shell.
func NewRootCmd(opts Options) *cobra.Command {
	root, _ := newRootCmd(opts)
	return root
}

func newRootCmd(opts Options) (*cobra.Command, *runner) {
	if opts.NewStore == nil {
		opts.NewStore = NewStore
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	r := &runner{opts: opts}

	root := &cobra.Command{
		Use:   "searchdemo",
		Short: "Index and query documents in a managed search service",
		Long: `searchdemo creates a search index with a fixed document schema, uploads
documents in batches and runs keyword, category and combined queries against it.
Without a subcommand it seeds the bundled sample documents and opens an
interactive menu.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          r.runShell,
	}

	root.SetIn(opts.Stdin)
	root.PersistentFlags().StringVar(&r.env, "env", config.GetEnv(), "environment name (selects config/<env>.yaml)")
	root.PersistentFlags().StringVar(&r.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&r.logLevel, "log-level", "", "log level override: debug, info, warn, error")
	bindShellFlags(root, &r.shell)

	root.AddCommand(
		r.newShellCmd(),
		r.newIndexCmd(),
		r.newIngestCmd(),
		r.newSearchCmd(),
		r.newAskCmd(),
		r.newServeCmd(),
		r.newHealthCmd(),
		newVersionCmd(),
	)
	return root, r
}

// Execute runs the command tree with ctx and releases the store afterwards.
func Execute(ctx context.Context, args []string, opts Options, stdout, stderr io.Writer) error {
	root, r := newRootCmd(opts)
	defer r.close()

	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

// load builds the App once. Long-running modes log with the configured
// environment; one-shot commands keep stderr quiet unless --log-level is set.
func (r *runner) load(cmd *cobra.Command, longRunning bool) (*App, error) {
	if r.app != nil {
		return r.app, nil
	}

	cfg, err := config.Load(r.env, r.configPath)
	if err != nil {
		return nil, err
	}

	logger, err := r.newLogger(cfg, longRunning)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}

	app, err := NewApp(cfg, logger, r.opts.NewStore)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	r.app = app

	cmd.SetContext(logpkg.ContextWithLogger(cmd.Context(), logger))
	logger.Debug("app loaded",
		zap.String("env", r.env),
		zap.String("driver", cfg.Search.Driver),
		zap.String("index", cfg.Search.IndexName),
	)
	return app, nil
}

func (r *runner) newLogger(cfg config.Config, longRunning bool) (*zap.Logger, error) {
	if !longRunning {
		return logpkg.NewLogger("cli", r.logLevel)
	}
	level := r.logLevel
	if level == "" {
		level = cfg.Logging.Level
	}
	logger, err := logpkg.NewLogger(r.env, level)
	if err != nil {
		// unknown environment names still get console logging
		return logpkg.NewLogger("cli", level)
	}
	return logger, nil
}

func (r *runner) close() {
	if r.app == nil {
		return
	}
	r.app.Close()
	_ = r.app.Logger.Sync()
	r.app = nil
}
