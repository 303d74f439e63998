package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/searchdemo/internal/domain"
	healthuc "github.com/kailas-cloud/searchdemo/internal/usecase/health"
)

func (r *runner) newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the search service and answer provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := r.load(cmd, false)
			if err != nil {
				return err
			}
			report := app.Health.Check(cmd.Context())

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "status: %s\n", report.Status)
			names := make([]string, 0, len(report.Checks))
			for name := range report.Checks {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				line := fmt.Sprintf("  %s: %s", name, report.Checks[name])
				if msg, ok := report.Errors[name]; ok {
					line += " (" + msg + ")"
				}
				fmt.Fprintln(w, line)
			}

			if report.Status == healthuc.Unhealthy {
				return fmt.Errorf("search service unhealthy: %w", domain.ErrService)
			}
			return nil
		},
	}
}
