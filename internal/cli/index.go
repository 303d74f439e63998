package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/searchdemo/internal/domain"
)

func (r *runner) newIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Manage the search index",
	}

	ensure := &cobra.Command{
		Use:   "ensure",
		Short: "Create the index, dropping and recreating it if it exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := r.load(cmd, false)
			if err != nil {
				return err
			}
			def, err := app.IndexDefinition()
			if err != nil {
				return err
			}
			if err := app.Index.EnsureIndex(cmd.Context(), def); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Index '%s' created successfully.\n", def.Name())
			return nil
		},
	}

	var force bool
	del := &cobra.Command{
		Use:   "delete",
		Short: "Delete the index and all of its documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !force {
				return fmt.Errorf("refusing to delete without --force: %w", domain.ErrValidation)
			}
			app, err := r.load(cmd, false)
			if err != nil {
				return err
			}
			name := app.Config.Search.IndexName
			if err := app.Index.DeleteIndex(cmd.Context(), name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Index '%s' deleted.\n", name)
			return nil
		},
	}
	del.Flags().BoolVar(&force, "force", false, "confirm deletion")

	cmd.AddCommand(ensure, del)
	return cmd
}
