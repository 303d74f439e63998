package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (r *runner) newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question...>",
		Short: "Answer a question from the top keyword matches",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.load(cmd, false)
			if err != nil {
				return err
			}
			ans, err := app.Answer.Ask(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, ans.Text)
			if len(ans.Sources) > 0 {
				fmt.Fprintln(w, "\nSources:")
				for i := range ans.Sources {
					d := ans.Sources[i].Document()
					fmt.Fprintf(w, "  [%s] %s\n", d.ID(), d.Title())
				}
			}
			return nil
		},
	}
}
