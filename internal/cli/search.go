package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/searchdemo/internal/domain/search/result"
	"github.com/kailas-cloud/searchdemo/internal/shell"
)

type searchFlags struct {
	top      int
	asJSON   bool
	term     string
	category string
}

type jsonResult struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	Category string  `json:"category"`
	Score    float64 `json:"score"`
}

func (r *runner) newSearchCmd() *cobra.Command {
	var f searchFlags
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Query the index",
	}
	cmd.PersistentFlags().IntVar(&f.top, "top", 0, "maximum results (0 = configured default)")
	cmd.PersistentFlags().BoolVar(&f.asJSON, "json", false, "print results as JSON")

	keyword := &cobra.Command{
		Use:   "keyword [term]",
		Short: "Full-text search over title and content",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.load(cmd, false)
			if err != nil {
				return err
			}
			var term string
			if len(args) == 1 {
				term = args[0]
			}
			res, err := app.Search.Keyword(cmd.Context(), term, f.top)
			if err != nil {
				return err
			}
			return printResults(cmd.OutOrStdout(), fmt.Sprintf("Search results for '%s':", term), res, f.asJSON, app.Config.Query.SnippetLength)
		},
	}

	category := &cobra.Command{
		Use:   "category <category>",
		Short: "Exact match on the category field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := r.load(cmd, false)
			if err != nil {
				return err
			}
			res, err := app.Search.ByCategory(cmd.Context(), args[0], f.top)
			if err != nil {
				return err
			}
			return printResults(cmd.OutOrStdout(), fmt.Sprintf("Results in category '%s':", args[0]), res, f.asJSON, app.Config.Query.SnippetLength)
		},
	}

	advanced := &cobra.Command{
		Use:   "advanced",
		Short: "Search term combined with a category filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := r.load(cmd, false)
			if err != nil {
				return err
			}
			res, err := app.Search.Advanced(cmd.Context(), f.term, f.category, f.top)
			if err != nil {
				return err
			}
			return printResults(cmd.OutOrStdout(), "Advanced search results:", res, f.asJSON, app.Config.Query.SnippetLength)
		},
	}
	advanced.Flags().StringVar(&f.term, "term", "", "search term (empty matches all)")
	advanced.Flags().StringVar(&f.category, "category", "", "category filter (empty = no filter)")

	cmd.AddCommand(keyword, category, advanced)
	return cmd
}

func printResults(w io.Writer, heading string, res []result.Result, asJSON bool, snippetLen int) error {
	if !asJSON {
		shell.WriteResults(w, heading, res, snippetLen)
		return nil
	}
	out := make([]jsonResult, len(res))
	for i := range res {
		d := res[i].Document()
		out[i] = jsonResult{
			ID:       d.ID(),
			Title:    d.Title(),
			Content:  d.Content(),
			Category: d.Category(),
			Score:    res[i].Score(),
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	return nil
}
