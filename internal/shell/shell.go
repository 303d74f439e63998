// Package shell implements the numbered interactive menu over the query facade.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchdemo/internal/domain"
	"github.com/kailas-cloud/searchdemo/internal/domain/search/result"
	"github.com/kailas-cloud/searchdemo/internal/logger"
	answeruc "github.com/kailas-cloud/searchdemo/internal/usecase/answer"
)

// Menu choices.
const (
	ChoiceKeyword  = "1"
	ChoiceCategory = "2"
	ChoiceAdvanced = "3"
	ChoiceExit     = "4"
	ChoiceAsk      = "5"
)

// Searcher is the query facade used by the shell.
type Searcher interface {
	Keyword(ctx context.Context, term string, top int) ([]result.Result, error)
	ByCategory(ctx context.Context, category string, top int) ([]result.Result, error)
	Advanced(ctx context.Context, term, category string, top int) ([]result.Result, error)
}

// Answerer generates grounded answers.
type Answerer interface {
	Ask(ctx context.Context, question string) (answeruc.Answer, error)
}

// Options tunes output.
type Options struct {
	SnippetLength int
	DefaultTop    int
	Title         string
}

// Shell reads menu choices from in and writes results to out.
type Shell struct {
	search Searcher
	answer Answerer
	in     *bufio.Scanner
	out    io.Writer
	st     styles
	opts   Options
}

// New creates a shell. answer may be nil, which hides the ask option.
func New(search Searcher, answer Answerer, in io.Reader, out io.Writer, opts Options) *Shell {
	if opts.SnippetLength <= 0 {
		opts.SnippetLength = 200
	}
	if opts.Title == "" {
		opts.Title = "Azure Cognitive Search Menu"
	}
	return &Shell{
		search: search,
		answer: answer,
		in:     bufio.NewScanner(in),
		out:    out,
		st:     newStyles(out),
		opts:   opts,
	}
}

// Run loops until the exit choice, EOF on input, or ctx cancellation. Query
// failures are printed and the loop continues.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		s.printMenu()
		choice, ok := s.prompt(fmt.Sprintf("Enter your choice (1-%s): ", s.lastChoice()))
		if !ok {
			fmt.Fprintln(s.out)
			return nil
		}
		switch choice {
		case ChoiceKeyword:
			term, ok := s.prompt("Enter keyword to search: ")
			if !ok {
				return nil
			}
			res, err := s.search.Keyword(ctx, term, 0)
			s.show(ctx, fmt.Sprintf("Keyword Search Results for '%s'", term), res, err)
		case ChoiceCategory:
			cat, ok := s.prompt("Enter category to search (AI, Azure, Cloud, etc.): ")
			if !ok {
				return nil
			}
			res, err := s.search.ByCategory(ctx, cat, 0)
			s.show(ctx, fmt.Sprintf("Category Search Results for '%s'", cat), res, err)
		case ChoiceAdvanced:
			if !s.advanced(ctx) {
				return nil
			}
		case ChoiceExit:
			fmt.Fprintln(s.out, "Exiting Azure Cognitive Search...")
			return nil
		case ChoiceAsk:
			if s.answer == nil {
				s.invalid()
				continue
			}
			if !s.ask(ctx) {
				return nil
			}
		default:
			s.invalid()
		}
	}
}

func (s *Shell) advanced(ctx context.Context) bool {
	fmt.Fprintln(s.out, "\nAdvanced Search Options:")
	term, ok := s.prompt("Enter keyword (optional, press enter to skip): ")
	if !ok {
		return false
	}
	cat, ok := s.prompt("Enter category (optional, press enter to skip): ")
	if !ok {
		return false
	}
	rawTop, ok := s.prompt(fmt.Sprintf("Maximum number of results (default is %d): ", s.defaultTop()))
	if !ok {
		return false
	}
	res, err := s.search.Advanced(ctx, term, cat, parseTop(rawTop))
	s.show(ctx, "Advanced Search Results", res, err)
	return true
}

func (s *Shell) ask(ctx context.Context) bool {
	q, ok := s.prompt("Enter your question: ")
	if !ok {
		return false
	}
	ans, err := s.answer.Ask(ctx, q)
	if err != nil {
		s.printError(ctx, err)
		return true
	}
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, s.st.header.Render("--- Generated Answer ---"))
	fmt.Fprintln(s.out, ans.Text)
	WriteResults(s.out, "Sources", ans.Sources, s.opts.SnippetLength)
	return true
}

func (s *Shell) show(ctx context.Context, heading string, res []result.Result, err error) {
	if err != nil {
		s.printError(ctx, err)
		return
	}
	WriteResults(s.out, heading, res, s.opts.SnippetLength)
}

func (s *Shell) printError(ctx context.Context, err error) {
	logger.FromContext(ctx).Warn("query failed", zap.Error(err), zap.String("kind", string(domain.KindOf(err))))
	fmt.Fprintln(s.out, s.st.errText.Render("Error: "+err.Error()))
}

func (s *Shell) invalid() {
	fmt.Fprintln(s.out, s.st.errText.Render("Invalid choice. Please try again."))
}

func (s *Shell) printMenu() {
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, s.st.header.Render("--- "+s.opts.Title+" ---"))
	fmt.Fprintln(s.out, "1. Keyword Search")
	fmt.Fprintln(s.out, "2. Category Search")
	fmt.Fprintln(s.out, "3. Advanced Search")
	fmt.Fprintln(s.out, "4. Exit")
	if s.answer != nil {
		fmt.Fprintln(s.out, "5. Ask a Question")
	}
}

func (s *Shell) lastChoice() string {
	if s.answer != nil {
		return ChoiceAsk
	}
	return ChoiceExit
}

func (s *Shell) defaultTop() int {
	if s.opts.DefaultTop > 0 {
		return s.opts.DefaultTop
	}
	return 10
}

// prompt prints label and reads one trimmed line. ok is false on EOF.
func (s *Shell) prompt(label string) (string, bool) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

// parseTop maps blank or non-numeric input to 0, which selects the default.
func parseTop(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}
