package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/searchdemo/internal/db"
	"github.com/kailas-cloud/searchdemo/internal/domain/search/filter"
)

// Search runs a BM25 text search via FT.SEARCH. Terms are OR-ed across the
// requested fields; an empty text matches every document.
func (s *Store) Search(ctx context.Context, q *db.Query) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, &db.Error{Op: db.OpSearch, Err: fmt.Errorf("index name is required")}
	}
	if q.Top < 0 {
		return nil, &db.Error{Op: db.OpSearch, Err: fmt.Errorf("top must not be negative")}
	}

	args := []string{q.IndexName, buildQuery(q.Text, q.SearchFields, q.Filters)}
	if len(q.ReturnFields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(q.ReturnFields)))
		args = append(args, q.ReturnFields...)
	}
	args = append(args,
		"WITHSCORES",
		"LIMIT", "0", strconv.Itoa(q.Top),
		"DIALECT", "2",
	)

	res, err := s.exec(ctx, db.OpSearch, func() rueidis.Completed {
		return s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	})
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	raw, err := res.ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return parseScoredResult(raw, keyPrefix(q.IndexName))
}

// Count returns the number of indexed documents via FT.SEARCH with LIMIT 0 0.
func (s *Store) Count(ctx context.Context, index string) (int, error) {
	res, err := s.exec(ctx, db.OpCount, func() rueidis.Completed {
		return s.b().Arbitrary("FT.SEARCH").Args(index, "*", "LIMIT", "0", "0", "DIALECT", "2").Build()
	})
	if err != nil {
		return 0, &db.Error{Op: db.OpCount, Err: err}
	}
	raw, err := res.ToArray()
	if err != nil {
		return 0, &db.Error{Op: db.OpCount, Err: err}
	}
	if len(raw) == 0 {
		return 0, nil
	}
	total, err := raw[0].AsInt64()
	if err != nil {
		return 0, fmt.Errorf("parse count: %w", err)
	}
	return int(total), nil
}

// --- Result parsing ---

func parseScoredResult(raw []rueidis.RedisMessage, prefix string) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	entries := make([]db.SearchEntry, 0, (len(raw)-1)/3)
	// 3-stride: [total, key1, score1, fields1, key2, score2, fields2, ...]
	for i := 1; i+2 < len(raw); i += 3 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		scoreStr, err := raw[i+1].ToString()
		if err != nil {
			continue
		}
		score, err := strconv.ParseFloat(scoreStr, 64)
		if err != nil {
			continue
		}

		fields, err := raw[i+2].ToArray()
		if err != nil {
			continue
		}

		entries = append(entries, db.SearchEntry{
			Key:    strings.TrimPrefix(key, prefix),
			Score:  score,
			Fields: parseFieldPairs(fields),
		})
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

// --- Query building ---

func buildQuery(text string, fields []string, expr filter.Expression) string {
	parts := make([]string, 0, 2)
	if f := buildFilter(expr); f != "" {
		parts = append(parts, f)
	}
	if t := buildText(text, fields); t != "" {
		parts = append(parts, t)
	}
	if len(parts) == 0 {
		return "*"
	}
	return strings.Join(parts, " ")
}

func buildText(text string, fields []string) string {
	terms := strings.Fields(text)
	if len(terms) == 0 {
		return ""
	}
	for i, t := range terms {
		terms[i] = escapeQuery(t)
	}
	joined := strings.Join(terms, " | ")
	if len(fields) == 0 {
		return "(" + joined + ")"
	}
	return fmt.Sprintf("@%s:(%s)", strings.Join(fields, "|"), joined)
}

// buildFilter translates filter.Expression into an FT.SEARCH pre-filter.
func buildFilter(expr filter.Expression) string {
	if expr.IsEmpty() {
		return ""
	}
	parts := make([]string, 0, len(expr.Must()))
	for _, cond := range expr.Must() {
		parts = append(parts, buildTagFilter(cond.Key(), cond.Match()))
	}
	return strings.Join(parts, " ")
}

func buildTagFilter(key, value string) string {
	escaped := tagEscaper.Replace(value)
	return fmt.Sprintf("@%s:{%s}", key, escaped)
}

// --- Escaping ---

var tagEscaper = strings.NewReplacer(
	`\`, `\\`,
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"[", "\\[",
	"]", "\\]",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	"/", "\\/",
	"?", "\\?",
	" ", "\\ ",
)

func escapeQuery(s string) string {
	return queryEscaper.Replace(s)
}

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
	`:`, `\:`,
	`,`, `\,`,
	`.`, `\.`,
)
