package redis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/searchdemo/internal/db"
	"github.com/kailas-cloud/searchdemo/internal/domain/search/filter"
)

func isDBError(err error) bool {
	var dbErr *db.Error
	return errors.As(err, &dbErr)
}

func docsIndex() *db.IndexDefinition {
	return db.NewIndex("docs").Key("id").Searchable("title").Searchable("content").Facet("category").MustBuild()
}

// --- client.go tests ---

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_RetriesTransientOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	gomock.InOrder(
		c.EXPECT().Do(gomock.Any(), mock.Match("PING")).Return(mock.Result(mock.RedisError("LOADING dataset in memory"))),
		c.EXPECT().Do(gomock.Any(), mock.Match("PING")).Return(mock.Result(mock.RedisString("PONG"))),
	)

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_TimeoutExhaustsAttempts(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded)).
		Times(2)

	s := NewStoreForTest(c)
	err := s.Ping(context.Background())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
	if !db.IsTransient(err) {
		t.Error("timeout should be transient")
	}
}

func TestPing_EachAttemptGetsItsOwnDeadline(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	var deadlines []time.Time
	record := func(ctx context.Context, _ rueidis.Completed) rueidis.RedisResult {
		d, ok := ctx.Deadline()
		if !ok {
			t.Error("attempt context has no deadline")
		}
		deadlines = append(deadlines, d)
		if len(deadlines) == 1 {
			return mock.ErrorResult(context.DeadlineExceeded)
		}
		return mock.Result(mock.RedisString("PONG"))
	}
	c.EXPECT().Do(gomock.Any(), mock.Match("PING")).DoAndReturn(record).Times(2)

	s := NewStoreForTest(c)
	s.timeout = time.Second
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deadlines) == 2 && !deadlines[1].After(deadlines[0]) {
		t.Errorf("retry reused the first deadline: %v then %v", deadlines[0], deadlines[1])
	}
}

func TestPing_WrongPassIsNotRetried(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisError("WRONGPASS invalid username-password pair"))).
		Times(1)

	s := NewStoreForTest(c)
	err := s.Ping(context.Background())
	if !errors.Is(err, db.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if !isDBError(err) {
		t.Errorf("expected db.Error, got %T", err)
	}
}

func TestClassify(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	tests := []struct {
		reply string
		want  error
	}{
		{"NOAUTH Authentication required", db.ErrUnauthorized},
		{"idx: no such index", db.ErrIndexNotFound},
		{"Unknown Index name", db.ErrIndexNotFound},
		{"BUSY Redis is busy running a script", db.ErrUnavailable},
	}
	for _, tc := range tests {
		c.EXPECT().Do(gomock.Any(), gomock.Any()).Return(mock.Result(mock.RedisError(tc.reply)))
		res := c.Do(context.Background(), c.B().Ping().Build())
		if got := classify(res.Error()); !errors.Is(got, tc.want) {
			t.Errorf("classify(%q) = %v, want %v", tc.reply, got, tc.want)
		}
	}
	if classify(nil) != nil {
		t.Error("classify(nil) should be nil")
	}
}

// --- index.go tests ---

func TestCreateIndex_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match(
			"FT.CREATE", "docs", "ON", "HASH", "PREFIX", "1", "docs:", "SCHEMA",
			"id", "TAG", "SEPARATOR", "\x1f", "CASESENSITIVE",
			"title", "TEXT",
			"content", "TEXT",
			"category", "TAG", "SEPARATOR", "\x1f", "CASESENSITIVE",
		)).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	if err := s.CreateIndex(context.Background(), docsIndex()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateIndex_AlreadyExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool { return cmd[0] == "FT.CREATE" })).
		Return(mock.Result(mock.RedisError("Index already exists")))

	s := NewStoreForTest(c)
	err := s.CreateIndex(context.Background(), docsIndex())
	if !errors.Is(err, db.ErrIndexExists) {
		t.Fatalf("expected ErrIndexExists, got %v", err)
	}
}

func TestCreateIndex_InvalidDefinition(t *testing.T) {
	s := NewStoreForTest(nil) // client not called
	err := s.CreateIndex(context.Background(), &db.IndexDefinition{Name: "docs"})
	if err == nil || !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

func TestDropIndex_DeletesDocuments(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.DROPINDEX", "docs", "DD")).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	if err := s.DropIndex(context.Background(), "docs"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDropIndex_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.DROPINDEX", "docs", "DD")).
		Return(mock.Result(mock.RedisError("Unknown Index name")))

	s := NewStoreForTest(c)
	if err := s.DropIndex(context.Background(), "docs"); !errors.Is(err, db.ErrIndexNotFound) {
		t.Fatalf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestIndexExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.INFO", "docs")).
		Return(mock.Result(mock.RedisArray(mock.RedisString("index_name"), mock.RedisString("docs"))))
	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.INFO", "missing")).
		Return(mock.Result(mock.RedisError("missing: no such index")))

	s := NewStoreForTest(c)
	ok, err := s.IndexExists(context.Background(), "docs")
	if err != nil || !ok {
		t.Fatalf("docs: ok=%v err=%v", ok, err)
	}
	ok, err = s.IndexExists(context.Background(), "missing")
	if err != nil || ok {
		t.Fatalf("missing: ok=%v err=%v", ok, err)
	}
}

func TestBuildFieldArgs(t *testing.T) {
	tests := []struct {
		f    db.IndexField
		want string
	}{
		{db.IndexField{Name: "n", Type: db.IndexFieldInt32, Filterable: true, Sortable: true}, "n NUMERIC SORTABLE"},
		{db.IndexField{Name: "t", Type: db.IndexFieldString, Searchable: true}, "t TEXT"},
		{db.IndexField{Name: "r", Type: db.IndexFieldString, Retrievable: true}, ""},
		{db.IndexField{Name: "c", Type: db.IndexFieldString, Filterable: true, Facetable: true}, "c TAG SEPARATOR \x1f CASESENSITIVE"},
		{db.IndexField{Name: "k", Type: db.IndexFieldString, Key: true}, "k TAG SEPARATOR \x1f CASESENSITIVE"},
	}
	for _, tc := range tests {
		if got := strings.Join(buildFieldArgs(&tc.f), " "); got != tc.want {
			t.Errorf("buildFieldArgs(%s) = %q, want %q", tc.f.Name, got, tc.want)
		}
	}
}

// --- documents.go tests ---

func TestIndexDocuments_PerItemStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisInt64(4)),
			mock.Result(mock.RedisError("ERR value too large")),
		})

	s := NewStoreForTest(c)
	st, err := s.IndexDocuments(context.Background(), "docs", []db.Item{
		{Key: "1", Fields: map[string]string{"id": "1", "title": "Azure AI Search"}},
		{Key: "2", Fields: map[string]string{"id": "2", "title": "RAG Systems"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(st) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(st))
	}
	if !st[0].OK || st[0].Key != "1" {
		t.Errorf("item 1: %+v", st[0])
	}
	if st[1].OK || st[1].StatusCode != 400 || !strings.Contains(st[1].Message, "too large") {
		t.Errorf("item 2: %+v", st[1])
	}
}

func TestIndexDocuments_RetriesOnlyTransientItems(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	gomock.InOrder(
		c.EXPECT().
			DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]rueidis.RedisResult{
				mock.Result(mock.RedisInt64(4)),
				mock.Result(mock.RedisError("TRYAGAIN")),
			}),
		c.EXPECT().
			DoMulti(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
				return cmd[0] == "HSET" && cmd[1] == "docs:2"
			})).
			Return([]rueidis.RedisResult{mock.Result(mock.RedisInt64(4))}),
	)

	s := NewStoreForTest(c)
	st, err := s.IndexDocuments(context.Background(), "docs", []db.Item{
		{Key: "1", Fields: map[string]string{"id": "1"}},
		{Key: "2", Fields: map[string]string{"id": "2"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !st[0].OK || !st[1].OK {
		t.Errorf("expected both accepted, got %+v", st)
	}
}

func TestIndexDocuments_AllTransientFailsCall(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{mock.ErrorResult(context.DeadlineExceeded)}).
		Times(2)

	s := NewStoreForTest(c)
	_, err := s.IndexDocuments(context.Background(), "docs", []db.Item{{Key: "1", Fields: map[string]string{"id": "1"}}})
	if err == nil || !db.IsTransient(err) {
		t.Fatalf("expected transient call error, got %v", err)
	}
}

func TestBuildCreateArgs_CategoryIsSingleTag(t *testing.T) {
	args := buildCreateArgs(docsIndex())
	for i, a := range args {
		if a != "category" {
			continue
		}
		if i+3 >= len(args) || args[i+1] != "TAG" || args[i+2] != "SEPARATOR" || args[i+3] != tagSeparator {
			t.Fatalf("category field args = %v", args[i:])
		}
		if _, err := filter.NewMatch("category", "AI"+tagSeparator+"ML"); err == nil {
			t.Error("filter accepted a value containing the tag separator")
		}
		return
	}
	t.Fatalf("no category field in %v", args)
}

func TestIndexDocuments_CanceledResultsFailCall(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.ErrorResult(context.Canceled),
			mock.ErrorResult(context.Canceled),
		}).
		Times(1)

	s := NewStoreForTest(c)
	st, err := s.IndexDocuments(context.Background(), "docs", []db.Item{
		{Key: "1", Fields: map[string]string{"id": "1"}},
		{Key: "2", Fields: map[string]string{"id": "2"}},
	})
	if !errors.Is(err, context.Canceled) || !isDBError(err) {
		t.Fatalf("expected canceled call error, got %v", err)
	}
	if st != nil {
		t.Errorf("expected no item statuses, got %+v", st)
	}
}

func TestIndexDocuments_CallerCancelDuringCall(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, ...rueidis.Completed) []rueidis.RedisResult {
			cancel()
			return []rueidis.RedisResult{mock.ErrorResult(errors.New("read: connection reset"))}
		})

	s := NewStoreForTest(c)
	_, err := s.IndexDocuments(ctx, "docs", []db.Item{{Key: "1", Fields: map[string]string{"id": "1"}}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled call error, got %v", err)
	}
}

func TestIndexDocuments_Unauthorized(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{mock.Result(mock.RedisError("NOAUTH Authentication required"))})

	s := NewStoreForTest(c)
	_, err := s.IndexDocuments(context.Background(), "docs", []db.Item{{Key: "1", Fields: map[string]string{"id": "1"}}})
	if !errors.Is(err, db.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestIndexDocuments_Empty(t *testing.T) {
	s := NewStoreForTest(nil)
	st, err := s.IndexDocuments(context.Background(), "docs", nil)
	if err != nil || st != nil {
		t.Fatalf("st=%v err=%v", st, err)
	}
}

// --- search.go tests ---

func TestSearch_KeywordWithCategory(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match(
			"FT.SEARCH", "docs", `@category:{AI} @title|content:(machine | learning)`,
			"RETURN", "2", "id", "title",
			"WITHSCORES", "LIMIT", "0", "5", "DIALECT", "2",
		)).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(1),
			mock.RedisString("docs:11"),
			mock.RedisString("1.75"),
			mock.RedisArray(mock.RedisString("id"), mock.RedisString("11"), mock.RedisString("title"), mock.RedisString("Deep Learning")),
		)))

	cond, _ := filter.NewMatch("category", "AI")
	expr, _ := filter.NewExpression(cond)

	s := NewStoreForTest(c)
	res, err := s.Search(context.Background(), &db.Query{
		IndexName:    "docs",
		Text:         "machine learning",
		SearchFields: []string{"title", "content"},
		Filters:      expr,
		Top:          5,
		ReturnFields: []string{"id", "title"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 1 || len(res.Entries) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	e := res.Entries[0]
	if e.Key != "11" || e.Score != 1.75 || e.Fields["title"] != "Deep Learning" {
		t.Errorf("unexpected entry: %+v", e)
	}
}

func TestSearch_EmptyTextMatchesAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH" && cmd[2] == "*"
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	s := NewStoreForTest(c)
	res, err := s.Search(context.Background(), &db.Query{IndexName: "docs", Top: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 0 || len(res.Entries) != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestSearch_IndexNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(mock.Result(mock.RedisError("docs: no such index")))

	s := NewStoreForTest(c)
	_, err := s.Search(context.Background(), &db.Query{IndexName: "docs", Top: 3})
	if !errors.Is(err, db.ErrIndexNotFound) {
		t.Fatalf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestSearch_Validation(t *testing.T) {
	s := NewStoreForTest(nil)
	if _, err := s.Search(context.Background(), &db.Query{Top: 1}); err == nil {
		t.Error("expected error for missing index")
	}
	if _, err := s.Search(context.Background(), &db.Query{IndexName: "docs", Top: -1}); err == nil {
		t.Error("expected error for negative top")
	}
}

func TestCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.SEARCH", "docs", "*", "LIMIT", "0", "0", "DIALECT", "2")).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(15))))

	s := NewStoreForTest(c)
	n, err := s.Count(context.Background(), "docs")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 15 {
		t.Errorf("count = %d, want 15", n)
	}
}

func TestBuildQuery(t *testing.T) {
	cond, _ := filter.NewMatch("category", "Data Science")
	expr, _ := filter.NewExpression(cond)

	tests := []struct {
		name   string
		text   string
		fields []string
		expr   filter.Expression
		want   string
	}{
		{"match all", "  ", nil, filter.Expression{}, "*"},
		{"text without fields", "azure", nil, filter.Expression{}, "(azure)"},
		{"escapes operators", "c++ -x", []string{"title"}, filter.Expression{}, `@title:(c\+\+ | \-x)`},
		{"filter only", "", nil, expr, `@category:{Data\ Science}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := buildQuery(tc.text, tc.fields, tc.expr); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}
