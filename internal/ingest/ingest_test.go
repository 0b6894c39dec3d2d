package ingest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sylla1511/techtrends/internal/article"
	"github.com/sylla1511/techtrends/internal/config"
	"github.com/sylla1511/techtrends/internal/store"
)

type fakeSource struct {
	name string
	raws []article.Raw
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Fetch(ctx context.Context) []article.Raw { return f.raws }

func testSetup(t *testing.T) (*config.Config, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	cfg := &config.Config{
		Categories: []config.KeywordGroup{
			{Name: "AI", Keywords: []string{"ai", "machine learning"}},
			{Name: "Python", Keywords: []string{"python"}},
		},
	}
	return cfg, st
}

func TestRun(t *testing.T) {
	cfg, st := testSetup(t)

	hn := &fakeSource{name: article.SourceHackerNews, raws: []article.Raw{
		{Title: "AI breakthrough", Source: article.SourceHackerNews, Points: 100},
		{Title: "Shared headline", Source: article.SourceHackerNews},
	}}
	dev := &fakeSource{name: article.SourceDevTo, raws: []article.Raw{
		{Title: "Shared headline", Source: article.SourceDevTo},
		{Title: "Python tricks", Source: article.SourceDevTo},
	}}

	res, err := Run(context.Background(), cfg, st, hn, dev)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Fetched[article.SourceHackerNews] != 2 || res.Fetched[article.SourceDevTo] != 2 {
		t.Errorf("fetched counts: %v", res.Fetched)
	}
	if res.Merged != 3 {
		t.Errorf("merged = %d, want 3 (duplicate title dropped)", res.Merged)
	}
	if res.Inserted != 3 {
		t.Errorf("inserted = %d, want 3", res.Inserted)
	}

	stored, err := st.GetAllArticles(0)
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	byTitle := make(map[string]article.Article)
	for _, a := range stored {
		byTitle[a.Title] = a
	}
	if byTitle["AI breakthrough"].Category != "AI" {
		t.Errorf("categorization did not run: %+v", byTitle["AI breakthrough"])
	}
	// First source wins the duplicated title.
	if byTitle["Shared headline"].Source != article.SourceHackerNews {
		t.Errorf("duplicate resolution: %q", byTitle["Shared headline"].Source)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	cfg, st := testSetup(t)
	src := &fakeSource{name: article.SourceDevTo, raws: []article.Raw{
		{Title: "Python tricks", Source: article.SourceDevTo},
	}}

	if _, err := Run(context.Background(), cfg, st, src); err != nil {
		t.Fatalf("first run: %v", err)
	}
	res, err := Run(context.Background(), cfg, st, src)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if res.Inserted != 0 {
		t.Errorf("second run inserted %d, want 0", res.Inserted)
	}
}

func TestRunEmptySources(t *testing.T) {
	cfg, st := testSetup(t)
	src := &fakeSource{name: article.SourceHackerNews}

	res, err := Run(context.Background(), cfg, st, src)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Merged != 0 || res.Inserted != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestDefaultSources(t *testing.T) {
	cfg := &config.Config{MaxArticlesPerSource: 30}
	cfg.DevTo.Mode = "latest"

	sources := DefaultSources(cfg)
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(sources))
	}
	if sources[0].Name() != article.SourceHackerNews || sources[1].Name() != article.SourceDevTo {
		t.Errorf("unexpected sources: %s, %s", sources[0].Name(), sources[1].Name())
	}
}
