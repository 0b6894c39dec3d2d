// Package ingest runs the scraping pipeline: fetch each source in turn,
// normalize and merge the raw records, categorize them, and persist the
// result. Sources are pulled sequentially; one unreachable source never
// aborts the run.
package ingest

import (
	"context"

	"github.com/sylla1511/techtrends/internal/article"
	"github.com/sylla1511/techtrends/internal/config"
	"github.com/sylla1511/techtrends/internal/processor"
	"github.com/sylla1511/techtrends/internal/source"
	"github.com/sylla1511/techtrends/internal/store"
)

// Source is one external article provider. Fetch never returns an error:
// adapters degrade to an empty slice on failure.
type Source interface {
	Name() string
	Fetch(ctx context.Context) []article.Raw
}

// Result reports what one pipeline run did.
type Result struct {
	Fetched  map[string]int
	Merged   int
	Inserted int
}

// Run executes the pipeline once over the given sources.
func Run(ctx context.Context, cfg *config.Config, st *store.Store, sources ...Source) (Result, error) {
	result := Result{Fetched: make(map[string]int)}

	lists := make([][]article.Article, 0, len(sources))
	for _, src := range sources {
		raws := src.Fetch(ctx)
		result.Fetched[src.Name()] = len(raws)
		lists = append(lists, processor.Normalize(raws))
	}

	merged := processor.Merge(lists...)
	processor.Categorize(merged, cfg.Categories)
	result.Merged = len(merged)

	inserted, err := st.InsertArticles(merged)
	if err != nil {
		return result, err
	}
	result.Inserted = inserted
	return result, nil
}

// DefaultSources builds the two production adapters from config.
func DefaultSources(cfg *config.Config) []Source {
	return []Source{
		source.NewHackerNews(
			cfg.MaxArticlesPerSource,
			cfg.ScrapingDelayDuration(),
			cfg.RequestTimeoutDuration(),
		),
		source.NewDevTo(
			cfg.MaxArticlesPerSource,
			cfg.RequestTimeoutDuration(),
			cfg.DevTo.Mode,
			cfg.DevTo.Tag,
		),
	}
}
