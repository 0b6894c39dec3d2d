package article

import "time"

// Article is the canonical, source-agnostic record used for storage and
// analytics. Timestamps are nil when the source did not provide one.
type Article struct {
	ID          int64
	Title       string
	URL         string
	Source      string
	Author      string
	Description string
	PublishedAt *time.Time
	ScrapedAt   *time.Time
	Points      int
	Comments    int
	Reactions   int
	ReadingTime int
	Category    string
	Tags        []string
}

// Raw is what a source adapter emits: the source-native shape with
// string timestamps and best-effort numeric fields. The processor turns
// Raw records into canonical Articles.
type Raw struct {
	Title       string
	URL         string
	Source      string
	Author      string
	Description string
	PublishedAt string
	ScrapedAt   string
	Points      int
	Comments    int
	Reactions   int
	ReadingTime int
	Tags        []string
}

// SearchRecord is one row of the append-only search history log.
type SearchRecord struct {
	ID           int64
	Query        string
	Timestamp    time.Time
	ResultsCount int
}

// Source tags as persisted in the store.
const (
	SourceHackerNews = "HackerNews"
	SourceDevTo      = "Dev.to"
)

// CategoryOther is assigned when no keyword group matches a title.
const CategoryOther = "Other"
