// Package store persists canonical articles and the search-history log in
// SQLite. Writes are idempotent: the schema carries uniqueness constraints
// on (title, source) and url, and inserts that collide with either are
// skipped, never raised.
package store

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sylla1511/techtrends/internal/article"
)

const timeLayout = time.RFC3339

type Store struct {
	db *sql.DB
}

// Open creates the database file (and its directory) if needed and ensures
// the schema exists. Safe to call on every startup.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS articles (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			title        TEXT NOT NULL,
			url          TEXT UNIQUE,
			source       TEXT NOT NULL,
			author       TEXT,
			description  TEXT,
			published_at TEXT,
			scraped_at   TEXT,
			points       INTEGER DEFAULT 0,
			comments     INTEGER DEFAULT 0,
			reactions    INTEGER DEFAULT 0,
			reading_time INTEGER DEFAULT 0,
			category     TEXT,
			tags         TEXT,
			UNIQUE(title, source)
		);
		CREATE INDEX IF NOT EXISTS idx_articles_source ON articles(source);
		CREATE INDEX IF NOT EXISTS idx_articles_category ON articles(category);
		CREATE INDEX IF NOT EXISTS idx_articles_published_at ON articles(published_at);

		CREATE TABLE IF NOT EXISTS search_history (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			query         TEXT NOT NULL,
			timestamp     TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			results_count INTEGER
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(timeLayout)
}

// nullableString maps "" to NULL so the url uniqueness constraint only
// applies when a url is actually present.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// InsertArticles persists the given articles, skipping any row that would
// violate a uniqueness constraint. It returns the number of genuinely new
// rows. A row that fails to insert for any other reason is logged and
// skipped; the batch continues. A failure around the transaction itself
// rolls everything back and reports zero.
func (s *Store) InsertArticles(articles []article.Article) (int, error) {
	if len(articles) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO articles
		(title, url, source, author, description, published_at, scraped_at,
		 points, comments, reactions, reading_time, category, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, a := range articles {
		res, err := stmt.Exec(
			a.Title,
			nullableString(a.URL),
			a.Source,
			a.Author,
			a.Description,
			formatTime(a.PublishedAt),
			formatTime(a.ScrapedAt),
			a.Points,
			a.Comments,
			a.Reactions,
			a.ReadingTime,
			a.Category,
			strings.Join(a.Tags, ","),
		)
		if err != nil {
			log.Printf("skipping article %q: %v", a.Title, err)
			continue
		}
		n, err := res.RowsAffected()
		if err != nil {
			continue
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing insert: %w", err)
	}
	return inserted, nil
}

const articleColumns = `id, title, url, source, author, description,
	published_at, scraped_at, points, comments, reactions, reading_time,
	category, tags`

func scanArticles(rows *sql.Rows) ([]article.Article, error) {
	var articles []article.Article
	for rows.Next() {
		var (
			a                  article.Article
			url, author, desc  sql.NullString
			published, scraped sql.NullString
			category, tags     sql.NullString
		)
		if err := rows.Scan(
			&a.ID, &a.Title, &url, &a.Source, &author, &desc,
			&published, &scraped, &a.Points, &a.Comments, &a.Reactions,
			&a.ReadingTime, &category, &tags,
		); err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		a.URL = url.String
		a.Author = author.String
		a.Description = desc.String
		a.Category = category.String
		if published.Valid {
			if t, err := time.Parse(timeLayout, published.String); err == nil {
				a.PublishedAt = &t
			}
		}
		if scraped.Valid {
			if t, err := time.Parse(timeLayout, scraped.String); err == nil {
				a.ScrapedAt = &t
			}
		}
		if tags.String != "" {
			a.Tags = strings.Split(tags.String, ",")
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// GetAllArticles returns articles ordered by published_at descending.
// SQLite sorts NULL as the smallest value, so rows without a published
// date land last. limit <= 0 means no limit.
func (s *Store) GetAllArticles(limit int) ([]article.Article, error) {
	query := "SELECT " + articleColumns + " FROM articles ORDER BY published_at DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer rows.Close()
	return scanArticles(rows)
}

func (s *Store) GetArticlesBySource(source string, limit int) ([]article.Article, error) {
	query := "SELECT " + articleColumns + " FROM articles WHERE source = ? ORDER BY published_at DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := s.db.Query(query, source)
	if err != nil {
		return nil, fmt.Errorf("querying articles by source: %w", err)
	}
	defer rows.Close()
	return scanArticles(rows)
}

func (s *Store) GetArticlesByCategory(category string, limit int) ([]article.Article, error) {
	query := "SELECT " + articleColumns + " FROM articles WHERE category = ? ORDER BY published_at DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := s.db.Query(query, category)
	if err != nil {
		return nil, fmt.Errorf("querying articles by category: %w", err)
	}
	defer rows.Close()
	return scanArticles(rows)
}

// SearchArticles matches the keyword case-insensitively against title or
// description, and appends one history row per call with the literal query
// and the result count, even when nothing matched. A blank keyword returns
// an empty result without touching the history.
func (s *Store) SearchArticles(keyword string) ([]article.Article, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, nil
	}

	term := "%" + keyword + "%"
	rows, err := s.db.Query(
		"SELECT "+articleColumns+" FROM articles WHERE title LIKE ? OR description LIKE ? ORDER BY published_at DESC",
		term, term,
	)
	if err != nil {
		return nil, fmt.Errorf("searching articles: %w", err)
	}
	defer rows.Close()

	articles, err := scanArticles(rows)
	if err != nil {
		return nil, err
	}

	if err := s.saveSearch(keyword, len(articles)); err != nil {
		log.Printf("saving search history: %v", err)
	}
	return articles, nil
}

func (s *Store) saveSearch(query string, resultsCount int) error {
	_, err := s.db.Exec(
		"INSERT INTO search_history (query, results_count) VALUES (?, ?)",
		query, resultsCount,
	)
	return err
}

// GetSearchHistory returns the most recent searches first.
func (s *Store) GetSearchHistory(limit int) ([]article.SearchRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		"SELECT id, query, timestamp, results_count FROM search_history ORDER BY timestamp DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying search history: %w", err)
	}
	defer rows.Close()

	var records []article.SearchRecord
	for rows.Next() {
		var r article.SearchRecord
		var ts string
		if err := rows.Scan(&r.ID, &r.Query, &ts, &r.ResultsCount); err != nil {
			return nil, fmt.Errorf("scanning search record: %w", err)
		}
		if t, err := time.Parse("2006-01-02 15:04:05", ts); err == nil {
			r.Timestamp = t
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Stats summarizes the persisted articles.
type Stats struct {
	TotalArticles     int            `json:"total_articles"`
	BySource          map[string]int `json:"by_source"`
	ByCategory        map[string]int `json:"by_category"`
	LatestArticleDate *time.Time     `json:"latest_article_date"`
}

func (s *Store) Statistics() (Stats, error) {
	stats := Stats{
		BySource:   make(map[string]int),
		ByCategory: make(map[string]int),
	}

	if err := s.db.QueryRow("SELECT COUNT(*) FROM articles").Scan(&stats.TotalArticles); err != nil {
		return stats, fmt.Errorf("counting articles: %w", err)
	}

	rows, err := s.db.Query("SELECT source, COUNT(*) FROM articles GROUP BY source")
	if err != nil {
		return stats, fmt.Errorf("counting by source: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var source string
		var count int
		if err := rows.Scan(&source, &count); err != nil {
			return stats, err
		}
		stats.BySource[source] = count
	}
	if err := rows.Err(); err != nil {
		return stats, err
	}

	catRows, err := s.db.Query("SELECT category, COUNT(*) FROM articles WHERE category != '' GROUP BY category")
	if err != nil {
		return stats, fmt.Errorf("counting by category: %w", err)
	}
	defer catRows.Close()
	for catRows.Next() {
		var category string
		var count int
		if err := catRows.Scan(&category, &count); err != nil {
			return stats, err
		}
		stats.ByCategory[category] = count
	}
	if err := catRows.Err(); err != nil {
		return stats, err
	}

	var latest sql.NullString
	if err := s.db.QueryRow("SELECT MAX(published_at) FROM articles").Scan(&latest); err != nil {
		return stats, fmt.Errorf("reading latest date: %w", err)
	}
	if latest.Valid {
		if t, err := time.Parse(timeLayout, latest.String); err == nil {
			stats.LatestArticleDate = &t
		}
	}

	return stats, nil
}
