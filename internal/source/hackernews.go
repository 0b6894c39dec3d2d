// Package source holds the per-provider adapters. Each adapter fetches one
// external source and emits raw article records in the source's native
// shape, with defaults filled in for every field the processor expects.
// Adapters never return errors from their public entry point: a fetch or
// parse failure is logged and degrades to an empty (or shorter) result.
package source

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/sylla1511/techtrends/internal/article"
)

const hackerNewsBaseURL = "https://news.ycombinator.com/"

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

// HackerNews scrapes the Hacker News front page.
type HackerNews struct {
	baseURL     string
	maxArticles int
	delay       time.Duration
	client      *http.Client
}

// NewHackerNews builds a scraper capped at maxArticles stories, sleeping
// delay after each scrape to respect the site's informal rate expectations.
func NewHackerNews(maxArticles int, delay, timeout time.Duration) *HackerNews {
	return &HackerNews{
		baseURL:     hackerNewsBaseURL,
		maxArticles: maxArticles,
		delay:       delay,
		client:      &http.Client{Timeout: timeout},
	}
}

func (h *HackerNews) Name() string { return article.SourceHackerNews }

// Fetch scrapes the front page. It always returns a (possibly empty)
// slice: a request or document failure is logged, individual stories that
// fail to parse are skipped.
func (h *HackerNews) Fetch(ctx context.Context) []article.Raw {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL, nil)
	if err != nil {
		log.Printf("hackernews: building request: %v", err)
		return nil
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		log.Printf("hackernews: fetching front page: %v", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("hackernews: unexpected status %d", resp.StatusCode)
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		log.Printf("hackernews: parsing front page: %v", err)
		return nil
	}

	raws := h.parse(doc)

	// One politeness delay per scrape run.
	if h.delay > 0 {
		select {
		case <-time.After(h.delay):
		case <-ctx.Done():
		}
	}
	return raws
}

func (h *HackerNews) parse(doc *goquery.Document) []article.Raw {
	titles := doc.Find("span.titleline")
	subtexts := doc.Find("td.subtext")
	now := time.Now().Format(time.RFC3339)

	var raws []article.Raw
	titles.EachWithBreak(func(i int, title *goquery.Selection) bool {
		if len(raws) >= h.maxArticles || i >= subtexts.Length() {
			return false
		}
		subtext := subtexts.Eq(i)

		link := title.Find("a").First()
		if link.Length() == 0 {
			return true
		}
		titleText := strings.TrimSpace(link.Text())
		if titleText == "" {
			log.Printf("hackernews: story %d has no title, skipping", i)
			return true
		}

		url := link.AttrOr("href", "")
		// Internal comment-page links are relative to the site root.
		if strings.HasPrefix(url, "item?id=") {
			url = h.baseURL + url
		}

		raws = append(raws, article.Raw{
			Title:     titleText,
			URL:       url,
			Source:    article.SourceHackerNews,
			Author:    authorOf(subtext),
			Points:    pointsOf(subtext),
			Comments:  commentsOf(subtext),
			ScrapedAt: now,
			Tags:      []string{},
		})
		return true
	})

	return raws
}

// pointsOf parses the leading integer of the score span ("123 points").
// Absence or a parse failure counts as zero.
func pointsOf(subtext *goquery.Selection) int {
	text := strings.TrimSpace(subtext.Find("span.score").Text())
	if text == "" {
		return 0
	}
	return leadingInt(text)
}

// commentsOf parses the last subtext link when its text mentions
// "comment" ("45 comments"); anything else means zero.
func commentsOf(subtext *goquery.Selection) int {
	links := subtext.Find("a")
	if links.Length() == 0 {
		return 0
	}
	last := strings.TrimSpace(links.Eq(links.Length() - 1).Text())
	if !strings.Contains(last, "comment") {
		return 0
	}
	return leadingInt(last)
}

func authorOf(subtext *goquery.Selection) string {
	author := strings.TrimSpace(subtext.Find("a.hnuser").Text())
	if author == "" {
		return "Unknown"
	}
	return author
}

func leadingInt(text string) int {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 0 {
		return 0
	}
	return n
}
