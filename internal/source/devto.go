package source

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sylla1511/techtrends/internal/article"
)

const devToBaseURL = "https://dev.to/api/articles"

// DevTo fetches articles from the Dev.to JSON API. The mode selects which
// listing Fetch pulls: "latest" (fresh articles), "top" (popular within the
// trailing 15 days) or "tag" (filtered by tag).
type DevTo struct {
	baseURL     string
	maxArticles int
	mode        string
	tag         string
	client      *http.Client
}

func NewDevTo(maxArticles int, timeout time.Duration, mode, tag string) *DevTo {
	return &DevTo{
		baseURL:     devToBaseURL,
		maxArticles: maxArticles,
		mode:        mode,
		tag:         tag,
		client:      &http.Client{Timeout: timeout},
	}
}

func (d *DevTo) Name() string { return article.SourceDevTo }

// devToArticle mirrors the fields of the Dev.to articles payload this
// adapter cares about. Anything absent is defaulted in the mapping.
type devToArticle struct {
	Title                  string   `json:"title"`
	Description            string   `json:"description"`
	URL                    string   `json:"url"`
	PublishedAt            string   `json:"published_at"`
	TagList                []string `json:"tag_list"`
	PositiveReactionsCount int      `json:"positive_reactions_count"`
	CommentsCount          int      `json:"comments_count"`
	ReadingTimeMinutes     int      `json:"reading_time_minutes"`
	User                   *struct {
		Name string `json:"name"`
	} `json:"user"`
}

// Latest returns freshly published articles.
func (d *DevTo) Latest(ctx context.Context, perPage, page int) []article.Raw {
	params := url.Values{}
	params.Set("per_page", strconv.Itoa(d.capPerPage(perPage)))
	params.Set("page", strconv.Itoa(page))
	params.Set("state", "fresh")
	return d.fetch(ctx, params)
}

// ByTag returns articles carrying the given tag.
func (d *DevTo) ByTag(ctx context.Context, tag string, perPage int) []article.Raw {
	params := url.Values{}
	params.Set("per_page", strconv.Itoa(d.capPerPage(perPage)))
	params.Set("tag", tag)
	return d.fetch(ctx, params)
}

// Top returns the most popular articles of the trailing 15 days.
func (d *DevTo) Top(ctx context.Context, perPage int) []article.Raw {
	params := url.Values{}
	params.Set("per_page", strconv.Itoa(d.capPerPage(perPage)))
	params.Set("top", "15")
	return d.fetch(ctx, params)
}

func (d *DevTo) capPerPage(perPage int) int {
	if perPage <= 0 || perPage > d.maxArticles {
		return d.maxArticles
	}
	return perPage
}

// fetch runs one GET against the articles endpoint. Network, status or
// decode failures are logged and yield an empty slice; no error escapes.
func (d *DevTo) fetch(ctx context.Context, params url.Values) []article.Raw {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		log.Printf("devto: building request: %v", err)
		return nil
	}
	req.Header.Set("User-Agent", "TechTrends/1.0")

	resp, err := d.client.Do(req)
	if err != nil {
		log.Printf("devto: fetching articles: %v", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("devto: unexpected status %d", resp.StatusCode)
		return nil
	}

	var payload []devToArticle
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Printf("devto: decoding articles: %v", err)
		return nil
	}

	now := time.Now().Format(time.RFC3339)
	raws := make([]article.Raw, 0, len(payload))
	for _, a := range payload {
		author := "Unknown"
		if a.User != nil && a.User.Name != "" {
			author = a.User.Name
		}
		tags := a.TagList
		if tags == nil {
			tags = []string{}
		}
		raws = append(raws, article.Raw{
			Title:       a.Title,
			URL:         a.URL,
			Source:      article.SourceDevTo,
			Author:      author,
			Description: a.Description,
			PublishedAt: a.PublishedAt,
			ScrapedAt:   now,
			Reactions:   a.PositiveReactionsCount,
			Comments:    a.CommentsCount,
			ReadingTime: a.ReadingTimeMinutes,
			Tags:        tags,
		})
	}
	return raws
}

// Fetch pulls the listing selected by the configured mode.
func (d *DevTo) Fetch(ctx context.Context) []article.Raw {
	switch d.mode {
	case "top":
		return d.Top(ctx, d.maxArticles)
	case "tag":
		return d.ByTag(ctx, d.tag, d.maxArticles)
	default:
		return d.Latest(ctx, d.maxArticles, 1)
	}
}
