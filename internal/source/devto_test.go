package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/sylla1511/techtrends/internal/article"
)

const sampleDevToPayload = `[
  {
    "title": "Understanding Go interfaces",
    "description": "A practical guide",
    "url": "https://dev.to/alice/go-interfaces",
    "published_at": "2024-03-01T10:00:00Z",
    "tag_list": ["go", "tutorial"],
    "positive_reactions_count": 42,
    "comments_count": 7,
    "reading_time_minutes": 6,
    "user": {"name": "Alice"}
  },
  {
    "title": "Minimal article"
  }
]`

func testDevTo(t *testing.T, payload string, mode, tag string) (*DevTo, *url.Values) {
	t.Helper()
	var seen url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)

	d := NewDevTo(50, 5*time.Second, mode, tag)
	d.baseURL = srv.URL
	return d, &seen
}

func TestDevToFetchMapping(t *testing.T) {
	d, _ := testDevTo(t, sampleDevToPayload, "latest", "")

	got := d.Fetch(context.Background())
	if len(got) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(got))
	}

	a := got[0]
	if a.Title != "Understanding Go interfaces" {
		t.Errorf("title = %q", a.Title)
	}
	if a.Source != article.SourceDevTo {
		t.Errorf("source = %q", a.Source)
	}
	if a.Author != "Alice" {
		t.Errorf("author = %q", a.Author)
	}
	if a.Reactions != 42 || a.Comments != 7 || a.ReadingTime != 6 {
		t.Errorf("counters: reactions=%d comments=%d reading=%d", a.Reactions, a.Comments, a.ReadingTime)
	}
	if len(a.Tags) != 2 || a.Tags[0] != "go" {
		t.Errorf("tags = %v", a.Tags)
	}
	if a.PublishedAt != "2024-03-01T10:00:00Z" {
		t.Errorf("published_at = %q", a.PublishedAt)
	}
}

func TestDevToMissingFieldsDefault(t *testing.T) {
	d, _ := testDevTo(t, sampleDevToPayload, "latest", "")

	got := d.Fetch(context.Background())
	if len(got) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(got))
	}
	minimal := got[1]
	if minimal.Author != "Unknown" {
		t.Errorf("missing user should default to Unknown, got %q", minimal.Author)
	}
	if minimal.Reactions != 0 || minimal.Comments != 0 || minimal.ReadingTime != 0 {
		t.Errorf("missing counters should be 0: %+v", minimal)
	}
	if minimal.Tags == nil {
		t.Error("tags should be an empty slice, not nil")
	}
	if minimal.ScrapedAt == "" {
		t.Error("scraped_at should be set")
	}
}

func TestDevToModeParams(t *testing.T) {
	cases := []struct {
		mode string
		tag  string
		key  string
		want string
	}{
		{"latest", "", "state", "fresh"},
		{"top", "", "top", "15"},
		{"tag", "golang", "tag", "golang"},
	}
	for _, c := range cases {
		d, seen := testDevTo(t, "[]", c.mode, c.tag)
		d.Fetch(context.Background())
		if got := seen.Get(c.key); got != c.want {
			t.Errorf("mode %q: param %s = %q, want %q", c.mode, c.key, got, c.want)
		}
	}
}

func TestDevToPerPageCap(t *testing.T) {
	d, seen := testDevTo(t, "[]", "latest", "")

	d.Latest(context.Background(), 500, 1)
	if got := seen.Get("per_page"); got != "50" {
		t.Errorf("per_page should cap at maxArticles, got %q", got)
	}

	d.Latest(context.Background(), 10, 1)
	if got := seen.Get("per_page"); got != "10" {
		t.Errorf("per_page = %q, want 10", got)
	}
}

func TestDevToServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	d := NewDevTo(50, 5*time.Second, "latest", "")
	d.baseURL = srv.URL

	if got := d.Fetch(context.Background()); got != nil {
		t.Errorf("expected nil on server error, got %d articles", len(got))
	}
}

func TestDevToMalformedPayload(t *testing.T) {
	d, _ := testDevTo(t, "{not json", "latest", "")

	if got := d.Fetch(context.Background()); got != nil {
		t.Errorf("expected nil on decode failure, got %d articles", len(got))
	}
}
