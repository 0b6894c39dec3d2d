package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sylla1511/techtrends/internal/article"
)

const sampleFrontPage = `
<html><body><table>
<tr class="athing">
  <td><span class="titleline"><a href="https://example.com/story1">First Story</a></span></td>
</tr>
<tr>
  <td class="subtext">
    <span class="score">123 points</span> by <a class="hnuser">alice</a>
    | <a href="item?id=1">45&nbsp;comments</a>
  </td>
</tr>
<tr class="athing">
  <td><span class="titleline"><a href="item?id=2">Ask HN: Second Story</a></span></td>
</tr>
<tr>
  <td class="subtext">
    <span class="score">7 points</span> by <a class="hnuser">bob</a>
    | <a href="item?id=2">discuss</a>
  </td>
</tr>
<tr class="athing">
  <td><span class="titleline"><a href="https://example.com/story3">Third Story</a></span></td>
</tr>
<tr>
  <td class="subtext">
    <a href="item?id=3">hide</a>
  </td>
</tr>
</table></body></html>`

func testHackerNews(t *testing.T, html string, maxArticles int) *HackerNews {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(html))
	}))
	t.Cleanup(srv.Close)

	h := NewHackerNews(maxArticles, 0, 5*time.Second)
	h.baseURL = srv.URL + "/"
	return h
}

func TestHackerNewsFetch(t *testing.T) {
	h := testHackerNews(t, sampleFrontPage, 30)

	got := h.Fetch(context.Background())
	if len(got) != 3 {
		t.Fatalf("expected 3 stories, got %d", len(got))
	}

	first := got[0]
	if first.Title != "First Story" {
		t.Errorf("title = %q", first.Title)
	}
	if first.URL != "https://example.com/story1" {
		t.Errorf("url = %q", first.URL)
	}
	if first.Source != article.SourceHackerNews {
		t.Errorf("source = %q", first.Source)
	}
	if first.Author != "alice" {
		t.Errorf("author = %q", first.Author)
	}
	if first.Points != 123 {
		t.Errorf("points = %d", first.Points)
	}
	if first.Comments != 45 {
		t.Errorf("comments = %d", first.Comments)
	}
	if first.ScrapedAt == "" {
		t.Error("scraped_at should be set")
	}
}

func TestHackerNewsResolvesInternalLinks(t *testing.T) {
	h := testHackerNews(t, sampleFrontPage, 30)

	got := h.Fetch(context.Background())
	if len(got) < 2 {
		t.Fatalf("expected at least 2 stories, got %d", len(got))
	}
	want := h.baseURL + "item?id=2"
	if got[1].URL != want {
		t.Errorf("expected internal link resolved to %q, got %q", want, got[1].URL)
	}
	// The last subtext link says "discuss", not "N comments".
	if got[1].Comments != 0 {
		t.Errorf("expected 0 comments, got %d", got[1].Comments)
	}
}

func TestHackerNewsDefaults(t *testing.T) {
	h := testHackerNews(t, sampleFrontPage, 30)

	got := h.Fetch(context.Background())
	if len(got) != 3 {
		t.Fatalf("expected 3 stories, got %d", len(got))
	}
	// Third story has no score and no hnuser link.
	third := got[2]
	if third.Points != 0 {
		t.Errorf("missing score should be 0, got %d", third.Points)
	}
	if third.Author != "Unknown" {
		t.Errorf("missing author should be Unknown, got %q", third.Author)
	}
}

func TestHackerNewsMaxArticles(t *testing.T) {
	h := testHackerNews(t, sampleFrontPage, 2)

	got := h.Fetch(context.Background())
	if len(got) != 2 {
		t.Errorf("expected cap at 2 stories, got %d", len(got))
	}
}

func TestHackerNewsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	h := NewHackerNews(30, 0, 5*time.Second)
	h.baseURL = srv.URL + "/"

	if got := h.Fetch(context.Background()); got != nil {
		t.Errorf("expected nil on server error, got %d stories", len(got))
	}
}

func TestLeadingInt(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"123 points", 123},
		{"1 point", 1},
		{"discuss", 0},
		{"", 0},
		{"-5 points", 0},
	}
	for _, c := range cases {
		if got := leadingInt(c.in); got != c.want {
			t.Errorf("leadingInt(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}
