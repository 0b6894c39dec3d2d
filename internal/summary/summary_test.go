package summary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSummarizeWithoutKey(t *testing.T) {
	c := New("", "", 0)
	if c.Enabled() {
		t.Error("client without key should be disabled")
	}

	got, err := c.Summarize(context.Background(), "short text")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if got != "short text" {
		t.Errorf("short text should pass through, got %q", got)
	}

	long := strings.Repeat("x", 200)
	got, err = c.Summarize(context.Background(), long)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if len([]rune(got)) != 153 || !strings.HasSuffix(got, "...") {
		t.Errorf("long text should truncate to a preview, got %d runes", len([]rune(got)))
	}
}

func TestSummarizeEmptyText(t *testing.T) {
	c := New("key", "", 0)
	got, err := c.Summarize(context.Background(), "   ")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if got != "Nothing to summarize." {
		t.Errorf("got %q", got)
	}
}

func TestSummarizeCallsAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}
		w.Write([]byte(`{"choices":[{"message":{"content":" A tidy summary. "}}]}`))
	}))
	defer srv.Close()

	c := New("test-key", "gpt-4o-mini", 100)
	c.endpoint = srv.URL

	got, err := c.Summarize(context.Background(), "article text")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if got != "A tidy summary." {
		t.Errorf("got %q", got)
	}
}

func TestSummarizeAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New("test-key", "", 0)
	c.endpoint = srv.URL

	if _, err := c.Summarize(context.Background(), "article text"); err == nil {
		t.Error("expected error on non-200 response")
	}
}

func TestPreview(t *testing.T) {
	if got := Preview("hello", 10); got != "hello" {
		t.Errorf("got %q", got)
	}
	if got := Preview("hello world", 5); got != "hello..." {
		t.Errorf("got %q", got)
	}
}
