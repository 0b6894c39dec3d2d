// Package api is the thin HTTP read surface over the store and processor.
// Handlers are pass-through: they parse a couple of query parameters, call
// the store, and render JSON. A read failure is logged and rendered as an
// empty collection so the endpoint never errors out on a degraded store.
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/sylla1511/techtrends/internal/article"
	"github.com/sylla1511/techtrends/internal/processor"
	"github.com/sylla1511/techtrends/internal/store"
)

// statsWindow caps how many rows feed the processor-level statistics and
// trending endpoints, mirroring the bound the dashboard uses.
const statsWindow = 500

type Server struct {
	store *store.Store
}

func NewServer(st *store.Store) *Server {
	return &Server{store: st}
}

// Router wires all read endpoints.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/articles", s.handleArticles).Methods(http.MethodGet)
	r.HandleFunc("/api/articles/source/{source}", s.handleArticlesBySource).Methods(http.MethodGet)
	r.HandleFunc("/api/articles/category/{category}", s.handleArticlesByCategory).Methods(http.MethodGet)
	r.HandleFunc("/api/search", s.handleSearch).Methods(http.MethodGet)
	r.HandleFunc("/api/trending", s.handleTrending).Methods(http.MethodGet)
	r.HandleFunc("/api/stats", s.handleStats).Methods(http.MethodGet)
	r.HandleFunc("/api/history", s.handleHistory).Methods(http.MethodGet)
	return r
}

// articleJSON is the wire shape of one article.
type articleJSON struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Source      string   `json:"source"`
	Author      string   `json:"author"`
	Description string   `json:"description"`
	PublishedAt string   `json:"published_at,omitempty"`
	ScrapedAt   string   `json:"scraped_at,omitempty"`
	Points      int      `json:"points"`
	Comments    int      `json:"comments"`
	Reactions   int      `json:"reactions"`
	ReadingTime int      `json:"reading_time"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
}

func toJSON(articles []article.Article) []articleJSON {
	out := make([]articleJSON, 0, len(articles))
	for _, a := range articles {
		j := articleJSON{
			ID:          a.ID,
			Title:       a.Title,
			URL:         a.URL,
			Source:      a.Source,
			Author:      a.Author,
			Description: a.Description,
			Points:      a.Points,
			Comments:    a.Comments,
			Reactions:   a.Reactions,
			ReadingTime: a.ReadingTime,
			Category:    a.Category,
			Tags:        a.Tags,
		}
		if j.Tags == nil {
			j.Tags = []string{}
		}
		if a.PublishedAt != nil {
			j.PublishedAt = a.PublishedAt.Format(time.RFC3339)
		}
		if a.ScrapedAt != nil {
			j.ScrapedAt = a.ScrapedAt.Format(time.RFC3339)
		}
		out = append(out, j)
	}
	return out
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: encoding response: %v", err)
	}
}

func limitParam(r *http.Request, fallback int) int {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleArticles(w http.ResponseWriter, r *http.Request) {
	articles, err := s.store.GetAllArticles(limitParam(r, 50))
	if err != nil {
		log.Printf("api: listing articles: %v", err)
	}
	writeJSON(w, toJSON(articles))
}

func (s *Server) handleArticlesBySource(w http.ResponseWriter, r *http.Request) {
	articles, err := s.store.GetArticlesBySource(mux.Vars(r)["source"], limitParam(r, 50))
	if err != nil {
		log.Printf("api: listing by source: %v", err)
	}
	writeJSON(w, toJSON(articles))
}

func (s *Server) handleArticlesByCategory(w http.ResponseWriter, r *http.Request) {
	articles, err := s.store.GetArticlesByCategory(mux.Vars(r)["category"], limitParam(r, 50))
	if err != nil {
		log.Printf("api: listing by category: %v", err)
	}
	writeJSON(w, toJSON(articles))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	articles, err := s.store.SearchArticles(r.URL.Query().Get("q"))
	if err != nil {
		log.Printf("api: searching: %v", err)
	}
	writeJSON(w, toJSON(articles))
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	top := 20
	if v := r.URL.Query().Get("top"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			top = n
		}
	}
	column := r.URL.Query().Get("column")
	if column == "" {
		column = "title"
	}

	articles, err := s.store.GetAllArticles(statsWindow)
	if err != nil {
		log.Printf("api: loading trending window: %v", err)
	}

	keywords := processor.TrendingTopics(articles, column, top)
	type topic struct {
		Term  string `json:"term"`
		Count int    `json:"count"`
	}
	topics := make([]topic, 0, len(keywords))
	for _, k := range keywords {
		topics = append(topics, topic{Term: k.Term, Count: k.Count})
	}
	writeJSON(w, topics)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Statistics()
	if err != nil {
		log.Printf("api: reading stats: %v", err)
	}
	writeJSON(w, stats)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.GetSearchHistory(limitParam(r, 10))
	if err != nil {
		log.Printf("api: reading history: %v", err)
	}
	type record struct {
		Query        string `json:"query"`
		Timestamp    string `json:"timestamp"`
		ResultsCount int    `json:"results_count"`
	}
	out := make([]record, 0, len(records))
	for _, rec := range records {
		out = append(out, record{
			Query:        rec.Query,
			Timestamp:    rec.Timestamp.Format(time.RFC3339),
			ResultsCount: rec.ResultsCount,
		})
	}
	writeJSON(w, out)
}
