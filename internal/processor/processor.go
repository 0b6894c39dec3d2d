// Package processor turns raw adapter output into canonical articles and
// derives analytics over them: merge with deduplication, keyword-scored
// categorization, trending terms, top-N rankings and summary statistics.
//
// Every operation is total over well-formed input: malformed dates and
// numbers degrade to nil/zero, and empty input always yields an empty,
// well-typed result.
package processor

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/sylla1511/techtrends/internal/article"
	"github.com/sylla1511/techtrends/internal/config"
)

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "from": true, "as": true, "is": true,
	"was": true, "are": true, "were": true, "be": true, "been": true,
	"being": true, "have": true, "has": true, "had": true, "do": true,
	"does": true, "did": true, "will": true, "would": true, "should": true,
	"could": true, "may": true, "might": true, "can": true, "this": true,
	"that": true, "these": true, "those": true, "i": true, "you": true,
	"he": true, "she": true, "it": true, "we": true, "they": true,
}

// Keyword is one extracted term with its frequency.
type Keyword struct {
	Term  string
	Count int
}

// Normalize converts raw adapter records into canonical articles. Dates
// that do not parse become nil, negative counters are clamped to zero and
// a blank author becomes "Unknown".
func Normalize(raws []article.Raw) []article.Article {
	articles := make([]article.Article, 0, len(raws))
	for _, r := range raws {
		author := strings.TrimSpace(r.Author)
		if author == "" {
			author = "Unknown"
		}
		articles = append(articles, article.Article{
			Title:       strings.TrimSpace(r.Title),
			URL:         r.URL,
			Source:      r.Source,
			Author:      author,
			Description: r.Description,
			PublishedAt: parseTime(r.PublishedAt),
			ScrapedAt:   parseTime(r.ScrapedAt),
			Points:      clamp(r.Points),
			Comments:    clamp(r.Comments),
			Reactions:   clamp(r.Reactions),
			ReadingTime: clamp(r.ReadingTime),
			Tags:        r.Tags,
		})
	}
	return articles
}

// parseTime accepts the timestamp layouts the two sources emit.
func parseTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// Merge concatenates the given article lists preserving their order and
// drops rows whose title was already seen (first occurrence wins).
func Merge(lists ...[]article.Article) []article.Article {
	var merged []article.Article
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, a := range list {
			if seen[a.Title] {
				continue
			}
			seen[a.Title] = true
			merged = append(merged, a)
		}
	}
	return merged
}

// CategoryFor scores each keyword group by counting how many of its phrases
// occur in the lower-cased title. The highest score wins; ties go to the
// group configured first. A title with no hits gets "Other".
func CategoryFor(title string, groups []config.KeywordGroup) string {
	t := strings.ToLower(title)

	best := article.CategoryOther
	bestScore := 0
	for _, g := range groups {
		score := 0
		for _, kw := range g.Keywords {
			if strings.Contains(t, strings.ToLower(kw)) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = g.Name
		}
	}
	return best
}

// Categorize assigns a category to every article from its title.
func Categorize(articles []article.Article, groups []config.KeywordGroup) {
	for i := range articles {
		articles[i].Category = CategoryFor(articles[i].Title, groups)
	}
}

// ExtractKeywords returns the topN most frequent terms of text, skipping
// stop-words and tokens of three characters or fewer. Terms with equal
// counts keep their first-encountered order.
func ExtractKeywords(text string, topN int) []Keyword {
	if text == "" || topN <= 0 {
		return nil
	}

	text = strings.ToLower(text)
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	counts := make(map[string]int)
	var order []string
	for _, w := range strings.Fields(b.String()) {
		if stopWords[w] || len([]rune(w)) <= 3 {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	keywords := make([]Keyword, 0, len(order))
	for _, w := range order {
		keywords = append(keywords, Keyword{Term: w, Count: counts[w]})
	}
	sort.SliceStable(keywords, func(i, j int) bool {
		return keywords[i].Count > keywords[j].Count
	})

	if len(keywords) > topN {
		keywords = keywords[:topN]
	}
	return keywords
}

// TrendingTopics extracts the topN keywords from the named text column
// ("title" or "description") across all articles. An unknown column yields
// an empty result.
func TrendingTopics(articles []article.Article, column string, topN int) []Keyword {
	var parts []string
	for _, a := range articles {
		var v string
		switch column {
		case "title":
			v = a.Title
		case "description":
			v = a.Description
		default:
			return nil
		}
		if v != "" {
			parts = append(parts, v)
		}
	}
	return ExtractKeywords(strings.Join(parts, " "), topN)
}

// metricValue reads the named numeric column, reporting whether it exists.
func metricValue(a article.Article, metric string) (int, bool) {
	switch metric {
	case "points":
		return a.Points, true
	case "comments":
		return a.Comments, true
	case "reactions":
		return a.Reactions, true
	case "reading_time":
		return a.ReadingTime, true
	}
	return 0, false
}

// TopArticles returns the topN articles by descending value of the named
// metric. Equal values keep their original row order. An unknown metric
// yields an empty result.
func TopArticles(articles []article.Article, metric string, topN int) []article.Article {
	if len(articles) == 0 || topN <= 0 {
		return nil
	}
	if _, ok := metricValue(article.Article{}, metric); !ok {
		return nil
	}

	sorted := make([]article.Article, len(articles))
	copy(sorted, articles)
	sort.SliceStable(sorted, func(i, j int) bool {
		vi, _ := metricValue(sorted[i], metric)
		vj, _ := metricValue(sorted[j], metric)
		return vi > vj
	})

	if len(sorted) > topN {
		sorted = sorted[:topN]
	}
	return sorted
}

// Statistics summarizes an in-memory article list: totals, per-source and
// per-category counts, mean/median/max points and mean/sum of reactions
// and comments. Empty input yields an empty map.
func Statistics(articles []article.Article) map[string]any {
	stats := make(map[string]any)
	if len(articles) == 0 {
		return stats
	}

	stats["total_articles"] = len(articles)

	sources := make(map[string]int)
	categories := make(map[string]int)
	points := make([]int, 0, len(articles))
	var pointsSum, reactionsSum, commentsSum, maxPoints int
	for _, a := range articles {
		if a.Source != "" {
			sources[a.Source]++
		}
		if a.Category != "" {
			categories[a.Category]++
		}
		points = append(points, a.Points)
		pointsSum += a.Points
		reactionsSum += a.Reactions
		commentsSum += a.Comments
		if a.Points > maxPoints {
			maxPoints = a.Points
		}
	}
	stats["sources"] = sources
	if len(categories) > 0 {
		stats["categories"] = categories
	}

	n := float64(len(articles))
	stats["avg_points"] = float64(pointsSum) / n
	stats["median_points"] = median(points)
	stats["max_points"] = maxPoints
	stats["avg_reactions"] = float64(reactionsSum) / n
	stats["total_reactions"] = reactionsSum
	stats["avg_comments"] = float64(commentsSum) / n
	stats["total_comments"] = commentsSum

	return stats
}

func median(values []int) float64 {
	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return float64(sorted[mid-1]+sorted[mid]) / 2
	}
	return float64(sorted[mid])
}
