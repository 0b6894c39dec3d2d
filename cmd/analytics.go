package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sylla1511/techtrends/internal/processor"
	"github.com/sylla1511/techtrends/internal/summary"
)

// analyticsWindow bounds how many recent articles feed the in-memory
// analytics commands.
const analyticsWindow = 500

var (
	trendingTop    int
	trendingColumn string
	topMetric      string
	topN           int
)

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Show the most frequent terms across stored articles",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		articles, err := st.GetAllArticles(analyticsWindow)
		if err != nil {
			return fmt.Errorf("loading articles: %w", err)
		}
		keywords := processor.TrendingTopics(articles, trendingColumn, trendingTop)
		if len(keywords) == 0 {
			fmt.Println("No trending topics found")
			return nil
		}
		for i, kw := range keywords {
			fmt.Printf("%2d. %s (%d)\n", i+1, kw.Term, kw.Count)
		}
		return nil
	},
}

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Rank stored articles by a numeric metric",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		articles, err := st.GetAllArticles(analyticsWindow)
		if err != nil {
			return fmt.Errorf("loading articles: %w", err)
		}
		ranked := processor.TopArticles(articles, topMetric, topN)
		if len(ranked) == 0 {
			fmt.Printf("No articles to rank by %q\n", topMetric)
			return nil
		}
		printArticles(ranked)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		s, err := st.Statistics()
		if err != nil {
			return fmt.Errorf("reading statistics: %w", err)
		}

		fmt.Printf("Total articles: %d\n", s.TotalArticles)
		printCounts("By source", s.BySource)
		printCounts("By category", s.ByCategory)
		if s.LatestArticleDate != nil {
			fmt.Printf("Latest article: %s\n", s.LatestArticleDate.Format(time.DateOnly))
		}
		return nil
	},
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize <keyword>",
	Short: "Summarize articles matching a keyword",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		articles, err := st.SearchArticles(args[0])
		if err != nil {
			return fmt.Errorf("searching articles: %w", err)
		}
		if len(articles) == 0 {
			fmt.Printf("No articles matching %q\n", args[0])
			return nil
		}

		var b strings.Builder
		for _, a := range articles {
			b.WriteString(a.Title)
			if a.Description != "" {
				b.WriteString(": ")
				b.WriteString(a.Description)
			}
			b.WriteString("\n")
		}

		client := summary.New(cfg.SummarizerKey(), cfg.Summarizer.Model, cfg.Summarizer.MaxWords)
		text, err := client.Summarize(context.Background(), b.String())
		if err != nil {
			return fmt.Errorf("summarizing: %w", err)
		}
		fmt.Println(text)
		return nil
	},
}

func init() {
	trendingCmd.Flags().IntVar(&trendingTop, "top", 10, "number of terms to show")
	trendingCmd.Flags().StringVar(&trendingColumn, "column", "title", "text column to analyze (title or description)")
	topCmd.Flags().StringVar(&topMetric, "metric", "points", "metric to rank by (points, comments, reactions, reading_time)")
	topCmd.Flags().IntVar(&topN, "top", 5, "number of articles to show")
}

func printCounts(label string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Printf("%s:\n", label)
	for _, k := range keys {
		fmt.Printf("  %s: %d\n", k, counts[k])
	}
}
