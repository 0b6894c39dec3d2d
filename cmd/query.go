package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sylla1511/techtrends/internal/article"
)

var (
	flagLimit    int
	flagSource   string
	flagCategory string
)

var articlesCmd = &cobra.Command{
	Use:   "articles",
	Short: "List stored articles",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		var items []article.Article
		switch {
		case flagSource != "":
			items, err = st.GetArticlesBySource(flagSource, flagLimit)
		case flagCategory != "":
			items, err = st.GetArticlesByCategory(flagCategory, flagLimit)
		default:
			items, err = st.GetAllArticles(flagLimit)
		}
		if err != nil {
			return fmt.Errorf("listing articles: %w", err)
		}
		printArticles(items)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <keyword>",
	Short: "Search articles by keyword in title or description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		items, err := st.SearchArticles(args[0])
		if err != nil {
			return fmt.Errorf("searching articles: %w", err)
		}
		if len(items) == 0 {
			fmt.Printf("No articles matching %q\n", args[0])
			return nil
		}
		printArticles(items)
		return nil
	},
}

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent searches",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		records, err := st.GetSearchHistory(historyLimit)
		if err != nil {
			return fmt.Errorf("reading search history: %w", err)
		}
		if len(records) == 0 {
			fmt.Println("No searches recorded yet")
			return nil
		}
		for _, r := range records {
			fmt.Printf("%s  %q (%d results)\n", r.Timestamp.Format("2006-01-02 15:04"), r.Query, r.ResultsCount)
		}
		return nil
	},
}

func init() {
	articlesCmd.Flags().IntVar(&flagLimit, "limit", 20, "maximum number of articles to show")
	articlesCmd.Flags().StringVar(&flagSource, "source", "", "filter by source name")
	articlesCmd.Flags().StringVar(&flagCategory, "category", "", "filter by category")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "maximum number of history entries")
}

func printArticles(items []article.Article) {
	if len(items) == 0 {
		fmt.Println("No articles found")
		return
	}
	for i, a := range items {
		fmt.Printf("%d. %s\n", i+1, a.Title)
		fmt.Printf("   %s | %s", a.Source, a.Author)
		if a.Category != "" {
			fmt.Printf(" | %s", a.Category)
		}
		if a.PublishedAt != nil {
			fmt.Printf(" | %s", a.PublishedAt.Format(time.DateOnly))
		}
		fmt.Println()
		if stats := articleStats(a); stats != "" {
			fmt.Printf("   %s\n", stats)
		}
		if a.URL != "" {
			fmt.Printf("   %s\n", a.URL)
		}
	}
}

func articleStats(a article.Article) string {
	var parts []string
	if a.Points > 0 {
		parts = append(parts, fmt.Sprintf("%d points", a.Points))
	}
	if a.Reactions > 0 {
		parts = append(parts, fmt.Sprintf("%d reactions", a.Reactions))
	}
	if a.Comments > 0 {
		parts = append(parts, fmt.Sprintf("%d comments", a.Comments))
	}
	if a.ReadingTime > 0 {
		parts = append(parts, fmt.Sprintf("%d min read", a.ReadingTime))
	}
	return strings.Join(parts, ", ")
}
