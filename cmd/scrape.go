package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sylla1511/techtrends/internal/ingest"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Fetch articles from all sources and store them",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		res, err := ingest.Run(context.Background(), cfg, st, ingest.DefaultSources(cfg)...)
		if err != nil {
			return fmt.Errorf("ingesting articles: %w", err)
		}

		for name, n := range res.Fetched {
			fmt.Printf("%s: fetched %d articles\n", name, n)
		}
		fmt.Printf("Merged %d unique articles, %d newly stored\n", res.Merged, res.Inserted)
		return nil
	},
}
