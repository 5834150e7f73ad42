package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/kailas-cloud/patentcompass/internal/app"
	searchuc "github.com/kailas-cloud/patentcompass/internal/usecase/search"
)

func cmdSearch(st *state) *cli.Command {
	var k int

	return &cli.Command{
		Name:      "search",
		Aliases:   []string{"s"},
		Usage:     "Run one query against the corpus and print the ranked patents",
		ArgsUsage: "[query]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "k",
				Usage:       "number of results (default: search.default_k)",
				Value:       -1,
				Destination: &k,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			query := strings.Join(c.Args().Slice(), " ")
			if strings.TrimSpace(query) == "" {
				query = st.cfg.Search.DefaultQuery
			}
			if k < 0 {
				k = st.cfg.Search.DefaultK
			}

			store, err := app.ConnectCache(ctx, st.cfg.Cache)
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}

			embedder := app.BuildEmbedder(st.cfg.Embedding, st.cfg.Cache, store, st.logger)
			cat := app.BuildCatalog(st.cfg.Corpus, embedder, st.logger)
			svc := searchuc.New(cat, embedder).WithMaxK(st.cfg.Search.MaxK)

			results, err := svc.Search(ctx, query, k)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}

			st.printf("query: %s\n", query)
			if len(results) == 0 {
				st.printf("no results\n")
				return nil
			}
			for i := range results {
				r := &results[i]
				rec := r.Record()
				st.printf("%d. %-16s %7.2f%%  %s\n", i+1, r.ID(), r.Score()*100, rec.Title())
			}
			return nil
		},
	}
}
