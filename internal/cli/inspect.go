package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/kailas-cloud/patentcompass/internal/domain/patent"
	"github.com/kailas-cloud/patentcompass/internal/repository/tabular"
	"github.com/kailas-cloud/patentcompass/internal/usecase/corpus"
)

type inspectedRecord struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"image_url,omitempty"`
}

func cmdInspect(st *state) *cli.Command {
	var show int

	return &cli.Command{
		Name:    "inspect",
		Aliases: []string{"i"},
		Usage:   "Validate the corpus schema and print a summary",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "show",
				Usage:       "print the first N records as JSON lines",
				Destination: &show,
			},
		},
		Action: func(ctx context.Context, _ *cli.Command) error {
			table, err := tabular.NewFileSource(st.cfg.Corpus.Path, st.cfg.Corpus.Sheet).Read(ctx)
			if err != nil {
				return fmt.Errorf("read corpus: %w", err)
			}
			loader := corpus.NewLoader(patent.TemplateImageRef(st.cfg.Corpus.ImageURLTemplate))
			records, err := loader.Load(table)
			if err != nil {
				return fmt.Errorf("load corpus: %w", err)
			}

			var noID, noAbstract int
			for i := range records {
				if records[i].ID() == "" {
					noID++
				}
				if records[i].Abstract() == "" {
					noAbstract++
				}
			}

			st.logger.Info("Corpus validated",
				zap.String("path", st.cfg.Corpus.Path),
				zap.Int("records", len(records)),
			)
			st.printf("corpus: %s\n", st.cfg.Corpus.Path)
			st.printf("columns: %s\n", strings.Join(table.Header, " | "))
			st.printf("records: %d\n", len(records))
			st.printf("without publication number: %d\n", noID)
			st.printf("without abstract: %d\n", noAbstract)

			enc := json.NewEncoder(st.out)
			for i := 0; i < show && i < len(records); i++ {
				r := &records[i]
				if err := enc.Encode(inspectedRecord{ID: r.ID(), Title: r.Title(), ImageURL: r.ImageRef()}); err != nil {
					return fmt.Errorf("write record: %w", err)
				}
			}
			return nil
		},
	}
}
