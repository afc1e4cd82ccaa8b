package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/schlagwetter/internal/cards"
	"github.com/sells-group/schlagwetter/internal/dataset"
	"github.com/sells-group/schlagwetter/internal/export"
	"github.com/sells-group/schlagwetter/internal/jsonfile"
	"github.com/sells-group/schlagwetter/internal/model"
)

var (
	cardsSeed     int64
	cardsCount    int
	cardsMarkdown string
	cardsXLSX     string
)

// deckParams holds the resolved inputs of one deck generation.
type deckParams struct {
	Input    string
	Output   string
	Seed     int64
	Count    int
	Markdown string
	XLSX     string
}

var topTrumpsCmd = &cobra.Command{
	Use:   "generate-top-trumps-data [json_data_file] [top_trumps_data_file]",
	Short: "Sample a seeded top trumps deck from the accidents",
	Long:  "Draws a fixed number of distinct accidents with a seeded generator, projects them onto cards and writes the seed with the cards so the draw can be reproduced.",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("cards"); err != nil {
			return err
		}

		p := deckParams{
			Input:    argOr(args, 0, cfg.Files.JSONData),
			Output:   argOr(args, 1, cfg.Files.TopTrumpsData),
			Seed:     cardsSeed,
			Count:    cfg.Cards.Count,
			Markdown: cardsMarkdown,
			XLSX:     cardsXLSX,
		}
		if !cmd.Flags().Changed("seed") {
			p.Seed = cards.RandomSeed()
		}
		if cmd.Flags().Changed("count") {
			p.Count = cardsCount
		}

		return runTopTrumps(cmd.OutOrStdout(), p)
	},
}

func runTopTrumps(w io.Writer, p deckParams) error {
	if p.Count < 1 {
		return eris.Errorf("cards: count must be > 0, got %d", p.Count)
	}

	fmt.Fprintf(w, "Generating cards using seed %d ...\n", p.Seed)

	ds, err := dataset.Open(p.Input, cfg.Schema)
	if err != nil {
		return err
	}

	deck, err := cards.BuildDeck(ds.Records(), p.Count, p.Seed, cfg.Schema)
	if err != nil {
		return err
	}

	if err := jsonfile.Write(p.Output, deck); err != nil {
		return err
	}
	zap.L().Info("wrote top trumps deck",
		zap.String("output", p.Output),
		zap.Int64("seed", deck.Seed),
		zap.Int("cards", len(deck.Cards)),
	)

	if p.Markdown != "" {
		if err := writeDeckMarkdown(p.Markdown, deck); err != nil {
			return err
		}
	}
	if p.XLSX != "" {
		if err := export.WriteDeckXLSX(p.XLSX, deck); err != nil {
			return err
		}
	}
	return nil
}

func writeDeckMarkdown(path string, deck *model.Deck) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "cards: create markdown")
	}
	defer f.Close() //nolint:errcheck

	return export.WriteDeckMarkdown(f, deck)
}

func init() {
	topTrumpsCmd.Flags().Int64Var(&cardsSeed, "seed", 0, "seed for the draw (random when omitted)")
	topTrumpsCmd.Flags().IntVar(&cardsCount, "count", cards.DefaultCount, "number of cards (default cards.count)")
	topTrumpsCmd.Flags().StringVar(&cardsMarkdown, "markdown", "", "also write the deck as Markdown to this path")
	topTrumpsCmd.Flags().StringVar(&cardsXLSX, "xlsx", "", "also write the deck as a spreadsheet to this path")
	rootCmd.AddCommand(topTrumpsCmd)
}
