// Package export renders decks and coordinate maps for people and other
// tools: Markdown for reading, XLSX for printing cards, GeoJSON for maps.
package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/rotisserie/eris"

	"github.com/sells-group/schlagwetter/internal/model"
)

// cardColumns is the card layout, in print order.
var cardColumns = []string{"date", "location", "no_of_wounded", "no_of_dead", "initial_cause", "result"}

func cardValues(c model.Card) []any {
	return []any{c.Date, c.Location, c.NoOfWounded, c.NoOfDead, c.InitialCause, c.Result}
}

// cellText renders a card value; unset values stay blank.
func cellText(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// WriteDeckMarkdown writes the deck as a Markdown table.
func WriteDeckMarkdown(w io.Writer, deck *model.Deck) error {
	md := markdown.NewMarkdown(w)
	md.H1("Top Trumps: Grubenunglücke")
	md.PlainText("")
	md.PlainTextf("Seed `%d`, %d cards.", deck.Seed, len(deck.Cards))
	md.PlainText("")

	header := append([]string{"#"}, cardColumns...)
	rows := make([][]string, 0, len(deck.Cards))
	for i, c := range deck.Cards {
		row := []string{strconv.Itoa(i + 1)}
		for _, v := range cardValues(c) {
			row = append(row, cellText(v))
		}
		rows = append(rows, row)
	}
	md.Table(markdown.TableSet{Header: header, Rows: rows})
	md.PlainText("")
	md.Note("Only the number of dead is derived from the archive so far; blank columns are not filled yet.")

	if err := md.Build(); err != nil {
		return eris.Wrap(err, "export: build deck markdown")
	}
	return nil
}

// WriteGeoreferenceReport writes a Markdown summary of a georeference run
// with the missed locations listed for manual follow-up.
func WriteGeoreferenceReport(w io.Writer, coords model.CoordinateMap, missed []string) error {
	md := markdown.NewMarkdown(w)
	md.H1("Georeference Report")
	md.PlainText("")

	resolved := coords.Resolved()
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Locations", strconv.Itoa(len(coords))},
			{"Resolved", strconv.Itoa(len(resolved))},
			{"Missed", strconv.Itoa(len(missed))},
		},
	})
	md.PlainText("")

	if len(missed) > 0 {
		md.H2("Missed")
		md.PlainText("")
		md.Warningf("%d location(s) could not be resolved and are null in the output.", len(missed))
		md.PlainText("")
		md.BulletList(missed...)
		md.PlainText("")
	} else {
		md.Tip("Every location was resolved.")
		md.PlainText("")
	}

	if len(resolved) > 0 {
		md.H2("Resolved")
		md.PlainText("")
		rows := make([][]string, 0, len(resolved))
		for _, name := range resolved {
			c := coords[name]
			rows = append(rows, []string{name, c.Lat, c.Lon})
		}
		md.Table(markdown.TableSet{Header: []string{"Location", "Lat", "Lon"}, Rows: rows})
	}

	if err := md.Build(); err != nil {
		return eris.Wrap(err, "export: build georeference report")
	}
	return nil
}
