package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/schlagwetter/internal/model"
)

// DeckSheet is the name of the worksheet holding the cards.
const DeckSheet = "Cards"

// WriteDeckXLSX saves the deck as a spreadsheet, one card per row, with the
// seed on a second sheet.
func WriteDeckXLSX(path string, deck *model.Deck) error {
	f := xlsx.NewFile()

	sheet, err := f.AddSheet(DeckSheet)
	if err != nil {
		return eris.Wrap(err, "xlsx: add cards sheet")
	}
	header := sheet.AddRow()
	for _, col := range cardColumns {
		header.AddCell().SetString(col)
	}
	for _, c := range deck.Cards {
		row := sheet.AddRow()
		for _, v := range cardValues(c) {
			setCell(row.AddCell(), v)
		}
	}

	meta, err := f.AddSheet("Deck")
	if err != nil {
		return eris.Wrap(err, "xlsx: add deck sheet")
	}
	seedRow := meta.AddRow()
	seedRow.AddCell().SetString("seed")
	seedRow.AddCell().SetInt64(deck.Seed)

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "xlsx: save %s", path)
	}
	return nil
}

func setCell(cell *xlsx.Cell, v any) {
	switch val := v.(type) {
	case nil:
	case string:
		cell.SetString(val)
	case int:
		cell.SetInt(val)
	case int64:
		cell.SetInt64(val)
	case float64:
		cell.SetFloat(val)
	default:
		cell.SetString(cellText(val))
	}
}
