package loader

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/partqc/internal/contracts"
)

// decodeHTML reads the first <table> of an exported inspection sheet.
// Header cells come from <th>, or from the first row when the table has none.
func decodeHTML(r io.Reader) ([]contracts.RawRecord, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("no <table> element found")
	}

	var header []string
	var rows [][]string

	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if th := row.Find("th"); th.Length() > 0 && header == nil {
			header = cellTexts(th)
			return
		}

		cells := row.Find("td")
		if cells.Length() == 0 {
			return
		}

		texts := cellTexts(cells)
		if header == nil {
			header = texts
			return
		}
		if !isBlankRow(texts) {
			rows = append(rows, texts)
		}
	})

	if header == nil {
		return []contracts.RawRecord{}, nil
	}

	headers, err := canonicalHeaders(header)
	if err != nil {
		return nil, fmt.Errorf("html header: %w", err)
	}

	records := make([]contracts.RawRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, rowRecord(headers, row))
	}
	return records, nil
}

func cellTexts(sel *goquery.Selection) []string {
	out := make([]string, 0, sel.Length())
	sel.Each(func(_ int, cell *goquery.Selection) {
		out = append(out, strings.TrimSpace(cell.Text()))
	})
	return out
}
