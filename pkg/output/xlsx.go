package output

import (
	"io"
	"math"

	"github.com/iwvelando/roi-forecast/internal/forecast"
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Sheet names are capped at 31 characters by the XLSX format.
const maxSheetName = 31

// Workbook builds an XLSX workbook with one sheet per report table.
func Workbook(report *forecast.Report) (*xlsx.File, error) {
	f := xlsx.NewFile()
	ts := tables(report)
	if len(ts) == 0 {
		if _, err := f.AddSheet("empty"); err != nil {
			return nil, eris.Wrap(err, "output: add sheet")
		}
		return f, nil
	}
	for _, t := range ts {
		name := t.title
		if len(name) > maxSheetName {
			name = name[:maxSheetName]
		}
		sheet, err := f.AddSheet(name)
		if err != nil {
			return nil, eris.Wrapf(err, "output: add sheet %s", name)
		}
		header := sheet.AddRow()
		for _, h := range t.header {
			header.AddCell().SetString(h)
		}
		for _, values := range t.values {
			row := sheet.AddRow()
			for _, v := range values {
				setCell(row.AddCell(), v)
			}
		}
	}
	return f, nil
}

// XlsxFormat writes the report as an XLSX workbook.
func XlsxFormat(w io.Writer, report *forecast.Report) error {
	f, err := Workbook(report)
	if err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "output: write xlsx")
	}
	return nil
}

func setCell(cell *xlsx.Cell, v interface{}) {
	switch val := v.(type) {
	case float64:
		// Spreadsheets have no infinity; leave the text marker instead.
		if math.IsInf(val, 0) || math.IsNaN(val) {
			cell.SetString(cellText(val))
			return
		}
		cell.SetFloatWithFormat(val, "#,##0.00")
	case int:
		cell.SetInt(val)
	case bool:
		cell.SetBool(val)
	default:
		cell.SetString(cellText(val))
	}
}
