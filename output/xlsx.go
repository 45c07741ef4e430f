package output

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/JennaRuan/scantables/model"
)

const defaultSheet = "Sheet1"

// XLSXWriter writes the table to a single worksheet. Cells are stored as
// text so amounts like "1.234,56" are not reinterpreted.
type XLSXWriter struct {
	Sheet string
}

func (x *XLSXWriter) Write(w io.Writer, table *model.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := defaultSheet
	if x.Sheet != "" && x.Sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, x.Sheet); err != nil {
			return fmt.Errorf("naming sheet: %w", err)
		}
		sheet = x.Sheet
	}

	for i, row := range table.Rows {
		values := make([]interface{}, len(row))
		for j, cell := range row {
			values[j] = cell.Text
		}
		start, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, start, &values); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	return f.Write(w)
}
