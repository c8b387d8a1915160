package extract

import (
	"bytes"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ExcelSheets extracts one text blob per sheet, in workbook order. Rows are
// walked within the sheet's declared bounding range; non-empty cells are
// joined with single spaces, rows with newlines. A workbook that cannot be
// opened yields an empty sequence.
func (e *Extractor) ExcelSheets(data []byte) (sheets []string) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("excel extraction panicked", zap.Any("cause", r))
			sheets = nil
		}
	}()

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		e.logger.Warn("excel open failed", zap.Error(err))
		return nil
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			e.logger.Warn("excel close failed", zap.Error(cerr))
		}
	}()

	names := f.GetSheetList()
	sheets = make([]string, 0, len(names))
	for _, name := range names {
		rows, err := f.GetRows(name)
		if err != nil {
			e.logger.Warn("excel sheet read failed", zap.String("sheet", name), zap.Error(err))
			sheets = append(sheets, "")
			continue
		}
		var b strings.Builder
		for ri, row := range rows {
			cells := make([]string, 0, len(row))
			for _, cell := range row {
				if strings.TrimSpace(cell) == "" {
					continue
				}
				cells = append(cells, cell)
			}
			if len(cells) == 0 {
				continue
			}
			if ri > 0 && b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(strings.Join(cells, " "))
		}
		sheets = append(sheets, b.String())
	}
	return sheets
}
