package loader

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/akolanti/GoKB/internal/domain/kbModel"
)

// spreadsheetExtractor yields one unit per sheet, rows joined by newlines
// and cells by tabs.
type spreadsheetExtractor struct{}

func (e *spreadsheetExtractor) Extract(path string) ([]kbModel.TextUnit, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Error("Failed closing spreadsheet", "path", path, "error", err)
		}
	}()

	var units []kbModel.TextUnit
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			logger.Error("Failed reading sheet", "sheet", sheet, "error", err)
			continue
		}
		if len(rows) == 0 {
			continue
		}

		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			lines = append(lines, strings.Join(row, "\t"))
		}
		units = append(units, kbModel.TextUnit{
			Content:        strings.Join(lines, "\n"),
			SourceMetadata: sourceMeta(path, "sheet", sheet),
		})
	}
	return units, nil
}
