package loader

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/akolanti/GoKB/internal/domain/kbModel"
)

// textExtractor handles plain text and markdown: the whole file is one unit.
type textExtractor struct{}

func (e *textExtractor) Extract(path string) ([]kbModel.TextUnit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return []kbModel.TextUnit{
		{Content: string(data), SourceMetadata: sourceMeta(path)},
	}, nil
}

// csvExtractor yields one unit per data row, rendered as "header: value"
// lines so column names survive into the chunk text.
type csvExtractor struct{}

func (e *csvExtractor) Extract(path string) ([]kbModel.TextUnit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	header := rows[0]
	units := make([]kbModel.TextUnit, 0, len(rows)-1)
	for i, row := range rows[1:] {
		var sb strings.Builder
		for j, cell := range row {
			if j > 0 {
				sb.WriteString("\n")
			}
			if j < len(header) {
				sb.WriteString(header[j])
				sb.WriteString(": ")
			}
			sb.WriteString(cell)
		}
		units = append(units, kbModel.TextUnit{
			Content:        sb.String(),
			SourceMetadata: sourceMeta(path, "row", strconv.Itoa(i+1)),
		})
	}
	return units, nil
}

// jsonExtractor yields one unit per element of a top-level array, or a
// single unit for any other top-level value.
type jsonExtractor struct{}

func (e *jsonExtractor) Extract(path string) ([]kbModel.TextUnit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read json: %w", err)
	}

	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse json: %w", err)
	}

	elements, ok := parsed.([]any)
	if !ok {
		return []kbModel.TextUnit{
			{Content: string(data), SourceMetadata: sourceMeta(path)},
		}, nil
	}

	units := make([]kbModel.TextUnit, 0, len(elements))
	for i, el := range elements {
		rendered, err := json.MarshalIndent(el, "", "  ")
		if err != nil {
			logger.Error("Failed rendering json element", "index", i, "error", err)
			continue
		}
		units = append(units, kbModel.TextUnit{
			Content:        string(rendered),
			SourceMetadata: sourceMeta(path, "index", strconv.Itoa(i)),
		})
	}
	return units, nil
}
