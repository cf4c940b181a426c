package loader

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"

	"github.com/akolanti/GoKB/internal/domain/kbModel"
)

// pdfExtractor yields one unit per page. Pages that fail to parse are
// skipped so one bad page does not sink the whole document.
type pdfExtractor struct{}

func (e *pdfExtractor) Extract(path string) ([]kbModel.TextUnit, error) {
	logger.Debug("extractPDF", "attempting extraction", path)
	f, err := pdf.Open(path)
	if err != nil {
		logger.Error("failed opening of pdf file")
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	var units []kbModel.TextUnit
	numPages := f.NumPage()
	logger.Debug("extractPDF", "number of pages", numPages)
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			logger.Debug("extractPDF", "page value is null", i)
			continue
		}

		content, err := protectExtract(page)
		if err != nil {
			logger.Error("Error parsing page content", "page", i, "Error", err)
			continue
		}

		units = append(units, kbModel.TextUnit{
			Content:        content,
			SourceMetadata: sourceMeta(path, "page", strconv.Itoa(i)),
		})
	}
	return units, nil
}

// officeExtractor reads a .odt, .docx or .rtf file through cat. Everything
// lands in one unit since cat does not expose page boundaries.
type officeExtractor struct{}

func (e *officeExtractor) Extract(path string) ([]kbModel.TextUnit, error) {
	text, err := cat.File(path)
	if err != nil {
		logger.Error("Error extracting content from doc")
		return nil, fmt.Errorf("failed to extract document: %w", err)
	}
	return []kbModel.TextUnit{
		{Content: text, SourceMetadata: sourceMeta(path)},
	}, nil
}

// protectExtract guards GetPlainText behind a timeout. Malformed pages can
// hang the parser indefinitely.
func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(time.Second * 10):
		logger.Error("pageExtract", "timeout")
		return "", errors.New("timeout")
	}
}
