package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/akolanti/GoKB/internal/domain/kbModel"
	"github.com/akolanti/GoKB/pkg/logger_i"
)

// Extractor is the per-format text extraction variant. Implementations are
// pure reads - no side effects on the source file.
type Extractor interface {
	Extract(path string) ([]kbModel.TextUnit, error)
}

var logger = logger_i.NewLogger("Loader ")

type Loader struct{}

func New() *Loader {
	return &Loader{}
}

// Load resolves the format from the hint (or the extension when the hint
// is empty) and dispatches to that format's extractor. The path is checked
// before any format dispatch.
func (l *Loader) Load(path string, typeHint string) ([]kbModel.TextUnit, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", kbModel.ErrFileNotFound, path)
	}

	docType := ResolveType(path, typeHint)
	extractor, err := ForType(docType)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", kbModel.ErrUnsupportedFormat, path)
	}

	logger.Debug("Loading document", "path", path, "type", docType)
	units, err := extractor.Extract(path)
	if err != nil {
		logger.Error("Extraction failed", "path", path, "error", err)
		return nil, err
	}
	return units, nil
}

// ResolveType maps an explicit hint or a file extension to a DocType.
// Case-insensitive, leading dot stripped.
func ResolveType(path string, typeHint string) kbModel.DocType {
	ext := typeHint
	if ext == "" {
		ext = filepath.Ext(path)
	}
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))

	switch ext {
	case "txt":
		return kbModel.TXT
	case "md", "markdown":
		return kbModel.MD
	case "csv":
		return kbModel.CSV
	case "json":
		return kbModel.JSON
	case "xlsx", "xls":
		return kbModel.XLSX
	case "pdf":
		return kbModel.PDF
	case "docx", "odt", "rtf":
		return kbModel.OFFICE
	default:
		return kbModel.Unknown
	}
}

// ForType is a pure function from format to extractor variant.
func ForType(docType kbModel.DocType) (Extractor, error) {
	switch docType {
	case kbModel.TXT, kbModel.MD:
		return &textExtractor{}, nil
	case kbModel.CSV:
		return &csvExtractor{}, nil
	case kbModel.JSON:
		return &jsonExtractor{}, nil
	case kbModel.XLSX:
		return &spreadsheetExtractor{}, nil
	case kbModel.PDF:
		return &pdfExtractor{}, nil
	case kbModel.OFFICE:
		return &officeExtractor{}, nil
	default:
		return nil, fmt.Errorf("no extractor for type %s", docType)
	}
}

func sourceMeta(path string, extra ...string) map[string]string {
	meta := map[string]string{"source": path}
	for i := 0; i+1 < len(extra); i += 2 {
		meta[extra[i]] = extra[i+1]
	}
	return meta
}
