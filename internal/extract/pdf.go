package extract

import (
	"bytes"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// Extractor pulls searchable plain text out of uploaded report documents.
// It never fails the caller: a corrupt document yields an empty sequence
// and a logged warning, so one bad upload cannot abort verification.
type Extractor struct {
	logger *zap.Logger
}

// NewExtractor creates a document text extractor.
func NewExtractor(logger *zap.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// PDFPages extracts one text blob per page, in page order. Pages that fail
// to parse contribute an empty entry so page numbering is preserved.
func (e *Extractor) PDFPages(data []byte) (pages []string) {
	// The pdf library panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("pdf extraction panicked", zap.Any("cause", r))
			pages = nil
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		e.logger.Warn("pdf open failed", zap.Error(err))
		return nil
	}

	numPages := reader.NumPage()
	pages = make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Warn("pdf page extraction failed", zap.Int("page", i), zap.Error(err))
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages
}
