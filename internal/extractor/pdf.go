package extractor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ledongthuc/pdf"

	"legalrag/internal/domain"
)

// PDFExtractor reads text-extractable PDF files page by page.
type PDFExtractor struct {
	logger *slog.Logger
}

// NewPDFExtractor creates an extractor; a nil logger discards output.
func NewPDFExtractor(logger *slog.Logger) *PDFExtractor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &PDFExtractor{logger: logger}
}

// Extract returns the document text with page delimiters and detected
// metadata. Unreadable files yield a degraded document instead of an error.
func (e *PDFExtractor) Extract(ctx context.Context, path string) domain.Document {
	if err := ctx.Err(); err != nil {
		return degraded(path, err)
	}
	pages, err := readPages(path)
	if err != nil {
		e.logger.Warn("pdf extraction failed", "source", path, "error", err)
		return degraded(path, err)
	}
	doc := Assemble(path, pages)
	e.logger.Debug("pdf extracted", "source", path, "pages", doc.Pages, "law", doc.LawName, "script", doc.Script)
	return doc
}

// readPages returns the plain text of every page. The pdf package panics on
// some malformed inputs, so panics are converted to errors here.
func readPages(path string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	total := r.NumPage()
	pages = make([]string, 0, total)
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("read page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}

func degraded(path string, err error) domain.Document {
	return domain.Document{
		Source:  path,
		LawName: lawNameFromPath(path),
		Text:    "Error processing document: " + err.Error(),
		Err:     err,
	}
}
