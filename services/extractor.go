package services

import (
	"fmt"
)

// Extractor turns raw document bytes into text. The set of implementations
// is closed: DOCXExtractor and PDFExtractor, chosen by extractorFor.
type Extractor interface {
	ExtractText(content []byte) (string, error)
	Format() Format
}

// ExtractorOptions tunes the extractor variants
type ExtractorOptions struct {
	// StrictPDF runs pdfcpu structural validation before text extraction.
	StrictPDF bool
}

// extractorFor selects the extractor for a detected format.
func extractorFor(format Format, opts ExtractorOptions) (Extractor, error) {
	switch format {
	case FormatDOCX:
		return DOCXExtractor{}, nil
	case FormatPDF:
		return PDFExtractor{Strict: opts.StrictPDF}, nil
	default:
		return nil, newProcessingError(KindUnsupportedFormat,
			fmt.Errorf("no extractor for format %q", format))
	}
}
