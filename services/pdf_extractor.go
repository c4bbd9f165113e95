package services

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFExtractor pulls the text layer out of a PDF, one page at a time.
// Each page's text items are joined with a single space and terminated by a
// newline. Pages are read strictly in order because the reader keeps
// document-scoped state; separate documents use separate readers.
type PDFExtractor struct {
	Strict bool

	readPage pageReader
}

type pageReader func(reader *pdf.Reader, pageNum int) (string, error)

func (PDFExtractor) Format() Format { return FormatPDF }

func (e PDFExtractor) ExtractText(content []byte) (string, error) {
	if e.Strict {
		if err := validatePDFStructure(content); err != nil {
			return "", newProcessingError(KindCorruptDocument, err)
		}
	}

	reader, numPages, err := openPDF(content)
	if err != nil {
		return "", newProcessingError(KindCorruptDocument, err)
	}

	readPage := e.readPage
	if readPage == nil {
		readPage = extractPageText
	}

	var textBuilder strings.Builder
	for i := 1; i <= numPages; i++ {
		pageText, err := readPage(reader, i)
		if err != nil {
			return "", &ProcessingError{Kind: KindExtractionError, Page: i, Err: err}
		}
		textBuilder.WriteString(pageText)
		textBuilder.WriteByte('\n')
	}

	return textBuilder.String(), nil
}

// openPDF builds a reader over the in-memory document. The parser panics on
// some malformed inputs, so panics are turned into errors here.
func openPDF(content []byte) (reader *pdf.Reader, numPages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			reader, numPages = nil, 0
			err = fmt.Errorf("failed to parse PDF: %v", r)
		}
	}()

	reader, err = pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create PDF reader: %w", err)
	}
	return reader, reader.NumPage(), nil
}

// extractPageText returns the page's text items joined by single spaces,
// ordered top to bottom and left to right.
func extractPageText(reader *pdf.Reader, pageNum int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("failed to read page: %v", r)
		}
	}()

	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return "", nil
	}

	rows, err := page.GetTextByRow()
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %w", err)
	}

	var items []string
	for _, row := range rows {
		for _, item := range row.Content {
			items = append(items, item.S)
		}
	}
	return strings.Join(items, " "), nil
}

var disablePDFCPUConfigDir sync.Once

// validatePDFStructure runs pdfcpu's relaxed validator over the document.
func validatePDFStructure(content []byte) error {
	disablePDFCPUConfigDir.Do(api.DisableConfigDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.Validate(bytes.NewReader(content), conf); err != nil {
		return fmt.Errorf("pdf validation failed: %w", err)
	}
	return nil
}
