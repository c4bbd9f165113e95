package services

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractorFor(t *testing.T) {
	docx, err := extractorFor(FormatDOCX, ExtractorOptions{})
	require.NoError(t, err)
	assert.Equal(t, FormatDOCX, docx.Format())

	pdfExtractor, err := extractorFor(FormatPDF, ExtractorOptions{StrictPDF: true})
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, pdfExtractor.Format())
	assert.True(t, pdfExtractor.(PDFExtractor).Strict)

	_, err = extractorFor(FormatUnsupported, ExtractorOptions{})
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestDOCXExtractor_JoinsParagraphs(t *testing.T) {
	body := docxParagraph("First ", "paragraph") +
		"<w:p></w:p>" +
		docxParagraph("   ") +
		docxParagraph("Second") +
		docxParagraph("Third")

	text, err := DOCXExtractor{}.ExtractText(buildDOCX(t, body))

	require.NoError(t, err)
	assert.Equal(t, "First paragraph\nSecond\nThird", text)
}

func TestDOCXExtractor_TabsBreaksAndProperties(t *testing.T) {
	body := `<w:p><w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr>` +
		`<w:r><w:t>Name</w:t><w:tab/><w:t>Value</w:t><w:br/><w:t>Next line</w:t></w:r></w:p>`

	text, err := DOCXExtractor{}.ExtractText(buildDOCX(t, body))

	require.NoError(t, err)
	assert.Equal(t, "Name\tValue\nNext line", text)
}

func TestDOCXExtractor_IgnoresNonTextCharData(t *testing.T) {
	body := `<w:p><w:r><w:instrText>PAGE \* MERGEFORMAT</w:instrText></w:r><w:r><w:t>Visible</w:t></w:r></w:p>`

	text, err := DOCXExtractor{}.ExtractText(buildDOCX(t, body))

	require.NoError(t, err)
	assert.Equal(t, "Visible", text)
}

func TestDOCXExtractor_NestedParagraphsFolded(t *testing.T) {
	body := `<w:p><w:r><w:t>Outer </w:t></w:r><w:r><w:txbxContent>` +
		docxParagraph("inner") +
		`</w:txbxContent></w:r></w:p>` + docxParagraph("After")

	text, err := DOCXExtractor{}.ExtractText(buildDOCX(t, body))

	require.NoError(t, err)
	assert.Equal(t, "Outer inner\nAfter", text)
}

func TestDOCXExtractor_EmptyBody(t *testing.T) {
	text, err := DOCXExtractor{}.ExtractText(buildDOCX(t, ""))

	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestDOCXExtractor_CorruptDocument(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{"not a zip", []byte("this is plain text")},
		{"empty", nil},
		{"pdf bytes", buildPDF(t, []string{"hello"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DOCXExtractor{}.ExtractText(tt.content)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrCorruptDocument), err.Error())
		})
	}
}

func TestDOCXExtractor_MalformedXML(t *testing.T) {
	_, err := DOCXExtractor{}.ExtractText(buildDOCX(t, "<w:p><w:r><w:t>unclosed</w:r></w:p>"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCorruptDocument))
}

func TestPDFExtractor_SinglePage(t *testing.T) {
	text, err := PDFExtractor{}.ExtractText(buildPDF(t, []string{"Invoice #42"}))

	require.NoError(t, err)
	assert.Equal(t, "Invoice #42\n", text)
}

func TestPDFExtractor_PagesInOrder(t *testing.T) {
	content := buildPDF(t, []string{"first page"}, []string{"second page"}, []string{"third page"})

	text, err := PDFExtractor{}.ExtractText(content)

	require.NoError(t, err)
	assert.Equal(t, "first page\nsecond page\nthird page\n", text)
}

func TestPDFExtractor_ItemsJoinedWithSpace(t *testing.T) {
	text, err := PDFExtractor{}.ExtractText(buildPDF(t, []string{"Hello", "World"}))

	require.NoError(t, err)
	require.True(t, strings.HasSuffix(text, "\n"))
	assert.ElementsMatch(t, []string{"Hello", "World"}, strings.Split(strings.TrimSuffix(text, "\n"), " "))
}

func TestPDFExtractor_CorruptDocument(t *testing.T) {
	for _, content := range [][]byte{nil, []byte("%PDF-1.4 truncated"), []byte("PK\x03\x04 zip data")} {
		_, err := PDFExtractor{}.ExtractText(content)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrCorruptDocument), "got %v", err)
	}
}

func TestPDFExtractor_StrictRejectsGarbage(t *testing.T) {
	_, err := PDFExtractor{Strict: true}.ExtractText([]byte("definitely not a pdf"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCorruptDocument))
}

func TestPDFExtractor_PageFailureAbortsExtraction(t *testing.T) {
	content := buildPDF(t, []string{"one"}, []string{"two"}, []string{"three"})

	var visited []int
	extractor := PDFExtractor{readPage: func(reader *pdf.Reader, pageNum int) (string, error) {
		visited = append(visited, pageNum)
		if pageNum == 2 {
			return "", fmt.Errorf("bad content stream")
		}
		return extractPageText(reader, pageNum)
	}}

	text, err := extractor.ExtractText(content)

	require.Error(t, err)
	assert.Empty(t, text)
	assert.Equal(t, []int{1, 2}, visited, "pages after the failing one must not be read")
	assert.True(t, errors.Is(err, ErrExtraction))

	var pe *ProcessingError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 2, pe.Page)
	assert.Contains(t, pe.Error(), "bad content stream")
}
