package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const docxMainPart = "word/document.xml"

// DOCXExtractor reads the body text of a WordprocessingML package.
// Paragraphs are emitted in document order, blank ones are dropped, and
// consecutive paragraphs are separated by a single newline.
type DOCXExtractor struct{}

func (DOCXExtractor) Format() Format { return FormatDOCX }

func (DOCXExtractor) ExtractText(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", newProcessingError(KindCorruptDocument, fmt.Errorf("open docx package: %w", err))
	}

	var part *zip.File
	for _, f := range zr.File {
		if f.Name == docxMainPart {
			part = f
			break
		}
	}
	if part == nil {
		return "", newProcessingError(KindCorruptDocument, fmt.Errorf("%s not found in package", docxMainPart))
	}

	rc, err := part.Open()
	if err != nil {
		return "", newProcessingError(KindCorruptDocument, fmt.Errorf("open %s: %w", docxMainPart, err))
	}
	defer rc.Close()

	paragraphs, err := docxParagraphs(rc)
	if err != nil {
		return "", newProcessingError(KindCorruptDocument, fmt.Errorf("parse %s: %w", docxMainPart, err))
	}

	return strings.Join(paragraphs, "\n"), nil
}

// docxParagraphs walks the document XML and returns the text of every
// non-blank w:p. Paragraphs nested inside another paragraph (text boxes)
// are folded into the outer one.
func docxParagraphs(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)

	var (
		paragraphs []string
		current    strings.Builder
		depth      int
		inProps    int
		inText     bool
	)

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				if depth == 0 {
					current.Reset()
				}
				depth++
			case "pPr":
				inProps++
			case "t":
				inText = depth > 0
			case "tab":
				// w:tab inside w:pPr/w:tabs is a tab stop, not text
				if depth > 0 && inProps == 0 {
					current.WriteByte('\t')
				}
			case "br", "cr":
				if depth > 0 {
					current.WriteByte('\n')
				}
			}

		case xml.CharData:
			if inText {
				current.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "pPr":
				inProps--
			case "t":
				inText = false
			case "p":
				if depth == 0 {
					continue
				}
				depth--
				if depth == 0 {
					text := current.String()
					if strings.TrimSpace(text) != "" {
						paragraphs = append(paragraphs, text)
					}
				}
			}
		}
	}

	return paragraphs, nil
}
