package services

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// ExtractionError reports a file that could not be read or decoded. It is
// always recoverable: the caller surfaces it and leaves the slot empty.
type ExtractionError struct {
	File string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract text from %s: %v", e.File, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

type TextExtractorService interface {
	ExtractText(filePath, originalName string) (string, error)
}

type textExtractorService struct{}

func NewTextExtractorService() TextExtractorService {
	return &textExtractorService{}
}

// ExtractText converts an uploaded file into plain text, branching on the
// original filename's extension. Anything that is not a structured document
// format is treated as plain text.
func (s *textExtractorService) ExtractText(filePath, originalName string) (string, error) {
	switch strings.ToLower(filepath.Ext(originalName)) {
	case ".pdf":
		return s.extractPDF(filePath, originalName)
	case ".docx":
		return s.extractDocx(filePath, originalName)
	default:
		data, err := os.ReadFile(filePath)
		if err != nil {
			return "", &ExtractionError{File: originalName, Err: err}
		}
		return string(data), nil
	}
}

func (s *textExtractorService) extractPDF(filePath, originalName string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", &ExtractionError{File: originalName, Err: fmt.Errorf("failed to open PDF: %w", err)}
	}
	defer f.Close()

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages, keep the rest in order
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	text := textBuilder.String()
	if strings.TrimSpace(text) == "" {
		return "", &ExtractionError{File: originalName, Err: fmt.Errorf("no text content found in PDF")}
	}

	return text, nil
}

func (s *textExtractorService) extractDocx(filePath, originalName string) (string, error) {
	doc, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return "", &ExtractionError{File: originalName, Err: fmt.Errorf("failed to parse docx: %w", err)}
	}
	defer doc.Close()

	text, err := docxPlainText(doc.Editable().GetContent())
	if err != nil {
		return "", &ExtractionError{File: originalName, Err: fmt.Errorf("failed to decode docx body: %w", err)}
	}

	return text, nil
}

// docxPlainText flattens the document body XML into plain text: the contents
// of the w:t runs, one line per paragraph. The markup itself never reaches
// the analysis payload.
func docxPlainText(content string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(content))
	var textBuilder strings.Builder
	inRun := false

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inRun = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inRun = false
			case "p":
				textBuilder.WriteString("\n")
			}
		case xml.CharData:
			if inRun {
				textBuilder.Write(t)
			}
		}
	}

	return textBuilder.String(), nil
}

// CandidateNameFromFilename derives a best-effort candidate name from a
// resume filename. It is a hint only; the analysis result's own name wins
// once available.
func CandidateNameFromFilename(originalName string) string {
	name := strings.TrimSuffix(originalName, filepath.Ext(originalName))
	name = strings.ReplaceAll(name, "-", " ")
	name = strings.ReplaceAll(name, "_", " ")
	return strings.TrimSpace(name)
}
