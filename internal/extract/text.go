package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	ContentTypePDF   = "application/pdf"
	ContentTypeDOCX  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	ContentTypePlain = "text/plain"
)

var (
	ErrUnsupportedType = errors.New("unsupported document type")
	ErrNoText          = errors.New("no text content found")
)

// DetectContentType resolves the document type from the file extension,
// falling back to sniffing the leading bytes.
func DetectContentType(filename string, data []byte) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return ContentTypePDF
	case ".docx":
		return ContentTypeDOCX
	case ".txt", ".text", ".md":
		return ContentTypePlain
	}

	if bytes.HasPrefix(data, []byte("%PDF-")) {
		return ContentTypePDF
	}
	sniffed := http.DetectContentType(data)
	if strings.HasPrefix(sniffed, "text/plain") {
		return ContentTypePlain
	}
	return sniffed
}

func Supported(contentType string) bool {
	switch contentType {
	case ContentTypePDF, ContentTypeDOCX, ContentTypePlain:
		return true
	default:
		return false
	}
}

// Text pulls the plain text out of a resume document.
func Text(ctx context.Context, contentType string, data []byte) (string, error) {
	var (
		text string
		err  error
	)
	switch contentType {
	case ContentTypePlain:
		text = string(data)
	case ContentTypePDF:
		text, err = pdfText(ctx, data)
	case ContentTypeDOCX:
		text, err = docxText(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}
	return text, nil
}

func pdfText(ctx context.Context, data []byte) (text string, err error) {
	// the pdf package panics on some malformed xref tables
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("failed to read pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var b strings.Builder
	total := r.NumPage()
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, perr := page.GetPlainText(nil)
		if perr != nil {
			continue
		}
		b.WriteString(pageText)
		b.WriteString("\n\n")
	}
	return b.String(), nil
}

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>`)
	docxLineBreak    = regexp.MustCompile(`<w:br/>|<w:tab/>`)
	xmlTag           = regexp.MustCompile(`<[^>]+>`)
)

func docxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	raw := doc.Editable().GetContent()
	raw = docxParagraphEnd.ReplaceAllString(raw, "\n\n")
	raw = docxLineBreak.ReplaceAllString(raw, "\n")
	raw = xmlTag.ReplaceAllString(raw, "")
	return html.UnescapeString(raw), nil
}
