package rag

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractFile reads path and returns its plain text. PDFs go through the PDF
// extractor; everything else is treated as UTF-8 text.
func ExtractFile(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return ExtractPDF(path)
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

// ExtractPDF pulls plain text from a PDF, page by page. Pages that fail to
// decode (image-only or malformed) are skipped. When structured extraction
// yields nothing, a raw scan of the content streams is tried as a fallback.
func ExtractPDF(path string) (string, error) {
	f, rdr, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var pages []string
	for i := 1; i <= rdr.NumPage(); i++ {
		pg := rdr.Page(i)

		txt, err := pg.GetPlainText(nil)
		if err != nil {
			continue
		}
		s := strings.TrimSpace(txt)
		if s == "" {
			continue
		}
		pages = append(pages, "Page "+strconv.Itoa(i)+"\n"+s)
	}

	if len(pages) == 0 {
		return extractPDFRaw(path)
	}
	return strings.Join(pages, "\n\n"), nil
}

var pdfTextShow = regexp.MustCompile(`\((.*?)\)\s*(?:Tj|TJ)`)

// extractPDFRaw scrapes text-show operators straight out of the file bytes.
// It only works on uncompressed content streams, which is exactly the case
// where the structured reader tends to come back empty.
func extractPDFRaw(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, match := range pdfTextShow.FindAllSubmatch(data, -1) {
		sb.Write(match[1])
		sb.WriteByte(' ')
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("no extractable text in %s", filepath.Base(path))
	}
	return text, nil
}

var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]+[\s"')\]]*|[^.!?]+$`)

// ChunkText splits text into chunks of roughly size characters along sentence
// boundaries, carrying overlap characters of context between chunks. A single
// sentence longer than size becomes its own chunk rather than being cut.
func ChunkText(text string, size, overlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if size <= 0 {
		return []string{text}
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	sentences := sentencePattern.FindAllString(text, -1)

	var chunks []string
	var current strings.Builder
	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		if current.Len() > 0 && current.Len()+len(sentence)+1 > size {
			chunk := strings.TrimSpace(current.String())
			chunks = append(chunks, chunk)
			current.Reset()

			if overlap > 0 && len(chunk) > overlap {
				current.WriteString(chunk[len(chunk)-overlap:])
				current.WriteByte(' ')
			}
		}

		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(sentence)
	}
	if strings.TrimSpace(current.String()) != "" {
		chunks = append(chunks, strings.TrimSpace(current.String()))
	}
	return chunks
}
