// Package extract converts uploaded documents to plain text.
package extract

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for file extensions this package cannot
// handle; the API maps it to a 400.
var ErrUnsupportedFormat = errors.New("extract: unsupported file format")

// SupportedExtensions lists the document formats Text accepts.
var SupportedExtensions = []string{".pdf", ".docx", ".doc", ".csv", ".xlsx", ".xls", ".txt"}

// Text extracts plain text from a document based on its file extension.
func Text(filename string, content []byte) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".pdf":
		return fromPDF(content)
	case ".docx", ".doc":
		return fromDocx(content)
	case ".csv":
		return fromCSV(content)
	case ".xlsx", ".xls":
		return fromExcel(content)
	case ".txt":
		return fromTxt(content)
	default:
		return "", fmt.Errorf("%w: %s (supported: %s)", ErrUnsupportedFormat, ext, strings.Join(SupportedExtensions, ", "))
	}
}

func fromPDF(content []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("extract: read pdf: %w", err)
	}

	var parts []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract: pdf page %d: %w", i, err)
		}
		if strings.TrimSpace(text) != "" {
			parts = append(parts, fmt.Sprintf("--- Page %d ---\n%s", i, text))
		}
	}
	return strings.Join(parts, "\n\n"), nil
}

func fromDocx(content []byte) (string, error) {
	doc, err := docx.Parse(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("extract: read docx: %w", err)
	}

	var parts []string
	for _, it := range doc.Document.Body.Items {
		switch it.(type) {
		case *docx.Paragraph, *docx.Table:
			if s := strings.TrimSpace(fmt.Sprint(it)); s != "" {
				parts = append(parts, s)
			}
		}
	}
	return strings.Join(parts, "\n"), nil
}

func fromCSV(content []byte) (string, error) {
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("extract: read csv: %w", err)
		}
		rows = append(rows, rec)
	}
	if len(rows) == 0 {
		return "", nil
	}

	header := rows[0]
	var sb strings.Builder
	fmt.Fprintf(&sb, "CSV Data (%d rows, %d columns)\n", len(rows)-1, len(header))
	sb.WriteString("Columns: " + strings.Join(header, ", "))
	sb.WriteString("\n\n--- Data ---\n")
	for _, row := range rows[1:] {
		sb.WriteString(strings.Join(row, " | "))
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func fromExcel(content []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("extract: read excel: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("extract: excel sheet %q: %w", sheet, err)
		}

		fmt.Fprintf(&sb, "=== Sheet: %s ===\n", sheet)
		if len(rows) > 0 {
			fmt.Fprintf(&sb, "(%d rows, %d columns)\n", len(rows)-1, len(rows[0]))
			sb.WriteString("Columns: " + strings.Join(rows[0], ", "))
			sb.WriteString("\n\n--- Data ---\n")
			for _, row := range rows[1:] {
				sb.WriteString(strings.Join(row, " | "))
				sb.WriteString("\n")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func fromTxt(content []byte) (string, error) {
	if !utf8.Valid(content) {
		return "", errors.New("extract: txt file is not valid UTF-8")
	}
	return string(content), nil
}
