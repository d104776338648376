package text

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/DaanHessen/humanos-tui/internal/domain"
)

// Format is an export file format.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatPDF      Format = "pdf"
)

// ParseFormat accepts md, markdown or pdf. Empty means markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "md", "markdown":
		return FormatMarkdown, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want md or pdf)", s)
	}
}

// Export writes rec to dir as humanos_<id>.<format> and returns the path.
func Export(rec domain.Record, dir string, format Format) (string, error) {
	var buf bytes.Buffer
	switch format {
	case FormatMarkdown:
		buf.WriteString(RecordMarkdown(rec))
	case FormatPDF:
		if err := WritePDF(&buf, rec); err != nil {
			return "", fmt.Errorf("render pdf: %w", err)
		}
	default:
		return "", fmt.Errorf("unknown export format %q", format)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("humanos_%s.%s", fileSafe(rec.ID), format))
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

func fileSafe(id string) string {
	id = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, id)
	if id == "" {
		return "record"
	}
	return id
}
