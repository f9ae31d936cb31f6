// Package loader extracts plain text from uploaded documents.
package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Kind is a supported document format.
type Kind string

const (
	KindTXT Kind = "txt"
	KindPDF Kind = "pdf"
	KindMD  Kind = "md"
)

var (
	// ErrUnsupportedKind is returned for formats other than txt, pdf, and md.
	ErrUnsupportedKind = errors.New("unsupported document kind")
	// ErrEmptyDocument is returned when a document yields no text.
	ErrEmptyDocument = errors.New("document contains no text")
)

// ParseKind normalizes a kind name such as "TXT" or ".markdown".
func ParseKind(name string) (Kind, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), ".") {
	case "txt", "text":
		return KindTXT, nil
	case "pdf":
		return KindPDF, nil
	case "md", "markdown":
		return KindMD, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedKind, name)
	}
}

// KindFromFilename returns the kind implied by a file extension.
func KindFromFilename(filename string) (Kind, error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnsupportedKind, filename)
	}
	return ParseKind(ext)
}

// Load reads the file at path and returns its text.
func Load(ctx context.Context, path string, kind Kind) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	text, err := Parse(ctx, data, kind)
	if err != nil {
		return "", fmt.Errorf("failed to load %s: %w", path, err)
	}
	return text, nil
}

// Parse returns the text of a document held in memory.
func Parse(ctx context.Context, data []byte, kind Kind) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var (
		text string
		err  error
	)
	switch kind {
	case KindTXT:
		text, err = DecodeText(data)
	case KindPDF:
		text, err = parsePDF(ctx, data)
	case KindMD:
		var decoded string
		if decoded, err = DecodeText(data); err == nil {
			text = parseMarkdown([]byte(decoded))
		}
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
	}
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}
