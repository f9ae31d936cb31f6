package loader

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"docqa/internal/contextutil"
)

// parsePDF concatenates the plain text of every page, separated by spaces.
// Pages that fail to extract are skipped.
func parsePDF(ctx context.Context, data []byte) (text string, err error) {
	logger := contextutil.LoggerFromContext(ctx)

	// The reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to parse pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			logger.WarnContext(ctx, "failed to extract pdf page", "page", i, "error", err)
			continue
		}
		if content = strings.TrimSpace(content); content != "" {
			pages = append(pages, content)
		}
	}

	logger.DebugContext(ctx, "parsed pdf", "pages", reader.NumPage(), "pages_with_text", len(pages))
	return strings.Join(pages, " "), nil
}
