//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_completer.go -package=mocks docqa/internal/indexer Completer

package indexer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"docqa/internal/contextutil"
	"docqa/internal/knowledge"
	"docqa/internal/prompts"
)

// Completer sends a prompt to a text completion service and returns the reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// errNoArray is returned when a reply contains no parseable JSON array.
var errNoArray = errors.New("no JSON array in completion")

// Extractor turns one window of text into validated question/answer pairs.
type Extractor struct {
	completer Completer
	prompts   *prompts.Set
	timeout   time.Duration
}

// NewExtractor creates an extractor. timeout bounds each completion; zero disables it.
func NewExtractor(completer Completer, set *prompts.Set, timeout time.Duration) *Extractor {
	if set == nil {
		set = prompts.Default()
	}
	return &Extractor{
		completer: completer,
		prompts:   set,
		timeout:   timeout,
	}
}

// windowResult is the outcome of extracting a single window.
type windowResult struct {
	pairs   []knowledge.Pair
	dropped int
	err     error
}

// Extract returns the pairs found in w. Every failure yields an empty result and a warning log.
func (e *Extractor) Extract(ctx context.Context, w Window) []knowledge.Pair {
	return e.extract(ctx, w).pairs
}

func (e *Extractor) extract(ctx context.Context, w Window) windowResult {
	logger := contextutil.LoggerFromContext(ctx)

	prompt, err := e.prompts.Extraction(w.Text)
	if err != nil {
		logger.WarnContext(ctx, "failed to build extraction prompt", "window", w.Index, "error", err)
		return windowResult{err: err}
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	reply, err := e.completer.Complete(ctx, prompt)
	if err != nil {
		logger.WarnContext(ctx, "extraction completion failed", "window", w.Index, "error", err)
		return windowResult{err: err}
	}

	pairs, dropped, err := ParsePairs(reply)
	if err != nil {
		logger.WarnContext(ctx, "failed to parse extraction reply", "window", w.Index, "error", err, "reply_len", len(reply))
		return windowResult{err: err}
	}

	logger.DebugContext(ctx, "extracted window", "window", w.Index, "tail", w.Tail, "pairs", len(pairs), "dropped", dropped)
	return windowResult{pairs: pairs, dropped: dropped}
}

// ParsePairs locates the first balanced JSON array in reply and returns the
// objects in it that carry a non-empty question and answer. dropped counts
// array elements that failed validation.
func ParsePairs(reply string) (pairs []knowledge.Pair, dropped int, err error) {
	elements, err := findArray(reply)
	if err != nil {
		return nil, 0, err
	}

	for _, raw := range elements {
		pair, ok := toPair(raw)
		if !ok {
			dropped++
			continue
		}
		pairs = append(pairs, pair)
	}
	return pairs, dropped, nil
}

// findArray returns the elements of the first balanced bracketed substring of s
// that parses as a JSON array.
func findArray(s string) ([]json.RawMessage, error) {
	var lastErr error
	for from := 0; from < len(s); {
		open := strings.IndexByte(s[from:], '[')
		if open < 0 {
			break
		}
		open += from

		end, ok := matchBracket(s, open)
		if ok {
			var elements []json.RawMessage
			err := json.Unmarshal([]byte(s[open:end]), &elements)
			if err == nil {
				return elements, nil
			}
			lastErr = err
		}
		from = open + 1
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v", errNoArray, lastErr)
	}
	return nil, errNoArray
}

// matchBracket returns the index just past the bracket closing the one at s[open].
// Brackets inside JSON strings are ignored.
func matchBracket(s string, open int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := open; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}

var (
	questionKeys = []string{"question", "问题"}
	answerKeys   = []string{"answer", "答案"}
)

func toPair(raw json.RawMessage) (knowledge.Pair, bool) {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return knowledge.Pair{}, false
	}

	question := firstString(obj, questionKeys)
	answer := firstString(obj, answerKeys)
	if question == "" || answer == "" {
		return knowledge.Pair{}, false
	}
	return knowledge.Pair{Question: question, Answer: answer}, true
}

func firstString(obj map[string]any, keys []string) string {
	for _, key := range keys {
		if v, ok := obj[key].(string); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}
