//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_pair_store.go -package=mocks docqa/internal/indexer PairStore

package indexer

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"docqa/internal/contextutil"
	"docqa/internal/knowledge"
)

// PairStore receives extracted pairs and returns the ones it stored, with ids assigned.
type PairStore interface {
	Add(ctx context.Context, pairs []knowledge.Pair) ([]knowledge.Pair, error)
}

// Pipeline splits documents into windows and extracts question/answer pairs from each.
type Pipeline struct {
	extractor   *Extractor
	windowSize  int
	overlapSize int
	concurrency int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithWindow sets the window and overlap sizes in runes.
func WithWindow(windowSize, overlapSize int) Option {
	return func(p *Pipeline) {
		p.windowSize = windowSize
		p.overlapSize = overlapSize
	}
}

// WithConcurrency sets how many windows are extracted at once. Values below 1 mean sequential.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		p.concurrency = max(n, 1)
	}
}

// NewPipeline creates an extraction pipeline. It fails with ErrInvalidWindow on bad window sizes.
func NewPipeline(extractor *Extractor, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		extractor:   extractor,
		windowSize:  DefaultWindowSize,
		overlapSize: DefaultOverlapSize,
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := ValidateWindow(p.windowSize, p.overlapSize); err != nil {
		return nil, err
	}
	return p, nil
}

// Split returns the windows the pipeline would extract from text.
func (p *Pipeline) Split(text string) []Window {
	// Sizes were validated by NewPipeline.
	windows, _ := Split(text, p.windowSize, p.overlapSize)
	return windows
}

// ExtractFAQs extracts pairs from every window of text and returns them in window order.
// Failed windows contribute nothing.
func (p *Pipeline) ExtractFAQs(ctx context.Context, text string) []knowledge.Pair {
	pairs, _ := p.Extract(ctx, text)
	return pairs
}

// Extract is ExtractFAQs with statistics about the run.
func (p *Pipeline) Extract(ctx context.Context, text string) ([]knowledge.Pair, *IngestStats) {
	logger := contextutil.LoggerFromContext(ctx)
	started := time.Now()

	seq, _ := Windows(text, p.windowSize, p.overlapSize)
	results := make([]windowResult, MaxWindows(utf8.RuneCountInString(text), p.windowSize, p.overlapSize))
	lengths := make([]int, 0, len(results))
	stats := &IngestStats{DocumentRunes: utf8.RuneCountInString(text)}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	count := 0
	for w := range seq {
		if ctx.Err() != nil {
			logger.WarnContext(ctx, "extraction cancelled", "windows_scheduled", count, "error", ctx.Err())
			break
		}

		count++
		lengths = append(lengths, w.Len())
		if w.Tail {
			stats.TailWindows++
		}

		g.Go(func() error {
			results[w.Index] = p.extractor.extract(gctx, w)
			return nil
		})
	}
	_ = g.Wait()

	var pairs []knowledge.Pair
	for _, r := range results[:count] {
		if r.err != nil {
			stats.WindowsFailed++
		}
		stats.CandidatesDropped += r.dropped
		pairs = append(pairs, r.pairs...)
	}

	stats.Windows = count
	stats.PairsExtracted = len(pairs)
	stats.WindowLength = computeLengthStats(lengths)
	stats.Duration = time.Since(started)

	logger.InfoContext(ctx, "extraction completed",
		"windows", stats.Windows,
		"failed", stats.WindowsFailed,
		"pairs", stats.PairsExtracted,
		"dropped", stats.CandidatesDropped,
		"duration", stats.Duration,
	)
	return pairs, stats
}

// Ingest extracts pairs from text and adds them to store.
func (p *Pipeline) Ingest(ctx context.Context, text string, store PairStore) ([]knowledge.Pair, *IngestStats, error) {
	pairs, stats := p.Extract(ctx, text)
	if err := ctx.Err(); err != nil {
		return nil, stats, err
	}
	if len(pairs) == 0 {
		return nil, stats, nil
	}

	stored, err := store.Add(ctx, pairs)
	if err != nil {
		return nil, stats, fmt.Errorf("failed to add pairs: %w", err)
	}

	stats.PairsStored = len(stored)
	stats.DuplicatesSuppressed = len(pairs) - len(stored)
	return stored, stats, nil
}
