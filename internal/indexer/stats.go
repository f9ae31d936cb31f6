package indexer

import (
	"math"
	"sort"
	"time"
)

// IngestStats describes one extraction run over a document.
type IngestStats struct {
	// DocumentRunes is the document length in runes.
	DocumentRunes int `json:"document_runes"`
	// Windows is the number of windows extracted.
	Windows int `json:"windows"`
	// TailWindows is the number of final-coverage windows among Windows.
	TailWindows int `json:"tail_windows"`
	// WindowsFailed counts windows whose completion or parse failed.
	WindowsFailed int `json:"windows_failed"`
	// CandidatesDropped counts array elements rejected by validation.
	CandidatesDropped int `json:"candidates_dropped"`
	// PairsExtracted is the number of valid pairs across all windows.
	PairsExtracted int `json:"pairs_extracted"`
	// PairsStored is the number of pairs the store accepted.
	PairsStored int `json:"pairs_stored"`
	// DuplicatesSuppressed is PairsExtracted minus PairsStored.
	DuplicatesSuppressed int `json:"duplicates_suppressed"`
	// WindowLength summarises window lengths in runes.
	WindowLength LengthStats `json:"window_length"`
	// Duration is the wall time of the extraction.
	Duration time.Duration `json:"duration_ns"`
}

// LengthStats contains summary statistics over a set of lengths.
type LengthStats struct {
	Min  int     `json:"min"`
	Max  int     `json:"max"`
	Mean float64 `json:"mean"`
	P95  int     `json:"p95"`
}

// computeLengthStats computes min, max, mean, and p95 from lengths.
func computeLengthStats(lengths []int) LengthStats {
	if len(lengths) == 0 {
		return LengthStats{}
	}

	// Sort for percentile calculation
	sorted := make([]int, len(lengths))
	copy(sorted, lengths)
	sort.Ints(sorted)

	sum := 0
	for _, n := range lengths {
		sum += n
	}
	mean := float64(sum) / float64(len(lengths))

	p95Index := int(math.Ceil(float64(len(sorted)) * 0.95))
	if p95Index >= len(sorted) {
		p95Index = len(sorted) - 1
	}

	return LengthStats{
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
		Mean: math.Round(mean*100) / 100, // Round to 2 decimal places
		P95:  sorted[p95Index],
	}
}
