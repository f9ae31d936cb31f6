package indexer

import (
	"errors"
	"fmt"
	"iter"
)

const (
	// DefaultWindowSize is the default window length in runes.
	DefaultWindowSize = 4000
	// DefaultOverlapSize is the default number of runes shared by consecutive windows.
	DefaultOverlapSize = 1000
)

// ErrInvalidWindow is returned when window parameters cannot advance the cursor.
var ErrInvalidWindow = errors.New("invalid window parameters")

// ValidateWindow checks that windowSize > overlapSize >= 0.
func ValidateWindow(windowSize, overlapSize int) error {
	if windowSize <= 0 {
		return fmt.Errorf("%w: window size must be positive, got %d", ErrInvalidWindow, windowSize)
	}
	if overlapSize < 0 {
		return fmt.Errorf("%w: overlap size must be non-negative, got %d", ErrInvalidWindow, overlapSize)
	}
	if overlapSize >= windowSize {
		return fmt.Errorf("%w: overlap size %d must be smaller than window size %d", ErrInvalidWindow, overlapSize, windowSize)
	}
	return nil
}

// Windows returns a lazy sequence of overlapping windows over text.
// Offsets and sizes are counted in runes. Each regular window covers
// [start, min(start+windowSize, len)) and the cursor advances by windowSize-overlapSize.
// When the next cursor plus overlapSize reaches the end of the text the sequence stops,
// first emitting a tail window over the final overlapSize runes if the last regular
// window ended before the end of the text.
func Windows(text string, windowSize, overlapSize int) (iter.Seq[Window], error) {
	if err := ValidateWindow(windowSize, overlapSize); err != nil {
		return nil, err
	}

	return func(yield func(Window) bool) {
		runes := []rune(text)
		length := len(runes)
		stride := windowSize - overlapSize

		index := 0
		for start := 0; start < length; {
			end := min(start+windowSize, length)
			if !yield(Window{Index: index, Start: start, End: end, Text: string(runes[start:end])}) {
				return
			}
			index++

			start += stride
			if start+overlapSize >= length {
				if end < length {
					tailStart := max(length-overlapSize, 0)
					yield(Window{Index: index, Start: tailStart, End: length, Text: string(runes[tailStart:]), Tail: true})
				}
				return
			}
		}
	}, nil
}

// Split returns all windows over text in order. See Windows.
func Split(text string, windowSize, overlapSize int) ([]Window, error) {
	seq, err := Windows(text, windowSize, overlapSize)
	if err != nil {
		return nil, err
	}

	var windows []Window
	for w := range seq {
		windows = append(windows, w)
	}
	return windows, nil
}

// MaxWindows is the upper bound on the number of windows Split can produce
// for a text of length runes.
func MaxWindows(length, windowSize, overlapSize int) int {
	if length == 0 {
		return 0
	}
	stride := windowSize - overlapSize
	return (length+stride-1)/stride + 1
}
