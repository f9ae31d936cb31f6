package indexer

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		windowSize  int
		overlapSize int
		want        [][2]int
	}{
		{
			name:        "empty text",
			text:        "",
			windowSize:  10,
			overlapSize: 2,
			want:        nil,
		},
		{
			name:        "shorter than window",
			text:        "hello",
			windowSize:  10,
			overlapSize: 2,
			want:        [][2]int{{0, 5}},
		},
		{
			name:        "exactly one window",
			text:        strings.Repeat("a", 10),
			windowSize:  10,
			overlapSize: 3,
			want:        [][2]int{{0, 10}},
		},
		{
			name:        "overlapping windows",
			text:        strings.Repeat("a", 25),
			windowSize:  10,
			overlapSize: 3,
			want:        [][2]int{{0, 10}, {7, 17}, {14, 24}, {21, 25}},
		},
		{
			name:        "no overlap tiles the text",
			text:        strings.Repeat("a", 25),
			windowSize:  10,
			overlapSize: 0,
			want:        [][2]int{{0, 10}, {10, 20}, {20, 25}},
		},
		{
			name:        "last window ends at the text end",
			text:        strings.Repeat("a", 17),
			windowSize:  10,
			overlapSize: 3,
			want:        [][2]int{{0, 10}, {7, 17}},
		},
		{
			name:        "defaults on a 10000 rune document",
			text:        strings.Repeat("文", 10000),
			windowSize:  DefaultWindowSize,
			overlapSize: DefaultOverlapSize,
			want:        [][2]int{{0, 4000}, {3000, 7000}, {6000, 10000}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			windows, err := Split(tt.text, tt.windowSize, tt.overlapSize)
			if err != nil {
				t.Fatalf("Split() error = %v", err)
			}

			if len(windows) != len(tt.want) {
				t.Fatalf("Split() returned %d windows, want %d: %+v", len(windows), len(tt.want), windows)
			}
			for i, w := range windows {
				if w.Start != tt.want[i][0] || w.End != tt.want[i][1] {
					t.Errorf("window %d = [%d, %d), want [%d, %d)", i, w.Start, w.End, tt.want[i][0], tt.want[i][1])
				}
				if w.Index != i {
					t.Errorf("window %d Index = %d", i, w.Index)
				}
			}
		})
	}
}

func TestSplit_CountsRunes(t *testing.T) {
	text := "退货政策说明" + strings.Repeat("，", 4)
	windows, err := Split(text, 4, 1)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	runes := []rune(text)
	for _, w := range windows {
		if !utf8.ValidString(w.Text) {
			t.Errorf("window %d text is not valid UTF-8", w.Index)
		}
		if w.Text != string(runes[w.Start:w.End]) {
			t.Errorf("window %d text = %q, want %q", w.Index, w.Text, string(runes[w.Start:w.End]))
		}
		if utf8.RuneCountInString(w.Text) != w.Len() {
			t.Errorf("window %d has %d runes, Len() = %d", w.Index, utf8.RuneCountInString(w.Text), w.Len())
		}
	}
}

func TestSplit_InvalidParameters(t *testing.T) {
	tests := []struct {
		name        string
		windowSize  int
		overlapSize int
	}{
		{name: "overlap equals window", windowSize: 10, overlapSize: 10},
		{name: "overlap larger than window", windowSize: 10, overlapSize: 11},
		{name: "negative overlap", windowSize: 10, overlapSize: -1},
		{name: "zero window", windowSize: 0, overlapSize: 0},
		{name: "negative window", windowSize: -5, overlapSize: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Split("some text", tt.windowSize, tt.overlapSize)
			if !errors.Is(err, ErrInvalidWindow) {
				t.Errorf("Split() error = %v, want ErrInvalidWindow", err)
			}

			if _, err := Windows("some text", tt.windowSize, tt.overlapSize); !errors.Is(err, ErrInvalidWindow) {
				t.Errorf("Windows() error = %v, want ErrInvalidWindow", err)
			}
		})
	}
}

// TestSplit_Properties checks coverage, exact overlap, ordering, and the count bound
// over a grid of lengths and parameters.
func TestSplit_Properties(t *testing.T) {
	for length := 0; length <= 60; length++ {
		text := strings.Repeat("字", length)
		for windowSize := 1; windowSize <= 12; windowSize++ {
			for overlapSize := 0; overlapSize < windowSize; overlapSize++ {
				windows, err := Split(text, windowSize, overlapSize)
				if err != nil {
					t.Fatalf("Split(len=%d, %d, %d) error = %v", length, windowSize, overlapSize, err)
				}
				checkWindowProperties(t, windows, length, windowSize, overlapSize)
			}
		}
	}
}

func checkWindowProperties(t *testing.T, windows []Window, length, windowSize, overlapSize int) {
	t.Helper()

	if length == 0 {
		if len(windows) != 0 {
			t.Errorf("len=%d size=%d overlap=%d: got %d windows for empty text", length, windowSize, overlapSize, len(windows))
		}
		return
	}

	if bound := MaxWindows(length, windowSize, overlapSize); len(windows) > bound {
		t.Errorf("len=%d size=%d overlap=%d: %d windows exceeds bound %d", length, windowSize, overlapSize, len(windows), bound)
	}

	if length <= windowSize && (len(windows) != 1 || windows[0].Tail) {
		t.Errorf("len=%d size=%d overlap=%d: want one regular window, got %+v", length, windowSize, overlapSize, windows)
	}

	covered := make([]bool, length)
	var prev *Window
	for i := range windows {
		w := windows[i]
		if w.Start < 0 || w.End > length || w.Start >= w.End {
			t.Errorf("len=%d size=%d overlap=%d: window %d out of range [%d, %d)", length, windowSize, overlapSize, i, w.Start, w.End)
			continue
		}
		if w.Len() > windowSize {
			t.Errorf("len=%d size=%d overlap=%d: window %d longer than window size", length, windowSize, overlapSize, i)
		}
		for j := w.Start; j < w.End; j++ {
			covered[j] = true
		}

		if prev != nil && !w.Tail {
			if w.Start <= prev.Start {
				t.Errorf("len=%d size=%d overlap=%d: window %d not after window %d", length, windowSize, overlapSize, i, i-1)
			}
			if got := prev.End - w.Start; got != overlapSize {
				t.Errorf("len=%d size=%d overlap=%d: windows %d and %d overlap by %d", length, windowSize, overlapSize, i-1, i, got)
			}
		}
		prev = &windows[i]
	}

	for j, ok := range covered {
		if !ok {
			t.Errorf("len=%d size=%d overlap=%d: offset %d not covered", length, windowSize, overlapSize, j)
			break
		}
	}
}

func TestWindows_IsLazy(t *testing.T) {
	seq, err := Windows(strings.Repeat("a", 1000), 10, 2)
	if err != nil {
		t.Fatalf("Windows() error = %v", err)
	}

	count := 0
	for w := range seq {
		count++
		if w.Index == 2 {
			break
		}
	}
	if count != 3 {
		t.Errorf("iteration stopped after %d windows, want 3", count)
	}
}

func TestMaxWindows(t *testing.T) {
	tests := []struct {
		length, windowSize, overlapSize, want int
	}{
		{length: 0, windowSize: 10, overlapSize: 2, want: 0},
		{length: 5, windowSize: 10, overlapSize: 2, want: 2},
		{length: 25, windowSize: 10, overlapSize: 3, want: 5},
		{length: 10000, windowSize: 4000, overlapSize: 1000, want: 5},
	}

	for _, tt := range tests {
		if got := MaxWindows(tt.length, tt.windowSize, tt.overlapSize); got != tt.want {
			t.Errorf("MaxWindows(%d, %d, %d) = %d, want %d", tt.length, tt.windowSize, tt.overlapSize, got, tt.want)
		}
	}
}
