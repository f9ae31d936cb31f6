package indexer

// Window is a contiguous slice of a document, measured in runes.
type Window struct {
	Index int    // Position in the window sequence (starts at 0)
	Start int    // First rune offset, inclusive
	End   int    // Last rune offset, exclusive
	Text  string // Window text
	Tail  bool   // Set on the final-coverage window
}

// Len returns the window length in runes.
func (w Window) Len() int {
	return w.End - w.Start
}
