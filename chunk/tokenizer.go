package chunk

// Tokenizer maps text to the unit sequence chunk windows are measured in.
// Each unit must round-trip: concatenating a contiguous run of units yields
// the exact text of that range.
type Tokenizer interface {
	Encode(text string) []string
}

// RuneTokenizer measures text in Unicode code points. It needs no external
// model data and is the default.
type RuneTokenizer struct{}

var _ Tokenizer = RuneTokenizer{}

// Encode splits text into one unit per rune.
func (RuneTokenizer) Encode(text string) []string {
	if text == "" {
		return nil
	}
	runes := []rune(text)
	units := make([]string, len(runes))
	for i, r := range runes {
		units[i] = string(r)
	}
	return units
}
