package bpe

// Pair is two symbols adjacent in some word's current representation.
type Pair struct {
	Left  string
	Right string
}

// Merged returns the composite symbol that merging the pair produces.
func (p Pair) Merged() string {
	return p.Left + p.Right
}

// String renders the pair in merge-rule form: both symbols separated by
// a single space.
func (p Pair) String() string {
	return p.Left + " " + p.Right
}

// less orders pairs lexicographically; used to break frequency ties so
// selection is deterministic.
func (p Pair) less(q Pair) bool {
	if p.Left != q.Left {
		return p.Left < q.Left
	}
	return p.Right < q.Right
}

// touches reports whether either side of the pair is the given symbol.
func (p Pair) touches(sym string) bool {
	return p.Left == sym || p.Right == sym
}

// Word is one vocabulary entry: an ordered symbol sequence and the
// word's corpus frequency. Entries are mutated in place by merges; the
// index of an entry in the vocabulary is its identity for the lifetime
// of a run, so entries are never reordered or removed.
type Word struct {
	Symbols []string
	Freq    int
}
