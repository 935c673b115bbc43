package bpe

import "sort"

// change records one word entry rewritten by a merge: the entry index,
// the symbol sequences before and after, and the word's frequency.
type change struct {
	word int
	out  []string
	in   []string
	freq int
}

// replacePair applies the merge (L, R) -> LR to every word the inverted
// index flags as currently containing the pair. Each word is rewritten
// left to right with non-overlapping replacement, so in a run like
// (x, x, x) only the first candidate occurrence merges. Returns the
// per-word changes the incremental statistics update needs.
func (l *Learner) replacePair(p Pair) []change {
	merged := p.Merged()

	// Stale and negative index entries mean the pair is no longer in
	// that word; skip them. Visit words in ascending index order so
	// diagnostics are deterministic (the updates themselves commute).
	words := make([]int, 0, len(l.indices[p]))
	for j, n := range l.indices[p] {
		if n < 1 {
			continue
		}
		words = append(words, j)
	}
	sort.Ints(words)

	changes := make([]change, 0, len(words))
	for _, j := range words {
		w := l.vocab[j]
		old := w.Symbols

		out := make([]string, 0, len(old))
		for i := 0; i < len(old); {
			if i+1 < len(old) && old[i] == p.Left && old[i+1] == p.Right {
				out = append(out, merged)
				i += 2
			} else {
				out = append(out, old[i])
				i++
			}
		}

		// When every morpheme-delimited span has merged down to a
		// single symbol the word has no internal split left to encode;
		// strip the remaining boundary symbols so morphemes can merge
		// across what used to be a boundary.
		if collapsed(out, l.delim) {
			out = stripDelims(out, l.delim)
		}

		w.Symbols = out
		changes = append(changes, change{word: j, out: out, in: old, freq: w.Freq})
	}

	return changes
}

// collapsed reports whether every delimiter-separated span of the
// sequence consists of exactly one symbol.
func collapsed(symbols []string, delim string) bool {
	n := 0
	for _, s := range symbols {
		if s == delim {
			n++
		}
	}
	return len(symbols)-2*n-1 == 0
}

func stripDelims(symbols []string, delim string) []string {
	out := symbols[:0]
	for _, s := range symbols {
		if s != delim {
			out = append(out, s)
		}
	}
	return out
}

// updateStats repairs the working statistics and the inverted index
// after a merge of p, touching only the neighborhood of each
// replacement site instead of recounting the corpus. Words whose
// morpheme boundaries fully collapsed changed non-locally and are
// recounted from scratch (bounded by word length).
func (l *Learner) updateStats(p Pair, changes []change) {
	l.stats[p] = 0
	l.indices[p] = make(map[int]int)
	merged := p.Merged()

	for _, c := range changes {
		if hasSymbol(c.in, l.delim) && !hasSymbol(c.out, l.delim) {
			// Boundary collapse. The old sequence contributed no
			// countable pairs besides the one just merged (everything
			// else straddled a delimiter), and that one is already
			// zeroed, so only the new pairs need counting.
			for i := 0; i+1 < len(c.out); i++ {
				l.addPair(Pair{c.out[i], c.out[i+1]}, c.word, c.freq)
			}
			continue
		}

		// Remove the pairs that flanked each replacement site in the
		// old sequence.
		old := c.in
		for i := 0; i < len(old)-1; {
			if old[i] != p.Left || old[i+1] != p.Right {
				i++
				continue
			}
			if i > 0 {
				prev := Pair{old[i-1], old[i]}
				if !prev.touches(l.delim) {
					l.dropPair(prev, c.word, c.freq)
				}
			}
			if i < len(old)-2 {
				// Don't double-count consecutive occurrences: the pair
				// between two adjacent sites is removed once, as the
				// second site's left flank.
				if old[i+2] != p.Left || i >= len(old)-3 || old[i+3] != p.Right {
					next := Pair{old[i+1], old[i+2]}
					if !next.touches(l.delim) {
						l.dropPair(next, c.word, c.freq)
					}
				}
			}
			i += 2
		}

		// Add the pairs formed around each merged symbol in the new
		// sequence.
		now := c.out
		for i, s := range now {
			if s != merged {
				continue
			}
			if i > 0 {
				prev := Pair{now[i-1], now[i]}
				if !prev.touches(l.delim) {
					l.addPair(prev, c.word, c.freq)
				}
			}
			// Again skip the pair between two adjacent merged symbols
			// here; it is added as the next one's left flank.
			if i < len(now)-1 && now[i+1] != merged {
				next := Pair{now[i], now[i+1]}
				if !next.touches(l.delim) {
					l.addPair(next, c.word, c.freq)
				}
			}
		}
	}
}

func (l *Learner) addPair(p Pair, word, freq int) {
	l.stats[p] += freq
	bumpIndex(l.indices, p, word, 1)
}

func (l *Learner) dropPair(p Pair, word, freq int) {
	l.stats[p] -= freq
	bumpIndex(l.indices, p, word, -1)
}

func hasSymbol(symbols []string, sym string) bool {
	for _, s := range symbols {
		if s == sym {
			return true
		}
	}
	return false
}
