package bpe

// pairStats counts the frequency of every adjacent symbol pair in the
// vocabulary, weighted by word frequency, and builds the inverted index
// from pairs to the words containing them with per-word occurrence
// counts. Pairs straddling a morpheme delimiter are never counted:
// every delimiter-separated span is scanned on its own.
func pairStats(vocab []*Word, delim string) (map[Pair]int, map[Pair]map[int]int) {
	stats := make(map[Pair]int)
	indices := make(map[Pair]map[int]int)

	for i, w := range vocab {
		for _, span := range splitSpans(w.Symbols, delim) {
			for j := 0; j+1 < len(span); j++ {
				p := Pair{span[j], span[j+1]}
				stats[p] += w.Freq
				bumpIndex(indices, p, i, 1)
			}
		}
	}

	return stats, indices
}

// splitSpans cuts a symbol sequence at every delimiter symbol. With no
// delimiter present (character and morph-as-char modes) the whole
// sequence is a single span.
func splitSpans(symbols []string, delim string) [][]string {
	var spans [][]string
	start := 0
	for i, s := range symbols {
		if s == delim {
			spans = append(spans, symbols[start:i])
			start = i + 1
		}
	}
	return append(spans, symbols[start:])
}

// bumpIndex adjusts the occurrence count of pair p in word j. The index
// is advisory: entries may go stale or negative mid-update and are
// skipped at lookup time.
func bumpIndex(indices map[Pair]map[int]int, p Pair, j, delta int) {
	m := indices[p]
	if m == nil {
		m = make(map[int]int)
		indices[p] = m
	}
	m[j] += delta
}

// maxPair returns the pair with the highest count. Ties are broken by
// the lexicographically smallest pair so selection is reproducible
// across runs.
func maxPair(stats map[Pair]int) (best Pair, freq int, ok bool) {
	for p, f := range stats {
		if !ok || f > freq || (f == freq && p.less(best)) {
			best, freq, ok = p, f, true
		}
	}
	return best, freq, ok
}
