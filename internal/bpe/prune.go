package bpe

// pruneStats removes from the working table every pair whose count is
// below the threshold, keeping max selection cheap. The full table stays
// authoritative: an entry removed with a negative count is a delta
// against a value pruned earlier and is folded in, while a non-negative
// entry is exact and overwrites.
//
// Pruning only ever affects speed. The frequency of a pair never grows,
// so the working maximum can be wrong by at most the threshold before
// repair falls back to the full table.
func pruneStats(stats, big map[Pair]int, threshold float64) {
	for p, freq := range stats {
		if float64(freq) >= threshold {
			continue
		}
		delete(stats, p)
		if freq < 0 {
			big[p] += freq
		} else {
			big[p] = freq
		}
	}
}

// repair flushes the working table into the full table, restores the
// working table to a full copy, recalibrates the pruning threshold from
// the true maximum, and re-prunes. It is invoked when the working table
// is empty or its maximum dropped below the threshold (the maximum may
// have been pruned away), and reports the recomputed maximum.
//
// The recalibration schedule max*i/(i+10000) relaxes the threshold as
// merging proceeds and pair frequencies shrink.
func (l *Learner) repair(iteration int) (Pair, int, bool) {
	pruneStats(l.stats, l.big, l.threshold)

	l.stats = make(map[Pair]int, len(l.big))
	for p, f := range l.big {
		l.stats[p] = f
	}

	best, freq, ok := maxPair(l.stats)
	if !ok {
		return best, freq, false
	}
	if freq < 0 {
		panic("bpe: negative pair frequency in full statistics")
	}

	l.threshold = float64(freq) * float64(iteration) / (float64(iteration) + 10000.0)
	pruneStats(l.stats, l.big, l.threshold)

	return best, freq, true
}
