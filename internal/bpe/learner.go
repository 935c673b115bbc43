// Package bpe learns byte pair encoding merge rules from a frequency-
// weighted vocabulary. Starting from each word's initial symbol
// sequence it repeatedly merges the globally most frequent adjacent
// pair into a new symbol, maintaining pair statistics incrementally
// instead of recounting the corpus after every merge.
package bpe

// Options configure a merge-learning run.
type Options struct {
	// Symbols is the merge budget: the number of rules to learn.
	Symbols int

	// MinFrequency stops the run once no pair reaches this frequency.
	MinFrequency int

	// Delimiter is the morpheme boundary symbol. Pairs straddling it
	// are never counted or merged. Empty when the vocabulary has no
	// morpheme boundaries.
	Delimiter string

	// OnMerge, when set, is called once per merge with the iteration,
	// the selected pair and its frequency at selection time.
	OnMerge func(iteration int, pair Pair, freq int)
}

// Learner owns one merge-learning run over a vocabulary. It keeps two
// statistics tables: a working table pruned below a frequency threshold
// so finding the maximum stays cheap, and a full table that remains
// authoritative for repairing the working one. The true frequency of a
// pair is always the sum of (occurrences x word frequency) over the
// words containing it; the working table matches that exactly whenever
// the pair has not been pruned.
type Learner struct {
	vocab     []*Word
	delim     string
	opts      Options
	stats     map[Pair]int         // working table, pruned
	big       map[Pair]int         // full table, never pruned
	indices   map[Pair]map[int]int // pair -> word index -> occurrences
	threshold float64
}

// NewLearner computes initial pair statistics for the vocabulary and
// prepares a run. The vocabulary is mutated in place as merges are
// applied. The initial pruning threshold is a tenth of the highest pair
// frequency, a Zipfian guess that only affects speed, never which rules
// come out.
func NewLearner(vocab []*Word, opts Options) *Learner {
	l := &Learner{
		vocab: vocab,
		delim: opts.Delimiter,
		opts:  opts,
	}

	l.stats, l.indices = pairStats(vocab, l.delim)
	l.big = make(map[Pair]int, len(l.stats))
	maxFreq := 0
	for p, f := range l.stats {
		l.big[p] = f
		if f > maxFreq {
			maxFreq = f
		}
	}
	l.threshold = float64(maxFreq) / 10.0

	return l
}

// Learn runs the merge-selection loop and returns the rules in the
// exact order chosen, which downstream encoders must replay. The list
// is shorter than the symbol budget only when no pair reached the
// minimum frequency, a normal early termination.
func (l *Learner) Learn() []Pair {
	rules := make([]Pair, 0, l.opts.Symbols)

	for i := 0; i < l.opts.Symbols; i++ {
		best, freq, ok := maxPair(l.stats)

		// The working maximum may be an artifact of pruning; fall back
		// to the full table and recalibrate.
		if !ok || (i > 0 && float64(freq) < l.threshold) {
			best, freq, ok = l.repair(i)
			if !ok {
				break
			}
		}

		if freq < l.opts.MinFrequency {
			break
		}

		if l.opts.OnMerge != nil {
			l.opts.OnMerge(i, best, freq)
		}
		rules = append(rules, best)

		changes := l.replacePair(best)
		l.updateStats(best, changes)

		// The merged pair cannot recur as itself.
		l.stats[best] = 0

		// Periodic compaction, independent of repair.
		if i%100 == 0 {
			pruneStats(l.stats, l.big, l.threshold)
		}
	}

	return rules
}
