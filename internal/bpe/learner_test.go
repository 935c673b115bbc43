package bpe

import (
	"fmt"
	"reflect"
	"testing"
)

// charWord builds a vocabulary entry the way character mode does:
// one symbol per rune plus the end-of-word marker.
func charWord(w string, freq int) *Word {
	symbols := make([]string, 0, len(w)+1)
	for _, r := range w {
		symbols = append(symbols, string(r))
	}
	return &Word{Symbols: append(symbols, "</w>"), Freq: freq}
}

func charVocab(words ...string) []*Word {
	vocab := make([]*Word, len(words))
	for i, w := range words {
		vocab[i] = charWord(w, 1)
	}
	return vocab
}

// morphAwareWord splits on "==" keeping explicit boundary symbols.
func morphAwareWord(morphemes []string, freq int) *Word {
	var symbols []string
	for i, m := range morphemes {
		if i > 0 {
			symbols = append(symbols, "==")
		}
		for _, r := range m {
			symbols = append(symbols, string(r))
		}
	}
	return &Word{Symbols: append(symbols, "</w>"), Freq: freq}
}

// recount recomputes pair statistics from the vocabulary's current
// state, the brute-force way.
func recount(vocab []*Word, delim string) map[Pair]int {
	stats, _ := pairStats(vocab, delim)
	return stats
}

// checkExact verifies the incrementally maintained working table against
// a brute-force recount. Only meaningful when pruning is neutralized.
func checkExact(t *testing.T, l *Learner, context string) {
	t.Helper()
	truth := recount(l.vocab, l.delim)
	for p, f := range truth {
		if l.stats[p] != f {
			t.Fatalf("%s: pair %v: incremental %d, recount %d", context, p, l.stats[p], f)
		}
	}
	for p, f := range l.stats {
		if f < 0 {
			t.Fatalf("%s: pair %v has negative count %d", context, p, f)
		}
		if f > 0 && truth[p] != f {
			t.Fatalf("%s: pair %v: incremental %d, recount %d", context, p, f, truth[p])
		}
	}
}

func TestLearnExampleCorpus(t *testing.T) {
	vocab := charVocab("low", "lower", "lowest", "newest", "widest")

	var freqs []int
	l := NewLearner(vocab, Options{
		Symbols:      3,
		MinFrequency: 2,
		OnMerge: func(i int, p Pair, freq int) {
			freqs = append(freqs, freq)
		},
	})
	rules := l.Learn()

	want := []Pair{
		{"e", "s"},
		{"es", "t"},
		{"est", "</w>"},
	}
	if !reflect.DeepEqual(rules, want) {
		t.Fatalf("rules = %v, want %v", rules, want)
	}
	for i, f := range freqs {
		if f != 3 {
			t.Errorf("merge %d selected with frequency %d, want 3", i, f)
		}
	}
}

func TestLearnStopsAtFrequencyFloor(t *testing.T) {
	vocab := charVocab("low", "lower", "lowest", "newest", "widest")

	var freqs []int
	l := NewLearner(vocab, Options{
		Symbols:      100,
		MinFrequency: 2,
		OnMerge: func(i int, p Pair, freq int) {
			freqs = append(freqs, freq)
		},
	})
	rules := l.Learn()

	if len(rules) >= 100 {
		t.Fatalf("expected early termination, got %d rules", len(rules))
	}
	if len(rules) == 0 {
		t.Fatal("expected at least one rule")
	}
	for i, f := range freqs {
		if f < 2 {
			t.Errorf("merge %d selected with frequency %d below floor", i, f)
		}
	}
}

func TestLearnBudgetExact(t *testing.T) {
	// Plenty of frequency-2 pairs available; the budget binds first.
	vocab := []*Word{
		charWord("banana", 20),
		charWord("bandana", 20),
		charWord("cabana", 20),
	}

	l := NewLearner(vocab, Options{Symbols: 4, MinFrequency: 2})
	rules := l.Learn()

	if len(rules) != 4 {
		t.Fatalf("got %d rules, want the full budget of 4", len(rules))
	}
}

func TestLearnSelectionMonotonic(t *testing.T) {
	vocab := []*Word{
		charWord("the", 120),
		charWord("then", 35),
		charWord("there", 28),
		charWord("other", 17),
		charWord("that", 90),
		charWord("than", 12),
		charWord("think", 9),
		charWord("thing", 14),
		charWord("those", 6),
	}

	var freqs []int
	l := NewLearner(vocab, Options{
		Symbols:      50,
		MinFrequency: 2,
		OnMerge: func(i int, p Pair, freq int) {
			freqs = append(freqs, freq)
		},
	})
	l.Learn()

	for i := 1; i < len(freqs); i++ {
		if freqs[i] > freqs[i-1] {
			t.Fatalf("selection frequency increased at merge %d: %v", i, freqs)
		}
	}
}

func TestLearnPruningDoesNotChangeRules(t *testing.T) {
	build := func() []*Word {
		return []*Word{
			charWord("the", 120),
			charWord("then", 35),
			charWord("there", 28),
			charWord("other", 17),
			charWord("that", 90),
			charWord("than", 12),
			charWord("think", 9),
			charWord("thing", 14),
			charWord("those", 6),
			charWord("lowest", 11),
			charWord("newest", 7),
		}
	}

	pruned := NewLearner(build(), Options{Symbols: 60, MinFrequency: 2}).Learn()

	exact := NewLearner(build(), Options{Symbols: 60, MinFrequency: 2})
	exact.threshold = 0 // never prune: every selection scans full statistics
	unpruned := exact.Learn()

	if !reflect.DeepEqual(pruned, unpruned) {
		t.Fatalf("pruning changed the rule sequence:\npruned:   %v\nunpruned: %v", pruned, unpruned)
	}
}

func TestLearnIdempotent(t *testing.T) {
	opts := Options{Symbols: 30, MinFrequency: 2}

	first := NewLearner(charVocab("low", "lower", "lowest", "newest", "widest"), opts).Learn()
	second := NewLearner(charVocab("low", "lower", "lowest", "newest", "widest"), opts).Learn()

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical inputs produced different rules:\n%v\n%v", first, second)
	}
}

func TestLearnEmptyVocabulary(t *testing.T) {
	l := NewLearner(nil, Options{Symbols: 10, MinFrequency: 2})
	if rules := l.Learn(); len(rules) != 0 {
		t.Fatalf("expected no rules for empty vocabulary, got %v", rules)
	}
}

func TestLearnSingleCharacterWord(t *testing.T) {
	vocab := []*Word{charWord("a", 5)}

	l := NewLearner(vocab, Options{Symbols: 3, MinFrequency: 2})
	rules := l.Learn()

	want := []Pair{{"a", "</w>"}}
	if !reflect.DeepEqual(rules, want) {
		t.Fatalf("rules = %v, want %v", rules, want)
	}
	if got := vocab[0].Symbols; len(got) != 1 || got[0] != "a</w>" {
		t.Fatalf("word not fully merged: %v", got)
	}
}

func TestLearnMorphAwareFullCollapse(t *testing.T) {
	vocab := []*Word{morphAwareWord([]string{"ab", "cd"}, 5)}

	l := NewLearner(vocab, Options{Symbols: 10, MinFrequency: 1, Delimiter: "=="})
	rules := l.Learn()

	want := []Pair{
		{"a", "b"},
		{"c", "d"},
		{"cd", "</w>"},
		{"ab", "cd</w>"},
	}
	if !reflect.DeepEqual(rules, want) {
		t.Fatalf("rules = %v, want %v", rules, want)
	}

	got := vocab[0].Symbols
	if len(got) != 1 || got[0] != "abcd</w>" {
		t.Fatalf("word = %v, want single symbol abcd</w>", got)
	}
	for _, s := range got {
		if s == "==" {
			t.Fatal("residual boundary delimiter after full collapse")
		}
	}
}

// runExact drives the merge loop step by step with pruning neutralized,
// verifying after every merge that the incremental statistics match a
// brute-force recount of the vocabulary.
func runExact(t *testing.T, vocab []*Word, delim string, steps int) {
	t.Helper()
	l := NewLearner(vocab, Options{Symbols: steps, MinFrequency: 1, Delimiter: delim})
	l.threshold = 0

	for i := 0; i < steps; i++ {
		best, freq, ok := maxPair(l.stats)
		if !ok || freq < 1 {
			return
		}
		changes := l.replacePair(best)
		l.updateStats(best, changes)
		l.stats[best] = 0
		checkExact(t, l, fmt.Sprintf("after merge %d (%v)", i, best))
	}
}

func TestIncrementalMatchesRecountCharMode(t *testing.T) {
	vocab := charVocab("low", "lower", "lowest", "newest", "widest", "wider", "news")
	runExact(t, vocab, "", 50)
}

func TestIncrementalMatchesRecountMorphAware(t *testing.T) {
	vocab := []*Word{
		morphAwareWord([]string{"palu", "me"}, 9),
		morphAwareWord([]string{"palu", "sime"}, 4),
		morphAwareWord([]string{"suur", "linn"}, 7),
		morphAwareWord([]string{"linn"}, 12),
		morphAwareWord([]string{"ab", "cd"}, 5),
	}
	runExact(t, vocab, "==", 80)
}

// Overlap handling around repeated symbols is the subtle part of the
// differential update; sweep every short sequence over a two-letter
// alphabet and check against recount at every step.
func TestIncrementalMatchesRecountExhaustive(t *testing.T) {
	var seqs []string
	alphabet := []string{"a", "b"}
	var grow func(prefix string, n int)
	grow = func(prefix string, n int) {
		if n == 0 {
			seqs = append(seqs, prefix)
			return
		}
		for _, c := range alphabet {
			grow(prefix+c, n-1)
		}
	}
	for n := 1; n <= 5; n++ {
		grow("", n)
	}

	for _, seq := range seqs {
		t.Run(seq, func(t *testing.T) {
			runExact(t, []*Word{charWord(seq, 3)}, "", 8)
		})
	}

	// And all of them together, where pairs span many words.
	all := make([]*Word, len(seqs))
	for i, seq := range seqs {
		all[i] = charWord(seq, 2)
	}
	runExact(t, all, "", 60)
}

func BenchmarkLearn(b *testing.B) {
	words := []string{
		"the", "then", "there", "other", "that", "than", "think",
		"thing", "those", "lowest", "newest", "widest", "lower",
		"fastest", "faster", "slowest", "slower",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		vocab := make([]*Word, len(words))
		for j, w := range words {
			vocab[j] = charWord(w, 10+j*7)
		}
		b.StartTimer()

		NewLearner(vocab, Options{Symbols: 100, MinFrequency: 2}).Learn()
	}
}
