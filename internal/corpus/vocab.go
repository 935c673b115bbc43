// Package corpus builds the frequency-weighted starting vocabulary the
// merge learner consumes: word counts from line-oriented text, turned
// into per-word symbol sequences under one of three tokenization modes.
package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"github.com/kspar/subword-nmt/internal/bpe"
)

// EndOfWord is appended to every word's symbol sequence so merges can
// tell word-final subwords apart from word-internal ones.
const EndOfWord = "</w>"

// Mode selects how a word is split into its starting symbols.
type Mode int

const (
	// ModeChar splits words into individual characters.
	ModeChar Mode = iota

	// ModeMorphAsChar treats each delimiter-separated morpheme as one
	// atomic starting symbol. Input words must be morpheme-segmented.
	ModeMorphAsChar

	// ModeMorphAware splits morphemes into characters but keeps an
	// explicit boundary symbol between morphemes, letting merges
	// eventually cross and erase the boundary.
	ModeMorphAware
)

// ParseMode maps a configuration string to a tokenization mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "char":
		return ModeChar, nil
	case "morph-as-char":
		return ModeMorphAsChar, nil
	case "morph-aware":
		return ModeMorphAware, nil
	}
	return ModeChar, fmt.Errorf("unknown tokenization mode %q", s)
}

// CountWords tallies whitespace-separated word frequencies from a
// corpus stream. With normalize set, words are NFC-normalized before
// counting so visually identical spellings share one entry.
func CountWords(r io.Reader, normalize bool) (map[string]int, error) {
	counts := make(map[string]int)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		for _, w := range strings.Fields(sc.Text()) {
			if normalize {
				w = norm.NFC.String(w)
			}
			counts[w]++
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading corpus: %w", err)
	}

	return counts, nil
}

// CountFiles merges word frequencies from several corpus files, reading
// them concurrently. Counting commutes, so the result is independent of
// scheduling.
func CountFiles(paths []string, normalize bool) (map[string]int, error) {
	total := make(map[string]int)
	var mu sync.Mutex

	g := new(errgroup.Group)
	for _, path := range paths {
		path := path
		g.Go(func() error {
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("opening corpus: %w", err)
			}
			defer f.Close()

			counts, err := CountWords(f, normalize)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			mu.Lock()
			for w, n := range counts {
				total[w] += n
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return total, nil
}

// Build turns word frequencies into the starting vocabulary: each
// distinct word becomes one entry with its symbol sequence under the
// given mode. Entries are sorted by descending frequency (ties by word)
// before indexing; the order affects only scan locality, never which
// rules are learned, but a fixed order keeps runs reproducible.
func Build(counts map[string]int, mode Mode, delim string) []*bpe.Word {
	type entry struct {
		word string
		freq int
	}
	entries := make([]entry, 0, len(counts))
	for w, n := range counts {
		entries = append(entries, entry{w, n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].freq != entries[j].freq {
			return entries[i].freq > entries[j].freq
		}
		return entries[i].word < entries[j].word
	})

	vocab := make([]*bpe.Word, len(entries))
	for i, e := range entries {
		vocab[i] = &bpe.Word{
			Symbols: splitWord(e.word, mode, delim),
			Freq:    e.freq,
		}
	}
	return vocab
}

// splitWord produces a word's starting symbols, end marker included.
// Delimiter usage inside words is not validated: a delimiter adjacent
// to itself or colliding with raw corpus text is undefined behavior,
// and keeping it out is the morphological pipeline's contract.
func splitWord(word string, mode Mode, delim string) []string {
	var symbols []string

	switch mode {
	case ModeMorphAsChar:
		symbols = strings.Split(word, delim)
	case ModeMorphAware:
		for i, morpheme := range strings.Split(word, delim) {
			if i > 0 {
				symbols = append(symbols, delim)
			}
			for _, r := range morpheme {
				symbols = append(symbols, string(r))
			}
		}
	default:
		for _, r := range word {
			symbols = append(symbols, string(r))
		}
	}

	return append(symbols, EndOfWord)
}
