// Package morph cleans morphological tagger output into the
// delimiter-separated morpheme tokens the vocabulary builder expects.
// The tagger emits one analysis line per corpus token, e.g.
//
//	palume    palu+me //_V_ me, //
//
// which becomes "palu==me": analysis markup stripped, the tagger's own
// separators replaced with the configured delimiter.
package morph

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
)

// Delimiter is the default morpheme boundary literal. The cleaning
// pipeline must guarantee it never collides with corpus content.
const Delimiter = "=="

// noAnalysis marks tokens the tagger could not analyze.
const noAnalysis = "####"

var (
	// The segmented form runs up to the first analysis marker; the
	// lazy quantifier keeps markers out of the capture.
	analysisRe = regexp2.MustCompile(`(.+?) //.*`, regexp2.None)

	// The tagger marks morpheme boundaries with any of + _ =.
	separatorRe = regexp2.MustCompile(`[+_=]`, regexp2.None)
)

// CleanToken extracts the morpheme-segmented word from one analysis
// line and rewrites it with the given delimiter. ok is false when the
// tagger produced no analysis for the token; callers keep the raw
// corpus token in that case.
func CleanToken(line, delim string) (cleaned string, ok bool, err error) {
	fields := strings.SplitN(line, "    ", 2)
	if len(fields) < 2 {
		return "", false, fmt.Errorf("malformed analysis line %q", line)
	}
	analysis := fields[1]

	if strings.Contains(analysis, noAnalysis) {
		return "", false, nil
	}

	m, err := analysisRe.FindStringMatch(analysis)
	if err != nil {
		return "", false, fmt.Errorf("matching analysis %q: %w", analysis, err)
	}
	if m == nil {
		return "", false, fmt.Errorf("unparseable analysis %q", analysis)
	}
	word := m.GroupByNumber(1).String()

	// The tagger suffixes zero morphemes as +0; they carry no content.
	word = strings.TrimRight(word, "+0")

	cleaned, err = separatorRe.Replace(word, delim, -1, -1)
	if err != nil {
		return "", false, fmt.Errorf("rewriting separators in %q: %w", word, err)
	}
	return cleaned, true, nil
}

// CleanCorpus rewrites every sentence using the tagger's analyses,
// consumed one per corpus token in order. Analyzed tokens come out
// morpheme-delimited, unanalyzed ones pass through unchanged. The
// tagger sometimes groups several corpus words into one analysis; the
// grouped words are skipped to keep the two streams aligned.
func CleanCorpus(sentences, analyses []string, delim string) ([]string, error) {
	out := make([]string, 0, len(sentences))
	next := 0

	for _, sentence := range sentences {
		words := strings.Fields(sentence)
		cleaned := make([]string, 0, len(words))

		for i := 0; i < len(words); i++ {
			if next >= len(analyses) {
				return nil, fmt.Errorf("tagger output exhausted after %d analyses", next)
			}
			morphed, ok, err := CleanToken(analyses[next], delim)
			next++
			if err != nil {
				return nil, err
			}
			if !ok {
				cleaned = append(cleaned, words[i])
				continue
			}
			cleaned = append(cleaned, morphed)
			i += strings.Count(morphed, " ")
		}

		out = append(out, strings.Join(cleaned, " "))
	}

	return out, nil
}
