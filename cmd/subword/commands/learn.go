package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kspar/subword-nmt/internal/bpe"
	"github.com/kspar/subword-nmt/internal/corpus"
	"github.com/kspar/subword-nmt/internal/logging"
)

var learnCmd = &cobra.Command{
	Use:   "learn",
	Short: "Learn BPE merge rules from a corpus",
	Long: `Learn reads a corpus (one or more whitespace-separated words per
line), counts word frequencies, and learns up to the requested number of
BPE merge rules. Rules are written one per line, the two merged symbols
separated by a space, in the exact order they were chosen.

Learning stops early when no symbol pair reaches the minimum frequency;
the shorter rule list is still valid output.`,
	RunE: runLearn,
}

var (
	learnInput       string
	learnOutput      string
	learnSymbols     int
	learnMinFreq     int
	learnMorphAsChar bool
	learnMorphAware  bool
	learnDelimiter   string
	learnNormalize   bool
)

func init() {
	learnCmd.Flags().StringVarP(&learnInput, "input", "i", "", "input corpus (default: standard input)")
	learnCmd.Flags().StringVarP(&learnOutput, "output", "o", "", "output file for BPE codes (default: standard output)")
	learnCmd.Flags().IntVarP(&learnSymbols, "symbols", "s", 0, "create this many new symbols")
	learnCmd.Flags().IntVar(&learnMinFreq, "min-frequency", 0, "stop if no symbol pair has at least this frequency")
	learnCmd.Flags().BoolVarP(&learnMorphAsChar, "morph-as-char", "m", false, "start from whole morphemes instead of characters (input must be morpheme-segmented)")
	learnCmd.Flags().BoolVar(&learnMorphAware, "morph-aware", false, "start from characters but keep explicit morpheme boundaries")
	learnCmd.Flags().StringVarP(&learnDelimiter, "delimiter", "d", "", "morpheme delimiter")
	learnCmd.Flags().BoolVar(&learnNormalize, "normalize", false, "apply Unicode NFC normalization to corpus words")

	rootCmd.AddCommand(learnCmd)
}

func runLearn(cmd *cobra.Command, args []string) error {
	if learnMorphAsChar && learnMorphAware {
		return errors.New("--morph-as-char and --morph-aware are mutually exclusive")
	}

	// Flags override configuration, configuration fills the rest.
	symbols := cfg.Learn.Symbols
	if cmd.Flags().Changed("symbols") {
		symbols = learnSymbols
	}
	minFreq := cfg.Learn.MinFrequency
	if cmd.Flags().Changed("min-frequency") {
		minFreq = learnMinFreq
	}
	delim := cfg.Learn.Delimiter
	if cmd.Flags().Changed("delimiter") {
		delim = learnDelimiter
	}
	normalize := cfg.Learn.Normalize || learnNormalize

	mode, err := corpus.ParseMode(cfg.Learn.Mode)
	if err != nil {
		return err
	}
	if learnMorphAsChar {
		mode = corpus.ModeMorphAsChar
	} else if learnMorphAware {
		mode = corpus.ModeMorphAware
	}
	if symbols < 1 {
		return errors.New("symbols must be at least 1")
	}
	if minFreq < 1 {
		return errors.New("min-frequency must be at least 1")
	}

	in := io.Reader(os.Stdin)
	if learnInput != "" {
		f, err := os.Open(learnInput)
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		in = f
	}

	out := io.Writer(os.Stdout)
	if learnOutput != "" {
		f, err := os.Create(learnOutput)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer f.Close()
		out = f
	}

	return learn(in, out, learnOptions{
		symbols:   symbols,
		minFreq:   minFreq,
		mode:      mode,
		delim:     delim,
		normalize: normalize,
	})
}

type learnOptions struct {
	symbols   int
	minFreq   int
	mode      corpus.Mode
	delim     string
	normalize bool
}

// learn runs the full pipeline: count words, build the starting
// vocabulary, learn merges, write the rules in selection order.
func learn(in io.Reader, out io.Writer, opts learnOptions) error {
	counts, err := corpus.CountWords(in, opts.normalize)
	if err != nil {
		return err
	}

	vocab := corpus.Build(counts, opts.mode, opts.delim)
	logging.Debugf("vocabulary: %d distinct words", len(vocab))

	learner := bpe.NewLearner(vocab, bpe.Options{
		Symbols:      opts.symbols,
		MinFrequency: opts.minFreq,
		Delimiter:    opts.delim,
		OnMerge: func(i int, p bpe.Pair, freq int) {
			logging.Debugf("pair %d: %s %s -> %s (frequency %d)", i, p.Left, p.Right, p.Merged(), freq)
		},
	})
	rules := learner.Learn()

	if len(rules) < opts.symbols {
		logging.Infof("no pair has frequency >= %d, stopping after %d merges", opts.minFreq, len(rules))
	}

	w := bufio.NewWriter(out)
	for _, r := range rules {
		if _, err := fmt.Fprintf(w, "%s %s\n", r.Left, r.Right); err != nil {
			return fmt.Errorf("writing codes: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing codes: %w", err)
	}
	return nil
}
