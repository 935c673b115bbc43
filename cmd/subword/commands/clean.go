package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kspar/subword-nmt/internal/morph"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Rewrite morphological tagger output as morpheme-delimited text",
	Long: `Clean aligns a raw corpus with its morphological tagger output and
rewrites every analyzed token as delimiter-separated morphemes, ready
for the morph-as-char and morph-aware learning modes. Tokens the tagger
could not analyze pass through unchanged.`,
	RunE: runClean,
}

var (
	cleanCorpusFile   string
	cleanAnalysisFile string
	cleanOutput       string
	cleanDelimiter    string
)

func init() {
	cleanCmd.Flags().StringVar(&cleanCorpusFile, "corpus", "", "raw sentence file (required)")
	cleanCmd.Flags().StringVar(&cleanAnalysisFile, "analyses", "", "tagger output file, one analysis per token (required)")
	cleanCmd.Flags().StringVarP(&cleanOutput, "output", "o", "", "output file (default: standard output)")
	cleanCmd.Flags().StringVarP(&cleanDelimiter, "delimiter", "d", morph.Delimiter, "morpheme delimiter")
	cleanCmd.MarkFlagRequired("corpus")
	cleanCmd.MarkFlagRequired("analyses")

	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	sentences, err := readLines(cleanCorpusFile)
	if err != nil {
		return err
	}
	analyses, err := readLines(cleanAnalysisFile)
	if err != nil {
		return err
	}

	cleaned, err := morph.CleanCorpus(sentences, analyses, cleanDelimiter)
	if err != nil {
		return err
	}

	out := io.Writer(os.Stdout)
	if cleanOutput != "" {
		f, err := os.Create(cleanOutput)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer f.Close()
		out = f
	}

	w := bufio.NewWriter(out)
	if _, err := w.WriteString(strings.Join(cleaned, "\n")); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if len(cleaned) > 0 {
		w.WriteByte('\n')
	}
	return w.Flush()
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return lines, nil
}
