package commands

import (
	"bufio"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/kspar/subword-nmt/internal/corpus"
)

var countCmd = &cobra.Command{
	Use:   "count [files...]",
	Short: "Count distinct words in corpus files",
	Long: `Count reads one or more corpus files concurrently, merges their
word-frequency counts, and prints the number of distinct words. With
--dump the full frequency table is written as well, one word per line,
most frequent first.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCount,
}

var (
	countDump      bool
	countNormalize bool
)

func init() {
	countCmd.Flags().BoolVar(&countDump, "dump", false, "write the word<TAB>count table after the summary")
	countCmd.Flags().BoolVar(&countNormalize, "normalize", false, "apply Unicode NFC normalization to corpus words")

	rootCmd.AddCommand(countCmd)
}

func runCount(cmd *cobra.Command, args []string) error {
	counts, err := corpus.CountFiles(args, countNormalize)
	if err != nil {
		return err
	}

	fmt.Println(len(counts))

	if !countDump {
		return nil
	}

	type entry struct {
		word string
		n    int
	}
	entries := make([]entry, 0, len(counts))
	for w, n := range counts {
		entries = append(entries, entry{w, n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].n != entries[j].n {
			return entries[i].n > entries[j].n
		}
		return entries[i].word < entries[j].word
	})

	w := bufio.NewWriter(os.Stdout)
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%d\n", e.word, e.n)
	}
	return w.Flush()
}
