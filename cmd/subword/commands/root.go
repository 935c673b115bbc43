package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kspar/subword-nmt/internal/config"
	"github.com/kspar/subword-nmt/internal/logging"
)

var (
	cfgFile string
	verbose bool
	cfg     *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "subword",
	Short: "Learn subword segmentation with byte pair encoding",
	Long: `Subword learns a variable-length subword vocabulary from a corpus
using byte pair encoding (BPE): the most frequent adjacent symbol pair
is merged into a new symbol, repeatedly, and the merge rules are written
out in order for downstream encoders to replay.

Besides plain character-level BPE it supports morpheme-segmented input,
either with whole morphemes as starting symbols or with explicit
morpheme boundaries that merges may eventually cross.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.subword/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig loads configuration and sets up logging
func initConfig() {
	c, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg = c

	level := cfg.Logging.Level
	if verbose && level != "debug" {
		level = "debug"
	}
	if err := logging.Init(level, cfg.Logging.File, cfg.Logging.Console); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}
}
