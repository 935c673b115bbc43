package main

import (
	"os"

	"github.com/kspar/subword-nmt/cmd/subword/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
