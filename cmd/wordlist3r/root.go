package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for wordlist3r.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wordlist3r",
		Short: "Build fuzzing wordlists from the content of target URLs",
		Long: `wordlist3r fetches a list of URLs concurrently and extracts candidate words
from host labels, page titles, meta tags, visible text, link paths and form
fields. Words are counted across all pages, filtered for noise and written
one per line, ready for directory and file fuzzing tools.

Unreachable hosts, TLS errors and timeouts never abort a run; they are
counted per reason and reported at the end.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewExtractCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
