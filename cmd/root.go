package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "docview",
	Short: "Local viewer for a structured markdown documentation corpus",
	Long: `Docview serves a markdown documentation corpus as a navigable site:
section/document routing, cached off-thread rendering, table of
contents, command palette, and in-page search. Documents are cached
in SQLite so previously read pages open instantly and survive
restarts.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".docview.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
