// Package commands wires the statemap CLI.
package commands

import (
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Version information - set at build time
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "statemap",
		Short: "Static state-flow analysis for React component trees",
		Long: color.CyanString(`statemap - state-flow maps for React codebases

statemap statically analyzes a component tree and reports how state travels
through it: prop forwarding chains (drilling), oversized forwarded bundles,
context values re-exported as props, and multi-hop prop renames.`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewAnalyzeCommand())
	rootCmd.AddCommand(NewWatchCommand())

	return rootCmd
}

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			titleColor := color.New(color.FgCyan, color.Bold)
			titleColor.Print("statemap version: ")
			color.New(color.FgWhite).Println(Version)
			titleColor.Print("Git commit: ")
			color.New(color.FgWhite).Println(GitCommit)
			titleColor.Print("Go version: ")
			color.New(color.FgWhite).Println(runtime.Version())
		},
	}
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}
