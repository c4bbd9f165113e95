// Package cli implements chunkctl, a command line front end that runs the
// extraction pipeline on local files.
package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the chunkctl command tree
func NewRootCommand() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "chunkctl",
		Short:         "Extract and chunk text from DOCX and PDF documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline activity to stderr")

	logger := func(cmd *cobra.Command) *slog.Logger {
		var w io.Writer = io.Discard
		if verbose {
			w = cmd.ErrOrStderr()
		}
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	rootCmd.AddCommand(
		newExtractCommand(logger),
		newDetectCommand(),
		newVersionCommand(),
	)

	return rootCmd
}
