package cli

import (
	"fmt"

	"document-chunker/internal/telemetry"

	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "chunkctl version %s\n", telemetry.ServiceVersion)
		},
	}
}
