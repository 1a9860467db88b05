// internal/commands/list.go
package stcm2l

import (
	"github.com/spf13/cobra"
)

// listCmd represents the 'list' command group for displaying resources.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Group commands for listing configured tables",
	Long:  `The 'list' command groups subcommands that display the curated tables driving classification.`,
}

func init() {
	rootCmd.AddCommand(listCmd)
}
