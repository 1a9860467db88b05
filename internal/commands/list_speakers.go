// internal/commands/list_speakers.go
package stcm2l

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	tableEntryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
)

// listSpeakersCmd implements 'list speakers', which shows the curated
// speaker names the classifier attributes dialogue to.
var listSpeakersCmd = &cobra.Command{
	Use:   "speakers",
	Short: "List the curated speaker names",
	Long:  `The 'speakers' subcommand lists every character name the classifier recognizes, in both Latin and native form.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := GetConfig()
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, tableHeaderStyle.Render("Speaker names:"))
		for _, name := range cfg.SpeakerNames {
			fmt.Fprintln(out, tableEntryStyle.Render(fmt.Sprintf("- %s", name)))
		}
	},
}

// listChoiceWordsCmd implements 'list choicewords', which shows the UI
// words accepted as standalone choice options.
var listChoiceWordsCmd = &cobra.Command{
	Use:   "choicewords",
	Short: "List the whitelisted choice words",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := GetConfig()
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, tableHeaderStyle.Render("Choice words:"))
		for _, word := range cfg.ChoiceWords {
			fmt.Fprintln(out, tableEntryStyle.Render(fmt.Sprintf("- %s", word)))
		}
	},
}

func init() {
	listCmd.AddCommand(listSpeakersCmd)
	listCmd.AddCommand(listChoiceWordsCmd)
}
