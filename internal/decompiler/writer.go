// internal/decompiler/writer.go
package decompiler

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Sunnie-Evergale/stcm2l-psv/internal/util"
)

const headerRule = "==================================================================="

// refIDBaseline is the scene ID most choice-format entries reference; it
// carries no information, so only other IDs are shown.
const refIDBaseline = 64

var newlineRunRe = regexp.MustCompile(`\n+`)

// formatText prepares stored text for the translation file: engine #n
// tokens become real newlines and runs of blank lines collapse.
func formatText(text string) string {
	text = strings.ReplaceAll(text, "#n", "\n")
	text = newlineRunRe.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}

// Render produces the plain-text translation file for one result.
func Render(res *Result, sourceName string) []byte {
	var b strings.Builder

	b.WriteString(headerRule + "\n")
	if res.ChoiceDialogue {
		b.WriteString("STCM2L Decompiled Script - CHOICE DIALOGUE FORMAT\n")
	} else {
		b.WriteString("STCM2L Decompiled Script\n")
	}
	fmt.Fprintf(&b, "Source: %s\n", sourceName)
	b.WriteString(headerRule + "\n\n")

	if res.ChoiceDialogue {
		b.WriteString("NOTE: This file contains dialogue choices with voice/emotion variants.\n")
		b.WriteString("Type 80 = Main dialogue choices\n")
		b.WriteString("Type 82 = Alternative/short responses\n")
		b.WriteString("Entries reference scene/event IDs (e.g., 64) rather than sequential numbers.\n\n")
	}

	if res.LineCount() == 0 {
		b.WriteString("[No entries found]\n")
		return []byte(b.String())
	}

	if res.Format == FormatFull {
		renderLines(&b, res)
	} else {
		renderDialogueEntries(&b, res)
	}
	return []byte(b.String())
}

// renderLines writes the combined logical lines of a full-format file.
// Display indices are sequential; the binary Index field is useless for
// display because most records repeat the same value.
func renderLines(b *strings.Builder, res *Result) {
	for _, line := range res.Lines {
		if line.IsChoiceSet {
			fmt.Fprintf(b, "--- Entry %d [CHOICE] ---\n", line.DisplayIndex)
			fmt.Fprintf(b, "[%d options: %s]\n", len(line.Options), strings.Join(line.Options, " / "))
		} else {
			fmt.Fprintf(b, "--- Entry %d ---\n", line.DisplayIndex)
		}

		if line.Speaker != "" {
			fmt.Fprintf(b, "Speaker: %s\n", line.Speaker)
		}
		if text := formatText(line.Text); text != "" && !line.IsChoiceSet {
			fmt.Fprintf(b, "Text:\n%s\n", text)
		}
		if line.SourceEnd > line.SourceStart {
			fmt.Fprintf(b, "[Combined from offsets 0x%X-0x%X]\n", line.SourceStart, line.SourceEnd)
		}
		b.WriteString("\n")
	}
}

// renderDialogueEntries writes the records of a legacy dialogue-format
// file, keeping the binary type visible for the translator.
func renderDialogueEntries(b *strings.Builder, res *Result) {
	for i, e := range res.Entries {
		displayIndex := i + 1
		if res.ChoiceDialogue && e.Index != refIDBaseline {
			fmt.Fprintf(b, "--- Entry %d (Type: %d, RefID: %d) ---\n", displayIndex, e.Type, e.Index)
		} else {
			fmt.Fprintf(b, "--- Entry %d (Type: %d) ---\n", displayIndex, e.Type)
		}
		if e.Speaker != "" {
			fmt.Fprintf(b, "Speaker: %s\n", e.Speaker)
		}
		if text := formatText(e.Text); text != "" {
			fmt.Fprintf(b, "Text:\n%s\n", text)
		}
		b.WriteString("\n")
	}
}

// WriteOutput renders the result and writes it next to its siblings in
// the output tree, creating parent directories as needed.
func WriteOutput(outputPath string, res *Result, sourceName string) error {
	if info, err := os.Stat(outputPath); err == nil && info.IsDir() {
		return fmt.Errorf("output path %q is a directory", outputPath)
	}
	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := util.WriteFile(outputPath, Render(res, sourceName)); err != nil {
		return fmt.Errorf("writing %q: %w", outputPath, err)
	}
	return nil
}
