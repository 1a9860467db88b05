// internal/commands/decompile.go
package stcm2l

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sunnie-Evergale/stcm2l-psv/internal/decompiler"
	"github.com/Sunnie-Evergale/stcm2l-psv/internal/logging"
	"github.com/Sunnie-Evergale/stcm2l-psv/internal/report"
)

var summaryJSONPath string

// decompileCmd implements 'decompile', which converts one STCM2L script
// file or every file in a directory to translatable text.
var decompileCmd = &cobra.Command{
	Use:   "decompile <input> [output]",
	Short: "Decompile STCM2L script binaries",
	Long: `Decompile a single STCM2L script file or a whole SCRIPT directory.
The output argument is a directory unless it ends in .txt, in which case it
names the output file directly. Files that fail keep the batch running.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := args[0]
		output := ""
		if len(args) == 2 {
			output = args[1]
		}
		return runDecompile(cmd, input, output)
	},
}

func init() {
	decompileCmd.Flags().StringVar(&summaryJSONPath, "summaryJson", "", "write the run summary to this JSON file")
	rootCmd.AddCommand(decompileCmd)
}

func runDecompile(cmd *cobra.Command, input, output string) error {
	cfg := GetConfig()
	dec, err := decompiler.New(*cfg)
	if err != nil {
		return err
	}

	info, err := os.Stat(input)
	if err != nil {
		return fmt.Errorf("input %q: %w", input, err)
	}

	if output == "" {
		output = cfg.OutputDir
	}
	if output == "" {
		output = "decompiled"
	}

	summary := &report.Summary{}
	if info.IsDir() {
		if err := decompileDirectory(cmd, dec, input, output, summary); err != nil {
			return err
		}
	} else {
		decompileOne(cmd, dec, input, outputPathFor(input, output), summary)
	}

	fmt.Fprint(cmd.OutOrStdout(), summary.Render())

	if summaryJSONPath != "" {
		if err := summary.WriteJSON(summaryJSONPath); err != nil {
			return err
		}
	}
	return nil
}

// outputPathFor resolves the output location for one input file. An
// output ending in .txt is a file path; anything else is a directory.
func outputPathFor(input, output string) string {
	if strings.HasSuffix(output, ".txt") {
		return output
	}
	return filepath.Join(output, decompiler.OutputName(input))
}

// decompileDirectory processes every regular file in the input directory
// in name order. Per-file failures are recorded and the batch continues.
func decompileDirectory(cmd *cobra.Command, dec *decompiler.Decompiler, inputDir, outputDir string, summary *report.Summary) error {
	dirEntries, err := os.ReadDir(inputDir)
	if err != nil {
		return fmt.Errorf("input directory %q: %w", inputDir, err)
	}

	var names []string
	for _, e := range dirEntries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	logging.LogEvent("found %d files to decompile in %s", len(names), inputDir)

	for _, name := range names {
		input := filepath.Join(inputDir, name)
		decompileOne(cmd, dec, input, filepath.Join(outputDir, decompiler.OutputName(input)), summary)
	}
	return nil
}

var (
	okStatus   = color.New(color.FgGreen).SprintFunc()
	failStatus = color.New(color.FgRed).SprintFunc()
)

// decompileOne runs the full pipeline for a single file and records the
// outcome in the summary.
func decompileOne(cmd *cobra.Command, dec *decompiler.Decompiler, input, outputPath string, summary *report.Summary) {
	name := filepath.Base(input)

	res, err := dec.DecompileFile(input)
	if err == nil {
		err = decompiler.WriteOutput(outputPath, res, name)
	}
	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %v\n", failStatus("FAIL"), name, err)
		summary.Add(report.FileStats{File: name, Error: err.Error()})
		return
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s -> %s (%d lines)\n", okStatus("OK"), name, outputPath, res.LineCount())
	summary.Add(report.FileStats{
		File:       name,
		Format:     string(res.Format),
		Scanned:    res.Scanned,
		Accepted:   res.Accepted,
		Lines:      res.LineCount(),
		ChoiceSets: res.ChoiceSetCount(),
	})
}
