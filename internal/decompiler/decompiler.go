// internal/decompiler/decompiler.go
// Package decompiler turns one STCM2L binary script file into logical
// dialogue lines. It detects which of the two on-disk formats the file
// uses, runs the matching parser, and exposes the result to the writer
// and the batch driver.
package decompiler

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Sunnie-Evergale/stcm2l-psv/internal/appconfig"
	"github.com/Sunnie-Evergale/stcm2l-psv/internal/logging"
	"github.com/Sunnie-Evergale/stcm2l-psv/internal/script"
)

// Format identifies the on-disk layout of a script file.
type Format string

const (
	// FormatFull is the bytecode container with GLOBAL_DATA and
	// CODE_START_ sections and fixed 12-byte record headers.
	FormatFull Format = "full"
	// FormatDialogue is the older choice/branch layout that opens with an
	// entry count and uses 2-byte type and index fields.
	FormatDialogue Format = "dialogue"
	// FormatUnknown means neither signature matched. Unknown files are
	// still attempted with the dialogue parser.
	FormatUnknown Format = "unknown"
)

var fullMagic = []byte("STCM2L")

// maxPlausibleEntryCount bounds the leading uint32 of a dialogue-format
// file. Anything larger is binary data that happens to start with small
// bytes, not an entry count.
const maxPlausibleEntryCount = 10000

// DetectFormat inspects the first bytes of a script buffer. The full
// format carries a magic string; the dialogue format opens with a
// plausible little-endian entry count.
func DetectFormat(buf []byte) Format {
	if len(buf) == 0 {
		return FormatUnknown
	}
	if bytes.HasPrefix(buf, fullMagic) {
		return FormatFull
	}
	if len(buf) >= 8 {
		if count := binary.LittleEndian.Uint32(buf[:4]); count < maxPlausibleEntryCount {
			return FormatDialogue
		}
	}
	return FormatUnknown
}

// Result is the outcome of decompiling one file. Lines is populated for
// the full format, Entries for the dialogue format.
type Result struct {
	Format  Format
	Lines   []script.LogicalLine
	Entries []DialogueEntry
	// ChoiceDialogue marks a dialogue-format file whose header type is 8,
	// the choice/branch variant with voice and emotion variants.
	ChoiceDialogue bool

	// Scanned counts candidate records found in the binary; Accepted
	// counts those that survived text validation.
	Scanned  int
	Accepted int
}

// LineCount returns the number of output blocks the writer will emit.
func (r *Result) LineCount() int {
	if r.Format == FormatFull {
		return len(r.Lines)
	}
	return len(r.Entries)
}

// ChoiceSetCount returns how many grouped choice sets the result carries.
func (r *Result) ChoiceSetCount() int {
	n := 0
	for _, l := range r.Lines {
		if l.IsChoiceSet {
			n++
		}
	}
	return n
}

// Decompiler binds the configured tables and thresholds to the parsing
// pipeline. One Decompiler serves any number of files.
type Decompiler struct {
	tables *script.Tables
}

// New builds a Decompiler from a configuration snapshot.
func New(cfg appconfig.Config) (*Decompiler, error) {
	rules := make([]script.PatternRule, 0, len(cfg.BytecodePatterns))
	for _, r := range cfg.BytecodePatterns {
		rules = append(rules, script.PatternRule{Pattern: r.Pattern, Reason: r.Reason})
	}
	tables, err := script.NewTables(cfg.SpeakerNames, cfg.ChoiceWords, rules, script.Heuristics{
		ChoiceWindow:       cfg.Heuristics.ChoiceWindow,
		BytecodeWordRatio:  cfg.Heuristics.BytecodeWordRatio,
		MaxQuoteLookahead:  cfg.Heuristics.MaxQuoteLookahead,
		MaxPlaceholderScan: cfg.Heuristics.MaxPlaceholderScan,
		MaxDeclaredSize:    cfg.Heuristics.MaxDeclaredSize,
	})
	if err != nil {
		return nil, fmt.Errorf("building tables: %w", err)
	}
	return &Decompiler{tables: tables}, nil
}

// DecompileBuffer parses one script buffer. Unknown formats fall back to
// the dialogue parser, which yields nothing on genuine garbage.
func (d *Decompiler) DecompileBuffer(buf []byte) *Result {
	format := DetectFormat(buf)
	logging.LogDebug("detected %s format (%d bytes)", format, len(buf))

	if format == FormatFull {
		return d.decompileFull(buf)
	}
	res := d.decompileDialogue(buf)
	res.Format = format
	return res
}

// DecompileFile reads and parses one script file.
func (d *Decompiler) DecompileFile(path string) (*Result, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script file %q: %w", path, err)
	}
	res := d.DecompileBuffer(buf)
	logging.LogFileEvent("decompile", path, map[string]int{
		"scanned":  res.Scanned,
		"accepted": res.Accepted,
		"lines":    res.LineCount(),
		"choices":  res.ChoiceSetCount(),
	})
	return res, nil
}

// decompileFull runs the full-format pipeline: scan both record layouts,
// drop records that fail text validation, classify, combine, and group
// choice candidates.
func (d *Decompiler) decompileFull(buf []byte) *Result {
	raw := script.NewScanner(buf, nil, d.tables.H).Scan()

	accepted := make([]script.RawEntry, 0, len(raw))
	for _, e := range raw {
		if d.tables.ValidText(e.Text) {
			accepted = append(accepted, e)
		}
	}

	classified := d.tables.Classify(accepted)
	combiner := script.NewCombiner(d.tables)
	lines := combiner.GroupChoices(combiner.Combine(classified))

	return &Result{
		Format:   FormatFull,
		Lines:    lines,
		Scanned:  len(raw),
		Accepted: len(accepted),
	}
}

// OutputName maps an input script path to its output file name.
func OutputName(inputPath string) string {
	return filepath.Base(inputPath) + ".txt"
}
