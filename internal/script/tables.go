// internal/script/tables.go
package script

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// PatternRule is one entry in the ordered bytecode-detection table. Pattern
// is a Go regular expression matched case-insensitively against the trimmed
// string; Reason documents why matching text is rejected.
type PatternRule struct {
	Pattern string `json:"pattern"`
	Reason  string `json:"reason"`
}

// Heuristics collects the empirically tuned thresholds of the engine. They
// are configuration, not format invariants, so callers may override them.
type Heuristics struct {
	// ChoiceWindow is the maximum offset distance between choice candidates
	// grouped into one choice set.
	ChoiceWindow int `json:"choiceWindow"`
	// BytecodeWordRatio is the fraction of bytecode-looking words above
	// which a multi-word string is rejected as a bytecode dump.
	BytecodeWordRatio float64 `json:"bytecodeWordRatio"`
	// MaxQuoteLookahead caps the iterative quote-closure lookahead so that
	// degenerate input cannot stall the combiner.
	MaxQuoteLookahead int `json:"maxQuoteLookahead"`
	// MaxPlaceholderScan bounds the null-terminator search for the record
	// type whose size field is a fixed placeholder.
	MaxPlaceholderScan int `json:"maxPlaceholderScan"`
	// MaxDeclaredSize rejects record headers declaring an implausible
	// payload length.
	MaxDeclaredSize int `json:"maxDeclaredSize"`
}

// DefaultHeuristics returns the thresholds the format was reverse-engineered
// with.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		ChoiceWindow:       50,
		BytecodeWordRatio:  0.85,
		MaxQuoteLookahead:  12,
		MaxPlaceholderScan: 500,
		MaxDeclaredSize:    10000,
	}
}

type compiledRule struct {
	re     *regexp.Regexp
	reason string
}

// Tables is the immutable configuration threaded through the validator,
// classifier, and combiner: curated speaker names, UI choice words, and the
// ordered bytecode pattern rules. Build one with NewTables and treat it as
// read-only for the duration of a run.
type Tables struct {
	speakers map[string]bool
	choices  map[string]bool
	rules    []compiledRule

	H Heuristics
}

// NewTables compiles the pattern rules and normalizes the curated word
// lists. Rule order is preserved; rules are evaluated top to bottom.
func NewTables(speakers, choiceWords []string, rules []PatternRule, h Heuristics) (*Tables, error) {
	t := &Tables{
		speakers: make(map[string]bool, len(speakers)),
		choices:  make(map[string]bool, len(choiceWords)),
		H:        h,
	}
	for _, s := range speakers {
		t.speakers[strings.ToLower(strings.TrimSpace(s))] = true
	}
	for _, w := range choiceWords {
		t.choices[strings.ToLower(strings.TrimSpace(w))] = true
	}
	for _, r := range rules {
		re, err := regexp.Compile("(?i)" + r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("bytecode pattern %q: %w", r.Pattern, err)
		}
		t.rules = append(t.rules, compiledRule{re: re, reason: r.Reason})
	}
	return t, nil
}

// IsSpeakerName reports whether text is one of the curated character names,
// in either Latin or native form. Binary padding nulls are ignored.
func (t *Tables) IsSpeakerName(text string) bool {
	text = strings.Trim(strings.TrimSpace(text), "\x00")
	return t.speakers[strings.ToLower(text)]
}

// IsChoiceWord reports whether text is a known UI choice word (Yes, No,
// OK, ... or a native equivalent).
func (t *Tables) IsChoiceWord(text string) bool {
	return t.choices[strings.ToLower(strings.TrimSpace(text))]
}

// SpeakerNames returns the curated speaker list in normalized form.
func (t *Tables) SpeakerNames() []string {
	return sortedKeys(t.speakers)
}

// ChoiceWords returns the curated choice-word list in normalized form.
func (t *Tables) ChoiceWords() []string {
	return sortedKeys(t.choices)
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// matchRule returns the reason of the first pattern rule matching text, or
// "" when no rule matches.
func (t *Tables) matchRule(text string) string {
	for _, r := range t.rules {
		if r.re.MatchString(text) {
			return r.reason
		}
	}
	return ""
}
