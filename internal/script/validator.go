// internal/script/validator.go
package script

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/width"
)

var namePlaceholderRe = regexp.MustCompile(`^#Name\[[0-9]+\]$`)

// IsNamePlaceholder reports whether text is the literal #Name[N] marker.
// Placeholders are never spoken dialogue; they survive validation so the
// classifier can keep them as fallback speaker labels.
func IsNamePlaceholder(text string) bool {
	return namePlaceholderRe.MatchString(strings.TrimSpace(text))
}

// ValidText decides whether a decoded string is genuine narrative content
// or a control/bytecode artifact to discard. Curated speaker names and UI
// choice words short-circuit every other filter.
func (t *Tables) ValidText(text string) bool {
	trimmed := strings.Trim(strings.TrimSpace(text), "\x00")
	if trimmed == "" {
		return false
	}

	if t.IsSpeakerName(trimmed) || t.IsChoiceWord(trimmed) {
		return true
	}
	if IsNamePlaceholder(trimmed) {
		return true
	}

	if !utf8.ValidString(trimmed) || strings.ContainsRune(trimmed, utf8.RuneError) {
		return false
	}
	if controlHeavy(trimmed) {
		return false
	}

	runeCount := utf8.RuneCountInString(trimmed)
	native := hasNativeScript(trimmed)

	// The length floor differs by script family: the native two-byte script
	// has valid 2-character words, Latin text that short is line noise.
	if runeCount < 2 {
		return false
	}
	if !native && runeCount < 3 {
		return false
	}

	if reason := t.matchRule(trimmed); reason != "" {
		// Bytecode patterns only disqualify pure identifier text; prose
		// that happens to embed a matching token keeps its native body.
		if !native {
			return false
		}
	}

	if t.bytecodeHeavy(trimmed) {
		return false
	}

	return native || asciiLetterCount(trimmed) >= 2
}

// controlHeavy reports whether more than a quarter of the string is control
// characters other than common whitespace.
func controlHeavy(s string) bool {
	control := 0
	total := 0
	for _, r := range s {
		total++
		if r < 0x20 && r != '\n' && r != '\r' && r != '\t' {
			control++
		}
	}
	return total > 0 && control*4 > total
}

// bytecodeHeavy applies the word-shape ratio heuristic: a multi-word string
// dominated by short identifier-shaped words with no prose structure is a
// bytecode dump, not dialogue.
func (t *Tables) bytecodeHeavy(s string) bool {
	words := strings.Fields(s)
	if len(words) <= 5 {
		return false
	}
	suspect := 0
	for _, w := range words {
		if strings.HasPrefix(w, "@") || shortIdentRe.MatchString(w) || identDigitsRe.MatchString(w) || utf8.RuneCountInString(w) < 3 {
			suspect++
		}
	}
	return float64(suspect)/float64(len(words)) > t.H.BytecodeWordRatio
}

var (
	shortIdentRe  = regexp.MustCompile(`^[a-z]{1,3}$`)
	identDigitsRe = regexp.MustCompile(`^[a-z]+[0-9]+$`)
)

// scriptClass describes a string's writing-system composition for the
// combiner's merge gate.
type scriptClass int

const (
	scriptNeutral scriptClass = iota
	scriptNative
	scriptLatin
	scriptMixed
)

// hasNativeScript reports whether any rune falls in the CJK / full-width
// block the engine stores Japanese text in.
func hasNativeScript(s string) bool {
	for _, r := range s {
		if r >= 0x3000 && r <= 0x9FFF {
			return true
		}
	}
	return false
}

// asciiLetterCount counts plain ASCII letters. Full-width Latin glyphs from
// the native orthography are excluded via their East Asian width class, so
// decorative romaji inside Japanese text does not register as English.
func asciiLetterCount(s string) int {
	n := 0
	for _, r := range s {
		if r < 0x80 && unicode.IsLetter(r) {
			n++
			continue
		}
		if unicode.IsLetter(r) && unicode.In(r, unicode.Latin) {
			switch width.LookupRune(r).Kind() {
			case width.EastAsianFullwidth, width.EastAsianWide:
				// full-width Latin belongs to the native text stream
			default:
				n++
			}
		}
	}
	return n
}

// scriptOf classifies a string as native-only, Latin-only, mixed, or
// neutral. A string needs more than two true Latin letters to count as
// containing English at all.
func scriptOf(s string) scriptClass {
	native := hasNativeScript(s)
	latin := asciiLetterCount(s) > 2
	switch {
	case native && latin:
		return scriptMixed
	case native:
		return scriptNative
	case latin:
		return scriptLatin
	default:
		return scriptNeutral
	}
}

// scriptsIncompatible reports whether two fragments must not merge: one
// side pure native and the other pure Latin, or either side independently
// mixed.
func scriptsIncompatible(a, b scriptClass) bool {
	if a == scriptMixed || b == scriptMixed {
		return true
	}
	if a == scriptNative && b == scriptLatin {
		return true
	}
	if a == scriptLatin && b == scriptNative {
		return true
	}
	return false
}
