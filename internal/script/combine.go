// internal/script/combine.go
package script

import (
	"strings"
	"unicode"
)

// structuralBreak is the embedded speaker/context-change marker. An entry
// whose text begins with it never merges into the preceding line and never
// takes a speaker label.
const structuralBreak = `"--`

// Combiner merges the ordered, classified entry stream into logical lines.
// It is stateless between calls; all tuning comes from the Tables.
type Combiner struct {
	t *Tables
}

// NewCombiner returns a Combiner using the given configuration tables.
func NewCombiner(t *Tables) *Combiner {
	return &Combiner{t: t}
}

// lineState is the in-progress line: accumulated text, running quote
// balance, and whether the line is speaker-attributed or narration.
type lineState struct {
	buf         strings.Builder
	asciiQuotes int
	bracketOpen int
	spoken      bool
	speaker     string
	srcStart    int
	srcEnd      int
	entryCount  int
}

func (ls *lineState) append(text string, offset int) {
	if ls.buf.Len() > 0 && !endsWithBreak(ls.buf.String()) {
		ls.buf.WriteByte(' ')
	}
	ls.buf.WriteString(text)
	a, b := quoteDelta(text)
	ls.asciiQuotes += a
	ls.bracketOpen += b
	if ls.entryCount == 0 {
		ls.srcStart = offset
	}
	ls.srcEnd = offset
	ls.entryCount++
}

func (ls *lineState) quoteOdd() bool {
	return ls.asciiQuotes%2 == 1 || ls.bracketOpen > 0
}

// Combine processes the classified stream in offset order and emits
// logical lines. Empty lines and label-only lines are dropped, not
// emitted. Display indices are not assigned here; GroupChoices finishes
// the stream and numbers the result.
func (c *Combiner) Combine(entries []ClassifiedEntry) []LogicalLine {
	var lines []LogicalLine

	pendingSpeaker := ""

	emit := func(ls *lineState) {
		text := strings.TrimSpace(ls.buf.String())
		if text == "" {
			return
		}
		if c.t.IsSpeakerName(text) || IsNamePlaceholder(text) {
			// a label with no body is not a line
			return
		}
		lines = append(lines, LogicalLine{
			Speaker:         ls.speaker,
			Text:            text,
			SourceStart:     ls.srcStart,
			SourceEnd:       ls.srcEnd,
			fromSingleEntry: ls.entryCount == 1,
		})
	}

	i := 0
	for i < len(entries) {
		e := entries[i]
		switch e.Role {
		case RoleSpeakerName:
			pendingSpeaker = strings.TrimSpace(e.Text)
			i++

		case RoleNamePlaceholder:
			// fallback label only; a resolved name always wins
			if pendingSpeaker == "" {
				pendingSpeaker = strings.TrimSpace(e.Text)
			}
			i++

		case RoleChoiceCandidate:
			ls := &lineState{}
			ls.append(e.Text, e.Offset)
			emit(ls)
			i++

		case RoleDialogue, RoleDialogueContinuation, RoleNarration, RoleNarrationContinuation:
			ls := c.openLine(e, pendingSpeaker)
			i = c.absorb(ls, entries, i+1)
			emit(ls)
			pendingSpeaker = ""

		default:
			i++
		}
	}
	return lines
}

// openLine starts a new in-progress line from entry e. A structural-break
// entry stands alone without a speaker; otherwise a spoken role takes the
// pending label and narration takes none.
func (c *Combiner) openLine(e ClassifiedEntry, pendingSpeaker string) *lineState {
	ls := &lineState{}
	spokenRole := e.Role == RoleDialogue || e.Role == RoleDialogueContinuation
	switch {
	case strings.HasPrefix(strings.TrimSpace(e.Text), structuralBreak):
		ls.spoken = spokenRole
	case spokenRole:
		ls.spoken = true
		if e.Speaker != "" {
			ls.speaker = e.Speaker
		} else {
			ls.speaker = pendingSpeaker
		}
	}
	ls.append(e.Text, e.Offset)
	return ls
}

// absorb runs the transition rules against each following entry while the
// line is open, returning the index of the first entry it did not consume.
func (c *Combiner) absorb(ls *lineState, entries []ClassifiedEntry, i int) int {
	for i < len(entries) {
		n := entries[i]

		// Rule 1: a label source always closes the line.
		if n.Role == RoleSpeakerName || n.Role == RoleNamePlaceholder {
			return i
		}
		// Rule 2: continuation-incompatible role.
		if !c.compatible(ls, n) {
			return i
		}
		// Rule 3: embedded structural break.
		if strings.HasPrefix(strings.TrimSpace(n.Text), structuralBreak) {
			return i
		}
		// Rule 4: script mixing.
		if scriptsIncompatible(scriptOf(ls.buf.String()), scriptOf(n.Text)) {
			return i
		}
		// Rule 5: terminal punctuation before a sentence-initial character
		// stops the line unless an opening quote is still unmatched.
		if endsTerminal(ls.buf.String()) && startsSentenceInitial(n.Text) {
			if ls.quoteOdd() {
				return c.absorbUntilQuoteClosed(ls, entries, i)
			}
			return i
		}
		// Rule 6: plain continuation.
		ls.append(n.Text, n.Offset)
		i++
	}
	return i
}

// absorbUntilQuoteClosed is the bounded multi-entry lookahead for quote
// closure: keep absorbing continuation-compatible entries (pure narration
// excluded) until the quote balance returns to even or the iteration cap
// is hit. The cap guarantees termination on degenerate input.
func (c *Combiner) absorbUntilQuoteClosed(ls *lineState, entries []ClassifiedEntry, i int) int {
	for steps := 0; steps < c.t.H.MaxQuoteLookahead && ls.quoteOdd() && i < len(entries); steps++ {
		n := entries[i]
		switch n.Role {
		case RoleDialogue, RoleDialogueContinuation, RoleNarrationContinuation:
		default:
			return i
		}
		if strings.HasPrefix(strings.TrimSpace(n.Text), structuralBreak) {
			return i
		}
		ls.append(n.Text, n.Offset)
		i++
	}
	return i
}

// compatible reports whether entry n may continue the current line in its
// mode. Spoken lines absorb dialogue and dialogue continuations; narration
// lines absorb narration continuations only — consecutive pure narration
// records are separate display lines.
func (c *Combiner) compatible(ls *lineState, n ClassifiedEntry) bool {
	if n.Role == RoleChoiceCandidate {
		return false
	}
	if ls.spoken {
		if n.Role != RoleDialogue && n.Role != RoleDialogueContinuation {
			return false
		}
		// an entry attributed to a different speaker starts its own line
		return n.Speaker == "" || n.Speaker == ls.speaker
	}
	return n.Role == RoleNarrationContinuation
}

// quoteDelta returns the ASCII quote count and the net native bracket
// depth contributed by text. Both ASCII `"` and the native bracket pairs
// count toward the balance invariant.
func quoteDelta(text string) (asciiQuotes, bracketDepth int) {
	for _, r := range text {
		switch r {
		case '"':
			asciiQuotes++
		case '「', '『', '（':
			bracketDepth++
		case '」', '』', '）':
			bracketDepth--
		}
	}
	return asciiQuotes, bracketDepth
}

// endsTerminal reports whether text ends in a terminal mark: sentence
// punctuation in ASCII or full-width form, the horizontal ellipsis, or the
// closing bracket of a complete bracketed note. A trailing run of ASCII
// periods ("...") is a pause, not a sentence end.
func endsTerminal(text string) bool {
	text = strings.TrimRight(text, " \t")
	if text == "" {
		return false
	}
	if strings.HasSuffix(text, "...") || strings.HasSuffix(text, "。。。") {
		return false
	}
	if strings.HasSuffix(text, "]") && strings.Contains(text, " [") {
		return true
	}
	r := lastRune(text)
	switch r {
	case '.', '!', '?', '。', '！', '？', '…':
		return true
	}
	return false
}

// startsSentenceInitial reports whether text opens with an uppercase Latin
// letter or a native sentence-initial character.
func startsSentenceInitial(text string) bool {
	for _, r := range strings.TrimLeft(text, " \t\"") {
		if r >= 0x3000 && r <= 0x9FFF {
			return true
		}
		return unicode.IsUpper(r)
	}
	return false
}

// endsWithBreak reports whether the buffer already ends in whitespace or an
// explicit line-break token, in which case no join space is inserted.
func endsWithBreak(s string) bool {
	if s == "" {
		return true
	}
	if strings.HasSuffix(s, "#n") {
		return true
	}
	r := lastRune(s)
	return r == ' ' || r == '\n' || r == '\t'
}

func lastRune(s string) rune {
	var last rune
	for _, r := range s {
		last = r
	}
	return last
}
