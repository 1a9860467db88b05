// internal/script/choices.go
package script

import (
	"strings"
	"unicode/utf8"
)

const (
	minChoiceGroup = 2
	maxChoiceGroup = 5
)

// GroupChoices is the post-pass over combined lines: standalone short
// strings that look like UI choice options and sit within the configured
// offset proximity window of each other collapse into one choice-set line.
// Isolated candidates stay as they are. Display indices are assigned here,
// sequentially, once the stream is final.
func (c *Combiner) GroupChoices(lines []LogicalLine) []LogicalLine {
	var out []LogicalLine
	i := 0
	for i < len(lines) {
		if !c.choiceCandidate(lines[i]) {
			out = append(out, lines[i])
			i++
			continue
		}
		group := []LogicalLine{lines[i]}
		j := i + 1
		for j < len(lines) && c.choiceCandidate(lines[j]) &&
			lines[j].SourceStart-lines[i].SourceStart <= c.t.H.ChoiceWindow {
			group = append(group, lines[j])
			j++
		}
		if len(group) >= minChoiceGroup && len(group) <= maxChoiceGroup {
			set := LogicalLine{
				SourceStart: group[0].SourceStart,
				SourceEnd:   group[len(group)-1].SourceEnd,
				IsChoiceSet: true,
			}
			opts := make([]string, 0, len(group))
			for _, g := range group {
				opts = append(opts, g.Text)
			}
			set.Options = opts
			set.Text = strings.Join(opts, " / ")
			out = append(out, set)
			i = j
			continue
		}
		out = append(out, lines[i])
		i++
	}
	for k := range out {
		out[k].DisplayIndex = k + 1
	}
	return out
}

// choiceCandidate reports whether a combined line is still a plausible UI
// choice option: a single unmerged entry, no speaker, short native-script
// text (or a whitelisted English choice word), no terminal punctuation, and
// not a meaningless same-character repetition run.
func (c *Combiner) choiceCandidate(l LogicalLine) bool {
	if l.IsChoiceSet || !l.fromSingleEntry || l.Speaker != "" {
		return false
	}
	text := strings.TrimSpace(l.Text)
	n := utf8.RuneCountInString(text)
	if n < 2 || n > 10 {
		return false
	}
	if c.t.IsSpeakerName(text) {
		return false
	}
	if !hasNativeScript(text) {
		return c.t.IsChoiceWord(text)
	}
	if endsChoiceTerminal(text) {
		return false
	}
	if sameRuneRun(text) {
		return false
	}
	if c.t.matchRule(text) != "" {
		return false
	}
	return true
}

// endsChoiceTerminal excludes fully punctuated text: questions and
// finished sentences are dialogue, never choice options.
func endsChoiceTerminal(text string) bool {
	switch lastRune(text) {
	case '。', '！', '？', '』', '）', '」', '.', '!', '?':
		return true
	}
	return false
}

// sameRuneRun reports whether text is one character repeated, like あああ.
// Those are sound effects, not options.
func sameRuneRun(text string) bool {
	var first rune
	for i, r := range text {
		if i == 0 {
			first = r
			continue
		}
		if r != first {
			return false
		}
	}
	return true
}
