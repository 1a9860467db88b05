// internal/script/classifier.go
package script

import (
	"strings"
	"unicode/utf8"
)

// dialogueContinuationTypes is the family of type codes whose entries
// append to an open spoken line. 0x07 and 0x0F are deliberately absent:
// they are ambiguous and resolved by lookback.
var dialogueContinuationTypes = map[uint32]bool{
	0x05: true, 0x06: true, 0x08: true, 0x09: true, 0x0A: true,
	0x0B: true, 0x0C: true, 0x0D: true, 0x0E: true, 0x10: true, 0x11: true,
}

func isAmbiguousType(t uint32) bool {
	return t == typeAmbiguousA || t == typeAmbiguousB
}

// Classify assigns each validated entry a semantic role. It runs in two
// deterministic phases: a fixed table maps type codes to default roles,
// then one backward-resolution pass fixes the ambiguous families so the
// combiner operates over final roles only.
func (t *Tables) Classify(entries []RawEntry) []ClassifiedEntry {
	out := make([]ClassifiedEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, ClassifiedEntry{RawEntry: e, Role: t.defaultRole(e)})
	}
	t.resolveAmbiguous(out)
	return out
}

// defaultRole is the phase-one table. Entries already rejected by the
// validator must not reach this point.
func (t *Tables) defaultRole(e RawEntry) Role {
	text := strings.TrimSpace(e.Text)

	if IsNamePlaceholder(text) {
		return RoleNamePlaceholder
	}

	switch {
	case e.Type == typeChoiceEN:
		// Only the whitelisted UI words are real choices; every other
		// short Latin payload under this type is engine garbage.
		if t.IsChoiceWord(text) {
			return RoleChoiceCandidate
		}
		return RoleDiscard

	case e.Type == typeSpeakerA || e.Type == typeSpeakerB:
		if t.IsSpeakerName(text) {
			return RoleSpeakerName
		}
		if t.IsChoiceWord(text) {
			return RoleChoiceCandidate
		}
		if shortNative(text) {
			return RoleChoiceCandidate
		}
		// 0x03 also carries plain continuation fragments ("a Lobeira.").
		return RoleDialogueContinuation

	case e.Type == typeDialogue:
		return RoleDialogue

	case dialogueContinuationTypes[e.Type]:
		return RoleDialogueContinuation

	case e.Type == typeNarration:
		return RoleNarration

	case isAmbiguousType(e.Type):
		// placeholder; fixed by resolveAmbiguous
		return RoleNarrationContinuation

	default:
		return RoleDiscard
	}
}

// resolveAmbiguous runs the backward pass over already-classified entries.
// For each ambiguous-typed entry the nearest preceding non-continuation
// entry decides: a SpeakerName makes it a dialogue continuation attached to
// that speaker, a pure Narration entry or an empty history makes it
// narration with no speaker. The scan skips continuations already
// attributed to the same run and stops at the first boundary that is
// neither continuation nor speaker.
func (t *Tables) resolveAmbiguous(entries []ClassifiedEntry) {
	for i := range entries {
		if !isAmbiguousType(entries[i].Type) {
			continue
		}
		role, speaker := RoleNarrationContinuation, ""
	scan:
		for j := i - 1; j >= 0; j-- {
			switch entries[j].Role {
			case RoleSpeakerName:
				role = RoleDialogueContinuation
				speaker = strings.TrimSpace(entries[j].Text)
				break scan
			case RoleDialogueContinuation:
				if entries[j].Speaker != "" {
					// part of a run already attributed to a speaker
					role = RoleDialogueContinuation
					speaker = entries[j].Speaker
					break scan
				}
				continue
			case RoleNamePlaceholder, RoleDiscard:
				continue
			default:
				// Narration, primary dialogue, choice: a boundary that is
				// neither continuation nor speaker. No speaker attaches.
				break scan
			}
		}
		entries[i].Role = role
		entries[i].Speaker = speaker
	}
}

// shortNative reports whether text is a short native-script string of the
// size choice options come in.
func shortNative(text string) bool {
	n := utf8.RuneCountInString(text)
	return n >= 2 && n <= 10 && hasNativeScript(text)
}
