// internal/script/types.go
// Package script implements the STCM2L entry extraction, classification,
// and combining engine: scanning raw records out of a script buffer,
// filtering bytecode artifacts, assigning semantic roles, and merging
// fragment runs back into the logical lines a translator reads.
package script

// Role is the semantic role assigned to a scanned entry.
type Role int

const (
	// RoleDiscard marks entries rejected by the validator or with no
	// usable classification.
	RoleDiscard Role = iota
	// RoleSpeakerName labels the character speaking the following dialogue.
	RoleSpeakerName
	// RoleDialogue is a primary spoken line.
	RoleDialogue
	// RoleDialogueContinuation is a fragment appended to an open spoken line.
	RoleDialogueContinuation
	// RoleNarration is descriptive text with no speaker.
	RoleNarration
	// RoleNarrationContinuation is a fragment appended to an open narration line.
	RoleNarrationContinuation
	// RoleNamePlaceholder is the literal #Name[N] marker meaning "insert the
	// active character's name at runtime".
	RoleNamePlaceholder
	// RoleChoiceCandidate is a short standalone string plausibly representing
	// a UI choice option.
	RoleChoiceCandidate
)

// String returns a short human-readable role name.
func (r Role) String() string {
	switch r {
	case RoleSpeakerName:
		return "speaker"
	case RoleDialogue:
		return "dialogue"
	case RoleDialogueContinuation:
		return "dialogue-cont"
	case RoleNarration:
		return "narration"
	case RoleNarrationContinuation:
		return "narration-cont"
	case RoleNamePlaceholder:
		return "name-placeholder"
	case RoleChoiceCandidate:
		return "choice"
	default:
		return "discard"
	}
}

// RawEntry is one fixed-header, variable-length record scanned out of the
// buffer. Offset is the position of the 12-byte header and is the only
// reliable ordering and identity key; Index repeats across unrelated
// records and must never be used to deduplicate.
type RawEntry struct {
	Offset int
	Type   uint32
	Index  uint32
	Size   int
	Text   string
}

// ClassifiedEntry is a RawEntry with its resolved semantic role. Speaker is
// set when an ambiguous entry was attributed to a preceding speaker during
// backward resolution.
type ClassifiedEntry struct {
	RawEntry
	Role    Role
	Speaker string
}

// LogicalLine is the output unit handed to the writer: one speaker-labelled
// line, narration block, or grouped choice set reassembled from one or more
// consecutive entries.
type LogicalLine struct {
	// Speaker is the resolved character name, a literal #Name[N] label when
	// no resolved name was available, or empty for narration.
	Speaker string
	Text    string
	// SourceStart and SourceEnd bound the contiguous span of entry offsets
	// merged into this line.
	SourceStart int
	SourceEnd   int
	IsChoiceSet bool
	// Options holds the grouped choice strings in offset order when
	// IsChoiceSet is true.
	Options []string
	// DisplayIndex is sequential and assigned at emission; it is never the
	// binary Index field, which is useless for display.
	DisplayIndex int

	// fromSingleEntry records that no merging happened, which makes the
	// line eligible for choice grouping.
	fromSingleEntry bool
}
