// internal/decompiler/dialogue.go
package decompiler

import (
	"bytes"
	"encoding/binary"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Sunnie-Evergale/stcm2l-psv/internal/logging"
)

// DialogueEntry is one record of the legacy dialogue format: a 2-byte
// type, a 2-byte index, a null-terminated ASCII speaker tag, and one or
// more UTF-8 text segments.
type DialogueEntry struct {
	Index   uint16
	Type    uint16
	Speaker string
	Text    string
}

// speakerPrefixes are the 5-byte voice-tag prefixes that open every real
// entry body. A header candidate not followed by one of these is a false
// positive from the byte pattern.
var speakerPrefixes = [][]byte{
	[]byte("yougo"),
	[]byte("her01"),
	[]byte("zara0"),
	[]byte("ness0"),
	[]byte("pear0"),
	[]byte("rich0"),
	[]byte("rath0"),
	[]byte("elza0"),
	[]byte("tiara"),
}

// engineWords are segment values that are engine instructions, never
// dialogue, regardless of length.
var engineWords = map[string]bool{
	"memory_init":     true,
	"memory_exit":     true,
	"COLLECTION_LINK": true,
	"scene_play":      true,
	"suma":            true,
}

// choiceHeaderType in the file header marks the choice/branch variant.
const choiceHeaderType = 8

// minSegmentRunes is the shortest text segment worth keeping; anything
// shorter is a label or padding artifact.
const minSegmentRunes = 3

// minNoteRunes is the shortest secondary segment appended as a bracketed
// note after the main text.
const minNoteRunes = 6

// decompileDialogue parses the legacy dialogue format: an 8-byte file
// header (entry count + header type), then variable-length entries
// located by probing for the 2-byte type / 2-byte index pattern followed
// by a known speaker prefix.
func (d *Decompiler) decompileDialogue(buf []byte) *Result {
	res := &Result{Format: FormatDialogue}
	if len(buf) < 8 {
		return res
	}

	entryCount := binary.LittleEndian.Uint32(buf[0:4])
	headerType := binary.LittleEndian.Uint32(buf[4:8])
	res.ChoiceDialogue = headerType == choiceHeaderType
	logging.LogDebug("dialogue header: count=%d type=%d", entryCount, headerType)

	offsets := findDialogueOffsets(buf, entryCount)
	res.Scanned = len(offsets)

	for idx, offset := range offsets {
		if offset+8 > len(buf) {
			break
		}
		entryType := binary.LittleEndian.Uint16(buf[offset : offset+2])
		entryIndex := binary.LittleEndian.Uint16(buf[offset+2 : offset+4])

		end := len(buf)
		if idx+1 < len(offsets) {
			end = offsets[idx+1]
		}

		speaker, textStart := readSpeaker(buf, offset+4, end)
		text := collectSegments(buf, textStart, end)

		if speaker == "" && strings.TrimSpace(text) == "" {
			continue
		}
		res.Entries = append(res.Entries, DialogueEntry{
			Index:   entryIndex,
			Type:    entryType,
			Speaker: speaker,
			Text:    text,
		})
	}

	res.Accepted = len(res.Entries)
	return res
}

// findDialogueOffsets probes for entry headers: two little-endian uint16
// fields whose high bytes are zero, a plausible type and index, and one
// of the known speaker prefixes right after the header.
func findDialogueOffsets(buf []byte, entryCount uint32) []int {
	var offsets []int
	for i := 8; i+9 < len(buf); i++ {
		if buf[i+1] != 0x00 || buf[i+3] != 0x00 {
			continue
		}
		entryType := binary.LittleEndian.Uint16(buf[i : i+2])
		entryIndex := binary.LittleEndian.Uint16(buf[i+2 : i+4])
		if entryType < 1 || entryType > 100 {
			continue
		}
		if entryIndex < 1 || uint32(entryIndex) > entryCount {
			continue
		}
		if !hasSpeakerPrefix(buf[i+4 : i+9]) {
			continue
		}
		offsets = append(offsets, i)
	}
	sort.Ints(offsets)
	return offsets
}

func hasSpeakerPrefix(b []byte) bool {
	for _, prefix := range speakerPrefixes {
		if bytes.Equal(b, prefix) {
			return true
		}
	}
	return false
}

// readSpeaker decodes the null-terminated ASCII voice tag that opens an
// entry body and returns the position right after it.
func readSpeaker(buf []byte, start, end int) (string, int) {
	if start >= end {
		return "", start
	}
	body := buf[start:end]
	if null := bytes.IndexByte(body, 0x00); null >= 0 {
		return string(body[:null]), start + null + 1
	}
	speaker := string(bytes.TrimRight(body, "\xff"))
	return speaker, start + len(speaker) + 1
}

// collectSegments gathers every text run between padding bytes within the
// entry, keeps the longest as the main line, and folds the remaining
// meaningful ones into a trailing bracketed note.
func collectSegments(buf []byte, start, end int) string {
	var segments []string

	pos := start
	for pos < end {
		for pos < end && (buf[pos] == 0x00 || buf[pos] == 0xFF) {
			pos++
		}
		if pos >= end {
			break
		}
		segStart := pos
		for pos < end && buf[pos] != 0x00 && buf[pos] != 0xFF {
			pos++
		}
		if pos-segStart > 1 {
			if seg := decodeSegment(buf[segStart:pos]); seg != "" {
				segments = append(segments, seg)
			}
		}
		pos++
	}

	if len(segments) == 0 {
		return ""
	}

	// The longest segment is the dialogue; shorter ones are stage notes.
	sort.SliceStable(segments, func(i, j int) bool {
		return utf8.RuneCountInString(segments[i]) > utf8.RuneCountInString(segments[j])
	})
	text := segments[0]
	var notes []string
	for _, s := range segments[1:] {
		if utf8.RuneCountInString(s) >= minNoteRunes {
			notes = append(notes, s)
		}
	}
	if len(notes) > 0 {
		text += " [" + strings.Join(notes, ", ") + "]"
	}
	return text
}

// decodeSegment turns a raw byte run into text, dropping engine
// instructions and command or placeholder tokens.
func decodeSegment(b []byte) string {
	seg := strings.ToValidUTF8(string(b), string(utf8.RuneError))
	if utf8.RuneCountInString(seg) < minSegmentRunes {
		return ""
	}
	if engineWords[seg] {
		return ""
	}
	if strings.HasPrefix(seg, "@") || strings.HasPrefix(seg, "#") {
		return ""
	}
	return seg
}
