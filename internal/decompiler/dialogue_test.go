// internal/decompiler/dialogue_test.go
package decompiler

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// dialogueEntryBytes encodes one legacy-format entry: 2-byte type, 2-byte
// index, null-terminated speaker tag, then null-separated text segments.
func dialogueEntryBytes(typ, index uint16, speaker string, segments ...string) []byte {
	var b bytes.Buffer
	binary.Write(&b, binary.LittleEndian, typ)
	binary.Write(&b, binary.LittleEndian, index)
	b.WriteString(speaker)
	b.WriteByte(0x00)
	for _, s := range segments {
		b.WriteString(s)
		b.WriteByte(0x00)
	}
	return b.Bytes()
}

func dialogueFile(entryCount, headerType uint32, entries ...[]byte) []byte {
	var b bytes.Buffer
	binary.Write(&b, binary.LittleEndian, entryCount)
	binary.Write(&b, binary.LittleEndian, headerType)
	for _, e := range entries {
		b.Write(e)
	}
	return b.Bytes()
}

func TestDecompileDialogueFormat(t *testing.T) {
	t.Parallel()
	d := newDecompiler(t)

	buf := dialogueFile(5, 8,
		dialogueEntryBytes(1, 1, "pear01a", "そうですね、行きましょう", "ab", "voice_take2"),
		dialogueEntryBytes(2, 3, "rath0b", "It can't be helped."),
	)

	res := d.decompileDialogue(buf)

	if !res.ChoiceDialogue {
		t.Fatal("header type 8 must mark the choice/branch variant")
	}
	if len(res.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(res.Entries))
	}

	first := res.Entries[0]
	if first.Type != 1 || first.Index != 1 {
		t.Fatalf("first header = type %d index %d, want 1/1", first.Type, first.Index)
	}
	if first.Speaker != "pear01a" {
		t.Fatalf("speaker = %q, want pear01a", first.Speaker)
	}
	// Longest segment is the dialogue; the voice tag becomes a note and
	// the two-character fragment is dropped.
	if first.Text != "そうですね、行きましょう [voice_take2]" {
		t.Fatalf("text = %q", first.Text)
	}

	second := res.Entries[1]
	if second.Speaker != "rath0b" || second.Text != "It can't be helped." {
		t.Fatalf("second entry = %q / %q", second.Speaker, second.Text)
	}
	if second.Index != 3 {
		t.Fatalf("second index = %d, want 3", second.Index)
	}
}

func TestDecompileDialogueSkipsEngineSegments(t *testing.T) {
	t.Parallel()
	d := newDecompiler(t)

	buf := dialogueFile(5, 0,
		dialogueEntryBytes(1, 1, "zara0c", "scene_play", "@cmd_wait", "#Name[2]", "ここで待っていてください"),
	)

	res := d.decompileDialogue(buf)

	if res.ChoiceDialogue {
		t.Fatal("header type 0 must not mark the choice variant")
	}
	if len(res.Entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(res.Entries))
	}
	if res.Entries[0].Text != "ここで待っていてください" {
		t.Fatalf("text = %q, engine and command segments must be dropped", res.Entries[0].Text)
	}
}

func TestDecompileDialogueIgnoresHeadersWithoutSpeakerPrefix(t *testing.T) {
	t.Parallel()
	d := newDecompiler(t)

	buf := dialogueFile(5, 0,
		dialogueEntryBytes(1, 1, "guard", "Halt, who goes there?"),
	)

	res := d.decompileDialogue(buf)
	if len(res.Entries) != 0 {
		t.Fatalf("entries = %d, want 0 for unknown speaker prefix", len(res.Entries))
	}
}
