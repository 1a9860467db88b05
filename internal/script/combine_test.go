// internal/script/combine_test.go
package script

import (
	"testing"
)

func testTables(t *testing.T) *Tables {
	t.Helper()
	tb, err := NewTables(
		[]string{"pearl", "richie", "nesso", "zara", "edgar", "elza", "rath", "パール", "ザラ", "ラス"},
		[]string{"yes", "no", "ok", "cancel", "accept", "decline", "close", "はい", "いいえ"},
		[]PatternRule{
			{Pattern: `^[a-z]+[0-9]+[a-z]*_[a-z]+$`, Reason: "extended variable"},
			{Pattern: `^[a-z]+[0-9]+$`, Reason: "identifier"},
			{Pattern: `^ef_[a-z0-9_]+$`, Reason: "screen effect"},
			{Pattern: `^[A-Z][a-z]+_[A-Za-z_]+$`, Reason: "system flag"},
		},
		DefaultHeuristics(),
	)
	if err != nil {
		t.Fatalf("NewTables: %v", err)
	}
	return tb
}

func entry(offset int, typ uint32, text string) RawEntry {
	return RawEntry{Offset: offset, Type: typ, Index: 1, Size: len(text), Text: text}
}

func combineAll(t *testing.T, tb *Tables, raws []RawEntry) []LogicalLine {
	t.Helper()
	c := NewCombiner(tb)
	return c.GroupChoices(c.Combine(tb.Classify(raws)))
}

func TestCombineQuoteClosureLookahead(t *testing.T) {
	t.Parallel()
	tb := testTables(t)

	// An unterminated quote must keep absorbing across several entries,
	// not just one ahead, until the balance returns to even.
	lines := combineAll(t, tb, []RawEntry{
		entry(0, 0x04, `"Here, please come and look.`),
		entry(60, 0x05, `If you're just looking, that's free.`),
		entry(120, 0x05, `If you see anything you like, just tell me."`),
	})
	if len(lines) != 1 {
		t.Fatalf("expected 1 combined line, got %d: %+v", len(lines), lines)
	}
	want := `"Here, please come and look. If you're just looking, that's free. If you see anything you like, just tell me."`
	if lines[0].Text != want {
		t.Fatalf("combined text mismatch\nwant: %s\ngot:  %s", want, lines[0].Text)
	}
	if lines[0].SourceStart != 0 || lines[0].SourceEnd != 120 {
		t.Fatalf("source range [%d,%d], want [0,120]", lines[0].SourceStart, lines[0].SourceEnd)
	}
}

func TestCombineStructuralBreakDropsSpeaker(t *testing.T) {
	t.Parallel()
	tb := testTables(t)

	lines := combineAll(t, tb, []RawEntry{
		entry(0, 0x02, "Rath"),
		entry(40, 0x04, `"--it's not there, is it."`),
	})
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Speaker != "" {
		t.Fatalf("structural break must not attach a speaker, got %q", lines[0].Speaker)
	}
}

func TestCombineFragmentsSingleSpace(t *testing.T) {
	t.Parallel()
	tb := testTables(t)

	lines := combineAll(t, tb, []RawEntry{
		entry(0, 0x02, "Zara"),
		entry(40, 0x04, "Because, you got all dirty last time,"),
		entry(100, 0x05, "even though Zara"),
		entry(160, 0x05, "told you not to!"),
	})
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %+v", len(lines), lines)
	}
	want := "Because, you got all dirty last time, even though Zara told you not to!"
	if lines[0].Text != want {
		t.Fatalf("joined text mismatch\nwant: %s\ngot:  %s", want, lines[0].Text)
	}
	if lines[0].Speaker != "Zara" {
		t.Fatalf("speaker = %q, want Zara", lines[0].Speaker)
	}
}

func TestCombineEllipsisIsTerminal(t *testing.T) {
	t.Parallel()
	tb := testTables(t)

	lines := combineAll(t, tb, []RawEntry{
		entry(0, 0x04, "He never finished the thought…"),
		entry(60, 0x04, "Morning came quickly."),
	})
	if len(lines) != 2 {
		t.Fatalf("ellipsis must terminate the line; got %d lines: %+v", len(lines), lines)
	}
}

func TestCombineScriptMixingGate(t *testing.T) {
	t.Parallel()
	tb := testTables(t)

	tests := []struct {
		name  string
		raws  []RawEntry
		lines int
	}{
		{
			name: "japanese then english never merge",
			raws: []RawEntry{
				entry(0, 0x04, "そんなことを言われても、"),
				entry(60, 0x05, "But that was the plan all along"),
			},
			lines: 2,
		},
		{
			name: "mixed entry stands alone",
			raws: []RawEntry{
				entry(0, 0x04, "ここで待っていて、"),
				entry(60, 0x05, "痛い……that really hurt a lot"),
			},
			lines: 2,
		},
		{
			name: "pure japanese fragments merge",
			raws: []RawEntry{
				entry(0, 0x04, "ここで待っていて、"),
				entry(60, 0x05, "すぐ戻るから"),
			},
			lines: 1,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			lines := combineAll(t, tb, tt.raws)
			if len(lines) != tt.lines {
				t.Fatalf("got %d lines, want %d: %+v", len(lines), tt.lines, lines)
			}
		})
	}
}

func TestCombineEmittedQuoteBalanceEven(t *testing.T) {
	t.Parallel()
	tb := testTables(t)

	lines := combineAll(t, tb, []RawEntry{
		entry(0, 0x02, "Pearl"),
		entry(40, 0x04, `"Wait.`),
		entry(100, 0x05, `I said wait!"`),
		entry(160, 0x12, "The door closed behind them."),
		entry(220, 0x04, "「どうしてここに」"),
	})
	for _, l := range lines {
		ascii, depth := quoteDelta(l.Text)
		if ascii%2 != 0 {
			t.Fatalf("line %q has odd ASCII quote count", l.Text)
		}
		if depth != 0 {
			t.Fatalf("line %q has unbalanced native brackets", l.Text)
		}
	}
}

func TestCombineSpeakerOnlyFromLabelEntries(t *testing.T) {
	t.Parallel()
	tb := testTables(t)

	lines := combineAll(t, tb, []RawEntry{
		entry(0, 0x12, "It rained all night."),
		entry(60, 0x02, "Elza"),
		entry(120, 0x04, "Did you sleep at all?"),
		entry(180, 0x03, "#Name[2]"),
		entry(240, 0x04, "Not even a little."),
	})
	for _, l := range lines {
		if l.Speaker == "" {
			continue
		}
		if !tb.IsSpeakerName(l.Speaker) && !IsNamePlaceholder(l.Speaker) {
			t.Fatalf("speaker %q came from neither a speaker entry nor a placeholder", l.Speaker)
		}
	}
}

func TestCombineNamePlaceholderFallbackLabel(t *testing.T) {
	t.Parallel()
	tb := testTables(t)

	lines := combineAll(t, tb, []RawEntry{
		entry(0, 0x03, "#Name[3]"),
		entry(60, 0x04, "So this is where you were hiding."),
	})
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Speaker != "#Name[3]" {
		t.Fatalf("speaker = %q, want the placeholder literal", lines[0].Speaker)
	}
}

func TestCombineIdempotentOnReducedStream(t *testing.T) {
	t.Parallel()
	tb := testTables(t)

	first := combineAll(t, tb, []RawEntry{
		entry(0, 0x04, `"Here, please come and look.`),
		entry(60, 0x05, `If you're just looking, that's free."`),
		entry(120, 0x12, "The shopkeeper smiled."),
	})

	// Feed the already-merged lines back through as one entry per line.
	var reduced []RawEntry
	for i, l := range first {
		typ := uint32(0x04)
		if l.Speaker == "" && i == len(first)-1 {
			typ = 0x12
		}
		reduced = append(reduced, entry(l.SourceStart, typ, l.Text))
	}
	second := combineAll(t, tb, reduced)

	if len(second) != len(first) {
		t.Fatalf("reduced stream produced %d lines, want %d", len(second), len(first))
	}
	for i := range first {
		if second[i].Text != first[i].Text {
			t.Fatalf("line %d changed on re-run\nwant: %s\ngot:  %s", i, first[i].Text, second[i].Text)
		}
	}
}

func TestCombineDiscardsEmptyAndLabelOnly(t *testing.T) {
	t.Parallel()
	tb := testTables(t)

	lines := combineAll(t, tb, []RawEntry{
		entry(0, 0x04, "   "),
		entry(60, 0x02, "Rath"),
	})
	if len(lines) != 0 {
		t.Fatalf("whitespace/label-only input must emit nothing, got %+v", lines)
	}
}

func TestGroupChoicesProximity(t *testing.T) {
	t.Parallel()
	tb := testTables(t)

	lines := combineAll(t, tb, []RawEntry{
		entry(100, 0x02, "はい"),
		entry(130, 0x02, "いいえ"),
	})
	if len(lines) != 1 {
		t.Fatalf("expected 1 choice set, got %d: %+v", len(lines), lines)
	}
	l := lines[0]
	if !l.IsChoiceSet {
		t.Fatalf("line not flagged as choice set: %+v", l)
	}
	if len(l.Options) != 2 || l.Options[0] != "はい" || l.Options[1] != "いいえ" {
		t.Fatalf("options = %v, want [はい いいえ]", l.Options)
	}
}

func TestGroupChoicesOutsideWindowStayStandalone(t *testing.T) {
	t.Parallel()
	tb := testTables(t)

	lines := combineAll(t, tb, []RawEntry{
		entry(100, 0x02, "はい"),
		entry(400, 0x02, "いいえ"),
	})
	if len(lines) != 2 {
		t.Fatalf("expected 2 standalone lines, got %d: %+v", len(lines), lines)
	}
	for _, l := range lines {
		if l.IsChoiceSet {
			t.Fatalf("isolated candidate wrongly grouped: %+v", l)
		}
	}
}

func TestDisplayIndexSequential(t *testing.T) {
	t.Parallel()
	tb := testTables(t)

	lines := combineAll(t, tb, []RawEntry{
		entry(0, 0x12, "A narration line."),
		entry(60, 0x12, "Another narration line."),
		entry(120, 0x12, "A third."),
	})
	for i, l := range lines {
		if l.DisplayIndex != i+1 {
			t.Fatalf("display index %d at position %d", l.DisplayIndex, i)
		}
	}
}
