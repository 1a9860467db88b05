// internal/report/report_test.go
package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleSummary() *Summary {
	s := &Summary{}
	s.Add(FileStats{File: "10", Format: "dialogue", Scanned: 40, Accepted: 35, Lines: 35, ChoiceSets: 0})
	s.Add(FileStats{File: "101", Format: "full", Scanned: 412, Accepted: 198, Lines: 96, ChoiceSets: 3})
	s.Add(FileStats{File: "broken", Error: "reading script file: permission denied"})
	return s
}

func TestSummaryTotals(t *testing.T) {
	t.Parallel()

	s := sampleSummary()
	scanned, accepted, lines, choiceSets := s.Totals()
	if scanned != 452 || accepted != 233 || lines != 131 || choiceSets != 3 {
		t.Fatalf("totals = %d/%d/%d/%d, want 452/233/131/3", scanned, accepted, lines, choiceSets)
	}
	if s.FailureCount() != 1 {
		t.Fatalf("failure count = %d, want 1", s.FailureCount())
	}
}

func TestSummaryRender(t *testing.T) {
	t.Parallel()

	out := sampleSummary().Render()
	for _, want := range []string{
		"FILE",
		"101",
		"permission denied",
		"3 files (1 failed), 452 records scanned, 233 accepted, 131 lines, 3 choice sets",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestSummaryWriteJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "run.json")
	if err := sampleSummary().WriteJSON(path); err != nil {
		t.Fatalf("WriteJSON error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	var got Summary
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if len(got.Files) != 3 {
		t.Fatalf("files = %d, want 3", len(got.Files))
	}
	if got.Files[2].Error == "" {
		t.Fatal("error field must survive the roundtrip")
	}
}
