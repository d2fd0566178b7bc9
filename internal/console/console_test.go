package console

import (
	"strings"
	"testing"

	"sway/internal/discover"
	"sway/internal/store"
)

func TestVerdictLine(t *testing.T) {
	line := VerdictLine("P9_Futurist", "A", "Easy")
	for _, want := range []string{"P9_Futurist", "A", "Easy"} {
		if !strings.Contains(line, want) {
			t.Errorf("line %q missing %q", line, want)
		}
	}
}

func TestPairsTable(t *testing.T) {
	pairs := map[int]discover.Pair{
		1: {ID: 1, SideA: "imgs/p1a.png", SideB: "imgs/p1b.png"},
		2: {ID: 2, SideB: "imgs/p2b.png"},
	}
	out := PairsTable(pairs)
	for _, want := range []string{"Authority", "Social Proof", "yes", "no", "p1a.png", "-"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	// Footer counts only complete pairs; go-pretty renders footers uppercase.
	if !strings.Contains(strings.ToUpper(out), "ELIGIBLE") {
		t.Errorf("eligible footer missing:\n%s", out)
	}
}

func TestResultsTable(t *testing.T) {
	recs := []store.Record{
		{PairID: 1, Strategy: "Authority", PersonaID: "P1_Traditionalist", Choice: "A",
			Difficulty: "Easy", Rationale: "fits"},
		{PairID: 1, Strategy: "Authority", PersonaID: "P2_Trendsetter", Choice: "B",
			Difficulty: "Hard", Rationale: "close"},
	}
	out := ResultsTable(recs)
	for _, want := range []string{"P1_Traditionalist", "P2_Trendsetter", "Easy", "Hard", "2"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestSummaryTable(t *testing.T) {
	recs := []store.Record{
		{PairID: 2, Choice: "A"},
		{PairID: 1, Choice: "A"},
		{PairID: 1, Choice: "B"},
		{PairID: 1, Choice: "A"},
	}
	out := SummaryTable(recs)
	lines := strings.Split(out, "\n")

	// Pair 1 must come before pair 2 regardless of record order.
	var idx1, idx2 int
	for i, l := range lines {
		if strings.Contains(l, "Authority") {
			idx1 = i
		}
		if strings.Contains(l, "Social Proof") {
			idx2 = i
		}
	}
	if idx1 == 0 || idx2 == 0 || idx1 > idx2 {
		t.Errorf("pair ordering wrong (Authority@%d, Social Proof@%d):\n%s", idx1, idx2, out)
	}
	if !strings.Contains(strings.ToUpper(out), "TOTAL") {
		t.Errorf("missing grand total footer:\n%s", out)
	}
}
