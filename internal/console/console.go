// Package console renders verdicts and result tables for the terminal.
package console

import (
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"sway/internal/discover"
	"sway/internal/display"
	"sway/internal/store"
)

// choice colors the A/B marker: green for A, blue for B, plain otherwise.
func choice(c string) string {
	switch c {
	case "A":
		return text.FgGreen.Sprint("A")
	case "B":
		return text.FgBlue.Sprint("B")
	}
	return c
}

// VerdictLine is the one-line rendering of a fresh verdict, printed as the
// batch progresses.
func VerdictLine(personaID string, choiceSide, difficulty string) string {
	return fmt.Sprintf("   %s chose Image %s  [%s]", personaID, choice(choiceSide), difficulty)
}

func newTable() table.Writer {
	w := table.NewWriter()
	w.SetStyle(table.StyleLight)
	return w
}

// PairsTable renders discovered pairs with their eligibility.
func PairsTable(pairs map[int]discover.Pair) string {
	w := newTable()
	w.AppendHeader(table.Row{"Pair", "Strategy", "Image A", "Image B", "Eligible"})
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, WidthMax: 40},
		{Number: 4, WidthMax: 40},
		{Number: 5, Align: text.AlignCenter},
	})

	eligible := 0
	for _, id := range discover.IDs(pairs) {
		p := pairs[id]
		mark := "no"
		if p.Eligible() {
			mark = "yes"
			eligible++
		}
		w.AppendRow(table.Row{id, display.Strategy(id), orDash(p.SideA), orDash(p.SideB), mark})
	}
	w.AppendFooter(table.Row{"", "", "", "eligible", eligible})
	return w.Render()
}

// ResultsTable renders stored records, one row per verdict.
func ResultsTable(recs []store.Record) string {
	w := newTable()
	w.AppendHeader(table.Row{"Pair", "Strategy", "Persona", "Choice", "Difficulty", "Rationale"})
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignCenter},
		{Number: 6, WidthMax: 60},
	})
	for _, r := range recs {
		w.AppendRow(table.Row{r.PairID, r.Strategy, r.PersonaID, choice(r.Choice), r.Difficulty, r.Rationale})
	}
	w.AppendFooter(table.Row{"", "", "", "", "rows", len(recs)})
	return w.Render()
}

// SummaryTable renders per-pair A/B tallies with a grand-total footer.
func SummaryTable(recs []store.Record) string {
	type tally struct{ a, b int }
	byPair := make(map[int]*tally)
	for _, r := range recs {
		t, ok := byPair[r.PairID]
		if !ok {
			t = &tally{}
			byPair[r.PairID] = t
		}
		switch r.Choice {
		case "A":
			t.a++
		case "B":
			t.b++
		}
	}

	ids := make([]int, 0, len(byPair))
	for id := range byPair {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	w := newTable()
	w.AppendHeader(table.Row{"Pair", "Strategy", "Chose A", "Chose B", "Total"})
	totalA, totalB := 0, 0
	for _, id := range ids {
		t := byPair[id]
		totalA += t.a
		totalB += t.b
		w.AppendRow(table.Row{id, display.Strategy(id), t.a, t.b, t.a + t.b})
	}
	w.AppendFooter(table.Row{"", "total", totalA, totalB, totalA + totalB})
	return w.Render()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
