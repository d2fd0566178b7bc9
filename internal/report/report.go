// Package report renders the experiment's visual HTML report: per pair, both
// images side by side with every persona's verdict underneath, plus a legend
// explaining the difficulty scale.
package report

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"sort"

	"sway/internal/discover"
	"sway/internal/display"
	"sway/internal/store"
)

// LegendEntry is one difficulty level with its definition.
type LegendEntry struct {
	Level      string
	Definition string
}

// PairSection is one pair's block in the report.
type PairSection struct {
	PairID   int
	Strategy string
	ImageA   string // src attribute, relative to the report file when possible
	ImageB   string
	Rows     []store.Record
}

// Page is the full report model.
type Page struct {
	Title    string
	Legend   []LegendEntry
	Sections []PairSection
}

// Build assembles the page model: eligible pairs ascending, records grouped
// per pair and sorted by persona id. Image paths are made relative to
// baseDir (the directory the report file lives in) so the document stays
// portable; paths that cannot be relativized stay absolute.
func Build(records []store.Record, pairs map[int]discover.Pair, baseDir string) Page {
	page := Page{Title: "Visual Persuasion Analysis"}
	for _, level := range display.DifficultyLevels() {
		page.Legend = append(page.Legend, LegendEntry{
			Level:      level,
			Definition: display.DifficultyDefinition(level),
		})
	}

	byPair := make(map[int][]store.Record)
	for _, rec := range records {
		byPair[rec.PairID] = append(byPair[rec.PairID], rec)
	}

	for _, id := range discover.IDs(pairs) {
		p := pairs[id]
		if !p.Eligible() {
			continue
		}
		rows := byPair[id]
		sort.Slice(rows, func(i, j int) bool { return rows[i].PersonaID < rows[j].PersonaID })
		page.Sections = append(page.Sections, PairSection{
			PairID:   id,
			Strategy: display.Strategy(id),
			ImageA:   relPath(baseDir, p.SideA),
			ImageB:   relPath(baseDir, p.SideB),
			Rows:     rows,
		})
	}
	return page
}

func relPath(baseDir, target string) string {
	if baseDir == "" {
		return target
	}
	rel, err := filepath.Rel(baseDir, target)
	if err != nil {
		return target
	}
	return filepath.ToSlash(rel)
}

// Write renders the page model as HTML into w.
func Write(w io.Writer, page Page) error {
	if err := pageTmpl.Execute(w, page); err != nil {
		return fmt.Errorf("report: render: %w", err)
	}
	return nil
}

// WriteFile renders the report to path, creating parent directories.
func WriteFile(path string, records []store.Record, pairs map[int]discover.Pair) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("report: create dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: create %q: %w", path, err)
	}
	defer f.Close()

	page := Build(records, pairs, filepath.Dir(path))
	if err := Write(f, page); err != nil {
		return err
	}
	return f.Close()
}

var pageTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; padding: 20px; background: #f4f4f4; color: #333; }
.container { max-width: 1000px; margin: 0 auto; }
.legend { background: #e8f4f8; padding: 15px; border-left: 5px solid #2980b9; margin-bottom: 25px; border-radius: 4px; }
.legend h3 { margin-top: 0; color: #2980b9; }
.pair { background: white; padding: 25px; margin-bottom: 30px; border-radius: 8px; box-shadow: 0 2px 5px rgba(0,0,0,0.05); }
.images { display: flex; gap: 20px; margin-bottom: 15px; }
.img-box { flex: 1; text-align: center; }
.img-box img { max-width: 100%; height: 200px; object-fit: contain; }
table { width: 100%; border-collapse: collapse; margin-top: 15px; font-size: 14px; }
td, th { border: 1px solid #ddd; padding: 10px; vertical-align: top; }
th { background: #eee; text-align: left; }
.choice-A { color: #27ae60; font-weight: bold; }
.choice-B { color: #2980b9; font-weight: bold; }
.diff-col { width: 15%; }
.reason-col { width: 30%; color: #555; font-style: italic; }
</style>
</head>
<body>
<div class="container">
<h1>{{.Title}}</h1>
<div class="legend">
<h3>Difficulty Rating Key</h3>
<p>Each persona rated how hard its choice was:</p>
<ul>
{{range .Legend}}<li><b>{{.Level}}:</b> {{.Definition}}</li>
{{end}}</ul>
</div>
{{range .Sections}}<div class="pair" id="pair-{{.PairID}}">
<h2>Pair {{.PairID}}: {{.Strategy}}</h2>
<div class="images">
<div class="img-box"><b>Image A</b><br><img src="{{.ImageA}}" alt="Image A"></div>
<div class="img-box"><b>Image B</b><br><img src="{{.ImageB}}" alt="Image B"></div>
</div>
<table>
<tr><th>Persona</th><th>Choice</th><th>Rationale</th><th class="diff-col">Difficulty</th><th class="reason-col">Difficulty Reason</th></tr>
{{range .Rows}}<tr>
<td><b>{{.PersonaID}}</b></td>
<td class="choice-{{.Choice}}">{{.Choice}}</td>
<td>{{.Rationale}}</td>
<td>{{.Difficulty}}</td>
<td class="reason-col">{{.DifficultyReason}}</td>
</tr>
{{end}}</table>
</div>
{{end}}</div>
</body>
</html>
`))
