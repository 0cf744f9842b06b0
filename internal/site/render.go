package site

import (
	"fmt"
	"html/template"
	"io"
)

// The index mirrors the storyboard document's look: inline styles, no
// scripts, no external resources. Titles pass through contextual escaping.
const indexTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Storyboards</title>
<style>
body { font-family: sans-serif; max-width: 800px; margin: 0 auto; padding: 20px; }
.board { margin-bottom: 24px; border-bottom: 1px solid #ccc; padding-bottom: 16px; }
.board a { font-size: 1.2em; text-decoration: none; }
.meta { color: #666; font-size: 0.9em; margin-top: 4px; }
.empty { color: #666; }
</style>
</head>
<body>
<h1>Storyboards</h1>
{{if not .Boards}}<p class="empty">No storyboards found.</p>
{{end}}{{range .Boards}}<div class="board">
<a href="{{.Href}}">{{.Title}}</a>
<div class="meta">{{.Meta}}</div>
</div>
{{end}}</body>
</html>
`

var indexTmpl = template.Must(template.New("index").Parse(indexTemplate))

type indexData struct {
	Boards []boardView
}

type boardView struct {
	Title string
	Href  string
	Meta  string
}

// WriteIndex renders the listing document for entries to w. Output depends
// only on the entries, so an unchanged root produces identical bytes.
func WriteIndex(w io.Writer, entries []Entry) error {
	data := indexData{Boards: make([]boardView, 0, len(entries))}
	for _, entry := range entries {
		data.Boards = append(data.Boards, boardView{
			Title: entry.Title,
			Href:  entry.Document,
			Meta:  entryMeta(entry),
		})
	}
	return indexTmpl.Execute(w, data)
}

func entryMeta(entry Entry) string {
	noun := "scenes"
	if entry.Scenes == 1 {
		noun = "scene"
	}
	return fmt.Sprintf("%d %s, %s, updated %s",
		entry.Scenes, noun, formatBytes(entry.Size),
		entry.Modified.UTC().Format("2006-01-02 15:04"))
}

func formatBytes(value int64) string {
	const (
		kiB = 1024
		miB = kiB * 1024
		giB = miB * 1024
	)
	switch {
	case value >= giB:
		return fmt.Sprintf("%.2f GiB", float64(value)/float64(giB))
	case value >= miB:
		return fmt.Sprintf("%.2f MiB", float64(value)/float64(miB))
	case value >= kiB:
		return fmt.Sprintf("%.2f KiB", float64(value)/float64(kiB))
	default:
		return fmt.Sprintf("%d B", value)
	}
}
