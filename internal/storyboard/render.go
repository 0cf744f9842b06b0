package storyboard

import (
	"fmt"
	"html/template"
	"io"
	"path"
	"time"
)

// The document is self-contained: inline styles, no scripts, no external
// references beyond the keyframe images next to it. Cue text passes through
// the template's contextual escaping, so transcript content cannot inject
// markup.
const documentTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 800px; margin: 0 auto; padding: 20px; }
.scene { margin-bottom: 40px; border-bottom: 1px solid #ccc; padding-bottom: 20px; }
img { max-width: 100%; height: auto; border: 1px solid #ddd; }
.timestamp { color: #666; font-size: 0.9em; margin-bottom: 5px; }
.captions { font-size: 1.1em; line-height: 1.5; margin-top: 10px; }
.captions p { margin: 0 0 8px 0; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{range .Scenes}}<div class="scene">
<div class="timestamp">Time: {{.Time}}</div>
<img src="{{.Image}}" alt="Scene at {{.Time}}">
<div class="captions">
{{- range .Cues}}
<p>{{.}}</p>
{{- end}}
</div>
</div>
{{end}}</body>
</html>
`

var documentTmpl = template.Must(template.New("storyboard").Parse(documentTemplate))

type documentData struct {
	Title  string
	Scenes []sceneView
}

type sceneView struct {
	Time  string
	Image string
	Cues  []string
}

// RenderHTML writes the storyboard document for records to w. framesRel is
// the keyframe directory's path relative to the document, forward-slashed.
// Output depends only on the arguments, so repeated runs over identical
// inputs produce identical bytes.
func RenderHTML(w io.Writer, title, framesRel string, records []SceneRecord) error {
	data := documentData{Title: title, Scenes: make([]sceneView, 0, len(records))}
	for _, record := range records {
		view := sceneView{
			Time:  FormatTimestamp(record.Scene.Timestamp),
			Image: path.Join(framesRel, record.Scene.Image),
		}
		for _, cue := range record.Cues {
			view.Cues = append(view.Cues, cue.Text)
		}
		data.Scenes = append(data.Scenes, view)
	}
	return documentTmpl.Execute(w, data)
}

// FormatTimestamp renders a duration as H:MM:SS with unpadded hours,
// truncating below whole seconds.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", total/3600, total%3600/60, total%60)
}
