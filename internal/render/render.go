package render

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/vovakirdan/chirper-server/internal/store"
)

// Renderer produces HTML for the chirp feed. Feed is a pure function of the
// snapshot, the viewer's edit target, and the viewer identity; it keeps no
// state of its own.
type Renderer struct {
	feed *template.Template
	page *template.Template
}

// row is the per-chirp view model handed to the feed template.
type row struct {
	ID        int64
	Author    string
	Body      string
	CreatedAt string
	Edited    bool
	Mine      bool // viewer is the author: show the actions menu
	Editing   bool // chirp is the viewer's edit target: show the edit form
}

type feedData struct {
	Rows []row
}

type pageData struct {
	Feed         template.HTML
	LoggedIn     bool
	PollInterval int64 // milliseconds
}

const timeLayout = "Jan 2, 2006 15:04"

const feedTemplate = `<div id="feed">
{{- range .Rows }}
<article class="chirp" data-id="{{ .ID }}">
  <header>
    <strong>{{ .Author }}</strong>
    <time>{{ .CreatedAt }}</time>
    {{- if .Edited }} <span class="edited">edited</span>{{ end }}
    {{- if .Mine }}
    <nav class="actions">
      <button class="edit" data-id="{{ .ID }}">Edit</button>
      <button class="delete" data-id="{{ .ID }}" data-confirm="Are you sure you want to delete this chirp?">Delete</button>
    </nav>
    {{- end }}
  </header>
  {{- if .Editing }}
  <form class="edit-form" data-id="{{ .ID }}">
    <textarea name="body" maxlength="255">{{ .Body }}</textarea>
    <button type="submit">Save</button>
    <button type="button" class="cancel">Cancel</button>
  </form>
  {{- else }}
  <p>{{ .Body }}</p>
  {{- end }}
</article>
{{- end }}
</div>
`

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Chirper</title>
</head>
<body>
  <h1>Chirper</h1>
  {{- if .LoggedIn }}
  <form id="compose">
    <textarea name="body" placeholder="What's on your mind?" maxlength="255"></textarea>
    <button type="submit">Chirp</button>
  </form>
  {{- else }}
  <p><a href="/login">Log in</a> to chirp.</p>
  {{- end }}
  {{ .Feed }}
  <script src="/static/feed.js" data-poll-interval="{{ .PollInterval }}"></script>
</body>
</html>
`

// New creates a Renderer with the built-in templates parsed.
func New() (*Renderer, error) {
	feed, err := template.New("feed").Parse(feedTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse feed template: %w", err)
	}
	page, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	return &Renderer{feed: feed, page: page}, nil
}

// Feed renders the feed fragment. editTarget is the chirp the viewer has
// open for editing (0 for none); viewerID identifies the viewer (0 for
// anonymous, which never matches an author).
func (r *Renderer) Feed(chirps []*store.Chirp, editTarget, viewerID int64) (template.HTML, error) {
	rows := make([]row, 0, len(chirps))
	for _, c := range chirps {
		mine := viewerID != 0 && c.UserID == viewerID
		rows = append(rows, row{
			ID:        c.ID,
			Author:    c.Author,
			Body:      c.Body,
			CreatedAt: c.CreatedAt.Local().Format(timeLayout),
			Edited:    c.Edited(),
			Mine:      mine,
			Editing:   mine && c.ID == editTarget,
		})
	}

	var buf bytes.Buffer
	if err := r.feed.Execute(&buf, feedData{Rows: rows}); err != nil {
		return "", fmt.Errorf("render feed: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// Page renders the full feed page around an already-rendered feed fragment.
// pollInterval is how often the page re-fetches the fragment.
func (r *Renderer) Page(feed template.HTML, loggedIn bool, pollInterval time.Duration) (template.HTML, error) {
	var buf bytes.Buffer
	err := r.page.Execute(&buf, pageData{
		Feed:         feed,
		LoggedIn:     loggedIn,
		PollInterval: pollInterval.Milliseconds(),
	})
	if err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}
	return template.HTML(buf.String()), nil
}
