package render

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"text/template"

	"laundry-status-monitor/internal/model"
	"laundry-status-monitor/internal/rank"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Engine renders the embedded report templates.
type Engine struct {
	templates *template.Template
}

// NewEngine parses all embedded templates.
func NewEngine() (*Engine, error) {
	t, err := template.New("render").ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Engine{templates: t}, nil
}

type roomsView struct {
	Title string
	Rooms []model.RoomSummary
}

// Rooms renders one titled table of summaries in the given order.
func (e *Engine) Rooms(title string, summaries []model.RoomSummary) (string, error) {
	if e == nil || e.templates == nil {
		return "", fmt.Errorf("nil engine")
	}
	buf := bytes.NewBuffer(nil)
	if err := e.templates.ExecuteTemplate(buf, "rooms", roomsView{Title: title, Rooms: summaries}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteReport prints the LABEL, DRYER and WASHER views of summaries.
func (e *Engine) WriteReport(w io.Writer, summaries []model.RoomSummary) error {
	byLabel := rank.ByLabel(summaries)
	views := []struct {
		title string
		rooms []model.RoomSummary
	}{
		{"LABEL", byLabel},
		{"DRYER", rank.ByDryers(byLabel)},
		{"WASHER", rank.ByWashers(byLabel)},
	}
	for _, v := range views {
		out, err := e.Rooms(v.title, v.rooms)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, out); err != nil {
			return err
		}
	}
	return nil
}
