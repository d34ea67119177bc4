// Package frontend renders the server-side dashboard pages from embedded
// templates.
package frontend

import (
	"embed"
	"html/template"
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/umbrella-sec/umbrella/pkg/domain/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageData feeds the dashboard template
type PageData struct {
	Service string
	Cards   []model.StatCard
	Stats   *model.AlertStats
}

// Renderer renders dashboard pages
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded templates
func New() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse dashboard templates")
	}
	return &Renderer{tmpl: tmpl}, nil
}

// RenderDashboard writes the dashboard page for the given stats and cards
func (r *Renderer) RenderDashboard(w io.Writer, cards []model.StatCard, stats *model.AlertStats) error {
	data := &PageData{
		Service: "umbrella",
		Cards:   cards,
		Stats:   stats,
	}
	if err := r.tmpl.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		return goerr.Wrap(err, "failed to render dashboard")
	}
	return nil
}

// RenderStatCard writes a single stat card fragment
func (r *Renderer) RenderStatCard(w io.Writer, card model.StatCard) error {
	if err := r.tmpl.ExecuteTemplate(w, "statcard.html", card); err != nil {
		return goerr.Wrap(err, "failed to render stat card")
	}
	return nil
}
