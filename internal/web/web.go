// Package web serves the single-page dashboard.
package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/megasena-sim/internal/draws"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.New("").ParseFS(templatesFS, "templates/*.html")
}

type DashboardHandler struct {
	store      *draws.Store
	maxTickets int
}

func NewDashboardHandler(store *draws.Store, maxTickets int) *DashboardHandler {
	return &DashboardHandler{store: store, maxTickets: maxTickets}
}

// Index renders the dashboard shell; data is fetched from the JSON API.
func (h *DashboardHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Title":      "Mega-Sena Explorer",
		"Dataset":    h.store.Status(),
		"MaxTickets": h.maxTickets,
	})
}
