package handlers

import (
	"embed"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/dom/kick-danila/internal/api/flash"
	"github.com/dom/kick-danila/internal/api/middleware"
	"github.com/dom/kick-danila/internal/domain"
	"github.com/dom/kick-danila/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.New("").Funcs(template.FuncMap{
	"formatTime": func(t time.Time) string {
		return t.Format("2006-01-02 15:04:05")
	},
	"isSelected": func(filter domain.KickFilter, id uint) bool {
		return filter.HasKickType() && *filter.KickTypeID == id
	},
}).ParseFS(templateFS, "templates/*.html"))

type PageHandler struct {
	queryService *service.QueryService
	location     *time.Location
}

func NewPageHandler(queryService *service.QueryService, location *time.Location) *PageHandler {
	if location == nil {
		location = time.UTC
	}
	return &PageHandler{queryService: queryService, location: location}
}

type indexView struct {
	*service.Dashboard
	Flash      *flash.Message
	LastKicked string
}

func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.queryService.Dashboard(r.Context(), parseFilter(r))
	if err != nil {
		log.Printf("ERROR [page.Index]: %v", err)
		http.Error(w, "Failed to load kicks", http.StatusInternalServerError)
		return
	}

	for _, k := range dashboard.Kicks {
		k.CreatedAt = k.CreatedAt.In(h.location)
	}

	view := indexView{Dashboard: dashboard}
	if msg, ok := middleware.GetFlash(r.Context()); ok {
		view.Flash = msg
	}
	if dashboard.Danila != nil && dashboard.Danila.LastKicked != nil {
		view.LastKicked = dashboard.Danila.LastKicked.In(h.location).Format("2006-01-02 15:04:05")
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, "index.html", view); err != nil {
		log.Printf("ERROR [page.Index] render: %v", err)
	}
}
