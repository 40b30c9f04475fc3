package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/dom/kick-danila/internal/domain"
	"github.com/dom/kick-danila/internal/service"
)

// StatusHandler serves the read-only JSON API.
type StatusHandler struct {
	queryService *service.QueryService
}

func NewStatusHandler(queryService *service.QueryService) *StatusHandler {
	return &StatusHandler{queryService: queryService}
}

type KickResponse struct {
	ID           uint      `json:"id"`
	KickerName   string    `json:"kicker_name"`
	Power        int       `json:"power"`
	CreatedAt    time.Time `json:"created_at"`
	KickTypeID   *uint     `json:"kick_type_id"`
	KickTypeName string    `json:"kick_type_name,omitempty"`
}

type KicksResponse struct {
	Kicks []KickResponse   `json:"kicks"`
	Stats domain.KickStats `json:"stats"`
}

type KickTypesResponse struct {
	KickTypes []*domain.KickType `json:"kick_types"`
}

func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.queryService.Status(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrDanilaNotFound) {
			writeError(w, http.StatusNotFound, "Danila not found")
			return
		}
		log.Printf("ERROR [status.Status]: %v", err)
		writeError(w, statusFor(err), "Failed to get status")
		return
	}

	writeJSON(w, http.StatusOK, status)
}

func (h *StatusHandler) ListKicks(w http.ResponseWriter, r *http.Request) {
	filter := parseFilter(r)

	kicks, err := h.queryService.ListKicks(r.Context(), filter)
	if err != nil {
		log.Printf("ERROR [status.ListKicks] q=%q: %v", filter.Query, err)
		writeError(w, statusFor(err), "Failed to list kicks")
		return
	}

	stats, err := h.queryService.Stats(r.Context())
	if err != nil {
		log.Printf("ERROR [status.ListKicks] stats: %v", err)
		writeError(w, statusFor(err), "Failed to count kicks")
		return
	}

	resp := KicksResponse{
		Kicks: make([]KickResponse, len(kicks)),
		Stats: *stats,
	}
	for i, k := range kicks {
		resp.Kicks[i] = KickResponse{
			ID:         k.ID,
			KickerName: k.KickerName,
			Power:      k.Power,
			CreatedAt:  k.CreatedAt,
			KickTypeID: k.KickTypeID,
		}
		if k.KickType != nil {
			resp.Kicks[i].KickTypeName = k.KickType.Name
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *StatusHandler) ListKickTypes(w http.ResponseWriter, r *http.Request) {
	kickTypes, err := h.queryService.KickTypes(r.Context())
	if err != nil {
		log.Printf("ERROR [status.ListKickTypes]: %v", err)
		writeError(w, statusFor(err), "Failed to list kick types")
		return
	}

	writeJSON(w, http.StatusOK, KickTypesResponse{KickTypes: kickTypes})
}
