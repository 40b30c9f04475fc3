package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/dom/kick-danila/internal/domain"
	"github.com/dom/kick-danila/internal/service"
	"github.com/dom/kick-danila/internal/websocket"
	ws "github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	hub          *websocket.Hub
	queryService *service.QueryService
	upgrader     ws.Upgrader
}

// NewWebSocketHandler builds the status stream endpoint. With
// allowAnyOrigin unset, only same-origin browsers may connect.
func NewWebSocketHandler(hub *websocket.Hub, queryService *service.QueryService, allowAnyOrigin bool) *WebSocketHandler {
	upgrader := ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	if allowAnyOrigin {
		upgrader.CheckOrigin = func(r *http.Request) bool {
			return true
		}
	}

	return &WebSocketHandler{
		hub:          hub,
		queryService: queryService,
		upgrader:     upgrader,
	}
}

func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	status, err := h.queryService.Status(r.Context())
	if err != nil && !errors.Is(err, domain.ErrDanilaNotFound) {
		log.Printf("ERROR [websocket.Handle] status: %v", err)
		http.Error(w, "Failed to get status", http.StatusInternalServerError)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := websocket.NewClient(h.hub, conn)
	if status != nil {
		msg, err := websocket.NewMessage(websocket.MessageTypeStatusUpdate, status)
		if err == nil {
			client.Send(msg)
		}
	}
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
