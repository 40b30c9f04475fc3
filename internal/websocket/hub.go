package websocket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/dom/kick-danila/internal/domain"
)

// Hub fans Danila status updates out to every connected client. The most
// recent update is replayed to clients that ask for a sync. Versioned
// updates that arrive after a newer one are dropped.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	sync       chan *Client
	broadcast  chan *domain.Status
	stop       chan struct{}
	done       chan struct{} // closed when Run() exits
	stopped    bool
	latest     []byte
	latestVer  uint64
	seq        int64
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		sync:       make(chan *Client, 16),
		broadcast:  make(chan *domain.Status, 64),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			for client := range h.clients {
				client.Close()
			}
			h.clients = make(map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
			}
			h.mu.Unlock()

		case client := <-h.sync:
			if h.latest != nil {
				client.trySend(h.latest)
			}

		case status := <-h.broadcast:
			if status.Version != 0 && status.Version <= h.latestVer {
				log.Printf("Hub: dropping stale status version=%d latest=%d", status.Version, h.latestVer)
				continue
			}
			data, err := h.encode(status)
			if err != nil {
				log.Printf("Hub: failed to encode status: %v", err)
				continue
			}
			h.latest = data
			if status.Version != 0 {
				h.latestVer = status.Version
			}

			h.mu.RLock()
			for client := range h.clients {
				if !client.trySend(data) {
					log.Printf("Hub: dropped status update for slow client %s", client.ID())
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) encode(status *domain.Status) ([]byte, error) {
	msg, err := NewMessage(MessageTypeStatusUpdate, status)
	if err != nil {
		return nil, err
	}
	h.seq++
	msg.Seq = h.seq
	return json.Marshal(msg)
}

// Stop closes every client connection and blocks until Run has exited.
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.stopped = true
	h.mu.Unlock()

	close(h.stop)
	<-h.done
}

// NotifyStatus queues status for broadcast. It never blocks the caller;
// when the queue is full the update is dropped and the next one wins.
func (h *Hub) NotifyStatus(status *domain.Status) {
	if h.isStopped() {
		return
	}
	select {
	case h.broadcast <- status:
	default:
		log.Printf("Hub: broadcast queue full, dropping status update")
	}
}

func (h *Hub) Register(client *Client) {
	if h.isStopped() {
		client.Close()
		return
	}
	select {
	case h.register <- client:
	case <-h.done:
		client.Close()
	}
}

// Unregister safely unregisters a client, handling the case where the hub may be stopped.
func (h *Hub) Unregister(client *Client) {
	if h.isStopped() {
		return
	}
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// RequestSync replays the latest status to client.
func (h *Hub) RequestSync(client *Client) {
	if h.isStopped() {
		return
	}
	select {
	case h.sync <- client:
	default:
	}
}

// ClientCount reports how many clients are connected.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) isStopped() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.stopped
}
