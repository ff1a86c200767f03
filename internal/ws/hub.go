package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"StaffDesk/bot/forms"
	"StaffDesk/entity"
)

// ClientMessageHandler handles incoming WebSocket messages from dashboard
// clients.
type ClientMessageHandler interface {
	HandleLeaveDecision(username, requestUUID, status string) error
}

// Event represents a WebSocket event sent to dashboard clients.
type Event struct {
	Type string      `json:"type"` // "form_started", "form_progress", ...
	Data interface{} `json:"data"`
}

// Hub maintains the set of active WebSocket clients and broadcasts events.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	handler    ClientMessageHandler
	log        *slog.Logger
}

// NewHub creates a new Hub instance.
func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
	}
}

// SetHandler sets the handler for incoming client messages.
func (h *Hub) SetHandler(handler ClientMessageHandler) {
	h.handler = handler
}

// Run starts the hub's event loop. Should be called in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// BroadcastFormStarted notifies dashboard clients that a user began a form.
func (h *Hub) BroadcastFormStarted(userID int64, formID string) {
	h.broadcast <- &Event{
		Type: "form_started",
		Data: map[string]interface{}{
			"user_id": userID,
			"form_id": formID,
		},
	}
}

// BroadcastFormProgress pushes a session's progress after each step change.
func (h *Hub) BroadcastFormProgress(userID int64, formID string, progress forms.ProgressInfo) {
	h.broadcast <- &Event{
		Type: "form_progress",
		Data: map[string]interface{}{
			"user_id":  userID,
			"form_id":  formID,
			"progress": progress,
		},
	}
}

// BroadcastFormCompleted pushes the collected data of a finished form.
func (h *Hub) BroadcastFormCompleted(userID int64, formID string, data forms.Data) {
	h.broadcast <- &Event{
		Type: "form_completed",
		Data: map[string]interface{}{
			"user_id": userID,
			"form_id": formID,
			"fields":  data,
		},
	}
}

// BroadcastFormCancelled notifies dashboard clients about an abandoned form.
func (h *Hub) BroadcastFormCancelled(userID int64, formID string) {
	h.broadcast <- &Event{
		Type: "form_cancelled",
		Data: map[string]interface{}{
			"user_id": userID,
			"form_id": formID,
		},
	}
}

// BroadcastLeaveRequest pushes a new leave request for review.
func (h *Hub) BroadcastLeaveRequest(request *entity.LeaveRequest) {
	h.broadcast <- &Event{
		Type: "leave_request",
		Data: request,
	}
}

// clientEvent represents an incoming WebSocket message from a dashboard
// client.
type clientEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// HandleClientMessage parses and dispatches an incoming message from a client.
func (h *Hub) HandleClientMessage(username string, raw []byte) {
	if h.handler == nil {
		return
	}

	var event clientEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		if h.log != nil {
			h.log.Warn("failed to parse client ws message", slog.String("error", err.Error()))
		}
		return
	}

	switch event.Type {
	case "leave_decision":
		var data struct {
			UUID   string `json:"uuid"`
			Status string `json:"status"`
		}
		if err := json.Unmarshal(event.Data, &data); err != nil {
			if h.log != nil {
				h.log.Warn("failed to parse leave_decision data", slog.String("error", err.Error()))
			}
			return
		}
		if data.UUID == "" || (data.Status != entity.LeaveApproved && data.Status != entity.LeaveRejected) {
			return
		}
		if err := h.handler.HandleLeaveDecision(username, data.UUID, data.Status); err != nil {
			if h.log != nil {
				h.log.Error("failed to handle leave_decision",
					slog.String("username", username),
					slog.String("uuid", data.UUID),
					slog.String("status", data.Status),
					slog.String("error", err.Error()),
				)
			}
		}
	}
}
