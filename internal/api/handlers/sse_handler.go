package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/domain/entities"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/domain/providers"
)

// SSEHandler handles Server-Sent Events for real-time booking updates, so
// an open calendar view learns a slot was taken without polling
type SSEHandler struct {
	eventBus providers.EventBus
	clients  map[string]map[chan *entities.BookingEvent]bool // channel -> clients
	mu       sync.RWMutex
}

// NewSSEHandler creates a new SSE handler
func NewSSEHandler(eventBus providers.EventBus) *SSEHandler {
	return &SSEHandler{
		eventBus: eventBus,
		clients:  make(map[string]map[chan *entities.BookingEvent]bool),
	}
}

// StreamPractitionerUpdates handles SSE connections for one practitioner's
// booking events
// GET /api/stream/practitioners/{id}
func (h *SSEHandler) StreamPractitionerUpdates(w http.ResponseWriter, r *http.Request) {
	practitionerID := r.PathValue("id")
	if practitionerID == "" {
		respondWithError(w, http.StatusBadRequest, "practitioner ID is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	// Set headers for SSE
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// Create client channel
	clientChan := make(chan *entities.BookingEvent, 10)
	channel := providers.GetPractitionerChannel(practitionerID)

	// Register client
	h.registerClient(channel, clientChan)
	defer h.unregisterClient(channel, clientChan)

	// Subscribe to events
	eventChan, err := h.eventBus.Subscribe(r.Context(), channel)
	if err != nil {
		log.Warn().Err(err).Str("channel", channel).Msg("failed to subscribe to channel")
		return
	}

	// Send initial connection event
	h.sendEvent(w, "connected", map[string]interface{}{
		"practitioner_id": practitionerID,
		"timestamp":       time.Now(),
	})
	flusher.Flush()

	// Start forwarding events
	go h.forwardEvents(r.Context(), eventChan, clientChan)

	// Keep connection alive and send events
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			log.Debug().Str("practitioner_id", practitionerID).Msg("client disconnected from booking stream")
			return
		case <-ticker.C:
			// Send heartbeat
			h.sendEvent(w, "heartbeat", map[string]interface{}{
				"timestamp": time.Now(),
			})
			flusher.Flush()
		case event := <-clientChan:
			if event == nil {
				continue
			}
			h.sendEvent(w, string(event.EventType), event)
			flusher.Flush()
		}
	}
}

// StreamBookingUpdates handles SSE connections for all booking events,
// regardless of practitioner
// GET /api/stream/bookings
func (h *SSEHandler) StreamBookingUpdates(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	clientChan := make(chan *entities.BookingEvent, 10)
	channel := providers.EventChannelBookingUpdates

	h.registerClient(channel, clientChan)
	defer h.unregisterClient(channel, clientChan)

	eventChan, err := h.eventBus.Subscribe(r.Context(), channel)
	if err != nil {
		log.Warn().Err(err).Str("channel", channel).Msg("failed to subscribe to channel")
		return
	}

	h.sendEvent(w, "connected", map[string]interface{}{
		"timestamp": time.Now(),
	})
	flusher.Flush()

	go h.forwardEvents(r.Context(), eventChan, clientChan)

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			log.Debug().Msg("client disconnected from booking stream")
			return
		case <-ticker.C:
			h.sendEvent(w, "heartbeat", map[string]interface{}{
				"timestamp": time.Now(),
			})
			flusher.Flush()
		case event := <-clientChan:
			if event == nil {
				continue
			}
			h.sendEvent(w, string(event.EventType), event)
			flusher.Flush()
		}
	}
}

// GetClientCount returns the number of connected SSE clients
func (h *SSEHandler) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, clients := range h.clients {
		count += len(clients)
	}
	return count
}

// forwardEvents forwards events from the event bus to a client channel
func (h *SSEHandler) forwardEvents(ctx context.Context, eventChan <-chan *entities.BookingEvent, clientChan chan<- *entities.BookingEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			select {
			case clientChan <- event:
			default:
				// Client channel full, skip event
			}
		}
	}
}

// registerClient registers a client for a channel
func (h *SSEHandler) registerClient(channel string, clientChan chan *entities.BookingEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[channel] == nil {
		h.clients[channel] = make(map[chan *entities.BookingEvent]bool)
	}
	h.clients[channel][clientChan] = true
}

// unregisterClient removes a client from a channel
func (h *SSEHandler) unregisterClient(channel string, clientChan chan *entities.BookingEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[channel]; ok {
		delete(clients, clientChan)
		if len(clients) == 0 {
			delete(h.clients, channel)
		}
	}
}

// sendEvent writes a single SSE event to the response
func (h *SSEHandler) sendEvent(w http.ResponseWriter, eventType string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Warn().Err(err).Str("event_type", eventType).Msg("failed to marshal SSE event")
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType, payload)
}
