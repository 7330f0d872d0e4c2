package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/light-bringer/jewel-pricing-service/internal/app/pricing/queries/list_events"
)

// EventsHandler handles HTTP requests for outbox events.
type EventsHandler struct {
	listEvents *list_events.Query
}

// NewEventsHandler creates a new HTTP events handler.
func NewEventsHandler(listEvents *list_events.Query) *EventsHandler {
	return &EventsHandler{listEvents: listEvents}
}

// Event represents a domain event in the HTTP response.
type Event struct {
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	AggregateID  string          `json:"aggregate_id"`
	Payload      json.RawMessage `json:"payload"`
	Status       string          `json:"status"`
	RetryCount   int64           `json:"retry_count"`
	ErrorMessage *string         `json:"error_message,omitempty"`
	CreatedAt    string          `json:"created_at"`
	ProcessedAt  *string         `json:"processed_at,omitempty"`
}

// ListEventsResponse represents the HTTP response for listing events.
type ListEventsResponse struct {
	Events []Event `json:"events"`
}

// ServeHTTP handles GET /api/v1/events requests.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Parse query parameters
	query := r.URL.Query()
	req := &list_events.Request{}

	if eventType := query.Get("event_type"); eventType != "" {
		req.EventType = &eventType
	}
	if aggregateID := query.Get("aggregate_id"); aggregateID != "" {
		req.AggregateID = &aggregateID
	}
	if status := query.Get("status"); status != "" {
		req.Status = &status
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil || limit <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		req.Limit = limit
	}

	rows, err := h.listEvents.Execute(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	events := make([]Event, 0, len(rows))
	for _, row := range rows {
		event := Event{
			EventID:     row.EventID,
			EventType:   row.EventType,
			AggregateID: row.AggregateID,
			Payload:     rawPayload(row.Payload.Value),
			Status:      row.Status,
			RetryCount:  row.RetryCount,
			CreatedAt:   row.CreatedAt.Format(time.RFC3339),
		}
		if row.ProcessedAt.Valid {
			processedAt := row.ProcessedAt.Time.Format(time.RFC3339)
			event.ProcessedAt = &processedAt
		}
		if row.ErrorMessage.Valid {
			msg := row.ErrorMessage.StringVal
			event.ErrorMessage = &msg
		}
		events = append(events, event)
	}

	writeJSON(w, http.StatusOK, ListEventsResponse{Events: events})
}

// rawPayload re-encodes a decoded JSON column value.
func rawPayload(v any) json.RawMessage {
	switch p := v.(type) {
	case nil:
		return json.RawMessage("null")
	case json.RawMessage:
		return p
	default:
		b, err := json.Marshal(p)
		if err != nil {
			return json.RawMessage("null")
		}
		return b
	}
}
