package notify

import "time"

// Event types pushed to dashboard clients.
const (
	EventConnection    = "connection"
	EventCheckinUpdate = "checkin_update"
	EventPaymentUpdate = "payment_update"
	EventUserUpdate    = "user_update"
	EventManualUpdate  = "manual_update"
)

// Event is the JSON frame sent over the dashboard socket.
type Event struct {
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Timestamp string         `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// NewEvent stamps an event with the current time.
func NewEvent(eventType, message string, data map[string]any) Event {
	return Event{
		Type:      eventType,
		Message:   message,
		Timestamp: time.Now().Format(time.RFC3339),
		Data:      data,
	}
}
