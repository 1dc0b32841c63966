package websocket

import "github.com/stemsi/student-roster/internal/model"

// ─── Events (Server → Client) ───────────────────────────────────────

type EventType string

const (
	EventRosterChanged EventType = "roster.changed"
	EventPong          EventType = "pong"
	EventError         EventType = "error"
)

// Action says which mutation produced a roster.changed event.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Event is pushed to every connected client after a successful mutation.
// Index is the record's position at the time of the change; for deletes it
// is the position the record was removed from.
type Event struct {
	Event   EventType      `json:"event"`
	Action  Action         `json:"action"`
	Index   int            `json:"index"`
	Student *model.Student `json:"student,omitempty"`
	Size    int            `json:"size"`
}

// ErrorResponse is sent when a client message cannot be handled.
type ErrorResponse struct {
	Event EventType `json:"event"`
	Error string    `json:"error"`
}

type PongResponse struct {
	Event EventType `json:"event"`
}

// ─── Actions (Client → Server) ──────────────────────────────────────

// RequestEnvelope is the only client message shape; "ping" is the only action.
type RequestEnvelope struct {
	Action string `json:"action"`
}
