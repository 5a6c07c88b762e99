package websocket

import "encoding/json"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action of a client message.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError      Event = "error"
	EventSubscribed Event = "subscribed"
	EventAttendance Event = "attendance"
	EventPong       Event = "pong"
)

// SubscribedResponse confirms which academies the stream covers. An empty
// AcademyID means every academy.
type SubscribedResponse struct {
	Event     Event  `json:"event"`
	AcademyID string `json:"academy_id"`
}

// AttendanceResponse forwards a published attendance event verbatim.
type AttendanceResponse struct {
	Event Event           `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
