// Package events contains the websocket message contracts pushed to the dashboard.
package events

import (
	"time"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// Sent to a client right after it connects
	MessageTypeConnection MessageType = "connection"

	// Processing pipeline progress; Data is a domain.ProcessingStatus
	MessageTypeProcessingStatus MessageType = "processing_status"

	// System availability changes; Data is a domain.SystemStatus
	MessageTypeSystemStatus MessageType = "system_status"

	// Upload staged or removed; Data is a domain.UploadedFiles
	MessageTypeUploadStatus MessageType = "upload_status"

	// A new snapshot is live and views should be refetched
	MessageTypeDataRefresh MessageType = "data_refresh"

	MessageTypeError MessageType = "error"
)

// Message is the envelope of every websocket frame
type Message struct {
	ID        string      `json:"id,omitempty"`
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

// ConnectionEvent greets a newly registered client
type ConnectionEvent struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	ClientID string `json:"client_id"`
}

// DataRefreshEvent announces a newly published snapshot
type DataRefreshEvent struct {
	Version  int64     `json:"version"`
	Records  int       `json:"records"`
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loadedAt"`
}

// ErrorEvent reports a failure the dashboard should surface
type ErrorEvent struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Step    string `json:"step,omitempty"`
}
