// Package api contains the HTTP response envelopes shared with the dashboard client.
package api

import (
	"slapulse/pkg/contracts/domain"
)

// Response is the envelope used by the upload and processing endpoints
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// UploadStatusResponse reports both staged files and the processing status
type UploadStatusResponse struct {
	Logmanager *domain.UploadedFile    `json:"logmanager"`
	Gestora    *domain.UploadedFile    `json:"gestora"`
	Processing domain.ProcessingStatus `json:"processing"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status   string            `json:"status"`
	Version  string            `json:"version"`
	Records  int               `json:"records"`
	Snapshot int64             `json:"snapshotVersion"`
	Checks   map[string]string `json:"checks,omitempty"`
}
