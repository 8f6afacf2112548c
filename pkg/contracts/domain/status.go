package domain

import "time"

// FileType identifies which spreadsheet an upload holds
type FileType string

const (
	FileTypeLogmanager FileType = "logmanager"
	FileTypeGestora    FileType = "gestora"
)

// Valid reports whether t is a known spreadsheet type.
func (t FileType) Valid() bool {
	return t == FileTypeLogmanager || t == FileTypeGestora
}

// FileUploadStatus tracks an uploaded file through validation and processing
type FileUploadStatus string

const (
	FileStatusPending    FileUploadStatus = "pending"
	FileStatusValidating FileUploadStatus = "validating"
	FileStatusProcessing FileUploadStatus = "processing"
	FileStatusCompleted  FileUploadStatus = "completed"
	FileStatusError      FileUploadStatus = "error"
)

// ColumnValidation reports header checks for an uploaded spreadsheet
type ColumnValidation struct {
	Valid          bool     `json:"valid"`
	MissingColumns []string `json:"missingColumns,omitempty"`
	ExtraColumns   []string `json:"extraColumns,omitempty"`
}

// UploadedFile is the metadata kept for a staged spreadsheet
type UploadedFile struct {
	ID               string            `json:"id"`
	Filename         string            `json:"filename"`
	FileType         FileType          `json:"fileType"`
	Status           FileUploadStatus  `json:"status"`
	TotalRows        int               `json:"totalRows"`
	ValidRows        int               `json:"validRows"`
	InvalidRows      int               `json:"invalidRows"`
	UploadedAt       time.Time         `json:"uploadedAt"`
	ProcessedAt      *time.Time        `json:"processedAt,omitempty"`
	Errors           []string          `json:"errors,omitempty"`
	ColumnValidation *ColumnValidation `json:"columnValidation,omitempty"`

	// Path is where the staged file lives on disk
	Path string `json:"-"`
}

// UploadedFiles holds the staged spreadsheet of each type
type UploadedFiles struct {
	Logmanager *UploadedFile `json:"logmanager"`
	Gestora    *UploadedFile `json:"gestora"`
}

// ProcessingState is the state of the processing pipeline
type ProcessingState string

const (
	ProcessingIdle      ProcessingState = "idle"
	ProcessingRunning   ProcessingState = "processing"
	ProcessingCompleted ProcessingState = "completed"
	ProcessingFailed    ProcessingState = "error"
)

// ProcessingStatus is the progress of the current or last processing run
type ProcessingStatus struct {
	Status      ProcessingState `json:"status"`
	CurrentStep string          `json:"currentStep,omitempty"`
	Progress    int             `json:"progress"`
	Message     string          `json:"message,omitempty"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

// SystemState is the overall data availability state
type SystemState string

const (
	SystemProcessed  SystemState = "processed"
	SystemProcessing SystemState = "processing"
	SystemError      SystemState = "error"
	SystemIdle       SystemState = "idle"
)

// SystemStatus is reported to the dashboard header
type SystemStatus struct {
	Status     SystemState `json:"status"`
	LastUpdate *time.Time  `json:"lastUpdate,omitempty"`
	Message    string      `json:"message,omitempty"`
}
