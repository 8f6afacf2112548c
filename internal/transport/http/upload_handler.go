package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "slapulse/internal/errors"
	api "slapulse/pkg/contracts/api/v1"
	"slapulse/pkg/contracts/domain"
)

// multipartOverhead is the room left for the form fields around the file.
const multipartOverhead = 1 << 20

// UploadHandler handles staging, removal and processing of the spreadsheets
type UploadHandler struct {
	uploads      UploadService
	processing   ProcessingService
	maxFileSize  int64
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploads UploadService, processing ProcessingService, maxFileSize int64, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *UploadHandler {
	return &UploadHandler{
		uploads:      uploads,
		processing:   processing,
		maxFileSize:  maxFileSize,
		logger:       logger.With(slog.String("component", "upload_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the /api/upload routes
func (h *UploadHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/status", h.Status)
	r.Post("/", h.Upload)
	r.Post("/process", h.Process)
	r.Delete("/{fileType}", h.Remove)
	return r
}

// SystemStatus handles GET /api/system/status
func (h *UploadHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.processing.SystemStatus())
}

// Status handles GET /api/upload/status
func (h *UploadHandler) Status(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.processing.UploadStatus())
}

// Upload handles POST /api/upload
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.maxFileSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+multipartOverhead)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.errorHandler.HandleError(w, r, apierrors.ErrFileTooLarge)
			return
		}
		if errors.Is(err, http.ErrNotMultipart) {
			h.errorHandler.HandleError(w, r, apierrors.ErrNoFileUploaded)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrNoFileUploaded)
		return
	}
	defer file.Close()

	fileType := domain.FileType(r.FormValue("fileType"))
	uploaded, err := h.uploads.Upload(r.Context(), fileType, header.Filename, file)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, api.Response{Success: true, Data: uploaded})
}

// Remove handles DELETE /api/upload/{fileType}
func (h *UploadHandler) Remove(w http.ResponseWriter, r *http.Request) {
	fileType := domain.FileType(chi.URLParam(r, "fileType"))
	if err := h.uploads.Remove(r.Context(), fileType); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, api.Response{Success: true})
}

// Process handles POST /api/upload/process. The run continues in the background.
func (h *UploadHandler) Process(w http.ResponseWriter, r *http.Request) {
	runID, err := h.processing.Start(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, api.Response{
		Success: true,
		Message: "Processamento iniciado",
		Data:    map[string]string{"runId": runID},
	})
}
