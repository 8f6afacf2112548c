package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError(t *testing.T) {
	err := New(http.StatusNotFound, "NO_DATA", "Nenhum dado disponível")
	assert.Equal(t, "Nenhum dado disponível", err.Error())
	assert.Nil(t, err.Details)

	withDetails := NewWithDetails(http.StatusBadRequest, "INVALID_REQUEST", "bad", map[string]string{"field": "page"})
	assert.Equal(t, map[string]string{"field": "page"}, withDetails.Details)
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    *APIError
		status int
		code   string
	}{
		{"no data", ErrNoData, http.StatusNotFound, "NO_DATA"},
		{"no export data", ErrNoExportData, http.StatusNotFound, "NO_DATA"},
		{"invalid file type", ErrInvalidFileType, http.StatusBadRequest, "INVALID_FILE_TYPE"},
		{"no file", ErrNoFileUploaded, http.StatusBadRequest, "NO_FILE"},
		{"processing in progress", ErrProcessingInProgress, http.StatusConflict, "PROCESSING_IN_PROGRESS"},
		{"file too large", ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{"missing uploads", ErrMissingUploads, http.StatusBadRequest, "MISSING_UPLOADS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.StatusCode)
			assert.Equal(t, tt.code, tt.err.ErrorCode)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestErrValidation(t *testing.T) {
	err := ErrValidation("pageSize", "pageSize must be at least 1")
	require.Equal(t, http.StatusBadRequest, err.StatusCode)

	details, ok := err.Details.(ValidationErrors)
	require.True(t, ok)
	require.Len(t, details.Errors, 1)
	assert.Equal(t, "pageSize", details.Errors[0].Field)
}

func TestInvalidSpreadsheet(t *testing.T) {
	err := InvalidSpreadsheet("gestora", map[string][]string{"missingColumns": {"CEP"}})
	assert.Equal(t, http.StatusUnprocessableEntity, err.StatusCode)
	assert.Equal(t, "Planilha gestora inválida", err.Message)
}

func TestProblemDetailsMarshalJSON(t *testing.T) {
	problem := NewProblemDetails(http.StatusNotFound, TypeNoData, "Not Found", "Nenhum dado disponível", "/api/dashboard/overview").
		WithExtension("error_code", "NO_DATA").
		WithExtension("status", 999)

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, TypeNoData, decoded["type"])
	assert.Equal(t, float64(http.StatusNotFound), decoded["status"], "standard members win over extensions")
	assert.Equal(t, "NO_DATA", decoded["error_code"])
	assert.Equal(t, "/api/dashboard/overview", decoded["instance"])
}

func TestAppError(t *testing.T) {
	cause := errors.New("sheet is empty")
	err := NewParsingError("failed to read logmanager", cause).WithContext("file", "a.xlsx")

	assert.Equal(t, "[PARSING] failed to read logmanager: sheet is empty", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "a.xlsx", err.Context["file"])

	assert.Equal(t, "[VALIDATION] bad input", NewAppValidationError("bad input").Error())
}
