package dto

import (
	"net/http"
	"strings"
	"time"
)

// ApiResponse is the envelope returned by every enveloped endpoint.
// success=true implies Data is set; success=false implies Message explains the failure.
type ApiResponse[T any] struct {
	Success    bool            `json:"success" example:"true"`
	Message    string          `json:"message,omitempty" example:"Formations récupérées avec succès"`
	Data       *T              `json:"data,omitempty"`
	Error      ErrorCode       `json:"error,omitempty" example:"RES_001"`
	Errors     []FieldErrorDTO `json:"errors,omitempty"`
	StatusCode int             `json:"statusCode" example:"200"`
	Status     string          `json:"status" example:"OK"`
	Timestamp  time.Time       `json:"timestamp" example:"2025-04-23T12:01:05Z"`
}

// Empty is the payload type of endpoints that return no data.
type Empty struct{}

// NewSuccessResponse wraps data in a successful envelope.
func NewSuccessResponse[T any](statusCode int, message string, data T) ApiResponse[T] {
	return ApiResponse[T]{
		Success:    true,
		Message:    message,
		Data:       &data,
		StatusCode: statusCode,
		Status:     StatusName(statusCode),
		Timestamp:  time.Now(),
	}
}

// NewMessageResponse is a successful envelope without data.
func NewMessageResponse(statusCode int, message string) ApiResponse[Empty] {
	return ApiResponse[Empty]{
		Success:    true,
		Message:    message,
		StatusCode: statusCode,
		Status:     StatusName(statusCode),
		Timestamp:  time.Now(),
	}
}

// NewErrorResponse is a failed envelope.
func NewErrorResponse(statusCode int, code ErrorCode, message string) ApiResponse[Empty] {
	return ApiResponse[Empty]{
		Success:    false,
		Message:    message,
		Error:      code,
		StatusCode: statusCode,
		Status:     StatusName(statusCode),
		Timestamp:  time.Now(),
	}
}

// StatusName renders an HTTP status as an upper snake case name, e.g. NOT_FOUND.
func StatusName(code int) string {
	text := http.StatusText(code)
	if text == "" {
		return "UNKNOWN"
	}
	return strings.ToUpper(strings.NewReplacer(" ", "_", "-", "_", "'", "").Replace(text))
}
