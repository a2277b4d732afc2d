package sdk

import (
	"encoding/json"
	"net/http"
	"time"
)

// StatusType is the value of the "status" field in successful responses
type StatusType string

const (
	StatusSuccess StatusType = "success"
	StatusHealthy StatusType = "healthy"
	StatusOnline  StatusType = "online"
)

// StatusResponse is the body of every successful response
type StatusResponse struct {
	Code    int          `json:"-"`                 // HTTP status code
	Status  StatusType   `json:"status"`            // Status message
	Message string       `json:"message,omitempty"` // Human-readable message
	Sheet   *SheetStatus `json:"sheet,omitempty"`   // Last scheduled connection check, when enabled
}

// AsGinResponse converts the response to a format suitable for Gin framework
func (r StatusResponse) AsGinResponse() (int, any) {
	return r.Code, r
}

// ErrorResponse is the body of every failed response. Detail is a string for
// server-side failures and a list of FieldError for rejected submissions
type ErrorResponse struct {
	Code   int `json:"-"`
	Detail any `json:"detail"`
}

// AsGinResponse converts the response to a format suitable for Gin framework
func (r ErrorResponse) AsGinResponse() (int, any) {
	return r.Code, r
}

func NewStatus(status StatusType) StatusResponse {
	return StatusResponse{
		Code:   http.StatusOK,
		Status: status,
	}
}

func NewSuccess(message string) StatusResponse {
	return StatusResponse{
		Code:    http.StatusOK,
		Status:  StatusSuccess,
		Message: message,
	}
}

func NewError(code int, detail any) ErrorResponse {
	return ErrorResponse{
		Code:   code,
		Detail: detail,
	}
}

/** Requests */

// SubmitRequest is the project submission form
type SubmitRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	GithubURL   string `json:"github_url"`
	LinkedinURL string `json:"linkedin_url"`
	TwitterURL  string `json:"twitter_url"`
}

/** Types */

// FieldError describes a rejected submission field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SheetStatus is the outcome of the most recent scheduled connection check
type SheetStatus struct {
	CheckedAt time.Time `json:"checked_at"`
	Connected bool      `json:"connected"`
	Error     string    `json:"error,omitempty"`
}

// APIError is returned by the client for any non-2xx response
type APIError struct {
	StatusCode int
	Message    string       // Set when detail was a string
	Fields     []FieldError // Set when detail listed rejected fields
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		b, _ := json.Marshal(e.Fields)
		return http.StatusText(e.StatusCode) + ": " + string(b)
	}
	return http.StatusText(e.StatusCode) + ": " + e.Message
}
