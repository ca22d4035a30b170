package api

import (
	"github.com/valpere/mediasniff/internal/media"
)

// Re-export types from internal packages for public API
type MediaResource = media.MediaResource
type Result = media.Result

// ParseRequest is the body of POST /parse
type ParseRequest struct {
	URL string `json:"url"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Client-visible error messages
const (
	MessageURLRequired       = "URL is required"
	MessageParseFailed       = "Failed to parse URL"
	MessageRateLimitExceeded = "Rate limit exceeded"
)

// APIError is returned by Client when the server answers with an error body
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return "mediasniff: " + e.Message
}
