package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error represents a non-2xx API response.
type Error struct {
	// StatusCode is the HTTP status code.
	StatusCode int `json:"-"`
	// Message is the server-supplied message, empty when the body carried none.
	Message string `json:"message"`
	// Details carries the optional "details" member, or the raw body when it
	// was not JSON.
	Details interface{} `json:"details,omitempty"`
	// Path is the request path that failed.
	Path string `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %d %s", e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

// IsNotFound returns true if the error is a not found error.
func (e *Error) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized returns true if the error is an authentication error.
func (e *Error) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// ErrNoMealPlan is returned by MealPlanService.Get when the user has no saved
// plan yet.
var ErrNoMealPlan = errors.New("no meal plan found")

// parseError parses an error response from the API. The server answers with
// {"error": "..."}; {"error": {"message": ...}} and {"message": ...} are
// accepted too.
func parseError(statusCode int, path string, body []byte) error {
	e := &Error{StatusCode: statusCode, Path: path}

	var flat struct {
		Error   string      `json:"error"`
		Details interface{} `json:"details,omitempty"`
	}
	if err := json.Unmarshal(body, &flat); err == nil && flat.Error != "" {
		e.Message = flat.Error
		e.Details = flat.Details
		return e
	}

	var nested struct {
		Error struct {
			Message string      `json:"message"`
			Details interface{} `json:"details,omitempty"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &nested); err == nil && nested.Error.Message != "" {
		e.Message = nested.Error.Message
		e.Details = nested.Error.Details
		return e
	}

	var simple struct {
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}
	if err := json.Unmarshal(body, &simple); err == nil {
		e.Message = simple.Message
		e.Details = simple.Details
		return e
	}

	// Not JSON (proxy error pages and the like); keep it for diagnostics only.
	if raw := strings.TrimSpace(string(body)); raw != "" {
		e.Details = raw
	}
	return e
}

// IsAPIError checks if an error is an API error and returns it.
func IsAPIError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// MessageOf returns the message to show for err: the server-supplied message
// when there is one, otherwise fallback. A nil err yields "".
func MessageOf(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if apiErr, ok := IsAPIError(err); ok && strings.TrimSpace(apiErr.Message) != "" {
		return apiErr.Message
	}
	return fallback
}
