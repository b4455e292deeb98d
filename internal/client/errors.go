// ABOUTME: Error taxonomy for backend calls
// ABOUTME: APIError for non-2xx responses, sentinels for auth, abort and transport failures

package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrAuthRequired is returned before any I/O when a call needs a token and none is set
	ErrAuthRequired = errors.New("Authentification requise")

	// ErrAborted marks a request that was cancelled or superseded; callers drop it silently
	ErrAborted = errors.New("request canceled")

	// ErrTimeout marks a request that ran out of time
	ErrTimeout = errors.New("request timed out")
)

// TransportError wraps a failure to reach the backend at all
type TransportError struct {
	BaseURL string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("cannot connect to backend at %s: %v", e.BaseURL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError is a non-2xx response from the backend
type APIError struct {
	StatusCode int
	Message    string // human-readable, from the body when it had one
	FromBody   bool   // Message came from a structured error body
	Body       []byte
}

func (e *APIError) Error() string {
	return e.Message
}

// IsStatus reports whether err is an APIError with the given status code
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// UserMessage converts any client error into alert text.
// Aborted requests produce an empty string: there is nothing to show.
func UserMessage(err error) string {
	if err == nil || errors.Is(err, ErrAborted) {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if errors.Is(err, ErrTimeout) {
		return "Le serveur met trop de temps à répondre"
	}
	var te *TransportError
	if errors.As(err, &te) {
		return "Impossible de contacter le serveur"
	}
	return err.Error()
}

// errorBody covers the shapes the backend uses for errors:
// {"detail": "..."}, {"detail": [{"msg": "..."}]}, {"message": "..."}, {"error": "..."}
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func (b errorBody) text() string {
	if len(b.Detail) > 0 {
		var s string
		if err := json.Unmarshal(b.Detail, &s); err == nil && s != "" {
			return s
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(b.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if it.Msg != "" {
					msgs = append(msgs, it.Msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}
	if b.Message != "" {
		return b.Message
	}
	return b.Error
}

// newAPIError builds an APIError from a status code and raw body.
// fallback replaces the generic "Erreur <code>: <text>" when non-empty.
func newAPIError(code int, body []byte, fallback string) *APIError {
	apiErr := &APIError{StatusCode: code, Body: body}

	var eb errorBody
	if len(body) > 0 && json.Unmarshal(body, &eb) == nil {
		if msg := eb.text(); msg != "" {
			apiErr.Message = msg
			apiErr.FromBody = true
			return apiErr
		}
	}

	if fallback != "" {
		apiErr.Message = fallback
	} else {
		apiErr.Message = fmt.Sprintf("Erreur %d: %s", code, http.StatusText(code))
	}
	return apiErr
}
