package ekdsend

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ekddigital/ekdsend-go/internal/api"
)

// Sentinel errors for errors.Is() checks.
var (
	// ErrMissingAPIKey is returned when no API key is provided.
	ErrMissingAPIKey = errors.New("API key is required")

	// ErrInvalidAPIKey is returned when the API key format is invalid.
	ErrInvalidAPIKey = errors.New("invalid API key format")

	// ErrClientClosed is returned when operations are attempted on a closed client.
	ErrClientClosed = api.ErrClientClosed

	// ErrUnauthorized is returned when the API rejects the credential.
	ErrUnauthorized = errors.New("invalid or expired API key")

	// ErrValidation is returned when a request fails validation, locally or remotely.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrRateLimited is returned when the API rate limit is exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// ErrorKind classifies an Error. Callers are expected to branch on it.
type ErrorKind string

// Error kinds, one per failure class the API can produce.
const (
	KindAuthentication ErrorKind = "authentication"
	KindValidation     ErrorKind = "validation"
	KindRateLimit      ErrorKind = "rate_limit"
	KindNotFound       ErrorKind = "not_found"
	KindServer         ErrorKind = "server"
	KindNetwork        ErrorKind = "network"
	KindTimeout        ErrorKind = "timeout"
	KindUnknown        ErrorKind = "unknown"
)

// FieldError is one field-level validation failure.
type FieldError struct {
	Field   string
	Message string
}

// Error is the terminal outcome of a failed call. Every error the SDK
// surfaces from the API is an *Error; no raw transport errors or HTTP
// status codes leak past the executor.
type Error struct {
	// Kind is the failure class.
	Kind ErrorKind
	// Message is a human-readable description, always populated.
	Message string
	// Code is the machine-readable error code from the response, if any.
	Code string
	// StatusCode is the raw HTTP status, zero for local and transport failures.
	StatusCode int
	// RequestID identifies the request upstream for support escalation.
	RequestID string
	// RetryAfter is the server-requested wait for rate-limit errors.
	RetryAfter time.Duration
	// Fields carries field-level validation detail, verbatim from the API
	// or from local pre-flight validation.
	Fields []FieldError

	err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("ekdsend: ")
	b.WriteString(string(e.Kind))
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.RequestID != "" {
		fmt.Fprintf(&b, " (request_id: %s)", e.RequestID)
	}
	return b.String()
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.err
}

// Is implements errors.Is for sentinel error matching.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Kind == KindAuthentication
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrRateLimited:
		return e.Kind == KindRateLimit
	}
	return false
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// validationError builds a local pre-flight validation failure. It never
// touches the network.
func validationError(message string, fields []FieldError) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: message,
		Fields:  fields,
	}
}

// kindForStatus is the fixed status-code-to-kind mapping table.
func kindForStatus(statusCode int) ErrorKind {
	switch {
	case statusCode == 401 || statusCode == 403:
		return KindAuthentication
	case statusCode == 400 || statusCode == 422:
		return KindValidation
	case statusCode == 404:
		return KindNotFound
	case statusCode == 429:
		return KindRateLimit
	case statusCode >= 500:
		return KindServer
	default:
		return KindUnknown
	}
}

// wrapError converts internal API errors to the public taxonomy. Errors
// that are not the executor's (context errors, ErrClientClosed) pass
// through unchanged.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		e := &Error{
			Kind:       kindForStatus(apiErr.StatusCode),
			Message:    apiErr.Message,
			Code:       apiErr.Code,
			StatusCode: apiErr.StatusCode,
			RequestID:  apiErr.RequestID,
			RetryAfter: apiErr.RetryAfter,
			err:        apiErr,
		}
		if e.Message == "" {
			e.Message = "API request failed"
		}
		for _, f := range apiErr.Fields {
			e.Fields = append(e.Fields, FieldError{Field: f.Field, Message: f.Message})
		}
		return e
	}

	var terr *api.TimeoutError
	if errors.As(err, &terr) {
		return &Error{
			Kind:    KindTimeout,
			Message: terr.Error(),
			err:     terr,
		}
	}

	var nerr *api.NetworkError
	if errors.As(err, &nerr) {
		return &Error{
			Kind:    KindNetwork,
			Message: nerr.Error(),
			err:     nerr,
		}
	}

	return err
}
