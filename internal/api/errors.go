package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrClientClosed is returned when a request is made on a closed client.
var ErrClientClosed = errors.New("client has been closed")

// FieldError is one field-level validation failure from the API.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError represents an HTTP error response from the EKDSend API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	RequestID  string
	RetryAfter time.Duration
	Fields     []FieldError
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.RequestID != "" {
		return fmt.Sprintf("API error %d: %s (request_id: %s)", e.StatusCode, msg, e.RequestID)
	}
	return fmt.Sprintf("API error %d: %s", e.StatusCode, msg)
}

// NetworkError represents a connection-level failure: DNS, TLS, refused
// connections, or a circuit breaker refusing to issue the request.
type NetworkError struct {
	Err     error
	URL     string
	Attempt int
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// TimeoutError represents a single attempt exceeding its deadline.
type TimeoutError struct {
	Err     error
	URL     string
	Attempt int
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out after %v: %v", e.Timeout, e.Err)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// errorEnvelope is the wire shape of error responses. The flat form
// {message, code, errors, request_id} is primary; older servers nest the
// same data under an "error" object with a details map.
type errorEnvelope struct {
	Message    string       `json:"message"`
	Code       string       `json:"code"`
	Errors     []FieldError `json:"errors"`
	RequestID  string       `json:"request_id"`
	RetryAfter json.Number  `json:"retry_after"`

	Nested *struct {
		Message    string              `json:"message"`
		Code       string              `json:"code"`
		Details    map[string][]string `json:"details"`
		RetryAfter json.Number         `json:"retry_after"`
	} `json:"error"`
}

// ParseError builds an APIError from a failed response. It never fails: a
// body that does not match the error envelope degrades to an APIError
// carrying the raw body as its message.
func ParseError(statusCode int, body []byte, header http.Header) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		RequestID:  header.Get("X-Request-Id"),
		RetryAfter: parseRetryAfterHeader(header),
	}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		apiErr.Message = strings.TrimSpace(string(body))
		return apiErr
	}

	apiErr.Message = env.Message
	apiErr.Code = env.Code
	apiErr.Fields = env.Errors
	if apiErr.RequestID == "" {
		apiErr.RequestID = env.RequestID
	}
	if apiErr.RetryAfter == 0 {
		apiErr.RetryAfter = secondsDuration(env.RetryAfter)
	}

	if env.Nested != nil {
		if apiErr.Message == "" {
			apiErr.Message = env.Nested.Message
		}
		if apiErr.Code == "" {
			apiErr.Code = env.Nested.Code
		}
		if len(apiErr.Fields) == 0 {
			apiErr.Fields = detailFields(env.Nested.Details)
		}
		if apiErr.RetryAfter == 0 {
			apiErr.RetryAfter = secondsDuration(env.Nested.RetryAfter)
		}
	}

	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return apiErr
}

func parseRetryAfterHeader(header http.Header) time.Duration {
	v := header.Get("Retry-After")
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

func secondsDuration(n json.Number) time.Duration {
	if n == "" {
		return 0
	}
	secs, err := n.Float64()
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}

// detailFields flattens the legacy {field: [messages]} details map into the
// flat field-error list, sorted by field name for stable output.
func detailFields(details map[string][]string) []FieldError {
	if len(details) == 0 {
		return nil
	}
	names := make([]string, 0, len(details))
	for name := range details {
		names = append(names, name)
	}
	sort.Strings(names)

	var fields []FieldError
	for _, name := range names {
		for _, msg := range details[name] {
			fields = append(fields, FieldError{Field: name, Message: msg})
		}
	}
	return fields
}
