package api

import (
	"net/http"
	"net/url"
)

// Request describes one API call. Path is relative to the client's base
// URL and already escaped by the caller.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   interface{}

	// IdempotencyKey is sent as the Idempotency-Key header. For POST and
	// PATCH requests it is also what makes the request safe to retry.
	IdempotencyKey string
}

// retryable reports whether failed attempts of this request may be
// retried. GET, HEAD and DELETE are idempotent by contract; mutating
// methods are retried only when the caller supplied an idempotency key,
// otherwise a retry could duplicate the side effect.
func (r *Request) retryable() bool {
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodDelete:
		return true
	}
	return r.IdempotencyKey != ""
}

// url joins the base URL, path and query string.
func (r *Request) url(baseURL string) string {
	u := baseURL + r.Path
	if len(r.Query) > 0 {
		u += "?" + r.Query.Encode()
	}
	return u
}
