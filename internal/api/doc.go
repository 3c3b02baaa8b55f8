// Package api implements the request execution engine shared by every
// EKDSend resource operation: authentication injection, per-attempt
// timeouts, the retry policy with exponential backoff and Retry-After
// handling, and the mapping of failed responses into typed errors.
//
// The package is internal; the public surface in the root package wraps
// its errors into the exported taxonomy.
package api
