package ekdsend

import "github.com/google/uuid"

// NewIdempotencyKey returns a fresh key suitable for the IdempotencyKey
// field on send and create parameters. Reusing a key across requests lets
// the server deduplicate retried submissions.
func NewIdempotencyKey() string {
	return "idem_" + uuid.NewString()
}
