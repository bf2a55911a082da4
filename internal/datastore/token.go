package datastore

import (
	"github.com/google/uuid"
)

// newOpToken generates a unique token for one store operation.
// Tokens appear in error detail so a failed multi-row mutation can be
// correlated with its log lines.
//
// Uses UUIDv7 for temporal ordering: tokens sort by creation time, which
// helps when scanning diagnostics.
func newOpToken() string {
	return uuid.Must(uuid.NewV7()).String()
}
