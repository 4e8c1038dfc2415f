package utils

import (
	"strings"

	"github.com/google/uuid"
)

const orderNumberPrefix = "ORD-"

// GenerateOrderNumber returns a human-readable order token such as
// ORD-9F3A21BC. The suffix is random, so callers must treat a unique
// violation on insert as a signal to regenerate and retry.
func GenerateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return orderNumberPrefix + suffix
}
