package domain

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns prefix_ followed by 12 hex characters of a random UUID.
func NewID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}
