// Package uuid names temporary export files.
package uuid

import (
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// Generator returns time-ordered UUIDv7 values rendered as 32 hex
// characters, which are safe in file names on every platform.
type Generator struct{}

// New creates a Generator.
func New() Generator {
	return Generator{}
}

// NewID returns a dash-free UUIDv7.
func (Generator) NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate uuid7: %w", err)
	}
	return hex.EncodeToString(id[:]), nil
}
