// Package services holds the business logic exposed by both the JSON-RPC
// and the REST servers: tax calculations, user management and arithmetic.
// Stores keep their data in memory for the lifetime of the process.
package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
	ErrInvalid  = errors.New("invalid input")
)

// Replaced in tests.
var (
	now   = time.Now
	newID = uuid.NewString
)

func timestamp() string {
	return now().Format(time.RFC3339)
}
