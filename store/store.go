// Package store talks to the external search index that holds todo
// documents.
package store

import (
	"context"
	"errors"

	"todo-service/structs"
)

var (
	// ErrNotFound means the index has no document with the given id.
	ErrNotFound = errors.New("todo not found")
	// ErrTimeout means the store did not answer within the configured
	// outbound timeout.
	ErrTimeout = errors.New("store request timed out")
)

// Patch carries only the fields an update explicitly sets; absent
// fields are left untouched in the stored document.
type Patch struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// Store is the narrow slice of the search index the handlers use.
type Store interface {
	Index(ctx context.Context, id string, todo structs.Todo) error
	Get(ctx context.Context, id string) (structs.Todo, error)
	Update(ctx context.Context, id string, patch Patch) error
	Delete(ctx context.Context, id string) error
}
