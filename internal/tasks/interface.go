// Package tasks implements durable task storage with two
// interchangeable backends: an embedded SQLite database and an
// in-memory collection mirrored to a JSON file. Both expose identical
// observable behavior through the Store interface.
package tasks

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/foxlist/internal/models"
)

// ErrNotFound is returned by GetByID for a missing task id. It is a
// signal, not a failure; match with errors.Is.
var ErrNotFound = errors.New("task not found")

// CreateParams are the caller-supplied fields of a new task.
// Description defaults to "" and Deadline to models.NoDeadline when
// absent. Title emptiness is the caller's responsibility; the store
// persists whatever it is given.
type CreateParams struct {
	Title       string
	Description string
	Priority    models.Priority
	Deadline    string
	OwnerEmail  *string
}

// UpdateParams carry the full replacement state for an update. The
// store applies them wholesale: an omitted Description clears the
// stored one and an omitted Deadline resets it to the sentinel. This
// mirrors create's default policy rather than merging.
type UpdateParams struct {
	Title       string
	Description string
	Priority    models.Priority
	Deadline    string
	Completed   bool
}

// Store is the capability set both backends implement. All operations
// may touch disk and honor the passed context where the engine does.
//
// Owner scoping uses one predicate throughout: a task matches owner E
// when its owner equals E or is unset (legacy orphan records, visible
// to every user until reconciled).
type Store interface {
	// Init prepares the backend: creates/migrates the schema or
	// loads the persisted blob. Idempotent; must run before any
	// other operation. Failure here is fatal to startup.
	Init(ctx context.Context) error

	// Create persists a new task and returns it with the assigned
	// id, completed=false and fresh timestamps.
	Create(ctx context.Context, p CreateParams) (*models.Task, error)

	// GetAll returns tasks matching owner (see predicate above), or
	// every task when owner is "". Ordered by creation time, newest
	// first.
	GetAll(ctx context.Context, owner string) ([]models.Task, error)

	// GetByID returns the task or ErrNotFound.
	GetByID(ctx context.Context, id int64) (*models.Task, error)

	// Update replaces the mutable fields of the task and refreshes
	// its update timestamp. Updating a missing id is a silent no-op.
	Update(ctx context.Context, id int64, p UpdateParams) error

	// ToggleCompletion sets the completed flag and refreshes the
	// update timestamp, leaving other fields untouched.
	ToggleCompletion(ctx context.Context, id int64, completed bool) error

	// Delete removes the task. Deleting a missing id is not an error.
	Delete(ctx context.Context, id int64) error

	// DeleteByOwner removes every task matching owner, orphans
	// included. Used by account deletion.
	DeleteByOwner(ctx context.Context, owner string) error

	// ReconcileOrphans assigns owner to every task without one.
	// Idempotent: a second call finds nothing to claim.
	ReconcileOrphans(ctx context.Context, owner string) error

	// Search returns tasks whose title or description contains text,
	// case-insensitively. Newest first.
	Search(ctx context.Context, text string) ([]models.Task, error)

	// GetByCompletion returns tasks filtered by the completed flag.
	// Newest first.
	GetByCompletion(ctx context.Context, completed bool) ([]models.Task, error)

	// Count returns the total number of stored tasks.
	Count(ctx context.Context) (int64, error)

	// Clear removes every task. Debug/test helper.
	Clear(ctx context.Context) error
}

// normalizeDeadline applies the create-time default for an absent
// deadline.
func normalizeDeadline(s string) string {
	if s == "" {
		return models.NoDeadline
	}
	return s
}
