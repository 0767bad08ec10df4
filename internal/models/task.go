// Package models defines the persisted records of the FoxList core:
// tasks and user accounts. Field names and JSON keys match the on-disk
// format produced by earlier releases, so stored data stays readable.
package models

import "time"

// Priority is the task priority level. The stored tokens are the
// Portuguese literals used since the first release; do not rename them
// without a translation layer for existing databases.
type Priority string

const (
	PriorityHigh   Priority = "alta"
	PriorityMedium Priority = "media"
	PriorityLow    Priority = "baixa"
)

// Rank maps a priority to its sort weight (higher is more urgent).
// Unknown tokens rank below baixa.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether p is one of the three stored tokens.
func (p Priority) Valid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// NoDeadline is the sentinel stored in Task.Deadline when the user did
// not pick a date. It is distinct from a malformed date, which stays in
// the record as-is and classifies as an error at display time.
const NoDeadline = "Sem prazo"

// Task is one user-owned to-do item.
//
// OwnerEmail is nil for records created before accounts existed
// ("orphans"); such tasks are visible to every signed-in user until
// reconciliation assigns them an owner.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    Priority  `json:"status"`
	Deadline    string    `json:"time"`
	Completed   bool      `json:"completed"`
	OwnerEmail  *string   `json:"user_email"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Owner returns the owner email or "" for an orphaned task.
func (t *Task) Owner() string {
	if t.OwnerEmail == nil {
		return ""
	}
	return *t.OwnerEmail
}
