/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"time"
)

// UserRecord is the canonical user row that denormalised usernames are copied from.
type UserRecord struct {

	// Unique identifier for the user.
	// Required: true
	ID string `json:"Id" db:"id" dynamodbav:"id"`

	// Canonical username. Denormalised copies mirror this value.
	// Required: true
	Username string `json:"Username" db:"username" dynamodbav:"username"`

	// Timestamp when the user was created.
	// Format: date-time
	CreatedAt *strfmt.DateTime `json:"CreatedAt,omitempty" db:"created_at" dynamodbav:"-"`

	// Timestamp when the user was last updated.
	// Format: date-time
	UpdatedAt *strfmt.DateTime `json:"UpdatedAt,omitempty" db:"updated_at" dynamodbav:"-"`
}

// NewUserRecord constructs a UserRecord with a fresh ID and timestamps.
func NewUserRecord(username string) UserRecord {
	now := strfmt.DateTime(time.Now().UTC())
	return UserRecord{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: &now,
		UpdatedAt: &now,
	}
}

// MismatchQuery describes one consistency check: find rows of Table whose
// Target column no longer equals the username of the user row named by the
// Source column. Stores evaluate the comparison themselves where the backend
// allows it.
type MismatchQuery struct {
	// Table is the table holding the denormalised copy.
	Table string
	// Source is the column holding the user foreign key.
	Source string
	// Target is the column holding the denormalised username.
	Target string
}

// LintIssue reports one binding whose denormalised copies are out of sync.
type LintIssue struct {
	// Table is the table the stale copies live in.
	Table string `json:"table"`
	// Target is the denormalised column checked.
	Target string `json:"target"`
	// Keys are the primary keys of the mismatched rows.
	Keys []string `json:"keys"`
}

// Count returns the number of mismatched rows.
func (i LintIssue) Count() int {
	return len(i.Keys)
}

// BindingUpdate records the outcome of one bulk update during a rename.
type BindingUpdate struct {
	// Table is the table that was updated.
	Table string `json:"table"`
	// Target is the denormalised column that was rewritten.
	Target string `json:"target"`
	// Rows is the number of rows the store reported as updated.
	// -1 when the backend cannot report a count.
	Rows int64 `json:"rows"`
}

// RenameResult summarises a rename propagation across every registered binding.
type RenameResult struct {
	// UserID is the user whose username changed.
	UserID string `json:"userId"`
	// Username is the new canonical username (untruncated).
	Username string `json:"username"`
	// Updates lists the per-binding updates in the order they were issued.
	Updates []BindingUpdate `json:"updates"`
}

// TotalRows sums the per-binding row counts, ignoring unknown counts.
func (r RenameResult) TotalRows() int64 {
	var total int64
	for _, u := range r.Updates {
		if u.Rows > 0 {
			total += u.Rows
		}
	}
	return total
}
