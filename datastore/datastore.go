/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"
	"github.com/suparena/denormfield/storagemodels"
)

// Store is the storage contract consumed by the denormalisation layer.
//
// ResolveUser must return an error satisfying errors.IsNotFound when the
// referenced user row does not exist (a dangling foreign key); callers
// distinguish that case from genuine storage failures.
type Store interface {
	// ResolveUser fetches the canonical user row for a foreign key value.
	ResolveUser(ctx context.Context, userID string) (*storagemodels.UserRecord, error)

	// BulkUpdate sets the given columns on every row of table matching all
	// equality filters, in one storage operation where the backend allows it.
	// It returns the number of rows updated, or -1 when unknown.
	BulkUpdate(ctx context.Context, table string, filters map[string]any, updates map[string]any) (int64, error)

	// FindMismatches returns the primary keys of rows whose denormalised
	// username no longer equals the related user's canonical username.
	// Rows whose foreign key dangles are not reported.
	FindMismatches(ctx context.Context, q storagemodels.MismatchQuery) ([]string, error)

	// UpdateUsername rewrites the canonical username on the user row.
	// The value is written untruncated. Updating an absent user is not an error.
	UpdateUsername(ctx context.Context, userID, username string) error
}
