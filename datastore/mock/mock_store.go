/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides an in-memory, call-recording implementation of the
// Store interface for testing
package mock

import (
	"context"
	"sync"

	"github.com/suparena/denormfield/errors"
	"github.com/suparena/denormfield/storagemodels"
)

// Call records one operation issued against the mock, in order.
type Call struct {
	Op       string // "BulkUpdate", "FindMismatches", "ResolveUser", "UpdateUsername"
	Table    string
	Filters  map[string]any
	Updates  map[string]any
	UserID   string
	Username string
}

// Store is a mock implementation of datastore.Store for testing
type Store struct {
	mu    sync.RWMutex
	users map[string]storagemodels.UserRecord
	calls []Call

	rowsByTable       map[string]int64
	mismatchesByTable map[string][]string

	resolveError        error
	bulkUpdateError     error
	findMismatchesError error
	updateUsernameError error
}

// New creates a new mock Store
func New() *Store {
	return &Store{
		users:             make(map[string]storagemodels.UserRecord),
		rowsByTable:       make(map[string]int64),
		mismatchesByTable: make(map[string][]string),
	}
}

// WithUser seeds a resolvable user record
func (m *Store) WithUser(u storagemodels.UserRecord) *Store {
	m.users[u.ID] = u
	return m
}

// WithRows sets the row count BulkUpdate reports for a table
func (m *Store) WithRows(table string, rows int64) *Store {
	m.rowsByTable[table] = rows
	return m
}

// WithMismatches sets the keys FindMismatches returns for a table
func (m *Store) WithMismatches(table string, keys []string) *Store {
	m.mismatchesByTable[table] = keys
	return m
}

// WithResolveError makes ResolveUser return an error
func (m *Store) WithResolveError(err error) *Store {
	m.resolveError = err
	return m
}

// WithBulkUpdateError makes BulkUpdate return an error
func (m *Store) WithBulkUpdateError(err error) *Store {
	m.bulkUpdateError = err
	return m
}

// WithFindMismatchesError makes FindMismatches return an error
func (m *Store) WithFindMismatchesError(err error) *Store {
	m.findMismatchesError = err
	return m
}

// WithUpdateUsernameError makes UpdateUsername return an error
func (m *Store) WithUpdateUsernameError(err error) *Store {
	m.updateUsernameError = err
	return m
}

// ResolveUser fetches a seeded user, or a not found error
func (m *Store) ResolveUser(ctx context.Context, userID string) (*storagemodels.UserRecord, error) {
	m.record(Call{Op: "ResolveUser", UserID: userID})

	if m.resolveError != nil {
		return nil, m.resolveError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if u, exists := m.users[userID]; exists {
		return &u, nil
	}
	return nil, errors.NewNotFoundError("user", userID)
}

// BulkUpdate records the call and reports the configured row count
func (m *Store) BulkUpdate(ctx context.Context, table string, filters map[string]any, updates map[string]any) (int64, error) {
	m.record(Call{Op: "BulkUpdate", Table: table, Filters: filters, Updates: updates})

	if m.bulkUpdateError != nil {
		return 0, m.bulkUpdateError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rowsByTable[table], nil
}

// FindMismatches returns the configured keys for the table
func (m *Store) FindMismatches(ctx context.Context, q storagemodels.MismatchQuery) ([]string, error) {
	m.record(Call{Op: "FindMismatches", Table: q.Table})

	if m.findMismatchesError != nil {
		return nil, m.findMismatchesError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mismatchesByTable[q.Table], nil
}

// UpdateUsername rewrites a seeded user's username; absent users are ignored
func (m *Store) UpdateUsername(ctx context.Context, userID, username string) error {
	m.record(Call{Op: "UpdateUsername", UserID: userID, Username: username})

	if m.updateUsernameError != nil {
		return m.updateUsernameError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if u, exists := m.users[userID]; exists {
		u.Username = username
		m.users[userID] = u
	}
	return nil
}

func (m *Store) record(c Call) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, c)
}

// Helper methods for testing

// Calls returns a copy of every recorded call in issue order
func (m *Store) Calls() []Call {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// User returns a seeded user and whether it exists
func (m *Store) User(userID string) (storagemodels.UserRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[userID]
	return u, ok
}

// Reset clears recorded calls but keeps seeded data
func (m *Store) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}
