/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mock_test

import (
	"context"
	"testing"

	"github.com/suparena/denormfield/datastore/mock"
	"github.com/suparena/denormfield/errors"
	"github.com/suparena/denormfield/storagemodels"
)

func TestMockStore(t *testing.T) {
	ctx := context.Background()

	t.Run("ResolveUser", func(t *testing.T) {
		store := mock.New().
			WithUser(storagemodels.UserRecord{ID: "u1", Username: "alice"})

		u, err := store.ResolveUser(ctx, "u1")
		if err != nil {
			t.Fatalf("ResolveUser failed: %v", err)
		}
		if u.Username != "alice" {
			t.Fatalf("Expected alice, got %q", u.Username)
		}

		_, err = store.ResolveUser(ctx, "missing")
		if !errors.IsNotFound(err) {
			t.Fatalf("Expected not found error, got: %v", err)
		}
	})

	t.Run("BulkUpdateRecordsCalls", func(t *testing.T) {
		store := mock.New().WithRows("posts", 3)

		rows, err := store.BulkUpdate(ctx, "posts",
			map[string]any{"user_id": "u1"},
			map[string]any{"username": "bob"},
		)
		if err != nil {
			t.Fatalf("BulkUpdate failed: %v", err)
		}
		if rows != 3 {
			t.Fatalf("Expected 3 rows, got %d", rows)
		}

		calls := store.Calls()
		if len(calls) != 1 || calls[0].Op != "BulkUpdate" || calls[0].Table != "posts" {
			t.Fatalf("Unexpected calls: %+v", calls)
		}
		if calls[0].Updates["username"] != "bob" {
			t.Fatalf("Updates not recorded: %+v", calls[0].Updates)
		}
	})

	t.Run("FindMismatches", func(t *testing.T) {
		store := mock.New().WithMismatches("posts", []string{"p1", "p2"})

		keys, err := store.FindMismatches(ctx, storagemodels.MismatchQuery{Table: "posts"})
		if err != nil {
			t.Fatalf("FindMismatches failed: %v", err)
		}
		if len(keys) != 2 {
			t.Fatalf("Expected 2 keys, got %v", keys)
		}
	})

	t.Run("UpdateUsername", func(t *testing.T) {
		store := mock.New().
			WithUser(storagemodels.UserRecord{ID: "u1", Username: "alice"})

		if err := store.UpdateUsername(ctx, "u1", "alicia"); err != nil {
			t.Fatalf("UpdateUsername failed: %v", err)
		}
		u, _ := store.User("u1")
		if u.Username != "alicia" {
			t.Fatalf("Expected alicia, got %q", u.Username)
		}

		// Updating an absent user is not an error.
		if err := store.UpdateUsername(ctx, "missing", "x"); err != nil {
			t.Fatalf("Expected nil error for absent user, got %v", err)
		}
	})

	t.Run("ErrorSimulation", func(t *testing.T) {
		injected := errors.NewValidationError("table", "boom")
		store := mock.New().WithBulkUpdateError(injected)

		_, err := store.BulkUpdate(ctx, "posts", nil, nil)
		if err != injected {
			t.Fatalf("Expected injected error, got: %v", err)
		}
	})

	t.Run("Reset", func(t *testing.T) {
		store := mock.New().
			WithUser(storagemodels.UserRecord{ID: "u1", Username: "alice"})
		_, _ = store.ResolveUser(ctx, "u1")

		store.Reset()
		if len(store.Calls()) != 0 {
			t.Fatal("Reset should clear recorded calls")
		}
		if _, ok := store.User("u1"); !ok {
			t.Fatal("Reset should keep seeded data")
		}
	})
}
