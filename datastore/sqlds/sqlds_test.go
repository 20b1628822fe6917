/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sqlds_test

import (
	"context"
	"testing"

	"github.com/suparena/denormfield/datastore/sqlds"
	"github.com/suparena/denormfield/errors"
	"github.com/suparena/denormfield/storagemodels"
)

func newTestStore(t *testing.T) *sqlds.Store {
	t.Helper()

	store, err := sqlds.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	// A single connection keeps every statement on the same in-memory database.
	store.DB().SetMaxOpenConns(1)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	if err := store.EnsureUsersTable(ctx); err != nil {
		t.Fatalf("EnsureUsersTable failed: %v", err)
	}

	stmts := []string{
		`CREATE TABLE posts (id TEXT PRIMARY KEY, user_id TEXT, username TEXT NOT NULL DEFAULT '', body TEXT, created_at TEXT)`,
		`CREATE TABLE threads (id TEXT PRIMARY KEY, last_post_id TEXT, last_post_username TEXT NOT NULL DEFAULT '', title TEXT)`,
	}
	for _, stmt := range stmts {
		if _, err := store.DB().ExecContext(ctx, stmt); err != nil {
			t.Fatalf("schema statement failed: %v", err)
		}
	}
	return store
}

func seedUser(t *testing.T, store *sqlds.Store, id, username string) {
	t.Helper()
	_, err := store.DB().Exec(`INSERT INTO users (id, username) VALUES (?, ?)`, id, username)
	if err != nil {
		t.Fatalf("seeding user failed: %v", err)
	}
}

func seedPost(t *testing.T, store *sqlds.Store, id, userID, username string) {
	t.Helper()
	_, err := store.DB().Exec(`INSERT INTO posts (id, user_id, username) VALUES (?, ?, ?)`, id, userID, username)
	if err != nil {
		t.Fatalf("seeding post failed: %v", err)
	}
}

func TestResolveUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedUser(t, store, "u1", "alice")

	t.Run("Found", func(t *testing.T) {
		u, err := store.ResolveUser(ctx, "u1")
		if err != nil {
			t.Fatalf("ResolveUser failed: %v", err)
		}
		if u.ID != "u1" || u.Username != "alice" {
			t.Fatalf("Unexpected user: %+v", u)
		}
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := store.ResolveUser(ctx, "nope")
		if !errors.IsNotFound(err) {
			t.Fatalf("Expected not found error, got: %v", err)
		}
	})
}

func TestBulkUpdate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedUser(t, store, "u1", "alice")
	seedPost(t, store, "p1", "u1", "alice")
	seedPost(t, store, "p2", "u1", "alice")
	seedPost(t, store, "p3", "u2", "bob")

	rows, err := store.BulkUpdate(ctx, "posts",
		map[string]any{"user_id": "u1"},
		map[string]any{"username": "alicia"},
	)
	if err != nil {
		t.Fatalf("BulkUpdate failed: %v", err)
	}
	if rows != 2 {
		t.Fatalf("Expected 2 rows updated, got %d", rows)
	}

	var untouched string
	if err := store.DB().QueryRow(`SELECT username FROM posts WHERE id = 'p3'`).Scan(&untouched); err != nil {
		t.Fatal(err)
	}
	if untouched != "bob" {
		t.Fatalf("Row outside the filter was updated: %q", untouched)
	}

	t.Run("RejectsBadIdentifier", func(t *testing.T) {
		_, err := store.BulkUpdate(ctx, "posts; DROP TABLE users",
			map[string]any{"user_id": "u1"},
			map[string]any{"username": "x"},
		)
		if !errors.IsValidationError(err) {
			t.Fatalf("Expected validation error, got: %v", err)
		}
	})

	t.Run("RejectsEmptyFilter", func(t *testing.T) {
		_, err := store.BulkUpdate(ctx, "posts", nil, map[string]any{"username": "x"})
		if !errors.IsValidationError(err) {
			t.Fatalf("Expected validation error, got: %v", err)
		}
	})
}

func TestFindMismatches(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedUser(t, store, "u1", "alice")
	seedUser(t, store, "u2", "bob")
	seedPost(t, store, "p1", "u1", "alice")   // in sync
	seedPost(t, store, "p2", "u1", "ancient") // stale
	seedPost(t, store, "p3", "u2", "stale")   // stale
	seedPost(t, store, "p4", "gone", "x")     // dangling FK, excluded by the join

	q := storagemodels.MismatchQuery{Table: "posts", Source: "user_id", Target: "username"}

	keys, err := store.FindMismatches(ctx, q)
	if err != nil {
		t.Fatalf("FindMismatches failed: %v", err)
	}
	if len(keys) != 2 || keys[0] != "p2" || keys[1] != "p3" {
		t.Fatalf("Expected [p2 p3], got %v", keys)
	}

	t.Run("NoMismatches", func(t *testing.T) {
		if _, err := store.DB().Exec(`UPDATE posts SET username = 'alice' WHERE user_id = 'u1'`); err != nil {
			t.Fatal(err)
		}
		if _, err := store.DB().Exec(`UPDATE posts SET username = 'bob' WHERE user_id = 'u2'`); err != nil {
			t.Fatal(err)
		}
		keys, err := store.FindMismatches(ctx, q)
		if err != nil {
			t.Fatalf("FindMismatches failed: %v", err)
		}
		if len(keys) != 0 {
			t.Fatalf("Expected no mismatches, got %v", keys)
		}
	})
}

func TestUpdateUsername(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedUser(t, store, "u1", "alice")

	if err := store.UpdateUsername(ctx, "u1", "a-much-longer-canonical-username-kept-whole"); err != nil {
		t.Fatalf("UpdateUsername failed: %v", err)
	}

	var got string
	if err := store.DB().QueryRow(`SELECT username FROM users WHERE id = 'u1'`).Scan(&got); err != nil {
		t.Fatal(err)
	}
	if got != "a-much-longer-canonical-username-kept-whole" {
		t.Fatalf("Canonical username must be stored untruncated, got %q", got)
	}

	// Zero rows affected is not an error.
	if err := store.UpdateUsername(ctx, "missing", "x"); err != nil {
		t.Fatalf("Expected nil error for absent user, got %v", err)
	}
}

func TestKeyColumnOverride(t *testing.T) {
	store, err := sqlds.Open("sqlite3", ":memory:",
		sqlds.WithKeyColumn("articles", "article_id"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	store.DB().SetMaxOpenConns(1)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	if err := store.EnsureUsersTable(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := store.DB().Exec(`CREATE TABLE articles (article_id TEXT PRIMARY KEY, user_id TEXT, username TEXT NOT NULL DEFAULT '')`); err != nil {
		t.Fatal(err)
	}
	if _, err := store.DB().Exec(`INSERT INTO users (id, username) VALUES ('u1', 'alice')`); err != nil {
		t.Fatal(err)
	}
	if _, err := store.DB().Exec(`INSERT INTO articles (article_id, user_id, username) VALUES ('a1', 'u1', 'stale')`); err != nil {
		t.Fatal(err)
	}

	keys, err := store.FindMismatches(ctx, storagemodels.MismatchQuery{
		Table: "articles", Source: "user_id", Target: "username",
	})
	if err != nil {
		t.Fatalf("FindMismatches failed: %v", err)
	}
	if len(keys) != 1 || keys[0] != "a1" {
		t.Fatalf("Expected [a1], got %v", keys)
	}
}
