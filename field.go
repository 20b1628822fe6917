/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package denormfield

import (
	"context"
	"reflect"

	"github.com/suparena/denormfield/datastore"
	"github.com/suparena/denormfield/errors"
	"github.com/suparena/denormfield/registry"
)

// DefaultMaxLength is the truncation bound bindings use when none is given.
const DefaultMaxLength = registry.DefaultMaxLength

// Truncate applies the library's "truncate, never reject" policy: the first
// max characters of s, the whole string when shorter. Over-length input is
// never an error anywhere in this library; it is cut down silently, which is
// what allows bindings like a single-letter initial column.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// Populate fills the denormalised username columns on rec before it is
// written. For each binding of rec's type whose target is currently empty:
//
//   - a null relation (empty or nil foreign key) leaves the target empty
//   - a resolvable relation sets the target to the user's username,
//     truncated to the binding's bound
//   - a dangling relation (user row missing) is swallowed and the target
//     stays empty
//
// A target that is already non-empty is left alone, so calling Populate
// again is a no-op. Populate mutates rec in memory only; the caller is
// responsible for persisting it.
func Populate(ctx context.Context, store datastore.Store, reg *registry.Registry, rec any) error {
	if reg == nil {
		reg = registry.Default()
	}

	typ := reflect.TypeOf(rec)
	if typ == nil {
		return errors.NewValidationError("", "record must not be nil")
	}

	bindings := reg.BindingsFor(typ)
	if len(bindings) == 0 {
		return errors.NewNoBindingError(typ.String())
	}

	for _, b := range bindings {
		current, err := b.TargetValue(rec)
		if err != nil {
			return err
		}
		if current != "" {
			continue
		}

		id, ok, err := b.SourceID(rec)
		if err != nil {
			return err
		}
		if !ok {
			// Null relation: the target stays empty.
			if err := b.SetTarget(rec, ""); err != nil {
				return err
			}
			continue
		}

		user, err := store.ResolveUser(ctx, id)
		if err != nil {
			if errors.IsNotFound(err) {
				// Dangling reference: leave the target as it is.
				continue
			}
			return err
		}

		if err := b.SetTarget(rec, Truncate(user.Username, b.MaxLength)); err != nil {
			return err
		}
	}
	return nil
}
