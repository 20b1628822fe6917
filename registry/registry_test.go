/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry_test

import (
	"reflect"
	"testing"

	"github.com/suparena/denormfield/datastore/testmodels"
	"github.com/suparena/denormfield/errors"
	"github.com/suparena/denormfield/registry"
)

func TestRegisterScansTags(t *testing.T) {
	r := registry.New()

	if err := registry.Register[testmodels.Post](r); err != nil {
		t.Fatalf("Register Post failed: %v", err)
	}
	if err := registry.Register[testmodels.Thread](r); err != nil {
		t.Fatalf("Register Thread failed: %v", err)
	}

	bindings := r.Bindings()
	if len(bindings) != 2 {
		t.Fatalf("Expected 2 bindings, got %d", len(bindings))
	}

	t.Run("DefaultBinding", func(t *testing.T) {
		b := bindings[0]
		if b.Table != "posts" || b.Source != "user_id" || b.Target != "username" {
			t.Errorf("Unexpected binding: %+v", b)
		}
		if b.MaxLength != registry.DefaultMaxLength {
			t.Errorf("Expected default max length, got %d", b.MaxLength)
		}
	})

	t.Run("TaggedBinding", func(t *testing.T) {
		b := bindings[1]
		if b.Table != "threads" || b.Source != "last_post_id" || b.Target != "last_post_username" {
			t.Errorf("Unexpected binding: %+v", b)
		}
		if b.MaxLength != 10 {
			t.Errorf("Expected max length 10, got %d", b.MaxLength)
		}
	})

	t.Run("RegistrationOrder", func(t *testing.T) {
		if bindings[0].Table != "posts" || bindings[1].Table != "threads" {
			t.Errorf("Bindings out of registration order: %+v", bindings)
		}
	})
}

func TestRegisterSkipsAbstractModels(t *testing.T) {
	r := registry.New()

	if err := registry.Register[testmodels.Authored](r); err != nil {
		t.Fatalf("Register abstract base failed: %v", err)
	}
	if r.Len() != 0 {
		t.Fatalf("Abstract base must not register, got %d bindings", r.Len())
	}
}

func TestRegisterEmbeddedField(t *testing.T) {
	r := registry.New()

	if err := registry.Register[testmodels.Comment](r); err != nil {
		t.Fatalf("Register Comment failed: %v", err)
	}

	bindings := r.BindingsFor(reflect.TypeOf(testmodels.Comment{}))
	if len(bindings) != 1 {
		t.Fatalf("Expected 1 binding for Comment, got %d", len(bindings))
	}

	b := bindings[0]
	if b.Table != "comments" || b.Source != "author_id" || b.Target != "author_username" {
		t.Errorf("Unexpected binding: %+v", b)
	}

	// The promoted field must be readable and writable through the binding.
	c := &testmodels.Comment{ID: "c1"}
	c.AuthorID = "u1"
	if err := b.SetTarget(c, "alice"); err != nil {
		t.Fatalf("SetTarget failed: %v", err)
	}
	if c.AuthorUsername != "alice" {
		t.Errorf("Expected promoted field set, got %q", c.AuthorUsername)
	}
}

func TestRegisterDuplicateAppends(t *testing.T) {
	r := registry.New()

	_ = registry.Register[testmodels.Post](r)
	_ = registry.Register[testmodels.Post](r)

	// Duplicate registration is not defended against; it just doubles work.
	if r.Len() != 2 {
		t.Fatalf("Expected duplicate registration to append, got %d bindings", r.Len())
	}
}

type badTarget struct {
	ID       string `db:"id"`
	UserID   string `db:"user_id"`
	Username int    `db:"username" denorm:""`
}

func (badTarget) TableName() string { return "bad" }

type badSource struct {
	ID       string `db:"id"`
	Username string `db:"username" denorm:"from=missing_id"`
}

func (badSource) TableName() string { return "bad" }

func TestRegisterValidation(t *testing.T) {
	t.Run("NonStringTarget", func(t *testing.T) {
		err := registry.Register[badTarget](registry.New())
		if !errors.IsValidationError(err) {
			t.Fatalf("Expected validation error, got %v", err)
		}
	})

	t.Run("MissingSourceColumn", func(t *testing.T) {
		err := registry.Register[badSource](registry.New())
		if !errors.IsValidationError(err) {
			t.Fatalf("Expected validation error, got %v", err)
		}
	})
}

func TestBindingAccessors(t *testing.T) {
	r := registry.New()
	_ = registry.Register[testmodels.Thread](r)
	b := r.Bindings()[0]

	t.Run("NullableSourceNil", func(t *testing.T) {
		th := &testmodels.Thread{ID: "t1"}
		_, ok, err := b.SourceID(th)
		if err != nil {
			t.Fatalf("SourceID failed: %v", err)
		}
		if ok {
			t.Error("nil pointer FK should report a null relation")
		}
	})

	t.Run("NullableSourceSet", func(t *testing.T) {
		id := "u9"
		th := &testmodels.Thread{ID: "t1", LastPostID: &id}
		got, ok, err := b.SourceID(th)
		if err != nil {
			t.Fatalf("SourceID failed: %v", err)
		}
		if !ok || got != "u9" {
			t.Errorf("Expected u9, got %q (ok=%v)", got, ok)
		}
	})

	t.Run("TargetRoundTrip", func(t *testing.T) {
		th := &testmodels.Thread{ID: "t1"}
		if err := b.SetTarget(th, "carol"); err != nil {
			t.Fatalf("SetTarget failed: %v", err)
		}
		got, err := b.TargetValue(th)
		if err != nil {
			t.Fatalf("TargetValue failed: %v", err)
		}
		if got != "carol" {
			t.Errorf("Expected carol, got %q", got)
		}
	})

	t.Run("WrongRecordType", func(t *testing.T) {
		if err := b.SetTarget(&testmodels.Post{}, "x"); !errors.IsValidationError(err) {
			t.Fatalf("Expected validation error for wrong type, got %v", err)
		}
	})
}

func TestAddExplicitBinding(t *testing.T) {
	r := registry.New()

	t.Run("DefaultsApplied", func(t *testing.T) {
		err := r.Add(registry.Binding{Table: "articles", Target: "author_name"})
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		b := r.Bindings()[0]
		if b.Source != registry.DefaultSourceColumn {
			t.Errorf("Expected default source column, got %q", b.Source)
		}
		if b.MaxLength != registry.DefaultMaxLength {
			t.Errorf("Expected default max length, got %d", b.MaxLength)
		}
		if b.ModelType() != nil {
			t.Error("Explicit binding should have no model type")
		}
	})

	t.Run("MissingTable", func(t *testing.T) {
		err := r.Add(registry.Binding{Target: "author_name"})
		if !errors.IsValidationError(err) {
			t.Fatalf("Expected validation error, got %v", err)
		}
	})

	t.Run("MissingTarget", func(t *testing.T) {
		err := r.Add(registry.Binding{Table: "articles"})
		if !errors.IsValidationError(err) {
			t.Fatalf("Expected validation error, got %v", err)
		}
	})
}
