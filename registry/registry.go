/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/suparena/denormfield/errors"
)

const (
	// DefaultMaxLength is the truncation bound applied when a binding does
	// not specify one. It matches the canonical username column width, so
	// bindings at this length are expected never to truncate.
	DefaultMaxLength = 30

	// DefaultSourceColumn is the foreign key column assumed when a denorm
	// tag does not name one.
	DefaultSourceColumn = "user_id"

	// TagName is the struct tag key scanned by Register.
	TagName = "denorm"
)

// Model is implemented by structs whose rows live in a table. Abstract base
// structs return "" and never register bindings of their own; only the
// concrete embedding types do.
type Model interface {
	TableName() string
}

// Binding records one model's use of a denormalised username column.
type Binding struct {
	// Table is the table holding the denormalised copy.
	Table string
	// Source is the column holding the user foreign key.
	Source string
	// Target is the column holding the denormalised username.
	Target string
	// MaxLength is the truncation bound for values written to Target.
	MaxLength int

	typ         reflect.Type
	sourceIndex []int
	targetIndex []int
}

// ModelType returns the struct type the binding was scanned from, or nil for
// bindings added explicitly (for example from configuration).
func (b Binding) ModelType() reflect.Type {
	return b.typ
}

// TargetValue reads the denormalised column's current value off rec.
func (b Binding) TargetValue(rec any) (string, error) {
	v, err := b.structValue(rec)
	if err != nil {
		return "", err
	}
	return v.FieldByIndex(b.targetIndex).String(), nil
}

// SetTarget writes the denormalised column on rec in memory.
// rec must be a pointer to the binding's model type.
func (b Binding) SetTarget(rec any, value string) error {
	v, err := b.structValue(rec)
	if err != nil {
		return err
	}
	if !v.CanSet() {
		return errors.NewValidationError(b.Target, "record must be passed by pointer")
	}
	v.FieldByIndex(b.targetIndex).SetString(value)
	return nil
}

// SourceID reads the foreign key off rec. ok is false when the relation is
// null (empty string, or nil pointer for nullable columns).
func (b Binding) SourceID(rec any) (id string, ok bool, err error) {
	v, err := b.structValue(rec)
	if err != nil {
		return "", false, err
	}
	f := v.FieldByIndex(b.sourceIndex)
	if f.Kind() == reflect.Pointer {
		if f.IsNil() {
			return "", false, nil
		}
		f = f.Elem()
	}
	id = f.String()
	return id, id != "", nil
}

func (b Binding) structValue(rec any) (reflect.Value, error) {
	if b.typ == nil {
		return reflect.Value{}, errors.NewValidationError("", "binding has no model type")
	}
	v := reflect.ValueOf(rec)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if !v.IsValid() || v.Type() != b.typ {
		return reflect.Value{}, errors.NewValidationError("",
			fmt.Sprintf("record type %T does not match binding type %s", rec, b.typ))
	}
	return v, nil
}

// Registry holds every denormalisation binding registered in this process,
// in registration order. It is safe for concurrent use, though registration
// normally happens once during initialisation.
type Registry struct {
	mu       sync.RWMutex
	bindings []Binding
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{}
}

var defaultRegistry = New()

// Default returns the process-wide registry. Libraries that prefer explicit
// wiring can construct their own with New and pass it around instead.
func Default() *Registry {
	return defaultRegistry
}

// Register scans T's struct tags and appends one binding per denorm-tagged
// field. Abstract models (TableName() == "") are skipped without error, so a
// shared base struct can carry the tagged field while only concrete
// embedding types register.
//
// Nothing prevents registering the same type twice; doing so produces
// duplicate bindings and duplicate maintenance work, not incorrect results.
func Register[T Model](r *Registry) error {
	var zero T
	table := zero.TableName()
	if table == "" {
		return nil
	}

	typ := reflect.TypeOf(zero)
	if typ.Kind() != reflect.Struct {
		return errors.NewValidationError("", fmt.Sprintf("model %s must be a struct", typ))
	}

	bindings, err := scanType(typ, table)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings = append(r.bindings, bindings...)
	return nil
}

// Add appends an explicit binding, for callers without a Go struct to scan
// (for example configuration-driven tooling). Zero MaxLength takes the
// default; Table, Source and Target are required.
func (r *Registry) Add(b Binding) error {
	if b.Table == "" {
		return errors.NewValidationError("table", "binding table is required")
	}
	if b.Source == "" {
		b.Source = DefaultSourceColumn
	}
	if b.Target == "" {
		return errors.NewValidationError("target", "binding target column is required")
	}
	if b.MaxLength == 0 {
		b.MaxLength = DefaultMaxLength
	}
	if b.MaxLength < 0 {
		return errors.NewValidationError("max_length", "must be positive")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings = append(r.bindings, b)
	return nil
}

// Bindings returns a snapshot of every binding in registration order.
func (r *Registry) Bindings() []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Binding, len(r.bindings))
	copy(out, r.bindings)
	return out
}

// BindingsFor returns the bindings scanned from the given struct type,
// in registration order.
func (r *Registry) BindingsFor(typ reflect.Type) []Binding {
	if typ != nil && typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Binding
	for _, b := range r.bindings {
		if b.typ == typ {
			out = append(out, b)
		}
	}
	return out
}

// Len returns the number of registered bindings.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bindings)
}

func scanType(typ reflect.Type, table string) ([]Binding, error) {
	fields := reflect.VisibleFields(typ)

	var bindings []Binding
	for _, f := range fields {
		tag, ok := f.Tag.Lookup(TagName)
		if !ok {
			continue
		}
		if f.Type.Kind() != reflect.String {
			return nil, errors.NewValidationError(f.Name, "denorm field must be a string")
		}

		source, maxLength, err := parseTag(f.Name, tag)
		if err != nil {
			return nil, err
		}

		sourceIndex, err := findColumn(fields, source)
		if err != nil {
			return nil, errors.NewValidationError(f.Name,
				fmt.Sprintf("source column %q not found on %s", source, typ))
		}

		bindings = append(bindings, Binding{
			Table:       table,
			Source:      source,
			Target:      columnName(f),
			MaxLength:   maxLength,
			typ:         typ,
			sourceIndex: sourceIndex,
			targetIndex: f.Index,
		})
	}
	return bindings, nil
}

func parseTag(fieldName, tag string) (source string, maxLength int, err error) {
	source = DefaultSourceColumn
	maxLength = DefaultMaxLength

	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, found := strings.Cut(part, "=")
		if !found {
			return "", 0, errors.NewValidationError(fieldName,
				fmt.Sprintf("malformed denorm tag entry %q", part))
		}
		switch key {
		case "from":
			source = value
		case "maxlen":
			n, convErr := strconv.Atoi(value)
			if convErr != nil || n <= 0 {
				return "", 0, errors.NewValidationError(fieldName,
					fmt.Sprintf("invalid maxlen %q", value))
			}
			maxLength = n
		default:
			return "", 0, errors.NewValidationError(fieldName,
				fmt.Sprintf("unknown denorm tag key %q", key))
		}
	}
	return source, maxLength, nil
}

func findColumn(fields []reflect.StructField, column string) ([]int, error) {
	for _, f := range fields {
		if columnName(f) != column {
			continue
		}
		kind := f.Type.Kind()
		if kind == reflect.Pointer {
			kind = f.Type.Elem().Kind()
		}
		if kind != reflect.String {
			return nil, fmt.Errorf("column %q is not a string", column)
		}
		return f.Index, nil
	}
	return nil, fmt.Errorf("column %q not found", column)
}

func columnName(f reflect.StructField) string {
	if tag, ok := f.Tag.Lookup("db"); ok {
		name, _, _ := strings.Cut(tag, ",")
		if name != "" {
			return name
		}
	}
	return strings.ToLower(f.Name)
}
