/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package denormfield

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/suparena/denormfield/datastore"
	"github.com/suparena/denormfield/registry"
	"github.com/suparena/denormfield/storagemodels"
)

// Maintainer runs the registry-driven batch operations against one store.
type Maintainer struct {
	store datastore.Store
	reg   *registry.Registry
	log   *zap.Logger
}

// Option configures a Maintainer.
type Option func(*Maintainer)

// WithLogger sets the logger used for lint and rename reporting.
func WithLogger(log *zap.Logger) Option {
	return func(m *Maintainer) {
		if log != nil {
			m.log = log
		}
	}
}

// NewMaintainer creates a Maintainer over the given store and registry.
// A nil registry means the process-wide default registry.
func NewMaintainer(store datastore.Store, reg *registry.Registry, opts ...Option) *Maintainer {
	if reg == nil {
		reg = registry.Default()
	}
	m := &Maintainer{
		store: store,
		reg:   reg,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RenameUsername propagates a username change to every registered
// denormalised copy, then rewrites the canonical user row. Bindings are
// processed in registration order; the canonical update happens strictly
// after all copies. There is no transaction across the statements: the first
// failing statement aborts the sequence and earlier updates stay in place,
// which Lint can detect later.
func (m *Maintainer) RenameUsername(ctx context.Context, userID, username string) (*storagemodels.RenameResult, error) {
	result := &storagemodels.RenameResult{
		UserID:   userID,
		Username: username,
	}

	for _, b := range m.reg.Bindings() {
		rows, err := m.store.BulkUpdate(ctx, b.Table,
			map[string]any{b.Source: userID},
			map[string]any{b.Target: Truncate(username, b.MaxLength)},
		)
		if err != nil {
			return nil, fmt.Errorf("updating %s.%s: %w", b.Table, b.Target, err)
		}
		result.Updates = append(result.Updates, storagemodels.BindingUpdate{
			Table:  b.Table,
			Target: b.Target,
			Rows:   rows,
		})
		m.log.Debug("denormalised username updated",
			zap.String("table", b.Table),
			zap.String("column", b.Target),
			zap.Int64("rows", rows),
		)
	}

	// The canonical value is written untruncated and last.
	if err := m.store.UpdateUsername(ctx, userID, username); err != nil {
		return nil, fmt.Errorf("updating canonical username: %w", err)
	}
	return result, nil
}

// Lint checks every registered binding for denormalised copies that no
// longer match the canonical username. Bindings whose bound is below
// DefaultMaxLength are skipped: they may legitimately hold truncated values,
// so inequality there proves nothing. Lint never mutates; it reports.
func (m *Maintainer) Lint(ctx context.Context) ([]storagemodels.LintIssue, error) {
	var issues []storagemodels.LintIssue

	for _, b := range m.reg.Bindings() {
		if b.MaxLength < registry.DefaultMaxLength {
			m.log.Info("not checking column as field can truncate data",
				zap.String("table", b.Table),
				zap.String("column", b.Target),
			)
			continue
		}

		keys, err := m.store.FindMismatches(ctx, storagemodels.MismatchQuery{
			Table:  b.Table,
			Source: b.Source,
			Target: b.Target,
		})
		if err != nil {
			return nil, fmt.Errorf("checking %s.%s: %w", b.Table, b.Target, err)
		}
		if len(keys) == 0 {
			continue
		}

		m.log.Warn("rows have stale denormalised usernames",
			zap.Int("count", len(keys)),
			zap.String("table", b.Table),
			zap.String("column", b.Target),
			zap.Strings("keys", keys),
		)
		issues = append(issues, storagemodels.LintIssue{
			Table:  b.Table,
			Target: b.Target,
			Keys:   keys,
		})
	}
	return issues, nil
}
