/*
Package denormfield keeps denormalised copies of a canonical username in sync
across the tables that store one.

A denormalised username is a redundant copy of users.username on a related
row (a post, a thread, a comment) that saves a join on every read. This
library owns the three behaviours such a copy needs:

  - Populate fills an empty copy from the related user just before a row is
    first written, truncating to the binding's bound. A null or dangling
    relation leaves the copy empty, silently.
  - Maintainer.RenameUsername propagates a username change to every
    registered copy, then rewrites the canonical row.
  - Maintainer.Lint reports copies that have drifted out of sync.

Bindings are declared with struct tags and collected in a registry:

	type Post struct {
	    ID       string `db:"id"`
	    UserID   string `db:"user_id"`
	    Username string `db:"username" denorm:""`
	}

	func (Post) TableName() string { return "posts" }

	registry.Register[Post](registry.Default())

	// Before persisting:
	err := denormfield.Populate(ctx, store, nil, &post)

	// Maintenance:
	m := denormfield.NewMaintainer(store, nil, denormfield.WithLogger(logger))
	result, err := m.RenameUsername(ctx, userID, "new-name")
	issues, err := m.Lint(ctx)

Truncation is a policy, not an error: values written by this library are cut
to the binding's max length and never rejected, which is what allows bindings
such as a single-letter initial column. The canonical username itself is
always written untruncated.

Storage backends implement datastore.Store; sqlds (database/sql) and ddb
(DynamoDB) ship with the library, plus an in-memory mock for tests.
*/
package denormfield
