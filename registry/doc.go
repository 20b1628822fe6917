/*
Package registry tracks every denormalised username binding in the process.

A binding is one model's use of a denormalised username column: the table,
the foreign key column naming the user, the target column holding the copy,
and the truncation bound. The batch maintenance operations (rename
propagation and lint) iterate the registry in registration order.

Registration by struct tag:

	type Post struct {
	    ID       string `db:"id"`
	    UserID   string `db:"user_id"`
	    Username string `db:"username" denorm:""`
	}

	func (Post) TableName() string { return "posts" }

	registry.Register[Post](registry.Default())

The denorm tag accepts two keys, both optional:

	denorm:"from=last_post_id,maxlen=10"

from names the foreign key column (default "user_id"); maxlen sets the
truncation bound (default 30). Column names come from db tags, falling back
to the lowercased field name.

Abstract base structs return "" from TableName and are skipped; embedding
them in a concrete model registers the promoted field against the concrete
model's table.

Explicit registration:
Configuration-driven callers without Go structs can append bindings directly:

	r := registry.New()
	err := r.Add(registry.Binding{Table: "posts", Source: "user_id", Target: "username"})

The registry is thread-safe and should be populated during initialisation,
typically in init() functions or application start-up wiring.
*/
package registry
