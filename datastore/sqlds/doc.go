/*
Package sqlds provides a database/sql implementation of the Store interface.

The store works against any database/sql driver; the sqlite3 driver is
registered by import so file-backed and in-memory SQLite work out of the box:

	store, err := sqlds.Open("sqlite3", "app.db",
	    sqlds.WithUsersTable("users", "id", "username"),
	    sqlds.WithKeyColumn("posts", "post_id"),
	)

Identifiers (table and column names) are validated against a conservative
pattern before they are interpolated into SQL; values always travel as bound
placeholders.

Mismatch detection runs entirely inside the database:

	SELECT t.id FROM posts t
	JOIN users u ON u.id = t.user_id
	WHERE t.username <> u.username

Rows with a dangling foreign key drop out of the join, matching the populate
path's treatment of dangling references as silently absent.
*/
package sqlds
