/*
Package config loads maintenance tooling configuration from YAML.

Applications embedding the library register bindings from their own struct
tags; the denormctl CLI has no access to those types, so it reads the same
information from a file:

	database:
	  driver: sqlite3
	  dsn: ${APP_DB}
	users:
	  table: users
	  id_column: id
	  username_column: username
	bindings:
	  - table: posts
	    source: user_id
	    target: username
	  - table: threads
	    source: last_post_id
	    target: last_post_username
	    max_length: 10

Environment references in the DSN are expanded after an optional .env file
is loaded. Binding defaults match the library's: source falls back to
"user_id" and max_length to 30.
*/
package config
