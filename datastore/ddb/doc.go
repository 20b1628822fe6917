/*
Package ddb provides a DynamoDB implementation of the Store interface.

Each model table name maps to a physical DynamoDB table whose key attribute
defaults to "id" and can be overridden per table:

	client, err := ddb.NewClient(accessKey, secretKey, region)
	store := ddb.New(client,
	    ddb.WithUsersTable("users", "id", "username"),
	    ddb.WithKeyAttribute("posts", "postId"),
	)

Deviation from the SQL backend: DynamoDB cannot express a multi-row UPDATE
or a cross-table field comparison. BulkUpdate therefore scans for matching
keys and rewrites items one at a time, and FindMismatches compares each
scanned row against the canonical username, fetched once per distinct user.
The interface semantics are unchanged; the cost profile is not — prefer the
sqlds backend for large tables.

Integration tests are gated on AWS environment variables (loaded with
godotenv) and skip when they are absent.
*/
package ddb
