/*
Package storagemodels defines the data structures shared across denormfield.

Key Types:

UserRecord:
The canonical user row denormalised usernames are copied from:

	user := storagemodels.NewUserRecord("alice")
	// user.ID is a fresh UUID, timestamps are set

MismatchQuery:
Parameters for a storage-side consistency check:

	q := storagemodels.MismatchQuery{
	    Table:  "posts",
	    Source: "user_id",
	    Target: "username",
	}

LintIssue / RenameResult:
Structured results of the two maintenance operations:

	issues, _ := m.Lint(ctx)
	for _, issue := range issues {
	    fmt.Printf("%d stale rows in %s.%s\n", issue.Count(), issue.Table, issue.Target)
	}

These types provide a consistent interface across different storage implementations.
*/
package storagemodels
