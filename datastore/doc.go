/*
Package datastore defines the storage contract consumed by denormfield.

The main interface is Store, which captures the four capabilities the
denormalisation layer needs from a backend:

	type Store interface {
	    ResolveUser(ctx context.Context, userID string) (*storagemodels.UserRecord, error)
	    BulkUpdate(ctx context.Context, table string, filters map[string]any, updates map[string]any) (int64, error)
	    FindMismatches(ctx context.Context, q storagemodels.MismatchQuery) ([]string, error)
	    UpdateUsername(ctx context.Context, userID, username string) error
	}

Implementations:
  - sqlds: database/sql implementation; mismatch detection runs as a join
    evaluated inside the database
  - ddb: DynamoDB implementation built on aws-sdk-go-v2
  - mock: in-memory, call-recording implementation for testing

The interface is deliberately small: the library never reads rows of the
owning models into memory, it only issues updates and asks for mismatched
primary keys.
*/
package datastore
