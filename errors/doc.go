/*
Package errors provides semantic error types for the denormfield library.

The package defines common error scenarios with specific types that can be
checked using the standard errors.Is() function or the provided helper functions.

Common Errors:

	var (
	    ErrNotFound     = errors.New("record not found")
	    ErrInvalidInput = errors.New("invalid input")
	    ErrNoBinding    = errors.New("no denormalisation binding for type")
	    ErrUnknownTable = errors.New("unknown table")
	)

Usage:

	// Check error type
	user, err := store.ResolveUser(ctx, "123")
	if err != nil {
	    if errors.IsNotFound(err) {
	        // Dangling reference; the populate path swallows this case
	        return nil
	    }
	    return err
	}

	// Create typed errors
	err := errors.NewNotFoundError("user", "123")
	err := errors.NewValidationError("max_length", "must be positive")
	err := errors.NewUnknownTableError("posts")

The error types implement the error interface and support wrapping,
making them compatible with Go's standard error handling patterns.
*/
package errors
