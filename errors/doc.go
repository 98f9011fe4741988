/*
Package errors provides semantic error types for the PipeQueue service.

The package defines common error scenarios with specific types that can be
checked using the standard errors.Is() function or the provided helper functions.

Common Errors:

	var (
	    ErrNotFound        = errors.New("record not found")
	    ErrAlreadyExists   = errors.New("record already exists")
	    ErrQueueEmpty      = errors.New("queue empty")
	    ErrInvalidInput    = errors.New("invalid input")
	    ErrConditionFailed = errors.New("condition check failed")
	    ErrNoIndexMap      = errors.New("no index map found for type")
	)

Usage:

	// Check error type
	item, err := queues.Dequeue(ctx, "img-proc")
	if err != nil {
	    if errors.IsQueueEmpty(err) {
	        // Nothing left to process
	        return nil, nil
	    }
	    return nil, err
	}

	// Create typed errors
	err := errors.NewNotFoundError("Queue", "img-proc")
	err := errors.NewValidationError("queue_name", "must not be empty")
	err := errors.NewQueueEmptyError("img-proc")

The error types implement the error interface and support wrapping,
making them compatible with Go's standard error handling patterns.
*/
package errors
