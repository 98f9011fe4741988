/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/suparena/pipequeue/storagemodels"
)

// DataStore is a typed view over the shared PipeQueue table for one record
// shape T. Keys are derived from the index map registered for T.
//
// keyInput may be a plain string when T's key templates contain a single
// macro (queue metadata, pipe status), or a struct carrying every macro
// field (queue items need both queue_name and id; passing the record itself
// works).
type DataStore[T any] interface {
	// GetOne retrieves a single record. Returns errors.ErrNotFound when no
	// record exists under the derived key.
	GetOne(ctx context.Context, keyInput any) (*T, error)

	// Put stores the record, replacing any existing record under the same key.
	Put(ctx context.Context, entity T) error

	// PutIfAbsent stores the record only if no record exists under the same
	// key. Returns errors.ErrConditionFailed when one does.
	PutIfAbsent(ctx context.Context, entity T) error

	// Query returns records of one partition in sort-key order.
	Query(ctx context.Context, params *storagemodels.QueryParams) ([]T, error)

	// Count returns the number of records a Query with the same params
	// would return, without fetching them.
	Count(ctx context.Context, params *storagemodels.QueryParams) (int, error)

	// Scan returns every record of shape T across all partitions, in no
	// guaranteed order.
	Scan(ctx context.Context, params *storagemodels.ScanParams) ([]T, error)

	// Delete removes a record; removing an absent record is not an error.
	Delete(ctx context.Context, keyInput any) error

	// DeleteIfPresent removes a record only if it still exists. Returns
	// errors.ErrConditionFailed when a concurrent caller removed it first.
	DeleteIfPresent(ctx context.Context, keyInput any) error

	// DeleteAll removes every record under the given partition key and
	// reports how many were actually found and removed.
	DeleteAll(ctx context.Context, partitionKey string) (int, error)
}
