/*
Package datastore defines the storage interface of the PipeQueue service.

The main interface is DataStore[T], a typed view over the shared (pk, sk)
table for one record shape:

	type DataStore[T any] interface {
	    GetOne(ctx context.Context, keyInput any) (*T, error)
	    Put(ctx context.Context, entity T) error
	    PutIfAbsent(ctx context.Context, entity T) error
	    Query(ctx context.Context, params *storagemodels.QueryParams) ([]T, error)
	    Count(ctx context.Context, params *storagemodels.QueryParams) (int, error)
	    Scan(ctx context.Context, params *storagemodels.ScanParams) ([]T, error)
	    Delete(ctx context.Context, keyInput any) error
	    DeleteIfPresent(ctx context.Context, keyInput any) error
	    DeleteAll(ctx context.Context, partitionKey string) (int, error)
	}

The conditional operations (PutIfAbsent, DeleteIfPresent) are the concurrency
primitive of the whole service: queue creation races and competing dequeues
are resolved by the table, never by in-process locks.

Implementations:
  - ddb: DynamoDB, the production backend
  - memory: shared in-memory table for tests and local development
*/
package datastore
