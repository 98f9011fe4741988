/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/suparena/pipequeue/datastore"
	"github.com/suparena/pipequeue/errors"
	"github.com/suparena/pipequeue/storagemodels"
)

const (
	// DefaultPeekLimit is the number of items Peek returns when the caller
	// does not specify a limit.
	DefaultPeekLimit = 10

	// dequeueRetries bounds how often a dequeue re-selects the next oldest
	// item after losing a conditional delete to a concurrent caller.
	dequeueRetries = 3

	// DefaultSender is recorded when the enqueue request names no sender.
	DefaultSender = "unknown"
)

// Manager provides durable FIFO semantics for named job queues. All state
// lives in the injected datastores; a Manager holds no queue state of its
// own, so any number of instances may serve the same table concurrently.
type Manager struct {
	metadata datastore.DataStore[storagemodels.QueueMetadata]
	items    datastore.DataStore[storagemodels.QueueItem]
	ids      itemIDGenerator
}

// NewManager creates a queue manager over the given typed stores. Both
// stores must be views of the same table.
func NewManager(
	metadata datastore.DataStore[storagemodels.QueueMetadata],
	items datastore.DataStore[storagemodels.QueueItem],
) *Manager {
	return &Manager{
		metadata: metadata,
		items:    items,
	}
}

// CreateQueue creates a new named queue. Creating a queue that already
// exists is an error, not a no-op; the conflict is enforced by a conditional
// write so racing creators cannot both succeed.
func (m *Manager) CreateQueue(ctx context.Context, name string) (*storagemodels.QueueMetadata, error) {
	if name == "" {
		return nil, errors.NewValidationError("queue_name", "must not be empty")
	}

	meta := storagemodels.QueueMetadata{
		QueueName: name,
		ItemType:  storagemodels.ItemTypeQueue,
		CreatedAt: time.Now().UnixMilli(),
	}

	if err := m.metadata.PutIfAbsent(ctx, meta); err != nil {
		if errors.IsConditionFailed(err) {
			return nil, errors.NewAlreadyExistsError("Queue", name)
		}
		return nil, fmt.Errorf("create queue %q: %w", name, err)
	}
	return &meta, nil
}

// Enqueue appends an item to the named queue and returns the stored item,
// including its generated id.
func (m *Manager) Enqueue(ctx context.Context, name string, payload storagemodels.Document, sender string) (*storagemodels.QueueItem, error) {
	if name == "" {
		return nil, errors.NewValidationError("queue_name", "must not be empty")
	}
	if err := m.requireQueue(ctx, name); err != nil {
		return nil, err
	}

	if payload == nil {
		payload = storagemodels.Document{}
	}
	if sender == "" {
		sender = DefaultSender
	}

	now := time.Now()
	item := storagemodels.QueueItem{
		ID:        m.ids.next(now),
		QueueName: name,
		ItemType:  storagemodels.ItemTypeQueue,
		Payload:   payload,
		CreatedAt: now.UnixMilli(),
		Sender:    sender,
	}

	if err := m.items.Put(ctx, item); err != nil {
		return nil, fmt.Errorf("enqueue into %q: %w", name, err)
	}
	return &item, nil
}

// Peek returns up to limit oldest items without removing them. A limit of
// zero or less means DefaultPeekLimit. An existing but empty queue yields an
// empty slice, not an error.
func (m *Manager) Peek(ctx context.Context, name string, limit int) ([]storagemodels.QueueItem, error) {
	if err := m.requireQueue(ctx, name); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultPeekLimit
	}

	items, err := m.items.Query(ctx, storagemodels.NewQuery().
		WithPartitionKey(storagemodels.QueuePK(name)).
		WithSortKeyPrefix(storagemodels.ItemSKPrefix).
		WithLimit(int32(limit)).
		OldestFirst().
		Build())
	if err != nil {
		return nil, fmt.Errorf("peek queue %q: %w", name, err)
	}

	result := make([]storagemodels.QueueItem, 0, len(items))
	for _, item := range items {
		// Records written before queue_name was persisted on items come
		// back without it; the partition key already pins the queue.
		item.QueueName = name
		result = append(result, item)
	}
	return result, nil
}

// Dequeue atomically removes and returns the single oldest item.
//
// The oldest item is selected by sort-key order and removed with a
// conditional delete. When a concurrent dequeue wins the race the delete
// fails its condition and the next oldest remaining item is selected
// instead, up to dequeueRetries times. Losing every retry while items
// remain surfaces as an error; an actually drained queue reports
// ErrQueueEmpty.
func (m *Manager) Dequeue(ctx context.Context, name string) (*storagemodels.QueueItem, error) {
	if err := m.requireQueue(ctx, name); err != nil {
		return nil, err
	}

	oldest := storagemodels.NewQuery().
		WithPartitionKey(storagemodels.QueuePK(name)).
		WithSortKeyPrefix(storagemodels.ItemSKPrefix).
		WithLimit(1).
		OldestFirst().
		Build()

	for attempt := 0; attempt <= dequeueRetries; attempt++ {
		candidates, err := m.items.Query(ctx, oldest)
		if err != nil {
			return nil, fmt.Errorf("dequeue from %q: %w", name, err)
		}
		if len(candidates) == 0 {
			return nil, errors.NewQueueEmptyError(name)
		}

		item := candidates[0]
		err = m.items.DeleteIfPresent(ctx, item)
		if err == nil {
			item.QueueName = name
			return &item, nil
		}
		if !errors.IsConditionFailed(err) {
			return nil, fmt.Errorf("dequeue from %q: %w", name, err)
		}
		// Lost the race; re-select the next oldest remaining item.
	}

	return nil, fmt.Errorf("dequeue from %q: contention exhausted %d retries: %w",
		name, dequeueRetries, errors.ErrConditionFailed)
}

// DeleteQueue removes the queue's metadata record and every item under its
// partition key. Deleting a queue that does not exist succeeds; the returned
// count reflects only records actually found and removed.
func (m *Manager) DeleteQueue(ctx context.Context, name string) (int, error) {
	if name == "" {
		return 0, errors.NewValidationError("queue_name", "must not be empty")
	}

	deleted, err := m.metadata.DeleteAll(ctx, storagemodels.QueuePK(name))
	if err != nil {
		return deleted, fmt.Errorf("delete queue %q: %w", name, err)
	}
	return deleted, nil
}

// ListQueues returns every created queue mapped to its current item count.
// Empty queues appear with a count of zero.
func (m *Manager) ListQueues(ctx context.Context) (map[string]int, error) {
	metas, err := m.metadata.Scan(ctx, &storagemodels.ScanParams{
		ItemType: storagemodels.ItemTypeQueue,
		SortKey:  storagemodels.MetadataSK,
	})
	if err != nil {
		return nil, fmt.Errorf("list queues: %w", err)
	}

	counts := make(map[string]int, len(metas))
	for _, meta := range metas {
		n, err := m.items.Count(ctx, storagemodels.NewQuery().
			WithPartitionKey(storagemodels.QueuePK(meta.QueueName)).
			WithSortKeyPrefix(storagemodels.ItemSKPrefix).
			Build())
		if err != nil {
			return nil, fmt.Errorf("count queue %q: %w", meta.QueueName, err)
		}
		counts[meta.QueueName] = n
	}
	return counts, nil
}

// requireQueue verifies the queue's metadata record exists.
func (m *Manager) requireQueue(ctx context.Context, name string) error {
	_, err := m.metadata.GetOne(ctx, name)
	if err != nil {
		if errors.IsNotFound(err) {
			return errors.NewNotFoundError("Queue", name)
		}
		return fmt.Errorf("check queue %q: %w", name, err)
	}
	return nil
}
