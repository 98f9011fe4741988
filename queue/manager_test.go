/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package queue

import (
	"context"
	"sync"
	"testing"

	"github.com/suparena/pipequeue/datastore/memory"
	"github.com/suparena/pipequeue/errors"
	"github.com/suparena/pipequeue/storagemodels"
)

func newTestManager() *Manager {
	storagemodels.RegisterIndexMaps()
	table := memory.NewTable()
	return NewManager(
		memory.View[storagemodels.QueueMetadata](table),
		memory.View[storagemodels.QueueItem](table),
	)
}

func TestCreateQueue(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	meta, err := m.CreateQueue(ctx, "img-proc")
	if err != nil {
		t.Fatalf("CreateQueue failed: %v", err)
	}
	if meta.QueueName != "img-proc" || meta.CreatedAt == 0 {
		t.Errorf("unexpected metadata: %+v", meta)
	}

	t.Run("Conflict", func(t *testing.T) {
		_, err := m.CreateQueue(ctx, "img-proc")
		if !errors.IsAlreadyExists(err) {
			t.Errorf("expected already exists, got %v", err)
		}
	})

	t.Run("EmptyName", func(t *testing.T) {
		_, err := m.CreateQueue(ctx, "")
		if !errors.IsValidationError(err) {
			t.Errorf("expected validation error, got %v", err)
		}
	})
}

func TestEnqueue(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	t.Run("UnknownQueue", func(t *testing.T) {
		_, err := m.Enqueue(ctx, "missing", nil, "ctrl-1")
		if !errors.IsNotFound(err) {
			t.Errorf("expected not found, got %v", err)
		}
	})

	if _, err := m.CreateQueue(ctx, "img-proc"); err != nil {
		t.Fatal(err)
	}

	item, err := m.Enqueue(ctx, "img-proc", storagemodels.Document{"path": "a.fits"}, "ctrl-1")
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if item.ID == "" || item.CreatedAt == 0 {
		t.Errorf("item missing generated fields: %+v", item)
	}
	if item.Sender != "ctrl-1" {
		t.Errorf("expected sender ctrl-1, got %q", item.Sender)
	}
	if item.Payload["path"] != "a.fits" {
		t.Errorf("payload not preserved: %+v", item.Payload)
	}

	t.Run("DefaultSender", func(t *testing.T) {
		item, err := m.Enqueue(ctx, "img-proc", nil, "")
		if err != nil {
			t.Fatal(err)
		}
		if item.Sender != DefaultSender {
			t.Errorf("expected sender %q, got %q", DefaultSender, item.Sender)
		}
		if item.Payload == nil {
			t.Error("nil payload should be stored as an empty document")
		}
	})
}

func TestFIFOOrder(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	if _, err := m.CreateQueue(ctx, "img-proc"); err != nil {
		t.Fatal(err)
	}

	paths := []string{"a.fits", "b.fits", "c.fits", "d.fits", "e.fits"}
	for _, p := range paths {
		if _, err := m.Enqueue(ctx, "img-proc", storagemodels.Document{"path": p}, "ctrl-1"); err != nil {
			t.Fatal(err)
		}
	}

	for i, want := range paths {
		item, err := m.Dequeue(ctx, "img-proc")
		if err != nil {
			t.Fatalf("dequeue %d failed: %v", i, err)
		}
		if got := item.Payload["path"]; got != want {
			t.Errorf("dequeue %d: expected %q, got %v", i, want, got)
		}
	}

	_, err := m.Dequeue(ctx, "img-proc")
	if !errors.IsQueueEmpty(err) {
		t.Errorf("expected queue empty after draining, got %v", err)
	}
}

func TestDequeue(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	t.Run("UnknownQueue", func(t *testing.T) {
		_, err := m.Dequeue(ctx, "missing")
		if !errors.IsNotFound(err) {
			t.Errorf("expected not found, got %v", err)
		}
	})

	t.Run("EmptyQueue", func(t *testing.T) {
		if _, err := m.CreateQueue(ctx, "empty-queue"); err != nil {
			t.Fatal(err)
		}
		_, err := m.Dequeue(ctx, "empty-queue")
		if !errors.IsQueueEmpty(err) {
			t.Errorf("expected queue empty, got %v", err)
		}
	})
}

func TestAtMostOnceDelivery(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	if _, err := m.CreateQueue(ctx, "jobs"); err != nil {
		t.Fatal(err)
	}

	const n = 20
	enqueued := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		item, err := m.Enqueue(ctx, "jobs", storagemodels.Document{"n": i}, "ctrl-1")
		if err != nil {
			t.Fatal(err)
		}
		enqueued[item.ID] = true
	}

	// More competing consumers than items; the excess must observe an
	// empty queue, never a duplicate item.
	const consumers = n * 2
	var wg sync.WaitGroup
	results := make(chan string, consumers)
	failures := make(chan error, consumers)

	for i := 0; i < consumers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			item, err := m.Dequeue(ctx, "jobs")
			if err != nil {
				if !errors.IsQueueEmpty(err) {
					failures <- err
				}
				return
			}
			results <- item.ID
		}()
	}
	wg.Wait()
	close(results)
	close(failures)

	for err := range failures {
		t.Errorf("unexpected dequeue error: %v", err)
	}

	delivered := make(map[string]bool, n)
	for id := range results {
		if delivered[id] {
			t.Errorf("item %q delivered twice", id)
		}
		if !enqueued[id] {
			t.Errorf("item %q was never enqueued", id)
		}
		delivered[id] = true
	}
	if len(delivered) != n {
		t.Errorf("expected exactly %d deliveries, got %d", n, len(delivered))
	}
}

func TestPeek(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	t.Run("UnknownQueue", func(t *testing.T) {
		_, err := m.Peek(ctx, "missing", 0)
		if !errors.IsNotFound(err) {
			t.Errorf("expected not found, got %v", err)
		}
	})

	if _, err := m.CreateQueue(ctx, "img-proc"); err != nil {
		t.Fatal(err)
	}

	t.Run("EmptyQueue", func(t *testing.T) {
		items, err := m.Peek(ctx, "img-proc", 0)
		if err != nil {
			t.Fatalf("peek of empty queue should succeed, got %v", err)
		}
		if len(items) != 0 {
			t.Errorf("expected no items, got %d", len(items))
		}
	})

	for _, p := range []string{"a.fits", "b.fits", "c.fits"} {
		if _, err := m.Enqueue(ctx, "img-proc", storagemodels.Document{"path": p}, "ctrl-1"); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("NonDestructive", func(t *testing.T) {
		peeked, err := m.Peek(ctx, "img-proc", 1)
		if err != nil {
			t.Fatal(err)
		}
		if len(peeked) != 1 {
			t.Fatalf("expected 1 item, got %d", len(peeked))
		}

		// Peek must not consume: the next dequeue returns the same item.
		item, err := m.Dequeue(ctx, "img-proc")
		if err != nil {
			t.Fatal(err)
		}
		if item.ID != peeked[0].ID {
			t.Errorf("dequeue returned %q, peek saw %q", item.ID, peeked[0].ID)
		}

		remaining, err := m.Peek(ctx, "img-proc", 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(remaining) != 2 {
			t.Errorf("expected 2 items after one dequeue, got %d", len(remaining))
		}
	})

	t.Run("DefaultLimit", func(t *testing.T) {
		items, err := m.Peek(ctx, "img-proc", 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(items) > DefaultPeekLimit {
			t.Errorf("default peek returned %d items, limit is %d", len(items), DefaultPeekLimit)
		}
	})

	t.Run("OldestFirst", func(t *testing.T) {
		items, err := m.Peek(ctx, "img-proc", 10)
		if err != nil {
			t.Fatal(err)
		}
		for i := 1; i < len(items); i++ {
			if items[i-1].ID >= items[i].ID {
				t.Errorf("peek order not ascending at %d: %q >= %q", i, items[i-1].ID, items[i].ID)
			}
		}
	})
}

func TestDeleteQueue(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	if _, err := m.CreateQueue(ctx, "img-proc"); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if _, err := m.Enqueue(ctx, "img-proc", nil, "ctrl-1"); err != nil {
			t.Fatal(err)
		}
	}

	deleted, err := m.DeleteQueue(ctx, "img-proc")
	if err != nil {
		t.Fatalf("DeleteQueue failed: %v", err)
	}
	// Metadata plus three items.
	if deleted != 4 {
		t.Errorf("expected 4 deleted records, got %d", deleted)
	}

	t.Run("EnqueueAfterDelete", func(t *testing.T) {
		_, err := m.Enqueue(ctx, "img-proc", nil, "ctrl-1")
		if !errors.IsNotFound(err) {
			t.Errorf("expected not found after queue deletion, got %v", err)
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		deleted, err := m.DeleteQueue(ctx, "img-proc")
		if err != nil {
			t.Errorf("deleting a missing queue should succeed, got %v", err)
		}
		if deleted != 0 {
			t.Errorf("expected 0 deleted records, got %d", deleted)
		}
	})
}

func TestListQueues(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	t.Run("NoQueues", func(t *testing.T) {
		counts, err := m.ListQueues(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(counts) != 0 {
			t.Errorf("expected no queues, got %v", counts)
		}
	})

	for _, q := range []string{"img-proc", "calibrate", "idle"} {
		if _, err := m.CreateQueue(ctx, q); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 3; i++ {
		if _, err := m.Enqueue(ctx, "img-proc", nil, "ctrl-1"); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := m.Enqueue(ctx, "calibrate", nil, "ctrl-1"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Dequeue(ctx, "calibrate"); err != nil {
		t.Fatal(err)
	}

	counts, err := m.ListQueues(ctx)
	if err != nil {
		t.Fatal(err)
	}

	// Counts are enqueues minus dequeues; empty queues appear with zero.
	want := map[string]int{"img-proc": 3, "calibrate": 0, "idle": 0}
	if len(counts) != len(want) {
		t.Fatalf("expected %d queues, got %v", len(want), counts)
	}
	for q, n := range want {
		if counts[q] != n {
			t.Errorf("queue %q: expected count %d, got %d", q, n, counts[q])
		}
	}
}

// Queue names are opaque: characters that are meaningful to regular
// expressions or key templates must round-trip through every operation.
func TestQueueNameWithSpecialCharacters(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	const name = "site$1/night$2"

	if _, err := m.CreateQueue(ctx, name); err != nil {
		t.Fatalf("CreateQueue failed: %v", err)
	}

	item, err := m.Enqueue(ctx, name, storagemodels.Document{"n": 1}, "ctrl-1")
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if item.QueueName != name {
		t.Errorf("expected queue name %q on item, got %q", name, item.QueueName)
	}

	peeked, err := m.Peek(ctx, name, 0)
	if err != nil {
		t.Fatalf("Peek failed: %v", err)
	}
	if len(peeked) != 1 || peeked[0].ID != item.ID {
		t.Fatalf("peek did not see the enqueued item: %+v", peeked)
	}

	got, err := m.Dequeue(ctx, name)
	if err != nil {
		t.Fatalf("Dequeue failed: %v", err)
	}
	if got.ID != item.ID {
		t.Errorf("expected id %s, got %s", item.ID, got.ID)
	}

	if n, err := m.DeleteQueue(ctx, name); err != nil || n != 1 {
		t.Errorf("expected 1 remaining record deleted, got %d (%v)", n, err)
	}
}
