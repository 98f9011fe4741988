/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package status

import (
	"context"
	"testing"
	"time"

	"github.com/suparena/pipequeue/datastore/memory"
	"github.com/suparena/pipequeue/errors"
	"github.com/suparena/pipequeue/storagemodels"
)

func newTestRegistry() *Registry {
	storagemodels.RegisterIndexMaps()
	table := memory.NewTable()
	return NewRegistry(memory.View[storagemodels.PipeStatus](table))
}

func TestSetAndGetStatus(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()

	record, err := r.SetStatus(ctx, "pipe-1", "online", storagemodels.Document{"cpu": "10%"})
	if err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if record.LastUpdated == 0 {
		t.Error("last_updated was not stamped")
	}

	got, err := r.GetStatus(ctx, "pipe-1")
	if err != nil {
		t.Fatalf("GetStatus failed: %v", err)
	}
	if got.Status != "online" || got.Details["cpu"] != "10%" {
		t.Errorf("unexpected record: %+v", got)
	}
	if got.PipeID != "pipe-1" {
		t.Errorf("expected pipe_id pipe-1, got %q", got.PipeID)
	}
}

func TestSetStatusOverwrites(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()

	if _, err := r.SetStatus(ctx, "pipe-1", "online", storagemodels.Document{"cpu": "10%"}); err != nil {
		t.Fatal(err)
	}
	if _, err := r.SetStatus(ctx, "pipe-1", "busy", storagemodels.Document{"job": "x"}); err != nil {
		t.Fatal(err)
	}

	got, err := r.GetStatus(ctx, "pipe-1")
	if err != nil {
		t.Fatal(err)
	}
	// Only the latest write survives.
	if got.Status != "busy" {
		t.Errorf("expected status busy, got %q", got.Status)
	}
	if got.Details["job"] != "x" {
		t.Errorf("expected latest details, got %+v", got.Details)
	}
	if _, stale := got.Details["cpu"]; stale {
		t.Error("previous details leaked into the latest record")
	}
}

func TestSetStatusValidation(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()

	if _, err := r.SetStatus(ctx, "", "online", nil); !errors.IsValidationError(err) {
		t.Errorf("expected validation error for empty pipe_id, got %v", err)
	}
	if _, err := r.SetStatus(ctx, "pipe-1", "", nil); !errors.IsValidationError(err) {
		t.Errorf("expected validation error for empty status, got %v", err)
	}
}

func TestGetStatusNotFound(t *testing.T) {
	r := newTestRegistry()

	_, err := r.GetStatus(context.Background(), "pipe-9")
	if !errors.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestDeleteStatus(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()

	if _, err := r.SetStatus(ctx, "pipe-1", "online", nil); err != nil {
		t.Fatal(err)
	}

	if err := r.DeleteStatus(ctx, "pipe-1"); err != nil {
		t.Fatalf("DeleteStatus failed: %v", err)
	}
	if _, err := r.GetStatus(ctx, "pipe-1"); !errors.IsNotFound(err) {
		t.Errorf("expected not found after delete, got %v", err)
	}

	// Deleting again succeeds.
	if err := r.DeleteStatus(ctx, "pipe-1"); err != nil {
		t.Errorf("idempotent delete failed: %v", err)
	}
}

func TestListStatuses(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()

	t.Run("Empty", func(t *testing.T) {
		got, err := r.ListStatuses(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("expected empty slice, got %v", got)
		}
	})

	for _, id := range []string{"pipe-1", "pipe-2", "pipe-3"} {
		if _, err := r.SetStatus(ctx, id, "online", nil); err != nil {
			t.Fatal(err)
		}
	}

	got, err := r.ListStatuses(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}

	seen := make(map[string]bool)
	for _, rec := range got {
		seen[rec.PipeID] = true
	}
	for _, id := range []string{"pipe-1", "pipe-2", "pipe-3"} {
		if !seen[id] {
			t.Errorf("missing status for %q", id)
		}
	}
}

func TestStaleness(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	record := &storagemodels.PipeStatus{
		PipeID:      "pipe-1",
		Status:      "online",
		LastUpdated: now.Add(-10 * time.Minute).UnixMilli(),
	}

	if Stale(record, 30*time.Minute, now) {
		t.Error("record updated 10m ago should be fresh at a 30m threshold")
	}
	if !Stale(record, 5*time.Minute, now) {
		t.Error("record updated 10m ago should be stale at a 5m threshold")
	}

	if got := LastUpdatedTime(record); !got.Equal(now.Add(-10 * time.Minute)) {
		t.Errorf("unexpected LastUpdatedTime: %v", got)
	}

	dt := LastUpdatedDateTime(record)
	if time.Time(dt).IsZero() {
		t.Error("LastUpdatedDateTime returned zero time")
	}
}

func TestPipeIDWithSpecialCharacters(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()

	// Pipe ids are opaque; "$" must not disturb key derivation.
	const pipeID = "pipe$1"

	if _, err := r.SetStatus(ctx, pipeID, "online", nil); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	got, err := r.GetStatus(ctx, pipeID)
	if err != nil {
		t.Fatalf("GetStatus failed: %v", err)
	}
	if got.PipeID != pipeID || got.Status != "online" {
		t.Errorf("unexpected record: %+v", got)
	}

	if err := r.DeleteStatus(ctx, pipeID); err != nil {
		t.Fatalf("DeleteStatus failed: %v", err)
	}
	if _, err := r.GetStatus(ctx, pipeID); !errors.IsNotFound(err) {
		t.Errorf("expected not found after delete, got %v", err)
	}
}
