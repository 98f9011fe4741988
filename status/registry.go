/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package status

import (
	"context"
	"fmt"
	"time"

	"github.com/suparena/pipequeue/datastore"
	"github.com/suparena/pipequeue/errors"
	"github.com/suparena/pipequeue/storagemodels"
)

// Registry tracks the latest known state of named PIPE worker machines.
// Each worker identity holds exactly one record; writing replaces the
// previous snapshot and no history is retained.
type Registry struct {
	statuses datastore.DataStore[storagemodels.PipeStatus]
}

// NewRegistry creates a status registry over the given typed store.
func NewRegistry(statuses datastore.DataStore[storagemodels.PipeStatus]) *Registry {
	return &Registry{statuses: statuses}
}

// SetStatus upserts the status record for a worker identity, stamping
// last_updated with the current time. The status vocabulary is entirely
// caller-defined; the registry stores whatever it is given.
func (r *Registry) SetStatus(ctx context.Context, pipeID, status string, details storagemodels.Document) (*storagemodels.PipeStatus, error) {
	if pipeID == "" {
		return nil, errors.NewValidationError("pipe_id", "must not be empty")
	}
	if status == "" {
		return nil, errors.NewValidationError("status", "must not be empty")
	}
	if details == nil {
		details = storagemodels.Document{}
	}

	record := storagemodels.PipeStatus{
		PipeID:      pipeID,
		ItemType:    storagemodels.ItemTypeStatus,
		Status:      status,
		LastUpdated: time.Now().UnixMilli(),
		Details:     details,
	}

	if err := r.statuses.Put(ctx, record); err != nil {
		return nil, fmt.Errorf("set status for %q: %w", pipeID, err)
	}
	return &record, nil
}

// GetStatus returns the current record for a worker identity.
func (r *Registry) GetStatus(ctx context.Context, pipeID string) (*storagemodels.PipeStatus, error) {
	record, err := r.statuses.GetOne(ctx, pipeID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NewNotFoundError("PipeStatus", pipeID)
		}
		return nil, fmt.Errorf("get status for %q: %w", pipeID, err)
	}

	// Legacy records predate the persisted pipe_id attribute.
	record.PipeID = pipeID
	return record, nil
}

// DeleteStatus removes the record for a worker identity. Removing an absent
// record succeeds.
func (r *Registry) DeleteStatus(ctx context.Context, pipeID string) error {
	if pipeID == "" {
		return errors.NewValidationError("pipe_id", "must not be empty")
	}
	if err := r.statuses.Delete(ctx, pipeID); err != nil {
		return fmt.Errorf("delete status for %q: %w", pipeID, err)
	}
	return nil
}

// ListStatuses returns every current status record, in no guaranteed order.
func (r *Registry) ListStatuses(ctx context.Context) ([]storagemodels.PipeStatus, error) {
	records, err := r.statuses.Scan(ctx, &storagemodels.ScanParams{
		ItemType: storagemodels.ItemTypeStatus,
	})
	if err != nil {
		return nil, fmt.Errorf("list statuses: %w", err)
	}
	if records == nil {
		records = []storagemodels.PipeStatus{}
	}
	return records, nil
}
