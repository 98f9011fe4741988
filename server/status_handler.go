/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package server

import (
	"net/http"

	"github.com/phuslu/log"

	"github.com/suparena/pipequeue/status"
	"github.com/suparena/pipequeue/storagemodels"
)

// StatusHandler handles HTTP requests for worker status records
type StatusHandler struct {
	registry *status.Registry
	logger   log.Logger
}

// NewStatusHandler creates a new StatusHandler
func NewStatusHandler(registry *status.Registry, logger log.Logger) *StatusHandler {
	return &StatusHandler{
		registry: registry,
		logger:   logger,
	}
}

type setStatusRequest struct {
	PipeID  string                 `json:"pipe_id" validate:"required"`
	Status  string                 `json:"status" validate:"required"`
	Details storagemodels.Document `json:"details"`
}

// SetStatus handles POST /status
func (h *StatusHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req setStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	record, err := h.registry.SetStatus(r.Context(), req.PipeID, req.Status, req.Details)
	if err != nil {
		h.logFailure(r, err, "set status failed")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// ListStatuses handles GET /status
func (h *StatusHandler) ListStatuses(w http.ResponseWriter, r *http.Request) {
	records, err := h.registry.ListStatuses(r.Context())
	if err != nil {
		h.logFailure(r, err, "list statuses failed")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"statuses": records,
		"count":    len(records),
	})
}

// GetStatus handles GET /status/{pipe_id}
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	pipeID := r.PathValue("pipe_id")

	record, err := h.registry.GetStatus(r.Context(), pipeID)
	if err != nil {
		h.logFailure(r, err, "get status failed")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// DeleteStatus handles DELETE /status/{pipe_id}
func (h *StatusHandler) DeleteStatus(w http.ResponseWriter, r *http.Request) {
	pipeID := r.PathValue("pipe_id")

	if err := h.registry.DeleteStatus(r.Context(), pipeID); err != nil {
		h.logFailure(r, err, "delete status failed")
		writeDomainError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Status for pipe '"+pipeID+"' deleted")
}

func (h *StatusHandler) logFailure(r *http.Request, err error, msg string) {
	if !isInternal(err) {
		return
	}
	h.logger.Error().
		Err(err).
		Str("path", r.URL.Path).
		Msg(msg)
}
