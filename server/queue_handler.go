/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/phuslu/log"

	"github.com/suparena/pipequeue/queue"
	"github.com/suparena/pipequeue/storagemodels"
)

// QueueHandler handles HTTP requests for queue operations
type QueueHandler struct {
	manager *queue.Manager
	logger  log.Logger
}

// NewQueueHandler creates a new QueueHandler
func NewQueueHandler(manager *queue.Manager, logger log.Logger) *QueueHandler {
	return &QueueHandler{
		manager: manager,
		logger:  logger,
	}
}

type createQueueRequest struct {
	QueueName string `json:"queue_name" validate:"required"`
}

type enqueueRequest struct {
	QueueName string                 `json:"queue_name" validate:"required"`
	Payload   storagemodels.Document `json:"payload"`
	Sender    string                 `json:"sender"`
}

// CreateQueue handles POST /queues
func (h *QueueHandler) CreateQueue(w http.ResponseWriter, r *http.Request) {
	var req createQueueRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if _, err := h.manager.CreateQueue(r.Context(), req.QueueName); err != nil {
		h.logFailure(r, err, "create queue failed")
		writeDomainError(w, err)
		return
	}

	writeMessage(w, http.StatusCreated, fmt.Sprintf("Queue '%s' created successfully", req.QueueName))
}

// ListQueues handles GET /queues
func (h *QueueHandler) ListQueues(w http.ResponseWriter, r *http.Request) {
	counts, err := h.manager.ListQueues(r.Context())
	if err != nil {
		h.logFailure(r, err, "list queues failed")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"queues": counts,
	})
}

// Enqueue handles POST /queues/enqueue
func (h *QueueHandler) Enqueue(w http.ResponseWriter, r *http.Request) {
	var req enqueueRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.manager.Enqueue(r.Context(), req.QueueName, req.Payload, req.Sender)
	if err != nil {
		h.logFailure(r, err, "enqueue failed")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// Peek handles GET /queues/{name}/peek
func (h *QueueHandler) Peek(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	items, err := h.manager.Peek(r.Context(), name, limit)
	if err != nil {
		h.logFailure(r, err, "peek failed")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"queue_name": name,
		"items":      items,
		"count":      len(items),
	})
}

// Dequeue handles POST /queues/{name}/dequeue
func (h *QueueHandler) Dequeue(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	item, err := h.manager.Dequeue(r.Context(), name)
	if err != nil {
		h.logFailure(r, err, "dequeue failed")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// DeleteQueue handles DELETE /queues/{name}
func (h *QueueHandler) DeleteQueue(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	deleted, err := h.manager.DeleteQueue(r.Context(), name)
	if err != nil {
		h.logFailure(r, err, "delete queue failed")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":         fmt.Sprintf("Queue '%s' deleted", name),
		"deleted_records": deleted,
	})
}

func (h *QueueHandler) logFailure(r *http.Request, err error, msg string) {
	if !isInternal(err) {
		return
	}
	h.logger.Error().
		Err(err).
		Str("path", r.URL.Path).
		Msg(msg)
}
