/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package server

import (
	"net/http"
)

// setupRoutes wires all handlers onto a ServeMux.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	queues := NewQueueHandler(s.svc.Queues, s.logger)
	statuses := NewStatusHandler(s.svc.Statuses, s.logger)

	// Queue Manager
	mux.HandleFunc("POST /queues", queues.CreateQueue)
	mux.HandleFunc("GET /queues", queues.ListQueues)
	mux.HandleFunc("POST /queues/enqueue", queues.Enqueue)
	mux.HandleFunc("GET /queues/{name}/peek", queues.Peek)
	mux.HandleFunc("POST /queues/{name}/dequeue", queues.Dequeue)
	mux.HandleFunc("DELETE /queues/{name}", queues.DeleteQueue)

	// Status Registry
	mux.HandleFunc("POST /status", statuses.SetStatus)
	mux.HandleFunc("GET /status", statuses.ListStatuses)
	mux.HandleFunc("GET /status/{pipe_id}", statuses.GetStatus)
	mux.HandleFunc("DELETE /status/{pipe_id}", statuses.DeleteStatus)

	// Service surface
	mux.HandleFunc("GET /healthz", Healthz)
	mux.HandleFunc("GET /version", Version)

	return mux
}
