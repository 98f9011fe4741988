/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package server

import (
	"net/http"
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/suparena/pipequeue"
)

// Healthz handles GET /healthz
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"server_time": strfmt.DateTime(time.Now().UTC()),
	})
}

// Version handles GET /version
func Version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, pipequeue.GetVersionInfo())
}
