/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	pqerrors "github.com/suparena/pipequeue/errors"
)

var validate = validator.New()

// writeJSON writes a JSON response with the specified status code and data.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// writeMessage writes a standard confirmation JSON response.
func writeMessage(w http.ResponseWriter, statusCode int, message string) error {
	return writeJSON(w, statusCode, map[string]string{
		"message": message,
	})
}

// writeError writes a standard error JSON response.
func writeError(w http.ResponseWriter, statusCode int, message string) error {
	return writeJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// decodeJSON decodes and validates a request body into dst. On failure it
// writes a 400 response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return false
	}
	return true
}

// writeDomainError maps service errors onto HTTP status codes. Internal
// failures are logged by the caller and reported with a generic message so
// storage details never reach clients.
func writeDomainError(w http.ResponseWriter, err error) error {
	switch {
	case pqerrors.IsNotFound(err), pqerrors.IsQueueEmpty(err):
		return writeError(w, http.StatusNotFound, err.Error())
	case pqerrors.IsAlreadyExists(err):
		return writeError(w, http.StatusConflict, err.Error())
	case pqerrors.IsValidationError(err):
		return writeError(w, http.StatusBadRequest, err.Error())
	default:
		return writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// isInternal reports whether err falls outside the domain error taxonomy.
func isInternal(err error) bool {
	return !pqerrors.IsNotFound(err) &&
		!pqerrors.IsQueueEmpty(err) &&
		!pqerrors.IsAlreadyExists(err) &&
		!pqerrors.IsValidationError(err)
}
