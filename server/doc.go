/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package server exposes the queue manager and status registry over HTTP.
//
// Routes are registered on a standard ServeMux and wrapped with a
// recovery, CORS and request-logging middleware chain. All responses are
// JSON; domain errors are mapped onto HTTP status codes (not found and
// empty-queue conditions become 404, create conflicts 409, invalid input
// 400) and internal failures are reported with a generic message.
package server
