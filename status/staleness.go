/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package status

import (
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/suparena/pipequeue/storagemodels"
)

// The registry never expires records on its own; freshness is a policy of
// the caller. These helpers implement the comparison callers need.

// Stale reports whether the record's last update is older than the given
// threshold relative to now.
func Stale(record *storagemodels.PipeStatus, threshold time.Duration, now time.Time) bool {
	return now.Sub(LastUpdatedTime(record)) > threshold
}

// LastUpdatedTime converts the record's epoch-millisecond timestamp to a
// time.Time.
func LastUpdatedTime(record *storagemodels.PipeStatus) time.Time {
	return time.UnixMilli(record.LastUpdated).UTC()
}

// LastUpdatedDateTime converts the record's timestamp for date-time
// formatted API responses.
func LastUpdatedDateTime(record *storagemodels.PipeStatus) strfmt.DateTime {
	return strfmt.DateTime(LastUpdatedTime(record))
}
