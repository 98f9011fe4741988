/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package queue

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// itemIDGenerator produces queue item ids whose lexicographic order matches
// arrival order: a millisecond timestamp prefix, a per-millisecond sequence
// number, and a random suffix.
//
// The sequence number makes ordering deterministic for items generated in
// the same millisecond by one process; the uuid fragment keeps ids from
// separate processes collision-free.
type itemIDGenerator struct {
	mu         sync.Mutex
	lastMillis int64
	seq        uint32
}

// maxSeqPerMilli is the largest sequence number that still fits the fixed
// four-digit field; beyond it the generator borrows the next millisecond.
const maxSeqPerMilli = 9999

// next returns an id that sorts strictly after every id this generator has
// produced for an earlier or equal timestamp.
func (g *itemIDGenerator) next(now time.Time) string {
	millis := now.UnixMilli()

	g.mu.Lock()
	switch {
	case millis > g.lastMillis:
		g.lastMillis = millis
		g.seq = 0
	case g.seq < maxSeqPerMilli:
		g.seq++
	default:
		// Sequence space for this millisecond is spent; move to the next
		// one so the fixed-width field keeps sorting correctly.
		g.lastMillis++
		g.seq = 0
	}
	millis = g.lastMillis
	seq := g.seq
	g.mu.Unlock()

	return fmt.Sprintf("%d_%04d%s", millis, seq, uuid.NewString()[:8])
}
