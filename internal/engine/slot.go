package engine

import (
	"sync/atomic"
	"time"
)

// Snapshot is one published current result.
type Snapshot struct {
	Version     uint64       `json:"version"`
	Result      MarketResult `json:"result"`
	PublishedAt time.Time    `json:"published_at"`
}

// Slot holds the latest published result. Writers replace it wholesale and
// readers always see a complete snapshot; the last writer wins.
type Slot struct {
	cur atomic.Pointer[Snapshot]
}

// Publish stores a copy of r as the new current result and returns its version.
func (s *Slot) Publish(r MarketResult, at time.Time) uint64 {
	for {
		old := s.cur.Load()
		next := &Snapshot{Version: 1, Result: r.Clone(), PublishedAt: at}
		if old != nil {
			next.Version = old.Version + 1
		}
		if s.cur.CompareAndSwap(old, next) {
			return next.Version
		}
	}
}

// Load returns the current snapshot, if any result was published.
func (s *Slot) Load() (Snapshot, bool) {
	p := s.cur.Load()
	if p == nil {
		return Snapshot{}, false
	}
	snap := *p
	snap.Result = snap.Result.Clone()
	return snap, true
}
