package engine

import (
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"market-quick-price/internal/config"
)

// historyKey identifies one history row: item name (case-insensitive) and world label (exact).
type historyKey struct {
	item  string
	world string
}

func keyOf(r MarketResult) historyKey {
	return historyKey{item: strings.ToLower(r.ItemName), world: r.World}
}

// History is a bounded most-recent-first list of lookup results with at most
// one entry per (item, world) key. Recording an existing key moves it to the front.
type History struct {
	mu       sync.Mutex
	cache    *lru.Cache[historyKey, MarketResult]
	capacity int
}

// NewHistory creates a History; capacity is clamped to the configured bounds.
func NewHistory(capacity int) *History {
	capacity = config.ClampHistoryCapacity(capacity)
	// New only fails for a non-positive size, which the clamp rules out.
	cache, _ := lru.New[historyKey, MarketResult](capacity)
	return &History{cache: cache, capacity: capacity}
}

// Capacity returns the effective capacity.
func (h *History) Capacity() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.capacity
}

// SetCapacity changes the bound, evicting the oldest entries if needed.
func (h *History) SetCapacity(capacity int) {
	capacity = config.ClampHistoryCapacity(capacity)
	h.mu.Lock()
	defer h.mu.Unlock()
	if capacity == h.capacity {
		return
	}
	h.capacity = capacity
	h.cache.Resize(capacity)
}

// Record inserts r at the front, replacing any entry with the same key.
func (h *History) Record(r MarketResult) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cache.Add(keyOf(r), r.Clone())
}

// List returns the entries, most recent first.
func (h *History) List() []MarketResult {
	h.mu.Lock()
	defer h.mu.Unlock()
	vals := h.cache.Values() // oldest first
	out := make([]MarketResult, len(vals))
	for i, v := range vals {
		out[len(vals)-1-i] = v.Clone()
	}
	return out
}

// At returns the entry at position i (0 = most recent) without touching recency.
func (h *History) At(i int) (MarketResult, bool) {
	list := h.List()
	if i < 0 || i >= len(list) {
		return MarketResult{}, false
	}
	return list[i], true
}

// Len returns the number of entries.
func (h *History) Len() int {
	return h.cache.Len()
}
