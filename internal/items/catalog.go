package items

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"market-quick-price/internal/logger"
)

// Item is a tradeable item from the game data dump.
type Item struct {
	ID     uint32 `json:"id"`
	Name   string `json:"name"`
	IconID uint32 `json:"icon"`
}

// Catalog holds items in dump order plus lookup indexes.
type Catalog struct {
	items []Item
	lower []string // lowercase names, parallel to items
	byID  map[uint32]int
}

// NewCatalog builds a catalog. Items with blank names are kept for id lookups
// but never match a name query.
func NewCatalog(list []Item) *Catalog {
	c := &Catalog{
		items: list,
		lower: make([]string, len(list)),
		byID:  make(map[uint32]int, len(list)),
	}
	for i, it := range list {
		c.lower[i] = strings.ToLower(strings.TrimSpace(it.Name))
		if _, ok := c.byID[it.ID]; !ok {
			c.byID[it.ID] = i
		}
	}
	return c
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Find resolves a free-text query: exact match first, then prefix, then
// substring. Matching is case-insensitive and the first hit in dump order
// wins within each tier.
func (c *Catalog) Find(query string) (Item, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Item{}, false
	}
	tiers := []func(name string) bool{
		func(name string) bool { return name == q },
		func(name string) bool { return strings.HasPrefix(name, q) },
		func(name string) bool { return strings.Contains(name, q) },
	}
	for _, match := range tiers {
		for i, name := range c.lower {
			if name != "" && match(name) {
				return c.items[i], true
			}
		}
	}
	return Item{}, false
}

// Search returns up to limit items whose name contains query, in dump order.
func (c *Catalog) Search(query string, limit int) []Item {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || limit <= 0 {
		return []Item{}
	}
	out := make([]Item, 0, limit)
	for i, name := range c.lower {
		if name != "" && strings.Contains(name, q) {
			out = append(out, c.items[i])
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// ByID returns the item with the given id.
func (c *Catalog) ByID(id uint32) (Item, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

// Load reads a JSONL item dump from path.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open items: %w", err)
	}
	defer f.Close()

	c, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read items %s: %w", path, err)
	}
	logger.Success("Items", fmt.Sprintf("Loaded %d items from %s", c.Len(), path))
	return c, nil
}

// Read parses one JSON item per line. Blank and malformed lines are skipped.
func Read(r io.Reader) (*Catalog, error) {
	var list []Item
	skipped := 0

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var it Item
		if err := json.Unmarshal(line, &it); err != nil || it.ID == 0 {
			skipped++
			continue
		}
		list = append(list, it)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if skipped > 0 {
		logger.Warn("Items", fmt.Sprintf("Skipped %d malformed lines", skipped))
	}
	return NewCatalog(list), nil
}
