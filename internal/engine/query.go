package engine

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"market-quick-price/internal/items"
	"market-quick-price/internal/logger"
	"market-quick-price/internal/universalis"
	"market-quick-price/internal/world"
)

// SalesWindow is the trailing window used for the "sold in 24h" aggregate.
const SalesWindow = 24 * time.Hour

// PriceSource returns market data for one target identifier and item.
type PriceSource interface {
	FetchMarket(ctx context.Context, target string, itemID uint32) (*universalis.MarketData, error)
}

// NoDataError reports that no target produced a listing for the item.
type NoDataError struct {
	Item    string
	Targets []QueryTarget
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("No market listings for %s in %s.", e.Item, targetSummary(e.Targets))
}

// Multiplexer queries every target concurrently and keeps the cheapest result.
type Multiplexer struct {
	Source  PriceSource
	Catalog *world.Catalog // optional, only used to flag inconsistent world labels
	Now     func() time.Time
}

// QueryCheapest issues one query per target, waits for all of them, and
// returns the result with the lowest price per unit. Ties go to the earlier
// target. Failed or empty targets contribute nothing; when every target is
// empty the error is a *NoDataError.
func (m *Multiplexer) QueryCheapest(ctx context.Context, item items.Item, targets []QueryTarget) (MarketResult, error) {
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	at := now()

	candidates := make([]*MarketResult, len(targets))
	var g errgroup.Group
	for i, t := range targets {
		g.Go(func() error {
			candidates[i] = m.queryTarget(ctx, item, t, at)
			return nil
		})
	}
	// Tasks never fail; a failed target is a nil candidate.
	_ = g.Wait()

	var best *MarketResult
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if best == nil || c.Lowest < best.Lowest {
			best = c
		}
	}
	if best == nil {
		return MarketResult{}, &NoDataError{Item: item.Name, Targets: targets}
	}
	return *best, nil
}

// queryTarget never fails: errors, empty listings and panics all yield nil.
func (m *Multiplexer) queryTarget(ctx context.Context, item items.Item, t QueryTarget, at time.Time) (res *MarketResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Query", fmt.Sprintf("target %s panicked: %v", t.ID, r))
			res = nil
		}
	}()

	data, err := m.Source.FetchMarket(ctx, t.ID, item.ID)
	if err != nil {
		logger.Debug("Query", fmt.Sprintf("target %s item %d: %v", t.ID, item.ID, err))
		return nil
	}
	if data == nil || len(data.Listings) == 0 {
		logger.Debug("Query", fmt.Sprintf("target %s item %d: no listings", t.ID, item.ID))
		return nil
	}

	lowest := data.Listings[0]
	quantity := 0
	for _, l := range data.Listings {
		if l.PricePerUnit < lowest.PricePerUnit {
			lowest = l
		}
		quantity += l.Quantity
	}

	label := t.Label
	if t.Kind != TargetWorld {
		label = fmt.Sprintf("%s [%s]", lowest.WorldName, t.Label)
		if m.outsideTarget(t, lowest.WorldName) {
			logger.Warn("Query", fmt.Sprintf("listing world %s is not part of %s", lowest.WorldName, t.Label))
		}
	}

	latest, count, sold := AggregateSales(data.RecentHistory, at, SalesWindow)
	return &MarketResult{
		ItemID:              item.ID,
		IconID:              item.IconID,
		ItemName:            item.Name,
		World:               label,
		Lowest:              lowest.PricePerUnit,
		LastUploadMs:        data.LastUploadTime,
		TotalListings:       len(data.Listings),
		TotalListedQuantity: quantity,
		LatestSale:          latest,
		DaySalesQuantity:    sold,
		DaySalesCount:       count,
	}
}

// outsideTarget reports whether the catalog knows t and worldName is not one
// of its worlds. Unknown targets and worlds are never flagged. The API label
// is used verbatim either way.
func (m *Multiplexer) outsideTarget(t QueryTarget, worldName string) bool {
	if m.Catalog == nil || worldName == "" {
		return false
	}
	if _, _, known := m.Catalog.FindWorld(worldName); !known {
		return false
	}
	switch t.Kind {
	case TargetDataCenter:
		if dc, ok := m.Catalog.FindDataCenter(t.ID); ok {
			return !dc.Contains(worldName)
		}
	case TargetRegion:
		if r, ok := m.Catalog.FindRegion(t.ID); ok {
			return !r.Contains(worldName)
		}
	}
	return false
}

// AggregateSales returns the most recent sale (first one wins on equal
// timestamps) and the count and summed quantity of sales at or after now-window.
func AggregateSales(history []universalis.Sale, now time.Time, window time.Duration) (latest *Sale, count, quantity int) {
	cutoff := now.Add(-window).Unix()
	for _, h := range history {
		if latest == nil || h.Timestamp > latest.Timestamp {
			latest = &Sale{PricePerUnit: h.PricePerUnit, Quantity: h.Quantity, Timestamp: h.Timestamp}
		}
		if h.Timestamp >= cutoff {
			count++
			quantity += h.Quantity
		}
	}
	return latest, count, quantity
}
