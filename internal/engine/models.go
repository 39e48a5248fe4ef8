package engine

import "strings"

// TargetKind is the granularity of a query target.
type TargetKind int

const (
	TargetWorld TargetKind = iota
	TargetDataCenter
	TargetRegion
)

func (k TargetKind) String() string {
	switch k {
	case TargetWorld:
		return "world"
	case TargetDataCenter:
		return "data_center"
	case TargetRegion:
		return "region"
	}
	return "unknown"
}

// QueryTarget is one API-addressable unit queried once per lookup.
type QueryTarget struct {
	Kind  TargetKind `json:"kind"`
	ID    string     `json:"id"`    // identifier sent to the market API
	Label string     `json:"label"` // human-readable
}

// Sale is a single completed transaction.
type Sale struct {
	PricePerUnit int64 `json:"price_per_unit"`
	Quantity     int   `json:"quantity"`
	Timestamp    int64 `json:"timestamp"` // unix seconds
}

// MarketResult is the outcome of one successful lookup. Treat as immutable.
type MarketResult struct {
	ItemID              uint32 `json:"item_id"`
	IconID              uint32 `json:"icon_id"`
	ItemName            string `json:"item_name"`
	World               string `json:"world"`
	Lowest              int64  `json:"lowest"`
	LastUploadMs        int64  `json:"last_upload_ms"`
	TotalListings       int    `json:"total_listings"`
	TotalListedQuantity int    `json:"total_listed_quantity"`
	LatestSale          *Sale  `json:"latest_sale,omitempty"`
	DaySalesQuantity    int    `json:"day_sales_quantity"`
	DaySalesCount       int    `json:"day_sales_count"`
}

// Clone returns a copy that shares no memory with r.
func (r MarketResult) Clone() MarketResult {
	if r.LatestSale != nil {
		s := *r.LatestSale
		r.LatestSale = &s
	}
	return r
}

// targetSummary joins target labels for user-facing messages.
func targetSummary(targets []QueryTarget) string {
	labels := make([]string, len(targets))
	for i, t := range targets {
		labels[i] = t.Label
	}
	return strings.Join(labels, ", ")
}
