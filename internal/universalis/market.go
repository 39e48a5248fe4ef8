package universalis

import (
	"errors"
	"time"

	"github.com/tidwall/gjson"
)

// Listing is one active sell order.
type Listing struct {
	PricePerUnit int64
	Quantity     int
	WorldName    string // empty for single-world queries
}

// Sale is one completed transaction from the recent history series.
type Sale struct {
	PricePerUnit int64
	Quantity     int
	Timestamp    int64 // unix seconds
}

// MarketData mirrors the parts of the market response the lookup uses.
type MarketData struct {
	LastUploadTime int64 // unix milliseconds
	Listings       []Listing
	RecentHistory  []Sale
	Latency        time.Duration
}

// ErrInvalidJSON is returned by Decode for a body that is not JSON.
var ErrInvalidJSON = errors.New("universalis: invalid JSON response")

// Decode parses a market response body. Missing listings or history decode as empty.
func Decode(body []byte) (*MarketData, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrInvalidJSON
	}
	root := gjson.ParseBytes(body)

	data := &MarketData{
		LastUploadTime: root.Get("lastUploadTime").Int(),
	}
	root.Get("listings").ForEach(func(_, l gjson.Result) bool {
		data.Listings = append(data.Listings, Listing{
			PricePerUnit: l.Get("pricePerUnit").Int(),
			Quantity:     int(l.Get("quantity").Int()),
			WorldName:    l.Get("worldName").String(),
		})
		return true
	})
	root.Get("recentHistory").ForEach(func(_, h gjson.Result) bool {
		data.RecentHistory = append(data.RecentHistory, Sale{
			PricePerUnit: h.Get("pricePerUnit").Int(),
			Quantity:     int(h.Get("quantity").Int()),
			Timestamp:    h.Get("timestamp").Int(),
		})
		return true
	})
	return data, nil
}
