package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"market-quick-price/internal/items"
	"market-quick-price/internal/universalis"
	"market-quick-price/internal/world"
)

// fakeSource serves canned market data per target id.
type fakeSource struct {
	mu    sync.Mutex
	data  map[string]*universalis.MarketData
	errs  map[string]error
	panic map[string]bool
	calls []string
	delay time.Duration
}

func (f *fakeSource) FetchMarket(_ context.Context, target string, _ uint32) (*universalis.MarketData, error) {
	f.mu.Lock()
	f.calls = append(f.calls, target)
	d, err, p := f.data[target], f.errs[target], f.panic[target]
	f.mu.Unlock()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if p {
		panic("boom")
	}
	if err != nil {
		return nil, err
	}
	if d == nil {
		return &universalis.MarketData{}, nil
	}
	return d, nil
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

var potion = items.Item{ID: 4551, Name: "Potion", IconID: 20601}

func fixedNow() time.Time { return time.Unix(1_700_000_000, 0) }

func TestQueryCheapest_WorldTargets(t *testing.T) {
	src := &fakeSource{data: map[string]*universalis.MarketData{
		"A": {Listings: []universalis.Listing{{PricePerUnit: 120, Quantity: 2}, {PricePerUnit: 150, Quantity: 3}}},
		"B": {Listings: []universalis.Listing{{PricePerUnit: 90, Quantity: 5}}},
	}}
	m := &Multiplexer{Source: src, Now: fixedNow}
	targets := []QueryTarget{worldTarget("A"), worldTarget("B")}

	got, err := m.QueryCheapest(context.Background(), potion, targets)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Lowest != 90 {
		t.Errorf("Lowest = %d, want 90", got.Lowest)
	}
	if got.World != "B" {
		t.Errorf("World = %q, want B", got.World)
	}
	if got.TotalListings != 1 || got.TotalListedQuantity != 5 {
		t.Errorf("listings = %d/%d, want 1/5", got.TotalListings, got.TotalListedQuantity)
	}
	if got.ItemID != potion.ID || got.IconID != potion.IconID || got.ItemName != "Potion" {
		t.Errorf("item fields = %+v", got)
	}
}

func TestQueryCheapest_MultiWorldLabel(t *testing.T) {
	src := &fakeSource{data: map[string]*universalis.MarketData{
		"Aether": {Listings: []universalis.Listing{
			{PricePerUnit: 120, Quantity: 1, WorldName: "Siren"},
			{PricePerUnit: 150, Quantity: 1, WorldName: "Siren"},
		}},
		"Crystal": {Listings: []universalis.Listing{{PricePerUnit: 90, Quantity: 1, WorldName: "Balmung"}}},
	}}
	m := &Multiplexer{Source: src, Catalog: world.Default, Now: fixedNow}
	na := world.Default.Regions()[0]
	targets := []QueryTarget{
		dataCenterTarget(na, na.DataCenters[0]),
		dataCenterTarget(na, na.DataCenters[1]),
	}

	got, err := m.QueryCheapest(context.Background(), potion, targets)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Lowest != 90 {
		t.Errorf("Lowest = %d, want 90", got.Lowest)
	}
	if want := "Balmung [Crystal (North America)]"; got.World != want {
		t.Errorf("World = %q, want %q", got.World, want)
	}
}

func TestQueryCheapest_TieGoesToEarlierTarget(t *testing.T) {
	src := &fakeSource{
		data: map[string]*universalis.MarketData{
			"A": {Listings: []universalis.Listing{{PricePerUnit: 100, Quantity: 1}}},
			"B": {Listings: []universalis.Listing{{PricePerUnit: 100, Quantity: 1}}},
		},
		delay: 10 * time.Millisecond,
	}
	m := &Multiplexer{Source: src, Now: fixedNow}
	for i := 0; i < 5; i++ {
		got, err := m.QueryCheapest(context.Background(), potion, []QueryTarget{worldTarget("A"), worldTarget("B")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.World != "A" {
			t.Fatalf("World = %q, want A", got.World)
		}
	}
}

func TestQueryCheapest_FailuresAreSkipped(t *testing.T) {
	src := &fakeSource{
		data:  map[string]*universalis.MarketData{"C": {Listings: []universalis.Listing{{PricePerUnit: 300, Quantity: 1}}}},
		errs:  map[string]error{"A": errors.New("connection refused")},
		panic: map[string]bool{"B": true},
	}
	m := &Multiplexer{Source: src, Now: fixedNow}
	got, err := m.QueryCheapest(context.Background(), potion, []QueryTarget{worldTarget("A"), worldTarget("B"), worldTarget("C")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.World != "C" || got.Lowest != 300 {
		t.Errorf("got %s @ %d, want C @ 300", got.World, got.Lowest)
	}
	if n := src.callCount(); n != 3 {
		t.Errorf("calls = %d, want 3", n)
	}
}

func TestQueryCheapest_NoData(t *testing.T) {
	src := &fakeSource{errs: map[string]error{"B": errors.New("500")}}
	m := &Multiplexer{Source: src, Now: fixedNow}
	targets := []QueryTarget{worldTarget("A"), worldTarget("B")}

	_, err := m.QueryCheapest(context.Background(), potion, targets)
	var noData *NoDataError
	if !errors.As(err, &noData) {
		t.Fatalf("err = %v, want *NoDataError", err)
	}
	if want := "No market listings for Potion in A, B."; err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}
}

func TestOutsideTarget(t *testing.T) {
	// Shared is registered under both data centers.
	first := &world.DataCenter{Name: "First", ID: "First", Worlds: []string{"Shared", "Alone"}}
	second := &world.DataCenter{Name: "Second", ID: "Second", Worlds: []string{"Shared", "Other"}}
	catalog := world.NewCatalog([]*world.Region{
		{Name: "A", ID: "A", DataCenters: []*world.DataCenter{first}},
		{Name: "B", ID: "B", DataCenters: []*world.DataCenter{second}},
	})
	m := &Multiplexer{Catalog: catalog}

	tests := []struct {
		name   string
		target QueryTarget
		world  string
		want   bool
	}{
		{"dc member", QueryTarget{Kind: TargetDataCenter, ID: "First"}, "alone", false},
		{"shared world in second dc", QueryTarget{Kind: TargetDataCenter, ID: "Second"}, "Shared", false},
		{"shared world in second region", QueryTarget{Kind: TargetRegion, ID: "B"}, "Shared", false},
		{"foreign dc world", QueryTarget{Kind: TargetDataCenter, ID: "Second"}, "Alone", true},
		{"foreign region world", QueryTarget{Kind: TargetRegion, ID: "A"}, "Other", true},
		{"unknown world", QueryTarget{Kind: TargetDataCenter, ID: "First"}, "Mystery", false},
		{"unknown target", QueryTarget{Kind: TargetDataCenter, ID: "Elsewhere"}, "Alone", false},
		{"world target", QueryTarget{Kind: TargetWorld, ID: "Alone"}, "Other", false},
		{"blank world", QueryTarget{Kind: TargetDataCenter, ID: "First"}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.outsideTarget(tt.target, tt.world); got != tt.want {
				t.Errorf("outsideTarget(%s, %q) = %v, want %v", tt.target.ID, tt.world, got, tt.want)
			}
		})
	}
	if (&Multiplexer{}).outsideTarget(QueryTarget{Kind: TargetDataCenter, ID: "First"}, "Other") {
		t.Error("no catalog should never flag")
	}
}

func TestAggregateSales(t *testing.T) {
	now := fixedNow()
	ts := now.Unix()
	history := []universalis.Sale{
		{PricePerUnit: 10, Quantity: 3, Timestamp: ts - 1000},
		{PricePerUnit: 20, Quantity: 4, Timestamp: ts - 90000},
		{PricePerUnit: 30, Quantity: 5, Timestamp: ts - 200000},
	}
	latest, count, qty := AggregateSales(history, now, SalesWindow)
	if latest == nil || latest.Timestamp != ts-1000 || latest.PricePerUnit != 10 {
		t.Errorf("latest = %+v, want the now-1000 sale", latest)
	}
	// 90000s is outside a 86400s window.
	if count != 1 || qty != 3 {
		t.Errorf("count/qty = %d/%d, want 1/3", count, qty)
	}

	// Widening the window picks up the second entry.
	_, count, qty = AggregateSales(history, now, 100000*time.Second)
	if count != 2 || qty != 7 {
		t.Errorf("wide window count/qty = %d/%d, want 2/7", count, qty)
	}
}

func TestAggregateSales_Boundary(t *testing.T) {
	now := fixedNow()
	history := []universalis.Sale{{PricePerUnit: 1, Quantity: 2, Timestamp: now.Unix() - 86400}}
	_, count, qty := AggregateSales(history, now, SalesWindow)
	if count != 1 || qty != 2 {
		t.Errorf("count/qty = %d/%d, want 1/2 (cutoff is inclusive)", count, qty)
	}
}

func TestAggregateSales_Empty(t *testing.T) {
	latest, count, qty := AggregateSales(nil, fixedNow(), SalesWindow)
	if latest != nil || count != 0 || qty != 0 {
		t.Errorf("got %+v %d %d, want nil 0 0", latest, count, qty)
	}
}

func TestAggregateSales_EqualTimestampsFirstWins(t *testing.T) {
	now := fixedNow()
	ts := now.Unix() - 10
	history := []universalis.Sale{
		{PricePerUnit: 7, Quantity: 1, Timestamp: ts},
		{PricePerUnit: 8, Quantity: 1, Timestamp: ts},
	}
	latest, _, _ := AggregateSales(history, now, SalesWindow)
	if latest == nil || latest.PricePerUnit != 7 {
		t.Errorf("latest = %+v, want price 7", latest)
	}
}
