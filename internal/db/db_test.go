package db

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"market-quick-price/internal/config"
	"market-quick-price/internal/engine"
)

// openTestDB opens a fresh database in a temp dir (for testing only).
func openTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestDB_MigrateToLatest(t *testing.T) {
	d := openTestDB(t)
	v, err := d.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if v != 2 {
		t.Errorf("version = %d, want 2", v)
	}
}

func TestDB_ReopenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "again.db")
	d, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := d.RecordLookup(engine.MarketResult{ItemID: 1, ItemName: "Potion", World: "Siren", Lowest: 5}, engine.SpecificWorldScope(), time.Now()); err != nil {
		t.Fatalf("RecordLookup: %v", err)
	}
	d.Close()

	d, err = Open(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer d.Close()
	n, err := d.CountLookups(0)
	if err != nil || n != 1 {
		t.Errorf("CountLookups = %d, %v; want 1", n, err)
	}
}

func TestDB_OpenPathWithSpecialCharacters(t *testing.T) {
	for _, dir := range []string{"My Games", "100% done", "a#b"} {
		t.Run(dir, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), dir, "mqp.db")
			d, err := Open(path)
			if err != nil {
				t.Fatalf("Open(%q): %v", path, err)
			}
			defer d.Close()
			v, err := d.SchemaVersion()
			if err != nil || v != 2 {
				t.Errorf("SchemaVersion = %d, %v; want 2", v, err)
			}
			if _, err := os.Stat(path); err != nil {
				t.Errorf("database file not at %s: %v", path, err)
			}
		})
	}
}

func TestDB_OpenEmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestDB_LookupRoundTrip(t *testing.T) {
	d := openTestDB(t)
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	first := engine.MarketResult{
		ItemID: 4551, ItemName: "Potion", World: "Siren", Lowest: 120,
		TotalListings: 4, TotalListedQuantity: 30, DaySalesQuantity: 12, DaySalesCount: 3,
	}
	second := engine.MarketResult{ItemID: 4555, ItemName: "Ether", World: "Balmung [Crystal (North America)]", Lowest: 900}

	if err := d.RecordLookup(first, engine.CustomWorldsScope("Siren", "Cactuar"), at); err != nil {
		t.Fatalf("RecordLookup: %v", err)
	}
	if err := d.RecordLookup(second, engine.CurrentDataCenterScope(), at.Add(time.Minute)); err != nil {
		t.Fatalf("RecordLookup: %v", err)
	}

	records, err := d.GetLookups(10)
	if err != nil {
		t.Fatalf("GetLookups: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len = %d, want 2", len(records))
	}
	if records[0].ItemName != "Ether" || records[0].Scope != "your current data center" {
		t.Errorf("records[0] = %+v", records[0])
	}
	r := records[1]
	if r.ItemID != 4551 || r.World != "Siren" || r.Lowest != 120 {
		t.Errorf("records[1] = %+v", r)
	}
	if r.Listings != 4 || r.Quantity != 30 || r.Sold24h != 12 || r.Sales24h != 3 {
		t.Errorf("counts = %d/%d/%d/%d, want 4/30/12/3", r.Listings, r.Quantity, r.Sold24h, r.Sales24h)
	}
	if r.Scope != "worlds: Siren, Cactuar" {
		t.Errorf("Scope = %q", r.Scope)
	}
	if !r.LookedUpAt.Equal(at) {
		t.Errorf("LookedUpAt = %v, want %v", r.LookedUpAt, at)
	}

	if limited, _ := d.GetLookups(1); len(limited) != 1 {
		t.Errorf("GetLookups(1) len = %d, want 1", len(limited))
	}
	if n, _ := d.CountLookups(4551); n != 1 {
		t.Errorf("CountLookups(4551) = %d, want 1", n)
	}
}

func TestDB_GetLookupsEmpty(t *testing.T) {
	d := openTestDB(t)
	records, err := d.GetLookups(0)
	if err != nil {
		t.Fatalf("GetLookups: %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("records = %#v, want empty non-nil slice", records)
	}
}

func TestDB_ClearLookups(t *testing.T) {
	d := openTestDB(t)
	old := time.Now().AddDate(0, 0, -10)
	d.RecordLookup(engine.MarketResult{ItemName: "Potion", World: "Siren"}, engine.SpecificWorldScope(), old)
	d.RecordLookup(engine.MarketResult{ItemName: "Ether", World: "Siren"}, engine.SpecificWorldScope(), time.Now())

	n, err := d.ClearLookups(5)
	if err != nil || n != 1 {
		t.Fatalf("ClearLookups(5) = %d, %v; want 1", n, err)
	}
	n, err = d.ClearLookups(0)
	if err != nil || n != 1 {
		t.Fatalf("ClearLookups(0) = %d, %v; want 1", n, err)
	}
}

func TestDB_SettingsRoundTrip(t *testing.T) {
	d := openTestDB(t)

	saved := config.Default()
	saved.DefaultWorld = "Siren"
	saved.CurrentWorld = "Gilgamesh"
	saved.PreferredWorlds = []string{"Cactuar", "Jenova"}
	saved.CooldownSeconds = 4
	saved.HistoryCapacity = 12
	if err := d.SaveSettings(saved); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	loaded := config.Default()
	loaded.Universalis.BaseURL = "http://example.test"
	if err := d.LoadSettings(loaded); err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if loaded.DefaultWorld != "Siren" || loaded.CurrentWorld != "Gilgamesh" {
		t.Errorf("worlds = %q/%q", loaded.DefaultWorld, loaded.CurrentWorld)
	}
	if !reflect.DeepEqual(loaded.PreferredWorlds, []string{"Cactuar", "Jenova"}) {
		t.Errorf("PreferredWorlds = %v", loaded.PreferredWorlds)
	}
	if loaded.CooldownSeconds != 4 || loaded.HistoryCapacity != 12 {
		t.Errorf("cooldown/capacity = %d/%d, want 4/12", loaded.CooldownSeconds, loaded.HistoryCapacity)
	}
	if loaded.Universalis.BaseURL != "http://example.test" {
		t.Errorf("BaseURL overwritten: %q", loaded.Universalis.BaseURL)
	}
}

func TestDB_LoadSettingsEmptyKeepsConfig(t *testing.T) {
	d := openTestDB(t)
	cfg := config.Default()
	cfg.DefaultWorld = "Odin"
	if err := d.LoadSettings(cfg); err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if cfg.DefaultWorld != "Odin" || cfg.HistoryCapacity != 5 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestDB_LoadSettingsClamps(t *testing.T) {
	d := openTestDB(t)
	if _, err := d.sql.Exec("INSERT INTO settings (key, value) VALUES ('history_capacity', '99'), ('cooldown_seconds', '0')"); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	if err := d.LoadSettings(cfg); err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if cfg.HistoryCapacity != 30 || cfg.CooldownSeconds != 1 {
		t.Errorf("capacity/cooldown = %d/%d, want 30/1", cfg.HistoryCapacity, cfg.CooldownSeconds)
	}
}
