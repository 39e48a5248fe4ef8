package world

import "testing"

func TestFindWorld_CaseInsensitive(t *testing.T) {
	tests := []struct {
		name       string
		world      string
		wantRegion string
		wantDC     string
	}{
		{name: "exact", world: "Gilgamesh", wantRegion: "North America", wantDC: "Aether"},
		{name: "lower", world: "phoenix", wantRegion: "Europe", wantDC: "Light"},
		{name: "upper with spaces", world: "  TONBERRY ", wantRegion: "Japan", wantDC: "Elemental"},
		{name: "oceania", world: "Zurvan", wantRegion: "Oceania", wantDC: "Materia"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, dc, ok := Default.FindWorld(tt.world)
			if !ok {
				t.Fatalf("FindWorld(%q) not found", tt.world)
			}
			if r.Name != tt.wantRegion || dc.Name != tt.wantDC {
				t.Errorf("FindWorld(%q) = %s/%s, want %s/%s", tt.world, r.Name, dc.Name, tt.wantRegion, tt.wantDC)
			}
		})
	}
}

func TestFindWorld_Unknown(t *testing.T) {
	if _, _, ok := Default.FindWorld("Atlantis"); ok {
		t.Error("FindWorld(Atlantis) want not found")
	}
	if _, _, ok := Default.FindWorld(""); ok {
		t.Error("FindWorld(\"\") want not found")
	}
}

func TestFindRegion_ByNameOrID(t *testing.T) {
	for _, name := range []string{"North America", "north america", "North-America", "NORTH-AMERICA"} {
		r, ok := Default.FindRegion(name)
		if !ok {
			t.Errorf("FindRegion(%q) not found", name)
			continue
		}
		if r.ID != "North-America" {
			t.Errorf("FindRegion(%q).ID = %q", name, r.ID)
		}
	}
	if _, ok := Default.FindRegion("Antarctica"); ok {
		t.Error("FindRegion(Antarctica) want not found")
	}
}

func TestNewCatalog_FirstRegistrationWins(t *testing.T) {
	first := &DataCenter{Name: "First", ID: "First", Worlds: []string{"Shared", "Alone"}}
	second := &DataCenter{Name: "Second", ID: "Second", Worlds: []string{"shared"}}
	c := NewCatalog([]*Region{
		{Name: "A", ID: "A", DataCenters: []*DataCenter{first}},
		{Name: "B", ID: "B", DataCenters: []*DataCenter{second}},
	})

	r, dc, ok := c.FindWorld("SHARED")
	if !ok {
		t.Fatal("FindWorld(SHARED) not found")
	}
	if r.Name != "A" || dc != first {
		t.Errorf("FindWorld(SHARED) = %s/%s, want A/First", r.Name, dc.Name)
	}
}

func TestCatalog_IsStrictTree(t *testing.T) {
	owners := make(map[string]string)
	for _, r := range Default.Regions() {
		for _, dc := range r.DataCenters {
			for _, w := range dc.Worlds {
				if prev, ok := owners[w]; ok {
					t.Errorf("world %s listed under %s and %s", w, prev, dc.Name)
				}
				owners[w] = dc.Name
			}
		}
	}
	if len(owners) == 0 {
		t.Fatal("catalog has no worlds")
	}
}

func TestContains(t *testing.T) {
	r, dc, _ := Default.FindWorld("Siren")
	if !dc.Contains("siren") || !r.Contains("Balmung") {
		t.Error("Contains should match worlds in the same DC/region")
	}
	if dc.Contains("Balmung") {
		t.Error("Aether should not contain Balmung")
	}
	if r.Contains("Phoenix") {
		t.Error("North America should not contain Phoenix")
	}
}

func TestFindDataCenter_ByNameOrID(t *testing.T) {
	for _, name := range []string{"Aether", "aether", "  AETHER "} {
		dc, ok := Default.FindDataCenter(name)
		if !ok || dc.Name != "Aether" {
			t.Errorf("FindDataCenter(%q) = %v, %v; want Aether", name, dc, ok)
		}
	}
	if _, ok := Default.FindDataCenter("Nowhere"); ok {
		t.Error("FindDataCenter(Nowhere) want not found")
	}
}

func TestRegionNames_Order(t *testing.T) {
	want := []string{"North America", "Europe", "Japan", "Oceania"}
	got := Default.RegionNames()
	if len(got) != len(want) {
		t.Fatalf("RegionNames() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("RegionNames()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
