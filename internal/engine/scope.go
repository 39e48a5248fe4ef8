package engine

import (
	"fmt"
	"strings"
)

// ScopeKind selects how broadly a lookup searches.
type ScopeKind int

const (
	SpecificWorld ScopeKind = iota
	CurrentDataCenter
	CurrentRegion
	CustomRegions
	CustomWorlds
)

var scopeKindNames = map[ScopeKind]string{
	SpecificWorld:     "world",
	CurrentDataCenter: "dc",
	CurrentRegion:     "region",
	CustomRegions:     "regions",
	CustomWorlds:      "worlds",
}

func (k ScopeKind) String() string {
	if s, ok := scopeKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ScopeKind(%d)", int(k))
}

// ParseScopeKind accepts the short names produced by String plus a few aliases.
func ParseScopeKind(s string) (ScopeKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "world", "specific", "specific_world":
		return SpecificWorld, nil
	case "dc", "datacenter", "data_center", "current_dc":
		return CurrentDataCenter, nil
	case "region", "current_region":
		return CurrentRegion, nil
	case "regions", "custom_regions":
		return CustomRegions, nil
	case "worlds", "custom_worlds":
		return CustomWorlds, nil
	}
	return SpecificWorld, fmt.Errorf("unknown scope %q", s)
}

// LookupScope is the caller's chosen search breadth. Regions is only read for
// CustomRegions and Worlds only for CustomWorlds. Values are never mutated
// after construction.
type LookupScope struct {
	Kind    ScopeKind
	Regions []string
	Worlds  []string
}

// SpecificWorldScope searches the preferred (or current) world only.
func SpecificWorldScope() LookupScope { return LookupScope{Kind: SpecificWorld} }

// CurrentDataCenterScope searches the data center of the current world.
func CurrentDataCenterScope() LookupScope { return LookupScope{Kind: CurrentDataCenter} }

// CurrentRegionScope searches the region of the current world.
func CurrentRegionScope() LookupScope { return LookupScope{Kind: CurrentRegion} }

// CustomRegionsScope searches each named region.
func CustomRegionsScope(names ...string) LookupScope {
	return LookupScope{Kind: CustomRegions, Regions: append([]string(nil), names...)}
}

// CustomWorldsScope searches each named world.
func CustomWorldsScope(names ...string) LookupScope {
	return LookupScope{Kind: CustomWorlds, Worlds: append([]string(nil), names...)}
}

// PreferredWorldsScope builds the "preferred world" scope: the default world
// first, then the additional selections, without blanks or case-insensitive
// duplicates. With nothing selected it is the plain SpecificWorld scope.
func PreferredWorldsScope(defaultWorld string, extra []string) LookupScope {
	var list []string
	seen := make(map[string]bool)
	for _, w := range append([]string{defaultWorld}, extra...) {
		w = strings.TrimSpace(w)
		if w == "" || seen[strings.ToLower(w)] {
			continue
		}
		seen[strings.ToLower(w)] = true
		list = append(list, w)
	}
	if len(list) == 0 {
		return SpecificWorldScope()
	}
	return CustomWorldsScope(list...)
}

// BuildScope turns a scope name plus its lists into a LookupScope. The extra
// name "preferred" builds PreferredWorldsScope from defaultWorld and preferred.
func BuildScope(kind string, regions, worlds []string, defaultWorld string, preferred []string) (LookupScope, error) {
	if strings.EqualFold(strings.TrimSpace(kind), "preferred") {
		return PreferredWorldsScope(defaultWorld, preferred), nil
	}
	k, err := ParseScopeKind(kind)
	if err != nil {
		return LookupScope{}, err
	}
	switch k {
	case CustomRegions:
		return CustomRegionsScope(regions...), nil
	case CustomWorlds:
		return CustomWorldsScope(worlds...), nil
	}
	return LookupScope{Kind: k}, nil
}

// Describe returns a short phrase for status messages.
func (s LookupScope) Describe() string {
	switch s.Kind {
	case CurrentDataCenter:
		return "your current data center"
	case CurrentRegion:
		return "your current region"
	case CustomRegions:
		if len(s.Regions) > 0 {
			return "regions: " + strings.Join(s.Regions, ", ")
		}
	case CustomWorlds:
		if len(s.Worlds) > 0 {
			return "worlds: " + strings.Join(s.Worlds, ", ")
		}
	}
	return "your preferred world"
}
