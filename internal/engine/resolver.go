package engine

import (
	"fmt"
	"strings"

	"market-quick-price/internal/config"
	"market-quick-price/internal/world"
)

// UnknownWorld is the placeholder target used when no world is known at all.
// Queries against it fail downstream and yield no data.
const UnknownWorld = "Unknown"

// Ambient is the caller context a scope is resolved against.
type Ambient struct {
	CurrentWorld   string // empty when the character location is unknown
	PreferredWorld string // configured default world, may be empty
}

// AmbientFromConfig reads the current and default world settings.
func AmbientFromConfig(c *config.Config) Ambient {
	return Ambient{CurrentWorld: c.CurrentWorld, PreferredWorld: c.DefaultWorld}
}

// Resolver expands a LookupScope into concrete query targets.
type Resolver struct {
	Catalog *world.Catalog
}

// NewResolver creates a Resolver over catalog.
func NewResolver(catalog *world.Catalog) *Resolver {
	return &Resolver{Catalog: catalog}
}

// Resolve returns a non-empty list of targets with case-insensitively unique IDs.
// Anything that cannot be resolved degrades to a single world target.
func (r *Resolver) Resolve(scope LookupScope, amb Ambient) []QueryTarget {
	switch scope.Kind {
	case CurrentDataCenter:
		if region, dc, ok := r.currentWorld(amb); ok {
			return []QueryTarget{dataCenterTarget(region, dc)}
		}
	case CurrentRegion:
		if region, _, ok := r.currentWorld(amb); ok {
			return []QueryTarget{regionTarget(region)}
		}
	case CustomRegions:
		if targets := r.customRegions(scope.Regions); len(targets) > 0 {
			return targets
		}
	case CustomWorlds:
		if targets := customWorlds(scope.Worlds); len(targets) > 0 {
			return targets
		}
	case SpecificWorld:
	}
	return []QueryTarget{worldTarget(fallbackWorld(amb))}
}

func (r *Resolver) currentWorld(amb Ambient) (*world.Region, *world.DataCenter, bool) {
	name := strings.TrimSpace(amb.CurrentWorld)
	if name == "" || r.Catalog == nil {
		return nil, nil, false
	}
	return r.Catalog.FindWorld(name)
}

func (r *Resolver) customRegions(names []string) []QueryTarget {
	if r.Catalog == nil {
		return nil
	}
	var targets []QueryTarget
	for _, name := range names {
		region, ok := r.Catalog.FindRegion(name)
		if !ok || containsID(targets, region.ID) {
			continue
		}
		targets = append(targets, regionTarget(region))
	}
	return targets
}

func customWorlds(names []string) []QueryTarget {
	var targets []QueryTarget
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || containsID(targets, name) {
			continue
		}
		targets = append(targets, worldTarget(name))
	}
	return targets
}

// fallbackWorld picks the preferred world, then the current world, then UnknownWorld.
func fallbackWorld(amb Ambient) string {
	if w := strings.TrimSpace(amb.PreferredWorld); w != "" {
		return w
	}
	if w := strings.TrimSpace(amb.CurrentWorld); w != "" {
		return w
	}
	return UnknownWorld
}

func containsID(targets []QueryTarget, id string) bool {
	for _, t := range targets {
		if strings.EqualFold(t.ID, id) {
			return true
		}
	}
	return false
}

func worldTarget(name string) QueryTarget {
	return QueryTarget{Kind: TargetWorld, ID: name, Label: name}
}

func dataCenterTarget(region *world.Region, dc *world.DataCenter) QueryTarget {
	label := dc.Name
	if region != nil {
		label = fmt.Sprintf("%s (%s)", dc.Name, region.Name)
	}
	return QueryTarget{Kind: TargetDataCenter, ID: dc.ID, Label: label}
}

func regionTarget(region *world.Region) QueryTarget {
	return QueryTarget{Kind: TargetRegion, ID: region.ID, Label: region.Name}
}
