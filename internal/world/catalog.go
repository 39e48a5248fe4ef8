package world

import "strings"

// DataCenter is a cluster of worlds sharing one market grouping.
type DataCenter struct {
	Name   string
	ID     string // API identifier
	Worlds []string
}

// Region is a top-level geographic grouping of data centers.
type Region struct {
	Name        string
	ID          string // API identifier
	DataCenters []*DataCenter
}

type worldInfo struct {
	region     *Region
	dataCenter *DataCenter
}

// Catalog is the read-only Region -> DataCenter -> World tree plus reverse lookups.
// Lookups are case-insensitive; when a world name is registered more than once
// the first registration wins.
type Catalog struct {
	regions      []*Region
	worldIndex   map[string]worldInfo // lowercase world name -> owners
	regionByName map[string]*Region   // lowercase name or id -> region
	dcByName     map[string]*DataCenter
}

// NewCatalog indexes the given regions in order.
func NewCatalog(regions []*Region) *Catalog {
	c := &Catalog{
		regions:      regions,
		worldIndex:   make(map[string]worldInfo),
		regionByName: make(map[string]*Region),
		dcByName:     make(map[string]*DataCenter),
	}
	for _, r := range regions {
		for _, key := range []string{r.Name, r.ID} {
			k := strings.ToLower(key)
			if _, ok := c.regionByName[k]; !ok && k != "" {
				c.regionByName[k] = r
			}
		}
		for _, dc := range r.DataCenters {
			for _, key := range []string{dc.Name, dc.ID} {
				k := strings.ToLower(key)
				if _, ok := c.dcByName[k]; !ok && k != "" {
					c.dcByName[k] = dc
				}
			}
			for _, w := range dc.Worlds {
				k := strings.ToLower(w)
				if _, ok := c.worldIndex[k]; ok {
					continue
				}
				c.worldIndex[k] = worldInfo{region: r, dataCenter: dc}
			}
		}
	}
	return c
}

// Regions returns all regions in registration order.
func (c *Catalog) Regions() []*Region {
	return c.regions
}

// RegionNames returns region display names in registration order.
func (c *Catalog) RegionNames() []string {
	names := make([]string, len(c.regions))
	for i, r := range c.regions {
		names[i] = r.Name
	}
	return names
}

// FindWorld returns the region and data center owning the named world.
func (c *Catalog) FindWorld(name string) (*Region, *DataCenter, bool) {
	info, ok := c.worldIndex[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, nil, false
	}
	return info.region, info.dataCenter, true
}

// FindRegion looks a region up by display name or API identifier.
func (c *Catalog) FindRegion(name string) (*Region, bool) {
	r, ok := c.regionByName[strings.ToLower(strings.TrimSpace(name))]
	return r, ok
}

// FindDataCenter looks a data center up by display name or API identifier.
func (c *Catalog) FindDataCenter(name string) (*DataCenter, bool) {
	dc, ok := c.dcByName[strings.ToLower(strings.TrimSpace(name))]
	return dc, ok
}

// Contains reports whether world belongs to dc.
func (dc *DataCenter) Contains(world string) bool {
	for _, w := range dc.Worlds {
		if strings.EqualFold(w, world) {
			return true
		}
	}
	return false
}

// Contains reports whether world belongs to any data center of r.
func (r *Region) Contains(world string) bool {
	for _, dc := range r.DataCenters {
		if dc.Contains(world) {
			return true
		}
	}
	return false
}
