package api

import (
	"net/http"
	"strconv"
	"strings"

	"market-quick-price/internal/items"
)

type dataCenterJSON struct {
	Name   string   `json:"name"`
	ID     string   `json:"id"`
	Worlds []string `json:"worlds"`
}

type regionJSON struct {
	Name        string           `json:"name"`
	ID          string           `json:"id"`
	DataCenters []dataCenterJSON `json:"data_centers"`
}

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	regions := s.catalog.Regions()
	out := make([]regionJSON, 0, len(regions))
	for _, reg := range regions {
		rj := regionJSON{Name: reg.Name, ID: reg.ID}
		for _, dc := range reg.DataCenters {
			rj.DataCenters = append(rj.DataCenters, dataCenterJSON{Name: dc.Name, ID: dc.ID, Worlds: dc.Worlds})
		}
		out = append(out, rj)
	}
	writeJSON(w, out)
}

// handleItemSearch returns catalog items whose name contains q, in dump order.
// GET /api/items/search?q=potion&limit=10
func (s *Server) handleItemSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeJSON(w, []items.Item{})
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	writeJSON(w, s.items.Search(q, limit))
}
