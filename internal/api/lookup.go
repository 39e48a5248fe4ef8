package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"market-quick-price/internal/engine"
)

type lookupRequest struct {
	Query   string   `json:"query"`
	ItemID  uint32   `json:"item_id"`
	Scope   string   `json:"scope"`
	Regions []string `json:"regions"`
	Worlds  []string `json:"worlds"`
}

// handleLookup starts an asynchronous lookup.
// POST /api/lookup
// Body: {"query": "potion", "scope": "dc"} or {"item_id": 4551, "scope": "worlds", "worlds": ["Siren"]}
func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	var req lookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid json")
		return
	}

	s.mu.RLock()
	scope, err := engine.BuildScope(req.Scope, req.Regions, req.Worlds, s.cfg.DefaultWorld, s.cfg.PreferredWorlds)
	s.mu.RUnlock()
	if err != nil {
		writeError(w, 400, err.Error())
		return
	}

	if req.ItemID != 0 && strings.TrimSpace(req.Query) == "" {
		err = s.engine.BeginLookupByID(req.ItemID, scope)
	} else {
		err = s.engine.BeginLookup(req.Query, scope)
	}
	if err != nil {
		var le *engine.LookupError
		if !errors.As(err, &le) {
			writeError(w, 500, err.Error())
			return
		}
		switch le.Kind {
		case engine.ErrCooldown:
			w.Header().Set("Retry-After", strconv.Itoa(le.RemainingSeconds))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error":             le.Error(),
				"remaining_seconds": le.RemainingSeconds,
			})
		case engine.ErrItemNotFound:
			writeError(w, 404, le.Error())
		default:
			writeError(w, 400, le.Error())
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "started",
		"scope":  scope.Describe(),
	})
}

type resultResponse struct {
	Available bool             `json:"available"`
	Snapshot  *engine.Snapshot `json:"snapshot,omitempty"`
	Outcome   *engine.Outcome  `json:"outcome,omitempty"`
}

// handleResult returns the current result slot and the latest lookup outcome
// (which may be a no-data message that left the slot unchanged).
func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	resp := resultResponse{Outcome: s.outcome()}
	if snap, ok := s.engine.Current(); ok {
		resp.Available = true
		resp.Snapshot = &snap
	}
	writeJSON(w, resp)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"capacity": s.engine.HistoryCapacity(),
		"entries":  s.engine.History(),
	})
}

func (s *Server) handleSelectHistory(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, 400, "invalid index")
		return
	}
	res, ok := s.engine.SelectHistory(idx)
	if !ok {
		writeError(w, 404, "no history entry at that index")
		return
	}
	writeJSON(w, res)
}

func (s *Server) handleLookups(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeError(w, 503, "lookup log unavailable")
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, 400, "invalid limit")
			return
		}
		if n > 500 {
			n = 500
		}
		limit = n
	}
	records, err := s.db.GetLookups(limit)
	if err != nil {
		writeError(w, 500, err.Error())
		return
	}
	writeJSON(w, records)
}
