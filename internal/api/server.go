package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"market-quick-price/internal/config"
	"market-quick-price/internal/db"
	"market-quick-price/internal/engine"
	"market-quick-price/internal/items"
	"market-quick-price/internal/logger"
	"market-quick-price/internal/world"
)

// Server is the HTTP API server that connects the lookup engine, the item
// catalog and the database.
type Server struct {
	cfg     *config.Config
	mu      sync.RWMutex // guards cfg
	engine  *engine.Engine
	items   *items.Catalog
	catalog *world.Catalog
	db      *db.DB // optional

	outcomeMu   sync.RWMutex
	lastOutcome *engine.Outcome

	startedAt time.Time
}

// NewServer creates a Server. database may be nil, in which case the lookup
// log is unavailable and config changes are not persisted.
func NewServer(cfg *config.Config, eng *engine.Engine, itemCatalog *items.Catalog, catalog *world.Catalog, database *db.DB) *Server {
	if catalog == nil {
		catalog = world.Default
	}
	return &Server{
		cfg:       cfg,
		engine:    eng,
		items:     itemCatalog,
		catalog:   catalog,
		db:        database,
		startedAt: time.Now(),
	}
}

// Notify records the outcome of a finished lookup. Pass the server (or a
// NotifierFunc calling it) as the engine's notifier.
func (s *Server) Notify(o engine.Outcome) {
	s.outcomeMu.Lock()
	s.lastOutcome = &o
	s.outcomeMu.Unlock()
	if o.Err != nil {
		logger.Info("API", o.Message)
	} else {
		logger.Success("API", o.Message)
	}
}

func (s *Server) outcome() *engine.Outcome {
	s.outcomeMu.RLock()
	defer s.outcomeMu.RUnlock()
	if s.lastOutcome == nil {
		return nil
	}
	o := *s.lastOutcome
	return &o
}

// Handler returns the HTTP handler with all API routes and CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/config", s.handleGetConfig)
	mux.HandleFunc("POST /api/config", s.handleSetConfig)
	mux.HandleFunc("GET /api/regions", s.handleRegions)
	mux.HandleFunc("GET /api/items/search", s.handleItemSearch)
	mux.HandleFunc("POST /api/lookup", s.handleLookup)
	mux.HandleFunc("GET /api/result", s.handleResult)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("POST /api/history/{index}/select", s.handleSelectHistory)
	mux.HandleFunc("GET /api/lookups", s.handleLookups)
	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(204)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	_, hasResult := s.engine.Current()
	s.mu.RLock()
	cooldown := s.cfg.CooldownSeconds
	s.mu.RUnlock()

	amb := s.engine.Ambient()
	writeJSON(w, map[string]interface{}{
		"items":            s.items.Len(),
		"regions":          len(s.catalog.Regions()),
		"db":               s.db != nil,
		"has_result":       hasResult,
		"history":          len(s.engine.History()),
		"history_capacity": s.engine.HistoryCapacity(),
		"cooldown_seconds": cooldown,
		"current_world":    amb.CurrentWorld,
		"default_world":    amb.PreferredWorld,
		"uptime_seconds":   int64(time.Since(s.startedAt).Seconds()),
	})
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	writeJSON(w, s.cfg)
}

func (s *Server) handleSetConfig(w http.ResponseWriter, r *http.Request) {
	var patch map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, 400, "invalid json")
		return
	}

	s.mu.Lock()
	next := *s.cfg
	next.PreferredWorlds = append([]string(nil), s.cfg.PreferredWorlds...)
	s.mu.Unlock()

	fields := map[string]interface{}{
		"default_world":    &next.DefaultWorld,
		"current_world":    &next.CurrentWorld,
		"preferred_worlds": &next.PreferredWorlds,
		"cooldown_seconds": &next.CooldownSeconds,
		"history_capacity": &next.HistoryCapacity,
	}
	for key, dst := range fields {
		v, ok := patch[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(v, dst); err != nil {
			writeError(w, 400, fmt.Sprintf("invalid %s", key))
			return
		}
	}

	s.ApplyConfig(&next)
	if s.db != nil {
		if err := s.db.SaveSettings(&next); err != nil {
			logger.Warn("API", fmt.Sprintf("save settings: %v", err))
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	writeJSON(w, s.cfg)
}

// ApplyConfig copies the user-adjustable settings of next into the server's
// config and pushes them to the engine. Connection settings are left alone.
func (s *Server) ApplyConfig(next *config.Config) {
	s.mu.Lock()
	s.cfg.DefaultWorld = next.DefaultWorld
	s.cfg.CurrentWorld = next.CurrentWorld
	s.cfg.PreferredWorlds = append([]string(nil), next.PreferredWorlds...)
	s.cfg.CooldownSeconds = next.CooldownSeconds
	s.cfg.HistoryCapacity = next.HistoryCapacity
	s.cfg.Normalize()
	amb := engine.AmbientFromConfig(s.cfg)
	cooldown := s.cfg.Cooldown()
	capacity := s.cfg.HistoryCapacity
	s.mu.Unlock()

	s.engine.SetAmbient(amb)
	s.engine.SetCooldown(cooldown)
	s.engine.SetHistoryCapacity(capacity)
	logger.Info("Config", fmt.Sprintf("world=%s current=%s cooldown=%v history=%d", amb.PreferredWorld, amb.CurrentWorld, cooldown, capacity))
}
