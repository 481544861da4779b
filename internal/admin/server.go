package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"subsim/internal/sim"
	"subsim/internal/weapon"
)

// Server exposes a small JSON control surface over a running simulator.
// Hosts use it to inspect the tactical picture and issue ownship orders
// without linking the simulation core directly.
type Server struct {
	Sim *sim.Simulator
}

func NewServer(simulator *sim.Simulator) *Server {
	return &Server{Sim: simulator}
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("/ownship", s.handleOwnship)
	mux.HandleFunc("/contacts", s.handleContacts)
	mux.HandleFunc("/torpedoes", s.handleTorpedoes)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/orders", s.handleOrders)
	mux.HandleFunc("/fire", s.handleFire)
}

// Start serves until the context is cancelled, then shuts down cleanly.
func (s *Server) Start(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	s.routes(mux)
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()
	return srv.ListenAndServe()
}

func (s *Server) handleOwnship(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"ownship": s.Sim.OwnshipSnapshot(),
		"sunk":    s.Sim.OwnshipSunk(),
	})
}

func (s *Server) handleContacts(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Sim.ContactSnapshot())
}

func (s *Server) handleTorpedoes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Sim.TorpedoSnapshot())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Sim.HealthSnapshot())
}

// handleOrders applies a new ownship heading and speed, e.g.
// POST /orders?heading=090&speed=12
func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	heading, err := strconv.ParseFloat(r.URL.Query().Get("heading"), 64)
	if err != nil || heading < 0 || heading >= 360 {
		http.Error(w, "heading must be in [0,360)", http.StatusBadRequest)
		return
	}
	speed, err := strconv.ParseFloat(r.URL.Query().Get("speed"), 64)
	if err != nil || speed < 0 {
		http.Error(w, "speed must be a non-negative number", http.StatusBadRequest)
		return
	}
	s.Sim.SetOwnshipOrders(heading, speed)
	w.WriteHeader(http.StatusNoContent)
}

// handleFire launches a player torpedo, e.g.
// POST /fire?gyro=270&target=Sierra-1-abc123&mode=PASSIVE
func (s *Server) handleFire(w http.ResponseWriter, r *http.Request) {
	gyro, err := strconv.ParseFloat(r.URL.Query().Get("gyro"), 64)
	if err != nil || gyro < 0 || gyro >= 360 {
		http.Error(w, "gyro must be in [0,360)", http.StatusBadRequest)
		return
	}
	mode := weapon.SearchActive
	switch r.URL.Query().Get("mode") {
	case "", "ACTIVE":
	case "PASSIVE":
		mode = weapon.SearchPassive
	default:
		http.Error(w, "mode must be ACTIVE or PASSIVE", http.StatusBadRequest)
		return
	}
	target := r.URL.Query().Get("target")
	torp := s.Sim.LaunchTorpedo(gyro, target, mode)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(torp)
}
