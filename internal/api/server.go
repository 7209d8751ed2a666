// Package api serves aggregated games over HTTP.
//
// The api package exposes a read-only JSON surface over stored snapshots:
// the games known for each source, optionally filtered by league or season,
// plus a health endpoint. It never scrapes; it reads whatever the check
// command last persisted.
package api

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/gorilla/mux"
	"github.com/kmaier/prephoops/internal/game"
	"github.com/kmaier/prephoops/internal/logger"
	"github.com/kmaier/prephoops/internal/storage"
)

// Server serves stored game snapshots
type Server struct {
	store   *storage.Storage
	sources []string
	log     *logger.Logger
}

// NewServer creates a Server over the given storage. sources lists the
// snapshot names the server will admit; unknown names 404 without touching
// the filesystem.
func NewServer(store *storage.Storage, sources []string, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Discard()
	}
	return &Server{
		store:   store,
		sources: sources,
		log:     log,
	}
}

// Router builds the HTTP routes
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.getHealth).Methods("GET")
	r.HandleFunc("/sources", s.getSources).Methods("GET")
	r.HandleFunc("/games/{source}", s.getGames).Methods("GET")
	return r
}

// gamesResponse is the JSON shape of the games endpoint
type gamesResponse struct {
	Source    string       `json:"source"`
	UpdatedAt string       `json:"updated_at,omitempty"`
	Count     int          `json:"count"`
	Games     []*game.Game `json:"games"`
}

func (s *Server) getGames(w http.ResponseWriter, r *http.Request) {
	source := strings.ToLower(mux.Vars(r)["source"])
	if !s.knownSource(source) {
		http.Error(w, "unknown source: "+source, http.StatusNotFound)
		return
	}

	snapshot, err := s.store.LoadSnapshot(source)
	if err != nil {
		s.log.Error("loading snapshot for API request", logger.Fields{"source": source}, err)
		http.Error(w, "loading snapshot failed", http.StatusInternalServerError)
		return
	}

	league := r.URL.Query().Get("league")
	season := r.URL.Query().Get("season")

	games := make([]*game.Game, 0, len(snapshot.Games))
	for _, g := range snapshot.Games {
		if league != "" && !strings.EqualFold(g.League, league) {
			continue
		}
		if season != "" && g.Season != season {
			continue
		}
		games = append(games, g)
	}

	// Snapshot maps have no order; sort for stable responses
	sort.Slice(games, func(i, j int) bool { return games[i].ID < games[j].ID })

	writeJSON(w, http.StatusOK, gamesResponse{
		Source:    source,
		UpdatedAt: snapshot.UpdatedAt,
		Count:     len(games),
		Games:     games,
	})
}

func (s *Server) getSources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"sources": s.sources})
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) knownSource(name string) bool {
	for _, src := range s.sources {
		if strings.EqualFold(src, name) {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) // nolint:errcheck
}
