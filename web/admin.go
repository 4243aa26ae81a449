/* admin.go
 * HTTP endpoints for tournament administration: rebuilding the leaderboard,
 * exporting and importing whole-tournament snapshots and updating the scoring
 * configuration. Every endpoint under /admin requires the bearer token from
 * ADMIN_API_TOKEN.
 */

package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"bracket-bot/api/api"
	"bracket-bot/api/bracket"
	"bracket-bot/api/scoring"
)

// importResponse is the JSON reply for a snapshot import.
type importResponse struct {
	Succeeded int      `json:"succeeded"`
	Failed    []string `json:"failed,omitempty"`
}

// authorized checks the Authorization header against ADMIN_API_TOKEN. An
// empty env token locks the admin surface rather than opening it.
func authorized(r *http.Request) bool {
	token := os.Getenv("ADMIN_API_TOKEN")
	if token == "" {
		return false
	}
	return r.Header.Get("Authorization") == "Bearer "+token
}

// isBadSnapshot reports whether an import failed because of the uploaded
// payload rather than the database behind it.
func isBadSnapshot(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	return errors.Is(err, bracket.ErrInvalidRoster) || errors.Is(err, bracket.ErrInvalidTree)
}

// HealthHandler reports liveness so deploys and uptime checks have something
// cheap to poll
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

// RescoreHandler rebuilds the stored leaderboard from every participant entry
// against the current official bracket
// Preconditions: HTTP server has been started, receives HTTP ResponseWriter and Http Request
// Postconditions: The leaderboard collection holds fresh scores, or an error status is returned
func (s *Server) RescoreHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !authorized(r) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	if err := s.api.GenerateLeaderboard(); err != nil {
		if errors.Is(err, api.ErrMissingOfficial) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		log.Println("rescore failed:", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// ExportHandler serves the whole tournament as a JSON download: the official
// bracket, the scoring overrides and every participant entry
func (s *Server) ExportHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !authorized(r) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	// Buffer the snapshot so fetch errors still map to a clean status code
	var buf bytes.Buffer
	if err := s.api.ExportSnapshot(&buf); err != nil {
		if errors.Is(err, api.ErrMissingOfficial) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		log.Println("export failed:", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.api.Store.GetTournament()+".json"))
	w.Write(buf.Bytes())
}

// ImportHandler restores a tournament from an uploaded snapshot. Entries that
// fail validation are skipped and reported so the rest of the pool still lands
// Preconditions: HTTP server has been started, receives HTTP ResponseWriter and Http Request
// Postconditions: The snapshot is written to the active tournament key and the
// reply says how many entries landed, or an error status is returned
func (s *Server) ImportHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !authorized(r) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	defer r.Body.Close()

	res, err := s.api.ImportSnapshot(r.Body)
	if err != nil && !errors.Is(err, api.ErrPartialFailure) {
		if isBadSnapshot(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Println("import failed:", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(importResponse{
		Succeeded: res.Succeeded,
		Failed:    res.Failed,
	})
}

// ScoringConfigHandler replaces the stored scoring overrides. The body is a
// sparse config record and absent fields keep their defaults
func (s *Server) ScoringConfigHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !authorized(r) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	defer r.Body.Close()

	var cfg scoring.ConfigRecord
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		log.Println("failed to decode scoring config:", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := s.api.SetScoringConfig(cfg); err != nil {
		log.Println("failed to store scoring config:", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
