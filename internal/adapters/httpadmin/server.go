// Superficie HTTP de operación: health y consultas de moderación para el
// operador. No expone mutaciones; eso queda en los comandos protegidos.
package httpadmin

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/jose-valero/xcg-guard-bot/internal/app/service"
	"github.com/jose-valero/xcg-guard-bot/internal/infra/storage"
)

type Server struct {
	key     string
	db      *sql.DB
	members *storage.MemberRepo
	cache   *service.WordCache
	mux     *http.ServeMux
}

func New(key string, db *sql.DB, members *storage.MemberRepo, cache *service.WordCache) *Server {
	s := &Server{key: key, db: db, members: members, cache: cache, mux: http.NewServeMux()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.HandleFunc("/guard/stats", s.handleStats)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.db.PingContext(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "db down"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"words":  s.cache.Count(),
	})
}

type memberStats struct {
	UserID       int64     `json:"user_id"`
	Username     string    `json:"username,omitempty"`
	DisplayName  string    `json:"display_name"`
	WarningCount int       `json:"warning_count"`
	LastActive   time.Time `json:"last_active"`
	JoinedAt     time.Time `json:"joined_at"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	// sin key configurada el endpoint queda apagado
	if s.key == "" || r.Header.Get("X-Guard-Key") != s.key {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if raw := r.URL.Query().Get("user_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "bad user_id", http.StatusBadRequest)
			return
		}
		m, err := s.members.Get(ctx, id)
		if err == storage.ErrNotFound {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "store unavailable", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, toStats(m))
		return
	}

	ms, err := s.members.TopWarned(ctx, 10, nil)
	if err != nil {
		http.Error(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}
	out := make([]memberStats, 0, len(ms))
	for _, m := range ms {
		out = append(out, toStats(m))
	}
	writeJSON(w, http.StatusOK, out)
}

func toStats(m storage.Member) memberStats {
	return memberStats{
		UserID:       m.UserID,
		Username:     m.Username,
		DisplayName:  m.DisplayName,
		WarningCount: m.WarningCount,
		LastActive:   m.LastActive,
		JoinedAt:     m.JoinedAt,
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) Start(addr string) {
	log.Printf("🌐 HTTP listening on %s", addr)
	if err := http.ListenAndServe(addr, s.mux); err != nil {
		log.Fatalf("http server: %v", err)
	}
}
