package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/initializ/modelcatalog/catalog"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// handleModels returns the aggregated catalog, served from the cache when
// one is configured and warm.
func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := s.logger.With(zap.String("request_id", w.Header().Get(RequestIDHeader)))

	if s.cfg.Cache != nil {
		entries, ok, err := s.cfg.Cache.Get(ctx)
		switch {
		case err != nil:
			s.metrics.ObserveCache("error")
			logger.Warn("catalog cache read failed", zap.Error(err))
		case ok:
			s.metrics.ObserveCache("hit")
			writeJSON(w, http.StatusOK, catalog.Envelope{Models: entries})
			return
		default:
			s.metrics.ObserveCache("miss")
		}
	}

	entries, err := s.cfg.Registry.Models(ctx)
	if err != nil {
		logger.Error("error fetching models", zap.Error(err))
		writeError(w, http.StatusBadGateway, "Failed to fetch models")
		return
	}

	if s.cfg.Cache != nil {
		if err := s.cfg.Cache.Set(ctx, entries); err != nil {
			logger.Warn("catalog cache write failed", zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, catalog.Envelope{Models: entries})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"providers": s.cfg.Registry.Names(),
	})
}
