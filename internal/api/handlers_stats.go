package api

import (
	"encoding/json"
	"net/http"

	"github.com/dgallion1/docoutline/internal/parser"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"workers":     s.orchestrator.Workers(),
		"queue_depth": s.orchestrator.QueueDepth(),
		"analysis":    s.orchestrator.Stats().Snapshot(),
	})
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"formats": parser.Formats()})
}
