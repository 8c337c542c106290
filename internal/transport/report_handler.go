// Package transport exposes the auditor over HTTP.
package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/goodnatureofminers/blockmirror/internal/mirror/model"
	redispub "github.com/goodnatureofminers/blockmirror/internal/mirror/publish/redis"
	"go.uber.org/zap"
)

type (
	ReportSource interface {
		Latest() (model.ConsistencyReport, bool)
	}
	EventSource interface {
		RecentEvents(ctx context.Context, kind string, since float64) ([]redispub.Event, error)
	}
)

// ReportHandler serves the latest consistency report and recently published events.
type ReportHandler struct {
	reports ReportSource
	events  EventSource
	logger  *zap.Logger
}

// NewReportHandler returns a handler; events may be nil when no publisher is configured.
func NewReportHandler(reports ReportSource, events EventSource, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, events: events, logger: logger}
}

// Register mounts the handler's routes on mux.
func (h *ReportHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.Health)
	mux.HandleFunc("/report", h.Report)
	mux.HandleFunc("/events", h.Events)
}

// Health reports server health.
func (h *ReportHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Report writes the latest report, or 503 until the first audit completes.
func (h *ReportHandler) Report(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	report, ok := h.reports.Latest()
	if !ok {
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no audit has completed yet"})
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

// Events writes buffered events of ?kind= (reorg or audit) newer than ?since=.
func (h *ReportHandler) Events(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.events == nil {
		http.Error(w, "event buffer is not configured", http.StatusNotFound)
		return
	}

	query := r.URL.Query()
	kind := query.Get("kind")
	if kind != redispub.KindReorg && kind != redispub.KindAudit {
		http.Error(w, "kind must be reorg or audit", http.StatusBadRequest)
		return
	}
	var since float64
	if raw := query.Get("since"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			http.Error(w, "since must be a number", http.StatusBadRequest)
			return
		}
		since = parsed
	}

	events, err := h.events.RecentEvents(r.Context(), kind, since)
	if err != nil {
		h.logger.Error("read recent events", zap.String("kind", kind), zap.Error(err))
		http.Error(w, "event buffer unavailable", http.StatusBadGateway)
		return
	}
	h.writeJSON(w, http.StatusOK, events)
}

func (h *ReportHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Warn("write response", zap.Error(err))
	}
}
