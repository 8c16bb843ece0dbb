package report

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/amrwatch/surveillance/pkg/analysis"
	"github.com/amrwatch/surveillance/pkg/common/logger"
	"github.com/amrwatch/surveillance/pkg/common/models"
	"github.com/amrwatch/surveillance/pkg/observability/metrics"
	"github.com/gorilla/mux"
)

// Source supplies the current cleaned record set.
type Source interface {
	Snapshot() []models.Isolate
}

type Handler struct {
	source  Source
	builder *Builder
	cache   *RateCache
	panel   []string
}

func NewHandler(source Source, builder *Builder, cache *RateCache, panel []string) *Handler {
	return &Handler{source: source, builder: builder, cache: cache, panel: panel}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/rates", h.handleRates).Methods(http.MethodGet)
	r.HandleFunc("/trends", h.handleTrends).Methods(http.MethodGet)
	r.HandleFunc("/mdr", h.handleMDR).Methods(http.MethodGet)
	r.HandleFunc("/alerts", h.handleAlerts).Methods(http.MethodGet)
	r.HandleFunc("/benchmarks", h.handleBenchmarks).Methods(http.MethodGet)
	r.HandleFunc("/distributions", h.handleDistributions).Methods(http.MethodGet)
	r.HandleFunc("/report", h.handleReport).Methods(http.MethodGet)
	r.HandleFunc("/report/text", h.handleReportText).Methods(http.MethodGet)
}

func (h *Handler) handleRates(w http.ResponseWriter, r *http.Request) {
	antibiotics := h.panel
	if raw := r.URL.Query().Get("antibiotics"); raw != "" {
		antibiotics = splitList(raw)
	}

	filter := analysis.Filter{Organism: r.URL.Query().Get("organism")}
	if rawYear := r.URL.Query().Get("year"); rawYear != "" {
		year, err := strconv.Atoi(rawYear)
		if err != nil {
			http.Error(w, "invalid year", http.StatusBadRequest)
			return
		}
		filter.Year = &year
	}

	key := CacheKey(antibiotics, filter)
	if cached, ok := h.cache.Get(r.Context(), key); ok {
		writeJSON(w, http.StatusOK, map[string]interface{}{"items": cached, "cached": true})
		return
	}

	records := analysis.ResistanceRates(h.source.Snapshot(), antibiotics, filter)
	h.cache.Set(r.Context(), key, records)
	metrics.IncAnalysesServed()
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": records})
}

func (h *Handler) handleTrends(w http.ResponseWriter, r *http.Request) {
	antibiotic := r.URL.Query().Get("antibiotic")
	if antibiotic == "" {
		http.Error(w, "antibiotic is required", http.StatusBadRequest)
		return
	}
	organism := r.URL.Query().Get("organism")

	record := analysis.TemporalTrend(h.source.Snapshot(), antibiotic, organism)
	metrics.IncAnalysesServed()
	writeJSON(w, http.StatusOK, record)
}

func (h *Handler) handleMDR(w http.ResponseWriter, r *http.Request) {
	prevalence := analysis.MDRPrevalence(h.source.Snapshot())
	metrics.IncAnalysesServed()
	writeJSON(w, http.StatusOK, prevalence)
}

func (h *Handler) handleAlerts(w http.ResponseWriter, r *http.Request) {
	alerts := h.builder.alerts.Evaluate(h.source.Snapshot())
	metrics.ObserveAlerts(alerts)
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": alerts})
}

func (h *Handler) handleBenchmarks(w http.ResponseWriter, r *http.Request) {
	snapshot := h.source.Snapshot()
	comparisons := h.builder.benchmarks.Compare(h.builder.benchmarkRates(snapshot))
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": comparisons})
}

func (h *Handler) handleDistributions(w http.ResponseWriter, r *http.Request) {
	snapshot := h.source.Snapshot()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"organisms":    analysis.OrganismDistribution(snapshot),
		"sample_types": analysis.SampleTypeDistribution(snapshot),
		"demographics": analysis.Demographics(snapshot),
	})
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	rep := h.builder.Build(h.source.Snapshot())
	metrics.ObserveAlerts(rep.Alerts)
	metrics.IncAnalysesServed()
	writeJSON(w, http.StatusOK, rep)
}

func (h *Handler) handleReportText(w http.ResponseWriter, r *http.Request) {
	rep := h.builder.Build(h.source.Snapshot())
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(RenderText(rep))); err != nil {
		logger.Log.WithError(err).Error("failed to write text report")
	}
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Log.WithError(err).Error("failed to encode response")
	}
}
