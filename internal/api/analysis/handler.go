package analysis

import (
	"encoding/json"
	"net/http"
	"strings"

	"normatlas/internal/analysis"
	"normatlas/pkg/logger"
)

// Handler exposes the aggregation engine directly, bypassing the language
// model. Dashboards and scripts consume these endpoints.
type Handler struct {
	engine     *analysis.Engine
	comparator *analysis.Comparator
	log        *logger.Logger
}

// New creates the analysis API handler.
func New(engine *analysis.Engine, comparator *analysis.Comparator, log *logger.Logger) *Handler {
	return &Handler{
		engine:     engine,
		comparator: comparator,
		log:        log.With("component", "analysis_api"),
	}
}

// HandleCross returns the district×branch breakdown.
// GET /analysis/cross?districts=A,B&branches=Matematik
// Empty or omitted selectors expand to every observed value.
func (h *Handler) HandleCross(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rows := h.engine.CrossTable(
		splitParam(r.URL.Query().Get("districts")),
		splitParam(r.URL.Query().Get("branches")),
	)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rows":  rows,
		"count": len(rows),
	})
}

// HandleCompare returns the ranked need/surplus comparison for one dimension.
// GET /analysis/compare?kind=branch&selection=Matematik,Fizik&sort=need
func (h *Handler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var kind analysis.CategoryKind
	switch r.URL.Query().Get("kind") {
	case "branch", "":
		kind = analysis.CategoryBranch
	case "district":
		kind = analysis.CategoryDistrict
	default:
		writeError(w, http.StatusBadRequest, "kind must be 'branch' or 'district'")
		return
	}

	comparison := h.comparator.Compare(kind, splitParam(r.URL.Query().Get("selection")))

	switch r.URL.Query().Get("sort") {
	case "need":
		comparison.SortByNeed()
	case "surplus":
		comparison.SortBySurplus()
	case "":
		// Selection order is the contract; no implicit ranking.
	default:
		writeError(w, http.StatusBadRequest, "sort must be 'need' or 'surplus'")
		return
	}

	writeJSON(w, http.StatusOK, comparison)
}

// splitParam parses a comma-separated query parameter, dropping empty parts.
func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
