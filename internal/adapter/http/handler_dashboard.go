package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/deskview/deskview/internal/domain"
	"github.com/deskview/deskview/internal/usecase"
)

const dateLayout = "2006-01-02"

// DashboardHandler serves the query engine's outputs to the presentation
// layer: metrics, breakdowns and time series for a filter, plus the
// defaults the filter widgets bootstrap from.
type DashboardHandler struct {
	dashboard *usecase.DashboardUseCase
}

// NewDashboardHandler creates the handler.
func NewDashboardHandler(dashboard *usecase.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// RegisterRoutes registers dashboard routes.
func (h *DashboardHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/dashboard", h.GetDashboard).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/dashboard/defaults", h.GetDefaults).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/tickets", h.ListTickets).Methods(http.MethodGet)
}

// GetDashboard evaluates the filter from the query string. Absent
// parameters fall back to the dataset defaults, mirroring the collapsed
// filter sidebar.
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	spec, ok := h.filterFromRequest(w, r)
	if !ok {
		return
	}

	result, err := h.dashboard.Evaluate(r.Context(), spec)
	if err != nil {
		writeError(w, err)
		return
	}

	if r.URL.Query().Get("include_tickets") != "true" {
		result.Tickets = nil
	}
	writeSuccess(w, http.StatusOK, "Dashboard evaluated", result)
}

// GetDefaults returns the derived default filter: the dataset's full date
// range, all distinct categorical values, Monthly granularity.
func (h *DashboardHandler) GetDefaults(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, "Default filter", h.dashboard.DefaultFilter())
}

// ListTickets returns the filtered ticket rows for the same parameters the
// dashboard takes.
func (h *DashboardHandler) ListTickets(w http.ResponseWriter, r *http.Request) {
	spec, ok := h.filterFromRequest(w, r)
	if !ok {
		return
	}

	result, err := h.dashboard.Evaluate(r.Context(), spec)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Tickets listed", map[string]interface{}{
		"tickets": result.Tickets,
		"total":   result.Metrics.TotalTickets,
	})
}

// filterFromRequest builds a FilterSpec from query parameters on top of
// the dataset defaults. It writes the error response itself when a
// parameter is unparsable.
func (h *DashboardHandler) filterFromRequest(w http.ResponseWriter, r *http.Request) (domain.FilterSpec, bool) {
	spec := h.dashboard.DefaultFilter()
	q := r.URL.Query()

	if raw := q.Get("start_date"); raw != "" {
		ts, err := time.Parse(dateLayout, raw)
		if err != nil {
			writeBadRequest(w, "invalid start_date: want YYYY-MM-DD")
			return spec, false
		}
		spec.StartDate = ts
	}
	if raw := q.Get("end_date"); raw != "" {
		ts, err := time.Parse(dateLayout, raw)
		if err != nil {
			writeBadRequest(w, "invalid end_date: want YYYY-MM-DD")
			return spec, false
		}
		spec.EndDate = ts
	}

	// Repeated params override the default "everything" selections. An
	// explicitly empty param (e.g. category=) selects nothing, matching
	// a cleared multiselect.
	if values, ok := q["category"]; ok {
		spec.Categories = nonEmpty(values)
	}
	if values, ok := q["priority"]; ok {
		spec.Priorities = nonEmpty(values)
	}
	if values, ok := q["status"]; ok {
		spec.Statuses = nonEmpty(values)
	}

	if raw := q.Get("time_frame"); raw != "" {
		spec.TimeFrame = domain.TimeFrame(raw)
	}

	return spec, true
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
