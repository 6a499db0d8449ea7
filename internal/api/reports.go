package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/hyperengineering/copydesk/internal/report"
	"github.com/hyperengineering/copydesk/internal/types"
	"github.com/hyperengineering/copydesk/internal/validation"
)

// DashboardSummary handles GET /api/v1/dashboard/summary?week=
func (h *Handler) DashboardSummary(w http.ResponseWriter, r *http.Request) {
	week := r.URL.Query().Get("week")
	if week != "" {
		if err := validation.ValidateWeek("week", week); err != nil {
			WriteProblemWithErrors(w, r, "Request contains invalid fields", []validation.ValidationError{*err})
			return
		}
	}

	summary, err := report.DashboardSummary(r.Context(), h.store, week)
	if err != nil {
		slog.Error("dashboard summary failed", "error", err, "week", week)
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// WeeklyReport handles GET /api/v1/reports/weekly?start_week=&end_week=&team_ids=
func (h *Handler) WeeklyReport(w http.ResponseWriter, r *http.Request) {
	startWeek := r.URL.Query().Get("start_week")
	endWeek := r.URL.Query().Get("end_week")
	teamIDs := splitParam(r.URL.Query().Get("team_ids"))

	var c validation.Collector
	c.Add(validation.ValidateWeek("start_week", startWeek))
	c.Add(validation.ValidateWeek("end_week", endWeek))
	if len(teamIDs) == 0 {
		c.Add(&validation.ValidationError{Field: "team_ids", Message: "is required"})
	}
	if c.HasErrors() {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", c.Errors())
		return
	}

	teams, err := h.weekly.TeamPerformance(r.Context(), startWeek, endWeek, teamIDs)
	if err != nil {
		slog.Error("weekly report failed", "error", err, "start_week", startWeek, "end_week", endWeek)
		MapStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, types.WeeklyReportResponse{
		StartWeek: startWeek,
		EndWeek:   endWeek,
		Teams:     teams,
	})
}

// CopyTypeReport handles GET /api/v1/reports/copy-types?month=&team_id=.
// Without a month the roll-up covers all recorded dates.
func (h *Handler) CopyTypeReport(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month != "" {
		if err := validation.ValidateMonth("month", month); err != nil {
			WriteProblemWithErrors(w, r, "Request contains invalid fields", []validation.ValidationError{*err})
			return
		}
	}

	result, err := h.copyTypes.CopyTypePerformance(r.Context(), month, r.URL.Query().Get("team_id"))
	if err != nil {
		slog.Error("copy type report failed", "error", err, "month", month)
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ListAuditLogs handles GET /api/v1/audit-logs?limit=
func (h *Handler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			WriteProblem(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	logs, err := h.store.ListAuditLogs(r.Context(), limit)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// splitParam splits a comma-separated query parameter, dropping empty
// segments.
func splitParam(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
