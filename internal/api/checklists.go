package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hyperengineering/copydesk/internal/types"
	"github.com/hyperengineering/copydesk/internal/validation"
)

// ListChecklists handles GET /api/v1/checklists?week=. Rows come back
// with their product and copy type attached.
func (h *Handler) ListChecklists(w http.ResponseWriter, r *http.Request) {
	week := r.URL.Query().Get("week")
	if week != "" {
		if err := validation.ValidateWeek("week", week); err != nil {
			WriteProblemWithErrors(w, r, "Request contains invalid fields", []validation.ValidationError{*err})
			return
		}
	}

	rows, err := h.store.ListChecklists(r.Context(), week)
	if err != nil {
		slog.Error("list checklists failed", "error", err, "week", week)
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// GetChecklist handles GET /api/v1/checklists/{id}
func (h *Handler) GetChecklist(w http.ResponseWriter, r *http.Request) {
	row, err := h.store.GetChecklist(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

// UpdateChecklist handles PATCH /api/v1/checklists/{id}. Only fields
// present in the body change; utm_code is stored raw and normalized on
// read.
func (h *Handler) UpdateChecklist(w http.ResponseWriter, r *http.Request) {
	var req types.ChecklistUpdate
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Status != nil {
		statuses := []string{
			string(types.StatusPending),
			string(types.StatusInProgress),
			string(types.StatusCompleted),
		}
		if err := validation.ValidateEnum("status", string(*req.Status), statuses); err != nil {
			WriteProblemWithErrors(w, r, "Request contains invalid fields", []validation.ValidationError{*err})
			return
		}
	}

	updated, err := h.store.UpdateChecklist(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	h.audit(r.Context(), "update", "checklist", updated.ID, "")
	writeJSON(w, http.StatusOK, updated)
}

// ChecklistStats handles GET /api/v1/checklists/stats
func (h *Handler) ChecklistStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.ChecklistStats(r.Context())
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// InitWeek handles POST /api/v1/checklists/init-week
func (h *Handler) InitWeek(w http.ResponseWriter, r *http.Request) {
	var req types.InitWeekRequest
	if r.ContentLength > 0 && !decodeJSON(w, r, &req) {
		return
	}
	if req.Week != "" {
		if err := validation.ValidateWeek("week", req.Week); err != nil {
			WriteProblemWithErrors(w, r, "Request contains invalid fields", []validation.ValidationError{*err})
			return
		}
	}

	result, err := h.initializer.InitWeek(r.Context(), req.Week)
	if err != nil {
		slog.Error("week initialization failed", "error", err, "week", req.Week)
		WriteProblem(w, r, http.StatusInternalServerError, "Week initialization failed")
		return
	}

	h.audit(r.Context(), "init_week", "checklist", "", result.Week)
	writeJSON(w, http.StatusOK, result)
}

// AliveCheck handles POST /api/v1/checklists/alive-check
func (h *Handler) AliveCheck(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reconciler.RunDailyCheck(r.Context())
	if err != nil {
		slog.Error("alive check failed", "error", err)
		WriteProblem(w, r, http.StatusInternalServerError, "Alive check failed")
		return
	}

	h.audit(r.Context(), "alive_check", "checklist", "", summary.Date)
	writeJSON(w, http.StatusOK, summary)
}
