package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hyperengineering/copydesk/internal/types"
	"github.com/hyperengineering/copydesk/internal/validation"
)

// ListTeams handles GET /api/v1/teams
func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.store.ListTeams(r.Context())
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

// CreateTeam handles POST /api/v1/teams
func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req types.TeamRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var c validation.Collector
	c.Add(validation.ValidateRequired("name", req.Name))
	c.Add(validation.ValidateMaxLength("name", req.Name, 200))
	if c.HasErrors() {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", c.Errors())
		return
	}

	created, err := h.store.CreateTeam(r.Context(), req.Name)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	h.audit(r.Context(), "create", "team", created.ID, created.Name)
	writeJSON(w, http.StatusCreated, created)
}

// DeleteTeam handles DELETE /api/v1/teams/{id}
func (h *Handler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.DeleteTeam(r.Context(), id); err != nil {
		MapStoreError(w, r, err)
		return
	}
	h.audit(r.Context(), "delete", "team", id, "")
	w.WriteHeader(http.StatusNoContent)
}

// ListTeamProducts handles GET /api/v1/team-products. With
// ?active=true only active assignments are returned.
func (h *Handler) ListTeamProducts(w http.ResponseWriter, r *http.Request) {
	var (
		assignments []types.TeamProduct
		err         error
	)
	if r.URL.Query().Get("active") == "true" {
		assignments, err = h.store.ActiveTeamProducts(r.Context())
	} else {
		assignments, err = h.store.ListTeamProducts(r.Context())
	}
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, assignments)
}

// CreateTeamProduct handles POST /api/v1/team-products. A new
// assignment immediately gets its checklist rows for the current week.
func (h *Handler) CreateTeamProduct(w http.ResponseWriter, r *http.Request) {
	var req types.TeamProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var c validation.Collector
	c.Add(validation.ValidateULID("team_id", req.TeamID))
	c.Add(validation.ValidateULID("product_id", req.ProductID))
	if c.HasErrors() {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", c.Errors())
		return
	}

	created, err := h.store.CreateTeamProduct(r.Context(), req.TeamID, req.ProductID)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	// Backfill the current week so the new assignment shows up without
	// waiting for the next worker tick.
	if result, err := h.initializer.InitWeek(r.Context(), ""); err != nil {
		slog.Error("week init after assignment failed", "error", err, "team_product_id", created.ID)
	} else if result.Created > 0 {
		slog.Info("week backfilled for new assignment",
			"team_product_id", created.ID,
			"week", result.Week,
			"created", result.Created,
		)
	}

	h.audit(r.Context(), "create", "team_product", created.ID, "")
	writeJSON(w, http.StatusCreated, created)
}

// SetTeamProductActive handles PATCH /api/v1/team-products/{id}
func (h *Handler) SetTeamProductActive(w http.ResponseWriter, r *http.Request) {
	var req types.TeamProductActiveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.store.SetTeamProductActive(r.Context(), chi.URLParam(r, "id"), req.Active)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	action := "deactivate"
	if req.Active {
		action = "activate"
	}
	h.audit(r.Context(), action, "team_product", updated.ID, "")
	writeJSON(w, http.StatusOK, updated)
}

// DeleteTeamProduct handles DELETE /api/v1/team-products/{id}
func (h *Handler) DeleteTeamProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.DeleteTeamProduct(r.Context(), id); err != nil {
		MapStoreError(w, r, err)
		return
	}
	h.audit(r.Context(), "delete", "team_product", id, "")
	w.WriteHeader(http.StatusNoContent)
}
