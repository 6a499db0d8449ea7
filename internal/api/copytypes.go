package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hyperengineering/copydesk/internal/types"
	"github.com/hyperengineering/copydesk/internal/validation"
)

func validateCopyTypeRequest(req types.CopyTypeRequest) []validation.ValidationError {
	var c validation.Collector
	c.Add(validation.ValidateRequired("code", req.Code))
	c.Add(validation.ValidateMaxLength("code", req.Code, 50))
	c.Add(validation.ValidateRequired("name", req.Name))
	c.Add(validation.ValidateMaxLength("name", req.Name, 200))
	if req.ParentID != nil {
		c.Add(validation.ValidateULID("parent_id", *req.ParentID))
	}
	return c.Errors()
}

func applyCopyTypeRequest(ct *types.CopyType, req types.CopyTypeRequest) {
	ct.Code = req.Code
	ct.Name = req.Name
	ct.Description = req.Description
	ct.CoreConcept = req.CoreConcept
	ct.ExampleCopy = req.ExampleCopy
	ct.PromptTemplate = req.PromptTemplate
	ct.ParentID = req.ParentID
}

// ListCopyTypes handles GET /api/v1/copy-types. With ?top_level=true
// only parentless types (the weekly grid's columns) are returned.
func (h *Handler) ListCopyTypes(w http.ResponseWriter, r *http.Request) {
	var (
		copyTypes []types.CopyType
		err       error
	)
	if r.URL.Query().Get("top_level") == "true" {
		copyTypes, err = h.store.TopLevelCopyTypes(r.Context())
	} else {
		copyTypes, err = h.store.ListCopyTypes(r.Context())
	}
	if err != nil {
		slog.Error("list copy types failed", "error", err)
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, copyTypes)
}

// GetCopyType handles GET /api/v1/copy-types/{id}
func (h *Handler) GetCopyType(w http.ResponseWriter, r *http.Request) {
	ct, err := h.store.GetCopyType(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ct)
}

// CreateCopyType handles POST /api/v1/copy-types
func (h *Handler) CreateCopyType(w http.ResponseWriter, r *http.Request) {
	var req types.CopyTypeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := validateCopyTypeRequest(req); len(errs) > 0 {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", errs)
		return
	}

	var ct types.CopyType
	applyCopyTypeRequest(&ct, req)

	created, err := h.store.CreateCopyType(r.Context(), ct)
	if err != nil {
		slog.Error("create copy type failed", "error", err, "code", req.Code)
		MapStoreError(w, r, err)
		return
	}

	h.audit(r.Context(), "create", "copy_type", created.ID, created.Code)
	writeJSON(w, http.StatusCreated, created)
}

// UpdateCopyType handles PUT /api/v1/copy-types/{id}
func (h *Handler) UpdateCopyType(w http.ResponseWriter, r *http.Request) {
	var req types.CopyTypeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := validateCopyTypeRequest(req); len(errs) > 0 {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", errs)
		return
	}

	ct, err := h.store.GetCopyType(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	applyCopyTypeRequest(ct, req)

	updated, err := h.store.UpdateCopyType(r.Context(), *ct)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	h.audit(r.Context(), "update", "copy_type", updated.ID, updated.Code)
	writeJSON(w, http.StatusOK, updated)
}

// DeleteCopyType handles DELETE /api/v1/copy-types/{id}
func (h *Handler) DeleteCopyType(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.DeleteCopyType(r.Context(), id); err != nil {
		MapStoreError(w, r, err)
		return
	}
	h.audit(r.Context(), "delete", "copy_type", id, "")
	w.WriteHeader(http.StatusNoContent)
}
