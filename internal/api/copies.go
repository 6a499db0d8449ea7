package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hyperengineering/copydesk/internal/types"
	"github.com/hyperengineering/copydesk/internal/validation"
)

// ListCopies handles GET /api/v1/copies?product_id=&copy_type_id=
func (h *Handler) ListCopies(w http.ResponseWriter, r *http.Request) {
	copies, err := h.store.ListCopies(r.Context(),
		r.URL.Query().Get("product_id"),
		r.URL.Query().Get("copy_type_id"),
	)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, copies)
}

// CreateCopy handles POST /api/v1/copies. Records a manually written
// copy; the store assigns the next version for the pair.
func (h *Handler) CreateCopy(w http.ResponseWriter, r *http.Request) {
	var req types.CopyCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var c validation.Collector
	c.Add(validation.ValidateULID("product_id", req.ProductID))
	c.Add(validation.ValidateULID("copy_type_id", req.CopyTypeID))
	c.Add(validation.ValidateRequired("content", req.Content))
	if c.HasErrors() {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", c.Errors())
		return
	}

	created, err := h.store.CreateCopy(r.Context(), types.GeneratedCopy{
		ProductID:  req.ProductID,
		CopyTypeID: req.CopyTypeID,
		Content:    req.Content,
	})
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	h.audit(r.Context(), "create", "copy", created.ID, "")
	writeJSON(w, http.StatusCreated, created)
}

// GetCopy handles GET /api/v1/copies/{id}
func (h *Handler) GetCopy(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.GetCopy(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// UpdateCopy handles PUT /api/v1/copies/{id}. Edits content after
// manual review; version is never changed by an edit.
func (h *Handler) UpdateCopy(w http.ResponseWriter, r *http.Request) {
	var req types.CopyUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validation.ValidateRequired("content", req.Content); err != nil {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", []validation.ValidationError{*err})
		return
	}

	c, err := h.store.GetCopy(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	c.Content = req.Content
	if req.AdSpend != nil {
		c.AdSpend = req.AdSpend
	}

	updated, err := h.store.UpdateCopy(r.Context(), *c)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	h.audit(r.Context(), "update", "copy", updated.ID, "")
	writeJSON(w, http.StatusOK, updated)
}

// DeleteCopy handles DELETE /api/v1/copies/{id}
func (h *Handler) DeleteCopy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.DeleteCopy(r.Context(), id); err != nil {
		MapStoreError(w, r, err)
		return
	}
	h.audit(r.Context(), "delete", "copy", id, "")
	w.WriteHeader(http.StatusNoContent)
}

// ListBestCopies handles GET /api/v1/best-copies?month=
func (h *Handler) ListBestCopies(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month != "" {
		if err := validation.ValidateMonth("month", month); err != nil {
			WriteProblemWithErrors(w, r, "Request contains invalid fields", []validation.ValidationError{*err})
			return
		}
	}

	best, err := h.store.ListBestCopies(r.Context(), month)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, best)
}

// CreateBestCopy handles POST /api/v1/best-copies
func (h *Handler) CreateBestCopy(w http.ResponseWriter, r *http.Request) {
	var req types.BestCopyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var c validation.Collector
	c.Add(validation.ValidateULID("copy_id", req.CopyID))
	c.Add(validation.ValidateMonth("month", req.Month))
	if c.HasErrors() {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", c.Errors())
		return
	}

	created, err := h.store.CreateBestCopy(r.Context(), types.BestCopy{
		CopyID:  req.CopyID,
		Month:   req.Month,
		AdSpend: req.AdSpend,
	})
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	h.audit(r.Context(), "create", "best_copy", created.ID, req.Month+" spend="+strconv.FormatFloat(req.AdSpend, 'f', -1, 64))
	writeJSON(w, http.StatusCreated, created)
}
