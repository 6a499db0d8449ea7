package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hyperengineering/copydesk/internal/types"
	"github.com/hyperengineering/copydesk/internal/validation"
)

func validateProductRequest(req types.ProductRequest) []validation.ValidationError {
	var c validation.Collector
	c.Add(validation.ValidateRequired("name", req.Name))
	c.Add(validation.ValidateMaxLength("name", req.Name, 200))
	c.Add(validation.ValidateUTF8("name", req.Name))
	c.Add(validation.ValidateMaxLength("usp", req.USP, 2000))
	c.Add(validation.ValidateMaxLength("mechanism", req.Mechanism, 2000))
	return c.Errors()
}

func applyProductRequest(p *types.Product, req types.ProductRequest) {
	p.Name = req.Name
	p.EnglishName = req.EnglishName
	p.USP = req.USP
	p.Mechanism = req.Mechanism
	p.Shape = req.Shape
	p.AppealPoints = req.AppealPoints
	p.Features = req.Features
	p.HerbKeywords = req.HerbKeywords
}

// ListProducts handles GET /api/v1/products
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.ListProducts(r.Context())
	if err != nil {
		slog.Error("list products failed", "error", err)
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// GetProduct handles GET /api/v1/products/{id}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.store.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// CreateProduct handles POST /api/v1/products
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req types.ProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := validateProductRequest(req); len(errs) > 0 {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", errs)
		return
	}

	var product types.Product
	applyProductRequest(&product, req)

	created, err := h.store.CreateProduct(r.Context(), product)
	if err != nil {
		slog.Error("create product failed", "error", err, "name", req.Name)
		MapStoreError(w, r, err)
		return
	}

	h.audit(r.Context(), "create", "product", created.ID, created.Name)
	writeJSON(w, http.StatusCreated, created)
}

// UpdateProduct handles PUT /api/v1/products/{id}
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req types.ProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := validateProductRequest(req); len(errs) > 0 {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", errs)
		return
	}

	product, err := h.store.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	applyProductRequest(product, req)

	updated, err := h.store.UpdateProduct(r.Context(), *product)
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	h.audit(r.Context(), "update", "product", updated.ID, updated.Name)
	writeJSON(w, http.StatusOK, updated)
}

// DeleteProduct handles DELETE /api/v1/products/{id}
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.DeleteProduct(r.Context(), id); err != nil {
		MapStoreError(w, r, err)
		return
	}
	h.audit(r.Context(), "delete", "product", id, "")
	w.WriteHeader(http.StatusNoContent)
}
