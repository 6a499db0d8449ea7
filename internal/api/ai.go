package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hyperengineering/copydesk/internal/types"
	"github.com/hyperengineering/copydesk/internal/validation"
)

// GenerateCopy handles POST /api/v1/ai/generate. The generated copy is
// persisted with the next version number for its (product, copy type)
// pair.
func (h *Handler) GenerateCopy(w http.ResponseWriter, r *http.Request) {
	var req types.GenerateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var c validation.Collector
	c.Add(validation.ValidateULID("product_id", req.ProductID))
	c.Add(validation.ValidateULID("copy_type_id", req.CopyTypeID))
	c.Add(validation.ValidateMaxLength("custom_prompt", req.CustomPrompt, 4000))
	if c.HasErrors() {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", c.Errors())
		return
	}

	created, err := h.generateAndStore(w, r, req.ProductID, req.CopyTypeID, req.CustomPrompt)
	if err != nil {
		return // response already written
	}
	writeJSON(w, http.StatusCreated, created)
}

// RegenerateCopy handles POST /api/v1/ai/regenerate/{copy_id}. Looks
// up the existing copy's product and type and produces a fresh
// version.
func (h *Handler) RegenerateCopy(w http.ResponseWriter, r *http.Request) {
	existing, err := h.store.GetCopy(r.Context(), chi.URLParam(r, "copy_id"))
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	created, err := h.generateAndStore(w, r, existing.ProductID, existing.CopyTypeID, "")
	if err != nil {
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) generateAndStore(w http.ResponseWriter, r *http.Request, productID, copyTypeID, customPrompt string) (*types.GeneratedCopy, error) {
	ctx := r.Context()

	product, err := h.store.GetProduct(ctx, productID)
	if err != nil {
		MapStoreError(w, r, err)
		return nil, err
	}
	copyType, err := h.store.GetCopyType(ctx, copyTypeID)
	if err != nil {
		MapStoreError(w, r, err)
		return nil, err
	}

	content, err := h.generator.GenerateCopy(ctx, *product, *copyType, customPrompt)
	if err != nil {
		slog.Error("copy generation failed", "error", err, "product_id", productID, "copy_type_id", copyTypeID)
		WriteProblem(w, r, http.StatusServiceUnavailable, "Copy generation unavailable")
		return nil, err
	}

	created, err := h.store.CreateCopy(ctx, types.GeneratedCopy{
		ProductID:  productID,
		CopyTypeID: copyTypeID,
		Content:    content,
	})
	if err != nil {
		slog.Error("persist generated copy failed", "error", err)
		MapStoreError(w, r, err)
		return nil, err
	}

	h.audit(ctx, "generate", "copy", created.ID, "")
	return created, nil
}

// CheckSimilarity handles POST /api/v1/ai/similarity. Compares a
// prospective copy type against every stored one before it gets
// created.
func (h *Handler) CheckSimilarity(w http.ResponseWriter, r *http.Request) {
	var req types.SimilarityRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var c validation.Collector
	c.Add(validation.ValidateRequired("core_concept", req.CoreConcept))
	c.Add(validation.ValidateRequired("example_copy", req.ExampleCopy))
	if c.HasErrors() {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", c.Errors())
		return
	}

	existing, err := h.store.ListCopyTypes(r.Context())
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	candidate := types.CopyType{
		CoreConcept: req.CoreConcept,
		Description: req.Description,
		ExampleCopy: req.ExampleCopy,
	}
	result, err := h.generator.CheckSimilarity(r.Context(), candidate, existing)
	if err != nil {
		slog.Error("similarity check failed", "error", err)
		WriteProblem(w, r, http.StatusServiceUnavailable, "Similarity check unavailable")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// AnalyzeScript handles POST /api/v1/ai/analyze. Turns a raw ad script
// into a copy-type proposal and scores it against the stored types, so
// a new type can be drafted straight from a winning script.
func (h *Handler) AnalyzeScript(w http.ResponseWriter, r *http.Request) {
	var req types.AnalyzeScriptRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var c validation.Collector
	c.Add(validation.ValidateRequired("script", req.Script))
	c.Add(validation.ValidateMaxLength("script", req.Script, 20000))
	if c.HasErrors() {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", c.Errors())
		return
	}

	existing, err := h.store.ListCopyTypes(r.Context())
	if err != nil {
		MapStoreError(w, r, err)
		return
	}

	result, err := h.generator.AnalyzeScript(r.Context(), req.Script, existing)
	if err != nil {
		slog.Error("script analysis failed", "error", err)
		WriteProblem(w, r, http.StatusServiceUnavailable, "Script analysis unavailable")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
