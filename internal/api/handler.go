package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hyperengineering/copydesk/internal/ai"
	"github.com/hyperengineering/copydesk/internal/checklist"
	"github.com/hyperengineering/copydesk/internal/store"
	"github.com/hyperengineering/copydesk/internal/types"
)

// Initializer triggers week initialization.
// Implemented by checklist.Initializer.
type Initializer interface {
	InitWeek(ctx context.Context, week string) (*checklist.InitResult, error)
}

// Reconciler triggers the daily alive check.
// Implemented by checklist.Reconciler.
type Reconciler interface {
	RunDailyCheck(ctx context.Context) (*types.DailyCheckSummary, error)
}

// WeeklyReporter computes per-team weekly performance.
// Implemented by report.Weekly.
type WeeklyReporter interface {
	TeamPerformance(ctx context.Context, startWeek, endWeek string, teamIDs []string) (map[string]map[string]types.WeeklyPerformance, error)
}

// CopyTypeReporter rolls monthly ad performance up by copy type.
// Implemented by report.Monthly.
type CopyTypeReporter interface {
	CopyTypePerformance(ctx context.Context, month, teamID string) ([]types.CopyTypePerformance, error)
}

// Handler implements the API handlers.
type Handler struct {
	store       store.Store
	generator   ai.Generator
	initializer Initializer
	reconciler  Reconciler
	weekly      WeeklyReporter
	copyTypes   CopyTypeReporter
	apiKey      string
	version     string
}

// NewHandler creates a Handler wired to its collaborators.
func NewHandler(s store.Store, g ai.Generator, init Initializer, rec Reconciler, weekly WeeklyReporter, copyTypes CopyTypeReporter, apiKey, version string) *Handler {
	return &Handler{
		store:       s,
		generator:   g,
		initializer: init,
		reconciler:  rec,
		weekly:      weekly,
		copyTypes:   copyTypes,
		apiKey:      apiKey,
		version:     version,
	}
}

// Health returns the health status
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.CountChecklists(r.Context())
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, types.HealthResponse{
		Status:     "healthy",
		Version:    h.version,
		Model:      h.generator.ModelName(),
		Checklists: count,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// decodeJSON decodes the request body into v, writing a 400 problem on
// failure. Returns false when the caller should stop.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return false
	}
	return true
}

// audit appends an audit-log entry, logging rather than failing the
// request when the append itself errors.
func (h *Handler) audit(ctx context.Context, action, entity, entityID, detail string) {
	entry := types.AuditLog{
		Actor:    "api",
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Detail:   detail,
	}
	if err := h.store.AppendAudit(ctx, entry); err != nil {
		slog.Error("failed to append audit log", "action", action, "entity", entity, "error", err)
	}
}
