package store

import (
	"context"

	"github.com/hyperengineering/copydesk/internal/types"
)

// Store defines the interface contract for all persistence operations.
type Store interface {
	// Products
	ListProducts(ctx context.Context) ([]types.Product, error)
	GetProduct(ctx context.Context, id string) (*types.Product, error)
	CreateProduct(ctx context.Context, p types.Product) (*types.Product, error)
	UpdateProduct(ctx context.Context, p types.Product) (*types.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	// Copy types
	ListCopyTypes(ctx context.Context) ([]types.CopyType, error)
	TopLevelCopyTypes(ctx context.Context) ([]types.CopyType, error)
	GetCopyType(ctx context.Context, id string) (*types.CopyType, error)
	CreateCopyType(ctx context.Context, ct types.CopyType) (*types.CopyType, error)
	UpdateCopyType(ctx context.Context, ct types.CopyType) (*types.CopyType, error)
	DeleteCopyType(ctx context.Context, id string) error

	// Teams and assignments
	ListTeams(ctx context.Context) ([]types.Team, error)
	CreateTeam(ctx context.Context, name string) (*types.Team, error)
	DeleteTeam(ctx context.Context, id string) error
	ListTeamProducts(ctx context.Context) ([]types.TeamProduct, error)
	ActiveTeamProducts(ctx context.Context) ([]types.TeamProduct, error)
	CreateTeamProduct(ctx context.Context, teamID, productID string) (*types.TeamProduct, error)
	SetTeamProductActive(ctx context.Context, id string, active bool) (*types.TeamProduct, error)
	DeleteTeamProduct(ctx context.Context, id string) error

	// Checklists
	ListChecklists(ctx context.Context, week string) ([]types.Checklist, error)
	ChecklistsByWeek(ctx context.Context, week string) ([]types.Checklist, error)
	GetChecklist(ctx context.Context, id string) (*types.Checklist, error)
	CreateChecklists(ctx context.Context, rows []types.NewChecklist) ([]types.Checklist, error)
	UpdateChecklist(ctx context.Context, id string, update types.ChecklistUpdate) (*types.Checklist, error)
	ChecklistStats(ctx context.Context) (*types.ChecklistStats, error)
	CountChecklists(ctx context.Context) (int64, error)

	// Generated copies
	ListCopies(ctx context.Context, productID, copyTypeID string) ([]types.GeneratedCopy, error)
	RecentCopies(ctx context.Context, limit int) ([]types.GeneratedCopy, error)
	GetCopy(ctx context.Context, id string) (*types.GeneratedCopy, error)
	CreateCopy(ctx context.Context, c types.GeneratedCopy) (*types.GeneratedCopy, error)
	UpdateCopy(ctx context.Context, c types.GeneratedCopy) (*types.GeneratedCopy, error)
	DeleteCopy(ctx context.Context, id string) error

	// Best copies
	ListBestCopies(ctx context.Context, month string) ([]types.BestCopy, error)
	CreateBestCopy(ctx context.Context, b types.BestCopy) (*types.BestCopy, error)

	// Audit log
	AppendAudit(ctx context.Context, entry types.AuditLog) error
	ListAuditLogs(ctx context.Context, limit int) ([]types.AuditLog, error)

	Close() error
}
