package report

import (
	"context"
	"fmt"
	"math"

	"github.com/hyperengineering/copydesk/internal/checklist"
	"github.com/hyperengineering/copydesk/internal/types"
)

// DashboardStore is the storage surface the dashboard summary reads
// from.
type DashboardStore interface {
	ListCopyTypes(ctx context.Context) ([]types.CopyType, error)
	ListCopies(ctx context.Context, productID, copyTypeID string) ([]types.GeneratedCopy, error)
	RecentCopies(ctx context.Context, limit int) ([]types.GeneratedCopy, error)
	ListChecklists(ctx context.Context, week string) ([]types.Checklist, error)
}

const recentCopyCount = 5

// DashboardSummary assembles the landing-page aggregate: the
// product×copy-type generation matrix (variant counts rolled up into
// their parent type), total generations, the most recent copies, and
// tracking-code fill rates overall and per team. week narrows the
// checklist stats to one week; empty means all weeks.
func DashboardSummary(ctx context.Context, store DashboardStore, week string) (*types.DashboardSummary, error) {
	copyTypes, err := store.ListCopyTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load copy types: %w", err)
	}
	parentOf := make(map[string]string)
	for _, ct := range copyTypes {
		if ct.ParentID != nil {
			parentOf[ct.ID] = *ct.ParentID
		}
	}

	copies, err := store.ListCopies(ctx, "", "")
	if err != nil {
		return nil, fmt.Errorf("load copies: %w", err)
	}

	counts := make(map[types.MatrixCell]int)
	for _, c := range copies {
		typeID := c.CopyTypeID
		if parent, ok := parentOf[typeID]; ok {
			typeID = parent
		}
		counts[types.MatrixCell{ProductID: c.ProductID, CopyTypeID: typeID}]++
	}
	matrix := make([]types.MatrixCell, 0, len(counts))
	for cell, n := range counts {
		cell.Count = n
		matrix = append(matrix, cell)
	}

	recent, err := store.RecentCopies(ctx, recentCopyCount)
	if err != nil {
		return nil, fmt.Errorf("load recent copies: %w", err)
	}

	rows, err := store.ListChecklists(ctx, week)
	if err != nil {
		return nil, fmt.Errorf("load checklists: %w", err)
	}

	overall := types.UTMFillStats{}
	perTeam := make(map[string]types.UTMFillStats)
	for _, row := range rows {
		filled := len(checklist.NormalizeCodes(row.UTMCode)) > 0

		overall.Total++
		stats := perTeam[row.TeamID]
		stats.Total++
		if filled {
			overall.Filled++
			stats.Filled++
		}
		perTeam[row.TeamID] = stats
	}
	overall.CompletionRate = fillRate(overall.Filled, overall.Total)
	for id, stats := range perTeam {
		stats.CompletionRate = fillRate(stats.Filled, stats.Total)
		perTeam[id] = stats
	}

	return &types.DashboardSummary{
		GenerationMatrix: matrix,
		TotalGenerations: len(copies),
		RecentCopies:     recent,
		ChecklistStats:   overall,
		TeamStats:        perTeam,
	}, nil
}

func fillRate(filled, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(filled) * 100 / float64(total)))
}
