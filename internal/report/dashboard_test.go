package report

import (
	"context"
	"testing"

	"github.com/hyperengineering/copydesk/internal/types"
)

type fakeDashboardStore struct {
	copyTypes  []types.CopyType
	copies     []types.GeneratedCopy
	checklists []types.Checklist
}

func (f *fakeDashboardStore) ListCopyTypes(ctx context.Context) ([]types.CopyType, error) {
	return f.copyTypes, nil
}

func (f *fakeDashboardStore) ListCopies(ctx context.Context, productID, copyTypeID string) ([]types.GeneratedCopy, error) {
	return f.copies, nil
}

func (f *fakeDashboardStore) RecentCopies(ctx context.Context, limit int) ([]types.GeneratedCopy, error) {
	if len(f.copies) > limit {
		return f.copies[:limit], nil
	}
	return f.copies, nil
}

func (f *fakeDashboardStore) ListChecklists(ctx context.Context, week string) ([]types.Checklist, error) {
	var out []types.Checklist
	for _, row := range f.checklists {
		if week == "" || row.Week == week {
			out = append(out, row)
		}
	}
	return out, nil
}

func strptr(s string) *string { return &s }

func TestDashboardSummaryRollsUpVariants(t *testing.T) {
	store := &fakeDashboardStore{
		copyTypes: []types.CopyType{
			{ID: "parent"},
			{ID: "variant", ParentID: strptr("parent")},
			{ID: "other"},
		},
		copies: []types.GeneratedCopy{
			{ProductID: "p1", CopyTypeID: "parent"},
			{ProductID: "p1", CopyTypeID: "variant"},
			{ProductID: "p1", CopyTypeID: "other"},
		},
	}

	summary, err := DashboardSummary(context.Background(), store, "")
	if err != nil {
		t.Fatalf("DashboardSummary: %v", err)
	}

	if summary.TotalGenerations != 3 {
		t.Errorf("total = %d, want 3", summary.TotalGenerations)
	}

	byCell := make(map[string]int)
	for _, cell := range summary.GenerationMatrix {
		byCell[cell.ProductID+"/"+cell.CopyTypeID] = cell.Count
	}
	if byCell["p1/parent"] != 2 {
		t.Errorf("parent cell = %d, want variant rolled up to 2", byCell["p1/parent"])
	}
	if byCell["p1/other"] != 1 {
		t.Errorf("other cell = %d, want 1", byCell["p1/other"])
	}
	if _, ok := byCell["p1/variant"]; ok {
		t.Error("variant appears as its own cell")
	}
}

func TestDashboardSummaryFillStats(t *testing.T) {
	store := &fakeDashboardStore{
		checklists: []types.Checklist{
			{TeamID: "team-a", Week: "2026-W05", UTMCode: `["AD100"]`},
			{TeamID: "team-a", Week: "2026-W05", UTMCode: ""},
			{TeamID: "team-a", Week: "2026-W05", UTMCode: "[]"},
			{TeamID: "team-b", Week: "2026-W05", UTMCode: "AD200"},
			{TeamID: "team-b", Week: "2026-W04", UTMCode: ""},
		},
	}

	summary, err := DashboardSummary(context.Background(), store, "2026-W05")
	if err != nil {
		t.Fatalf("DashboardSummary: %v", err)
	}

	if summary.ChecklistStats.Total != 4 || summary.ChecklistStats.Filled != 2 {
		t.Errorf("overall = %+v, want 2/4", summary.ChecklistStats)
	}
	if summary.ChecklistStats.CompletionRate != 50 {
		t.Errorf("rate = %d, want 50", summary.ChecklistStats.CompletionRate)
	}

	a := summary.TeamStats["team-a"]
	if a.Total != 3 || a.Filled != 1 || a.CompletionRate != 33 {
		t.Errorf("team-a = %+v", a)
	}
	b := summary.TeamStats["team-b"]
	if b.Total != 1 || b.Filled != 1 || b.CompletionRate != 100 {
		t.Errorf("team-b = %+v", b)
	}
}
