package store

import (
	"context"
	"errors"
	"testing"

	"github.com/hyperengineering/copydesk/internal/types"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustCreateProduct(t *testing.T, s *SQLiteStore, name string) *types.Product {
	t.Helper()
	p, err := s.CreateProduct(context.Background(), types.Product{Name: name, USP: "sleep aid"})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func mustCreateCopyType(t *testing.T, s *SQLiteStore, code string, parentID *string) *types.CopyType {
	t.Helper()
	ct, err := s.CreateCopyType(context.Background(), types.CopyType{
		Code: code, Name: "type " + code, ParentID: parentID,
	})
	if err != nil {
		t.Fatal(err)
	}
	return ct
}

func mustCreateTeam(t *testing.T, s *SQLiteStore, name string) *types.Team {
	t.Helper()
	team, err := s.CreateTeam(context.Background(), name)
	if err != nil {
		t.Fatal(err)
	}
	return team
}

func TestStore_NewSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
}

func TestStore_ProductRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := mustCreateProduct(t, s, "Sleepwell")
	if p.ID == "" {
		t.Fatal("expected product ID to be set")
	}
	if len(p.AppealPoints) != 0 {
		t.Errorf("expected empty appeal points, got %v", p.AppealPoints)
	}

	p.Name = "Sleepwell Pro"
	p.AppealPoints = []string{"deep sleep", "no grogginess"}
	updated, err := s.UpdateProduct(ctx, *p)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != "Sleepwell Pro" {
		t.Errorf("expected updated name, got %q", updated.Name)
	}
	if len(updated.AppealPoints) != 2 {
		t.Errorf("expected 2 appeal points, got %v", updated.AppealPoints)
	}

	if err := s.DeleteProduct(ctx, p.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetProduct(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestStore_TopLevelCopyTypesExcludesVariants(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	parent := mustCreateCopyType(t, s, "HOOK", nil)
	mustCreateCopyType(t, s, "HOOK-V2", &parent.ID)
	mustCreateCopyType(t, s, "STORY", nil)

	top, err := s.TopLevelCopyTypes(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 top-level copy types, got %d", len(top))
	}
	for _, ct := range top {
		if ct.ParentID != nil {
			t.Errorf("top-level list contains variant %s", ct.Code)
		}
	}
}

func TestStore_CopyTypeDuplicateCode(t *testing.T) {
	s := newTestStore(t)

	mustCreateCopyType(t, s, "HOOK", nil)
	_, err := s.CreateCopyType(context.Background(), types.CopyType{Code: "HOOK", Name: "dup"})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestStore_ActiveTeamProductsFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	team := mustCreateTeam(t, s, "growth")
	p1 := mustCreateProduct(t, s, "P1")
	p2 := mustCreateProduct(t, s, "P2")

	tp1, err := s.CreateTeamProduct(ctx, team.ID, p1.ID)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateTeamProduct(ctx, team.ID, p2.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := s.SetTeamProductActive(ctx, tp1.ID, false); err != nil {
		t.Fatal(err)
	}

	active, err := s.ActiveTeamProducts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 1 {
		t.Fatalf("expected 1 active assignment, got %d", len(active))
	}
	if active[0].ProductID != p2.ID {
		t.Errorf("expected active assignment for P2, got product %s", active[0].ProductID)
	}
}

func TestStore_CreateChecklistsBatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	team := mustCreateTeam(t, s, "growth")
	p := mustCreateProduct(t, s, "P1")
	ct := mustCreateCopyType(t, s, "HOOK", nil)

	created, err := s.CreateChecklists(ctx, []types.NewChecklist{
		{ProductID: p.ID, CopyTypeID: ct.ID, TeamID: team.ID, Week: "2026-W05"},
		{ProductID: p.ID, CopyTypeID: ct.ID, TeamID: team.ID, Week: "2026-W06",
			Status: types.StatusCompleted, Notes: types.NotesAutoCarry, UTMCode: `["AD100"]`},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 created rows, got %d", len(created))
	}
	if created[0].Status != types.StatusPending {
		t.Errorf("expected default status pending, got %s", created[0].Status)
	}

	got, err := s.GetChecklist(ctx, created[1].ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.UTMCode != `["AD100"]` {
		t.Errorf("expected stored utm_code, got %q", got.UTMCode)
	}
	if got.Notes != types.NotesAutoCarry {
		t.Errorf("expected auto-carry notes, got %q", got.Notes)
	}
}

func TestStore_CreateChecklistsEmptyIsNoop(t *testing.T) {
	s := newTestStore(t)

	created, err := s.CreateChecklists(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(created) != 0 {
		t.Errorf("expected no rows, got %d", len(created))
	}
}

func TestStore_CreateChecklistsDuplicateRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	team := mustCreateTeam(t, s, "growth")
	p := mustCreateProduct(t, s, "P1")
	ct := mustCreateCopyType(t, s, "HOOK", nil)
	ct2 := mustCreateCopyType(t, s, "STORY", nil)

	if _, err := s.CreateChecklists(ctx, []types.NewChecklist{
		{ProductID: p.ID, CopyTypeID: ct.ID, TeamID: team.ID, Week: "2026-W05"},
	}); err != nil {
		t.Fatal(err)
	}

	// Second batch contains one valid row and one violating the
	// identity-key unique constraint; nothing may be written.
	_, err := s.CreateChecklists(ctx, []types.NewChecklist{
		{ProductID: p.ID, CopyTypeID: ct2.ID, TeamID: team.ID, Week: "2026-W05"},
		{ProductID: p.ID, CopyTypeID: ct.ID, TeamID: team.ID, Week: "2026-W05"},
	})
	if err == nil {
		t.Fatal("expected constraint violation")
	}

	rows, err := s.ChecklistsByWeek(ctx, "2026-W05")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Errorf("expected batch rollback to leave 1 row, got %d", len(rows))
	}
}

func TestStore_UpdateChecklistPartial(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	team := mustCreateTeam(t, s, "growth")
	p := mustCreateProduct(t, s, "P1")
	ct := mustCreateCopyType(t, s, "HOOK", nil)

	created, err := s.CreateChecklists(ctx, []types.NewChecklist{
		{ProductID: p.ID, CopyTypeID: ct.ID, TeamID: team.ID, Week: "2026-W05", UTMCode: `["AD100","AD200"]`},
	})
	if err != nil {
		t.Fatal(err)
	}
	id := created[0].ID

	status := types.StatusInProgress
	updated, err := s.UpdateChecklist(ctx, id, types.ChecklistUpdate{Status: &status})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != types.StatusInProgress {
		t.Errorf("expected status in_progress, got %s", updated.Status)
	}
	if updated.UTMCode != `["AD100","AD200"]` {
		t.Errorf("partial update touched utm_code: %q", updated.UTMCode)
	}

	// Clearing tracking codes maps to NULL.
	empty := ""
	updated, err = s.UpdateChecklist(ctx, id, types.ChecklistUpdate{UTMCode: &empty})
	if err != nil {
		t.Fatal(err)
	}
	if updated.UTMCode != "" {
		t.Errorf("expected cleared utm_code, got %q", updated.UTMCode)
	}
}

func TestStore_ChecklistStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	team := mustCreateTeam(t, s, "growth")
	p := mustCreateProduct(t, s, "P1")
	hook := mustCreateCopyType(t, s, "HOOK", nil)
	story := mustCreateCopyType(t, s, "STORY", nil)

	if _, err := s.CreateChecklists(ctx, []types.NewChecklist{
		{ProductID: p.ID, CopyTypeID: hook.ID, TeamID: team.ID, Week: "2026-W05", Status: types.StatusCompleted},
		{ProductID: p.ID, CopyTypeID: story.ID, TeamID: team.ID, Week: "2026-W05"},
	}); err != nil {
		t.Fatal(err)
	}

	stats, err := s.ChecklistStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Total != 2 || stats.Completed != 1 || stats.Pending != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if stats.CompletionRate != 50.0 {
		t.Errorf("expected completion rate 50.0, got %v", stats.CompletionRate)
	}
}

func TestStore_CopyVersionIncrements(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := mustCreateProduct(t, s, "P1")
	ct := mustCreateCopyType(t, s, "HOOK", nil)

	first, err := s.CreateCopy(ctx, types.GeneratedCopy{
		ProductID: p.ID, CopyTypeID: ct.ID, Content: "first draft",
	})
	if err != nil {
		t.Fatal(err)
	}
	if first.Version != 1 {
		t.Errorf("expected version 1, got %d", first.Version)
	}

	second, err := s.CreateCopy(ctx, types.GeneratedCopy{
		ProductID: p.ID, CopyTypeID: ct.ID, Content: "second draft",
	})
	if err != nil {
		t.Fatal(err)
	}
	if second.Version != 2 {
		t.Errorf("expected version 2, got %d", second.Version)
	}
}

func TestStore_BestCopyFlagsSource(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := mustCreateProduct(t, s, "P1")
	ct := mustCreateCopyType(t, s, "HOOK", nil)
	c, err := s.CreateCopy(ctx, types.GeneratedCopy{
		ProductID: p.ID, CopyTypeID: ct.ID, Content: "winner",
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.CreateBestCopy(ctx, types.BestCopy{
		CopyID: c.ID, Month: "2026-08", AdSpend: 1500.0,
	}); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetCopy(ctx, c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsBest {
		t.Error("expected copy to be flagged as best")
	}

	best, err := s.ListBestCopies(ctx, "2026-08")
	if err != nil {
		t.Fatal(err)
	}
	if len(best) != 1 {
		t.Fatalf("expected 1 best copy, got %d", len(best))
	}
	if best[0].Copy == nil || best[0].Copy.Content != "winner" {
		t.Error("expected best copy to carry the underlying copy")
	}
}

func TestStore_AuditLogRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.AppendAudit(ctx, types.AuditLog{
		Actor: "scheduler", Action: "init_week", Entity: "checklist", Detail: "created 6 rows",
	})
	if err != nil {
		t.Fatal(err)
	}

	logs, err := s.ListAuditLogs(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(logs))
	}
	if logs[0].Action != "init_week" {
		t.Errorf("unexpected action %q", logs[0].Action)
	}
}

func TestStore_ListChecklistsAttachesRelations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	team := mustCreateTeam(t, s, "growth")
	p := mustCreateProduct(t, s, "P1")
	ct := mustCreateCopyType(t, s, "HOOK", nil)

	if _, err := s.CreateChecklists(ctx, []types.NewChecklist{
		{ProductID: p.ID, CopyTypeID: ct.ID, TeamID: team.ID, Week: "2026-W05"},
	}); err != nil {
		t.Fatal(err)
	}

	rows, err := s.ListChecklists(ctx, "2026-W05")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Product == nil || rows[0].Product.Name != "P1" {
		t.Error("expected product attached")
	}
	if rows[0].CopyType == nil || rows[0].CopyType.Code != "HOOK" {
		t.Error("expected copy type attached")
	}
}
