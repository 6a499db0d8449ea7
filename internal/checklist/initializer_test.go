package checklist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/hyperengineering/copydesk/internal/adspend"
	"github.com/hyperengineering/copydesk/internal/types"
)

type fakeStore struct {
	teamProducts []types.TeamProduct
	copyTypes    []types.CopyType
	byWeek       map[string][]types.Checklist

	created    []types.NewChecklist
	updates    map[string]types.ChecklistUpdate
	failUpdate map[string]error
	nextID     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		byWeek:     make(map[string][]types.Checklist),
		updates:    make(map[string]types.ChecklistUpdate),
		failUpdate: make(map[string]error),
	}
}

func (f *fakeStore) ActiveTeamProducts(ctx context.Context) ([]types.TeamProduct, error) {
	return f.teamProducts, nil
}

func (f *fakeStore) TopLevelCopyTypes(ctx context.Context) ([]types.CopyType, error) {
	return f.copyTypes, nil
}

func (f *fakeStore) ChecklistsByWeek(ctx context.Context, week string) ([]types.Checklist, error) {
	rows := make([]types.Checklist, len(f.byWeek[week]))
	copy(rows, f.byWeek[week])
	return rows, nil
}

func (f *fakeStore) CreateChecklists(ctx context.Context, rows []types.NewChecklist) ([]types.Checklist, error) {
	f.created = append(f.created, rows...)
	out := make([]types.Checklist, 0, len(rows))
	for _, row := range rows {
		f.nextID++
		created := types.Checklist{
			ID:         fmt.Sprintf("cl-%d", f.nextID),
			ProductID:  row.ProductID,
			CopyTypeID: row.CopyTypeID,
			TeamID:     row.TeamID,
			Week:       row.Week,
			Status:     row.Status,
			Notes:      row.Notes,
			UTMCode:    row.UTMCode,
		}
		f.byWeek[row.Week] = append(f.byWeek[row.Week], created)
		out = append(out, created)
	}
	return out, nil
}

func (f *fakeStore) UpdateChecklist(ctx context.Context, id string, update types.ChecklistUpdate) (*types.Checklist, error) {
	if err := f.failUpdate[id]; err != nil {
		return nil, err
	}
	f.updates[id] = update
	for week, rows := range f.byWeek {
		for idx := range rows {
			if rows[idx].ID != id {
				continue
			}
			if update.UTMCode != nil {
				rows[idx].UTMCode = *update.UTMCode
			}
			if update.Status != nil {
				rows[idx].Status = *update.Status
			}
			if update.Notes != nil {
				rows[idx].Notes = *update.Notes
			}
			f.byWeek[week] = rows
			row := rows[idx]
			return &row, nil
		}
	}
	return nil, errors.New("checklist not found")
}

func (f *fakeStore) seed(week string, rows ...types.Checklist) {
	for idx := range rows {
		if rows[idx].ID == "" {
			f.nextID++
			rows[idx].ID = fmt.Sprintf("cl-%d", f.nextID)
		}
		rows[idx].Week = week
	}
	f.byWeek[week] = append(f.byWeek[week], rows...)
}

type fakeSpend struct {
	byCode     map[string]adspend.Spend
	err        error
	rangeCalls [][2]string
	dateCalls  []string
}

func (f *fakeSpend) SpendRange(ctx context.Context, codes []string, from, to string) (map[string]adspend.Spend, error) {
	f.rangeCalls = append(f.rangeCalls, [2]string{from, to})
	return f.lookup(codes)
}

func (f *fakeSpend) SpendOn(ctx context.Context, codes []string, date string) (map[string]adspend.Spend, error) {
	f.dateCalls = append(f.dateCalls, date)
	return f.lookup(codes)
}

func (f *fakeSpend) SpendAll(ctx context.Context, codes []string) (map[string]adspend.Spend, error) {
	return f.lookup(codes)
}

func (f *fakeSpend) lookup(codes []string) (map[string]adspend.Spend, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]adspend.Spend)
	for _, c := range codes {
		if s, ok := f.byCode[c]; ok {
			out[c] = s
		}
	}
	return out, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedClock(date string) func() time.Time {
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return day }
}

func TestInitWeekCreatesGrid(t *testing.T) {
	store := newFakeStore()
	store.teamProducts = []types.TeamProduct{
		{TeamID: "team-a", ProductID: "prod-1", Active: true},
		{TeamID: "team-b", ProductID: "prod-2", Active: true},
	}
	store.copyTypes = []types.CopyType{{ID: "ct-1"}, {ID: "ct-2"}}

	init := NewInitializer(store, &fakeSpend{}, testLogger(), time.UTC)
	result, err := init.InitWeek(context.Background(), "2026-W05")
	if err != nil {
		t.Fatalf("InitWeek: %v", err)
	}

	if result.Created != 4 {
		t.Fatalf("created = %d, want 4", result.Created)
	}
	if result.Carried != 0 {
		t.Errorf("carried = %d, want 0", result.Carried)
	}
	for _, row := range result.Rows {
		if row.Status != types.StatusPending {
			t.Errorf("row %s status = %s, want pending", row.ID, row.Status)
		}
		if row.UTMCode != "" {
			t.Errorf("row %s has unexpected codes %q", row.ID, row.UTMCode)
		}
	}
}

func TestInitWeekIsIdempotent(t *testing.T) {
	store := newFakeStore()
	store.teamProducts = []types.TeamProduct{{TeamID: "team-a", ProductID: "prod-1", Active: true}}
	store.copyTypes = []types.CopyType{{ID: "ct-1"}, {ID: "ct-2"}}
	store.seed("2026-W05", types.Checklist{
		ProductID: "prod-1", CopyTypeID: "ct-1", TeamID: "team-a",
		Status: types.StatusInProgress, Notes: "hand-written",
	})

	init := NewInitializer(store, &fakeSpend{}, testLogger(), time.UTC)
	result, err := init.InitWeek(context.Background(), "2026-W05")
	if err != nil {
		t.Fatalf("InitWeek: %v", err)
	}

	if result.Created != 1 {
		t.Fatalf("created = %d, want 1", result.Created)
	}
	if result.Rows[0].CopyTypeID != "ct-2" {
		t.Errorf("filled wrong cell: %s", result.Rows[0].CopyTypeID)
	}

	// A second run over the complete grid writes nothing.
	again, err := init.InitWeek(context.Background(), "2026-W05")
	if err != nil {
		t.Fatalf("second InitWeek: %v", err)
	}
	if again.Created != 0 {
		t.Errorf("second run created %d rows", again.Created)
	}
}

func TestInitWeekCarriesAliveCodes(t *testing.T) {
	store := newFakeStore()
	store.teamProducts = []types.TeamProduct{{TeamID: "team-a", ProductID: "prod-1", Active: true}}
	store.copyTypes = []types.CopyType{{ID: "ct-1"}, {ID: "ct-2"}}
	store.seed("2026-W04",
		types.Checklist{
			ProductID: "prod-1", CopyTypeID: "ct-1", TeamID: "team-a",
			UTMCode: `["AD100","AD200"]`,
		},
		types.Checklist{
			ProductID: "prod-1", CopyTypeID: "ct-2", TeamID: "team-a",
			UTMCode: "AD300",
		},
	)

	spend := &fakeSpend{byCode: map[string]adspend.Spend{
		"AD100": {Spend: 12.5},
		"AD200": {Spend: 0}, // dead, must not carry
	}}
	init := NewInitializer(store, spend, testLogger(), time.UTC)
	result, err := init.InitWeek(context.Background(), "2026-W05")
	if err != nil {
		t.Fatalf("InitWeek: %v", err)
	}

	if result.Carried != 1 {
		t.Fatalf("carried = %d, want 1", result.Carried)
	}
	if len(spend.rangeCalls) != 1 || spend.rangeCalls[0] != [2]string{"2026-01-26", "2026-02-02"} {
		t.Errorf("spend window = %v, want new week's date range", spend.rangeCalls)
	}

	byType := make(map[string]types.Checklist)
	for _, row := range result.Rows {
		byType[row.CopyTypeID] = row
	}
	carried := byType["ct-1"]
	if carried.UTMCode != `["AD100"]` {
		t.Errorf("carried codes = %q, want [\"AD100\"]", carried.UTMCode)
	}
	if carried.Status != types.StatusCompleted || carried.Notes != types.NotesAutoCarry {
		t.Errorf("carried row = %s/%q, want completed/auto-carry", carried.Status, carried.Notes)
	}
	fresh := byType["ct-2"]
	if fresh.Status != types.StatusPending || fresh.UTMCode != "" {
		t.Errorf("dead-code row = %s/%q, want a plain pending row", fresh.Status, fresh.UTMCode)
	}
}

func TestInitWeekDefaultsToCurrentWeek(t *testing.T) {
	store := newFakeStore()
	store.teamProducts = []types.TeamProduct{{TeamID: "team-a", ProductID: "prod-1", Active: true}}
	store.copyTypes = []types.CopyType{{ID: "ct-1"}}

	init := NewInitializer(store, &fakeSpend{}, testLogger(), time.UTC)
	init.now = fixedClock("2026-01-28")

	result, err := init.InitWeek(context.Background(), "")
	if err != nil {
		t.Fatalf("InitWeek: %v", err)
	}
	if result.Week != "2026-W05" {
		t.Errorf("week = %s, want 2026-W05", result.Week)
	}
}

func TestInitWeekRejectsInvalidWeek(t *testing.T) {
	init := NewInitializer(newFakeStore(), &fakeSpend{}, testLogger(), time.UTC)
	if _, err := init.InitWeek(context.Background(), "2026-5"); err == nil {
		t.Fatal("expected error for malformed week")
	}
}

func TestInitWeekSpendFailureAborts(t *testing.T) {
	store := newFakeStore()
	store.teamProducts = []types.TeamProduct{{TeamID: "team-a", ProductID: "prod-1", Active: true}}
	store.copyTypes = []types.CopyType{{ID: "ct-1"}}
	store.seed("2026-W04", types.Checklist{
		ProductID: "prod-1", CopyTypeID: "ct-1", TeamID: "team-a", UTMCode: "AD100",
	})

	spend := &fakeSpend{err: errors.New("spend source down")}
	init := NewInitializer(store, spend, testLogger(), time.UTC)
	if _, err := init.InitWeek(context.Background(), "2026-W05"); err == nil {
		t.Fatal("expected error when spend lookup fails")
	}
	if len(store.created) != 0 {
		t.Errorf("rows were created despite the failure: %d", len(store.created))
	}
}
