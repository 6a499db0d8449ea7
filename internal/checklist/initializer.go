package checklist

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/hyperengineering/copydesk/internal/adspend"
	"github.com/hyperengineering/copydesk/internal/types"
)

// Store is the storage surface the checklist lifecycle depends on.
type Store interface {
	ActiveTeamProducts(ctx context.Context) ([]types.TeamProduct, error)
	TopLevelCopyTypes(ctx context.Context) ([]types.CopyType, error)
	ChecklistsByWeek(ctx context.Context, week string) ([]types.Checklist, error)
	CreateChecklists(ctx context.Context, rows []types.NewChecklist) ([]types.Checklist, error)
	UpdateChecklist(ctx context.Context, id string, update types.ChecklistUpdate) (*types.Checklist, error)
}

// Initializer expands the weekly checklist grid. For every active
// (team, product) assignment and every top-level copy type it creates
// the missing rows for the target week, carrying forward tracking
// codes from the previous week when those codes still show spend.
type Initializer struct {
	store  Store
	spend  adspend.Source
	logger *slog.Logger
	loc    *time.Location
	now    func() time.Time
}

// NewInitializer creates an Initializer. loc is the civil timezone used
// to resolve the current week when none is given.
func NewInitializer(store Store, spend adspend.Source, logger *slog.Logger, loc *time.Location) *Initializer {
	return &Initializer{
		store:  store,
		spend:  spend,
		logger: logger,
		loc:    loc,
		now:    time.Now,
	}
}

// InitResult reports what one InitWeek run created.
type InitResult struct {
	Week    string            `json:"week"`
	Created int               `json:"created"`
	Carried int               `json:"carried"`
	Rows    []types.Checklist `json:"rows"`
}

// InitWeek creates the checklist rows missing for week. An empty week
// means the current week in the configured timezone. Existing rows are
// never touched, so the operation is idempotent; all new rows are
// inserted in a single transaction.
func (i *Initializer) InitWeek(ctx context.Context, week string) (*InitResult, error) {
	if week == "" {
		week = WeekOf(i.now().In(i.loc))
	} else if !ValidWeek(week) {
		return nil, fmt.Errorf("invalid week %q", week)
	}

	assignments, err := i.store.ActiveTeamProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load team products: %w", err)
	}
	copyTypes, err := i.store.TopLevelCopyTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load copy types: %w", err)
	}

	existing, err := i.store.ChecklistsByWeek(ctx, week)
	if err != nil {
		return nil, fmt.Errorf("load checklists for %s: %w", week, err)
	}
	present := make(map[types.ChecklistKey]struct{}, len(existing))
	for _, row := range existing {
		present[row.Key()] = struct{}{}
	}

	carry, err := i.carryCandidates(ctx, week)
	if err != nil {
		return nil, err
	}

	var rows []types.NewChecklist
	carried := 0
	for _, tp := range assignments {
		for _, ct := range copyTypes {
			key := types.ChecklistKey{ProductID: tp.ProductID, CopyTypeID: ct.ID, TeamID: tp.TeamID}
			if _, ok := present[key]; ok {
				continue
			}
			row := types.NewChecklist{
				ProductID:  key.ProductID,
				CopyTypeID: key.CopyTypeID,
				TeamID:     key.TeamID,
				Week:       week,
				Status:     types.StatusPending,
			}
			if codes := carry[key]; len(codes) > 0 {
				row.UTMCode = EncodeCodes(codes)
				row.Status = types.StatusCompleted
				row.Notes = types.NotesAutoCarry
				carried++
			}
			rows = append(rows, row)
		}
	}

	result := &InitResult{Week: week, Created: len(rows), Carried: carried, Rows: []types.Checklist{}}
	if len(rows) == 0 {
		i.logger.Info("week already initialized", "week", week)
		return result, nil
	}

	created, err := i.store.CreateChecklists(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("create checklists for %s: %w", week, err)
	}
	result.Rows = created
	i.logger.Info("week initialized", "week", week, "created", len(created), "carried", carried)
	return result, nil
}

// carryCandidates returns, per identity, the previous week's tracking
// codes that still show spend inside the new week's date window.
func (i *Initializer) carryCandidates(ctx context.Context, week string) (map[types.ChecklistKey][]string, error) {
	prevWeek, err := PreviousWeek(week)
	if err != nil {
		return nil, err
	}
	prevRows, err := i.store.ChecklistsByWeek(ctx, prevWeek)
	if err != nil {
		return nil, fmt.Errorf("load checklists for %s: %w", prevWeek, err)
	}

	codesByKey := make(map[types.ChecklistKey][]string)
	union := make(map[string]struct{})
	for _, row := range prevRows {
		codes := NormalizeCodes(row.UTMCode)
		if len(codes) == 0 {
			continue
		}
		codesByKey[row.Key()] = codes
		for _, c := range codes {
			union[c] = struct{}{}
		}
	}
	if len(union) == 0 {
		return nil, nil
	}

	all := make([]string, 0, len(union))
	for c := range union {
		all = append(all, c)
	}
	sort.Strings(all)

	from, to, err := WeekDateRange(week)
	if err != nil {
		return nil, err
	}
	spend, err := i.spend.SpendRange(ctx, all, from, to)
	if err != nil {
		return nil, fmt.Errorf("spend lookup for %s: %w", week, err)
	}

	carry := make(map[types.ChecklistKey][]string, len(codesByKey))
	for key, codes := range codesByKey {
		var alive []string
		for _, c := range codes {
			if spend[c].Alive() {
				alive = append(alive, c)
			}
		}
		if len(alive) > 0 {
			carry[key] = alive
		}
	}
	return carry, nil
}
