package types

import "time"

// ChecklistStatus represents the workflow state of a checklist row.
type ChecklistStatus string

const (
	StatusPending    ChecklistStatus = "pending"
	StatusInProgress ChecklistStatus = "in_progress"
	StatusCompleted  ChecklistStatus = "completed"
)

// NotesAutoCarry marks rows whose tracking codes were carried forward
// automatically from the previous week.
const NotesAutoCarry = "auto-carry"

// Product represents a health-supplement product.
type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	EnglishName  string    `json:"english_name,omitempty"`
	USP          string    `json:"usp,omitempty"`
	Mechanism    string    `json:"mechanism,omitempty"`
	Shape        string    `json:"shape,omitempty"`
	AppealPoints []string  `json:"appeal_points"`
	Features     []string  `json:"features"`
	HerbKeywords []string  `json:"herb_keywords"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CopyType represents a category of ad copy. Types with a parent are
// variants and never appear in the weekly checklist grid.
type CopyType struct {
	ID             string    `json:"id"`
	Code           string    `json:"code"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	CoreConcept    string    `json:"core_concept,omitempty"`
	ExampleCopy    string    `json:"example_copy,omitempty"`
	PromptTemplate string    `json:"prompt_template,omitempty"`
	ParentID       *string   `json:"parent_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Team represents an ad operations team.
type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TeamProduct assigns responsibility for a product to a team. Only
// active assignments participate in weekly checklist initialization.
type TeamProduct struct {
	ID        string    `json:"id"`
	TeamID    string    `json:"team_id"`
	ProductID string    `json:"product_id"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChecklistKey is the cross-week identity of a checklist cell.
type ChecklistKey struct {
	ProductID  string `json:"product_id"`
	CopyTypeID string `json:"copy_type_id"`
	TeamID     string `json:"team_id"`
}

// Checklist represents one unit of required work for a week.
// UTMCode holds the raw serialized tracking-code field; it may be
// empty, "[]", a JSON list, or a single bare code. Normalization
// happens at the boundary via checklist.NormalizeCodes.
type Checklist struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"product_id"`
	CopyTypeID string          `json:"copy_type_id"`
	TeamID     string          `json:"team_id"`
	Week       string          `json:"week"`
	Status     ChecklistStatus `json:"status"`
	Notes      string          `json:"notes,omitempty"`
	UTMCode    string          `json:"utm_code,omitempty"`
	Excluded   bool            `json:"excluded"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	// Populated on joined reads only.
	Product  *Product  `json:"product,omitempty"`
	CopyType *CopyType `json:"copy_type,omitempty"`
}

// Key returns the (product, copy type, team) identity of the row.
func (c Checklist) Key() ChecklistKey {
	return ChecklistKey{ProductID: c.ProductID, CopyTypeID: c.CopyTypeID, TeamID: c.TeamID}
}

// NewChecklist carries the fields needed to create a checklist row.
type NewChecklist struct {
	ProductID  string
	CopyTypeID string
	TeamID     string
	Week       string
	Status     ChecklistStatus
	Notes      string
	UTMCode    string
}

// ChecklistUpdate carries a partial update to a checklist row.
// Nil pointers leave the corresponding column untouched.
type ChecklistUpdate struct {
	Status  *ChecklistStatus `json:"status,omitempty"`
	Notes   *string          `json:"notes,omitempty"`
	UTMCode *string          `json:"utm_code,omitempty"`
}

// ChecklistStats summarizes checklist completion state.
type ChecklistStats struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	InProgress     int     `json:"in_progress"`
	Pending        int     `json:"pending"`
	CompletionRate float64 `json:"completion_rate"`
}

// GeneratedCopy is one AI-generated (or manually entered) ad copy.
type GeneratedCopy struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"product_id"`
	CopyTypeID string    `json:"copy_type_id"`
	Content    string    `json:"content"`
	Version    int       `json:"version"`
	IsBest     bool      `json:"is_best"`
	AdSpend    *float64  `json:"ad_spend,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BestCopy marks a generated copy as a monthly best performer.
type BestCopy struct {
	ID        string    `json:"id"`
	CopyID    string    `json:"copy_id"`
	Month     string    `json:"month"`
	AdSpend   float64   `json:"ad_spend"`
	CreatedAt time.Time `json:"created_at"`

	Copy *GeneratedCopy `json:"copy,omitempty"`
}

// AuditLog records an administrative or reconciliation action.
type AuditLog struct {
	ID        string    `json:"id"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entity_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// --- Daily alive reconciliation ---

// DailyCheckAction identifies the kind of change applied to a row.
type DailyCheckAction string

const (
	ActionRemoveDead DailyCheckAction = "remove_dead"
	ActionReactivate DailyCheckAction = "reactivate"
)

// DailyCheckDetail records one change made by the daily alive check.
type DailyCheckDetail struct {
	ChecklistID string           `json:"checklist_id"`
	Action      DailyCheckAction `json:"action"`
	Removed     []string         `json:"removed,omitempty"`
	Remaining   []string         `json:"remaining,omitempty"`
	UTMCode     string           `json:"utm_code,omitempty"`
	Identity    *ChecklistKey    `json:"identity,omitempty"`
}

// DailyCheckSummary is the aggregate result of one daily alive run.
// Details are ordered in processing order: all removals precede any
// reactivations.
type DailyCheckSummary struct {
	Date         string             `json:"date"`
	CurrentWeek  string             `json:"current_week"`
	PreviousWeek string             `json:"previous_week"`
	Checked      int                `json:"checked"`
	Alive        int                `json:"alive"`
	Dead         int                `json:"dead"`
	Removed      int                `json:"removed"`
	Reactivated  int                `json:"reactivated"`
	Details      []DailyCheckDetail `json:"details"`
}

// --- Dashboard / reports ---

// MatrixCell is one (product, copy type) cell of the generation matrix,
// with variant counts rolled up into the parent type.
type MatrixCell struct {
	ProductID  string `json:"product_id"`
	CopyTypeID string `json:"copy_type_id"`
	Count      int    `json:"count"`
}

// DashboardSummary aggregates the landing-page numbers.
type DashboardSummary struct {
	GenerationMatrix []MatrixCell            `json:"generation_matrix"`
	TotalGenerations int                     `json:"total_generations"`
	RecentCopies     []GeneratedCopy         `json:"recent_copies"`
	ChecklistStats   UTMFillStats            `json:"checklist_stats"`
	TeamStats        map[string]UTMFillStats `json:"team_checklist_stats"`
}

// UTMFillStats counts checklist rows that carry at least one tracking code.
type UTMFillStats struct {
	Total          int `json:"total"`
	Filled         int `json:"filled"`
	CompletionRate int `json:"completion_rate"`
}

// WeeklyPerformance aggregates ad metrics for one team and week.
type WeeklyPerformance struct {
	Spend       float64 `json:"spend"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	CTR         float64 `json:"ctr"`
}

// UTMPerformance aggregates ad metrics for one tracking code over a
// month (or all time).
type UTMPerformance struct {
	Spend       float64 `json:"spend"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	CTR         float64 `json:"ctr"`
	CPC         float64 `json:"cpc"`
}

// CopyTypePerformance rolls tracking-code metrics up to the copy type
// that generated them.
type CopyTypePerformance struct {
	CopyTypeCode     string  `json:"copy_type_code"`
	CopyTypeName     string  `json:"copy_type_name"`
	TotalSpend       float64 `json:"total_spend"`
	TotalImpressions int64   `json:"total_impressions"`
	TotalClicks      int64   `json:"total_clicks"`
	UTMCount         int     `json:"utm_count"`
	AvgCTR           float64 `json:"avg_ctr"`
}

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	Model      string `json:"model"`
	Checklists int64  `json:"checklists"`
}
