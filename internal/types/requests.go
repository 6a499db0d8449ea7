package types

// ProductRequest carries the writable product fields for create and
// update calls.
type ProductRequest struct {
	Name         string   `json:"name"`
	EnglishName  string   `json:"english_name"`
	USP          string   `json:"usp"`
	Mechanism    string   `json:"mechanism"`
	Shape        string   `json:"shape"`
	AppealPoints []string `json:"appeal_points"`
	Features     []string `json:"features"`
	HerbKeywords []string `json:"herb_keywords"`
}

// CopyTypeRequest carries the writable copy-type fields.
type CopyTypeRequest struct {
	Code           string  `json:"code"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	CoreConcept    string  `json:"core_concept"`
	ExampleCopy    string  `json:"example_copy"`
	PromptTemplate string  `json:"prompt_template"`
	ParentID       *string `json:"parent_id,omitempty"`
}

// TeamRequest creates a team.
type TeamRequest struct {
	Name string `json:"name"`
}

// TeamProductRequest assigns a product to a team.
type TeamProductRequest struct {
	TeamID    string `json:"team_id"`
	ProductID string `json:"product_id"`
}

// TeamProductActiveRequest toggles an assignment.
type TeamProductActiveRequest struct {
	Active bool `json:"active"`
}

// InitWeekRequest triggers week initialization; an empty week means
// the current week.
type InitWeekRequest struct {
	Week string `json:"week,omitempty"`
}

// GenerateRequest asks for an AI-generated copy.
type GenerateRequest struct {
	ProductID    string `json:"product_id"`
	CopyTypeID   string `json:"copy_type_id"`
	CustomPrompt string `json:"custom_prompt,omitempty"`
}

// SimilarityRequest asks whether a prospective copy type duplicates an
// existing one.
type SimilarityRequest struct {
	CoreConcept string `json:"core_concept"`
	Description string `json:"description"`
	ExampleCopy string `json:"example_copy"`
}

// AnalyzeScriptRequest submits a raw ad script for copy-type
// extraction and similarity scoring.
type AnalyzeScriptRequest struct {
	Script string `json:"script"`
}

// CopyCreateRequest records a manually written copy. Versioning works
// the same as for generated ones.
type CopyCreateRequest struct {
	ProductID  string `json:"product_id"`
	CopyTypeID string `json:"copy_type_id"`
	Content    string `json:"content"`
}

// CopyUpdateRequest edits a generated copy's content.
type CopyUpdateRequest struct {
	Content string   `json:"content"`
	AdSpend *float64 `json:"ad_spend,omitempty"`
}

// BestCopyRequest marks a copy as a monthly best performer.
type BestCopyRequest struct {
	CopyID  string  `json:"copy_id"`
	Month   string  `json:"month"`
	AdSpend float64 `json:"ad_spend"`
}

// WeeklyReportResponse is the per-team, per-week performance payload.
type WeeklyReportResponse struct {
	StartWeek string                                  `json:"start_week"`
	EndWeek   string                                  `json:"end_week"`
	Teams     map[string]map[string]WeeklyPerformance `json:"teams"`
}
