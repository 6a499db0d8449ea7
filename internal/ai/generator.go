// Package ai generates ad copy and analyzes copy-type similarity
// through a chat-completion model.
package ai

import (
	"context"

	"github.com/hyperengineering/copydesk/internal/types"
)

// SimilarType describes one existing copy type judged similar to a
// candidate, with the two-stage scores behind the verdict.
type SimilarType struct {
	Code                 string `json:"code"`
	Name                 string `json:"name"`
	StructureSimilarity  int    `json:"structure_similarity"`
	PersuasionSimilarity int    `json:"persuasion_similarity"`
	SimilarityPercent    int    `json:"similarity_percent"`
	Reason               string `json:"reason"`
}

// SimilarityResult is the outcome of a copy-type similarity check.
type SimilarityResult struct {
	IsSimilar    bool          `json:"is_similar"`
	SimilarTypes []SimilarType `json:"similar_types"`
}

// ExtractedType is a copy-type proposal pulled out of a raw ad script.
type ExtractedType struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	CoreConcept string `json:"core_concept"`
	Description string `json:"description"`
}

// ScriptAnalysis is the outcome of analyzing a raw script: the proposed
// copy type plus a similarity verdict against the existing catalog.
// Extracted is nil when nothing could be analyzed.
type ScriptAnalysis struct {
	Extracted    *ExtractedType `json:"extracted"`
	IsSimilar    bool           `json:"is_similar"`
	SimilarTypes []SimilarType  `json:"similar_types"`
}

// Generator defines the interface contract for AI copy services.
type Generator interface {
	// GenerateCopy rewrites the copy type's example copy for product,
	// keeping structure and tone while swapping product facts.
	// customPrompt appends extra instructions when non-empty.
	GenerateCopy(ctx context.Context, product types.Product, copyType types.CopyType, customPrompt string) (string, error)

	// CheckSimilarity scores candidate against the existing copy types.
	CheckSimilarity(ctx context.Context, candidate types.CopyType, existing []types.CopyType) (*SimilarityResult, error)

	// AnalyzeScript extracts a copy-type proposal from a raw ad script
	// and scores it against the existing copy types in one pass.
	AnalyzeScript(ctx context.Context, script string, existing []types.CopyType) (*ScriptAnalysis, error)

	ModelName() string
}
