package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/hyperengineering/copydesk/internal/types"
)

// Compile-time interface check
var _ Generator = (*OpenAI)(nil)

// ChatService defines the interface for making chat completion calls.
// This abstraction enables testing without calling the real OpenAI API.
type ChatService interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// OpenAI implements copy generation using OpenAI's chat API.
type OpenAI struct {
	chat  ChatService
	model openai.ChatModel
}

// NewOpenAI creates a new OpenAI copy generation service.
func NewOpenAI(apiKey, model string) *OpenAI {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAI{
		chat:  client.Chat.Completions,
		model: openai.ChatModel(model),
	}
}

const copyGenerationPrompt = `You are an ad copy adaptation specialist.

## Core rules (non-negotiable)
1. Preserve the sentence structure, tone, and flow of the "source copy" below exactly.
2. Replace only the product name, ingredients, mechanism, and benefit claims with the new product's information.
3. Never change the source's emotional expressions, hooks, or voice.
4. Do not add sentences or invent content absent from the source.
5. Keep the output length close to the source's length.

## Output format
- Separate paragraphs with one blank line.
- Break lines every two or three sentences for readability.
- Split long sentences where natural.

## New product (swap this in)
- Name: %s
- English name: %s
- USP (core selling point): %s
- Mechanism: %s
- Form: %s

## Source copy (keep structure, swap product facts)
%s

---

Rewrite the source copy above, replacing only product-related facts with the new product's information.
Keep the source's style, structure, and emotional expressions intact.
Output exactly one finished copy. Never output multiple versions, repetitions, or divider lines.`

// GenerateCopy produces one finished ad copy for product in the style
// of the copy type's example copy.
func (o *OpenAI) GenerateCopy(ctx context.Context, product types.Product, copyType types.CopyType, customPrompt string) (string, error) {
	prompt := fmt.Sprintf(copyGenerationPrompt,
		product.Name,
		product.EnglishName,
		product.USP,
		product.Mechanism,
		product.Shape,
		copyType.ExampleCopy,
	)
	if customPrompt != "" {
		prompt += "\n\n## Additional instructions\n" + customPrompt
	}

	content, err := o.complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("copy generation failed: %w", err)
	}
	return content, nil
}

const similarityCheckPrompt = `You are an ad copy type analyst.

Score how similar a new copy type is to each existing copy type using a two-stage analysis.

## New copy type
- Core concept: %s
- Description: %s
- Example copy: %s

## Existing copy types
%s

## Two-stage criteria

### Stage 1: structure similarity (structure_similarity)
Is the overall skeleton of the copy the same? Sentence ordering, paragraph layout, flow pattern. A variation that only swaps product names or keywords scores high; a completely different structure scores 30 or below.

### Stage 2: persuasion similarity (persuasion_similarity)
Even when the structure differs, does the copy persuade with the same thing? Which consumer need it targets, what logical frame it uses, whether the core appeal point is the same.

### Final score
- structure_similarity >= 70: similarity_percent = structure_similarity
- otherwise: similarity_percent = persuasion_similarity * 0.8

## Response format
Respond with JSON only, no other text. Include only types whose similarity_percent is 80 or more.

{
  "similar_types": [
    {
      "code": "type code",
      "name": "type name",
      "structure_similarity": 85,
      "persuasion_similarity": 90,
      "similarity_percent": 85,
      "reason": "stage 1 (structure): ... / stage 2 (persuasion): ..."
    }
  ]
}

Leave similar_types empty when nothing is similar.`

// CheckSimilarity asks the model whether candidate duplicates any of
// the existing copy types. A malformed model response is treated as
// "not similar" rather than an error.
func (o *OpenAI) CheckSimilarity(ctx context.Context, candidate types.CopyType, existing []types.CopyType) (*SimilarityResult, error) {
	result := &SimilarityResult{SimilarTypes: []SimilarType{}}
	if len(existing) == 0 {
		return result, nil
	}

	var catalog strings.Builder
	for _, t := range existing {
		fmt.Fprintf(&catalog, "\n- Code: %s\n  Name: %s\n  Core concept: %s\n  Description: %s\n  Example copy: %s\n",
			t.Code, t.Name, t.CoreConcept, t.Description, t.ExampleCopy)
	}

	prompt := fmt.Sprintf(similarityCheckPrompt,
		candidate.CoreConcept,
		candidate.Description,
		candidate.ExampleCopy,
		catalog.String(),
	)

	content, err := o.complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("similarity check failed: %w", err)
	}

	var parsed struct {
		SimilarTypes []SimilarType `json:"similar_types"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &parsed); err != nil {
		return result, nil
	}
	if parsed.SimilarTypes != nil {
		result.SimilarTypes = parsed.SimilarTypes
	}
	result.IsSimilar = len(result.SimilarTypes) > 0
	return result, nil
}

const scriptAnalysisPrompt = `You are an ad copy type analyst.

Read the raw ad script below, distill it into a copy type proposal, and score the proposal against each existing copy type using the two-stage analysis.

## Raw script
%s

## Existing copy types
%s

## Extraction rules
- code: one uppercase letter followed by a number (e.g. A1, B3). Never reuse a code already present in the existing types.
- name: a short label for the copy's approach.
- core_concept: one sentence naming the persuasion idea the copy is built on.
- description: two or three sentences describing structure and appeal.

## Two-stage criteria

### Stage 1: structure similarity (structure_similarity)
Is the overall skeleton of the copy the same? Sentence ordering, paragraph layout, flow pattern. A variation that only swaps product names or keywords scores high; a completely different structure scores 30 or below.

### Stage 2: persuasion similarity (persuasion_similarity)
Even when the structure differs, does the copy persuade with the same thing? Which consumer need it targets, what logical frame it uses, whether the core appeal point is the same.

### Final score
- structure_similarity >= 70: similarity_percent = structure_similarity
- otherwise: similarity_percent = persuasion_similarity * 0.8

## Response format
Respond with JSON only, no other text. Include only types whose similarity_percent is 80 or more.

{
  "extracted": {
    "code": "A1",
    "name": "type name",
    "core_concept": "one sentence",
    "description": "two or three sentences"
  },
  "similar_types": [
    {
      "code": "type code",
      "name": "type name",
      "structure_similarity": 85,
      "persuasion_similarity": 90,
      "similarity_percent": 85,
      "reason": "stage 1 (structure): ... / stage 2 (persuasion): ..."
    }
  ]
}

Leave similar_types empty when nothing is similar.`

// AnalyzeScript distills a raw script into a copy-type proposal and
// checks it against existing in the same model call. An empty script
// or a malformed model response yields an empty analysis, not an
// error.
func (o *OpenAI) AnalyzeScript(ctx context.Context, script string, existing []types.CopyType) (*ScriptAnalysis, error) {
	result := &ScriptAnalysis{SimilarTypes: []SimilarType{}}
	if strings.TrimSpace(script) == "" {
		return result, nil
	}

	var catalog strings.Builder
	if len(existing) == 0 {
		catalog.WriteString("\n(none yet)\n")
	}
	for _, t := range existing {
		fmt.Fprintf(&catalog, "\n- Code: %s\n  Name: %s\n  Core concept: %s\n  Description: %s\n  Example copy: %s\n",
			t.Code, t.Name, t.CoreConcept, t.Description, t.ExampleCopy)
	}

	prompt := fmt.Sprintf(scriptAnalysisPrompt, script, catalog.String())

	content, err := o.complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("script analysis failed: %w", err)
	}

	var parsed struct {
		Extracted    *ExtractedType `json:"extracted"`
		SimilarTypes []SimilarType  `json:"similar_types"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &parsed); err != nil {
		return result, nil
	}
	result.Extracted = parsed.Extracted
	if parsed.SimilarTypes != nil {
		result.SimilarTypes = parsed.SimilarTypes
	}
	result.IsSimilar = len(result.SimilarTypes) > 0
	return result, nil
}

func (o *OpenAI) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := o.chat.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		}),
		Model: openai.F(o.model),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// stripCodeFence unwraps a markdown code block the model may have
// wrapped its JSON in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// ModelName returns the chat model name.
func (o *OpenAI) ModelName() string {
	return string(o.model)
}
