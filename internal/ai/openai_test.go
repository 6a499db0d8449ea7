package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/hyperengineering/copydesk/internal/types"
)

// mockChatService implements ChatService for testing
type mockChatService struct {
	content string
	err     error

	callCount  int
	lastPrompt string
	lastModel  string
}

func (m *mockChatService) New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	m.callCount++
	m.lastModel = string(params.Model.Value)
	// UserMessage wraps plain string content in a text content part.
	if msgs := params.Messages.Value; len(msgs) > 0 {
		if user, ok := msgs[0].(openai.ChatCompletionUserMessageParam); ok {
			if parts := user.Content.Value; len(parts) > 0 {
				if text, ok := parts[0].(openai.ChatCompletionContentPartTextParam); ok {
					m.lastPrompt = text.Text.Value
				}
			}
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: m.content}},
		},
	}, nil
}

func newTestOpenAI(mock *mockChatService) *OpenAI {
	return &OpenAI{chat: mock, model: "gpt-4o-mini"}
}

func TestGenerateCopy(t *testing.T) {
	mock := &mockChatService{content: "  Finished copy.\n"}
	gen := newTestOpenAI(mock)

	product := types.Product{Name: "Omega Boost", USP: "high-purity omega-3"}
	copyType := types.CopyType{ExampleCopy: "Ever feel tired at 3pm?"}

	got, err := gen.GenerateCopy(context.Background(), product, copyType, "")
	if err != nil {
		t.Fatalf("GenerateCopy: %v", err)
	}
	if got != "Finished copy." {
		t.Errorf("content = %q, want trimmed completion", got)
	}
	if mock.callCount != 1 {
		t.Errorf("callCount = %d, want 1", mock.callCount)
	}
	if mock.lastModel != "gpt-4o-mini" {
		t.Errorf("model = %q", mock.lastModel)
	}
}

func TestGenerateCopyAppendsCustomPrompt(t *testing.T) {
	mock := &mockChatService{content: "ok"}
	gen := newTestOpenAI(mock)

	_, err := gen.GenerateCopy(context.Background(), types.Product{Name: "X"}, types.CopyType{}, "shorter sentences")
	if err != nil {
		t.Fatalf("GenerateCopy: %v", err)
	}
	if !strings.Contains(mock.lastPrompt, "shorter sentences") {
		t.Error("custom prompt missing from request")
	}
	if !strings.Contains(mock.lastPrompt, "Additional instructions") {
		t.Error("custom prompt section header missing")
	}
}

func TestGenerateCopyError(t *testing.T) {
	mock := &mockChatService{err: errors.New("rate limited")}
	gen := newTestOpenAI(mock)

	_, err := gen.GenerateCopy(context.Background(), types.Product{}, types.CopyType{}, "")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "copy generation failed") {
		t.Errorf("error = %v", err)
	}
}

func TestGenerateCopyNoChoices(t *testing.T) {
	gen := &OpenAI{chat: &emptyChatService{}, model: "gpt-4o-mini"}

	_, err := gen.GenerateCopy(context.Background(), types.Product{}, types.CopyType{}, "")
	if err == nil {
		t.Fatal("expected error for empty choices")
	}
}

type emptyChatService struct{}

func (e *emptyChatService) New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error) {
	return &openai.ChatCompletion{}, nil
}

func TestCheckSimilarityNoExistingTypes(t *testing.T) {
	mock := &mockChatService{}
	gen := newTestOpenAI(mock)

	result, err := gen.CheckSimilarity(context.Background(), types.CopyType{}, nil)
	if err != nil {
		t.Fatalf("CheckSimilarity: %v", err)
	}
	if result.IsSimilar || len(result.SimilarTypes) != 0 {
		t.Errorf("result = %+v, want not similar", result)
	}
	if mock.callCount != 0 {
		t.Error("API was called with no existing types")
	}
}

func TestCheckSimilarityParsesFencedJSON(t *testing.T) {
	mock := &mockChatService{content: "```json\n" + `{"similar_types":[{"code":"T1","name":"Testimonial","structure_similarity":85,"persuasion_similarity":90,"similarity_percent":85,"reason":"same skeleton"}]}` + "\n```"}
	gen := newTestOpenAI(mock)

	result, err := gen.CheckSimilarity(context.Background(), types.CopyType{CoreConcept: "fear of aging"}, []types.CopyType{{Code: "T1", Name: "Testimonial"}})
	if err != nil {
		t.Fatalf("CheckSimilarity: %v", err)
	}
	if !result.IsSimilar || len(result.SimilarTypes) != 1 {
		t.Fatalf("result = %+v", result)
	}
	if result.SimilarTypes[0].Code != "T1" || result.SimilarTypes[0].SimilarityPercent != 85 {
		t.Errorf("similar type = %+v", result.SimilarTypes[0])
	}
}

func TestCheckSimilarityMalformedResponse(t *testing.T) {
	mock := &mockChatService{content: "I think they look alike."}
	gen := newTestOpenAI(mock)

	result, err := gen.CheckSimilarity(context.Background(), types.CopyType{}, []types.CopyType{{Code: "T1"}})
	if err != nil {
		t.Fatalf("CheckSimilarity: %v", err)
	}
	if result.IsSimilar || len(result.SimilarTypes) != 0 {
		t.Errorf("result = %+v, want not similar on parse failure", result)
	}
}

func TestAnalyzeScriptEmptyScript(t *testing.T) {
	mock := &mockChatService{}
	gen := newTestOpenAI(mock)

	result, err := gen.AnalyzeScript(context.Background(), "   \n", []types.CopyType{{Code: "T1"}})
	if err != nil {
		t.Fatalf("AnalyzeScript: %v", err)
	}
	if result.Extracted != nil || result.IsSimilar || len(result.SimilarTypes) != 0 {
		t.Errorf("result = %+v, want empty analysis", result)
	}
	if mock.callCount != 0 {
		t.Error("API was called for an empty script")
	}
}

func TestAnalyzeScriptParsesExtraction(t *testing.T) {
	mock := &mockChatService{content: "```json\n" + `{"extracted":{"code":"B2","name":"Before-after","core_concept":"visible change in 30 days","description":"Opens on the problem, closes on the transformation."},"similar_types":[{"code":"T1","name":"Testimonial","structure_similarity":85,"persuasion_similarity":90,"similarity_percent":85,"reason":"same skeleton"}]}` + "\n```"}
	gen := newTestOpenAI(mock)

	existing := []types.CopyType{{Code: "T1", Name: "Testimonial", ExampleCopy: "My knees stopped aching."}}
	result, err := gen.AnalyzeScript(context.Background(), "Thirty days ago I could barely climb stairs...", existing)
	if err != nil {
		t.Fatalf("AnalyzeScript: %v", err)
	}
	if result.Extracted == nil || result.Extracted.Code != "B2" || result.Extracted.Name != "Before-after" {
		t.Fatalf("extracted = %+v", result.Extracted)
	}
	if !result.IsSimilar || len(result.SimilarTypes) != 1 || result.SimilarTypes[0].Code != "T1" {
		t.Errorf("similar types = %+v", result.SimilarTypes)
	}
	if !strings.Contains(mock.lastPrompt, "Thirty days ago") {
		t.Error("script missing from prompt")
	}
	if !strings.Contains(mock.lastPrompt, "My knees stopped aching.") {
		t.Error("existing catalog missing from prompt")
	}
}

func TestAnalyzeScriptMalformedResponse(t *testing.T) {
	mock := &mockChatService{content: "Looks like a testimonial to me."}
	gen := newTestOpenAI(mock)

	result, err := gen.AnalyzeScript(context.Background(), "some script", nil)
	if err != nil {
		t.Fatalf("AnalyzeScript: %v", err)
	}
	if result.Extracted != nil || result.IsSimilar || len(result.SimilarTypes) != 0 {
		t.Errorf("result = %+v, want empty analysis on parse failure", result)
	}
}

func TestAnalyzeScriptError(t *testing.T) {
	mock := &mockChatService{err: errors.New("rate limited")}
	gen := newTestOpenAI(mock)

	_, err := gen.AnalyzeScript(context.Background(), "some script", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "script analysis failed") {
		t.Errorf("error = %v", err)
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tt := range tests {
		if got := stripCodeFence(tt.in); got != tt.want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
