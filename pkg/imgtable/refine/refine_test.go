package refine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/ukaji3/imgtable-go/pkg/imgtable/models"
)

// fakeModel is an llms.Model that replays a canned answer.
type fakeModel struct {
	answer   string
	err      error
	empty    bool
	calls    int
	messages []llms.MessageContent
	options  llms.CallOptions
}

func (m *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.calls++
	m.messages = messages
	for _, opt := range options {
		opt(&m.options)
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.empty {
		return &llms.ContentResponse{}, nil
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: m.answer}}}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func messageText(t *testing.T, msg llms.MessageContent) string {
	t.Helper()
	require.Len(t, msg.Parts, 1)
	part, ok := msg.Parts[0].(llms.TextContent)
	require.True(t, ok, "part is %T", msg.Parts[0])
	return part.Text
}

var rawGrid = models.Grid{{"Name", "Age"}, {"Alice", "3", "0"}}

func TestLLMRefine(t *testing.T) {
	model := &fakeModel{answer: "```json\n[[\"Name\", \"Age\"], [\"Alice\", 30]]\n```"}
	r := NewLLMWithModel(model, DefaultConfig(), nil)

	refined, err := r.Refine(context.Background(), rawGrid)
	require.NoError(t, err)
	assert.Equal(t, models.Grid{{"Name", "Age"}, {"Alice", "30"}}, refined)

	require.Equal(t, 1, model.calls)
	require.Len(t, model.messages, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, model.messages[0].Role)
	assert.Equal(t, systemPrompt, messageText(t, model.messages[0]))
	assert.Equal(t, llms.ChatMessageTypeHuman, model.messages[1].Role)
	prompt := messageText(t, model.messages[1])
	assert.Contains(t, prompt, "The first row contains column headers.")
	assert.Contains(t, prompt, `"Alice"`)

	assert.Equal(t, DefaultModel, model.options.Model)
	assert.Equal(t, DefaultTemperature, model.options.Temperature)
	assert.Equal(t, DefaultMaxTokens, model.options.MaxTokens)
	assert.Equal(t, DefaultTopP, model.options.TopP)
}

func TestLLMRefineEmptyGridSkipsModel(t *testing.T) {
	model := &fakeModel{answer: "[]"}
	r := NewLLMWithModel(model, DefaultConfig(), nil)

	refined, err := r.Refine(context.Background(), models.Grid{})
	require.NoError(t, err)
	assert.Empty(t, refined)
	assert.Equal(t, 0, model.calls)
}

func TestLLMRefineFailures(t *testing.T) {
	boom := errors.New("connection reset")
	tests := []struct {
		name  string
		model *fakeModel
		is    error
	}{
		{"transport error", &fakeModel{err: boom}, boom},
		{"no choices", &fakeModel{empty: true}, ErrMalformedResponse},
		{"prose answer", &fakeModel{answer: "Sure! Here is your table."}, ErrMalformedResponse},
		{"object answer", &fakeModel{answer: `{"rows": []}`}, ErrMalformedResponse},
		{"empty table", &fakeModel{answer: "[]"}, ErrMalformedResponse},
		{"null row", &fakeModel{answer: "[null]"}, ErrMalformedResponse},
		{"one empty row", &fakeModel{answer: "[[]]"}, ErrMalformedResponse},
		{"empty rows", &fakeModel{answer: "[[],[]]"}, ErrMalformedResponse},
		{"blank cells", &fakeModel{answer: `[["", null], [""]]`}, ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewLLMWithModel(tt.model, DefaultConfig(), nil)
			_, err := r.Refine(context.Background(), rawGrid)
			assert.ErrorIs(t, err, tt.is)
		})
	}
}

func TestWithFallback(t *testing.T) {
	ctx := context.Background()

	got, err := WithFallback(ctx, Identity{}, rawGrid)
	require.NoError(t, err)
	assert.Equal(t, rawGrid, got)

	got, err = WithFallback(ctx, Unavailable{Err: ErrNoCredential}, rawGrid)
	assert.ErrorIs(t, err, ErrNoCredential)
	assert.True(t, rawGrid.Equal(got))

	bad := NewLLMWithModel(&fakeModel{answer: "not json"}, DefaultConfig(), nil)
	got, err = WithFallback(ctx, bad, rawGrid)
	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.Equal(t, rawGrid, got)

	blank := NewLLMWithModel(&fakeModel{answer: "[[]]"}, DefaultConfig(), nil)
	got, err = WithFallback(ctx, blank, rawGrid)
	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.Equal(t, rawGrid, got)

	got, err = WithFallback(ctx, nil, rawGrid)
	require.NoError(t, err)
	assert.Equal(t, rawGrid, got)
}

func TestIdentityReturnsCopy(t *testing.T) {
	in := models.Grid{{"a"}}
	out, err := Identity{}.Refine(context.Background(), in)
	require.NoError(t, err)
	out[0][0] = "b"
	assert.Equal(t, "a", in[0][0])
}

func TestNewLLMRequiresKey(t *testing.T) {
	_, err := NewLLM(DefaultConfig(), nil)
	assert.ErrorIs(t, err, ErrNoCredential)

	cfg := DefaultConfig()
	cfg.APIKey = "test-key"
	r, err := NewLLM(cfg, nil)
	require.NoError(t, err)
	assert.NotNil(t, r)
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected models.Grid
	}{
		{"plain", `[["a","b"],["c","d"]]`, models.Grid{{"a", "b"}, {"c", "d"}}},
		{"fenced", "```json\n[[\"a\"]]\n```", models.Grid{{"a"}}},
		{"bare fence", "```\n[[\"a\"]]\n```", models.Grid{{"a"}}},
		{"numbers kept verbatim", `[["n"],[1.50],[42],[-3e2]]`, models.Grid{{"n"}, {"1.50"}, {"42"}, {"-3e2"}}},
		{"bool and null", `[[true, null, false]]`, models.Grid{{"true", "", "false"}}},
		{"ragged", `[["a","b","c"],["d"]]`, models.Grid{{"a", "b", "c"}, {"d"}}},
		{"empty row", `[["a"],[]]`, models.Grid{{"a"}, {}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseResponse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseResponseMalformed(t *testing.T) {
	inputs := []string{
		"",
		"```json\n```",
		"not json",
		`{"a": 1}`,
		`["a", "b"]`,
		`[["a", ["nested"]]]`,
		`[["a", {"k": "v"}]]`,
		`[null]`,
		`[["a"], null]`,
	}

	for _, in := range inputs {
		_, err := ParseResponse(in)
		assert.ErrorIs(t, err, ErrMalformedResponse, "input %q", in)
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt, err := BuildPrompt(models.Grid{{"Name", "Age"}})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(prompt, "Analyze and refine this table data"))
	assert.True(t, strings.HasSuffix(prompt, "Raw data:\n[\n  [\n    \"Name\",\n    \"Age\"\n  ]\n]"))

	prompt, err = BuildPrompt(nil)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(prompt, "Raw data:\n[]"))
}
