package refine

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/ukaji3/imgtable-go/pkg/imgtable/models"
	"github.com/ukaji3/imgtable-go/pkg/imgtable/table"
	"go.uber.org/zap"
)

// Defaults match the GitHub Models endpoint the tool was first written against.
const (
	DefaultModel       = "gpt-4o"
	DefaultBaseURL     = "https://models.inference.ai.azure.com"
	DefaultTemperature = 0.2
	DefaultMaxTokens   = 4096
	DefaultTopP        = 1.0
)

// Config configures the language model refiner.
type Config struct {
	// APIKey is the credential for the model endpoint.
	APIKey string
	// BaseURL is the OpenAI-compatible endpoint.
	BaseURL string
	// Model is the model name.
	Model string
	// Temperature is the sampling temperature.
	Temperature float64
	// MaxTokens caps the answer length.
	MaxTokens int
	// TopP is the nucleus sampling parameter.
	TopP float64
	// HTTPClient overrides the transport (optional).
	HTTPClient *http.Client
}

// DefaultConfig returns the default model settings without a credential.
func DefaultConfig() Config {
	return Config{
		BaseURL:     DefaultBaseURL,
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		TopP:        DefaultTopP,
	}
}

// LLM refines grids with a chat model.
type LLM struct {
	model  llms.Model
	cfg    Config
	logger *zap.Logger
}

// NewLLM builds an OpenAI-compatible client from cfg.
func NewLLM(cfg Config, logger *zap.Logger) (*LLM, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoCredential
	}
	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, openai.WithHTTPClient(cfg.HTTPClient))
	}
	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create model client: %w", err)
	}
	return NewLLMWithModel(model, cfg, logger), nil
}

// NewLLMWithModel wraps an existing model.
func NewLLMWithModel(model llms.Model, cfg Config, logger *zap.Logger) *LLM {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLM{model: model, cfg: cfg, logger: logger}
}

// Refine implements Refiner. An empty grid is returned as is without a call.
func (l *LLM) Refine(ctx context.Context, grid models.Grid) (models.Grid, error) {
	if grid.IsEmpty() {
		return grid, nil
	}

	prompt, err := BuildPrompt(grid)
	if err != nil {
		return nil, err
	}

	logger := l.logger.With(zap.String("model", l.cfg.Model))
	logger.Debug("Sending grid to model", zap.Int("rows", len(grid)), zap.Int("columns", grid.Width()))

	resp, err := l.model.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}, l.callOptions()...)
	if err != nil {
		return nil, fmt.Errorf("model request failed: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices returned", ErrMalformedResponse)
	}

	refined, err := ParseResponse(resp.Choices[0].Content)
	if err != nil {
		return nil, err
	}
	if _, ok := table.FindBounds(refined); !ok {
		return nil, fmt.Errorf("%w: model returned a table without text", ErrMalformedResponse)
	}

	logger.Debug("Model refined grid", zap.Int("rows", len(refined)), zap.Int("columns", refined.Width()))
	return refined, nil
}

func (l *LLM) callOptions() []llms.CallOption {
	opts := []llms.CallOption{
		llms.WithModel(l.cfg.Model),
		llms.WithTemperature(l.cfg.Temperature),
	}
	if l.cfg.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(l.cfg.MaxTokens))
	}
	if l.cfg.TopP > 0 {
		opts = append(opts, llms.WithTopP(l.cfg.TopP))
	}
	return opts
}
