// Package langchain implements the login oracle on top of langchaingo's
// OpenAI-compatible LLM.
package langchain

import (
	"context"
	"fmt"

	"browser-automation/internal/application/port/output"
	"browser-automation/internal/domain/entity"
	"browser-automation/internal/infrastructure/llm/decision"
	"browser-automation/internal/infrastructure/prompts"
	"browser-automation/internal/infrastructure/transport"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

var _ output.OraclePort = (*Adapter)(nil)

type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	Logger      output.LoggerPort
}

type Adapter struct {
	llm         llms.Model
	temperature float64
	logger      output.LoggerPort
}

func New(cfg Config) (*Adapter, error) {
	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Logger != nil {
		opts = append(opts, openai.WithHTTPClient(transport.NewClient(cfg.Logger, 0)))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create langchain llm: %w", err)
	}

	return NewWithModel(llm, cfg.Temperature, cfg.Logger), nil
}

func NewWithModel(llm llms.Model, temperature float64, logger output.LoggerPort) *Adapter {
	return &Adapter{llm: llm, temperature: temperature, logger: logger}
}

func (a *Adapter) Decide(ctx context.Context, req output.OracleRequest) (*entity.Decision, error) {
	userText, err := prompts.GenerateLoginPrompt(prompts.LoginPromptData{
		PageURL:       req.PageURL,
		PageText:      req.PageText,
		Forms:         req.Forms,
		Attempt:       req.Attempt,
		MaxAttempts:   req.MaxAttempts,
		HasScreenshot: req.Screenshot != nil,
	})
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}

	parts := []llms.ContentPart{llms.TextContent{Text: userText}}
	if req.Screenshot != nil {
		parts = append(parts, llms.ImageURLContent{URL: req.Screenshot.DataURL()})
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, prompts.SystemPromptWithSchema()),
		{Role: llms.ChatMessageTypeHuman, Parts: parts},
	}

	resp, err := a.llm.GenerateContent(ctx, messages,
		llms.WithJSONMode(),
		llms.WithTemperature(a.temperature),
	)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	d, err := decision.Parse(resp.Choices[0].Content)
	if err != nil {
		return nil, fmt.Errorf("parse decision: %w", err)
	}
	d = decision.Sanitize(d, req.Forms, a.logger)

	if a.logger != nil {
		a.logger.Debug("Received login decision",
			"loginSucceeded", d.LoginSucceeded,
			"requiredInputs", len(d.RequiredInputs))
	}

	return d, nil
}
