// Package anthropic implements the login oracle with Claude models.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"browser-automation/internal/application/port/output"
	"browser-automation/internal/domain/entity"
	"browser-automation/internal/infrastructure/llm/decision"
	"browser-automation/internal/infrastructure/prompts"
	"browser-automation/internal/infrastructure/transport"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

var _ output.OraclePort = (*Adapter)(nil)

const defaultMaxTokens = 1024

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Logger  output.LoggerPort
}

type Adapter struct {
	client *anthropic.Client
	model  string
	logger output.LoggerPort
}

func New(cfg Config) *Adapter {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Logger != nil {
		opts = append(opts, option.WithHTTPClient(transport.NewClient(cfg.Logger, 0)))
	}

	model := cfg.Model
	if model == "" {
		model = string(anthropic.ModelClaudeSonnet4_20250514)
	}

	client := anthropic.NewClient(opts...)
	return &Adapter{
		client: &client,
		model:  model,
		logger: cfg.Logger,
	}
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

	blocks := []anthropic.ContentBlockParamUnion{}
	if req.Screenshot != nil {
		blocks = append(blocks, anthropic.NewImageBlockBase64(req.Screenshot.MediaType(), req.Screenshot.Base64()))
	}
	blocks = append(blocks, anthropic.NewTextBlock(userText))

	system := prompts.SystemPromptWithSchema()

	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: defaultMaxTokens,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(blocks...),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("claude API error: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("empty response from claude")
	}

	d, err := decision.Parse(text.String())
	if err != nil {
		return nil, fmt.Errorf("parse decision: %w", err)
	}
	d = decision.Sanitize(d, req.Forms, a.logger)

	if a.logger != nil {
		a.logger.Debug("Received login decision",
			"model", a.model,
			"loginSucceeded", d.LoginSucceeded,
			"requiredInputs", len(d.RequiredInputs))
	}

	return d, nil
}
