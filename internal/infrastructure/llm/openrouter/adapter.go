package openrouter

import (
	"context"
	"encoding/json"
	"fmt"

	"browser-automation/internal/application/port/output"
	"browser-automation/internal/domain/entity"
	"browser-automation/internal/infrastructure/llm/decision"
	"browser-automation/internal/infrastructure/prompts"
	"browser-automation/internal/infrastructure/transport"

	"github.com/sashabaranov/go-openai"
)

var _ output.OraclePort = (*OpenRouterAdapter)(nil)

type OpenRouterAdapter struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      output.LoggerPort
}

type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float32
	Logger      output.LoggerPort
}

func DefaultConfig(apiKey, model string) Config {
	return Config{
		APIKey:  apiKey,
		Model:   model,
		BaseURL: "https://openrouter.ai/api/v1",
	}
}

func NewOpenRouterAdapter(cfg Config) *OpenRouterAdapter {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	if cfg.Logger != nil {
		config.HTTPClient = transport.NewClient(cfg.Logger, 0)
	}

	return &OpenRouterAdapter{
		client:      openai.NewClientWithConfig(config),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		logger:      cfg.Logger,
	}
}

// Decide asks the model for a login decision. Call errors are returned
// unchanged apart from wrapping.
func (a *OpenRouterAdapter) Decide(ctx context.Context, req output.OracleRequest) (*entity.Decision, error) {
	messages, err := buildMessages(req)
	if err != nil {
		return nil, err
	}

	if a.logger != nil {
		a.logger.Debug("Requesting login decision",
			"model", a.model,
			"url", req.PageURL,
			"forms", len(req.Forms),
			"screenshot", req.Screenshot != nil)
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.model,
		Messages:    messages,
		Temperature: a.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   prompts.DecisionSchemaName,
				Schema: json.RawMessage(prompts.DecisionSchema),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	content := resp.Choices[0].Message.Content
	d, err := decision.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parse decision: %w", err)
	}
	d = decision.Sanitize(d, req.Forms, a.logger)

	if a.logger != nil {
		a.logger.Debug("Received login decision",
			"loginSucceeded", d.LoginSucceeded,
			"interpretation", d.Interpretation,
			"requiredInputs", len(d.RequiredInputs))
	}

	return d, nil
}

func buildMessages(req output.OracleRequest) ([]openai.ChatCompletionMessage, error) {
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

	user := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if req.Screenshot == nil {
		user.Content = userText
	} else {
		user.MultiContent = []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: userText},
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    req.Screenshot.DataURL(),
					Detail: openai.ImageURLDetailAuto,
				},
			},
		}
	}

	return []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: prompts.LoginSystemPrompt},
		user,
	}, nil
}
