// Package llm selects the login oracle backend from configuration.
package llm

import (
	"fmt"

	"browser-automation/internal/application/port/output"
	"browser-automation/internal/infrastructure/config"
	"browser-automation/internal/infrastructure/llm/anthropic"
	"browser-automation/internal/infrastructure/llm/langchain"
	"browser-automation/internal/infrastructure/llm/openrouter"
)

func NewOracle(cfg config.OracleConfig, logger output.LoggerPort) (output.OraclePort, error) {
	switch cfg.Provider {
	case config.ProviderOpenRouter, "":
		return openrouter.NewOpenRouterAdapter(openrouter.Config{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Logger:  logger,
		}), nil

	case config.ProviderLangChain:
		return langchain.New(langchain.Config{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Logger:  logger,
		})

	case config.ProviderAnthropic:
		return anthropic.New(anthropic.Config{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Logger:  logger,
		}), nil

	default:
		return nil, fmt.Errorf("unknown oracle provider %q", cfg.Provider)
	}
}
