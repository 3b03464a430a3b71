// Package config merges defaults, environment variables and command-line
// flags into one Config.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ProviderOpenRouter = "openrouter"
	ProviderLangChain  = "langchain"
	ProviderAnthropic  = "anthropic"

	DefaultOracleModel   = "openai/gpt-4o"
	DefaultOracleBaseURL = "https://openrouter.ai/api/v1"
)

type Config struct {
	Kernel  KernelConfig
	Oracle  OracleConfig
	Browser BrowserConfig
	Login   LoginConfig
	Log     LogConfig
}

type KernelConfig struct {
	APIKey  string
	BaseURL string
}

type OracleConfig struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

type BrowserConfig struct {
	// Remote creates the browser through the session API instead of
	// launching a local Chrome.
	Remote        bool
	Headless      bool
	Stealth       bool
	PersistenceID string
	ProfileName   string
	Timeout       time.Duration
}

type LoginConfig struct {
	URL          string
	TargetDomain string
	CookiePath   string
	MaxAttempts  int
	WaitTimeout  time.Duration
	ClickTimeout time.Duration
	MaskSecrets  bool
}

type LogConfig struct {
	Level string
	Dir   string
}

var ErrMissingValue = errors.New("missing required configuration value")

// New returns a viper instance with defaults and environment bindings.
// Keys use dots; environment variables use underscores (login.max_attempts
// is LOGIN_MAX_ATTEMPTS).
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("kernel.base_url", "https://api.onkernel.com")
	v.SetDefault("oracle.provider", ProviderOpenRouter)
	v.SetDefault("browser.remote", false)
	v.SetDefault("browser.headless", false)
	v.SetDefault("browser.stealth", false)
	v.SetDefault("browser.timeout", 10*time.Second)
	v.SetDefault("login.cookie_path", "cookies.json")
	v.SetDefault("login.max_attempts", 6)
	v.SetDefault("login.wait_timeout", 10*time.Second)
	v.SetDefault("login.click_timeout", 3*time.Second)
	v.SetDefault("login.mask_secrets", false)
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.dir", "log")

	// ORACLE_* apply to every provider. The provider-specific variables are
	// read only for their own provider, see resolveOracle.
	_ = v.BindEnv("kernel.api_key", "KERNEL_API_KEY")
	_ = v.BindEnv("oracle.api_key", "ORACLE_API_KEY")
	_ = v.BindEnv("oracle.model", "ORACLE_MODEL")
	_ = v.BindEnv("openrouter.api_key", "OPENROUTER_API_KEY")
	_ = v.BindEnv("openrouter.model", "OPENROUTER_MODEL_NAME")
	_ = v.BindEnv("openai.api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("anthropic.model", "ANTHROPIC_MODEL")

	return v
}

// BindFlags maps flag names onto config keys, e.g. {"max-attempts": "login.max_attempts"}.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) error {
	for flagName, key := range keys {
		f := flags.Lookup(flagName)
		if f == nil {
			return fmt.Errorf("unknown flag %q", flagName)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %q: %w", flagName, err)
		}
	}
	return nil
}

func Load(v *viper.Viper) Config {
	return Config{
		Kernel: KernelConfig{
			APIKey:  v.GetString("kernel.api_key"),
			BaseURL: v.GetString("kernel.base_url"),
		},
		Oracle: resolveOracle(v),
		Browser: BrowserConfig{
			Remote:        v.GetBool("browser.remote"),
			Headless:      v.GetBool("browser.headless"),
			Stealth:       v.GetBool("browser.stealth"),
			PersistenceID: v.GetString("browser.persistence_id"),
			ProfileName:   v.GetString("browser.profile_name"),
			Timeout:       v.GetDuration("browser.timeout"),
		},
		Login: LoginConfig{
			URL:          v.GetString("login.url"),
			TargetDomain: v.GetString("login.target_domain"),
			CookiePath:   v.GetString("login.cookie_path"),
			MaxAttempts:  v.GetInt("login.max_attempts"),
			WaitTimeout:  v.GetDuration("login.wait_timeout"),
			ClickTimeout: v.GetDuration("login.click_timeout"),
			MaskSecrets:  v.GetBool("login.mask_secrets"),
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
			Dir:   v.GetString("log.dir"),
		},
	}
}

// resolveOracle picks the key and model for the configured provider:
// ORACLE_API_KEY and ORACLE_MODEL (or the flags) first, then the provider's
// own variables. The OpenAI-compatible providers fall back to OPENAI_API_KEY,
// DefaultOracleModel and DefaultOracleBaseURL. Anthropic leaves model and base
// URL empty so the SDK defaults apply.
func resolveOracle(v *viper.Viper) OracleConfig {
	cfg := OracleConfig{
		Provider: strings.ToLower(v.GetString("oracle.provider")),
		Model:    v.GetString("oracle.model"),
		APIKey:   v.GetString("oracle.api_key"),
		BaseURL:  v.GetString("oracle.base_url"),
	}

	switch cfg.Provider {
	case ProviderAnthropic:
		cfg.APIKey = firstNonEmpty(cfg.APIKey, v.GetString("anthropic.api_key"))
		cfg.Model = firstNonEmpty(cfg.Model, v.GetString("anthropic.model"))
	default:
		cfg.APIKey = firstNonEmpty(cfg.APIKey, v.GetString("openrouter.api_key"), v.GetString("openai.api_key"))
		cfg.Model = firstNonEmpty(cfg.Model, v.GetString("openrouter.model"), DefaultOracleModel)
		cfg.BaseURL = firstNonEmpty(cfg.BaseURL, DefaultOracleBaseURL)
	}
	return cfg
}

func firstNonEmpty(values ...string) string {
	for _, s := range values {
		if s != "" {
			return s
		}
	}
	return ""
}

func (c Config) RequireKernel() error {
	if c.Kernel.APIKey == "" {
		return fmt.Errorf("%w: KERNEL_API_KEY", ErrMissingValue)
	}
	return nil
}

func (c Config) RequireOracle() error {
	switch c.Oracle.Provider {
	case ProviderOpenRouter, ProviderLangChain, ProviderAnthropic:
	default:
		return fmt.Errorf("unknown oracle provider %q (supported: %s, %s, %s)",
			c.Oracle.Provider, ProviderOpenRouter, ProviderLangChain, ProviderAnthropic)
	}
	if c.Oracle.APIKey == "" {
		if c.Oracle.Provider == ProviderAnthropic {
			return fmt.Errorf("%w: oracle API key (ORACLE_API_KEY or ANTHROPIC_API_KEY)", ErrMissingValue)
		}
		return fmt.Errorf("%w: oracle API key (ORACLE_API_KEY, OPENROUTER_API_KEY or OPENAI_API_KEY)", ErrMissingValue)
	}
	if c.Oracle.Model == "" && c.Oracle.Provider != ProviderAnthropic {
		return fmt.Errorf("%w: oracle model", ErrMissingValue)
	}
	return nil
}
