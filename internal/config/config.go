// Package config loads application configuration from an optional YAML
// file, with environment variables taking precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPort     = 8060
	DefaultLogLevel = "info"

	EnvPort     = "SCRIPTER_PORT"
	EnvLogLevel = "SCRIPTER_LOG_LEVEL"

	EnvOpenRouterAPIKey       = "OPENROUTER_API_KEY"
	EnvOpenRouterModel        = "OPENROUTER_MODEL"
	EnvOpenRouterBaseURL      = "OPENROUTER_BASE_URL"
	EnvOpenRouterAllowedHosts = "OPENROUTER_ALLOWED_HOSTS"

	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvGeminiModel  = "GEMINI_MODEL"

	EnvProxyInstances = "CAPTION_PROXY_INSTANCES"
	EnvCaptionLang    = "CAPTION_LANG"
)

// Config is the full application configuration. YAML keys map through
// the struct tags; environment variables win when both are set.
type Config struct {
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"logLevel"`

	OpenRouterAPIKey       string   `yaml:"openrouterApiKey"`
	OpenRouterModel        string   `yaml:"openrouterModel"`
	OpenRouterBaseURL      string   `yaml:"openrouterBaseUrl"`
	OpenRouterAllowedHosts []string `yaml:"openrouterAllowedHosts"`

	GeminiAPIKey string `yaml:"geminiApiKey"`
	GeminiModel  string `yaml:"geminiModel"`

	ProxyInstances []string `yaml:"captionProxyInstances"`
	CaptionLang    string   `yaml:"captionLang"`
}

// Load builds configuration from an optional YAML file plus the
// environment. An empty path skips the file entirely.
func Load(path string) (Config, error) {
	cfg := Config{
		Port:     DefaultPort,
		LogLevel: DefaultLogLevel,
	}

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
		if cfg.Port == 0 {
			cfg.Port = DefaultPort
		}
		if cfg.LogLevel == "" {
			cfg.LogLevel = DefaultLogLevel
		}
	}

	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		if port < 1 || port > 65535 {
			return Config{}, fmt.Errorf("invalid %s: port must be between 1 and 65535", EnvPort)
		}
		cfg.Port = port
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}

	setString(&cfg.OpenRouterAPIKey, EnvOpenRouterAPIKey)
	setString(&cfg.OpenRouterModel, EnvOpenRouterModel)
	setString(&cfg.OpenRouterBaseURL, EnvOpenRouterBaseURL)
	setList(&cfg.OpenRouterAllowedHosts, EnvOpenRouterAllowedHosts)
	setString(&cfg.GeminiAPIKey, EnvGeminiAPIKey)
	setString(&cfg.GeminiModel, EnvGeminiModel)
	setList(&cfg.ProxyInstances, EnvProxyInstances)
	setString(&cfg.CaptionLang, EnvCaptionLang)

	return cfg, nil
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func setList(dst *[]string, env string) {
	v := os.Getenv(env)
	if v == "" {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) > 0 {
		*dst = out
	}
}

// Addr is the listen address derived from the port.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)
