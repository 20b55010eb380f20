package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/tbxark/tripagent/agent"
)

const (
	GatewayHTTP  = "http"
	GatewayModel = "model"
)

type Gateway struct {
	Kind     string `yaml:"kind"`
	URL      string `yaml:"url"`
	APIKey   string `yaml:"api_key"`
	Timeout  int    `yaml:"timeout_seconds"`
	KeepLast int    `yaml:"keep_last_messages"`
}

type Model struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

type Presentation struct {
	SuppressItineraryDuringBooking *bool    `yaml:"suppress_itinerary_during_booking"`
	ClassChoices                   []string `yaml:"class_choices"`
	VehicleChoices                 []string `yaml:"vehicle_choices"`
}

// SuppressItinerary defaults to true.
func (p Presentation) SuppressItinerary() bool {
	return p.SuppressItineraryDuringBooking == nil || *p.SuppressItineraryDuringBooking
}

type Config struct {
	Listen        string        `yaml:"listen"`
	AllowedOrigin string        `yaml:"allowed_origin"`
	LogLevel      string        `yaml:"log_level"`
	Gateway       Gateway       `yaml:"gateway"`
	Model         Model         `yaml:"model"`
	Presentation  Presentation  `yaml:"presentation"`
	Phrases       agent.Phrases `yaml:"phrases"`
}

func Default() Config {
	return Config{
		Listen:        ":8080",
		AllowedOrigin: "*",
		LogLevel:      "info",
		Gateway: Gateway{
			Kind:     GatewayHTTP,
			URL:      "http://localhost:5000/chat",
			Timeout:  60,
			KeepLast: 20,
		},
		Model: Model{
			Model: "gpt-4o-mini",
		},
		Phrases: agent.DefaultPhrases(),
	}
}

// Load reads the optional YAML file at path over the defaults, then applies
// environment overrides. A .env file in the working directory is loaded first.
func Load(path string) (Config, error) {
	_ = godotenv.Load()
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	cfg.applyEnv()
	cfg.Phrases = cfg.Phrases.Merge(agent.DefaultPhrases())
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Gateway.URL = getEnvDefault("TRIPAGENT_GATEWAY_URL", c.Gateway.URL)
	c.Gateway.Kind = getEnvDefault("TRIPAGENT_GATEWAY_KIND", c.Gateway.Kind)
	c.Gateway.APIKey = getEnvDefault("TRIPAGENT_GATEWAY_API_KEY", c.Gateway.APIKey)
	c.Listen = getEnvDefault("TRIPAGENT_LISTEN", c.Listen)
	c.LogLevel = getEnvDefault("TRIPAGENT_LOG_LEVEL", c.LogLevel)
	c.AllowedOrigin = getEnvDefault("TRIPAGENT_ALLOWED_ORIGIN", c.AllowedOrigin)
	c.Model.APIKey = getEnvDefault("OPENAI_API_KEY", c.Model.APIKey)
	c.Model.BaseURL = getEnvDefault("OPENAI_BASE_URL", c.Model.BaseURL)
	c.Model.Model = getEnvDefault("OPENAI_MODEL", c.Model.Model)
	if v, ok := getEnvBool("TRIPAGENT_SUPPRESS_ITINERARY"); ok {
		c.Presentation.SuppressItineraryDuringBooking = &v
	}
}

func (c Config) Validate() error {
	switch c.Gateway.Kind {
	case GatewayHTTP:
		if c.Gateway.URL == "" {
			return fmt.Errorf("gateway url is required for the %s gateway", GatewayHTTP)
		}
	case GatewayModel:
		if c.Model.APIKey == "" {
			return fmt.Errorf("model api key is required for the %s gateway", GatewayModel)
		}
	default:
		return fmt.Errorf("unknown gateway kind %q", c.Gateway.Kind)
	}
	if !strings.Contains(c.Phrases.PlanTripTemplate, "%s") {
		return fmt.Errorf("plan_trip_template must contain %%s")
	}
	return nil
}

// SlogLevel maps LogLevel to a slog level, defaulting to Info.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	}
	return false, false
}
