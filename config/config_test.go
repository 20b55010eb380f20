package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Gateway.Kind != GatewayHTTP || cfg.Phrases.Greeting != "Hi" || !cfg.Presentation.SuppressItinerary() {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadYAMLAndEnv(t *testing.T) {
	path := writeConfig(t, `
listen: ":9090"
log_level: debug
gateway:
  url: http://backend/chat
presentation:
  suppress_itinerary_during_booking: false
  class_choices: [Economy, Business]
phrases:
  greeting: Hello
`)
	t.Setenv("TRIPAGENT_LISTEN", ":7070")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Listen != ":7070" {
		t.Errorf("env must override yaml, got %q", cfg.Listen)
	}
	if cfg.Gateway.URL != "http://backend/chat" || cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Presentation.SuppressItinerary() || len(cfg.Presentation.ClassChoices) != 2 {
		t.Errorf("unexpected presentation %+v", cfg.Presentation)
	}
	if cfg.Phrases.Greeting != "Hello" || cfg.Phrases.Confirm != "yes" {
		t.Errorf("phrases must merge over defaults: %+v", cfg.Phrases)
	}
}

func TestValidate(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	path := writeConfig(t, "gateway:\n  kind: model\n")
	if _, err := Load(path); err == nil {
		t.Error("expected an error without a model api key")
	}
	path = writeConfig(t, "gateway:\n  kind: pigeon\n")
	if _, err := Load(path); err == nil {
		t.Error("expected an error for an unknown gateway")
	}
	path = writeConfig(t, "phrases:\n  plan_trip_template: Take me there\n")
	if _, err := Load(path); err == nil {
		t.Error("expected an error for a template without a placeholder")
	}
}
