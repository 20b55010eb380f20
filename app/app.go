// Package app wires configuration into the chat core for the bundled binaries.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"github.com/tbxark/tripagent/agent"
	"github.com/tbxark/tripagent/config"
	"github.com/tbxark/tripagent/gateway"
	"github.com/tbxark/tripagent/present"
	"github.com/tbxark/tripagent/store"
)

func SetupLogging(cfg config.Config) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
}

// NewChatModel returns nil without an error when no API key is configured.
func NewChatModel(ctx context.Context, cfg config.Config) (model.ToolCallingChatModel, error) {
	if cfg.Model.APIKey == "" {
		return nil, nil
	}
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  cfg.Model.APIKey,
		Model:   cfg.Model.Model,
		BaseURL: cfg.Model.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return cm, nil
}

func NewGateway(cfg config.Config, cm model.ToolCallingChatModel) (gateway.Gateway, error) {
	switch cfg.Gateway.Kind {
	case config.GatewayModel:
		if cm == nil {
			return nil, fmt.Errorf("the %s gateway needs a chat model", config.GatewayModel)
		}
		keep := cfg.Gateway.KeepLast
		if keep <= 0 {
			keep = 20
		}
		gw, err := gateway.NewModelGateway(cm, gateway.WithHistory(store.NewMemoryHistory(store.KeepSystemLastN{N: keep})))
		if err != nil {
			return nil, err
		}
		return gw, nil
	case config.GatewayHTTP:
		opts := []gateway.HTTPOption{
			gateway.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Gateway.Timeout) * time.Second}),
		}
		if cfg.Gateway.APIKey != "" {
			opts = append(opts, gateway.WithHeader("Authorization", "Bearer "+cfg.Gateway.APIKey))
		}
		return gateway.NewHTTPGateway(cfg.Gateway.URL, opts...), nil
	default:
		return nil, fmt.Errorf("unknown gateway kind %q", cfg.Gateway.Kind)
	}
}

func NewSelector(cfg config.Config) *present.Selector {
	return present.NewSelector(
		present.WithItinerarySuppression(cfg.Presentation.SuppressItinerary()),
		present.WithClassChoices(cfg.Presentation.ClassChoices...),
		present.WithVehicleChoices(cfg.Presentation.VehicleChoices...),
	)
}

func NewOrchestrator(cfg config.Config, gw gateway.Gateway) *agent.Orchestrator {
	return agent.NewOrchestrator(gw, agent.WithPhrases(cfg.Phrases))
}
