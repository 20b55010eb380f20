package gateway

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/tripagent/store"
	"github.com/tbxark/tripagent/structured"
)

// TurnReply is the tool call a chat model answers with when it stands in for the
// dialogue backend.
type TurnReply struct {
	Response   string  `json:"response" jsonschema:"required,description=The reply shown to the traveller, using the prose layouts from the instructions"`
	Intent     string  `json:"intent,omitempty" jsonschema:"description=Name of the intent matched by the user message"`
	Page       string  `json:"page,omitempty" jsonschema:"description=Name of the current conversation page; ends with _Options while numbered options are shown"`
	Confidence float64 `json:"confidence,omitempty" jsonschema:"description=Intent confidence between 0 and 1"`
}

// Forgetter is implemented by gateways that keep per-session state of their own.
type Forgetter interface {
	Forget(ctx context.Context, sessionID string) error
}

// ModelGateway answers turns with a tool-calling chat model. It is meant for local
// development without the real dialogue backend.
type ModelGateway struct {
	chain        *structured.Chain[[]*schema.Message, TurnReply]
	history      *store.History
	systemPrompt string
}

type ModelOption func(*modelOptions)

type modelOptions struct {
	history      *store.History
	systemPrompt string
}

// WithHistory replaces the default in-memory transcript that keeps the last 20 messages.
func WithHistory(h *store.History) ModelOption {
	return func(o *modelOptions) {
		o.history = h
	}
}

func WithSystemPrompt(prompt string) ModelOption {
	return func(o *modelOptions) {
		o.systemPrompt = prompt
	}
}

func NewModelGateway(chatModel model.ToolCallingChatModel, opts ...ModelOption) (*ModelGateway, error) {
	o := &modelOptions{systemPrompt: DefaultSystemPrompt}
	for _, opt := range opts {
		opt(o)
	}
	if o.history == nil {
		o.history = store.NewMemoryHistory(store.KeepSystemLastN{N: 20})
	}
	g := &ModelGateway{history: o.history, systemPrompt: o.systemPrompt}
	chain, err := structured.NewChain[[]*schema.Message, TurnReply](
		chatModel,
		g.buildPrompt,
		"reply_to_traveller",
		"Reply to the traveller as the travel booking assistant.",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create reply chain: %w", err)
	}
	g.chain = chain
	return g, nil
}

func (g *ModelGateway) buildPrompt(ctx context.Context, history []*schema.Message) ([]*schema.Message, error) {
	messages := make([]*schema.Message, 0, len(history)+1)
	messages = append(messages, schema.SystemMessage(g.systemPrompt))
	messages = append(messages, history...)
	return messages, nil
}

func (g *ModelGateway) Send(ctx context.Context, req Request) (*Response, error) {
	if req.SessionID == "" {
		return nil, &Error{Status: 400, Message: "missing sessionId"}
	}
	ctx = store.WithSessionID(ctx, req.SessionID)
	history, err := g.history.Append(ctx, schema.UserMessage(req.Message))
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	reply, err := g.chain.Invoke(ctx, history)
	if err != nil {
		slog.Warn("Model gateway turn failed", "session", req.SessionID, "error", err)
		return nil, &Error{Status: 502, Message: "model call failed", Details: err.Error()}
	}
	if _, err := g.history.Append(ctx, schema.AssistantMessage(reply.Response, nil)); err != nil {
		return nil, fmt.Errorf("failed to save history: %w", err)
	}
	return &Response{
		Response:    reply.Response,
		Intent:      stringPtr(reply.Intent),
		Confidence:  reply.Confidence,
		CurrentPage: stringPtr(reply.Page),
	}, nil
}

func (g *ModelGateway) Forget(ctx context.Context, sessionID string) error {
	return g.history.Clear(store.WithSessionID(ctx, sessionID))
}

var (
	_ Gateway   = (*ModelGateway)(nil)
	_ Forgetter = (*ModelGateway)(nil)
)
