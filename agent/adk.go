package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/tripagent/present"
	"github.com/tbxark/tripagent/types"
)

var _ adk.Agent = (*BookingAgent)(nil)

// ActionParser turns a user message into an action. Plain text becomes a send.
type ActionParser func(ctx context.Context, input string) (types.Action, error)

// BookingAgent exposes one Orchestrator as an eino agent. Each run handles the last
// input message and answers with the bot messages it produced, laid out as markdown.
type BookingAgent struct {
	name        string
	description string
	session     *Orchestrator
	selector    *present.Selector
	parser      ActionParser
}

func NewBookingAgent(name, description string, session *Orchestrator, selector *present.Selector, parser ActionParser) *BookingAgent {
	if parser == nil {
		parser = func(ctx context.Context, input string) (types.Action, error) {
			return types.Send(input), nil
		}
	}
	return &BookingAgent{
		name:        name,
		description: description,
		session:     session,
		selector:    selector,
		parser:      parser,
	}
}

func (a *BookingAgent) Name(ctx context.Context) string {
	return a.name
}

func (a *BookingAgent) Description(ctx context.Context) string {
	return a.description
}

func (a *BookingAgent) Run(ctx context.Context, input *adk.AgentInput, options ...adk.AgentRunOption) *adk.AsyncIterator[*adk.AgentEvent] {
	iter, gen := adk.NewAsyncIteratorPair[*adk.AgentEvent]()
	go func() {
		defer func() {
			e := recover()
			if e != nil {
				gen.Send(&adk.AgentEvent{
					Err: fmt.Errorf("recover from panic: %v", e),
				})
			}
			gen.Close()
		}()
		if len(input.Messages) == 0 {
			gen.Send(&adk.AgentEvent{
				Err: fmt.Errorf("no messages in input"),
			})
			return
		}
		action, err := a.parser(ctx, input.Messages[len(input.Messages)-1].Content)
		if err != nil {
			gen.Send(&adk.AgentEvent{Err: fmt.Errorf("parse action failed: %w", err)})
			return
		}
		before := len(a.session.Messages())
		if err := a.session.Handle(ctx, action); err != nil {
			if errors.Is(err, ErrTurnPending) || errors.Is(err, ErrNoOptions) {
				gen.Send(assistantEvent(err.Error()))
				return
			}
			gen.Send(&adk.AgentEvent{Err: fmt.Errorf("handle action failed: %w", err)})
			return
		}
		gen.Send(assistantEvent(a.render(before)))
	}()
	return iter
}

// render lays out the bot messages appended since index from.
func (a *BookingAgent) render(from int) string {
	snap := a.session.Snapshot()
	if from > len(snap.Messages) {
		from = 0
	}
	var parts []string
	for _, m := range snap.Messages[from:] {
		if m.Author != types.AuthorBot {
			continue
		}
		if r, ok := a.selector.Select(m, snap.Session); ok {
			parts = append(parts, present.Text(r))
		}
	}
	return strings.Join(parts, "\n\n")
}

func assistantEvent(content string) *adk.AgentEvent {
	return &adk.AgentEvent{
		Output: &adk.AgentOutput{
			MessageOutput: &adk.MessageVariant{
				IsStreaming: false,
				Message: &schema.Message{
					Role:    schema.Assistant,
					Content: content,
				},
				Role: schema.Assistant,
			},
		},
	}
}
