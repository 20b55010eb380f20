package agent

import (
	"context"
	"fmt"

	"github.com/tbxark/tripagent/store"
)

// Registry hosts many sessions keyed by their current session id.
type Registry struct {
	sessions store.Cache[*Orchestrator]
	factory  func() *Orchestrator
}

func NewRegistry(factory func() *Orchestrator) *Registry {
	return &Registry{
		sessions: store.NewMemoryCache[*Orchestrator](),
		factory:  factory,
	}
}

// Open creates a session and greets the backend. The session is registered even when
// the greeting turn fails, since the failure is part of its transcript.
func (r *Registry) Open(ctx context.Context) (*Orchestrator, error) {
	o := r.factory()
	if err := r.sessions.Set(ctx, o.ID(), o); err != nil {
		return nil, fmt.Errorf("failed to register session: %w", err)
	}
	if err := o.Open(ctx); err != nil {
		return o, err
	}
	return o, nil
}

func (r *Registry) Get(ctx context.Context, id string) (*Orchestrator, bool) {
	o, ok, err := r.sessions.Get(ctx, id)
	if err != nil || !ok {
		return nil, false
	}
	return o, true
}

// Reset resets the session and re-registers it under its new id.
func (r *Registry) Reset(ctx context.Context, id string) (*Orchestrator, error) {
	o, ok := r.Get(ctx, id)
	if !ok {
		return nil, fmt.Errorf("session %q not found", id)
	}
	if err := o.Reset(ctx); err != nil {
		return nil, err
	}
	if err := r.sessions.Del(ctx, id); err != nil {
		return nil, err
	}
	if err := r.sessions.Set(ctx, o.ID(), o); err != nil {
		return nil, err
	}
	return o, nil
}

// Close resets the session and forgets it.
func (r *Registry) Close(ctx context.Context, id string) error {
	o, ok := r.Get(ctx, id)
	if !ok {
		return nil
	}
	if err := o.Reset(ctx); err != nil {
		return err
	}
	return r.sessions.Del(ctx, id)
}

func (r *Registry) IDs(ctx context.Context) ([]string, error) {
	return r.sessions.Keys(ctx)
}
