package store

import (
	"context"
	"errors"
)

// ErrNoSession is returned when the context carries no session id.
var ErrNoSession = errors.New("no session id in context")

type sessionKeyContext struct{}

// WithSessionID routes session-scoped storage to id.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKeyContext{}, id)
}

func SessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionKeyContext{}).(string)
	return id, ok && id != ""
}

// SessionStore scopes a Cache to the session id carried by the context.
type SessionStore[S any] struct {
	core      Cache[S]
	namespace string
}

func NewSessionStore[S any](core Cache[S], namespace string) SessionStore[S] {
	return SessionStore[S]{core: core, namespace: namespace}
}

func (s SessionStore[S]) key(ctx context.Context) (string, error) {
	id, ok := SessionIDFromContext(ctx)
	if !ok {
		return "", ErrNoSession
	}
	return s.namespace + ":" + id, nil
}

func (s SessionStore[S]) Set(ctx context.Context, val S) error {
	key, err := s.key(ctx)
	if err != nil {
		return err
	}
	return s.core.Set(ctx, key, val)
}

func (s SessionStore[S]) Get(ctx context.Context) (S, bool, error) {
	key, err := s.key(ctx)
	if err != nil {
		var zero S
		return zero, false, err
	}
	return s.core.Get(ctx, key)
}

func (s SessionStore[S]) Del(ctx context.Context) error {
	key, err := s.key(ctx)
	if err != nil {
		return err
	}
	return s.core.Del(ctx, key)
}
