package gateway

import (
	"context"
	"errors"
	"fmt"
)

// Request is one user utterance for the dialogue backend.
type Request struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

// Response is the backend's answer: prose plus a few named parameters.
type Response struct {
	Response    string  `json:"response"`
	Intent      *string `json:"intent"`
	Confidence  float64 `json:"confidence"`
	CurrentPage *string `json:"currentPage"`
}

func (r *Response) IntentName() string {
	if r == nil || r.Intent == nil {
		return ""
	}
	return *r.Intent
}

func (r *Response) PageName() string {
	if r == nil || r.CurrentPage == nil {
		return ""
	}
	return *r.CurrentPage
}

// Gateway sends one turn to the dialogue backend.
type Gateway interface {
	Send(ctx context.Context, req Request) (*Response, error)
}

// GatewayFunc adapts a function to Gateway.
type GatewayFunc func(ctx context.Context, req Request) (*Response, error)

func (f GatewayFunc) Send(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}

// Error is a failure reported by the backend as {error, details}.
type Error struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("gateway error (status %d): %s: %s", e.Status, e.Message, e.Details)
	}
	return fmt.Sprintf("gateway error (status %d): %s", e.Status, e.Message)
}

// Detail is the text shown to the user for err: the backend details when present,
// then its error, then the error itself.
func Detail(err error) string {
	if err == nil {
		return ""
	}
	var gwErr *Error
	if errors.As(err, &gwErr) {
		if gwErr.Details != "" {
			return gwErr.Details
		}
		if gwErr.Message != "" {
			return gwErr.Message
		}
	}
	return err.Error()
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
