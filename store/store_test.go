package store

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/schema"
)

func TestKeepSystemLastN(t *testing.T) {
	t.Parallel()
	history := []*schema.Message{
		schema.SystemMessage("sys"),
		schema.UserMessage("u1"),
		schema.AssistantMessage("a1", nil),
		nil,
		schema.UserMessage("u2"),
		schema.AssistantMessage("a2", nil),
	}
	got := KeepSystemLastN{N: 2}.Trim(history)
	if len(got) != 3 || got[0].Content != "sys" || got[1].Content != "u2" || got[2].Content != "a2" {
		t.Errorf("unexpected trim: %v", got)
	}
	if got := (KeepSystemLastN{N: 0}).Trim(history); len(got) != 1 {
		t.Errorf("expected only the system message, got %d", len(got))
	}
}

func TestHistoryIsScopedBySession(t *testing.T) {
	t.Parallel()
	h := NewMemoryHistory(KeepSystemLastN{N: 10})
	a := WithSessionID(context.Background(), "a")
	b := WithSessionID(context.Background(), "b")

	if _, err := h.Append(a, schema.UserMessage("hi"), schema.UserMessage("hi")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	got, err := h.Load(a)
	if err != nil || len(got) != 1 {
		t.Fatalf("expected a repeated message to be dropped, got %v (%v)", got, err)
	}
	if got, _ := h.Load(b); len(got) != 0 {
		t.Errorf("session b must be empty, got %v", got)
	}
	if err := h.Clear(a); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if got, _ := h.Load(a); len(got) != 0 {
		t.Errorf("expected cleared history, got %v", got)
	}
}

func TestHistoryRequiresSession(t *testing.T) {
	t.Parallel()
	h := NewMemoryHistory(nil)
	if _, err := h.Append(context.Background(), schema.UserMessage("hi")); !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession, got %v", err)
	}
}

func TestMemoryCacheKeys(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := NewMemoryCache[int]()
	_ = c.Set(ctx, "b", 2)
	_ = c.Set(ctx, "a", 1)
	keys, _ := c.Keys(ctx)
	if len(keys) != 2 || keys[0] != "a" {
		t.Errorf("unexpected keys %v", keys)
	}
	_ = c.Del(ctx, "a")
	if _, ok, _ := c.Get(ctx, "a"); ok {
		t.Error("expected a to be deleted")
	}
}
