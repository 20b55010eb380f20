package store

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

type Trimmer interface {
	Trim(history []*schema.Message) []*schema.Message
}

// KeepSystemLastN keeps every system message and the last N others.
// When N <= 0, only system messages are kept.
type KeepSystemLastN struct {
	N int
}

func (t KeepSystemLastN) Trim(history []*schema.Message) []*schema.Message {
	others := 0
	for _, m := range history {
		if m != nil && m.Role != schema.System {
			others++
		}
	}
	skip := others - max(t.N, 0)
	out := make([]*schema.Message, 0, len(history))
	for _, m := range history {
		if m == nil {
			continue
		}
		if m.Role != schema.System && skip > 0 {
			skip--
			continue
		}
		out = append(out, m)
	}
	return out
}

// History keeps the chat-model transcript of each session.
type History struct {
	store   SessionStore[[]*schema.Message]
	trimmer Trimmer
}

func NewHistory(core Cache[[]*schema.Message], trimmer Trimmer) *History {
	return &History{
		store:   NewSessionStore(core, "history"),
		trimmer: trimmer,
	}
}

func NewMemoryHistory(trimmer Trimmer) *History {
	return NewHistory(NewMemoryCache[[]*schema.Message](), trimmer)
}

func (h *History) Load(ctx context.Context) ([]*schema.Message, error) {
	hist, _, err := h.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	return hist, nil
}

// Append adds msgs, skipping an exact repeat of the previous message, then trims
// and saves. It returns the saved transcript.
func (h *History) Append(ctx context.Context, msgs ...*schema.Message) ([]*schema.Message, error) {
	hist, err := h.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*schema.Message, 0, len(hist)+len(msgs))
	out = append(out, hist...)
	for _, msg := range msgs {
		if msg == nil {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Role == msg.Role && out[n-1].Content == msg.Content {
			continue
		}
		out = append(out, msg)
	}
	if h.trimmer != nil {
		out = h.trimmer.Trim(out)
	}
	if err := h.store.Set(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (h *History) Clear(ctx context.Context) error {
	return h.store.Del(ctx)
}
