package testcases

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino-ext/components/model/openai"

	"github.com/tbxark/tripagent/agent"
	"github.com/tbxark/tripagent/config"
	"github.com/tbxark/tripagent/gateway"
	"github.com/tbxark/tripagent/present"
	"github.com/tbxark/tripagent/types"
)

// Reply 是模拟后端对一次请求的回复。Status 非 0 时返回错误。
type Reply struct {
	Text    string
	Page    string
	Status  int
	Details string
}

// Backend 是按脚本回复的对话后端，记录收到的所有请求。
type Backend struct {
	mu       sync.Mutex
	replies  []Reply
	requests []gateway.Request
	server   *httptest.Server
}

func NewBackend(t *testing.T, replies ...Reply) *Backend {
	t.Helper()
	b := &Backend{replies: replies}
	b.server = httptest.NewServer(http.HandlerFunc(b.handle))
	t.Cleanup(b.server.Close)
	return b
}

func (b *Backend) handle(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var req gateway.Request
	_ = sonic.Unmarshal(raw, &req)

	b.mu.Lock()
	b.requests = append(b.requests, req)
	reply := Reply{Text: "OK"}
	if len(b.replies) > 0 {
		reply, b.replies = b.replies[0], b.replies[1:]
	}
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if reply.Status != 0 {
		w.WriteHeader(reply.Status)
		body, _ := sonic.Marshal(map[string]string{"error": "backend failed", "details": reply.Details})
		_, _ = w.Write(body)
		return
	}
	resp := map[string]any{"response": reply.Text, "intent": nil, "confidence": 0.9, "currentPage": nil}
	if reply.Page != "" {
		resp["currentPage"] = reply.Page
	}
	body, _ := sonic.Marshal(resp)
	_, _ = w.Write(body)
}

// Utterances 返回后端收到的所有消息文本。
func (b *Backend) Utterances() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.requests))
	for _, r := range b.requests {
		out = append(out, r.Message)
	}
	return out
}

func (b *Backend) URL() string {
	return b.server.URL
}

// NewTestSession 创建连接到模拟后端的会话。
func NewTestSession(t *testing.T, replies ...Reply) (*agent.Orchestrator, *present.Selector, *Backend) {
	t.Helper()
	backend := NewBackend(t, replies...)
	session := agent.NewOrchestrator(gateway.NewHTTPGateway(backend.URL()))
	return session, present.NewSelector(), backend
}

// LastRender 返回最后一条可见机器人消息的渲染结果。
func LastRender(t *testing.T, session *agent.Orchestrator, selector *present.Selector) present.Render {
	t.Helper()
	snap := session.Snapshot()
	renders := selector.SelectAll(snap.Messages, snap.Session)
	for i := len(renders) - 1; i >= 0; i-- {
		if renders[i].Author == types.AuthorBot {
			return renders[i]
		}
	}
	t.Fatal("没有机器人消息")
	return present.Render{}
}

func MustHandle(t *testing.T, session *agent.Orchestrator, action types.Action) {
	t.Helper()
	if err := session.Handle(context.Background(), action); err != nil {
		t.Fatalf("处理 %s 失败: %v", action, err)
	}
}

// InitChatModel 仅在设置 TRIPAGENT_RUN_LIVE_TESTS=1 时创建真实模型。
func InitChatModel(t *testing.T) *openai.ChatModel {
	if os.Getenv("TRIPAGENT_RUN_LIVE_TESTS") != "1" {
		t.Skip("set TRIPAGENT_RUN_LIVE_TESTS=1 to run live LLM tests")
		return nil
	}
	path := "../config.yaml"
	if _, err := os.Stat(path); err != nil {
		path = ""
	}
	conf, err := config.Load(path)
	if err != nil || conf.Model.APIKey == "" {
		t.Skipf("model is not configured: %v", err)
		return nil
	}
	chatModel, err := openai.NewChatModel(context.Background(), &openai.ChatModelConfig{
		APIKey:  conf.Model.APIKey,
		Model:   conf.Model.Model,
		BaseURL: conf.Model.BaseURL,
	})
	if err != nil {
		t.Fatalf("failed to init chat model: %v", err)
		return nil
	}
	return chatModel
}
