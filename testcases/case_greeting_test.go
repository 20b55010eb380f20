package testcases

import (
	"context"
	"testing"

	"github.com/tbxark/tripagent/present"
	"github.com/tbxark/tripagent/types"
)

// TestGreeting 测试首次打开会话时的问候与欢迎菜单
func TestGreeting(t *testing.T) {
	t.Parallel()
	session, selector, backend := NewTestSession(t, Reply{Text: "Hello! I can help you plan and book your trip."})

	if err := session.Open(context.Background()); err != nil {
		t.Fatalf("打开会话失败: %v", err)
	}
	if got := backend.Utterances(); len(got) != 1 || got[0] != "Hi" {
		t.Fatalf("期望发送 Hi，实际为 %v", got)
	}

	msgs := session.Messages()
	if len(msgs) != 1 || msgs[0].Author != types.AuthorBot {
		t.Fatalf("问候语不应作为用户消息显示: %+v", msgs)
	}
	if !msgs[0].ShowActionMenu {
		t.Error("第一条机器人消息应显示操作菜单")
	}

	r := LastRender(t, session, selector)
	if r.Variant != present.VariantPlainText || len(r.Menu) != 4 {
		t.Errorf("期望纯文本加欢迎菜单，实际为 %+v", r)
	}

	// 再次打开不应重复问候
	if err := session.Open(context.Background()); err != nil {
		t.Fatalf("再次打开失败: %v", err)
	}
	if len(backend.Utterances()) != 1 {
		t.Error("问候只应发送一次")
	}
}
