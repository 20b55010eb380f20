package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/tripagent/structured"
	"github.com/tbxark/tripagent/types"
)

const (
	parseActionToolName        = "parse_booking_action"
	parseActionToolDescription = "Map the traveller's reply to one of the buttons on screen, or to a plain message."
)

// Context is what the terminal currently shows: the last bot text and its buttons.
type Context struct {
	LastBotText string
	Buttons     []string
}

type parseActionOutput struct {
	Action types.Action `json:"action" jsonschema:"required,description=The action the reply maps to"`
}

type toolInput struct {
	context Context
	input   string
}

// ToolBasedParser lets a chat model map free replies such as "the second one" onto
// the buttons on screen. It answers ErrNotCommand for plain messages so a failback
// chain can send them verbatim.
type ToolBasedParser struct {
	chain  *structured.Chain[toolInput, parseActionOutput]
	screen func() Context
}

func NewToolBasedParser(chatModel model.ToolCallingChatModel, screen func() Context) (*ToolBasedParser, error) {
	chain, err := structured.NewChain[toolInput, parseActionOutput](
		chatModel,
		buildParseActionPrompt,
		parseActionToolName,
		parseActionToolDescription,
	)
	if err != nil {
		return nil, err
	}
	return &ToolBasedParser{chain: chain, screen: screen}, nil
}

func (p *ToolBasedParser) Parse(ctx context.Context, input string) (types.Action, error) {
	screen := p.screen()
	if len(screen.Buttons) == 0 {
		return types.Action{}, ErrNotCommand
	}
	result, err := p.chain.Invoke(ctx, toolInput{context: screen, input: input})
	if err != nil {
		return types.Action{}, err
	}
	if result == nil || result.Action.Kind == "" {
		return types.Action{}, fmt.Errorf("empty action returned by %s", parseActionToolName)
	}
	if result.Action.Kind == types.ActionSend {
		return types.Action{}, ErrNotCommand
	}
	return result.Action, nil
}

func buildParseActionPrompt(ctx context.Context, in toolInput) ([]*schema.Message, error) {
	var buttons strings.Builder
	for i, b := range in.context.Buttons {
		fmt.Fprintf(&buttons, "%d. %s\n", i+1, b)
	}
	systemPrompt := fmt.Sprintf(`You help a terminal travel booking client understand replies to on-screen buttons.

The assistant last said:
%s

Buttons on screen:
%s
Decide what the traveller's reply means:
- select_option with index N when they pick numbered option N;
- confirm or skip when they accept or decline a booking summary;
- proceed when they accept an itinerary;
- preference with value V when they pick one of the offered choices;
- send for anything else, including new questions or details.

Call the '%s' tool with the result.`, in.context.LastBotText, buttons.String(), parseActionToolName)

	return []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(in.input),
	}, nil
}

var _ Parser = (*ToolBasedParser)(nil)
