package command

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tbxark/tripagent/types"
)

// SlashParser understands the terminal slash commands. Anything not starting with a
// slash is left to the next parser.
type SlashParser struct {
	QuitKeywords []string
}

func NewSlashParser() *SlashParser {
	return &SlashParser{
		QuitKeywords: []string{"/quit", "/exit", "/q"},
	}
}

func (p *SlashParser) Parse(ctx context.Context, input string) (types.Action, error) {
	normalized := strings.TrimSpace(input)
	if !strings.HasPrefix(normalized, "/") {
		return types.Action{}, ErrNotCommand
	}
	fields := strings.Fields(normalized)
	name := strings.ToLower(fields[0])
	args := fields[1:]
	for _, keyword := range p.QuitKeywords {
		if name == keyword {
			return types.Action{}, ErrQuit
		}
	}

	switch name {
	case "/select", "/option":
		if len(args) != 1 {
			return types.Action{}, fmt.Errorf("usage: %s N", name)
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return types.Action{}, fmt.Errorf("invalid option number %q", args[0])
		}
		return types.SelectOption(n), nil
	case "/confirm", "/yes":
		return types.Action{Kind: types.ActionConfirm}, nil
	case "/skip", "/no":
		return types.Action{Kind: types.ActionSkip}, nil
	case "/proceed":
		return types.Action{Kind: types.ActionProceed}, nil
	case "/pref":
		if len(args) == 0 {
			return types.Action{}, errors.New("usage: /pref VALUE")
		}
		return types.Preference(strings.Join(args, " ")), nil
	case "/plan":
		return types.Action{Kind: types.ActionPlanTrip}, nil
	case "/book":
		if len(args) != 1 || !types.BookingType(strings.ToLower(args[0])).Valid() {
			return types.Action{}, errors.New("usage: /book flight|hotel|car")
		}
		return types.StartBooking(types.BookingType(strings.ToLower(args[0]))), nil
	case "/reset":
		return types.Action{Kind: types.ActionReset}, nil
	default:
		return types.Action{}, fmt.Errorf("unknown command %s", name)
	}
}

// FailbackParser tries each parser in turn while they answer ErrNotCommand. Other
// errors stop the chain.
type FailbackParser struct {
	parsers []Parser
}

func NewFailbackParser(parsers ...Parser) *FailbackParser {
	return &FailbackParser{parsers: parsers}
}

func (p *FailbackParser) Parse(ctx context.Context, input string) (types.Action, error) {
	for _, parser := range p.parsers {
		action, err := parser.Parse(ctx, input)
		if errors.Is(err, ErrNotCommand) {
			continue
		}
		return action, err
	}
	return types.Send(input), nil
}

var (
	_ Parser = (*SlashParser)(nil)
	_ Parser = (*FailbackParser)(nil)
)
