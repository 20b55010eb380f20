package command

import (
	"context"
	"errors"

	"github.com/tbxark/tripagent/types"
)

var (
	// ErrQuit asks the terminal loop to stop.
	ErrQuit = errors.New("quit")
	// ErrNotCommand means the input is not addressed to this parser; the next
	// parser in a failback chain is tried.
	ErrNotCommand = errors.New("not a command")
)

// Parser turns one line of terminal input into an orchestrator action.
type Parser interface {
	Parse(ctx context.Context, input string) (types.Action, error)
}

// ParserFunc adapts a function to Parser.
type ParserFunc func(ctx context.Context, input string) (types.Action, error)

func (f ParserFunc) Parse(ctx context.Context, input string) (types.Action, error) {
	return f(ctx, input)
}

// SendParser sends every input verbatim.
var SendParser = ParserFunc(func(ctx context.Context, input string) (types.Action, error) {
	return types.Send(input), nil
})
