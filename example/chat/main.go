package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"

	"github.com/tbxark/tripagent/agent"
	"github.com/tbxark/tripagent/app"
	"github.com/tbxark/tripagent/command"
	"github.com/tbxark/tripagent/config"
	"github.com/tbxark/tripagent/present"
	"github.com/tbxark/tripagent/types"
)

func main() {
	conf := flag.String("config", "", "path to a YAML config file")
	flag.Parse()
	cfg, err := config.Load(*conf)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := startApp(context.Background(), cfg); err != nil {
		log.Fatalf("start app: %v", err)
	}
}

func startApp(ctx context.Context, cfg config.Config) error {
	app.SetupLogging(cfg)
	cm, err := app.NewChatModel(ctx, cfg)
	if err != nil {
		return err
	}
	gw, err := app.NewGateway(cfg, cm)
	if err != nil {
		return err
	}
	session := app.NewOrchestrator(cfg, gw)
	selector := app.NewSelector(cfg)

	slash := command.NewSlashParser()
	parsers := []command.Parser{slash}
	if cm != nil {
		toolParser, pErr := command.NewToolBasedParser(cm, func() command.Context {
			return screen(session, selector)
		})
		if pErr != nil {
			return pErr
		}
		parsers = append(parsers, toolParser)
	}
	parser := command.NewFailbackParser(parsers...)

	bookingAgent := agent.NewBookingAgent(
		"TripAgent",
		"A travel assistant that plans trips and books flights, hotels and rental cars",
		session,
		selector,
		parser.Parse,
	)
	runner := adk.NewRunner(ctx, adk.RunnerConfig{Agent: bookingAgent})

	if err := session.Open(ctx); err != nil {
		return err
	}
	for _, r := range selector.SelectAll(session.Messages(), session.Snapshot().Session) {
		fmt.Printf("\nAssistant: %s\n======\n", present.Text(r))
	}

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("You: ")
		input, rErr := reader.ReadString('\n')
		if rErr != nil {
			fmt.Println("Input closed. Bye.")
			return nil
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if _, qErr := slash.Parse(ctx, input); errors.Is(qErr, command.ErrQuit) {
			fmt.Println("Bye.")
			return nil
		}
		iter := runner.Run(ctx, []adk.Message{schema.UserMessage(input)})
		for {
			event, ok := iter.Next()
			if !ok {
				break
			}
			if event.Err != nil {
				fmt.Printf("\nError: %v\n", event.Err)
				continue
			}
			msg, mErr := event.Output.MessageOutput.GetMessage()
			if mErr != nil {
				return mErr
			}
			fmt.Printf("\nAssistant: %s\n======\n", msg.Content)
		}
	}
}

// screen reports the last bot message and the buttons it offers.
func screen(session *agent.Orchestrator, selector *present.Selector) command.Context {
	snap := session.Snapshot()
	for i := len(snap.Messages) - 1; i >= 0; i-- {
		m := snap.Messages[i]
		if m.Author != types.AuthorBot {
			continue
		}
		r, ok := selector.Select(m, snap.Session)
		if !ok {
			continue
		}
		sc := command.Context{LastBotText: present.Text(r)}
		for _, c := range append(r.Choices, r.Menu...) {
			sc.Buttons = append(sc.Buttons, fmt.Sprintf("%s -> %s", c.Label, c.Action))
		}
		return sc
	}
	return command.Context{}
}
