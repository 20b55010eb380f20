package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/tbxark/tripagent/extract"
	"github.com/tbxark/tripagent/flow"
	"github.com/tbxark/tripagent/gateway"
	"github.com/tbxark/tripagent/patch"
	"github.com/tbxark/tripagent/types"
)

var (
	// ErrTurnPending is returned when an action arrives while a turn is in flight.
	// The action is dropped.
	ErrTurnPending   = errors.New("a turn is already in flight")
	ErrNoOptions     = errors.New("no selectable options")
	ErrUnknownAction = errors.New("unknown action")
)

// IDGenerator issues session and message ids.
type IDGenerator func() string

func NewUUID() string {
	return uuid.NewString()
}

// Snapshot is a consistent view of one session.
type Snapshot struct {
	Session  flow.Session    `json:"session"`
	Pending  bool            `json:"pending"`
	Messages []types.Message `json:"messages"`
}

// Orchestrator runs the turns of one chat session against the dialogue backend.
// At most one turn is in flight; actions arriving meanwhile are dropped.
type Orchestrator struct {
	gateway gateway.Gateway
	phrases Phrases
	newID   IDGenerator
	now     func() time.Time
	events  *Emitter

	pending atomic.Bool

	mu       sync.Mutex
	flow     *flow.Manager
	messages []types.Message
	opened   bool
	greeted  bool
}

type Option func(*Orchestrator)

func WithPhrases(p Phrases) Option {
	return func(o *Orchestrator) {
		o.phrases = p.Merge(DefaultPhrases())
	}
}

func WithIDGenerator(gen IDGenerator) Option {
	return func(o *Orchestrator) {
		o.newID = gen
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

func WithEmitter(e *Emitter) Option {
	return func(o *Orchestrator) {
		o.events = e
	}
}

func NewOrchestrator(gw gateway.Gateway, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		gateway: gw,
		phrases: DefaultPhrases(),
		newID:   NewUUID,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.events == nil {
		o.events = NewEmitter()
	}
	o.flow = flow.NewManager(o.newID())
	return o
}

func (o *Orchestrator) ID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.flow.Session().ID
}

func (o *Orchestrator) Events() *Emitter {
	return o.events
}

func (o *Orchestrator) Pending() bool {
	return o.pending.Load()
}

func (o *Orchestrator) Messages() []types.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]types.Message(nil), o.messages...)
}

func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Snapshot{
		Session:  o.flow.Session(),
		Pending:  o.pending.Load(),
		Messages: append([]types.Message(nil), o.messages...),
	}
}

// Open greets the backend the first time the conversation is opened so the first
// bot message can carry the welcome menu. Later calls do nothing.
func (o *Orchestrator) Open(ctx context.Context) error {
	o.mu.Lock()
	if o.opened {
		o.mu.Unlock()
		return nil
	}
	o.opened = true
	o.mu.Unlock()
	return o.turn(ctx, "", o.phrases.Greeting, turnPlan{})
}

// Reset forgets the conversation and issues a new session id.
func (o *Orchestrator) Reset(ctx context.Context) error {
	o.mu.Lock()
	tr := o.flow.Reset(o.newID())
	o.messages = nil
	o.opened = false
	o.greeted = false
	o.mu.Unlock()

	if f, ok := o.gateway.(gateway.Forgetter); ok {
		if err := f.Forget(ctx, tr.Before.ID); err != nil {
			slog.Warn("Failed to forget gateway session", "session", tr.Before.ID, "error", err)
		}
	}
	o.emitTransition(tr)
	return nil
}

// turnPlan is what an action changes in the flow once its turn completes.
type turnPlan struct {
	startBooking types.BookingType
	endBooking   bool
}

// Handle performs one user action. Backend failures are reported as bot messages,
// not as errors; errors mean the action was not performed.
func (o *Orchestrator) Handle(ctx context.Context, a types.Action) error {
	slog.Debug("Handling action", "action", a.String())
	switch a.Kind {
	case types.ActionSend:
		if strings.TrimSpace(a.Text) == "" {
			return fmt.Errorf("%w: empty message", ErrUnknownAction)
		}
		return o.send(ctx, a.Text)
	case types.ActionSelectOption:
		return o.selectOption(ctx, a.Index)
	case types.ActionConfirm:
		return o.turn(ctx, o.phrases.Confirm, o.phrases.Confirm, turnPlan{endBooking: true})
	case types.ActionSkip:
		return o.turn(ctx, o.phrases.Skip, o.phrases.Skip, turnPlan{endBooking: true})
	case types.ActionProceed:
		return o.turn(ctx, o.phrases.Proceed, o.phrases.Proceed, turnPlan{})
	case types.ActionPreference:
		if strings.TrimSpace(a.Value) == "" {
			return fmt.Errorf("%w: empty preference", ErrUnknownAction)
		}
		return o.turn(ctx, a.Value, a.Value, turnPlan{})
	case types.ActionPlanTrip:
		return o.planTrip()
	case types.ActionStartBooking:
		if !a.Booking.Valid() {
			return fmt.Errorf("%w: booking type %q", ErrUnknownAction, a.Booking)
		}
		trigger := o.phrases.Trigger(a.Booking)
		return o.turn(ctx, trigger, trigger, turnPlan{startBooking: a.Booking})
	case types.ActionReset:
		return o.Reset(ctx)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, a.Kind)
	}
}

// send submits typed text. While a destination is awaited the text is reduced to a
// place name and sent as a trip-planning request.
func (o *Orchestrator) send(ctx context.Context, text string) error {
	o.mu.Lock()
	awaiting := o.flow.AwaitingDestination()
	o.mu.Unlock()

	utterance := text
	if awaiting {
		if place, ok := extract.Destination(text); ok {
			utterance = fmt.Sprintf(o.phrases.PlanTripTemplate, place)
		}
	}
	return o.turn(ctx, text, utterance, turnPlan{})
}

// selectOption sends the bare option number while options are shown. From the booking
// choice menu the number picks a booking type and starts that flow instead.
func (o *Orchestrator) selectOption(ctx context.Context, index int) error {
	o.mu.Lock()
	selectable := o.flow.SelectableOptions()
	choosing := o.flow.OfferingChoice()
	o.mu.Unlock()

	switch {
	case selectable:
		n := strconv.Itoa(index)
		return o.turn(ctx, n, n, turnPlan{})
	case choosing:
		kind := types.BookingTypeForIndex(index)
		if kind == types.BookingNone {
			return fmt.Errorf("%w: choice %d", ErrNoOptions, index)
		}
		trigger := o.phrases.Trigger(kind)
		return o.turn(ctx, trigger, trigger, turnPlan{startBooking: kind})
	default:
		return ErrNoOptions
	}
}

// planTrip asks the destination question locally; no request reaches the backend.
func (o *Orchestrator) planTrip() error {
	if !o.pending.CompareAndSwap(false, true) {
		return ErrTurnPending
	}
	defer o.pending.Store(false)
	o.mu.Lock()
	user := o.appendMessage(types.AuthorUser, types.KindText, o.phrases.PlanTripLabel)
	tr := o.flow.PlanTrip()
	bot := o.appendMessage(types.AuthorBot, types.KindPrompt, o.phrases.DestinationQuestion)
	o.mu.Unlock()

	o.emitMessage(tr.After.ID, user)
	o.emitMessage(tr.After.ID, bot)
	o.emitTransition(tr)
	return nil
}

// turn runs one request/response cycle. display is the user message shown in the
// transcript, empty for hidden utterances such as the greeting.
func (o *Orchestrator) turn(ctx context.Context, display, utterance string, plan turnPlan) error {
	if !o.pending.CompareAndSwap(false, true) {
		slog.Debug("Dropped action while a turn is pending", "utterance", utterance)
		return ErrTurnPending
	}
	defer o.pending.Store(false)

	o.mu.Lock()
	sessionID := o.flow.Session().ID
	var user types.Message
	if display != "" {
		user = o.appendMessage(types.AuthorUser, types.KindText, display)
	}
	o.mu.Unlock()

	if display != "" {
		o.emitMessage(sessionID, user)
	}
	o.events.Emit(Event{Kind: EventTurnStarted, SessionID: sessionID})
	defer o.events.Emit(Event{Kind: EventTurnFinished, SessionID: sessionID})

	slog.Debug("Sending turn", "session", sessionID, "utterance", utterance)
	resp, err := o.gateway.Send(ctx, gateway.Request{Message: utterance, SessionID: sessionID})

	o.mu.Lock()
	if o.flow.Session().ID != sessionID {
		o.mu.Unlock()
		slog.Debug("Discarded turn of a reset session", "session", sessionID)
		return nil
	}
	if err != nil {
		slog.Warn("Turn failed", "session", sessionID, "error", err)
		bot := o.appendMessage(types.AuthorBot, types.KindError, fmt.Sprintf(o.phrases.Failure, gateway.Detail(err)))
		o.mu.Unlock()
		o.emitMessage(sessionID, bot)
		return nil
	}

	text := resp.Response
	before := o.flow.Session()
	if plan.startBooking.Valid() {
		o.flow.StartBooking(plan.startBooking)
	}
	tr := o.flow.Advance(flow.Turn{Text: text, Page: resp.PageName(), Content: extract.Classify(text)})
	if plan.endBooking {
		o.flow.EndBooking()
	}
	tr.Before, tr.After = before, o.flow.Session()

	var bot types.Message
	if tr.Duplicate {
		bot = o.appendMessage(types.AuthorBot, types.KindChoiceMenu, o.phrases.ChoiceMenu)
	} else {
		bot = o.appendMessage(types.AuthorBot, types.KindText, text)
	}
	o.mu.Unlock()

	slog.Debug("Turn finished", "session", sessionID, "intent", resp.IntentName(), "page", resp.PageName(), "state", tr.After.State)
	o.emitMessage(sessionID, bot)
	o.emitTransition(tr)
	return nil
}

// appendMessage must be called with o.mu held. The first successful bot message of
// a session carries the welcome menu. Bot messages remember whether a booking was
// running when they arrived.
func (o *Orchestrator) appendMessage(author types.Author, kind types.MessageKind, text string) types.Message {
	msg := types.Message{
		ID:        o.newID(),
		Author:    author,
		Kind:      kind,
		RawText:   text,
		CreatedAt: o.now(),
	}
	if author == types.AuthorBot {
		msg.DuringBooking = o.flow.Session().InBooking()
	}
	if author == types.AuthorBot && kind == types.KindText && !o.greeted {
		msg.ShowActionMenu = true
		o.greeted = true
	}
	o.messages = append(o.messages, msg)
	return msg
}

func (o *Orchestrator) emitMessage(sessionID string, msg types.Message) {
	o.events.Emit(Event{Kind: EventMessageAppended, SessionID: sessionID, Message: &msg})
}

func (o *Orchestrator) emitTransition(tr flow.Transition) {
	if !tr.Changed() {
		return
	}
	p, err := patch.Diff(tr.Before, tr.After)
	if err != nil {
		slog.Warn("Failed to diff session state", "error", err)
		return
	}
	o.events.Emit(Event{Kind: EventStateChanged, SessionID: tr.After.ID, Patch: p})
}
