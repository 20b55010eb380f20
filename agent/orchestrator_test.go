package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tbxark/tripagent/gateway"
	"github.com/tbxark/tripagent/present"
	"github.com/tbxark/tripagent/types"
)

type reply struct {
	text string
	page string
	err  error
}

// scriptGateway answers turns from a fixed script and records every request.
type scriptGateway struct {
	mu       sync.Mutex
	replies  []reply
	requests []gateway.Request
	release  chan struct{}
	started  chan struct{}
}

func (g *scriptGateway) Send(ctx context.Context, req gateway.Request) (*gateway.Response, error) {
	g.mu.Lock()
	g.requests = append(g.requests, req)
	var r reply
	if len(g.replies) > 0 {
		r, g.replies = g.replies[0], g.replies[1:]
	}
	started, release := g.started, g.release
	g.mu.Unlock()
	if started != nil {
		started <- struct{}{}
	}
	if release != nil {
		<-release
	}
	if r.err != nil {
		return nil, r.err
	}
	resp := &gateway.Response{Response: r.text, Confidence: 1}
	if r.page != "" {
		resp.CurrentPage = &r.page
	}
	return resp, nil
}

func (g *scriptGateway) utterances() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, 0, len(g.requests))
	for _, r := range g.requests {
		out = append(out, r.Message)
	}
	return out
}

func sequentialIDs() IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestOrchestrator(replies ...reply) (*Orchestrator, *scriptGateway) {
	g := &scriptGateway{replies: replies}
	o := NewOrchestrator(g,
		WithIDGenerator(sequentialIDs()),
		WithClock(func() time.Time { return time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC) }),
	)
	return o, g
}

const (
	flightOptions = "**Option 1**\nAirline: JL\nClass: Economy\nPrice: $450\nDeparture: 2025-05-01T10:00\nArrival: 2025-05-01T14:00"
	itinerary     = "**Kyoto Itinerary**\n\nDay 1: Arrival\n- Gion walk\n\nDay 2: Temples\n- Kinkaku-ji"
)

func TestOpenGreetsOnce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	o, g := newTestOrchestrator(reply{text: "Hello! How can I help you today?"})

	if err := o.Open(ctx); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := o.Open(ctx); err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	if got := g.utterances(); len(got) != 1 || got[0] != "Hi" {
		t.Fatalf("expected one greeting, got %v", got)
	}
	msgs := o.Messages()
	if len(msgs) != 1 || msgs[0].Author != types.AuthorBot || !msgs[0].ShowActionMenu {
		t.Fatalf("expected one bot message with the action menu, got %+v", msgs)
	}
	if o.Snapshot().Session.State != types.StateDefault {
		t.Errorf("expected Default after greeting, got %q", o.Snapshot().Session.State)
	}
}

func TestActionMenuOnlyOnFirstSuccessfulBotMessage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	o, _ := newTestOrchestrator(
		reply{err: errors.New("dial tcp: connection refused")},
		reply{text: "Hello!"},
		reply{text: "Sure."},
	)
	_ = o.Handle(ctx, types.Send("Hi"))
	_ = o.Handle(ctx, types.Send("Hi"))
	_ = o.Handle(ctx, types.Send("Book something"))

	var flags []bool
	for _, m := range o.Messages() {
		if m.Author == types.AuthorBot {
			flags = append(flags, m.ShowActionMenu)
		}
	}
	want := []bool{false, true, false}
	for i := range want {
		if flags[i] != want[i] {
			t.Fatalf("expected menu flags %v, got %v", want, flags)
		}
	}
}

func TestPendingTurnDropsActions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	o, g := newTestOrchestrator(reply{text: "Hello!"})
	g.started = make(chan struct{})
	g.release = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		done <- o.Handle(ctx, types.Send("Hi"))
	}()
	<-g.started

	if !o.Pending() {
		t.Fatal("expected a pending turn")
	}
	before := len(o.Messages())
	if err := o.Handle(ctx, types.Send("Hello again")); !errors.Is(err, ErrTurnPending) {
		t.Errorf("expected ErrTurnPending, got %v", err)
	}
	if err := o.Handle(ctx, types.Action{Kind: types.ActionPlanTrip}); !errors.Is(err, ErrTurnPending) {
		t.Errorf("expected ErrTurnPending for plan trip, got %v", err)
	}
	if len(o.Messages()) != before {
		t.Errorf("message list changed during a pending turn")
	}

	close(g.release)
	if err := <-done; err != nil {
		t.Fatalf("turn failed: %v", err)
	}
	if o.Pending() {
		t.Error("pending must clear after the turn")
	}
	if got := g.utterances(); len(got) != 1 {
		t.Errorf("expected exactly one request, got %v", got)
	}
}

func TestFailureKeepsState(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	o, _ := newTestOrchestrator(
		reply{text: flightOptions, page: "Flight_Options"},
		reply{err: &gateway.Error{Status: 500, Message: "backend failed", Details: "timeout"}},
	)
	_ = o.Handle(ctx, types.StartBooking(types.BookingFlight))
	before := o.Snapshot().Session
	if before.State != types.StateShowingOptions {
		t.Fatalf("expected ShowingOptions, got %q", before.State)
	}

	if err := o.Handle(ctx, types.SelectOption(1)); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	msgs := o.Messages()
	last := msgs[len(msgs)-1]
	if last.Kind != types.KindError || !strings.Contains(last.RawText, "timeout") {
		t.Errorf("expected an error message with the details, got %+v", last)
	}
	if o.Pending() {
		t.Error("pending must clear after a failure")
	}
	if after := o.Snapshot().Session; after != before {
		t.Errorf("state changed on failure: %+v -> %+v", before, after)
	}
}

func TestPlanTripReducesDestination(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	o, g := newTestOrchestrator(reply{text: "Kyoto is a great choice! When would you like to travel?"})

	if err := o.Handle(ctx, types.Action{Kind: types.ActionPlanTrip}); err != nil {
		t.Fatalf("plan trip failed: %v", err)
	}
	msgs := o.Messages()
	if len(msgs) != 2 || msgs[1].RawText != "Where do you want to plan your trip to?" {
		t.Fatalf("expected the local destination question, got %+v", msgs)
	}
	if len(g.utterances()) != 0 {
		t.Fatal("plan trip must not reach the backend")
	}

	if err := o.Handle(ctx, types.Send("a relaxing vacation to Kyoto")); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if got := g.utterances(); got[0] != "I want to plan a trip to kyoto" {
		t.Errorf("unexpected utterance %q", got[0])
	}
	if o.Snapshot().Session.State == types.StateAwaitingDestination {
		t.Error("destination capture must be one-shot")
	}
	msgs = o.Messages()
	if msgs[2].RawText != "a relaxing vacation to Kyoto" {
		t.Errorf("the transcript must show what the user typed, got %q", msgs[2].RawText)
	}
}

func TestPlanTripShortDestinationSentVerbatim(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	o, g := newTestOrchestrator(reply{text: "Where exactly?"})
	_ = o.Handle(ctx, types.Action{Kind: types.ActionPlanTrip})
	_ = o.Handle(ctx, types.Send("a trip to X"))
	if got := g.utterances(); got[0] != "a trip to X" {
		t.Errorf("expected the original utterance, got %q", got[0])
	}
}

func TestDuplicateItineraryChoiceMenu(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	o, g := newTestOrchestrator(
		reply{text: itinerary},
		reply{text: itinerary},
		reply{text: "Where are you flying from?"},
		reply{text: itinerary},
	)
	_ = o.Handle(ctx, types.Send("plan kyoto"))
	_ = o.Handle(ctx, types.Action{Kind: types.ActionProceed})

	msgs := o.Messages()
	last := msgs[len(msgs)-1]
	if last.Kind != types.KindChoiceMenu {
		t.Fatalf("expected a choice menu, got %+v", last)
	}
	if o.Snapshot().Session.State != types.StateOfferingChoice {
		t.Fatalf("expected OfferingChoice, got %q", o.Snapshot().Session.State)
	}

	if err := o.Handle(ctx, types.SelectOption(1)); err != nil {
		t.Fatalf("choice failed: %v", err)
	}
	if got := g.utterances(); got[2] != "I want to book a flight" {
		t.Errorf("expected the flight trigger, got %q", got[2])
	}
	s := o.Snapshot().Session
	if s.BookingType != types.BookingFlight || s.State != types.StateBookingFlow {
		t.Errorf("expected BookingFlow(flight), got %+v", s)
	}

	_ = o.Handle(ctx, types.Send("show me the plan again"))
	msgs = o.Messages()
	if msgs[len(msgs)-1].Kind == types.KindChoiceMenu {
		t.Error("duplicate path must fire at most once per itinerary")
	}
}

func TestSelectOptionOutsideOptions(t *testing.T) {
	t.Parallel()
	o, g := newTestOrchestrator()
	if err := o.Handle(context.Background(), types.SelectOption(1)); !errors.Is(err, ErrNoOptions) {
		t.Errorf("expected ErrNoOptions, got %v", err)
	}
	if len(g.utterances()) != 0 || len(o.Messages()) != 0 {
		t.Error("an invalid option tap must not send anything")
	}
}

func TestConfirmEndsBooking(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	o, g := newTestOrchestrator(
		reply{text: "Please provide your email address."},
		reply{text: "Your booking is confirmed!"},
	)
	_ = o.Handle(ctx, types.StartBooking(types.BookingHotel))
	s := o.Snapshot().Session
	if s.State != types.StateBookingFormActive || s.InputHint != types.InputEmail {
		t.Fatalf("expected an email form, got %+v", s)
	}
	_ = o.Handle(ctx, types.Action{Kind: types.ActionConfirm})
	if got := g.utterances(); got[1] != "yes" {
		t.Errorf("expected the confirm phrase, got %q", got[1])
	}
	if s := o.Snapshot().Session; s.InBooking() || s.State != types.StateDefault {
		t.Errorf("expected the booking to end, got %+v", s)
	}
}

func TestResetIssuesNewSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	o, _ := newTestOrchestrator(reply{text: "Hello!"})
	_ = o.Open(ctx)
	oldID := o.ID()

	var events []Event
	unsubscribe := o.Events().Subscribe(func(e Event) { events = append(events, e) })
	defer unsubscribe()

	if err := o.Handle(ctx, types.Action{Kind: types.ActionReset}); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	snap := o.Snapshot()
	if snap.Session.ID == oldID || snap.Session.State != types.StateIdle || len(snap.Messages) != 0 {
		t.Errorf("unexpected session after reset: %+v", snap)
	}
	if len(events) != 1 || events[0].Kind != EventStateChanged || !strings.Contains(string(events[0].Patch), snap.Session.ID) {
		t.Errorf("expected one state change carrying the new id, got %+v", events)
	}
}

func TestEventsOrder(t *testing.T) {
	t.Parallel()
	o, _ := newTestOrchestrator(reply{text: "Hello!"})
	var kinds []EventKind
	o.Events().Subscribe(func(e Event) { kinds = append(kinds, e.Kind) })
	_ = o.Handle(context.Background(), types.Send("Hi"))

	want := []EventKind{EventMessageAppended, EventTurnStarted, EventMessageAppended, EventStateChanged, EventTurnFinished}
	if len(kinds) != len(want) {
		t.Fatalf("expected %v, got %v", want, kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("event %d: expected %q, got %q", i, want[i], kinds[i])
		}
	}
}

func TestUnknownAction(t *testing.T) {
	t.Parallel()
	o, _ := newTestOrchestrator()
	if err := o.Handle(context.Background(), types.Action{Kind: "dance"}); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("expected ErrUnknownAction, got %v", err)
	}
	if err := o.Handle(context.Background(), types.StartBooking("boat")); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("expected ErrUnknownAction, got %v", err)
	}
}

func TestEmptyInputIsRejected(t *testing.T) {
	t.Parallel()
	o, g := newTestOrchestrator()
	for _, a := range []types.Action{types.Send(""), types.Send("   "), types.Preference("")} {
		if err := o.Handle(context.Background(), a); !errors.Is(err, ErrUnknownAction) {
			t.Errorf("%s: expected ErrUnknownAction, got %v", a, err)
		}
	}
	if len(g.utterances()) != 0 || len(o.Messages()) != 0 || o.Pending() {
		t.Error("empty input must not start a turn")
	}
}

func TestChoiceMenuTapAfterAnotherTurn(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	o, g := newTestOrchestrator(
		reply{text: itinerary},
		reply{text: itinerary},
		reply{text: "Sunny, around 24°C."},
		reply{text: "Sure! Where are you flying from?"},
	)
	_ = o.Handle(ctx, types.Send("plan kyoto"))
	_ = o.Handle(ctx, types.Action{Kind: types.ActionProceed})
	menu := o.Messages()[3]
	if menu.Kind != types.KindChoiceMenu {
		t.Fatalf("expected a choice menu, got %+v", menu)
	}
	_ = o.Handle(ctx, types.Send("what is the weather"))
	if o.Snapshot().Session.State != types.StateDefault {
		t.Fatalf("expected Default after a typed question, got %q", o.Snapshot().Session.State)
	}

	r, ok := present.NewSelector().Select(menu, o.Snapshot().Session)
	if !ok || len(r.Choices) != 3 {
		t.Fatalf("expected the menu buttons, got %+v", r)
	}
	if err := o.Handle(ctx, r.Choices[0].Action); err != nil {
		t.Fatalf("tap on %q failed: %v", r.Choices[0].Label, err)
	}
	got := g.utterances()
	if got[len(got)-1] != "I want to book a flight" {
		t.Errorf("expected the flight trigger, got %q", got[len(got)-1])
	}
	if s := o.Snapshot().Session; s.BookingType != types.BookingFlight {
		t.Errorf("expected a flight booking, got %+v", s)
	}
}

func TestItineraryCardSurvivesBookingStart(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	o, _ := newTestOrchestrator(
		reply{text: itinerary},
		reply{text: itinerary + "\n\nDay 3: Nara\n- Deer park"},
	)
	selector := present.NewSelector()
	_ = o.Handle(ctx, types.Send("plan kyoto"))
	_ = o.Handle(ctx, types.StartBooking(types.BookingFlight))

	snap := o.Snapshot()
	if len(snap.Messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(snap.Messages))
	}
	if snap.Messages[1].DuringBooking || !snap.Messages[3].DuringBooking {
		t.Errorf("unexpected booking marks: %+v", snap.Messages)
	}
	var cards int
	for _, r := range selector.SelectAll(snap.Messages, snap.Session) {
		if r.Variant == present.VariantItinerary {
			cards++
		}
	}
	if cards != 1 {
		t.Errorf("expected the itinerary shown before booking and the replay hidden, got %d cards", cards)
	}
}
