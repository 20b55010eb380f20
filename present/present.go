package present

import (
	"fmt"

	"github.com/tbxark/tripagent/extract"
	"github.com/tbxark/tripagent/flow"
	"github.com/tbxark/tripagent/types"
)

type Variant string

const (
	VariantOptionList     Variant = "option_list"
	VariantSelectedItem   Variant = "selected_item_card"
	VariantBookingSummary Variant = "booking_summary_card"
	VariantItinerary      Variant = "itinerary_card"
	VariantChoiceMenu     Variant = "choice_menu"
	VariantGuidedPrompt   Variant = "guided_prompt"
	VariantPlainText      Variant = "plain_text"
)

// Choice is a button on a rendered message.
type Choice struct {
	Label  string       `json:"label"`
	Action types.Action `json:"action"`
}

// Render is the single representation chosen for one message.
type Render struct {
	MessageID  string                `json:"message_id"`
	Author     types.Author          `json:"author"`
	Variant    Variant               `json:"variant"`
	Text       string                `json:"text"`
	Booking    types.BookingType     `json:"booking,omitempty"`
	Flights    []types.FlightOption  `json:"flights,omitempty"`
	Hotels     []types.HotelOption   `json:"hotels,omitempty"`
	Cars       []types.CarOption     `json:"cars,omitempty"`
	Selectable bool                  `json:"selectable,omitempty"`
	Selected   *types.SelectedItem   `json:"selected,omitempty"`
	Summary    *types.BookingSummary `json:"summary,omitempty"`
	Itinerary  *types.Itinerary      `json:"itinerary,omitempty"`
	Choices    []Choice              `json:"choices,omitempty"`
	Menu       []Choice              `json:"menu,omitempty"`
}

type Options struct {
	// SuppressItineraryDuringBooking hides itinerary cards while a booking runs. The
	// backend replays a cached itinerary in that window.
	SuppressItineraryDuringBooking bool
	ClassChoices                   []string
	VehicleChoices                 []string
}

type Option func(*Options)

func WithItinerarySuppression(enabled bool) Option {
	return func(o *Options) {
		o.SuppressItineraryDuringBooking = enabled
	}
}

func WithClassChoices(choices ...string) Option {
	return func(o *Options) {
		if len(choices) > 0 {
			o.ClassChoices = choices
		}
	}
}

func WithVehicleChoices(choices ...string) Option {
	return func(o *Options) {
		if len(choices) > 0 {
			o.VehicleChoices = choices
		}
	}
}

func DefaultOptions() Options {
	return Options{
		SuppressItineraryDuringBooking: true,
		ClassChoices:                   []string{"Economy", "Premium Economy", "Business", "First"},
		VehicleChoices:                 []string{"Economy", "Compact", "SUV", "Luxury", "Van"},
	}
}

// Selector maps a message and the current session to exactly one Render.
type Selector struct {
	opts Options
}

func NewSelector(opts ...Option) *Selector {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Selector{opts: o}
}

// WelcomeMenu is attached to the first bot message of a session.
func WelcomeMenu() []Choice {
	return []Choice{
		{Label: "Plan a Trip", Action: types.Action{Kind: types.ActionPlanTrip}},
		{Label: "Book a Flight", Action: types.StartBooking(types.BookingFlight)},
		{Label: "Book a Hotel", Action: types.StartBooking(types.BookingHotel)},
		{Label: "Rent a Car", Action: types.StartBooking(types.BookingCar)},
	}
}

// BookingChoiceMenu is offered after the backend repeats an itinerary. Entry N is the
// booking type option N picks, and it starts that booking from any state.
func BookingChoiceMenu() []Choice {
	labels := []string{"Book a Flight", "Book a Hotel", "Rent a Car"}
	choices := make([]Choice, 0, len(labels))
	for i, label := range labels {
		choices = append(choices, Choice{Label: label, Action: types.StartBooking(types.BookingTypeForIndex(i + 1))})
	}
	return choices
}

// Select chooses the render variant, in the extractor priority order. It returns
// false when the message is suppressed and nothing should be shown.
func (s *Selector) Select(msg types.Message, session flow.Session) (Render, bool) {
	r := Render{MessageID: msg.ID, Author: msg.Author, Variant: VariantPlainText, Text: msg.RawText}
	if msg.ShowActionMenu {
		r.Menu = WelcomeMenu()
	}
	if msg.Author != types.AuthorBot {
		return r, true
	}
	switch msg.Kind {
	case types.KindChoiceMenu:
		r.Variant = VariantChoiceMenu
		r.Choices = BookingChoiceMenu()
		return r, true
	case types.KindError, types.KindPrompt:
		return r, true
	}

	c := extract.Classify(msg.RawText)
	switch c.Kind {
	case extract.KindSummary:
		r.Variant = VariantBookingSummary
		r.Summary = c.Summary
		r.Booking = c.Summary.Kind
		r.Choices = []Choice{
			{Label: "Confirm", Action: types.Action{Kind: types.ActionConfirm}},
			{Label: "Skip", Action: types.Action{Kind: types.ActionSkip}},
		}
	case extract.KindSelected:
		r.Variant = VariantSelectedItem
		r.Selected = c.Selected
		r.Booking = c.Selected.Kind
	case extract.KindItinerary:
		if s.opts.SuppressItineraryDuringBooking && msg.DuringBooking {
			return Render{}, false
		}
		r.Variant = VariantItinerary
		r.Itinerary = c.Itinerary
		r.Choices = []Choice{{Label: "Proceed", Action: types.Action{Kind: types.ActionProceed}}}
	case extract.KindFlights, extract.KindHotels, extract.KindCars:
		r.Variant = VariantOptionList
		r.Text = c.Residual
		r.Flights, r.Hotels, r.Cars = c.Flights, c.Hotels, c.Cars
		r.Booking = optionBooking(c.Kind)
		r.Selectable = session.State == types.StateShowingOptions && session.OptionsVisible
		if r.Selectable {
			r.Choices = optionChoices(c)
		}
	case extract.KindGuided:
		r.Variant = VariantGuidedPrompt
		for _, v := range s.guidedChoices(c.Guided) {
			r.Choices = append(r.Choices, Choice{Label: v, Action: types.Preference(v)})
		}
	}
	return r, true
}

// SelectAll renders a message list in order, dropping suppressed messages.
func (s *Selector) SelectAll(messages []types.Message, session flow.Session) []Render {
	out := make([]Render, 0, len(messages))
	for _, m := range messages {
		if r, ok := s.Select(m, session); ok {
			out = append(out, r)
		}
	}
	return out
}

func (s *Selector) guidedChoices(kind extract.GuidedKind) []string {
	switch kind {
	case extract.GuidedClass:
		return s.opts.ClassChoices
	case extract.GuidedVehicle:
		return s.opts.VehicleChoices
	default:
		return nil
	}
}

func optionBooking(kind extract.Kind) types.BookingType {
	switch kind {
	case extract.KindFlights:
		return types.BookingFlight
	case extract.KindHotels:
		return types.BookingHotel
	case extract.KindCars:
		return types.BookingCar
	default:
		return types.BookingNone
	}
}

func optionChoices(c extract.Content) []Choice {
	var indexes []int
	for _, o := range c.Flights {
		indexes = append(indexes, o.Index)
	}
	for _, o := range c.Hotels {
		indexes = append(indexes, o.Index)
	}
	for _, o := range c.Cars {
		indexes = append(indexes, o.Index)
	}
	out := make([]Choice, 0, len(indexes))
	for _, i := range indexes {
		out = append(out, Choice{Label: fmt.Sprintf("Select option %d", i), Action: types.SelectOption(i)})
	}
	return out
}
