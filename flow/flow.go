package flow

import (
	"strings"

	"github.com/tbxark/tripagent/extract"
	"github.com/tbxark/tripagent/types"
)

// OptionsPageSuffix marks backend pages that present a numbered offer list.
const OptionsPageSuffix = "_Options"

// Session is the conversation state of one chat. The zero value is Idle.
type Session struct {
	ID                string            `json:"id"`
	State             types.FlowState   `json:"state"`
	BookingType       types.BookingType `json:"booking_type,omitempty"`
	LastItineraryText string            `json:"last_itinerary_text,omitempty"`
	DuplicateShownFor string            `json:"duplicate_shown_for,omitempty"`
	OptionsVisible    bool              `json:"options_visible"`
	FormActive        bool              `json:"form_active"`
	FormPrompt        string            `json:"form_prompt,omitempty"`
	InputHint         types.InputHint   `json:"input_hint,omitempty"`
}

// InBooking reports whether a booking flow of any stage is running.
func (s Session) InBooking() bool {
	return s.BookingType != types.BookingNone
}

// Turn is one completed backend answer.
type Turn struct {
	Text    string
	Page    string
	Content extract.Content
}

// Transition describes the effect of one Advance call.
type Transition struct {
	Before    Session
	After     Session
	Duplicate bool
}

func (t Transition) Changed() bool {
	return t.Before != t.After
}

// Manager owns one session's flow state. It is not safe for concurrent use; the
// caller serializes access.
type Manager struct {
	s Session
}

func NewManager(id string) *Manager {
	return &Manager{s: Session{ID: id, State: types.StateIdle}}
}

func (m *Manager) Session() Session {
	return m.s
}

// Reset clears every field and installs a new session id.
func (m *Manager) Reset(id string) Transition {
	before := m.s
	m.s = Session{ID: id, State: types.StateIdle}
	return Transition{Before: before, After: m.s}
}

// PlanTrip enters the one-shot destination capture stage.
func (m *Manager) PlanTrip() Transition {
	before := m.s
	m.clearTransient()
	m.s.State = types.StateAwaitingDestination
	return Transition{Before: before, After: m.s}
}

func (m *Manager) AwaitingDestination() bool {
	return m.s.State == types.StateAwaitingDestination
}

// SelectableOptions reports whether a numbered offer list is on screen.
func (m *Manager) SelectableOptions() bool {
	return m.s.State == types.StateShowingOptions && m.s.OptionsVisible
}

func (m *Manager) OfferingChoice() bool {
	return m.s.State == types.StateOfferingChoice
}

// StartBooking enters BookingFlow for kind.
func (m *Manager) StartBooking(kind types.BookingType) Transition {
	before := m.s
	m.clearTransient()
	m.s.BookingType = kind
	m.s.State = types.StateBookingFlow
	return Transition{Before: before, After: m.s}
}

// EndBooking leaves the running booking flow, after the user confirmed or skipped it.
// The next repeated itinerary may offer the booking choice again.
func (m *Manager) EndBooking() Transition {
	before := m.s
	m.s.DuplicateShownFor = ""
	if m.s.InBooking() {
		m.s.BookingType = types.BookingNone
		if m.s.State == types.StateBookingFlow {
			m.s.State = types.StateDefault
		}
	}
	return Transition{Before: before, After: m.s}
}

// Advance applies the transition rules to a completed turn, first match wins:
//  1. an options page with numbered offers shows the options;
//  2. a data-collection prompt during a booking opens the form;
//  3. an itinerary repeated verbatim offers the booking choice, once per itinerary;
//  4. a new itinerary replaces the remembered one and re-arms the duplicate check; the
//     stage is kept, except that the one-shot stages Idle and AwaitingDestination give
//     way to Default;
//  5. anything else returns to Default, or to BookingFlow while a booking runs.
func (m *Manager) Advance(turn Turn) Transition {
	before := m.s
	tr := Transition{Before: before}
	isItinerary := turn.Content.Kind == extract.KindItinerary
	hint, isForm := extract.FormPrompt(turn.Text)

	switch {
	case isOptionsTurn(turn):
		m.s.State = types.StateShowingOptions
		m.s.OptionsVisible = true
		m.s.FormActive = false
		m.s.FormPrompt = ""
		m.s.InputHint = ""
	case m.s.InBooking() && isForm:
		m.s.State = types.StateBookingFormActive
		m.s.FormActive = true
		m.s.OptionsVisible = false
		m.s.FormPrompt = turn.Text
		m.s.InputHint = hint
	case isItinerary && m.s.LastItineraryText != "" && turn.Text == m.s.LastItineraryText &&
		m.s.DuplicateShownFor != turn.Text:
		m.clearTransient()
		m.s.State = types.StateOfferingChoice
		m.s.LastItineraryText = ""
		m.s.DuplicateShownFor = turn.Text
		tr.Duplicate = true
	case isItinerary && turn.Text != m.s.LastItineraryText && turn.Text != m.s.DuplicateShownFor:
		m.s.LastItineraryText = turn.Text
		m.s.DuplicateShownFor = ""
		if m.s.State == types.StateIdle || m.s.State == types.StateAwaitingDestination {
			m.s.State = types.StateDefault
		}
	default:
		m.clearTransient()
		if m.s.InBooking() {
			m.s.State = types.StateBookingFlow
		} else {
			m.s.State = types.StateDefault
		}
	}
	tr.After = m.s
	return tr
}

func (m *Manager) clearTransient() {
	m.s.OptionsVisible = false
	m.s.FormActive = false
	m.s.FormPrompt = ""
	m.s.InputHint = ""
}

// isOptionsTurn needs the options page plus a numbered marker. Backends that do not
// report a page fall back to the extracted offer list.
func isOptionsTurn(turn Turn) bool {
	if turn.Page == "" {
		switch turn.Content.Kind {
		case extract.KindFlights, extract.KindHotels, extract.KindCars:
			return true
		}
		return false
	}
	return strings.HasSuffix(turn.Page, OptionsPageSuffix) && extract.HasOptionMarker(turn.Text)
}
