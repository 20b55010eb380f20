package flow

import (
	"testing"

	"github.com/tbxark/tripagent/extract"
	"github.com/tbxark/tripagent/types"
)

const (
	optionsText   = "**Option 1**\nAirline: JL\nClass: Economy\nPrice: $450\nDeparture: 2025-05-01T10:00\nArrival: 2025-05-01T14:00"
	itineraryText = "**Kyoto Itinerary**\n\nDay 1: Arrival\n- Gion walk\n\nDay 2: Temples\n- Kinkaku-ji"
)

func turn(text, page string) Turn {
	return Turn{Text: text, Page: page, Content: extract.Classify(text)}
}

func checkInvariants(t *testing.T, s Session) {
	t.Helper()
	if s.OptionsVisible && s.State != types.StateShowingOptions {
		t.Errorf("options visible outside ShowingOptions: %+v", s)
	}
	if s.OptionsVisible && s.FormActive {
		t.Errorf("form and options active together: %+v", s)
	}
}

func TestNewManagerIsIdle(t *testing.T) {
	t.Parallel()
	m := NewManager("s1")
	s := m.Session()
	if s.ID != "s1" || s.State != types.StateIdle || s.InBooking() {
		t.Errorf("unexpected initial session: %+v", s)
	}
}

func TestAdvanceShowsOptions(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		page string
		want types.FlowState
	}{
		{name: "options page", page: "Flight_Options", want: types.StateShowingOptions},
		{name: "no page reported", page: "", want: types.StateShowingOptions},
		{name: "other page", page: "Flight_Details", want: types.StateBookingFlow},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := NewManager("s1")
			m.StartBooking(types.BookingFlight)
			tr := m.Advance(turn(optionsText, tt.page))
			if tr.After.State != tt.want {
				t.Errorf("expected %q, got %q", tt.want, tr.After.State)
			}
			if m.SelectableOptions() != (tt.want == types.StateShowingOptions) {
				t.Errorf("unexpected selectable options: %+v", tr.After)
			}
			checkInvariants(t, tr.After)
		})
	}
}

func TestOptionsPageRequiresMarker(t *testing.T) {
	t.Parallel()
	m := NewManager("s1")
	tr := m.Advance(turn("No flights found for those dates.", "Flight_Options"))
	if tr.After.State != types.StateDefault {
		t.Errorf("expected Default, got %q", tr.After.State)
	}
}

func TestFormPromptOnlyDuringBooking(t *testing.T) {
	t.Parallel()
	prompt := "Please provide your email address."

	m := NewManager("s1")
	if tr := m.Advance(turn(prompt, "")); tr.After.State != types.StateDefault {
		t.Errorf("expected Default outside a booking, got %q", tr.After.State)
	}

	m.StartBooking(types.BookingHotel)
	tr := m.Advance(turn(prompt, "Guest_Details"))
	if tr.After.State != types.StateBookingFormActive || !tr.After.FormActive {
		t.Fatalf("expected an active form, got %+v", tr.After)
	}
	if tr.After.InputHint != types.InputEmail || tr.After.FormPrompt != prompt {
		t.Errorf("unexpected form details: %+v", tr.After)
	}
	checkInvariants(t, tr.After)

	tr = m.Advance(turn(optionsText, "Hotel_Options"))
	if tr.After.FormActive || !tr.After.OptionsVisible {
		t.Errorf("options must close the form: %+v", tr.After)
	}
	checkInvariants(t, tr.After)

	tr = m.Advance(turn("Thanks!", ""))
	if tr.After.State != types.StateBookingFlow || tr.After.OptionsVisible {
		t.Errorf("expected BookingFlow with flags cleared, got %+v", tr.After)
	}
}

func TestDuplicateItineraryFiresOnce(t *testing.T) {
	t.Parallel()
	m := NewManager("s1")

	tr := m.Advance(turn(itineraryText, ""))
	if tr.Duplicate || tr.After.LastItineraryText != itineraryText {
		t.Fatalf("first itinerary must be recorded: %+v", tr)
	}

	tr = m.Advance(turn(itineraryText, ""))
	if !tr.Duplicate || tr.After.State != types.StateOfferingChoice {
		t.Fatalf("second identical itinerary must offer the choice: %+v", tr)
	}
	if tr.After.LastItineraryText != "" {
		t.Errorf("expected last itinerary cleared, got %q", tr.After.LastItineraryText)
	}
	if !m.OfferingChoice() {
		t.Error("expected the choice menu state")
	}

	tr = m.Advance(turn(itineraryText, ""))
	if tr.Duplicate {
		t.Error("duplicate path must not fire twice for the same itinerary")
	}
	if tr.After.LastItineraryText != "" {
		t.Errorf("the same itinerary must not be recorded again, got %q", tr.After.LastItineraryText)
	}
}

func TestDifferentItineraryIsRecorded(t *testing.T) {
	t.Parallel()
	m := NewManager("s1")
	m.Advance(turn(itineraryText, ""))
	other := itineraryText + "\n\nDay 3: Nara\n- Deer park"
	tr := m.Advance(turn(other, ""))
	if tr.Duplicate || tr.After.LastItineraryText != other {
		t.Errorf("expected the new itinerary to replace the old one: %+v", tr.After)
	}
}

func TestDuplicateCheckRearms(t *testing.T) {
	t.Parallel()
	other := itineraryText + "\n\nDay 3: Nara\n- Deer park"

	m := NewManager("s1")
	m.Advance(turn(itineraryText, ""))
	m.Advance(turn(itineraryText, ""))
	tr := m.Advance(turn(other, ""))
	if tr.After.DuplicateShownFor != "" || tr.After.LastItineraryText != other {
		t.Fatalf("a different itinerary must re-arm the duplicate check: %+v", tr.After)
	}
	m.Advance(turn(itineraryText, ""))
	if tr = m.Advance(turn(itineraryText, "")); !tr.Duplicate {
		t.Errorf("a new instance of an earlier itinerary must offer the choice again: %+v", tr.After)
	}

	m = NewManager("s2")
	m.Advance(turn(itineraryText, ""))
	m.Advance(turn(itineraryText, ""))
	m.StartBooking(types.BookingHotel)
	if tr = m.EndBooking(); tr.After.DuplicateShownFor != "" {
		t.Fatalf("ending a booking must re-arm the duplicate check: %+v", tr.After)
	}
	m.Advance(turn(itineraryText, ""))
	if tr = m.Advance(turn(itineraryText, "")); !tr.Duplicate {
		t.Errorf("expected the choice after the booking ended: %+v", tr.After)
	}
}

func TestPlanTripIsOneShot(t *testing.T) {
	t.Parallel()
	m := NewManager("s1")
	m.PlanTrip()
	if !m.AwaitingDestination() {
		t.Fatal("expected AwaitingDestination")
	}
	m.Advance(turn("Kyoto is lovely in spring. When would you like to travel?", ""))
	if m.AwaitingDestination() {
		t.Error("destination capture must end after one turn")
	}
}

func TestEndBookingAndReset(t *testing.T) {
	t.Parallel()
	m := NewManager("s1")
	m.StartBooking(types.BookingCar)
	m.Advance(turn(itineraryText, ""))

	tr := m.EndBooking()
	if tr.After.InBooking() || tr.After.State != types.StateDefault {
		t.Errorf("expected booking ended in Default, got %+v", tr.After)
	}

	tr = m.Reset("s2")
	if !tr.Changed() {
		t.Error("reset must report a change")
	}
	want := Session{ID: "s2", State: types.StateIdle}
	if tr.After != want {
		t.Errorf("expected %+v, got %+v", want, tr.After)
	}
}
