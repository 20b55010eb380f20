package extract

import "github.com/tbxark/tripagent/types"

// Kind is the entity family recognized in one turn's text.
type Kind string

const (
	KindPlain     Kind = "plain"
	KindSummary   Kind = "summary"
	KindSelected  Kind = "selected"
	KindItinerary Kind = "itinerary"
	KindFlights   Kind = "flights"
	KindHotels    Kind = "hotels"
	KindCars      Kind = "cars"
	KindGuided    Kind = "guided"
)

// Content is the single structured reading of a turn's text. Exactly one of the
// entity fields is set, matching Kind; plain text sets none.
type Content struct {
	Kind      Kind
	Text      string
	Residual  string
	Summary   *types.BookingSummary
	Selected  *types.SelectedItem
	Itinerary *types.Itinerary
	Flights   []types.FlightOption
	Hotels    []types.HotelOption
	Cars      []types.CarOption
	Guided    GuidedKind
}

// Classify evaluates every extractor in priority order and stops at the first match:
// booking summaries, selected items, itinerary, option lists, guided prompts, plain text.
func Classify(text string) Content {
	c := Content{Kind: KindPlain, Text: text, Residual: text}
	for _, fn := range []func(string) (*types.BookingSummary, bool){FlightSummary, HotelSummary, CarSummary} {
		if s, ok := fn(text); ok {
			c.Kind, c.Summary = KindSummary, s
			return c
		}
	}
	for _, fn := range []func(string) (*types.SelectedItem, bool){SelectedFlight, SelectedHotel, SelectedCar} {
		if s, ok := fn(text); ok {
			c.Kind, c.Selected = KindSelected, s
			return c
		}
	}
	if it, ok := Itinerary(text); ok {
		c.Kind, c.Itinerary = KindItinerary, it
		return c
	}
	if opts, rest := Flights(text); len(opts) > 0 {
		c.Kind, c.Flights, c.Residual = KindFlights, opts, rest
		return c
	}
	if opts, rest := Hotels(text); len(opts) > 0 {
		c.Kind, c.Hotels, c.Residual = KindHotels, opts, rest
		return c
	}
	if opts, rest := Cars(text); len(opts) > 0 {
		c.Kind, c.Cars, c.Residual = KindCars, opts, rest
		return c
	}
	if g := GuidedPrompt(text); g != GuidedNone {
		c.Kind, c.Guided = KindGuided, g
		return c
	}
	return c
}
