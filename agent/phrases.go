package agent

import "github.com/tbxark/tripagent/types"

// Phrases are the canned utterances sent on the user's behalf and the texts the
// client writes itself.
type Phrases struct {
	Greeting            string `yaml:"greeting"`
	DestinationQuestion string `yaml:"destination_question"`
	PlanTripTemplate    string `yaml:"plan_trip_template"`
	FlightTrigger       string `yaml:"flight_trigger"`
	HotelTrigger        string `yaml:"hotel_trigger"`
	CarTrigger          string `yaml:"car_trigger"`
	Confirm             string `yaml:"confirm"`
	Skip                string `yaml:"skip"`
	Proceed             string `yaml:"proceed"`
	ChoiceMenu          string `yaml:"choice_menu"`
	Failure             string `yaml:"failure"`
	PlanTripLabel       string `yaml:"plan_trip_label"`
}

func DefaultPhrases() Phrases {
	return Phrases{
		Greeting:            "Hi",
		DestinationQuestion: "Where do you want to plan your trip to?",
		PlanTripTemplate:    "I want to plan a trip to %s",
		FlightTrigger:       "I want to book a flight",
		HotelTrigger:        "I want to book a hotel",
		CarTrigger:          "I want to rent a car",
		Confirm:             "yes",
		Skip:                "no",
		Proceed:             "Proceed with this itinerary",
		ChoiceMenu:          "Would you like to book a flight, a hotel or a rental car for this trip?",
		Failure:             "Sorry, something went wrong: %s",
		PlanTripLabel:       "Plan a Trip",
	}
}

// Merge fills the empty fields of p from defaults.
func (p Phrases) Merge(defaults Phrases) Phrases {
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&p.Greeting, defaults.Greeting)
	fill(&p.DestinationQuestion, defaults.DestinationQuestion)
	fill(&p.PlanTripTemplate, defaults.PlanTripTemplate)
	fill(&p.FlightTrigger, defaults.FlightTrigger)
	fill(&p.HotelTrigger, defaults.HotelTrigger)
	fill(&p.CarTrigger, defaults.CarTrigger)
	fill(&p.Confirm, defaults.Confirm)
	fill(&p.Skip, defaults.Skip)
	fill(&p.Proceed, defaults.Proceed)
	fill(&p.ChoiceMenu, defaults.ChoiceMenu)
	fill(&p.Failure, defaults.Failure)
	fill(&p.PlanTripLabel, defaults.PlanTripLabel)
	return p
}

func (p Phrases) Trigger(kind types.BookingType) string {
	switch kind {
	case types.BookingFlight:
		return p.FlightTrigger
	case types.BookingHotel:
		return p.HotelTrigger
	case types.BookingCar:
		return p.CarTrigger
	default:
		return ""
	}
}
