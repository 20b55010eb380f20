package extract

import (
	"strings"

	"github.com/tbxark/tripagent/types"
)

func partyFromFields(f fields) types.Party {
	return types.Party{
		Name:        f.get("name"),
		Email:       f.get("email"),
		DateOfBirth: DateOfBirth(f.get("dob", "dateofbirth")),
	}
}

// FlightSummary recognizes the flight booking recap and every "Passenger N" block after it.
func FlightSummary(text string) (*types.BookingSummary, bool) {
	sections := scanSections(splitLines(text))
	head, ok := findSection(sections, "flightbookingsummary")
	if !ok {
		return nil, false
	}
	summary := &types.BookingSummary{
		Kind: types.BookingFlight,
		Flight: &types.FlightOption{
			Airline:   head.fields.get("airline"),
			Class:     head.fields.get("class"),
			Price:     price(head.fields.get("price")),
			Departure: head.fields.get("departure"),
			Arrival:   head.fields.get("arrival"),
		},
		Route: head.fields.get("route"),
	}
	for _, s := range sections {
		if strings.HasPrefix(s.title, "passenger") {
			summary.Parties = append(summary.Parties, partyFromFields(s.fields))
		}
	}
	if len(summary.Parties) == 0 {
		summary.Parties = []types.Party{partyFromFields(fields{})}
	}
	return summary, true
}

// HotelSummary recognizes the hotel booking recap with its single guest record.
func HotelSummary(text string) (*types.BookingSummary, bool) {
	sections := scanSections(splitLines(text))
	head, ok := findSection(sections, "hotelbookingsummary")
	if !ok {
		return nil, false
	}
	guest, _ := findSection(sections, "guestinformation")
	return &types.BookingSummary{
		Kind: types.BookingHotel,
		Hotel: &types.HotelOption{
			Hotel:    head.fields.get("hotel", "name"),
			Rating:   head.fields.get("rating"),
			Price:    price(head.fields.get("price")),
			CheckIn:  head.fields.get("checkin"),
			CheckOut: head.fields.get("checkout"),
		},
		GuestCount: guest.fields.get("numberofguests", "guests"),
		Parties:    []types.Party{partyFromFields(guest.fields)},
	}, true
}

// CarSummary recognizes the car rental recap with its driver record.
func CarSummary(text string) (*types.BookingSummary, bool) {
	sections := scanSections(splitLines(text))
	head, ok := findSection(sections, "carrentalbookingsummary", "carbookingsummary")
	if !ok {
		return nil, false
	}
	driver, _ := findSection(sections, "driverinformation")
	car := carFromFields(0, head.fields)
	return &types.BookingSummary{
		Kind:    types.BookingCar,
		Car:     &car,
		Parties: []types.Party{partyFromFields(driver.fields)},
	}, true
}
