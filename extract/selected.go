package extract

import "github.com/tbxark/tripagent/types"

// SelectedFlight recognizes the "Selected Flight Details" preview.
func SelectedFlight(text string) (*types.SelectedItem, bool) {
	s, ok := findSection(scanSections(splitLines(text)), "selectedflightdetails", "selectedflight")
	if !ok {
		return nil, false
	}
	return &types.SelectedItem{
		Kind: types.BookingFlight,
		Flight: &types.FlightOption{
			Airline:   s.fields.get("airline"),
			Class:     s.fields.get("class"),
			Price:     price(s.fields.get("price")),
			Departure: s.fields.get("departure"),
			Arrival:   s.fields.get("arrival"),
			Stops:     s.fields.get("stops"),
		},
	}, true
}

func SelectedHotel(text string) (*types.SelectedItem, bool) {
	s, ok := findSection(scanSections(splitLines(text)), "selectedhotel", "selectedhoteldetails")
	if !ok {
		return nil, false
	}
	return &types.SelectedItem{
		Kind: types.BookingHotel,
		Hotel: &types.HotelOption{
			Hotel:    s.fields.get("name", "hotel"),
			Rating:   s.fields.get("rating"),
			Price:    price(s.fields.get("price")),
			CheckIn:  s.fields.get("checkin"),
			CheckOut: s.fields.get("checkout"),
		},
	}, true
}

func SelectedCar(text string) (*types.SelectedItem, bool) {
	s, ok := findSection(scanSections(splitLines(text)), "selectedcar", "selectedcardetails")
	if !ok {
		return nil, false
	}
	car := carFromFields(0, s.fields)
	return &types.SelectedItem{Kind: types.BookingCar, Car: &car}, true
}
