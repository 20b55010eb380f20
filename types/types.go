package types

import "time"

type BookingType string

const (
	BookingNone   BookingType = ""
	BookingFlight BookingType = "flight"
	BookingHotel  BookingType = "hotel"
	BookingCar    BookingType = "car"
)

func (b BookingType) Valid() bool {
	switch b {
	case BookingFlight, BookingHotel, BookingCar:
		return true
	default:
		return false
	}
}

// BookingTypeForIndex maps the 1-based entries of the booking choice menu.
func BookingTypeForIndex(index int) BookingType {
	switch index {
	case 1:
		return BookingFlight
	case 2:
		return BookingHotel
	case 3:
		return BookingCar
	default:
		return BookingNone
	}
}

type FlowState string

const (
	StateIdle                FlowState = "idle"
	StateAwaitingDestination FlowState = "awaiting_destination"
	StateDefault             FlowState = "default"
	StateBookingFlow         FlowState = "booking_flow"
	StateBookingFormActive   FlowState = "booking_form_active"
	StateShowingOptions      FlowState = "showing_options"
	StateOfferingChoice      FlowState = "offering_choice"
)

// NotAvailable is rendered for every field the backend left out.
const NotAvailable = "N/A"

type Author string

const (
	AuthorUser Author = "user"
	AuthorBot  Author = "bot"
)

type MessageKind string

const (
	KindText       MessageKind = "text"
	KindChoiceMenu MessageKind = "choice_menu"
	KindPrompt     MessageKind = "prompt"
	KindError      MessageKind = "error"
)

type Message struct {
	ID             string      `json:"id"`
	Author         Author      `json:"author"`
	Kind           MessageKind `json:"kind"`
	RawText        string      `json:"raw_text"`
	CreatedAt      time.Time   `json:"created_at"`
	ShowActionMenu bool        `json:"show_action_menu,omitempty"`
	// DuringBooking is set on bot messages that arrived while a booking flow ran.
	DuringBooking  bool        `json:"during_booking,omitempty"`
}

type FlightOption struct {
	Index     int    `json:"index,omitempty"`
	Airline   string `json:"airline"`
	Class     string `json:"class"`
	Price     string `json:"price"`
	Departure string `json:"departure"`
	Arrival   string `json:"arrival"`
	Stops     string `json:"stops,omitempty"`
}

type HotelOption struct {
	Index    int    `json:"index,omitempty"`
	Hotel    string `json:"hotel"`
	Rating   string `json:"rating"`
	Price    string `json:"price"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
}

type CarOption struct {
	Index       int    `json:"index,omitempty"`
	Vendor      string `json:"vendor,omitempty"`
	Car         string `json:"car"`
	Class       string `json:"class,omitempty"`
	Price       string `json:"price"`
	Total       string `json:"total,omitempty"`
	PickUp      string `json:"pick_up"`
	DropOff     string `json:"drop_off"`
	PickUpDate  string `json:"pick_up_date,omitempty"`
	DropOffDate string `json:"drop_off_date,omitempty"`
}

// Party is a passenger, hotel guest or driver.
type Party struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	DateOfBirth string `json:"date_of_birth"`
}

type SelectedItem struct {
	Kind   BookingType   `json:"kind"`
	Flight *FlightOption `json:"flight,omitempty"`
	Hotel  *HotelOption  `json:"hotel,omitempty"`
	Car    *CarOption    `json:"car,omitempty"`
}

type BookingSummary struct {
	Kind       BookingType   `json:"kind"`
	Flight     *FlightOption `json:"flight,omitempty"`
	Hotel      *HotelOption  `json:"hotel,omitempty"`
	Car        *CarOption    `json:"car,omitempty"`
	Route      string        `json:"route,omitempty"`
	GuestCount string        `json:"guest_count,omitempty"`
	Parties    []Party       `json:"parties"`
}

type ItineraryDay struct {
	Number int      `json:"number"`
	Title  string   `json:"title"`
	Lines  []string `json:"lines,omitempty"`
}

type Itinerary struct {
	Title string         `json:"title"`
	Days  []ItineraryDay `json:"days"`
}

// InputHint tells a UI which control fits the field the backend is collecting.
type InputHint string

const (
	InputText   InputHint = "text"
	InputEmail  InputHint = "email"
	InputDate   InputHint = "date"
	InputNumber InputHint = "number"
)
