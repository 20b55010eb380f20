package present

import (
	"fmt"
	"strings"

	"github.com/tbxark/tripagent/types"
)

// Text lays a Render out as markdown for terminals and chat-model prompts.
func Text(r Render) string {
	var sb strings.Builder
	switch r.Variant {
	case VariantOptionList:
		if r.Text != "" {
			sb.WriteString(r.Text)
			sb.WriteString("\n\n")
		}
		sb.WriteString(types.FormatFlights(r.Flights))
		sb.WriteString(types.FormatHotels(r.Hotels))
		sb.WriteString(types.FormatCars(r.Cars))
	case VariantSelectedItem:
		sb.WriteString("Selected " + strings.ToLower(bookingTitle(r.Booking)) + "\n\n")
		writeOffer(&sb, r.Selected.Flight, r.Selected.Hotel, r.Selected.Car)
	case VariantBookingSummary:
		sb.WriteString(bookingTitle(r.Booking) + " booking summary\n\n")
		writeOffer(&sb, r.Summary.Flight, r.Summary.Hotel, r.Summary.Car)
		if r.Summary.Route != "" && r.Summary.Route != types.NotAvailable {
			sb.WriteString("Route: " + r.Summary.Route + "\n")
		}
		if r.Summary.GuestCount != "" {
			sb.WriteString("Guests: " + r.Summary.GuestCount + "\n")
		}
		sb.WriteString("\n")
		sb.WriteString(types.FormatParties(r.Summary.Parties))
	case VariantItinerary:
		sb.WriteString(r.Itinerary.Title)
		sb.WriteString("\n")
		for _, d := range r.Itinerary.Days {
			sb.WriteString(fmt.Sprintf("\nDay %d", d.Number))
			if d.Title != "" {
				sb.WriteString(": " + d.Title)
			}
			sb.WriteString("\n")
			for _, l := range d.Lines {
				sb.WriteString("  - " + l + "\n")
			}
		}
	case VariantChoiceMenu:
		sb.WriteString("Would you like to book something for this trip?")
	default:
		sb.WriteString(r.Text)
	}
	writeChoices(&sb, r.Choices)
	writeChoices(&sb, r.Menu)
	return strings.TrimRight(sb.String(), "\n")
}

func bookingTitle(kind types.BookingType) string {
	switch kind {
	case types.BookingFlight:
		return "Flight"
	case types.BookingHotel:
		return "Hotel"
	case types.BookingCar:
		return "Car rental"
	default:
		return "Booking"
	}
}

func writeOffer(sb *strings.Builder, f *types.FlightOption, h *types.HotelOption, c *types.CarOption) {
	switch {
	case f != nil:
		sb.WriteString(types.FormatFlights([]types.FlightOption{*f}))
	case h != nil:
		sb.WriteString(types.FormatHotels([]types.HotelOption{*h}))
	case c != nil:
		sb.WriteString(types.FormatCars([]types.CarOption{*c}))
	}
}

func writeChoices(sb *strings.Builder, choices []Choice) {
	if len(choices) == 0 {
		return
	}
	sb.WriteString("\n\n")
	for i, c := range choices {
		sb.WriteString(fmt.Sprintf("[%d] %s  ", i+1, c.Label))
	}
	sb.WriteString("\n")
}
