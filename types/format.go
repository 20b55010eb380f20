package types

import (
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
)

func markdownTable(header []any, rows [][]any) string {
	var buf strings.Builder
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header(header...)
	for _, row := range rows {
		_ = table.Append(row...)
	}
	_ = table.Render()
	return buf.String()
}

func FormatFlights(options []FlightOption) string {
	if len(options) == 0 {
		return ""
	}
	rows := make([][]any, 0, len(options))
	for _, o := range options {
		rows = append(rows, []any{strconv.Itoa(o.Index), o.Airline, o.Class, o.Price, o.Departure, o.Arrival, o.Stops})
	}
	return markdownTable([]any{"#", "Airline", "Class", "Price", "Departure", "Arrival", "Stops"}, rows)
}

func FormatHotels(options []HotelOption) string {
	if len(options) == 0 {
		return ""
	}
	rows := make([][]any, 0, len(options))
	for _, o := range options {
		rows = append(rows, []any{strconv.Itoa(o.Index), o.Hotel, o.Rating, o.Price, o.CheckIn, o.CheckOut})
	}
	return markdownTable([]any{"#", "Hotel", "Rating", "Price", "Check-In", "Check-Out"}, rows)
}

func FormatCars(options []CarOption) string {
	if len(options) == 0 {
		return ""
	}
	rows := make([][]any, 0, len(options))
	for _, o := range options {
		rows = append(rows, []any{strconv.Itoa(o.Index), o.Vendor, o.Car, o.Price, o.Total, o.PickUp, o.DropOff})
	}
	return markdownTable([]any{"#", "Vendor", "Car", "Price/day", "Total", "Pick-Up", "Drop-Off"}, rows)
}

func FormatParties(parties []Party) string {
	if len(parties) == 0 {
		return ""
	}
	rows := make([][]any, 0, len(parties))
	for i, p := range parties {
		rows = append(rows, []any{strconv.Itoa(i + 1), p.Name, p.Email, p.DateOfBirth})
	}
	return markdownTable([]any{"#", "Name", "Email", "DOB"}, rows)
}
