package extract

import (
	"sort"
	"strings"

	"github.com/tbxark/tripagent/types"
)

// layout describes the labeled lines of one offer family under an "Option N" header.
type layout struct {
	key    string
	labels map[string]bool
}

func newLayout(key string, labels ...string) layout {
	l := layout{key: key, labels: map[string]bool{key: true}}
	for _, label := range labels {
		l.labels[label] = true
	}
	return l
}

var (
	flightLayout = newLayout("airline", "class", "price", "departure", "arrival", "stops")
	hotelLayout  = newLayout("hotel", "rating", "price", "checkin", "checkout")
	carLayout    = newLayout("car", "vendor", "type", "price", "total", "pickup", "dropoff")
)

type optionBlock struct {
	index  int
	fields fields
	from   int
	to     int
}

// scanOptionBlocks returns the blocks of one family sorted by their option number.
// A block ends at the first non-blank line that is not one of the family's labels,
// and is kept only if it carries the family's key label.
func scanOptionBlocks(lines []string, l layout) []optionBlock {
	var blocks []optionBlock
	for i := 0; i < len(lines); i++ {
		n, ok := optionNumber(lines[i])
		if !ok {
			continue
		}
		b := optionBlock{index: n, fields: fields{}, from: i, to: i + 1}
		for j := i + 1; j < len(lines); j++ {
			t := strings.TrimSpace(lines[j])
			if t == "" {
				continue
			}
			label, value, ok := parseField(t)
			if !ok || !l.labels[label] {
				break
			}
			if !b.fields.has(label) {
				b.fields[label] = value
			}
			b.to = j + 1
		}
		if b.fields.has(l.key) {
			blocks = append(blocks, b)
		}
		i = b.to - 1
	}
	sort.SliceStable(blocks, func(a, c int) bool {
		return blocks[a].index < blocks[c].index
	})
	return blocks
}

func spans(blocks []optionBlock) [][2]int {
	out := make([][2]int, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, [2]int{b.from, b.to})
	}
	return out
}

// HasOptionMarker reports whether text contains at least one "Option N" header.
func HasOptionMarker(text string) bool {
	for _, l := range splitLines(text) {
		if _, ok := optionNumber(l); ok {
			return true
		}
	}
	return false
}

// Flights returns the numbered flight offers in text and the text left after removing them.
func Flights(text string) ([]types.FlightOption, string) {
	lines := splitLines(text)
	blocks := scanOptionBlocks(lines, flightLayout)
	if len(blocks) == 0 {
		return nil, text
	}
	out := make([]types.FlightOption, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, types.FlightOption{
			Index:     b.index,
			Airline:   b.fields.get("airline"),
			Class:     b.fields.get("class"),
			Price:     price(b.fields.get("price")),
			Departure: b.fields.get("departure"),
			Arrival:   b.fields.get("arrival"),
			Stops:     b.fields.get("stops"),
		})
	}
	return out, residual(lines, spans(blocks))
}

func Hotels(text string) ([]types.HotelOption, string) {
	lines := splitLines(text)
	blocks := scanOptionBlocks(lines, hotelLayout)
	if len(blocks) == 0 {
		return nil, text
	}
	out := make([]types.HotelOption, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, types.HotelOption{
			Index:    b.index,
			Hotel:    b.fields.get("hotel"),
			Rating:   b.fields.get("rating"),
			Price:    price(b.fields.get("price")),
			CheckIn:  b.fields.get("checkin"),
			CheckOut: b.fields.get("checkout"),
		})
	}
	return out, residual(lines, spans(blocks))
}

func Cars(text string) ([]types.CarOption, string) {
	lines := splitLines(text)
	blocks := scanOptionBlocks(lines, carLayout)
	if len(blocks) == 0 {
		return nil, text
	}
	out := make([]types.CarOption, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, carFromFields(b.index, b.fields))
	}
	return out, residual(lines, spans(blocks))
}

// carFromFields reads both the option layout ("Car: X (class)", "Price: $a/day | Total: $b")
// and the selected/summary layouts ("Type: X (class)", "Pick-Up: LOC (date)").
func carFromFields(index int, f fields) types.CarOption {
	car, class := splitParenthetical(f.get("car", "type"))
	rawPrice := f.get("price")
	tot := total(rawPrice)
	if tot == types.NotAvailable {
		tot = price(f.get("total"))
	}
	pickUp, pickUpDate := splitParenthetical(f.get("pickup"))
	dropOff, dropOffDate := splitParenthetical(f.get("dropoff"))
	return types.CarOption{
		Index:       index,
		Vendor:      f.get("vendor"),
		Car:         car,
		Class:       class,
		Price:       price(rawPrice),
		Total:       tot,
		PickUp:      pickUp,
		DropOff:     dropOff,
		PickUpDate:  pickUpDate,
		DropOffDate: dropOffDate,
	}
}
