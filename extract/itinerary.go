package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tbxark/tripagent/types"
)

var (
	itineraryWordRe = regexp.MustCompile(`(?i)\bitinerary\b`)
	// "**Day 1: Arrival in Kyoto**", "Day 2 - Temples", "🗓️ Day 3"
	dayHeaderRe = regexp.MustCompile(`(?i)^\s*(?:[^\w\s*]+\s*)?\*{0,2}\s*day\s+(\d+)\b\s*\*{0,2}\s*[:\-–—]?\s*(.*?)\s*\*{0,2}\s*$`)
	bulletRe    = regexp.MustCompile(`^\s*(?:[•·\-*]|\d+[.)])\s+`)
)

// Itinerary recognizes a day-by-day trip plan: the word "itinerary" somewhere in the
// text plus at least one "Day N" line.
func Itinerary(text string) (*types.Itinerary, bool) {
	if !itineraryWordRe.MatchString(text) {
		return nil, false
	}
	lines := splitLines(text)
	it := &types.Itinerary{}
	var current *types.ItineraryDay
	gap := false
	for _, l := range lines {
		t := strings.TrimSpace(l)
		if m := dayHeaderRe.FindStringSubmatch(t); m != nil {
			n, err := strconv.Atoi(m[1])
			if err == nil {
				it.Days = append(it.Days, types.ItineraryDay{Number: n, Title: strings.Trim(m[2], "* ")})
				current = &it.Days[len(it.Days)-1]
				gap = false
				continue
			}
		}
		if t == "" {
			gap = true
			continue
		}
		if current == nil {
			if it.Title == "" && itineraryWordRe.MatchString(t) {
				it.Title = cleanTitle(t)
			}
			continue
		}
		isBullet := bulletRe.MatchString(t)
		if gap && !isBullet {
			current = nil
			continue
		}
		current.Lines = append(current.Lines, strings.TrimSpace(bulletRe.ReplaceAllString(t, "")))
		gap = false
	}
	if len(it.Days) == 0 {
		return nil, false
	}
	if it.Title == "" {
		it.Title = "Your Itinerary"
	}
	return it, true
}

func cleanTitle(t string) string {
	t = strings.TrimLeftFunc(t, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '*')
	})
	t = strings.Trim(t, "*# ")
	return strings.TrimRight(t, ":")
}
