package extract

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/tbxark/tripagent/types"
)

var (
	dobYearRe  = regexp.MustCompile(`(?i)["']?\byear\b["']?\s*[:=]\s*(\d+(?:\.\d+)?)`)
	dobMonthRe = regexp.MustCompile(`(?i)["']?\bmonth\b["']?\s*[:=]\s*(\d+(?:\.\d+)?)`)
	dobDayRe   = regexp.MustCompile(`(?i)["']?\bday\b["']?\s*[:=]\s*(\d+(?:\.\d+)?)`)
)

// DateOfBirth renders a {year, month, day} literal as MM/DD/YYYY. Components may be
// written as floats ("1990.0"). Anything else yields NotAvailable.
func DateOfBirth(text string) string {
	year, ok := dobComponent(dobYearRe, text)
	if !ok {
		return types.NotAvailable
	}
	month, ok := dobComponent(dobMonthRe, text)
	if !ok || month < 1 || month > 12 {
		return types.NotAvailable
	}
	day, ok := dobComponent(dobDayRe, text)
	if !ok || day < 1 || day > 31 {
		return types.NotAvailable
	}
	return fmt.Sprintf("%02d/%02d/%04d", month, day, year)
}

func dobComponent(re *regexp.Regexp, text string) (int, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return int(f), true
}
