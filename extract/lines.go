package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tbxark/tripagent/types"
)

var (
	// "✈️ **Option 2**", "Option 2:", "**Option 2**"
	optionHeaderRe = regexp.MustCompile(`(?i)^\s*(?:[^\w\s*]+\s*)?\*{0,2}\s*option\s+(\d+)\s*\*{0,2}\s*:?\s*$`)
	// "🏨 **Selected Hotel**", "🧍 **Passenger 1**"
	sectionHeaderRe = regexp.MustCompile(`^\s*(?:[^\w\s*]+\s*)?\*\*\s*(.+?)\s*\*\*\s*:?\s*$`)
	// "• Check-In: 2025-05-01", "Airline: JL"
	fieldRe = regexp.MustCompile(`^\s*(?:[•·\-*]\s*)?([A-Za-z][A-Za-z \-]*?)\s*:\s*(.*?)\s*$`)

	numberRe     = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)
	totalRe      = regexp.MustCompile(`(?i)total\s*:?\s*[^\d\s]*\s*(\d[\d,]*(?:\.\d+)?)`)
	parentheseRe = regexp.MustCompile(`^(.*?)\s*\(([^()]*)\)\s*$`)
	blankRunRe   = regexp.MustCompile(`\n{3,}`)
)

func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

func normalizeLabel(label string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(label) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func parseField(text string) (string, string, bool) {
	m := fieldRe.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	value := strings.TrimSpace(strings.Trim(strings.TrimSpace(m[2]), "*"))
	return normalizeLabel(m[1]), value, true
}

func sectionTitle(text string) (string, bool) {
	if optionHeaderRe.MatchString(text) {
		return "", false
	}
	m := sectionHeaderRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return normalizeLabel(m[1]), true
}

func optionNumber(text string) (int, bool) {
	m := optionHeaderRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func isMissing(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "none", "null", "undefined", "n/a", "nan":
		return true
	}
	return false
}

type fields map[string]string

// get returns the first non-missing value among keys, or NotAvailable.
func (f fields) get(keys ...string) string {
	for _, k := range keys {
		if v, ok := f[k]; ok && !isMissing(v) {
			return v
		}
	}
	return types.NotAvailable
}

func (f fields) has(key string) bool {
	_, ok := f[key]
	return ok
}

// price keeps the decimal string and drops currency symbols and suffixes like "/day".
func price(v string) string {
	if isMissing(v) || v == types.NotAvailable {
		return types.NotAvailable
	}
	if m := numberRe.FindString(v); m != "" {
		return m
	}
	return v
}

func total(v string) string {
	if m := totalRe.FindStringSubmatch(v); m != nil {
		return m[1]
	}
	return types.NotAvailable
}

// splitParenthetical turns "DFW (2025-05-01)" into ("DFW", "2025-05-01").
func splitParenthetical(v string) (string, string) {
	if v == types.NotAvailable {
		return v, ""
	}
	m := parentheseRe.FindStringSubmatch(v)
	if m == nil {
		return v, ""
	}
	head, inner := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	if isMissing(head) {
		head = types.NotAvailable
	}
	if isMissing(inner) {
		inner = ""
	}
	return head, inner
}

// section is a run of labeled lines following a bold header.
type section struct {
	title  string
	fields fields
	from   int
	to     int
}

// scanSections collects every bold-headed section and the labeled lines under it.
// Blank lines inside a section are skipped; any other unlabeled line ends it.
func scanSections(lines []string) []section {
	var out []section
	for i := 0; i < len(lines); i++ {
		title, ok := sectionTitle(lines[i])
		if !ok {
			continue
		}
		s := section{title: title, fields: fields{}, from: i, to: i + 1}
		for j := i + 1; j < len(lines); j++ {
			t := strings.TrimSpace(lines[j])
			if t == "" {
				continue
			}
			if _, isHeader := sectionTitle(t); isHeader {
				break
			}
			if _, isOption := optionNumber(t); isOption {
				break
			}
			label, value, ok := parseField(t)
			if !ok {
				break
			}
			if !s.fields.has(label) {
				s.fields[label] = value
			}
			s.to = j + 1
		}
		out = append(out, s)
		i = s.to - 1
	}
	return out
}

func findSection(sections []section, titles ...string) (section, bool) {
	for _, s := range sections {
		for _, t := range titles {
			if s.title == t {
				return s, true
			}
		}
	}
	return section{}, false
}

// residual drops the given [from, to) line spans and tidies the blank lines left behind.
func residual(lines []string, spans [][2]int) string {
	drop := make([]bool, len(lines))
	for _, sp := range spans {
		for i := sp[0]; i < sp[1] && i < len(lines); i++ {
			drop[i] = true
		}
	}
	kept := make([]string, 0, len(lines))
	for i, l := range lines {
		if !drop[i] {
			kept = append(kept, l)
		}
	}
	out := strings.Join(kept, "\n")
	out = blankRunRe.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}
