package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/tbxark/tripagent/types"
)

// GuidedKind names a question the backend asks that has a small fixed answer set.
type GuidedKind string

const (
	GuidedNone    GuidedKind = ""
	GuidedClass   GuidedKind = "class"
	GuidedVehicle GuidedKind = "vehicle"
)

var (
	questionRe    = regexp.MustCompile(`[^.?!\n]*\?`)
	vehicleWordRe = regexp.MustCompile(`(?i)\b(car|vehicle)s?\b`)
	vehicleKindRe = regexp.MustCompile(`(?i)\b(type|kind|size|class|category)\b`)
	classWordRe   = regexp.MustCompile(`(?i)\bclass\b`)
	classAskRe    = regexp.MustCompile(`(?i)\b(which|what|prefer|like|choose)\b`)

	formPromptRe = regexp.MustCompile(`(?i)\b(?:provide|enter|share|type)\s+(?:your|the|passenger|guest|driver)\b|\bwhat(?:\s+is|'s)\s+your\b|\bmay\s+i\s+have\s+your\b`)
	hintDateRe   = regexp.MustCompile(`(?i)\b(date|dob|birth|check-?in|check-?out|when)\b`)
	hintEmailRe  = regexp.MustCompile(`(?i)\be-?mail\b`)
	hintNumberRe = regexp.MustCompile(`(?i)\b(number\s+of|how\s+many|guests)\b`)

	destinationLeadRe = regexp.MustCompile(`^.*?\b(?:trip|travel(?:l?ing)?|vacation|holiday|getaway|journey|tour|visit|go|going|fly|flying|head|heading)\s+(?:to|in|around|through)\s+`)
	destinationVerbRe = regexp.MustCompile(`^(?:visit|explore|see)\s+`)
	articleRe         = regexp.MustCompile(`^(?:the|a|an)\s+`)
)

// GuidedPrompt reports which fixed-choice question, if any, text asks.
// Vehicle questions win over class questions since "car class" reads as both.
func GuidedPrompt(text string) GuidedKind {
	questions := questionRe.FindAllString(text, -1)
	for _, q := range questions {
		if vehicleWordRe.MatchString(q) && vehicleKindRe.MatchString(q) {
			return GuidedVehicle
		}
	}
	for _, q := range questions {
		if classWordRe.MatchString(q) && classAskRe.MatchString(q) {
			return GuidedClass
		}
	}
	return GuidedNone
}

// FormPrompt reports whether text asks the user for a single piece of personal or
// date data and which input control fits the answer.
func FormPrompt(text string) (types.InputHint, bool) {
	loc := formPromptRe.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	ask := text[loc[0]:]
	if i := strings.IndexAny(ask, ".?!\n"); i >= 0 {
		ask = ask[:i]
	}
	switch {
	case hintEmailRe.MatchString(ask):
		return types.InputEmail, true
	case hintDateRe.MatchString(ask):
		return types.InputDate, true
	case hintNumberRe.MatchString(ask):
		return types.InputNumber, true
	}
	return types.InputText, true
}

// Destination reduces a free-form answer such as "a relaxing vacation to Kyoto" to the
// bare place name ("kyoto"). It returns false when nothing usable remains.
func Destination(utterance string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(utterance))
	s = destinationLeadRe.ReplaceAllString(s, "")
	s = destinationVerbRe.ReplaceAllString(s, "")
	for {
		next := articleRe.ReplaceAllString(s, "")
		if next == s {
			break
		}
		s = next
	}
	s = strings.TrimSpace(strings.TrimRight(s, ".!?,;: "))
	if utf8.RuneCountInString(s) < 2 {
		return "", false
	}
	return s, true
}
