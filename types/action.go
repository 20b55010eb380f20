package types

import "fmt"

type ActionKind string

const (
	ActionSend         ActionKind = "send"
	ActionSelectOption ActionKind = "select_option"
	ActionConfirm      ActionKind = "confirm"
	ActionSkip         ActionKind = "skip"
	ActionProceed      ActionKind = "proceed"
	ActionPreference   ActionKind = "preference"
	ActionPlanTrip     ActionKind = "plan_trip"
	ActionStartBooking ActionKind = "start_booking"
	ActionReset        ActionKind = "reset"
)

// Action is one user-visible gesture: typed text, a suggestion or option tap, or a
// button on a rendered card.
type Action struct {
	Kind    ActionKind  `json:"kind" jsonschema:"enum=send,enum=select_option,enum=confirm,enum=skip,enum=proceed,enum=preference,enum=plan_trip,enum=start_booking,enum=reset"`
	Text    string      `json:"text,omitempty" jsonschema:"description=Typed utterance for send"`
	Index   int         `json:"index,omitempty" jsonschema:"description=1-based option number for select_option"`
	Value   string      `json:"value,omitempty" jsonschema:"description=Chosen value for preference"`
	Booking BookingType `json:"booking,omitempty" jsonschema:"enum=flight,enum=hotel,enum=car"`
}

func Send(text string) Action {
	return Action{Kind: ActionSend, Text: text}
}

func SelectOption(index int) Action {
	return Action{Kind: ActionSelectOption, Index: index}
}

func Preference(value string) Action {
	return Action{Kind: ActionPreference, Value: value}
}

func StartBooking(kind BookingType) Action {
	return Action{Kind: ActionStartBooking, Booking: kind}
}

func (a Action) String() string {
	switch a.Kind {
	case ActionSend:
		return fmt.Sprintf("send(%q)", a.Text)
	case ActionSelectOption:
		return fmt.Sprintf("select_option(%d)", a.Index)
	case ActionPreference:
		return fmt.Sprintf("preference(%q)", a.Value)
	case ActionStartBooking:
		return fmt.Sprintf("start_booking(%s)", a.Booking)
	default:
		return string(a.Kind)
	}
}
