package api

// Intent is the server-detected meaning of a submitted answer.
type Intent string

const (
	IntentRepeatQuestion Intent = "repeat_question"
	IntentHintRequest    Intent = "hint_request"
	IntentNeedTime       Intent = "need_time"
	IntentNormalAnswer   Intent = "normal_answer"
)

// Outcome classifies an interact reply for dispatch. Unknown intents
// map to OutcomeUnknown so new server intents degrade gracefully.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeRepeat
	OutcomeHint
	OutcomeWait
	OutcomeAnswer
)

// Outcome maps the reply's intent to a dispatch class. A completed
// flag always wins so the session can never miss the end of the
// interview.
func (r InteractResponse) Outcome() Outcome {
	if r.Completed {
		return OutcomeAnswer
	}
	switch r.Intent {
	case IntentRepeatQuestion:
		return OutcomeRepeat
	case IntentHintRequest:
		return OutcomeHint
	case IntentNeedTime:
		return OutcomeWait
	case IntentNormalAnswer:
		return OutcomeAnswer
	default:
		return OutcomeUnknown
	}
}
