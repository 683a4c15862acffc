package fsm

import "fmt"

type State string

type Event string

const (
	StateIdle       State = "idle"
	StateAwaiting   State = "awaiting"
	StateSubmitting State = "submitting"
	StateCompleted  State = "completed"
	StateError      State = "error"
)

const (
	EventStart    Event = "start"
	EventSubmit   Event = "submit"
	EventResolve  Event = "resolve"
	EventComplete Event = "complete"
	EventFail     Event = "fail"
	EventReset    Event = "reset"
	EventDiscard  Event = "discard"
)

func Transition(current State, event Event) (State, error) {
	if event == EventFail {
		return StateError, nil
	}

	switch current {
	case StateIdle:
		switch event {
		case EventStart:
			return StateAwaiting, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateAwaiting:
		switch event {
		case EventSubmit:
			return StateSubmitting, nil
		case EventComplete:
			return StateCompleted, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateSubmitting:
		switch event {
		case EventResolve:
			return StateAwaiting, nil
		case EventComplete:
			return StateCompleted, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateCompleted:
		return current, invalidTransition(current, event)
	case StateError:
		switch event {
		case EventReset:
			return StateAwaiting, nil
		case EventDiscard:
			return StateIdle, nil
		default:
			return current, invalidTransition(current, event)
		}
	default:
		return current, fmt.Errorf("unknown state %q", current)
	}
}

func invalidTransition(state State, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", state, event)
}
