package services

import "context"

// Phase is a step of a login / registration pipeline. Phases are
// transient; nothing about them is persisted.
type Phase string

const (
	PhaseValidating    Phase = "validating"
	PhaseSubmitting    Phase = "submitting"
	PhaseAutoLoggingIn Phase = "auto-logging-in"
	PhaseSucceeded     Phase = "succeeded"
	PhaseFailed        Phase = "failed"
)

// PhaseObserver is notified as an action moves through its phases, so a
// front end can show progress and keep the triggering control disabled
// until a terminal phase arrives.
type PhaseObserver func(ctx context.Context, phase Phase)

// State is the terminal state of an action.
type State string

const (
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// Destination is where the front end should go after an action.
type Destination string

const (
	NavigateNone            Destination = ""
	NavigateAuthenticated   Destination = "authenticated"
	NavigateUnauthenticated Destination = "unauthenticated"
)

// Outcome is what every action hands back to the front end: a terminal
// state, one human-readable message and where to navigate.
type Outcome struct {
	State    State
	Kind     ErrorKind
	Message  string
	Err      error
	Navigate Destination
}

func (o Outcome) OK() bool {
	return o.State == StateSucceeded
}
