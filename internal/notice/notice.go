// Package notice decides what the user is told after an operation.
// It returns data only; attaching the notice to a response is up to the caller.
package notice

import (
	"errors"

	"github.com/m04kA/SMC-TherapySessions/internal/validation"
)

// Kind is the visual flavour of a notice
type Kind string

const (
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// GenericErrorMessage is shown for errors that must not leak internals
const GenericErrorMessage = "An unexpected error occurred"

// Notice is one user-visible message
type Notice struct {
	Kind    Kind   `json:"kind"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Operation names an action the user can trigger
type Operation string

const (
	OpSignIn             Operation = "sign_in"
	OpSignUp             Operation = "sign_up"
	OpSignOut            Operation = "sign_out"
	OpCancelSubscription Operation = "cancel_subscription"
	OpCancelSession      Operation = "cancel_session"
	OpAdvanceSetup       Operation = "advance_setup"
	OpCompleteSetup      Operation = "complete_setup"
	OpAbandonSetup       Operation = "abandon_setup"
)

var successMessages = map[Operation]Notice{
	OpSignIn:             {Title: "Welcome back", Message: "You are signed in."},
	OpSignUp:             {Title: "Account created", Message: "Check your inbox to confirm your email address."},
	OpSignOut:            {Title: "Signed out", Message: "See you soon."},
	OpCancelSubscription: {Title: "Subscription cancelled", Message: "No further sessions will be booked."},
	OpCancelSession:      {Title: "Session cancelled", Message: "Your therapist has been notified."},
	OpAdvanceSetup:       {Title: "Saved", Message: "Continue with the next step."},
	OpCompleteSetup:      {Title: "You are all set", Message: "Your recurring sessions are booked."},
	OpAbandonSetup:       {Title: "Setup discarded", Message: "Nothing was booked or charged."},
}

var failureTitles = map[Operation]string{
	OpSignIn:             "Sign in failed",
	OpSignUp:             "Sign up failed",
	OpSignOut:            "Sign out failed",
	OpCancelSubscription: "Could not cancel the subscription",
	OpCancelSession:      "Could not cancel the session",
	OpAdvanceSetup:       "Please check your input",
	OpCompleteSetup:      "Could not complete the setup",
	OpAbandonSetup:       "Could not discard the setup",
}

// UserError is an error whose message may be shown to the user as is
type UserError interface {
	error
	UserMessage() string
}

// Success returns the notice for a finished operation
func Success(op Operation) Notice {
	n, ok := successMessages[op]
	if !ok {
		n = Notice{Title: "Done"}
	}
	n.Kind = KindSuccess
	return n
}

// FromError returns the notice for a failed operation.
// Validation failures become warnings, errors carrying a user message are shown verbatim,
// everything else is reduced to GenericErrorMessage.
func FromError(op Operation, err error) Notice {
	title, ok := failureTitles[op]
	if !ok {
		title = "Something went wrong"
	}

	if result, ok := validation.AsResult(err); ok {
		return Notice{Kind: KindWarning, Title: title, Message: firstMessage(result)}
	}

	var userErr UserError
	if errors.As(err, &userErr) {
		return Notice{Kind: KindError, Title: title, Message: userErr.UserMessage()}
	}

	return Notice{Kind: KindError, Title: title, Message: GenericErrorMessage}
}

// Message wraps an error with a message that is safe to show
func Message(err error, message string) error {
	return &userMessageError{err: err, message: message}
}

type userMessageError struct {
	err     error
	message string
}

func (e *userMessageError) Error() string       { return e.err.Error() }
func (e *userMessageError) Unwrap() error       { return e.err }
func (e *userMessageError) UserMessage() string { return e.message }

func firstMessage(r validation.Result) string {
	fields := r.Fields()
	if len(fields) == 0 {
		return "Some fields are invalid."
	}
	first := fields[0]
	if len(fields) == 1 {
		return first + " " + r[first][0]
	}
	return first + " " + r[first][0] + " (and more)"
}
