package setup

import "errors"

var (
	// ErrStepInvalid the current step has validation violations; the error also carries a validation.Result
	ErrStepInvalid = errors.New("setup: current step is invalid")

	// ErrNoPreviousStep Back was called on the first step
	ErrNoPreviousStep = errors.New("setup: no previous step")

	// ErrNoNextStep Advance was called on the last step
	ErrNoNextStep = errors.New("setup: no next step")

	// ErrAlreadyProcessing an outbound call for this flow is in flight
	ErrAlreadyProcessing = errors.New("setup: flow is already processing")

	// ErrNotProcessing EndProcessing without a matching BeginProcessing
	ErrNotProcessing = errors.New("setup: flow is not processing")

	// ErrStepLocked data for a step the flow has not reached yet
	ErrStepLocked = errors.New("setup: step not reached yet")

	// ErrNotFinalStep completion requested before the final confirmation step
	ErrNotFinalStep = errors.New("setup: flow is not at the final step")

	// ErrFlowNotFound unknown, discarded or expired flow
	ErrFlowNotFound = errors.New("setup: flow not found")

	// ErrAccessDenied the flow belongs to another user
	ErrAccessDenied = errors.New("setup: access denied")
)
