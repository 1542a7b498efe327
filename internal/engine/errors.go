package engine

import "errors"

var (
	// ErrProtocolViolation marks a programming defect in the phase protocol:
	// a participant never reached a barrier, or reached it twice in one tick.
	ErrProtocolViolation = errors.New("barrier protocol violation")

	// ErrBarrierBroken is returned to every waiter once a barrier is abandoned.
	ErrBarrierBroken = errors.New("barrier broken")

	// ErrAgentFailed wraps an error or panic raised inside an agent's step.
	ErrAgentFailed = errors.New("agent failed")

	ErrNoAgents      = errors.New("no agents registered")
	ErrNoObserver    = errors.New("no observer registered")
	ErrDuplicateRole = errors.New("duplicate role")
)
