package store

import "errors"

// ErrInFlight is returned when the same network operation is already running.
var ErrInFlight = errors.New("operation already in flight")

// Operation names a mutating store operation.
type Operation string

const (
	OpLogin         Operation = "login"
	OpRegister      Operation = "register"
	OpLogout        Operation = "logout"
	OpUpdateProfile Operation = "update_profile"
	OpUpdateStats   Operation = "update_stats"
	OpUpdateGoals   Operation = "update_goals"
	OpAddWorkout    Operation = "add_workout"
	OpUpdateWorkout Operation = "update_workout"
	OpDeleteWorkout Operation = "delete_workout"
)

// Phase is where an operation stands.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseInFlight  Phase = "in_flight"
	PhaseSucceeded Phase = "succeeded"
	PhaseFailed    Phase = "failed"
)

// OpStatus is the last known status of an operation. Err is set only when
// Phase is PhaseFailed.
type OpStatus struct {
	Phase Phase
	Err   error
}

func (s OpStatus) InFlight() bool { return s.Phase == PhaseInFlight }

func idle() OpStatus { return OpStatus{Phase: PhaseIdle} }

func result(err error) OpStatus {
	if err != nil {
		return OpStatus{Phase: PhaseFailed, Err: err}
	}
	return OpStatus{Phase: PhaseSucceeded}
}
