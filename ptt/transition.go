// Package ptt disambiguates tap and hold gestures on the capture hotkey and
// drives the recording session accordingly. A press shorter than the
// threshold toggles recording on, a press held past it records until
// release, and a second tap while toggled stops the recording.
package ptt

type state int

const (
	stateIdle state = iota
	stateArmed
	stateHoldRecording
	stateToggleRecording
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateArmed:
		return "armed"
	case stateHoldRecording:
		return "hold-recording"
	case stateToggleRecording:
		return "toggle-recording"
	}
	return "unknown"
}

type event int

const (
	evDown event = iota
	evUp
	evTimerFire
)

type command int

const (
	cmdNone command = iota
	cmdStart
	cmdStop
)

// transition is the gesture state machine. It is pure; the arbiter loop
// owns the timer and executes the returned command.
//
// Timer fires are only meaningful while armed. A fire that arrives after
// the key was already released belongs to a finished gesture and is
// dropped, so release always wins the race at the threshold boundary.
func transition(s state, ev event) (state, command) {
	switch s {
	case stateIdle:
		if ev == evDown {
			return stateArmed, cmdNone
		}
	case stateArmed:
		switch ev {
		case evTimerFire:
			return stateHoldRecording, cmdStart
		case evUp:
			return stateToggleRecording, cmdStart
		}
	case stateHoldRecording:
		if ev == evUp {
			return stateIdle, cmdStop
		}
	case stateToggleRecording:
		if ev == evDown {
			return stateIdle, cmdStop
		}
	}
	return s, cmdNone
}
