package ptt

import "testing"

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		name     string
		from     state
		ev       event
		want     state
		wantCmd  command
	}{
		{"press arms", stateIdle, evDown, stateArmed, cmdNone},
		{"hold past threshold starts", stateArmed, evTimerFire, stateHoldRecording, cmdStart},
		{"tap before threshold starts toggle", stateArmed, evUp, stateToggleRecording, cmdStart},
		{"release stops hold", stateHoldRecording, evUp, stateIdle, cmdStop},
		{"second tap stops toggle", stateToggleRecording, evDown, stateIdle, cmdStop},

		{"up in idle ignored", stateIdle, evUp, stateIdle, cmdNone},
		{"stale timer in idle ignored", stateIdle, evTimerFire, stateIdle, cmdNone},
		{"repeat down while holding ignored", stateHoldRecording, evDown, stateHoldRecording, cmdNone},
		{"stale timer while holding ignored", stateHoldRecording, evTimerFire, stateHoldRecording, cmdNone},
		{"up while toggled ignored", stateToggleRecording, evUp, stateToggleRecording, cmdNone},
		{"stale timer while toggled ignored", stateToggleRecording, evTimerFire, stateToggleRecording, cmdNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, cmd := transition(tc.from, tc.ev)
			if got != tc.want || cmd != tc.wantCmd {
				t.Errorf("transition(%v, %v) = %v, %v; want %v, %v",
					tc.from, tc.ev, got, cmd, tc.want, tc.wantCmd)
			}
		})
	}
}

func TestSyncState(t *testing.T) {
	if got := syncState(stateIdle, true); got != stateToggleRecording {
		t.Errorf("external start from idle = %v", got)
	}
	if got := syncState(stateArmed, true); got != stateToggleRecording {
		t.Errorf("external start while armed = %v", got)
	}
	if got := syncState(stateHoldRecording, true); got != stateHoldRecording {
		t.Errorf("sync(true) must not disturb a hold, got %v", got)
	}
	if got := syncState(stateToggleRecording, false); got != stateIdle {
		t.Errorf("external stop while toggled = %v", got)
	}
	if got := syncState(stateHoldRecording, false); got != stateIdle {
		t.Errorf("external stop during hold = %v", got)
	}
	if got := syncState(stateIdle, false); got != stateIdle {
		t.Errorf("sync(false) in idle = %v", got)
	}
}
