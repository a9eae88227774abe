package ptt

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Weeki513/Kiklet/hotkey"
	"github.com/Weeki513/Kiklet/log"
	"github.com/Weeki513/Kiklet/notify"
	"github.com/Weeki513/Kiklet/session"
)

// Controller is the slice of the recording session the arbiter drives.
type Controller interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Arbiter turns raw keydown/keyup pulses from a hotkey source into start and
// stop commands using the tap/hold threshold.
type Arbiter struct {
	source    hotkey.Source
	ctl       Controller
	notifier  notify.Notifier
	threshold time.Duration

	syncCh chan bool
	done   chan struct{}
	once   sync.Once
}

// NewArbiter wires source to ctl with the given tap/hold threshold. The
// threshold must be positive; a zero threshold means plain toggle mode,
// which Toggle handles instead. Start and stop failures other than the
// session's own self-corrections are surfaced through n.
func NewArbiter(source hotkey.Source, ctl Controller, n notify.Notifier, threshold time.Duration) *Arbiter {
	return &Arbiter{
		source:    source,
		ctl:       ctl,
		notifier:  n,
		threshold: threshold,
		syncCh:    make(chan bool, 4),
		done:      make(chan struct{}),
	}
}

// SyncRecording tells the arbiter the session changed state outside its
// control, so an externally started recording can be stopped with a tap and
// an externally stopped one does not leave the arbiter waiting for release.
// Safe to call from session subscribers.
func (a *Arbiter) SyncRecording(recording bool) {
	select {
	case a.syncCh <- recording:
	case <-a.done:
	}
}

// Close stops the event loop. A toggled recording is left running for the
// next listener to adopt; a hold recording is stopped, because its release
// event would go to a listener that no longer understands it. Close does not
// unregister the hotkey source; the caller owns that.
func (a *Arbiter) Close() {
	a.once.Do(func() { close(a.done) })
}

// Run processes hotkey events until ctx is cancelled or Close is called.
// On cancellation a recording still in flight is stopped.
func (a *Arbiter) Run(ctx context.Context) {
	st := stateIdle

	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	timerArmed := false

	disarm := func() {
		if timerArmed && !timer.Stop() {
			<-timer.C
		}
		timerArmed = false
	}

	apply := func(ev event, kind string) {
		next, cmd := transition(st, ev)
		if next == st && cmd == cmdNone {
			return
		}
		if next == stateArmed {
			disarm()
			timer.Reset(a.threshold)
			timerArmed = true
		} else {
			disarm()
		}
		st = next

		switch cmd {
		case cmdStart:
			log.Gesture(kind, "start")
			if err := a.ctl.Start(ctx); err != nil {
				if !errors.Is(err, session.ErrAlreadyRecording) {
					log.Errorf("starting recording: %v", err)
					a.notifier.Error(fmt.Sprintf("Could not start recording: %v", err))
				}
				st = stateIdle
			}
		case cmdStop:
			log.Gesture(kind, "stop")
			if err := a.ctl.Stop(ctx); err != nil {
				if !errors.Is(err, session.ErrNotRecording) {
					log.Errorf("stopping recording: %v", err)
					a.notifier.Error(fmt.Sprintf("Could not save the recording: %v", err))
				}
			}
			st = stateIdle
		}
	}

	for {
		select {
		case <-ctx.Done():
			a.finish(st)
			return
		case <-a.done:
			if st == stateHoldRecording {
				a.finish(st)
			}
			return
		case <-a.source.Keydown():
			apply(evDown, "press")
		case <-a.source.Keyup():
			apply(evUp, gestureKind(st))
		case <-timer.C:
			timerArmed = false
			apply(evTimerFire, "hold")
		case recording := <-a.syncCh:
			disarm()
			st = syncState(st, recording)
		}
	}
}

// gestureKind names the gesture a keyup completes, for logging.
func gestureKind(st state) string {
	if st == stateArmed {
		return "tap"
	}
	return "release"
}

// syncState reconciles the arbiter with an external session transition.
// A hold in progress is left alone; its own release will stop it.
func syncState(st state, recording bool) state {
	if recording {
		if st == stateIdle || st == stateArmed {
			return stateToggleRecording
		}
		return st
	}
	if st == stateHoldRecording || st == stateToggleRecording {
		return stateIdle
	}
	return st
}

func (a *Arbiter) finish(st state) {
	if st == stateHoldRecording || st == stateToggleRecording {
		if err := a.ctl.Stop(context.Background()); err != nil && !errors.Is(err, session.ErrNotRecording) {
			log.Errorf("stopping recording on shutdown: %v", err)
		}
	}
}
