package ptt

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Weeki513/Kiklet/hotkey"
	"github.com/Weeki513/Kiklet/log"
	"github.com/Weeki513/Kiklet/notify"
	"github.com/Weeki513/Kiklet/session"
)

// Toggler is the Controller slice for plain toggle mode.
type Toggler interface {
	Toggle(ctx context.Context) error
}

// Toggle is the fallback listener used when the tap/hold threshold is zero:
// every keydown flips recording on or off and keyup is ignored.
type Toggle struct {
	source   hotkey.Source
	ctl      Toggler
	notifier notify.Notifier

	done chan struct{}
	once sync.Once
}

func NewToggle(source hotkey.Source, ctl Toggler, n notify.Notifier) *Toggle {
	return &Toggle{
		source:   source,
		ctl:      ctl,
		notifier: n,
		done:     make(chan struct{}),
	}
}

func (t *Toggle) Close() {
	t.once.Do(func() { close(t.done) })
}

// Run consumes keydown pulses until ctx is cancelled or Close is called.
func (t *Toggle) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.done:
			return
		case <-t.source.Keydown():
			log.Gesture("toggle", "toggle")
			if err := t.ctl.Toggle(ctx); err != nil &&
				!errors.Is(err, session.ErrAlreadyRecording) &&
				!errors.Is(err, session.ErrNotRecording) {
				log.Errorf("toggling recording: %v", err)
				t.notifier.Error(fmt.Sprintf("Recording failed: %v", err))
			}
		case <-t.source.Keyup():
			// drained so a slow consumer cannot back up the source
		}
	}
}
