// Package deliver puts finished transcripts where the user wants them: on
// the clipboard, and optionally into the focused input via a synthetic
// paste keystroke.
package deliver

import (
	"fmt"
	"time"

	cb "github.com/atotto/clipboard"

	"github.com/Weeki513/Kiklet/log"
)

// Mode says how the text reached the user.
type Mode string

const (
	ModeInsert Mode = "insert"
	ModeCopy   Mode = "copy"
)

// Result reports what Deliver actually did. A failed paste degrades to a
// successful copy with the failure in Detail.
type Result struct {
	Mode   Mode
	OK     bool
	Detail string
}

// Deliverer is the delivery surface the pipeline consumes.
type Deliverer interface {
	Deliver(text string, attemptInsert bool) (Result, error)
}

// restoreDelay is how long the transcript stays on the clipboard before the
// previous contents come back after an insert. Long enough for the paste
// keystroke to be processed by the focused app.
const restoreDelay = 600 * time.Millisecond

// Clipboard delivers via the system clipboard and a paste keystroke.
type Clipboard struct{}

func New() *Clipboard {
	return &Clipboard{}
}

func (c *Clipboard) Deliver(text string, attemptInsert bool) (Result, error) {
	if !attemptInsert {
		if err := cb.WriteAll(text); err != nil {
			return Result{Mode: ModeCopy, OK: false, Detail: err.Error()},
				fmt.Errorf("copying to clipboard: %w", err)
		}
		log.Delivery(string(ModeCopy), true, "")
		return Result{Mode: ModeCopy, OK: true}, nil
	}

	// Remember the clipboard so the paste does not clobber it for good.
	previous, prevErr := cb.ReadAll()

	if err := cb.WriteAll(text); err != nil {
		return Result{Mode: ModeInsert, OK: false, Detail: err.Error()},
			fmt.Errorf("copying to clipboard: %w", err)
	}

	if err := paste(); err != nil {
		// The text is on the clipboard, so the user still has it.
		log.Delivery(string(ModeCopy), true, err.Error())
		return Result{Mode: ModeCopy, OK: true, Detail: err.Error()}, nil
	}

	if prevErr == nil && previous != "" {
		go func() {
			time.Sleep(restoreDelay)
			if err := cb.WriteAll(previous); err != nil {
				log.Warnf("restoring clipboard: %v", err)
			}
		}()
	}

	log.Delivery(string(ModeInsert), true, "")
	return Result{Mode: ModeInsert, OK: true}, nil
}
