// Package notify shows desktop toasts for pipeline outcomes.
package notify

import (
	"sync"

	"github.com/gen2brain/beeep"

	"github.com/Weeki513/Kiklet/log"
)

const appTitle = "Kiklet"

var disabled bool

// Disable turns all toasts off. Used headless and in tests.
func Disable() { disabled = true }

// Notifier is the slice the pipeline consumes.
type Notifier interface {
	Info(msg string)
	Error(msg string)
}

// Desktop sends toasts through the OS notification service.
type Desktop struct{}

func New() *Desktop { return &Desktop{} }

func (d *Desktop) Info(msg string) {
	if disabled {
		return
	}
	if err := beeep.Notify(appTitle, msg, ""); err != nil {
		log.Warnf("notification: %v", err)
	}
}

func (d *Desktop) Error(msg string) {
	if disabled {
		return
	}
	if err := beeep.Alert(appTitle, msg, ""); err != nil {
		log.Warnf("notification: %v", err)
	}
}

// Fake records notifications for tests.
type Fake struct {
	mu    sync.Mutex
	infos []string
	errs  []string
}

func NewFake() *Fake { return &Fake{} }

func (f *Fake) Info(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.infos = append(f.infos, msg)
}

func (f *Fake) Error(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs = append(f.errs, msg)
}

func (f *Fake) Infos() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.infos...)
}

func (f *Fake) Errors() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.errs...)
}
