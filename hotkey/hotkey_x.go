//go:build darwin || windows

package hotkey

import (
	"fmt"
	"sync"

	"golang.design/x/hotkey"
)

var xKeys = map[string]hotkey.Key{
	"A": hotkey.KeyA, "B": hotkey.KeyB, "C": hotkey.KeyC, "D": hotkey.KeyD,
	"E": hotkey.KeyE, "F": hotkey.KeyF, "G": hotkey.KeyG, "H": hotkey.KeyH,
	"I": hotkey.KeyI, "J": hotkey.KeyJ, "K": hotkey.KeyK, "L": hotkey.KeyL,
	"M": hotkey.KeyM, "N": hotkey.KeyN, "O": hotkey.KeyO, "P": hotkey.KeyP,
	"Q": hotkey.KeyQ, "R": hotkey.KeyR, "S": hotkey.KeyS, "T": hotkey.KeyT,
	"U": hotkey.KeyU, "V": hotkey.KeyV, "W": hotkey.KeyW, "X": hotkey.KeyX,
	"Y": hotkey.KeyY, "Z": hotkey.KeyZ,
	"0": hotkey.Key0, "1": hotkey.Key1, "2": hotkey.Key2, "3": hotkey.Key3,
	"4": hotkey.Key4, "5": hotkey.Key5, "6": hotkey.Key6, "7": hotkey.Key7,
	"8": hotkey.Key8, "9": hotkey.Key9,
	"Space": hotkey.KeySpace, "Tab": hotkey.KeyTab,
	"Enter": hotkey.KeyReturn, "Escape": hotkey.KeyEscape,
	"ArrowUp": hotkey.KeyUp, "ArrowDown": hotkey.KeyDown,
	"ArrowLeft": hotkey.KeyLeft, "ArrowRight": hotkey.KeyRight,
	"F1": hotkey.KeyF1, "F2": hotkey.KeyF2, "F3": hotkey.KeyF3,
	"F4": hotkey.KeyF4, "F5": hotkey.KeyF5, "F6": hotkey.KeyF6,
	"F7": hotkey.KeyF7, "F8": hotkey.KeyF8, "F9": hotkey.KeyF9,
	"F10": hotkey.KeyF10, "F11": hotkey.KeyF11, "F12": hotkey.KeyF12,
}

type xSource struct {
	hk         *hotkey.Hotkey
	keydown    chan struct{}
	keyup      chan struct{}
	stop       chan struct{}
	registered bool
	once       sync.Once
}

// New returns a Source backed by the OS global hotkey API.
func New(b Binding) (Source, error) {
	key, ok := xKeys[b.Key]
	if !ok {
		return nil, fmt.Errorf("key %q is not supported on this platform", b.Key)
	}
	return &xSource{
		hk:      hotkey.New(modsFor(b.Mods), key),
		keydown: make(chan struct{}, 1),
		keyup:   make(chan struct{}, 1),
	}, nil
}

func (h *xSource) Register() error {
	if h.registered {
		return nil
	}
	if err := h.hk.Register(); err != nil {
		return err
	}
	h.registered = true
	h.stop = make(chan struct{})
	go func() {
		for {
			select {
			case <-h.stop:
				return
			case <-h.hk.Keydown():
				select {
				case h.keydown <- struct{}{}:
				default:
				}
			}
		}
	}()
	go func() {
		for {
			select {
			case <-h.stop:
				return
			case <-h.hk.Keyup():
				select {
				case h.keyup <- struct{}{}:
				default:
				}
			}
		}
	}()
	return nil
}

func (h *xSource) Unregister() {
	h.once.Do(func() {
		if h.stop != nil {
			close(h.stop)
		}
		h.hk.Unregister()
	})
}

func (h *xSource) Keydown() <-chan struct{} {
	return h.keydown
}

func (h *xSource) Keyup() <-chan struct{} {
	return h.keyup
}

// Diagnose reports whether global hotkey support is available.
func Diagnose() (string, error) {
	return "global hotkey support available", nil
}
