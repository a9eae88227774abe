//go:build linux

package hotkey

import "testing"

func TestRepeatRegisterIsNoOp(t *testing.T) {
	h := &linuxSource{
		binding:    Binding{Mods: Mods{Ctrl: true}, Key: "S"},
		keyCode:    linuxKeyCodes["S"],
		keydown:    make(chan struct{}, 1),
		keyup:      make(chan struct{}, 1),
		registered: true,
	}

	if err := h.Register(); err != nil {
		t.Fatalf("repeat Register: %v", err)
	}
	if len(h.files) != 0 {
		t.Fatalf("repeat Register opened %d devices", len(h.files))
	}
	if h.stop != nil {
		t.Fatal("repeat Register reset the stop channel")
	}
}
