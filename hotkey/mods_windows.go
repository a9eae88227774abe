//go:build windows

package hotkey

import "golang.design/x/hotkey"

func modsFor(m Mods) []hotkey.Modifier {
	var mods []hotkey.Modifier
	if m.Cmd {
		mods = append(mods, hotkey.ModWin)
	}
	if m.Ctrl {
		mods = append(mods, hotkey.ModCtrl)
	}
	if m.Alt {
		mods = append(mods, hotkey.ModAlt)
	}
	if m.Shift {
		mods = append(mods, hotkey.ModShift)
	}
	return mods
}
