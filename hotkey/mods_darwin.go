//go:build darwin

package hotkey

import "golang.design/x/hotkey"

func modsFor(m Mods) []hotkey.Modifier {
	var mods []hotkey.Modifier
	if m.Cmd {
		mods = append(mods, hotkey.ModCmd)
	}
	if m.Ctrl {
		mods = append(mods, hotkey.ModCtrl)
	}
	if m.Alt {
		mods = append(mods, hotkey.ModOption)
	}
	if m.Shift {
		mods = append(mods, hotkey.ModShift)
	}
	return mods
}
