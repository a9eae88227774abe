//go:build !linux && !darwin && !windows

package hotkey

import "fmt"

// New is a stub for platforms without a global hotkey backend.
func New(b Binding) (Source, error) {
	return nil, fmt.Errorf("global hotkeys are not supported on this platform")
}

func Diagnose() (string, error) {
	return "", fmt.Errorf("global hotkeys are not supported on this platform")
}
