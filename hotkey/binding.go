package hotkey

import (
	"fmt"
	"strings"
)

// Mods is the modifier half of a binding.
type Mods struct {
	Cmd   bool
	Ctrl  bool
	Alt   bool
	Shift bool
}

// Binding is a parsed, validated hotkey combination. Key holds the canonical
// key name ("Space", "A", "5", "F5", ...).
type Binding struct {
	Mods Mods
	Key  string
}

// standalone keys allowed without any modifier.
var standaloneKeys = map[string]bool{
	"Space": true, "Tab": true, "Enter": true, "Escape": true,
	"Insert": true, "Home": true, "End": true, "PageUp": true, "PageDown": true,
	"ArrowUp": true, "ArrowDown": true, "ArrowLeft": true, "ArrowRight": true,
}

// canonicalKey normalizes the many spellings users and older settings files
// use ("space", "KeyA", "Digit5") to one canonical name.
func canonicalKey(raw string) (string, error) {
	k := strings.TrimSpace(raw)
	if k == "" {
		return "", fmt.Errorf("empty key")
	}

	upper := strings.ToUpper(k)
	if len(upper) == 1 && (upper[0] >= 'A' && upper[0] <= 'Z' || upper[0] >= '0' && upper[0] <= '9') {
		return upper, nil
	}
	if after, ok := strings.CutPrefix(k, "Key"); ok && len(after) == 1 {
		return canonicalKey(after)
	}
	if after, ok := strings.CutPrefix(k, "Digit"); ok && len(after) == 1 {
		return canonicalKey(after)
	}

	// F1..F12
	if len(upper) >= 2 && upper[0] == 'F' {
		var n int
		if _, err := fmt.Sscanf(upper[1:], "%d", &n); err == nil && n >= 1 && n <= 12 {
			return fmt.Sprintf("F%d", n), nil
		}
	}

	aliases := map[string]string{
		"space": "Space", "tab": "Tab", "enter": "Enter", "return": "Enter",
		"esc": "Escape", "escape": "Escape",
		"ins": "Insert", "insert": "Insert",
		"home": "Home", "end": "End",
		"pageup": "PageUp", "pagedown": "PageDown",
		"arrowup": "ArrowUp", "up": "ArrowUp",
		"arrowdown": "ArrowDown", "down": "ArrowDown",
		"arrowleft": "ArrowLeft", "left": "ArrowLeft",
		"arrowright": "ArrowRight", "right": "ArrowRight",
	}
	if name, ok := aliases[strings.ToLower(k)]; ok {
		return name, nil
	}
	return "", fmt.Errorf("unknown key %q", raw)
}

// Parse turns an accelerator string like "Ctrl+Shift+Space" into a Binding.
// Pure modifier combinations are rejected; a standalone non-modifier key is
// allowed only for special keys and single characters.
func Parse(accelerator string) (Binding, error) {
	acc := strings.TrimSpace(accelerator)
	if acc == "" {
		return Binding{}, fmt.Errorf("hotkey is empty")
	}
	if len(acc) > 64 {
		return Binding{}, fmt.Errorf("hotkey is too long")
	}

	var b Binding
	for _, part := range strings.Split(acc, "+") {
		p := strings.TrimSpace(part)
		switch strings.ToLower(p) {
		case "cmd", "command", "win", "super", "meta":
			b.Mods.Cmd = true
		case "ctrl", "control":
			b.Mods.Ctrl = true
		case "alt", "option":
			b.Mods.Alt = true
		case "shift":
			b.Mods.Shift = true
		case "":
			return Binding{}, fmt.Errorf("malformed accelerator %q", accelerator)
		default:
			if b.Key != "" {
				return Binding{}, fmt.Errorf("accelerator %q has more than one key", accelerator)
			}
			key, err := canonicalKey(p)
			if err != nil {
				return Binding{}, err
			}
			b.Key = key
		}
	}

	if b.Key == "" {
		return Binding{}, fmt.Errorf("hotkey must include a non-modifier key")
	}
	if !b.Mods.Cmd && !b.Mods.Ctrl && !b.Mods.Alt && !b.Mods.Shift {
		if !standaloneKeys[b.Key] && len(b.Key) != 1 && !strings.HasPrefix(b.Key, "F") {
			return Binding{}, fmt.Errorf("key %q requires a modifier", b.Key)
		}
	}
	return b, nil
}

// String renders the binding back to accelerator form.
func (b Binding) String() string {
	var parts []string
	if b.Mods.Cmd {
		parts = append(parts, "Cmd")
	}
	if b.Mods.Ctrl {
		parts = append(parts, "Ctrl")
	}
	if b.Mods.Alt {
		parts = append(parts, "Alt")
	}
	if b.Mods.Shift {
		parts = append(parts, "Shift")
	}
	parts = append(parts, b.Key)
	return strings.Join(parts, "+")
}
