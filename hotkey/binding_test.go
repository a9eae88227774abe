package hotkey

import "testing"

func TestParseAccelerator(t *testing.T) {
	b, err := Parse("Ctrl+Shift+Space")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !b.Mods.Ctrl || !b.Mods.Shift || b.Mods.Cmd || b.Mods.Alt {
		t.Errorf("wrong mods: %+v", b.Mods)
	}
	if b.Key != "Space" {
		t.Errorf("key = %q, want Space", b.Key)
	}
	if got := b.String(); got != "Ctrl+Shift+Space" {
		t.Errorf("String() = %q", got)
	}
}

func TestParseAliases(t *testing.T) {
	cases := map[string]string{
		"Cmd+Shift+A":    "Cmd+Shift+A",
		"command+space":  "Cmd+Space",
		"Super+Return":   "Cmd+Enter",
		"Alt+Digit5":     "Alt+5",
		"Option+KeyV":    "Alt+V",
		"ctrl + shift+z": "Ctrl+Shift+Z",
		"F5":             "F5",
		"Escape":         "Escape",
	}
	for in, want := range cases {
		b, err := Parse(in)
		if err != nil {
			t.Errorf("Parse(%q): %v", in, err)
			continue
		}
		if got := b.String(); got != want {
			t.Errorf("Parse(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	for _, in := range []string{
		"",
		"Ctrl+Shift",
		"Ctrl+",
		"Ctrl+A+B",
		"Ctrl+Bogus",
	} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", in)
		}
	}
}

func TestStandaloneSingleCharAllowed(t *testing.T) {
	b, err := Parse("q")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if b.Key != "Q" {
		t.Errorf("key = %q, want Q", b.Key)
	}
}
