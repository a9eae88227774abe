package settings

import "runtime"

// TranslateNone is the explicit "do not translate" sentinel. An empty
// translate_target means the same thing.
const TranslateNone = "none"

const (
	DefaultThresholdMs    = 300
	DefaultTranslateModel = "gpt-4o"
)

// HotkeyMods describes the modifier half of a hotkey binding.
type HotkeyMods struct {
	Cmd   bool `json:"cmd"`
	Ctrl  bool `json:"ctrl"`
	Alt   bool `json:"alt"`
	Shift bool `json:"shift"`
}

// Settings is the full hot-reloadable configuration surface. Every value may
// change at runtime; consumers take a snapshot via Store.Get and must not cache
// it across operations.
type Settings struct {
	AutostartEnabled  bool       `json:"autostart_enabled"`
	AutoinsertEnabled bool       `json:"autoinsert_enabled"`
	HotkeyAccelerator string     `json:"hotkey_accelerator"`
	HotkeyCode        string     `json:"hotkey_code,omitempty"`
	HotkeyMods        HotkeyMods `json:"hotkey_mods"`
	PttThresholdMs    int        `json:"ptt_threshold_ms"`
	OpenAIAPIKey      string     `json:"openai_api_key"`
	TranslateTarget   string     `json:"translate_target,omitempty"`
	TranslateModel    string     `json:"translate_model"`
}

// Default returns the settings used when no file exists yet.
func Default() Settings {
	return Settings{
		HotkeyAccelerator: DefaultAccelerator(),
		PttThresholdMs:    DefaultThresholdMs,
		TranslateModel:    DefaultTranslateModel,
	}
}

// PttEnabled reports whether push-to-talk disambiguation is active. A zero
// threshold disables PTT entirely; the toggle fallback takes over.
func (s Settings) PttEnabled() bool {
	return s.PttThresholdMs > 0
}

// TranslateEnabled reports whether a real translation target is configured.
func (s Settings) TranslateEnabled() bool {
	return s.TranslateTarget != "" && s.TranslateTarget != TranslateNone
}

// HasCredential reports whether the transcription collaborator can be called.
func (s Settings) HasCredential() bool {
	return s.OpenAIAPIKey != ""
}

// DefaultAccelerator is the platform default hotkey.
func DefaultAccelerator() string {
	if runtime.GOOS == "darwin" {
		return "Cmd+Shift+Space"
	}
	return "Ctrl+Shift+Space"
}

// FallbackAccelerator is tried when the default cannot be registered.
func FallbackAccelerator() string {
	if runtime.GOOS == "darwin" {
		return "Cmd+Option+Space"
	}
	return "Ctrl+Alt+Space"
}
