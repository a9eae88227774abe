//go:build !darwin

package deliver

import (
	"sync"
	"time"

	"github.com/micmonay/keybd_event"
)

var (
	kb     keybd_event.KeyBonding
	kbOnce sync.Once
	kbErr  error
)

func paste() error {
	kbOnce.Do(func() {
		kb, kbErr = keybd_event.NewKeyBonding()
		if kbErr == nil {
			// On linux the uinput device needs a moment to be picked up
			// before the first synthetic keystroke is seen.
			time.Sleep(100 * time.Millisecond)
		}
	})
	if kbErr != nil {
		return kbErr
	}
	kb.SetKeys(keybd_event.VK_V)
	kb.HasCTRL(true) // Ctrl+V
	return kb.Launching()
}
