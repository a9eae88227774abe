package main

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Weeki513/Kiklet/audio"
	"github.com/Weeki513/Kiklet/deliver"
	"github.com/Weeki513/Kiklet/hotkey"
	"github.com/Weeki513/Kiklet/log"
	"github.com/Weeki513/Kiklet/notify"
	"github.com/Weeki513/Kiklet/pipeline"
	"github.com/Weeki513/Kiklet/ptt"
	"github.com/Weeki513/Kiklet/session"
	"github.com/Weeki513/Kiklet/settings"
	"github.com/Weeki513/Kiklet/speech"
	"github.com/Weeki513/Kiklet/storage"
)

// App wires the hotkey listener, recording session and pipeline together
// and reconfigures the listener when settings change.
type App struct {
	settings   *settings.Store
	recordings *storage.Store
	session    *session.Session
	pipe       *pipeline.Pipeline
	notifier   notify.Notifier

	// mu guards the active listener. Teardown and registration of a new
	// hotkey source happen under it, so exactly one listener is live.
	mu           sync.Mutex
	source       hotkey.Source
	toggle       *ptt.Toggle
	listenerDone chan struct{}
	accelerator  string
	thresholdMs  int

	// arbiter is read by the session subscriber without taking mu, so a
	// recording callback can never block against listener teardown.
	arbiter atomic.Pointer[ptt.Arbiter]
}

func newApp(store *settings.Store, recordings *storage.Store, audioCtx audio.Context, svc speech.Service) *App {
	recorder := audio.NewRecorder(audioCtx, recordings)
	sess := session.New(recorder)
	notifier := notify.New()
	pipe := pipeline.New(pipeline.NewStore(), svc, deliver.New(), notifier, store.Get)
	return &App{
		settings:   store,
		recordings: recordings,
		session:    sess,
		pipe:       pipe,
		notifier:   notifier,
	}
}

// Run blocks until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.session.OnItem(func(it storage.Item) {
		go a.pipe.Trigger(ctx, it)
	})
	a.session.Subscribe(func(recording bool) {
		if arb := a.arbiter.Load(); arb != nil {
			arb.SyncRecording(recording)
		}
	})

	cfg := a.settings.Get()
	if err := a.applyHotkey(ctx, cfg); err != nil {
		return err
	}
	log.SessionStart(cfg.HotkeyAccelerator, cfg.PttThresholdMs)

	a.settings.Subscribe(func(cfg settings.Settings) {
		a.onSettings(ctx, cfg)
	})
	if err := a.settings.Watch(ctx); err != nil {
		log.Warnf("settings file watch unavailable: %v", err)
	}

	<-ctx.Done()

	a.mu.Lock()
	a.teardownLocked()
	a.mu.Unlock()
	if a.session.Recording() {
		if err := a.session.Stop(context.Background()); err != nil {
			log.Errorf("stopping recording on shutdown: %v", err)
		}
	}
	log.SessionEnd(len(a.recordings.List()))
	return nil
}

func (a *App) onSettings(ctx context.Context, cfg settings.Settings) {
	a.mu.Lock()
	unchanged := cfg.HotkeyAccelerator == a.accelerator && cfg.PttThresholdMs == a.thresholdMs
	a.mu.Unlock()
	if unchanged {
		return
	}
	if err := a.applyHotkey(ctx, cfg); err != nil {
		log.Errorf("applying hotkey change: %v", err)
	}
}

// applyHotkey tears down the current listener and registers one for the
// configured binding. A toggled recording keeps running across the swap and
// the new listener adopts it; a hold recording is ended by the teardown.
func (a *App) applyHotkey(ctx context.Context, cfg settings.Settings) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.teardownLocked()

	source, accelerator, err := openSource(cfg.HotkeyAccelerator)
	if err != nil {
		return err
	}
	a.source = source
	a.accelerator = cfg.HotkeyAccelerator
	a.thresholdMs = cfg.PttThresholdMs
	a.listenerDone = make(chan struct{})

	if cfg.PttEnabled() {
		arb := ptt.NewArbiter(source, a.session, a.notifier, time.Duration(cfg.PttThresholdMs)*time.Millisecond)
		a.arbiter.Store(arb)
		done := a.listenerDone
		go func() {
			arb.Run(ctx)
			close(done)
		}()
	} else {
		tg := ptt.NewToggle(source, a.session, a.notifier)
		a.toggle = tg
		done := a.listenerDone
		go func() {
			tg.Run(ctx)
			close(done)
		}()
	}

	log.Info(fmt.Sprintf("hotkey active: %s (threshold %dms)", accelerator, cfg.PttThresholdMs))

	if a.session.Recording() {
		if arb := a.arbiter.Load(); arb != nil {
			arb.SyncRecording(true)
		}
	}
	return nil
}

// openSource registers a hotkey for the accelerator, falling back to the
// platform defaults when it cannot be parsed or registered.
func openSource(accelerator string) (hotkey.Source, string, error) {
	tried := map[string]bool{}
	var lastErr error
	for _, acc := range []string{accelerator, settings.DefaultAccelerator(), settings.FallbackAccelerator()} {
		if acc == "" || tried[acc] {
			continue
		}
		tried[acc] = true

		binding, err := hotkey.Parse(acc)
		if err != nil {
			log.Warnf("invalid hotkey %q: %v", acc, err)
			lastErr = err
			continue
		}
		source, err := hotkey.New(binding)
		if err != nil {
			log.Warnf("hotkey %q: %v", acc, err)
			lastErr = err
			continue
		}
		if err := source.Register(); err != nil {
			log.Warnf("registering hotkey %q: %v", acc, err)
			lastErr = err
			continue
		}
		return source, acc, nil
	}
	return nil, "", fmt.Errorf("no usable hotkey: %w", lastErr)
}

func (a *App) teardownLocked() {
	if arb := a.arbiter.Swap(nil); arb != nil {
		arb.Close()
	}
	if a.toggle != nil {
		a.toggle.Close()
		a.toggle = nil
	}
	if a.listenerDone != nil {
		<-a.listenerDone
		a.listenerDone = nil
	}
	if a.source != nil {
		a.source.Unregister()
		a.source = nil
	}
}
