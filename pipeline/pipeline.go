// Package pipeline runs finished recordings through transcription, optional
// translation, and delivery.
package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Weeki513/Kiklet/deliver"
	"github.com/Weeki513/Kiklet/log"
	"github.com/Weeki513/Kiklet/notify"
	"github.com/Weeki513/Kiklet/settings"
	"github.com/Weeki513/Kiklet/speech"
	"github.com/Weeki513/Kiklet/storage"
)

type Pipeline struct {
	states   *Store
	speech   speech.Service
	deliver  deliver.Deliverer
	notifier notify.Notifier
	settings func() settings.Settings
}

func New(states *Store, svc speech.Service, dlv deliver.Deliverer, n notify.Notifier, getSettings func() settings.Settings) *Pipeline {
	return &Pipeline{
		states:   states,
		speech:   svc,
		deliver:  dlv,
		notifier: n,
		settings: getSettings,
	}
}

// States exposes the state store for status queries.
func (p *Pipeline) States() *Store {
	return p.states
}

// Trigger runs the pipeline for one recording. Repeat triggers while a run
// is in flight, or after a run produced text, are dropped. Translation and
// delivery failures do not fail the run; the raw transcript is always
// stored.
func (p *Pipeline) Trigger(ctx context.Context, item storage.Item) {
	cfg := p.settings()
	if !cfg.HasCredential() {
		log.Warn("skipping transcription, no API key configured")
		return
	}
	if !p.states.begin(item.ID) {
		return
	}

	started := time.Now()
	raw, err := p.speech.Transcribe(ctx, item.Path)
	if err != nil {
		p.states.setError(item.ID, err)
		log.Transcription(item.ID, "error", time.Since(started).Milliseconds())
		p.notifyError(err)
		return
	}

	text := strings.TrimSpace(raw)
	p.states.setDone(item.ID, text)
	log.Transcription(item.ID, "ok", time.Since(started).Milliseconds())

	if text == "" {
		return
	}
	log.TranscriptionText(text)

	out := text
	if cfg.TranslateEnabled() {
		translated, err := p.speech.Translate(ctx, text, cfg.TranslateTarget, cfg.TranslateModel)
		if err != nil {
			log.Errorf("translation failed, delivering raw transcript: %v", err)
		} else if translated != "" {
			out = translated
		}
	}

	res, err := p.deliver.Deliver(out, cfg.AutoinsertEnabled)
	switch {
	case err != nil:
		log.Errorf("delivery failed: %v", err)
		p.notifier.Error("Could not copy the transcript to the clipboard")
	case cfg.AutoinsertEnabled && res.Mode == deliver.ModeCopy:
		p.notifier.Info("Paste failed. The transcript is on your clipboard.")
	}
}

// Retry clears a recording's previous outcome and runs the pipeline again.
func (p *Pipeline) Retry(ctx context.Context, item storage.Item) {
	p.states.Reset(item.ID)
	p.Trigger(ctx, item)
}

func (p *Pipeline) notifyError(err error) {
	if errors.Is(err, speech.ErrCredentialMissing) {
		p.notifier.Error("Add your API key in settings to enable transcription")
		return
	}
	var apiErr *speech.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Auth():
			p.notifier.Error("The API rejected your key. Check it in settings.")
		case apiErr.Quota():
			p.notifier.Error("API rate limit reached. Try again in a moment.")
		default:
			p.notifier.Error("Transcription failed. See the diagnostics log.")
		}
		return
	}
	p.notifier.Error("Transcription failed. See the diagnostics log.")
}
