package speech

import (
	"context"
	"sync"
)

// Fake is a Service for tests.
type Fake struct {
	mu sync.Mutex

	Text          string
	Translated    string
	TranscribeErr error
	TranslateErr  error
	Models        []Model

	TranscribeCalls int
	TranslateCalls  int
	LastTranslate   struct{ Text, Target, Model string }
}

func NewFake(text string, err error) *Fake {
	return &Fake{Text: text, TranscribeErr: err}
}

func (f *Fake) Transcribe(_ context.Context, audioPath string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.TranscribeCalls++
	if f.TranscribeErr != nil {
		return "", f.TranscribeErr
	}
	return f.Text, nil
}

func (f *Fake) Translate(_ context.Context, text, target, model string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.TranslateCalls++
	f.LastTranslate.Text = text
	f.LastTranslate.Target = target
	f.LastTranslate.Model = model
	if f.TranslateErr != nil {
		return "", f.TranslateErr
	}
	if f.Translated != "" {
		return f.Translated, nil
	}
	return text, nil
}

func (f *Fake) ListModels(_ context.Context) ([]Model, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Models, nil
}
