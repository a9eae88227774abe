package pipeline

import (
	"context"
	"testing"

	"github.com/Weeki513/Kiklet/deliver"
	"github.com/Weeki513/Kiklet/notify"
	"github.com/Weeki513/Kiklet/settings"
	"github.com/Weeki513/Kiklet/speech"
	"github.com/Weeki513/Kiklet/storage"
)

type fixture struct {
	pipe    *Pipeline
	speech  *speech.Fake
	deliver *deliver.Fake
	notify  *notify.Fake
	cfg     settings.Settings
}

func newFixture(text string) *fixture {
	f := &fixture{
		speech:  speech.NewFake(text, nil),
		deliver: deliver.NewFake(),
		notify:  notify.NewFake(),
		cfg:     settings.Default(),
	}
	f.cfg.OpenAIAPIKey = "sk-test"
	f.pipe = New(NewStore(), f.speech, f.deliver, f.notify, func() settings.Settings { return f.cfg })
	return f
}

var item = storage.Item{ID: "r1", Path: "/tmp/r1.wav"}

func TestTriggerTranscribesAndDelivers(t *testing.T) {
	f := newFixture("  hello world \n")

	f.pipe.Trigger(context.Background(), item)

	st := f.pipe.States().Get(item.ID)
	if st.Status != StatusDone || st.Text != "hello world" {
		t.Fatalf("state = %+v", st)
	}
	if got := f.deliver.Delivered(); len(got) != 1 || got[0] != "hello world" {
		t.Fatalf("delivered %v", got)
	}
	if f.speech.TranslateCalls != 0 {
		t.Error("translated with translation disabled")
	}
}

func TestTriggerSkipsWithoutCredential(t *testing.T) {
	f := newFixture("hello")
	f.cfg.OpenAIAPIKey = ""

	f.pipe.Trigger(context.Background(), item)

	if f.speech.TranscribeCalls != 0 {
		t.Error("transcribed without a key")
	}
	if got := f.pipe.States().Get(item.ID); got.Status != StatusIdle {
		t.Errorf("state = %+v", got)
	}
}

func TestRepeatTriggerDroppedAfterText(t *testing.T) {
	f := newFixture("hello")

	f.pipe.Trigger(context.Background(), item)
	f.pipe.Trigger(context.Background(), item)

	if f.speech.TranscribeCalls != 1 {
		t.Errorf("transcribed %d times", f.speech.TranscribeCalls)
	}
	if len(f.deliver.Delivered()) != 1 {
		t.Errorf("delivered %v", f.deliver.Delivered())
	}
}

func TestEmptyTranscriptSkipsDeliveryButAllowsRetrigger(t *testing.T) {
	f := newFixture("   ")

	f.pipe.Trigger(context.Background(), item)

	if len(f.deliver.Delivered()) != 0 {
		t.Error("delivered an empty transcript")
	}
	st := f.pipe.States().Get(item.ID)
	if st.Status != StatusDone || st.Text != "" {
		t.Fatalf("state = %+v", st)
	}

	// Recording produced nothing; trying again is allowed without Retry.
	f.speech.Text = "actual words"
	f.pipe.Trigger(context.Background(), item)
	if got := f.pipe.States().Get(item.ID).Text; got != "actual words" {
		t.Errorf("text = %q", got)
	}
}

func TestTranscribeErrorNotifies(t *testing.T) {
	f := newFixture("")
	f.speech.TranscribeErr = &speech.APIError{Status: 401, Body: "bad key"}

	f.pipe.Trigger(context.Background(), item)

	st := f.pipe.States().Get(item.ID)
	if st.Status != StatusError || st.Err == "" {
		t.Fatalf("state = %+v", st)
	}
	if errs := f.notify.Errors(); len(errs) != 1 {
		t.Fatalf("notifications = %v", errs)
	}
	if len(f.deliver.Delivered()) != 0 {
		t.Error("delivered despite error")
	}
}

func TestRetryAfterError(t *testing.T) {
	f := newFixture("")
	f.speech.TranscribeErr = &speech.APIError{Status: 500, Body: "oops"}

	f.pipe.Trigger(context.Background(), item)
	if st := f.pipe.States().Get(item.ID); st.Status != StatusError {
		t.Fatalf("state = %+v", st)
	}

	f.speech.TranscribeErr = nil
	f.speech.Text = "second try"
	f.pipe.Retry(context.Background(), item)

	st := f.pipe.States().Get(item.ID)
	if st.Status != StatusDone || st.Text != "second try" {
		t.Fatalf("state = %+v", st)
	}
}

func TestTranslationDeliversTranslatedStoresRaw(t *testing.T) {
	f := newFixture("hello")
	f.cfg.TranslateTarget = "German"
	f.speech.Translated = "hallo"

	f.pipe.Trigger(context.Background(), item)

	if st := f.pipe.States().Get(item.ID); st.Text != "hello" {
		t.Errorf("stored text = %q, want raw transcript", st.Text)
	}
	if got := f.deliver.Delivered(); len(got) != 1 || got[0] != "hallo" {
		t.Errorf("delivered %v", got)
	}
	if f.speech.LastTranslate.Target != "German" || f.speech.LastTranslate.Model != settings.DefaultTranslateModel {
		t.Errorf("translate args = %+v", f.speech.LastTranslate)
	}
}

func TestTranslationFailureDeliversRaw(t *testing.T) {
	f := newFixture("hello")
	f.cfg.TranslateTarget = "German"
	f.speech.TranslateErr = &speech.APIError{Status: 500, Body: "oops"}

	f.pipe.Trigger(context.Background(), item)

	if got := f.deliver.Delivered(); len(got) != 1 || got[0] != "hello" {
		t.Errorf("delivered %v", got)
	}
	if st := f.pipe.States().Get(item.ID); st.Status != StatusDone {
		t.Errorf("state = %+v", st)
	}
}

func TestTranslateNoneSentinelDisablesTranslation(t *testing.T) {
	f := newFixture("hello")
	f.cfg.TranslateTarget = settings.TranslateNone

	f.pipe.Trigger(context.Background(), item)

	if f.speech.TranslateCalls != 0 {
		t.Error("translated despite sentinel target")
	}
}

func TestAutoinsertFlagReachesDeliverer(t *testing.T) {
	f := newFixture("hello")
	f.cfg.AutoinsertEnabled = true

	f.pipe.Trigger(context.Background(), item)

	if len(f.deliver.Calls) != 1 || !f.deliver.Calls[0].AttemptInsert {
		t.Fatalf("calls = %+v", f.deliver.Calls)
	}
}

func TestPasteFallbackIsToastSurfaced(t *testing.T) {
	f := newFixture("hello")
	f.cfg.AutoinsertEnabled = true
	f.deliver.Result = deliver.Result{Mode: deliver.ModeCopy, OK: true, Detail: "no paste target"}

	f.pipe.Trigger(context.Background(), item)

	if infos := f.notify.Infos(); len(infos) != 1 {
		t.Fatalf("info notifications = %v", infos)
	}
	if errs := f.notify.Errors(); len(errs) != 0 {
		t.Fatalf("error notifications = %v", errs)
	}
	// A clean copy delivery with autoinsert off stays quiet.
	f2 := newFixture("hello")
	f2.pipe.Trigger(context.Background(), item)
	if infos := f2.notify.Infos(); len(infos) != 0 {
		t.Fatalf("info notifications = %v", infos)
	}
}
