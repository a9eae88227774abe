package session

import (
	"context"
	"errors"
	"testing"

	"github.com/Weeki513/Kiklet/storage"
)

type fakeRecorder struct {
	starts   int
	stops    int
	startErr error
	stopErr  error
	item     storage.Item
}

func (f *fakeRecorder) Start(ctx context.Context) error {
	f.starts++
	return f.startErr
}

func (f *fakeRecorder) Stop(ctx context.Context) (storage.Item, error) {
	f.stops++
	return f.item, f.stopErr
}

func TestStartStop(t *testing.T) {
	rec := &fakeRecorder{item: storage.Item{ID: "r1"}}
	s := New(rec)

	var got []storage.Item
	s.OnItem(func(it storage.Item) { got = append(got, it) })

	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !s.Recording() {
		t.Fatal("not recording after Start")
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Fatal(err)
	}
	if s.Recording() {
		t.Fatal("still recording after Stop")
	}
	if len(got) != 1 || got[0].ID != "r1" {
		t.Fatalf("OnItem got %+v", got)
	}
}

func TestDoubleStartAndStop(t *testing.T) {
	rec := &fakeRecorder{}
	s := New(rec)

	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := s.Start(context.Background()); !errors.Is(err, ErrAlreadyRecording) {
		t.Fatalf("second Start = %v, want ErrAlreadyRecording", err)
	}
	if rec.starts != 1 {
		t.Fatalf("recorder started %d times", rec.starts)
	}

	if err := s.Stop(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := s.Stop(context.Background()); !errors.Is(err, ErrNotRecording) {
		t.Fatalf("second Stop = %v, want ErrNotRecording", err)
	}
}

func TestStartErrorLeavesIdle(t *testing.T) {
	rec := &fakeRecorder{startErr: errors.New("device busy")}
	s := New(rec)

	if err := s.Start(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if s.Recording() {
		t.Fatal("recording after failed Start")
	}
}

func TestStopErrorClearsState(t *testing.T) {
	rec := &fakeRecorder{stopErr: errors.New("write failed")}
	s := New(rec)

	var items int
	s.OnItem(func(storage.Item) { items++ })

	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := s.Stop(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if s.Recording() {
		t.Fatal("still recording after failed Stop")
	}
	if items != 0 {
		t.Fatal("OnItem called despite stop error")
	}
}

func TestSubscribeSeesTransitions(t *testing.T) {
	s := New(&fakeRecorder{})

	var states []bool
	s.Subscribe(func(rec bool) { states = append(states, rec) })

	ctx := context.Background()
	_ = s.Start(ctx)
	_ = s.Stop(ctx)

	if len(states) != 2 || !states[0] || states[1] {
		t.Fatalf("states = %v, want [true false]", states)
	}
}

func TestToggle(t *testing.T) {
	rec := &fakeRecorder{}
	s := New(rec)
	ctx := context.Background()

	if err := s.Toggle(ctx); err != nil {
		t.Fatal(err)
	}
	if !s.Recording() {
		t.Fatal("toggle did not start")
	}
	if err := s.Toggle(ctx); err != nil {
		t.Fatal(err)
	}
	if s.Recording() {
		t.Fatal("toggle did not stop")
	}
	if rec.starts != 1 || rec.stops != 1 {
		t.Fatalf("starts=%d stops=%d", rec.starts, rec.stops)
	}
}
