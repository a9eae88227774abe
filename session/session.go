// Package session owns the single recording in flight. It serializes start
// and stop so overlapping triggers from hotkeys and external callers cannot
// double-start the capture device.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/Weeki513/Kiklet/log"
	"github.com/Weeki513/Kiklet/storage"
)

var (
	ErrAlreadyRecording = errors.New("already recording")
	ErrNotRecording     = errors.New("not recording")
)

// Recorder captures audio between Start and Stop. Stop returns the stored
// recording.
type Recorder interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) (storage.Item, error)
}

type Session struct {
	rec Recorder

	mu        sync.Mutex
	recording bool

	subsMu sync.Mutex
	subs   []func(bool)
	onItem func(storage.Item)
}

func New(rec Recorder) *Session {
	return &Session{rec: rec}
}

// Recording reports whether a capture is in flight.
func (s *Session) Recording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recording
}

// Subscribe registers fn to be called after every state transition with the
// new recording state. Callbacks run outside the session lock.
func (s *Session) Subscribe(fn func(bool)) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	s.subs = append(s.subs, fn)
}

// OnItem sets the handler that receives each finished recording.
func (s *Session) OnItem(fn func(storage.Item)) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	s.onItem = fn
}

// Start begins a capture. Returns ErrAlreadyRecording if one is in flight.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.recording {
		s.mu.Unlock()
		return ErrAlreadyRecording
	}
	if err := s.rec.Start(ctx); err != nil {
		s.mu.Unlock()
		return err
	}
	s.recording = true
	s.mu.Unlock()

	log.Recording("start", "")
	s.notify(true)
	return nil
}

// Stop ends the capture and hands the recording to the OnItem handler.
// Returns ErrNotRecording if nothing is in flight. A recorder error still
// clears the recording state.
func (s *Session) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.recording {
		s.mu.Unlock()
		return ErrNotRecording
	}
	item, err := s.rec.Stop(ctx)
	s.recording = false
	s.mu.Unlock()

	s.notify(false)
	if err != nil {
		log.Errorf("stopping recorder: %v", err)
		return err
	}
	log.Recording("stop", item.ID)

	s.subsMu.Lock()
	handler := s.onItem
	s.subsMu.Unlock()
	if handler != nil {
		handler(item)
	}
	return nil
}

// Toggle starts when idle and stops when recording.
func (s *Session) Toggle(ctx context.Context) error {
	if s.Recording() {
		return s.Stop(ctx)
	}
	return s.Start(ctx)
}

func (s *Session) notify(recording bool) {
	s.subsMu.Lock()
	subs := make([]func(bool), len(s.subs))
	copy(subs, s.subs)
	s.subsMu.Unlock()
	for _, fn := range subs {
		fn(recording)
	}
}
