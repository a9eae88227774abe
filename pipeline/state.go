package pipeline

import "sync"

// Status says where a recording is in the transcription pipeline.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// State is the pipeline outcome for one recording. Text always holds the
// raw transcript, never the translated form.
type State struct {
	Status Status
	Text   string
	Err    string
}

// Store tracks per-recording pipeline state and arbitrates concurrent
// triggers for the same recording.
type Store struct {
	mu     sync.Mutex
	states map[string]State
}

func NewStore() *Store {
	return &Store{states: make(map[string]State)}
}

// Get returns the state for a recording, StatusIdle if never seen.
func (s *Store) Get(id string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.states[id]; ok {
		return st
	}
	return State{Status: StatusIdle}
}

// begin claims the recording for a pipeline run. It refuses while a run is
// in flight and when a previous run already produced text. A run that
// finished empty or with an error may be tried again.
func (s *Store) begin(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.states[id]
	if st.Status == StatusRunning {
		return false
	}
	if st.Status == StatusDone && st.Text != "" {
		return false
	}
	s.states[id] = State{Status: StatusRunning}
	return true
}

func (s *Store) setDone(id, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[id] = State{Status: StatusDone, Text: text}
}

func (s *Store) setError(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[id] = State{Status: StatusError, Err: err.Error()}
}

// Reset forgets a recording's outcome so Trigger will process it afresh.
// No-op while a run is in flight.
func (s *Store) Reset(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.states[id]; ok && st.Status == StatusRunning {
		return
	}
	delete(s.states, id)
}
