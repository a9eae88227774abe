package deliver

import "sync"

// Fake is a Deliverer for tests.
type Fake struct {
	mu sync.Mutex

	Err    error
	Result Result

	Calls []struct {
		Text          string
		AttemptInsert bool
	}
}

func NewFake() *Fake {
	return &Fake{Result: Result{Mode: ModeCopy, OK: true}}
}

func (f *Fake) Deliver(text string, attemptInsert bool) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, struct {
		Text          string
		AttemptInsert bool
	}{text, attemptInsert})
	if f.Err != nil {
		return Result{Mode: f.Result.Mode, OK: false, Detail: f.Err.Error()}, f.Err
	}
	return f.Result, nil
}

func (f *Fake) Delivered() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		out[i] = c.Text
	}
	return out
}
