package hotkey

// Source delivers global key pulses for a single registered binding. Keydown
// and Keyup fire once per physical press and release; coalescing under a slow
// consumer is acceptable because the arbiter only cares about edges.
//
// Register and Unregister are idempotent. A Source is single-use: after
// Unregister, build a new Source for the next binding.
type Source interface {
	Register() error
	Unregister()
	Keydown() <-chan struct{}
	Keyup() <-chan struct{}
}
