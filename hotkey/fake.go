package hotkey

type FakeSource struct {
	keydown    chan struct{}
	keyup      chan struct{}
	Registered bool
}

func NewFake() *FakeSource {
	return &FakeSource{
		keydown: make(chan struct{}, 1),
		keyup:   make(chan struct{}, 1),
	}
}

func (f *FakeSource) Register() error { f.Registered = true; return nil }
func (f *FakeSource) Unregister()     { f.Registered = false }

func (f *FakeSource) Keydown() <-chan struct{} { return f.keydown }
func (f *FakeSource) Keyup() <-chan struct{}   { return f.keyup }

func (f *FakeSource) SimKeydown() { f.keydown <- struct{}{} }
func (f *FakeSource) SimKeyup()   { f.keyup <- struct{}{} }
