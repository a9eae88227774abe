package audio

import "sync"

// FakeContext feeds canned PCM to captures. For tests.
type FakeContext struct {
	pcm []byte

	mu       sync.Mutex
	captures []*FakeCapture
}

func NewFakeContext(pcm []byte) *FakeContext {
	return &FakeContext{pcm: pcm}
}

func (f *FakeContext) Devices() ([]DeviceInfo, error) {
	return []DeviceInfo{{ID: "00", Name: "fake"}}, nil
}

func (f *FakeContext) Close() {}

func (f *FakeContext) NewCapture(_ *DeviceInfo, cb DataCallback) (CaptureDevice, error) {
	c := &FakeCapture{pcm: f.pcm, cb: cb}
	f.mu.Lock()
	f.captures = append(f.captures, c)
	f.mu.Unlock()
	return c, nil
}

type FakeCapture struct {
	pcm     []byte
	cb      DataCallback
	Started bool
	Stopped bool
	Closed  bool
}

// Start delivers all canned PCM at once. The recorder only cares about the
// accumulated samples, not pacing.
func (c *FakeCapture) Start() error {
	c.Started = true
	if len(c.pcm) > 0 {
		c.cb(c.pcm, uint32(len(c.pcm)/2))
	}
	return nil
}

func (c *FakeCapture) Stop()  { c.Stopped = true }
func (c *FakeCapture) Close() { c.Closed = true }
