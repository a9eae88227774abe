package audio

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"sync"
	"time"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/Weeki513/Kiklet/storage"
)

// Recorder accumulates PCM between Start and Stop and persists each take as
// a WAV file in the recording store. It implements session.Recorder.
type Recorder struct {
	ctx   Context
	store *storage.Store

	mu      sync.Mutex
	capture CaptureDevice
	samples []int
	item    storage.Item
}

func NewRecorder(ctx Context, store *storage.Store) *Recorder {
	return &Recorder{ctx: ctx, store: store}
}

func (r *Recorder) Start(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.capture != nil {
		return ErrDeviceBusy
	}

	r.item = r.store.NewItem(time.Now())
	r.samples = r.samples[:0]

	capture, err := r.ctx.NewCapture(nil, r.onData)
	if err != nil {
		return fmt.Errorf("opening capture device: %w", err)
	}
	if err := capture.Start(); err != nil {
		capture.Close()
		return fmt.Errorf("starting capture: %w", err)
	}
	r.capture = capture
	return nil
}

// onData runs on the audio backend's thread. It must not block.
func (r *Recorder) onData(data []byte, _ uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := 0; i+2 <= len(data); i += 2 {
		r.samples = append(r.samples, int(int16(binary.LittleEndian.Uint16(data[i:]))))
	}
}

func (r *Recorder) Stop(_ context.Context) (storage.Item, error) {
	r.mu.Lock()
	capture := r.capture
	r.mu.Unlock()
	if capture == nil {
		return storage.Item{}, fmt.Errorf("recorder is not capturing")
	}

	capture.Stop()
	capture.Close()

	r.mu.Lock()
	samples := r.samples
	item := r.item
	r.samples = nil
	r.capture = nil
	r.mu.Unlock()

	item.DurationSec = float64(len(samples)) / SampleRate
	if err := writeWAV(item.Path, samples); err != nil {
		return storage.Item{}, err
	}
	return r.store.Add(item)
}

func writeWAV(path string, samples []int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating wav file: %w", err)
	}

	enc := wav.NewEncoder(f, SampleRate, 16, Channels, 1)
	buf := &gaudio.IntBuffer{
		Data:   samples,
		Format: &gaudio.Format{NumChannels: Channels, SampleRate: SampleRate},
	}
	if err := enc.Write(buf); err != nil {
		enc.Close()
		f.Close()
		return fmt.Errorf("encoding wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalizing wav: %w", err)
	}
	return f.Close()
}
