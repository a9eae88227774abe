// Package audio captures microphone input and writes finished recordings as
// 16 kHz mono WAV files.
package audio

import "errors"

const (
	SampleRate = 16000
	Channels   = 1
)

var (
	ErrNoDevice   = errors.New("no capture device available")
	ErrDeviceBusy = errors.New("capture device is busy")
)

// DataCallback receives raw little-endian 16-bit PCM from the device.
type DataCallback func(data []byte, frameCount uint32)

type DeviceInfo struct {
	ID   string // opaque platform-specific identifier
	Name string
}

// Context abstracts the audio backend so tests can feed canned PCM.
type Context interface {
	Devices() ([]DeviceInfo, error)
	NewCapture(device *DeviceInfo, callback DataCallback) (CaptureDevice, error)
	Close()
}

type CaptureDevice interface {
	Start() error
	Stop()
	Close()
}
