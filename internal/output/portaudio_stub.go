//go:build !portaudio

package output

import "errors"

var errPortAudioDisabled = errors.New("PortAudio support not enabled (build with -tags portaudio)")

// PortAudio is a placeholder used when the binary is built without the
// portaudio tag.
type PortAudio struct{}

// NewPortAudio creates the placeholder driver.
func NewPortAudio() Driver {
	return &PortAudio{}
}

func (*PortAudio) Name() string { return BackendPortAudio }

func (*PortAudio) Open() (Device, error) {
	return nil, errPortAudioDisabled
}
