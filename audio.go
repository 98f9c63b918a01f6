package nuchord

type (
	// AudioBuffer is a buffer of mono float32 samples, nominally within [-1,
	// 1].
	AudioBuffer []float32

	// AudioSink is the output device of the synthesizer. WriteAudio blocks
	// until the device has accepted the whole buffer; this backpressure is
	// what paces the synthesis loop.
	AudioSink interface {
		WriteAudio(buffer []float32) error
		Close() error
	}

	// AudioContext opens outputs on an audio device. Output fails if the
	// device is not available.
	AudioContext interface {
		Output() (AudioSink, error)
		Close() error
	}
)

// Fill fills the whole buffer with the given value.
func (b AudioBuffer) Fill(value float32) {
	for i := range b {
		b[i] = value
	}
}
