package oto

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/nuchord/nuchord"
)

// OtoContext is an audio context on the default output device: mono, signed
// 16-bit little-endian samples.
type OtoContext struct {
	context    *oto.Context
	sampleRate int
}

// OtoOutput is a sink feeding an oto player. oto pulls audio from the read end
// of a pipe, so WriteAudio blocks until the device has consumed the buffer.
type OtoOutput struct {
	player    *oto.Player
	reader    *io.PipeReader
	writer    *io.PipeWriter
	tmpBuffer []byte
}

// NewContext opens the default audio device. bufferSize is the device buffer
// length in samples; 0 leaves the choice to the driver.
func NewContext(sampleRate, bufferSize int) (*OtoContext, error) {
	options := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   time.Duration(bufferSize) * time.Second / time.Duration(sampleRate),
	}
	context, ready, err := oto.NewContext(options)
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &OtoContext{context: context, sampleRate: sampleRate}, nil
}

func (c *OtoContext) Output() (nuchord.AudioSink, error) {
	if err := c.context.Err(); err != nil {
		return nil, fmt.Errorf("oto context failed: %w", err)
	}
	r, w := io.Pipe()
	player := c.context.NewPlayer(r)
	player.Play()
	return &OtoOutput{player: player, reader: r, writer: w}, nil
}

// Close suspends the device. oto contexts cannot be destroyed; a process has
// at most one.
func (c *OtoContext) Close() error {
	if err := c.context.Suspend(); err != nil {
		return fmt.Errorf("cannot suspend oto context: %w", err)
	}
	return nil
}

// WriteAudio converts the buffer to 16-bit samples and blocks until the player
// has read all of them.
func (o *OtoOutput) WriteAudio(floatBuffer []float32) error {
	// reuse the capacity of tmpBuffer between calls
	o.tmpBuffer = FloatBufferTo16BitLE(floatBuffer, o.tmpBuffer[:0])
	if _, err := o.writer.Write(o.tmpBuffer); err != nil {
		return fmt.Errorf("cannot write to player: %w", err)
	}
	if err := o.player.Err(); err != nil {
		return fmt.Errorf("oto player failed: %w", err)
	}
	return nil
}

// Close stops the player and unblocks a pending WriteAudio.
func (o *OtoOutput) Close() error {
	o.writer.CloseWithError(io.ErrClosedPipe)
	err := o.player.Close()
	o.reader.Close()
	if err != nil && !errors.Is(err, io.ErrClosedPipe) {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	return nil
}
