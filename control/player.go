package control

import (
	"fmt"
	"log/slog"

	"github.com/nuchord/nuchord"
	"github.com/nuchord/nuchord/synth"
	"github.com/viterin/vek/vek32"
)

// Player is the synthesis loop. It renders blocks from a Sound, scales them
// by the master gain and writes them to an audio sink. The sink write is the
// only blocking point, so the sink paces the loop. A copy of every block is
// offered to the detector through the broker.
type Player struct {
	sound      *synth.Sound
	broker     *Broker
	bufferSize int
	gain       float32
	logger     *slog.Logger
}

// NewPlayer returns a player rendering blocks of bufferSize samples. broker
// may be nil if no detector is running. A nil logger means slog.Default().
func NewPlayer(sound *synth.Sound, broker *Broker, bufferSize int, gain float64, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{
		sound:      sound,
		broker:     broker,
		bufferSize: max(bufferSize, 1),
		gain:       float32(gain),
		logger:     logger,
	}
}

// Run renders audio to the sink until the Sound is stopped or the sink fails.
// While the Sound is paused, silence is written and the sample index does not
// advance. The first block after a pause resets the detector. A sink failure
// is returned; Run never retries.
func (p *Player) Run(sink nuchord.AudioSink) error {
	buf := make(nuchord.AudioBuffer, p.bufferSize)
	p.logger.Debug("player started", "bufferSize", p.bufferSize, "sampleRate", p.sound.SampleRate())
	prev, resetDetector := p.sound.State(), false
	for {
		state := p.sound.State()
		if prev == synth.Paused && state == synth.Running {
			resetDetector = true
		}
		prev = state
		switch state {
		case synth.Stopped:
			p.logger.Debug("player stopped", "sampleIndex", p.sound.SampleIndex())
			return nil
		case synth.Paused:
			buf.Fill(0)
		default:
			p.sound.Render(buf)
			vek32.MulNumber_Inplace(buf, p.gain)
			clampBuffer(buf)
		}
		if p.sendToDetector(buf, resetDetector) {
			resetDetector = false
		}
		if err := sink.WriteAudio(buf); err != nil {
			p.logger.Error("audio sink failed", "err", err, "sampleIndex", p.sound.SampleIndex())
			return fmt.Errorf("sink.WriteAudio failed: %w", err)
		}
	}
}

// sendToDetector offers a copy of buf to the detector and reports whether it
// was taken.
func (p *Player) sendToDetector(buf nuchord.AudioBuffer, reset bool) bool {
	if p.broker == nil {
		return true
	}
	b := p.broker.GetAudioBuffer()
	*b = append(*b, buf...)
	if !TrySend(p.broker.ToDetector, MsgToDetector{Reset: reset, Data: b}) {
		p.broker.PutAudioBuffer(b)
		return false
	}
	return true
}

func clampBuffer(buf nuchord.AudioBuffer) {
	for i, v := range buf {
		buf[i] = min(max(v, -1), 1)
	}
}
