package synth

import (
	"math"

	"github.com/nuchord/nuchord"
)

// mixer sums the waveform over the voices of one sample. It keeps one phase
// per output slot, so a voice changing frequency (vibrato, glide) keeps a
// continuous waveform. A slot that appears starts at the phase a voice of its
// frequency would have had if it had been playing since sample 0.
type mixer struct {
	phases []float64
}

func (m *mixer) mix(voices []nuchord.FreqVol, wave nuchord.WaveFunc, t Tick) float32 {
	sampleRate := float64(t.SampleRate)
	if len(m.phases) > len(voices) {
		m.phases = m.phases[:len(voices)]
	}
	for i := len(m.phases); i < len(voices); i++ {
		m.phases = append(m.phases, math.Mod(nuchord.Tau*t.Time()*voices[i].Frequency, nuchord.Tau))
	}
	nyquist := sampleRate / 2
	var sum float64
	for i, v := range voices {
		if v.Frequency < nyquist {
			sum += wave(m.phases[i]) * v.Volume
		}
		next := math.Mod(m.phases[i]+nuchord.Tau*v.Frequency/sampleRate, nuchord.Tau)
		if math.IsNaN(next) {
			next = 0
		}
		m.phases[i] = next
	}
	if len(voices) > 0 {
		sum /= float64(len(voices))
	}
	return clip(sum)
}

func clip(x float64) float32 {
	switch {
	case math.IsNaN(x):
		return 0
	case x > 1:
		return 1
	case x < -1:
		return -1
	}
	return float32(x)
}
