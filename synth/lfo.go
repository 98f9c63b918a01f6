package synth

import (
	"math"

	"github.com/nuchord/nuchord"
)

type (
	// Tremolo modulates the volume of a voice with a sine LFO. Strength 0
	// leaves the volume untouched, strength 1 swings it between 0 and the
	// original volume.
	Tremolo struct {
		Strength  float64 `yaml:"strength"`  // 0..1
		Frequency float64 `yaml:"frequency"` // LFO rate in Hz
	}

	// Vibrato modulates the frequency of a voice with a sine LFO. Strength is
	// the depth of the modulation in semitones.
	Vibrato struct {
		Strength  float64 `yaml:"strength"`
		Frequency float64 `yaml:"frequency"`
	}
)

func lfo(frequency float64, t Tick) float64 {
	return math.Sin(nuchord.Tau * frequency * t.Time())
}

// Apply returns the voice with the tremolo applied. The resulting volume is
// within [volume*(1-Strength), volume].
func (tr Tremolo) Apply(v nuchord.FreqVol, t Tick) nuchord.FreqVol {
	mod := (lfo(tr.Frequency, t) + 1) / 2
	v.Volume *= (1 - tr.Strength) + tr.Strength*mod
	return v
}

// Apply returns the voice with its frequency detuned by at most Strength
// semitones.
func (vb Vibrato) Apply(v nuchord.FreqVol, t Tick) nuchord.FreqVol {
	v.Frequency *= math.Exp2(vb.Strength * lfo(vb.Frequency, t) / nuchord.SemitonesPerOctave)
	return v
}
