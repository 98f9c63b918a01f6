package synth

import (
	"math"
	"math/rand/v2"

	"github.com/nuchord/nuchord"
)

// Chorus thickens a voice by adding Voices detuned copies at octave
// harmonics: copy i (1-based) plays at base*detune_i*2^i with volume
// base/2^i. The detune of each copy is drawn once, when the Chorus is made, so
// the spread does not change over the lifetime of a Chorus.
type Chorus struct {
	Voices      int
	DetuneCents float64
	detunes     []float64 // frequency ratios, one per copy
}

// NewChorus returns a chorus with the detune of each copy drawn uniformly
// from [0, detuneCents) cents. voices is at least 1.
func NewChorus(voices int, detuneCents float64, rng *rand.Rand) Chorus {
	voices = max(voices, 1)
	detunes := make([]float64, voices)
	for i := range detunes {
		detunes[i] = math.Exp2(rng.Float64() * detuneCents / 1200)
	}
	return Chorus{Voices: voices, DetuneCents: detuneCents, detunes: detunes}
}

// Expand appends the copies of the voice and then the voice itself to dst.
func (c Chorus) Expand(dst []nuchord.FreqVol, v nuchord.FreqVol) []nuchord.FreqVol {
	for i := 1; i <= c.Voices; i++ {
		detune := 1.0
		if i-1 < len(c.detunes) {
			detune = c.detunes[i-1]
		}
		scale := math.Exp2(float64(i))
		dst = append(dst, nuchord.FreqVol{
			Frequency: v.Frequency * detune * scale,
			Volume:    v.Volume / scale,
		})
	}
	return append(dst, v)
}
