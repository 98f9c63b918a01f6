package synth

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/nuchord/nuchord"
)

type (
	// Easing shapes the progress of a glide.
	Easing int

	// Glide smooths voice set changes. When the generation of the incoming
	// voices changes, the glide starts from whatever it emitted last and moves
	// towards the new voices over TotalTime seconds. Voices are paired by
	// index: frequencies move geometrically (the same number of cents every
	// sample) and volumes linearly. Voices without a partner fade in from or
	// out to silence. The very first voices a glide sees pass through as is.
	//
	// The runtime state is owned by the synthesis loop; only TotalTime and
	// Easing may be read from other goroutines.
	Glide struct {
		TotalTime float64
		Easing    Easing

		started    bool
		generation uint64
		elapsed    int64
		start      []nuchord.FreqVol
		out        []nuchord.FreqVol
	}
)

const (
	Linear Easing = iota
	Smooth
	NumEasings
)

var ErrUnknownEasing = errors.New("unknown easing")

var easingNames = [NumEasings]string{"linear", "smooth"}

// NewGlide returns a glide lasting totalTime seconds.
func NewGlide(totalTime float64, easing Easing) *Glide {
	return &Glide{TotalTime: totalTime, Easing: easing}
}

// ParseEasing returns the easing with the given name, ignoring case. An empty
// name means Linear.
func ParseEasing(name string) (Easing, error) {
	if name == "" {
		return Linear, nil
	}
	for i, n := range easingNames {
		if strings.EqualFold(n, name) {
			return Easing(i), nil
		}
	}
	return Linear, fmt.Errorf("%w: %q", ErrUnknownEasing, name)
}

func (e Easing) String() string {
	if e < 0 || e >= NumEasings {
		return fmt.Sprintf("Easing(%d)", int(e))
	}
	return easingNames[e]
}

// Ease maps the linear progress p in [0,1] to the eased progress.
func (e Easing) Ease(p float64) float64 {
	switch e {
	case Linear:
		return p
	case Smooth:
		return p * p * (3 - 2*p)
	}
	panic(fmt.Sprintf("invalid state: easing %d", int(e)))
}

// Apply returns the glided voices for this tick. The returned slice belongs to
// the glide and is only valid until the next call.
func (g *Glide) Apply(target []nuchord.FreqVol, t Tick) []nuchord.FreqVol {
	if !g.started || t.Generation != g.generation {
		if !g.started {
			g.out = append(g.out[:0], target...)
		}
		g.start = append(g.start[:0], g.out...)
		g.generation = t.Generation
		g.elapsed = 0
		g.started = true
	}
	total := g.TotalTime * float64(t.SampleRate)
	if total <= 0 || float64(g.elapsed) >= total {
		g.out = append(g.out[:0], target...)
		return g.out
	}
	p := g.Easing.Ease(float64(g.elapsed) / total)
	g.elapsed++
	g.out = g.out[:0]
	for i := range max(len(g.start), len(target)) {
		switch {
		case i < len(g.start) && i < len(target):
			s, d := g.start[i], target[i]
			g.out = append(g.out, nuchord.FreqVol{
				Frequency: glideFrequency(s.Frequency, d.Frequency, p),
				Volume:    lerp(s.Volume, d.Volume, p),
			})
		case i < len(target):
			d := target[i]
			g.out = append(g.out, nuchord.FreqVol{Frequency: d.Frequency, Volume: d.Volume * p})
		default:
			s := g.start[i]
			g.out = append(g.out, nuchord.FreqVol{Frequency: s.Frequency, Volume: s.Volume * (1 - p)})
		}
	}
	return g.out
}

func glideFrequency(from, to, p float64) float64 {
	if from <= 0 || to <= 0 {
		return lerp(from, to, p)
	}
	return from * math.Pow(to/from, p)
}
