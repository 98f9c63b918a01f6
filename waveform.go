package nuchord

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

type (
	// FreqVol is a single voice: a frequency in Hz and a volume, nominally
	// between 0 and 1. Two FreqVols are the same voice only if both fields are
	// exactly equal.
	FreqVol struct {
		Frequency float64
		Volume    float64
	}

	// WaveFunc is a periodic function with period 2π and values within [-1,
	// 1]. The argument is the phase in radians.
	WaveFunc func(phase float64) float64

	// Waveform is a named WaveFunc. Waveforms are compared by name.
	Waveform struct {
		Name string
		Func WaveFunc
	}
)

const Tau = 2 * math.Pi

var ErrUnknownWaveform = errors.New("unknown waveform")

var (
	Sine     = Waveform{Name: "sine", Func: sine}
	Square   = Waveform{Name: "square", Func: square}
	Triangle = Waveform{Name: "triangle", Func: triangle}
	Saw      = Waveform{Name: "saw", Func: saw}
)

var waveforms = map[string]Waveform{
	Sine.Name:     Sine,
	Square.Name:   Square,
	Triangle.Name: Triangle,
	Saw.Name:      Saw,
	"sawtooth":    Saw,
}

// WaveformByName returns one of the built-in waveforms: "sine", "square",
// "triangle", "saw" or "sawtooth". The lookup is case-insensitive.
func WaveformByName(name string) (Waveform, error) {
	w, ok := waveforms[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Waveform{}, fmt.Errorf("%w: %q", ErrUnknownWaveform, name)
	}
	return w, nil
}

// WaveformNames lists the names accepted by WaveformByName.
func WaveformNames() []string {
	ret := make([]string, 0, len(waveforms))
	for k := range waveforms {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

func sine(x float64) float64 {
	return math.Sin(x)
}

func square(x float64) float64 {
	if math.Sin(x) >= 0 {
		return 1
	}
	return -1
}

func triangle(x float64) float64 {
	p := wrapPhase(x)
	switch {
	case p <= math.Pi/2:
		return 2 * p / math.Pi
	case p <= 3*math.Pi/2:
		return 2 - 2*p/math.Pi
	default:
		return 2*p/math.Pi - 4
	}
}

func saw(x float64) float64 {
	return wrapPhase(x)/math.Pi - 1
}

// wrapPhase maps x to [0, 2π).
func wrapPhase(x float64) float64 {
	p := math.Mod(x, Tau)
	if p < 0 {
		p += Tau
	}
	return p
}
