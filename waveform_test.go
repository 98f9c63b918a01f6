package nuchord_test

import (
	"errors"
	"math"
	"testing"

	"github.com/nuchord/nuchord"
)

func TestWaveformsBoundedAndPeriodic(t *testing.T) {
	for _, w := range []nuchord.Waveform{nuchord.Sine, nuchord.Square, nuchord.Triangle, nuchord.Saw} {
		t.Run(w.Name, func(t *testing.T) {
			for i := -1000; i <= 1000; i++ {
				x := float64(i) * 0.0137
				v := w.Func(x)
				if v < -1 || v > 1 || math.IsNaN(v) {
					t.Fatalf("%s(%v) = %v, out of [-1, 1]", w.Name, x, v)
				}
				if p := w.Func(x + nuchord.Tau); math.Abs(p-v) > 1e-9 && math.Abs(math.Abs(p-v)-2) > 1e-9 {
					t.Fatalf("%s(%v) = %v but %s(x+2π) = %v", w.Name, x, v, w.Name, p)
				}
			}
		})
	}
}

func TestWaveformValues(t *testing.T) {
	tests := []struct {
		w    nuchord.Waveform
		x    float64
		want float64
	}{
		{nuchord.Sine, math.Pi / 2, 1},
		{nuchord.Square, 0, 1},
		{nuchord.Square, math.Pi * 1.5, -1},
		{nuchord.Triangle, 0, 0},
		{nuchord.Triangle, math.Pi / 2, 1},
		{nuchord.Triangle, math.Pi, 0},
		{nuchord.Triangle, 3 * math.Pi / 2, -1},
		{nuchord.Saw, 0, -1},
		{nuchord.Saw, math.Pi, 0},
	}
	for _, tt := range tests {
		if got := tt.w.Func(tt.x); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s(%v) = %v, want %v", tt.w.Name, tt.x, got, tt.want)
		}
	}
}

func TestWaveformByName(t *testing.T) {
	for _, name := range []string{"sine", "SAW", "sawtooth", " square", "Triangle"} {
		if _, err := nuchord.WaveformByName(name); err != nil {
			t.Errorf("WaveformByName(%q) failed: %v", name, err)
		}
	}
	if _, err := nuchord.WaveformByName("noise"); !errors.Is(err, nuchord.ErrUnknownWaveform) {
		t.Errorf("WaveformByName(noise) error = %v, want ErrUnknownWaveform", err)
	}
	if w, _ := nuchord.WaveformByName("sawtooth"); w.Name != nuchord.Saw.Name {
		t.Errorf("sawtooth resolved to %q", w.Name)
	}
}
