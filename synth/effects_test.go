package synth_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/nuchord/nuchord"
	"github.com/nuchord/nuchord/synth"
)

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestChorusExpand(t *testing.T) {
	base := nuchord.FreqVol{Frequency: 220, Volume: 0.8}
	for n := 1; n <= 8; n++ {
		chorus := synth.NewChorus(n, 15, newRand())
		out := chorus.Expand(nil, base)
		if len(out) != n+1 {
			t.Fatalf("%d voices: got %d outputs, want %d", n, len(out), n+1)
		}
		if out[n] != base {
			t.Errorf("%d voices: last output %v, want the original %v", n, out[n], base)
		}
		var sum float64
		for i, v := range out[:n] {
			sum += v.Volume
			lo := base.Frequency * math.Exp2(float64(i+1))
			hi := lo * math.Exp2(15.0/1200)
			if v.Frequency < lo || v.Frequency >= hi {
				t.Errorf("%d voices: copy %d at %v Hz, want within [%v, %v)", n, i+1, v.Frequency, lo, hi)
			}
		}
		if want := base.Volume * (1 - math.Exp2(-float64(n))); math.Abs(sum-want) > 1e-12 {
			t.Errorf("%d voices: copies sum to volume %v, want %v", n, sum, want)
		}
	}
}

func TestChorusDetuneIsStable(t *testing.T) {
	chorus := synth.NewChorus(4, 20, newRand())
	v := nuchord.FreqVol{Frequency: 100, Volume: 1}
	first := chorus.Expand(nil, v)
	second := chorus.Expand(nil, v)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("expansion changed between calls: %v then %v", first, second)
		}
	}
}

func TestChorusAtLeastOneVoice(t *testing.T) {
	if c := synth.NewChorus(0, 10, newRand()); c.Voices != 1 {
		t.Fatalf("NewChorus(0) has %d voices, want 1", c.Voices)
	}
}

func TestTremoloBounds(t *testing.T) {
	for _, strength := range []float64{0, 0.3, 1} {
		tr := synth.Tremolo{Strength: strength, Frequency: 5}
		for i := int64(0); i < 44100; i += 37 {
			v := tr.Apply(nuchord.FreqVol{Frequency: 440, Volume: 0.8}, synth.Tick{Index: i, SampleRate: 44100})
			lo := 0.8 * (1 - strength)
			if v.Volume < lo-1e-12 || v.Volume > 0.8+1e-12 {
				t.Fatalf("strength %v: volume %v out of [%v, 0.8]", strength, v.Volume, lo)
			}
			if v.Frequency != 440 {
				t.Fatalf("tremolo changed the frequency to %v", v.Frequency)
			}
		}
	}
}

func TestVibratoDepth(t *testing.T) {
	vb := synth.Vibrato{Strength: 1, Frequency: 1}
	// a quarter period in: the LFO is at its peak
	v := vb.Apply(nuchord.FreqVol{Frequency: 440, Volume: 0.5}, synth.Tick{Index: 11025, SampleRate: 44100})
	if want := 440 * math.Exp2(1.0/12); math.Abs(v.Frequency-want) > 1e-6 {
		t.Errorf("frequency at LFO peak = %v, want %v", v.Frequency, want)
	}
	if v.Volume != 0.5 {
		t.Errorf("vibrato changed the volume to %v", v.Volume)
	}
}

func TestEffectsPassThrough(t *testing.T) {
	var e synth.Effects
	voices := []nuchord.FreqVol{{Frequency: 220, Volume: 0.5}, {Frequency: 330, Volume: 0.5}}
	out := e.Apply(nil, voices, synth.Tick{SampleRate: 44100})
	if len(out) != 2 || out[0] != voices[0] || out[1] != voices[1] {
		t.Fatalf("empty chain changed the voices: %v", out)
	}
	if got := e.Apply(nil, nil, synth.Tick{SampleRate: 44100}); len(got) != 0 {
		t.Fatalf("no voices gave %v", got)
	}
}

func TestEffectsOrder(t *testing.T) {
	env := synth.NewEnvelope(synth.ADSR{AttackPower: 0.5, DecayPower: 0.5, SustainPower: 0.5, AttackTime: 1, DecayTime: 1})
	e := synth.Effects{
		Envelope: synth.Some(env),
		Chorus:   synth.Some(synth.NewChorus(2, 0, newRand())),
	}
	out := e.Apply(nil, []nuchord.FreqVol{{Frequency: 100, Volume: 1}}, synth.Tick{SampleRate: 100})
	want := []nuchord.FreqVol{{Frequency: 200, Volume: 0.25}, {Frequency: 400, Volume: 0.125}, {Frequency: 100, Volume: 0.5}}
	if len(out) != len(want) {
		t.Fatalf("got %v, want %v", out, want)
	}
	for i := range want {
		if math.Abs(out[i].Frequency-want[i].Frequency) > 1e-9 || math.Abs(out[i].Volume-want[i].Volume) > 1e-9 {
			t.Fatalf("got %v, want %v", out, want)
		}
	}
	if got := e.TotalVoices(3); got != 9 {
		t.Errorf("TotalVoices(3) = %d, want 9", got)
	}
}

func TestSummaries(t *testing.T) {
	e := synth.Effects{
		Tremolo: synth.Some(synth.Tremolo{Strength: 0.5, Frequency: 5}),
		Glide:   synth.Some(synth.NewGlide(2, synth.Smooth)),
	}
	s := e.Summaries()
	if len(s) != 2 || s[0].Name != "tremolo" || s[1].Name != "glide" {
		t.Fatalf("summaries = %v, want tremolo and glide", s)
	}
	if s[1].Detail != "2.0s smooth" {
		t.Errorf("glide detail = %q", s[1].Detail)
	}
}
