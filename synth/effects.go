package synth

import (
	"fmt"

	"github.com/nuchord/nuchord"
)

type (
	// Tick identifies the sample being rendered. Generation is the generation
	// of the VoiceSet the voices came from.
	Tick struct {
		Index      int64
		SampleRate int
		Generation uint64
	}

	// Effects is the effect configuration of a Sound. Every slot is
	// optional; an empty slot passes voices through untouched. Effects is
	// treated as an immutable snapshot: to change the configuration, build a
	// new Effects and give it to Sound.SetEffects. The Envelope and Glide slots
	// carry runtime state, which is advanced by the synthesis loop only.
	Effects struct {
		Tremolo  Option[Tremolo]
		Vibrato  Option[Vibrato]
		Envelope Option[*Envelope]
		Chorus   Option[Chorus]
		Glide    Option[*Glide]
	}

	// EffectSummary is a human readable description of an enabled effect,
	// e.g. {Name: "tremolo", Detail: "strength 0.50, 5.0 Hz"}.
	EffectSummary struct {
		Name   string
		Detail string
	}
)

// Time returns the time of the tick in seconds.
func (t Tick) Time() float64 {
	return float64(t.Index) / float64(t.SampleRate)
}

// Apply runs the voices through the effects chain and returns the effected
// voices. For each voice, tremolo, vibrato and envelope are applied in this
// order, then the voice is expanded by the chorus. Finally, the whole list
// goes through the glide. The envelope is advanced once per call. dst is used
// as scratch space; the returned slice is only valid until the next call. If
// the chain produces no voices, the input voices are returned unchanged.
func (e *Effects) Apply(dst, voices []nuchord.FreqVol, t Tick) []nuchord.FreqVol {
	dst = dst[:0]
	level := 1.0
	if env, ok := e.Envelope.Unpack(); ok {
		level = env.Advance(t.SampleRate)
	}
	tremolo, hasTremolo := e.Tremolo.Unpack()
	vibrato, hasVibrato := e.Vibrato.Unpack()
	_, hasEnvelope := e.Envelope.Unpack()
	chorus, hasChorus := e.Chorus.Unpack()
	for _, v := range voices {
		if hasTremolo {
			v = tremolo.Apply(v, t)
		}
		if hasVibrato {
			v = vibrato.Apply(v, t)
		}
		if hasEnvelope {
			v.Volume *= level
		}
		if hasChorus {
			dst = chorus.Expand(dst, v)
		} else {
			dst = append(dst, v)
		}
	}
	out := dst
	if glide, ok := e.Glide.Unpack(); ok {
		out = glide.Apply(dst, t)
	}
	if len(out) == 0 {
		return voices
	}
	return out
}

// TotalVoices returns how many voices the chain produces from n input voices.
func (e *Effects) TotalVoices(n int) int {
	if chorus, ok := e.Chorus.Unpack(); ok {
		return n * (chorus.Voices + 1)
	}
	return n
}

// Summaries describes the enabled effects, in chain order.
func (e *Effects) Summaries() []EffectSummary {
	var ret []EffectSummary
	if t, ok := e.Tremolo.Unpack(); ok {
		ret = append(ret, EffectSummary{"tremolo", fmt.Sprintf("strength %.2f, %.1f Hz", t.Strength, t.Frequency)})
	}
	if v, ok := e.Vibrato.Unpack(); ok {
		ret = append(ret, EffectSummary{"vibrato", fmt.Sprintf("strength %.2f, %.1f Hz", v.Strength, v.Frequency)})
	}
	if env, ok := e.Envelope.Unpack(); ok {
		state, progress := env.State()
		ret = append(ret, EffectSummary{"envelope", fmt.Sprintf("%v %.0f%%", state, progress*100)})
	}
	if c, ok := e.Chorus.Unpack(); ok {
		ret = append(ret, EffectSummary{"chorus", fmt.Sprintf("%d voices, detune %.1f cents", c.Voices, c.DetuneCents)})
	}
	if g, ok := e.Glide.Unpack(); ok {
		ret = append(ret, EffectSummary{"glide", fmt.Sprintf("%.1fs %v", g.TotalTime, g.Easing)})
	}
	return ret
}
