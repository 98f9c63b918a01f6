package synth

import (
	"fmt"
	"math"
	"sync/atomic"
)

type (
	// EnvelopeState is the stage of an ADSR envelope.
	EnvelopeState int

	// ADSR holds the parameters of an envelope. The powers are the levels at
	// the stage boundaries: the level rises from AttackPower to DecayPower
	// (the peak), falls to SustainPower and, after release, to ReleasePower.
	// The times are rates: each sample advances the progress of a stage by
	// Time/sampleRate, so a stage with Time 2 lasts half a second.
	ADSR struct {
		AttackPower  float64 `yaml:"attackPower"`
		DecayPower   float64 `yaml:"decayPower"`
		SustainPower float64 `yaml:"sustainPower"`
		ReleasePower float64 `yaml:"releasePower"`
		AttackTime   float64 `yaml:"attackTime"`
		DecayTime    float64 `yaml:"decayTime"`
		ReleaseTime  float64 `yaml:"releaseTime"`
	}

	// Envelope is an ADSR envelope shared by all voices of a Sound. The
	// synthesis loop advances it once per sample; Release and Trigger can be
	// called from any goroutine. The state and the number of samples spent in
	// it are packed in a single word, so a release can never be half applied.
	// Progress is derived from the sample count, so slow stages do not drift.
	Envelope struct {
		ADSR
		phase      atomic.Uint64
		sampleRate atomic.Int64 // rate of the last Advance, for State
	}
)

const (
	Attack EnvelopeState = iota
	Decay
	Sustain
	Release
	NumEnvelopeStates
)

var envelopeStateNames = [NumEnvelopeStates]string{"attack", "decay", "sustain", "release"}

// NewEnvelope returns an envelope in the attack stage.
func NewEnvelope(params ADSR) *Envelope {
	return &Envelope{ADSR: params}
}

// State returns the current stage and the progress within it, 0..1.
func (e *Envelope) State() (EnvelopeState, float64) {
	state, ticks := unpackPhase(e.phase.Load())
	rate := e.sampleRate.Load()
	if rate <= 0 {
		return state, 0
	}
	return state, min(e.progress(state, ticks, float64(rate)), 1)
}

// Release moves the envelope to the release stage. Releasing an already
// released envelope does nothing.
func (e *Envelope) Release() {
	for {
		old := e.phase.Load()
		if state, _ := unpackPhase(old); state == Release {
			return
		}
		if e.phase.CompareAndSwap(old, packPhase(Release, 0)) {
			return
		}
	}
}

// Trigger restarts the envelope from the beginning of the attack stage.
func (e *Envelope) Trigger() {
	e.phase.Store(packPhase(Attack, 0))
}

// Advance moves the envelope forward by one sample and returns the level for
// that sample.
func (e *Envelope) Advance(sampleRate int) float64 {
	e.sampleRate.Store(int64(sampleRate))
	for {
		old := e.phase.Load()
		state, ticks := unpackPhase(old)
		level, state, ticks := e.step(state, ticks+1, float64(sampleRate))
		if e.phase.CompareAndSwap(old, packPhase(state, ticks)) {
			return level
		}
	}
}

// progress is the position within the stage after ticks samples: each sample
// adds Time/sampleRate.
func (e *Envelope) progress(state EnvelopeState, ticks uint64, sampleRate float64) float64 {
	var rate float64
	switch state {
	case Attack:
		rate = e.AttackTime
	case Decay:
		rate = e.DecayTime
	case Release:
		rate = e.ReleaseTime
	default:
		return 0
	}
	return float64(ticks) * rate / sampleRate
}

func (e *Envelope) step(state EnvelopeState, ticks uint64, sampleRate float64) (float64, EnvelopeState, uint64) {
	progress := e.progress(state, ticks, sampleRate)
	switch state {
	case Attack:
		level := lerp(e.AttackPower, e.DecayPower, math.Min(progress, 1))
		if progress >= 1 {
			return level, Decay, 0
		}
		return level, Attack, ticks
	case Decay:
		level := lerp(e.DecayPower, e.SustainPower, math.Min(progress, 1))
		if progress >= 1 {
			return level, Sustain, 0
		}
		return level, Decay, ticks
	case Sustain:
		return e.SustainPower, Sustain, 0
	case Release:
		if progress >= 1 {
			// stop counting once the release is over
			return e.ReleasePower, Release, ticks - 1
		}
		return lerp(e.SustainPower, e.ReleasePower, progress), Release, ticks
	}
	panic(fmt.Sprintf("invalid state: envelope state %d", int(state)))
}

func (s EnvelopeState) String() string {
	if s < 0 || s >= NumEnvelopeStates {
		return fmt.Sprintf("EnvelopeState(%d)", int(s))
	}
	return envelopeStateNames[s]
}

// packPhase stores the state in the top two bits and the number of samples
// spent in it in the rest of the word.
func packPhase(state EnvelopeState, ticks uint64) uint64 {
	return uint64(state)<<62 | ticks&tickMask
}

func unpackPhase(phase uint64) (EnvelopeState, uint64) {
	return EnvelopeState(phase >> 62), phase & tickMask
}

const tickMask = 1<<62 - 1

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
