package synth

import (
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/nuchord/nuchord"
)

type (
	// State is the run state of a Sound.
	State int32

	// Sound is the long-lived synthesizer. The control side publishes voices,
	// the waveform and the effects as immutable snapshots; the synthesis loop
	// picks up the latest snapshots on every sample. Sample and Render must
	// only be called from a single goroutine, all other methods are safe for
	// concurrent use.
	Sound struct {
		sampleRate int

		voices   atomic.Pointer[VoiceSet]
		waveform atomic.Pointer[nuchord.Waveform]
		effects  atomic.Pointer[Effects]
		index    atomic.Int64
		state    atomic.Int32

		// owned by the synthesis loop
		mixer   mixer
		scratch []nuchord.FreqVol
	}

	// Snapshot is a read-only view of a Sound for telemetry.
	Snapshot struct {
		SampleIndex int64
		SampleRate  int
		State       State
		Generation  uint64
		Voices      []nuchord.FreqVol
		Waveform    string
		Effects     []EffectSummary
		TotalVoices int // voices after chorus expansion
	}
)

const (
	Running State = iota
	Paused
	Stopped
	NumStates
)

var stateNames = [NumStates]string{"running", "paused", "stopped"}

// NewSound returns a running Sound with no voices and no effects.
func NewSound(sampleRate int, waveform nuchord.Waveform) *Sound {
	if sampleRate <= 0 {
		panic(fmt.Sprintf("invalid state: sample rate %d", sampleRate))
	}
	s := &Sound{sampleRate: sampleRate}
	s.voices.Store(&VoiceSet{})
	s.effects.Store(&Effects{})
	s.SetWaveform(waveform)
	return s
}

// UpdateVoices publishes the voice set returned by f. f may be called more
// than once if other goroutines update the voices at the same time, so it
// should not have side effects. Returns the published set.
func (s *Sound) UpdateVoices(f func(VoiceSet) VoiceSet) VoiceSet {
	for {
		old := s.voices.Load()
		next := f(*old)
		if next.generation == old.generation {
			return *old
		}
		if s.voices.CompareAndSwap(old, &next) {
			return next
		}
	}
}

// SetVoices replaces the voices with the notes of the chord.
func (s *Sound) SetVoices(chord nuchord.Chord, volume float64) {
	s.UpdateVoices(func(v VoiceSet) VoiceSet { return v.Replace(chord, volume) })
}

// AddVoices adds the notes of the chord that are not playing yet.
func (s *Sound) AddVoices(chord nuchord.Chord, volume float64) {
	s.UpdateVoices(func(v VoiceSet) VoiceSet { return v.Add(chord, volume) })
}

// RemoveVoices removes the voices matching the notes of the chord.
func (s *Sound) RemoveVoices(chord nuchord.Chord, volume float64) {
	s.UpdateVoices(func(v VoiceSet) VoiceSet { return v.Remove(chord, volume) })
}

// Voices returns the current voice set.
func (s *Sound) Voices() VoiceSet {
	return *s.voices.Load()
}

func (s *Sound) SetWaveform(w nuchord.Waveform) {
	if w.Func == nil {
		panic(fmt.Sprintf("invalid state: waveform %q has no function", w.Name))
	}
	s.waveform.Store(&w)
}

func (s *Sound) Waveform() nuchord.Waveform {
	return *s.waveform.Load()
}

// SetEffects replaces the effects chain.
func (s *Sound) SetEffects(e Effects) {
	s.effects.Store(&e)
}

func (s *Sound) Effects() Effects {
	return *s.effects.Load()
}

// TriggerRelease moves the envelope, if any, to its release stage.
func (s *Sound) TriggerRelease() {
	if env, ok := s.effects.Load().Envelope.Unpack(); ok {
		env.Release()
	}
}

// TriggerAttack restarts the envelope, if any, from its attack stage.
func (s *Sound) TriggerAttack() {
	if env, ok := s.effects.Load().Envelope.Unpack(); ok {
		env.Trigger()
	}
}

// Pause pauses a running Sound. A paused or stopped Sound is not affected.
func (s *Sound) Pause() {
	s.state.CompareAndSwap(int32(Running), int32(Paused))
}

// Resume resumes a paused Sound.
func (s *Sound) Resume() {
	s.state.CompareAndSwap(int32(Paused), int32(Running))
}

// Stop stops the Sound for good.
func (s *Sound) Stop() {
	s.state.Store(int32(Stopped))
}

func (s *Sound) State() State {
	return State(s.state.Load())
}

func (s *Sound) SampleRate() int {
	return s.sampleRate
}

// SampleIndex returns the index of the next sample to be rendered.
func (s *Sound) SampleIndex() int64 {
	return s.index.Load()
}

// Sample renders the next sample, within [-1, 1], and advances the sample
// index. Without voices, the sample is 0.
func (s *Sound) Sample() float32 {
	voices := s.voices.Load()
	effects := s.effects.Load()
	wave := s.waveform.Load()
	t := Tick{Index: s.index.Load(), SampleRate: s.sampleRate, Generation: voices.generation}
	// grow the scratch up front so Apply never reallocates it
	s.scratch = slices.Grow(s.scratch[:0], effects.TotalVoices(len(voices.voices)))
	effected := effects.Apply(s.scratch, voices.voices, t)
	ret := s.mixer.mix(effected, wave.Func, t)
	s.index.Add(1)
	return ret
}

// Render fills the buffer with consecutive samples.
func (s *Sound) Render(buf []float32) {
	for i := range buf {
		buf[i] = s.Sample()
	}
}

// Snapshot returns the current state of the Sound.
func (s *Sound) Snapshot() Snapshot {
	voices := s.voices.Load()
	effects := s.effects.Load()
	return Snapshot{
		SampleIndex: s.index.Load(),
		SampleRate:  s.sampleRate,
		State:       s.State(),
		Generation:  voices.generation,
		Voices:      voices.Voices(),
		Waveform:    s.waveform.Load().Name,
		Effects:     effects.Summaries(),
		TotalVoices: effects.TotalVoices(voices.Len()),
	}
}

func (s State) String() string {
	if s < 0 || s >= NumStates {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}
