package synth

import (
	"slices"

	"github.com/nuchord/nuchord"
)

// VoiceSet is an immutable list of voices. The methods return new sets and
// never modify the receiver, so a set can be shared with the synthesis loop
// while the control loop builds the next one. Generation increases with every
// change, so consumers can tell cheaply whether the set has changed.
type VoiceSet struct {
	voices     []nuchord.FreqVol
	generation uint64
}

// NewVoiceSet returns a set of the given voices, in order.
func NewVoiceSet(voices ...nuchord.FreqVol) VoiceSet {
	return VoiceSet{voices: slices.Clone(voices)}
}

// ChordVoices returns one voice per note of the chord, all at the same volume.
func ChordVoices(chord nuchord.Chord, volume float64) []nuchord.FreqVol {
	notes := chord.Notes()
	ret := make([]nuchord.FreqVol, len(notes))
	for i, n := range notes {
		ret[i] = nuchord.FreqVol{Frequency: n.Frequency(), Volume: volume}
	}
	return ret
}

// Replace returns a set with exactly the voices of the chord.
func (s VoiceSet) Replace(chord nuchord.Chord, volume float64) VoiceSet {
	return VoiceSet{voices: ChordVoices(chord, volume), generation: s.generation + 1}
}

// With returns a set holding exactly the given voices.
func (s VoiceSet) With(voices ...nuchord.FreqVol) VoiceSet {
	return VoiceSet{voices: slices.Clone(voices), generation: s.generation + 1}
}

// Add returns a set with the voices of the chord added, skipping voices that
// are already present.
func (s VoiceSet) Add(chord nuchord.Chord, volume float64) VoiceSet {
	voices := slices.Clone(s.voices)
	for _, v := range ChordVoices(chord, volume) {
		if !slices.Contains(voices, v) {
			voices = append(voices, v)
		}
	}
	if len(voices) == len(s.voices) {
		return s
	}
	return VoiceSet{voices: voices, generation: s.generation + 1}
}

// Remove returns a set without the voices exactly matching the voices of the
// chord.
func (s VoiceSet) Remove(chord nuchord.Chord, volume float64) VoiceSet {
	remove := ChordVoices(chord, volume)
	voices := slices.DeleteFunc(slices.Clone(s.voices), func(v nuchord.FreqVol) bool {
		return slices.Contains(remove, v)
	})
	if len(voices) == len(s.voices) {
		return s
	}
	return VoiceSet{voices: voices, generation: s.generation + 1}
}

// Voices returns a copy of the voices.
func (s VoiceSet) Voices() []nuchord.FreqVol {
	return slices.Clone(s.voices)
}

func (s VoiceSet) Len() int { return len(s.voices) }

func (s VoiceSet) Generation() uint64 { return s.generation }

// Equal reports whether the sets have the same voices in the same order.
func (s VoiceSet) Equal(other VoiceSet) bool {
	return slices.Equal(s.voices, other.voices)
}
