package synth_test

import (
	"testing"

	"github.com/nuchord/nuchord"
	"github.com/nuchord/nuchord/synth"
)

var (
	c4      = nuchord.NewNote(nuchord.C, nuchord.Natural, 4)
	cMajor  = nuchord.Chord{Key: c4, Degree: nuchord.Tonic, Major: true}
	gMajor  = nuchord.Chord{Key: c4, Degree: nuchord.Dominant, Major: true}
	cMajor7 = nuchord.Chord{Key: c4, Degree: nuchord.Tonic, Major: true, Modifier: nuchord.Seven}
)

func TestVoiceSetReplace(t *testing.T) {
	var s synth.VoiceSet
	s = s.Replace(cMajor, 0.5)
	if s.Len() != 3 || s.Generation() != 1 {
		t.Fatalf("Replace gave %d voices at generation %d, want 3 at 1", s.Len(), s.Generation())
	}
	s = s.Replace(gMajor, 0.5)
	if s.Generation() != 2 || !s.Equal(synth.NewVoiceSet(synth.ChordVoices(gMajor, 0.5)...)) {
		t.Fatalf("second Replace = %v", s.Voices())
	}
}

func TestVoiceSetAddRemove(t *testing.T) {
	s := synth.VoiceSet{}.Add(cMajor, 0.5)
	s = s.Add(cMajor7, 0.5)
	if s.Len() != 4 {
		t.Fatalf("C plus C7 gave %d voices, want 4", s.Len())
	}
	gen := s.Generation()
	if again := s.Add(cMajor, 0.5); again.Generation() != gen || again.Len() != 4 {
		t.Errorf("adding present voices changed the set")
	}
	s = s.Remove(cMajor7, 0.5)
	if s.Len() != 0 {
		t.Errorf("removing C7 left %v", s.Voices())
	}
	if s.Generation() != gen+1 {
		t.Errorf("generation = %d, want %d", s.Generation(), gen+1)
	}
}

func TestVoiceSetRemoveNeedsExactMatch(t *testing.T) {
	s := synth.VoiceSet{}.Replace(cMajor, 0.5)
	if r := s.Remove(cMajor, 0.25); r.Len() != 3 || r.Generation() != s.Generation() {
		t.Fatalf("removing at another volume changed the set: %v", r.Voices())
	}
}

func TestVoiceSetIsImmutable(t *testing.T) {
	s := synth.VoiceSet{}.Replace(cMajor, 0.5)
	v := s.Voices()
	v[0].Frequency = 1
	s.Remove(cMajor, 0.5)
	s.Add(gMajor, 0.5)
	if got := s.Voices(); got[0].Frequency == 1 || len(got) != 3 {
		t.Fatalf("set was modified: %v", got)
	}
}
