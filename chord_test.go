package nuchord_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/nuchord/nuchord"
)

var c4 = nuchord.NewNote(nuchord.C, nuchord.Natural, 4)

func semitonesAbove(root nuchord.Note, notes []nuchord.Note) []int {
	ret := make([]int, len(notes))
	base := root.Octave*12 + root.SemitoneValue()
	for i, n := range notes {
		ret[i] = n.Octave*12 + n.SemitoneValue() - base
	}
	return ret
}

func TestChordIntervals(t *testing.T) {
	tests := []struct {
		modifier     nuchord.Modifier
		major, minor []int
	}{
		{nuchord.NoModifier, []int{0, 4, 7}, []int{0, 3, 7}},
		{nuchord.MajMin, []int{0, 4, 7}, []int{0, 3, 7}},
		{nuchord.Seven, []int{0, 4, 7, 10}, []int{0, 4, 7, 10}},
		{nuchord.MajMinSeven, []int{0, 4, 7, 11}, []int{0, 4, 7, 10}},
		{nuchord.MajMinNine, []int{0, 4, 7, 11, 14}, []int{0, 3, 7, 10, 14}},
		{nuchord.SusFour, []int{0, 5, 7}, []int{0, 5, 7}},
		{nuchord.SusTwoMajSix, []int{0, 4, 7, 9}, []int{0, 2, 7}},
		{nuchord.Dim, []int{0, 3, 6}, []int{0, 3, 6}},
		{nuchord.Aug, []int{0, 4, 8}, []int{0, 4, 8}},
	}
	if len(tests) != int(nuchord.NumModifiers) {
		t.Fatalf("table covers %d modifiers, want %d", len(tests), nuchord.NumModifiers)
	}
	for _, tt := range tests {
		t.Run(tt.modifier.String(), func(t *testing.T) {
			for _, major := range []bool{true, false} {
				want := tt.minor
				if major {
					want = tt.major
				}
				chord := nuchord.Chord{Key: c4, Degree: nuchord.Tonic, Modifier: tt.modifier, Major: major}
				if got := semitonesAbove(c4, chord.Notes()); !slices.Equal(got, want) {
					t.Errorf("%v: intervals %v, want %v", chord, got, want)
				}
			}
		})
	}
}

func TestCMajorTriad(t *testing.T) {
	chord := nuchord.Chord{Key: c4, Degree: nuchord.Tonic, Modifier: nuchord.NoModifier, Major: true}
	want := []nuchord.Note{
		c4,
		nuchord.NewNote(nuchord.E, nuchord.Natural, 4),
		nuchord.NewNote(nuchord.G, nuchord.Natural, 4),
	}
	if got := chord.Notes(); !slices.Equal(got, want) {
		t.Fatalf("C major = %v, want %v", got, want)
	}
}

func TestMajMinSevenMinorKeepsMajorThird(t *testing.T) {
	chord := nuchord.Chord{Key: c4, Degree: nuchord.Tonic, Modifier: nuchord.MajMinSeven, Major: false}
	want := []nuchord.Note{
		c4,
		nuchord.NewNote(nuchord.E, nuchord.Natural, 4),
		nuchord.NewNote(nuchord.G, nuchord.Natural, 4),
		nuchord.NewNote(nuchord.A, nuchord.Sharp, 4),
	}
	if got := chord.Notes(); !slices.Equal(got, want) {
		t.Fatalf("%v = %v, want %v", chord, got, want)
	}
}

func TestChordDegrees(t *testing.T) {
	want := []int{0, 2, 4, 5, 7, 9, 11}
	for d := nuchord.Tonic; d < nuchord.NoDegree; d++ {
		chord := nuchord.Chord{Key: c4, Degree: d, Modifier: nuchord.NoModifier, Major: true}
		root := chord.Notes()[0]
		if got := semitonesAbove(c4, []nuchord.Note{root})[0]; got != want[d] {
			t.Errorf("root of %v is %d semitones above the key, want %d", d, got, want[d])
		}
	}
}

func TestNoDegreeIsSilent(t *testing.T) {
	for m := nuchord.Modifier(0); m < nuchord.NumModifiers; m++ {
		for _, major := range []bool{true, false} {
			chord := nuchord.Chord{Key: c4, Degree: nuchord.NoDegree, Modifier: m, Major: major}
			if notes := chord.Notes(); len(notes) != 0 {
				t.Errorf("%v has notes %v, want none", chord, notes)
			}
		}
	}
}

func TestChordWrapsOctave(t *testing.T) {
	key := nuchord.NewNote(nuchord.G, nuchord.Sharp, 3)
	chord := nuchord.Chord{Key: key, Degree: nuchord.Subdominant, Modifier: nuchord.NoModifier, Major: true}
	want := []string{"C#4", "F4", "G#4"}
	got := chord.Notes()
	for i := range want {
		if got[i].String() != want[i] {
			t.Fatalf("IV of G#3 = %v, want %v", got, want)
		}
	}
}

func TestNewChordQuality(t *testing.T) {
	tests := []struct {
		degree   nuchord.Degree
		modifier nuchord.Modifier
		diatonic bool
		major    bool
	}{
		{nuchord.Tonic, nuchord.NoModifier, true, true},
		{nuchord.Supertonic, nuchord.NoModifier, true, false},
		{nuchord.Dominant, nuchord.NoModifier, true, true},
		{nuchord.Submediant, nuchord.Seven, true, false},
		{nuchord.Submediant, nuchord.MajMin, true, true},
		{nuchord.Tonic, nuchord.MajMin, true, false},
		{nuchord.Supertonic, nuchord.NoModifier, false, true},
		{nuchord.Supertonic, nuchord.MajMin, false, false},
	}
	for _, tt := range tests {
		got := nuchord.NewChord(c4, tt.degree, tt.modifier, tt.diatonic)
		if got.Major != tt.major {
			t.Errorf("NewChord(%v, %v, diatonic %v).Major = %v, want %v", tt.degree, tt.modifier, tt.diatonic, got.Major, tt.major)
		}
	}
}

func TestParseDegreeAndModifier(t *testing.T) {
	if d, err := nuchord.ParseDegree("dominant"); err != nil || d != nuchord.Dominant {
		t.Errorf("ParseDegree(dominant) = %v, %v", d, err)
	}
	if m, err := nuchord.ParseModifier("susfour"); err != nil || m != nuchord.SusFour {
		t.Errorf("ParseModifier(susfour) = %v, %v", m, err)
	}
	if _, err := nuchord.ParseDegree("eleventh"); !errors.Is(err, nuchord.ErrInvalidChord) {
		t.Errorf("ParseDegree(eleventh) error = %v, want ErrInvalidChord", err)
	}
}

func TestInvalidModifierPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Notes() of an invalid modifier did not panic")
		}
	}()
	nuchord.Chord{Key: c4, Degree: nuchord.Tonic, Modifier: nuchord.NumModifiers}.Notes()
}
