package nuchord

import (
	"errors"
	"fmt"
	"strings"
)

type (
	// Degree selects the root of a chord as a scale degree of the key. None
	// means no chord at all, i.e. silence.
	Degree int

	// Modifier selects the quality and extensions of a chord. Several
	// modifiers depend on Chord.Major; e.g. MajMinNine is a major ninth for
	// major chords and a minor ninth for minor chords. MajMinSeven keeps the
	// major third either way and only swaps the major seventh for a flat one.
	Modifier int

	// Chord is a symbolic chord: the Key, the Degree of the root within the
	// key, the Modifier and whether the chord is Major. Chord is a value type;
	// change a chord by making a new one.
	Chord struct {
		Key      Note
		Degree   Degree
		Modifier Modifier
		Major    bool
	}
)

const (
	Tonic Degree = iota
	Supertonic
	Mediant
	Subdominant
	Dominant
	Submediant
	LeadingTone
	NoDegree
	NumDegrees
)

const (
	NoModifier Modifier = iota
	MajMin
	Seven
	MajMinSeven
	MajMinNine
	SusFour
	SusTwoMajSix
	Dim
	Aug
	NumModifiers
)

// degreeIntervals are the semitone offsets of the scale degrees of a major
// scale from the key.
var degreeIntervals = [NumDegrees]int{
	Tonic:       0,
	Supertonic:  2,
	Mediant:     4,
	Subdominant: 5,
	Dominant:    7,
	Submediant:  9,
	LeadingTone: 11,
}

// chordIntervals are the semitone offsets of chord tones from the root,
// indexed by modifier and then by minor (0) / major (1).
var chordIntervals = [NumModifiers][2][]int{
	NoModifier:   {{0, 3, 7}, {0, 4, 7}},
	MajMin:       {{0, 3, 7}, {0, 4, 7}},
	Seven:        {{0, 4, 7, 10}, {0, 4, 7, 10}},
	MajMinSeven:  {{0, 4, 7, 10}, {0, 4, 7, 11}},
	MajMinNine:   {{0, 3, 7, 10, 14}, {0, 4, 7, 11, 14}},
	SusFour:      {{0, 5, 7}, {0, 5, 7}},
	SusTwoMajSix: {{0, 2, 7}, {0, 4, 7, 9}},
	Dim:          {{0, 3, 6}, {0, 3, 6}},
	Aug:          {{0, 4, 8}, {0, 4, 8}},
}

// diatonicMajor tells which triads built on the degrees of a major scale are
// major.
var diatonicMajor = [NumDegrees]bool{
	Tonic:       true,
	Subdominant: true,
	Dominant:    true,
}

var degreeNames = [NumDegrees]string{"Tonic", "Supertonic", "Mediant", "Subdominant", "Dominant", "Submediant", "LeadingTone", "None"}

var modifierNames = [NumModifiers]string{"None", "MajMin", "Seven", "MajMinSeven", "MajMinNine", "SusFour", "SusTwoMajSix", "Dim", "Aug"}

// NewChord returns the chord on the degree of the key. With diatonic set, the
// quality of the chord follows the degree in a major key (I, IV and V are
// major, the rest minor); otherwise chords are major. The MajMin modifier
// flips the quality.
func NewChord(key Note, degree Degree, modifier Modifier, diatonic bool) Chord {
	major := true
	if diatonic {
		major = degree.IsDiatonicMajor()
	}
	if modifier == MajMin {
		major = !major
	}
	return Chord{Key: key, Degree: degree, Modifier: modifier, Major: major}
}

var ErrInvalidChord = errors.New("invalid chord")

// ParseDegree returns the degree with the given name, e.g. "dominant". The
// comparison ignores case.
func ParseDegree(name string) (Degree, error) {
	for i, n := range degreeNames {
		if strings.EqualFold(n, name) {
			return Degree(i), nil
		}
	}
	return NoDegree, fmt.Errorf("%w: unknown degree %q", ErrInvalidChord, name)
}

// ParseModifier returns the modifier with the given name, e.g. "SusFour". The
// comparison ignores case.
func ParseModifier(name string) (Modifier, error) {
	for i, n := range modifierNames {
		if strings.EqualFold(n, name) {
			return Modifier(i), nil
		}
	}
	return NoModifier, fmt.Errorf("%w: unknown modifier %q", ErrInvalidChord, name)
}

// Notes returns the notes of the chord, root first. A chord with NoDegree has
// no notes.
func (c Chord) Notes() []Note {
	if c.Degree.check() == NoDegree {
		return []Note{}
	}
	root := c.Key.OffsetSemitones(degreeIntervals[c.Degree])
	major := 0
	if c.Major {
		major = 1
	}
	intervals := chordIntervals[c.Modifier.check()][major]
	notes := make([]Note, len(intervals))
	for i, interval := range intervals {
		notes[i] = root.OffsetSemitones(interval)
	}
	return notes
}

// Frequencies returns the frequencies of the notes of the chord.
func (c Chord) Frequencies() []float64 {
	notes := c.Notes()
	ret := make([]float64, len(notes))
	for i, n := range notes {
		ret[i] = n.Frequency()
	}
	return ret
}

// IsDiatonicMajor reports whether the triad on degree d of a major scale is
// major. NoDegree is reported as major.
func (d Degree) IsDiatonicMajor() bool {
	if d.check() == NoDegree {
		return true
	}
	return diatonicMajor[d]
}

func (d Degree) String() string {
	return degreeNames[d.check()]
}

func (m Modifier) String() string {
	return modifierNames[m.check()]
}

func (c Chord) String() string {
	quality := "minor"
	if c.Major {
		quality = "major"
	}
	return fmt.Sprintf("%v %v %v (%s)", c.Key, c.Degree, c.Modifier, quality)
}

func (d Degree) check() Degree {
	if d < 0 || d >= NumDegrees {
		panic(fmt.Sprintf("invalid state: degree %d", int(d)))
	}
	return d
}

func (m Modifier) check() Modifier {
	if m < 0 || m >= NumModifiers {
		panic(fmt.Sprintf("invalid state: modifier %d", int(m)))
	}
	return m
}
