package nuchord

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type (
	// Letter is the letter name of a note. The zero value is C, so that the
	// letters are in the same order as they appear in an octave.
	Letter int

	// Accidental raises a note by a semitone (Sharp) or leaves it untouched
	// (Natural). Flats are not represented; all transpositions are spelled
	// with sharps.
	Accidental int

	// Note is a pitch described by its letter, accidental and octave. Octave 0
	// is the octave whose C is 16.35 Hz, so A4 is 440 Hz. Octaves can be
	// negative, as transposing downwards from octave 0 wraps below it.
	Note struct {
		Letter     Letter
		Accidental Accidental
		Octave     int
	}
)

const (
	C Letter = iota
	D
	E
	F
	G
	A
	B
	NumLetters
)

const (
	Natural Accidental = iota
	Sharp
	NumAccidentals
)

// SemitonesPerOctave is the number of semitones in an octave.
const SemitonesPerOctave = 12

// letterFrequencies are the frequencies of the natural notes in octave 0. The
// values are the eighth octave frequencies divided by 2^8.
var letterFrequencies = [NumLetters]float64{
	C: 4186.00 / 256,
	D: 4698.63 / 256,
	E: 5274.00 / 256,
	F: 5587.65 / 256,
	G: 6271.93 / 256,
	A: 7040.00 / 256,
	B: 7902.13 / 256,
}

var letterSemitones = [NumLetters]int{C: 0, D: 2, E: 4, F: 5, G: 7, A: 9, B: 11}

var accidentalSemitones = [NumAccidentals]int{Natural: 0, Sharp: 1}

var letterNames = [NumLetters]string{C: "C", D: "D", E: "E", F: "F", G: "G", A: "A", B: "B"}

// semitoneSpelling maps a semitone value 0-11 back to a letter and an
// accidental.
var semitoneSpelling = [SemitonesPerOctave]struct {
	Letter     Letter
	Accidental Accidental
}{
	{C, Natural}, {C, Sharp}, {D, Natural}, {D, Sharp}, {E, Natural}, {F, Natural},
	{F, Sharp}, {G, Natural}, {G, Sharp}, {A, Natural}, {A, Sharp}, {B, Natural},
}

var ErrInvalidNote = errors.New("invalid note")

// NewNote returns a new note. It is a convenience for the composite literal.
func NewNote(letter Letter, accidental Accidental, octave int) Note {
	return Note{Letter: letter, Accidental: accidental, Octave: octave}
}

// Frequency returns the frequency of the note in Hz.
func (n Note) Frequency() float64 {
	base := letterFrequencies[n.Letter.check()] * math.Pow(2, float64(n.Octave))
	acc := float64(accidentalSemitones[n.Accidental.check()])
	return base * math.Pow(2, acc/SemitonesPerOctave)
}

// SemitoneValue returns the position of the note within an octave, C = 0,
// C# = 1, ..., B = 11. B# wraps around to 0.
func (n Note) SemitoneValue() int {
	return (letterSemitones[n.Letter.check()] + accidentalSemitones[n.Accidental.check()]) % SemitonesPerOctave
}

// OffsetSemitones returns the note delta semitones away from n. The octave
// carry uses floor division, so C0 offset by -1 is B-1.
func (n Note) OffsetSemitones(delta int) Note {
	total := n.SemitoneValue() + delta
	octaves := floorDiv(total, SemitonesPerOctave)
	spelling := semitoneSpelling[total-octaves*SemitonesPerOctave]
	return Note{Letter: spelling.Letter, Accidental: spelling.Accidental, Octave: n.Octave + octaves}
}

// String returns the note in the form "G#3" or "C-1".
func (n Note) String() string {
	acc := ""
	if n.Accidental == Sharp {
		acc = "#"
	}
	return letterNames[n.Letter.check()] + acc + strconv.Itoa(n.Octave)
}

// ParseNote parses notes written as letter, optional '#' and octave, e.g.
// "C4", "g#3" or "A-1".
func ParseNote(s string) (Note, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return Note{}, fmt.Errorf("%w: %q", ErrInvalidNote, s)
	}
	var n Note
	switch strings.ToUpper(s[:1]) {
	case "C":
		n.Letter = C
	case "D":
		n.Letter = D
	case "E":
		n.Letter = E
	case "F":
		n.Letter = F
	case "G":
		n.Letter = G
	case "A":
		n.Letter = A
	case "B":
		n.Letter = B
	default:
		return Note{}, fmt.Errorf("%w: unknown letter in %q", ErrInvalidNote, s)
	}
	rest := s[1:]
	if strings.HasPrefix(rest, "#") {
		n.Accidental = Sharp
		rest = rest[1:]
	}
	octave, err := strconv.Atoi(rest)
	if err != nil {
		return Note{}, fmt.Errorf("%w: bad octave in %q: %w", ErrInvalidNote, s, err)
	}
	n.Octave = octave
	return n, nil
}

// MarshalText implements encoding.TextMarshaler, so notes can be used in
// configuration files.
func (n Note) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (n *Note) UnmarshalText(text []byte) error {
	parsed, err := ParseNote(string(text))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

func (l Letter) check() Letter {
	if l < 0 || l >= NumLetters {
		panic(fmt.Sprintf("invalid state: letter %d", int(l)))
	}
	return l
}

func (a Accidental) check() Accidental {
	if a < 0 || a >= NumAccidentals {
		panic(fmt.Sprintf("invalid state: accidental %d", int(a)))
	}
	return a
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
