package control

import (
	"github.com/nuchord/nuchord"
)

// degreeKeys are checked in order; the first held key selects the degree.
var degreeKeys = []struct {
	Key    Key
	Degree nuchord.Degree
}{
	{"a", nuchord.Tonic},
	{"w", nuchord.Supertonic},
	{"s", nuchord.Mediant},
	{"e", nuchord.Subdominant},
	{"d", nuchord.Dominant},
	{"r", nuchord.Submediant},
	{"f", nuchord.LeadingTone},
}

// compass maps the direction of the held arrow keys to a modifier. The index
// is [vertical+1][horizontal+1], where up and left are +1.
var compass = [3][3]nuchord.Modifier{
	{nuchord.SusTwoMajSix, nuchord.SusFour, nuchord.MajMinNine}, // down
	{nuchord.Dim, nuchord.NoModifier, nuchord.MajMinSeven},
	{nuchord.Aug, nuchord.MajMin, nuchord.Seven}, // up
}

var waveformKeys = map[Key]nuchord.Waveform{
	"1": nuchord.Sine,
	"2": nuchord.Saw,
	"3": nuchord.Square,
	"4": nuchord.Triangle,
}

var presetKeys = map[Key]string{
	"z": "clean",
	"x": "vibrato",
	"c": "chorus",
	"v": "organ",
}

var quitKeys = []Key{"q", KeyEscape, KeyCtrlC}

const (
	volumeUpKey   Key = "t"
	volumeDownKey Key = "g"
	pauseKey          = KeySpace
	volumeStep        = 0.01
)

// DegreeOf returns the degree selected by the held keys, or NoDegree.
func DegreeOf(keys KeySet) nuchord.Degree {
	for _, d := range degreeKeys {
		if keys.Has(d.Key) {
			return d.Degree
		}
	}
	return nuchord.NoDegree
}

// ModifierOf returns the modifier selected by the held arrow keys. Opposite
// arrows cancel each other.
func ModifierOf(keys KeySet) nuchord.Modifier {
	v, h := 1, 1
	if keys.Has(KeyUp) {
		v++
	}
	if keys.Has(KeyDown) {
		v--
	}
	if keys.Has(KeyLeft) {
		h++
	}
	if keys.Has(KeyRight) {
		h--
	}
	return compass[v][h]
}

func isQuit(keys KeySet) bool {
	for _, k := range quitKeys {
		if keys.Has(k) {
			return true
		}
	}
	return false
}
