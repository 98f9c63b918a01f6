package control

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"path"
	"slices"
	"strings"

	"github.com/nuchord/nuchord/synth"
	"gopkg.in/yaml.v2"
)

//go:embed presets/*.yml
var presetFS embed.FS

type (
	// Preset is a named effects configuration, as stored in YAML. Missing
	// sections mean the effect is off.
	Preset struct {
		Name     string         `yaml:"name"`
		Tremolo  *synth.Tremolo `yaml:"tremolo,omitempty"`
		Vibrato  *synth.Vibrato `yaml:"vibrato,omitempty"`
		Envelope *synth.ADSR    `yaml:"envelope,omitempty"`
		Chorus   *ChorusPreset  `yaml:"chorus,omitempty"`
		Glide    *GlidePreset   `yaml:"glide,omitempty"`
	}

	ChorusPreset struct {
		Voices      int     `yaml:"voices"`
		DetuneCents float64 `yaml:"detuneCents"`
	}

	GlidePreset struct {
		Time   float64 `yaml:"time"` // seconds
		Easing string  `yaml:"easing,omitempty"`
	}

	// Presets is a list of presets sorted by name.
	Presets []Preset
)

var ErrUnknownPreset = errors.New("unknown preset")

// BuiltinPresets returns the presets shipped with the program: clean,
// vibrato, chorus and organ.
func BuiltinPresets() (Presets, error) {
	sub, err := fs.Sub(presetFS, "presets")
	if err != nil {
		return nil, fmt.Errorf("fs.Sub failed: %w", err)
	}
	return LoadPresets(sub)
}

// LoadPresets reads every .yml file in the root of fsys. A preset without a
// name is named after its file.
func LoadPresets(fsys fs.FS) (Presets, error) {
	files, err := fs.Glob(fsys, "*.yml")
	if err != nil {
		return nil, fmt.Errorf("fs.Glob failed: %w", err)
	}
	var ret Presets
	for _, file := range files {
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("could not read preset %v: %w", file, err)
		}
		var p Preset
		if err := yaml.UnmarshalStrict(data, &p); err != nil {
			return nil, fmt.Errorf("could not parse preset %v: %w", file, err)
		}
		if p.Name == "" {
			p.Name = strings.TrimSuffix(path.Base(file), ".yml")
		}
		if err := p.validate(); err != nil {
			return nil, fmt.Errorf("invalid preset %v: %w", file, err)
		}
		ret = ret.With(p)
	}
	return ret, nil
}

// With returns the presets with p added, replacing a preset of the same name.
func (ps Presets) With(p Preset) Presets {
	ret := slices.DeleteFunc(slices.Clone(ps), func(q Preset) bool { return q.Name == p.Name })
	ret = append(ret, p)
	slices.SortFunc(ret, func(a, b Preset) int { return strings.Compare(a.Name, b.Name) })
	return ret
}

// Merge returns ps with the presets of other added; presets in other win.
func (ps Presets) Merge(other Presets) Presets {
	ret := ps
	for _, p := range other {
		ret = ret.With(p)
	}
	return ret
}

// Get returns the preset with the given name.
func (ps Presets) Get(name string) (Preset, error) {
	for _, p := range ps {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

func (ps Presets) Names() []string {
	ret := make([]string, len(ps))
	for i, p := range ps {
		ret[i] = p.Name
	}
	return ret
}

// Effects builds a fresh effects chain from the preset. The runtime state of
// the envelope and glide starts from scratch; rng draws the chorus detune.
func (p Preset) Effects(rng *rand.Rand) synth.Effects {
	var e synth.Effects
	if p.Tremolo != nil {
		e.Tremolo = synth.Some(*p.Tremolo)
	}
	if p.Vibrato != nil {
		e.Vibrato = synth.Some(*p.Vibrato)
	}
	if p.Envelope != nil {
		e.Envelope = synth.Some(synth.NewEnvelope(*p.Envelope))
	}
	if p.Chorus != nil {
		e.Chorus = synth.Some(synth.NewChorus(p.Chorus.Voices, p.Chorus.DetuneCents, rng))
	}
	if p.Glide != nil {
		easing, _ := synth.ParseEasing(p.Glide.Easing) // checked in validate
		e.Glide = synth.Some(synth.NewGlide(p.Glide.Time, easing))
	}
	return e
}

func (p Preset) validate() error {
	if p.Tremolo != nil && (p.Tremolo.Strength < 0 || p.Tremolo.Strength > 1) {
		return fmt.Errorf("tremolo strength must be within [0, 1], got %v", p.Tremolo.Strength)
	}
	if p.Chorus != nil && p.Chorus.Voices < 1 {
		return fmt.Errorf("chorus needs at least one voice, got %d", p.Chorus.Voices)
	}
	if p.Glide != nil {
		if _, err := synth.ParseEasing(p.Glide.Easing); err != nil {
			return err
		}
	}
	return nil
}
