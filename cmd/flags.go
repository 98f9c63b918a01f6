package cmd

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/nuchord/nuchord"
	"github.com/nuchord/nuchord/control"
)

// ConfigFlags are the command line flags shared by the nuchord commands. The
// flags override the values of the configuration file.
type ConfigFlags struct {
	set *flag.FlagSet

	path       *string
	presetDir  *string
	sampleRate *int
	gain       *float64
	key        *string
	volume     *float64
	waveform   *string
	preset     *string
	diatonic   *bool
	seed       *int64
}

func RegisterConfigFlags(set *flag.FlagSet) *ConfigFlags {
	d := nuchord.DefaultConfig()
	return &ConfigFlags{
		set:        set,
		path:       set.String("config", "", "Read the configuration from a YAML `file`."),
		presetDir:  set.String("presets", "", "Load additional effect presets (*.yml) from `dir`. They override built-in presets of the same name."),
		sampleRate: set.Int("rate", d.SampleRate, "Sample rate in Hz."),
		gain:       set.Float64("gain", d.Gain, "Master gain applied to the output."),
		key:        set.String("key", d.Key.String(), "Key of the chords, e.g. G#3."),
		volume:     set.Float64("volume", d.Volume, "Initial volume of the voices, 0..1."),
		waveform:   set.String("waveform", d.Waveform, "Waveform: "+strings.Join(nuchord.WaveformNames(), ", ")+"."),
		preset:     set.String("preset", d.Preset, "Initial effects preset."),
		diatonic:   set.Bool("diatonic", d.Diatonic, "Chord quality follows the scale degree."),
		seed:       set.Int64("seed", d.Seed, "Seed for the chorus detune; 0 uses the current time."),
	}
}

// Load reads the configuration file, if any, and applies the flags that were
// given on the command line.
func (f *ConfigFlags) Load() (nuchord.Config, error) {
	c := nuchord.DefaultConfig()
	if *f.path != "" {
		file, err := os.Open(*f.path)
		if err != nil {
			return nuchord.Config{}, fmt.Errorf("could not open config: %w", err)
		}
		defer file.Close()
		if c, err = nuchord.LoadConfig(file); err != nil {
			return nuchord.Config{}, fmt.Errorf("config %v: %w", *f.path, err)
		}
	}
	var err error
	f.set.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "rate":
			c.SampleRate = *f.sampleRate
		case "gain":
			c.Gain = *f.gain
		case "key":
			c.Key, err = nuchord.ParseNote(*f.key)
		case "volume":
			c.Volume = *f.volume
		case "waveform":
			c.Waveform = *f.waveform
		case "preset":
			c.Preset = *f.preset
		case "diatonic":
			c.Diatonic = *f.diatonic
		case "seed":
			c.Seed = *f.seed
		}
	})
	if err != nil {
		return nuchord.Config{}, fmt.Errorf("invalid -key: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nuchord.Config{}, err
	}
	return c, nil
}

// Presets returns the built-in presets merged with the ones in the -presets
// directory.
func (f *ConfigFlags) Presets() (control.Presets, error) {
	presets, err := control.BuiltinPresets()
	if err != nil {
		return nil, err
	}
	if *f.presetDir == "" {
		return presets, nil
	}
	user, err := control.LoadPresets(os.DirFS(*f.presetDir))
	if err != nil {
		return nil, err
	}
	return presets.Merge(user), nil
}

// NewRand returns the random source for the chorus detune.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>32))
}
