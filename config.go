package nuchord

import (
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings of the synthesizer and its control loops. The
// zero value is not usable; start from DefaultConfig and override.
type Config struct {
	SampleRate int     `yaml:"sampleRate"` // output sample rate in Hz
	BufferSize int     `yaml:"bufferSize"` // samples rendered per sink write
	Gain       float64 `yaml:"gain"`       // master gain applied before the sink

	Key      Note    `yaml:"key"`      // key of the chords
	Volume   float64 `yaml:"volume"`   // initial volume of the voices, 0..1
	Waveform string  `yaml:"waveform"` // initial waveform name
	Preset   string  `yaml:"preset"`   // initial effects preset
	Diatonic bool    `yaml:"diatonic"` // chord quality follows the scale degree

	PollInterval      time.Duration `yaml:"pollInterval"`      // input polling cadence
	TelemetryInterval time.Duration `yaml:"telemetryInterval"` // telemetry refresh cadence
	HoldTimeout       time.Duration `yaml:"holdTimeout"`       // terminal keys count as held this long after the last repeat

	// Seed seeds the random detune of chorus voices. 0 uses the current time.
	Seed int64 `yaml:"seed"`
}

var errInvalidConfig = errors.New("invalid config")

// DefaultConfig returns the configuration used when nothing else is given.
func DefaultConfig() Config {
	return Config{
		SampleRate:        44100,
		BufferSize:        512,
		Gain:              0.25,
		Key:               NewNote(G, Sharp, 3),
		Volume:            0.5,
		Waveform:          Saw.Name,
		Preset:            "clean",
		Diatonic:          true,
		PollInterval:      10 * time.Millisecond,
		TelemetryInterval: 100 * time.Millisecond,
		HoldTimeout:       550 * time.Millisecond,
	}
}

// LoadConfig reads a YAML configuration on top of DefaultConfig. Fields
// missing from the document keep their default values; unknown fields are an
// error.
func LoadConfig(r io.Reader) (Config, error) {
	c := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("could not parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks that the rates, sizes and intervals are usable.
func (c Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sampleRate must be positive, got %d", errInvalidConfig, c.SampleRate)
	case c.BufferSize <= 0:
		return fmt.Errorf("%w: bufferSize must be positive, got %d", errInvalidConfig, c.BufferSize)
	case c.Gain < 0:
		return fmt.Errorf("%w: gain cannot be negative, got %v", errInvalidConfig, c.Gain)
	case c.Volume < 0 || c.Volume > 1:
		return fmt.Errorf("%w: volume must be within [0, 1], got %v", errInvalidConfig, c.Volume)
	case c.PollInterval <= 0:
		return fmt.Errorf("%w: pollInterval must be positive, got %v", errInvalidConfig, c.PollInterval)
	case c.TelemetryInterval <= 0:
		return fmt.Errorf("%w: telemetryInterval must be positive, got %v", errInvalidConfig, c.TelemetryInterval)
	case c.HoldTimeout <= 0:
		return fmt.Errorf("%w: holdTimeout must be positive, got %v", errInvalidConfig, c.HoldTimeout)
	}
	if _, err := WaveformByName(c.Waveform); err != nil {
		return fmt.Errorf("%w: %w", errInvalidConfig, err)
	}
	return nil
}
