package nuchord_test

import (
	"strings"
	"testing"
	"time"

	"github.com/nuchord/nuchord"
)

func TestLoadConfigEmptyGivesDefaults(t *testing.T) {
	c, err := nuchord.LoadConfig(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if c != nuchord.DefaultConfig() {
		t.Fatalf("empty config = %+v, want defaults %+v", c, nuchord.DefaultConfig())
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	doc := `
sampleRate: 48000
key: C4
waveform: sine
pollInterval: 20ms
diatonic: false
`
	c, err := nuchord.LoadConfig(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if c.SampleRate != 48000 {
		t.Errorf("SampleRate = %d, want 48000", c.SampleRate)
	}
	if c.Key != nuchord.NewNote(nuchord.C, nuchord.Natural, 4) {
		t.Errorf("Key = %v, want C4", c.Key)
	}
	if c.Waveform != "sine" {
		t.Errorf("Waveform = %q, want sine", c.Waveform)
	}
	if c.PollInterval != 20*time.Millisecond {
		t.Errorf("PollInterval = %v, want 20ms", c.PollInterval)
	}
	if c.Diatonic {
		t.Error("Diatonic = true, want false")
	}
	if c.BufferSize != nuchord.DefaultConfig().BufferSize {
		t.Errorf("BufferSize = %d, want the default", c.BufferSize)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown field", "sampleRat: 48000\n"},
		{"bad key", "key: H2\n"},
		{"zero rate", "sampleRate: 0\n"},
		{"negative buffer", "bufferSize: -1\n"},
		{"loud volume", "volume: 1.5\n"},
		{"zero poll", "pollInterval: 0s\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := nuchord.LoadConfig(strings.NewReader(tt.doc)); err == nil {
				t.Fatalf("LoadConfig(%q) succeeded, want error", tt.doc)
			}
		})
	}
}
