package control_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/nuchord/nuchord"
	"github.com/nuchord/nuchord/control"
	"github.com/nuchord/nuchord/synth"
)

// recordingSink keeps the written blocks and runs onWrite after every write.
type recordingSink struct {
	blocks  []nuchord.AudioBuffer
	onWrite func(n int) error
}

func (s *recordingSink) WriteAudio(buffer []float32) error {
	s.blocks = append(s.blocks, slices.Clone(buffer))
	if s.onWrite != nil {
		return s.onWrite(len(s.blocks))
	}
	return nil
}

func (s *recordingSink) Close() error { return nil }

func squareSound() *synth.Sound {
	s := synth.NewSound(1000, nuchord.Square)
	s.UpdateVoices(func(v synth.VoiceSet) synth.VoiceSet {
		return v.With(nuchord.FreqVol{Frequency: 10, Volume: 1})
	})
	return s
}

func TestPlayerAppliesGain(t *testing.T) {
	sound := squareSound()
	sink := &recordingSink{onWrite: func(n int) error {
		if n == 3 {
			sound.Stop()
		}
		return nil
	}}
	if err := control.NewPlayer(sound, nil, 16, 0.5, nil).Run(sink); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(sink.blocks) != 3 {
		t.Fatalf("wrote %d blocks, want 3", len(sink.blocks))
	}
	for _, block := range sink.blocks {
		for i, v := range block {
			if v != 0.5 && v != -0.5 {
				t.Fatalf("sample %d = %v, want ±0.5", i, v)
			}
		}
	}
	if sound.SampleIndex() != 48 {
		t.Errorf("SampleIndex = %d, want 48", sound.SampleIndex())
	}
}

func TestPlayerClampsLoudGain(t *testing.T) {
	sound := squareSound()
	sink := &recordingSink{onWrite: func(int) error { sound.Stop(); return nil }}
	if err := control.NewPlayer(sound, nil, 8, 4, nil).Run(sink); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	for _, v := range sink.blocks[0] {
		if v != 1 && v != -1 {
			t.Fatalf("sample %v, want ±1", v)
		}
	}
}

func TestPlayerPausedWritesSilence(t *testing.T) {
	sound := squareSound()
	sound.Pause()
	sink := &recordingSink{onWrite: func(n int) error {
		if n == 2 {
			sound.Stop()
		}
		return nil
	}}
	if err := control.NewPlayer(sound, nil, 32, 1, nil).Run(sink); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	for _, block := range sink.blocks {
		for _, v := range block {
			if v != 0 {
				t.Fatalf("paused player wrote %v", v)
			}
		}
	}
	if sound.SampleIndex() != 0 {
		t.Errorf("paused player advanced to sample %d", sound.SampleIndex())
	}
}

func TestPlayerReturnsSinkError(t *testing.T) {
	errUnplugged := errors.New("unplugged")
	sink := &recordingSink{onWrite: func(int) error { return errUnplugged }}
	err := control.NewPlayer(squareSound(), nil, 8, 1, nil).Run(sink)
	if !errors.Is(err, errUnplugged) {
		t.Fatalf("Run error = %v, want %v", err, errUnplugged)
	}
	if len(sink.blocks) != 1 {
		t.Errorf("wrote %d blocks after a failure, want 1", len(sink.blocks))
	}
}

func TestPlayerFeedsDetector(t *testing.T) {
	sound := squareSound()
	b := control.NewBroker()
	sink := &recordingSink{onWrite: func(n int) error {
		if n == 4 {
			sound.Stop()
		}
		return nil
	}}
	if err := control.NewPlayer(sound, b, 10, 1, nil).Run(sink); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(b.ToDetector) != 4 {
		t.Fatalf("%d blocks sent to the detector, want 4", len(b.ToDetector))
	}
	msg := <-b.ToDetector
	buf, ok := msg.Data.(*nuchord.AudioBuffer)
	if !ok || !slices.Equal(*buf, sink.blocks[0]) {
		t.Fatalf("detector got %v, want the first block", msg.Data)
	}
}

func TestPlayerResetsDetectorAfterPause(t *testing.T) {
	sound := squareSound()
	sound.Pause()
	b := control.NewBroker()
	sink := &recordingSink{onWrite: func(n int) error {
		switch n {
		case 2:
			sound.Resume()
		case 4:
			sound.Stop()
		}
		return nil
	}}
	if err := control.NewPlayer(sound, b, 10, 1, nil).Run(sink); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	var resets []bool
	for len(b.ToDetector) > 0 {
		resets = append(resets, (<-b.ToDetector).Reset)
	}
	if want := []bool{false, false, true, false}; !slices.Equal(resets, want) {
		t.Fatalf("reset flags = %v, want %v", resets, want)
	}
}
