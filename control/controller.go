package control

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/nuchord/nuchord"
	"github.com/nuchord/nuchord/synth"
)

type (
	// Controller is the input loop. Every poll it takes a snapshot of the held
	// keys, derives the chord, volume, waveform and preset from them and
	// publishes to the Sound whatever changed.
	Controller struct {
		sound    *synth.Sound
		keys     *HeldKeys
		presets  Presets
		key      nuchord.Note
		diatonic bool
		interval time.Duration
		rng      *rand.Rand
		logger   *slog.Logger

		// owned by the polling goroutine
		prev   KeySet
		chord  nuchord.Chord
		volume float64
		preset string

		status atomic.Pointer[Status]
		done   chan struct{}
	}

	// Status is what the controller last published, for telemetry.
	Status struct {
		Chord  nuchord.Chord
		Volume float64
		Preset string
		Held   []Key
	}

	ControllerOptions struct {
		Key          nuchord.Note
		Diatonic     bool
		Volume       float64
		PollInterval time.Duration
		Rand         *rand.Rand   // chorus detune; nil means a time based seed
		Logger       *slog.Logger // nil means slog.Default()
	}
)

func NewController(sound *synth.Sound, keys *HeldKeys, presets Presets, opts ControllerOptions) *Controller {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Rand == nil {
		seed := uint64(time.Now().UnixNano())
		opts.Rand = rand.New(rand.NewPCG(seed, seed>>1))
	}
	c := &Controller{
		sound:    sound,
		keys:     keys,
		presets:  presets,
		key:      opts.Key,
		diatonic: opts.Diatonic,
		interval: opts.PollInterval,
		rng:      opts.Rand,
		logger:   opts.Logger,
		prev:     KeySet{},
		chord:    nuchord.Chord{Key: opts.Key, Degree: nuchord.NoDegree, Major: true},
		volume:   min(max(opts.Volume, 0), 1),
		done:     make(chan struct{}),
	}
	c.publishStatus(nil)
	return c
}

// Run polls the held keys every PollInterval until ctx is cancelled or a
// quit key is pressed. A quit key stops the Sound.
func (c *Controller) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.done:
			return nil
		case <-ticker.C:
			c.Poll(c.keys.Snapshot())
		}
	}
}

// Done is closed when a quit key has been pressed.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// SelectPreset replaces the effects of the Sound with a fresh chain built from
// the named preset.
func (c *Controller) SelectPreset(name string) error {
	p, err := c.presets.Get(name)
	if err != nil {
		return err
	}
	c.sound.SetEffects(p.Effects(c.rng))
	if c.chord.Degree == nuchord.NoDegree {
		// drop voices left over from a released chord
		c.sound.SetVoices(c.chord, c.volume)
		c.sound.TriggerRelease()
	}
	c.preset = p.Name
	c.logger.Debug("preset selected", "preset", p.Name)
	c.publishStatus(c.prev)
	return nil
}

// Poll derives the state from one snapshot of held keys and publishes the
// changes. Keys that act once per press (waveform, preset, pause, quit) only
// act when they were not held on the previous poll.
func (c *Controller) Poll(keys KeySet) {
	pressed := keys.Pressed(c.prev)
	c.prev = keys
	if isQuit(pressed) {
		c.quit()
		return
	}
	if pressed.Has(pauseKey) {
		if c.sound.State() == synth.Paused {
			c.sound.Resume()
		} else {
			c.sound.Pause()
		}
	}
	for k := range pressed {
		if w, ok := waveformKeys[k]; ok {
			c.sound.SetWaveform(w)
			c.logger.Debug("waveform selected", "waveform", w.Name)
		}
		if name, ok := presetKeys[k]; ok {
			if err := c.SelectPreset(name); err != nil {
				c.logger.Warn("could not select preset", "err", err)
			}
		}
	}
	volume := c.volume
	if keys.Has(volumeUpKey) {
		volume += volumeStep
	}
	if keys.Has(volumeDownKey) {
		volume -= volumeStep
	}
	volume = min(max(volume, 0), 1)
	chord := c.Chord(DegreeOf(keys), ModifierOf(keys))
	if chord != c.chord || volume != c.volume {
		c.publish(chord, volume)
	}
	c.publishStatus(keys)
}

// Chord returns the chord played for the degree and modifier.
func (c *Controller) Chord(degree nuchord.Degree, modifier nuchord.Modifier) nuchord.Chord {
	return nuchord.NewChord(c.key, degree, modifier, c.diatonic)
}

// Status returns what the controller last published. Safe to call from any
// goroutine.
func (c *Controller) Status() Status {
	return *c.status.Load()
}

func (c *Controller) publish(chord nuchord.Chord, volume float64) {
	wasSilent := c.chord.Degree == nuchord.NoDegree
	c.chord, c.volume = chord, volume
	if chord.Degree == nuchord.NoDegree {
		if wasSilent {
			return
		}
		if _, ok := c.sound.Effects().Envelope.Unpack(); ok {
			// let the envelope fade out the voices still playing
			c.sound.TriggerRelease()
		} else {
			c.sound.SetVoices(chord, volume)
		}
		c.logger.Debug("chord released")
		return
	}
	c.sound.SetVoices(chord, volume)
	if wasSilent {
		c.sound.TriggerAttack()
	}
	c.logger.Debug("chord changed", "chord", chord, "volume", volume)
}

func (c *Controller) publishStatus(keys KeySet) {
	c.status.Store(&Status{
		Chord:  c.chord,
		Volume: c.volume,
		Preset: c.preset,
		Held:   keys.Sorted(),
	})
}

func (c *Controller) quit() {
	select {
	case <-c.done:
		return
	default:
	}
	c.logger.Info("quit requested")
	c.sound.Stop()
	close(c.done)
}
