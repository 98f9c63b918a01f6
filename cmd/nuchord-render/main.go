package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/denizsincar29/goerror"
	"github.com/nuchord/nuchord"
	"github.com/nuchord/nuchord/cmd"
	"github.com/nuchord/nuchord/control"
	"github.com/nuchord/nuchord/synth"
	"github.com/nuchord/nuchord/version"
)

// captureSink collects the rendered audio and stops the sound once it has
// enough. The envelope is released release samples before the end.
type captureSink struct {
	sound    *synth.Sound
	buffer   nuchord.AudioBuffer
	total    int
	release  int
	released bool
}

func (c *captureSink) WriteAudio(buf []float32) error {
	n := min(len(buf), c.total-len(c.buffer))
	c.buffer = append(c.buffer, buf[:n]...)
	if !c.released && len(c.buffer) >= c.total-c.release {
		c.sound.TriggerRelease()
		c.released = true
	}
	if len(c.buffer) >= c.total {
		c.sound.Stop()
	}
	return nil
}

func (c *captureSink) Close() error { return nil }

func main() {
	configFlags := cmd.RegisterConfigFlags(flag.CommandLine)
	degreeFlag := flag.String("degree", "tonic", "Scale degree of the chord: tonic, supertonic, mediant, subdominant, dominant, submediant, leadingtone.")
	modifierFlag := flag.String("modifier", "none", "Chord modifier: none, majmin, seven, majminseven, majminnine, susfour, sustwomajsix, dim, aug.")
	seconds := flag.Float64("t", 4, "Length of the rendered audio in seconds.")
	releaseSeconds := flag.Float64("release", 1, "Release the envelope this many seconds before the end.")
	output := flag.String("o", "nuchord.wav", "Output `file`. The extension .raw writes headerless samples, anything else a .wav file.")
	pcm := flag.Bool("c", false, "Convert audio to 16-bit signed PCM when outputting.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.String("nuchord-render"))
		os.Exit(0)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	e := goerror.NewError(logger)

	config, err := configFlags.Load()
	e.Must(err, "could not load configuration")
	presets, err := configFlags.Presets()
	e.Must(err, "could not load presets")
	preset, err := presets.Get(config.Preset)
	e.Must(err, "could not select preset")
	waveform, err := nuchord.WaveformByName(config.Waveform)
	e.Must(err, "invalid waveform")
	degree, err := nuchord.ParseDegree(*degreeFlag)
	e.Must(err, "invalid -degree")
	modifier, err := nuchord.ParseModifier(*modifierFlag)
	e.Must(err, "invalid -modifier")

	chord := nuchord.NewChord(config.Key, degree, modifier, config.Diatonic)

	sound := synth.NewSound(config.SampleRate, waveform)
	sound.SetEffects(preset.Effects(cmd.NewRand(config.Seed)))
	sound.SetVoices(chord, config.Volume)
	sink := &captureSink{
		sound:   sound,
		total:   max(int(*seconds*float64(config.SampleRate)), 0),
		release: int(*releaseSeconds * float64(config.SampleRate)),
	}
	player := control.NewPlayer(sound, nil, config.BufferSize, config.Gain, logger)
	e.Must(player.Run(sink), "rendering failed")

	var contents []byte
	if strings.EqualFold(filepath.Ext(*output), ".raw") {
		contents = nuchord.Raw(sink.buffer, *pcm)
	} else {
		contents, err = nuchord.Wav(sink.buffer, config.SampleRate, *pcm)
		e.Must(err, "could not encode audio")
	}
	if dir := filepath.Dir(*output); dir != "" {
		e.Must(os.MkdirAll(dir, os.ModePerm), "could not create output directory")
	}
	e.Must(os.WriteFile(*output, contents, 0644), "could not write output")
	logger.Info("rendered", "chord", chord, "preset", preset.Name, "samples", len(sink.buffer), "file", *output)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "nuchord-render renders one chord to an audio file.\nUsage: %s [flags]\n", os.Args[0])
	flag.PrintDefaults()
}
