package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime/pprof"
	"time"

	"github.com/denizsincar29/goerror"
	"github.com/nuchord/nuchord"
	"github.com/nuchord/nuchord/cmd"
	"github.com/nuchord/nuchord/control"
	"github.com/nuchord/nuchord/oto"
	"github.com/nuchord/nuchord/synth"
	"github.com/nuchord/nuchord/version"
	"golang.org/x/term"
)

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to `file`")

func main() {
	configFlags := cmd.RegisterConfigFlags(flag.CommandLine)
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn or error.")
	telemetry := flag.Bool("telemetry", true, "Show the state of the synthesizer on the terminal.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.String("nuchord"))
		os.Exit(0)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid -log-level: %v\n", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(crlfWriter{os.Stderr}, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	e := goerror.NewError(logger)

	config, err := configFlags.Load()
	e.Must(err, "could not load configuration")
	presets, err := configFlags.Presets()
	e.Must(err, "could not load presets")
	waveform, err := nuchord.WaveformByName(config.Waveform)
	e.Must(err, "invalid waveform")

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		e.Must(err, "could not create CPU profile")
		e.Must(pprof.StartCPUProfile(f), "could not start CPU profile")
		defer func() {
			pprof.StopCPUProfile()
			f.Close()
		}()
	}

	sound := synth.NewSound(config.SampleRate, waveform)
	holdTimeout := time.Duration(0)
	stdinIsTerminal := term.IsTerminal(int(os.Stdin.Fd()))
	if stdinIsTerminal {
		holdTimeout = config.HoldTimeout
	}
	keys := control.NewHeldKeys(holdTimeout)
	controller := control.NewController(sound, keys, presets, control.ControllerOptions{
		Key:          config.Key,
		Diatonic:     config.Diatonic,
		Volume:       config.Volume,
		PollInterval: config.PollInterval,
		Rand:         cmd.NewRand(config.Seed),
		Logger:       logger,
	})
	e.Must(controller.SelectPreset(config.Preset), "could not select preset")

	audioContext, err := oto.NewContext(config.SampleRate, config.BufferSize)
	e.Must(err, "could not acquire oto AudioContext")
	defer audioContext.Close()
	sink, err := audioContext.Output()
	e.Must(err, "could not open audio output")

	broker := control.NewBroker()
	detector := control.NewDetector(broker, config.SampleRate)
	var t *control.Telemetry
	if *telemetry {
		t, err = control.NewTelemetry(sound, controller, detector, config.TelemetryInterval)
		e.Must(err, "could not create telemetry")
		t.ClearScreen = stdinIsTerminal
	}

	if stdinIsTerminal {
		oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
		e.Must(err, "could not put the terminal in raw mode")
		defer term.Restore(int(os.Stdin.Fd()), oldState)
	}
	logger.Info("nuchord started", "version", version.VersionOrHash, "sampleRate", config.SampleRate, "key", config.Key, "preset", config.Preset)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	go detector.Run()
	player := control.NewPlayer(sound, broker, config.BufferSize, config.Gain, logger)
	playerDone := make(chan error, 1)
	go func() { playerDone <- player.Run(sink) }()
	go controller.Run(ctx)
	if t != nil {
		go func() {
			if err := t.Run(ctx, crlfWriter{os.Stdout}); err != nil && ctx.Err() == nil {
				logger.Error("telemetry stopped", "err", err)
			}
		}()
	}
	go func() {
		if err := readKeys(os.Stdin, keys); err != nil && err != io.EOF {
			logger.Warn("stopped reading keys", "err", err)
		}
	}()

	for running := true; running; {
		select {
		case <-ctx.Done():
			running = false
		case <-controller.Done():
			running = false
		case err := <-playerDone:
			if err != nil {
				// the synthesizer cannot recover, but the controls stay up until quit
				logger.Error("audio output stopped", "err", err)
			} else {
				running = false
			}
		}
	}
	sound.Stop()
	cancel()
	sink.Close()
	// runs after the blocks already queued for the detector
	final := make(chan control.DetectorResult, 1)
	if control.TrySend(broker.ToDetector, control.MsgToDetector{Data: func() { final <- detector.Result() }}) {
		if r, ok := control.TimeoutReceive(final, time.Second); ok {
			logger.Info("integrated levels", "peak", r.Peak[control.Integrated].String(), "rms", r.RMS[control.Integrated].String())
		}
	}
	detector.Close()
	select {
	case <-broker.FinishedDetector:
	case <-time.After(time.Second):
		logger.Warn("detector did not finish in time")
	}
	logger.Info("nuchord stopped")
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "NUCHORD plays chords from the keyboard.\nUsage: %s [flags]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "\nKeys: a w s e d r f select the degree, arrows the modifier, 1-4 the waveform,\n")
	fmt.Fprintf(os.Stderr, "t/g change the volume, z x c v select a preset, space pauses, q or Esc quits.\n\n")
	flag.PrintDefaults()
}
