package control

import (
	"context"
	"embed"
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/Masterminds/sprig"
	"github.com/nuchord/nuchord/synth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

type (
	// Telemetry periodically renders a text report of the synthesizer state:
	// the held keys, the chord, the voices, the active effects and the output
	// levels. It only reads snapshots, so it never holds up the audio or the
	// control loop.
	Telemetry struct {
		sound    *synth.Sound
		status   StatusSource
		levels   LevelSource
		interval time.Duration
		tmpl     *template.Template

		// ClearScreen, if set, makes Run clear the terminal before each report.
		ClearScreen bool
	}

	StatusSource interface {
		Status() Status
	}

	LevelSource interface {
		Result() DetectorResult
	}

	telemetryData struct {
		Sound  synth.Snapshot
		Status *Status
		Levels []levelRow
	}

	levelRow struct {
		Window    LevelWindow
		Peak, RMS Decibel
	}
)

// NewTelemetry returns a telemetry reporter. status and levels may be nil.
func NewTelemetry(sound *synth.Sound, status StatusSource, levels LevelSource, interval time.Duration) (*Telemetry, error) {
	caser := cases.Title(language.English)
	funcs := sprig.TxtFuncMap()
	funcs["label"] = func(s string) string { return caser.String(s) }
	tmpl, err := template.New("base").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf(`template.ParseFS failed: %w`, err)
	}
	return &Telemetry{sound: sound, status: status, levels: levels, interval: interval, tmpl: tmpl}, nil
}

// Render writes one report to w.
func (t *Telemetry) Render(w io.Writer) error {
	data := telemetryData{Sound: t.sound.Snapshot()}
	if t.status != nil {
		status := t.status.Status()
		data.Status = &status
	}
	if t.levels != nil {
		r := t.levels.Result()
		for i := range NumLevelWindows {
			data.Levels = append(data.Levels, levelRow{Window: i, Peak: r.Peak[i], RMS: r.RMS[i]})
		}
	}
	if err := t.tmpl.ExecuteTemplate(w, "telemetry", data); err != nil {
		return fmt.Errorf(`could not execute template "telemetry": %w`, err)
	}
	return nil
}

// Run renders a report to w every interval until ctx is cancelled or a write
// fails.
func (t *Telemetry) Run(ctx context.Context, w io.Writer) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if t.ClearScreen {
				if _, err := io.WriteString(w, "\x1b[H\x1b[2J"); err != nil {
					return fmt.Errorf("could not clear screen: %w", err)
				}
			}
			if err := t.Render(w); err != nil {
				return err
			}
		}
	}
}
