package control

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/nuchord/nuchord"
	"github.com/viterin/vek/vek32"
)

type (
	// Detector measures the peak and RMS levels of the audio the player
	// renders. It analyzes the audio in chunks of 100 ms and keeps sliding
	// windows of 400 ms (momentary) and 3 s (short-term), and a level
	// integrated over everything since the last reset.
	Detector struct {
		broker      *Broker
		chunkLength int
		peaks       [2]RingBuffer[float32]
		powers      [2]RingBuffer[float32]
		maxPeak     float32
		powerSum    float64
		numChunks   int
		tmp         []float32
		result      atomic.Pointer[DetectorResult]
	}

	Decibel float32

	LevelWindow int

	DetectorResult struct {
		Peak [NumLevelWindows]Decibel
		RMS  [NumLevelWindows]Decibel
	}
)

const (
	Momentary LevelWindow = iota
	ShortTerm
	Integrated
	NumLevelWindows
)

func NewDetector(b *Broker, sampleRate int) *Detector {
	d := &Detector{
		broker:      b,
		chunkLength: max(sampleRate/10, 1),
		peaks:       [2]RingBuffer[float32]{{Buffer: make([]float32, 4)}, {Buffer: make([]float32, 30)}},
		powers:      [2]RingBuffer[float32]{{Buffer: make([]float32, 4)}, {Buffer: make([]float32, 30)}},
	}
	d.result.Store(&DetectorResult{})
	d.reset()
	return d
}

// Run analyzes the buffers arriving from the broker until a Quit message is
// received or the channel is closed.
func (d *Detector) Run() {
	defer close(d.broker.FinishedDetector)
	var chunkHistory nuchord.AudioBuffer
	for msg := range d.broker.ToDetector {
		if msg.Reset {
			d.reset()
			chunkHistory = chunkHistory[:0]
		}
		if msg.Quit {
			return
		}
		switch data := msg.Data.(type) {
		case *nuchord.AudioBuffer:
			buf := *data
			for {
				var chunk nuchord.AudioBuffer
				if len(chunkHistory) > 0 {
					l := min(len(buf), d.chunkLength-len(chunkHistory))
					chunkHistory = append(chunkHistory, buf[:l]...)
					buf = buf[l:]
					if len(chunkHistory) < d.chunkLength {
						break
					}
					chunk = chunkHistory
				} else {
					if len(buf) < d.chunkLength {
						chunkHistory = append(chunkHistory[:0], buf...)
						break
					}
					chunk = buf[:d.chunkLength]
					buf = buf[d.chunkLength:]
				}
				d.update(chunk)
				chunkHistory = chunkHistory[:0]
			}
			d.broker.PutAudioBuffer(data)
		case func():
			data()
		}
	}
}

// Close asks the detector goroutine to return. It may block if the broker is
// full, which should not happen in practice.
func (d *Detector) Close() {
	d.broker.ToDetector <- MsgToDetector{Quit: true}
}

// Result returns the levels of the latest analyzed chunk. Safe to call from
// any goroutine.
func (d *Detector) Result() DetectorResult {
	return *d.result.Load()
}

func (d *Detector) update(chunk nuchord.AudioBuffer) {
	setSliceLength(&d.tmp, len(chunk))
	power := vek32.Mean(vek32.Mul_Into(d.tmp, chunk, chunk))
	copy(d.tmp, chunk)
	vek32.Abs_Inplace(d.tmp)
	peak := vek32.Max(d.tmp)
	var ret DetectorResult
	for i := range d.peaks {
		d.peaks[i].WriteWrapSingle(peak)
		d.powers[i].WriteWrapSingle(power)
		ret.Peak[i] = amplitude2decibel(vek32.Max(d.peaks[i].Buffer))
		ret.RMS[i] = power2decibel(vek32.Mean(d.powers[i].Buffer))
	}
	d.maxPeak = max(d.maxPeak, peak)
	d.powerSum += float64(power)
	d.numChunks++
	ret.Peak[Integrated] = amplitude2decibel(d.maxPeak)
	ret.RMS[Integrated] = power2decibel(float32(d.powerSum / float64(d.numChunks)))
	d.result.Store(&ret)
}

func (d *Detector) reset() {
	for i := range d.peaks {
		d.peaks[i].Reset()
		d.powers[i].Reset()
	}
	d.maxPeak = 0
	d.powerSum = 0
	d.numChunks = 0
	silent := DetectorResult{}
	for i := range NumLevelWindows {
		silent.Peak[i] = Decibel(math.Inf(-1))
		silent.RMS[i] = Decibel(math.Inf(-1))
	}
	d.result.Store(&silent)
}

func (d Decibel) String() string {
	if math.IsInf(float64(d), -1) {
		return "-inf dB"
	}
	return fmt.Sprintf("%.1f dB", float32(d))
}

func (w LevelWindow) String() string {
	switch w {
	case Momentary:
		return "momentary"
	case ShortTerm:
		return "short-term"
	case Integrated:
		return "integrated"
	}
	return fmt.Sprintf("LevelWindow(%d)", int(w))
}

func amplitude2decibel(a float32) Decibel {
	return Decibel(20 * math.Log10(float64(a)))
}

func power2decibel(p float32) Decibel {
	return Decibel(10 * math.Log10(float64(p)))
}

func setSliceLength[T any](slice *[]T, length int) {
	if len(*slice) < length {
		*slice = append(*slice, make([]T, length-len(*slice))...)
	}
	*slice = (*slice)[:length]
}
