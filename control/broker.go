package control

import (
	"sync"
	"time"

	"github.com/nuchord/nuchord"
)

type (
	// Broker connects the player to the detector. The player sends copies of
	// the rendered blocks over ToDetector without ever blocking; if the
	// detector falls behind, blocks are dropped. The buffers travel through a
	// sync.Pool so that the audio goroutine does not allocate.
	//
	// FinishedDetector is closed when the detector goroutine has returned.
	// Combine it with a timeout to avoid deadlocks on shutdown:
	//
	//	select {
	//	case <-b.FinishedDetector:
	//	case <-time.After(time.Second):
	//	}
	Broker struct {
		ToDetector       chan MsgToDetector
		FinishedDetector chan struct{}

		bufferPool sync.Pool
	}

	// MsgToDetector is a message to the detector. Reset clears the levels
	// before Data is handled. Data is either a *nuchord.AudioBuffer to analyze
	// or a func() to run in the detector goroutine once the messages before it
	// are processed.
	MsgToDetector struct {
		Reset bool
		Quit  bool
		Data  any
	}
)

func NewBroker() *Broker {
	return &Broker{
		ToDetector:       make(chan MsgToDetector, 1024),
		FinishedDetector: make(chan struct{}),
		bufferPool:       sync.Pool{New: func() any { return &nuchord.AudioBuffer{} }},
	}
}

// GetAudioBuffer returns an empty audio buffer from the pool. Give it back
// with PutAudioBuffer when done.
func (b *Broker) GetAudioBuffer() *nuchord.AudioBuffer {
	return b.bufferPool.Get().(*nuchord.AudioBuffer)
}

// PutAudioBuffer truncates the buffer, keeping its capacity, and returns it to
// the pool.
func (b *Broker) PutAudioBuffer(buf *nuchord.AudioBuffer) {
	*buf = (*buf)[:0]
	b.bufferPool.Put(buf)
}

// TrySend sends v to c if c is not full. It never blocks. Returns true if the
// value was sent.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}

// TimeoutReceive blocks until a value is received from c or t has passed. ok
// is false on timeout or if c is closed.
func TimeoutReceive[T any](c <-chan T, t time.Duration) (v T, ok bool) {
	select {
	case v, ok = <-c:
		return v, ok
	case <-time.After(t):
		return v, false
	}
}
