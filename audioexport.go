package nuchord

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// wave format tags
const (
	wavePCM   = 1
	waveFloat = 3
)

// waveFormat is the body of the "fmt " chunk of a wave file.
type waveFormat struct {
	Tag           uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

// Wav encodes a mono buffer as a .wav file. If pcm16 is true, the samples are
// converted to 16-bit signed integers, otherwise they are written as IEEE
// float32. Float files carry the extended format chunk and the fact chunk
// that non-PCM wave files require.
func Wav(buffer []float32, sampleRate int, pcm16 bool) ([]byte, error) {
	format := waveFormat{Tag: waveFloat, Channels: 1, SampleRate: uint32(sampleRate)}
	if pcm16 {
		format.Tag = wavePCM
	}
	sampleSize := sampleBytes(pcm16)
	format.BlockAlign = uint16(sampleSize)
	format.ByteRate = uint32(sampleRate * sampleSize)
	format.BitsPerSample = uint16(8 * sampleSize)

	body := bytes.NewBufferString("WAVE")
	var chunks []chunk
	if pcm16 {
		chunks = append(chunks, chunk{"fmt ", format})
	} else {
		extended := struct {
			waveFormat
			ExtensionSize uint16
		}{waveFormat: format}
		chunks = append(chunks, chunk{"fmt ", extended}, chunk{"fact", uint32(len(buffer))})
	}
	chunks = append(chunks, chunk{"data", Raw(buffer, pcm16)})
	for _, c := range chunks {
		if err := c.writeTo(body); err != nil {
			return nil, fmt.Errorf("Wav failed: %w", err)
		}
	}
	var out bytes.Buffer
	if err := (chunk{"RIFF", body.Bytes()}).writeTo(&out); err != nil {
		return nil, fmt.Errorf("Wav failed: %w", err)
	}
	return out.Bytes(), nil
}

// Raw encodes a mono buffer as headerless little-endian samples.
func Raw(buffer []float32, pcm16 bool) []byte {
	ret := make([]byte, 0, len(buffer)*sampleBytes(pcm16))
	for _, v := range buffer {
		if pcm16 {
			ret = binary.LittleEndian.AppendUint16(ret, uint16(PCM16(v)))
		} else {
			ret = binary.LittleEndian.AppendUint32(ret, math.Float32bits(v))
		}
	}
	return ret
}

// PCM16 converts a float sample to a 16-bit signed sample, clipping values
// outside [-1, 1]. The range is symmetric: -1 maps to -32767, so a full scale
// wave has the same peak in both directions and -32768 is never produced.
func PCM16(v float32) int16 {
	return int16(min(max(v*math.MaxInt16, -math.MaxInt16), math.MaxInt16))
}

func sampleBytes(pcm16 bool) int {
	if pcm16 {
		return 2
	}
	return 4
}

// chunk is a RIFF chunk. body is anything encoding/binary can write.
type chunk struct {
	id   string
	body any
}

func (c chunk) writeTo(buf *bytes.Buffer) error {
	size := binary.Size(c.body)
	if size < 0 {
		return fmt.Errorf("chunk %q: cannot encode %T", c.id, c.body)
	}
	buf.WriteString(c.id)
	if err := binary.Write(buf, binary.LittleEndian, uint32(size)); err != nil {
		return fmt.Errorf("chunk %q: %w", c.id, err)
	}
	if err := binary.Write(buf, binary.LittleEndian, c.body); err != nil {
		return fmt.Errorf("chunk %q: %w", c.id, err)
	}
	return nil
}
