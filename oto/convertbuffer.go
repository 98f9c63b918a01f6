package oto

import (
	"encoding/binary"

	"github.com/nuchord/nuchord"
)

// FloatBufferTo16BitLE appends the samples of buff to dst as 16-bit
// little-endian integers, clipping values outside [-1, 1], and returns the
// extended slice.
func FloatBufferTo16BitLE(buff []float32, dst []byte) []byte {
	for _, v := range buff {
		dst = binary.LittleEndian.AppendUint16(dst, uint16(nuchord.PCM16(v)))
	}
	return dst
}
