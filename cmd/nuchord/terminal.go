package main

import (
	"bytes"
	"io"
	"strings"

	"github.com/nuchord/nuchord/control"
)

// readKeys presses the keys read from r until r fails. Terminals send a key
// again while it is held, and nothing when it is released, so the held keys
// must be created with a hold timeout.
func readKeys(r io.Reader, keys *control.HeldKeys) error {
	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		for _, k := range parseKeys(buf[:n]) {
			keys.Press(k)
		}
		if err != nil {
			return err
		}
	}
}

// parseKeys decodes the bytes a terminal in raw mode sends: printable ASCII,
// Ctrl-C, escape and the ANSI arrow key sequences.
func parseKeys(b []byte) []control.Key {
	var ret []control.Key
	for i := 0; i < len(b); i++ {
		switch c := b[i]; {
		case c == 0x1b:
			if i+2 < len(b) && (b[i+1] == '[' || b[i+1] == 'O') {
				if k, ok := arrowKeys[b[i+2]]; ok {
					ret = append(ret, k)
				}
				i += 2
				continue
			}
			ret = append(ret, control.KeyEscape)
		case c == 0x03:
			ret = append(ret, control.KeyCtrlC)
		case c == ' ':
			ret = append(ret, control.KeySpace)
		case c > ' ' && c < 0x7f:
			ret = append(ret, control.Key(strings.ToLower(string(rune(c)))))
		}
	}
	return ret
}

var arrowKeys = map[byte]control.Key{
	'A': control.KeyUp,
	'B': control.KeyDown,
	'C': control.KeyRight,
	'D': control.KeyLeft,
}

// crlfWriter translates "\n" to "\r\n"; a terminal in raw mode does not
// return the carriage by itself.
type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
