// Package keylog decodes the raw keystroke log Vim writes with -W into
// human readable key tokens such as "<Esc>", "<C-C>", "<F5>" or "x".
//
// A keylog is a sequence of single bytes, where printable ASCII stands for
// itself and control bytes for Ctrl combinations, interleaved with extended
// keycodes: EscapeByte followed by two more bytes naming a function,
// navigation or mouse key. Decoding never fails. Unknown extended codes
// decode to an empty token and a truncated trailing escape is dropped.
package keylog

import (
	"iter"
	"strings"
)

// Decoder walks a keylog once, front to back.
type Decoder struct {
	data []byte
	pos  int
}

// NewDecoder returns a Decoder reading from data. The slice is borrowed,
// not copied, and must not be modified while decoding.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

// Next returns the next token. The boolean is false once the log is
// exhausted, including when it ends in the middle of an extended keycode.
// A true result may carry an empty token for suppressed events.
func (d *Decoder) Next() (string, bool) {
	if d.pos >= len(d.data) {
		return "", false
	}

	b := d.data[d.pos]
	d.pos++

	if b != EscapeByte {
		return SingleByte(b), true
	}

	if len(d.data)-d.pos < 2 {
		d.pos = len(d.data)
		return "", false
	}
	c1, c2 := d.data[d.pos], d.data[d.pos+1]
	d.pos += 2

	token, _ := Extended(c1, c2)
	return token, true
}

// Keylog is a recorded editing session.
type Keylog struct {
	data []byte
}

// New wraps the raw bytes of a keylog file.
func New(data []byte) *Keylog {
	return &Keylog{data: data}
}

// Bytes returns the raw keylog.
func (k *Keylog) Bytes() []byte {
	return k.data
}

// All yields every token in log order. Each call starts a new pass.
func (k *Keylog) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		d := NewDecoder(k.data)
		for {
			token, ok := d.Next()
			if !ok || !yield(token) {
				return
			}
		}
	}
}

// Tokens returns all tokens, suppressed ones included.
func (k *Keylog) Tokens() []string {
	tokens := make([]string, 0, len(k.data))
	for token := range k.All() {
		tokens = append(tokens, token)
	}
	return tokens
}

// String returns the transcript: all tokens concatenated without separators.
func (k *Keylog) String() string {
	var sb strings.Builder
	sb.Grow(len(k.data))
	for token := range k.All() {
		sb.WriteString(token)
	}
	return sb.String()
}

// Count returns the number of visible keystrokes.
func (k *Keylog) Count() int {
	n := 0
	for token := range k.All() {
		if token != "" {
			n++
		}
	}
	return n
}

// Decode returns the tokens of data.
func Decode(data []byte) []string {
	return New(data).Tokens()
}
