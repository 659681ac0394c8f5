package keylog

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want []string
	}{
		{"empty", nil, []string{}},
		{"printable", []byte("hello"), []string{"h", "e", "l", "l", "o"}},
		{"ctrl", []byte{0x03}, []string{"<C-C>"}},
		{"named controls", []byte{0x1b, 0x0d, 0x0a, 0x09}, []string{"<Esc>", "<CR>", "<NL>", "<Tab>"}},
		{"function key", []byte{0x80, 'k', '1'}, []string{"<F1>"}},
		{"lone escape", []byte{0x80}, []string{}},
		{"escape with one byte", []byte{0x80, 'k'}, []string{}},
		{"unmapped extended", []byte{0x80, 0xff, 0xff}, []string{""}},
		{"mixed", []byte{'i', 'x', 0x1b, 0x80, 'k', 'u', ':', 'w', 'q', 0x0d}, []string{"i", "x", "<Esc>", "<Up>", ":", "w", "q", "<CR>"}},
		{"truncated after tokens", []byte{'d', 'd', 0x80, 0xfd}, []string{"d", "d"}},
		{"focus events suppressed", []byte{0x80, 0xfd, 0x62, 'j', 0x80, 0xfd, 0x63}, []string{"", "j", ""}},
		{"escape inside extended code", []byte{0x80, 0x80, 0x80, 'x'}, []string{"", "x"}},
		{"literal 0x80", []byte{0x80, 0xfe, 'X'}, []string{"<0x80>"}},
		{"ctrl-at", []byte{0x80, 0xff, 'X'}, []string{"<C-@>"}},
		{"high byte", []byte{0xe9}, []string{"<0xe9>"}},
		{"nul", []byte{0x00}, []string{"<0x00>"}},
		{"del", []byte{0x7f}, []string{"<C-?>"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decode(tt.in))
		})
	}
}

func TestDecode_ModifierPrefixNotMerged(t *testing.T) {
	got := Decode([]byte{0x80, 0xfc, 0x02, ' '})
	assert.Equal(t, []string{"<S->", " "}, got)
}

func TestDecode_NoEscapeIsOneTokenPerByte(t *testing.T) {
	var in []byte
	for i := 0; i < 256; i++ {
		if i != EscapeByte {
			in = append(in, byte(i))
		}
	}

	got := Decode(in)
	require.Len(t, got, len(in))
	for i, b := range in {
		assert.Equal(t, SingleByte(b), got[i], "byte %#x", b)
	}
}

func TestDecoder_Next(t *testing.T) {
	d := NewDecoder([]byte{'a', 0x80, 'k', ';', 0x80, 'k'})

	token, ok := d.Next()
	require.True(t, ok)
	assert.Equal(t, "a", token)

	token, ok = d.Next()
	require.True(t, ok)
	assert.Equal(t, "<F10>", token)

	_, ok = d.Next()
	assert.False(t, ok)

	// Stays exhausted.
	_, ok = d.Next()
	assert.False(t, ok)
}

func TestKeylog_AllIsRestartable(t *testing.T) {
	k := New([]byte("ci\"foo\x1b\x80kd"))

	var first, second []string
	for token := range k.All() {
		first = append(first, token)
	}
	for token := range k.All() {
		second = append(second, token)
	}

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"c", "i", "\"", "f", "o", "o", "<Esc>", "<Down>"}, first)
}

func TestKeylog_AllStopsEarly(t *testing.T) {
	k := New([]byte("abcdef"))

	var got []string
	for token := range k.All() {
		got = append(got, token)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestKeylog_String(t *testing.T) {
	k := New([]byte{'d', 'w', 0x80, 0xfd, 0x61, 0x80, 'k', 'b', 0x17, 0x1b})
	assert.Equal(t, "dw<BS><C-W><Esc>", k.String())
}

func TestKeylog_Count(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want int
	}{
		{"empty", nil, 0},
		{"plain", []byte(":wq\r"), 4},
		{"focus events ignored", []byte{0x80, 0xfd, 0x60, 'x', 0x80, 0xfd, 0x63}, 1},
		{"unmapped ignored", []byte{0x80, 0x01, 0x02, 'u'}, 1},
		{"truncated ignored", []byte{'u', 0x80}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.in).Count())
		})
	}
}

func TestKeylog_Bytes(t *testing.T) {
	raw := []byte("x")
	assert.Equal(t, raw, New(raw).Bytes())
}

func TestDecode_Concurrent(t *testing.T) {
	in := []byte("yyp\x80kr\x80\xfd\x4b\x03")
	want := []string{"y", "y", "p", "<Right>", "<ScrollWheelUp>", "<C-C>"}

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := Decode(in)
			if fmt.Sprint(got) != fmt.Sprint(want) {
				errs <- fmt.Errorf("got %q", got)
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func BenchmarkDecode(b *testing.B) {
	in := []byte("ggdG:%s/foo/bar/g\r\x80ku\x80kd\x1bZZ")
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = New(in).String()
	}
}
