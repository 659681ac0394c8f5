package keylog

import (
	"fmt"
	"sync"
)

// EscapeByte introduces a two byte extended keycode in a keylog.
const EscapeByte = 0x80

var (
	singleByteOnce  sync.Once
	singleByteTable [256]string

	extendedOnce  sync.Once
	extendedTable map[[2]byte]string
)

// singleBytes returns the shared single byte table, building it on first use.
func singleBytes() *[256]string {
	singleByteOnce.Do(func() {
		// Fallback for non-ASCII
		for i := range singleByteTable {
			singleByteTable[i] = fmt.Sprintf("<0x%02x>", i)
		}

		// Vim stores Ctrl+X as ASCII(X) ^ 0x40
		for i := 1; i <= 127; i++ {
			singleByteTable[i] = fmt.Sprintf("<C-%c>", byte(i^0x40))
		}

		// Printing characters
		for i := 32; i <= 126; i++ {
			singleByteTable[i] = string(rune(i))
		}

		singleByteTable[0x1b] = "<Esc>"
		singleByteTable[0x0d] = "<CR>"
		singleByteTable[0x0a] = "<NL>"
		singleByteTable[0x09] = "<Tab>"
	})
	return &singleByteTable
}

// extended returns the shared extended code table, building it on first use.
func extended() map[[2]byte]string {
	extendedOnce.Do(func() {
		extendedTable = buildExtended(extendedBindings)
	})
	return extendedTable
}

// buildExtended applies bindings in order, so a later binding replaces an
// earlier one with the same code.
func buildExtended(bindings []binding) map[[2]byte]string {
	table := make(map[[2]byte]string, len(bindings))
	for _, b := range bindings {
		table[[2]byte{b.code[0], b.code[1]}] = b.token
	}
	return table
}

// SingleByte returns the token for a byte outside of an escape sequence.
func SingleByte(b byte) string {
	return singleBytes()[b]
}

// Extended returns the token for the two bytes following EscapeByte.
// The boolean is false for codes that have no binding.
func Extended(c1, c2 byte) (string, bool) {
	token, ok := extended()[[2]byte{c1, c2}]
	return token, ok
}

type binding struct {
	code  string // exactly two bytes
	token string
}

// extendedBindings lists the extended keycodes in insertion order. The list
// follows :h terminal-options and Vim's keymap.h and misc2.c. Order matters:
// when two Vim versions disagree about a code, the later entry wins.
var extendedBindings = []binding{
	// Function keys
	{"k1", "<F1>"},
	{"k2", "<F2>"},
	{"k3", "<F3>"},
	{"k4", "<F4>"},
	{"k5", "<F5>"},
	{"k6", "<F6>"},
	{"k7", "<F7>"},
	{"k8", "<F8>"},
	{"k9", "<F9>"},
	{"k;", "<F10>"},
	{"F1", "<F11>"},
	{"F2", "<F12>"},
	{"F3", "<F13>"},
	{"F4", "<F14>"},
	{"F5", "<F15>"},
	{"F6", "<F16>"},
	{"F7", "<F17>"},
	{"F8", "<F18>"},
	{"F9", "<F19>"},

	{"%1", "<Help>"},
	{"&8", "<Undo>"},
	{"#2", "<S-Home>"},
	{"*7", "<S-End>"},

	// Keypad
	{"K1", "<kHome>"},
	{"K4", "<kEnd>"},
	{"K3", "<kPageUp>"},
	{"K5", "<kPageDown>"},
	{"K6", "<kPlus>"},
	{"K7", "<kMinus>"},
	{"K8", "<kDivide>"},
	{"K9", "<kMultiply>"},
	{"KA", "<kEnter>"},
	{"KB", "<kPoint>"},
	{"KC", "<k0>"},
	{"KD", "<k1>"},
	{"KE", "<k2>"},
	{"KF", "<k3>"},
	{"KG", "<k4>"},
	{"KH", "<k5>"},
	{"KI", "<k6>"},
	{"KJ", "<k7>"},
	{"KK", "<k8>"},
	{"KL", "<k9>"},

	// Navigation keys
	{"kP", "<PageUp>"},
	{"kN", "<PageDown>"},
	{"kh", "<Home>"},
	{"@7", "<End>"},
	{"kI", "<Insert>"},
	{"kD", "<Del>"},
	{"kb", "<BS>"},

	// Arrow keys
	{"ku", "<Up>"},
	{"kd", "<Down>"},
	{"kl", "<Left>"},
	{"kr", "<Right>"},
	{"#4", "<S-Left>"},
	{"%i", "<S-Right>"},

	{"kB", "<S-Tab>"},
	{"\xffX", "<C-@>"},

	// A literal 0x80 byte is escaped this way
	{"\xfeX", "<0x80>"},

	// Modifier prefixes. They belong to the following keystroke (as in
	// <S-Space>) but are emitted as tokens of their own.
	{"\xfc\x02", "<S->"},
	{"\xfc\x04", "<C->"},
	{"\xfc\x06", "<C-S->"},
	{"\xfc\x08", "<A->"},
	{"\xfc\x0a", "<A-S->"},
	{"\xfc\x0c", "<C-A>"},
	{"\xfc\x0e", "<C-A-S->"},
	{"\xfc\x10", "<M->"},
	{"\xfc\x12", "<M-S->"},
	{"\xfc\x14", "<M-C->"},
	{"\xfc\x16", "<M-C-S->"},
	{"\xfc\x18", "<M-A->"},
	{"\xfc\x1a", "<M-A-S->"},
	{"\xfc\x1c", "<M-C-A>"},
	{"\xfc\x1e", "<M-C-A-S->"},

	// KS_EXTRA keycodes (0x80 0xfd ...) come from an enum in keymap.h.
	// Vim releases that add or remove a member shift every code after it.
	{"\xfd\x04", "<S-Up>"},
	{"\xfd\x05", "<S-Down>"},
	{"\xfd\x06", "<S-F1>"},
	{"\xfd\x07", "<S-F2>"},
	{"\xfd\x08", "<S-F3>"},
	{"\xfd\x09", "<S-F4>"},
	{"\xfd\x0a", "<S-F5>"},
	{"\xfd\x0b", "<S-F6>"},
	{"\xfd\x0c", "<S-F7>"},
	{"\xfd\x0d", "<S-F9>"},
	{"\xfd\x0e", "<S-F10>"},
	{"\xfd\x0f", "<S-F10>"},
	{"\xfd\x10", "<S-F11>"},
	{"\xfd\x11", "<S-F12>"},
	{"\xfd\x12", "<S-F13>"},
	{"\xfd\x13", "<S-F14>"},
	{"\xfd\x14", "<S-F15>"},
	{"\xfd\x15", "<S-F16>"},
	{"\xfd\x16", "<S-F17>"},
	{"\xfd\x17", "<S-F18>"},
	{"\xfd\x18", "<S-F19>"},
	{"\xfd\x19", "<S-F20>"},
	{"\xfd\x1a", "<S-F21>"},
	{"\xfd\x1b", "<S-F22>"},
	{"\xfd\x1c", "<S-F23>"},
	{"\xfd\x1d", "<S-F24>"},
	{"\xfd\x1e", "<S-F25>"},
	{"\xfd\x1f", "<S-F26>"},
	{"\xfd\x20", "<S-F27>"},
	{"\xfd\x21", "<S-F28>"},
	{"\xfd\x22", "<S-F29>"},
	{"\xfd\x23", "<S-F30>"},
	{"\xfd\x24", "<S-F31>"},
	{"\xfd\x25", "<S-F32>"},
	{"\xfd\x26", "<S-F33>"},
	{"\xfd\x27", "<S-F34>"},
	{"\xfd\x28", "<S-F35>"},
	{"\xfd\x29", "<S-F36>"},
	{"\xfd\x2a", "<S-F37>"},
	{"\xfd\x2b", "<Mouse>"},
	{"\xfd\x2c", "<LeftMouse>"},
	{"\xfd\x2d", "<LeftDrag>"},
	{"\xfd\x2e", "<LeftRelease>"},
	{"\xfd\x2f", "<MiddleMouse>"},
	{"\xfd\x30", "<MiddleDrag>"},
	{"\xfd\x31", "<MiddleRelease>"},
	{"\xfd\x32", "<RightMouse>"},
	{"\xfd\x33", "<RightDrag>"},
	{"\xfd\x34", "<RightRelease>"},
	{"\xfd\x35", ""}, // KE_IGNORE
	// 0x36 KE_TAB, 0x37 KE_S_TAB_OLD

	// Vim 7.4.1433 removed KE_SNIFF and 8.0.0697 added KE_SNIFF_UNUSED in
	// its place. Codes from here on match vim < 7.4.1433 and vim > 8.0.0697.
	// 0x38..0x4a: KE_SNIFF, KE_XF1..4, KE_XEND, KE_ZEND, KE_XHOME, KE_ZHOME,
	// KE_XUP, KE_XDOWN, KE_XLEFT, KE_XRIGHT, KE_LEFTMOUSE_NM,
	// KE_LEFTRELEASE_NM, KE_S_XF1..4
	{"\xfd\x4b", "<ScrollWheelUp>"},
	{"\xfd\x4c", "<ScrollWheelDown>"},

	// Vim 7.3c added horizontal scrolling, shifting the rest of KS_EXTRA
	// by two. Where a 7.3 code is never produced but the 7.2 one was
	// common, the 7.2 meaning is kept. Some legacy codes conflict and stay
	// wrong.
	{"\xfd\x4d", "<ScrollWheelRight>"},
	{"\xfd\x4e", "<ScrollWheelLeft>"},
	{"\xfd\x4f", "<kInsert>"},
	{"\xfd\x50", "<kDel>"},
	{"\xfd\x51", "<0x9b>"},    // :help <CSI>
	{"\xfd\x53", "<C-Left>"},  // 7.2 compat, KE_PLUG is never used
	{"\xfd\x54", "<C-Right>"}, // 7.2 compat, KE_CMDWIN is never used
	{"\xfd\x55", "<C-Left>"},  // conflicts with 7.2 <C-Home>
	{"\xfd\x56", "<C-Right>"}, // conflicts with 7.2 <C-End>
	{"\xfd\x57", "<C-Home>"},
	{"\xfd\x58", "<C-End>"},
	// 0x59..0x5e: KE_X1MOUSE, KE_X1DRAG, KE_X1RELEASE, KE_X2MOUSE,
	// KE_X2DRAG, KE_X2RELEASE
	{"\xfd\x5e", ""}, // 7.2 compat
	// 0x5f KE_DROP, 0x60 KE_CURSORHOLD

	// gvim logs a keystroke whenever the window gains or loses focus.
	// They are neither shown nor counted.
	{"\xfd\x60", ""}, // 7.2 focus gained
	{"\xfd\x61", ""}, // focus gained, > 7.4.1433
	{"\xfd\x62", ""}, // focus gained
	{"\xfd\x63", ""}, // focus lost
}
