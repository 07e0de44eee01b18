// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package terminal

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/gogpu/gpucontext"
)

var namedKeys = map[tcell.Key]gpucontext.Key{
	tcell.KeyEscape:    gpucontext.KeyEscape,
	tcell.KeyTab:       gpucontext.KeyTab,
	tcell.KeyBacktab:   gpucontext.KeyTab,
	tcell.KeyBackspace: gpucontext.KeyBackspace,
	tcell.KeyEnter:     gpucontext.KeyEnter,
	tcell.KeyInsert:    gpucontext.KeyInsert,
	tcell.KeyDelete:    gpucontext.KeyDelete,
	tcell.KeyHome:      gpucontext.KeyHome,
	tcell.KeyEnd:       gpucontext.KeyEnd,
	tcell.KeyPgUp:      gpucontext.KeyPageUp,
	tcell.KeyPgDn:      gpucontext.KeyPageDown,
	tcell.KeyLeft:      gpucontext.KeyLeft,
	tcell.KeyRight:     gpucontext.KeyRight,
	tcell.KeyUp:        gpucontext.KeyUp,
	tcell.KeyDown:      gpucontext.KeyDown,
	tcell.KeyPause:     gpucontext.KeyPause,
	tcell.KeyPrint:     gpucontext.KeyPrintScreen,
}

var punctuation = map[rune]gpucontext.Key{
	' ':  gpucontext.KeySpace,
	'-':  gpucontext.KeyMinus,
	'=':  gpucontext.KeyEqual,
	'[':  gpucontext.KeyLeftBracket,
	']':  gpucontext.KeyRightBracket,
	'\\': gpucontext.KeyBackslash,
	';':  gpucontext.KeySemicolon,
	'\'': gpucontext.KeyApostrophe,
	'`':  gpucontext.KeyGrave,
	',':  gpucontext.KeyComma,
	'.':  gpucontext.KeyPeriod,
	'/':  gpucontext.KeySlash,
}

// translateKey maps a terminal key event to a key code and modifiers.
// Keys with no key code, such as most non-ASCII runes, map to
// KeyUnknown.
func translateKey(ev *tcell.EventKey) (gpucontext.Key, gpucontext.Modifiers) {
	mods := translateMods(ev.Modifiers())
	k := ev.Key()
	switch {
	case k == tcell.KeyRune:
		return runeKey(ev.Rune(), mods)
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		return gpucontext.KeyA + gpucontext.Key(k-tcell.KeyCtrlA), mods | gpucontext.ModControl
	case k >= tcell.KeyF1 && k <= tcell.KeyF12:
		return gpucontext.KeyF1 + gpucontext.Key(k-tcell.KeyF1), mods
	}
	if key, ok := namedKeys[k]; ok {
		return key, mods
	}
	return gpucontext.KeyUnknown, mods
}

func runeKey(r rune, mods gpucontext.Modifiers) (gpucontext.Key, gpucontext.Modifiers) {
	switch {
	case r >= 'a' && r <= 'z':
		return gpucontext.KeyA + gpucontext.Key(r-'a'), mods
	case r >= 'A' && r <= 'Z':
		// Terminals send shifted letters without a shift modifier.
		return gpucontext.KeyA + gpucontext.Key(r-'A'), mods | gpucontext.ModShift
	case r >= '0' && r <= '9':
		return gpucontext.Key0 + gpucontext.Key(r-'0'), mods
	}
	if key, ok := punctuation[r]; ok {
		return key, mods
	}
	return gpucontext.KeyUnknown, mods
}

func translateMods(m tcell.ModMask) gpucontext.Modifiers {
	var mods gpucontext.Modifiers
	if m&tcell.ModShift != 0 {
		mods |= gpucontext.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		mods |= gpucontext.ModControl
	}
	if m&tcell.ModAlt != 0 {
		mods |= gpucontext.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		mods |= gpucontext.ModSuper
	}
	return mods
}

// buttons maps terminal mouse buttons in gpucontext order.
var buttons = [...]struct {
	mask   tcell.ButtonMask
	button gpucontext.MouseButton
}{
	{tcell.Button1, gpucontext.MouseButtonLeft},
	{tcell.Button2, gpucontext.MouseButtonRight},
	{tcell.Button3, gpucontext.MouseButtonMiddle},
	{tcell.Button4, gpucontext.MouseButton4},
	{tcell.Button5, gpucontext.MouseButton5},
}

const buttonMask = tcell.Button1 | tcell.Button2 | tcell.Button3 | tcell.Button4 | tcell.Button5

// scroll returns the scroll deltas of the wheel bits in m.
func scroll(m tcell.ButtonMask) (dx, dy float64) {
	if m&tcell.WheelUp != 0 {
		dy++
	}
	if m&tcell.WheelDown != 0 {
		dy--
	}
	if m&tcell.WheelLeft != 0 {
		dx--
	}
	if m&tcell.WheelRight != 0 {
		dx++
	}
	return dx, dy
}

// printable reports whether r is text rather than a control character.
func printable(r rune) bool {
	return r != 0 && unicode.IsPrint(r)
}
