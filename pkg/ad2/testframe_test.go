// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package ad2

import "fmt"

// keypadFixture builds a spec-conformant 94-byte keypad frame so
// tests exercise the real offsets instead of a hand-typed string.
// Every field defaults to its "off"/zero value; override what a given
// test cares about.
type keypadFixture struct {
	Ready, ArmedAway, ArmedStay, BacklightOn, ProgrammingMode bool
	ZoneBypassed, ACPower, ChimeOn                            bool
	AlarmEventOccurred, AlarmSounding, BatteryLow              bool
	EntryDelayOff, FireAlarm, SystemIssue, PerimeterOnly       bool

	Beeps, SystemSpecific byte // ASCII digit, defaults '0'
	PanelType             byte // 'A', 'D', or '-' for undetermined

	Numeric string // 3 chars, defaults "000"
	Mask    uint32 // logical (post-byteswap) mask, defaults 0
	Cursor  uint8
	CursorLoc uint8

	Alpha string // up to 32 chars, space-padded
}

func bitChar(b bool) byte {
	if b {
		return '1'
	}
	return '0'
}

func (f keypadFixture) build() []byte {
	frame := make([]byte, KeypadFrameLen)
	for i := range frame {
		frame[i] = ' '
	}
	frame[offBitsOpen] = '['
	frame[offReady] = bitChar(f.Ready)
	frame[offArmedAway] = bitChar(f.ArmedAway)
	frame[offArmedStay] = bitChar(f.ArmedStay)
	frame[offBacklight] = bitChar(f.BacklightOn)
	frame[offProgramming] = bitChar(f.ProgrammingMode)
	if f.Beeps == 0 {
		f.Beeps = '0'
	}
	frame[offBeeps] = f.Beeps
	frame[offZoneBypass] = bitChar(f.ZoneBypassed)
	frame[offACPower] = bitChar(f.ACPower)
	frame[offChime] = bitChar(f.ChimeOn)
	frame[offAlarmEvent] = bitChar(f.AlarmEventOccurred)
	frame[offAlarmSound] = bitChar(f.AlarmSounding)
	frame[offBatteryLow] = bitChar(f.BatteryLow)
	frame[offEntryDelay] = bitChar(f.EntryDelayOff)
	frame[offFireAlarm] = bitChar(f.FireAlarm)
	frame[offSystemIssue] = bitChar(f.SystemIssue)
	frame[offPerimeter] = bitChar(f.PerimeterOnly)
	if f.SystemSpecific == 0 {
		f.SystemSpecific = '0'
	}
	frame[offSysSpecific] = f.SystemSpecific
	if f.PanelType == 0 {
		f.PanelType = '-'
	}
	frame[offPanelType] = f.PanelType
	frame[19] = '-'
	frame[20] = '-'
	frame[offBitsClose] = ']'
	frame[offComma1] = ','

	numeric := f.Numeric
	if numeric == "" {
		numeric = "000"
	}
	copy(frame[offNumeric:offNumeric+3], numeric)

	frame[offHexOpen] = '['
	hexBytes := byteswapToHex(f.Mask)
	for i := range frame[offHexData:offHexClose] {
		frame[offHexData+i] = '0'
	}
	copy(frame[offAddrMask:offAddrMask+8], hexBytes)
	copy(frame[offCursorType:offCursorType+2], []byte(fmt.Sprintf("%02x", f.Cursor)))
	copy(frame[offCursorLoc:offCursorLoc+2], []byte(fmt.Sprintf("%02x", f.CursorLoc)))
	frame[offHexClose] = ']'
	frame[offComma2] = ','

	frame[offQuoteOpen] = '"'
	alpha := f.Alpha
	for len(alpha) < 32 {
		alpha += " "
	}
	copy(frame[offAlpha:offAlpha+32], alpha[:32])
	frame[offQuoteClose] = '"'

	return frame
}

// byteswapToHex renders mask as the 8 ASCII hex digits extractKeypad
// expects on the wire: big-endian hex text of the byte-reversed
// value, so decodeAddressMask's reverse recovers mask.
func byteswapToHex(mask uint32) []byte {
	swapped := reverseBytes32(mask)
	return []byte(fmt.Sprintf("%08x", swapped))
}

func reverseBytes32(v uint32) uint32 {
	return (v&0xFF)<<24 | (v>>8&0xFF)<<16 | (v>>16&0xFF)<<8 | (v >> 24 & 0xFF)
}
