// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package ad2

import (
	"encoding/hex"
	"math/bits"
	"strings"
)

// Byte offsets into a validated 94-byte keypad frame. The
// quoted-alpha boundaries are derived from the two hard constraints
// a valid frame must satisfy (m[22] == ',' and m[93] == '"') together
// with the known 32-char alpha field width; every worked test fixture
// in this package is built against these offsets.
const (
	offBitsOpen    = 0
	offReady       = 1
	offArmedAway   = 2
	offArmedStay   = 3
	offBacklight   = 4
	offProgramming = 5
	offBeeps       = 6
	offZoneBypass  = 7
	offACPower     = 8
	offChime       = 9
	offAlarmEvent  = 10
	offAlarmSound  = 11
	offBatteryLow  = 12
	offEntryDelay  = 13
	offFireAlarm   = 14
	offSystemIssue = 15
	offPerimeter   = 16
	offSysSpecific = 17
	offPanelType   = 18
	offBitsClose   = 21
	offComma1      = 22
	offNumeric     = 23 // len 3, m[23:26]
	offHexOpen     = 27
	offHexData     = 28 // len 30, m[28:58]
	offAddrMask    = 30 // len 8, m[30:38]
	offCursorType  = 46 // len 2, m[46:48]
	offCursorLoc   = 48 // len 2, m[48:50]
	offHexClose    = 58
	offComma2      = 59
	offQuoteOpen   = 60
	offAlpha       = 61 // len 32, m[61:93]
	offQuoteClose  = 93
)

func bitAt(m []byte, off int) bool {
	switch m[off] {
	case '1':
		return true
	default:
		// '0', '-', and anything else decode to false.
		return false
	}
}

// KeypadUpdate is the structured record extracted from a validated
// bracketed keypad state frame, ready to be folded into a
// PartitionState by the registry.
type KeypadUpdate struct {
	Mask PartitionMask

	Ready               bool
	ArmedAway           bool
	ArmedStay           bool
	BacklightOn         bool
	ProgrammingMode     bool
	ZoneBypassed        bool
	ACPower             bool
	ChimeOn             bool
	AlarmEventOccurred  bool
	AlarmSounding       bool
	BatteryLow          bool
	EntryDelayOff       bool
	FireAlarm           bool
	SystemIssue         bool
	PerimeterOnly       bool

	Beeps          byte // raw ASCII digit, offset 6
	SystemSpecific byte // raw ASCII digit, offset 17
	PanelType      PanelType

	CursorType     CursorType
	CursorLocation uint8

	LastNumericMessage string // 3-digit display string, leading zeros preserved
	LastAlphaMessage   string // up to 32 chars, right-space-trimmed

	ExitNow bool
}

// extractKeypad validates layout, decodes the positional fields, and
// derives ExitNow from the panel dialect and alpha text.
func extractKeypad(m []byte) (KeypadUpdate, bool) {
	if len(m) != KeypadFrameLen {
		return KeypadUpdate{}, false
	}
	if m[offComma1] != ',' || m[offQuoteClose] != '"' {
		return KeypadUpdate{}, false
	}

	var u KeypadUpdate
	u.Ready = bitAt(m, offReady)
	u.ArmedAway = bitAt(m, offArmedAway)
	u.ArmedStay = bitAt(m, offArmedStay)
	u.BacklightOn = bitAt(m, offBacklight)
	u.ProgrammingMode = bitAt(m, offProgramming)
	u.ZoneBypassed = bitAt(m, offZoneBypass)
	u.ACPower = bitAt(m, offACPower)
	u.ChimeOn = bitAt(m, offChime)
	u.AlarmEventOccurred = bitAt(m, offAlarmEvent)
	u.AlarmSounding = bitAt(m, offAlarmSound)
	u.BatteryLow = bitAt(m, offBatteryLow)
	u.EntryDelayOff = bitAt(m, offEntryDelay)
	u.FireAlarm = bitAt(m, offFireAlarm)
	u.SystemIssue = bitAt(m, offSystemIssue)
	u.PerimeterOnly = bitAt(m, offPerimeter)
	u.Beeps = m[offBeeps]
	u.SystemSpecific = m[offSysSpecific]
	u.PanelType = parsePanelType(m[offPanelType])

	u.LastNumericMessage = string(m[offNumeric : offNumeric+3])

	alpha := strings.TrimRight(string(m[offAlpha:offAlpha+32]), " ")
	u.LastAlphaMessage = alpha
	rawPanelType := u.PanelType
	if u.PanelType == PanelTypeUnknown {
		u.PanelType = inferPanelType(alpha)
	}

	mask, ok := decodeAddressMask(m[offAddrMask : offAddrMask+8])
	if !ok {
		return KeypadUpdate{}, false
	}
	u.Mask = mask

	cursorType, ok := parseHexByte(m[offCursorType : offCursorType+2])
	if !ok {
		return KeypadUpdate{}, false
	}
	u.CursorType = CursorType(cursorType)

	cursorLoc, ok := parseHexByte(m[offCursorLoc : offCursorLoc+2])
	if !ok {
		return KeypadUpdate{}, false
	}
	u.CursorLocation = cursorLoc

	// exit_now is only derived when the raw panel_type byte was itself
	// 'A' or 'D'. On an undetermined byte the derivation is specified
	// as false, even though PanelType above may still carry a value
	// inferred from the alpha text for display purposes.
	if rawPanelType == PanelTypeUnknown {
		u.ExitNow = false
	} else {
		u.ExitNow = deriveExitNow(rawPanelType, alpha)
	}
	return u, true
}

// decodeAddressMask parses the 8 ASCII hex digits and byte-swaps them:
// the wire stores a big-endian ASCII hex rendering of a little-endian
// 4-byte value, so the logical mask is the byte-reverse of the
// straight big-endian parse.
func decodeAddressMask(hexDigits []byte) (PartitionMask, bool) {
	raw, ok := parseHexUint32(hexDigits)
	if !ok {
		return 0, false
	}
	return bits.ReverseBytes32(raw), true
}

func parseHexUint32(digits []byte) (uint32, bool) {
	var buf [4]byte
	if _, err := hex.Decode(buf[:], digits); err != nil {
		return 0, false
	}
	return uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3]), true
}

func parseHexByte(digits []byte) (uint8, bool) {
	var buf [1]byte
	if _, err := hex.Decode(buf[:], digits); err != nil {
		return 0, false
	}
	return buf[0], true
}

// inferPanelType falls back to the alpha text when the raw
// panel-type byte in the bit field is not 'A' or 'D' (observed in
// practice as '-', meaning "not populated by this firmware"): the
// dialect can often still be read off the alpha display's phrasing.
// Ademco Vista keypads bracket status words in asterisks
// ("***AWAY***"); DSC PowerSeries keypads don't.
//
// This inferred value is only used for KeypadUpdate.PanelType/display
// purposes. It must never feed exit_now derivation: on an undetermined
// raw byte, exit_now is always false regardless of alpha content.
func inferPanelType(alpha string) PanelType {
	if strings.Contains(alpha, "***") {
		return PanelTypeAdemco
	}
	upper := strings.ToUpper(alpha)
	if strings.Contains(upper, "EXIT DELAY") || strings.Contains(upper, "QUICK EXIT") {
		return PanelTypeDSC
	}
	return PanelTypeUnknown
}

// deriveExitNow computes the derived exit_now field. The match is a
// literal, case-sensitive substring search: only called when panel is
// 'A' or 'D', never on an undetermined byte.
func deriveExitNow(panel PanelType, alpha string) bool {
	switch panel {
	case PanelTypeAdemco:
		return strings.Contains(alpha, "MAY EXIT NOW")
	case PanelTypeDSC:
		return strings.Contains(alpha, "QUICK EXIT") || strings.Contains(alpha, "EXIT DELAY")
	default:
		return false
	}
}
