// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package ad2

import "strings"

// classify inspects the first byte of a complete frame and determines
// its MessageKind plus, for tagged frames, the payload after the
// "TAG:" prefix.
//
// Unknown !-tags are reported as MessageKindUnknown with ok=false;
// callers must drop those silently rather than raise a diagnostic.
func classify(m []byte) (kind MessageKind, payload string, ok bool) {
	if len(m) == 0 {
		return MessageKindUnknown, "", false
	}

	switch m[0] {
	case '!':
		tag, rest, found := strings.Cut(string(m[1:]), ":")
		if !found {
			tag = string(m[1:])
		}
		switch tag {
		case "LRR":
			return MessageKindLRR, rest, true
		case "REL", "EXP":
			return MessageKindExpander, rest, true
		case "RFX":
			return MessageKindRFX, rest, true
		case "AUI":
			return MessageKindAUI, rest, true
		case "KPM":
			return MessageKindKPM, rest, true
		case "KPE":
			return MessageKindKPE, rest, true
		case "CRC":
			return MessageKindCRC, rest, true
		case "VER":
			return MessageKindVER, rest, true
		case "ERR":
			return MessageKindERR, rest, true
		default:
			// Known prefix, unrecognized tag: silently dropped, not
			// a BadPrefix/UnknownPrefix diagnostic.
			return MessageKindUnknown, "", false
		}

	case '[':
		return MessageKindKeypad, "", true

	default:
		return MessageKindUnknown, "", false
	}
}

// bootMarker is the legacy bootloader substring emitted ahead of a
// panel's first real frame after power-up. It may appear ahead of any
// terminator; surfacing it must never corrupt normal framing, so it
// is detected by a plain substring scan over the raw incoming bytes
// rather than by feeding it through the frame state machine.
const bootMarker = "!boot.....done"

func containsBootMarker(chunk []byte) bool {
	return strings.Contains(string(chunk), bootMarker)
}
