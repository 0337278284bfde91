// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

// Package ad2 implements a streaming parser and per-partition state
// tracker for the AD2 alarm-panel wire protocol: a byte-level framer,
// a message classifier and field extractor, a partition registry, and
// a synchronous event dispatcher.
package ad2

import "fmt"

// MaxMessageSize is the default largest frame body the framer will
// accept before discarding it as FrameTooLong; WithMaxMessageSize
// overrides it.
const MaxMessageSize = 120

// KeypadFrameLen is the exact length a bracketed keypad state frame
// must have to be considered for extraction.
const KeypadFrameLen = 94

// PartitionMask identifies device addresses (Ademco) or partitions
// (DSC) as a bitfield. Mask 0 denotes the system partition.
type PartitionMask = uint32

// MessageKind classifies a complete frame by its prefix/tag.
type MessageKind string

const (
	MessageKindKeypad    MessageKind = "keypad"
	MessageKindLRR       MessageKind = "LRR"
	MessageKindExpander  MessageKind = "EXP" // REL and EXP tags collapse to this kind
	MessageKindRFX       MessageKind = "RFX"
	MessageKindAUI       MessageKind = "AUI"
	MessageKindKPM       MessageKind = "KPM"
	MessageKindKPE       MessageKind = "KPE"
	MessageKindCRC       MessageKind = "CRC"
	MessageKindVER       MessageKind = "VER"
	MessageKindERR       MessageKind = "ERR"
	MessageKindBoot      MessageKind = "BOOT"
	MessageKindUnknown   MessageKind = "unknown"
)

// PanelType distinguishes the panel dialect a keypad frame was
// produced by; it drives the exit_now derivation.
type PanelType byte

const (
	PanelTypeAdemco  PanelType = 'A'
	PanelTypeDSC     PanelType = 'D'
	PanelTypeUnknown PanelType = '?'
)

func parsePanelType(b byte) PanelType {
	switch b {
	case byte(PanelTypeAdemco):
		return PanelTypeAdemco
	case byte(PanelTypeDSC):
		return PanelTypeDSC
	default:
		return PanelTypeUnknown
	}
}

func (p PanelType) String() string {
	switch p {
	case PanelTypeAdemco:
		return "ademco"
	case PanelTypeDSC:
		return "dsc"
	default:
		return "unknown"
	}
}

// CursorType is the keypad LCD cursor rendering mode.
type CursorType uint8

const (
	CursorOff       CursorType = 0
	CursorUnderline CursorType = 1
	CursorInvert    CursorType = 2
)

func (c CursorType) String() string {
	switch c {
	case CursorOff:
		return "off"
	case CursorUnderline:
		return "underline"
	case CursorInvert:
		return "invert"
	default:
		return fmt.Sprintf("cursor(%d)", uint8(c))
	}
}
