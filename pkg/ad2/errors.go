// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package ad2

import (
	aerrors "github.com/antimetal/ad2core/pkg/errors"
)

// Re-exported so callers never need to import the errors package
// alongside this one. cmd/ad2mon uses Is to detect io.EOF from its
// reader; callers can also match Put's error against ErrInvalidInput.
var (
	Is  = aerrors.Is
	New = aerrors.New
)

// ErrInvalidInput is returned by Parser.Put when called with a
// non-positive length byte slice. It is the only error the core
// surfaces to the caller; every other condition below is handled
// internally.
var ErrInvalidInput = New("ad2: put called with non-positive length")

// The following are not returned from any exported method and are not
// carried by any Event. They name the internal conditions counted by
// Stats() with a stable value instead of a raw string.
var (
	ErrFrameTooLong         = New("ad2: frame exceeded max message size without a terminator")
	ErrNoisyByte            = New("ad2: non-printable byte outside CR/LF arrived mid-frame")
	ErrRingOverrun          = New("ad2: ring buffer in-cursor caught out-cursor before a terminator")
	ErrMalformedKeypadFrame = New("ad2: bracketed frame failed keypad layout validation")
	ErrUnknownPrefix        = New("ad2: frame had neither '[' nor '!' prefix")
)
