// Copyright Antimetal, Inc. All rights reserved.
//
// Use of this source code is governed by a source available license that can be found in the
// LICENSE file or at:
// https://polyformproject.org/wp-content/uploads/2020/06/PolyForm-Shield-1.0.0.txt

package ad2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractKeypadRoundTripsBitsAndMask(t *testing.T) {
	f := keypadFixture{
		Ready:       true,
		ArmedAway:   true,
		BacklightOn: true,
		ACPower:     true,
		Mask:        0x00000001,
		Cursor:      1,
		CursorLoc:   5,
		Numeric:     "001",
		Alpha:       "***DISARMED***",
	}
	upd, ok := extractKeypad(f.build())
	require.True(t, ok)

	assert.True(t, upd.Ready)
	assert.True(t, upd.ArmedAway)
	assert.False(t, upd.ArmedStay)
	assert.True(t, upd.BacklightOn)
	assert.True(t, upd.ACPower)
	assert.Equal(t, PartitionMask(0x00000001), upd.Mask)
	assert.Equal(t, CursorType(1), upd.CursorType)
	assert.EqualValues(t, 5, upd.CursorLocation)
	assert.Equal(t, "001", upd.LastNumericMessage)
	assert.Equal(t, "***DISARMED***", upd.LastAlphaMessage)
}

func TestExtractKeypadRejectsWrongLength(t *testing.T) {
	_, ok := extractKeypad(make([]byte, 93))
	assert.False(t, ok)
}

func TestExtractKeypadRejectsMissingComma(t *testing.T) {
	f := keypadFixture{}
	frame := f.build()
	frame[offComma1] = ' '
	_, ok := extractKeypad(frame)
	assert.False(t, ok)
}

func TestExtractKeypadRejectsMissingClosingQuote(t *testing.T) {
	f := keypadFixture{}
	frame := f.build()
	frame[offQuoteClose] = ' '
	_, ok := extractKeypad(frame)
	assert.False(t, ok)
}

func TestExtractKeypadRejectsBadHexAddressMask(t *testing.T) {
	f := keypadFixture{}
	frame := f.build()
	frame[offAddrMask] = 'z'
	_, ok := extractKeypad(frame)
	assert.False(t, ok)
}

func TestInferPanelTypeFromAlphaText(t *testing.T) {
	assert.Equal(t, PanelTypeAdemco, inferPanelType("***AWAY***"))
	assert.Equal(t, PanelTypeDSC, inferPanelType("QUICK EXIT"))
	assert.Equal(t, PanelTypeDSC, inferPanelType("EXIT DELAY in Progress"))
	assert.Equal(t, PanelTypeUnknown, inferPanelType("no hints here"))
}

func TestDeriveExitNowIsCaseSensitive(t *testing.T) {
	assert.True(t, deriveExitNow(PanelTypeAdemco, "MAY EXIT NOW"))
	assert.True(t, deriveExitNow(PanelTypeAdemco, "YOU MAY EXIT NOW "))
	assert.False(t, deriveExitNow(PanelTypeAdemco, "May Exit Now"), "literal case only, per the source")
	assert.False(t, deriveExitNow(PanelTypeAdemco, "***DISARMED***"))
	assert.True(t, deriveExitNow(PanelTypeDSC, "QUICK EXIT"))
	assert.False(t, deriveExitNow(PanelTypeDSC, "quick exit"), "literal case only, per the source")
	assert.False(t, deriveExitNow(PanelTypeUnknown, "MAY EXIT NOW"))
}

func TestExtractKeypadFallsBackToInferredPanelTypeWhenByteUndetermined(t *testing.T) {
	f := keypadFixture{PanelType: '-', Alpha: "***AWAY***"}
	upd, ok := extractKeypad(f.build())
	require.True(t, ok)
	assert.Equal(t, PanelTypeAdemco, upd.PanelType)
	assert.False(t, upd.ExitNow) // "***AWAY***" doesn't contain an exit phrase
}

func TestExtractKeypadExitNowIsFalseOnUndeterminedByteEvenWithExitPhraseInAlpha(t *testing.T) {
	f := keypadFixture{PanelType: '-', Alpha: "***MAY EXIT NOW***"}
	upd, ok := extractKeypad(f.build())
	require.True(t, ok)
	assert.Equal(t, PanelTypeAdemco, upd.PanelType, "inferred for display purposes from the asterisk bracketing")
	assert.False(t, upd.ExitNow, "undetermined raw panel_type byte always specifies exit_now=false")
}

func TestExtractKeypadPreservesExplicitPanelTypeByte(t *testing.T) {
	f := keypadFixture{PanelType: 'D', Alpha: "QUICK EXIT"}
	upd, ok := extractKeypad(f.build())
	require.True(t, ok)
	assert.Equal(t, PanelTypeDSC, upd.PanelType)
	assert.True(t, upd.ExitNow)
}
