package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseCommand_Register(t *testing.T) {
	cmd := ParseCommand("REGISTER 12345678901", 2)

	assert.Equal(t, CommandRegister, cmd.Type)
	assert.Equal(t, "12345678901", cmd.IdentityNumber)
}

func TestParseCommand_Balance(t *testing.T) {
	cmd := ParseCommand("BALANCE", 2)
	assert.Equal(t, CommandBalance, cmd.Type)

	// Surrounding whitespace is tolerated; extra tokens are not.
	assert.Equal(t, CommandBalance, ParseCommand("  BALANCE  ", 2).Type)
	assert.Equal(t, CommandUnrecognized, ParseCommand("BALANCE NOW", 2).Type)
}

func TestParseCommand_Transfer(t *testing.T) {
	cmd := ParseCommand("TRANSFER 2500.00 12345678901", 2)

	assert.Equal(t, CommandTransfer, cmd.Type)
	assert.True(t, cmd.Amount.Equal(decimal.RequireFromString("2500.00")))
	assert.Equal(t, "12345678901", cmd.Target)
}

func TestParseCommand_Unrecognized(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "empty", text: ""},
		{name: "whitespace only", text: "   "},
		{name: "unknown verb", text: "WITHDRAW 100"},
		{name: "lowercase verb", text: "balance"},
		{name: "register without token", text: "REGISTER"},
		{name: "register extra token", text: "REGISTER 123 456"},
		{name: "transfer missing target", text: "TRANSFER 100"},
		{name: "transfer extra token", text: "TRANSFER 100 A B"},
		{name: "transfer non-numeric amount", text: "TRANSFER abc 12345678901"},
		{name: "transfer zero amount", text: "TRANSFER 0 12345678901"},
		{name: "transfer negative amount", text: "TRANSFER -50 12345678901"},
		{name: "transfer sub-scale amount", text: "TRANSFER 10.001 12345678901"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := ParseCommand(tt.text, 2)
			assert.Equal(t, CommandUnrecognized, cmd.Type)
		})
	}
}

func TestParseCommand_UnrecognizedKeepsRawText(t *testing.T) {
	cmd := ParseCommand("  PLEASE SEND MONEY  ", 2)

	assert.Equal(t, CommandUnrecognized, cmd.Type)
	assert.Equal(t, "PLEASE SEND MONEY", cmd.RawText)
}

func TestParseCommand_ScaleBoundary(t *testing.T) {
	// Exactly at the configured scale is accepted.
	assert.Equal(t, CommandTransfer, ParseCommand("TRANSFER 10.01 X", 2).Type)
	// A coarser scale rejects cent-level amounts.
	assert.Equal(t, CommandUnrecognized, ParseCommand("TRANSFER 10.01 X", 0).Type)
}
