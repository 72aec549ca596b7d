/**
 * @description
 * This file implements the command parser: a pure function that turns the raw
 * text of an inbound message into a typed Command. The parser performs no I/O
 * and touches no shared state, so it can be exercised exhaustively in tests.
 *
 * The grammar matches the SMS banking convention:
 *   REGISTER <nin>
 *   BALANCE
 *   TRANSFER <amount> <target>
 * Anything else, including malformed amounts, parses as CommandUnrecognized.
 * Verb keywords are case-sensitive; callers that want case-insensitive input
 * must normalize before parsing.
 */

package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CommandType discriminates the parsed command variants.
type CommandType string

const (
	CommandRegister     CommandType = "register"
	CommandBalance      CommandType = "balance"
	CommandTransfer     CommandType = "transfer"
	CommandUnrecognized CommandType = "unrecognized"
)

// Command is the typed result of parsing one inbound message.
type Command struct {
	Type           CommandType
	IdentityNumber string          // set for register
	Amount         decimal.Decimal // set for transfer, always positive
	Target         string          // set for transfer: account number or phone number per addressing mode
	RawText        string          // set for unrecognized
}

// ParseCommand parses trimmed message text into a Command. maxScale bounds the
// number of fractional digits accepted in a transfer amount; an amount with
// finer precision than the currency supports is treated as unrecognized rather
// than silently rounded.
func ParseCommand(text string, maxScale int32) Command {
	trimmed := strings.TrimSpace(text)
	tokens := strings.Fields(trimmed)

	unrecognized := Command{Type: CommandUnrecognized, RawText: trimmed}

	if len(tokens) == 0 {
		return unrecognized
	}

	switch tokens[0] {
	case "REGISTER":
		if len(tokens) != 2 {
			return unrecognized
		}
		return Command{Type: CommandRegister, IdentityNumber: tokens[1]}

	case "BALANCE":
		if len(tokens) != 1 {
			return unrecognized
		}
		return Command{Type: CommandBalance}

	case "TRANSFER":
		if len(tokens) != 3 {
			return unrecognized
		}
		amount, err := decimal.NewFromString(tokens[1])
		if err != nil {
			return unrecognized
		}
		if !amount.IsPositive() {
			return unrecognized
		}
		if amount.Exponent() < -maxScale {
			return unrecognized
		}
		return Command{Type: CommandTransfer, Amount: amount, Target: tokens[2]}
	}

	return unrecognized
}
