/**
 * @description
 * This file defines the typed Outcome returned by the ledger engine for every
 * command, together with the failure-reason taxonomy and the human-readable
 * reply rendering. No error ever crosses the engine boundary as a Go error:
 * every path, including infrastructure failures, is represented as an Outcome
 * so the transport layer can always send a reply.
 */

package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// OutcomeType discriminates the outcome variants.
type OutcomeType string

const (
	OutcomeRegistered      OutcomeType = "registered"
	OutcomeBalanceReported OutcomeType = "balance_reported"
	OutcomeTransferred     OutcomeType = "transferred"
	OutcomeFailed          OutcomeType = "failed"
)

// FailureReason classifies a failed outcome. Validation failures are terminal
// for the command; Contention is surfaced only after internal retries are
// exhausted; StoreUnavailable covers infrastructure errors from the store.
type FailureReason string

const (
	ReasonInvalidCommand             FailureReason = "invalid_command"
	ReasonAccountNotFound            FailureReason = "account_not_found"
	ReasonAlreadyRegistered          FailureReason = "already_registered"
	ReasonDuplicateIdentity          FailureReason = "duplicate_identity"
	ReasonIdentityVerificationFailed FailureReason = "identity_verification_failed"
	ReasonInsufficientBalance        FailureReason = "insufficient_balance"
	ReasonInvalidRecipient           FailureReason = "invalid_recipient"
	ReasonContention                 FailureReason = "contention"
	ReasonStoreUnavailable           FailureReason = "store_unavailable"
	ReasonRateLimited                FailureReason = "rate_limited"
)

// Outcome is the result of applying one command to the ledger.
type Outcome struct {
	Type OutcomeType `json:"type"`

	// Registered
	Account *Account `json:"account,omitempty"`

	// BalanceReported
	Balance decimal.Decimal `json:"balance,omitempty"`

	// Transferred
	Amount              decimal.Decimal `json:"amount,omitempty"`
	SenderName          string          `json:"sender_name,omitempty"`
	SenderNewBalance    decimal.Decimal `json:"sender_new_balance,omitempty"`
	RecipientName       string          `json:"recipient_name,omitempty"`
	RecipientPhone      string          `json:"recipient_phone,omitempty"`
	RecipientNewBalance decimal.Decimal `json:"recipient_new_balance,omitempty"`

	// Failed
	Reason FailureReason `json:"reason,omitempty"`

	// CurrencyScale is the fixed-point scale used when rendering amounts.
	CurrencyScale int32 `json:"-"`
}

// Failed constructs a failed outcome with the given reason.
func Failed(reason FailureReason) Outcome {
	return Outcome{Type: OutcomeFailed, Reason: reason}
}

// ReplyMessage renders the message sent back to the party that issued the
// command. The wording follows the established SMS banking replies.
func (o Outcome) ReplyMessage() string {
	switch o.Type {
	case OutcomeRegistered:
		return fmt.Sprintf(
			"Welcome %s, You have successfully created an account with us. Your account number is %s and your account has been created with a balance of #%s. Thank you for choosing our bank",
			o.Account.Name, o.Account.AccountNumber, o.Account.Balance.StringFixed(o.CurrencyScale),
		)
	case OutcomeBalanceReported:
		return fmt.Sprintf("Your current balance is #%s", o.Balance.StringFixed(o.CurrencyScale))
	case OutcomeTransferred:
		return fmt.Sprintf(
			"You have transferred #%s to %s. Your new balance is #%s",
			o.Amount.StringFixed(o.CurrencyScale), o.RecipientName, o.SenderNewBalance.StringFixed(o.CurrencyScale),
		)
	case OutcomeFailed:
		return o.failureMessage()
	}
	return "An error occurred. Please try again."
}

// RecipientMessage renders the credit notification for the receiving party of
// a successful transfer. It is empty for every other outcome.
func (o Outcome) RecipientMessage() string {
	if o.Type != OutcomeTransferred {
		return ""
	}
	return fmt.Sprintf(
		"You have received #%s from %s. Your new balance is #%s",
		o.Amount.StringFixed(o.CurrencyScale), o.SenderName, o.RecipientNewBalance.StringFixed(o.CurrencyScale),
	)
}

func (o Outcome) failureMessage() string {
	switch o.Reason {
	case ReasonInvalidCommand:
		return "Invalid command. Please try again."
	case ReasonAccountNotFound:
		return "User not found. Please register first."
	case ReasonAlreadyRegistered:
		return "You already have an account with us."
	case ReasonDuplicateIdentity:
		return "An account already exists for this identity number."
	case ReasonIdentityVerificationFailed:
		return "We could not verify your identity number. Please check it and try again."
	case ReasonInsufficientBalance:
		return "Transfer failed. Please check your balance and try again."
	case ReasonInvalidRecipient:
		return "Transfer failed. The recipient account could not be found."
	case ReasonContention:
		return "We could not complete your transfer right now. Please try again."
	case ReasonRateLimited:
		return "Too many requests. Please wait a moment and try again."
	}
	return "An error occurred. Please try again."
}
