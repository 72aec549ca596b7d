/**
 * @description
 * This file defines the core domain model for the ledger-service: the Account.
 * An account is created by a successful REGISTER command and is the single
 * durable entity this service owns. All balance mutations go through the
 * account store's atomic transfer primitive; no other component writes
 * Balance or Version.
 *
 * @notes
 * - Balances are `decimal.Decimal` (arbitrary-precision fixed point), never a
 *   binary float, so repeated transfers cannot accumulate rounding drift.
 * - `Version` is the optimistic-concurrency token. It is incremented on every
 *   committed mutation and checked by the store before a transfer commits.
 */

package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account represents a registered account holder. This struct maps directly to
// the `accounts` table in the database.
type Account struct {
	ID            uuid.UUID       `json:"id"`
	NIN           string          `json:"nin"`            // national identity number, unique, immutable
	Name          string          `json:"name"`           // display name from identity verification
	PhoneNumber   string          `json:"phone_number"`   // messaging-channel address, unique
	AccountNumber string          `json:"account_number"` // addressable handle for transfers, unique
	Balance       decimal.Decimal `json:"balance"`
	Version       int64           `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Validate ensures the account satisfies the domain invariants before it is
// handed to the store.
func (a *Account) Validate() error {
	if a.NIN == "" {
		return errors.New("account NIN cannot be empty")
	}
	if a.PhoneNumber == "" {
		return errors.New("account phone number cannot be empty")
	}
	if a.AccountNumber == "" {
		return errors.New("account number cannot be empty")
	}
	if a.Balance.IsNegative() {
		return errors.New("account balance cannot be negative")
	}
	if a.Version < 1 {
		return errors.New("account version must be at least 1")
	}
	return nil
}
