/**
 * @description
 * This file defines the `Repository` interface, the contract for all account
 * persistence the ledger engine needs. The engine treats the store as an
 * abstract transactional record store: lookups by unique field, unique-key
 * creation, and one atomic two-account transfer primitive guarded by
 * optimistic-concurrency version tokens. Keeping the interface this small
 * decouples the engine from PostgreSQL and lets tests substitute in-memory
 * implementations.
 *
 * @dependencies
 * - context: Standard Go library.
 * - github.com/google/uuid, github.com/shopspring/decimal: ID and money types.
 * - internal/domain: The service's domain models.
 */

package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/buzzbank/ledger-service/internal/domain"
)

// TransferBalances carries the post-commit balances of both parties of a
// successful transfer.
type TransferBalances struct {
	SenderBalance    decimal.Decimal
	RecipientBalance decimal.Decimal
}

// Repository defines the set of methods for interacting with the account store.
type Repository interface {
	// FindAccountByPhoneNumber resolves the account bound to a messaging
	// address. Returns ErrAccountNotFound when no account is registered.
	FindAccountByPhoneNumber(ctx context.Context, phoneNumber string) (*domain.Account, error)

	// FindAccountByAccountNumber resolves an account by its addressable
	// handle. Returns ErrAccountNotFound when absent.
	FindAccountByAccountNumber(ctx context.Context, accountNumber string) (*domain.Account, error)

	// CreateAccount inserts a new account. Any unique-constraint collision
	// (phone number, NIN, or account number) surfaces as ErrDuplicateAccount.
	CreateAccount(ctx context.Context, account *domain.Account) error

	// TransferFunds moves amount from sender to recipient in one atomic
	// transaction, committing only if both rows still carry the expected
	// versions. Returns ErrVersionConflict when either version moved,
	// ErrInsufficientFunds when the sender's committed balance no longer
	// covers the amount, and ErrAccountNotFound when a row disappeared.
	TransferFunds(ctx context.Context, senderID, recipientID uuid.UUID, amount decimal.Decimal, expectedSenderVersion, expectedRecipientVersion int64) (TransferBalances, error)
}
