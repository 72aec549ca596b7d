/**
 * @description
 * This file provides the PostgreSQL implementation of the `Repository`
 * interface. The service owns a single `accounts` table; phone number, NIN,
 * and account number each carry a unique constraint, and the balance column
 * carries a CHECK (balance >= 0) so a negative balance can never commit even
 * if application-level validation is bypassed.
 *
 * TransferFunds implements the optimistic-concurrency commit: both UPDATEs are
 * predicated on the version the engine read, so a row that moved underneath
 * the command matches zero rows and the whole transaction rolls back with
 * ErrVersionConflict for the engine to retry.
 *
 * @dependencies
 * - context, errors, fmt, time: Standard Go libraries.
 * - github.com/jackc/pgx/v5: The PostgreSQL driver for database operations.
 * - internal/domain: Contains the domain models used for data transfer.
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/buzzbank/ledger-service/internal/domain"
)

var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrDuplicateAccount  = errors.New("account violates a unique constraint")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrVersionConflict   = errors.New("account version conflict")
)

const uniqueViolationCode = "23505"

// PostgresRepository is a concrete implementation of the Repository interface for PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new instance of PostgresRepository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const accountColumns = `id, nin, name, phone_number, account_number, balance, version, created_at, updated_at`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	err := row.Scan(
		&account.ID,
		&account.NIN,
		&account.Name,
		&account.PhoneNumber,
		&account.AccountNumber,
		&account.Balance,
		&account.Version,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindAccountByPhoneNumber retrieves the account bound to a messaging address.
func (r *PostgresRepository) FindAccountByPhoneNumber(ctx context.Context, phoneNumber string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE phone_number = $1`
	return scanAccount(r.db.QueryRow(ctx, query, phoneNumber))
}

// FindAccountByAccountNumber retrieves an account by its addressable handle.
func (r *PostgresRepository) FindAccountByAccountNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1`
	return scanAccount(r.db.QueryRow(ctx, query, accountNumber))
}

// CreateAccount inserts a new account row. Unique-constraint violations on any
// of the identity columns are collapsed into ErrDuplicateAccount; the engine
// does not care which column collided.
func (r *PostgresRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now

	query := `
		INSERT INTO accounts (id, nin, name, phone_number, account_number, balance, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		account.ID,
		account.NIN,
		account.Name,
		account.PhoneNumber,
		account.AccountNumber,
		account.Balance,
		account.Version,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateAccount
		}
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

// TransferFunds atomically moves amount between two accounts using the version
// tokens the engine observed. Either both UPDATEs commit or neither does.
func (r *PostgresRepository) TransferFunds(ctx context.Context, senderID, recipientID uuid.UUID, amount decimal.Decimal, expectedSenderVersion, expectedRecipientVersion int64) (TransferBalances, error) {
	var balances TransferBalances

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return balances, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	debitQuery := `
		UPDATE accounts
		SET balance = balance - $1, version = version + 1, updated_at = now()
		WHERE id = $2 AND version = $3 AND balance >= $1
		RETURNING balance
	`
	err = tx.QueryRow(ctx, debitQuery, amount, senderID, expectedSenderVersion).Scan(&balances.SenderBalance)
	if err != nil {
		if err == pgx.ErrNoRows {
			return balances, r.classifyDebitFailure(ctx, tx, senderID, expectedSenderVersion, amount)
		}
		return balances, fmt.Errorf("failed to debit sender: %w", err)
	}

	creditQuery := `
		UPDATE accounts
		SET balance = balance + $1, version = version + 1, updated_at = now()
		WHERE id = $2 AND version = $3
		RETURNING balance
	`
	err = tx.QueryRow(ctx, creditQuery, amount, recipientID, expectedRecipientVersion).Scan(&balances.RecipientBalance)
	if err != nil {
		if err == pgx.ErrNoRows {
			return balances, r.classifyCreditFailure(ctx, tx, recipientID)
		}
		return balances, fmt.Errorf("failed to credit recipient: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return balances, fmt.Errorf("failed to commit transfer: %w", err)
	}
	return balances, nil
}

// classifyDebitFailure decides why the predicated sender UPDATE matched no
// row: the row vanished, the version moved, or the balance no longer covers
// the amount. Reads run inside the same transaction.
func (r *PostgresRepository) classifyDebitFailure(ctx context.Context, tx pgx.Tx, senderID uuid.UUID, expectedVersion int64, amount decimal.Decimal) error {
	var version int64
	var balance decimal.Decimal
	err := tx.QueryRow(ctx, `SELECT version, balance FROM accounts WHERE id = $1`, senderID).Scan(&version, &balance)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrAccountNotFound
		}
		return fmt.Errorf("failed to inspect sender row: %w", err)
	}
	if version != expectedVersion {
		return ErrVersionConflict
	}
	if balance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	return ErrVersionConflict
}

func (r *PostgresRepository) classifyCreditFailure(ctx context.Context, tx pgx.Tx, recipientID uuid.UUID) error {
	var exists bool
	err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)`, recipientID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to inspect recipient row: %w", err)
	}
	if !exists {
		return ErrAccountNotFound
	}
	return ErrVersionConflict
}

// isUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
