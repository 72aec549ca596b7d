package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation_MatchesWrappedPgError(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "accounts_phone_number_key"}
	wrapped := fmt.Errorf("failed to insert account: %w", pgErr)

	if !isUniqueViolation(wrapped) {
		t.Fatal("expected wrapped 23505 error to be classified as unique violation")
	}
}

func TestIsUniqueViolation_IgnoresOtherErrors(t *testing.T) {
	if isUniqueViolation(errors.New("connection refused")) {
		t.Fatal("did not expect plain error to be classified as unique violation")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatal("did not expect foreign-key violation to be classified as unique violation")
	}
}
