/**
 * @description
 * This file contains the core business logic for the ledger-service. The
 * `Service` struct is the ledger engine: it parses inbound command text,
 * resolves accounts, and applies balance mutations against the account store
 * with atomicity and optimistic-concurrency guarantees. Every path, including
 * infrastructure failures, returns a typed domain.Outcome; no error escapes.
 *
 * Key properties:
 * - A transfer either moves value between exactly two accounts or has no
 *   effect at all; total ledger value is unchanged by any transfer.
 * - The version-conflict retry loop wraps only the read-validate-write
 *   sequence; business-rule failures are terminal and never retried.
 * - The engine holds no lock across the identity-verification call, and
 *   creates the account only after verification succeeds.
 * - Notifications are enqueued after the outcome is decided; a delivery
 *   failure is logged and never rolls back the ledger mutation.
 *
 * @dependencies
 * - context, errors, log, time: Standard Go libraries.
 * - github.com/google/uuid, github.com/shopspring/decimal: ID and money types.
 * - internal/config, internal/domain, internal/store: Internal packages.
 * - pkg/ninclient: Identity verification client types.
 */

package app

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/buzzbank/ledger-service/internal/config"
	"github.com/buzzbank/ledger-service/internal/domain"
	"github.com/buzzbank/ledger-service/internal/store"
	"github.com/buzzbank/ledger-service/pkg/ninclient"
)

// IdentityVerifier resolves a national identity number to verified registrant
// details during registration.
type IdentityVerifier interface {
	Verify(ctx context.Context, nin string) (*ninclient.VerifiedIdentity, error)
}

// Notifier delivers a human-readable message to a messaging address.
// Implementations are best-effort; the engine only logs failures.
type Notifier interface {
	Notify(ctx context.Context, address, message string) error
}

// RateLimiter bounds how many commands a single sender may issue per window.
type RateLimiter interface {
	ConsumeRateLimit(ctx context.Context, scope string, subject string, limit int, window time.Duration) (count int, retryAfterSeconds int, err error)
}

// Service provides the core ledger logic: one entry point per inbound message.
type Service struct {
	repo     store.Repository
	verifier IdentityVerifier
	notifier Notifier

	initialGrant       decimal.Decimal
	addressingMode     string
	maxTransferRetries int
	currencyScale      int32

	rateLimiter        RateLimiter
	rateLimitPerMinute int
}

// NewService creates a new ledger service instance.
func NewService(repo store.Repository, verifier IdentityVerifier, notifier Notifier, cfg config.Config) *Service {
	return &Service{
		repo:               repo,
		verifier:           verifier,
		notifier:           notifier,
		initialGrant:       cfg.InitialGrantAmount,
		addressingMode:     cfg.AddressingMode,
		maxTransferRetries: cfg.MaxTransferRetries,
		currencyScale:      cfg.CurrencyScale,
		rateLimitPerMinute: cfg.SMSCommandRateLimitPerMinute,
	}
}

// SetRateLimiter installs a distributed rate limiter. Without one, commands
// are not rate limited.
func (s *Service) SetRateLimiter(limiter RateLimiter) {
	s.rateLimiter = limiter
}

// HandleCommand applies one inbound message against the ledger and returns
// the outcome for the transport layer to render. Notifications for the
// outcome are enqueued before returning, best-effort.
func (s *Service) HandleCommand(ctx context.Context, fromAddress, text string) domain.Outcome {
	outcome := s.apply(ctx, fromAddress, text)
	outcome.CurrencyScale = s.currencyScale
	s.dispatchNotifications(ctx, fromAddress, outcome)
	return outcome
}

func (s *Service) apply(ctx context.Context, fromAddress, text string) domain.Outcome {
	if limited := s.consumeRateLimit(ctx, fromAddress); limited {
		return domain.Failed(domain.ReasonRateLimited)
	}

	cmd := domain.ParseCommand(text, s.currencyScale)
	switch cmd.Type {
	case domain.CommandRegister:
		return s.register(ctx, fromAddress, cmd)
	case domain.CommandBalance:
		return s.reportBalance(ctx, fromAddress)
	case domain.CommandTransfer:
		return s.transfer(ctx, fromAddress, cmd)
	}

	log.Printf("level=info component=ledger msg=\"unrecognized command\" from=%s text=%q", fromAddress, cmd.RawText)
	return domain.Failed(domain.ReasonInvalidCommand)
}

// register creates an account for the sender after identity verification.
// The account number is the verified NIN, so a duplicate NIN also collides on
// the account number; both surface as DuplicateIdentity.
func (s *Service) register(ctx context.Context, fromAddress string, cmd domain.Command) domain.Outcome {
	_, err := s.repo.FindAccountByPhoneNumber(ctx, fromAddress)
	if err == nil {
		return domain.Failed(domain.ReasonAlreadyRegistered)
	}
	if !errors.Is(err, store.ErrAccountNotFound) {
		log.Printf("level=error component=ledger op=register msg=\"phone lookup failed\" from=%s err=%v", fromAddress, err)
		return domain.Failed(domain.ReasonStoreUnavailable)
	}

	identity, err := s.verifier.Verify(ctx, cmd.IdentityNumber)
	if err != nil {
		log.Printf("level=warn component=ledger op=register msg=\"identity verification failed\" from=%s err=%v", fromAddress, err)
		return domain.Failed(domain.ReasonIdentityVerificationFailed)
	}

	account := &domain.Account{
		ID:            uuid.New(),
		NIN:           identity.NIN,
		Name:          identity.Name,
		PhoneNumber:   fromAddress,
		AccountNumber: identity.NIN,
		Balance:       s.initialGrant,
		Version:       1,
	}
	if err := account.Validate(); err != nil {
		log.Printf("level=warn component=ledger op=register msg=\"verified identity produced invalid account\" from=%s err=%v", fromAddress, err)
		return domain.Failed(domain.ReasonIdentityVerificationFailed)
	}

	if err := s.repo.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, store.ErrDuplicateAccount) {
			return domain.Failed(domain.ReasonDuplicateIdentity)
		}
		log.Printf("level=error component=ledger op=register msg=\"account insert failed\" from=%s err=%v", fromAddress, err)
		return domain.Failed(domain.ReasonStoreUnavailable)
	}

	log.Printf("level=info component=ledger op=register msg=\"account created\" account_number=%s", account.AccountNumber)
	return domain.Outcome{Type: domain.OutcomeRegistered, Account: account}
}

// reportBalance is read-only; it never changes an account version.
func (s *Service) reportBalance(ctx context.Context, fromAddress string) domain.Outcome {
	account, err := s.repo.FindAccountByPhoneNumber(ctx, fromAddress)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return domain.Failed(domain.ReasonAccountNotFound)
		}
		log.Printf("level=error component=ledger op=balance msg=\"phone lookup failed\" from=%s err=%v", fromAddress, err)
		return domain.Failed(domain.ReasonStoreUnavailable)
	}
	return domain.Outcome{Type: domain.OutcomeBalanceReported, Balance: account.Balance}
}

// transfer runs the read-validate-write sequence, retrying the whole sequence
// on version conflicts up to maxTransferRetries additional attempts.
// Validation failures are terminal and returned without mutation.
func (s *Service) transfer(ctx context.Context, fromAddress string, cmd domain.Command) domain.Outcome {
	for attempt := 0; attempt <= s.maxTransferRetries; attempt++ {
		sender, err := s.repo.FindAccountByPhoneNumber(ctx, fromAddress)
		if err != nil {
			if errors.Is(err, store.ErrAccountNotFound) {
				return domain.Failed(domain.ReasonAccountNotFound)
			}
			log.Printf("level=error component=ledger op=transfer msg=\"sender lookup failed\" from=%s err=%v", fromAddress, err)
			return domain.Failed(domain.ReasonStoreUnavailable)
		}

		recipient, err := s.resolveRecipient(ctx, cmd.Target)
		if err != nil {
			if errors.Is(err, store.ErrAccountNotFound) {
				return domain.Failed(domain.ReasonInvalidRecipient)
			}
			log.Printf("level=error component=ledger op=transfer msg=\"recipient lookup failed\" target=%s err=%v", cmd.Target, err)
			return domain.Failed(domain.ReasonStoreUnavailable)
		}

		if sender.ID == recipient.ID {
			return domain.Failed(domain.ReasonInvalidRecipient)
		}
		if sender.Balance.LessThan(cmd.Amount) {
			return domain.Failed(domain.ReasonInsufficientBalance)
		}

		balances, err := s.repo.TransferFunds(ctx, sender.ID, recipient.ID, cmd.Amount, sender.Version, recipient.Version)
		if err == nil {
			log.Printf("level=info component=ledger op=transfer msg=\"transfer committed\" sender=%s recipient=%s", sender.AccountNumber, recipient.AccountNumber)
			return domain.Outcome{
				Type:                domain.OutcomeTransferred,
				Amount:              cmd.Amount,
				SenderName:          sender.Name,
				SenderNewBalance:    balances.SenderBalance,
				RecipientName:       recipient.Name,
				RecipientPhone:      recipient.PhoneNumber,
				RecipientNewBalance: balances.RecipientBalance,
			}
		}

		switch {
		case errors.Is(err, store.ErrVersionConflict):
			// Another command moved one of the rows; re-read and try again.
			continue
		case errors.Is(err, store.ErrInsufficientFunds):
			return domain.Failed(domain.ReasonInsufficientBalance)
		case errors.Is(err, store.ErrAccountNotFound):
			return domain.Failed(domain.ReasonAccountNotFound)
		default:
			log.Printf("level=error component=ledger op=transfer msg=\"transfer commit failed\" err=%v", err)
			return domain.Failed(domain.ReasonStoreUnavailable)
		}
	}

	log.Printf("level=warn component=ledger op=transfer msg=\"retries exhausted\" from=%s retries=%d", fromAddress, s.maxTransferRetries)
	return domain.Failed(domain.ReasonContention)
}

func (s *Service) resolveRecipient(ctx context.Context, target string) (*domain.Account, error) {
	if s.addressingMode == config.AddressingModePhoneNumber {
		return s.repo.FindAccountByPhoneNumber(ctx, target)
	}
	return s.repo.FindAccountByAccountNumber(ctx, target)
}

func (s *Service) consumeRateLimit(ctx context.Context, fromAddress string) bool {
	if s.rateLimiter == nil || s.rateLimitPerMinute <= 0 {
		return false
	}
	count, _, err := s.rateLimiter.ConsumeRateLimit(ctx, "sms_command", fromAddress, s.rateLimitPerMinute, time.Minute)
	if err != nil {
		// A broken limiter must not block banking commands.
		log.Printf("level=warn component=ledger msg=\"rate limiter unavailable; allowing command\" err=%v", err)
		return false
	}
	return count > s.rateLimitPerMinute
}

// dispatchNotifications enqueues the reply for the initiating party and, for
// a successful transfer, the credit notification for the recipient. Rate
// limited commands get no reply; answering them would defeat the limit.
func (s *Service) dispatchNotifications(ctx context.Context, fromAddress string, outcome domain.Outcome) {
	if s.notifier == nil {
		return
	}
	if outcome.Type == domain.OutcomeFailed && outcome.Reason == domain.ReasonRateLimited {
		return
	}

	if err := s.notifier.Notify(ctx, fromAddress, outcome.ReplyMessage()); err != nil {
		log.Printf("level=warn component=ledger msg=\"reply notification failed\" to=%s err=%v", fromAddress, err)
	}

	if msg := outcome.RecipientMessage(); msg != "" && outcome.RecipientPhone != "" {
		if err := s.notifier.Notify(ctx, outcome.RecipientPhone, msg); err != nil {
			log.Printf("level=warn component=ledger msg=\"credit notification failed\" to=%s err=%v", outcome.RecipientPhone, err)
		}
	}
}
