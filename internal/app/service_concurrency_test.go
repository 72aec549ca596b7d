package app

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/buzzbank/ledger-service/internal/domain"
)

// TestConcurrentTransfers_ConserveTotalBalance hammers the engine with
// transfers between a small set of accounts from many goroutines and checks
// that the sum of all balances never changes and no balance goes negative.
func TestConcurrentTransfers_ConserveTotalBalance(t *testing.T) {
	repo := newMemRepo()
	cfg := testConfig()
	cfg.MaxTransferRetries = 10
	svc := NewService(repo, &verifierStub{}, nil, cfg)

	const holders = 4
	accounts := make([]*domain.Account, holders)
	for i := range accounts {
		accounts[i] = seededAccount(
			fmt.Sprintf("+23480000000%02d", i),
			fmt.Sprintf("100000000%02d", i),
			"1000.00",
		)
		repo.add(accounts[i])
	}
	initialTotal := repo.totalBalance()

	const workers = 8
	const transfersPerWorker = 25
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := 0; i < transfersPerWorker; i++ {
				from := accounts[(worker+i)%holders]
				to := accounts[(worker+i+1)%holders]
				text := fmt.Sprintf("TRANSFER 7.00 %s", to.AccountNumber)
				outcome := svc.HandleCommand(context.Background(), from.PhoneNumber, text)
				switch outcome.Type {
				case domain.OutcomeTransferred:
				case domain.OutcomeFailed:
					// Contention exhaustion and insufficient balance are
					// acceptable under load; anything else is a bug.
					if outcome.Reason != domain.ReasonContention && outcome.Reason != domain.ReasonInsufficientBalance {
						t.Errorf("unexpected failure reason %s", outcome.Reason)
					}
				default:
					t.Errorf("unexpected outcome type %s", outcome.Type)
				}
			}
		}(w)
	}
	wg.Wait()

	if total := repo.totalBalance(); !total.Equal(initialTotal) {
		t.Fatalf("total balance changed under concurrency: started %s, ended %s", initialTotal, total)
	}
	for _, account := range accounts {
		if repo.snapshot(account.ID).Balance.IsNegative() {
			t.Fatalf("account %s ended with a negative balance", account.AccountNumber)
		}
	}
}

// TestConcurrentTransfers_NoOverdraftUnderRace issues two simultaneous
// transfers that are each individually covered by the sender's balance but
// jointly exceed it. Exactly one may commit.
func TestConcurrentTransfers_NoOverdraftUnderRace(t *testing.T) {
	repo := newMemRepo()
	cfg := testConfig()
	cfg.MaxTransferRetries = 10
	svc := NewService(repo, &verifierStub{}, nil, cfg)

	sender := seededAccount("+2348000000001", "11111111111", "100.00")
	first := seededAccount("+2348000000002", "22222222222", "0.00")
	second := seededAccount("+2348000000003", "33333333333", "0.00")
	repo.add(sender)
	repo.add(first)
	repo.add(second)

	targets := []string{first.AccountNumber, second.AccountNumber}
	outcomes := make([]domain.Outcome, len(targets))
	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target string) {
			defer wg.Done()
			text := fmt.Sprintf("TRANSFER 60.00 %s", target)
			outcomes[i] = svc.HandleCommand(context.Background(), sender.PhoneNumber, text)
		}(i, target)
	}
	wg.Wait()

	succeeded := 0
	for _, outcome := range outcomes {
		if outcome.Type == domain.OutcomeTransferred {
			succeeded++
		} else if outcome.Reason != domain.ReasonInsufficientBalance && outcome.Reason != domain.ReasonContention {
			t.Fatalf("unexpected failure reason %s", outcome.Reason)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one of the racing transfers to commit, got %d", succeeded)
	}

	if !repo.snapshot(sender.ID).Balance.Equal(decimal.RequireFromString("40.00")) {
		t.Fatalf("expected sender balance 40.00 after the single commit, got %s", repo.snapshot(sender.ID).Balance)
	}
}
