// Package service composes the storage engine into the user-visible
// banking operations. The storage layer's scan-then-write sequence is a
// check-then-act race if exposed to concurrent callers, so a single
// mutex serializes every operation here. That mutex is the explicit
// single-writer boundary the engine's design requires.
package service

import (
	"sync"
	"time"

	"github.com/cmbank/corebank/internal/domain"
	"github.com/cmbank/corebank/internal/store"
)

// Params carries the business limits, all in integer terms.
type Params struct {
	// MaxTxAmount caps any single deposit, withdrawal or transfer,
	// in minor units.
	MaxTxAmount int64
	// InterestBasisPoints is the monthly interest rate in hundredths
	// of a percent (150 = 1.5%).
	InterestBasisPoints int64
}

// Service owns the two stores and the write lock.
type Service struct {
	mu       sync.Mutex
	accounts *store.AccountStore
	ledger   *store.TransactionLog
	params   Params
}

func New(accounts *store.AccountStore, ledger *store.TransactionLog, params Params) *Service {
	return &Service{accounts: accounts, ledger: ledger, params: params}
}

// Session is the authenticated view handed back by Login. It replaces
// any notion of process-wide "current user" state: callers hold the
// value and pass the account number into each operation explicitly.
type Session struct {
	Account  domain.Account
	IssuedAt time.Time
}

// checkAmount applies the shared positive-and-under-limit rule.
func (s *Service) checkAmount(amount int64) error {
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}
	if amount > s.params.MaxTxAmount {
		return domain.ErrAmountTooLarge
	}
	return nil
}
