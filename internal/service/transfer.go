package service

import (
	"errors"
	"fmt"
	"log"

	"github.com/cmbank/corebank/internal/domain"
	"github.com/cmbank/corebank/internal/store"
)

// TransferResult reports a committed transfer. AuditLost is set when the
// balance mutation committed but one of the two audit appends failed;
// the engine accepts audit record loss, never fund loss.
type TransferResult struct {
	SourceBalance int64
	DestBalance   int64
	AuditLost     bool
}

// Transfer moves amount between two accounts. Validation runs first (no
// state change on rejection); the two-record in-place update with its
// compensating rollback lives in the store; the two audit rows are
// appended only after the balances commit and sit outside the atomic
// region.
func (s *Service) Transfer(from, to, amount int64) (*TransferResult, error) {
	if err := s.checkAmount(amount); err != nil {
		return nil, err
	}
	if from == to {
		return nil, domain.ErrSelfTransfer
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	source, err := s.accounts.FindByNumber(from)
	if err != nil {
		return nil, err
	}
	dest, err := s.accounts.FindByNumber(to)
	if err != nil {
		return nil, err
	}

	if err := s.accounts.TransferBalances(from, to, amount); err != nil {
		var cerr *store.ConsistencyError
		if errors.As(err, &cerr) {
			// Failed rollback means the books no longer balance. Shout,
			// then propagate the typed error untouched.
			log.Printf("CONSISTENCY FAILURE: %v", cerr)
			return nil, err
		}
		return nil, err
	}

	result := &TransferResult{
		SourceBalance: source.Balance - amount,
		DestBalance:   dest.Balance + amount,
	}

	sent := domain.NewTransaction(from, domain.TxTransferSent, amount, result.SourceBalance,
		fmt.Sprintf("Transfer to account %d (%s)", to, dest.FullName))
	received := domain.NewTransaction(to, domain.TxTransferReceived, amount, result.DestBalance,
		fmt.Sprintf("Transfer from account %d (%s)", from, source.FullName))

	if err := s.ledger.Append(&sent); err != nil {
		log.Printf("audit record lost for transfer %d -> %d: %v", from, to, err)
		result.AuditLost = true
	}
	if err := s.ledger.Append(&received); err != nil {
		log.Printf("audit record lost for transfer %d -> %d: %v", from, to, err)
		result.AuditLost = true
	}
	return result, nil
}
