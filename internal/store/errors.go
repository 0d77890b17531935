package store

import "fmt"

// ConsistencyError reports the one failure mode the engine cannot repair:
// a transfer debited the source, the credit write failed, and the
// compensating write restoring the source also failed. The ledger is left
// inconsistent and needs manual reconciliation, so this is surfaced as
// its own type rather than folded into an ordinary I/O error.
type ConsistencyError struct {
	SourceAccount int64
	DestAccount   int64
	CreditErr     error
	RollbackErr   error
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf(
		"ledger inconsistent: debit of account %d committed, credit of account %d failed (%v), rollback failed (%v); manual reconciliation required",
		e.SourceAccount, e.DestAccount, e.CreditErr, e.RollbackErr,
	)
}

func (e *ConsistencyError) Unwrap() error { return e.CreditErr }
