package store

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cmbank/corebank/internal/domain"
	"github.com/cmbank/corebank/internal/record"
)

// TransferBalances moves amount from one account record to another inside
// a single open of the accounts file:
//
//  1. one forward scan locates both records and their offsets, exiting
//     early once both are found;
//  2. validation (existence, active flags, funds) happens before any
//     write, so a validation failure leaves both records untouched;
//  3. the debit is written in place, then the credit;
//  4. if the credit write fails, a compensating write restores the
//     source's pre-debit record. If that compensating write also fails,
//     a *ConsistencyError is returned: the ledger is inconsistent and
//     the caller must surface it loudly.
//
// On success the sum of the two balances is unchanged. There is no
// durable intent record, so a crash between the two writes can still
// lose the invariant; that window is accepted by this engine's design.
func (s *AccountStore) TransferBalances(from, to, amount int64) error {
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}
	if from == to {
		return domain.ErrSelfTransfer
	}
	f, err := openChecked(s.path, record.AccountMagic, os.O_RDWR)
	if err != nil {
		return err
	}
	defer f.Close()

	fromAcct, toAcct, fromOff, toOff, err := locatePair(f, from, to)
	if err != nil {
		return err
	}
	if !fromAcct.Active || !toAcct.Active {
		return domain.ErrAccountClosed
	}
	if fromAcct.Balance < amount {
		return domain.ErrInsufficientFunds
	}

	preDebit := *fromAcct
	fromAcct.Balance -= amount
	toAcct.Balance += amount

	debitBuf, err := record.EncodeAccount(fromAcct)
	if err != nil {
		return err
	}
	creditBuf, err := record.EncodeAccount(toAcct)
	if err != nil {
		return err
	}
	restoreBuf, err := record.EncodeAccount(&preDebit)
	if err != nil {
		return err
	}

	if err := writeSlotAt(f, fromOff, debitBuf); err != nil {
		return fmt.Errorf("debit write: %w", err)
	}
	if creditErr := writeSlotAt(f, toOff, creditBuf); creditErr != nil {
		if rbErr := writeSlotAt(f, fromOff, restoreBuf); rbErr != nil {
			return &ConsistencyError{
				SourceAccount: from,
				DestAccount:   to,
				CreditErr:     creditErr,
				RollbackErr:   rbErr,
			}
		}
		return fmt.Errorf("credit write (debit rolled back): %w", creditErr)
	}
	return nil
}

// locatePair finds both records and their offsets in one pass.
func locatePair(f *os.File, from, to int64) (fromAcct, toAcct *domain.Account, fromOff, toOff int64, err error) {
	if _, err = f.Seek(record.HeaderSize, io.SeekStart); err != nil {
		err = fmt.Errorf("seek past header: %w", err)
		return
	}
	buf := make([]byte, record.AccountSize)
	offset := int64(record.HeaderSize)
	for fromAcct == nil || toAcct == nil {
		rerr := readSlot(f, buf)
		if rerr == io.EOF {
			err = domain.ErrAccountNotFound
			return
		}
		if rerr != nil {
			err = rerr
			return
		}
		acct, derr := record.DecodeAccount(buf)
		switch {
		case derr == nil && acct.Number == from:
			a := acct
			fromAcct, fromOff = &a, offset
		case derr == nil && acct.Number == to:
			a := acct
			toAcct, toOff = &a, offset
		case derr != nil && !errors.Is(derr, record.ErrEmptySlot):
			err = fmt.Errorf("decode account at offset %d: %w", offset, derr)
			return
		}
		offset += record.AccountSize
	}
	return
}
