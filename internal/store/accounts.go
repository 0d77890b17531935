package store

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cmbank/corebank/internal/cred"
	"github.com/cmbank/corebank/internal/domain"
	"github.com/cmbank/corebank/internal/record"
)

// AccountStore holds customer records in fixed-size slots. Lookups are a
// linear scan from the start of the file; mutations locate the slot by
// scan and rewrite the whole record in place. Each operation opens,
// uses and closes its own handle.
type AccountStore struct {
	path string
}

// NewAccountStore ensures the backing file exists with a valid header.
func NewAccountStore(path string) (*AccountStore, error) {
	if err := initFile(path, record.AccountMagic); err != nil {
		return nil, err
	}
	return &AccountStore{path: path}, nil
}

// Create appends one account record. Uniqueness of the account number is
// the caller's responsibility (pre-check with FindByNumber); the store
// itself only appends.
func (s *AccountStore) Create(a *domain.Account) error {
	buf, err := record.EncodeAccount(a)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()
	if _, err := f.Write(buf); err != nil {
		return fmt.Errorf("append account %d: %w", a.Number, err)
	}
	return f.Sync()
}

// FindByNumber returns the first record matching number, scanning from
// the start of the file. O(n) in record count.
func (s *AccountStore) FindByNumber(number int64) (*domain.Account, error) {
	f, err := openChecked(s.path, record.AccountMagic, os.O_RDONLY)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	acct, _, err := scanLocate(f, number)
	if err != nil {
		return nil, err
	}
	return acct, nil
}

// scanLocate walks the slots looking for number, returning the decoded
// record and its byte offset. Empty slots are skipped.
func scanLocate(f *os.File, number int64) (*domain.Account, int64, error) {
	if _, err := f.Seek(record.HeaderSize, io.SeekStart); err != nil {
		return nil, 0, fmt.Errorf("seek past header: %w", err)
	}
	buf := make([]byte, record.AccountSize)
	offset := int64(record.HeaderSize)
	for {
		err := readSlot(f, buf)
		if err == io.EOF {
			return nil, 0, domain.ErrAccountNotFound
		}
		if err != nil {
			return nil, 0, err
		}
		acct, err := record.DecodeAccount(buf)
		if err == nil && acct.Number == number {
			return &acct, offset, nil
		}
		if err != nil && !errors.Is(err, record.ErrEmptySlot) {
			return nil, 0, fmt.Errorf("decode account at offset %d: %w", offset, err)
		}
		offset += record.AccountSize
	}
}

// rewrite locates the record for number, applies mutate to it and writes
// the updated record back at the same offset. A closed account is
// rejected unless allowClosed is set (only the closure operation itself
// may touch one).
func (s *AccountStore) rewrite(number int64, allowClosed bool, mutate func(*domain.Account) error) error {
	f, err := openChecked(s.path, record.AccountMagic, os.O_RDWR)
	if err != nil {
		return err
	}
	defer f.Close()

	acct, offset, err := scanLocate(f, number)
	if err != nil {
		return err
	}
	if !acct.Active && !allowClosed {
		return domain.ErrAccountClosed
	}
	if err := mutate(acct); err != nil {
		return err
	}
	buf, err := record.EncodeAccount(acct)
	if err != nil {
		return err
	}
	return writeSlotAt(f, offset, buf)
}

// UpdateBalance overwrites the balance of the record for number, leaving
// every other field untouched. Committed balances are never negative.
func (s *AccountStore) UpdateBalance(number, newBalance int64) error {
	if newBalance < 0 {
		return fmt.Errorf("%w: balance %d", domain.ErrInvalidAmount, newBalance)
	}
	return s.rewrite(number, false, func(a *domain.Account) error {
		a.Balance = newBalance
		return nil
	})
}

// UpdatePassword stores a fresh salt and digest for the new plaintext.
func (s *AccountStore) UpdatePassword(number int64, newPlaintext string) error {
	salt, err := cred.NewSalt()
	if err != nil {
		return err
	}
	digest := cred.Digest(newPlaintext, salt)
	return s.rewrite(number, false, func(a *domain.Account) error {
		a.Salt = salt
		a.PasswordHash = digest
		return nil
	})
}

// SetActive flips the active flag. Closure is permanent: a closed
// account can never be reactivated.
func (s *AccountStore) SetActive(number int64, active bool) error {
	return s.rewrite(number, true, func(a *domain.Account) error {
		if active && !a.Active {
			return domain.ErrAccountClosed
		}
		a.Active = active
		return nil
	})
}

// SweepActive walks every occupied slot in one pass, calls apply on each
// active account, and rewrites the balance in place where apply returns
// a new balance. It returns the post-update snapshots of the accounts it
// changed, so the caller can append audit records for each.
func (s *AccountStore) SweepActive(apply func(a *domain.Account) (newBalance int64, changed bool)) ([]domain.Account, error) {
	f, err := openChecked(s.path, record.AccountMagic, os.O_RDWR)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if _, err := f.Seek(record.HeaderSize, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek past header: %w", err)
	}
	buf := make([]byte, record.AccountSize)
	offset := int64(record.HeaderSize)
	var updated []domain.Account
	for {
		err := readSlot(f, buf)
		if err == io.EOF {
			return updated, nil
		}
		if err != nil {
			return updated, err
		}
		acct, err := record.DecodeAccount(buf)
		if err == nil && acct.Active {
			if newBalance, changed := apply(&acct); changed {
				acct.Balance = newBalance
				out, err := record.EncodeAccount(&acct)
				if err != nil {
					return updated, err
				}
				if err := writeSlotAt(f, offset, out); err != nil {
					return updated, err
				}
				// WriteAt leaves the read cursor where it was.
				updated = append(updated, acct)
			}
		}
		if err != nil && !errors.Is(err, record.ErrEmptySlot) {
			return updated, fmt.Errorf("decode account at offset %d: %w", offset, err)
		}
		offset += record.AccountSize
	}
}
