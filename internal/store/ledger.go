package store

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cmbank/corebank/internal/domain"
	"github.com/cmbank/corebank/internal/record"
)

// TransactionLog is the append-only audit trail. Records are never
// updated or deleted; ordering within the file is append order.
type TransactionLog struct {
	path string
}

// NewTransactionLog ensures the backing file exists with a valid header.
func NewTransactionLog(path string) (*TransactionLog, error) {
	if err := initFile(path, record.TransactionMagic); err != nil {
		return nil, err
	}
	return &TransactionLog{path: path}, nil
}

// Append writes one record at end-of-file. The log never seeks backward.
func (l *TransactionLog) Append(t *domain.Transaction) error {
	buf, err := record.EncodeTransaction(t)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", l.path, err)
	}
	defer f.Close()
	if _, err := f.Write(buf); err != nil {
		return fmt.Errorf("append transaction for account %d: %w", t.AccountNumber, err)
	}
	return f.Sync()
}

// FindByAccount scans the whole log and returns every record for number
// in file order, which is chronological as a side effect of append-only
// writes. The result is a snapshot materialized at call time.
func (l *TransactionLog) FindByAccount(number int64) ([]domain.Transaction, error) {
	f, err := openChecked(l.path, record.TransactionMagic, os.O_RDONLY)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if _, err := f.Seek(record.HeaderSize, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek past header: %w", err)
	}
	buf := make([]byte, record.TransactionSize)
	offset := int64(record.HeaderSize)
	var out []domain.Transaction
	for {
		err := readSlot(f, buf)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		tx, err := record.DecodeTransaction(buf)
		if err == nil && tx.AccountNumber == number {
			out = append(out, tx)
		}
		if err != nil && !errors.Is(err, record.ErrEmptySlot) {
			return nil, fmt.Errorf("decode transaction at offset %d: %w", offset, err)
		}
		offset += record.TransactionSize
	}
}
