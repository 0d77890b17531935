// Package record encodes the two fixed-width slot formats used by the
// account file and the transaction log. A record's position in a file is
// always HeaderSize + index*size, so the store can rewrite a slot in
// place without touching its neighbours.
package record

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/cmbank/corebank/internal/domain"
	"github.com/google/uuid"
)

// Each file starts with an 8-byte header: a 4-byte magic identifying the
// record kind, a 2-byte format version and 2 reserved bytes. The version
// lets a future layout change refuse old files instead of misreading them.
const (
	HeaderSize    = 8
	FormatVersion = 1
)

var (
	AccountMagic     = [4]byte{'C', 'B', 'K', 'A'}
	TransactionMagic = [4]byte{'C', 'B', 'K', 'T'}
)

// Slot sizes. Every slot begins with an occupancy byte so that a zeroed
// or torn region decodes as "empty" rather than as an account that
// happens not to match any lookup.
const (
	slotEmpty    = 0x00
	slotOccupied = 0x01

	// occupancy + name + number + digest + salt + balance + active + created
	AccountSize = 1 + domain.NameCapacity + 8 + domain.DigestLength + domain.SaltLength + 8 + 1 + 8

	// occupancy + id + number + type + amount + balanceAfter + timestamp + description
	TransactionSize = 1 + 16 + 8 + 1 + 8 + 8 + 8 + domain.DescriptionCapacity
)

// ErrEmptySlot marks a slot whose occupancy byte is clear. Callers skip
// such slots during scans.
var ErrEmptySlot = errors.New("record slot is empty")

// Header renders the file header for the given magic.
func Header(magic [4]byte) []byte {
	buf := make([]byte, HeaderSize)
	copy(buf[0:4], magic[:])
	binary.BigEndian.PutUint16(buf[4:6], FormatVersion)
	return buf
}

// CheckHeader validates a header read from disk.
func CheckHeader(buf []byte, magic [4]byte) error {
	if len(buf) < HeaderSize {
		return fmt.Errorf("short file header: %d bytes", len(buf))
	}
	if !bytes.Equal(buf[0:4], magic[:]) {
		return fmt.Errorf("bad file magic %q, want %q", buf[0:4], magic[:])
	}
	if v := binary.BigEndian.Uint16(buf[4:6]); v != FormatVersion {
		return fmt.Errorf("unsupported record format version %d, want %d", v, FormatVersion)
	}
	return nil
}

// putText copies s into a fixed-capacity field. Over-length or
// NUL-bearing text is rejected outright; silently truncating a name or a
// description would store something the caller never wrote.
func putText(dst []byte, s string) error {
	if len(s) > len(dst) {
		return fmt.Errorf("%w: %d bytes into %d", domain.ErrFieldTooLong, len(s), len(dst))
	}
	if bytes.IndexByte([]byte(s), 0x00) >= 0 {
		return fmt.Errorf("%w: embedded NUL", domain.ErrFieldTooLong)
	}
	copy(dst, s)
	return nil
}

// getText trims the zero padding off a fixed-capacity field.
func getText(src []byte) string {
	if i := bytes.IndexByte(src, 0x00); i >= 0 {
		return string(src[:i])
	}
	return string(src)
}

// EncodeAccount renders a into an AccountSize slot.
func EncodeAccount(a *domain.Account) ([]byte, error) {
	buf := make([]byte, AccountSize)
	buf[0] = slotOccupied
	off := 1
	if err := putText(buf[off:off+domain.NameCapacity], a.FullName); err != nil {
		return nil, fmt.Errorf("full name: %w", err)
	}
	off += domain.NameCapacity
	binary.BigEndian.PutUint64(buf[off:], uint64(a.Number))
	off += 8
	copy(buf[off:], a.PasswordHash[:])
	off += domain.DigestLength
	copy(buf[off:], a.Salt[:])
	off += domain.SaltLength
	binary.BigEndian.PutUint64(buf[off:], uint64(a.Balance))
	off += 8
	if a.Active {
		buf[off] = 1
	}
	off++
	binary.BigEndian.PutUint64(buf[off:], uint64(a.CreatedAt.Unix()))
	return buf, nil
}

// DecodeAccount parses an AccountSize slot. An unoccupied slot yields
// ErrEmptySlot; any other byte pattern decodes without panicking.
func DecodeAccount(buf []byte) (domain.Account, error) {
	var a domain.Account
	if len(buf) != AccountSize {
		return a, fmt.Errorf("account slot is %d bytes, want %d", len(buf), AccountSize)
	}
	if buf[0] != slotOccupied {
		return a, ErrEmptySlot
	}
	off := 1
	a.FullName = getText(buf[off : off+domain.NameCapacity])
	off += domain.NameCapacity
	a.Number = int64(binary.BigEndian.Uint64(buf[off:]))
	off += 8
	copy(a.PasswordHash[:], buf[off:])
	off += domain.DigestLength
	copy(a.Salt[:], buf[off:])
	off += domain.SaltLength
	a.Balance = int64(binary.BigEndian.Uint64(buf[off:]))
	off += 8
	a.Active = buf[off] == 1
	off++
	a.CreatedAt = time.Unix(int64(binary.BigEndian.Uint64(buf[off:])), 0)
	return a, nil
}

// EncodeTransaction renders t into a TransactionSize slot.
func EncodeTransaction(t *domain.Transaction) ([]byte, error) {
	if !t.Type.Valid() {
		return nil, fmt.Errorf("unknown transaction type %d", t.Type)
	}
	buf := make([]byte, TransactionSize)
	buf[0] = slotOccupied
	off := 1
	copy(buf[off:], t.ID[:])
	off += 16
	binary.BigEndian.PutUint64(buf[off:], uint64(t.AccountNumber))
	off += 8
	buf[off] = byte(t.Type)
	off++
	binary.BigEndian.PutUint64(buf[off:], uint64(t.Amount))
	off += 8
	binary.BigEndian.PutUint64(buf[off:], uint64(t.BalanceAfter))
	off += 8
	binary.BigEndian.PutUint64(buf[off:], uint64(t.Timestamp.Unix()))
	off += 8
	if err := putText(buf[off:off+domain.DescriptionCapacity], t.Description); err != nil {
		return nil, fmt.Errorf("description: %w", err)
	}
	return buf, nil
}

// DecodeTransaction parses a TransactionSize slot.
func DecodeTransaction(buf []byte) (domain.Transaction, error) {
	var t domain.Transaction
	if len(buf) != TransactionSize {
		return t, fmt.Errorf("transaction slot is %d bytes, want %d", len(buf), TransactionSize)
	}
	if buf[0] != slotOccupied {
		return t, ErrEmptySlot
	}
	off := 1
	t.ID = uuid.UUID(buf[off : off+16])
	off += 16
	t.AccountNumber = int64(binary.BigEndian.Uint64(buf[off:]))
	off += 8
	t.Type = domain.TransactionType(buf[off])
	off++
	t.Amount = int64(binary.BigEndian.Uint64(buf[off:]))
	off += 8
	t.BalanceAfter = int64(binary.BigEndian.Uint64(buf[off:]))
	off += 8
	t.Timestamp = time.Unix(int64(binary.BigEndian.Uint64(buf[off:])), 0)
	off += 8
	t.Description = getText(buf[off : off+domain.DescriptionCapacity])
	return t, nil
}
