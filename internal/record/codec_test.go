package record

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cmbank/corebank/internal/domain"
	"github.com/google/uuid"
)

func sampleAccount() domain.Account {
	a := domain.Account{
		Number:    10001,
		FullName:  "Chanda Mwansa",
		Balance:   123_456,
		Active:    true,
		CreatedAt: time.Unix(1_700_000_000, 0),
	}
	copy(a.PasswordHash[:], strings.Repeat("h", domain.DigestLength))
	copy(a.Salt[:], strings.Repeat("s", domain.SaltLength))
	return a
}

func TestAccountRoundTrip(t *testing.T) {
	want := sampleAccount()
	buf, err := EncodeAccount(&want)
	if err != nil {
		t.Fatal(err)
	}
	if len(buf) != AccountSize {
		t.Fatalf("encoded %d bytes, want %d", len(buf), AccountSize)
	}
	got, err := DecodeAccount(buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.Number != want.Number || got.FullName != want.FullName ||
		got.Balance != want.Balance || got.Active != want.Active {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
	if got.PasswordHash != want.PasswordHash || got.Salt != want.Salt {
		t.Fatal("credential fields did not survive the round trip")
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Fatalf("CreatedAt %v, want %v", got.CreatedAt, want.CreatedAt)
	}
}

func TestTransactionRoundTrip(t *testing.T) {
	want := domain.Transaction{
		ID:            uuid.New(),
		AccountNumber: 10001,
		Type:          domain.TxTransferSent,
		Amount:        5_000,
		BalanceAfter:  95_000,
		Timestamp:     time.Unix(1_700_000_000, 0).Truncate(time.Minute),
		Description:   "Transfer to account 10002 (Bwalya Zulu)",
	}
	buf, err := EncodeTransaction(&want)
	if err != nil {
		t.Fatal(err)
	}
	if len(buf) != TransactionSize {
		t.Fatalf("encoded %d bytes, want %d", len(buf), TransactionSize)
	}
	got, err := DecodeTransaction(buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != want.ID || got.AccountNumber != want.AccountNumber ||
		got.Type != want.Type || got.Amount != want.Amount ||
		got.BalanceAfter != want.BalanceAfter || got.Description != want.Description {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
	if !got.Timestamp.Equal(want.Timestamp) {
		t.Fatalf("Timestamp %v, want %v", got.Timestamp, want.Timestamp)
	}
}

func TestEncodeRejectsOverlongText(t *testing.T) {
	a := sampleAccount()
	a.FullName = strings.Repeat("x", domain.NameCapacity+1)
	if _, err := EncodeAccount(&a); !errors.Is(err, domain.ErrFieldTooLong) {
		t.Fatalf("want ErrFieldTooLong, got %v", err)
	}

	tx := domain.Transaction{
		ID:            uuid.New(),
		AccountNumber: 10001,
		Type:          domain.TxDeposit,
		Timestamp:     time.Unix(1_700_000_000, 0),
		Description:   strings.Repeat("x", domain.DescriptionCapacity+1),
	}
	if _, err := EncodeTransaction(&tx); !errors.Is(err, domain.ErrFieldTooLong) {
		t.Fatalf("want ErrFieldTooLong, got %v", err)
	}
}

func TestEncodeRejectsEmbeddedNUL(t *testing.T) {
	a := sampleAccount()
	a.FullName = "broken\x00name"
	if _, err := EncodeAccount(&a); !errors.Is(err, domain.ErrFieldTooLong) {
		t.Fatalf("want ErrFieldTooLong, got %v", err)
	}
}

func TestDecodeEmptySlot(t *testing.T) {
	if _, err := DecodeAccount(make([]byte, AccountSize)); !errors.Is(err, ErrEmptySlot) {
		t.Fatalf("want ErrEmptySlot, got %v", err)
	}
	if _, err := DecodeTransaction(make([]byte, TransactionSize)); !errors.Is(err, ErrEmptySlot) {
		t.Fatalf("want ErrEmptySlot, got %v", err)
	}
}

func TestDecodeGarbageDoesNotPanic(t *testing.T) {
	buf := make([]byte, AccountSize)
	for i := range buf {
		buf[i] = 0xFF
	}
	buf[0] = 0x01 // occupied marker, everything else garbage
	if _, err := DecodeAccount(buf); err != nil {
		t.Fatalf("garbage decode should still yield a value, got %v", err)
	}
}

func TestHeader(t *testing.T) {
	hdr := Header(AccountMagic)
	if err := CheckHeader(hdr, AccountMagic); err != nil {
		t.Fatal(err)
	}
	if err := CheckHeader(hdr, TransactionMagic); err == nil {
		t.Fatal("account header accepted for the transaction magic")
	}
	hdr[5] = 99
	if err := CheckHeader(hdr, AccountMagic); err == nil {
		t.Fatal("bad format version accepted")
	}
}
