package store

import (
	"path/filepath"
	"testing"

	"github.com/cmbank/corebank/internal/domain"
)

func newTestLog(t *testing.T) *TransactionLog {
	t.Helper()
	l, err := NewTransactionLog(filepath.Join(t.TempDir(), "transactions.db"))
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func TestAppendAndFindByAccount(t *testing.T) {
	l := newTestLog(t)

	events := []struct {
		account int64
		typ     domain.TransactionType
		amount  int64
		after   int64
	}{
		{10001, domain.TxAccountCreation, 0, 0},
		{10001, domain.TxDeposit, 10_000, 10_000},
		{10002, domain.TxAccountCreation, 500, 500},
		{10001, domain.TxWithdrawal, 2_500, 7_500},
	}
	for _, e := range events {
		tx := domain.NewTransaction(e.account, e.typ, e.amount, e.after, "test event")
		if err := l.Append(&tx); err != nil {
			t.Fatal(err)
		}
	}

	got, err := l.FindByAccount(10001)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3", len(got))
	}
	// File order is append order.
	wantTypes := []domain.TransactionType{domain.TxAccountCreation, domain.TxDeposit, domain.TxWithdrawal}
	for i, tx := range got {
		if tx.Type != wantTypes[i] {
			t.Fatalf("record %d type %s, want %s", i, tx.Type, wantTypes[i])
		}
		if tx.AccountNumber != 10001 {
			t.Fatalf("record %d for account %d", i, tx.AccountNumber)
		}
	}
	if got[1].BalanceAfter != 10_000 || got[2].BalanceAfter != 7_500 {
		t.Fatal("balance-after snapshots wrong")
	}
}

func TestFindByAccountEmpty(t *testing.T) {
	l := newTestLog(t)
	got, err := l.FindByAccount(10001)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no records, got %d", len(got))
	}
}
