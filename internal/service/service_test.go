package service

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/cmbank/corebank/internal/domain"
	"github.com/cmbank/corebank/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()
	accounts, err := store.NewAccountStore(filepath.Join(dir, "accounts.db"))
	if err != nil {
		t.Fatal(err)
	}
	ledger, err := store.NewTransactionLog(filepath.Join(dir, "transactions.db"))
	if err != nil {
		t.Fatal(err)
	}
	return New(accounts, ledger, Params{
		MaxTxAmount:         100_000_000,
		InterestBasisPoints: 150,
	})
}

func register(t *testing.T, s *Service, number, initial int64) {
	t.Helper()
	if _, err := s.Register("Test Customer", number, "password1", initial); err != nil {
		t.Fatalf("register %d: %v", number, err)
	}
}

// TestBankingScenario runs the canonical end-to-end flow: open an
// account, deposit, bounce an over-balance withdrawal, transfer half
// away, then fail to close while funds remain.
func TestBankingScenario(t *testing.T) {
	s := newTestService(t)

	register(t, s, 10001, 0)
	register(t, s, 10002, 0)

	balance, err := s.Deposit(10001, 10_000) // 100.00
	if err != nil {
		t.Fatal(err)
	}
	if balance != 10_000 {
		t.Fatalf("balance=%d want=10000", balance)
	}

	if _, err := s.Withdraw(10001, 15_000); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds, got %v", err)
	}
	acct, err := s.Account(10001)
	if err != nil {
		t.Fatal(err)
	}
	if acct.Balance != 10_000 {
		t.Fatalf("failed withdrawal changed balance to %d", acct.Balance)
	}

	result, err := s.Transfer(10001, 10002, 5_000)
	if err != nil {
		t.Fatal(err)
	}
	if result.SourceBalance != 5_000 || result.DestBalance != 5_000 {
		t.Fatalf("transfer result %+v", result)
	}
	if result.AuditLost {
		t.Fatal("audit records lost on healthy transfer")
	}

	if err := s.Close(10001, "password1"); !errors.Is(err, domain.ErrNonZeroBalance) {
		t.Fatalf("close with funds should fail: %v", err)
	}

	// Drain and close for real.
	if _, err := s.Withdraw(10001, 5_000); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(10001, "password1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Login(10001, "password1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("closed account logged in: %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	s := newTestService(t)

	if _, err := s.Register("X", 10001, "password1", 0); err == nil {
		t.Fatal("one-character name accepted")
	}
	if _, err := s.Register("Test", 9_999, "password1", 0); !errors.Is(err, domain.ErrBadAccountNumber) {
		t.Fatalf("4-digit account number accepted: %v", err)
	}
	if _, err := s.Register("Test", 10001, "short1", 0); !errors.Is(err, domain.ErrWeakPassword) {
		t.Fatalf("short password accepted: %v", err)
	}
	if _, err := s.Register("Test", 10001, "lettersonly", 0); !errors.Is(err, domain.ErrWeakPassword) {
		t.Fatalf("digitless password accepted: %v", err)
	}
	if _, err := s.Register("Test", 10001, "12345678", 0); !errors.Is(err, domain.ErrWeakPassword) {
		t.Fatalf("letterless password accepted: %v", err)
	}

	register(t, s, 10001, 0)
	if _, err := s.Register("Test", 10001, "password1", 0); !errors.Is(err, domain.ErrDuplicateAccount) {
		t.Fatalf("duplicate number accepted: %v", err)
	}
}

func TestLogin(t *testing.T) {
	s := newTestService(t)
	register(t, s, 10001, 0)

	sess, err := s.Login(10001, "password1")
	if err != nil {
		t.Fatal(err)
	}
	if sess.Account.Number != 10001 {
		t.Fatalf("session for account %d", sess.Account.Number)
	}

	if _, err := s.Login(10001, "wrongpass1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: %v", err)
	}
	// Unknown accounts fail identically, no existence oracle.
	if _, err := s.Login(99999, "password1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown account: %v", err)
	}
}

func TestPasswordChangeRotatesSalt(t *testing.T) {
	s := newTestService(t)
	register(t, s, 10001, 0)

	before, err := s.Account(10001)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.ChangePassword(10001, "wrongpass1", "password2"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong current password accepted: %v", err)
	}
	if err := s.ChangePassword(10001, "password1", "password2"); err != nil {
		t.Fatal(err)
	}
	mid, err := s.Account(10001)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.ChangePassword(10001, "password2", "password3"); err != nil {
		t.Fatal(err)
	}
	after, err := s.Account(10001)
	if err != nil {
		t.Fatal(err)
	}

	// Two sequential changes: two fresh salts, two distinct digests.
	if mid.Salt == before.Salt || after.Salt == mid.Salt {
		t.Fatal("salt not rotated on password change")
	}
	if mid.PasswordHash == before.PasswordHash || after.PasswordHash == mid.PasswordHash {
		t.Fatal("digest not changed on password change")
	}

	if _, err := s.Login(10001, "password3"); err != nil {
		t.Fatalf("latest password rejected: %v", err)
	}
	if _, err := s.Login(10001, "password1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatal("stale password still accepted")
	}
}

func TestTransferGuards(t *testing.T) {
	s := newTestService(t)
	register(t, s, 10001, 10_000)
	register(t, s, 10002, 0)

	if _, err := s.Transfer(10001, 10001, 500); !errors.Is(err, domain.ErrSelfTransfer) {
		t.Fatalf("self transfer accepted: %v", err)
	}
	if _, err := s.Transfer(10001, 99999, 500); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("transfer to missing account: %v", err)
	}
	if _, err := s.Transfer(10001, 10002, 200_000_000); !errors.Is(err, domain.ErrAmountTooLarge) {
		t.Fatalf("over-limit transfer accepted: %v", err)
	}

	if err := s.Close(10002, "password1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Transfer(10001, 10002, 500); !errors.Is(err, domain.ErrAccountClosed) {
		t.Fatalf("transfer to closed account accepted: %v", err)
	}
}

func TestApplyMonthlyInterest(t *testing.T) {
	s := newTestService(t)
	register(t, s, 10001, 10_000) // 1.5% -> +150
	register(t, s, 10002, 0)      // zero balance, skipped
	register(t, s, 10003, 10)     // 1.5% of 10 rounds to 0, skipped

	credited, err := s.ApplyMonthlyInterest()
	if err != nil {
		t.Fatal(err)
	}
	if credited != 1 {
		t.Fatalf("credited %d accounts, want 1", credited)
	}

	acct, err := s.Account(10001)
	if err != nil {
		t.Fatal(err)
	}
	if acct.Balance != 10_150 {
		t.Fatalf("balance=%d want=10150", acct.Balance)
	}

	history, err := s.History(10001)
	if err != nil {
		t.Fatal(err)
	}
	last := history[len(history)-1]
	if last.Type != domain.TxInterest || last.Amount != 150 || last.BalanceAfter != 10_150 {
		t.Fatalf("interest audit record %+v", last)
	}
}

func TestAuditTrail(t *testing.T) {
	s := newTestService(t)
	register(t, s, 10001, 2_500)
	if _, err := s.Deposit(10001, 1_000); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Withdraw(10001, 500); err != nil {
		t.Fatal(err)
	}

	history, err := s.History(10001)
	if err != nil {
		t.Fatal(err)
	}
	wantTypes := []domain.TransactionType{
		domain.TxAccountCreation,
		domain.TxDeposit,
		domain.TxWithdrawal,
	}
	if len(history) != len(wantTypes) {
		t.Fatalf("got %d records, want %d", len(history), len(wantTypes))
	}
	for i, tx := range history {
		if tx.Type != wantTypes[i] {
			t.Fatalf("record %d type %s, want %s", i, tx.Type, wantTypes[i])
		}
	}
	if history[2].BalanceAfter != 3_000 {
		t.Fatalf("final balance snapshot %d, want 3000", history[2].BalanceAfter)
	}
}

func TestStatement(t *testing.T) {
	s := newTestService(t)
	register(t, s, 10001, 2_500)
	if _, err := s.Deposit(10001, 1_000); err != nil {
		t.Fatal(err)
	}

	st, err := s.BuildStatement(10001)
	if err != nil {
		t.Fatal(err)
	}
	if st.Account.Number != 10001 || st.Account.Balance != 3_500 {
		t.Fatalf("statement account %+v", st.Account)
	}
	if len(st.Transactions) != 2 {
		t.Fatalf("statement has %d transactions, want 2", len(st.Transactions))
	}
}
