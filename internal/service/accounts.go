package service

import (
	"errors"
	"fmt"
	"log"
	"time"
	"unicode"

	"github.com/cmbank/corebank/internal/cred"
	"github.com/cmbank/corebank/internal/domain"
)

// Register creates a new account with a user-chosen number and an
// optional initial deposit. All validation happens before any write.
func (s *Service) Register(fullName string, number int64, password string, initialDeposit int64) (*domain.Account, error) {
	if len(fullName) < 2 || len(fullName) > domain.NameCapacity {
		return nil, fmt.Errorf("%w: name must be 2 to %d characters", domain.ErrFieldTooLong, domain.NameCapacity)
	}
	if number < domain.MinAccountNumber || number > domain.MaxAccountNumber {
		return nil, domain.ErrBadAccountNumber
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if initialDeposit < 0 {
		return nil, domain.ErrInvalidAmount
	}
	if initialDeposit > s.params.MaxTxAmount {
		return nil, domain.ErrAmountTooLarge
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.accounts.FindByNumber(number); err == nil {
		return nil, domain.ErrDuplicateAccount
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}

	salt, err := cred.NewSalt()
	if err != nil {
		return nil, err
	}
	acct := &domain.Account{
		Number:       number,
		FullName:     fullName,
		PasswordHash: cred.Digest(password, salt),
		Salt:         salt,
		Balance:      initialDeposit,
		Active:       true,
		CreatedAt:    time.Now().Truncate(time.Second),
	}
	if err := s.accounts.Create(acct); err != nil {
		return nil, err
	}
	s.audit(number, domain.TxAccountCreation, initialDeposit, initialDeposit, "Account created with initial deposit")
	return acct, nil
}

// Login verifies the credentials and returns a Session snapshot. A
// closed account fails exactly like a wrong password, so login gives no
// oracle for account existence or state.
func (s *Service) Login(number int64, password string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, err := s.accounts.FindByNumber(number)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !acct.Active || !cred.Verify(password, acct.Salt, acct.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return &Session{Account: *acct, IssuedAt: time.Now()}, nil
}

// Account returns the current snapshot for number.
func (s *Service) Account(number int64) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts.FindByNumber(number)
}

// Deposit adds amount to the account and appends a DEPOSIT record.
// Returns the new balance.
func (s *Service) Deposit(number, amount int64) (int64, error) {
	if err := s.checkAmount(amount); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, err := s.accounts.FindByNumber(number)
	if err != nil {
		return 0, err
	}
	if !acct.Active {
		return 0, domain.ErrAccountClosed
	}
	newBalance := acct.Balance + amount
	if err := s.accounts.UpdateBalance(number, newBalance); err != nil {
		return 0, err
	}
	s.audit(number, domain.TxDeposit, amount, newBalance, "Cash deposit")
	return newBalance, nil
}

// Withdraw removes amount from the account and appends a WITHDRAWAL
// record. Returns the new balance.
func (s *Service) Withdraw(number, amount int64) (int64, error) {
	if err := s.checkAmount(amount); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, err := s.accounts.FindByNumber(number)
	if err != nil {
		return 0, err
	}
	if !acct.Active {
		return 0, domain.ErrAccountClosed
	}
	if acct.Balance < amount {
		return 0, domain.ErrInsufficientFunds
	}
	newBalance := acct.Balance - amount
	if err := s.accounts.UpdateBalance(number, newBalance); err != nil {
		return 0, err
	}
	s.audit(number, domain.TxWithdrawal, amount, newBalance, "Cash withdrawal")
	return newBalance, nil
}

// ChangePassword verifies the current password, then stores a fresh salt
// and digest for the new one.
func (s *Service) ChangePassword(number int64, current, next string) error {
	if err := validatePassword(next); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, err := s.accounts.FindByNumber(number)
	if err != nil {
		return err
	}
	if !acct.Active {
		return domain.ErrAccountClosed
	}
	if !cred.Verify(current, acct.Salt, acct.PasswordHash) {
		return domain.ErrInvalidCredentials
	}
	if err := s.accounts.UpdatePassword(number, next); err != nil {
		return err
	}
	s.audit(number, domain.TxPasswordChange, 0, acct.Balance, "Password changed")
	return nil
}

// Close permanently deactivates the account. The balance must already be
// zero and the password must verify; the record is retained.
func (s *Service) Close(number int64, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, err := s.accounts.FindByNumber(number)
	if err != nil {
		return err
	}
	if !acct.Active {
		return domain.ErrAccountClosed
	}
	if !cred.Verify(password, acct.Salt, acct.PasswordHash) {
		return domain.ErrInvalidCredentials
	}
	if acct.Balance != 0 {
		return domain.ErrNonZeroBalance
	}
	if err := s.accounts.SetActive(number, false); err != nil {
		return err
	}
	s.audit(number, domain.TxAccountClosure, 0, 0, "Account closed permanently")
	return nil
}

// ApplyMonthlyInterest credits every active account with a positive
// balance in one sweep over the file, half-up integer rounding, and
// appends an INTEREST record per credited account. Returns the number of
// accounts credited.
func (s *Service) ApplyMonthlyInterest() (int, error) {
	bp := s.params.InterestBasisPoints
	s.mu.Lock()
	defer s.mu.Unlock()

	var credits []int64
	applied, err := s.accounts.SweepActive(func(a *domain.Account) (int64, bool) {
		if a.Balance <= 0 || bp <= 0 {
			return 0, false
		}
		interest := (a.Balance*bp + 5_000) / 10_000
		if interest == 0 {
			return 0, false
		}
		credits = append(credits, interest)
		return a.Balance + interest, true
	})
	// credits and applied run in lockstep; a mid-sweep write failure cuts
	// applied short, so only audit what actually committed.
	for i := range applied {
		a := &applied[i]
		s.audit(a.Number, domain.TxInterest, credits[i], a.Balance, "Monthly interest credit")
	}
	return len(applied), err
}

// Statement bundles the account snapshot with its full transaction
// history in chronological order.
type Statement struct {
	Account      domain.Account       `json:"account"`
	Transactions []domain.Transaction `json:"transactions"`
	GeneratedAt  time.Time            `json:"generated_at"`
}

// History returns the account's transactions in file (chronological) order.
func (s *Service) History(number int64) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.accounts.FindByNumber(number); err != nil {
		return nil, err
	}
	return s.ledger.FindByAccount(number)
}

// BuildStatement assembles the data for a statement; rendering is the
// caller's concern.
func (s *Service) BuildStatement(number int64) (*Statement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, err := s.accounts.FindByNumber(number)
	if err != nil {
		return nil, err
	}
	txs, err := s.ledger.FindByAccount(number)
	if err != nil {
		return nil, err
	}
	return &Statement{Account: *acct, Transactions: txs, GeneratedAt: time.Now()}, nil
}

// audit appends one ledger record. Audit rows sit outside the balance
// mutation, so a failed append loses an audit entry, never funds; it is
// logged rather than undoing the state change.
func (s *Service) audit(number int64, typ domain.TransactionType, amount, balanceAfter int64, description string) {
	tx := domain.NewTransaction(number, typ, amount, balanceAfter, description)
	if err := s.ledger.Append(&tx); err != nil {
		log.Printf("audit record lost for account %d (%s): %v", number, typ, err)
	}
}

// validatePassword enforces the registration policy: at least 8
// characters with both letters and digits.
func validatePassword(password string) error {
	if len(password) < 8 {
		return domain.ErrWeakPassword
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return domain.ErrWeakPassword
	}
	return nil
}
