package domain

import (
	"time"

	"github.com/google/uuid"
)

// Field capacities shared by the codec and input validation.
const (
	NameCapacity        = 50
	DescriptionCapacity = 100
	SaltLength          = 16
	DigestLength        = 32
)

// Account number bounds: the number is chosen by the customer at
// registration and must be 5 to 10 digits.
const (
	MinAccountNumber = 10_000
	MaxAccountNumber = 9_999_999_999
)

// Account is one customer record. Balance is held in minor units (e.g.
// cents) so all monetary arithmetic stays in integers.
type Account struct {
	Number       int64              `json:"account_number"`
	FullName     string             `json:"full_name"`
	PasswordHash [DigestLength]byte `json:"-"`
	Salt         [SaltLength]byte   `json:"-"`
	Balance      int64              `json:"balance"`
	Active       bool               `json:"active"`
	CreatedAt    time.Time          `json:"created_at"`
}

// TransactionType enumerates the ledger event kinds.
type TransactionType uint8

const (
	TxDeposit TransactionType = iota + 1
	TxWithdrawal
	TxTransferSent
	TxTransferReceived
	TxInterest
	TxAccountCreation
	TxPasswordChange
	TxAccountClosure
)

func (t TransactionType) String() string {
	switch t {
	case TxDeposit:
		return "DEPOSIT"
	case TxWithdrawal:
		return "WITHDRAWAL"
	case TxTransferSent:
		return "TRANSFER_SENT"
	case TxTransferReceived:
		return "TRANSFER_RECEIVED"
	case TxInterest:
		return "INTEREST"
	case TxAccountCreation:
		return "ACCOUNT_CREATION"
	case TxPasswordChange:
		return "PASSWORD_CHANGE"
	case TxAccountClosure:
		return "ACCOUNT_CLOSURE"
	}
	return "UNKNOWN"
}

// Valid reports whether t is a member of the enumeration.
func (t TransactionType) Valid() bool {
	return t >= TxDeposit && t <= TxAccountClosure
}

// Transaction is one immutable audit record. Amount carries the magnitude
// of the event; BalanceAfter snapshots the account balance immediately
// after it, so a statement can be reconstructed from the log alone.
type Transaction struct {
	ID            uuid.UUID       `json:"id"`
	AccountNumber int64           `json:"account_number"`
	Type          TransactionType `json:"type"`
	Amount        int64           `json:"amount"`
	BalanceAfter  int64           `json:"balance_after"`
	Timestamp     time.Time       `json:"timestamp"`
	Description   string          `json:"description"`
}

// NewTransaction stamps a fresh audit record. Timestamps are kept at
// minute resolution, matching the statement format.
func NewTransaction(account int64, typ TransactionType, amount, balanceAfter int64, description string) Transaction {
	return Transaction{
		ID:            uuid.New(),
		AccountNumber: account,
		Type:          typ,
		Amount:        amount,
		BalanceAfter:  balanceAfter,
		Timestamp:     time.Now().Truncate(time.Minute),
		Description:   description,
	}
}
