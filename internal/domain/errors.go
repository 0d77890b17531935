package domain

import "errors"

// Sentinel errors form the failure taxonomy shared by the store, the
// services and the API layer. Storage I/O failures are not sentinels:
// they are wrapped os errors and must be treated as "the mutation may or
// may not have taken effect".
var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrDuplicateAccount   = errors.New("account number already in use")
	ErrAccountClosed      = errors.New("account is closed")
	ErrInvalidCredentials = errors.New("invalid account number or password")
	ErrSelfTransfer       = errors.New("cannot transfer to the same account")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrAmountTooLarge     = errors.New("amount exceeds the per-transaction limit")
	ErrNonZeroBalance     = errors.New("account balance must be zero")
	ErrWeakPassword       = errors.New("password must be at least 8 characters with both letters and digits")
	ErrBadAccountNumber   = errors.New("account number must be 5 to 10 digits")
	ErrFieldTooLong       = errors.New("field exceeds its fixed capacity")
)
