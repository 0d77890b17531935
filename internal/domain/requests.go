package domain

// Request payloads for the HTTP surface. Monetary amounts arrive as
// decimal strings ("100.00") and are converted to minor units by the
// handlers; the services only ever see integers.

type RegisterRequest struct {
	FullName       string `json:"full_name" validate:"required,min=2,max=50"`
	AccountNumber  int64  `json:"account_number" validate:"required"`
	Password       string `json:"password" validate:"required,min=8,max=72"`
	InitialDeposit string `json:"initial_deposit" validate:"omitempty"`
}

type LoginRequest struct {
	AccountNumber int64  `json:"account_number" validate:"required"`
	Password      string `json:"password" validate:"required"`
}

type AmountRequest struct {
	Amount string `json:"amount" validate:"required"`
}

type TransferRequest struct {
	ToAccountNumber int64  `json:"to_account_number" validate:"required"`
	Amount          string `json:"amount" validate:"required"`
}

type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

type CloseRequest struct {
	Password string `json:"password" validate:"required"`
}
