package model

import (
	"errors"
	"fmt"
)

// Error categories. Concrete sentinels wrap one of these so callers can
// classify any failure with errors.Is (e.g. to decide between a field
// re-prompt and a session teardown).
var (
	ErrFormat       = errors.New("format error")
	ErrSecurity     = errors.New("security error")
	ErrIntegrity    = errors.New("integrity error")
	ErrBusinessRule = errors.New("business rule error")
	ErrLockout      = errors.New("lockout error")
	ErrAborted      = errors.New("aborted by user")
)

var (
	// Account attribute errors
	ErrInvalidBranch        = fmt.Errorf("%w: branch code must have exactly 4 digits", ErrFormat)
	ErrInvalidAccountNumber = fmt.Errorf("%w: account number must have exactly 8 digits", ErrFormat)
	ErrInvalidBalance       = fmt.Errorf("%w: opening balance must be a non-negative amount", ErrFormat)
	ErrUnknownAccountType   = fmt.Errorf("%w: unknown account type", ErrFormat)

	// Account operation errors
	ErrInvalidDeposit    = fmt.Errorf("%w: deposit must be at least 0.50", ErrBusinessRule)
	ErrInvalidWithdrawal = fmt.Errorf("%w: withdrawal must be at least 0.50 and within available funds", ErrBusinessRule)

	// Person attribute errors
	ErrInvalidName      = fmt.Errorf("%w: name must have at least three letters and no surrounding spaces", ErrFormat)
	ErrInvalidBirthDate = fmt.Errorf("%w: birth date must be dd/mm/yyyy and age between 18 and 120", ErrFormat)
	ErrInvalidCPF       = fmt.Errorf("%w: CPF must be 11 digits with valid verifier digits", ErrFormat)

	// Client wallet errors
	ErrDuplicateCard = fmt.Errorf("%w: card already in the client's wallet", ErrBusinessRule)
	ErrCardNotFound  = fmt.Errorf("%w: card not found in the client's wallet", ErrBusinessRule)
)
