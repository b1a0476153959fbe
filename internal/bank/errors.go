package bank

import (
	"fmt"

	"github.com/mteribeiro/cedro-bank/internal/model"
)

var (
	ErrInvalidBankName = fmt.Errorf("%w: bank name must not be empty", model.ErrFormat)
	ErrInvalidPassword = fmt.Errorf("%w: password must have exactly 6 digits", model.ErrFormat)

	ErrDuplicateClient  = fmt.Errorf("%w: client already registered", model.ErrBusinessRule)
	ErrDuplicateAccount = fmt.Errorf("%w: account already registered", model.ErrBusinessRule)
	ErrPasswordInUse    = fmt.Errorf("%w: password already linked to another account of this client", model.ErrBusinessRule)
	ErrClientNotFound   = fmt.Errorf("%w: no client registered under this CPF", model.ErrBusinessRule)
	ErrAccountNotFound  = fmt.Errorf("%w: no account associated with this password", model.ErrBusinessRule)
	ErrAccountActive    = fmt.Errorf("%w: account is already active", model.ErrBusinessRule)
	ErrBalanceNotZero   = fmt.Errorf("%w: cannot close an account with non-zero balance", model.ErrBusinessRule)

	ErrUnsignedToken = fmt.Errorf("%w: token was not signed by the bank", model.ErrSecurity)
	ErrCrossAccess   = fmt.Errorf("%w: cross-account access attempt detected", model.ErrSecurity)

	// Integrity errors indicate corrupted registries, never user mistakes.
	ErrMissingAssociation = fmt.Errorf("%w: client has no association entry", model.ErrIntegrity)
	ErrStaleToken         = fmt.Errorf("%w: token points to a non-existent account", model.ErrIntegrity)

	ErrAccountFrozen = fmt.Errorf("%w: account is frozen for security reasons", model.ErrLockout)
)
