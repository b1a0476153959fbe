package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AccountType discriminates the account variants. The set is closed:
// every operation switches exhaustively over it.
type AccountType string

const (
	AccountTypeSavings  AccountType = "savings"
	AccountTypeChecking AccountType = "checking"
)

// DefaultCreditLimit is the fixed overdraft line granted to checking accounts.
var DefaultCreditLimit = decimal.RequireFromString("3000.00")

// minOperation is the smallest amount accepted for a deposit or withdrawal.
var minOperation = decimal.RequireFromString("0.5")

// AccountKey is the identity of an account inside a bank: branch code plus
// account number. Registries are keyed by it; never by full-object equality.
type AccountKey struct {
	BranchCode    string
	AccountNumber string
}

func (k AccountKey) String() string {
	return fmt.Sprintf("%s/%s", k.BranchCode, k.AccountNumber)
}

// LimitUse reports whether an authorized withdrawal would draw on the
// overdraft line. It is undefined for unauthorized withdrawals.
type LimitUse int

const (
	LimitUndefined LimitUse = iota
	LimitNotNeeded
	LimitNeeded
)

// WithdrawalCheck is the non-mutating pre-check result for a withdrawal.
// Callers use it to solicit overdraft confirmation before committing.
type WithdrawalCheck struct {
	Authorized bool
	UsesLimit  LimitUse
}

// Account is a bank account. The checking variant carries a fixed credit
// line; UsedCredit is derived from the balance and is zero for savings.
type Account struct {
	Type          AccountType
	BranchCode    string
	AccountNumber string

	balance      decimal.Decimal
	transactions []decimal.Decimal
	active       bool

	creditLimit decimal.Decimal
	usedCredit  decimal.Decimal
}

// NewAccount creates an account of the given type with a validated identity
// and a non-negative opening balance. A positive opening balance is recorded
// as the first transaction.
func NewAccount(typ AccountType, branchCode, accountNumber string, opening decimal.Decimal) (*Account, error) {
	switch typ {
	case AccountTypeSavings, AccountTypeChecking:
	default:
		return nil, ErrUnknownAccountType
	}
	if !IsDigits(branchCode, 4) {
		return nil, ErrInvalidBranch
	}
	if !IsDigits(accountNumber, 8) {
		return nil, ErrInvalidAccountNumber
	}
	if opening.IsNegative() {
		return nil, ErrInvalidBalance
	}

	a := &Account{
		Type:          typ,
		BranchCode:    branchCode,
		AccountNumber: accountNumber,
		balance:       opening,
		active:        true,
	}
	if opening.IsPositive() {
		a.transactions = append(a.transactions, opening)
	}
	if typ == AccountTypeChecking {
		a.creditLimit = DefaultCreditLimit
	}
	return a, nil
}

// RestoreAccount rebuilds an account from persisted state. The identity is
// re-validated; balance, history, status and credit usage are taken as-is.
func RestoreAccount(typ AccountType, branchCode, accountNumber string, balance decimal.Decimal, transactions []decimal.Decimal, active bool, creditLimit, usedCredit decimal.Decimal) (*Account, error) {
	switch typ {
	case AccountTypeSavings, AccountTypeChecking:
	default:
		return nil, ErrUnknownAccountType
	}
	if !IsDigits(branchCode, 4) {
		return nil, ErrInvalidBranch
	}
	if !IsDigits(accountNumber, 8) {
		return nil, ErrInvalidAccountNumber
	}
	a := &Account{
		Type:          typ,
		BranchCode:    branchCode,
		AccountNumber: accountNumber,
		balance:       balance,
		transactions:  append([]decimal.Decimal(nil), transactions...),
		active:        active,
	}
	if typ == AccountTypeChecking {
		a.creditLimit = creditLimit
		a.usedCredit = usedCredit
	}
	return a, nil
}

// Key returns the account's registry identity.
func (a *Account) Key() AccountKey {
	return AccountKey{BranchCode: a.BranchCode, AccountNumber: a.AccountNumber}
}

// Balance returns the current balance.
func (a *Account) Balance() decimal.Decimal {
	return a.balance
}

// Active reports whether the account is operational (not frozen).
func (a *Account) Active() bool {
	return a.active
}

// CreditLimit returns the overdraft line; zero for savings accounts.
func (a *Account) CreditLimit() decimal.Decimal {
	return a.creditLimit
}

// UsedCredit returns the drawn portion of the overdraft line.
func (a *Account) UsedCredit() decimal.Decimal {
	return a.usedCredit
}

// RemainingCredit returns the undrawn portion of the overdraft line.
func (a *Account) RemainingCredit() decimal.Decimal {
	return a.creditLimit.Sub(a.usedCredit)
}

// Statement returns a copy of the transaction history: positive entries for
// deposits, negative entries for withdrawals, in order.
func (a *Account) Statement() []decimal.Decimal {
	out := make([]decimal.Decimal, len(a.transactions))
	copy(out, a.transactions)
	return out
}

// Deposit credits the account and appends a positive entry to the history.
// Amounts below 0.50 are rejected.
func (a *Account) Deposit(value decimal.Decimal) error {
	if value.LessThan(minOperation) {
		return ErrInvalidDeposit
	}
	a.balance = a.balance.Add(value)
	a.transactions = append(a.transactions, value)
	if a.Type == AccountTypeChecking {
		a.recomputeUsedCredit()
	}
	return nil
}

// Withdraw debits the account and appends a negative entry to the history.
// The amount must be between 0.50 and the available funds: the balance for
// savings, the balance plus the full credit line for checking.
func (a *Account) Withdraw(value decimal.Decimal) error {
	var available decimal.Decimal
	switch a.Type {
	case AccountTypeChecking:
		available = a.balance.Add(a.creditLimit)
	default:
		available = a.balance
	}
	if value.LessThan(minOperation) || value.GreaterThan(available) {
		return ErrInvalidWithdrawal
	}
	a.balance = a.balance.Sub(value)
	a.transactions = append(a.transactions, value.Neg())
	if a.Type == AccountTypeChecking && a.balance.IsNegative() {
		a.usedCredit = a.balance.Abs()
	}
	return nil
}

// CheckWithdrawal evaluates a withdrawal without mutating the account.
// For checking accounts the check admits the balance plus the remaining
// credit and reports whether the overdraft line would be drawn.
func (a *Account) CheckWithdrawal(value decimal.Decimal) WithdrawalCheck {
	switch a.Type {
	case AccountTypeChecking:
		total := a.balance.Add(a.RemainingCredit())
		if value.GreaterThan(total) {
			return WithdrawalCheck{Authorized: false, UsesLimit: LimitUndefined}
		}
		uses := LimitNotNeeded
		if value.GreaterThan(a.balance) {
			uses = LimitNeeded
		}
		return WithdrawalCheck{Authorized: true, UsesLimit: uses}
	default:
		if value.GreaterThan(a.balance) {
			return WithdrawalCheck{Authorized: false, UsesLimit: LimitUndefined}
		}
		return WithdrawalCheck{Authorized: true, UsesLimit: LimitNotNeeded}
	}
}

// Freeze disables access to the account. It is otherwise side-effect-free
// and reversible only through the recovery operation.
func (a *Account) Freeze() {
	a.active = false
}

// Unfreeze restores the account to operational status.
func (a *Account) Unfreeze() {
	a.active = true
}

func (a *Account) recomputeUsedCredit() {
	if a.balance.IsNegative() {
		a.usedCredit = a.balance.Abs()
	} else {
		a.usedCredit = decimal.Zero
	}
}

// IsDigits reports whether s consists of exactly size ASCII digits.
func IsDigits(s string, size int) bool {
	if len(s) != size {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
