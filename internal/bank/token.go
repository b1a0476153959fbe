package bank

// AuthToken is an ephemeral capability asserting that a (client, branch,
// account) triple was validated by the bank. Tokens are never stored; a new
// one must be derived after any session teardown.
//
// The signed flag can only be set by Bank.Authenticate. A token built
// outside this package is unsigned and is rejected wherever presented.
type AuthToken struct {
	ClientCPF     string
	BranchCode    string
	AccountNumber string

	signed bool
}

// Signed reports whether the token was issued by the bank.
func (t AuthToken) Signed() bool {
	return t.signed
}
