// Package bank implements the banking aggregate: client and account
// registries, password-gated account access with brute-force lockout, and
// the registration, recovery and closure lifecycle operations.
package bank

import (
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/mteribeiro/cedro-bank/internal/model"
)

// maxAccessAttempts is the number of consecutive wrong passwords that
// freezes the targeted account.
const maxAccessAttempts = 3

// Bank aggregates clients, accounts and the password associations between
// them. A single mutex serializes every operation, so check-then-act
// sequences (duplicate checks, counter updates) are atomic per instance.
//
// The association map links a client CPF to one account per password; the
// passwords themselves are kept only as bcrypt hashes.
type Bank struct {
	mu sync.Mutex

	name       string
	branchCode string

	clients      map[string]*model.Client
	accounts     map[model.AccountKey]*model.Account
	associations map[string]map[string]model.AccountKey
	attempts     map[string]int

	bcryptCost int
}

// New creates an empty bank for the given home branch.
func New(name, branchCode string) (*Bank, error) {
	if name == "" {
		return nil, ErrInvalidBankName
	}
	if !model.IsDigits(branchCode, 4) {
		return nil, model.ErrInvalidBranch
	}
	return &Bank{
		name:         name,
		branchCode:   branchCode,
		clients:      make(map[string]*model.Client),
		accounts:     make(map[model.AccountKey]*model.Account),
		associations: make(map[string]map[string]model.AccountKey),
		attempts:     make(map[string]int),
		bcryptCost:   bcrypt.DefaultCost,
	}, nil
}

// Name returns the institution name.
func (b *Bank) Name() string {
	return b.name
}

// BranchCode returns the home branch code.
func (b *Bank) BranchCode() string {
	return b.branchCode
}

// HasClient reports whether a client is registered under the CPF.
func (b *Bank) HasClient(cpf string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.clients[cpf]
	return ok
}

// HasAccount reports whether an account is registered under the key.
func (b *Bank) HasAccount(key model.AccountKey) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.accounts[key]
	return ok
}

// ValidatePassword checks the account password format: exactly 6 digits.
func ValidatePassword(password string) error {
	if !model.IsDigits(password, 6) {
		return ErrInvalidPassword
	}
	return nil
}

// Authenticate verifies that the branch is this bank's home branch and that
// both the client and the account are registered, and issues a signed token.
// It never mutates state and does not touch the lockout counters; callers
// may retry freely.
func (b *Bank) Authenticate(clientCPF, branchCode, accountNumber string) (AuthToken, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if branchCode != b.branchCode {
		return AuthToken{}, false
	}
	if _, ok := b.clients[clientCPF]; !ok {
		return AuthToken{}, false
	}
	key := model.AccountKey{BranchCode: branchCode, AccountNumber: accountNumber}
	if _, ok := b.accounts[key]; !ok {
		return AuthToken{}, false
	}

	return AuthToken{
		ClientCPF:     clientCPF,
		BranchCode:    branchCode,
		AccountNumber: accountNumber,
		signed:        true,
	}, true
}

// GetClient returns the client registered under the CPF.
func (b *Bank) GetClient(cpf string) (*model.Client, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	client, ok := b.clients[cpf]
	if !ok {
		return nil, ErrClientNotFound
	}
	return client, nil
}

// GetAccount resolves a token plus password to a mutable account handle.
//
// The integrity and security phase runs first: unsigned tokens, missing
// association entries, stale tokens and frozen accounts are rejected before
// the password is even considered. A malformed password is a format error
// and does not touch the counter. A wrong password increments the client's
// failed-attempt counter; the third consecutive failure freezes the targeted
// account and leaves the counter at the threshold. A correct password resets
// the counter to zero.
func (b *Bank) GetAccount(token AuthToken, password string) (*model.Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	account, _, err := b.getAccount(token, password)
	return account, err
}

// getAccount is GetAccount's core; it also returns the matched association
// hash so closure can remove the exact entry. Callers must hold b.mu.
func (b *Bank) getAccount(token AuthToken, password string) (*model.Account, string, error) {
	if err := b.checkAccess(token); err != nil {
		return nil, "", err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, "", err
	}

	target := model.AccountKey{BranchCode: token.BranchCode, AccountNumber: token.AccountNumber}
	key, hash, found := b.resolvePassword(token.ClientCPF, password)

	if !found {
		b.attempts[token.ClientCPF]++
		if b.attempts[token.ClientCPF] >= maxAccessAttempts {
			b.accounts[target].Freeze()
			return nil, "", ErrAccountFrozen
		}
		return nil, "", ErrAccountNotFound
	}

	// Tokens are only issued for the pair they name, so a mismatch here
	// means the registries and the token disagree. Kept as a defensive
	// invariant.
	if key != target {
		return nil, "", ErrCrossAccess
	}

	b.attempts[token.ClientCPF] = 0
	return b.accounts[key], hash, nil
}

// checkAccess fails fast on invalid tokens, corrupted registries and frozen
// accounts before any password processing.
func (b *Bank) checkAccess(token AuthToken) error {
	if !token.signed {
		return ErrUnsignedToken
	}
	if _, ok := b.associations[token.ClientCPF]; !ok {
		return ErrMissingAssociation
	}
	key := model.AccountKey{BranchCode: token.BranchCode, AccountNumber: token.AccountNumber}
	account, ok := b.accounts[key]
	if !ok {
		return ErrStaleToken
	}
	if !account.Active() {
		return ErrAccountFrozen
	}
	return nil
}

// resolvePassword looks the password up in the client's association entries
// by comparing it against each stored hash.
func (b *Bank) resolvePassword(cpf, password string) (model.AccountKey, string, bool) {
	for hash, key := range b.associations[cpf] {
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil {
			return key, hash, true
		}
	}
	return model.AccountKey{}, "", false
}

// RegisterClient registers a new client together with their first account.
// All preconditions are checked before any registry mutation, so a failed
// registration leaves no partial state behind.
func (b *Bank) RegisterClient(client *model.Client, account *model.Account, password string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.clients[client.CPF()]; ok {
		return ErrDuplicateClient
	}
	hash, err := b.prepareAssociation(client.CPF(), account, password)
	if err != nil {
		return err
	}

	b.clients[client.CPF()] = client
	b.commitAssociation(client.CPF(), client, account, hash)
	return nil
}

// RegisterAccount adds a new account to an existing client.
func (b *Bank) RegisterAccount(clientCPF string, account *model.Account, password string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.associations[clientCPF]; !ok {
		return ErrClientNotFound
	}
	client, ok := b.clients[clientCPF]
	if !ok {
		return ErrClientNotFound
	}
	hash, err := b.prepareAssociation(clientCPF, account, password)
	if err != nil {
		return err
	}

	b.commitAssociation(clientCPF, client, account, hash)
	return nil
}

// prepareAssociation runs the shared registration preconditions (duplicate
// account, password format, per-client password uniqueness) and returns the
// password hash to commit. It mutates nothing.
func (b *Bank) prepareAssociation(clientCPF string, account *model.Account, password string) (string, error) {
	if _, ok := b.accounts[account.Key()]; ok {
		return "", ErrDuplicateAccount
	}
	if err := ValidatePassword(password); err != nil {
		return "", err
	}
	for hash := range b.associations[clientCPF] {
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil {
			return "", ErrPasswordInUse
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// commitAssociation stores the account, links it to the client through the
// password hash, and attaches the account plus a freshly minted card to the
// client. Callers must have run prepareAssociation first.
func (b *Bank) commitAssociation(clientCPF string, client *model.Client, account *model.Account, hash string) {
	entries, ok := b.associations[clientCPF]
	if !ok {
		entries = make(map[string]model.AccountKey)
		b.associations[clientCPF] = entries
	}
	entries[hash] = account.Key()
	b.accounts[account.Key()] = account

	client.AddAccount(account)
	_ = client.AddCard(model.Card{
		ClientCPF:     clientCPF,
		BranchCode:    account.BranchCode,
		AccountNumber: account.AccountNumber,
	})
}

// UnfreezeAccount reactivates a frozen account after knowledge-based
// verification and replaces the password mapped to it.
//
// It fails fast when the account is already active. A name or birth date
// mismatch yields (false, nil) without disclosing which field failed. On
// success the old password association is swapped for the new one, the
// account is reactivated and the failed-attempt counter is reset.
func (b *Bank) UnfreezeAccount(token AuthToken, clientName, birthDate, newPassword string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !token.signed {
		return false, ErrUnsignedToken
	}
	key := model.AccountKey{BranchCode: token.BranchCode, AccountNumber: token.AccountNumber}
	account, ok := b.accounts[key]
	if !ok {
		return false, ErrStaleToken
	}
	if account.Active() {
		return false, ErrAccountActive
	}

	name, err := model.ValidateName(clientName)
	if err != nil {
		return false, err
	}
	date, err := model.ValidateBirthDate(birthDate)
	if err != nil {
		return false, err
	}
	if err := ValidatePassword(newPassword); err != nil {
		return false, err
	}

	client, ok := b.clients[token.ClientCPF]
	if !ok {
		return false, ErrMissingAssociation
	}
	if name != client.Name() || !date.Equal(client.BirthDate()) {
		return false, nil
	}

	if err := b.resetPassword(token.ClientCPF, key, newPassword); err != nil {
		return false, err
	}
	account.Unfreeze()
	b.attempts[token.ClientCPF] = 0
	return true, nil
}

// resetPassword replaces the association entry currently pointing at the
// account with one keyed by the new password. The uniqueness check runs
// against the client's other entries before the old one is removed, so a
// rejected password leaves the association intact.
func (b *Bank) resetPassword(clientCPF string, key model.AccountKey, newPassword string) error {
	entries := b.associations[clientCPF]

	var oldHash string
	for hash, entryKey := range entries {
		if entryKey == key {
			oldHash = hash
			break
		}
	}
	for hash := range entries {
		if hash == oldHash {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(newPassword)) == nil {
			return ErrPasswordInUse
		}
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), b.bcryptCost)
	if err != nil {
		return err
	}
	if oldHash != "" {
		delete(entries, oldHash)
	}
	entries[string(newHash)] = key
	return nil
}

// CloseAccount permanently removes an account. Authentication is delegated
// to the same gate as GetAccount, so lockout and security semantics apply.
// The balance must be exactly zero. Closing a client's last account
// cascade-deletes the client from every registry.
func (b *Bank) CloseAccount(token AuthToken, password string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	account, hash, err := b.getAccount(token, password)
	if err != nil {
		return err
	}
	if !account.Balance().IsZero() {
		return ErrBalanceNotZero
	}

	client, ok := b.clients[token.ClientCPF]
	if !ok {
		return ErrMissingAssociation
	}
	key := account.Key()

	client.RemoveAccount(key)
	card := model.Card{
		ClientCPF:     token.ClientCPF,
		BranchCode:    token.BranchCode,
		AccountNumber: token.AccountNumber,
	}
	if client.HasCard(card) {
		_ = client.RemoveCard(card)
	}

	delete(b.accounts, key)
	delete(b.associations[token.ClientCPF], hash)

	if len(b.associations[token.ClientCPF]) == 0 {
		delete(b.associations, token.ClientCPF)
		delete(b.clients, token.ClientCPF)
		delete(b.attempts, token.ClientCPF)
	}
	return nil
}
