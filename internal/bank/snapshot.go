package bank

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mteribeiro/cedro-bank/internal/model"
	"github.com/mteribeiro/cedro-bank/internal/storage"
)

// Snapshot exports the bank's full observable state as a branch record.
// Failed-attempt counters are session state and are not persisted.
func (b *Bank) Snapshot() storage.BranchRecord {
	b.mu.Lock()
	defer b.mu.Unlock()

	record := storage.BranchRecord{
		BankName:   b.name,
		BranchCode: b.branchCode,
	}

	for _, client := range b.clients {
		clientRecord := storage.ClientRecord{
			Name:      client.Name(),
			BirthDate: client.BirthDate().Format("2006-01-02"),
			CPF:       client.CPF(),
		}
		for _, card := range client.Cards() {
			clientRecord.Cards = append(clientRecord.Cards, storage.CardRecord{
				ClientCPF:     card.ClientCPF,
				BranchCode:    card.BranchCode,
				AccountNumber: card.AccountNumber,
			})
		}
		record.Clients = append(record.Clients, clientRecord)
	}
	sort.Slice(record.Clients, func(i, j int) bool {
		return record.Clients[i].CPF < record.Clients[j].CPF
	})

	for _, account := range b.accounts {
		accountRecord := storage.AccountRecord{
			Type:          string(account.Type),
			BranchCode:    account.BranchCode,
			AccountNumber: account.AccountNumber,
			Balance:       account.Balance().String(),
			Active:        account.Active(),
		}
		for _, tx := range account.Statement() {
			accountRecord.Transactions = append(accountRecord.Transactions, tx.String())
		}
		if account.Type == model.AccountTypeChecking {
			accountRecord.CreditLimit = account.CreditLimit().String()
			accountRecord.UsedCredit = account.UsedCredit().String()
		}
		record.Accounts = append(record.Accounts, accountRecord)
	}
	sort.Slice(record.Accounts, func(i, j int) bool {
		return record.Accounts[i].AccountNumber < record.Accounts[j].AccountNumber
	})

	for cpf, entries := range b.associations {
		for hash, key := range entries {
			record.Associations = append(record.Associations, storage.AssociationRecord{
				ClientCPF:     cpf,
				PasswordHash:  hash,
				BranchCode:    key.BranchCode,
				AccountNumber: key.AccountNumber,
			})
		}
	}
	sort.Slice(record.Associations, func(i, j int) bool {
		left, right := record.Associations[i], record.Associations[j]
		if left.ClientCPF != right.ClientCPF {
			return left.ClientCPF < right.ClientCPF
		}
		return left.AccountNumber < right.AccountNumber
	})

	return record
}

// Restore rebuilds a bank from a persisted branch record. Every entity runs
// through its validating constructor again; ownership references are rewired
// from the association entries. Failed-attempt counters start at zero.
func Restore(record storage.BranchRecord) (*Bank, error) {
	b, err := New(record.BankName, record.BranchCode)
	if err != nil {
		return nil, err
	}

	for _, clientRecord := range record.Clients {
		cards := make([]model.Card, 0, len(clientRecord.Cards))
		for _, card := range clientRecord.Cards {
			cards = append(cards, model.Card{
				ClientCPF:     card.ClientCPF,
				BranchCode:    card.BranchCode,
				AccountNumber: card.AccountNumber,
			})
		}
		client, err := model.RestoreClient(clientRecord.Name, clientRecord.BirthDate, clientRecord.CPF, cards)
		if err != nil {
			return nil, fmt.Errorf("client %s: %w", clientRecord.CPF, err)
		}
		b.clients[client.CPF()] = client
	}

	for _, accountRecord := range record.Accounts {
		account, err := restoreAccount(accountRecord)
		if err != nil {
			return nil, fmt.Errorf("account %s/%s: %w", accountRecord.BranchCode, accountRecord.AccountNumber, err)
		}
		b.accounts[account.Key()] = account
	}

	for _, assoc := range record.Associations {
		key := model.AccountKey{BranchCode: assoc.BranchCode, AccountNumber: assoc.AccountNumber}
		account, ok := b.accounts[key]
		if !ok {
			return nil, fmt.Errorf("association for %s: %w", assoc.ClientCPF, ErrStaleToken)
		}
		client, ok := b.clients[assoc.ClientCPF]
		if !ok {
			return nil, fmt.Errorf("association for %s: %w", assoc.ClientCPF, ErrMissingAssociation)
		}

		entries, ok := b.associations[assoc.ClientCPF]
		if !ok {
			entries = make(map[string]model.AccountKey)
			b.associations[assoc.ClientCPF] = entries
		}
		entries[assoc.PasswordHash] = key
		client.AddAccount(account)
	}

	return b, nil
}

func restoreAccount(record storage.AccountRecord) (*model.Account, error) {
	balance, err := decimal.NewFromString(record.Balance)
	if err != nil {
		return nil, fmt.Errorf("invalid balance %q: %w", record.Balance, err)
	}
	transactions := make([]decimal.Decimal, 0, len(record.Transactions))
	for _, raw := range record.Transactions {
		tx, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid transaction %q: %w", raw, err)
		}
		transactions = append(transactions, tx)
	}

	creditLimit, usedCredit := decimal.Zero, decimal.Zero
	if record.CreditLimit != "" {
		if creditLimit, err = decimal.NewFromString(record.CreditLimit); err != nil {
			return nil, fmt.Errorf("invalid credit limit %q: %w", record.CreditLimit, err)
		}
	}
	if record.UsedCredit != "" {
		if usedCredit, err = decimal.NewFromString(record.UsedCredit); err != nil {
			return nil, fmt.Errorf("invalid used credit %q: %w", record.UsedCredit, err)
		}
	}

	return model.RestoreAccount(
		model.AccountType(record.Type),
		record.BranchCode,
		record.AccountNumber,
		balance,
		transactions,
		record.Active,
		creditLimit,
		usedCredit,
	)
}
