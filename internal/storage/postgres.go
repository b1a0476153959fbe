package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists branch records in normalized tables. A Save rewrites
// the branch inside one database transaction, mirroring the snapshot
// semantics of the JSON store.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore wraps an existing connection pool.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the branch tables if they do not exist. Call it on
// startup after the database connection is established.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS branches (
			branch_code TEXT PRIMARY KEY,
			bank_name   TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS clients (
			id          UUID PRIMARY KEY,
			branch_code TEXT NOT NULL REFERENCES branches(branch_code) ON DELETE CASCADE,
			cpf         TEXT NOT NULL,
			name        TEXT NOT NULL,
			birth_date  DATE NOT NULL,
			UNIQUE (branch_code, cpf)
		)`,
		`CREATE TABLE IF NOT EXISTS cards (
			id             UUID PRIMARY KEY,
			client_id      UUID NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
			client_cpf     TEXT NOT NULL,
			branch_code    TEXT NOT NULL,
			account_number TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS accounts (
			id             UUID PRIMARY KEY,
			branch_code    TEXT NOT NULL REFERENCES branches(branch_code) ON DELETE CASCADE,
			account_number TEXT NOT NULL,
			account_type   TEXT NOT NULL,
			balance        TEXT NOT NULL,
			active         BOOLEAN NOT NULL,
			credit_limit   TEXT,
			used_credit    TEXT,
			UNIQUE (branch_code, account_number)
		)`,
		`CREATE TABLE IF NOT EXISTS account_transactions (
			id         UUID PRIMARY KEY,
			account_id UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
			seq        INT NOT NULL,
			amount     TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS associations (
			id                   UUID PRIMARY KEY,
			branch_code          TEXT NOT NULL REFERENCES branches(branch_code) ON DELETE CASCADE,
			client_cpf           TEXT NOT NULL,
			password_hash        TEXT NOT NULL,
			target_branch_code   TEXT NOT NULL,
			target_account_number TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

// Save rewrites the branch record transactionally: the previous rows for the
// branch are removed and the new snapshot inserted.
func (s *PostgresStore) Save(ctx context.Context, record BranchRecord) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Cascades clear clients, cards, accounts and associations.
	if _, err := tx.Exec(ctx, `DELETE FROM branches WHERE branch_code = $1`, record.BranchCode); err != nil {
		return fmt.Errorf("failed to clear branch: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO branches (branch_code, bank_name) VALUES ($1, $2)`,
		record.BranchCode, record.BankName,
	); err != nil {
		return fmt.Errorf("failed to insert branch: %w", err)
	}

	for _, client := range record.Clients {
		clientID := uuid.New()
		if _, err := tx.Exec(ctx,
			`INSERT INTO clients (id, branch_code, cpf, name, birth_date)
			 VALUES ($1, $2, $3, $4, $5)`,
			clientID, record.BranchCode, client.CPF, client.Name, client.BirthDate,
		); err != nil {
			return fmt.Errorf("failed to insert client: %w", err)
		}
		for _, card := range client.Cards {
			if _, err := tx.Exec(ctx,
				`INSERT INTO cards (id, client_id, client_cpf, branch_code, account_number)
				 VALUES ($1, $2, $3, $4, $5)`,
				uuid.New(), clientID, card.ClientCPF, card.BranchCode, card.AccountNumber,
			); err != nil {
				return fmt.Errorf("failed to insert card: %w", err)
			}
		}
	}

	for _, account := range record.Accounts {
		accountID := uuid.New()
		var creditLimit, usedCredit *string
		if account.CreditLimit != "" {
			creditLimit = &account.CreditLimit
		}
		if account.UsedCredit != "" {
			usedCredit = &account.UsedCredit
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO accounts (id, branch_code, account_number, account_type, balance, active, credit_limit, used_credit)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			accountID, record.BranchCode, account.AccountNumber, account.Type,
			account.Balance, account.Active, creditLimit, usedCredit,
		); err != nil {
			return fmt.Errorf("failed to insert account: %w", err)
		}
		for seq, amount := range account.Transactions {
			if _, err := tx.Exec(ctx,
				`INSERT INTO account_transactions (id, account_id, seq, amount)
				 VALUES ($1, $2, $3, $4)`,
				uuid.New(), accountID, seq, amount,
			); err != nil {
				return fmt.Errorf("failed to insert transaction: %w", err)
			}
		}
	}

	for _, assoc := range record.Associations {
		if _, err := tx.Exec(ctx,
			`INSERT INTO associations (id, branch_code, client_cpf, password_hash, target_branch_code, target_account_number)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.New(), record.BranchCode, assoc.ClientCPF, assoc.PasswordHash,
			assoc.BranchCode, assoc.AccountNumber,
		); err != nil {
			return fmt.Errorf("failed to insert association: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit branch snapshot: %w", err)
	}
	return nil
}

// Load reassembles the branch record from the normalized tables.
func (s *PostgresStore) Load(ctx context.Context, branchCode string) (BranchRecord, error) {
	record := BranchRecord{BranchCode: branchCode}

	err := s.db.QueryRow(ctx,
		`SELECT bank_name FROM branches WHERE branch_code = $1`, branchCode,
	).Scan(&record.BankName)
	if errors.Is(err, pgx.ErrNoRows) {
		return BranchRecord{}, ErrBranchNotFound
	}
	if err != nil {
		return BranchRecord{}, fmt.Errorf("failed to load branch: %w", err)
	}

	clients, err := s.loadClients(ctx, branchCode)
	if err != nil {
		return BranchRecord{}, err
	}
	record.Clients = clients

	accounts, err := s.loadAccounts(ctx, branchCode)
	if err != nil {
		return BranchRecord{}, err
	}
	record.Accounts = accounts

	associations, err := s.loadAssociations(ctx, branchCode)
	if err != nil {
		return BranchRecord{}, err
	}
	record.Associations = associations

	return record, nil
}

func (s *PostgresStore) loadClients(ctx context.Context, branchCode string) ([]ClientRecord, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, cpf, name, to_char(birth_date, 'YYYY-MM-DD')
		 FROM clients WHERE branch_code = $1 ORDER BY cpf`, branchCode)
	if err != nil {
		return nil, fmt.Errorf("failed to load clients: %w", err)
	}
	defer rows.Close()

	var clients []ClientRecord
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		var client ClientRecord
		if err := rows.Scan(&id, &client.CPF, &client.Name, &client.BirthDate); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, client)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load clients: %w", err)
	}

	for i, id := range ids {
		cards, err := s.loadCards(ctx, id)
		if err != nil {
			return nil, err
		}
		clients[i].Cards = cards
	}
	return clients, nil
}

func (s *PostgresStore) loadCards(ctx context.Context, clientID uuid.UUID) ([]CardRecord, error) {
	rows, err := s.db.Query(ctx,
		`SELECT client_cpf, branch_code, account_number
		 FROM cards WHERE client_id = $1 ORDER BY account_number`, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cards: %w", err)
	}
	defer rows.Close()

	var cards []CardRecord
	for rows.Next() {
		var card CardRecord
		if err := rows.Scan(&card.ClientCPF, &card.BranchCode, &card.AccountNumber); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

func (s *PostgresStore) loadAccounts(ctx context.Context, branchCode string) ([]AccountRecord, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, account_number, account_type, balance, active, credit_limit, used_credit
		 FROM accounts WHERE branch_code = $1 ORDER BY account_number`, branchCode)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	defer rows.Close()

	var accounts []AccountRecord
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		var account AccountRecord
		var creditLimit, usedCredit *string
		if err := rows.Scan(&id, &account.AccountNumber, &account.Type,
			&account.Balance, &account.Active, &creditLimit, &usedCredit); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		account.BranchCode = branchCode
		if creditLimit != nil {
			account.CreditLimit = *creditLimit
		}
		if usedCredit != nil {
			account.UsedCredit = *usedCredit
		}
		accounts = append(accounts, account)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}

	for i, id := range ids {
		transactions, err := s.loadTransactions(ctx, id)
		if err != nil {
			return nil, err
		}
		accounts[i].Transactions = transactions
	}
	return accounts, nil
}

func (s *PostgresStore) loadTransactions(ctx context.Context, accountID uuid.UUID) ([]string, error) {
	rows, err := s.db.Query(ctx,
		`SELECT amount FROM account_transactions WHERE account_id = $1 ORDER BY seq`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	defer rows.Close()

	var amounts []string
	for rows.Next() {
		var amount string
		if err := rows.Scan(&amount); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		amounts = append(amounts, amount)
	}
	return amounts, rows.Err()
}

func (s *PostgresStore) loadAssociations(ctx context.Context, branchCode string) ([]AssociationRecord, error) {
	rows, err := s.db.Query(ctx,
		`SELECT client_cpf, password_hash, target_branch_code, target_account_number
		 FROM associations WHERE branch_code = $1 ORDER BY client_cpf, target_account_number`, branchCode)
	if err != nil {
		return nil, fmt.Errorf("failed to load associations: %w", err)
	}
	defer rows.Close()

	var associations []AssociationRecord
	for rows.Next() {
		var assoc AssociationRecord
		if err := rows.Scan(&assoc.ClientCPF, &assoc.PasswordHash, &assoc.BranchCode, &assoc.AccountNumber); err != nil {
			return nil, fmt.Errorf("failed to scan association: %w", err)
		}
		associations = append(associations, assoc)
	}
	return associations, rows.Err()
}
