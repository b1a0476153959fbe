package storage

// Persisted representation of a bank branch. These records are the
// serialization contract between the domain core and the stores: plain
// structured data, decimals carried as strings.

// CardRecord is a saved credential in a client's wallet.
type CardRecord struct {
	ClientCPF     string `json:"client_cpf"`
	BranchCode    string `json:"branch_code"`
	AccountNumber string `json:"account_number"`
}

// ClientRecord is a client with an ISO-8601 birth date and saved cards.
type ClientRecord struct {
	Name      string       `json:"name"`
	BirthDate string       `json:"birth_date"`
	CPF       string       `json:"cpf"`
	Cards     []CardRecord `json:"cards"`
}

// AccountRecord is an account of either variant. CreditLimit and UsedCredit
// are present only for the checking (overdraft) variant.
type AccountRecord struct {
	Type          string   `json:"type"`
	BranchCode    string   `json:"branch_code"`
	AccountNumber string   `json:"account_number"`
	Balance       string   `json:"balance"`
	Transactions  []string `json:"transactions"`
	Active        bool     `json:"active"`
	CreditLimit   string   `json:"credit_limit,omitempty"`
	UsedCredit    string   `json:"used_credit,omitempty"`
}

// AssociationRecord links a client to one account through a password hash.
type AssociationRecord struct {
	ClientCPF     string `json:"client_cpf"`
	PasswordHash  string `json:"password_hash"`
	BranchCode    string `json:"branch_code"`
	AccountNumber string `json:"account_number"`
}

// BranchRecord is the full persisted state of one bank branch.
type BranchRecord struct {
	BankName     string              `json:"bank_name"`
	BranchCode   string              `json:"branch_code"`
	Clients      []ClientRecord      `json:"clients"`
	Accounts     []AccountRecord     `json:"accounts"`
	Associations []AssociationRecord `json:"associations"`
}
