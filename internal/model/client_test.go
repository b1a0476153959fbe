package model

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "simple name", input: "Ana", wantErr: nil},
		{name: "full name with spaces", input: "Maria Clara Souza", wantErr: nil},
		{name: "accented letters", input: "João", wantErr: nil},
		{name: "too short", input: "Jo", wantErr: ErrInvalidName},
		{name: "empty", input: "", wantErr: ErrInvalidName},
		{name: "leading space", input: " Ana", wantErr: ErrInvalidName},
		{name: "trailing space", input: "Ana ", wantErr: ErrInvalidName},
		{name: "digits", input: "Ana2", wantErr: ErrInvalidName},
		{name: "punctuation", input: "Ana-Maria", wantErr: ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateName(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateName(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateBirthDate(t *testing.T) {
	now := time.Now()
	format := func(t time.Time) string { return t.Format(BirthDateLayout) }

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "adult", input: format(now.AddDate(-30, 0, 0)), wantErr: nil},
		{name: "eighteenth birthday today", input: format(now.AddDate(-18, 0, 0)), wantErr: nil},
		{name: "one day short of eighteen", input: format(now.AddDate(-18, 0, 1)), wantErr: ErrInvalidBirthDate},
		{name: "too young", input: format(now.AddDate(-10, 0, 0)), wantErr: ErrInvalidBirthDate},
		{name: "too old", input: format(now.AddDate(-121, 0, -1)), wantErr: ErrInvalidBirthDate},
		{name: "future date", input: format(now.AddDate(1, 0, 0)), wantErr: ErrInvalidBirthDate},
		{name: "wrong layout", input: "1990-01-01", wantErr: ErrInvalidBirthDate},
		{name: "nonexistent day", input: "31/02/1990", wantErr: ErrInvalidBirthDate},
		{name: "garbage", input: "yesterday", wantErr: ErrInvalidBirthDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateBirthDate(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateBirthDate(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestAgeAt(t *testing.T) {
	birth := time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		ref  time.Time
		want int
	}{
		{name: "day before birthday", ref: time.Date(2020, time.June, 14, 0, 0, 0, 0, time.UTC), want: 29},
		{name: "on birthday", ref: time.Date(2020, time.June, 15, 0, 0, 0, 0, time.UTC), want: 30},
		{name: "earlier month later day", ref: time.Date(2020, time.May, 20, 0, 0, 0, 0, time.UTC), want: 29},
		{name: "later month earlier day", ref: time.Date(2020, time.July, 1, 0, 0, 0, 0, time.UTC), want: 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ageAt(birth, tt.ref); got != tt.want {
				t.Errorf("ageAt() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestValidateCPF(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "valid", input: "52998224725", wantErr: nil},
		{name: "valid alternate", input: "11144477735", wantErr: nil},
		{name: "wrong second verifier", input: "52998224726", wantErr: ErrInvalidCPF},
		{name: "wrong first verifier", input: "52998224735", wantErr: ErrInvalidCPF},
		{name: "all repeated digits", input: "11111111111", wantErr: ErrInvalidCPF},
		{name: "too short", input: "5299822472", wantErr: ErrInvalidCPF},
		{name: "too long", input: "529982247250", wantErr: ErrInvalidCPF},
		{name: "non digits", input: "529.982.247", wantErr: ErrInvalidCPF},
		{name: "empty", input: "", wantErr: ErrInvalidCPF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateCPF(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateCPF(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name      string
		fullName  string
		birthDate string
		cpf       string
		wantErr   error
	}{
		{name: "valid", fullName: "Maria Souza", birthDate: "15/06/1990", cpf: "52998224725", wantErr: nil},
		{name: "bad name", fullName: "M", birthDate: "15/06/1990", cpf: "52998224725", wantErr: ErrInvalidName},
		{name: "bad birth date", fullName: "Maria Souza", birthDate: "15/06/90", cpf: "52998224725", wantErr: ErrInvalidBirthDate},
		{name: "bad cpf", fullName: "Maria Souza", birthDate: "15/06/1990", cpf: "52998224726", wantErr: ErrInvalidCPF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.fullName, tt.birthDate, tt.cpf)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewClient() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestClient_Cards(t *testing.T) {
	c, err := NewClient("Maria Souza", "15/06/1990", "52998224725")
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	first := Card{ClientCPF: c.CPF(), BranchCode: "1234", AccountNumber: "00000002"}
	second := Card{ClientCPF: c.CPF(), BranchCode: "1234", AccountNumber: "00000001"}

	if err := c.AddCard(first); err != nil {
		t.Fatalf("AddCard() error = %v", err)
	}
	if err := c.AddCard(first); !errors.Is(err, ErrDuplicateCard) {
		t.Errorf("duplicate AddCard() error = %v, want %v", err, ErrDuplicateCard)
	}
	if err := c.AddCard(second); err != nil {
		t.Fatalf("AddCard() error = %v", err)
	}

	cards := c.Cards()
	if len(cards) != 2 || cards[0].AccountNumber != "00000001" || cards[1].AccountNumber != "00000002" {
		t.Errorf("Cards() = %v, want sorted by account number", cards)
	}

	if err := c.RemoveCard(first); err != nil {
		t.Errorf("RemoveCard() error = %v", err)
	}
	if err := c.RemoveCard(first); !errors.Is(err, ErrCardNotFound) {
		t.Errorf("second RemoveCard() error = %v, want %v", err, ErrCardNotFound)
	}
	if c.HasCard(first) {
		t.Error("HasCard() = true after removal")
	}
}

func TestClient_Accounts(t *testing.T) {
	c, err := NewClient("Maria Souza", "15/06/1990", "52998224725")
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	second, _ := NewAccount(AccountTypeSavings, "1234", "00000002", decimal.Zero)
	first, _ := NewAccount(AccountTypeChecking, "1234", "00000001", decimal.Zero)
	c.AddAccount(second)
	c.AddAccount(first)

	if !c.OwnsAccount(first.Key()) {
		t.Error("OwnsAccount() = false for added account")
	}
	accounts := c.Accounts()
	if len(accounts) != 2 || accounts[0].AccountNumber != "00000001" {
		t.Errorf("Accounts() not sorted by account number: %v", accounts)
	}

	c.RemoveAccount(first.Key())
	if c.OwnsAccount(first.Key()) {
		t.Error("OwnsAccount() = true after removal")
	}
}

func TestRestoreClient(t *testing.T) {
	card := Card{ClientCPF: "52998224725", BranchCode: "1234", AccountNumber: "00000001"}
	c, err := RestoreClient("Maria Souza", "1990-06-15", "52998224725", []Card{card})
	if err != nil {
		t.Fatalf("RestoreClient() error = %v", err)
	}
	if c.BirthDate().Format(BirthDateLayout) != "15/06/1990" {
		t.Errorf("BirthDate() = %v, want 15/06/1990", c.BirthDate())
	}
	if !c.HasCard(card) {
		t.Error("restored client lost its card")
	}

	if _, err := RestoreClient("Maria Souza", "15/06/1990", "52998224725", nil); !errors.Is(err, ErrInvalidBirthDate) {
		t.Errorf("RestoreClient() with wrong date layout error = %v, want %v", err, ErrInvalidBirthDate)
	}
}
