package model

import (
	"sort"
	"strings"
	"time"
	"unicode"
)

// BirthDateLayout is the input format for birth dates.
const BirthDateLayout = "02/01/2006"

// Age limits for clients, inclusive.
const (
	MinAge = 18
	MaxAge = 120
)

// Card is the immutable saved-credential value object: enough to
// re-authenticate without retyping identifiers.
type Card struct {
	ClientCPF     string
	BranchCode    string
	AccountNumber string
}

// Client is a bank client: validated identity plus references to owned
// accounts and a wallet of saved cards. The Bank registries remain the
// source of truth for account storage.
type Client struct {
	name      string
	birthDate time.Time
	cpf       string

	accounts map[AccountKey]*Account
	cards    map[Card]struct{}
}

// NewClient validates name, birth date (dd/mm/yyyy) and CPF, and returns a
// client with an empty wallet.
func NewClient(name, birthDate, cpf string) (*Client, error) {
	validName, err := ValidateName(name)
	if err != nil {
		return nil, err
	}
	date, err := ValidateBirthDate(birthDate)
	if err != nil {
		return nil, err
	}
	validCPF, err := ValidateCPF(cpf)
	if err != nil {
		return nil, err
	}
	return &Client{
		name:      validName,
		birthDate: date,
		cpf:       validCPF,
		accounts:  make(map[AccountKey]*Account),
		cards:     make(map[Card]struct{}),
	}, nil
}

// RestoreClient rebuilds a client from persisted state. The birth date is the
// ISO-8601 form used by the serialization contract; all attribute validations
// run again so a corrupted record cannot produce an invalid client.
func RestoreClient(name, isoBirthDate, cpf string, cards []Card) (*Client, error) {
	date, err := time.Parse("2006-01-02", isoBirthDate)
	if err != nil {
		return nil, ErrInvalidBirthDate
	}
	c, err := NewClient(name, date.Format(BirthDateLayout), cpf)
	if err != nil {
		return nil, err
	}
	for _, card := range cards {
		if err := c.AddCard(card); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Name returns the client's validated name.
func (c *Client) Name() string {
	return c.name
}

// BirthDate returns the client's birth date (midnight UTC).
func (c *Client) BirthDate() time.Time {
	return c.birthDate
}

// CPF returns the client's unique identifier.
func (c *Client) CPF() string {
	return c.cpf
}

// Age returns the client's age in whole years.
func (c *Client) Age() int {
	return ageAt(c.birthDate, time.Now())
}

// AddAccount records a reference to an account owned by this client.
func (c *Client) AddAccount(a *Account) {
	c.accounts[a.Key()] = a
}

// RemoveAccount drops the reference to an owned account.
func (c *Client) RemoveAccount(key AccountKey) {
	delete(c.accounts, key)
}

// OwnsAccount reports whether the client holds a reference to the account.
func (c *Client) OwnsAccount(key AccountKey) bool {
	_, ok := c.accounts[key]
	return ok
}

// Accounts returns the owned accounts sorted by account number.
func (c *Client) Accounts() []*Account {
	out := make([]*Account, 0, len(c.accounts))
	for _, a := range c.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].AccountNumber < out[j].AccountNumber
	})
	return out
}

// AddCard stores a saved credential in the client's wallet.
func (c *Client) AddCard(card Card) error {
	if _, ok := c.cards[card]; ok {
		return ErrDuplicateCard
	}
	c.cards[card] = struct{}{}
	return nil
}

// RemoveCard drops a saved credential from the wallet.
func (c *Client) RemoveCard(card Card) error {
	if _, ok := c.cards[card]; !ok {
		return ErrCardNotFound
	}
	delete(c.cards, card)
	return nil
}

// HasCard reports whether the credential is saved in the wallet.
func (c *Client) HasCard(card Card) bool {
	_, ok := c.cards[card]
	return ok
}

// Cards returns the saved credentials sorted by account number, for stable
// menu listings.
func (c *Client) Cards() []Card {
	out := make([]Card, 0, len(c.cards))
	for card := range c.cards {
		out = append(out, card)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].AccountNumber < out[j].AccountNumber
	})
	return out
}

// ValidateName checks a client name: at least three characters, letters and
// internal spaces only, no leading or trailing space.
func ValidateName(name string) (string, error) {
	if len(name) < 3 {
		return "", ErrInvalidName
	}
	if strings.HasPrefix(name, " ") || strings.HasSuffix(name, " ") {
		return "", ErrInvalidName
	}
	for _, r := range name {
		if r != ' ' && !unicode.IsLetter(r) {
			return "", ErrInvalidName
		}
	}
	return name, nil
}

// ValidateBirthDate parses a dd/mm/yyyy date and enforces that it is not in
// the future and yields an age between MinAge and MaxAge inclusive.
func ValidateBirthDate(birthDate string) (time.Time, error) {
	date, err := time.Parse(BirthDateLayout, birthDate)
	if err != nil {
		return time.Time{}, ErrInvalidBirthDate
	}
	now := time.Now()
	if date.After(now) {
		return time.Time{}, ErrInvalidBirthDate
	}
	age := ageAt(date, now)
	if age < MinAge || age > MaxAge {
		return time.Time{}, ErrInvalidBirthDate
	}
	return date, nil
}

// ageAt returns whole years elapsed from birth to ref.
func ageAt(birth, ref time.Time) int {
	age := ref.Year() - birth.Year()
	if ref.Month() < birth.Month() ||
		(ref.Month() == birth.Month() && ref.Day() < birth.Day()) {
		age--
	}
	return age
}
