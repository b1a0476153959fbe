package app

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/mteribeiro/cedro-bank/internal/bank"
	"github.com/mteribeiro/cedro-bank/internal/storage"
)

const testCPF = "52998224725"

func newTestApp(t *testing.T, script []string) (*App, *bank.Bank, storage.Store, *bytes.Buffer) {
	t.Helper()
	b, err := bank.New("Cedro Bank", "1234")
	if err != nil {
		t.Fatalf("bank.New() error = %v", err)
	}
	store, err := storage.NewJSONStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewJSONStore() error = %v", err)
	}
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(script, "\n") + "\n")
	return New(b, store, in, &out), b, store, &out
}

// Drives one full scripted session: register a client with a checking
// account, log back in with the saved card, overdraw, and quit.
func TestApp_Run_FullSession(t *testing.T) {
	script := []string{
		"2",           // main menu: not a client yet
		"Maria Souza", // name
		"15/06/1990",  // birth date
		testCPF,       // cpf
		"1",           // account type: checking
		"1234",        // branch
		"00000001",    // account number
		"100.00",      // opening balance
		"123456",      // password
		"1",           // main menu: already a client
		"1",           // access my account
		testCPF,       // cpf
		"1",           // use a saved card
		"1",           // first card
		"123456",      // password
		"1",           // account menu: transactions
		"1",           // withdraw
		"3050.00",     // amount
		"1",           // proceed into overdraft
		"S",           // leave transactions
		"S",           // leave account menu
		"S",           // leave main menu
	}
	app, b, store, out := newTestApp(t, script)

	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v\noutput:\n%s", err, out.String())
	}

	if !b.HasClient(testCPF) {
		t.Fatal("session did not register the client")
	}
	token, ok := b.Authenticate(testCPF, "1234", "00000001")
	if !ok {
		t.Fatal("Authenticate() failed for registered account")
	}
	account, err := b.GetAccount(token, "123456")
	if err != nil {
		t.Fatalf("GetAccount() error = %v", err)
	}
	if account.Balance().String() != "-2950" {
		t.Errorf("Balance() = %v, want -2950", account.Balance())
	}

	// Every committed mutation is snapshotted.
	record, err := store.Load(context.Background(), "1234")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(record.Accounts) != 1 || record.Accounts[0].Balance != "-2950" {
		t.Errorf("persisted accounts = %+v, want one with balance -2950", record.Accounts)
	}

	for _, want := range []string{"Welcome to Cedro Bank", "[register] operation completed", "[withdraw] operation completed", "Goodbye!"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestApp_Run_AbortAtRegistration(t *testing.T) {
	script := []string{
		"2", // not a client yet
		"S", // quit at the name prompt
		"S", // leave main menu
	}
	app, b, _, out := newTestApp(t, script)

	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if b.HasClient(testCPF) {
		t.Error("aborted registration left a client behind")
	}
	if !strings.Contains(out.String(), "Operation cancelled") {
		t.Errorf("output missing cancellation notice:\n%s", out.String())
	}
}

func TestApp_Run_InvalidInputReprompts(t *testing.T) {
	script := []string{
		"2",           // not a client yet
		"M",           // too short, re-prompted
		"Maria Souza", // valid name
		"S",           // quit at the birth date prompt
		"S",           // leave main menu
	}
	app, _, _, out := newTestApp(t, script)

	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "Name must have at least three letters") {
		t.Errorf("output missing name re-prompt:\n%s", out.String())
	}
}

func TestApp_Run_WrongPasswordsDivertToRecovery(t *testing.T) {
	script := []string{
		"2", // register first
		"Maria Souza",
		"15/06/1990",
		testCPF,
		"2", // savings
		"1234",
		"00000001",
		"0",
		"123456",
		"1", // already a client
		"1", // access my account
		testCPF,
		"2", // type branch and account
		"1234",
		"00000001",
		"000000",      // wrong password 1
		"000000",      // wrong password 2
		"000000",      // wrong password 3, account freezes
		"Maria Souza", // recovery: name
		"15/06/1990",  // recovery: birth date
		"654321",      // recovery: new password
		"S",           // leave main menu
	}
	app, b, _, out := newTestApp(t, script)

	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v\noutput:\n%s", err, out.String())
	}

	if !strings.Contains(out.String(), "frozen for security reasons") {
		t.Errorf("output missing freeze notice:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "[unfreeze] operation completed") {
		t.Errorf("output missing recovery confirmation:\n%s", out.String())
	}

	token, ok := b.Authenticate(testCPF, "1234", "00000001")
	if !ok {
		t.Fatal("Authenticate() failed after recovery")
	}
	if _, err := b.GetAccount(token, "654321"); err != nil {
		t.Errorf("new password rejected after recovery: %v", err)
	}
}
