// Package app orchestrates the interactive banking sessions: registration,
// login, transactions, account recovery and closure. It translates domain
// errors into field re-prompts or feedback messages and unwinds aborts to
// the nearest menu without leaving partial state behind.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/mteribeiro/cedro-bank/internal/bank"
	"github.com/mteribeiro/cedro-bank/internal/console"
	"github.com/mteribeiro/cedro-bank/internal/model"
	"github.com/mteribeiro/cedro-bank/internal/storage"
)

// maxLoginAttempts bounds both the identification retries and the password
// retries inside one session.
const maxLoginAttempts = 3

// App drives one bank through the console workflows and persists a snapshot
// after every committed mutation.
type App struct {
	bank  *bank.Bank
	store storage.Store
	col   *console.Collector
	out   io.Writer
}

// New wires the aggregate, the persistence store and the terminal streams.
func New(b *bank.Bank, store storage.Store, in io.Reader, out io.Writer) *App {
	return &App{
		bank:  b,
		store: store,
		col:   console.NewCollector(in, out),
		out:   out,
	}
}

// Run executes the main menu loop until the user quits. Aborts unwind here;
// integrity and security failures propagate to the caller.
func (a *App) Run(ctx context.Context) error {
	fmt.Fprintf(a.out, "Welcome to %s (branch %s)\n", a.bank.Name(), a.bank.BranchCode())

	for {
		choice, err := a.col.CollectOne(menuField(
			"Main menu",
			"1 - I am already a client\n2 - I am not a client yet\nYour option: ",
			2,
		))
		if isAbort(err) {
			fmt.Fprintln(a.out, "\nGoodbye!")
			return nil
		}
		if err != nil {
			return err
		}

		switch choice.Int {
		case 1:
			err = a.clientMenu(ctx)
		case 2:
			err = a.registerClient(ctx)
		}
		if err := a.unwind(err); err != nil {
			return err
		}
	}
}

// clientMenu routes an existing client to account access or a new account.
func (a *App) clientMenu(ctx context.Context) error {
	choice, err := a.col.CollectOne(menuField(
		"Access type",
		"1 - Access my account\n2 - Open a new account\nYour option: ",
		2,
	))
	if err != nil {
		return err
	}

	switch choice.Int {
	case 1:
		return a.session(ctx)
	case 2:
		return a.registerAccount(ctx)
	}
	return nil
}

// session authenticates the user and runs the account menu. A frozen
// account detected at login diverts to the recovery workflow.
func (a *App) session(ctx context.Context) error {
	token, err := a.login()
	if err != nil {
		return err
	}

	for attempt := 0; attempt < maxLoginAttempts; attempt++ {
		password, err := a.col.CollectOne(passwordField("Authentication - password"))
		if err != nil {
			return err
		}

		account, err := a.bank.GetAccount(token, password.Str)
		switch {
		case err == nil:
			return a.accountMenu(ctx, token, account)
		case errors.Is(err, bank.ErrAccountNotFound):
			console.ReportOutcome(a.out, "login", false)
			fmt.Fprintln(a.out, "Wrong password. Try again.")
		case errors.Is(err, model.ErrLockout):
			fmt.Fprintln(a.out, "\nAccount is frozen for security reasons.")
			return a.unfreeze(ctx, token)
		default:
			return err
		}
	}

	console.ReportOutcome(a.out, "login", false)
	return nil
}

// login collects identifiers (or a saved card) and derives a signed token.
func (a *App) login() (bank.AuthToken, error) {
	for attempt := 0; attempt < maxLoginAttempts; attempt++ {
		cpf, err := a.col.CollectOne(cpfField())
		if err != nil {
			return bank.AuthToken{}, err
		}

		branch, number, err := a.pickAccount(cpf.Str)
		if err != nil {
			return bank.AuthToken{}, err
		}

		token, ok := a.bank.Authenticate(cpf.Str, branch, number)
		if ok {
			return token, nil
		}
		console.ReportOutcome(a.out, "login", false)
		fmt.Fprintln(a.out, "Unknown client, branch or account. Try again.")
	}
	return bank.AuthToken{}, fmt.Errorf("%w: maximum login attempts exceeded", model.ErrAborted)
}

// pickAccount resolves the branch and account number, offering the saved
// cards of a known client as a quick-login menu.
func (a *App) pickAccount(cpf string) (branch, number string, err error) {
	client, err := a.bank.GetClient(cpf)
	if err == nil {
		if cards := client.Cards(); len(cards) > 0 {
			choice, err := a.col.CollectOne(menuField(
				"Authentication - saved cards",
				"1 - Use a saved card\n2 - Type branch and account\nYour option: ",
				2,
			))
			if err != nil {
				return "", "", err
			}
			if choice.Int == 1 {
				console.RenderCards(a.out, cards)
				pick, err := a.col.CollectOne(menuField(
					"Authentication - card",
					"Choose your card: ",
					len(cards),
				))
				if err != nil {
					return "", "", err
				}
				card := cards[pick.Int-1]
				return card.BranchCode, card.AccountNumber, nil
			}
		}
	}

	values, err := a.col.Collect([]console.Field{branchField(), accountNumberField()})
	if err != nil {
		return "", "", err
	}
	return values["branch_code"].Str, values["account_number"].Str, nil
}

// accountMenu runs the operations menu for an accessed account.
func (a *App) accountMenu(ctx context.Context, token bank.AuthToken, account *model.Account) error {
	for {
		choice, err := a.col.CollectOne(menuField(
			"Account menu",
			"1 - Transactions\n2 - Unfreeze account\n3 - Close account\nYour option: ",
			3,
		))
		if err != nil {
			return err
		}

		switch choice.Int {
		case 1:
			err = a.transactions(ctx, account)
		case 2:
			err = a.unfreeze(ctx, token)
		case 3:
			err = a.closeAccount(ctx, token)
			if err == nil {
				// Account is gone; the session has nothing left to operate on.
				return nil
			}
		}
		if err != nil {
			return err
		}
	}
}

// persist stores the current snapshot. Persistence failures are reported
// but do not abort the session: the in-memory state remains authoritative.
func (a *App) persist(ctx context.Context) error {
	if err := a.store.Save(ctx, a.bank.Snapshot()); err != nil {
		fmt.Fprintf(a.out, "\nwarning: failed to persist state: %v\n", err)
	}
	return nil
}

// unwind absorbs aborts and business failures at the menu boundary and
// propagates only fatal errors (integrity and security violations).
func (a *App) unwind(err error) error {
	switch {
	case err == nil:
		return nil
	case isAbort(err):
		fmt.Fprintln(a.out, "\nOperation cancelled. Back to the main menu.")
		return nil
	case errors.Is(err, model.ErrIntegrity), errors.Is(err, model.ErrSecurity):
		return err
	default:
		console.ReportOutcome(a.out, "operation", false)
		return nil
	}
}

func isAbort(err error) bool {
	return errors.Is(err, model.ErrAborted)
}
