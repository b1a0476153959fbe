package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/mteribeiro/cedro-bank/internal/bank"
	"github.com/mteribeiro/cedro-bank/internal/console"
	"github.com/mteribeiro/cedro-bank/internal/model"
)

// maxRegisterAttempts bounds how many times a rejected registration field
// may be re-entered before the workflow gives up.
const maxRegisterAttempts = 3

// registerClient collects identity, account and password data, stages the
// entities and commits them in one registration call. Rejections map back
// to the offending field for re-entry.
func (a *App) registerClient(ctx context.Context) error {
	identity, err := a.col.Collect([]console.Field{nameField(), birthDateField(), cpfField()})
	if err != nil {
		return err
	}
	client, err := model.NewClient(identity["name"].Str, identity["birth_date"].Str, identity["cpf"].Str)
	if err != nil {
		return err
	}

	account, err := a.collectAccount()
	if err != nil {
		return err
	}
	password, err := a.col.CollectOne(passwordField("Account - password"))
	if err != nil {
		return err
	}

	for attempt := 0; attempt < maxRegisterAttempts; attempt++ {
		err = a.bank.RegisterClient(client, account, password.Str)
		if err == nil {
			console.ReportOutcome(a.out, "register", true)
			return a.persist(ctx)
		}

		switch {
		case errors.Is(err, bank.ErrDuplicateClient):
			fmt.Fprintln(a.out, "\nA client is already registered under this CPF.")
			return nil
		case errors.Is(err, bank.ErrDuplicateAccount):
			fmt.Fprintln(a.out, "\nThis account already exists. Choose another number.")
			if account, err = a.recollectAccount(account); err != nil {
				return err
			}
		case errors.Is(err, bank.ErrPasswordInUse):
			fmt.Fprintln(a.out, "\nPassword already linked to this CPF. Choose another one.")
			if password, err = a.col.CollectOne(passwordField("Account - password")); err != nil {
				return err
			}
		default:
			return err
		}
	}

	console.ReportOutcome(a.out, "register", false)
	return nil
}

// registerAccount opens an additional account for an existing client.
func (a *App) registerAccount(ctx context.Context) error {
	cpf, err := a.col.CollectOne(cpfField())
	if err != nil {
		return err
	}

	account, err := a.collectAccount()
	if err != nil {
		return err
	}
	password, err := a.col.CollectOne(passwordField("Account - password"))
	if err != nil {
		return err
	}

	for attempt := 0; attempt < maxRegisterAttempts; attempt++ {
		err = a.bank.RegisterAccount(cpf.Str, account, password.Str)
		if err == nil {
			console.ReportOutcome(a.out, "register", true)
			return a.persist(ctx)
		}

		switch {
		case errors.Is(err, bank.ErrClientNotFound):
			fmt.Fprintln(a.out, "\nNo client registered under this CPF.")
			return nil
		case errors.Is(err, bank.ErrDuplicateAccount):
			fmt.Fprintln(a.out, "\nThis account already exists. Choose another number.")
			if account, err = a.recollectAccount(account); err != nil {
				return err
			}
		case errors.Is(err, bank.ErrPasswordInUse):
			fmt.Fprintln(a.out, "\nPassword already linked to this CPF. Choose another one.")
			if password, err = a.col.CollectOne(passwordField("Account - password")); err != nil {
				return err
			}
		default:
			return err
		}
	}

	console.ReportOutcome(a.out, "register", false)
	return nil
}

// collectAccount gathers the account fields and builds the staged entity.
func (a *App) collectAccount() (*model.Account, error) {
	kind, err := a.col.CollectOne(menuField(
		"Account - type",
		"1 - Checking account\n2 - Savings account\nYour option: ",
		2,
	))
	if err != nil {
		return nil, err
	}
	typ := model.AccountTypeChecking
	if kind.Int == 2 {
		typ = model.AccountTypeSavings
	}

	values, err := a.col.Collect([]console.Field{
		branchField(), accountNumberField(), openingBalanceField(),
	})
	if err != nil {
		return nil, err
	}
	return model.NewAccount(typ, values["branch_code"].Str, values["account_number"].Str, values["balance"].Dec)
}

// recollectAccount re-prompts only the account number, keeping the other
// staged attributes.
func (a *App) recollectAccount(staged *model.Account) (*model.Account, error) {
	number, err := a.col.CollectOne(accountNumberField())
	if err != nil {
		return nil, err
	}
	return model.NewAccount(staged.Type, staged.BranchCode, number.Str, staged.Balance())
}

// transactions runs the withdraw/deposit/statement menu for one account.
func (a *App) transactions(ctx context.Context, account *model.Account) error {
	for {
		choice, err := a.col.CollectOne(menuField(
			"Transactions",
			"1 - Withdraw\n2 - Deposit\n3 - Statement\nYour option: ",
			3,
		))
		if isAbort(err) {
			return nil
		}
		if err != nil {
			return err
		}

		switch choice.Int {
		case 1:
			err = a.withdraw(ctx, account)
		case 2:
			err = a.deposit(ctx, account)
		case 3:
			console.RenderStatement(a.out, account.Statement(), account.Balance())
		}
		if isAbort(err) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// withdraw pre-checks the amount and solicits confirmation before drawing
// on the overdraft line.
func (a *App) withdraw(ctx context.Context, account *model.Account) error {
	amount, err := a.col.CollectOne(amountField("Transactions - withdraw"))
	if err != nil {
		return err
	}

	check := account.CheckWithdrawal(amount.Dec)
	if !check.Authorized {
		fmt.Fprintln(a.out, "\nInsufficient funds for this withdrawal.")
		console.ReportOutcome(a.out, "withdraw", false)
		return nil
	}
	if check.UsesLimit == model.LimitNeeded {
		confirm, err := a.col.CollectOne(menuField(
			"Transactions - overdraft",
			"This withdrawal uses your overdraft limit.\n1 - Proceed\n2 - Cancel\nYour option: ",
			2,
		))
		if err != nil {
			return err
		}
		if confirm.Int != 1 {
			console.ReportOutcome(a.out, "withdraw", false)
			return nil
		}
	}

	if err := account.Withdraw(amount.Dec); err != nil {
		fmt.Fprintf(a.out, "\n%v\n", err)
		console.ReportOutcome(a.out, "withdraw", false)
		return nil
	}
	console.ReportOutcome(a.out, "withdraw", true)
	return a.persist(ctx)
}

func (a *App) deposit(ctx context.Context, account *model.Account) error {
	amount, err := a.col.CollectOne(amountField("Transactions - deposit"))
	if err != nil {
		return err
	}
	if err := account.Deposit(amount.Dec); err != nil {
		fmt.Fprintf(a.out, "\n%v\n", err)
		console.ReportOutcome(a.out, "deposit", false)
		return nil
	}
	console.ReportOutcome(a.out, "deposit", true)
	return a.persist(ctx)
}

// unfreeze runs the knowledge-based recovery: personal data plus a new
// password. A mismatch is reported without telling which field failed.
func (a *App) unfreeze(ctx context.Context, token bank.AuthToken) error {
	values, err := a.col.Collect([]console.Field{
		nameField(), birthDateField(), passwordField("Recovery - new password"),
	})
	if err != nil {
		return err
	}

	ok, err := a.bank.UnfreezeAccount(token, values["name"].Str, values["birth_date"].Str, values["password"].Str)
	switch {
	case errors.Is(err, bank.ErrAccountActive):
		fmt.Fprintln(a.out, "\nAccount is already active.")
		return nil
	case errors.Is(err, bank.ErrPasswordInUse):
		fmt.Fprintln(a.out, "\nPassword already linked to this CPF. Run the recovery again.")
		console.ReportOutcome(a.out, "unfreeze", false)
		return nil
	case err != nil:
		return err
	case !ok:
		fmt.Fprintln(a.out, "\nPersonal data does not match our records.")
		console.ReportOutcome(a.out, "unfreeze", false)
		return nil
	}

	console.ReportOutcome(a.out, "unfreeze", true)
	return a.persist(ctx)
}

// closeAccount confirms credentials and removes the account; the balance
// must be exactly zero.
func (a *App) closeAccount(ctx context.Context, token bank.AuthToken) error {
	password, err := a.col.CollectOne(passwordField("Closure - password"))
	if err != nil {
		return err
	}

	err = a.bank.CloseAccount(token, password.Str)
	switch {
	case errors.Is(err, bank.ErrBalanceNotZero):
		fmt.Fprintln(a.out, "\nThe balance must be exactly zero before closing.")
		console.ReportOutcome(a.out, "close", false)
		return fmt.Errorf("%w: closure rejected", model.ErrAborted)
	case errors.Is(err, bank.ErrAccountNotFound):
		fmt.Fprintln(a.out, "\nWrong password; closure cancelled.")
		console.ReportOutcome(a.out, "close", false)
		return fmt.Errorf("%w: closure rejected", model.ErrAborted)
	case err != nil:
		return err
	}

	console.ReportOutcome(a.out, "close", true)
	return a.persist(ctx)
}
