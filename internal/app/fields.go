package app

import (
	"fmt"

	"github.com/mteribeiro/cedro-bank/internal/bank"
	"github.com/mteribeiro/cedro-bank/internal/console"
	"github.com/mteribeiro/cedro-bank/internal/model"
)

// Field catalog for the interactive workflows. Validators mirror the domain
// rules so bad input is caught at the prompt instead of bouncing off the
// aggregate.

func nameField() console.Field {
	return console.Field{
		Key:      "name",
		Info:     "Identification - name",
		Prompt:   "Full name (letters only): ",
		ErrorMsg: "Name must have at least three letters, no special characters, no leading or trailing spaces.",
		Kind:     console.KindString,
		Validate: func(v console.Value) bool {
			_, err := model.ValidateName(v.Str)
			return err == nil
		},
	}
}

func birthDateField() console.Field {
	return console.Field{
		Key:      "birth_date",
		Info:     "Identification - birth date",
		Prompt:   "Birth date (dd/mm/yyyy): ",
		ErrorMsg: "Invalid birth date. Use dd/mm/yyyy; age must be between 18 and 120.",
		Kind:     console.KindString,
		Validate: func(v console.Value) bool {
			_, err := model.ValidateBirthDate(v.Str)
			return err == nil
		},
	}
}

func cpfField() console.Field {
	return console.Field{
		Key:      "cpf",
		Info:     "Identification - CPF",
		Prompt:   "CPF (digits only): ",
		ErrorMsg: "Invalid CPF. It must have exactly 11 digits and valid verifier digits.",
		Kind:     console.KindString,
		Validate: func(v console.Value) bool {
			_, err := model.ValidateCPF(v.Str)
			return err == nil
		},
	}
}

func branchField() console.Field {
	return console.Field{
		Key:      "branch_code",
		Info:     "Account - branch",
		Prompt:   "Branch code (4 digits): ",
		ErrorMsg: "Invalid branch code. It must be a positive number of exactly 4 digits.",
		Kind:     console.KindString,
		Validate: func(v console.Value) bool {
			return model.IsDigits(v.Str, 4)
		},
	}
}

func accountNumberField() console.Field {
	return console.Field{
		Key:      "account_number",
		Info:     "Account - number",
		Prompt:   "Account number (8 digits): ",
		ErrorMsg: "Invalid account number. It must be a positive number of exactly 8 digits.",
		Kind:     console.KindString,
		Validate: func(v console.Value) bool {
			return model.IsDigits(v.Str, 8)
		},
	}
}

func passwordField(info string) console.Field {
	return console.Field{
		Key:      "password",
		Info:     info,
		Prompt:   "Password (6 digits): ",
		ErrorMsg: "Invalid password format. The password must be a number of exactly 6 digits.",
		Kind:     console.KindString,
		Validate: func(v console.Value) bool {
			return bank.ValidatePassword(v.Str) == nil
		},
	}
}

func openingBalanceField() console.Field {
	return console.Field{
		Key:      "balance",
		Info:     "Account - opening balance",
		Prompt:   "Opening balance: ",
		ErrorMsg: "Invalid amount. The opening balance must be a non-negative number.",
		Kind:     console.KindDecimal,
		Validate: func(v console.Value) bool {
			return !v.Dec.IsNegative()
		},
	}
}

func amountField(info string) console.Field {
	return console.Field{
		Key:      "amount",
		Info:     info,
		Prompt:   "Amount: ",
		ErrorMsg: "Invalid amount. It must be a positive number.",
		Kind:     console.KindDecimal,
		Validate: func(v console.Value) bool {
			return v.Dec.IsPositive()
		},
	}
}

// menuField builds a numbered menu accepting options 1..max.
func menuField(info, prompt string, max int) console.Field {
	return console.Field{
		Key:      "option",
		Info:     info,
		Prompt:   prompt,
		ErrorMsg: fmt.Sprintf("Invalid option. Choose between 1 and %d.", max),
		Kind:     console.KindInt,
		Validate: func(v console.Value) bool {
			return v.Int >= 1 && v.Int <= max
		},
	}
}
