package console

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/mteribeiro/cedro-bank/internal/model"
)

// ReportOutcome prints a (category, outcome) feedback line.
func ReportOutcome(w io.Writer, category string, ok bool) {
	status := "completed"
	if !ok {
		status = "failed"
	}
	fmt.Fprintf(w, "\n[%s] operation %s\n", category, status)
}

// RenderStatement prints the ordered transaction history followed by the
// current balance. Deposits show as credits, withdrawals as debits.
func RenderStatement(w io.Writer, transactions []decimal.Decimal, balance decimal.Decimal) {
	fmt.Fprintln(w, "\n========= STATEMENT =========")
	if len(transactions) == 0 {
		fmt.Fprintln(w, "no transactions recorded")
	}
	for _, tx := range transactions {
		label := "credit"
		if tx.IsNegative() {
			label = "debit"
		}
		fmt.Fprintf(w, "%-8s %12s\n", label, tx.StringFixed(2))
	}
	fmt.Fprintln(w, "-----------------------------")
	fmt.Fprintf(w, "%-8s %12s\n", "balance", balance.StringFixed(2))
	fmt.Fprintln(w, "=============================")
}

// RenderCards prints the client's saved cards as a numbered menu, 1-based.
func RenderCards(w io.Writer, cards []model.Card) {
	fmt.Fprintln(w, "\nSaved cards:")
	for i, card := range cards {
		fmt.Fprintf(w, "%d - CPF: %s | branch: %s | account: %s\n",
			i+1, card.ClientCPF, card.BranchCode, card.AccountNumber)
	}
}
