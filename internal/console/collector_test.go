package console

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mteribeiro/cedro-bank/internal/model"
)

func collect(t *testing.T, input string, field Field) (Value, string, error) {
	t.Helper()
	var out bytes.Buffer
	c := NewCollector(strings.NewReader(input), &out)
	v, err := c.CollectOne(field)
	return v, out.String(), err
}

func TestCollector_CollectOne_String(t *testing.T) {
	field := Field{
		Key:    "name",
		Info:   "info",
		Prompt: "name: ",
		Kind:   KindString,
	}
	v, _, err := collect(t, "Maria\n", field)
	if err != nil {
		t.Fatalf("CollectOne() error = %v", err)
	}
	if v.Str != "Maria" {
		t.Errorf("Str = %q, want %q", v.Str, "Maria")
	}
}

func TestCollector_CollectOne_TrimsWhitespace(t *testing.T) {
	field := Field{Key: "name", Info: "info", Prompt: "> ", Kind: KindString}
	v, _, err := collect(t, "  Maria  \n", field)
	if err != nil {
		t.Fatalf("CollectOne() error = %v", err)
	}
	if v.Str != "Maria" {
		t.Errorf("Str = %q, want %q", v.Str, "Maria")
	}
}

func TestCollector_CollectOne_Int(t *testing.T) {
	field := Field{
		Key:      "option",
		Info:     "info",
		Prompt:   "> ",
		ErrorMsg: "pick 1 or 2",
		Kind:     KindInt,
		Validate: func(v Value) bool { return v.Int >= 1 && v.Int <= 2 },
	}

	// Two bad entries before a good one: non-numeric, out of range.
	v, output, err := collect(t, "abc\n7\n2\n", field)
	if err != nil {
		t.Fatalf("CollectOne() error = %v", err)
	}
	if v.Int != 2 {
		t.Errorf("Int = %d, want 2", v.Int)
	}
	if strings.Count(output, "pick 1 or 2") != 2 {
		t.Errorf("expected two re-prompts, output:\n%s", output)
	}
}

func TestCollector_CollectOne_Decimal(t *testing.T) {
	field := Field{
		Key:      "amount",
		Info:     "info",
		Prompt:   "> ",
		ErrorMsg: "bad amount",
		Kind:     KindDecimal,
		Validate: func(v Value) bool { return v.Dec.IsPositive() },
	}
	v, _, err := collect(t, "-3\n10.50\n", field)
	if err != nil {
		t.Fatalf("CollectOne() error = %v", err)
	}
	if !v.Dec.Equal(decimal.RequireFromString("10.50")) {
		t.Errorf("Dec = %v, want 10.50", v.Dec)
	}
}

func TestCollector_CollectOne_ExitCommand(t *testing.T) {
	field := Field{Key: "name", Info: "info", Prompt: "> ", Kind: KindString}

	for _, input := range []string{"S\n", "s\n"} {
		_, _, err := collect(t, input, field)
		if !errors.Is(err, model.ErrAborted) {
			t.Errorf("input %q: error = %v, want %v", input, err, model.ErrAborted)
		}
	}
}

func TestCollector_CollectOne_ClosedInput(t *testing.T) {
	field := Field{Key: "name", Info: "info", Prompt: "> ", Kind: KindString}
	_, _, err := collect(t, "", field)
	if !errors.Is(err, model.ErrAborted) {
		t.Errorf("error = %v, want %v", err, model.ErrAborted)
	}
}

func TestCollector_Collect(t *testing.T) {
	fields := []Field{
		{Key: "branch", Info: "info", Prompt: "> ", Kind: KindString},
		{Key: "amount", Info: "info", Prompt: "> ", Kind: KindDecimal},
	}
	var out bytes.Buffer
	c := NewCollector(strings.NewReader("1234\n99.90\n"), &out)

	values, err := c.Collect(fields)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if values["branch"].Str != "1234" {
		t.Errorf("branch = %q, want 1234", values["branch"].Str)
	}
	if !values["amount"].Dec.Equal(decimal.RequireFromString("99.90")) {
		t.Errorf("amount = %v, want 99.90", values["amount"].Dec)
	}
}

func TestCollector_Collect_AbortMidway(t *testing.T) {
	fields := []Field{
		{Key: "branch", Info: "info", Prompt: "> ", Kind: KindString},
		{Key: "number", Info: "info", Prompt: "> ", Kind: KindString},
	}
	var out bytes.Buffer
	c := NewCollector(strings.NewReader("1234\nS\n"), &out)

	if _, err := c.Collect(fields); !errors.Is(err, model.ErrAborted) {
		t.Errorf("Collect() error = %v, want %v", err, model.ErrAborted)
	}
}

func TestRenderStatement(t *testing.T) {
	var out bytes.Buffer
	transactions := []decimal.Decimal{
		decimal.RequireFromString("100"),
		decimal.RequireFromString("-3050"),
	}
	RenderStatement(&out, transactions, decimal.RequireFromString("-2950"))

	got := out.String()
	for _, want := range []string{"credit", "100.00", "debit", "-3050.00", "balance", "-2950.00"} {
		if !strings.Contains(got, want) {
			t.Errorf("statement missing %q:\n%s", want, got)
		}
	}
}

func TestRenderStatement_Empty(t *testing.T) {
	var out bytes.Buffer
	RenderStatement(&out, nil, decimal.Zero)
	if !strings.Contains(out.String(), "no transactions recorded") {
		t.Errorf("empty statement output:\n%s", out.String())
	}
}

func TestReportOutcome(t *testing.T) {
	var out bytes.Buffer
	ReportOutcome(&out, "withdraw", true)
	ReportOutcome(&out, "deposit", false)

	got := out.String()
	if !strings.Contains(got, "[withdraw] operation completed") {
		t.Errorf("missing success line:\n%s", got)
	}
	if !strings.Contains(got, "[deposit] operation failed") {
		t.Errorf("missing failure line:\n%s", got)
	}
}

func TestRenderCards(t *testing.T) {
	var out bytes.Buffer
	RenderCards(&out, []model.Card{
		{ClientCPF: "52998224725", BranchCode: "1234", AccountNumber: "00000001"},
		{ClientCPF: "52998224725", BranchCode: "1234", AccountNumber: "00000002"},
	})

	got := out.String()
	if !strings.Contains(got, "1 - ") || !strings.Contains(got, "2 - ") {
		t.Errorf("cards menu not 1-based numbered:\n%s", got)
	}
	if !strings.Contains(got, "00000002") {
		t.Errorf("cards menu missing account number:\n%s", got)
	}
}
