// Package console implements the terminal I/O layer: a generic
// field-collection loop with typed parsing and per-field validation, and
// feedback rendering. It knows nothing about banking rules beyond the
// validators handed to it.
package console

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mteribeiro/cedro-bank/internal/model"
)

// ExitCommand aborts the current collection when entered for any field.
const ExitCommand = "S"

// Kind selects how a field's raw input is parsed.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindDecimal
)

// Value is one collected, typed scalar.
type Value struct {
	Kind Kind
	Str  string
	Int  int
	Dec  decimal.Decimal
}

// Field describes one named input: prompts, expected type and an optional
// validator. An invalid entry re-prompts with ErrorMsg; it never aborts.
type Field struct {
	Key      string
	Info     string
	Prompt   string
	ErrorMsg string
	Kind     Kind
	Validate func(Value) bool
}

// Collector reads fields from an input stream and writes prompts and
// feedback to an output stream.
type Collector struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewCollector wraps the given streams.
func NewCollector(in io.Reader, out io.Writer) *Collector {
	return &Collector{in: bufio.NewScanner(in), out: out}
}

// Collect prompts for every field in order and returns the validated values
// keyed by field name. It returns a model.ErrAborted error when the user
// enters the exit command or the input stream ends.
func (c *Collector) Collect(fields []Field) (map[string]Value, error) {
	values := make(map[string]Value, len(fields))
	for _, field := range fields {
		value, err := c.CollectOne(field)
		if err != nil {
			return nil, err
		}
		values[field.Key] = value
	}
	return values, nil
}

// CollectOne prompts for a single field until a valid value is entered or
// the user aborts.
func (c *Collector) CollectOne(field Field) (Value, error) {
	fmt.Fprintf(c.out, "\n--- %s ---\t>> '%s' to quit <<\n", field.Info, ExitCommand)
	for {
		fmt.Fprint(c.out, field.Prompt)
		if !c.in.Scan() {
			return Value{}, fmt.Errorf("%w: input closed", model.ErrAborted)
		}
		raw := strings.TrimSpace(c.in.Text())
		if strings.EqualFold(raw, ExitCommand) {
			return Value{}, fmt.Errorf("%w: exit command", model.ErrAborted)
		}

		value, ok := parse(field.Kind, raw)
		if !ok || (field.Validate != nil && !field.Validate(value)) {
			fmt.Fprintf(c.out, "\n%s\n", field.ErrorMsg)
			continue
		}
		return value, nil
	}
}

func parse(kind Kind, raw string) (Value, bool) {
	switch kind {
	case KindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Value{}, false
		}
		return Value{Kind: KindInt, Int: n}, true
	case KindDecimal:
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return Value{}, false
		}
		return Value{Kind: KindDecimal, Dec: d}, true
	default:
		return Value{Kind: KindString, Str: raw}, true
	}
}
