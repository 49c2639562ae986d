package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount in minor currency units (cents).
type Money int64

var hundred = decimal.NewFromInt(100)

func Cents(c int64) Money { return Money(c) }

// ParseMoney reads a decimal amount such as "100", "99.9" or "1000.00".
// More than two fractional digits are rejected rather than rounded.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return fromDecimal(d)
}

func fromDecimal(d decimal.Decimal) (Money, error) {
	if !d.Equal(d.Truncate(2)) {
		return 0, fmt.Errorf("amount %s has more than two decimal places", d)
	}
	cents := d.Shift(2)
	if !cents.BigInt().IsInt64() {
		return 0, fmt.Errorf("amount %s is out of range", d)
	}
	return Money(cents.IntPart()), nil
}

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal { return decimal.New(int64(m), -2) }

func (m Money) Cents() int64 { return int64(m) }

// Mul multiplies by a whole quantity; there is no rounding involved.
func (m Money) Mul(n int) Money {
	return Money(decimal.NewFromInt(int64(m)).Mul(decimal.NewFromInt(int64(n))).IntPart())
}

// Percent returns p percent of m rounded half away from zero to the cent.
func (m Money) Percent(p int) Money {
	v := m.Decimal().Mul(decimal.NewFromInt(int64(p))).Div(hundred).Round(2)
	return Money(v.Shift(2).IntPart())
}

func (m Money) String() string { return m.Decimal().StringFixed(2) }

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.String())), nil
}

// UnmarshalJSON accepts both a JSON number and a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	if strings.TrimSpace(string(data)) == "null" {
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	v, err := fromDecimal(d)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
