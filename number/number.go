// Copyright (c) 2024 The Recipe Grid Authors. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package number implements the numeric tower used throughout the recipe
// compiler: integers, exact fractions and floats, with parsing and
// human-friendly formatting.
//
// Arithmetic follows the usual contagion rules: an operation involving a
// float gives a float, an operation involving a fraction gives a fraction
// (collapsed to an integer when the denominator becomes 1) and an operation
// between integers gives an integer. Division of two integers gives a float.
package number

import (
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

// Kind is the kind of a Number.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindFrac
)

// Number is an immutable numeric value: an integer, a float or an exact
// fraction. The zero Number is the integer 0.
type Number struct {
	kind Kind
	i    int64
	f    float64
	rat  *big.Rat // kind == KindFrac only, denominator always > 1
}

// Int returns the integer i as a Number.
func Int(i int64) Number {
	return Number{kind: KindInt, i: i}
}

// Float returns the float f as a Number.
func Float(f float64) Number {
	return Number{kind: KindFloat, f: f}
}

// Frac returns the fraction num/den as a Number. It panics if den is zero.
// The fraction is reduced and, if the reduced denominator is 1, an integer
// is returned instead.
func Frac(num, den int64) Number {
	if den == 0 {
		panic("number: fraction with zero denominator")
	}
	return fromRat(new(big.Rat).SetFrac64(num, den))
}

func fromRat(r *big.Rat) Number {
	if r.IsInt() {
		return Number{kind: KindInt, i: r.Num().Int64()}
	}
	return Number{kind: KindFrac, rat: r}
}

// Kind returns the kind of n.
func (n Number) Kind() Kind { return n.kind }

// IsZero reports whether n is numerically zero.
func (n Number) IsZero() bool {
	switch n.kind {
	case KindInt:
		return n.i == 0
	case KindFloat:
		return n.f == 0
	default:
		return n.rat.Sign() == 0
	}
}

// Int64 returns the value of n truncated to an integer.
func (n Number) Int64() int64 {
	switch n.kind {
	case KindInt:
		return n.i
	case KindFloat:
		return int64(n.f)
	default:
		return n.rat.Num().Int64() / n.rat.Denom().Int64()
	}
}

// Float64 returns the value of n as a float.
func (n Number) Float64() float64 {
	switch n.kind {
	case KindInt:
		return float64(n.i)
	case KindFloat:
		return n.f
	default:
		f, _ := n.rat.Float64()
		return f
	}
}

// Rat returns the exact value of n as a big.Rat. Floats are converted
// exactly.
func (n Number) Rat() *big.Rat {
	switch n.kind {
	case KindInt:
		return new(big.Rat).SetInt64(n.i)
	case KindFloat:
		if r := new(big.Rat).SetFloat64(n.f); r != nil {
			return r
		}
		return new(big.Rat) // NaN or Inf, callers never produce these
	default:
		return new(big.Rat).Set(n.rat)
	}
}

// Mul returns the product of n and m.
func (n Number) Mul(m Number) Number {
	if n.kind == KindFloat || m.kind == KindFloat {
		return Float(n.Float64() * m.Float64())
	}
	if n.kind == KindFrac || m.kind == KindFrac {
		return fromRat(new(big.Rat).Mul(n.Rat(), m.Rat()))
	}
	return Int(n.i * m.i)
}

// Div returns n divided by m. The division of two integers gives a float;
// otherwise the usual contagion rules apply. It panics if m is zero and
// neither operand is a float.
func (n Number) Div(m Number) Number {
	if n.kind == KindFloat || m.kind == KindFloat {
		return Float(n.Float64() / m.Float64())
	}
	if n.kind == KindFrac || m.kind == KindFrac {
		return fromRat(new(big.Rat).Quo(n.Rat(), m.Rat()))
	}
	return Float(float64(n.i) / float64(m.i))
}

// DivExact returns n divided by m like Div, but the division of two
// integers gives an exact fraction rather than a float.
func (n Number) DivExact(m Number) Number {
	if n.kind == KindFloat || m.kind == KindFloat {
		return Float(n.Float64() / m.Float64())
	}
	return fromRat(new(big.Rat).Quo(n.Rat(), m.Rat()))
}

// Add returns the sum of n and m.
func (n Number) Add(m Number) Number {
	if n.kind == KindFloat || m.kind == KindFloat {
		return Float(n.Float64() + m.Float64())
	}
	if n.kind == KindFrac || m.kind == KindFrac {
		return fromRat(new(big.Rat).Add(n.Rat(), m.Rat()))
	}
	return Int(n.i + m.i)
}

// Equal reports whether n and m have exactly the same numeric value. Kinds
// are not compared: the integer 2, the fraction 4/2 and the float 2.0 are
// all equal.
func (n Number) Equal(m Number) bool {
	if n.kind == m.kind {
		switch n.kind {
		case KindInt:
			return n.i == m.i
		case KindFloat:
			return n.f == m.f
		}
	}
	return n.Rat().Cmp(m.Rat()) == 0
}

// EqualApprox reports whether n and m are equal within the relative
// tolerance tol.
func (n Number) EqualApprox(m Number, tol float64) bool {
	if n.Equal(m) {
		return true
	}
	a, b := n.Float64(), m.Float64()
	return math.Abs(a-b) <= tol*math.Max(math.Abs(a), math.Abs(b))
}

// String returns n formatted with Format.
func (n Number) String() string { return Format(n) }

var fractionPattern = regexp.MustCompile(
	`^(?:([0-9]+)[ \t]+)?([0-9]+)[ \t]*/[ \t]*([0-9]+)$`)

// Parse parses a number formatted as a fraction (e.g. "9 3/4"), a decimal
// (e.g. "3.14") or an integer (e.g. "123").
func Parse(text string) (Number, error) {
	if m := fractionPattern.FindStringSubmatch(text); m != nil {
		var integer int64
		if m[1] != "" {
			integer, _ = strconv.ParseInt(m[1], 10, 64)
		}
		num, _ := strconv.ParseInt(m[2], 10, 64)
		den, err := strconv.ParseInt(m[3], 10, 64)
		if err != nil || den == 0 {
			return Number{}, fmt.Errorf("number: invalid fraction %q", text)
		}
		return Int(integer).Add(Frac(num, den)), nil
	}
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return Int(i), nil
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return Float(f), nil
	}
	return Number{}, fmt.Errorf("number: cannot parse %q", text)
}

// niceDenominators are the denominators for which fractions are shown as
// fractions rather than falling back to decimal form.
var niceDenominators = map[int64]bool{
	2: true, 3: true, 4: true, 5: true, 6: true, 7: true, 8: true,
	12: true, 16: true,
}

// FormatFloat formats a floating point value in a concise, human-friendly
// way. Up to significantFigures digits are shown after the decimal point,
// with fewer digits shown for each digit in the integer part. Trailing
// zeros and trailing decimal points are dropped. Scientific notation is
// never used and digits before the decimal point are never dropped.
func FormatFloat(f float64, significantFigures int) string {
	integer, fractional := math.Modf(f)
	integerStr := fmt.Sprintf("%.0f", integer)

	integerDigits := len(strings.TrimLeft(integerStr, "-0"))
	fractionalDigits := significantFigures - integerDigits
	if fractionalDigits < 0 {
		fractionalDigits = 0
	}
	// With no fractional digits the formatted value is just "0" or "1"
	// and there is nothing after the decimal point to keep.
	fractionalStr := fmt.Sprintf("%.*f", fractionalDigits, math.Abs(fractional))
	if len(fractionalStr) > 2 {
		fractionalStr = strings.TrimRight(fractionalStr[2:], "0")
	} else {
		fractionalStr = ""
	}

	if fractionalStr == "" {
		return strconv.FormatFloat(math.Round(f), 'f', -1, 64)
	}
	return integerStr + "." + fractionalStr
}

// FormatFrac formats an exact fraction in a human-friendly way. Improper
// fractions are broken into an integer and a fractional part ("1 3/4");
// fractions with an unusual denominator are shown in decimal form instead.
func FormatFrac(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}
	den := r.Denom().Int64()
	if !niceDenominators[den] {
		f, _ := r.Float64()
		return FormatFloat(f, 3)
	}
	num := r.Num().Int64()
	sign := int64(1)
	if num < 0 {
		sign = -1
		num = -num
	}
	if num > den {
		integer := num / den
		num %= den
		return fmt.Sprintf("%d %d/%d", sign*integer, num, den)
	}
	return fmt.Sprintf("%d/%d", sign*num, den)
}

// Format formats a number in a human-friendly way. Fractions are rendered
// as fractions where it is sensible to do so; all other values are shown in
// decimal form. See FormatFloat and FormatFrac.
func Format(n Number) string {
	switch n.kind {
	case KindInt:
		return strconv.FormatInt(n.i, 10)
	case KindFloat:
		return FormatFloat(n.f, 3)
	default:
		return FormatFrac(n.rat)
	}
}
