// Copyright (c) 2024 The Recipe Grid Authors. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package recipe

import (
	"strings"
	"testing"

	"github.com/recipegrid/recipegrid/number"
)

func TestScaledValueStringNormalisation(t *testing.T) {
	// Adjacent text parts merge and empty text parts disappear.
	s := Text("divide into ").Append(Text(""), Value(number.Int(8)), Text(" burgers"), Text(" about 10cm"))
	parts := s.Parts()
	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d: %#v", len(parts), parts)
	}
	if parts[0].IsValue || parts[0].Text != "divide into " {
		t.Errorf("bad part 0: %#v", parts[0])
	}
	if !parts[1].IsValue || !parts[1].Value.Equal(number.Int(8)) {
		t.Errorf("bad part 1: %#v", parts[1])
	}
	if parts[2].Text != " burgers about 10cm" {
		t.Errorf("bad part 2: %#v", parts[2])
	}
	// No two consecutive parts are both text.
	for i := 1; i < len(parts); i++ {
		if !parts[i-1].IsValue && !parts[i].IsValue {
			t.Errorf("parts %d and %d are both text", i-1, i)
		}
	}
}

func TestScaledValueStringScaleAndRender(t *testing.T) {
	s := Text("divide into ").Append(Value(number.Int(8)), Text(" burgers about 10cm in diameter"))
	if got := s.Scale(number.Int(2)).String(); got != "divide into 16 burgers about 10cm in diameter" {
		t.Errorf("got %q", got)
	}
	if got := s.String(); got != "divide into 8 burgers about 10cm in diameter" {
		t.Errorf("scale must not modify the receiver: got %q", got)
	}
}

func TestScaledValueStringRenderFormatters(t *testing.T) {
	s := Text("a ").Append(Value(number.Frac(1, 2)), Text(" b"))
	got := s.Render(
		func(n number.Number) string { return "<" + n.String() + ">" },
		strings.ToUpper,
	)
	if got != "A <1/2> B" {
		t.Errorf("got %q", got)
	}
}

func TestScaledValueStringEqual(t *testing.T) {
	a := Text("x").Append(Value(number.Int(1)), Text("y"))
	b := Text("x").Append(Value(number.Int(1)), Text("y"))
	if !a.Equal(b) {
		t.Error("equal strings reported unequal")
	}
	if a.Equal(Text("x")) {
		t.Error("different strings reported equal")
	}
	// Construction order must not matter once normalised.
	c := Text("x").Append(Value(number.Int(1)), Text("y"), Text(""))
	if !a.Equal(c) {
		t.Error("normalisation-equivalent strings reported unequal")
	}
}

func TestScaledValueStringCaseAndTrim(t *testing.T) {
	s := Text("  Sliced ").Append(Value(number.Int(2)), Text(" Ways  "))
	if got := s.Lower().String(); got != "  sliced 2 ways  " {
		t.Errorf("Lower: got %q", got)
	}
	if got := s.Upper().String(); got != "  SLICED 2 WAYS  " {
		t.Errorf("Upper: got %q", got)
	}
	if got := s.Trim().String(); got != "Sliced 2 Ways" {
		t.Errorf("Trim: got %q", got)
	}
	// Trimming only applies to text at the very ends.
	v := Value(number.Int(1)).Append(Text(" x "), Value(number.Int(2)))
	if got := v.Trim().String(); got != "1 x 2" {
		t.Errorf("Trim around values: got %q", got)
	}
}
