// Copyright (c) 2024 The Recipe Grid Authors. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package recipe

import (
	"strings"

	"github.com/recipegrid/recipegrid/number"
)

// ScaledValueString is a string containing numeric values which may be
// rescaled by a fixed factor.
//
// This type is aimed at strings of the style "divide into 8 burgers about
// 10cm in diameter": when the recipe is scaled up or down the '8' should be
// scaled but the '10' should not. Such a string is built as:
//
//	s := recipe.Text("divide into ").
//		Append(recipe.Value(number.Int(8))).
//		Append(recipe.Text(" burgers about 10cm in diameter"))
//
// and s.Scale(number.Int(2)).String() gives "divide into 16 burgers about
// 10cm in diameter".
//
// A ScaledValueString is an immutable value: all methods return new values.
// Adjacent text parts are merged and empty text parts dropped at
// construction, so equality is structural over the normalised part
// sequence.
type ScaledValueString struct {
	parts []StringPart
}

// StringPart is one part of a ScaledValueString. IsValue selects between
// the Text and Value fields.
type StringPart struct {
	Text    string
	Value   number.Number
	IsValue bool
}

// Text returns a ScaledValueString holding only the literal text.
func Text(text string) ScaledValueString {
	if text == "" {
		return ScaledValueString{}
	}
	return ScaledValueString{parts: []StringPart{{Text: text}}}
}

// Value returns a ScaledValueString holding only the numeric value.
func Value(v number.Number) ScaledValueString {
	return ScaledValueString{parts: []StringPart{{Value: v, IsValue: true}}}
}

// FromParts builds a ScaledValueString from the given parts, merging
// adjacent text parts and dropping empty ones.
func FromParts(parts []StringPart) ScaledValueString {
	normalised := make([]StringPart, 0, len(parts))
	for _, part := range parts {
		if !part.IsValue {
			if part.Text == "" {
				continue
			}
			if n := len(normalised); n > 0 && !normalised[n-1].IsValue {
				normalised[n-1].Text += part.Text
				continue
			}
		}
		normalised = append(normalised, part)
	}
	return ScaledValueString{parts: normalised}
}

// Parts returns the normalised parts of s. The returned slice must not be
// modified.
func (s ScaledValueString) Parts() []StringPart { return s.parts }

// IsEmpty reports whether s has no parts.
func (s ScaledValueString) IsEmpty() bool { return len(s.parts) == 0 }

// Append concatenates s and others, merging adjacent text parts.
func (s ScaledValueString) Append(others ...ScaledValueString) ScaledValueString {
	parts := append([]StringPart{}, s.parts...)
	for _, other := range others {
		parts = append(parts, other.parts...)
	}
	return FromParts(parts)
}

// Scale multiplies every numeric part of s by factor, leaving text parts
// untouched.
func (s ScaledValueString) Scale(factor number.Number) ScaledValueString {
	parts := make([]StringPart, len(s.parts))
	for i, part := range s.parts {
		if part.IsValue {
			part.Value = part.Value.Mul(factor)
		}
		parts[i] = part
	}
	return ScaledValueString{parts: parts}
}

// Render concatenates the parts of s, formatting numeric parts with
// formatValue and text parts with formatText. Either function may be nil,
// in which case number.Format and the identity are used respectively.
func (s ScaledValueString) Render(formatValue func(number.Number) string, formatText func(string) string) string {
	if formatValue == nil {
		formatValue = number.Format
	}
	var b strings.Builder
	for _, part := range s.parts {
		if part.IsValue {
			b.WriteString(formatValue(part.Value))
		} else if formatText != nil {
			b.WriteString(formatText(part.Text))
		} else {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}

// String renders s with default formatting.
func (s ScaledValueString) String() string { return s.Render(nil, nil) }

// Equal reports whether s and other have the same part sequence.
func (s ScaledValueString) Equal(other ScaledValueString) bool {
	if len(s.parts) != len(other.parts) {
		return false
	}
	for i, part := range s.parts {
		o := other.parts[i]
		if part.IsValue != o.IsValue {
			return false
		}
		if part.IsValue {
			if !part.Value.Equal(o.Value) {
				return false
			}
		} else if part.Text != o.Text {
			return false
		}
	}
	return true
}

// Lower lower-cases every text part of s.
func (s ScaledValueString) Lower() ScaledValueString {
	return s.mapText(strings.ToLower)
}

// Upper upper-cases every text part of s.
func (s ScaledValueString) Upper() ScaledValueString {
	return s.mapText(strings.ToUpper)
}

func (s ScaledValueString) mapText(f func(string) string) ScaledValueString {
	parts := make([]StringPart, len(s.parts))
	for i, part := range s.parts {
		if !part.IsValue {
			part.Text = f(part.Text)
		}
		parts[i] = part
	}
	return ScaledValueString{parts: parts}
}

// TrimLeading removes leading white space from the first part of s when it
// is text.
func (s ScaledValueString) TrimLeading() ScaledValueString {
	if len(s.parts) == 0 || s.parts[0].IsValue {
		return s
	}
	parts := append([]StringPart{}, s.parts...)
	parts[0].Text = strings.TrimLeft(parts[0].Text, " \t\n\r\v\f")
	return FromParts(parts)
}

// TrimTrailing removes trailing white space from the last part of s when it
// is text.
func (s ScaledValueString) TrimTrailing() ScaledValueString {
	n := len(s.parts)
	if n == 0 || s.parts[n-1].IsValue {
		return s
	}
	parts := append([]StringPart{}, s.parts...)
	parts[n-1].Text = strings.TrimRight(parts[n-1].Text, " \t\n\r\v\f")
	return FromParts(parts)
}

// Trim removes leading and trailing white space from s.
func (s ScaledValueString) Trim() ScaledValueString {
	return s.TrimLeading().TrimTrailing()
}
