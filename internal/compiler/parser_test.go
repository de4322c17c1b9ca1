// Copyright (c) 2024 The Recipe Grid Authors. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"reflect"
	"testing"

	"github.com/recipegrid/recipegrid/ast"
	"github.com/recipegrid/recipegrid/number"
)

// Test helpers building expected trees with nil positions. Positions are
// checked separately in TestParseRecipePositions.

func str(text string) *ast.String { return ast.NewTextString(nil, text) }

func sub(text string) *ast.Substring { return ast.NewSubstring(nil, text) }

func iv(value number.Number) *ast.InterpolatedValue { return ast.NewInterpolatedValue(nil, value) }

func ref(name *ast.String, amount ast.Amount) *ast.Reference { return ast.NewReference(name, amount) }

func qty(value number.Number, unit *ast.String, spacing, preposition string) *ast.Quantity {
	return ast.NewQuantity(nil, value, unit, spacing, preposition)
}

func prop(value *number.Number, percentage bool, wording, preposition string) *ast.Proportion {
	return ast.NewProportion(nil, value, percentage, wording, preposition)
}

func num(n number.Number) *number.Number { return &n }

func stmts(exprs ...ast.Expr) *ast.Recipe {
	recipe := &ast.Recipe{}
	for _, expr := range exprs {
		recipe.Stmts = append(recipe.Stmts, ast.NewStmt(nil, false, expr))
	}
	return recipe
}

// clearPositions zeroes all the positions in tree so that it can be
// compared with an expected tree built without them.
func clearPositions(tree *ast.Recipe) {
	for _, stmt := range tree.Stmts {
		for _, out := range stmt.Outputs {
			clearStringPositions(out)
		}
		clearExprPositions(stmt.Expr)
	}
}

func clearExprPositions(expr ast.Expr) {
	switch expr := expr.(type) {
	case *ast.Step:
		clearStringPositions(expr.Name)
		for _, in := range expr.Inputs {
			clearExprPositions(in)
		}
	case *ast.Reference:
		clearStringPositions(expr.Name)
		switch amount := expr.Amount.(type) {
		case *ast.Quantity:
			amount.Position = nil
			if amount.Unit != nil {
				clearStringPositions(amount.Unit)
			}
		case *ast.Proportion:
			amount.Position = nil
		}
	}
}

func clearStringPositions(s *ast.String) {
	for _, part := range s.Parts {
		switch part := part.(type) {
		case *ast.Substring:
			part.Position = nil
		case *ast.InterpolatedValue:
			part.Position = nil
		}
	}
}

var parseRecipeTests = []struct {
	src  string
	tree *ast.Recipe
}{
	// minimal recipe
	{"spam", stmts(ref(str("spam"), nil))},

	// multiple words
	{"spam and spam", stmts(ref(str("spam and spam"), nil))},

	// quoted and bracketed strings with escapes
	{`'spam \?\n\' spam'`, stmts(ref(str("spam ?\n' spam"), nil))},
	{`"spam \?\n\" spam"`, stmts(ref(str("spam ?\n\" spam"), nil))},
	{`{spam \?\n\{\} spam}`, stmts(ref(str("spam ?\n{} spam"), nil))},

	// concatenated strings
	{`{Spam} spam 'and' "spaM"`, stmts(ref(ast.NewString([]ast.StringPart{
		sub("Spam"), sub(" "), sub("spam"), sub(" "), sub("and"), sub(" "), sub("spaM"),
	}), nil))},
	{`{Spam}'and'"eggs"`, stmts(ref(ast.NewString([]ast.StringPart{
		sub("Spam"), sub("and"), sub("eggs"),
	}), nil))},

	// string interpolation
	{"spam {1}", stmts(ref(ast.NewString([]ast.StringPart{
		sub("spam"), sub(" "), iv(number.Int(1)),
	}), nil))},
	{"spam {before 1 after 1 2/3 between 1.23 end}", stmts(ref(ast.NewString([]ast.StringPart{
		sub("spam"), sub(" "),
		sub("before "), iv(number.Int(1)),
		sub(" after "), iv(number.Frac(5, 3)),
		sub(" between "), iv(number.Float(1.23)),
		sub(" end"),
	}), nil))},

	// proportions: remainder
	{"remaining spam", stmts(ref(str("spam"), prop(nil, false, "remaining", "")))},
	{"remainder spam", stmts(ref(str("spam"), prop(nil, false, "remainder", "")))},
	{"remainder of spam", stmts(ref(str("spam"), prop(nil, false, "remainder", " of")))},
	{"rest spam", stmts(ref(str("spam"), prop(nil, false, "rest", "")))},
	{"rest of spam", stmts(ref(str("spam"), prop(nil, false, "rest", " of")))},
	{"rest of the spam", stmts(ref(str("spam"), prop(nil, false, "rest", " of the")))},
	{"left over spam", stmts(ref(str("spam"), prop(nil, false, "left over", "")))},

	// "remaining" is also a valid ingredient name
	{"remaining", stmts(ref(str("remaining"), nil))},

	// proportions: percentages
	{"50% spam", stmts(ref(str("spam"), prop(num(number.Float(0.5)), true, "", "%")))},
	{"50 % spam", stmts(ref(str("spam"), prop(num(number.Float(0.5)), true, "", " %")))},
	{"50% of the spam", stmts(ref(str("spam"), prop(num(number.Float(0.5)), true, "", "% of the")))},
	{"100/3% spam", stmts(ref(str("spam"), prop(num(number.Frac(1, 3)), true, "", "%")))},
	{"100 100/3% spam", stmts(ref(str("spam"), prop(num(number.Frac(4, 3)), true, "", "%")))},

	// proportions: factors
	{"0.1 * spam", stmts(ref(str("spam"), prop(num(number.Float(0.1)), false, "", " *")))},
	{"0.1*spam", stmts(ref(str("spam"), prop(num(number.Float(0.1)), false, "", "*")))},
	{"2/3 * spam", stmts(ref(str("spam"), prop(num(number.Frac(2, 3)), false, "", " *")))},
	{"1 2/3 * spam", stmts(ref(str("spam"), prop(num(number.Frac(5, 3)), false, "", " *")))},

	// proportions: "of" without a value
	{"1/3 of spam", stmts(ref(str("spam"), prop(num(number.Frac(1, 3)), false, "", " of")))},

	// explicit quantities
	{"{123} spam", stmts(ref(str("spam"), qty(number.Int(123), nil, "", "")))},
	{"{123g} spam", stmts(ref(str("spam"), qty(number.Int(123), str("g"), "", "")))},
	{"{123 g} spam", stmts(ref(str("spam"), qty(number.Int(123), str("g"), " ", "")))},
	{"{123 g} of spam", stmts(ref(str("spam"), qty(number.Int(123), str("g"), " ", " of")))},
	{"{123 foo bar} spam", stmts(ref(str("spam"), qty(number.Int(123), str("foo bar"), " ", "")))},
	{"{1.23 kg} spam", stmts(ref(str("spam"), qty(number.Float(1.23), str("kg"), " ", "")))},
	{"{2/3 kg} spam", stmts(ref(str("spam"), qty(number.Frac(2, 3), str("kg"), " ", "")))},
	{"{1 2/3 kg} spam", stmts(ref(str("spam"), qty(number.Frac(5, 3), str("kg"), " ", "")))},

	// implicit quantities
	{"123 spam", stmts(ref(str("spam"), qty(number.Int(123), nil, "", "")))},
	{"123g spam", stmts(ref(str("spam"), qty(number.Int(123), str("g"), "", "")))},
	{"123 g spam", stmts(ref(str("spam"), qty(number.Int(123), str("g"), " ", "")))},
	{"123 g of spam", stmts(ref(str("spam"), qty(number.Int(123), str("g"), " ", " of")))},
	{"1.23 kg spam", stmts(ref(str("spam"), qty(number.Float(1.23), str("kg"), " ", "")))},
	// the source spelling of the unit is preserved
	{"1.23 Kg spam", stmts(ref(str("spam"), qty(number.Float(1.23), str("Kg"), " ", "")))},
	{"2/3 kg spam", stmts(ref(str("spam"), qty(number.Frac(2, 3), str("kg"), " ", "")))},
	{"1 2/3 kg spam", stmts(ref(str("spam"), qty(number.Frac(5, 3), str("kg"), " ", "")))},
	// units match whole words only: "clove" must not match inside "cloves"
	{"2 cloves garlic", stmts(ref(str("garlic"), qty(number.Int(2), str("cloves"), " ", "")))},

	// steps
	{"cook(spam)", stmts(ast.NewStep(str("cook"), []ast.Expr{ref(str("spam"), nil)}))},
	{"cook(spam,)", stmts(ast.NewStep(str("cook"), []ast.Expr{ref(str("spam"), nil)}))},
	{"cook(spam, eggs)", stmts(ast.NewStep(str("cook"), []ast.Expr{
		ref(str("spam"), nil), ref(str("eggs"), nil),
	}))},
	{"cook(\nspam,\neggs\n)", stmts(ast.NewStep(str("cook"), []ast.Expr{
		ref(str("spam"), nil), ref(str("eggs"), nil),
	}))},
	{"cook(spam, eggs, )", stmts(ast.NewStep(str("cook"), []ast.Expr{
		ref(str("spam"), nil), ref(str("eggs"), nil),
	}))},

	// nested steps
	{"cook(slice(spam))", stmts(ast.NewStep(str("cook"), []ast.Expr{
		ast.NewStep(str("slice"), []ast.Expr{ref(str("spam"), nil)}),
	}))},

	// left-to-right shorthand
	{"spam, slice, cook", stmts(ast.NewStep(str("cook"), []ast.Expr{
		ast.NewStep(str("slice"), []ast.Expr{ref(str("spam"), nil)}),
	}))},
	{"(spam, slice, cook)", stmts(ast.NewStep(str("cook"), []ast.Expr{
		ast.NewStep(str("slice"), []ast.Expr{ref(str("spam"), nil)}),
	}))},
	{"cook((spam, slice))", stmts(ast.NewStep(str("cook"), []ast.Expr{
		ast.NewStep(str("slice"), []ast.Expr{ref(str("spam"), nil)}),
	}))},

	// output assignment
	{"meat = spam, sliced", &ast.Recipe{Stmts: []*ast.Stmt{
		ast.NewStmt([]*ast.String{str("meat")}, false,
			ast.NewStep(str("sliced"), []ast.Expr{ref(str("spam"), nil)})),
	}}},
	{"meat := spam, sliced", &ast.Recipe{Stmts: []*ast.Stmt{
		ast.NewStmt([]*ast.String{str("meat")}, true,
			ast.NewStep(str("sliced"), []ast.Expr{ref(str("spam"), nil)})),
	}}},
	{"meat, drained fat = spam, fried and drained", &ast.Recipe{Stmts: []*ast.Stmt{
		ast.NewStmt([]*ast.String{str("meat"), str("drained fat")}, false,
			ast.NewStep(str("fried and drained"), []ast.Expr{ref(str("spam"), nil)})),
	}}},

	// multiple statements
	{"spam\neggs", stmts(ref(str("spam"), nil), ref(str("eggs"), nil))},
}

func TestParseRecipe(t *testing.T) {
	for _, test := range parseRecipeTests {
		tree, err := ParseRecipe(test.src, nil)
		if err != nil {
			t.Errorf("source: %q: unexpected error: %s", test.src, err)
			continue
		}
		clearPositions(tree)
		if !reflect.DeepEqual(tree, test.tree) {
			t.Errorf("source: %q:\nunexpected tree:\n\t%#v\nexpecting:\n\t%#v", test.src, tree, test.tree)
		}
	}
}

var parseRecipeErrorTests = []struct {
	src string
	err string
}{
	// empty recipe
	{"", "At line 1 column 1:\n\n    ^\nExpected <action> or <ingredient> or <quantity>"},

	// invalid character for a name
	{",", "At line 1 column 1:\n    ,\n    ^\nExpected <action> or <ingredient> or <quantity>"},

	// double assignment
	{"a = b = c", "At line 1 column 7:\n    a = b = c\n          ^\nExpected '(' or ',' or <text>"},

	// incomplete fractions
	{"1/ spam", "At line 1 column 4:\n    1/ spam\n       ^\nExpected <number>"},
	{"/2 spam", "At line 1 column 1:\n    /2 spam\n    ^\nExpected <action> or <ingredient> or <quantity>"},
	{"foo\n/2 spam", "At line 2 column 1:\n    /2 spam\n    ^\nExpected <action> or <ingredient> or <quantity>"},

	// bad assignment operator
	{"foo /= bar", "At line 1 column 5:\n    foo /= bar\n        ^\nExpected '(' or ',' or '=' or ':=' or <text>"},

	// trailing comma on assignment
	{"foo, bar, = baz", "At line 1 column 11:\n    foo, bar, = baz\n              ^\nExpected <action> or <output>"},

	// trailing comma on the shorthand chain
	{"foo, bar,", "At line 1 column 10:\n    foo, bar,\n             ^\nExpected <action> or <output>"},
	{"a = foo, bar,", "At line 1 column 14:\n    a = foo, bar,\n                 ^\nExpected <action>"},

	// empty parenthesised shorthand
	{"()", "At line 1 column 2:\n    ()\n     ^\nExpected <ingredient> or <quantity>"},

	// mismatched shorthand brackets
	{"(foo", "At line 1 column 5:\n    (foo\n        ^\nExpected '(' or ')' or ',' or <text>"},
	{"foo)", "At line 1 column 4:\n    foo)\n       ^\nExpected '(' or ',' or '=' or ':=' or <text>"},

	// empty steps
	{"foo()", "At line 1 column 5:\n    foo()\n        ^\nExpected <action> or <ingredient> or <quantity>"},
	{"foo(,)", "At line 1 column 5:\n    foo(,)\n        ^\nExpected <action> or <ingredient> or <quantity>"},

	// empty step input
	{"foo(bar,,baz)", "At line 1 column 9:\n    foo(bar,,baz)\n            ^\nExpected ')' or <action> or <ingredient> or <quantity>"},

	// mismatched step brackets
	{"foo(bar", "At line 1 column 8:\n    foo(bar\n           ^\nExpected '(' or ')' or ',' or <text>"},

	// quantity without an ingredient name
	{"500g", "At line 1 column 5:\n    500g\n        ^\nExpected '(' or ',' or '=' or ':=' or <ingredient> or <text>"},

	// unclosed explicit quantities and bracketed strings
	{"{", "At line 1 column 2:\n    {\n     ^\nExpected '}' or <text>"},
	{"{1", "At line 1 column 3:\n    {1\n      ^\nExpected '/' or '}' or <text>"},
	{"{500g nutmeg", "At line 1 column 13:\n    {500g nutmeg\n                ^\nExpected '}' or <text>"},
	{"foo {bar", "At line 1 column 9:\n    foo {bar\n            ^\nExpected '}' or <text>"},

	// unclosed quoted strings
	{"'foo", "At line 1 column 5:\n    'foo\n        ^\nExpected \"'\" or <text>"},
	{`"foo`, "At line 1 column 5:\n    \"foo\n        ^\nExpected '\"' or <text>"},
}

func TestParseRecipeErrors(t *testing.T) {
	for _, test := range parseRecipeErrorTests {
		tree, err := ParseRecipe(test.src, nil)
		if err == nil {
			t.Errorf("source: %q: unexpected tree, expecting error:\n%s", test.src, test.err)
			continue
		}
		if _, ok := err.(*SyntaxError); !ok {
			t.Errorf("source: %q: unexpected error type %T", test.src, err)
			continue
		}
		if err.Error() != test.err {
			t.Errorf("source: %q:\nunexpected error:\n%s\nexpecting:\n%s", test.src, err, test.err)
		}
		_ = tree
	}
}

func TestParseRecipePositions(t *testing.T) {
	const src = "fry(100g spam)\neggs"
	tree, err := ParseRecipe(src, nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(tree.Stmts) != 2 {
		t.Fatalf("unexpected %d statements, expecting 2", len(tree.Stmts))
	}

	step, ok := tree.Stmts[0].Expr.(*ast.Step)
	if !ok {
		t.Fatalf("unexpected expression type %T, expecting *ast.Step", tree.Stmts[0].Expr)
	}
	if pos := step.Pos(); !reflect.DeepEqual(pos, &ast.Position{Line: 1, Column: 1, Start: 0, End: 2}) {
		t.Errorf("unexpected step position %#v", pos)
	}

	spam := step.Inputs[0].(*ast.Reference)
	quantity := spam.Amount.(*ast.Quantity)
	if pos := quantity.Pos(); !reflect.DeepEqual(pos, &ast.Position{Line: 1, Column: 5, Start: 4, End: 7}) {
		t.Errorf("unexpected quantity position %#v", pos)
	}
	if pos := spam.Name.Pos(); !reflect.DeepEqual(pos, &ast.Position{Line: 1, Column: 10, Start: 9, End: 12}) {
		t.Errorf("unexpected ingredient position %#v", pos)
	}

	eggs := tree.Stmts[1].Expr.(*ast.Reference)
	if pos := eggs.Pos(); !reflect.DeepEqual(pos, &ast.Position{Line: 2, Column: 1, Start: 15, End: 18}) {
		t.Errorf("unexpected ingredient position %#v", pos)
	}
}
