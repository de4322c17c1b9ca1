// Copyright (c) 2024 The Recipe Grid Authors. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package recipe

import (
	"errors"
	"testing"

	"github.com/recipegrid/recipegrid/number"
	"github.com/recipegrid/recipegrid/units"
)

func mustStep(t *testing.T, description string, inputs ...Node) *Step {
	t.Helper()
	s, err := NewStep(Text(description), inputs)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func mustSubRecipe(t *testing.T, tree Node, show bool, names ...string) *SubRecipe {
	t.Helper()
	svs := make([]ScaledValueString, len(names))
	for i, name := range names {
		svs[i] = Text(name)
	}
	sr, err := NewSubRecipe(tree, svs, show)
	if err != nil {
		t.Fatal(err)
	}
	return sr
}

func mustReference(t *testing.T, sr *SubRecipe, index int, amount Amount) *Reference {
	t.Helper()
	ref, err := NewReference(sr, index, amount)
	if err != nil {
		t.Fatal(err)
	}
	return ref
}

func grams(value int64) *Quantity {
	return &Quantity{Value: number.Int(value), Unit: "g", ValueUnitSpacing: ""}
}

func TestInvariants(t *testing.T) {
	spam := NewIngredient(Text("spam"), grams(100))

	// Zero-output sub recipes are invalid.
	_, err := NewSubRecipe(spam, nil, true)
	var zeroErr *ZeroOutputSubRecipeError
	if !errors.As(err, &zeroErr) {
		t.Errorf("expected ZeroOutputSubRecipeError, got %v", err)
	}

	// Multi-output sub recipes may not be children.
	multi := mustSubRecipe(t, spam, true, "meat", "fat")
	_, err = NewStep(Text("fry"), []Node{multi})
	var multiErr *MultiOutputSubRecipeUsedAsNonRootError
	if !errors.As(err, &multiErr) {
		t.Errorf("expected MultiOutputSubRecipeUsedAsNonRootError, got %v", err)
	}
	_, err = NewSubRecipe(multi, []ScaledValueString{Text("x")}, true)
	if !errors.As(err, &multiErr) {
		t.Errorf("expected MultiOutputSubRecipeUsedAsNonRootError, got %v", err)
	}

	// References must be in range.
	single := mustSubRecipe(t, spam, true, "meat")
	_, err = NewReference(single, 1, nil)
	var indexErr *OutputIndexError
	if !errors.As(err, &indexErr) {
		t.Errorf("expected OutputIndexError, got %v", err)
	}
}

func TestRecipeReferenceValidation(t *testing.T) {
	sauce := mustSubRecipe(t, NewIngredient(Text("sauce"), nil), true, "sauce")
	ref := mustReference(t, sauce, 0, nil)
	pour := mustStep(t, "pour", ref)

	// Reference before its definition is rejected.
	_, err := NewRecipe([]Node{pour, sauce}, nil)
	var refErr *ReferenceToInvalidSubRecipeError
	if !errors.As(err, &refErr) {
		t.Errorf("expected ReferenceToInvalidSubRecipeError, got %v", err)
	}

	// Definition first is fine.
	if _, err := NewRecipe([]Node{sauce, pour}, nil); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	// A definition in the follows chain is also fine.
	first, err := NewRecipe([]Node{sauce}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewRecipe([]Node{pour}, first); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	// But not a definition nested below another root.
	wrapped := mustStep(t, "boil", sauce)
	_, err = NewRecipe([]Node{wrapped, pour}, nil)
	if !errors.As(err, &refErr) {
		t.Errorf("expected ReferenceToInvalidSubRecipeError, got %v", err)
	}
}

func TestSubstitute(t *testing.T) {
	spam := NewIngredient(Text("spam"), grams(100))
	eggs := NewIngredient(Text("eggs"), nil)
	fry := mustStep(t, "fry", spam, eggs)

	// Substitution replaces every occurrence.
	bacon := NewIngredient(Text("bacon"), nil)
	substituted := fry.Substitute(spam, bacon).(*Step)
	if !substituted.Inputs[0].Equal(bacon) || !substituted.Inputs[1].Equal(eggs) {
		t.Errorf("bad substitution: %#v", substituted)
	}
	// The old tree is unchanged.
	if !fry.Inputs[0].Equal(spam) {
		t.Error("substitution modified the original tree")
	}

	// Substituting an absent node returns the tree itself.
	if got := fry.Substitute(bacon, spam); got != Node(fry) {
		t.Error("substituting an absent node should return the receiver")
	}

	// A node equal to old is itself replaced.
	if got := spam.Substitute(NewIngredient(Text("spam"), grams(100)), eggs); !got.Equal(eggs) {
		t.Error("substituting the node itself should return new")
	}
}

func TestScale(t *testing.T) {
	spam := NewIngredient(Text("spam"), grams(100))
	sub := mustSubRecipe(t, mustStep(t, "fry", spam), true, "fried spam")
	ref := mustReference(t, sub, 0, Quantity{Value: number.Int(50), Unit: "g"})
	serve := mustStep(t, "serve", ref)

	r, err := NewRecipe([]Node{sub, serve}, nil)
	if err != nil {
		t.Fatal(err)
	}

	// scale(1) is an exact identity.
	if !r.Scale(number.Int(1)).Equal(r) {
		t.Error("scale(1) must leave the recipe unchanged")
	}

	// scale(a).scale(b) == scale(a*b).
	ab := r.Scale(number.Int(2)).Scale(number.Frac(3, 2))
	direct := r.Scale(number.Int(3))
	if !ab.Equal(direct) {
		t.Error("scale(2).scale(3/2) must equal scale(3)")
	}

	doubled := r.Scale(number.Int(2))
	ing := doubled.Trees[0].(*SubRecipe).SubTree.(*Step).Inputs[0].(*Ingredient)
	if !ing.Quantity.Value.Equal(number.Int(200)) {
		t.Errorf("ingredient quantity not scaled: %v", ing.Quantity.Value)
	}
	scaledRef := doubled.Trees[1].(*Step).Inputs[0].(*Reference)
	if !scaledRef.Amount.(Quantity).Value.Equal(number.Int(100)) {
		t.Errorf("reference quantity not scaled: %v", scaledRef.Amount)
	}
	// The scaled reference still points at a valid scaled root.
	if !scaledRef.SubRecipe.Equal(doubled.Trees[0]) {
		t.Error("scaled reference does not match the scaled root definition")
	}

	// Proportions are scale-invariant.
	pRef := mustReference(t, sub, 0, nil)
	if !pRef.Scale(number.Int(2)).(*Reference).Amount.EqualAmount(All) {
		t.Error("proportions must not scale")
	}
}

func TestQuantityHasEqualValue(t *testing.T) {
	sys := units.Default
	tests := []struct {
		a, b  Quantity
		equal bool
	}{
		// Same unit.
		{Quantity{Value: number.Int(100), Unit: "g"}, Quantity{Value: number.Int(100), Unit: "g"}, true},
		{Quantity{Value: number.Int(100), Unit: "g"}, Quantity{Value: number.Int(50), Unit: "g"}, false},
		// Case-insensitive unit names.
		{Quantity{Value: number.Int(100), Unit: "G"}, Quantity{Value: number.Int(100), Unit: "g"}, true},
		// Convertible units.
		{Quantity{Value: number.Int(1), Unit: "kg"}, Quantity{Value: number.Int(1000), Unit: "g"}, true},
		{Quantity{Value: number.Frac(1, 2), Unit: "kg"}, Quantity{Value: number.Int(500), Unit: "g"}, true},
		// Unknown but identically spelled units compare by value.
		{Quantity{Value: number.Int(2), Unit: "sack"}, Quantity{Value: number.Int(2), Unit: "sack"}, true},
		{Quantity{Value: number.Int(2), Unit: "sack"}, Quantity{Value: number.Int(3), Unit: "sack"}, false},
		// Distinct unknown units never compare equal.
		{Quantity{Value: number.Int(1), Unit: "sack"}, Quantity{Value: number.Int(1), Unit: "bag"}, false},
		// Unrelated known units never compare equal.
		{Quantity{Value: number.Int(1), Unit: "g"}, Quantity{Value: number.Int(1), Unit: "ml"}, false},
		// Unit-less quantities compare by value.
		{Quantity{Value: number.Int(3)}, Quantity{Value: number.Int(3)}, true},
		{Quantity{Value: number.Int(3)}, Quantity{Value: number.Int(3), Unit: "g"}, false},
	}
	for _, test := range tests {
		if got := test.a.HasEqualValue(test.b, sys); got != test.equal {
			t.Errorf("HasEqualValue(%v %s, %v %s): got %v, want %v",
				test.a.Value, test.a.Unit, test.b.Value, test.b.Unit, got, test.equal)
		}
	}
}
