// Copyright (c) 2024 The Recipe Grid Authors. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package renderer

import (
	"reflect"
	"testing"

	"github.com/recipegrid/recipegrid/recipe"
	"github.com/recipegrid/recipegrid/table"
)

func ingredient(name string) *recipe.Ingredient {
	return recipe.NewIngredient(recipe.Text(name), nil)
}

func step(description string, inputs ...recipe.Node) *recipe.Step {
	s, err := recipe.NewStep(recipe.Text(description), inputs)
	if err != nil {
		panic(err)
	}
	return s
}

func subRecipe(tree recipe.Node, shown bool, outputs ...string) *recipe.SubRecipe {
	names := make([]recipe.ScaledValueString, len(outputs))
	for i, output := range outputs {
		names[i] = recipe.Text(output)
	}
	sub, err := recipe.NewSubRecipe(tree, names, shown)
	if err != nil {
		panic(err)
	}
	return sub
}

func cell(node recipe.Node, rows, columns int) *table.Cell[recipe.Node] {
	c := table.NewCell(node)
	c.Rows = rows
	c.Columns = columns
	return c
}

func mustTable(cells map[table.Coord]*table.Cell[recipe.Node]) *table.Table[recipe.Node] {
	t, err := table.FromMap(cells)
	if err != nil {
		panic(err)
	}
	return t
}

func bordered(t *table.Table[recipe.Node]) *table.Table[recipe.Node] {
	return table.SetBorderAround(t, table.BorderSubRecipe)
}

func TestIngredientTable(t *testing.T) {
	ing := ingredient("spam")
	want := bordered(mustTable(map[table.Coord]*table.Cell[recipe.Node]{
		{}: table.NewCell[recipe.Node](ing),
	}))
	if got := RecipeTreeToTable(ing); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestReferenceTable(t *testing.T) {
	sub := subRecipe(ingredient("spam"), true, "out")
	ref, err := recipe.NewReference(sub, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := bordered(mustTable(map[table.Coord]*table.Cell[recipe.Node]{
		{}: table.NewCell[recipe.Node](ref),
	}))
	if got := RecipeTreeToTable(ref); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestStepTable(t *testing.T) {
	input0 := ingredient("input 0")
	input1 := ingredient("input 1")
	input2Ingredient := ingredient("input 2")
	input2 := step("chopped", input2Ingredient)
	combine := step("combine", input0, input1, input2)

	want := bordered(mustTable(map[table.Coord]*table.Cell[recipe.Node]{
		{Row: 0, Column: 0}: cell(input0, 1, 2),
		{Row: 1, Column: 0}: cell(input1, 1, 2),
		{Row: 2, Column: 0}: table.NewCell[recipe.Node](input2Ingredient),
		{Row: 2, Column: 1}: table.NewCell[recipe.Node](input2),
		{Row: 0, Column: 2}: cell(combine, 3, 1),
	}))
	if got := RecipeTreeToTable(combine); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSingleOutputSubRecipeShown(t *testing.T) {
	ing := ingredient("spam")
	fry := step("fry", ing)
	sub := subRecipe(fry, true, "out")

	want := bordered(mustTable(map[table.Coord]*table.Cell[recipe.Node]{
		{Row: 0, Column: 0}: cell(sub, 1, 2),
		{Row: 1, Column: 0}: table.NewCell[recipe.Node](ing),
		{Row: 1, Column: 1}: table.NewCell[recipe.Node](fry),
	}))
	if got := RecipeTreeToTable(sub); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSingleOutputSubRecipeHidden(t *testing.T) {
	ing := ingredient("spam")
	fry := step("fry", ing)
	sub := subRecipe(fry, false, "out")

	want := bordered(mustTable(map[table.Coord]*table.Cell[recipe.Node]{
		{Row: 0, Column: 0}: table.NewCell[recipe.Node](ing),
		{Row: 0, Column: 1}: table.NewCell[recipe.Node](fry),
	}))
	if got := RecipeTreeToTable(sub); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMultipleOutputSubRecipe(t *testing.T) {
	ing0 := ingredient("spam")
	ing1 := ingredient("eggs")
	ing2 := ingredient("more spam")
	fry := step("fry", ing0, ing1, ing2)
	sub := subRecipe(fry, true, "output 0", "output 1")

	outputs := cell(sub, 3, 1)
	outputs.BorderTop = table.BorderNone
	outputs.BorderRight = table.BorderNone
	outputs.BorderBottom = table.BorderNone
	want := table.Combine(table.Horizontal,
		bordered(mustTable(map[table.Coord]*table.Cell[recipe.Node]{
			{Row: 0, Column: 0}: table.NewCell[recipe.Node](ing0),
			{Row: 1, Column: 0}: table.NewCell[recipe.Node](ing1),
			{Row: 2, Column: 0}: table.NewCell[recipe.Node](ing2),
			{Row: 0, Column: 1}: cell(fry, 3, 1),
		})),
		mustTable(map[table.Coord]*table.Cell[recipe.Node]{{}: outputs}),
	)
	if got := RecipeTreeToTable(sub); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
