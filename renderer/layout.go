// Copyright (c) 2024 The Recipe Grid Authors. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package renderer lays out compiled recipe trees as tables and renders
// the tables as HTML.
package renderer

import (
	"github.com/recipegrid/recipegrid/recipe"
	"github.com/recipegrid/recipegrid/table"
)

// RecipeTreeToTable converts a recipe tree into tabular form.
//
// Ingredients, references and steps each occupy one cell, with a step
// placed to the right of its inputs and spanning their rows. A sub
// recipe with a single shown output gains a header row naming the
// output; a sub recipe with multiple outputs gains a cell on its right
// hand side listing them. Every recipe tree root is surrounded by the
// emphasised sub recipe border.
func RecipeTreeToTable(tree recipe.Node) *table.Table[recipe.Node] {
	return treeToTable(tree, true)
}

func treeToTable(node recipe.Node, root bool) *table.Table[recipe.Node] {
	switch n := node.(type) {
	case *recipe.Ingredient, *recipe.Reference:
		t := singleCell(node, 1, 1)
		if root {
			t = table.SetBorderAround(t, table.BorderSubRecipe)
		}
		return t

	case *recipe.Step:
		inputs := make([]*table.Table[recipe.Node], len(n.Inputs))
		columns := 0
		for i, input := range n.Inputs {
			inputs[i] = treeToTable(input, false)
			if c := inputs[i].Columns(); c > columns {
				columns = c
			}
		}
		// Pad all inputs to the same width and stack them up, then put
		// the step itself on the right spanning every input row.
		for i, input := range inputs {
			inputs[i] = table.RightPad(input, columns)
		}
		combined := table.Combine(table.Vertical, inputs...)
		t := table.Combine(table.Horizontal,
			combined, singleCell(node, combined.Rows(), 1))
		if root {
			t = table.SetBorderAround(t, table.BorderSubRecipe)
		}
		return t

	case *recipe.SubRecipe:
		inner := treeToTable(n.SubTree, false)
		if len(n.OutputNames) == 1 {
			if !n.ShowOutputNames {
				return table.SetBorderAround(inner, table.BorderSubRecipe)
			}
			header := singleCell(node, 1, inner.Columns())
			return table.SetBorderAround(
				table.Combine(table.Vertical, header, inner),
				table.BorderSubRecipe)
		}
		// Multiple outputs: the output list floats to the right of the
		// bordered sub recipe, sharing only its left edge with it.
		outputs := table.NewCell[recipe.Node](node)
		outputs.Rows = inner.Rows()
		outputs.BorderTop = table.BorderNone
		outputs.BorderRight = table.BorderNone
		outputs.BorderBottom = table.BorderNone
		return table.Combine(table.Horizontal,
			table.SetBorderAround(inner, table.BorderSubRecipe),
			fromCell(outputs))
	}
	panic("renderer: unknown recipe tree node")
}

// singleCell returns a table holding node in a single cell with the given
// spans.
func singleCell(node recipe.Node, rows, columns int) *table.Table[recipe.Node] {
	cell := table.NewCell[recipe.Node](node)
	cell.Rows = rows
	cell.Columns = columns
	return fromCell(cell)
}

func fromCell(cell *table.Cell[recipe.Node]) *table.Table[recipe.Node] {
	t, err := table.FromMap(map[table.Coord]*table.Cell[recipe.Node]{{}: cell})
	if err != nil {
		panic(err)
	}
	return t
}
