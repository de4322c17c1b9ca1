// Copyright (c) 2024 The Recipe Grid Authors. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package table

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewValid(t *testing.T) {
	a := NewCell("a")
	b := &Cell[string]{Value: "b", Rows: 2, Columns: 1}
	c := NewCell("c")
	tab, err := New([][]Element[string]{
		{a, b},
		{c, &ExtendedCell[string]{Cell: b, DRow: 1, DColumn: 0}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tab.Rows() != 2 || tab.Columns() != 2 {
		t.Fatalf("got %dx%d, want 2x2", tab.Rows(), tab.Columns())
	}
	if tab.At(1, 0) != Element[string](c) {
		t.Errorf("unexpected element at (1, 0)")
	}
}

func TestNewErrors(t *testing.T) {
	spanning := &Cell[string]{Value: "s", Rows: 1, Columns: 2}
	other := NewCell("o")
	cases := []struct {
		name  string
		cells [][]Element[string]
		want  LayoutError
	}{
		{
			"empty",
			nil,
			&EmptyTableError{},
		},
		{
			"empty row",
			[][]Element[string]{{}},
			&EmptyTableError{},
		},
		{
			"extension out of range",
			[][]Element[string]{{NewCell("a"), spanning}},
			&MissingCellError{Coord{0, 2}},
		},
		{
			"cell where extension expected",
			[][]Element[string]{{spanning, NewCell("b")}},
			&ExtendedCellExpectedError{Coord{0, 1}},
		},
		{
			"extension without spanning cell",
			[][]Element[string]{{NewCell("a"), &ExtendedCell[string]{Cell: other, DRow: 0, DColumn: 1}}},
			&CellExpectedError{Coord{0, 1}},
		},
		{
			"extension refers to wrong cell",
			[][]Element[string]{{spanning, &ExtendedCell[string]{Cell: other, DRow: 0, DColumn: 1}}},
			&ExtendedCellReferenceError{Coord{0, 1}},
		},
		{
			"extension has wrong offset",
			[][]Element[string]{{spanning, &ExtendedCell[string]{Cell: spanning, DRow: 1, DColumn: 1}}},
			&ExtendedCellCoordinateError{Coord{0, 1}},
		},
	}
	for _, cas := range cases {
		t.Run(cas.name, func(t *testing.T) {
			_, err := New(cas.cells)
			if err == nil {
				t.Fatalf("expected error %v, got none", cas.want)
			}
			if reflect.TypeOf(err) != reflect.TypeOf(cas.want) {
				t.Fatalf("expected error of type %T, got %T (%v)", cas.want, err, err)
			}
			var layout LayoutError
			if !errors.As(err, &layout) {
				t.Errorf("error %T does not implement LayoutError", err)
			}
		})
	}
}

func TestFromMap(t *testing.T) {
	a := NewCell("a")
	b := &Cell[string]{Value: "b", Rows: 2, Columns: 2}
	c := &Cell[string]{Value: "c", Rows: 2, Columns: 1}
	d := &Cell[string]{Value: "d", Rows: 1, Columns: 2}
	tab, err := FromMap(map[Coord]*Cell[string]{
		{0, 0}: a,
		{0, 1}: b,
		{1, 0}: c,
		{2, 1}: d,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tab.Rows() != 3 || tab.Columns() != 3 {
		t.Fatalf("got %dx%d, want 3x3", tab.Rows(), tab.Columns())
	}
	ext, ok := tab.At(1, 2).(*ExtendedCell[string])
	if !ok {
		t.Fatalf("expected extended cell at (1, 2), got %T", tab.At(1, 2))
	}
	if ext.Cell != b || ext.DRow != 1 || ext.DColumn != 1 {
		t.Errorf("wrong extension at (1, 2): %+v", ext)
	}
	if got, ok := tab.At(2, 1).(*Cell[string]); !ok || got != d {
		t.Errorf("expected cell d at (2, 1), got %v", tab.At(2, 1))
	}
}

func TestFromMapErrors(t *testing.T) {
	_, err := FromMap(map[Coord]*Cell[string]{})
	if _, ok := err.(*EmptyTableError); !ok {
		t.Errorf("expected EmptyTableError, got %T", err)
	}

	// A hole at (1, 1).
	_, err = FromMap(map[Coord]*Cell[string]{
		{0, 0}: {Value: "a", Rows: 1, Columns: 2},
		{1, 0}: NewCell("b"),
	})
	var missing *MissingCellError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingCellError, got %T (%v)", err, err)
	}
	if missing.Pos != (Coord{1, 1}) {
		t.Errorf("missing cell at %v, want {1 1}", missing.Pos)
	}

	// Overlapping cells.
	_, err = FromMap(map[Coord]*Cell[string]{
		{0, 0}: {Value: "a", Rows: 1, Columns: 2},
		{0, 1}: NewCell("b"),
	})
	if err == nil {
		t.Errorf("expected error for overlapping cells, got none")
	}
}

func TestToMapRoundTrip(t *testing.T) {
	cells := map[Coord]*Cell[string]{
		{0, 0}: NewCell("a"),
		{0, 1}: {Value: "b", Rows: 2, Columns: 1},
		{1, 0}: NewCell("c"),
	}
	tab, err := FromMap(cells)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	back := tab.ToMap()
	if !reflect.DeepEqual(back, cells) {
		t.Errorf("round trip changed cells:\ngot  %v\nwant %v", back, cells)
	}
	again, err := FromMap(back)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(again, tab) {
		t.Errorf("rebuilding from ToMap gave a different table")
	}
}

func TestCombineVertical(t *testing.T) {
	top, _ := FromMap(map[Coord]*Cell[string]{{0, 0}: NewCell("a"), {0, 1}: NewCell("b")})
	bottom, _ := FromMap(map[Coord]*Cell[string]{{0, 0}: {Value: "c", Rows: 1, Columns: 2}})
	tab := Combine(Vertical, top, bottom)
	if tab.Rows() != 2 || tab.Columns() != 2 {
		t.Fatalf("got %dx%d, want 2x2", tab.Rows(), tab.Columns())
	}
	if cell, ok := tab.At(1, 0).(*Cell[string]); !ok || cell.Value != "c" {
		t.Errorf("expected cell c at (1, 0)")
	}
}

func TestCombineHorizontal(t *testing.T) {
	left, _ := FromMap(map[Coord]*Cell[string]{{0, 0}: NewCell("a")})
	right, _ := FromMap(map[Coord]*Cell[string]{{0, 0}: NewCell("b")})
	tab := Combine(Horizontal, left, right)
	if tab.Rows() != 1 || tab.Columns() != 2 {
		t.Fatalf("got %dx%d, want 1x2", tab.Rows(), tab.Columns())
	}
	if cell, ok := tab.At(0, 1).(*Cell[string]); !ok || cell.Value != "b" {
		t.Errorf("expected cell b at (0, 1)")
	}
}

func TestRightPad(t *testing.T) {
	tab, _ := FromMap(map[Coord]*Cell[string]{
		{0, 0}: NewCell("a"),
		{0, 1}: NewCell("b"),
		{1, 0}: {Value: "c", Rows: 1, Columns: 2},
	})
	padded := RightPad(tab, 4)
	if padded.Columns() != 4 {
		t.Fatalf("got %d columns, want 4", padded.Columns())
	}
	b := padded.At(0, 1).(*Cell[string])
	if b.Columns != 3 {
		t.Errorf("cell b spans %d columns, want 3", b.Columns)
	}
	c := padded.At(1, 0).(*Cell[string])
	if c.Columns != 4 {
		t.Errorf("cell c spans %d columns, want 4", c.Columns)
	}
	// The original table is left alone.
	if tab.Columns() != 2 {
		t.Errorf("padding modified the input table")
	}
	if same := RightPad(tab, 2); same != tab {
		t.Errorf("padding to the current width should return the table unchanged")
	}
}

func TestSetBorderAround(t *testing.T) {
	tab, _ := FromMap(map[Coord]*Cell[string]{
		{0, 0}: NewCell("a"),
		{0, 1}: NewCell("b"),
		{1, 0}: NewCell("c"),
		{1, 1}: NewCell("d"),
	})
	edged := SetBorderAround(tab, BorderSubRecipe)
	a := edged.At(0, 0).(*Cell[string])
	if a.BorderTop != BorderSubRecipe || a.BorderLeft != BorderSubRecipe {
		t.Errorf("cell a outer borders not set")
	}
	if a.BorderRight != BorderNormal || a.BorderBottom != BorderNormal {
		t.Errorf("cell a inner borders changed")
	}
	d := edged.At(1, 1).(*Cell[string])
	if d.BorderBottom != BorderSubRecipe || d.BorderRight != BorderSubRecipe {
		t.Errorf("cell d outer borders not set")
	}
	// The input cells are untouched.
	orig := tab.At(0, 0).(*Cell[string])
	if orig.BorderTop != BorderNormal {
		t.Errorf("setting borders modified the input table")
	}
}

func TestSortedCoords(t *testing.T) {
	m := map[Coord]*Cell[string]{
		{1, 0}: NewCell("c"),
		{0, 1}: NewCell("b"),
		{0, 0}: NewCell("a"),
	}
	got := SortedCoords(m)
	want := []Coord{{0, 0}, {0, 1}, {1, 0}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
