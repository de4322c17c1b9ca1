// Copyright (c) 2024 The Recipe Grid Authors. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package table implements the abstract spreadsheet-like grid that recipes
// are laid out into before rendering: a dense 2-D array of cells which may
// span several rows and columns and which carry an independent border style
// on each of their four edges.
package table

import (
	"fmt"
	"sort"
)

// BorderType is the style of one edge of a cell. The zero value is a
// normal border.
type BorderType int

const (
	BorderNormal BorderType = iota
	BorderNone
	// BorderSubRecipe is the emphasised border drawn around sub recipes.
	BorderSubRecipe
)

func (b BorderType) String() string {
	switch b {
	case BorderNormal:
		return "normal"
	case BorderNone:
		return "none"
	case BorderSubRecipe:
		return "sub-recipe"
	}
	return fmt.Sprintf("BorderType(%d)", int(b))
}

// Coord addresses a cell in a table as (row, column), starting from (0, 0)
// at the top left.
type Coord struct {
	Row    int
	Column int
}

// Cell is a primary cell of a table holding a value of type T and spanning
// Rows x Columns grid positions.
//
// Cells are never modified once they are part of a Table: operations which
// change a cell always copy it first.
type Cell[T any] struct {
	Value T

	Rows    int // number of rows covered, at least 1
	Columns int // number of columns covered, at least 1

	BorderLeft   BorderType
	BorderRight  BorderType
	BorderTop    BorderType
	BorderBottom BorderType
}

// NewCell returns a 1x1 cell with normal borders holding value.
func NewCell[T any](value T) *Cell[T] {
	return &Cell[T]{Value: value, Rows: 1, Columns: 1}
}

// ExtendedCell marks a grid position covered by the extension of a
// spanning neighbour rather than by a cell of its own.
type ExtendedCell[T any] struct {
	// Cell is the spanning cell covering this position.
	Cell *Cell[T]
	// DRow and DColumn are this position's offset from Cell's position.
	DRow    int
	DColumn int
}

// Element is one position of a table: a *Cell or an *ExtendedCell.
type Element[T any] interface {
	element()
}

func (*Cell[T]) element()         {}
func (*ExtendedCell[T]) element() {}

// Table is a dense 2-D grid of cells. Construct one with New or FromMap;
// the zero Table is not valid.
type Table[T any] struct {
	cells [][]Element[T]
}

// New builds a Table from a dense cell grid, checking its structural
// consistency: the grid must be rectangular and non-empty, every position
// covered by a spanning cell must hold an ExtendedCell referring back to
// that cell with its correct offset, and no other position may hold one.
func New[T any](cells [][]Element[T]) (*Table[T], error) {
	if len(cells) == 0 || len(cells[0]) == 0 {
		return nil, &EmptyTableError{}
	}
	t := &Table[T]{cells: cells}
	rows, columns := t.Rows(), t.Columns()

	for _, row := range cells {
		if len(row) != columns {
			return nil, &MissingCellError{Coord{len(cells) - 1, len(row)}}
		}
	}

	checked := make(map[Coord]bool)
	for r := 0; r < rows; r++ {
		for c := 0; c < columns; c++ {
			pos := Coord{r, c}
			if checked[pos] {
				continue
			}
			cell, ok := cells[r][c].(*Cell[T])
			if !ok {
				return nil, &CellExpectedError{pos}
			}
			if r+cell.Rows > rows || c+cell.Columns > columns {
				return nil, &MissingCellError{Coord{r + cell.Rows - 1, c + cell.Columns - 1}}
			}
			for er := r; er < r+cell.Rows; er++ {
				for ec := c; ec < c+cell.Columns; ec++ {
					if er == r && ec == c {
						continue
					}
					ext, ok := cells[er][ec].(*ExtendedCell[T])
					if !ok {
						return nil, &ExtendedCellExpectedError{Coord{er, ec}}
					}
					if ext.Cell != cell {
						return nil, &ExtendedCellReferenceError{Coord{er, ec}}
					}
					if ext.DRow != er-r || ext.DColumn != ec-c {
						return nil, &ExtendedCellCoordinateError{Coord{er, ec}}
					}
					checked[Coord{er, ec}] = true
				}
			}
		}
	}
	return t, nil
}

// FromMap builds a Table from a sparse mapping of cell positions to cells.
// The table extent is computed from the cells and the positions covered by
// spanning cells are filled in with ExtendedCells. The cells must tile the
// resulting grid exactly.
func FromMap[T any](cells map[Coord]*Cell[T]) (*Table[T], error) {
	rows, columns := 0, 0
	for pos, cell := range cells {
		if pos.Row+cell.Rows > rows {
			rows = pos.Row + cell.Rows
		}
		if pos.Column+cell.Columns > columns {
			columns = pos.Column + cell.Columns
		}
	}
	if rows == 0 || columns == 0 {
		return nil, &EmptyTableError{}
	}

	grid := make([][]Element[T], rows)
	for r := range grid {
		grid[r] = make([]Element[T], columns)
	}
	for pos, cell := range cells {
		for dr := 0; dr < cell.Rows; dr++ {
			for dc := 0; dc < cell.Columns; dc++ {
				if grid[pos.Row+dr][pos.Column+dc] != nil {
					return nil, &ExtendedCellExpectedError{Coord{pos.Row + dr, pos.Column + dc}}
				}
				if dr == 0 && dc == 0 {
					grid[pos.Row][pos.Column] = cell
				} else {
					grid[pos.Row+dr][pos.Column+dc] = &ExtendedCell[T]{Cell: cell, DRow: dr, DColumn: dc}
				}
			}
		}
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < columns; c++ {
			if grid[r][c] == nil {
				return nil, &MissingCellError{Coord{r, c}}
			}
		}
	}
	return &Table[T]{cells: grid}, nil
}

// fromMapUnchecked rebuilds a table from cells known to tile the grid. It
// panics if they do not: callers guarantee consistency by construction.
func fromMapUnchecked[T any](cells map[Coord]*Cell[T]) *Table[T] {
	t, err := FromMap(cells)
	if err != nil {
		panic(err)
	}
	return t
}

// Rows returns the number of rows in the table.
func (t *Table[T]) Rows() int { return len(t.cells) }

// Columns returns the number of columns in the table.
func (t *Table[T]) Columns() int { return len(t.cells[0]) }

// At returns the element at the given position.
func (t *Table[T]) At(row, column int) Element[T] { return t.cells[row][column] }

// ToMap returns the primary cells of the table keyed by position. Together
// with FromMap it round-trips exactly.
func (t *Table[T]) ToMap() map[Coord]*Cell[T] {
	out := make(map[Coord]*Cell[T])
	for r, row := range t.cells {
		for c, element := range row {
			if cell, ok := element.(*Cell[T]); ok {
				out[Coord{r, c}] = cell
			}
		}
	}
	return out
}

// Cells calls f for every primary cell in reading order.
func (t *Table[T]) Cells(f func(pos Coord, cell *Cell[T])) {
	for r, row := range t.cells {
		for c, element := range row {
			if cell, ok := element.(*Cell[T]); ok {
				f(Coord{r, c}, cell)
			}
		}
	}
}

// Axis selects the direction along which tables are combined.
type Axis int

const (
	// Vertical stacks tables on top of each other.
	Vertical Axis = iota
	// Horizontal places tables side by side.
	Horizontal
)

// Combine concatenates tables along the given axis, recomputing cell
// offsets. The tables must have matching extents along the other axis.
func Combine[T any](axis Axis, tables ...*Table[T]) *Table[T] {
	out := make(map[Coord]*Cell[T])
	rowOffset, columnOffset := 0, 0
	for _, t := range tables {
		for pos, cell := range t.ToMap() {
			out[Coord{pos.Row + rowOffset, pos.Column + columnOffset}] = cell
		}
		if axis == Vertical {
			rowOffset += t.Rows()
		} else {
			columnOffset += t.Columns()
		}
	}
	return fromMapUnchecked(out)
}

// RightPad extends t to the given number of columns by widening the cells
// which cover its rightmost column.
func RightPad[T any](t *Table[T], columns int) *Table[T] {
	extra := columns - t.Columns()
	if extra <= 0 {
		return t
	}
	out := make(map[Coord]*Cell[T])
	for pos, cell := range t.ToMap() {
		if pos.Column+cell.Columns == t.Columns() {
			padded := *cell
			padded.Columns += extra
			out[pos] = &padded
		} else {
			out[pos] = cell
		}
	}
	return fromMapUnchecked(out)
}

// SetBorderAround returns t with all four outer edges drawn in the given
// border style. Interior borders are not touched.
func SetBorderAround[T any](t *Table[T], border BorderType) *Table[T] {
	rows, columns := t.Rows(), t.Columns()
	out := make(map[Coord]*Cell[T])
	for pos, cell := range t.ToMap() {
		edged := *cell
		if pos.Row == 0 {
			edged.BorderTop = border
		}
		if pos.Column == 0 {
			edged.BorderLeft = border
		}
		if pos.Row+cell.Rows == rows {
			edged.BorderBottom = border
		}
		if pos.Column+cell.Columns == columns {
			edged.BorderRight = border
		}
		out[pos] = &edged
	}
	return fromMapUnchecked(out)
}

// SortedCoords returns the coordinates of m in reading order. Handy for
// deterministic iteration in renderers and tests.
func SortedCoords[T any](m map[Coord]*Cell[T]) []Coord {
	out := make([]Coord, 0, len(m))
	for pos := range m {
		out = append(out, pos)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Column < out[j].Column
	})
	return out
}
