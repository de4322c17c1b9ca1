// Copyright (c) 2024 The Recipe Grid Authors. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package table

import "fmt"

// LayoutError is implemented by all errors reported while validating a
// table's structure.
type LayoutError interface {
	error
	layoutError()
}

// EmptyTableError reports a table with no cells.
type EmptyTableError struct{}

func (e *EmptyTableError) Error() string { return "table contains no cells" }
func (*EmptyTableError) layoutError()    {}

// MissingCellError reports a grid position not covered by any cell.
type MissingCellError struct {
	Pos Coord
}

func (e *MissingCellError) Error() string {
	return fmt.Sprintf("no cell covers row %d, column %d", e.Pos.Row, e.Pos.Column)
}
func (*MissingCellError) layoutError() {}

// CellExpectedError reports an ExtendedCell found where a spanning cell
// does not extend.
type CellExpectedError struct {
	Pos Coord
}

func (e *CellExpectedError) Error() string {
	return fmt.Sprintf("a cell was expected at row %d, column %d", e.Pos.Row, e.Pos.Column)
}
func (*CellExpectedError) layoutError() {}

// ExtendedCellExpectedError reports a cell found at a position already
// covered by a spanning neighbour.
type ExtendedCellExpectedError struct {
	Pos Coord
}

func (e *ExtendedCellExpectedError) Error() string {
	return fmt.Sprintf("an extended cell was expected at row %d, column %d", e.Pos.Row, e.Pos.Column)
}
func (*ExtendedCellExpectedError) layoutError() {}

// ExtendedCellReferenceError reports an ExtendedCell which does not refer
// to the cell extending over it.
type ExtendedCellReferenceError struct {
	Pos Coord
}

func (e *ExtendedCellReferenceError) Error() string {
	return fmt.Sprintf("the extended cell at row %d, column %d does not refer to the cell spanning it", e.Pos.Row, e.Pos.Column)
}
func (*ExtendedCellReferenceError) layoutError() {}

// ExtendedCellCoordinateError reports an ExtendedCell whose offset does not
// match its position relative to the cell it refers to.
type ExtendedCellCoordinateError struct {
	Pos Coord
}

func (e *ExtendedCellCoordinateError) Error() string {
	return fmt.Sprintf("the extended cell at row %d, column %d has a wrong offset", e.Pos.Row, e.Pos.Column)
}
func (*ExtendedCellCoordinateError) layoutError() {}
