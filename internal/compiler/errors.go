// Copyright (c) 2024 The Recipe Grid Authors. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"fmt"
	"strings"

	"github.com/recipegrid/recipegrid/recipe"
)

// SyntaxError records a syntax error in a recipe source and the positions
// and expectations of the failed parse.
type SyntaxError struct {
	Line    int
	Column  int
	Snippet string
	// Expected lists, in sorted order, descriptions of what would have
	// been valid at the error position.
	Expected []string
}

func (e *SyntaxError) Error() string {
	return formatErrorMessage(e.Line, e.Column, e.Snippet,
		"Expected "+strings.Join(e.Expected, " or "))
}

// CompileError is implemented by all errors reported while compiling a
// parsed recipe, and gives access to the source location of the cause.
type CompileError interface {
	error
	Position() (line, column int)
}

// NameRedefinedError is returned when a statement defines an output name
// which an earlier statement already defined.
type NameRedefinedError struct {
	Line    int
	Column  int
	Snippet string
	Name    recipe.ScaledValueString
}

func (e *NameRedefinedError) Error() string {
	return formatErrorMessage(e.Line, e.Column, e.Snippet,
		fmt.Sprintf("The name %s has already been defined as a sub recipe.", e.Name))
}

func (e *NameRedefinedError) Position() (int, int) { return e.Line, e.Column }

// ProportionGivenForIngredientError is returned when a proportion prefixes
// a name which is not a defined sub recipe output. Proportions only make
// sense for sub recipe outputs, so this usually means the name of an
// earlier output was misspelt.
type ProportionGivenForIngredientError struct {
	Line    int
	Column  int
	Snippet string
	Name    recipe.ScaledValueString
}

func (e *ProportionGivenForIngredientError) Error() string {
	return formatErrorMessage(e.Line, e.Column, e.Snippet,
		fmt.Sprintf("A proportion was given (implying a sub recipe is "+
			"being referenced) but no sub recipe named %s exists.", e.Name))
}

func (e *ProportionGivenForIngredientError) Position() (int, int) { return e.Line, e.Column }

// formatErrorMessage renders an error at a source position in the form
//
//	At line 1 column 5:
//	    500g spam
//	        ^
//	Expected ...
func formatErrorMessage(line, column int, snippet, explanation string) string {
	snippetLine := ""
	if snippet != "" {
		snippetLine = "    " + snippet
	}
	caret := "    " + strings.Repeat(" ", column-1) + "^"
	return fmt.Sprintf("At line %d column %d:\n%s\n%s\n%s", line, column, snippetLine, caret, explanation)
}

// lineColumnAt returns the 1-based line and column of the character at
// offset in source. Columns count characters, not bytes.
func lineColumnAt(source string, offset int) (line, column int) {
	line, column = 1, 1
	for i, r := range source {
		if i >= offset {
			break
		}
		if r == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return line, column
}

// extractLine returns the text of the given 1-based line of source,
// without its line terminator.
func extractLine(source string, line int) string {
	for n := 1; ; n++ {
		end := strings.IndexByte(source, '\n')
		if n == line {
			if end < 0 {
				return strings.TrimSuffix(source, "\r")
			}
			return strings.TrimSuffix(source[:end], "\r")
		}
		if end < 0 {
			return ""
		}
		source = source[end+1:]
	}
}
