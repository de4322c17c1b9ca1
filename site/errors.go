// Copyright (c) 2024 The Recipe Grid Authors. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package site

import "fmt"

// MultipleReadmeError is returned when a recipe directory contains more
// than one readme file.
type MultipleReadmeError struct {
	Dir           string
	First, Second string
}

func (e *MultipleReadmeError) Error() string {
	return fmt.Sprintf("%s contains multiple readme files: %s and %s", e.Dir, e.First, e.Second)
}

// ReadmeMissingTitleError is returned when a readme file does not start
// with an h1-level title.
type ReadmeMissingTitleError struct {
	Path string
}

func (e *ReadmeMissingTitleError) Error() string {
	return fmt.Sprintf("%s must start with a h1-level title", e.Path)
}

// ReadmeMalformedTitleError is returned when a readme title contains
// anything but simple text.
type ReadmeMalformedTitleError struct {
	Path string
}

func (e *ReadmeMalformedTitleError) Error() string {
	return fmt.Sprintf("%s must have only simple text in its h1 title", e.Path)
}

// RecipeCompileError is returned when a recipe in a directory fails to
// compile.
type RecipeCompileError struct {
	Path string
	Err  error
}

func (e *RecipeCompileError) Error() string {
	return fmt.Sprintf("error while compiling %s: %s", e.Path, e.Err)
}

func (e *RecipeCompileError) Unwrap() error { return e.Err }

// RecipeMissingTitleError is returned when a recipe page has no title.
type RecipeMissingTitleError struct {
	Path string
}

func (e *RecipeMissingTitleError) Error() string {
	return fmt.Sprintf("recipe %s is missing a title", e.Path)
}

// RecipeMissingServingsError is returned when a recipe page does not
// state a number of servings in its title.
type RecipeMissingServingsError struct {
	Path string
}

func (e *RecipeMissingServingsError) Error() string {
	return fmt.Sprintf("recipe %s is missing a number of servings (e.g. 'for 3' in the title)", e.Path)
}

// MaxServingsTooLowError is returned when a site's maximum serving count
// is lower than the native serving count of one of its recipes.
type MaxServingsTooLowError struct {
	Servings int
}

func (e *MaxServingsTooLowError) Error() string {
	return fmt.Sprintf("the maximum number of servings must be at least %d", e.Servings)
}

// ExternalLinkError is returned when a page links to a file outside the
// site source directory.
type ExternalLinkError struct {
	Source string
	URL    string
}

func (e *ExternalLinkError) Error() string {
	return fmt.Sprintf("%s contains a link to a file outside the website source: %s", e.Source, e.URL)
}

// BrokenLinkError is returned when a page links to a local file which
// does not exist.
type BrokenLinkError struct {
	Source string
	URL    string
}

func (e *BrokenLinkError) Error() string {
	return fmt.Sprintf("%s contains a link to non-existent file: %s", e.Source, e.URL)
}
