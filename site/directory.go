// Copyright (c) 2024 The Recipe Grid Authors. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package site

import (
	"bytes"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/recipegrid/recipegrid/markdown"
)

var (
	digitRunPattern    = regexp.MustCompile(`[0-9]+`)
	camelBoundary      = regexp.MustCompile(`([^A-Z])([A-Z])`)
	punctuationPattern = regexp.MustCompile(`[^a-zA-Z0-9]+`)
	titleCaser         = cases.Title(language.Und)
	readmeTitlePattern = regexp.MustCompile(`^<h1[^>]*>(.*)</h1>\s*$`)
)

// DirnameToTitle turns a directory name in snake case, camel case or with
// real spaces into a user-facing title. "myDirName", "MY_DIR_NAME" and
// "My dir name" all become "My dir name".
func DirnameToTitle(name string) string {
	name = digitRunPattern.ReplaceAllString(name, " $0 ")
	name = camelBoundary.ReplaceAllString(name, "$1 $2")
	name = punctuationPattern.ReplaceAllString(name, " ")
	words := strings.Fields(name)
	for i, word := range words {
		if i == 0 {
			words[i] = titleCaser.String(strings.ToLower(word))
		} else {
			words[i] = strings.ToLower(word)
		}
	}
	return strings.Join(words, " ")
}

// A DirectoryListing describes the contents of one recipe directory.
// Recipes may be arranged in a hierarchy of directories according to
// categories; every ".md" file is taken to be a recipe, except for an
// optional "README.md" or "index.md" describing the directory itself.
type DirectoryListing struct {
	// Title is the user-facing name of the directory, taken from the
	// readme's h1 title when a readme is present and derived from the
	// directory name otherwise.
	Title string

	// DescriptionHTML is the rendered readme, excluding its h1 title.
	// Empty when the directory has no readme.
	DescriptionHTML string

	// DescriptionSource is the path of the readme file, or "".
	DescriptionSource string

	// Subdirectories and Recipes list the directory contents in name
	// order.
	Subdirectories []string
	Recipes        []string
}

// EnumerateDirectory lists the recipes, subdirectories and optional
// readme of one recipe directory.
func EnumerateDirectory(dir string) (*DirectoryListing, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	listing := &DirectoryListing{}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		name := strings.ToLower(entry.Name())
		switch {
		case entry.IsDir():
			listing.Subdirectories = append(listing.Subdirectories, path)
		case name == "readme.md" || name == "index.md":
			if listing.DescriptionSource != "" {
				return nil, &MultipleReadmeError{
					Dir:    dir,
					First:  filepath.Base(listing.DescriptionSource),
					Second: entry.Name(),
				}
			}
			listing.DescriptionSource = path
		case strings.HasSuffix(name, ".md"):
			listing.Recipes = append(listing.Recipes, path)
		}
	}
	sort.Strings(listing.Subdirectories)
	sort.Strings(listing.Recipes)

	if listing.DescriptionSource == "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		listing.Title = DirnameToTitle(filepath.Base(abs))
		return listing, nil
	}

	title, description, err := compileReadme(listing.DescriptionSource)
	if err != nil {
		return nil, err
	}
	listing.Title = title
	listing.DescriptionHTML = description
	return listing, nil
}

// compileReadme renders a readme markdown file and splits off its leading
// h1 title.
func compileReadme(path string) (title, description string, err error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}

	var buf bytes.Buffer
	md := goldmark.New(goldmark.WithRendererOptions(gmhtml.WithUnsafe()))
	if err := md.Convert(source, &buf); err != nil {
		return "", "", err
	}
	rendered := buf.String()

	firstLine, rest, _ := strings.Cut(rendered, "\n")
	m := readmeTitlePattern.FindStringSubmatch(strings.TrimSpace(firstLine))
	if m == nil {
		return "", "", &ReadmeMissingTitleError{Path: path}
	}
	if strings.Contains(m[1], "<") {
		return "", "", &ReadmeMalformedTitleError{Path: path}
	}
	return html.UnescapeString(m[1]), rest, nil
}

// CompileRecipeFile compiles a recipe grid markdown file, wrapping
// compile failures in a *RecipeCompileError. When requireTitle or
// requireServings is set, recipes without a title or serving count are
// rejected.
func CompileRecipeFile(path string, requireTitle, requireServings bool) (*markdown.Recipe, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	compiled, err := markdown.Compile(string(source))
	if err != nil {
		return nil, &RecipeCompileError{Path: path, Err: err}
	}
	if requireTitle && compiled.Title == "" {
		return nil, &RecipeMissingTitleError{Path: path}
	}
	if requireServings && compiled.Servings == 0 {
		return nil, &RecipeMissingServingsError{Path: path}
	}
	return compiled, nil
}
