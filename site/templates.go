// Copyright (c) 2024 The Recipe Grid Authors. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package site

import (
	"embed"
	"html/template"
	"strings"
)

//go:embed templates
var templateFiles embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFiles, "templates/*.html"))

// TablesCSS is the style sheet for rendered recipe tables, for embedding
// in pages built outside this package.
var TablesCSS = mustReadTemplateFile("templates/recipe_tables.css")

// websiteCSS styles generated website pages. It includes the table
// styles.
var websiteCSS = mustReadTemplateFile("templates/website.css") + "\n" + TablesCSS

func mustReadTemplateFile(name string) string {
	data, err := templateFiles.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return string(data)
}

// breadcrumb is one entry of a page's breadcrumb bar.
type breadcrumb struct {
	Title string
	Href  string
}

// link is a titled link to another page.
type link struct {
	Title string
	Href  string
}

func executeTemplate(name string, data any) (string, error) {
	var out strings.Builder
	if err := pageTemplates.ExecuteTemplate(&out, name, data); err != nil {
		return "", err
	}
	return out.String(), nil
}
