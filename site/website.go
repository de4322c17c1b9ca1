// Copyright (c) 2024 The Recipe Grid Authors. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package site builds recipe websites from directories of recipe grid
// markdown files.
//
// A site source is a directory tree: every ".md" file is a recipe and
// every subdirectory a category. A directory may carry a "README.md" (or
// "index.md") whose h1 title names the category and whose remaining
// content describes it. The generated site renders each recipe at every
// serving count from one up to a configured maximum:
//
//	/index.html                     homepage
//	/serves<N>/<...>/<recipe>.html  recipe scaled to N servings
//	/serves<N>/<...>/index.html     category listing, scaled
//	/categories/<...>/index.html    category listing, native scalings
//	/css/style.css                  the site style sheet
//	/assets/<...>                   files referenced by recipe pages
//
// GenerateStandalonePage renders a single recipe as a self-contained
// HTML page instead.
package site

import (
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/recipegrid/recipegrid/markdown"
	"github.com/recipegrid/recipegrid/number"
)

// Site paths of the generated style sheet and of copied assets.
const (
	cssPath       = "/css/style.css"
	assetsDirPath = "/assets"
)

// Config holds the website generation settings.
type Config struct {
	// IndexFilename is the file name used for directory index pages.
	IndexFilename string `yaml:"index_filename"`

	// MaxServings is the largest serving count recipes are scaled to.
	// It must be at least as large as the largest native serving count
	// in the site.
	MaxServings int `yaml:"max_servings"`
}

// DefaultConfig returns the default website settings.
func DefaultConfig() Config {
	return Config{IndexFilename: "index.html", MaxServings: 10}
}

// LoadConfig reads a YAML site configuration file. Missing fields keep
// their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.IndexFilename == "" {
		cfg.IndexFilename = "index.html"
	}
	if cfg.MaxServings <= 0 {
		cfg.MaxServings = 10
	}
	return cfg, nil
}

// sitePage is a page of the generated website.
type sitePage interface {
	title() string
	path() string
	parent() sitePage

	// children returns the pages which logically appear below this one.
	children() []sitePage

	// sources returns the files or directories for which this page is
	// the definitive rendering. Links to those sources resolve to this
	// page.
	sources() []string

	render(rc *renderContext) (string, error)
}

// renderContext carries the state shared by all page renderings.
type renderContext struct {
	root      string            // resolved source root directory
	siteName  string
	pagePaths map[string]string // resolved source path -> site path
	assets    *assetSet
}

type pageBase struct {
	pageTitle  string
	pagePath   string
	pageParent sitePage
}

func (p *pageBase) title() string    { return p.pageTitle }
func (p *pageBase) path() string     { return p.pagePath }
func (p *pageBase) parent() sitePage { return p.pageParent }

// breadcrumbs returns the breadcrumb bar entries for a page, with hrefs
// relative to the page itself.
func breadcrumbs(p sitePage) []breadcrumb {
	var pages []sitePage
	for q := p; q != nil; q = q.parent() {
		pages = append(pages, q)
	}
	crumbs := make([]breadcrumb, 0, len(pages))
	for i := len(pages) - 1; i >= 0; i-- {
		crumbs = append(crumbs, breadcrumb{
			Title: pages[i].title(),
			Href:  relativeHref(p.path(), pages[i].path()),
		})
	}
	return crumbs
}

// pageVars returns the template variables shared by every page.
func pageVars(p sitePage, rc *renderContext) map[string]any {
	return map[string]any{
		"Title":       p.title(),
		"SiteName":    rc.siteName,
		"Breadcrumbs": breadcrumbs(p),
		"CSSHref":     relativeHref(p.path(), cssPath),
	}
}

type homePage struct {
	pageBase

	sourceRoot    string
	welcomeHTML   string
	welcomeSource string

	scaledCategories   map[int]*categoryPage
	unscaledCategories *categoryPage
}

func (p *homePage) children() []sitePage {
	pages := make([]sitePage, 0, len(p.scaledCategories)+1)
	for _, servings := range sortedKeys(p.scaledCategories) {
		pages = append(pages, p.scaledCategories[servings])
	}
	return append(pages, p.unscaledCategories)
}

func (p *homePage) sources() []string {
	if p.welcomeSource == "" {
		return nil
	}
	return []string{p.welcomeSource}
}

func (p *homePage) render(rc *renderContext) (string, error) {
	welcome := ""
	if p.welcomeHTML != "" && p.welcomeSource != "" {
		var err error
		welcome, err = postprocess(p.welcomeHTML,
			resolveLocalLinks(p.welcomeSource, rc.root, p.pagePath,
				rc.pagePaths, rc.assets, assetsDirPath))
		if err != nil {
			return "", err
		}
	}

	type servingLink struct {
		Servings int
		Href     string
	}
	var servingLinks []servingLink
	for _, servings := range sortedKeys(p.scaledCategories) {
		servingLinks = append(servingLinks, servingLink{
			Servings: servings,
			Href:     relativeHref(p.pagePath, p.scaledCategories[servings].pagePath),
		})
	}

	vars := pageVars(p, rc)
	vars["WelcomeMessage"] = template.HTML(welcome)
	vars["ServingLinks"] = servingLinks
	vars["CategoriesHref"] = relativeHref(p.pagePath, p.unscaledCategories.pagePath)
	return executeTemplate("homepage.html", vars)
}

type categoryPage struct {
	pageBase

	// servings is the serving count of this category tree, or 0 in the
	// unscaled "categories" tree.
	servings int

	descriptionHTML   string
	descriptionSource string
	sourceDir         string

	subcategories []*categoryPage
	recipes       []*recipePage
}

func (p *categoryPage) children() []sitePage {
	var pages []sitePage
	for _, sub := range p.subcategories {
		pages = append(pages, sub)
	}
	if p.servings != 0 {
		for _, r := range p.recipes {
			pages = append(pages, r)
		}
	}
	return pages
}

func (p *categoryPage) sources() []string {
	if p.servings != 0 {
		return nil
	}
	// Links to the directory and its readme resolve to the unscaled
	// listing.
	srcs := []string{p.sourceDir}
	if p.descriptionSource != "" {
		srcs = append(srcs, p.descriptionSource)
	}
	return srcs
}

func (p *categoryPage) render(rc *renderContext) (string, error) {
	description := ""
	if p.descriptionHTML != "" && p.descriptionSource != "" {
		var err error
		description, err = postprocess(p.descriptionHTML,
			resolveLocalLinks(p.descriptionSource, rc.root, p.pagePath,
				rc.pagePaths, rc.assets, assetsDirPath))
		if err != nil {
			return "", err
		}
	}

	var categories, recipes []link
	for _, sub := range p.subcategories {
		categories = append(categories, link{
			Title: sub.pageTitle,
			Href:  relativeHref(p.pagePath, sub.pagePath),
		})
	}
	for _, r := range p.recipes {
		recipes = append(recipes, link{
			Title: r.pageTitle,
			Href:  relativeHref(p.pagePath, r.pagePath),
		})
	}

	vars := pageVars(p, rc)
	vars["Description"] = template.HTML(description)
	vars["Categories"] = categories
	vars["Recipes"] = recipes
	return executeTemplate("categories.html", vars)
}

type recipePage struct {
	pageBase

	servings       int
	nativeServings int
	recipeHTML     string
	recipeSource   string

	// otherScalings maps serving counts to the pages showing this
	// recipe at other scales, this page included.
	otherScalings map[int]*recipePage
}

func (p *recipePage) children() []sitePage { return nil }

func (p *recipePage) sources() []string {
	if p.servings == p.nativeServings {
		return []string{p.recipeSource}
	}
	return nil
}

func (p *recipePage) render(rc *renderContext) (string, error) {
	scaledPaths := make(map[int]string, len(p.otherScalings))
	for servings, page := range p.otherScalings {
		scaledPaths[servings] = page.pagePath
	}

	body, err := postprocess(p.recipeHTML,
		resolveLocalLinks(p.recipeSource, rc.root, p.pagePath,
			rc.pagePaths, rc.assets, assetsDirPath),
		addRecipeScalingLinks(p.pagePath, scaledPaths, p.nativeServings))
	if err != nil {
		return "", err
	}

	vars := pageVars(p, rc)
	vars["Body"] = template.HTML(body)
	return executeTemplate("recipe.html", vars)
}

// siteBuilder builds the page hierarchy. Recipe sources are compiled
// once and re-rendered per scaling.
type siteBuilder struct {
	cfg      Config
	compiled map[string]*markdown.Recipe
}

func (b *siteBuilder) compileRecipe(path string) (*markdown.Recipe, error) {
	if compiled, ok := b.compiled[path]; ok {
		return compiled, nil
	}
	compiled, err := CompileRecipeFile(path, true, true)
	if err != nil {
		return nil, err
	}
	b.compiled[path] = compiled
	return compiled, nil
}

// buildSite builds a complete page hierarchy from the root directory.
func buildSite(rootDir string, cfg Config) (*homePage, error) {
	if cfg.IndexFilename == "" {
		cfg.IndexFilename = "index.html"
	}
	if cfg.MaxServings <= 0 {
		cfg.MaxServings = 10
	}
	root, err := EnumerateDirectory(rootDir)
	if err != nil {
		return nil, err
	}

	home := &homePage{
		pageBase: pageBase{
			pageTitle: root.Title,
			pagePath:  "/" + cfg.IndexFilename,
		},
		sourceRoot:       rootDir,
		welcomeHTML:      root.DescriptionHTML,
		welcomeSource:    root.DescriptionSource,
		scaledCategories: map[int]*categoryPage{},
	}

	b := &siteBuilder{cfg: cfg, compiled: map[string]*markdown.Recipe{}}
	recipePages := map[string]map[int]*recipePage{}
	for servings := 1; servings <= cfg.MaxServings; servings++ {
		page, err := b.categoryFromDirectory(servings, rootDir, home, true, recipePages)
		if err != nil {
			return nil, err
		}
		home.scaledCategories[servings] = page
	}
	home.unscaledCategories, err = b.categoryFromDirectory(0, rootDir, home, true, recipePages)
	if err != nil {
		return nil, err
	}
	return home, nil
}

// categoryFromDirectory builds the category page for one directory, with
// its subcategories and recipes below it. A servings count of 0 selects
// the native scaling of each recipe; scaled trees must be built before
// the unscaled one so that the native pages exist to be referred to.
func (b *siteBuilder) categoryFromDirectory(servings int, dir string, parent sitePage, rootCategory bool, recipePages map[string]map[int]*recipePage) (*categoryPage, error) {
	listing, err := EnumerateDirectory(dir)
	if err != nil {
		return nil, err
	}

	title := listing.Title
	dirName := filepath.Base(dir)
	if rootCategory {
		// The root listing's title and description belong to the
		// homepage.
		if servings != 0 {
			title = "Recipes for " + strconv.Itoa(servings)
			dirName = "serves" + strconv.Itoa(servings)
		} else {
			title = "Categories"
			dirName = "categories"
		}
	}

	page := &categoryPage{
		pageBase: pageBase{
			pageTitle:  title,
			pagePath:   parentHref(parent.path()) + "/" + dirName + "/" + b.cfg.IndexFilename,
			pageParent: parent,
		},
		servings:  servings,
		sourceDir: dir,
	}
	if !rootCategory {
		page.descriptionHTML = listing.DescriptionHTML
		page.descriptionSource = listing.DescriptionSource
	}

	for _, subdirectory := range listing.Subdirectories {
		sub, err := b.categoryFromDirectory(servings, subdirectory, page, false, recipePages)
		if err != nil {
			return nil, err
		}
		page.subcategories = append(page.subcategories, sub)
	}
	sort.Slice(page.subcategories, func(i, j int) bool {
		return page.subcategories[i].pageTitle < page.subcategories[j].pageTitle
	})

	for _, recipeSource := range listing.Recipes {
		if servings != 0 {
			rp, err := b.recipeFromSource(servings, recipeSource, page, recipePages)
			if err != nil {
				return nil, err
			}
			page.recipes = append(page.recipes, rp)
		} else {
			scalings := recipePages[recipeSource]
			native := scalings[1].nativeServings
			rp, ok := scalings[native]
			if !ok {
				return nil, &MaxServingsTooLowError{Servings: native}
			}
			page.recipes = append(page.recipes, rp)
		}
	}
	sort.Slice(page.recipes, func(i, j int) bool {
		return page.recipes[i].pageTitle < page.recipes[j].pageTitle
	})

	return page, nil
}

func (b *siteBuilder) recipeFromSource(servings int, recipeSource string, parent *categoryPage, recipePages map[string]map[int]*recipePage) (*recipePage, error) {
	compiled, err := b.compileRecipe(recipeSource)
	if err != nil {
		return nil, err
	}

	name := filepath.Base(recipeSource)
	name = strings.TrimSuffix(name, filepath.Ext(name)) + ".html"

	scalings := recipePages[recipeSource]
	if scalings == nil {
		scalings = map[int]*recipePage{}
		recipePages[recipeSource] = scalings
	}

	page := &recipePage{
		pageBase: pageBase{
			pageTitle:  compiled.Title,
			pagePath:   parentHref(parent.pagePath) + "/" + name,
			pageParent: parent,
		},
		servings:       servings,
		nativeServings: compiled.Servings,
		recipeHTML:     compiled.Render(number.Int(int64(servings)).DivExact(number.Int(int64(compiled.Servings)))),
		recipeSource:   recipeSource,
		otherScalings:  scalings,
	}
	scalings[servings] = page
	return page, nil
}

// allPages returns a page and every page below it in the hierarchy.
func allPages(p sitePage) []sitePage {
	pages := []sitePage{p}
	for _, child := range p.children() {
		pages = append(pages, allPages(child)...)
	}
	return pages
}

// GenerateSite generates a static recipe website from the markdown files
// under inputDir into outputDir. Existing files are overwritten.
func GenerateSite(inputDir, outputDir string, cfg Config) error {
	root, err := filepath.Abs(inputDir)
	if err != nil {
		return err
	}

	home, err := buildSite(inputDir, cfg)
	if err != nil {
		return err
	}

	pages := allPages(home)
	slog.Info("generating site", "pages", len(pages), "output", outputDir)

	// Links to source files resolve to the page which definitively
	// renders them.
	pagePaths := map[string]string{}
	for _, page := range pages {
		for _, source := range page.sources() {
			resolved, err := filepath.Abs(source)
			if err != nil {
				return err
			}
			pagePaths[resolved] = page.path()
		}
	}

	rc := &renderContext{
		root:      root,
		siteName:  home.pageTitle,
		pagePaths: pagePaths,
		assets:    newAssetSet(),
	}

	var group errgroup.Group
	for _, page := range pages {
		group.Go(func() error {
			rendered, err := page.render(rc)
			if err != nil {
				return err
			}
			slog.Debug("rendered page", "path", page.path())
			return writeSiteFile(outputDir, page.path(), []byte(rendered))
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	if err := writeSiteFile(outputDir, cssPath, []byte(websiteCSS)); err != nil {
		return err
	}

	for filename, sitePath := range rc.assets.paths {
		if err := copySiteFile(filename, outputDir, sitePath); err != nil {
			return err
		}
	}
	return nil
}

// writeSiteFile writes data to the file at the given absolute site path
// below outputDir, creating directories as needed.
func writeSiteFile(outputDir, sitePath string, data []byte) error {
	filename := filepath.Join(outputDir, filepath.FromSlash(strings.TrimPrefix(sitePath, "/")))
	if err := os.MkdirAll(filepath.Dir(filename), 0o777); err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0o666)
}

func copySiteFile(source, outputDir, sitePath string) error {
	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	filename := filepath.Join(outputDir, filepath.FromSlash(strings.TrimPrefix(sitePath, "/")))
	if err := os.MkdirAll(filepath.Dir(filename), 0o777); err != nil {
		return err
	}
	out, err := os.Create(filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
