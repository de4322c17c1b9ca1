// Copyright (c) 2024 The Recipe Grid Authors. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package site

import (
	"encoding/base64"
	"fmt"
	"html"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// A stage transforms a rendered HTML page or fragment.
type stage func(doc string) (string, error)

// postprocess applies the given stages to a HTML document in order.
func postprocess(doc string, stages ...stage) (string, error) {
	for _, s := range stages {
		var err error
		doc, err = s(doc)
		if err != nil {
			return "", err
		}
	}
	return doc, nil
}

var linkAttrPattern = regexp.MustCompile(`(href|src)="([^"]*)"`)

// rewriteLinks applies rewrite to the URL in every href and src
// attribute of doc.
func rewriteLinks(doc string, rewrite func(rawURL string) (string, error)) (string, error) {
	var firstErr error
	out := linkAttrPattern.ReplaceAllStringFunc(doc, func(attr string) string {
		if firstErr != nil {
			return attr
		}
		m := linkAttrPattern.FindStringSubmatch(attr)
		rewritten, err := rewrite(html.UnescapeString(m[2]))
		if err != nil {
			firstErr = err
			return attr
		}
		return m[1] + `="` + html.EscapeString(rewritten) + `"`
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

// assetSet records local files referenced by rendered pages together
// with the site path they will be copied to. Pages render concurrently,
// so access is guarded.
type assetSet struct {
	mu    sync.Mutex
	paths map[string]string // resolved filename -> site path
}

func newAssetSet() *assetSet {
	return &assetSet{paths: map[string]string{}}
}

func (a *assetSet) add(filename, sitePath string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.paths[filename] = sitePath
}

// localFilePath resolves the file system path a page-local URL path
// refers to. Absolute URL paths are taken relative to root, relative
// ones relative to the directory holding source.
func localFilePath(urlPath, source, root string) (string, error) {
	var fspath string
	if strings.HasPrefix(urlPath, "/") {
		fspath = filepath.Join(root, filepath.FromSlash(urlPath[1:]))
	} else {
		fspath = filepath.Join(filepath.Dir(source), filepath.FromSlash(urlPath))
	}
	return filepath.Abs(fspath)
}

// rebuildURL reassembles a rewritten page-local URL, keeping the query
// and fragment of the original.
func rebuildURL(path string, original *url.URL) string {
	rebuilt := url.URL{Path: path, RawQuery: original.RawQuery, Fragment: original.Fragment}
	return rebuilt.String()
}

// parseLinkURL parses a link destination. Link targets taken from
// markdown sources may contain stray "%" signs which url.Parse rejects,
// so those are parsed as bare paths instead.
func parseLinkURL(rawURL string) *url.URL {
	if u, err := url.Parse(rawURL); err == nil {
		return u
	}
	path, fragment, _ := strings.Cut(rawURL, "#")
	return &url.URL{Path: path, Fragment: fragment}
}

// resolveLocalLinks returns a stage which rewrites page-local links.
// Links to recipe sources, readmes and directories become relative links
// to the corresponding site pages; links to other local files are
// recorded in assets and rewritten to the assets directory. When the
// current page lives under a "/serves<N>" tree, links to other pages
// keep the same serving count.
func resolveLocalLinks(source, root, fromPath string, pagePaths map[string]string, assets *assetSet, assetsDirPath string) stage {
	return func(doc string) (string, error) {
		return rewriteLinks(doc, func(rawURL string) (string, error) {
			u := parseLinkURL(rawURL)
			if u.Scheme != "" || u.Host != "" || u.Path == "" {
				return rawURL, nil
			}

			fspath, err := localFilePath(u.Path, source, root)
			if err != nil {
				return "", err
			}

			sitePath, ok := pagePaths[fspath]
			if ok {
				// Keep the serving count of the current page.
				if strings.HasPrefix(fromPath, "/serves") {
					fromParts := strings.Split(fromPath, "/")
					siteParts := strings.Split(sitePath, "/")
					sitePath = strings.Join(append(fromParts[:2:2], siteParts[2:]...), "/")
				}
			} else {
				rel, err := filepath.Rel(root, fspath)
				if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
					return "", &ExternalLinkError{Source: source, URL: rawURL}
				}
				if info, err := os.Stat(fspath); err != nil || info.IsDir() {
					return "", &BrokenLinkError{Source: source, URL: rawURL}
				}
				sitePath = assetsDirPath + "/" + filepath.ToSlash(rel)
				assets.add(fspath, sitePath)
			}

			return rebuildURL(relativeHref(fromPath, sitePath), u), nil
		})
	}
}

// embedLocalLinksAsDataURLs returns a stage which replaces page-local
// links with data: URLs holding the linked file contents, producing a
// fully self-contained page.
func embedLocalLinksAsDataURLs(source, root string) stage {
	return func(doc string) (string, error) {
		return rewriteLinks(doc, func(rawURL string) (string, error) {
			u := parseLinkURL(rawURL)
			if u.Scheme != "" || u.Host != "" || u.Path == "" {
				return rawURL, nil
			}

			fspath, err := localFilePath(u.Path, source, root)
			if err != nil {
				return "", err
			}
			rel, err := filepath.Rel(root, fspath)
			if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
				return "", &ExternalLinkError{Source: source, URL: rawURL}
			}
			data, err := os.ReadFile(fspath)
			if err != nil {
				return "", &BrokenLinkError{Source: source, URL: rawURL}
			}

			mimetype := mime.TypeByExtension(filepath.Ext(fspath))
			if base, _, found := strings.Cut(mimetype, ";"); found {
				mimetype = base
			}
			if mimetype == "" {
				mimetype = "application/octet-stream"
			}
			return fmt.Sprintf("data:%s;base64,%s",
				mimetype, base64.StdEncoding.EncodeToString(data)), nil
		})
	}
}

var (
	servingCountPattern     = regexp.MustCompile(`<span class="rg-serving-count">(.*?)<span class="rg-scaled-value">[0-9]+</span></span>`)
	servingCountInner       = regexp.MustCompile(`^<span class="rg-serving-count">(.*?)<span class="rg-scaled-value">([0-9]+)</span></span>$`)
	originalServingsPattern = regexp.MustCompile(`<span class="rg-original-servings">(.*?)</span>`)
)

// addRecipeScalingLinks returns a stage which turns the serving count in
// a recipe page title into a drop down list of links to the other
// scalings of the recipe, and links the "rescaled from" notice back to
// the natively scaled page.
func addRecipeScalingLinks(fromPath string, scaledPaths map[int]string, nativeServings int) stage {
	servings := make([]int, 0, len(scaledPaths))
	for n := range scaledPaths {
		servings = append(servings, n)
	}
	sort.Ints(servings)

	return func(doc string) (string, error) {
		doc = servingCountPattern.ReplaceAllStringFunc(doc, func(span string) string {
			m := servingCountInner.FindStringSubmatch(span)
			prefix, count := m[1], m[2]

			var out strings.Builder
			out.WriteString(`<span class="rg-serving-count">`)
			out.WriteString(`<a href="#" class="rg-serving-count-current">`)
			out.WriteString(prefix)
			out.WriteString(`<span class="rg-scaled-value">` + count + `</span></a>`)
			out.WriteString("<ul>")
			for _, n := range servings {
				out.WriteString(`<li><a href="` + relativeHref(fromPath, scaledPaths[n]) + `">`)
				out.WriteString(prefix)
				out.WriteString(`<span class="rg-scaled-value">` + strconv.Itoa(n) + `</span></a></li>`)
			}
			out.WriteString("</ul></span>")
			return out.String()
		})

		doc = originalServingsPattern.ReplaceAllStringFunc(doc, func(span string) string {
			m := originalServingsPattern.FindStringSubmatch(span)
			return `<span class="rg-original-servings">` +
				`<a href="` + relativeHref(fromPath, scaledPaths[nativeServings]) + `">` +
				m[1] + `</a></span>`
		})
		return doc, nil
	}
}
