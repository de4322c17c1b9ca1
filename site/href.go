// Copyright (c) 2024 The Recipe Grid Authors. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package site

import "strings"

// parentHref returns the directory part of a site path, e.g. "/foo" for
// "/foo/bar.html" and "" for "/index.html".
func parentHref(href string) string {
	parts := strings.Split(href, "/")
	return strings.Join(parts[:len(parts)-1], "/")
}

// relativeHref returns a relative path leading from the page at from to
// the page at to. Both must be absolute site paths naming a file, e.g.
// relativeHref("/foo/bar/baz.html", "/foo/qux/quo.html") returns
// "../qux/quo.html".
func relativeHref(from, to string) string {
	fromParts := strings.Split(from, "/")
	fromParts = fromParts[:len(fromParts)-1]
	toParts := strings.Split(to, "/")

	common := 0
	for common < len(fromParts) && common < len(toParts) &&
		fromParts[common] == toParts[common] {
		common++
	}

	var parts []string
	for i := common; i < len(fromParts); i++ {
		parts = append(parts, "..")
	}
	parts = append(parts, toParts[common:]...)
	return strings.Join(parts, "/")
}
