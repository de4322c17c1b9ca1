// Copyright (c) 2024 The Recipe Grid Authors. All rights reserved.

// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v3"

	"github.com/recipegrid/recipegrid/site"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:      "serve",
		Usage:     "Preview recipe markdown files in a browser",
		ArgsUsage: "[DIR]",
		Description: `Serve the recipe markdown files in a directory (by default the current
one) over HTTP, rendering each as a standalone recipe page. Pages are
re-rendered when the markdown files change on disk.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Aliases: []string{"a"},
				Value:   ":8080",
				Usage:   "The `ADDRESS` to listen on",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := cmd.Args().Get(0)
			if dir == "" {
				dir = "."
			}
			return serve(dir, cmd.String("addr"))
		},
	}
}

func serve(dir, addr string) error {
	srv := &previewServer{
		root:   dir,
		static: http.FileServer(http.Dir(dir)),
		pages:  map[string]string{},
	}
	if err := srv.watch(); err != nil {
		return err
	}
	defer srv.watcher.Close()

	s := &http.Server{
		Addr:           addr,
		Handler:        srv,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	fmt.Fprintf(os.Stderr, "Web server is available at http://localhost%s/\n", addr)
	fmt.Fprintf(os.Stderr, "Press Ctrl+C to stop\n\n")

	return s.ListenAndServe()
}

// previewServer serves a directory of recipe markdown files, rendering
// each as a standalone page. Rendered pages are cached until the
// corresponding source file changes.
type previewServer struct {
	root    string
	static  http.Handler
	watcher *fsnotify.Watcher

	sync.Mutex
	pages map[string]string
}

// watch starts a file system watcher over the served directory tree
// which drops cached pages when their sources change.
func (srv *previewServer) watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	srv.watcher = watcher

	err = filepath.WalkDir(srv.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return err
		}
		return watcher.Add(path)
	})
	if err != nil {
		watcher.Close()
		return err
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&fsnotify.Create != 0 {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						_ = watcher.Add(event.Name)
					}
				}
				srv.Lock()
				delete(srv.pages, event.Name)
				srv.Unlock()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Error("watching files", "err", err)
			}
		}
	}()
	return nil
}

func (srv *previewServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Path[1:]
	if name == "" || strings.HasSuffix(name, "/") {
		name += "index.html"
	}

	ext := path.Ext(name)
	if ext != ".html" && ext != ".md" {
		srv.static.ServeHTTP(w, r)
		return
	}
	source := filepath.Join(srv.root, filepath.FromSlash(strings.TrimSuffix(name, ext)+".md"))

	srv.Lock()
	page, ok := srv.pages[source]
	srv.Unlock()
	if !ok {
		var err error
		page, err = site.GenerateStandalonePage(source, site.StandaloneOptions{})
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				http.NotFound(w, r)
				return
			}
			var compileErr *site.RecipeCompileError
			if errors.As(err, &compileErr) {
				w.Header().Set("Content-Type", "text/plain; charset=utf-8")
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprintf(w, "%s", err)
				return
			}
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			slog.Error("rendering page", "page", name, "err", err)
			return
		}
		srv.Lock()
		srv.pages[source] = page
		srv.Unlock()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := fmt.Fprint(w, page); err != nil {
		slog.Error("writing response", "err", err)
	}
}
