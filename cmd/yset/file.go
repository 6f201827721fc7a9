// Copyright 2020 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-getter"
	"github.com/mattn/go-isatty"
	"yset.io/pkg/atomicfile"
)

// readDocument returns the content of the named document, "-" meaning stdin.
// If remote is set, names that aren't local files are fetched with go-getter,
// so any URL it understands (http, s3, git, ...) can be read.
func readDocument(ctx *Context, name string, remote bool) ([]byte, error) {
	if name == "-" {
		if f, ok := ctx.Stdin.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			fmt.Fprintf(ctx.Stderr, "(reading YAML from standard input; hit ctrl-c if this is not what you wanted)\n")
		}
		return io.ReadAll(ctx.Stdin)
	}

	b, err := os.ReadFile(name)
	if err == nil || !remote || !errors.Is(err, fs.ErrNotExist) {
		return b, err
	}
	return fetch(name)
}

func fetch(src string) ([]byte, error) {
	dir, err := os.MkdirTemp("", "yset")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	dst := filepath.Join(dir, "document")
	opt := func(c *getter.Client) (err error) {
		c.Pwd, err = os.Getwd()
		return
	}
	log.Printf("fetching %q", src)
	if err := getter.GetFile(dst, src, opt); err != nil {
		return nil, err
	}
	return os.ReadFile(dst)
}

// commit writes b to the named file atomically, or to stdout if name is "-".
func commit(ctx *Context, name string, b []byte) error {
	if name == "-" {
		_, err := ctx.Stdout.Write(b)
		return err
	}
	log.Printf("writing %q", name)
	return atomicfile.WriteFile(name, b, 0644)
}
