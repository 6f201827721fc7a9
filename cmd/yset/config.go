// Copyright 2020 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/pelletier/go-toml"
)

// tomlConfig is a kong.ConfigurationLoader reading flag defaults from a TOML file.
// Keys are flag names, with either dashes or underscores:
//
//	indent = 4
//	preserve = true
//	no_document_start = true
func tomlConfig(r io.Reader) (kong.Resolver, error) {
	t, err := toml.LoadReader(r)
	if err != nil {
		return nil, err
	}

	return kong.ResolverFunc(func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (interface{}, error) {
		for _, k := range []string{flag.Name, strings.ReplaceAll(flag.Name, "-", "_")} {
			// GetPath takes the key verbatim, dots included.
			if v := t.GetPath([]string{k}); v != nil {
				return fmt.Sprint(v), nil
			}
		}
		return nil, nil
	}), nil
}
