// Copyright 2020 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package main

import (
	"fmt"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func TestTOMLConfig(t *testing.T) {
	const config = `
indent = 4
preserve = true
no_document_start = true
`
	testCases := []struct {
		args     []string
		indent   int
		preserve bool
	}{
		{[]string{"set", "f.yaml", "/a", "b"}, 4, true},
		{[]string{"set", "--indent=3", "f.yaml", "/a", "b"}, 3, true},
	}

	for i, tc := range testCases {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			var c struct {
				Set SetCmd `cmd:""`
			}
			r, err := tomlConfig(strings.NewReader(config))
			if err != nil {
				t.Fatal(err)
			}
			p, err := kong.New(&c, kong.Resolvers(r))
			if err != nil {
				t.Fatal(err)
			}
			if _, err := p.Parse(tc.args); err != nil {
				t.Fatal(err)
			}
			if got, want := c.Set.Indent, tc.indent; got != want {
				t.Errorf("got: %v, want: %v", got, want)
			}
			if got, want := c.Set.Preserve, tc.preserve; got != want {
				t.Errorf("got: %v, want: %v", got, want)
			}
			if !c.Set.NoDocumentStart {
				t.Errorf("no_document_start not resolved")
			}
		})
	}
}

func TestTOMLConfigError(t *testing.T) {
	if _, err := tomlConfig(strings.NewReader("indent = = 4")); err == nil {
		t.Errorf("error expected")
	}
}
