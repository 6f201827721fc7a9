// Copyright 2020 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package yedit_test

import (
	"errors"
	"fmt"
	"testing"

	"gopkg.in/yaml.v3"
	"yset.io/pkg/yedit"
	"yset.io/pkg/ypath"
)

func resolve(t *testing.T, root *yaml.Node, expr string) (ypath.Path, error) {
	t.Helper()
	doc, parts, err := ypath.SplitDotStyle(expr)
	if err != nil {
		t.Fatal(err)
	}
	return yedit.Resolve(root, doc, parts)
}

func TestResolve(t *testing.T) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(example+"mixed:\n- name: a\n- v: 1\n"), &root); err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		expr string
		want string
	}{
		{"yaml.structure.somekey", "/yaml/structure/somekey"},
		{"list.one.somekey", "/list/name=one/somekey"},
		{"list.three.somekey", "/list/name=three/somekey"},
		{"list.1", "/list/1"},
		{"simpleList.1", "/simpleList/1"},
		{"simpleList.-1", "/simpleList/-1"},
		{"new.a.0.b", "/new/a/0/b"},
		{"yaml.structure.somekey.x", "/yaml/structure/somekey/x"},
		{"mixed.b.v", "/mixed/name=b/v"},
		{"", "/"},
		{"1:a.b", "1:/a/b"},
	}

	for i, tc := range testCases {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			p, err := resolve(t, &root, tc.expr)
			if err != nil {
				t.Fatal(err)
			}
			if got, want := p.String(), tc.want; got != want {
				t.Errorf("got: %q, want: %q", got, want)
			}
		})
	}

	if _, err := resolve(t, &root, "simpleList.x"); !errors.Is(err, yedit.ErrNotFound) {
		t.Errorf("got: %v, want: %v", err, yedit.ErrNotFound)
	}
}

func TestResolveNumericKey(t *testing.T) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte("responses:\n  200: ok\n"), &root); err != nil {
		t.Fatal(err)
	}

	p, err := resolve(t, &root, "responses.200")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := p.Last(), ypath.KeySegment("200"); got != want {
		t.Errorf("got: %+v, want: %+v", got, want)
	}

	n, err := yedit.Get(&root, p)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := n.Value, "ok"; got != want {
		t.Errorf("got: %q, want: %q", got, want)
	}
}

func TestResolveEmptyDocument(t *testing.T) {
	root := yaml.Node{Kind: yaml.DocumentNode}
	p, err := resolve(t, &root, "a.0.b")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := p.String(), "/a/0/b"; got != want {
		t.Errorf("got: %q, want: %q", got, want)
	}
}
