// Copyright 2020 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package yedit

import (
	"gopkg.in/yaml.v3"
	"yset.io/pkg/ypath"
)

// identifierCandidates are the fields tried, in order, to address elements of a list of mappings.
var identifierCandidates = []string{"name", "key", "id"}

// Paths returns the path of every scalar leaf under root, in document order.
// Elements of sequences of mappings that all carry one of the "name", "key" or "id"
// fields are addressed with identifier segments, other elements by index.
//
// Leaves below keys that read as an index or an identifier, like "200" or "a=b", can't
// be written as path expressions (see ypath.Path.Expressible) and are left out.
func Paths(root *yaml.Node, doc int) []ypath.Path {
	var res []ypath.Path
	walk(ypath.Path{Doc: doc}, root, func(p ypath.Path) {
		if p.Expressible() {
			res = append(res, p)
		}
	})
	return res
}

func walk(p ypath.Path, n *yaml.Node, leaf func(ypath.Path)) {
	switch n.Kind {
	case yaml.DocumentNode:
		for _, c := range n.Content {
			walk(p, c, leaf)
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			walk(p.Child(ypath.KeySegment(n.Content[i].Value)), n.Content[i+1], leaf)
		}
	case yaml.SequenceNode:
		id := listIdentifier(n)
		for i, e := range n.Content {
			seg := ypath.IndexSegment(i)
			if id != "" {
				e := deref(e)
				seg = ypath.IdentifierSegment(id, deref(e.Content[valueIndex(e, id)]).Value)
			}
			walk(p.Child(seg), e, leaf)
		}
	default:
		leaf(p)
	}
}

// listIdentifier returns the field that every element of seq carries as a scalar
// and that uniquely identifies it, or "" if there is none.
func listIdentifier(seq *yaml.Node) string {
	if len(seq.Content) == 0 {
		return ""
	}
	for _, id := range identifierCandidates {
		if identifies(seq, id) {
			return id
		}
	}
	return ""
}

func identifies(seq *yaml.Node, id string) bool {
	seen := map[string]bool{}
	for _, e := range seq.Content {
		e = deref(e)
		if e.Kind != yaml.MappingNode {
			return false
		}
		vi := valueIndex(e, id)
		if vi < 0 {
			return false
		}
		v := deref(e.Content[vi])
		if v.Kind != yaml.ScalarNode || v.Value == "" || seen[v.Value] {
			return false
		}
		seen[v.Value] = true
	}
	return true
}
