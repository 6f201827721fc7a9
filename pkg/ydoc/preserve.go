// Copyright 2020 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package ydoc

import (
	yamled "github.com/vmware-labs/go-yaml-edit"
	"github.com/vmware-labs/go-yaml-edit/splice"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"
	"yset.io/pkg/yedit"
	"yset.io/pkg/ypath"
)

// ScalarEdits returns a transformer that splices the mutations into src, if every mutation
// replaces an existing scalar with a plain string. Otherwise ok is false and the caller must
// fall back to Apply, which also reports any path error.
func ScalarEdits(src []byte, muts []Mutation) (t transform.Transformer, ok bool, err error) {
	docs, err := Parse(src)
	if err != nil {
		return nil, false, err
	}

	var (
		ops  []splice.Op
		seen = map[*yaml.Node]bool{}
	)
	for _, m := range muts {
		if !isPlainString(m.Value) || appends(m.Path) {
			return nil, false, nil
		}
		doc, err := Select(docs, m.Path.Doc)
		if err != nil {
			return nil, false, nil
		}
		n, err := yedit.Get(doc, m.Path)
		if err != nil || !spliceable(n) || seen[n] {
			return nil, false, nil
		}
		seen[n] = true
		ops = append(ops, yamled.Node(n).With(m.Value.Value))
	}
	return yamled.T(ops...), true, nil
}

// appends reports whether walking p would grow a sequence, which reading can't tell.
func appends(p ypath.Path) bool {
	if len(p.Segments) == 0 {
		return true
	}
	for _, s := range p.Segments {
		if s.Kind == ypath.Index && s.Index < 0 {
			return true
		}
	}
	return false
}

func spliceable(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode &&
		n.Value != "" &&
		n.Anchor == "" &&
		n.Style&(yaml.LiteralStyle|yaml.FoldedStyle) == 0
}

// isPlainString reports whether n is a string that YAML writes unquoted on a single line,
// so that it reads back as the same string wherever it's spliced.
func isPlainString(n *yaml.Node) bool {
	if n.Kind != yaml.ScalarNode || n.Tag != "!!str" || n.Value == "" {
		return false
	}
	b, err := yaml.Marshal(n.Value)
	return err == nil && string(b) == n.Value+"\n"
}
