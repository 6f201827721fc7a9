// Copyright 2020 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package ydoc

import (
	"fmt"

	"github.com/google/go-jsonnet"
	"github.com/mkmik/multierror"
	"gopkg.in/yaml.v3"
	"yset.io/pkg/yedit"
	"yset.io/pkg/ypath"
)

// A ValueFormat tells how a value literal is parsed.
type ValueFormat int

const (
	// YAMLValue literals are YAML (and thus JSON) values.
	YAMLValue ValueFormat = iota
	// JsonnetValue literals are jsonnet snippets, evaluated before use.
	JsonnetValue
)

// ParseValue parses a value literal into a node ready to be inserted in a document.
// The empty literal is null.
func ParseValue(lit string, f ValueFormat) (*yaml.Node, error) {
	if f == JsonnetValue {
		out, err := jsonnet.MakeVM().EvaluateAnonymousSnippet("value", lit)
		if err != nil {
			return nil, fmt.Errorf("jsonnet: %v: %w", err, yedit.ErrMalformedValue)
		}
		lit = out
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(lit), &doc); err != nil {
		return nil, fmt.Errorf("%q: %v: %w", lit, err, yedit.ErrMalformedValue)
	}
	if len(doc.Content) == 0 {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	}
	n := doc.Content[0]
	detach(n, f == JsonnetValue)
	return n, nil
}

// ParseMutations parses a YAML mapping of path expressions to values.
// All invalid paths are reported together.
func ParseMutations(src []byte) ([]Mutation, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	m := doc.Content[0]
	if m.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("mutations must be a mapping of paths to values, line %d", m.Line)
	}

	var (
		res  []Mutation
		errs []error
	)
	for i := 0; i+1 < len(m.Content); i += 2 {
		p, err := ypath.Parse(m.Content[i].Value)
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", m.Content[i].Line, err))
			continue
		}
		v := m.Content[i+1]
		detach(v, false)
		res = append(res, Mutation{Path: p, Value: v})
	}
	if errs != nil {
		return nil, multierror.Join(errs)
	}
	return res, nil
}

// detach prepares a parsed node for insertion in another document: values are written in
// block style and lose their source positions. With plain, scalar quoting is dropped too
// and left to the encoder.
func detach(n *yaml.Node, plain bool) {
	n.Line, n.Column = 0, 0
	n.Style &^= yaml.FlowStyle
	if plain {
		n.Style = 0
	}
	for _, c := range n.Content {
		detach(c, plain)
	}
}
