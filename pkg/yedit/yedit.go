// Copyright 2020 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

/*
Package yedit reads and mutates yaml.Node trees at locations addressed by ypath paths.

Set walks the tree one segment at a time and creates what's missing on the way:

  - an absent mapping key is appended, holding an empty container whose kind is
    decided by the next segment (a mapping for a key, a sequence for an index or identifier);
  - an identifier segment (field=value) with no matching element appends a new
    {field: value} mapping to the sequence;
  - a negative index appends a new element, whatever its magnitude.

Null scalars met during the walk are promoted in place to the container the next segment requires.
Any other disagreement between a segment and the node it's applied to fails with ErrTypeMismatch.
*/
package yedit

import (
	"fmt"

	"gopkg.in/yaml.v3"
	"yset.io/pkg/ypath"
)

// Set writes value at path, creating intermediate containers as needed.
// The tree is mutated in place; on error it may contain containers created before the failure,
// so callers must not persist it.
//
// When the last segment is an identifier, the whole matched (or newly created) element is
// replaced by value, including the identifying field.
func Set(root *yaml.Node, path ypath.Path, value *yaml.Node) error {
	segs := path.Segments
	if len(segs) == 0 {
		return setRoot(root, value)
	}

	cur := root
	if cur.Kind == yaml.DocumentNode {
		if len(cur.Content) == 0 {
			cur.Content = []*yaml.Node{placeholder(segs[0])}
		}
		cur = cur.Content[0]
	}
	cur = deref(cur)

	for i, seg := range segs {
		at := path.Prefix(i + 1)
		last := i == len(segs)-1
		promote(cur, seg)

		switch seg.Kind {
		case ypath.Identifier:
			if err := typeCheck(at, cur, yaml.SequenceNode); err != nil {
				return err
			}
			idx := IndexOf(cur, seg.Name, seg.Value)
			if idx < 0 {
				cur.Content = append(cur.Content, identifierEntry(seg.Name, seg.Value))
				idx = len(cur.Content) - 1
			}
			if last {
				cur.Content[idx] = overwrite(cur.Content[idx], value)
				return nil
			}
			cur = deref(cur.Content[idx])

		case ypath.Index:
			if err := typeCheck(at, cur, yaml.SequenceNode); err != nil {
				return err
			}
			idx := seg.Index
			if idx < 0 {
				var next *yaml.Node
				if last {
					next = value
				} else {
					next = placeholder(segs[i+1])
				}
				cur.Content = append(cur.Content, next)
				idx = len(cur.Content) - 1
			} else if idx >= len(cur.Content) {
				return pathErrorf(at, "index %d not in range 0..%d: %w", idx, len(cur.Content)-1, ErrIndexOutOfRange)
			}
			if last {
				cur.Content[idx] = overwrite(cur.Content[idx], value)
				return nil
			}
			cur = deref(cur.Content[idx])

		default:
			if err := typeCheck(at, cur, yaml.MappingNode); err != nil {
				return err
			}
			vi := valueIndex(cur, seg.Name)
			if vi < 0 {
				var next *yaml.Node
				if last {
					next = value
				} else {
					next = placeholder(segs[i+1])
				}
				cur.Content = append(cur.Content, keyNode(seg.Name), next)
				vi = len(cur.Content) - 1
			}
			if last {
				cur.Content[vi] = overwrite(cur.Content[vi], value)
				return nil
			}
			cur = deref(cur.Content[vi])
		}
	}
	return nil
}

func setRoot(root, value *yaml.Node) error {
	if root.Kind == yaml.DocumentNode {
		root.Content = []*yaml.Node{value}
		return nil
	}
	*root = *value
	return nil
}

// IndexOf returns the position of the first mapping element of seq whose field is a scalar
// equal to value, or -1 if there is none.
func IndexOf(seq *yaml.Node, field, value string) int {
	for i, e := range seq.Content {
		e = deref(e)
		if e.Kind != yaml.MappingNode {
			continue
		}
		if vi := valueIndex(e, field); vi >= 0 {
			if v := deref(e.Content[vi]); v.Kind == yaml.ScalarNode && v.Value == value {
				return i
			}
		}
	}
	return -1
}

// valueIndex returns the index in m.Content of the value stored under key, or -1.
func valueIndex(m *yaml.Node, key string) int {
	c := m.Content
	for i := 0; i+1 < len(c); i += 2 {
		if c[i].Value == key {
			return i + 1
		}
	}
	return -1
}

// identifierEntry builds the new sequence element for an unmatched identifier segment
// by parsing a "field: value" literal, so that the value gets the type YAML gives it.
// When the literal doesn't read back as a single scalar equal to value (e.g. "x: y",
// "'x'" or "a #b"), the value is kept as a plain string, so that IndexOf finds the
// element again either way.
func identifierEntry(field, value string) *yaml.Node {
	lit := fmt.Sprintf("%s: %s", field, value)
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(lit), &doc); err == nil && len(doc.Content) == 1 {
		m := doc.Content[0]
		if m.Kind == yaml.MappingNode && len(m.Content) == 2 && m.Content[1].Kind == yaml.ScalarNode && m.Content[1].Value == value {
			clearPositions(m)
			return m
		}
	}
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: []*yaml.Node{
		keyNode(field),
		{Kind: yaml.ScalarNode, Tag: "!!str", Value: value},
	}}
}

// placeholder returns the empty container expected by the next segment.
func placeholder(next ypath.Segment) *yaml.Node {
	if next.Kind == ypath.Key {
		return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	}
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
}

// promote turns a null scalar into the container seg needs.
func promote(n *yaml.Node, seg ypath.Segment) {
	if !isNull(n) {
		return
	}
	p := placeholder(seg)
	n.Kind, n.Tag, n.Value, n.Style = p.Kind, p.Tag, "", 0
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}

func keyNode(name string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name}
}

// overwrite returns value, carrying over the comments attached to old when value has none.
func overwrite(old, value *yaml.Node) *yaml.Node {
	if value.HeadComment == "" {
		value.HeadComment = old.HeadComment
	}
	if value.LineComment == "" {
		value.LineComment = old.LineComment
	}
	if value.FootComment == "" {
		value.FootComment = old.FootComment
	}
	return value
}

func deref(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func typeCheck(at ypath.Path, n *yaml.Node, kind yaml.Kind) error {
	if n.Kind != kind {
		return pathErrorf(at, "expected %s but found %s: %w", kindName(kind), kindName(n.Kind), ErrTypeMismatch)
	}
	return nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "empty node"
}

// clearPositions drops source positions so that nodes parsed from a literal don't
// confuse the encoder's comment placement.
func clearPositions(n *yaml.Node) {
	n.Line, n.Column = 0, 0
	for _, c := range n.Content {
		clearPositions(c)
	}
}
