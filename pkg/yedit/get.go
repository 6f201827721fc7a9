// Copyright 2020 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package yedit

import (
	"fmt"

	"gopkg.in/yaml.v3"
	"yset.io/pkg/ypath"
)

// Get returns the node at path without creating anything.
// A negative index selects the last element of a sequence.
func Get(root *yaml.Node, path ypath.Path) (*yaml.Node, error) {
	cur := root
	if cur.Kind == yaml.DocumentNode {
		if len(cur.Content) == 0 {
			if len(path.Segments) == 0 {
				return nil, pathErrorf(path, "empty document: %w", ErrNotFound)
			}
			return nil, pathErrorf(path.Prefix(1), "empty document: %w", ErrNotFound)
		}
		cur = cur.Content[0]
	}
	cur = deref(cur)

	for i, seg := range path.Segments {
		at := path.Prefix(i + 1)
		next, err := child(at, cur, seg)
		if err != nil {
			return nil, err
		}
		cur = deref(next)
	}
	return cur, nil
}

// child selects the node addressed by seg within n.
func child(at ypath.Path, n *yaml.Node, seg ypath.Segment) (*yaml.Node, error) {
	i, err := position(at, n, seg)
	if err != nil {
		return nil, err
	}
	return n.Content[i], nil
}

// position returns the index in n.Content of the node addressed by seg.
func position(at ypath.Path, n *yaml.Node, seg ypath.Segment) (int, error) {
	switch seg.Kind {
	case ypath.Identifier:
		if err := typeCheck(at, n, yaml.SequenceNode); err != nil {
			return 0, err
		}
		i := IndexOf(n, seg.Name, seg.Value)
		if i < 0 {
			return 0, pathErrorf(at, "no entry %s=%s in the list: %w", seg.Name, seg.Value, ErrNotFound)
		}
		return i, nil
	case ypath.Index:
		if err := typeCheck(at, n, yaml.SequenceNode); err != nil {
			return 0, err
		}
		i := seg.Index
		if i < 0 {
			i = len(n.Content) - 1
		}
		if i < 0 || i >= len(n.Content) {
			return 0, pathErrorf(at, "index %d not in range 0..%d: %w", seg.Index, len(n.Content)-1, ErrIndexOutOfRange)
		}
		return i, nil
	default:
		if err := typeCheck(at, n, yaml.MappingNode); err != nil {
			return 0, err
		}
		i := valueIndex(n, seg.Name)
		if i < 0 {
			return 0, pathErrorf(at, "%q: %w", seg.Name, ErrNotFound)
		}
		return i, nil
	}
}

// Delete removes the node at path from its parent and returns it.
func Delete(root *yaml.Node, path ypath.Path) (*yaml.Node, error) {
	parentPath, err := path.Parent()
	if err != nil {
		return nil, err
	}
	parent, err := Get(root, parentPath)
	if err != nil {
		return nil, err
	}

	i, err := position(path, parent, path.Last())
	if err != nil {
		return nil, err
	}
	removed := parent.Content[i]
	switch parent.Kind {
	case yaml.MappingNode:
		// drop both the key (at i-1) and the value (at i).
		parent.Content = append(parent.Content[:i-1], parent.Content[i+1:]...)
	case yaml.SequenceNode:
		parent.Content = append(parent.Content[:i], parent.Content[i+1:]...)
	default:
		return nil, fmt.Errorf("cannot delete from %s", kindName(parent.Kind))
	}
	return removed, nil
}
