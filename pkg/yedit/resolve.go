// Copyright 2020 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package yedit

import (
	"strconv"

	"gopkg.in/yaml.v3"
	"yset.io/pkg/ypath"
)

// Resolve turns the parts of a dot-style path (see ypath.SplitDotStyle) into a path,
// looking at root to decide what each part selects:
//
//   - in a mapping, a part is a key, numbers included;
//   - in a sequence, a number is an index, anything else the identifying value of an
//     entry, matched on the "name", "key" or "id" field the entries carry;
//   - past the end of the existing tree, a number is an index and anything else a key.
//
// A sequence whose entries carry no identifying field can only be addressed by index.
func Resolve(root *yaml.Node, doc int, parts []string) (ypath.Path, error) {
	p := ypath.Path{Doc: doc}

	cur := root
	if cur != nil && cur.Kind == yaml.DocumentNode {
		cur = nil
		if len(root.Content) > 0 {
			cur = root.Content[0]
		}
	}

	for _, part := range parts {
		var seg ypath.Segment
		if cur != nil {
			cur = deref(cur)
		}
		i, numErr := strconv.Atoi(part)

		switch {
		case cur != nil && cur.Kind == yaml.MappingNode:
			seg = ypath.KeySegment(part)
		case cur != nil && cur.Kind == yaml.SequenceNode && numErr != nil:
			id := listIdentifier(cur)
			if id == "" {
				id = sharedIdentifier(cur)
			}
			if id == "" {
				return ypath.Path{}, pathErrorf(p.Child(ypath.KeySegment(part)), "list entries have none of the %q fields: %w", identifierCandidates, ErrNotFound)
			}
			seg = ypath.IdentifierSegment(id, part)
		case numErr == nil:
			seg = ypath.IndexSegment(i)
		default:
			seg = ypath.KeySegment(part)
		}
		p = p.Child(seg)

		if cur == nil {
			continue
		}
		next, err := child(p, cur, seg)
		if err != nil {
			// the rest of the path is yet to be created.
			next = nil
		}
		cur = next
	}
	return p, nil
}

// sharedIdentifier returns the first identifier candidate carried by any mapping entry of seq.
// Unlike listIdentifier it doesn't require every entry to carry it, so that a list which
// isn't keyed yet can still be extended by name.
func sharedIdentifier(seq *yaml.Node) string {
	for _, id := range identifierCandidates {
		for _, e := range seq.Content {
			if e = deref(e); e.Kind == yaml.MappingNode && valueIndex(e, id) >= 0 {
				return id
			}
		}
	}
	return ""
}
