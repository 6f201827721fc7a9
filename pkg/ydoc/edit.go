// Copyright 2020 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package ydoc

import (
	"bytes"

	yptr "github.com/vmware-labs/yaml-jsonpointer"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"
	"yset.io/pkg/yedit"
	"yset.io/pkg/ypath"
)

// A Mutation is a request to write Value at Path.
type Mutation struct {
	Path  ypath.Path
	Value *yaml.Node
}

// Set writes value at path in the source and returns the new source.
func Set(src []byte, path ypath.Path, value *yaml.Node, opts Options) ([]byte, error) {
	return Apply(src, []Mutation{{path, value}}, opts)
}

// Apply applies the mutations in order and returns the new source.
// Nothing is returned unless every mutation succeeds.
func Apply(src []byte, muts []Mutation, opts Options) ([]byte, error) {
	if opts.Preserve {
		t, ok, err := ScalarEdits(src, muts)
		if err != nil {
			return nil, err
		}
		if ok {
			b, _, err := transform.Bytes(t, src)
			return b, err
		}
	}

	docs, err := Parse(src)
	if err != nil {
		return nil, err
	}
	for _, m := range muts {
		doc, err := Select(docs, m.Path.Doc)
		if err != nil {
			return nil, err
		}
		if err := yedit.Set(doc, m.Path, m.Value); err != nil {
			return nil, err
		}
	}
	return encode(docs, opts)
}

// Delete removes the node at path and returns the new source together with the removed node.
func Delete(src []byte, path ypath.Path, opts Options) ([]byte, *yaml.Node, error) {
	docs, err := Parse(src)
	if err != nil {
		return nil, nil, err
	}
	doc, err := Select(docs, path.Doc)
	if err != nil {
		return nil, nil, err
	}
	removed, err := yedit.Delete(doc, path)
	if err != nil {
		return nil, nil, err
	}
	b, err := encode(docs, opts)
	return b, removed, err
}

// Get returns the node at path.
func Get(src []byte, path ypath.Path) (*yaml.Node, error) {
	docs, err := Parse(src)
	if err != nil {
		return nil, err
	}
	doc, err := Select(docs, path.Doc)
	if err != nil {
		return nil, err
	}
	return yedit.Get(doc, path)
}

// FindPointer returns the node matched by an extended JSONPointer, optionally prefixed
// by a "N:" document index. Besides plain RFC 6901 pointers, array elements can be
// selected with ~{"field":"value"} or ~[field=value] tokens.
func FindPointer(src []byte, expr string) (*yaml.Node, error) {
	i, ptr, err := ypath.SplitDocument(expr)
	if err != nil {
		return nil, err
	}
	docs, err := Parse(src)
	if err != nil {
		return nil, err
	}
	doc, err := Select(docs, i)
	if err != nil {
		return nil, err
	}
	return yptr.Find(doc, ptr)
}

// ParsePath parses a slash path expression, or resolves a dot-style one such as
// list.one.somekey against the document it selects in src.
func ParsePath(src []byte, expr string) (ypath.Path, error) {
	if !ypath.IsDotStyle(expr) {
		return ypath.Parse(expr)
	}
	i, parts, err := ypath.SplitDotStyle(expr)
	if err != nil {
		return ypath.Path{}, err
	}
	docs, err := Parse(src)
	if err != nil {
		return ypath.Path{}, err
	}
	doc, err := Select(docs, i)
	if err != nil {
		return ypath.Path{}, err
	}
	return yedit.Resolve(doc, i, parts)
}

// Restructure reorders the keys of every mapping in every document, see yedit.Restructure.
func Restructure(src []byte, sortRemaining bool, opts Options) ([]byte, error) {
	docs, err := Parse(src)
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		yedit.Restructure(d, sortRemaining)
	}
	return encode(docs, opts)
}

func encode(docs []*yaml.Node, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, docs, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
