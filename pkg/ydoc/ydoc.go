// Copyright 2020 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

/*
Package ydoc applies path mutations to YAML sources.

A source is parsed into a stream of yaml.Node documents, the mutations are applied with
the yedit package on the document selected by each path, and the stream is encoded back
in block style, each document preceded by an explicit "---" marker.

With Options.Preserve, mutations that only replace an existing scalar with a plain string
are spliced into the source text instead, leaving every other byte untouched.
*/
package ydoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
	"yset.io/pkg/yedit"
)

// DefaultIndent is the indentation used when Options.Indent is not set.
const DefaultIndent = 2

// Options controls how documents are written back.
type Options struct {
	// Indent is the number of spaces per nesting level.
	Indent int
	// NoDocumentStart omits the "---" marker before the first document.
	NoDocumentStart bool
	// Preserve splices plain scalar replacements into the source text when possible.
	Preserve bool
}

func (o Options) indent() int {
	if o.Indent < 2 {
		return DefaultIndent
	}
	return o.Indent
}

// Parse parses all documents in src. An empty source yields one empty document.
func Parse(src []byte) ([]*yaml.Node, error) {
	var res []*yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(src))
	for {
		var n yaml.Node
		if err := dec.Decode(&n); errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, err
		}
		res = append(res, &n)
	}
	if len(res) == 0 {
		res = append(res, &yaml.Node{Kind: yaml.DocumentNode})
	}
	return res, nil
}

// Select returns the i-th document.
func Select(docs []*yaml.Node, i int) (*yaml.Node, error) {
	if i < 0 || i >= len(docs) {
		return nil, fmt.Errorf("document %d not in range 0..%d: %w", i, len(docs)-1, yedit.ErrIndexOutOfRange)
	}
	return docs[i], nil
}

// Encode writes docs to w.
func Encode(w io.Writer, docs []*yaml.Node, opts Options) error {
	for i, d := range docs {
		if i > 0 || !opts.NoDocumentStart {
			if _, err := io.WriteString(w, "---\n"); err != nil {
				return err
			}
		}
		if d.Kind == yaml.DocumentNode && len(d.Content) == 0 {
			continue
		}
		if err := EncodeNode(w, d, opts.indent()); err != nil {
			return err
		}
	}
	return nil
}

// EncodeNode writes a single node (document or not) to w.
func EncodeNode(w io.Writer, n *yaml.Node, indent int) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(indent)
	if err := enc.Encode(n); err != nil {
		return err
	}
	return enc.Close()
}
