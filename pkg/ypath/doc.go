// Copyright 2020 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

/*
Package ypath parses slash-delimited path expressions that address a location in a YAML document.

A path expression looks like:

    /list/name=one/somekey

Each segment between slashes is percent-decoded and then classified, looking only at its own text:

    name=one    identifier: select the element of a sequence whose "name" field equals "one"
    1, -1       index: select the element at a position of a sequence
    somekey     key: select a field of a mapping

An optional "N:" prefix selects the N-th document (0-based) of a multi-document YAML stream:

    1:/metadata/name

A literal slash can be written as %2F or as \/.

Dot-style paths such as list.one.somekey are split by SplitDotStyle; turning their
parts into segments requires the document (see yedit.Resolve).
*/
package ypath
