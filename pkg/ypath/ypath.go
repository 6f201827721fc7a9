// Copyright 2020 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package ypath

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-openapi/jsonpointer"
)

// ErrInvalidPath means a path expression cannot be parsed.
var ErrInvalidPath = errors.New("invalid path")

var (
	exprRe       = regexp.MustCompile(`(?s)^(?:(\d+):)?(/.*)$`)
	dotRe        = regexp.MustCompile(`(?s)^(?:(\d+):)?(.*)$`)
	identifierRe = regexp.MustCompile(`(?s)^([a-zA-Z0-9_-]+)=(.+)$`)
)

// A Kind tells how a segment selects the next node.
type Kind int

const (
	// Key selects a field of a mapping.
	Key Kind = iota
	// Index selects an element of a sequence by position.
	Index
	// Identifier selects the element of a sequence of mappings whose field matches a value.
	Identifier
)

func (k Kind) String() string {
	switch k {
	case Key:
		return "key"
	case Index:
		return "index"
	case Identifier:
		return "identifier"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// A Segment is one classified component of a path.
type Segment struct {
	Kind Kind
	// Name is the mapping key for Key segments and the field name for Identifier segments.
	Name string
	// Value is the field value for Identifier segments.
	Value string
	// Index is the position for Index segments. Negative values mean "append".
	Index int
}

// Classify decides the kind of an already decoded segment.
func Classify(s string) Segment {
	if m := identifierRe.FindStringSubmatch(s); m != nil {
		return Segment{Kind: Identifier, Name: m[1], Value: m[2]}
	}
	if i, err := strconv.Atoi(s); err == nil {
		return Segment{Kind: Index, Index: i}
	}
	return Segment{Kind: Key, Name: s}
}

// KeySegment returns a segment selecting the mapping field name.
func KeySegment(name string) Segment { return Segment{Kind: Key, Name: name} }

// IndexSegment returns a segment selecting the i-th sequence element.
func IndexSegment(i int) Segment { return Segment{Kind: Index, Index: i} }

// IdentifierSegment returns a segment selecting the sequence element whose field equals value.
func IdentifierSegment(field, value string) Segment {
	return Segment{Kind: Identifier, Name: field, Value: value}
}

// String renders the segment so that it decodes back to the same text.
// Keys that classify as something else can't be rendered faithfully, see Path.Expressible.
func (s Segment) String() string {
	switch s.Kind {
	case Index:
		return strconv.Itoa(s.Index)
	case Identifier:
		return fmt.Sprintf("%s=%s", s.Name, escape(s.Value))
	default:
		return escape(s.Name)
	}
}

func escape(s string) string {
	return url.PathEscape(s)
}

// A Path is a parsed path expression.
type Path struct {
	// Doc is the 0-based index of the document in a multi-document stream.
	Doc      int
	Segments []Segment
}

// Parse parses a path expression of the form [N:]/seg1/seg2/.../segN.
// The single slash "/" addresses the document root.
func Parse(expr string) (Path, error) {
	doc, rest, err := SplitDocument(expr)
	if err != nil {
		return Path{}, err
	}
	p := Path{Doc: doc}
	if rest == "/" {
		return p, nil
	}

	rest = strings.ReplaceAll(rest, `\/`, "%2F")
	for i, raw := range strings.Split(rest, "/") {
		if i == 0 {
			continue
		}
		s, err := url.PathUnescape(raw)
		if err != nil {
			return Path{}, fmt.Errorf("%q: %v: %w", expr, err, ErrInvalidPath)
		}
		p.Segments = append(p.Segments, Classify(s))
	}
	return p, nil
}

// MustParse is like Parse but panics on error.
func MustParse(expr string) Path {
	p, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// SplitDocument splits the optional "N:" document prefix from a path expression.
// The remainder must start with a slash.
func SplitDocument(expr string) (doc int, rest string, err error) {
	m := exprRe.FindStringSubmatch(expr)
	if m == nil {
		return 0, "", fmt.Errorf("%q: must start with '/': %w", expr, ErrInvalidPath)
	}
	if m[1] != "" {
		if doc, err = strconv.Atoi(m[1]); err != nil {
			return 0, "", fmt.Errorf("%q: %v: %w", expr, err, ErrInvalidPath)
		}
	}
	return doc, m[2], nil
}

// IsDotStyle reports whether expr is a dot-style path such as list.one.somekey
// rather than a slash path.
func IsDotStyle(expr string) bool {
	return !exprRe.MatchString(expr)
}

// SplitDotStyle splits a dot-style expression [N:]a.b.c into its document index and
// its parts. The parts are still unresolved: whether "one" in list.one is a key or the
// identifying value of a list entry depends on the document. The empty expression is the root.
func SplitDotStyle(expr string) (doc int, parts []string, err error) {
	m := dotRe.FindStringSubmatch(expr)
	if m[1] != "" {
		if doc, err = strconv.Atoi(m[1]); err != nil {
			return 0, nil, fmt.Errorf("%q: %v: %w", expr, err, ErrInvalidPath)
		}
	}
	if m[2] == "" {
		return doc, nil, nil
	}
	parts = strings.Split(m[2], ".")
	for _, s := range parts {
		if s == "" {
			return 0, nil, fmt.Errorf("%q: empty path element: %w", expr, ErrInvalidPath)
		}
	}
	return doc, parts, nil
}

// Expressible reports whether String renders p as an expression that parses back to p.
// It doesn't for keys that read as an index or an identifier, like "200" or "a=b".
func (p Path) Expressible() bool {
	for _, s := range p.Segments {
		if s.Kind == Key && Classify(s.Name).Kind != Key {
			return false
		}
	}
	return true
}

// Child returns a new path with s appended.
func (p Path) Child(s Segment) Path {
	segs := make([]Segment, len(p.Segments), len(p.Segments)+1)
	copy(segs, p.Segments)
	return Path{Doc: p.Doc, Segments: append(segs, s)}
}

// Prefix returns the path made of the first n segments.
func (p Path) Prefix(n int) Path {
	return Path{Doc: p.Doc, Segments: p.Segments[:n]}
}

// Parent returns the path without its last segment.
func (p Path) Parent() (Path, error) {
	if len(p.Segments) == 0 {
		return Path{}, fmt.Errorf("path %s does not have a parent", p)
	}
	return p.Prefix(len(p.Segments) - 1), nil
}

// Last returns the last segment. It panics on the root path.
func (p Path) Last() Segment {
	return p.Segments[len(p.Segments)-1]
}

// String renders the path as a path expression. The document prefix is
// rendered only when it's not the first document.
func (p Path) String() string {
	var b strings.Builder
	if p.Doc != 0 {
		fmt.Fprintf(&b, "%d:", p.Doc)
	}
	if len(p.Segments) == 0 {
		b.WriteString("/")
	}
	for _, s := range p.Segments {
		b.WriteString("/")
		b.WriteString(s.String())
	}
	return b.String()
}

// Pointer renders the path as an extended JSONPointer, where identifier segments
// use the ~[field=value] array matcher syntax.
// The document prefix is not part of the pointer.
func (p Path) Pointer() string {
	if len(p.Segments) == 0 {
		return ""
	}
	var b strings.Builder
	for _, s := range p.Segments {
		b.WriteString("/")
		switch s.Kind {
		case Index:
			b.WriteString(strconv.Itoa(s.Index))
		case Identifier:
			fmt.Fprintf(&b, "~[%s=%s]", jsonpointer.Escape(s.Name), jsonpointer.Escape(s.Value))
		default:
			b.WriteString(jsonpointer.Escape(s.Name))
		}
	}
	return b.String()
}
