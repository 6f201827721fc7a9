// Copyright 2020 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
	"yset.io/pkg/atomicfile"
	"yset.io/pkg/ydoc"
	"yset.io/pkg/yedit"
	"yset.io/pkg/ypath"
)

// Context holds the standard streams used by the commands.
type Context struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

var cli struct {
	Set    SetCmd    `cmd:"" help:"Set the value at a path, creating intermediate nodes as needed."`
	Apply  ApplyCmd  `cmd:"" help:"Set many values at once, read from a YAML mapping of paths to values."`
	Get    GetCmd    `cmd:"" help:"Print the value at a path."`
	Delete DeleteCmd `cmd:"" help:"Remove the node at a path."`
	Paths  PathsCmd  `cmd:"" help:"List the paths of all leaf values."`
	Cat    CatCmd    `cmd:"" help:"Re-serialize a document to stdout."`

	Restructure RestructureCmd `cmd:"" help:"Reorder the keys of mappings for readability."`

	Verbose bool             `short:"v" help:"Trace what is being written to stderr."`
	Version kong.VersionFlag `name:"version" help:"Print version information and quit"`
}

// FormatFlags control how documents are serialized.
type FormatFlags struct {
	Indent          int  `default:"2" help:"Number of spaces per indentation level."`
	NoDocumentStart bool `help:"Omit the '---' marker before the first document."`
}

// OutputFlags control where edited documents are written.
type OutputFlags struct {
	FormatFlags
	Stdout bool `help:"Output to stdout and never update files in-place."`
}

func (o *OutputFlags) options() ydoc.Options {
	return ydoc.Options{Indent: o.Indent, NoDocumentStart: o.NoDocumentStart}
}

// target returns the name edits are committed to, "-" meaning stdout.
func (o *OutputFlags) target(name string) string {
	if o.Stdout {
		return "-"
	}
	return name
}

type SetCmd struct {
	OutputFlags
	Preserve bool `help:"Splice plain string replacements into the source text, leaving formatting and comments untouched."`
	Jsonnet  bool `help:"Evaluate the value as a jsonnet snippet."`

	File  string `arg:"" help:"YAML file to edit, '-' for stdin."`
	Path  string `arg:"" help:"Path to set, e.g. /spec/containers/name=app/image, 1:/a/0 for the second document, or dot-style spec.containers.app.image."`
	Value string `arg:"" optional:"" help:"Value to set, as a YAML literal. Empty means null."`
}

func (s *SetCmd) Run(ctx *Context) error {
	src, err := readDocument(ctx, s.File, false)
	if err != nil {
		return err
	}
	p, err := ydoc.ParsePath(src, s.Path)
	if err != nil {
		return err
	}
	f := ydoc.YAMLValue
	if s.Jsonnet {
		f = ydoc.JsonnetValue
	}
	v, err := ydoc.ParseValue(s.Value, f)
	if err != nil {
		return err
	}
	return edit(ctx, s.File, src, &s.OutputFlags, s.Preserve, []ydoc.Mutation{{Path: p, Value: v}})
}

type ApplyCmd struct {
	OutputFlags
	Preserve bool `help:"Splice plain string replacements into the source text, leaving formatting and comments untouched."`

	File      string `arg:"" help:"YAML file to edit, '-' for stdin."`
	Mutations string `arg:"" type:"existingfile" help:"YAML file containing a mapping of paths to values."`
}

func (s *ApplyCmd) Run(ctx *Context) error {
	b, err := os.ReadFile(s.Mutations)
	if err != nil {
		return err
	}
	muts, err := ydoc.ParseMutations(b)
	if err != nil {
		return fmt.Errorf("%s: %w", s.Mutations, err)
	}
	src, err := readDocument(ctx, s.File, false)
	if err != nil {
		return err
	}
	return edit(ctx, s.File, src, &s.OutputFlags, s.Preserve, muts)
}

// edit applies all mutations to src, read from the named document, and commits the result,
// or nothing if any fails.
func edit(ctx *Context, name string, src []byte, o *OutputFlags, preserve bool, muts []ydoc.Mutation) error {
	target := o.target(name)
	if preserve && target != "-" {
		t, ok, err := ydoc.ScalarEdits(src, muts)
		if err != nil {
			return err
		}
		if ok {
			log.Printf("splicing %d scalar edit(s) into %q", len(muts), target)
			return atomicfile.Transform(t, target)
		}
		log.Printf("cannot splice edits into %q, re-serializing", target)
	}

	opts := o.options()
	opts.Preserve = preserve
	out, err := ydoc.Apply(src, muts, opts)
	if err != nil {
		return err
	}
	for _, m := range muts {
		log.Printf("set %s", m.Path)
	}
	return commit(ctx, target, out)
}

type GetCmd struct {
	Pointer bool `help:"Interpret the path as an extended JSON pointer, e.g. /spec/containers/~[name=app]/image."`

	File string `arg:"" help:"YAML file or URL to read, '-' for stdin."`
	Path string `arg:"" help:"Path to read, slash or dot-style."`
}

func (s *GetCmd) Run(ctx *Context) error {
	src, err := readDocument(ctx, s.File, true)
	if err != nil {
		return err
	}

	var n *yaml.Node
	if s.Pointer {
		n, err = ydoc.FindPointer(src, s.Path)
	} else {
		var p ypath.Path
		if p, err = ydoc.ParsePath(src, s.Path); err == nil {
			n, err = ydoc.Get(src, p)
		}
	}
	if err != nil {
		return err
	}

	if n.Kind == yaml.ScalarNode {
		_, err := fmt.Fprintln(ctx.Stdout, n.Value)
		return err
	}
	return ydoc.EncodeNode(ctx.Stdout, n, ydoc.DefaultIndent)
}

type DeleteCmd struct {
	OutputFlags

	File string `arg:"" help:"YAML file to edit, '-' for stdin."`
	Path string `arg:"" help:"Path of the node to remove, slash or dot-style."`
}

func (s *DeleteCmd) Run(ctx *Context) error {
	src, err := readDocument(ctx, s.File, false)
	if err != nil {
		return err
	}
	p, err := ydoc.ParsePath(src, s.Path)
	if err != nil {
		return err
	}
	out, removed, err := ydoc.Delete(src, p, s.options())
	if err != nil {
		return err
	}
	log.Printf("removed %s at %s", removed.Tag, p)
	return commit(ctx, s.target(s.File), out)
}

type PathsCmd struct {
	Pointer bool `help:"Print paths as JSON pointers."`

	File string `arg:"" help:"YAML file or URL to read, '-' for stdin."`
}

func (s *PathsCmd) Run(ctx *Context) error {
	src, err := readDocument(ctx, s.File, true)
	if err != nil {
		return err
	}
	docs, err := ydoc.Parse(src)
	if err != nil {
		return err
	}
	for i, d := range docs {
		for _, p := range yedit.Paths(d, i) {
			l := p.String()
			if s.Pointer {
				l = p.Pointer()
				if p.Doc != 0 {
					l = fmt.Sprintf("%d:%s", p.Doc, l)
				}
			}
			if _, err := fmt.Fprintln(ctx.Stdout, l); err != nil {
				return err
			}
		}
	}
	return nil
}

type CatCmd struct {
	FormatFlags

	File string `arg:"" help:"YAML file or URL to read, '-' for stdin."`
}

func (s *CatCmd) Run(ctx *Context) error {
	src, err := readDocument(ctx, s.File, true)
	if err != nil {
		return err
	}
	docs, err := ydoc.Parse(src)
	if err != nil {
		return err
	}
	return ydoc.Encode(ctx.Stdout, docs, ydoc.Options{Indent: s.Indent, NoDocumentStart: s.NoDocumentStart})
}

type RestructureCmd struct {
	FormatFlags
	InPlace                 bool `short:"i" help:"Overwrite the file instead of writing to stdout."`
	DisableRemainingKeySort bool `short:"s" help:"Keep keys without a preferred position in their current order instead of sorting them."`

	File string `arg:"" help:"YAML file to restructure, '-' for stdin."`
}

func (s *RestructureCmd) Run(ctx *Context) error {
	src, err := readDocument(ctx, s.File, !s.InPlace)
	if err != nil {
		return err
	}
	out, err := ydoc.Restructure(src, !s.DisableRemainingKeySort, ydoc.Options{Indent: s.Indent, NoDocumentStart: s.NoDocumentStart})
	if err != nil {
		return err
	}
	target := "-"
	if s.InPlace {
		target = s.File
	}
	return commit(ctx, target, out)
}

type coloredError struct{ err error }

func (e coloredError) Error() string { return color.RedString("%v", e.err) }
func (e coloredError) Unwrap() error { return e.err }

func colored(err error) error {
	if err == nil {
		return nil
	}
	return coloredError{err}
}

func main() {
	ctx := kong.Parse(&cli,
		kong.UsageOnError(),
		kong.Vars{
			"version": "0.1.0",
		},
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		kong.Configuration(tomlConfig, "~/.config/yset/config.toml", ".yset.toml"),
	)
	if !cli.Verbose {
		log.SetOutput(io.Discard)
	}
	err := ctx.Run(&Context{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr})
	ctx.FatalIfErrorf(colored(err))
}
