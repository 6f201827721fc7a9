// Copyright 2020 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

// Package atomicfile replaces file contents so that readers see either the old or the new
// content, never a partial write.
package atomicfile

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/text/transform"
)

// Writer returns a io.WriteCloser that writes data to a temporary file
// which gets renamed atomically as filename upon Commit.
// An existing file keeps its mode, otherwise perm is used.
func Writer(filename string, perm os.FileMode) (*AtomicWriter, error) {
	out, err := os.CreateTemp(filepath.Dir(filename), ".*~")
	if err != nil {
		return nil, err
	}
	if st, err := os.Stat(filename); err != nil {
		if !os.IsNotExist(err) {
			out.Close()
			os.Remove(out.Name())
			return nil, err
		}
	} else {
		perm = st.Mode()
	}
	if err := os.Chmod(out.Name(), perm); err != nil {
		out.Close()
		os.Remove(out.Name())
		return nil, err
	}

	return &AtomicWriter{File: out, filename: filename}, nil
}

// An AtomicWriter is a temporary file standing in for filename until Commit.
type AtomicWriter struct {
	*os.File
	filename  string
	committed bool
}

// Close discards the temporary file unless it has been committed.
func (a *AtomicWriter) Close() error {
	if a.committed {
		return nil
	}
	defer os.Remove(a.Name())
	return a.File.Close()
}

// Commit replaces the target file with what has been written so far.
func (a *AtomicWriter) Commit() error {
	if err := a.File.Close(); err != nil {
		os.Remove(a.Name())
		return err
	}
	if err := os.Rename(a.Name(), a.filename); err != nil {
		os.Remove(a.Name())
		return err
	}
	a.committed = true
	return nil
}

// WriteFrom atomically replaces filename with the content of r.
func WriteFrom(filename string, r io.Reader, perm os.FileMode) error {
	w, err := Writer(filename, perm)
	if err != nil {
		return err
	}
	defer w.Close()

	if _, err := io.Copy(w, r); err != nil {
		return err
	}
	return w.Commit()
}

// WriteFile is a drop-in replacement for os.WriteFile that writes the file atomically.
func WriteFile(filename string, data []byte, perm os.FileMode) error {
	return WriteFrom(filename, bytes.NewReader(data), perm)
}

// Transform reads the content of an existing file, passes it through a transformer and writes it back atomically.
func Transform(t transform.Transformer, filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	return WriteFrom(filename, transform.NewReader(f, t), 0)
}
