// Copyright 2020 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package atomicfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

func tempFile(t *testing.T, content string, mode os.FileMode) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "doc.yaml")
	if err := os.WriteFile(name, []byte(content), mode); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(name, mode); err != nil {
		t.Fatal(err)
	}
	return name
}

func checkContent(t *testing.T, name, want string) {
	t.Helper()
	b, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(b); got != want {
		t.Errorf("got: %q, want: %q", got, want)
	}
}

func checkNoLeftovers(t *testing.T, dir string) {
	t.Helper()
	m, err := filepath.Glob(filepath.Join(dir, ".*~"))
	if err != nil {
		t.Fatal(err)
	}
	if len(m) != 0 {
		t.Errorf("temporary files left behind: %q", m)
	}
}

func TestWrite(t *testing.T) {
	const testMode = os.FileMode(0640)

	name := tempFile(t, "a: 1\n", testMode)
	if err := WriteFile(name, []byte("a: 2\n"), 0); err != nil {
		t.Fatal(err)
	}
	checkContent(t, name, "a: 2\n")
	checkNoLeftovers(t, filepath.Dir(name))

	st, err := os.Stat(name)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := st.Mode(), testMode; got != want {
		t.Errorf("got: %v, want: %v", got, want)
	}
}

func TestWriteNew(t *testing.T) {
	const testMode = os.FileMode(0600)

	name := filepath.Join(t.TempDir(), "new.yaml")
	if err := WriteFile(name, []byte("a: 1\n"), testMode); err != nil {
		t.Fatal(err)
	}
	checkContent(t, name, "a: 1\n")

	st, err := os.Stat(name)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := st.Mode(), testMode; got != want {
		t.Errorf("got: %v, want: %v", got, want)
	}
}

func TestAbandon(t *testing.T) {
	name := tempFile(t, "a: 1\n", 0644)

	w, err := Writer(name, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("garbage")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	checkContent(t, name, "a: 1\n")
	checkNoLeftovers(t, filepath.Dir(name))
}

func TestTransform(t *testing.T) {
	name := tempFile(t, "abcd", 0644)

	if err := Transform(runes.Map(unicode.ToUpper), name); err != nil {
		t.Fatal(err)
	}
	checkContent(t, name, "ABCD")
}

var errBoom = errors.New("boom")

type failing struct{ transform.NopResetter }

func (failing) Transform(dst, src []byte, atEOF bool) (int, int, error) {
	return 0, 0, errBoom
}

func TestTransformError(t *testing.T) {
	name := tempFile(t, "abcd", 0644)

	if err := Transform(failing{}, name); !errors.Is(err, errBoom) {
		t.Fatalf("got: %v, want: %v", err, errBoom)
	}
	checkContent(t, name, "abcd")
	checkNoLeftovers(t, filepath.Dir(name))
}
