// Copyright 2020 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package ydoc

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"yset.io/pkg/yedit"
)

func TestParseValue(t *testing.T) {
	testCases := []struct {
		lit    string
		format ValueFormat
		want   string
	}{
		{"Foo", YAMLValue, "Foo\n"},
		{"42", YAMLValue, "42\n"},
		{"'42'", YAMLValue, "'42'\n"},
		{"", YAMLValue, "null\n"},
		{"[a, b]", YAMLValue, "- a\n- b\n"},
		{`{"a": {"b": [1]}}`, YAMLValue, "\"a\":\n  \"b\":\n    - 1\n"},
		{"{a: 1+1}", JsonnetValue, "a: 2\n"},
		{`"x" + "y"`, JsonnetValue, "xy\n"},
	}

	for i, tc := range testCases {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			n, err := ParseValue(tc.lit, tc.format)
			if err != nil {
				t.Fatal(err)
			}
			var buf bytes.Buffer
			if err := EncodeNode(&buf, n, 2); err != nil {
				t.Fatal(err)
			}
			if got, want := buf.String(), tc.want; got != want {
				t.Errorf("got: %q, want: %q", got, want)
			}
		})
	}
}

func TestParseValueErrors(t *testing.T) {
	testCases := []struct {
		lit    string
		format ValueFormat
	}{
		{"[a", YAMLValue},
		{"a: b: c", YAMLValue},
		{"{a: ", JsonnetValue},
		{"error 'boom'", JsonnetValue},
	}

	for i, tc := range testCases {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			if _, err := ParseValue(tc.lit, tc.format); !errors.Is(err, yedit.ErrMalformedValue) {
				t.Errorf("got: %v, want: %v", err, yedit.ErrMalformedValue)
			}
		})
	}
}

func TestParseMutations(t *testing.T) {
	src := `/b: 2
/a/name=x/v: [1, 2]
1:/c: ~
`
	muts, err := ParseMutations([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, m := range muts {
		got = append(got, m.Path.String())
	}
	if want := []string{"/b", "/a/name=x/v", "1:/c"}; fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("got: %q, want: %q", got, want)
	}

	out, err := Apply([]byte("---\na: []\n---\n{}\n"), muts, Options{})
	if err != nil {
		t.Fatal(err)
	}
	checkSame(t, out, "---\na: [{name: x, v: [1, 2]}]\nb: 2\n---\nc: null\n")
}

func TestParseMutationsErrors(t *testing.T) {
	_, err := ParseMutations([]byte("bad1: 1\n/ok: 2\nbad2: 3\n"))
	if err == nil {
		t.Fatal("error expected")
	}
	for _, want := range []string{"bad1", "bad2"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("%q not reported in: %v", want, err)
		}
	}

	if _, err := ParseMutations([]byte("[/a, /b]")); err == nil {
		t.Errorf("error expected for a non mapping")
	}

	muts, err := ParseMutations(nil)
	if err != nil || len(muts) != 0 {
		t.Errorf("got: %v, %v; want no mutations", muts, err)
	}
}
