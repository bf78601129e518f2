// Copyright 2026 The vlsplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package diff

import (
	"strings"
	"testing"
)

func TestDiff(t *testing.T) {
	if d := Diff("a\nb\n", "a\nb\n"); d != "" {
		t.Errorf("equal inputs: got %q", d)
	}
	d := Diff("a\nb\n", "a\nc\n")
	if d == "" {
		t.Fatal("different inputs: empty diff")
	}
	if !strings.Contains(d, "b") || !strings.Contains(d, "c") {
		t.Errorf("diff does not mention changed lines:\n%s", d)
	}
}
