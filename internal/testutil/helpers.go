// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package testutil holds helpers shared by package tests.
package testutil

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/hashicorp/hcl/v2"

	"grimm.is/kcldoc/internal/docstring"
	"grimm.is/kcldoc/internal/logging"
)

// QuietLogger returns a logger that discards everything below error level.
func QuietLogger() *logging.Logger {
	return logging.New(logging.Config{Level: logging.LevelError, Output: &bytes.Buffer{}, JSON: true})
}

// CaptureLogger returns a debug-level JSON logger and the buffer it writes to.
func CaptureLogger() (*logging.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return logging.New(logging.Config{Level: logging.LevelDebug, Output: &buf, JSON: true}), &buf
}

// ReadFile reads a fixture and fails the test when it is missing.
func ReadFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading fixture %s: %v", path, err)
	}
	return data
}

// PosAt returns the position of the n-th (0-based) occurrence of needle in src.
func PosAt(t *testing.T, src []byte, needle string, n int) hcl.Pos {
	t.Helper()
	offset := 0
	for i := 0; ; i++ {
		j := strings.Index(string(src[offset:]), needle)
		if j < 0 {
			t.Fatalf("occurrence %d of %q not found", n, needle)
		}
		if i == n {
			offset += j
			break
		}
		offset += j + len(needle)
	}
	pos := hcl.InitialPos
	for _, l := range docstring.SplitLines(string(src), hcl.InitialPos) {
		if l.Start.Byte > offset {
			break
		}
		pos = l.Start
	}
	return docstring.Advance(pos, string(src[pos.Byte:offset]))
}
