// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package testutil

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/stretchr/testify/assert"
)

func TestPosAt(t *testing.T) {
	src := []byte("schema S:\n    näme: str\n    näme2: int\n")

	assert.Equal(t, hcl.Pos{Line: 2, Column: 5, Byte: 14}, PosAt(t, src, "näme", 0))
	assert.Equal(t, hcl.Pos{Line: 3, Column: 5, Byte: 29}, PosAt(t, src, "näme", 1))
	assert.Equal(t, hcl.Pos{Line: 2, Column: 9, Byte: 19}, PosAt(t, src, ": str", 0))
}

func TestCaptureLogger(t *testing.T) {
	logger, buf := CaptureLogger()
	logger.Debug("hello", "key", "value")
	assert.Contains(t, buf.String(), `"key":"value"`)

	QuietLogger().Warn("dropped")
}
