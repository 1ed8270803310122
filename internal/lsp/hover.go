// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package lsp

import (
	"github.com/hashicorp/hcl/v2"
)

const MarkupKindMarkdown = "markdown"

// NewHoverResult wraps rendered markdown and the hovered span.
func NewHoverResult(src []byte, markdown string, span hcl.Range) HoverResult {
	r := convertRange(src, span)
	return HoverResult{
		Contents: MarkupContent{Kind: MarkupKindMarkdown, Value: markdown},
		Range:    &r,
	}
}
