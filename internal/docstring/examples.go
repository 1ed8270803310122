// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package docstring

import (
	"strings"
)

const fence = "```"

// parseExamples turns an examples section body into code blocks. Fenced blocks
// become one example each; without fences the whole body is one example.
func parseExamples(filename string, body []Line) []Example {
	if !hasFence(body) {
		block := trimBlank(body)
		if len(block) == 0 {
			return nil
		}
		return []Example{newExample(filename, block)}
	}

	var out []Example
	open := -1
	for i, l := range body {
		if !strings.HasPrefix(strings.TrimSpace(l.Text), fence) {
			continue
		}
		if open < 0 {
			open = i
			continue
		}
		if block := trimBlank(body[open+1 : i]); len(block) > 0 {
			out = append(out, newExample(filename, block))
		}
		open = -1
	}
	if open >= 0 {
		// Unclosed fence: keep what follows it.
		if block := trimBlank(body[open+1:]); len(block) > 0 {
			out = append(out, newExample(filename, block))
		}
	}
	return out
}

func hasFence(lines []Line) bool {
	for _, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l.Text), fence) {
			return true
		}
	}
	return false
}

func newExample(filename string, block []Line) Example {
	return Example{
		Text:  dedent(block),
		Range: lineRange(filename, block[0], block[len(block)-1]),
	}
}
