// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package configdoc

import (
	"strings"

	"github.com/mitchellh/go-wordwrap"

	"grimm.is/kcldoc/internal/docstring"
	"grimm.is/kcldoc/internal/resolver"
	"grimm.is/kcldoc/internal/schema"
)

// DescriptionWidth is the wrap width of suggested descriptions, excluding indentation.
const DescriptionWidth = 72

// SuggestAttributesSection renders the Attributes section that matches the
// declarations of s. Existing descriptions are carried over; entries for
// undeclared names are left out. The result has no indentation and ends with
// a newline.
func SuggestAttributesSection(s *schema.Schema) string {
	res := resolver.Resolve(s)
	var sb strings.Builder
	sb.WriteString(docstring.SectionAttributes + "\n")
	sb.WriteString(strings.Repeat("-", len(docstring.SectionAttributes)) + "\n")
	for _, v := range res.Views {
		sb.WriteString(entryHeader(v) + "\n")
		desc := cleanDescription(v.Description())
		if desc == "" {
			continue
		}
		for _, line := range strings.Split(wordwrap.WrapString(desc, DescriptionWidth), "\n") {
			sb.WriteString("    " + line + "\n")
		}
	}
	return sb.String()
}

func entryHeader(v resolver.View) string {
	d := v.Decl
	parts := []string{d.Type.String()}
	if d.Default != nil {
		parts = append(parts, "default is "+d.Default.Text)
	}
	if d.Required {
		parts = append(parts, "required")
	} else {
		parts = append(parts, "optional")
	}
	return d.Name + " : " + strings.Join(parts, ", ")
}
