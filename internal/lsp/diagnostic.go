// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package lsp

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
)

type DiagnosticSeverity int

const (
	SeverityError       DiagnosticSeverity = 1
	SeverityWarning     DiagnosticSeverity = 2
	SeverityInformation DiagnosticSeverity = 3
	SeverityHint        DiagnosticSeverity = 4
)

type DiagnosticRelatedInformation struct {
	Location Location `json:"location"`
	Message  string   `json:"message"`
}

// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#diagnostic
type Diagnostic struct {
	Range              Range                          `json:"range"`
	Severity           DiagnosticSeverity             `json:"severity"`
	Code               string                         `json:"code,omitempty"`
	Source             string                         `json:"source,omitempty"`
	Message            string                         `json:"message"`
	RelatedInformation []DiagnosticRelatedInformation `json:"relatedInformation,omitempty"`
	Data               map[string]any                 `json:"data,omitempty"`
}

// Source is the diagnostic source reported to editors.
const Source = "kcldoc"

// Replacer is implemented by diagnostic extras that carry a suggested fix text.
type Replacer interface {
	SuggestedReplacement() string
}

// SeverityOf maps an hcl severity. Anything that is neither an error nor a warning is a hint.
func SeverityOf(s hcl.DiagnosticSeverity) DiagnosticSeverity {
	switch s {
	case hcl.DiagError:
		return SeverityError
	case hcl.DiagWarning:
		return SeverityWarning
	default:
		return SeverityHint
	}
}

// FromDiagnostic converts one diagnostic. src may be nil, in which case
// columns are counted in runes rather than UTF-16 units.
func FromDiagnostic(src []byte, d *hcl.Diagnostic) Diagnostic {
	out := Diagnostic{
		Severity: SeverityOf(d.Severity),
		Source:   Source,
		Message:  message(d),
	}
	if d.Subject != nil {
		out.Range = convertRange(src, *d.Subject)
	}
	if d.Extra != nil {
		if s, ok := d.Extra.(fmt.Stringer); ok {
			out.Code = s.String()
		}
		if r, ok := d.Extra.(Replacer); ok && r.SuggestedReplacement() != "" {
			out.Data = map[string]any{"suggested_replacement": []string{r.SuggestedReplacement()}}
		}
	}
	return out
}

// FromGroup converts diagnostics that describe one problem from several
// places. Each becomes a protocol diagnostic whose related information points
// at the others.
func FromGroup(src []byte, group hcl.Diagnostics) []Diagnostic {
	out := make([]Diagnostic, 0, len(group))
	for i, d := range group {
		conv := FromDiagnostic(src, d)
		for j, other := range group {
			if j == i || other.Subject == nil {
				continue
			}
			conv.RelatedInformation = append(conv.RelatedInformation, DiagnosticRelatedInformation{
				Location: Location{
					URI:   FileURI(other.Subject.Filename),
					Range: convertRange(src, *other.Subject),
				},
				Message: message(other),
			})
		}
		out = append(out, conv)
	}
	return out
}

// FromDiagnostics converts each diagnostic independently.
func FromDiagnostics(src []byte, diags hcl.Diagnostics) []Diagnostic {
	out := make([]Diagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, FromDiagnostic(src, d))
	}
	return out
}

func convertRange(src []byte, r hcl.Range) Range {
	if src == nil {
		return FromRange(r)
	}
	return FromRangeIn(src, r)
}

func message(d *hcl.Diagnostic) string {
	if d.Detail == "" {
		return d.Summary
	}
	return d.Summary + ": " + d.Detail
}
