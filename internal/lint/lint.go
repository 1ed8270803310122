// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package lint reports documentation drift in parsed schema documents and
// proposes a rewritten Attributes section for each schema that drifted.
package lint

import (
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/pmezard/go-difflib/difflib"

	"grimm.is/kcldoc/internal/configdoc"
	"grimm.is/kcldoc/internal/docstring"
	"grimm.is/kcldoc/internal/errors"
	"grimm.is/kcldoc/internal/resolver"
	"grimm.is/kcldoc/internal/schema"
)

// Severity is the level a mismatch kind is reported at.
type Severity int

const (
	SeverityOff Severity = iota
	SeverityHint
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityOff:
		return "off"
	case SeverityHint:
		return "hint"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return "unknown"
}

// ParseSeverity parses error, warning, hint or off.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off":
		return SeverityOff, nil
	case "hint":
		return SeverityHint, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	}
	return SeverityOff, errors.Errorf(errors.KindValidation, "unknown severity %q (want error, warning, hint or off)", s)
}

// diag maps a severity onto hcl's. Hints have no hcl counterpart and use
// DiagInvalid, which editors receive as a hint.
func (s Severity) diag() hcl.DiagnosticSeverity {
	switch s {
	case SeverityError:
		return hcl.DiagError
	case SeverityWarning:
		return hcl.DiagWarning
	}
	return hcl.DiagInvalid
}

// Config selects the severity of each mismatch kind.
type Config struct {
	Severity map[resolver.MismatchKind]Severity
}

// DefaultConfig reports every kind as a warning.
func DefaultConfig() Config {
	cfg := Config{Severity: make(map[resolver.MismatchKind]Severity)}
	for _, k := range resolver.Kinds {
		cfg.Severity[k] = SeverityWarning
	}
	return cfg
}

// NewConfig builds a Config from kind name to severity name. Kinds not named
// keep the default.
func NewConfig(levels map[string]string) (Config, error) {
	cfg := DefaultConfig()
	for name, level := range levels {
		kind, ok := resolver.ParseKind(name)
		if !ok {
			return cfg, errors.Errorf(errors.KindValidation, "unknown mismatch kind %q", name)
		}
		sev, err := ParseSeverity(level)
		if err != nil {
			return cfg, errors.Attr(err, "kind", name)
		}
		cfg.Severity[kind] = sev
	}
	return cfg, nil
}

func (c Config) severity(k resolver.MismatchKind) Severity {
	if s, ok := c.Severity[k]; ok {
		return s
	}
	return SeverityWarning
}

// Fix is a proposed rewrite of one schema's Attributes section.
type Fix struct {
	Schema string `json:"schema"`
	// Range covers the existing section. It is nil when the docstring has no
	// Attributes section, in which case only Diff is meaningful.
	Range       *hcl.Range `json:"range,omitempty"`
	Replacement string     `json:"replacement,omitempty"`
	// Diff is a unified diff from the current to the suggested section.
	Diff string `json:"diff"`
}

// Finding is the Extra value of every lint diagnostic.
type Finding struct {
	Kind   resolver.MismatchKind
	Schema string
	Fix    *Fix
}

func (f *Finding) String() string { return f.Kind.String() }

// SuggestedReplacement returns the replacement text of the schema's fix, if any.
func (f *Finding) SuggestedReplacement() string {
	if f.Fix == nil {
		return ""
	}
	return f.Fix.Replacement
}

// Report is the outcome of linting one document.
type Report struct {
	Filename string
	// Diagnostics holds the parse diagnostics followed by the lint findings
	// in schema order.
	Diagnostics hcl.Diagnostics
	Fixes       []Fix
}

// Counts returns the number of reported findings per kind.
func (r Report) Counts() map[resolver.MismatchKind]int {
	out := make(map[resolver.MismatchKind]int)
	for _, d := range r.Diagnostics {
		if f, ok := d.Extra.(*Finding); ok {
			out[f.Kind]++
		}
	}
	return out
}

// Run lints every schema of doc.
func Run(doc *schema.Document, cfg Config) Report {
	rep := Report{Filename: doc.Filename}
	rep.Diagnostics = append(rep.Diagnostics, doc.Diagnostics...)
	for _, s := range doc.Schemas {
		var findings hcl.Diagnostics
		for _, d := range resolver.Resolve(s).Diagnostics() {
			kind, _ := d.Extra.(resolver.MismatchKind)
			sev := cfg.severity(kind)
			if sev == SeverityOff {
				continue
			}
			d.Severity = sev.diag()
			d.Extra = &Finding{Kind: kind, Schema: s.Name}
			findings = append(findings, d)
		}
		if len(findings) == 0 {
			continue
		}
		if fix := suggest(doc.Filename, s); fix != nil {
			rep.Fixes = append(rep.Fixes, *fix)
			for _, d := range findings {
				d.Extra.(*Finding).Fix = fix
			}
		}
		rep.Diagnostics = append(rep.Diagnostics, findings...)
	}
	return rep
}

// suggest builds the fix for s, or nil when its section already matches.
func suggest(filename string, s *schema.Schema) *Fix {
	suggested := configdoc.SuggestAttributesSection(s)
	fix := &Fix{Schema: s.Name}

	current := ""
	if sec, ok := s.Doc.Section(docstring.SectionAttributes); ok {
		indent := leadingSpace(sec.Raw)
		current = sec.Raw + "\n"
		rng := sec.Range
		fix.Range = &rng
		fix.Replacement = strings.TrimSuffix(reindent(suggested, indent), "\n")
		suggested = reindent(suggested, indent)
	}
	if current == suggested {
		return nil
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(current),
		B:        difflib.SplitLines(suggested),
		FromFile: filename + ": " + s.Name + " (current)",
		ToFile:   filename + ": " + s.Name + " (suggested)",
		Context:  3,
	})
	if err != nil || diff == "" {
		return nil
	}
	fix.Diff = diff
	return fix
}

func leadingSpace(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}

// reindent prefixes every non-empty line with indent.
func reindent(text, indent string) string {
	if indent == "" {
		return text
	}
	lines := strings.SplitAfter(text, "\n")
	var sb strings.Builder
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			sb.WriteString(indent)
		}
		sb.WriteString(l)
	}
	return sb.String()
}

// Summary counts findings by kind name, sorted by name.
func (r Report) Summary() []KindCount {
	counts := r.Counts()
	out := make([]KindCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, KindCount{Kind: k.String(), Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

// KindCount is one row of Report.Summary.
type KindCount struct {
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}

// HasErrors reports whether any diagnostic is an error.
func (r Report) HasErrors() bool {
	return r.Diagnostics.HasErrors()
}
