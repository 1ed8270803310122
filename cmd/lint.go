// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package cmd

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/hashicorp/hcl/v2"

	"grimm.is/kcldoc/internal/config"
	"grimm.is/kcldoc/internal/errors"
	"grimm.is/kcldoc/internal/lint"
	"grimm.is/kcldoc/internal/logging"
	"grimm.is/kcldoc/internal/lsp"
	"grimm.is/kcldoc/internal/schema"
)

// ErrLintFailed is returned when any file has an error-level diagnostic.
var ErrLintFailed = errors.New(errors.KindValidation, "lint found errors")

type lintFileOutput struct {
	File        string           `json:"file"`
	Diagnostics []lsp.Diagnostic `json:"diagnostics"`
	Fixes       []lint.Fix       `json:"fixes,omitempty"`
	Summary     []lint.KindCount `json:"summary"`
}

// RunLint implements 'kcldoc lint'.
func RunLint(args []string, stdio IO) error {
	fs := newFlagSet("lint", stdio)
	cfgPath := fs.String("config", config.DefaultFilename, "Configuration file")
	jsonOutput := fs.Bool("json", false, "Output JSON")
	showDiff := fs.Bool("diff", false, "Print suggested Attributes sections as unified diffs")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New(errors.KindValidation, "lint requires at least one file")
	}

	cfg, err := loadConfig(*cfgPath, stdio)
	if err != nil {
		return err
	}
	lintCfg, err := cfg.LintConfig()
	if err != nil {
		return err
	}

	parser := schema.NewParser(logging.WithComponent("schema"))
	files := make(map[string]*hcl.File)
	var reports []lint.Report
	for _, path := range fs.Args() {
		src, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, errors.KindNotFound, "failed to read %s", path)
		}
		files[path] = &hcl.File{Bytes: src}
		reports = append(reports, lint.Run(parser.Parse(path, src), lintCfg))
	}

	failed := false
	for _, rep := range reports {
		failed = failed || rep.HasErrors()
	}

	if *jsonOutput {
		out := make([]lintFileOutput, 0, len(reports))
		for _, rep := range reports {
			out = append(out, lintFileOutput{
				File:        rep.Filename,
				Diagnostics: lsp.FromDiagnostics(files[rep.Filename].Bytes, rep.Diagnostics),
				Fixes:       rep.Fixes,
				Summary:     rep.Summary(),
			})
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return errors.Wrap(err, errors.KindInternal, "failed to marshal lint report to JSON")
		}
		fmt.Fprintln(stdio.Out, string(data))
	} else {
		wr := hcl.NewDiagnosticTextWriter(stdio.Out, files, 100, false)
		total := 0
		for _, rep := range reports {
			for _, d := range rep.Diagnostics {
				if err := wr.WriteDiagnostic(d); err != nil {
					return errors.Wrap(err, errors.KindInternal, "failed to write diagnostic")
				}
			}
			total += len(rep.Diagnostics)
			if *showDiff {
				for _, fix := range rep.Fixes {
					fmt.Fprintln(stdio.Out, fix.Diff)
				}
			}
		}
		switch {
		case failed:
			fmt.Fprintln(stdio.Out, StyleError.Render(fmt.Sprintf("✗ %d problems in %d files", total, len(reports))))
		case total > 0:
			fmt.Fprintln(stdio.Out, StyleWarn.Render(fmt.Sprintf("⚠ %d problems in %d files", total, len(reports))))
		default:
			fmt.Fprintln(stdio.Out, StyleOK.Render(fmt.Sprintf("✓ %d files documented consistently", len(reports))))
		}
	}

	if failed {
		return ErrLintFailed
	}
	return nil
}
