// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package config

import (
	"fmt"
	"sort"
	"strings"

	"grimm.is/kcldoc/internal/lint"
	"grimm.is/kcldoc/internal/logging"
	"grimm.is/kcldoc/internal/resolver"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validate validates the entire configuration.
func (c *Config) Validate() ValidationErrors {
	var errs ValidationErrors

	if c.LogLevel != "" {
		if _, err := logging.ParseLevel(c.LogLevel); err != nil {
			errs = append(errs, ValidationError{Field: "log_level", Message: err.Error()})
		}
	}
	errs = append(errs, c.validateLint()...)
	errs = append(errs, c.validateHover()...)
	return errs
}

func (c *Config) validateLint() ValidationErrors {
	if c.Lint == nil {
		return nil
	}
	var errs ValidationErrors
	kinds := make([]string, 0, len(c.Lint.Severity))
	for k := range c.Lint.Severity {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		field := fmt.Sprintf("lint.severity.%s", k)
		if _, ok := resolver.ParseKind(k); !ok {
			errs = append(errs, ValidationError{Field: field, Message: "unknown mismatch kind"})
			continue
		}
		if _, err := lint.ParseSeverity(c.Lint.Severity[k]); err != nil {
			errs = append(errs, ValidationError{Field: field, Message: err.Error()})
		}
	}
	return errs
}

func (c *Config) validateHover() ValidationErrors {
	if c.Hover == nil || c.Hover.MaxExampleLines >= 0 {
		return nil
	}
	return ValidationErrors{{
		Field:   "hover.max_example_lines",
		Message: fmt.Sprintf("must not be negative, got %d", c.Hover.MaxExampleLines),
	}}
}
