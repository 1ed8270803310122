// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package config loads the kcldoc.hcl tool configuration.
//
//	log_level = "info"
//	log_json  = false
//
//	lint {
//	  severity = {
//	    undocumented     = "hint"
//	    orphan_doc_entry = "error"
//	  }
//	}
//
//	hover {
//	  show_warnings     = true
//	  max_example_lines = 20
//	}
package config

import (
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/hashicorp/hcl/v2/hclwrite"

	"grimm.is/kcldoc/internal/errors"
	"grimm.is/kcldoc/internal/hover"
	"grimm.is/kcldoc/internal/lint"
	"grimm.is/kcldoc/internal/logging"
)

// DefaultFilename is the configuration file looked up in the working directory.
const DefaultFilename = "kcldoc.hcl"

// Config is the root of kcldoc.hcl.
type Config struct {
	LogLevel string `hcl:"log_level,optional"`
	LogJSON  bool   `hcl:"log_json,optional"`

	Lint  *LintConfig  `hcl:"lint,block"`
	Hover *HoverConfig `hcl:"hover,block"`
}

// LintConfig maps mismatch kinds to severities.
type LintConfig struct {
	Severity map[string]string `hcl:"severity,optional"`
}

// HoverConfig controls hover rendering.
type HoverConfig struct {
	ShowWarnings    *bool `hcl:"show_warnings,optional"`
	MaxExampleLines int   `hcl:"max_example_lines,optional"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Lint == nil {
		c.Lint = &LintConfig{}
	}
	if c.Lint.Severity == nil {
		c.Lint.Severity = map[string]string{}
	}
	if c.Hover == nil {
		c.Hover = &HoverConfig{}
	}
	if c.Hover.ShowWarnings == nil {
		show := true
		c.Hover.ShowWarnings = &show
	}
}

// Load reads and decodes path. The file name must end in .hcl or .json.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.KindNotFound, "config file %s not found", path)
		}
		return nil, errors.Wrapf(err, errors.KindInternal, "failed to read config file %s", path)
	}
	return LoadBytes(path, data)
}

// LoadOrDefault loads path, falling back to DefaultConfig when it does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.GetKind(err) == errors.KindNotFound {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// LoadBytes decodes and validates configuration source.
func LoadBytes(filename string, data []byte) (*Config, error) {
	var cfg Config
	if err := hclsimple.Decode(filename, data, nil, &cfg); err != nil {
		return nil, errors.Wrap(err, errors.KindValidation, "failed to decode config")
	}
	cfg.applyDefaults()
	if errs := cfg.Validate(); errs.HasErrors() {
		return nil, errors.Wrap(errs, errors.KindValidation, "invalid config")
	}
	return &cfg, nil
}

// Encode renders c as HCL.
func Encode(c *Config) []byte {
	f := hclwrite.NewEmptyFile()
	gohcl.EncodeIntoBody(c, f.Body())
	return hclwrite.Format(f.Bytes())
}

// Logging returns the logger configuration. The level was validated on load.
func (c *Config) Logging() logging.Config {
	lc := logging.DefaultConfig()
	if lvl, err := logging.ParseLevel(c.LogLevel); err == nil {
		lc.Level = lvl
	}
	lc.JSON = c.LogJSON
	return lc
}

// LintConfig returns the lint severities.
func (c *Config) LintConfig() (lint.Config, error) {
	if c.Lint == nil {
		return lint.DefaultConfig(), nil
	}
	return lint.NewConfig(c.Lint.Severity)
}

// HoverOptions returns the hover rendering options.
func (c *Config) HoverOptions() hover.Options {
	opts := hover.DefaultOptions()
	if c.Hover == nil {
		return opts
	}
	if c.Hover.ShowWarnings != nil {
		opts.ShowWarnings = *c.Hover.ShowWarnings
	}
	opts.MaxExampleLines = c.Hover.MaxExampleLines
	return opts
}
