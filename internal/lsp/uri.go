// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package lsp

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// FileURI builds a file:// URI for path. Relative paths are made absolute.
// Windows drive letters are lower-cased, which is what editors send back.
func FileURI(path string) string {
	if path == "" {
		return ""
	}
	if !filepath.IsAbs(path) && !hasDrive(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}
	p := filepath.ToSlash(path)
	if hasDrive(p) {
		p = "/" + strings.ToLower(p[:1]) + p[1:]
	}
	u := url.URL{Scheme: "file", Path: p}
	return u.String()
}

// PathFromURI returns the file path a file:// URI refers to.
func PathFromURI(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", err
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("unsupported URI scheme %q", u.Scheme)
	}
	p := u.Path
	if len(p) >= 3 && p[0] == '/' && hasDrive(p[1:]) {
		p = p[1:]
	}
	return filepath.FromSlash(p), nil
}

func hasDrive(p string) bool {
	if len(p) < 2 || p[1] != ':' {
		return false
	}
	c := p[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
