// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package loader

import (
	"fmt"
	"strings"
)

// Source locator schemes understood by the catalog loader.
const (
	SchemeFile  = "file"
	SchemeHTTP  = "http"
	SchemeHTTPS = "https"
)

// SourceLocator returns the loader's -s argument for a local artifact:
// "file:" followed by path, unchanged.
func SourceLocator(path string) string {
	return SchemeFile + ":" + path
}

// Locator is a parsed source locator.
type Locator struct {
	Scheme string
	// Path is the file path for file locators, or host and path (without
	// the leading "//") for http and https.
	Path string
}

// String reassembles the locator.
func (l Locator) String() string {
	switch l.Scheme {
	case SchemeHTTP, SchemeHTTPS:
		return l.Scheme + "://" + l.Path
	}
	return l.Scheme + ":" + l.Path
}

// IsFile reports whether the locator names a local file.
func (l Locator) IsFile() bool { return l.Scheme == SchemeFile }

// ParseLocator splits s at the first colon into scheme and path, applying
// the same rules as the catalog loader: the scheme must be file, http or
// https, and http(s) must be followed by "//".
func ParseLocator(s string) (Locator, error) {
	idx := strings.Index(s, ":")
	if idx <= 0 {
		return Locator{}, fmt.Errorf("source %q has no scheme (want file:, http:// or https://)", s)
	}
	l := Locator{Scheme: s[:idx], Path: s[idx+1:]}

	switch l.Scheme {
	case SchemeFile:
		if l.Path == "" {
			return Locator{}, fmt.Errorf("source %q has an empty file path", s)
		}
	case SchemeHTTP, SchemeHTTPS:
		if !strings.HasPrefix(l.Path, "//") {
			return Locator{}, fmt.Errorf("source URL %q not followed by \"//\"", s)
		}
		l.Path = l.Path[2:]
	default:
		return Locator{}, fmt.Errorf("source scheme %q not one of file, http, https", l.Scheme)
	}
	return l, nil
}
