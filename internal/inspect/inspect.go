// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package inspect parses a fetched artifact and summarises its shape,
// so an operator can check what the loader is about to ingest.
package inspect

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// collectionKeys are the top-level keys the resource API uses for record
// lists, in preference order.
var collectionKeys = []string{"results", "resources"}

// Summary describes one artifact.
type Summary struct {
	Bytes int    `json:"bytes" yaml:"bytes"`
	Kind  string `json:"kind" yaml:"kind"`

	// Keys lists the top-level object keys, sorted. Empty for non-objects.
	Keys []string `json:"keys,omitempty" yaml:"keys,omitempty"`

	// CollectionKey is the key holding the record list, or "" when the
	// document is itself an array.
	CollectionKey string `json:"collection_key,omitempty" yaml:"collection_key,omitempty"`

	// Records is the number of records found, or -1 when no record list
	// was recognised.
	Records int `json:"records" yaml:"records"`

	// ImportSources counts records by EntityJSON.import_source.
	ImportSources map[string]int `json:"import_sources,omitempty" yaml:"import_sources,omitempty"`
}

// Summarize parses data as JSON and describes it.
func Summarize(data []byte) (Summary, error) {
	s := Summary{Bytes: len(data), Records: -1}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return s, fmt.Errorf("parsing artifact: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return s, fmt.Errorf("parsing artifact: trailing data after JSON value")
	}

	s.Kind = kindOf(doc)
	switch v := doc.(type) {
	case []any:
		s.countRecords(v)
	case map[string]any:
		for k := range v {
			s.Keys = append(s.Keys, k)
		}
		sort.Strings(s.Keys)
		for _, key := range collectionKeys {
			if list, ok := v[key].([]any); ok {
				s.CollectionKey = key
				s.countRecords(list)
				break
			}
		}
	}
	return s, nil
}

func (s *Summary) countRecords(list []any) {
	s.Records = len(list)
	for _, item := range list {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		ej, ok := rec["EntityJSON"].(map[string]any)
		if !ok {
			continue
		}
		src, ok := ej["import_source"].(string)
		if !ok || src == "" {
			continue
		}
		if s.ImportSources == nil {
			s.ImportSources = make(map[string]int)
		}
		s.ImportSources[src]++
	}
}

func kindOf(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	}
	return "unknown"
}

// WriteText prints a human-readable summary for the artifact at path.
func WriteText(w io.Writer, path string, s Summary) {
	fmt.Fprintf(w, "%s: %s, %d bytes\n", path, s.Kind, s.Bytes)
	if len(s.Keys) > 0 {
		fmt.Fprintf(w, "  keys: %v\n", s.Keys)
	}
	switch {
	case s.Records < 0:
		fmt.Fprintln(w, "  records: none recognised")
	case s.CollectionKey != "":
		fmt.Fprintf(w, "  records: %d (under %q)\n", s.Records, s.CollectionKey)
	default:
		fmt.Fprintf(w, "  records: %d\n", s.Records)
	}
	if len(s.ImportSources) > 0 {
		names := make([]string, 0, len(s.ImportSources))
		for n := range s.ImportSources {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			fmt.Fprintf(w, "  import_source %s: %d\n", n, s.ImportSources[n])
		}
	}
}
