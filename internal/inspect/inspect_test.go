// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package inspect

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResults = `{
  "results": [
    {"ID": "urn:1", "EntityJSON": {"import_source": "Lynda.com", "resource_name": "Intro to HPC"}},
    {"ID": "urn:2", "EntityJSON": {"import_source": "Lynda.com"}},
    {"ID": "urn:3", "EntityJSON": {"import_source": "XSEDE"}},
    {"ID": "urn:4"}
  ],
  "status": "success"
}`

func TestSummarize_Results(t *testing.T) {
	s, err := Summarize([]byte(sampleResults))
	require.NoError(t, err)

	assert.Equal(t, "object", s.Kind)
	assert.Equal(t, []string{"results", "status"}, s.Keys)
	assert.Equal(t, "results", s.CollectionKey)
	assert.Equal(t, 4, s.Records)
	assert.Equal(t, map[string]int{"Lynda.com": 2, "XSEDE": 1}, s.ImportSources)
}

func TestSummarize_EmptyResources(t *testing.T) {
	s, err := Summarize([]byte(`{"resources":[]}`))
	require.NoError(t, err)

	assert.Equal(t, "resources", s.CollectionKey)
	assert.Equal(t, 0, s.Records)
	assert.Nil(t, s.ImportSources)
}

func TestSummarize_Shapes(t *testing.T) {
	tests := []struct {
		in      string
		kind    string
		records int
	}{
		{`[1,2,3]`, "array", 3},
		{`{"other":[1]}`, "object", -1},
		{`"text"`, "string", -1},
		{`12.5`, "number", -1},
		{`true`, "boolean", -1},
		{`null`, "null", -1},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			s, err := Summarize([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.kind, s.Kind)
			assert.Equal(t, tt.records, s.Records)
		})
	}
}

func TestSummarize_Invalid(t *testing.T) {
	for _, in := range []string{``, `{`, `<html></html>`, `{} {}`} {
		_, err := Summarize([]byte(in))
		assert.Error(t, err, "input %q", in)
	}
}

func TestWriteText(t *testing.T) {
	s, err := Summarize([]byte(sampleResults))
	require.NoError(t, err)

	var buf bytes.Buffer
	WriteText(&buf, "data/uiuc_training.json", s)
	out := buf.String()

	assert.Contains(t, out, "data/uiuc_training.json: object")
	assert.Contains(t, out, `records: 4 (under "results")`)
	assert.Contains(t, out, "import_source Lynda.com: 2")
}
