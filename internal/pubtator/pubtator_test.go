// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubtator

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pubtator-editor/pkg/types"
)

const helloBlock = "doc1|t|Hello world\ndoc1|a|p53 causes cancer\ndoc1\t0\t5\tHello\tGreeting\n\n"

func sampleDocs() []types.Document {
	return []types.Document{
		{
			ID:       "12345",
			Title:    "BRCA1 mutations in breast cancer",
			Abstract: "We studied BRCA1 and TP53 in 200 patients.",
			Annotations: []types.Annotation{
				{ID: "12345", Start: 0, End: 5, Text: "BRCA1", Type: "Gene", NormalizedID: types.StringPtr("672")},
				{ID: "12345", Start: 19, End: 32, Text: "breast cancer", Type: "Disease", NormalizedID: types.StringPtr("MESH:D001943")},
				{ID: "12345", Start: 54, End: 58, Text: "TP53", Type: "Gene"},
			},
		},
		{
			ID:    "67890",
			Title: "Untitled",
		},
	}
}

func TestParseScenario(t *testing.T) {
	res := Parse(helloBlock)

	require.Empty(t, res.Errors)
	require.Len(t, res.Documents, 1)

	want := types.Document{
		ID:       "doc1",
		Title:    "Hello world",
		Abstract: "p53 causes cancer",
		Annotations: []types.Annotation{
			{ID: "doc1", Start: 0, End: 5, Text: "Hello", Type: "Greeting"},
		},
	}
	assert.Equal(t, want, res.Documents[0])
	assert.Nil(t, res.Documents[0].Annotations[0].NormalizedID)

	assert.Equal(t, helloBlock, Serialize(res.Documents))
}

func TestRoundTrip(t *testing.T) {
	docs := sampleDocs()
	res := Parse(Serialize(docs))

	require.NoError(t, res.Err())
	assert.Equal(t, docs, res.Documents)
}

func TestParseEntityTypeAccumulation(t *testing.T) {
	content := "1|t|Title text here\n1|a|\n" +
		"1\t0\t5\tTitle\tGene\n" +
		"1\t6\t10\ttext\tDisease\n" +
		"1\t11\t15\there\tGene\n"

	res := Parse(content)

	require.Empty(t, res.Errors)
	assert.Len(t, res.EntityTypes, 2)
	assert.Equal(t, []string{"Disease", "Gene"}, res.SortedTypes())
	assert.Equal(t, 3, res.AnnotationCount())
}

func TestParseMultipleDocuments(t *testing.T) {
	content := "a|t|First\na|a|One\n\n\n  \nb|t|Second\nb|a|Two\nb\t0\t6\tSecond\tThing\tX:1"

	res := Parse(content)

	require.Empty(t, res.Errors)
	require.Len(t, res.Documents, 2)
	assert.Equal(t, "a", res.Documents[0].ID)
	assert.Equal(t, "One", res.Documents[0].Abstract)
	assert.Empty(t, res.Documents[0].Annotations)
	assert.Equal(t, "b", res.Documents[1].ID)
	require.Len(t, res.Documents[1].Annotations, 1)
	assert.Equal(t, "X:1", res.Documents[1].Annotations[0].Normalized())
}

func TestParseTitleWithPipe(t *testing.T) {
	res := Parse("7|t|A|B comparison\n7|a|x|y\n")

	require.Len(t, res.Documents, 1)
	assert.Equal(t, "A|B comparison", res.Documents[0].Title)
	assert.Equal(t, "x|y", res.Documents[0].Abstract)
	assert.Equal(t, "7|t|A|B comparison\n7|a|x|y\n\n", Serialize(res.Documents))
}

func TestParseCRLF(t *testing.T) {
	res := Parse("1|t|Title\r\n1|a|Body\r\n1\t0\t5\tTitle\tGene\r\n\r\n")

	require.Empty(t, res.Errors)
	require.Len(t, res.Documents, 1)
	assert.Equal(t, "Body", res.Documents[0].Abstract)
	assert.Equal(t, "Gene", res.Documents[0].Annotations[0].Type)
}

func TestParseLineErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantErr  error
		wantLine int
		wantDocs int
		wantAnns int
	}{
		{
			name:     "abstract before title",
			content:  "1|a|orphan\n1|t|Title\n",
			wantErr:  ErrNoCurrentDocument,
			wantLine: 1,
			wantDocs: 1,
		},
		{
			name:     "annotation before title",
			content:  "1\t0\t1\tT\tGene\n1|t|Title\n",
			wantErr:  ErrNoCurrentDocument,
			wantLine: 1,
			wantDocs: 1,
		},
		{
			name:     "too few fields",
			content:  "1|t|Title\n1|a|\n1\t0\t5\tTitle\n1\t0\t5\tTitle\tGene\n",
			wantErr:  ErrMalformedRecord,
			wantLine: 3,
			wantDocs: 1,
			wantAnns: 1,
		},
		{
			name:     "non-numeric start",
			content:  "1|t|Title\n\n1\tzero\t5\tTitle\tGene\n",
			wantErr:  ErrInvalidOffset,
			wantLine: 3,
			wantDocs: 1,
		},
		{
			name:     "non-numeric end",
			content:  "1|t|Title\n1\t0\tfive\tTitle\tGene\n2|t|Next\n",
			wantErr:  ErrInvalidOffset,
			wantLine: 2,
			wantDocs: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Parse(tt.content)

			require.Len(t, res.Errors, 1)
			assert.ErrorIs(t, res.Errors[0], tt.wantErr)
			assert.Equal(t, tt.wantLine, res.Errors[0].Line)
			assert.Len(t, res.Documents, tt.wantDocs)
			assert.Equal(t, tt.wantAnns, res.AnnotationCount())

			var lineErr *LineError
			require.True(t, errors.As(res.Err(), &lineErr))
			assert.Equal(t, tt.wantLine, lineErr.Line)
		})
	}
}

func TestParseEmpty(t *testing.T) {
	res := Parse("")
	assert.Empty(t, res.Documents)
	assert.Empty(t, res.EntityTypes)
	assert.NoError(t, res.Err())
	assert.Equal(t, "", Serialize(nil))
}

func TestSerializeSkipsEmptyNormalizedID(t *testing.T) {
	docs := []types.Document{{
		ID:    "9",
		Title: "abc",
		Annotations: []types.Annotation{
			{Start: 0, End: 3, Text: "abc", Type: "Gene", NormalizedID: types.StringPtr("")},
		},
	}}

	got := Serialize(docs)
	if got != "9|t|abc\n9|a|\n9\t0\t3\tabc\tGene\n\n" {
		t.Errorf("Serialize = %q", got)
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"", "pubtator", "json", "yaml"} {
		_, err := ParseFormat(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, sampleDocs(), FormatJSON))

	var got []types.Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "BRCA1", got[0].Annotations[0].Text)
	assert.Equal(t, "672", got[0].Annotations[0].Normalized())
	assert.Nil(t, got[0].Annotations[2].NormalizedID)
}

func TestExportYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, sampleDocs(), FormatYAML))

	var got []types.Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "breast cancer", got[0].Annotations[1].Text)
	assert.Contains(t, buf.String(), "MESH:D001943")
}

func TestExportEmptySet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, nil))
	assert.Equal(t, "[]", strings.TrimSpace(buf.String()))
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.txt")
	require.NoError(t, os.WriteFile(path, []byte(helloBlock), 0o644))

	res, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, res.Documents, 1)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	got, err := WriteFile(path, "", sampleDocs(), FormatPubTator)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Serialize(sampleDocs()), string(data))
}

func TestWriteFileFallback(t *testing.T) {
	dir := t.TempDir()
	fallbackDir := filepath.Join(dir, "fallback")
	// The parent directory does not exist, so the primary write fails.
	path := filepath.Join(dir, "no-such-dir", "export.txt")

	got, err := WriteFile(path, fallbackDir, sampleDocs(), FormatPubTator)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(fallbackDir, "export.txt"), got)

	data, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, Serialize(sampleDocs()), string(data))
}

func TestWriteFileBothFail(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	// Both targets sit beneath a regular file, so neither can be created.
	path := filepath.Join(blocker, "a", "export.txt")
	_, err := WriteFile(path, filepath.Join(blocker, "b"), sampleDocs(), FormatPubTator)
	assert.Error(t, err)
}
