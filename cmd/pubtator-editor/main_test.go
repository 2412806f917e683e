// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pubtator-editor/internal/index"
	"github.com/pdiddy/pubtator-editor/internal/pubtator"
	"github.com/pdiddy/pubtator-editor/pkg/types"
)

const corpus = "doc1|t|Hello world\n" +
	"doc1|a|p53 causes cancer. P53 is a gene.\n" +
	"doc1\t0\t5\tHello\tGreeting\n" +
	"doc1\t12\t15\tp53\tGene\t7157\n" +
	"\n" +
	"doc2|t|Aspirin and cancer\n" +
	"doc2|a|\n" +
	"doc2\t0\t7\tAspirin\tChemical\n" +
	"doc2\t12\t18\tcancer\tDisease\n" +
	"\n"

// --- test helpers ---

func writeCorpus(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append(args, "--log-level", "error"))
	err := rootCmd.Execute()
	return out.String(), err
}

func readDocs(t *testing.T, path string) []types.Document {
	t.Helper()
	res, err := pubtator.ReadFile(path)
	require.NoError(t, err)
	require.Empty(t, res.Errors)
	return res.Documents
}

// --- tests ---

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "pubtator-editor dev\n", out)
}

func TestParseCommand(t *testing.T) {
	path := writeCorpus(t, corpus+"doc3\tbad\n")

	out, err := execute(t, "parse", path, "--strict=false", "--json=false")
	require.NoError(t, err)
	assert.Contains(t, out, "documents:    2")
	assert.Contains(t, out, "annotations:  4")
	assert.Contains(t, out, "1 skipped line(s)")

	out, err = execute(t, "parse", path, "--strict=false", "--json")
	require.NoError(t, err)
	var report parseReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, []string{"Chemical", "Disease", "Gene", "Greeting"}, report.EntityTypes)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, 11, report.Errors[0].Line)

	_, err = execute(t, "parse", path, "--strict", "--json=false")
	assert.Error(t, err)
}

func TestSegmentCommand(t *testing.T) {
	path := writeCorpus(t, corpus)

	out, err := execute(t, "segment", path, "--doc", "doc1", "--pattern", "gene", "--highlights=false", "--json")
	require.NoError(t, err)

	var segs []types.Segment
	require.NoError(t, json.Unmarshal([]byte(out), &segs))

	var got []string
	for _, s := range segs {
		got = append(got, string(s.Kind)+":"+s.Text)
	}
	assert.Equal(t, []string{
		"annotation:Hello",
		"plain: world ",
		"annotation:p53",
		"plain: causes cancer. ",
		"potential:P53",
		"plain: is a ",
		"pattern:gene",
		"plain:.",
	}, got)

	_, err = execute(t, "segment", path, "--doc", "missing", "--pattern", "", "--json")
	assert.Error(t, err)
}

func TestExportCommand(t *testing.T) {
	path := writeCorpus(t, corpus)
	out := filepath.Join(t.TempDir(), "corpus.json")

	stdout, err := execute(t, "export", path, "--format", "json", "--out", out, "--strict=false")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote "+out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var docs []types.Document
	require.NoError(t, json.Unmarshal(data, &docs))
	require.Len(t, docs, 2)
	assert.Equal(t, "7157", docs[0].Annotations[1].Normalized())

	stdout, err = execute(t, "export", path, "--format", "pubtator", "--out", "-", "--strict=false")
	require.NoError(t, err)
	assert.Equal(t, corpus, stdout)

	_, err = execute(t, "export", path, "--format", "csv", "--out", "-")
	assert.Error(t, err)
}

func TestAnnotateCommands(t *testing.T) {
	path := writeCorpus(t, corpus)

	out, err := execute(t, "annotate", "add", path,
		"--doc", "doc1", "--start", "31", "--end", "34", "--type", "Gene", "--text", "", "--norm", "7157", "--out", "")
	require.NoError(t, err)
	assert.Contains(t, out, `Added Gene [31,34) "P53"`)

	docs := readDocs(t, path)
	require.Len(t, docs[0].Annotations, 3)
	assert.Equal(t, "P53", docs[0].Annotations[2].Text)

	_, err = execute(t, "annotate", "delete", path,
		"--doc", "doc1", "--start", "0", "--end", "5", "--text", "", "--out", "")
	require.NoError(t, err)
	docs = readDocs(t, path)
	require.Len(t, docs[0].Annotations, 2)
	assert.Equal(t, "p53", docs[0].Annotations[0].Text)

	_, err = execute(t, "annotate", "delete", path,
		"--doc", "doc1", "--start", "0", "--end", "5", "--text", "Hello", "--out", "")
	assert.Error(t, err, "already deleted")

	out, err = execute(t, "annotate", "set-text", path,
		"--doc", "doc2", "--title", "Aspirin in surgery", "--out", "")
	require.NoError(t, err)
	assert.Contains(t, out, `Dropped Disease [12,18) "cancer"`)

	docs = readDocs(t, path)
	require.Len(t, docs[1].Annotations, 1)
	assert.Equal(t, "Aspirin", docs[1].Annotations[0].Text)
	assert.Equal(t, 0, docs[1].Annotations[0].Start)
}

func TestAnnotateKeepsSkippedLines(t *testing.T) {
	const damaged = "doc1|t|Hello world\n" +
		"doc1|a|p53 causes cancer. P53 is a gene.\n" +
		"doc1\tX\t5\tHello\tGreeting\n" +
		"doc1\t12\t15\tp53\tGene\t7157\n" +
		"\n"
	path := writeCorpus(t, damaged)
	add := []string{"annotate", "add", path,
		"--doc", "doc1", "--start", "16", "--end", "22", "--type", "Disease", "--text", "", "--norm", ""}

	_, err := execute(t, append(add, "--out", "", "--force=false")...)
	require.ErrorIs(t, err, errSkippedLines)
	assert.Contains(t, err.Error(), "line 3")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, damaged, string(data), "input is left untouched")

	other := filepath.Join(t.TempDir(), "edited.txt")
	_, err = execute(t, append(add, "--out", other, "--force=false")...)
	require.NoError(t, err)
	assert.Len(t, readDocs(t, other)[0].Annotations, 2)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, damaged, string(data))

	_, err = execute(t, append(add, "--out", "", "--force")...)
	require.NoError(t, err)
	docs := readDocs(t, path)
	require.Len(t, docs[0].Annotations, 2)
	assert.Equal(t, "causes", docs[0].Annotations[1].Text)
}

func TestNewKeepsSkippedLines(t *testing.T) {
	path := writeCorpus(t, corpus+"doc3\tbad\n")

	_, err := execute(t, "new", path, "--title", "Another", "--abstract", "", "--force=false")
	require.ErrorIs(t, err, errSkippedLines)

	_, err = execute(t, "new", path, "--title", "Another", "--abstract", "", "--force")
	require.NoError(t, err)
	assert.Len(t, readDocs(t, path), 3)
}

func TestCheckOverwrite(t *testing.T) {
	clean := &pubtator.Result{}
	damaged := pubtator.Parse("doc1|t|Title\nbad line\n")
	require.Len(t, damaged.Errors, 1)

	assert.NoError(t, checkOverwrite("a.txt", "a.txt", nil, false))
	assert.NoError(t, checkOverwrite("a.txt", "a.txt", clean, false))
	assert.NoError(t, checkOverwrite("a.txt", "b.txt", damaged, false))
	assert.NoError(t, checkOverwrite("a.txt", "a.txt", damaged, true))
	assert.ErrorIs(t, checkOverwrite("a.txt", "./a.txt", damaged, false), errSkippedLines)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))

	got := truncate("Ångström Ångström Ångström", 10)
	assert.Equal(t, "Ångströ...", got)
	assert.True(t, utf8.ValidString(got))
}

func TestNewCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh.txt")

	out, err := execute(t, "new", path, "--title", "Fresh start", "--abstract", "")
	require.NoError(t, err)
	assert.Contains(t, out, "Created document ")

	docs := readDocs(t, path)
	require.Len(t, docs, 1)
	assert.Equal(t, "Fresh start", docs[0].Title)
	assert.NotEmpty(t, docs[0].ID)
}

func TestQueryCommand(t *testing.T) {
	path := writeCorpus(t, corpus)

	out, err := execute(t, "query", path, "--type", "Disease", "--text", "", "--norm", "", "--doc", "", "--stats=false", "--json")
	require.NoError(t, err)
	var results []index.QueryResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "doc2", results[0].ID)
	assert.Equal(t, "Aspirin and cancer", results[0].DocumentTitle)

	out, err = execute(t, "query", path, "--type", "", "--stats", "--json=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Greeting")

	_, err = execute(t, "query", path, "--type", "", "--stats=false", "--json=false")
	assert.Error(t, err, "an empty query is rejected")
}

func TestTypesCommand(t *testing.T) {
	path := writeCorpus(t, corpus)

	out, err := execute(t, "types", path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Contains(t, out, "Greeting")
	assert.Contains(t, out, "Species", "seed types are listed")
	assert.True(t, strings.HasPrefix(lines[0], "CellLine"))
}

func TestDecodeConfig(t *testing.T) {
	v := viper.New()
	setConfigDefaults(v)
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
log:
  level: debug
registry:
  seed_types: [Protein, RNA]
segment:
  potential: false
store:
  resort_on_edit: true
`)))

	c, err := decodeConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, "text", c.Log.Format)
	assert.Equal(t, []string{"Protein", "RNA"}, c.Registry.SeedTypes)
	assert.Equal(t, 50, c.Segment.MaxPotentialLength)
	assert.Equal(t, 20, c.Query.MaxResults)

	opts := sessionOptions(c)
	assert.True(t, opts.Segment.DisablePotential)
	assert.True(t, opts.ResortOnEdit)
	assert.Equal(t, []string{"Protein", "RNA"}, newRegistry(c).Sorted())
}

func TestDecodeConfigRejectsNegativeLength(t *testing.T) {
	v := viper.New()
	setConfigDefaults(v)
	v.Set("segment.max_potential_length", -1)
	_, err := decodeConfig(v)
	assert.Error(t, err)
}

func TestDefaultExportPath(t *testing.T) {
	assert.Equal(t, "data/corpus.json", defaultExportPath("data/corpus.txt", pubtator.FormatJSON))
	assert.Equal(t, "data/corpus.yaml", defaultExportPath("data/corpus.txt", pubtator.FormatYAML))
	assert.Equal(t, "corpus.export.txt", defaultExportPath("corpus.txt", pubtator.FormatPubTator))
}
