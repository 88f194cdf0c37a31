package cmd

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/f3rmion/manju/internal/config"
	"github.com/f3rmion/manju/internal/manchu"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag to its default so state from one
// Execute does not leak into the next.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append(args, "--config", t.TempDir()))

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestConvertArgs(t *testing.T) {
	out, _, err := execute(t, "", "convert", "cooha", "be", "acaha")
	require.NoError(t, err)

	want, err := manchu.ToManchu("cooha be acaha")
	require.NoError(t, err)
	assert.Equal(t, want+"\n", out)
}

func TestConvertStdinKeepsLines(t *testing.T) {
	out, _, err := execute(t, "manju gisun\n\nbithe\n\n", "convert")
	require.NoError(t, err)

	want, err := manchu.ToManchu("manju gisun\n\nbithe")
	require.NoError(t, err)
	assert.Equal(t, want+"\n", out)
	assert.Equal(t, 3, strings.Count(out, "\n"))
}

func TestConvertBlankInputPrintsNothing(t *testing.T) {
	out, _, err := execute(t, "  \n\n", "convert")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestConvertFailureListsWords(t *testing.T) {
	out, stderr, err := execute(t, "", "convert", "cooha", "x1", "123", "x1")
	require.Error(t, err)
	assert.ErrorIs(t, err, manchu.ErrUnmappable)
	assert.Empty(t, out)
	assert.Contains(t, stderr, "2 unmappable word(s)")
	assert.Contains(t, stderr, "x1")
	assert.Contains(t, stderr, "123")
}

func TestConvertIgnoreErrors(t *testing.T) {
	out, _, err := execute(t, "", "convert", "-i", "be", "123")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, " 123\n"))
}

func TestConvertFromFileToOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	outPath := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(in, []byte("be"), 0o644))

	_, _, err := execute(t, "", "convert", "--file", in, "--output", outPath)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, string([]rune{0x182A, 0x185D})+"\n", string(data))
}

func TestConvertFailureCreatesNoOutputFile(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "out.txt")

	_, _, err := execute(t, "", "convert", "--output", outPath, "cooha", "x1")
	require.ErrorIs(t, err, manchu.ErrUnmappable)

	_, statErr := os.Stat(outPath)
	assert.ErrorIs(t, statErr, fs.ErrNotExist)
}

func TestConvertJSONWritesFailuresToOutput(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "out.json")

	_, _, err := execute(t, "", "convert", "--format", "json", "--output", outPath, "x1")
	require.ErrorIs(t, err, manchu.ErrUnmappable)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var res manchu.Result
	require.NoError(t, json.Unmarshal(data, &res))
	assert.Equal(t, []string{"x1"}, res.Failed)
}

func TestConvertJSON(t *testing.T) {
	out, _, err := execute(t, "", "convert", "--format", "json", "manju")
	require.NoError(t, err)

	var res manchu.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Lines, 1)
	require.Len(t, res.Lines[0].Words, 1)
	assert.Len(t, res.Lines[0].Words[0].Units, 5)
}

func TestConvertCodepoints(t *testing.T) {
	out, _, err := execute(t, "", "convert", "--format", "codepoints", "be")
	require.NoError(t, err)
	assert.Equal(t, "[U+182A U+185D]\n", out)
}

func TestConvertUnknownFormat(t *testing.T) {
	_, _, err := execute(t, "", "convert", "--format", "xml", "be")
	assert.EqualError(t, err, "unknown format: xml")
}

func TestSegment(t *testing.T) {
	out, _, err := execute(t, "", "segment", "wesimburengge")
	require.NoError(t, err)
	assert.Contains(t, out, "U+1829")
	assert.Contains(t, out, "ng")

	_, _, err = execute(t, "", "segment", "be", "c'a")
	assert.ErrorIs(t, err, manchu.ErrUnmappable)
}

func TestTableJSON(t *testing.T) {
	out, _, err := execute(t, "", "table", "--json")
	require.NoError(t, err)

	var rows []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	assert.Len(t, rows, manchu.DefaultTable().Len())
	assert.Equal(t, "a", rows[0]["spelling"])
	assert.Equal(t, "U+1820", rows[0]["code_point"])
}

func TestInitWritesDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	resetFlags(rootCmd)
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"init", "--config", dir})
	require.NoError(t, rootCmd.Execute())

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	resetFlags(rootCmd)
	rootCmd.SetArgs([]string{"init", "--config", dir})
	assert.Error(t, rootCmd.Execute())

	resetFlags(rootCmd)
	rootCmd.SetArgs([]string{"init", "--force", "--config", dir})
	assert.NoError(t, rootCmd.Execute())
}

func TestConfigFileEnablesTolerantMode(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.IgnoreErrors = true
	require.NoError(t, config.Save(filepath.Join(dir, config.FileName), cfg))

	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"convert", "x1", "--config", dir})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "x1\n", out.String())
}
