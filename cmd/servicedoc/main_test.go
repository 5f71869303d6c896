package main_test

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	main "github.com/fwojciec/servicedoc/cmd/servicedoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testContext returns a background context for tests.
func testContext() context.Context {
	return context.Background()
}

// runCLI runs the program against dbPath and returns its output.
func runCLI(t *testing.T, dbPath string, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	m := main.NewMain()
	m.DBPath = dbPath

	var out, errOut bytes.Buffer
	err = m.Run(testContext(), args, &out, &errOut)
	return out.String(), errOut.String(), err
}

func TestRun_HelpFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{"--help flag", []string{"--help"}},
		{"-h flag", []string{"-h"}},
		{"help command", []string{"help"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stdout, stderr, err := runCLI(t, filepath.Join(t.TempDir(), "test.db"), tt.args...)

			require.NoError(t, err)
			assert.Contains(t, stdout, "Usage: servicedoc")
			assert.Contains(t, stdout, "Commands:")
			assert.Empty(t, stderr)
		})
	}
}

func TestRun_NoArgs(t *testing.T) {
	t.Parallel()

	stdout, _, err := runCLI(t, filepath.Join(t.TempDir(), "test.db"))

	require.Error(t, err)
	assert.Contains(t, stdout, "Usage: servicedoc")
}

func TestRun_HelpWithoutCreatingDB(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "should-not-exist.db")

	_, _, err := runCLI(t, dbPath, "--help")

	require.NoError(t, err)
	_, statErr := os.Stat(dbPath)
	assert.True(t, os.IsNotExist(statErr), "database file should not be created for --help")
}

func TestRun_InvalidDBPath(t *testing.T) {
	t.Parallel()

	_, stderr, err := runCLI(t, filepath.Join(t.TempDir(), "missing", "dir", "test.db"), "roster", "show")

	require.Error(t, err)
	assert.Contains(t, stderr, "SERVICEDOC_DB")
}

const e2eExport = `<html><body><table>
<tr class="item">
  <td class="item--details"><span class="title">PRELUDE</span></td>
  <td class="item--description">Jane Smith</td>
</tr>
</table></body></html>`

const e2eTemplate = `{"name":"Base Service","items":[{"item_name":"Prelude","item_aliases":[],"default_person":"","stand_indicator":false}]}`

func TestRun_EndToEnd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	templatePath := filepath.Join(dir, "template.json")
	exportPath := filepath.Join(dir, "export.html")
	require.NoError(t, os.WriteFile(templatePath, []byte(e2eTemplate), 0o644))
	require.NoError(t, os.WriteFile(exportPath, []byte(e2eExport), 0o644))

	stdout, _, err := runCLI(t, dbPath, "template", "add", templatePath)
	require.NoError(t, err)
	assert.Contains(t, stdout, `Added template "Base Service"`)

	_, stderr, err := runCLI(t, dbPath, "template", "add", templatePath)
	require.Error(t, err)
	assert.Contains(t, stderr, "error:")

	stdout, _, err = runCLI(t, dbPath, "template", "add", "--force", templatePath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Added template")

	stdout, _, err = runCLI(t, dbPath, "template", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Base Service  1 items")

	stdout, _, err = runCLI(t, dbPath, "roster", "set", "Jane Smith", "Bob Ray", "Jane Smith")
	require.NoError(t, err)
	assert.Equal(t, "Saved 2 names\n", stdout)

	stdout, _, err = runCLI(t, dbPath, "roster", "show")
	require.NoError(t, err)
	assert.Equal(t, "1. Jane Smith\n2. Bob Ray\n", stdout)

	stdout, _, err = runCLI(t, dbPath, "parse", "--text", exportPath)
	require.NoError(t, err)
	assert.Equal(t, "PRELUDE\tJane Smith\n", stdout)

	stdout, _, err = runCLI(t, dbPath, "parse", "--template", "Base Service", exportPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, `"wasMatched": true`)
	assert.Contains(t, stdout, `"filename": "export.html"`)

	parsedPath := filepath.Join(dir, "parsed.json")
	require.NoError(t, os.WriteFile(parsedPath, []byte(stdout), 0o644))
	docxPath := filepath.Join(dir, "bulletin.docx")

	stdout, _, err = runCLI(t, dbPath, "bulletin", parsedPath, "-o", docxPath, "--date", "2025-03-09")
	require.NoError(t, err)
	assert.Contains(t, stdout, "(1 items)")

	zr, err := zip.OpenReader(docxPath)
	require.NoError(t, err)
	defer zr.Close()
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "word/document.xml")

	stdout, _, err = runCLI(t, dbPath, "template", "delete", "--force", "Base Service")
	require.NoError(t, err)
	assert.Contains(t, stdout, `Deleted template "Base Service"`)

	stdout, _, err = runCLI(t, dbPath, "--slides-dir", filepath.Join(dir, "slides"), "slide", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No slide templates found")
}

func TestLoadDotenv(t *testing.T) {
	t.Parallel()

	t.Run("ignores a missing file", func(t *testing.T) {
		t.Parallel()

		err := main.LoadDotenv(filepath.Join(t.TempDir(), ".env"))

		assert.NoError(t, err)
	})

	t.Run("reports an unreadable file", func(t *testing.T) {
		t.Parallel()

		err := main.LoadDotenv(t.TempDir())

		assert.Error(t, err)
	})
}
