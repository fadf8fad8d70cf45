package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/pln-usage-report/internal/session"
	"github.com/ginjaninja78/pln-usage-report/pkg/utils"
)

// setupCLI points the configuration at a temporary workspace.
func setupCLI(t *testing.T) (dataDir, outputDir string) {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)

	dataDir = filepath.Join(dir, "data")
	outputDir = filepath.Join(dir, "output")
	t.Setenv("PLNREPORT_DATA_DIR", dataDir)
	t.Setenv("PLNREPORT_OUTPUT_DIR", outputDir)
	t.Setenv("PLNREPORT_LOG_LEVEL", "error")

	prev := now
	now = func() time.Time { return time.Date(2026, 10, 19, 10, 0, 0, 0, time.Local) }
	t.Cleanup(func() { now = prev })

	return dataDir, outputDir
}

// run executes the root command with args and returns its output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestCLI_Workflow(t *testing.T) {
	_, outputDir := setupCLI(t)

	out, err := run(t, "customer", "set", "--name", "Budi Santoso", "--id", "5123", "--power", "1300 VA")
	require.NoError(t, err)
	assert.Contains(t, out, "Budi Santoso")
	assert.Contains(t, out, "1300 VA")

	out, err = run(t, "items", "add", "--name", "Cable", "--price", "Rp 50.000", "--qty", "2", "--unit", "m")
	require.NoError(t, err)
	assert.Contains(t, out, "Added item 1: Cable")

	out, err = run(t, "items", "add", "--name", "Switch", "--price", "25000", "--qty", "1", "--unit", "pcs")
	require.NoError(t, err)
	assert.Contains(t, out, "Added item 2: Switch")

	out, err = run(t, "items", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Rp 100.000")
	assert.Contains(t, out, "TOTAL KESELURUHAN: Rp 125.000")
	assert.NotContains(t, out, "::")

	out, err = run(t, "items", "edit", "2", "--qty", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated item 2: Switch")

	out, err = run(t, "items", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted item 1: Cable")

	out, err = run(t, "report")
	require.NoError(t, err)
	assert.Contains(t, out, "LAPORAN PENGGUNAAN PERALATAN PLN")
	assert.Contains(t, out, "Budi Santoso")
	assert.Contains(t, out, "Rp 75.000")
	assert.NotContains(t, out, "Cable")

	_, err = run(t, "items", "delete", "9")
	require.Error(t, err)
	assert.ErrorIs(t, err, session.ErrIndexOutOfRange)

	out, err = run(t, "export", "docx")
	require.NoError(t, err)
	assert.Contains(t, out, "PLN_Usage_Report_2026-10-19.docx")

	assert.True(t, utils.FileExists(filepath.Join(outputDir, "PLN_Usage_Report_2026-10-19.docx")))

	summary, err := os.ReadFile(filepath.Join(outputDir, utils.SummaryLogName))
	require.NoError(t, err)
	assert.Contains(t, string(summary), "Rp 75.000")
	assert.Contains(t, string(summary), "[docx] PLN_Usage_Report_2026-10-19.docx")
}

func TestCLI_ItemsAddRejectsInvalidPrice(t *testing.T) {
	setupCLI(t)

	_, err := run(t, "items", "add", "--name", "Cable", "--price", "abc", "--qty", "1", "--unit", "m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid price")
}

func TestCLI_ItemsEmptyList(t *testing.T) {
	setupCLI(t)

	out, err := run(t, "items", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Tidak ada data barang/jasa")
}

func TestCLI_Import(t *testing.T) {
	setupCLI(t)

	csv := "Nama Barang/Jasa,Harga STN,Qty,Satuan\n" +
		"Cable,\"Rp 50.000\",2,m\n" +
		"Broken,0,1,pcs\n"
	require.NoError(t, os.WriteFile("items.csv", []byte(csv), 0o644))

	out, err := run(t, "import", "items.csv")
	require.NoError(t, err)
	assert.Contains(t, out, "1 valid, 1 skipped")
	assert.Contains(t, out, "Imported 1 items")

	out, err = run(t, "items", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Cable")
	assert.Contains(t, out, "Rp 100.000")
}

func TestCLI_ConfigShow(t *testing.T) {
	setupCLI(t)

	out, err := run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "report_name: PLN_Usage_Report")
	assert.Contains(t, out, "jpeg_quality: 98")
}

func TestCLI_Version(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "PLN Usage Report")
	assert.Contains(t, out, Version)
}
