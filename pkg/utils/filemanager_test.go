package utils_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/pln-usage-report/pkg/utils"
)

func TestDeliver_WritesAndArchives(t *testing.T) {
	root := t.TempDir()
	fm := utils.NewFileManager(filepath.Join(root, "out"), filepath.Join(root, "archive"))
	fm.UseTimestampSubdirs = true
	fm.Now = func() time.Time { return time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC) }

	path, err := fm.Deliver(context.Background(), "report.pdf", []byte("%PDF-1.3"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "out", "report.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3", string(data))

	assert.True(t, utils.FileExists(filepath.Join(root, "archive", "2026", "10", "19", "report.pdf")))

	entries, err := os.ReadDir(filepath.Join(root, "out"))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temporary files left behind")
}

func TestDeliver_Overwrites(t *testing.T) {
	fm := utils.NewFileManager(t.TempDir(), "")

	_, err := fm.Deliver(context.Background(), "a.docx", []byte("one"))
	require.NoError(t, err)
	path, err := fm.Deliver(context.Background(), "a.docx", []byte("two"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func TestDeliver_RejectsPaths(t *testing.T) {
	fm := utils.NewFileManager(t.TempDir(), "")

	for _, name := range []string{"", "..", "../escape.pdf", "sub/dir.pdf"} {
		_, err := fm.Deliver(context.Background(), name, []byte("x"))
		assert.ErrorIs(t, err, utils.ErrInvalidFileName, name)
	}
}

func TestDeliver_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	fm := utils.NewFileManager(dir, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fm.Deliver(ctx, "a.pdf", []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, utils.FileExists(filepath.Join(dir, "a.pdf")))
}

func TestWriteSummaryLog_Appends(t *testing.T) {
	dir := t.TempDir()
	start := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	summary := utils.ExportSummary{
		RunID:      "run-1",
		StartTime:  start,
		EndTime:    start.Add(2 * time.Second),
		Items:      3,
		GrandTotal: "Rp 325.000",
		Exported:   []utils.ExportedFileInfo{{Format: "pdf", OutputFile: "out/a.pdf", Bytes: 100, Pages: 1}},
		FailedList: []utils.FailedExportInfo{{Format: "docx", ErrorMessage: "disk full"}},
	}

	path, err := utils.WriteSummaryLog(summary, dir)
	require.NoError(t, err)
	_, err = utils.WriteSummaryLog(summary, dir)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Equal(t, 2, strings.Count(text, "Export Summary"))
	assert.Contains(t, text, "[pdf] out/a.pdf")
	assert.Contains(t, text, "[docx] FAILED: disk full")
	assert.Contains(t, text, "Rp 325.000")
}
