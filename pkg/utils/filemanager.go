// =============================================================================
// PLN Usage Report - File Manager Utility
// =============================================================================
//
// This module delivers exported files to disk, including:
//   - Atomic writes into the output directory
//   - Archival (a copy of every delivered file)
//   - The export summary log
//   - Directory management
//
// ARCHIVAL STRATEGY:
//   - Delivered files stay in the output directory
//   - A copy goes to the archive directory when one is configured
//   - A failed archive copy is reported but does not undo the delivery
//
// =============================================================================

package utils

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidFileName is returned for names that are empty or contain a path.
var ErrInvalidFileName = errors.New("invalid file name")

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager writes exported files.
type FileManager struct {
	// OutputDir is the directory where exported files are placed.
	OutputDir string

	// ArchiveDir is the directory for archived copies. Empty disables
	// archival.
	ArchiveDir string

	// UseTimestampSubdirs creates date-based subdirectories in the archive.
	// Example: output_archive/2026/10/19/PLN_Usage_Report_2026-10-19.pdf
	UseTimestampSubdirs bool

	// Now supplies the archive date. Default: time.Now
	Now func() time.Time
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(outputDir, archiveDir string) *FileManager {
	return &FileManager{
		OutputDir:  outputDir,
		ArchiveDir: archiveDir,
		Now:        time.Now,
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates all required directories if they don't exist.
func (fm *FileManager) EnsureDirectories() error {
	for _, dir := range []string{fm.OutputDir, fm.ArchiveDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// =============================================================================
// DELIVERY
// =============================================================================

// Deliver writes data to OutputDir/name and archives a copy.
//
// PARAMETERS:
//   - ctx: Checked before writing.
//   - name: The bare file name.
//   - data: The file content.
//
// RETURNS:
//   - The path of the written file.
//   - An error if the file could not be written. Nothing is left behind
//     in that case.
func (fm *FileManager) Deliver(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name == "" || filepath.Base(name) != name || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidFileName, name)
	}

	if err := os.MkdirAll(fm.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(fm.OutputDir, name)
	if err := WriteFileAtomic(path, data, 0o644); err != nil {
		return "", err
	}

	if fm.ArchiveDir != "" {
		if _, err := fm.ArchiveOutputFile(path); err != nil {
			return path, fmt.Errorf("delivered %s but archiving failed: %w", path, err)
		}
	}

	return path, nil
}

// WriteFileAtomic writes data to a temporary file next to path and renames
// it into place.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")

	if err := os.WriteFile(tmp, data, perm); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}

// =============================================================================
// FILE ARCHIVAL
// =============================================================================

// ArchiveOutputFile copies an output file to the archive directory.
//
// RETURNS:
//   - The path to the archived copy, or filePath when archival is disabled.
//   - An error if the copy fails.
func (fm *FileManager) ArchiveOutputFile(filePath string) (string, error) {
	if fm.ArchiveDir == "" {
		return filePath, nil
	}

	archivePath := fm.getArchivePath(filePath)

	if err := os.MkdirAll(filepath.Dir(archivePath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	if err := copyFile(filePath, archivePath); err != nil {
		return "", fmt.Errorf("failed to copy file to archive: %w", err)
	}

	return archivePath, nil
}

// getArchivePath constructs the archive path for a file.
func (fm *FileManager) getArchivePath(filePath string) string {
	fileName := filepath.Base(filePath)

	if fm.UseTimestampSubdirs {
		now := fm.now()
		return filepath.Join(
			fm.ArchiveDir,
			fmt.Sprintf("%d", now.Year()),
			fmt.Sprintf("%02d", now.Month()),
			fmt.Sprintf("%02d", now.Day()),
			fileName,
		)
	}

	return filepath.Join(fm.ArchiveDir, fileName)
}

func (fm *FileManager) now() time.Time {
	if fm.Now == nil {
		return time.Now()
	}
	return fm.Now()
}

// =============================================================================
// EXPORT SUMMARY
// =============================================================================

// ExportSummary contains summary information about an export run.
type ExportSummary struct {
	RunID      string
	StartTime  time.Time
	EndTime    time.Time
	Items      int
	GrandTotal string
	Exported   []ExportedFileInfo
	FailedList []FailedExportInfo
}

// ExportedFileInfo describes a delivered file.
type ExportedFileInfo struct {
	Format     string
	OutputFile string
	Bytes      int
	Pages      int
	Duration   time.Duration
}

// FailedExportInfo describes a failed export.
type FailedExportInfo struct {
	Format       string
	ErrorMessage string
}

// SummaryLogName is the export summary file kept in the output directory.
const SummaryLogName = "export_summary.log"

// WriteSummaryLog appends an export summary to the summary log in outputDir.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func WriteSummaryLog(summary ExportSummary, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	summaryPath := filepath.Join(outputDir, SummaryLogName)
	file, err := os.OpenFile(summaryPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to open summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	fmt.Fprintf(writer, "PLN Usage Report - Export Summary\n"+
		"================================================================================\n"+
		"  Run:            %s\n"+
		"  Start Time:     %s\n"+
		"  Duration:       %s\n"+
		"  Items:          %d\n"+
		"  Grand Total:    %s\n"+
		"  Exported:       %d\n"+
		"  Failed:         %d\n\n",
		summary.RunID,
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Sub(summary.StartTime).String(),
		summary.Items,
		summary.GrandTotal,
		len(summary.Exported),
		len(summary.FailedList))

	for _, f := range summary.Exported {
		fmt.Fprintf(writer, "  [%s] %s (%d bytes, %d pages, %s)\n", f.Format, f.OutputFile, f.Bytes, f.Pages, f.Duration)
	}
	for _, f := range summary.FailedList {
		fmt.Fprintf(writer, "  [%s] FAILED: %s\n", f.Format, f.ErrorMessage)
	}
	writer.WriteString("\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return summaryPath, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
