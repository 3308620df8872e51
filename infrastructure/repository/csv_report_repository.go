package repository

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/ca-srg/xbmon/domain"
	"github.com/ca-srg/xbmon/domain/entity"
	"github.com/ca-srg/xbmon/domain/repository"
	"github.com/ca-srg/xbmon/domain/valueobject"
)

// csvHeader is written once when the report file is created
var csvHeader = []string{"Date", "Status", "Activity"}

// CSVReportRepositoryImpl appends one row per transition to the configured
// report file. The file is opened per append so external rotation works.
type CSVReportRepositoryImpl struct {
	filePath string
	logger   domain.Logger
}

// NewCSVReportRepository creates a new CSV report repository. An empty
// filePath disables the report.
func NewCSVReportRepository(filePath string, logger domain.Logger) repository.CSVReportRepository {
	return &CSVReportRepositoryImpl{
		filePath: filePath,
		logger:   logger,
	}
}

// IsEnabled reports whether a report file is configured
func (r *CSVReportRepositoryImpl) IsEnabled() bool {
	return r.filePath != ""
}

// Append writes one row for the event, creating the file with a header row
// first when it does not exist yet
func (r *CSVReportRepositoryImpl) Append(event *entity.PresenceEvent) error {
	if !r.IsEnabled() {
		return nil
	}
	if event == nil {
		return domain.ErrInvalidInput("event", "cannot be nil")
	}

	if err := r.validateReportPath(r.filePath); err != nil {
		return err
	}

	dir := filepath.Dir(r.filePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return domain.ErrPersistenceWithCause("create report directory", dir, err)
	}

	writeHeader := false
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		writeHeader = true
	}

	file, err := os.OpenFile(r.filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) // #nosec G304 - path is validated above
	if err != nil {
		return domain.ErrPersistenceWithCause("open report file", r.filePath, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			r.logger.Error(context.TODO(), "Failed to close CSV report file",
				domain.NewField("error", closeErr.Error()),
				domain.NewField("path", r.filePath))
		}
	}()

	writer := csv.NewWriter(file)

	if writeHeader {
		if err := writer.Write(csvHeader); err != nil {
			return domain.ErrPersistenceWithCause("write report header", r.filePath, err)
		}
	}

	row := []string{
		valueobject.FormatDate(event.OccurredAt),
		event.NewStatus.Display(),
		sanitizeCSVField(event.Activity),
	}
	if err := writer.Write(row); err != nil {
		return domain.ErrPersistenceWithCause("write report row", r.filePath, err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return domain.ErrPersistenceWithCause("flush report file", r.filePath, err)
	}

	return nil
}

// validateReportPath rejects paths that escape upward or hide the file
func (r *CSVReportRepositoryImpl) validateReportPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return domain.ErrPathTraversal(path)
	}

	base := filepath.Base(cleanPath)
	if strings.HasPrefix(base, ".") && base != "." {
		return domain.ErrInvalidInput("csv.file_path", "cannot write to hidden files")
	}

	if filepath.Ext(cleanPath) != ".csv" {
		return domain.ErrInvalidInput("csv.file_path", "file must have .csv extension")
	}

	return nil
}

// sanitizeCSVField neutralizes leading characters that spreadsheet programs
// interpret as formulas
func sanitizeCSVField(field string) string {
	dangerousChars := []string{"=", "+", "-", "@", "\t", "\r", "|"}
	for _, char := range dangerousChars {
		if strings.HasPrefix(field, char) {
			return "'" + field
		}
	}
	return field
}
