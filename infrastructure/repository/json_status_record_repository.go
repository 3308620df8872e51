package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ca-srg/xbmon/domain"
	"github.com/ca-srg/xbmon/domain/entity"
	"github.com/ca-srg/xbmon/domain/repository"
)

// JSONStatusRecordRepository persists the status checkpoint as one small
// JSON file per gamertag. The file keeps the two-element array wire form so
// state written by earlier generations of the monitor survives an upgrade.
type JSONStatusRecordRepository struct {
	stateDir string
}

// NewJSONStatusRecordRepository creates a status record repository rooted at
// stateDir. An empty stateDir means the current working directory.
func NewJSONStatusRecordRepository(stateDir string) repository.StatusRecordRepository {
	return &JSONStatusRecordRepository{
		stateDir: stateDir,
	}
}

// FilePath returns the deterministic checkpoint path for a gamertag
func (r *JSONStatusRecordRepository) FilePath(gamertag string) string {
	filename := fmt.Sprintf("xbox_%s_last_status.json", sanitizeGamertag(gamertag))
	if r.stateDir == "" {
		return filename
	}
	return filepath.Join(r.stateDir, filename)
}

// Load reads the checkpoint for a gamertag. A missing file is not an error;
// the caller treats it as a cold start.
func (r *JSONStatusRecordRepository) Load(gamertag string) (*entity.StatusRecord, error) {
	path := r.FilePath(gamertag)

	data, err := os.ReadFile(path) // #nosec G304 - path is derived from config
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, domain.ErrPersistenceWithCause("load status record", path, err)
	}

	var record entity.StatusRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, domain.ErrPersistenceWithCause("parse status record", path, err)
	}

	return &record, nil
}

// Save rewrites the checkpoint atomically via a temp file rename
func (r *JSONStatusRecordRepository) Save(gamertag string, record *entity.StatusRecord) error {
	if record == nil {
		return domain.ErrInvalidInput("record", "cannot be nil")
	}

	path := r.FilePath(gamertag)

	if r.stateDir != "" {
		if err := os.MkdirAll(r.stateDir, 0750); err != nil {
			return domain.ErrPersistenceWithCause("create state directory", r.stateDir, err)
		}
	}

	data, err := json.Marshal(record)
	if err != nil {
		return domain.ErrPersistenceWithCause("marshal status record", path, err)
	}

	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		return domain.ErrPersistenceWithCause("write status record", tmpFile, err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		_ = os.Remove(tmpFile)
		return domain.ErrPersistenceWithCause("replace status record", path, err)
	}

	return nil
}

// sanitizeGamertag makes a gamertag safe for use in a file name. Spaces
// become underscores and path separators are stripped.
func sanitizeGamertag(gamertag string) string {
	replaced := strings.ReplaceAll(gamertag, " ", "_")
	replaced = strings.ReplaceAll(replaced, string(os.PathSeparator), "")
	replaced = strings.ReplaceAll(replaced, "..", "")
	return replaced
}
