package csvio

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"catalogcsv/internal/models"
)

// BackupSuffix is appended to the destination path for backups.
const BackupSuffix = ".bak"

// EncodeOptions controls serialization.
type EncodeOptions struct {
	// CRLF terminates rows with \r\n instead of \n.
	CRLF bool
}

// Encode serializes rows. Fields containing the delimiter, quotes or line
// breaks are quoted. A row holding one empty cell is written as "" so it is
// not read back as a blank line.
func Encode(rows []models.Record, opts EncodeOptions) ([]byte, error) {
	var buf bytes.Buffer

	eol := "\n"
	if opts.CRLF {
		eol = "\r\n"
	}

	w := csv.NewWriter(&buf)
	w.UseCRLF = opts.CRLF

	for i, row := range rows {
		if len(row) == 1 && row[0] == "" {
			w.Flush()
			buf.WriteString(`""` + eol)

			continue
		}

		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to encode row %d: %w", i, err)
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to encode CSV: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteOptions controls how a file is replaced.
type WriteOptions struct {
	// Backup copies the current content to path+BackupSuffix first.
	Backup bool
	// Mode is used for new files; existing files keep their mode.
	Mode fs.FileMode
}

// WriteFileAtomic replaces path with data. The content goes to a temporary
// file in the same directory which is synced and renamed over path, so
// readers see either the old or the new file.
func WriteFileAtomic(path string, data []byte, opts WriteOptions) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	mode := opts.Mode
	if mode == 0 {
		mode = 0o644
	}

	info, statErr := os.Stat(path)

	switch {
	case statErr == nil:
		mode = info.Mode().Perm()

		if opts.Backup {
			if err := backup(path, mode); err != nil {
				return err
			}
		}
	case !errors.Is(statErr, fs.ErrNotExist):
		return fmt.Errorf("failed to stat %s: %w", path, statErr)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err = os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("failed to set mode on temp file: %w", err)
	}

	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}

func backup(path string, mode fs.FileMode) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s for backup: %w", path, err)
	}

	if err := os.WriteFile(path+BackupSuffix, data, mode); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}

	return nil
}
