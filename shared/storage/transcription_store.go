package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"yt-transcriber/internal/models"
)

// ErrPersistence marks every failure to write a transcription file.
var ErrPersistence = errors.New("persistence error")

// Save writes result as indented UTF-8 JSON to path, replacing any existing file.
// The document is staged in a sibling temp file and renamed into place so a
// failed write never leaves a truncated file behind.
func Save(result *models.TranscriptionResult, path string) error {
	if result == nil {
		return fmt.Errorf("%w: result cannot be nil", ErrPersistence)
	}

	doc := *result
	if doc.Paragraphs == nil {
		doc.Paragraphs = []string{}
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: failed to create file in %s: %w", ErrPersistence, dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	encoder := json.NewEncoder(tmp)
	encoder.SetIndent("", "    ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(doc); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: failed to encode transcription: %w", ErrPersistence, err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: failed to flush %s: %w", ErrPersistence, tmpName, err)
	}

	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("%w: failed to set permissions on %s: %w", ErrPersistence, tmpName, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: failed to write %s: %w", ErrPersistence, path, err)
	}

	return nil
}
