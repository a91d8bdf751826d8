package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"schoolpass-board-service/internal/logger"
)

// FileStorage keeps uploaded attachments. Stored names are opaque and unique;
// the original filename lives in the database, not on disk.
type FileStorage interface {
	Save(src io.Reader, originalName string) (string, error)
	Remove(storedName string) error
	Path(storedName string) string
}

type LocalStorage struct {
	dir string
	log *logger.Logger
}

func NewLocalStorage(dir string, log *logger.Logger) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating uploads directory: %w", err)
	}
	return &LocalStorage{dir: dir, log: log}, nil
}

func (s *LocalStorage) Save(src io.Reader, originalName string) (string, error) {
	storedName := uuid.New().String() + filepath.Ext(originalName)

	dst, err := os.Create(filepath.Join(s.dir, storedName))
	if err != nil {
		return "", fmt.Errorf("error creating stored file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		removeErr := os.Remove(dst.Name())
		if removeErr != nil {
			s.log.Error("Failed to remove partial upload", slog.String("file", storedName), slog.String("error", removeErr.Error()))
		}
		return "", fmt.Errorf("error writing stored file: %w", err)
	}

	return storedName, nil
}

func (s *LocalStorage) Remove(storedName string) error {
	err := os.Remove(filepath.Join(s.dir, storedName))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error removing stored file: %w", err)
	}
	return nil
}

func (s *LocalStorage) Path(storedName string) string {
	return filepath.Join(s.dir, storedName)
}
