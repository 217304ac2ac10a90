package state

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps the address in a plain text file with a sibling backup.
type FileStore struct {
	Path       string
	BackupPath string
}

var _ Store = (*FileStore)(nil)

func NewFileStore(path, backupPath string) *FileStore {
	return &FileStore{Path: path, BackupPath: backupPath}
}

func (f *FileStore) Load(ctx context.Context) (string, bool, error) {
	data, ok, err := f.read()
	if err != nil || !ok {
		return "", false, err
	}

	if err := os.WriteFile(f.BackupPath, data, 0o600); err != nil {
		return "", false, fmt.Errorf("writing backup file: %w", err)
	}

	addr := strings.TrimSpace(string(data))
	return addr, addr != "", nil
}

func (f *FileStore) Save(ctx context.Context, addr string) error {
	if dir := filepath.Dir(f.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("creating state directory: %w", err)
		}
	}
	if err := os.WriteFile(f.Path, []byte(addr), 0o600); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	return nil
}

func (f *FileStore) Peek(ctx context.Context) (string, bool, error) {
	data, ok, err := f.read()
	if err != nil || !ok {
		return "", false, err
	}
	addr := strings.TrimSpace(string(data))
	return addr, addr != "", nil
}

func (f *FileStore) read() ([]byte, bool, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading state file: %w", err)
	}
	return data, true, nil
}
