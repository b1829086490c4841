package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

type Local struct {
	BaseDir string
}

func NewLocal(baseDir string) *Local {
	return &Local{BaseDir: baseDir}
}

func (l *Local) Put(ctx context.Context, key string, data []byte) error {
	_ = ctx

	if err := os.MkdirAll(l.BaseDir, 0o755); err != nil {
		return err
	}

	dstPath := filepath.Join(l.BaseDir, safeKey(key))
	tmp := dstPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, dstPath)
}

func (l *Local) Get(ctx context.Context, key string) ([]byte, error) {
	_ = ctx

	b, err := os.ReadFile(filepath.Join(l.BaseDir, safeKey(key)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return b, err
}

func (l *Local) Delete(ctx context.Context, key string) error {
	_ = ctx

	err := os.Remove(filepath.Join(l.BaseDir, safeKey(key)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// safeKey strips any path components so keys cannot escape BaseDir.
func safeKey(key string) string {
	return filepath.Base(key) + ".json"
}

func (l *Local) String() string { return fmt.Sprintf("local(%s)", l.BaseDir) }
