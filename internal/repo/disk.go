package repo

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"

	"github.com/peterbourgon/diskv/v3"

	"github.com/pkordes/voyager/internal/domain"
)

// diskKV stores each key as one file under a base directory.
type diskKV struct {
	d *diskv.Diskv
}

// NewDiskKV returns a KVStore rooted at basePath. The directory is created
// on first write.
//
// Reads always go to disk: the CLI edits the same directory from another
// process, so an in-memory cache would serve stale drafts.
func NewDiskKV(basePath string) KVStore {
	return &diskKV{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		CacheSizeMax: 0,
	})}
}

// fileKey makes arbitrary user ids safe as file names.
func fileKey(key string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(key))
}

func (s *diskKV) Get(_ context.Context, key string) (string, error) {
	b, err := s.d.Read(fileKey(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("repo.diskKV.Get: %w", domain.ErrNotFound)
		}
		return "", fmt.Errorf("repo.diskKV.Get: %w", err)
	}
	return string(b), nil
}

func (s *diskKV) Set(_ context.Context, key, value string) error {
	if err := s.d.Write(fileKey(key), []byte(value)); err != nil {
		return fmt.Errorf("repo.diskKV.Set: %w", err)
	}
	return nil
}

func (s *diskKV) Delete(_ context.Context, key string) error {
	err := s.d.Erase(fileKey(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("repo.diskKV.Delete: %w", err)
	}
	return nil
}
