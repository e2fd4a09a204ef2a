package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmorgan81/gabu/internal/log"
)

type Object struct {
	Key         string
	Data        []byte
	ContentType string
}

// ObjectStore is the capability set the relay needs from a storage backend.
// Put is the operation of record; MakePublic is best effort.
type ObjectStore interface {
	Put(context.Context, Object) error
	MakePublic(ctx context.Context, key string) error
}

// FileStore keeps objects on the local filesystem under Root. It stands in
// for a bucket during development.
type FileStore struct {
	Root string
}

func (s *FileStore) Put(ctx context.Context, obj Object) error {
	path, err := s.path(obj.Key)
	if err != nil {
		return err
	}
	log.FromContextOrDiscard(ctx).WithGroup("file").Info("writing", "path", path, "content-type", obj.ContentType)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create object dir: %w", err)
	}
	return os.WriteFile(path, obj.Data, 0o600)
}

func (s *FileStore) MakePublic(ctx context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	log.FromContextOrDiscard(ctx).WithGroup("file").Info("marking public", "path", path)
	if err := os.Chmod(path, 0o644); err != nil {
		return err
	}
	// The umask may have narrowed the directories created by Put.
	for dir := filepath.Dir(filepath.FromSlash(key)); dir != "."; dir = filepath.Dir(dir) {
		if err := os.Chmod(filepath.Join(s.Root, dir), 0o755); err != nil {
			return err
		}
	}
	return nil
}

func (s *FileStore) path(key string) (string, error) {
	if !filepath.IsLocal(filepath.FromSlash(key)) {
		return "", fmt.Errorf("object key %q escapes store root", key)
	}
	return filepath.Join(s.Root, filepath.FromSlash(key)), nil
}
