package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

type LocalProvider struct {
	// RootPath is the directory where buckets are simulated (e.g., "./data")
	RootPath string
}

func NewLocalProvider(root string) *LocalProvider {
	_ = os.MkdirAll(root, 0755)
	return &LocalProvider{RootPath: root}
}

// path resolves a key inside the bucket, refusing anything that escapes it.
func (l *LocalProvider) path(bucket, key string) (string, error) {
	base := filepath.Join(l.RootPath, bucket)
	p := filepath.Join(base, filepath.FromSlash(key))
	if p != base && !strings.HasPrefix(p, base+string(filepath.Separator)) {
		return "", ErrNotFound
	}
	return p, nil
}

func (l *LocalProvider) List(ctx context.Context, bucket, prefix string) ([]string, error) {
	var keys []string
	bucketPath := filepath.Join(l.RootPath, bucket)

	err := filepath.WalkDir(bucketPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, _ := filepath.Rel(bucketPath, path)
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	return keys, err
}

func (l *LocalProvider) Get(ctx context.Context, bucket, key string) (*FileObject, error) {
	path, err := l.path(bucket, key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if stat.IsDir() {
		f.Close()
		return nil, ErrNotFound
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &FileObject{
		Body:          f,
		ContentLength: stat.Size(),
		ContentType:   contentType,
		LastModified:  stat.ModTime(),
	}, nil
}

func (l *LocalProvider) Put(ctx context.Context, bucket, key string, body io.ReadSeeker, contentType, cacheControl string) error {
	path, err := l.path(bucket, key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(f, body)
	return err
}

func (l *LocalProvider) Delete(ctx context.Context, bucket, key string) error {
	path, err := l.path(bucket, key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (l *LocalProvider) Exists(ctx context.Context, bucket, key string) (bool, error) {
	path, err := l.path(bucket, key)
	if err != nil {
		return false, nil
	}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}
