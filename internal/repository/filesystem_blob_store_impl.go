package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/alimikegami/point-of-sales/storefront-service/pkg/errs"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
)

type KeyGenerator func() string

func ULIDKeyGenerator() string {
	return ulid.Make().String()
}

type FileSystemBlobStoreImpl struct {
	root   string
	newKey KeyGenerator
}

func CreateNewFileSystemBlobStore(root string, newKey KeyGenerator) (*FileSystemBlobStoreImpl, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("upload directory is required")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}

	if newKey == nil {
		newKey = ULIDKeyGenerator
	}

	return &FileSystemBlobStoreImpl{root: abs, newKey: newKey}, nil
}

func (s *FileSystemBlobStoreImpl) Root() string {
	return s.root
}

func (s *FileSystemBlobStoreImpl) Store(ctx context.Context, r io.Reader, originalName string) (key string, err error) {
	if err = ctx.Err(); err != nil {
		return
	}

	key = s.newKey() + Extension(originalName)
	if !validKey(key) {
		return "", fmt.Errorf("generated blob key %q is not valid", key)
	}

	tmp, err := os.CreateTemp(s.root, ".upload-*")
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "StoreBlob").Msg("")
		return "", err
	}

	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err = io.Copy(tmp, r); err != nil {
		cleanup()
		log.Ctx(ctx).Error().Err(err).Str("component", "StoreBlob").Msg("")
		return "", err
	}

	if err = tmp.Close(); err != nil {
		cleanup()
		log.Ctx(ctx).Error().Err(err).Str("component", "StoreBlob").Msg("")
		return "", err
	}

	dst := filepath.Join(s.root, key)
	if _, err = os.Lstat(dst); err == nil {
		cleanup()
		return "", fmt.Errorf("blob %s already exists", key)
	}

	if err = os.Rename(tmpPath, dst); err != nil {
		cleanup()
		log.Ctx(ctx).Error().Err(err).Str("component", "StoreBlob").Msg("")
		return "", err
	}

	return key, nil
}

func (s *FileSystemBlobStoreImpl) Open(ctx context.Context, key string) (io.ReadSeekCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !validKey(key) {
		return nil, errs.ErrBlobNotFound
	}

	f, err := os.Open(filepath.Join(s.root, key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errs.ErrBlobNotFound
		}
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	if !info.Mode().IsRegular() {
		f.Close()
		return nil, errs.ErrBlobNotFound
	}

	return f, nil
}

func (s *FileSystemBlobStoreImpl) Delete(ctx context.Context, key string) error {
	if !validKey(key) {
		return fmt.Errorf("invalid blob key %q", key)
	}

	if err := os.Remove(filepath.Join(s.root, key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	return nil
}

// Extension returns the extension of the last element of name, leading dot
// included and case preserved. Dotfiles such as ".env" have no extension.
func Extension(name string) string {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	ext := path.Ext(base)
	if ext == base {
		return ""
	}

	return ext
}

func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, ".") {
		return false
	}

	return !strings.ContainsAny(key, `/\`) && !strings.ContainsRune(key, 0)
}
