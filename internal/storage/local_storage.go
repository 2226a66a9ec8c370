package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// SaveUpload copies an uploaded file into storage under a fresh uuid name,
// keeping the original extension.
func (ls *LocalStorage) SaveUpload(file multipart.File, info FileInfo) (string, error) {
	ext := filepath.Ext(info.Filename)
	if ext == "" {
		ext = ".mp4"
	}

	name := uuid.New().String() + ext
	fullPath := filepath.Join(ls.basePath, name)

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return name, nil
}

// IngestFile moves a file produced elsewhere on disk (a compiled reel) into
// storage, removing the source.
func (ls *LocalStorage) IngestFile(srcPath string) (string, error) {
	ext := filepath.Ext(srcPath)
	if ext == "" {
		ext = ".mp4"
	}

	name := uuid.New().String() + ext
	fullPath := filepath.Join(ls.basePath, name)

	if err := os.Rename(srcPath, fullPath); err == nil {
		return name, nil
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("failed to open source file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to ingest file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("failed to ingest file: %w", err)
	}
	os.Remove(srcPath)

	return name, nil
}

func (ls *LocalStorage) OpenFile(name string) (io.ReadSeekCloser, error) {
	fullPath, err := ls.FullPath(name)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// FullPath resolves a stored name to an absolute path, rejecting traversal.
func (ls *LocalStorage) FullPath(name string) (string, error) {
	cleanPath := filepath.Clean(name)
	if strings.Contains(cleanPath, "..") || filepath.IsAbs(cleanPath) {
		return "", fmt.Errorf("invalid path")
	}
	return filepath.Join(ls.basePath, cleanPath), nil
}

func (ls *LocalStorage) DeleteFile(name string) error {
	fullPath, err := ls.FullPath(name)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
