package storage

import (
	"io"
	"mime/multipart"
)

type FileInfo struct {
	Filename    string
	ContentType string
	Size        int64
}

// Storage persists uploaded videos and finished reels under opaque,
// collision-free names.
type Storage interface {
	SaveUpload(file multipart.File, info FileInfo) (string, error)
	IngestFile(srcPath string) (string, error)
	OpenFile(name string) (io.ReadSeekCloser, error)
	FullPath(name string) (string, error)
	DeleteFile(name string) error
}
