package filestorage

import (
	"errors"
	"mime/multipart"
)

// ErrUnsupportedType is returned for uploads that are not images
var ErrUnsupportedType = errors.New("unsupported file type")

// StoredFile describes an uploaded asset once persisted
type StoredFile struct {
	PublicID string // folder/name without extension, stable across hosts
	URL      string // absolute URL the asset is served from
	Filename string // original client filename
	FileSize int64
	MimeType string
}

// FileStorage defines the asset storage operations used by the upload endpoint
type FileStorage interface {
	// SaveFile stores an uploaded image under folder and returns where it is served from
	SaveFile(fileHeader *multipart.FileHeader, folder string) (*StoredFile, error)

	// DeleteFile removes an asset by public id
	DeleteFile(publicID string) error

	// GetFullPath returns the filesystem path of an asset
	GetFullPath(publicID string) string
}
