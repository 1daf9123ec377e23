// Package assethost uploads images to the external asset host and returns
// their public URL.
package assethost

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/institut/vitrine/internal/config"
)

// ErrEmptySecureURL is returned when the host accepted the file but gave no URL back.
var ErrEmptySecureURL = errors.New("asset host returned an empty secure_url")

// File is one image selected for upload.
type File struct {
	Name        string
	ContentType string
	Content     io.Reader
}

// Asset is the stored copy of an uploaded file.
type Asset struct {
	SecureURL string
	PublicID  string
}

// Uploader stores one file and returns where it can be read from.
type Uploader interface {
	Upload(ctx context.Context, f File) (*Asset, error)
}

// NewFromConfig returns the uploader selected by the assets provider.
// The local provider talks to the catalog server's own upload endpoint.
func NewFromConfig(ctx context.Context, cfg *config.Config) (Uploader, error) {
	switch cfg.Assets.Provider {
	case config.AssetsLocal, "":
		endpoint := strings.TrimRight(cfg.Client.BaseURL, "/") + "/assets/upload"
		return NewCloudinaryUploader(endpoint, cfg.Assets.UploadPreset, WithUploadTimeout(cfg.Client.Timeout)), nil
	case config.AssetsCloudinary:
		if cfg.Assets.Endpoint == "" {
			return nil, errors.New("assets endpoint is required for the cloudinary provider")
		}
		return NewCloudinaryUploader(cfg.Assets.Endpoint, cfg.Assets.UploadPreset, WithUploadTimeout(cfg.Client.Timeout)), nil
	case config.AssetsS3:
		return NewS3UploaderFromConfig(ctx, S3Options{
			Bucket:        cfg.Assets.S3Bucket,
			Region:        cfg.Assets.S3Region,
			Prefix:        cfg.Assets.S3Prefix,
			PublicBaseURL: cfg.Assets.S3PublicBaseURL,
		})
	default:
		return nil, fmt.Errorf("unknown assets provider %q", cfg.Assets.Provider)
	}
}

// objectName derives a collision free object name keeping the original extension.
func objectName(original string) string {
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(original, "\\", "/"))))
	return uuid.NewString() + ext
}
