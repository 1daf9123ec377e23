package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/institut/vitrine/internal/pkg/logger"
)

// UploadsRoute is the URL prefix the server serves stored assets under
const UploadsRoute = "/uploads"

var imageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".avif": "image/avif",
}

// LocalStorage keeps uploaded assets on the local filesystem.
type LocalStorage struct {
	basePath string // root directory of stored files
	baseURL  string // public origin, e.g. http://localhost:8080
}

var _ FileStorage = (*LocalStorage)(nil)

// NewLocalStorage creates the storage directory when missing.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// cleanFolder keeps only safe [a-z0-9_-] path segments
func cleanFolder(folder string) string {
	var parts []string
	for _, seg := range strings.Split(folder, "/") {
		seg = strings.ToLower(strings.TrimSpace(seg))
		var b strings.Builder
		for _, r := range seg {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
				b.WriteRune(r)
			}
		}
		if b.Len() > 0 {
			parts = append(parts, b.String())
		}
	}
	return strings.Join(parts, "/")
}

// SaveFile stores the image under folder with a generated name
func (ls *LocalStorage) SaveFile(fileHeader *multipart.FileHeader, folder string) (*StoredFile, error) {
	if fileHeader == nil {
		return nil, fmt.Errorf("no file uploaded")
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	mimeType, ok := imageExtensions[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	folder = cleanFolder(folder)
	dir := filepath.Join(ls.basePath, filepath.FromSlash(folder))
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", dir).Msg("Failed to create subdirectory")
		return nil, fmt.Errorf("failed to create subdirectory: %w", err)
	}

	name := uuid.New().String()
	dstPath := filepath.Join(dir, name+ext)
	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, file)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("failed to save file content: %w", err)
	}

	publicID := path.Join(folder, name)
	stored := &StoredFile{
		PublicID: publicID,
		URL:      ls.baseURL + path.Join(UploadsRoute, folder, name+ext),
		Filename: fileHeader.Filename,
		FileSize: written,
		MimeType: mimeType,
	}

	logger.Info().Str("filename", fileHeader.Filename).Str("public_id", publicID).Int64("size", written).Msg("File saved successfully")
	return stored, nil
}

// DeleteFile removes every stored variant of publicID.
// A missing file is not an error.
func (ls *LocalStorage) DeleteFile(publicID string) error {
	full := ls.GetFullPath(publicID)
	if full == "" {
		return fmt.Errorf("invalid public id: %q", publicID)
	}

	matches, err := filepath.Glob(full + ".*")
	if err != nil {
		return fmt.Errorf("failed to look up file: %w", err)
	}
	if len(matches) == 0 {
		logger.Warn().Str("public_id", publicID).Msg("File to delete does not exist")
		return nil
	}

	for _, m := range matches {
		if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
			logger.Error().Err(err).Str("path", m).Msg("Failed to delete file")
			return fmt.Errorf("failed to delete file: %w", err)
		}
	}
	logger.Info().Str("public_id", publicID).Msg("File deleted successfully")
	return nil
}

// GetFullPath returns the filesystem path of publicID without extension,
// or "" when the id would escape the storage root.
func (ls *LocalStorage) GetFullPath(publicID string) string {
	cleaned := path.Clean("/" + publicID)
	if cleaned == "/" || strings.Contains(publicID, "..") {
		return ""
	}
	return filepath.Join(ls.basePath, filepath.FromSlash(strings.TrimPrefix(cleaned, "/")))
}
