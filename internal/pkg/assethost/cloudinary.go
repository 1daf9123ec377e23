package assethost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/institut/vitrine/internal/app/models/dto"
	"github.com/institut/vitrine/internal/pkg/logger"
)

// CloudinaryUploader posts files with an unsigned upload preset. The catalog
// server exposes the same protocol at /api/v1/assets/upload for development.
type CloudinaryUploader struct {
	endpoint string
	preset   string
	http     *http.Client
}

// CloudinaryOption customizes a CloudinaryUploader.
type CloudinaryOption func(*CloudinaryUploader)

// WithUploadTimeout bounds one upload.
func WithUploadTimeout(d time.Duration) CloudinaryOption {
	return func(u *CloudinaryUploader) {
		if d > 0 {
			u.http.Timeout = d
		}
	}
}

// WithUploadHTTPClient replaces the underlying http.Client.
func WithUploadHTTPClient(hc *http.Client) CloudinaryOption {
	return func(u *CloudinaryUploader) { u.http = hc }
}

func NewCloudinaryUploader(endpoint, preset string, opts ...CloudinaryOption) *CloudinaryUploader {
	u := &CloudinaryUploader{
		endpoint: endpoint,
		preset:   preset,
		http:     &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *CloudinaryUploader) Upload(ctx context.Context, f File) (*Asset, error) {
	if f.Content == nil {
		return nil, fmt.Errorf("upload %q: no content", f.Name)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, f.Name))
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("create multipart part: %w", err)
	}
	if _, err := io.Copy(part, f.Content); err != nil {
		return nil, fmt.Errorf("read %q: %w", f.Name, err)
	}
	if u.preset != "" {
		if err := mw.WriteField("upload_preset", u.preset); err != nil {
			return nil, fmt.Errorf("write upload_preset: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := u.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload %q: %w", f.Name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upload response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Warn().Int("status", resp.StatusCode).Str("file", f.Name).Msg("Asset host rejected upload")
		return nil, fmt.Errorf("upload %q: asset host answered %d: %s", f.Name, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out dto.AssetUploadResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	if strings.TrimSpace(out.SecureURL) == "" {
		return nil, ErrEmptySecureURL
	}
	return &Asset{SecureURL: out.SecureURL, PublicID: out.PublicID}, nil
}
