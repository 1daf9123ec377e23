package assethost

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/institut/vitrine/internal/config"
)

func imageFile(name string) File {
	return File{Name: name, ContentType: "image/png", Content: strings.NewReader("png-bytes")}
}

func TestCloudinaryUploaderSendsPresetAndFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "institue", r.FormValue("upload_preset"))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		content, _ := io.ReadAll(file)
		assert.Equal(t, "gala.png", header.Filename)
		assert.Equal(t, "png-bytes", string(content))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"secure_url":"https://cdn.example.com/institue/abc.png","public_id":"institue/abc"}`)
	}))
	t.Cleanup(srv.Close)

	asset, err := NewCloudinaryUploader(srv.URL, "institue").Upload(context.Background(), imageFile("gala.png"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/institue/abc.png", asset.SecureURL)
	assert.Equal(t, "institue/abc", asset.PublicID)
}

func TestCloudinaryUploaderFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "empty secure url", status: http.StatusOK, body: `{"secure_url":"","public_id":"x"}`, wantErr: ErrEmptySecureURL},
		{name: "rejected", status: http.StatusBadRequest, body: `{"error":{"message":"Upload preset not found"}}`},
		{name: "undecodable", status: http.StatusOK, body: `<html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			asset, err := NewCloudinaryUploader(srv.URL, "institue").Upload(context.Background(), imageFile("a.png"))
			require.Error(t, err)
			assert.Nil(t, asset)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

type fakePutObject struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakePutObject) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	if params.Body != nil {
		raw, _ := io.ReadAll(params.Body)
		f.body = string(raw)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3UploaderPutsObject(t *testing.T) {
	fake := &fakePutObject{}
	u, err := NewS3Uploader(fake, S3Options{Bucket: "vitrine-media", Region: "eu-west-3", Prefix: "/galerie/"})
	require.NoError(t, err)

	asset, err := u.Upload(context.Background(), imageFile("Gala Photo.PNG"))
	require.NoError(t, err)

	key := aws.ToString(fake.input.Key)
	assert.True(t, strings.HasPrefix(key, "galerie/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.Equal(t, "vitrine-media", aws.ToString(fake.input.Bucket))
	assert.Equal(t, "image/png", aws.ToString(fake.input.ContentType))
	assert.Equal(t, "png-bytes", fake.body)
	assert.Equal(t, key, asset.PublicID)
	assert.Equal(t, "https://vitrine-media.s3.eu-west-3.amazonaws.com/"+key, asset.SecureURL)
}

func TestS3UploaderPublicBaseURLAndErrors(t *testing.T) {
	_, err := NewS3Uploader(&fakePutObject{}, S3Options{})
	require.Error(t, err)

	u, err := NewS3Uploader(&fakePutObject{}, S3Options{Bucket: "b", PublicBaseURL: "https://media.example.com/"})
	require.NoError(t, err)
	asset, err := u.Upload(context.Background(), imageFile("a.jpg"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(asset.SecureURL, "https://media.example.com/"))

	failing, err := NewS3Uploader(&fakePutObject{err: errors.New("access denied")}, S3Options{Bucket: "b"})
	require.NoError(t, err)
	_, err = failing.Upload(context.Background(), imageFile("a.jpg"))
	assert.ErrorContains(t, err, "access denied")
}

func TestNewFromConfigSelectsProvider(t *testing.T) {
	cfg := config.Default()

	up, err := NewFromConfig(context.Background(), cfg)
	require.NoError(t, err)
	local, ok := up.(*CloudinaryUploader)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:8080/api/v1/assets/upload", local.endpoint)
	assert.Equal(t, "institue", local.preset)

	cfg.Assets.Provider = config.AssetsCloudinary
	_, err = NewFromConfig(context.Background(), cfg)
	assert.Error(t, err, "cloudinary needs an endpoint")

	cfg.Assets.Endpoint = "https://api.cloudinary.com/v1_1/demo/image/upload"
	up, err = NewFromConfig(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.Assets.Endpoint, up.(*CloudinaryUploader).endpoint)

	cfg.Assets.Provider = "ftp"
	_, err = NewFromConfig(context.Background(), cfg)
	assert.Error(t, err)
}
