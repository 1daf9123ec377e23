package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/institut/vitrine/internal/app/models/dto"
)

const galleryPath = "/gallery"

// Gallery is the public photo gallery. Its listings come back unwrapped and
// are normalized into the same page shape as the formation listings.
type Gallery struct{ c *Client }

// HomeImages returns the latest public images shown on the home page.
func (g *Gallery) HomeImages(ctx context.Context) ([]dto.GalleryImageDto, error) {
	images, err := raw[[]dto.GalleryImageDto](ctx, g.c, galleryPath+"/home-images", nil)
	if err != nil {
		return nil, err
	}
	if *images == nil {
		return []dto.GalleryImageDto{}, nil
	}
	return *images, nil
}

// ListPage returns one page of public images.
func (g *Gallery) ListPage(ctx context.Context, req PageRequest) (*Page[dto.GalleryImageDto], error) {
	return galleryPage(ctx, g.c, galleryPath+"/paged", pageQuery(req))
}

// SearchPage matches images by the name of their formation; a blank query is exactly ListPage.
func (g *Gallery) SearchPage(ctx context.Context, query string, req PageRequest) (*Page[dto.GalleryImageDto], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return g.ListPage(ctx, req)
	}
	q := pageQuery(req)
	q.Set("nomFormation", query)
	return galleryPage(ctx, g.c, galleryPath+"/by-formation-nom-paged", q)
}

// FilterByCategory narrows the gallery to one category; "all" or blank lists everything.
func (g *Gallery) FilterByCategory(ctx context.Context, category string, req PageRequest) (*Page[dto.GalleryImageDto], error) {
	if isAll(category) {
		return g.ListPage(ctx, req)
	}
	q := pageQuery(req)
	q.Set("category", strings.ToUpper(strings.TrimSpace(category)))
	return galleryPage(ctx, g.c, galleryPath+"/by-category", q)
}

// Get loads one image, public or not.
func (g *Gallery) Get(ctx context.Context, id int64) (*dto.GalleryImageDto, error) {
	env, err := enveloped[dto.GalleryImageDto](ctx, g.c, http.MethodGet, fmt.Sprintf("%s/%d", galleryPath, id), nil, nil)
	if err != nil {
		return nil, err
	}
	return requireData(env)
}

// Create registers an image whose asset was already uploaded.
func (g *Gallery) Create(ctx context.Context, req dto.GalleryImageRequest) (*dto.ApiResponse[dto.GalleryImageDto], error) {
	return enveloped[dto.GalleryImageDto](ctx, g.c, http.MethodPost, galleryPath, nil, req)
}

// Update replaces every editable field of the image.
func (g *Gallery) Update(ctx context.Context, id int64, req dto.GalleryImageRequest) (*dto.ApiResponse[dto.GalleryImageDto], error) {
	return enveloped[dto.GalleryImageDto](ctx, g.c, http.MethodPut, fmt.Sprintf("%s/%d", galleryPath, id), nil, req)
}

// Delete removes the image row. The stored asset is left on the asset host.
func (g *Gallery) Delete(ctx context.Context, id int64) (*dto.ApiResponse[dto.Empty], error) {
	return enveloped[dto.Empty](ctx, g.c, http.MethodDelete, fmt.Sprintf("%s/%d", galleryPath, id), nil, nil)
}

// AdminGallery lists, searches and filters private images too.
type AdminGallery struct {
	Gallery
}

// ListPage returns one page of every image.
func (a *AdminGallery) ListPage(ctx context.Context, req PageRequest) (*Page[dto.GalleryImageDto], error) {
	return galleryPage(ctx, a.c, galleryPath+"/admin/paged", pageQuery(req))
}

// SearchPage matches every image by formation name; a blank query is exactly ListPage.
func (a *AdminGallery) SearchPage(ctx context.Context, query string, req PageRequest) (*Page[dto.GalleryImageDto], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return a.ListPage(ctx, req)
	}
	q := pageQuery(req)
	q.Set("nomFormation", query)
	return galleryPage(ctx, a.c, galleryPath+"/admin/by-formation-nom-paged", q)
}

// FilterByCategory narrows every image to one category; "all" or blank is exactly ListPage.
func (a *AdminGallery) FilterByCategory(ctx context.Context, category string, req PageRequest) (*Page[dto.GalleryImageDto], error) {
	if isAll(category) {
		return a.ListPage(ctx, req)
	}
	q := pageQuery(req)
	q.Set("category", strings.ToUpper(strings.TrimSpace(category)))
	return galleryPage(ctx, a.c, galleryPath+"/admin/by-category", q)
}

func galleryPage(ctx context.Context, c *Client, path string, query url.Values) (*Page[dto.GalleryImageDto], error) {
	page, err := raw[Page[dto.GalleryImageDto]](ctx, c, path, query)
	if err != nil {
		return nil, err
	}
	return normalize(page), nil
}
