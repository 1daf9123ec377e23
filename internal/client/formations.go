package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/institut/vitrine/internal/app/models"
	"github.com/institut/vitrine/internal/app/models/dto"
)

const formationsPath = "/formations"

// Formations is the public, active-only formation catalog.
type Formations struct{ c *Client }

// ListPage returns one page of active formations.
func (f *Formations) ListPage(ctx context.Context, req PageRequest) (*Page[dto.FormationListDto], error) {
	return f.list(ctx, "", req)
}

// SearchPage matches nom or categorie; a blank query is exactly ListPage.
func (f *Formations) SearchPage(ctx context.Context, query string, req PageRequest) (*Page[dto.FormationListDto], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return f.ListPage(ctx, req)
	}
	q := pageQuery(req)
	q.Set("q", query)
	return formationPage[dto.FormationListDto](ctx, f.c, formationsPath+"/search", q)
}

// FilterByCategory narrows the listing to one categorie; "all" or blank lists everything.
func (f *Formations) FilterByCategory(ctx context.Context, category string, req PageRequest) (*Page[dto.FormationListDto], error) {
	if isAll(category) {
		return f.ListPage(ctx, req)
	}
	return f.list(ctx, strings.TrimSpace(category), req)
}

func (f *Formations) list(ctx context.Context, category string, req PageRequest) (*Page[dto.FormationListDto], error) {
	q := pageQuery(req)
	if category != "" {
		q.Set("categorie", category)
	}
	return formationPage[dto.FormationListDto](ctx, f.c, formationsPath, q)
}

// GetBySlug loads the public detail page and counts a view.
func (f *Formations) GetBySlug(ctx context.Context, slug string) (*dto.FormationDetailDto, error) {
	env, err := enveloped[dto.FormationDetailDto](ctx, f.c, http.MethodGet, formationsPath+"/slug/"+url.PathEscape(slug), nil, nil)
	if err != nil {
		return nil, err
	}
	return requireData(env)
}

// GetByID loads a formation whatever its visibility, for the edit form.
func (f *Formations) GetByID(ctx context.Context, id int64) (*dto.FormationDetailDto, error) {
	env, err := enveloped[dto.FormationDetailDto](ctx, f.c, http.MethodGet, fmt.Sprintf("%s/%d", formationsPath, id), nil, nil)
	if err != nil {
		return nil, err
	}
	return requireData(env)
}

// Selection returns the active formations as {id, nom} pairs for pick-lists.
func (f *Formations) Selection(ctx context.Context) ([]dto.FormationSelectionDto, error) {
	env, err := enveloped[[]dto.FormationSelectionDto](ctx, f.c, http.MethodGet, formationsPath+"/selection", nil, nil)
	if err != nil {
		return nil, err
	}
	if env.Data == nil {
		return []dto.FormationSelectionDto{}, nil
	}
	return *env.Data, nil
}

// Create submits a new formation.
func (f *Formations) Create(ctx context.Context, draft dto.FormationCreateDto) (*dto.ApiResponse[dto.FormationDetailDto], error) {
	return enveloped[dto.FormationDetailDto](ctx, f.c, http.MethodPost, formationsPath, nil, draft)
}

// Update sends only the fields set in the partial draft.
func (f *Formations) Update(ctx context.Context, id int64, partial dto.FormationUpdateDto) (*dto.ApiResponse[dto.FormationDetailDto], error) {
	return enveloped[dto.FormationDetailDto](ctx, f.c, http.MethodPut, fmt.Sprintf("%s/%d", formationsPath, id), nil, partial)
}

// Delete logically deletes a formation.
func (f *Formations) Delete(ctx context.Context, id int64) (*dto.ApiResponse[dto.Empty], error) {
	return enveloped[dto.Empty](ctx, f.c, http.MethodDelete, fmt.Sprintf("%s/%d", formationsPath, id), nil, nil)
}

// Reactivate makes a formation public again without touching any other field.
func (f *Formations) Reactivate(ctx context.Context, id int64) (*dto.ApiResponse[dto.FormationDetailDto], error) {
	return f.Update(ctx, id, dto.FormationUpdateDto{Active: dto.BoolPtr(true)})
}

// AdminFormations lists every non-deleted formation. Its filter dimension is
// the visibility status: all, active or inactive.
type AdminFormations struct {
	Formations
}

// ListPage returns one page of all formations.
func (a *AdminFormations) ListPage(ctx context.Context, req PageRequest) (*Page[dto.FormationAdminDto], error) {
	return a.list(ctx, req, models.VisibilityAll, "")
}

// SearchPage narrows the admin listing by nom or categorie.
func (a *AdminFormations) SearchPage(ctx context.Context, query string, req PageRequest) (*Page[dto.FormationAdminDto], error) {
	return a.list(ctx, req, models.VisibilityAll, strings.TrimSpace(query))
}

// FilterByCategory applies the status filter; "all" or blank lists everything.
func (a *AdminFormations) FilterByCategory(ctx context.Context, status string, req PageRequest) (*Page[dto.FormationAdminDto], error) {
	if isAll(status) {
		return a.ListPage(ctx, req)
	}
	return a.list(ctx, req, models.ParseAdminStatus(status), "")
}

func (a *AdminFormations) list(ctx context.Context, req PageRequest, status models.Visibility, search string) (*Page[dto.FormationAdminDto], error) {
	q := pageQuery(req)
	if req.SortOrder != "" {
		q.Del("sortOrder")
		q.Set("sortDir", req.SortOrder)
	}
	q.Set("status", string(status))
	if search != "" {
		q.Set("q", search)
	}
	return formationPage[dto.FormationAdminDto](ctx, a.c, formationsPath+"/admin", q)
}

func formationPage[T any](ctx context.Context, c *Client, path string, query url.Values) (*Page[T], error) {
	env, err := enveloped[Page[T]](ctx, c, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	// a successful envelope without data is a valid, empty answer
	return normalize(env.Data), nil
}

func requireData[T any](env *dto.ApiResponse[T]) (*T, error) {
	if env.Data == nil {
		return nil, &APIError{StatusCode: env.StatusCode, Message: env.Message}
	}
	return env.Data, nil
}
