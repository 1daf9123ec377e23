package browse

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/institut/vitrine/internal/app/models/dto"
	"github.com/institut/vitrine/internal/client"
)

type call struct {
	mode Mode
	arg  string
	page int
}

// fakeSource pages over items; filter keeps items prefixed with "<filter>:".
type fakeSource struct {
	mu      sync.Mutex
	items   []string
	err     error
	nilPage bool
	calls   []call

	hold    chan struct{} // blocks the next call until closed
	entered chan struct{}
}

func newFakeSource(n int) *fakeSource {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf("item-%02d", i)
	}
	return &fakeSource{items: items}
}

func (f *fakeSource) respond(c call, req client.PageRequest, keep func(string) bool) (*client.Page[string], error) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	hold, entered := f.hold, f.entered
	f.hold, f.entered = nil, nil
	f.mu.Unlock()

	if hold != nil {
		close(entered)
		<-hold
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.nilPage {
		return nil, nil
	}
	matched := []string{}
	for _, it := range f.items {
		if keep(it) {
			matched = append(matched, it)
		}
	}
	start := min(req.Page*req.Size, len(matched))
	end := min(start+req.Size, len(matched))
	page := dto.NewPageResponse(matched[start:end], req.Page, req.Size, int64(len(matched)))
	return &page, nil
}

func (f *fakeSource) ListPage(_ context.Context, req client.PageRequest) (*client.Page[string], error) {
	return f.respond(call{ModeList, "", req.Page}, req, func(string) bool { return true })
}

func (f *fakeSource) SearchPage(_ context.Context, q string, req client.PageRequest) (*client.Page[string], error) {
	return f.respond(call{ModeSearch, q, req.Page}, req, func(s string) bool { return strings.Contains(s, q) })
}

func (f *fakeSource) FilterByCategory(_ context.Context, c string, req client.PageRequest) (*client.Page[string], error) {
	return f.respond(call{ModeFilter, c, req.Page}, req, func(s string) bool { return strings.HasPrefix(s, c+":") })
}

func (f *fakeSource) lastCall() call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestMountLoadsFirstPage(t *testing.T) {
	src := newFakeSource(20)
	b := New[string](src, Options[string]{PageSize: 9})

	assert.Equal(t, StatusIdle, b.State().Status)
	b.Mount(context.Background())

	s := b.State()
	assert.Equal(t, StatusLoaded, s.Status)
	assert.False(t, s.IsLoading)
	assert.Len(t, s.Items, 9)
	assert.Equal(t, 0, s.PageNumber)
	assert.Equal(t, 3, s.TotalPages)
	assert.EqualValues(t, 20, s.TotalElements)
	assert.Equal(t, ModeList, s.Mode)
}

func TestGoToPageBoundsAndNavigationHook(t *testing.T) {
	src := newFakeSource(20)
	var navigated []int
	b := New[string](src, Options[string]{
		PageSize: 9,
		OnNavigate: func(page int) error {
			navigated = append(navigated, page)
			return errors.New("no window")
		},
	})
	ctx := context.Background()
	b.Mount(ctx)
	calls := src.callCount()

	assert.False(t, b.GoToPage(ctx, -1))
	assert.False(t, b.GoToPage(ctx, 3))
	assert.Equal(t, calls, src.callCount(), "out of range pages issue no request")

	assert.True(t, b.GoToPage(ctx, 2))
	s := b.State()
	assert.Equal(t, 2, s.PageNumber)
	assert.Len(t, s.Items, 2)
	assert.Equal(t, []int{2}, navigated)
	assert.Empty(t, s.ErrorMessage, "hook failures are not surfaced")
}

func TestGoToPageKeepsSearchIntent(t *testing.T) {
	src := newFakeSource(30)
	b := New[string](src, Options[string]{PageSize: 5})
	ctx := context.Background()

	b.SubmitSearch(ctx, "item-1")
	require.Equal(t, 2, b.State().TotalPages)
	require.True(t, b.GoToPage(ctx, 1))
	assert.Equal(t, call{ModeSearch, "item-1", 1}, src.lastCall())
}

func TestSearchAndFilterAreExclusive(t *testing.T) {
	src := newFakeSource(0)
	src.items = []string{"cuisine:a", "cuisine:b", "beaute:c"}
	b := New[string](src, Options[string]{PageSize: 9})
	ctx := context.Background()

	b.SetFilter(ctx, "cuisine")
	s := b.State()
	assert.Equal(t, ModeFilter, s.Mode)
	assert.Equal(t, "cuisine", s.ActiveFilter)
	assert.Len(t, s.Items, 2)

	b.SubmitSearch(ctx, "beaute")
	s = b.State()
	assert.Equal(t, ModeSearch, s.Mode)
	assert.Equal(t, "beaute", s.SearchQuery)
	assert.Empty(t, s.ActiveFilter)
	assert.Len(t, s.Items, 1)

	b.SetFilter(ctx, "cuisine")
	assert.Empty(t, b.State().SearchQuery)

	b.SetFilter(ctx, "ALL")
	assert.Equal(t, ModeList, b.State().Mode)
	assert.Equal(t, call{ModeList, "", 0}, src.lastCall())

	b.SubmitSearch(ctx, "   ")
	assert.Equal(t, ModeList, b.State().Mode)

	b.SubmitSearch(ctx, "a")
	b.ClearSearch(ctx)
	s = b.State()
	assert.Equal(t, ModeList, s.Mode)
	assert.Empty(t, s.SearchQuery)
}

func TestFailureClassification(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus Status
		wantError  string
		wantNotice string
	}{
		{
			name:       "envelope failure with message",
			err:        &client.APIError{StatusCode: 200, Message: "Catalogue indisponible"},
			wantStatus: StatusErrored,
			wantError:  "Catalogue indisponible",
		},
		{
			name:       "envelope failure without message",
			err:        &client.APIError{StatusCode: 200},
			wantStatus: StatusErrored,
			wantError:  FormationMessages.Default,
		},
		{
			name:       "network",
			err:        &client.TransportError{Err: errors.New("connection refused")},
			wantStatus: StatusErrored,
			wantError:  FormationMessages.Network,
		},
		{
			name:       "server",
			err:        &client.TransportError{StatusCode: http.StatusBadGateway},
			wantStatus: StatusErrored,
			wantError:  FormationMessages.Server,
		},
		{
			name:       "not found is a notice",
			err:        &client.TransportError{StatusCode: http.StatusNotFound},
			wantStatus: StatusLoaded,
			wantNotice: FormationMessages.Empty,
		},
		{
			name:       "other status",
			err:        &client.TransportError{StatusCode: http.StatusBadRequest},
			wantStatus: StatusErrored,
			wantError:  FormationMessages.Generic,
		},
		{
			name:       "unknown error",
			err:        errors.New("boom"),
			wantStatus: StatusErrored,
			wantError:  FormationMessages.Generic,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newFakeSource(12)
			b := New[string](src, Options[string]{PageSize: 9})
			ctx := context.Background()
			b.Mount(ctx)
			require.NotEmpty(t, b.State().Items)

			src.err = tt.err
			b.Refresh(ctx)

			s := b.State()
			assert.Equal(t, tt.wantStatus, s.Status)
			assert.Equal(t, tt.wantError, s.ErrorMessage)
			assert.Equal(t, tt.wantNotice, s.Notice)
			assert.Empty(t, s.Items)
			assert.False(t, s.IsLoading)
		})
	}
}

func TestSuccessWithoutData(t *testing.T) {
	src := newFakeSource(3)
	src.nilPage = true
	b := New[string](src, Options[string]{})
	b.Mount(context.Background())

	s := b.State()
	assert.Equal(t, StatusLoaded, s.Status)
	assert.Empty(t, s.Items)
	assert.Equal(t, 1, s.TotalPages)
}

func TestRetryRestartsCurrentIntentAtFirstPage(t *testing.T) {
	src := newFakeSource(30)
	b := New[string](src, Options[string]{PageSize: 5})
	ctx := context.Background()

	b.SubmitSearch(ctx, "item")
	require.True(t, b.GoToPage(ctx, 3))

	src.err = &client.TransportError{}
	b.GoToPage(ctx, 4)
	require.Equal(t, StatusErrored, b.State().Status)

	src.err = nil
	b.Retry(ctx)
	assert.Equal(t, call{ModeSearch, "item", 0}, src.lastCall())
	assert.Equal(t, StatusLoaded, b.State().Status)
}

func TestFailureClearsPagination(t *testing.T) {
	src := newFakeSource(25)
	b := New[string](src, Options[string]{PageSize: 10})
	ctx := context.Background()

	b.Mount(ctx)
	require.True(t, b.GoToPage(ctx, 1))
	require.Equal(t, 3, b.State().TotalPages)

	src.err = &client.TransportError{StatusCode: 0}
	b.Retry(ctx)

	s := b.State()
	assert.Equal(t, StatusErrored, s.Status)
	assert.Empty(t, s.Items)
	assert.Equal(t, 0, s.PageNumber)
	assert.Equal(t, 0, s.TotalPages)
	assert.Equal(t, int64(0), s.TotalElements)

	calls := src.callCount()
	assert.False(t, b.GoToPage(ctx, 1))
	assert.Equal(t, calls, src.callCount())
}

func TestRefreshClampsToLastPage(t *testing.T) {
	src := newFakeSource(11)
	b := New[string](src, Options[string]{PageSize: 5})
	ctx := context.Background()

	b.Mount(ctx)
	require.True(t, b.GoToPage(ctx, 2))
	require.Len(t, b.State().Items, 1)

	// the only item of the last page is deleted
	src.mu.Lock()
	src.items = src.items[:10]
	src.mu.Unlock()

	b.Refresh(ctx)
	s := b.State()
	assert.Equal(t, 1, s.PageNumber)
	assert.Equal(t, 2, s.TotalPages)
	assert.Len(t, s.Items, 5)

	src.mu.Lock()
	src.items = nil
	src.mu.Unlock()
	b.Refresh(ctx)
	s = b.State()
	assert.Equal(t, 0, s.PageNumber)
	assert.Empty(t, s.Items)
	assert.Equal(t, StatusLoaded, s.Status)
}

func TestStaleResponsesAreDiscarded(t *testing.T) {
	src := newFakeSource(0)
	src.items = []string{"alpha", "beta"}
	b := New[string](src, Options[string]{PageSize: 9})
	ctx := context.Background()

	hold, entered := make(chan struct{}), make(chan struct{})
	src.mu.Lock()
	src.hold, src.entered = hold, entered
	src.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.SubmitSearch(ctx, "alpha")
		close(done)
	}()
	<-entered

	b.SubmitSearch(ctx, "beta")
	require.Equal(t, []string{"beta"}, b.State().Items)

	close(hold)
	<-done

	s := b.State()
	assert.Equal(t, []string{"beta"}, s.Items)
	assert.Equal(t, "beta", s.SearchQuery)
}

func TestSearchInputIsDebounced(t *testing.T) {
	src := newFakeSource(0)
	src.items = []string{"cuisine", "coiffure", "couture"}
	b := New[string](src, Options[string]{PageSize: 9, Debounce: 300 * time.Millisecond})
	t.Cleanup(b.Close)
	ctx := context.Background()

	b.OnSearchInput(ctx, "c")
	b.OnSearchInput(ctx, "co")
	b.OnSearchInput(ctx, "cou")

	assert.Equal(t, 0, src.callCount())
	require.Eventually(t, func() bool { return src.callCount() == 1 }, 2*time.Second, 20*time.Millisecond)
	assert.Equal(t, call{ModeSearch, "cou", 0}, src.lastCall())
	assert.Eventually(t, func() bool {
		s := b.State()
		return s.Status == StatusLoaded && len(s.Items) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestSubmitCancelsPendingDebounce(t *testing.T) {
	src := newFakeSource(5)
	b := New[string](src, Options[string]{Debounce: 300 * time.Millisecond})
	ctx := context.Background()

	b.OnSearchInput(ctx, "item-0")
	b.SubmitSearch(ctx, "item-1")
	time.Sleep(400 * time.Millisecond)

	assert.Equal(t, 1, src.callCount())
	assert.Equal(t, "item-1", b.State().SearchQuery)
}

func TestLateDebounceCallbackKeepsNewerInput(t *testing.T) {
	src := newFakeSource(0)
	src.items = []string{"ab-1", "abc-2"}
	b := New[string](src, Options[string]{PageSize: 9, Debounce: 300 * time.Millisecond})
	t.Cleanup(b.Close)
	ctx := context.Background()

	b.OnSearchInput(ctx, "ab")
	b.mu.Lock()
	first := b.debounce
	b.mu.Unlock()
	b.OnSearchInput(ctx, "abc")

	// the first timer fired before the second input and runs only now
	b.fireDebounce(ctx, first, "ab")
	assert.Equal(t, 0, src.callCount())

	require.Eventually(t, func() bool { return src.callCount() == 1 }, 2*time.Second, 20*time.Millisecond)
	assert.Equal(t, call{ModeSearch, "abc", 0}, src.lastCall())
	assert.Eventually(t, func() bool {
		s := b.State()
		return s.SearchQuery == "abc" && s.Status == StatusLoaded
	}, time.Second, 10*time.Millisecond)
}

func TestDebounceIsClamped(t *testing.T) {
	assert.Equal(t, DefaultDebounce, New[string](newFakeSource(0), Options[string]{}).opts.Debounce)
	assert.Equal(t, MinDebounce, New[string](newFakeSource(0), Options[string]{Debounce: time.Millisecond}).opts.Debounce)
	assert.Equal(t, MaxDebounce, New[string](newFakeSource(0), Options[string]{Debounce: time.Minute}).opts.Debounce)
}

func TestOnChangeReceivesSettledStates(t *testing.T) {
	var states []State[string]
	b := New[string](newFakeSource(4), Options[string]{OnChange: func(s State[string]) { states = append(states, s) }})
	b.Mount(context.Background())

	require.Len(t, states, 1)
	assert.Equal(t, StatusLoaded, states[0].Status)
	assert.Len(t, states[0].Items, 4)
}

func TestVisiblePages(t *testing.T) {
	tests := []struct {
		current, total int
		want           []int
	}{
		{current: 0, total: 0, want: []int{}},
		{current: 0, total: 5, want: []int{0, 1, 2, 3, 4}},
		{current: 0, total: 20, want: []int{0, 1, 2, 3, Ellipsis, 19}},
		{current: 10, total: 20, want: []int{0, Ellipsis, 7, 8, 9, 10, 11, 12, 13, Ellipsis, 19}},
		{current: 19, total: 20, want: []int{0, Ellipsis, 16, 17, 18, 19}},
		{current: 4, total: 10, want: []int{0, 1, 2, 3, 4, 5, 6, 7, Ellipsis, 9}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_of_%d", tt.current, tt.total), func(t *testing.T) {
			assert.Equal(t, tt.want, visiblePages(tt.current, tt.total, 7))
		})
	}
}
