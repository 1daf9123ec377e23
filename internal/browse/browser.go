// Package browse holds the pagination, search and filter state of a catalog
// listing and keeps it in sync with the API.
package browse

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/institut/vitrine/internal/client"
	"github.com/institut/vitrine/internal/pkg/logger"
)

// Source is one endpoint family able to serve the three listing intents.
type Source[T any] interface {
	ListPage(ctx context.Context, req client.PageRequest) (*client.Page[T], error)
	SearchPage(ctx context.Context, query string, req client.PageRequest) (*client.Page[T], error)
	FilterByCategory(ctx context.Context, category string, req client.PageRequest) (*client.Page[T], error)
}

// Status is the lifecycle of the listing.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusErrored Status = "errored"
)

// Mode is the intent the current page was fetched for.
type Mode string

const (
	ModeList   Mode = "list"
	ModeSearch Mode = "search"
	ModeFilter Mode = "filter"
)

const (
	DefaultDebounce = 400 * time.Millisecond
	MinDebounce     = 300 * time.Millisecond
	MaxDebounce     = 500 * time.Millisecond
)

// Messages are the texts shown to the reader for each failure class.
type Messages struct {
	Default string // success=false without a message
	Network string
	Server  string
	Empty   string // 404: nothing to show, not an error
	Generic string
}

// FormationMessages are the texts of the formation listings.
var FormationMessages = Messages{
	Default: "Aucune formation trouvée.",
	Network: "Problème de connexion. Vérifiez votre connexion internet.",
	Server:  "Erreur du serveur. Veuillez réessayer plus tard.",
	Empty:   "Aucune formation disponible pour le moment.",
	Generic: "Erreur lors du chargement des formations.",
}

// GalleryMessages are the texts of the gallery listings.
var GalleryMessages = Messages{
	Default: "Aucune image trouvée.",
	Network: "Problème de connexion. Vérifiez votre connexion internet.",
	Server:  "Erreur du serveur. Veuillez réessayer plus tard.",
	Empty:   "Aucune image disponible pour le moment.",
	Generic: "Erreur lors du chargement des images.",
}

// InboxMessages are the texts of the received messages listing.
var InboxMessages = Messages{
	Default: "Aucun message trouvé.",
	Network: "Problème de connexion. Vérifiez votre connexion internet.",
	Server:  "Erreur du serveur. Veuillez réessayer plus tard.",
	Empty:   "Aucun message pour le moment.",
	Generic: "Erreur lors du chargement des messages.",
}

// State is a snapshot of a listing.
type State[T any] struct {
	Status        Status
	Items         []T
	PageNumber    int
	PageSize      int
	TotalPages    int
	TotalElements int64
	IsLoading     bool
	ErrorMessage  string
	Notice        string
	SearchQuery   string
	ActiveFilter  string
	Mode          Mode
}

// Options configures a Browser.
type Options[T any] struct {
	PageSize int
	// Debounce delays OnSearchInput; it is kept within 300-500ms.
	Debounce time.Duration
	Messages Messages
	// OnNavigate runs after a successful page change, e.g. to scroll to the top.
	// Its errors are logged and never surfaced.
	OnNavigate func(page int) error
	// OnChange receives every state the browser settles in.
	OnChange func(State[T])
}

type intent struct {
	mode   Mode
	query  string
	filter string
}

// Browser is the state machine behind one listing. Requests run outside the
// lock; a response only lands if no newer request was dispatched meanwhile.
type Browser[T any] struct {
	src  Source[T]
	opts Options[T]

	mu       sync.Mutex
	state    State[T]
	current  intent
	token    uint64
	timer    *time.Timer
	debounce uint64 // generation of the pending timer
}

func New[T any](src Source[T], opts Options[T]) *Browser[T] {
	if opts.PageSize <= 0 {
		opts.PageSize = 9
	}
	switch {
	case opts.Debounce <= 0:
		opts.Debounce = DefaultDebounce
	case opts.Debounce < MinDebounce:
		opts.Debounce = MinDebounce
	case opts.Debounce > MaxDebounce:
		opts.Debounce = MaxDebounce
	}
	if opts.Messages == (Messages{}) {
		opts.Messages = FormationMessages
	}
	return &Browser[T]{
		src:     src,
		opts:    opts,
		current: intent{mode: ModeList},
		state: State[T]{
			Status:   StatusIdle,
			Items:    []T{},
			PageSize: opts.PageSize,
			Mode:     ModeList,
		},
	}
}

// State returns a copy of the current state.
func (b *Browser[T]) State() State[T] {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshot()
}

func (b *Browser[T]) snapshot() State[T] {
	s := b.state
	s.Items = append([]T(nil), b.state.Items...)
	if s.Items == nil {
		s.Items = []T{}
	}
	return s
}

// Mount loads the first page of the plain listing.
func (b *Browser[T]) Mount(ctx context.Context) {
	b.dispatch(ctx, intent{mode: ModeList}, 0)
}

// GoToPage loads page n of the current intent. It is a no-op returning false
// unless 0 <= n < TotalPages.
func (b *Browser[T]) GoToPage(ctx context.Context, n int) bool {
	b.mu.Lock()
	total := b.state.TotalPages
	current := b.current
	b.mu.Unlock()

	if n < 0 || n >= total {
		return false
	}
	if !b.dispatch(ctx, current, n) {
		return false
	}
	if b.opts.OnNavigate != nil {
		if err := b.opts.OnNavigate(n); err != nil {
			logger.Warn().Err(err).Int("page", n).Msg("Navigation hook failed")
		}
	}
	return true
}

// SubmitSearch searches from page 0; a blank query goes back to the plain listing.
func (b *Browser[T]) SubmitSearch(ctx context.Context, query string) {
	b.stopTimer()
	query = strings.TrimSpace(query)
	if query == "" {
		b.dispatch(ctx, intent{mode: ModeList}, 0)
		return
	}
	b.dispatch(ctx, intent{mode: ModeSearch, query: query}, 0)
}

// OnSearchInput submits the query once typing pauses for the debounce delay.
func (b *Browser[T]) OnSearchInput(ctx context.Context, query string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state.SearchQuery = query
	if b.timer != nil {
		b.timer.Stop()
	}
	b.debounce++
	gen := b.debounce
	b.timer = time.AfterFunc(b.opts.Debounce, func() {
		b.fireDebounce(ctx, gen, query)
	})
}

// fireDebounce submits query unless newer input replaced its timer. It only
// clears the timer it was started by.
func (b *Browser[T]) fireDebounce(ctx context.Context, gen uint64, query string) {
	b.mu.Lock()
	if gen != b.debounce {
		b.mu.Unlock()
		return
	}
	b.timer = nil
	b.mu.Unlock()

	query = strings.TrimSpace(query)
	if query == "" {
		b.dispatch(ctx, intent{mode: ModeList}, 0)
		return
	}
	b.dispatch(ctx, intent{mode: ModeSearch, query: query}, 0)
}

// ClearSearch empties the query and goes back to the plain listing.
func (b *Browser[T]) ClearSearch(ctx context.Context) {
	b.stopTimer()
	b.dispatch(ctx, intent{mode: ModeList}, 0)
}

// SetFilter narrows the listing from page 0; "" or "all" goes back to the plain listing.
func (b *Browser[T]) SetFilter(ctx context.Context, filter string) {
	filter = strings.TrimSpace(filter)
	if filter == "" || strings.EqualFold(filter, "all") {
		b.dispatch(ctx, intent{mode: ModeList}, 0)
		return
	}
	b.dispatch(ctx, intent{mode: ModeFilter, filter: filter}, 0)
}

// Retry re-issues the current intent from page 0.
func (b *Browser[T]) Retry(ctx context.Context) {
	b.mu.Lock()
	current := b.current
	b.mu.Unlock()
	b.dispatch(ctx, current, 0)
}

// Refresh re-issues the current intent at the current page. When that page
// no longer exists, e.g. after deleting the last item of the last page, the
// last existing page is loaded instead.
func (b *Browser[T]) Refresh(ctx context.Context) {
	b.mu.Lock()
	current := b.current
	page := b.state.PageNumber
	b.mu.Unlock()

	if !b.dispatch(ctx, current, page) {
		return
	}

	b.mu.Lock()
	last := max(0, b.state.TotalPages-1)
	loaded := b.state.Status == StatusLoaded
	b.mu.Unlock()
	if loaded && page > last {
		b.dispatch(ctx, current, last)
	}
}

// Close stops a pending debounced search.
func (b *Browser[T]) Close() {
	b.stopTimer()
}

func (b *Browser[T]) stopTimer() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.debounce++
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

// dispatch fetches one page for in and applies the answer if it is still the
// latest request. It reports whether the answer was applied and succeeded.
func (b *Browser[T]) dispatch(ctx context.Context, in intent, page int) bool {
	b.mu.Lock()
	b.token++
	token := b.token
	b.current = in
	b.state.Mode = in.mode
	b.state.SearchQuery = in.query
	b.state.ActiveFilter = in.filter
	b.state.PageNumber = page
	b.state.Status = StatusLoading
	b.state.IsLoading = true
	b.state.ErrorMessage = ""
	b.state.Notice = ""
	size := b.state.PageSize
	b.mu.Unlock()

	req := client.PageRequest{Page: page, Size: size}
	var (
		result *client.Page[T]
		err    error
	)
	switch in.mode {
	case ModeSearch:
		result, err = b.src.SearchPage(ctx, in.query, req)
	case ModeFilter:
		result, err = b.src.FilterByCategory(ctx, in.filter, req)
	default:
		result, err = b.src.ListPage(ctx, req)
	}

	b.mu.Lock()
	if token != b.token {
		b.mu.Unlock()
		logger.Debug().Uint64("token", token).Msg("Discarding stale listing response")
		return false
	}
	ok := b.apply(result, err)
	snapshot := b.snapshot()
	b.mu.Unlock()

	if b.opts.OnChange != nil {
		b.opts.OnChange(snapshot)
	}
	return ok
}

func (b *Browser[T]) apply(result *client.Page[T], err error) bool {
	b.state.IsLoading = false

	if err != nil {
		b.state.Items = []T{}
		message, notice := b.classify(err)
		if notice != "" {
			b.state.Status = StatusLoaded
			b.state.Notice = notice
			b.state.TotalPages = 0
			b.state.TotalElements = 0
			return true
		}
		b.state.Status = StatusErrored
		b.state.ErrorMessage = message
		b.state.PageNumber = 0
		b.state.TotalPages = 0
		b.state.TotalElements = 0
		return false
	}

	b.state.Status = StatusLoaded
	if result == nil {
		b.state.Items = []T{}
		b.state.TotalPages = 1
		b.state.TotalElements = 0
		return true
	}

	b.state.Items = append([]T{}, result.Content...)
	b.state.PageNumber = result.Number
	b.state.TotalPages = result.TotalPages
	b.state.TotalElements = result.TotalElements
	if result.Size > 0 {
		b.state.PageSize = result.Size
	}
	return true
}

// classify turns a failure into either an error message or, for a 404, a notice.
func (b *Browser[T]) classify(err error) (message, notice string) {
	msgs := b.opts.Messages

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message, ""
		}
		return msgs.Default, ""
	}

	var tErr *client.TransportError
	if errors.As(err, &tErr) {
		logger.Warn().Err(err).Int("status", tErr.StatusCode).Msg("Listing request failed")
		switch {
		case tErr.StatusCode == 0:
			return msgs.Network, ""
		case tErr.StatusCode >= http.StatusInternalServerError:
			return msgs.Server, ""
		case tErr.StatusCode == http.StatusNotFound:
			return "", msgs.Empty
		}
		return msgs.Generic, ""
	}

	logger.Warn().Err(err).Msg("Listing request failed")
	return msgs.Generic, ""
}
