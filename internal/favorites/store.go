// Package favorites keeps a client-local mirror of the signed-in user's
// favorites, reconciled against the remote favorites resource.
//
// Updates are applied after the server confirms them: a call issues the
// request and, once it resolves, feeds the result through reduce. Nothing is
// rolled back because nothing is applied speculatively.
//
// The store follows the session. It makes no remote call while the session
// is resolving, refreshes when a user signs in and clears without a network
// call when they sign out.
package favorites

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/shilpkaar/marketplace-api/internal/client"
	"github.com/shilpkaar/marketplace-api/internal/config"
	"github.com/shilpkaar/marketplace-api/internal/session"
)

// Remote is the favorites resource. *client.Client implements it.
type Remote interface {
	ListFavorites(ctx context.Context, page, pageSize int) (client.FavoritePage, error)
	AddFavorite(ctx context.Context, productID string) (client.Favorite, error)
	RemoveFavorite(ctx context.Context, productID string) error
	ToggleFavorite(ctx context.Context, productID string) (bool, error)
	CountFavorites(ctx context.Context) (int64, error)
}

// Auth is the authentication state the store reacts to. *session.Session
// implements it.
type Auth interface {
	State() session.State
	Subscribe(fn session.Listener) (unsubscribe func())
}

// BestEffort operations never fail. They degrade to a zero value, which
// suits display-only decoration such as a badge count.
type BestEffort interface {
	Count(ctx context.Context) int
}

var _ BestEffort = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option { return func(s *Store) { s.log = l } }

// WithTimeout bounds each remote call. Default client.DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithPageSize sets how many favorites a refresh fetches, capped at
// config.MaxFavoritesPage. Only the first page is ever fetched.
func WithPageSize(n int) Option {
	return func(s *Store) {
		if n > 0 && n <= config.MaxFavoritesPage {
			s.pageSize = n
		}
	}
}

// Store is safe for concurrent use. Build one per session with New and
// release it with Close.
type Store struct {
	remote   Remote
	auth     Auth
	log      zerolog.Logger
	timeout  time.Duration
	pageSize int

	mu sync.RWMutex
	st state

	// flights coalesces concurrent calls for the same operation and product.
	flights singleflight.Group

	ctx         context.Context // parent for refreshes started by sign-in
	cancel      context.CancelFunc
	unsubscribe func()
}

// New builds a store and subscribes it to auth. It does no I/O; call
// Refresh if the session is already signed in.
func New(remote Remote, auth Auth, opts ...Option) *Store {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		remote:   remote,
		auth:     auth,
		log:      zerolog.Nop(),
		timeout:  client.DefaultTimeout,
		pageSize: config.MaxFavoritesPage,
		st:       initialState(),
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, o := range opts {
		o(s)
	}
	s.unsubscribe = auth.Subscribe(s.onAuth)
	return s
}

// Close detaches the store from the session, aborts refreshes it started
// and drops the cache.
func (s *Store) Close() {
	s.unsubscribe()
	s.cancel()
	s.dispatch(cleared{})
}

// onAuth reacts to session transitions.
func (s *Store) onAuth(prev, next session.State) {
	switch {
	case next.Loading:
		// wait for the status to resolve
	case !next.Authenticated:
		if prev.Authenticated {
			s.log.Debug().Msg("favorites: signed out, clearing")
			s.dispatch(cleared{})
		}
	case !prev.Authenticated || prev.UserID != next.UserID:
		if prev.UserID != "" && prev.UserID != next.UserID {
			s.dispatch(cleared{})
		}
		s.log.Debug().Str("user_id", next.UserID).Msg("favorites: signed in, refreshing")
		_ = s.Refresh(s.ctx)
	}
}

// ready reports whether remote calls are allowed right now.
func (s *Store) ready() bool {
	st := s.auth.State()
	return st.Authenticated && !st.Loading
}

func (s *Store) dispatch(e event) {
	s.mu.Lock()
	s.st = reduce(s.st, e)
	s.mu.Unlock()
}

// dispatchAt applies e only if no clear happened since epoch was read.
func (s *Store) dispatchAt(epoch uint64, e event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st.epoch != epoch {
		return false
	}
	s.st = reduce(s.st, e)
	return true
}

// begin clears the previous error and returns the epoch the attempt runs in.
func (s *Store) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st = reduce(s.st, errorCleared{})
	return s.st.epoch
}

// call bounds one remote call by the store timeout.
func (s *Store) call(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return fn(ctx)
}

// share runs fn once for all concurrent callers using key. Each caller stops
// waiting when its own ctx ends; the shared call runs under the first
// caller's ctx.
func (s *Store) share(ctx context.Context, key string, fn func() (any, error)) (any, error) {
	ch := s.flights.DoChan(key, fn)
	select {
	case r := <-ch:
		return r.Val, r.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Refresh replaces the cache with the first page of the user's favorites.
//
// Signed out, it clears the cache without a call. While the session is
// resolving it does nothing. A 401 is treated as "no favorites". Any other
// failure keeps the last known list and is surfaced through Err and Phase,
// not returned. The only error returned is ctx's own.
func (s *Store) Refresh(ctx context.Context) error {
	switch st := s.auth.State(); {
	case !st.Authenticated:
		s.dispatch(cleared{})
		return nil
	case st.Loading:
		return nil
	}
	_, err := s.share(ctx, "refresh", func() (any, error) {
		s.refresh(ctx)
		return nil, nil
	})
	return err
}

func (s *Store) refresh(ctx context.Context) {
	s.mu.Lock()
	s.st = reduce(s.st, refreshStarted{})
	epoch, rev := s.st.epoch, s.st.rev
	s.mu.Unlock()

	var page client.FavoritePage
	err := s.call(ctx, func(ctx context.Context) error {
		var err error
		page, err = s.remote.ListFavorites(ctx, 1, s.pageSize)
		return err
	})
	switch {
	case err == nil:
		if s.dispatchAt(epoch, refreshed{list: page.Favorites, rev: rev}) {
			s.log.Debug().Int("count", len(page.Favorites)).Msg("favorites: refreshed")
		}
	case client.IsStatus(err, http.StatusUnauthorized):
		s.log.Debug().Msg("favorites: refresh unauthorized, treating as empty")
		s.dispatch(cleared{})
	case ctx.Err() != nil:
		s.dispatchAt(epoch, refreshAborted{})
	default:
		s.log.Warn().Err(err).Msg("favorites: refresh failed")
		s.dispatchAt(epoch, refreshFailed{msg: msgRefreshFailed})
	}
}

// Add favorites productID and prepends the server's record to the cache.
// The failure is recorded in Err and returned.
func (s *Store) Add(ctx context.Context, productID string) error {
	if err := s.guard("add"); err != nil {
		return err
	}
	_, err := s.share(ctx, "add:"+productID, func() (any, error) {
		epoch := s.begin()
		var fav client.Favorite
		err := s.call(ctx, func(ctx context.Context) error {
			var err error
			fav, err = s.remote.AddFavorite(ctx, productID)
			return err
		})
		if err != nil {
			return nil, s.fail(epoch, opError("add", err, addKinds, msgAddFailed))
		}
		if fav.ProductID == "" {
			fav.ProductID = productID
		}
		s.dispatchAt(epoch, added{fav: fav})
		return nil, nil
	})
	return err
}

// Remove deletes the favorite for productID and drops it from the cache.
// The failure is recorded in Err and returned.
func (s *Store) Remove(ctx context.Context, productID string) error {
	if err := s.guard("remove"); err != nil {
		return err
	}
	_, err := s.share(ctx, "remove:"+productID, func() (any, error) {
		epoch := s.begin()
		err := s.call(ctx, func(ctx context.Context) error {
			return s.remote.RemoveFavorite(ctx, productID)
		})
		if err != nil {
			return nil, s.fail(epoch, opError("remove", err, removeKinds, msgRemoveFailed))
		}
		s.dispatchAt(epoch, removed{productID: productID})
		return nil, nil
	})
	return err
}

// Toggle flips productID server-side and returns the resulting state. Turning
// it on refreshes the whole list, since the server answers with a flag and
// not the record. Turning it off removes it locally.
func (s *Store) Toggle(ctx context.Context, productID string) (bool, error) {
	if err := s.guard("toggle"); err != nil {
		return false, err
	}
	v, err := s.share(ctx, "toggle:"+productID, func() (any, error) {
		epoch := s.begin()
		var on bool
		err := s.call(ctx, func(ctx context.Context) error {
			var err error
			on, err = s.remote.ToggleFavorite(ctx, productID)
			return err
		})
		if err != nil {
			return false, s.fail(epoch, opError("toggle", err, toggleKinds, msgToggleFailed))
		}
		if on {
			// A refresh already in flight read the list before this toggle.
			// Mark it stale and fetch again.
			s.dispatchAt(epoch, invalidated{})
			s.flights.Forget("refresh")
			_ = s.Refresh(ctx)
			return true, nil
		}
		s.dispatchAt(epoch, removed{productID: productID})
		return false, nil
	})
	on, _ := v.(bool)
	return on, err
}

// Count asks the server how many favorites the user has. It returns 0 when
// signed out or on any failure.
func (s *Store) Count(ctx context.Context) int {
	if !s.ready() {
		return 0
	}
	var n int64
	err := s.call(ctx, func(ctx context.Context) error {
		var err error
		n, err = s.remote.CountFavorites(ctx)
		return err
	})
	if err != nil {
		s.log.Debug().Err(err).Msg("favorites: count unavailable")
		return 0
	}
	return int(n)
}

// guard rejects mutations while signed out, before any network call.
func (s *Store) guard(op string) error {
	if s.ready() {
		return nil
	}
	e := &Error{Op: op, Message: msgNotAuthenticated, Kind: ErrNotAuthenticated}
	s.dispatch(failed{msg: e.Message})
	return e
}

func (s *Store) fail(epoch uint64, e *Error) error {
	if errors.Is(e.Cause, context.Canceled) {
		return e
	}
	s.log.Warn().Err(e.Cause).Str("op", e.Op).Msg("favorites: " + e.Message)
	s.dispatchAt(epoch, failed{msg: e.Message})
	return e
}

// IsFavorited is a local lookup.
func (s *Store) IsFavorited(productID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.st.ids[productID]
	return ok
}

// Favorites returns a copy of the cached list, newest first.
func (s *Store) Favorites() []client.Favorite {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]client.Favorite(nil), s.st.favorites...)
}

// FavoriteIDs returns the cached product ids in list order.
func (s *Store) FavoriteIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.st.favorites))
	for _, f := range s.st.favorites {
		out = append(out, productID(f))
	}
	return out
}

// Err is the last recorded user-facing error, or "".
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.err
}

// ClearError drops the recorded error.
func (s *Store) ClearError() { s.dispatch(errorCleared{}) }

// Loading reports whether a refresh is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.loading
}

// Phase reports the sync status.
func (s *Store) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.phase
}
