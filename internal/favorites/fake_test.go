package favorites

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/shilpkaar/marketplace-api/internal/client"
)

// fakeRemote models the favorites resource in memory: a catalog of known
// products and the user's favorites, newest first.
type fakeRemote struct {
	mu       sync.Mutex
	catalog  map[string]bool
	list     []client.Favorite
	seq      int
	calls    []string
	failures map[string]error // op -> forced error

	// gate, when set for an op, blocks that op until the channel is closed.
	// entered receives one value per blocked call.
	gate    map[string]chan struct{}
	entered chan string

	// snapshotEarly makes list read the favorites before waiting on its
	// gate, like a response already on the wire.
	snapshotEarly bool
}

func newFakeRemote(products ...string) *fakeRemote {
	f := &fakeRemote{
		catalog:  map[string]bool{},
		failures: map[string]error{},
		gate:     map[string]chan struct{}{},
		entered:  make(chan string, 16),
	}
	for _, p := range products {
		f.catalog[p] = true
	}
	return f
}

// seed puts favorites on the server, oldest first.
func (f *fakeRemote) seed(ids ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		f.catalog[id] = true
		f.insertLocked(id)
	}
}

func (f *fakeRemote) insertLocked(pid string) client.Favorite {
	f.seq++
	fav := client.Favorite{
		ID:        fmt.Sprintf("fav-%d", f.seq),
		UserID:    "u1",
		ProductID: pid,
		AddedAt:   time.Date(2026, 1, 1, 0, 0, f.seq, 0, time.UTC),
		Product:   client.Product{ID: pid, Name: "Product " + pid, Price: 100},
	}
	f.list = append([]client.Favorite{fav}, f.list...)
	return fav
}

func (f *fakeRemote) indexLocked(pid string) int {
	for i, fav := range f.list {
		if fav.ProductID == pid {
			return i
		}
	}
	return -1
}

func (f *fakeRemote) fail(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[op] = err
}

func (f *fakeRemote) block(op string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gate[op] = ch
	return ch
}

func (f *fakeRemote) answerEarly() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshotEarly = true
}

func (f *fakeRemote) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// enter records the call, waits on the op's gate and returns the forced error.
func (f *fakeRemote) enter(ctx context.Context, op, arg string) error {
	f.mu.Lock()
	f.calls = append(f.calls, op+" "+arg)
	gate := f.gate[op]
	f.mu.Unlock()

	if gate != nil {
		f.entered <- op
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failures[op]
}

func apiErr(status int) error { return &client.APIError{Status: status, Message: http.StatusText(status)} }

func (f *fakeRemote) ListFavorites(ctx context.Context, page, pageSize int) (client.FavoritePage, error) {
	f.mu.Lock()
	early, snapshot := f.pageLocked(page, pageSize), f.snapshotEarly
	f.mu.Unlock()

	if err := f.enter(ctx, "list", fmt.Sprintf("%d/%d", page, pageSize)); err != nil {
		return client.FavoritePage{}, err
	}
	if snapshot {
		return early, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pageLocked(page, pageSize), nil
}

func (f *fakeRemote) pageLocked(page, pageSize int) client.FavoritePage {
	n := len(f.list)
	if n > pageSize {
		n = pageSize
	}
	return client.FavoritePage{
		Favorites:  append([]client.Favorite(nil), f.list[:n]...),
		Pagination: client.Pagination{Page: page, PageSize: pageSize, Total: int64(len(f.list))},
	}
}

func (f *fakeRemote) AddFavorite(ctx context.Context, pid string) (client.Favorite, error) {
	if err := f.enter(ctx, "add", pid); err != nil {
		return client.Favorite{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.catalog[pid] {
		return client.Favorite{}, apiErr(http.StatusNotFound)
	}
	if f.indexLocked(pid) >= 0 {
		return client.Favorite{}, apiErr(http.StatusBadRequest)
	}
	return f.insertLocked(pid), nil
}

func (f *fakeRemote) RemoveFavorite(ctx context.Context, pid string) error {
	if err := f.enter(ctx, "remove", pid); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexLocked(pid)
	if i < 0 {
		return apiErr(http.StatusNotFound)
	}
	f.list = append(f.list[:i:i], f.list[i+1:]...)
	return nil
}

func (f *fakeRemote) ToggleFavorite(ctx context.Context, pid string) (bool, error) {
	if err := f.enter(ctx, "toggle", pid); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.catalog[pid] {
		return false, apiErr(http.StatusNotFound)
	}
	if i := f.indexLocked(pid); i >= 0 {
		f.list = append(f.list[:i:i], f.list[i+1:]...)
		return false, nil
	}
	f.insertLocked(pid)
	return true, nil
}

func (f *fakeRemote) CountFavorites(ctx context.Context) (int64, error) {
	if err := f.enter(ctx, "count", ""); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.list)), nil
}
