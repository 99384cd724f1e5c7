package favorites

import "github.com/shilpkaar/marketplace-api/internal/client"

// Phase is the store's sync status as seen by a UI.
type Phase string

const (
	PhaseUnauthenticated Phase = "unauthenticated" // never synced
	PhaseLoading         Phase = "loading"         // refresh in flight
	PhasePopulated       Phase = "populated"       // mirrors the server's first page
	PhaseEmpty           Phase = "empty"           // cleared after having synced
	PhaseError           Phase = "error"           // last refresh failed; cache is stale
)

// state is the cache. ids is always the set of product ids in favorites;
// only withFavorites builds it.
type state struct {
	favorites []client.Favorite
	ids       map[string]struct{}
	err       string
	loading   bool
	phase     Phase
	// epoch increments on every clear so responses that started before a
	// logout are dropped instead of repopulating the cache.
	epoch uint64
	// rev increments on every confirmed mutation. A list fetched at an
	// older rev predates that mutation and is discarded.
	rev uint64
	// pending counts refreshes started and not yet settled.
	pending int
	// synced is set once a list has been applied since the last clear.
	synced bool
}

func initialState() state {
	return state{ids: map[string]struct{}{}, phase: PhaseUnauthenticated}
}

// withFavorites returns s holding list, with ids recomputed from it.
func (s state) withFavorites(list []client.Favorite) state {
	s.favorites = list
	s.ids = make(map[string]struct{}, len(list))
	for _, f := range list {
		s.ids[productID(f)] = struct{}{}
	}
	return s
}

// productID is the product a favorite points at. The embedded product wins
// when both are present.
func productID(f client.Favorite) string {
	if f.Product.ID != "" {
		return f.Product.ID
	}
	return f.ProductID
}

type event interface{ isEvent() }

// refreshed carries a fetched list and the rev its fetch started at.
type refreshed struct {
	list []client.Favorite
	rev  uint64
}

type (
	refreshStarted struct{}
	refreshFailed  struct{ msg string }
	refreshAborted struct{}
	cleared        struct{}
	added          struct{ fav client.Favorite }
	removed        struct{ productID string }
	invalidated    struct{}
	failed         struct{ msg string }
	errorCleared   struct{}
)

func (refreshStarted) isEvent() {}
func (refreshed) isEvent()      {}
func (refreshFailed) isEvent()  {}
func (refreshAborted) isEvent() {}
func (cleared) isEvent()        {}
func (added) isEvent()          {}
func (removed) isEvent()        {}
func (failed) isEvent()         {}
func (errorCleared) isEvent()   {}
func (invalidated) isEvent()    {}

// reduce applies e to s and returns the next state. It never mutates s's
// slice or map, so snapshots taken earlier stay valid.
func reduce(s state, e event) state {
	switch e := e.(type) {
	case refreshStarted:
		s.err = ""
		s.pending++
		s.loading = true
		s.phase = PhaseLoading

	case refreshed:
		s = s.settle()
		if e.rev != s.rev {
			// fetched before a mutation the cache already reflects
			if !s.loading {
				s.phase = settledPhase(s)
			}
			break
		}
		s = s.withFavorites(append([]client.Favorite(nil), e.list...))
		s.synced = true
		if !s.loading {
			s.phase = PhasePopulated
		}

	case refreshFailed:
		s = s.settle()
		s.err = e.msg
		if !s.loading {
			s.phase = PhaseError
		}

	case refreshAborted:
		s = s.settle()
		if !s.loading {
			s.phase = settledPhase(s)
		}

	case cleared:
		if s.phase != PhaseUnauthenticated || len(s.favorites) > 0 {
			s.phase = PhaseEmpty
		}
		s = s.withFavorites(nil)
		s.err = ""
		s.loading = false
		s.pending = 0
		s.synced = false
		s.epoch++

	case added:
		pid := productID(e.fav)
		next := make([]client.Favorite, 0, len(s.favorites)+1)
		next = append(next, e.fav)
		for _, f := range s.favorites {
			if productID(f) != pid {
				next = append(next, f)
			}
		}
		s = s.withFavorites(next)
		s.rev++
		if !s.loading && s.phase != PhaseError {
			s.phase = PhasePopulated
		}

	case removed:
		next := make([]client.Favorite, 0, len(s.favorites))
		for _, f := range s.favorites {
			if f.Product.ID != e.productID && f.ProductID != e.productID {
				next = append(next, f)
			}
		}
		s = s.withFavorites(next)
		s.rev++

	case invalidated:
		s.rev++

	case failed:
		s.err = e.msg

	case errorCleared:
		s.err = ""
	}
	return s
}

// settle marks one pending refresh as finished.
func (s state) settle() state {
	if s.pending > 0 {
		s.pending--
	}
	s.loading = s.pending > 0
	return s
}

// settledPhase is the phase to fall back to when a refresh is abandoned.
func settledPhase(s state) Phase {
	switch {
	case len(s.favorites) > 0, s.synced:
		return PhasePopulated
	case s.epoch > 0:
		return PhaseEmpty
	default:
		return PhaseUnauthenticated
	}
}
