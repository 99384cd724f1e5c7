package favorites

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/shilpkaar/marketplace-api/internal/client"
)

func fav(pid string) client.Favorite {
	return client.Favorite{ProductID: pid, Product: client.Product{ID: pid}}
}

func idsOf(s state) map[string]struct{} {
	out := map[string]struct{}{}
	for _, f := range s.favorites {
		out[productID(f)] = struct{}{}
	}
	return out
}

func TestReduce_IDsFollowList(t *testing.T) {
	steps := []event{
		refreshStarted{},
		refreshed{list: []client.Favorite{fav("a"), fav("b")}},
		added{fav: fav("c")},
		added{fav: fav("a")},
		removed{productID: "b"},
		failed{msg: "boom"},
		errorCleared{},
		cleared{},
		added{fav: fav("d")},
	}
	s := initialState()
	for i, e := range steps {
		s = reduce(s, e)
		if diff := cmp.Diff(idsOf(s), s.ids); diff != "" {
			t.Fatalf("step %d (%T): ids drifted (-list +ids):\n%s", i, e, diff)
		}
	}
}

func TestReduce_AddMovesToFront(t *testing.T) {
	s := reduce(initialState(), refreshed{list: []client.Favorite{fav("a"), fav("b"), fav("c")}})
	s = reduce(s, added{fav: fav("c")})

	var got []string
	for _, f := range s.favorites {
		got = append(got, productID(f))
	}
	if diff := cmp.Diff([]string{"c", "a", "b"}, got); diff != "" {
		t.Fatalf("order (-want +got):\n%s", diff)
	}
}

func TestReduce_RemoveMatchesEitherID(t *testing.T) {
	bare := client.Favorite{ProductID: "x"} // no product snapshot
	s := reduce(initialState(), refreshed{list: []client.Favorite{bare, fav("y")}})
	s = reduce(s, removed{productID: "x"})
	if _, ok := s.ids["x"]; ok || len(s.favorites) != 1 {
		t.Fatalf("x not removed: %+v", s.favorites)
	}
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	list := []client.Favorite{fav("a"), fav("b")}
	before := reduce(initialState(), refreshed{list: list})
	list[0].ProductID = "tampered"

	after := reduce(before, removed{productID: "a"})
	after = reduce(after, added{fav: fav("z")})

	if before.favorites[0].ProductID != "a" || len(before.favorites) != 2 {
		t.Fatalf("earlier state changed: %+v", before.favorites)
	}
	if _, ok := before.ids["z"]; ok {
		t.Fatal("earlier id set changed")
	}
}

func TestReduce_Phases(t *testing.T) {
	cases := []struct {
		name   string
		events []event
		want   Phase
	}{
		{"initial", nil, PhaseUnauthenticated},
		{"clear before any sync", []event{cleared{}}, PhaseUnauthenticated},
		{"loading", []event{refreshStarted{}}, PhaseLoading},
		{"populated", []event{refreshStarted{}, refreshed{list: []client.Favorite{fav("a")}}}, PhasePopulated},
		{"empty page", []event{refreshStarted{}, refreshed{}}, PhasePopulated},
		{"failed", []event{refreshStarted{}, refreshFailed{msg: "x"}}, PhaseError},
		{"cleared after sync", []event{refreshStarted{}, refreshed{}, cleared{}}, PhaseEmpty},
		{"aborted first refresh", []event{refreshStarted{}, refreshAborted{}}, PhaseUnauthenticated},
		{"aborted with cache", []event{refreshed{list: []client.Favorite{fav("a")}}, refreshStarted{}, refreshAborted{}}, PhasePopulated},
		{"mutation error keeps phase", []event{refreshed{list: []client.Favorite{fav("a")}}, failed{msg: "x"}}, PhasePopulated},
		{"add after clear", []event{refreshed{}, cleared{}, added{fav: fav("a")}}, PhasePopulated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := initialState()
			for _, e := range tc.events {
				s = reduce(s, e)
			}
			if s.phase != tc.want {
				t.Fatalf("phase = %v, want %v", s.phase, tc.want)
			}
		})
	}
}

func TestReduce_ClearBumpsEpoch(t *testing.T) {
	s := reduce(initialState(), refreshStarted{})
	e := s.epoch
	s = reduce(s, cleared{})
	if s.epoch != e+1 || s.loading || s.err != "" {
		t.Fatalf("after clear: %+v", s)
	}
}

func TestReduce_StaleListDiscarded(t *testing.T) {
	s := reduce(initialState(), refreshed{list: []client.Favorite{fav("a")}})
	s = reduce(s, refreshStarted{})
	startRev := s.rev
	s = reduce(s, added{fav: fav("b")})
	s = reduce(s, refreshed{list: []client.Favorite{fav("a")}, rev: startRev})

	if diff := cmp.Diff(map[string]struct{}{"a": {}, "b": {}}, s.ids); diff != "" {
		t.Fatalf("ids (-want +got):\n%s", diff)
	}
	if s.loading || s.phase != PhasePopulated {
		t.Fatalf("loading=%v phase=%v", s.loading, s.phase)
	}
}

func TestReduce_OverlappingRefreshesStayLoading(t *testing.T) {
	s := reduce(initialState(), refreshStarted{})
	s = reduce(s, invalidated{})
	s = reduce(s, refreshStarted{})
	fresh := s.rev

	s = reduce(s, refreshed{list: []client.Favorite{fav("a")}, rev: 0})
	if !s.loading || s.phase != PhaseLoading || len(s.favorites) != 0 {
		t.Fatalf("after stale result: %+v", s)
	}
	s = reduce(s, refreshed{list: []client.Favorite{fav("x")}, rev: fresh})
	if s.loading || s.phase != PhasePopulated || s.favorites[0].ProductID != "x" {
		t.Fatalf("after fresh result: %+v", s)
	}
}

func TestReduce_StaleEmptyAfterSyncStaysPopulated(t *testing.T) {
	s := reduce(initialState(), refreshed{})
	s = reduce(s, refreshStarted{})
	s = reduce(s, invalidated{})
	s = reduce(s, refreshed{rev: 0})
	if s.phase != PhasePopulated {
		t.Fatalf("phase = %v", s.phase)
	}
}
