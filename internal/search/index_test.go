package search

import (
	"sync"
	"testing"

	"github.com/shilpkaar/marketplace-api/internal/domain"
)

func catalogFixture() []domain.Product {
	return []domain.Product{
		{ID: "p1", Name: "Blue Pottery Vase", Category: "pottery", Tags: []string{"jaipur", "ceramic"}},
		{ID: "p2", Name: "Ikat Silk Saree", Category: "textiles", Tags: []string{"handloom"}},
		{ID: "p3", Name: "Terracotta Lamp", Category: "pottery", Description: "Hand-thrown diya"},
		{ID: "", Name: "no id, skipped"},
		{ID: "p4", Name: "   "},
	}
}

// ---------- Options + defaultConfig ----------
func TestOptionsAndDefaults(t *testing.T) {
	def := defaultConfig()
	if def.stopwords != nil || def.maxDocs != 0 {
		t.Fatalf("defaultConfig unexpected: %#v", def)
	}

	cfg := def
	WithStopwords([]string{"  The ", "", "AND"})(&cfg)
	if _, ok := cfg.stopwords["the"]; !ok {
		t.Fatalf("WithStopwords failed (missing 'the'): %#v", cfg.stopwords)
	}
	if _, ok := cfg.stopwords["and"]; !ok {
		t.Fatalf("WithStopwords failed (missing 'and'): %#v", cfg.stopwords)
	}

	cfg2 := def
	WithStopwords(nil)(&cfg2)
	if cfg2.stopwords != nil {
		t.Fatalf("empty stopwords should remain nil")
	}

	WithMaxDocs(2)(&cfg)
	if cfg.maxDocs != 2 {
		t.Fatalf("WithMaxDocs failed: %d", cfg.maxDocs)
	}
	WithMaxDocs(0)(&cfg) // no-op
	if cfg.maxDocs != 2 {
		t.Fatalf("non-positive maxDocs should be ignored")
	}
}

func TestNewCatalog_SkipsUnindexable_AndMaxDocs(t *testing.T) {
	c := NewCatalog(catalogFixture())
	if c.Len() != 3 {
		t.Fatalf("Len = %d; want 3", c.Len())
	}
	capped := NewCatalog(catalogFixture(), WithMaxDocs(2))
	if capped.Len() != 2 {
		t.Fatalf("capped Len = %d; want 2", capped.Len())
	}
}

func TestTopK_CaseFoldedRanking(t *testing.T) {
	c := NewCatalog(catalogFixture())

	got := c.TopK("POTTERY", 10)
	if len(got) != 2 {
		t.Fatalf("expected 2 pottery hits, got %+v", got)
	}
	// p3 has more tokens (description), so p1 ranks first on Jaccard.
	if got[0].ProductID != "p1" || got[1].ProductID != "p3" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if got[0].Score <= got[1].Score {
		t.Fatalf("scores not descending: %+v", got)
	}

	if r := c.TopK("saree", 1); len(r) != 1 || r[0].ProductID != "p2" {
		t.Fatalf("expected p2 for saree, got %+v", r)
	}
}

func TestTopK_EmptyAndNoMatch(t *testing.T) {
	c := NewCatalog(catalogFixture())
	if r := c.TopK("   ", 5); r != nil {
		t.Fatalf("blank query should return nil, got %+v", r)
	}
	if r := c.TopK("!!!", 5); r != nil {
		t.Fatalf("punctuation-only query should return nil, got %+v", r)
	}
	if r := c.TopK("bamboo", 5); r != nil {
		t.Fatalf("no overlap should return nil, got %+v", r)
	}
	if r := NewCatalog(nil).TopK("vase", 5); r != nil {
		t.Fatalf("empty catalog should return nil, got %+v", r)
	}
}

func TestTopK_DefaultK_AndTieBreakOnID(t *testing.T) {
	products := make([]domain.Product, 0, 12)
	for _, id := range []string{"b", "a", "d", "c", "f", "e", "h", "g", "j", "i", "l", "k"} {
		products = append(products, domain.Product{ID: id, Name: "shawl"})
	}
	got := NewCatalog(products).TopK("shawl", 0)
	if len(got) != 10 {
		t.Fatalf("default k should be 10, got %d", len(got))
	}
	if got[0].ProductID != "a" || got[1].ProductID != "b" {
		t.Fatalf("ties should sort by id, got %+v", got[:2])
	}
}

func TestStopwords_AppliedToQuery(t *testing.T) {
	c := NewCatalog(catalogFixture(), WithStopwords([]string{"vase"}))
	if r := c.TopK("vase", 5); r != nil {
		t.Fatalf("stopword-only query should return nil, got %+v", r)
	}
}

func TestUpsertRemove(t *testing.T) {
	c := NewCatalog(catalogFixture())

	c.Upsert(domain.Product{ID: "p9", Name: "Dokra brass horse"})
	if r := c.TopK("brass", 5); len(r) != 1 || r[0].ProductID != "p9" {
		t.Fatalf("upserted product not searchable: %+v", r)
	}

	// Replacing keeps Len stable and drops the old tokens.
	c.Upsert(domain.Product{ID: "p9", Name: "Dokra bronze horse"})
	if c.Len() != 4 {
		t.Fatalf("Len after replace = %d; want 4", c.Len())
	}
	if r := c.TopK("brass", 5); r != nil {
		t.Fatalf("old tokens still indexed: %+v", r)
	}

	c.Upsert(domain.Product{ID: ""}) // ignored
	c.Remove("p1")
	c.Remove("missing")
	if c.Len() != 3 {
		t.Fatalf("Len after remove = %d; want 3", c.Len())
	}
	if r := c.TopK("jaipur", 5); r != nil {
		t.Fatalf("removed product still searchable: %+v", r)
	}
	// Positions were reindexed: removing a later doc still works.
	c.Remove("p9")
	if r := c.TopK("horse", 5); r != nil {
		t.Fatalf("p9 still searchable after remove: %+v", r)
	}
}

func TestCatalog_ConcurrentReadsAndWrites(t *testing.T) {
	c := NewCatalog(catalogFixture())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = c.TopK("pottery lamp", 3)
		}()
		go func(i int) {
			defer wg.Done()
			c.Upsert(domain.Product{ID: "x", Name: "lamp"})
			if i%2 == 0 {
				c.Remove("x")
			}
		}(i)
	}
	wg.Wait()
}

func TestHelpers_TokenizeOverlapMin(t *testing.T) {
	toks := tokenize("Straße MIT Kalamkari 2024", nil)
	for _, w := range []string{"strasse", "mit", "kalamkari", "2024"} {
		if _, ok := toks[w]; !ok {
			t.Fatalf("tokenize missing %q: %#v", w, toks)
		}
	}
	if tokenize("...", nil) != nil {
		t.Fatalf("tokenize of punctuation should be nil")
	}
	empty := tokenize("the", map[string]struct{}{"the": {}})
	if len(empty) != 0 {
		t.Fatalf("stopword should be removed, got %#v", empty)
	}

	a := map[string]struct{}{"x": {}, "y": {}, "z": {}}
	b := map[string]struct{}{"y": {}}
	if overlap(a, b) != 1 || overlap(b, a) != 1 || overlap(nil, a) != 0 {
		t.Fatalf("overlap mismatch")
	}
	if min(1, 2) != 1 || min(3, 2) != 2 {
		t.Fatalf("min mismatch")
	}
}
