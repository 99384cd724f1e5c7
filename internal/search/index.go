// Package search provides a deterministic, concurrency-safe in-memory index
// over the product catalog, used by GET /products?q=.
//
//   - No logging in the library (callers decide how/what to log)
//   - Functional options (Option pattern)
//   - Unicode case folding (golang.org/x/text/cases) so "SAREE" and "saree" match
//   - Deterministic scoring and sorting (stable order for ties)
//
// Scoring uses Jaccard similarity between the query token set and each
// product's token set: score = |Q ∩ P| / |Q ∪ P|.
package search

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"github.com/shilpkaar/marketplace-api/internal/domain"
)

// Result is a ranked product id with its similarity score.
type Result struct {
	ProductID string
	Score     float64
}

// Index is the minimal interface implemented by all search indices.
type Index interface {
	TopK(query string, k int) []Result
	Len() int
}

// ----------------------------------------------------------------------------
// Options

type Option func(*config)

type config struct {
	stopwords map[string]struct{}
	maxDocs   int
}

func defaultConfig() config {
	return config{}
}

// WithStopwords drops the given words from both documents and queries.
func WithStopwords(words []string) Option {
	return func(c *config) {
		m := make(map[string]struct{}, len(words))
		for _, w := range words {
			w = fold(strings.TrimSpace(w))
			if w != "" {
				m[w] = struct{}{}
			}
		}
		if len(m) > 0 {
			c.stopwords = m
		}
	}
}

// WithMaxDocs caps how many products are indexed. Zero means unlimited.
func WithMaxDocs(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxDocs = n
		}
	}
}

// ----------------------------------------------------------------------------
// Implementation

type doc struct {
	id     string
	tokens map[string]struct{}
	tLen   int
}

// Catalog is a mutable product index. Reads take a shared lock; Rebuild and
// Upsert replace documents under an exclusive lock.
type Catalog struct {
	cfg config

	mu   sync.RWMutex
	docs []doc
	pos  map[string]int
}

var _ Index = (*Catalog)(nil)

// NewCatalog builds a Catalog from products.
func NewCatalog(products []domain.Product, opts ...Option) *Catalog {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	c := &Catalog{cfg: cfg}
	c.Rebuild(products)
	return c
}

// Rebuild replaces the whole index.
func (c *Catalog) Rebuild(products []domain.Product) {
	docs := make([]doc, 0, len(products))
	pos := make(map[string]int, len(products))
	for _, p := range products {
		if c.cfg.maxDocs > 0 && len(docs) >= c.cfg.maxDocs {
			break
		}
		d, ok := c.makeDoc(p)
		if !ok {
			continue
		}
		if i, dup := pos[d.id]; dup {
			docs[i] = d
			continue
		}
		pos[d.id] = len(docs)
		docs = append(docs, d)
	}
	c.mu.Lock()
	c.docs, c.pos = docs, pos
	c.mu.Unlock()
}

// Upsert indexes p, replacing any previous document for the same id.
func (c *Catalog) Upsert(p domain.Product) {
	d, ok := c.makeDoc(p)
	if !ok {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if i, exists := c.pos[d.id]; exists {
		c.docs[i] = d
		return
	}
	if c.cfg.maxDocs > 0 && len(c.docs) >= c.cfg.maxDocs {
		return
	}
	c.pos[d.id] = len(c.docs)
	c.docs = append(c.docs, d)
}

// Remove drops the document for id, if any.
func (c *Catalog) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.pos[id]
	if !ok {
		return
	}
	c.docs = append(c.docs[:i], c.docs[i+1:]...)
	delete(c.pos, id)
	for j := i; j < len(c.docs); j++ {
		c.pos[c.docs[j].id] = j
	}
}

// Len returns the number of indexed products.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs)
}

func (c *Catalog) makeDoc(p domain.Product) (doc, bool) {
	if p.ID == "" {
		return doc{}, false
	}
	toks := tokenize(productText(p), c.cfg.stopwords)
	if len(toks) == 0 {
		return doc{}, false
	}
	return doc{id: p.ID, tokens: toks, tLen: len(toks)}, true
}

// TopK returns up to k best-matching products by Jaccard similarity.
// Ties break on fewer tokens, then on id.
func (c *Catalog) TopK(q string, k int) []Result {
	if strings.TrimSpace(q) == "" {
		return nil
	}
	if k <= 0 {
		k = 10
	}
	qTokens := tokenize(q, c.cfg.stopwords)
	if len(qTokens) == 0 {
		return nil
	}
	qLen := len(qTokens)

	type scored struct {
		id    string
		score float64
		tLen  int
	}

	c.mu.RLock()
	buf := make([]scored, 0, min(k*4, len(c.docs)))
	for _, d := range c.docs {
		over := overlap(qTokens, d.tokens)
		if over == 0 {
			continue
		}
		union := float64(qLen + d.tLen - over)
		if union <= 0 {
			continue
		}
		buf = append(buf, scored{id: d.id, score: float64(over) / union, tLen: d.tLen})
	}
	c.mu.RUnlock()
	if len(buf) == 0 {
		return nil
	}

	sort.SliceStable(buf, func(a, b int) bool {
		if buf[a].score != buf[b].score {
			return buf[a].score > buf[b].score
		}
		if buf[a].tLen != buf[b].tLen {
			return buf[a].tLen < buf[b].tLen
		}
		return buf[a].id < buf[b].id
	})

	if k > len(buf) {
		k = len(buf)
	}
	out := make([]Result, k)
	for i := 0; i < k; i++ {
		out[i] = Result{ProductID: buf[i].id, Score: buf[i].score}
	}
	return out
}

// ----------------------------------------------------------------------------
// Helpers

var wordRE = regexp.MustCompile(`\p{L}[\p{L}\p{M}]*\p{N}*|\p{N}+`)

// fold applies full Unicode case folding. A cases.Caser is stateful, so each
// call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

func tokenize(s string, stop map[string]struct{}) map[string]struct{} {
	words := wordRE.FindAllString(fold(s), -1)
	if len(words) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		if stop != nil {
			if _, skip := stop[w]; skip {
				continue
			}
		}
		out[w] = struct{}{}
	}
	return out
}

func overlap(a, b map[string]struct{}) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	n := 0
	if len(a) > len(b) {
		a, b = b, a
	}
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
