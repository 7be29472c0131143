// Package rank scores a query topic distribution against the corpus and
// produces a deterministic top-N ordering.
package rank

import (
	"math"
	"sort"

	"github.com/kailas-cloud/jobscope/internal/corpus"
	"github.com/kailas-cloud/jobscope/internal/domain"
)

// Ranker orders corpus postings by similarity to a query distribution.
// Implementations must clamp topN to the corpus size and break exact score
// ties by ascending corpus index, so an approximate index can replace the
// linear scan without changing observable behavior.
type Ranker interface {
	Rank(query []float64, store *corpus.Store, topN int) []domain.Match
}

// Linear is the exact, linear-scan ranker: O(corpus × topics) per query.
type Linear struct{}

// NewLinear creates the exact ranker.
func NewLinear() *Linear { return &Linear{} }

// Rank computes cosine similarity between the query and every corpus
// distribution, sorted descending. Ties keep ascending corpus order; topN
// larger than the corpus returns the whole corpus ranked.
func (l *Linear) Rank(query []float64, store *corpus.Store, topN int) []domain.Match {
	n := store.Size()
	if topN > n {
		topN = n
	}
	if topN <= 0 {
		return nil
	}

	type scored struct {
		idx   int
		score float64
	}
	all := make([]scored, n)
	for i := 0; i < n; i++ {
		all[i] = scored{idx: i, score: Cosine(query, store.Distribution(i))}
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].score != all[j].score {
			return all[i].score > all[j].score
		}
		return all[i].idx < all[j].idx
	})

	matches := make([]domain.Match, topN)
	for i := 0; i < topN; i++ {
		matches[i] = domain.Match{
			Rank:   i + 1,
			Record: store.Record(all[i].idx),
			Score:  all[i].score,
		}
	}
	return matches
}

// Cosine returns the cosine similarity of two equal-length vectors. A zero
// norm on either side scores 0 instead of dividing by zero.
func Cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	den := math.Sqrt(na) * math.Sqrt(nb)
	if den == 0 {
		return 0
	}
	return dot / den
}
