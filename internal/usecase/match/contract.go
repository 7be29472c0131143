package match

import (
	"context"

	"github.com/kailas-cloud/jobscope/internal/artifact"
	"github.com/kailas-cloud/jobscope/internal/corpus"
	"github.com/kailas-cloud/jobscope/internal/domain"
	"github.com/kailas-cloud/jobscope/internal/repository/history"
)

// Loader produces the model artifact set. Called exactly once per service
// lifetime, on first use.
type Loader interface {
	Load() (*artifact.Set, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func() (*artifact.Set, error)

// Load calls f.
func (f LoaderFunc) Load() (*artifact.Set, error) { return f() }

// Ranker orders the corpus by similarity to a query distribution.
type Ranker interface {
	Rank(query []float64, store *corpus.Store, topN int) []domain.Match
}

// HistoryWriter persists served queries. Optional; failures are logged, not
// propagated.
type HistoryWriter interface {
	Record(ctx context.Context, e history.Entry) error
}
