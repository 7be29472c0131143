// Package corpus holds the fixed set of job postings available for matching,
// each annotated with its precomputed topic distribution.
package corpus

import (
	"fmt"

	"github.com/kailas-cloud/jobscope/internal/domain"
	"github.com/kailas-cloud/jobscope/internal/topic"
)

// Entry pairs a corpus record with its topic distribution.
type Entry struct {
	Record       domain.Record
	Distribution []float64
}

// Store is the read-only posting corpus. Immutable after construction and
// safe for concurrent readers.
type Store struct {
	records []domain.Record
	dists   [][]float64
}

// Load annotates every record with a topic distribution computed through the
// same vectorize + infer path used for queries, so corpus and query vectors
// always share identical semantics.
func Load(records []domain.Record, vec *topic.Vectorizer, model *topic.Model) (*Store, error) {
	dists := make([][]float64, len(records))
	for i, r := range records {
		dist, err := model.Infer(vec.Vectorize(r.Text))
		if err != nil {
			return nil, fmt.Errorf("infer record %q: %w", r.ID, err)
		}
		dists[i] = dist
	}
	return &Store{records: records, dists: dists}, nil
}

// FromPrecomputed builds a store from distributions computed at training time
// and persisted in the artifact set. Shapes are checked against topics.
func FromPrecomputed(records []domain.Record, dists [][]float64, topics int) (*Store, error) {
	if len(records) != len(dists) {
		return nil, fmt.Errorf(
			"record/distribution count mismatch: %d records, %d distributions",
			len(records), len(dists),
		)
	}
	for i, d := range dists {
		if len(d) != topics {
			return nil, fmt.Errorf(
				"distribution %d has %d topics, want %d", i, len(d), topics,
			)
		}
	}
	return &Store{records: records, dists: dists}, nil
}

// Size returns the number of postings.
func (s *Store) Size() int { return len(s.records) }

// Record returns the posting at index i.
func (s *Store) Record(i int) domain.Record { return s.records[i] }

// Distribution returns the topic distribution of the posting at index i.
func (s *Store) Distribution(i int) []float64 { return s.dists[i] }

// All returns the postings with their distributions, in corpus order.
func (s *Store) All() []Entry {
	out := make([]Entry, len(s.records))
	for i := range s.records {
		out[i] = Entry{Record: s.records[i], Distribution: s.dists[i]}
	}
	return out
}
