package topic

import (
	"fmt"
	"sort"

	"github.com/kailas-cloud/jobscope/internal/domain"
)

// Vocabulary is a frozen, ordered term → dimension-index mapping. Index
// assignment is stable for the lifetime of a trained model; changing it
// invalidates every downstream artifact.
type Vocabulary struct {
	terms []string
	index map[string]int
}

// NewVocabulary builds a vocabulary from an ordered term list. The i-th term
// is assigned dimension index i.
func NewVocabulary(terms []string) (*Vocabulary, error) {
	if len(terms) == 0 {
		return nil, fmt.Errorf("vocabulary must not be empty")
	}
	index := make(map[string]int, len(terms))
	for i, t := range terms {
		if t == "" {
			return nil, fmt.Errorf("empty term at index %d", i)
		}
		if _, dup := index[t]; dup {
			return nil, fmt.Errorf("duplicate term %q", t)
		}
		index[t] = i
	}
	return &Vocabulary{terms: terms, index: index}, nil
}

// Size returns the number of dimensions V.
func (v *Vocabulary) Size() int { return len(v.terms) }

// Index returns the dimension index for a term.
func (v *Vocabulary) Index(term string) (int, bool) {
	i, ok := v.index[term]
	return i, ok
}

// Terms returns a copy of the ordered term list.
func (v *Vocabulary) Terms() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

// Term returns the term at dimension index i.
func (v *Vocabulary) Term(i int) string { return v.terms[i] }

// BuildOptions controls training-time vocabulary construction.
type BuildOptions struct {
	// MinDF drops terms appearing in fewer documents (absolute count).
	MinDF int
	// MaxDF drops terms appearing in more than this proportion of documents.
	MaxDF float64
	// MaxTerms caps the vocabulary by descending document frequency.
	// Zero means no cap.
	MaxTerms int
	// StopWords are excluded outright. Nil selects the built-in English set.
	StopWords map[string]struct{}
}

func (o *BuildOptions) applyDefaults() {
	if o.MinDF <= 0 {
		o.MinDF = 1
	}
	if o.MaxDF <= 0 || o.MaxDF > 1 {
		o.MaxDF = 1
	}
	if o.StopWords == nil {
		o.StopWords = DefaultStopWords()
	}
}

// BuildVocabulary collects document frequencies across the training corpus,
// applies the MinDF/MaxDF thresholds and the MaxTerms cap, and assigns stable
// indices in lexicographic term order. Deterministic for a fixed corpus and
// fixed options.
func BuildVocabulary(docs []string, opts BuildOptions) (*Vocabulary, error) {
	opts.applyDefaults()
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: no training documents", domain.ErrTrainingFailed)
	}

	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, tok := range Tokenize(doc) {
			if _, stop := opts.StopWords[tok]; stop {
				continue
			}
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	maxDocs := int(opts.MaxDF * float64(len(docs)))
	kept := make([]string, 0, len(df))
	for term, n := range df {
		if n < opts.MinDF || n > maxDocs {
			continue
		}
		kept = append(kept, term)
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf(
			"%w: no terms survived df thresholds (min_df=%d max_df=%.2f over %d docs)",
			domain.ErrTrainingFailed, opts.MinDF, opts.MaxDF, len(docs),
		)
	}

	if opts.MaxTerms > 0 && len(kept) > opts.MaxTerms {
		// Keep the most frequent terms; break frequency ties alphabetically
		// so the cap is deterministic.
		sort.Slice(kept, func(i, j int) bool {
			if df[kept[i]] != df[kept[j]] {
				return df[kept[i]] > df[kept[j]]
			}
			return kept[i] < kept[j]
		})
		kept = kept[:opts.MaxTerms]
	}

	sort.Strings(kept)
	return NewVocabulary(kept)
}
