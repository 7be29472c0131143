package topic

// Vectorizer turns raw text into fixed-vocabulary term-count vectors.
// Unknown tokens are dropped silently: an all-zero vector is a valid output
// here, and judging whether it is meaningful belongs to the caller.
type Vectorizer struct {
	vocab *Vocabulary
	stop  map[string]struct{}
}

// NewVectorizer creates a vectorizer over a frozen vocabulary. A nil stop-word
// set selects the built-in English list.
func NewVectorizer(vocab *Vocabulary, stopWords map[string]struct{}) *Vectorizer {
	if stopWords == nil {
		stopWords = DefaultStopWords()
	}
	return &Vectorizer{vocab: vocab, stop: stopWords}
}

// Vocabulary returns the frozen vocabulary backing this vectorizer.
func (v *Vectorizer) Vocabulary() *Vocabulary { return v.vocab }

// Vectorize counts vocabulary term occurrences in text. The returned vector
// has length Vocabulary().Size() and holds non-negative integer counts.
func (v *Vectorizer) Vectorize(text string) []float64 {
	counts := make([]float64, v.vocab.Size())
	for _, tok := range Tokenize(text) {
		if _, stop := v.stop[tok]; stop {
			continue
		}
		if i, ok := v.vocab.Index(tok); ok {
			counts[i]++
		}
	}
	return counts
}
