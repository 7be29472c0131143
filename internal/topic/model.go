package topic

import (
	"fmt"
	"math"
	"sort"
)

// Inference defaults. Inference always terminates: it runs to the iteration
// budget or the convergence tolerance, whichever comes first.
const (
	DefaultMaxInferIter = 50
	DefaultInferTol     = 1e-6
)

// Model holds pretrained topic-model parameters: a dense K × V topic-term
// weight matrix where every row is a probability distribution over the
// vocabulary. Immutable once constructed; safe for concurrent readers.
type Model struct {
	topics    int
	vocabSize int
	alpha     float64
	maxIter   int
	tol       float64
	weights   []float64 // row-major, topics × vocabSize, rows sum to 1
}

// NewModel validates the weight matrix shape, normalizes each topic row, and
// returns an immutable model. alpha is the symmetric document-topic prior;
// non-positive values select 1/topics.
func NewModel(topics, vocabSize int, alpha float64, weights []float64) (*Model, error) {
	if topics <= 0 {
		return nil, fmt.Errorf("topics must be positive, got %d", topics)
	}
	if vocabSize <= 0 {
		return nil, fmt.Errorf("vocab size must be positive, got %d", vocabSize)
	}
	if len(weights) != topics*vocabSize {
		return nil, fmt.Errorf(
			"weight matrix shape mismatch: got %d values, want %d (topics=%d vocab=%d)",
			len(weights), topics*vocabSize, topics, vocabSize,
		)
	}
	if alpha <= 0 {
		alpha = 1 / float64(topics)
	}

	norm := make([]float64, len(weights))
	copy(norm, weights)
	for k := 0; k < topics; k++ {
		row := norm[k*vocabSize : (k+1)*vocabSize]
		var sum float64
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return nil, fmt.Errorf("topic %d has invalid weight %v", k, v)
			}
			sum += v
		}
		if sum <= 0 {
			return nil, fmt.Errorf("topic %d has zero total weight", k)
		}
		for i := range row {
			row[i] /= sum
		}
	}

	return &Model{
		topics:    topics,
		vocabSize: vocabSize,
		alpha:     alpha,
		maxIter:   DefaultMaxInferIter,
		tol:       DefaultInferTol,
		weights:   norm,
	}, nil
}

// Topics returns K.
func (m *Model) Topics() int { return m.topics }

// VocabSize returns V.
func (m *Model) VocabSize() int { return m.vocabSize }

// Alpha returns the document-topic prior.
func (m *Model) Alpha() float64 { return m.alpha }

// Weights returns a copy of the row-major K × V topic-term matrix.
func (m *Model) Weights() []float64 {
	out := make([]float64, len(m.weights))
	copy(out, m.weights)
	return out
}

// Infer estimates the posterior topic mixture for a term-count vector via a
// fixed-point EM iteration. Deterministic for a fixed model and input. The
// result is always a valid probability distribution; an all-zero input yields
// the uniform distribution.
func (m *Model) Infer(counts []float64) ([]float64, error) {
	if len(counts) != m.vocabSize {
		return nil, fmt.Errorf(
			"count vector length mismatch: got %d, want %d", len(counts), m.vocabSize,
		)
	}
	nz := nonzero(counts)
	theta := inferTheta(counts, nz, m.weights, m.topics, m.vocabSize, m.alpha, m.maxIter, m.tol)
	return theta, nil
}

// TopTermIndices returns the n highest-weighted vocabulary indices for topic
// k, for inspection and trainer logging.
func (m *Model) TopTermIndices(k, n int) []int {
	row := m.weights[k*m.vocabSize : (k+1)*m.vocabSize]
	idx := make([]int, m.vocabSize)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		if row[idx[a]] != row[idx[b]] {
			return row[idx[a]] > row[idx[b]]
		}
		return idx[a] < idx[b]
	})
	if n > len(idx) {
		n = len(idx)
	}
	return idx[:n]
}

// inferTheta runs the bounded fixed-point iteration
//
//	theta_k ∝ alpha + Σ_w n_w · theta_k·beta_kw / Σ_j theta_j·beta_jw
//
// over the given row-normalized topic-term matrix.
func inferTheta(
	counts []float64, nz []int, beta []float64,
	topics, vocabSize int, alpha float64, maxIter int, tol float64,
) []float64 {
	theta := make([]float64, topics)
	for k := range theta {
		theta[k] = 1 / float64(topics)
	}
	if len(nz) == 0 {
		return theta
	}

	next := make([]float64, topics)
	for iter := 0; iter < maxIter; iter++ {
		for k := range next {
			next[k] = alpha
		}
		for _, w := range nz {
			var denom float64
			for k := 0; k < topics; k++ {
				denom += theta[k] * beta[k*vocabSize+w]
			}
			if denom <= 0 {
				continue
			}
			for k := 0; k < topics; k++ {
				next[k] += counts[w] * theta[k] * beta[k*vocabSize+w] / denom
			}
		}
		normalizeDist(next)

		var delta float64
		for k := range theta {
			delta += math.Abs(next[k] - theta[k])
		}
		copy(theta, next)
		if delta < tol {
			break
		}
	}

	normalizeDist(theta)
	return theta
}

// nonzero returns the indices of positive entries.
func nonzero(counts []float64) []int {
	var nz []int
	for i, c := range counts {
		if c > 0 {
			nz = append(nz, i)
		}
	}
	return nz
}

// normalizeDist projects v onto the probability simplex in place: negatives
// and non-finite entries are clamped, then the vector is scaled to sum to 1.
// A degenerate vector becomes the uniform distribution.
func normalizeDist(v []float64) {
	var sum float64
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) || x < 0 {
			v[i] = 0
			continue
		}
		sum += x
	}
	if sum <= 0 {
		for i := range v {
			v[i] = 1 / float64(len(v))
		}
		return
	}
	for i := range v {
		v[i] /= sum
	}
}
