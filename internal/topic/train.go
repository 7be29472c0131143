package topic

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/kailas-cloud/jobscope/internal/domain"
)

// TrainConfig holds the hyperparameters of an offline training run.
type TrainConfig struct {
	// Topics is the number of latent topics K.
	Topics int
	// Seed makes training reproducible bit-for-bit for identical input
	// ordering and batching.
	Seed int64
	// MaxIter is the number of full passes over the corpus.
	MaxIter int
	// BatchSize is the mini-batch size for the online updates.
	BatchSize int
	// DecayOffset and DecayExponent define the learning-rate schedule
	// rho_t = (offset + t)^(-exponent), indexed by batch count t.
	DecayOffset   float64
	DecayExponent float64
	// Alpha is the document-topic prior; non-positive selects 1/Topics.
	Alpha float64
	// Eta is the topic-term prior; non-positive selects 1/Topics.
	Eta float64
}

func (c *TrainConfig) applyDefaults() {
	if c.Topics <= 0 {
		c.Topics = 10
	}
	if c.MaxIter <= 0 {
		c.MaxIter = 50
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 128
	}
	if c.DecayOffset <= 0 {
		c.DecayOffset = 50
	}
	if c.DecayExponent <= 0 {
		c.DecayExponent = 0.7
	}
	if c.Alpha <= 0 {
		c.Alpha = 1 / float64(c.Topics)
	}
	if c.Eta <= 0 {
		c.Eta = 1 / float64(c.Topics)
	}
}

// Train fits a topic model on term-count vectors via online variational
// mini-batch EM. Batches are streamed in input order; the topic-term weights
// move towards each batch's expected counts at the decaying learning rate.
// A degenerate corpus or a non-finite update aborts with ErrTrainingFailed.
func Train(docs [][]float64, vocabSize int, cfg TrainConfig) (*Model, error) {
	cfg.applyDefaults()

	if vocabSize <= 0 {
		return nil, fmt.Errorf("%w: empty vocabulary", domain.ErrTrainingFailed)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: no training documents", domain.ErrTrainingFailed)
	}

	nz := make([][]int, len(docs))
	var total float64
	for i, doc := range docs {
		if len(doc) != vocabSize {
			return nil, fmt.Errorf(
				"%w: document %d has %d dimensions, want %d",
				domain.ErrTrainingFailed, i, len(doc), vocabSize,
			)
		}
		nz[i] = nonzero(doc)
		for _, w := range nz[i] {
			total += doc[w]
		}
	}
	if total <= 0 {
		return nil, fmt.Errorf(
			"%w: corpus has no vocabulary term occurrences", domain.ErrTrainingFailed,
		)
	}

	k, v := cfg.Topics, vocabSize

	// Seeded random init breaks topic symmetry.
	rng := rand.New(rand.NewSource(cfg.Seed))
	lambda := make([]float64, k*v)
	for i := range lambda {
		lambda[i] = cfg.Eta + rng.Float64()
	}

	beta := make([]float64, k*v)
	sstats := make([]float64, k*v)
	corpusSize := float64(len(docs))

	batch := 0
	for iter := 0; iter < cfg.MaxIter; iter++ {
		for start := 0; start < len(docs); start += cfg.BatchSize {
			end := start + cfg.BatchSize
			if end > len(docs) {
				end = len(docs)
			}

			normalizeRowsInto(beta, lambda, k, v)

			for i := range sstats {
				sstats[i] = 0
			}
			for d := start; d < end; d++ {
				accumulateExpectedCounts(sstats, docs[d], nz[d], beta, k, v, cfg.Alpha)
			}

			rho := math.Pow(cfg.DecayOffset+float64(batch), -cfg.DecayExponent)
			scale := corpusSize / float64(end-start)
			for i := range lambda {
				lambda[i] = (1-rho)*lambda[i] + rho*(cfg.Eta+scale*sstats[i])
			}
			batch++
		}

		for _, x := range lambda {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return nil, fmt.Errorf(
					"%w: non-finite topic weight after pass %d", domain.ErrTrainingFailed, iter+1,
				)
			}
		}
	}

	model, err := NewModel(k, v, cfg.Alpha, lambda)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTrainingFailed, err)
	}
	return model, nil
}

// accumulateExpectedCounts runs the per-document E-step against beta and adds
// the expected topic-term counts into sstats.
func accumulateExpectedCounts(
	sstats, counts []float64, nz []int, beta []float64, topics, vocabSize int, alpha float64,
) {
	if len(nz) == 0 {
		return
	}
	theta := inferTheta(counts, nz, beta, topics, vocabSize, alpha, DefaultMaxInferIter, DefaultInferTol)
	for _, w := range nz {
		var denom float64
		for k := 0; k < topics; k++ {
			denom += theta[k] * beta[k*vocabSize+w]
		}
		if denom <= 0 {
			continue
		}
		for k := 0; k < topics; k++ {
			sstats[k*vocabSize+w] += counts[w] * theta[k] * beta[k*vocabSize+w] / denom
		}
	}
}

// normalizeRowsInto writes the row-normalized view of src into dst.
func normalizeRowsInto(dst, src []float64, rows, cols int) {
	for r := 0; r < rows; r++ {
		var sum float64
		row := src[r*cols : (r+1)*cols]
		for _, x := range row {
			sum += x
		}
		out := dst[r*cols : (r+1)*cols]
		if sum <= 0 {
			for i := range out {
				out[i] = 1 / float64(cols)
			}
			continue
		}
		for i := range out {
			out[i] = row[i] / sum
		}
	}
}
