package topic

import (
	"errors"
	"reflect"
	"testing"

	"github.com/kailas-cloud/jobscope/internal/domain"
)

// trainDocs is a tiny corpus with two clearly separated term groups:
// dims {0,1,2} co-occur and dims {3,4,5} co-occur.
func trainDocs() [][]float64 {
	return [][]float64{
		{4, 3, 2, 0, 0, 0},
		{3, 4, 3, 0, 0, 0},
		{2, 2, 4, 0, 0, 0},
		{0, 0, 0, 4, 3, 2},
		{0, 0, 0, 3, 4, 3},
		{0, 0, 0, 2, 2, 4},
	}
}

func TestTrain_ReproducibleForFixedSeed(t *testing.T) {
	cfg := TrainConfig{Topics: 2, Seed: 42, MaxIter: 20, BatchSize: 3}

	m1, err := Train(trainDocs(), 6, cfg)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	m2, err := Train(trainDocs(), 6, cfg)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	if !reflect.DeepEqual(m1.Weights(), m2.Weights()) {
		t.Fatal("identical seed and input produced different weights")
	}
}

func TestTrain_DifferentSeedsDiffer(t *testing.T) {
	m1, err := Train(trainDocs(), 6, TrainConfig{Topics: 2, Seed: 1, MaxIter: 5, BatchSize: 3})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	m2, err := Train(trainDocs(), 6, TrainConfig{Topics: 2, Seed: 2, MaxIter: 5, BatchSize: 3})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	if reflect.DeepEqual(m1.Weights(), m2.Weights()) {
		t.Fatal("different seeds produced identical weights")
	}
}

func TestTrain_SeparatesCooccurringTerms(t *testing.T) {
	m, err := Train(trainDocs(), 6, TrainConfig{Topics: 2, Seed: 42, MaxIter: 60, BatchSize: 6})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}

	// Documents from the two groups must land on different dominant topics.
	left, err := m.Infer([]float64{3, 3, 3, 0, 0, 0})
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	right, err := m.Infer([]float64{0, 0, 0, 3, 3, 3})
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	assertDistribution(t, left)
	assertDistribution(t, right)

	if argmax(left) == argmax(right) {
		t.Errorf("disjoint term groups share a dominant topic: left=%v right=%v", left, right)
	}
}

func TestTrain_DegenerateCorpus(t *testing.T) {
	tests := []struct {
		name      string
		docs      [][]float64
		vocabSize int
	}{
		{"no documents", nil, 4},
		{"zero vocabulary", [][]float64{{}}, 0},
		{"all-zero counts", [][]float64{{0, 0}, {0, 0}}, 2},
		{"dimension mismatch", [][]float64{{1, 2, 3}}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Train(tt.docs, tt.vocabSize, TrainConfig{Topics: 2, Seed: 1})
			if !errors.Is(err, domain.ErrTrainingFailed) {
				t.Fatalf("err = %v, want ErrTrainingFailed", err)
			}
		})
	}
}

func argmax(v []float64) int {
	best := 0
	for i, x := range v {
		if x > v[best] {
			best = i
		}
	}
	return best
}
