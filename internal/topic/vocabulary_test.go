package topic

import (
	"errors"
	"reflect"
	"testing"

	"github.com/kailas-cloud/jobscope/internal/domain"
)

func TestBuildVocabulary_DFThresholds(t *testing.T) {
	docs := []string{
		"python tensorflow pandas",
		"python react pandas",
		"python golang numpy",
		"python kubernetes numpy",
	}

	// min_df=2 drops the singletons, max_df=0.8 drops terms in all 4 docs.
	vocab, err := BuildVocabulary(docs, BuildOptions{MinDF: 2, MaxDF: 0.8})
	if err != nil {
		t.Fatalf("BuildVocabulary: %v", err)
	}

	if got := vocab.Terms(); !reflect.DeepEqual(got, []string{"numpy", "pandas"}) {
		t.Errorf("terms = %v, want [numpy pandas]", got)
	}
	if _, ok := vocab.Index("python"); ok {
		t.Error("python appears in every document, max_df should drop it")
	}
	if _, ok := vocab.Index("tensorflow"); ok {
		t.Error("tensorflow has df=1, min_df=2 should drop it")
	}
}

func TestBuildVocabulary_StableAlphabeticalIndices(t *testing.T) {
	docs := []string{"zebra apple mango", "zebra apple mango"}

	vocab, err := BuildVocabulary(docs, BuildOptions{MinDF: 1})
	if err != nil {
		t.Fatalf("BuildVocabulary: %v", err)
	}

	if got := vocab.Terms(); !reflect.DeepEqual(got, []string{"apple", "mango", "zebra"}) {
		t.Errorf("terms not in lexicographic order: %v", got)
	}
	if i, _ := vocab.Index("apple"); i != 0 {
		t.Errorf("apple index = %d, want 0", i)
	}
}

func TestBuildVocabulary_MaxTermsCap(t *testing.T) {
	docs := []string{
		"common common rare1",
		"common frequent rare2",
		"common frequent rare3",
	}

	vocab, err := BuildVocabulary(docs, BuildOptions{MinDF: 1, MaxTerms: 2})
	if err != nil {
		t.Fatalf("BuildVocabulary: %v", err)
	}

	if vocab.Size() != 2 {
		t.Fatalf("size = %d, want 2", vocab.Size())
	}
	// Highest document frequencies survive the cap.
	if _, ok := vocab.Index("common"); !ok {
		t.Error("common (df=3) missing from capped vocabulary")
	}
	if _, ok := vocab.Index("frequent"); !ok {
		t.Error("frequent (df=2) missing from capped vocabulary")
	}
}

func TestBuildVocabulary_StopWordsExcluded(t *testing.T) {
	docs := []string{"the python and the tensorflow", "the python"}

	vocab, err := BuildVocabulary(docs, BuildOptions{MinDF: 1})
	if err != nil {
		t.Fatalf("BuildVocabulary: %v", err)
	}
	if _, ok := vocab.Index("the"); ok {
		t.Error("stop word survived vocabulary construction")
	}
	if _, ok := vocab.Index("python"); !ok {
		t.Error("python missing")
	}
}

func TestBuildVocabulary_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		docs []string
		opts BuildOptions
	}{
		{"no documents", nil, BuildOptions{}},
		{"only stop words", []string{"the and of", "to in is"}, BuildOptions{MinDF: 1}},
		{"thresholds drop everything", []string{"python", "react"}, BuildOptions{MinDF: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildVocabulary(tt.docs, tt.opts)
			if !errors.Is(err, domain.ErrTrainingFailed) {
				t.Fatalf("err = %v, want ErrTrainingFailed", err)
			}
		})
	}
}

func TestNewVocabulary_RejectsDuplicates(t *testing.T) {
	if _, err := NewVocabulary([]string{"go", "go"}); err == nil {
		t.Fatal("expected error for duplicate term")
	}
}
