package topic

import (
	"reflect"
	"testing"
)

func testVocabulary(t *testing.T, terms ...string) *Vocabulary {
	t.Helper()
	vocab, err := NewVocabulary(terms)
	if err != nil {
		t.Fatalf("NewVocabulary: %v", err)
	}
	return vocab
}

func TestVectorize_CountsAndCaseFolding(t *testing.T) {
	vocab := testVocabulary(t, "learning", "python", "tensorflow")
	vec := NewVectorizer(vocab, nil)

	got := vec.Vectorize("Python, PYTHON! deep Learning; tensorflow/python")
	want := []float64{1, 3, 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Vectorize = %v, want %v", got, want)
	}
}

func TestVectorize_UnknownTokensDroppedSilently(t *testing.T) {
	vocab := testVocabulary(t, "python")
	vec := NewVectorizer(vocab, nil)

	got := vec.Vectorize("rust haskell cobol python")
	if !reflect.DeepEqual(got, []float64{1}) {
		t.Errorf("Vectorize = %v, want [1]", got)
	}
}

func TestVectorize_EmptyAndAllUnknownYieldZeroVector(t *testing.T) {
	vocab := testVocabulary(t, "python", "react")
	vec := NewVectorizer(vocab, nil)

	for _, text := range []string{"", "   ", "zzyzxqq nonsense123"} {
		got := vec.Vectorize(text)
		if !reflect.DeepEqual(got, []float64{0, 0}) {
			t.Errorf("Vectorize(%q) = %v, want zero vector", text, got)
		}
	}
}

func TestVectorize_StopWordsDropped(t *testing.T) {
	// A stop word that is also in the vocabulary must still be discarded.
	vocab := testVocabulary(t, "python", "the")
	vec := NewVectorizer(vocab, nil)

	got := vec.Vectorize("the python the")
	if !reflect.DeepEqual(got, []float64{1, 0}) {
		t.Errorf("Vectorize = %v, want [1 0]", got)
	}
}

func TestTokenize_Boundaries(t *testing.T) {
	got := Tokenize("C++/Go, state-of-the-art ML2024!")
	want := []string{"go", "state", "of", "the", "art", "ml2024"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}
