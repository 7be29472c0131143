package domain

import "errors"

var (
	// ErrEmptyInput signals that no usable query text was supplied.
	ErrEmptyInput = errors.New("empty input")
	// ErrNoVocabularyOverlap signals that the query text shares no terms
	// with the trained vocabulary.
	ErrNoVocabularyOverlap = errors.New("no vocabulary overlap")
	// ErrModelUnavailable signals that the model artifact set is missing,
	// corrupt, or version-mismatched. Fatal for the service instance.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrTrainingFailed signals a degenerate training corpus or numerical
	// divergence during an offline training run.
	ErrTrainingFailed = errors.New("training failed")
)
