// Package match implements the résumé-to-posting matching service: it owns
// the lazily loaded model state and orchestrates vectorize, infer and rank.
package match

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobscope/internal/corpus"
	"github.com/kailas-cloud/jobscope/internal/domain"
	"github.com/kailas-cloud/jobscope/internal/metrics"
	"github.com/kailas-cloud/jobscope/internal/repository/history"
	"github.com/kailas-cloud/jobscope/internal/topic"
)

// Default request limits, overridable via WithLimits.
const (
	DefaultTopN = 5
	MaxTopN     = 100
)

// Stats summarizes the loaded posting corpus and model.
type Stats struct {
	TotalJobs        int     `json:"total_jobs"`
	Topics           int     `json:"topics"`
	VocabularySize   int     `json:"vocabulary_size"`
	AverageSalaryUSD float64 `json:"average_salary_usd"`
	UniqueLocations  int     `json:"unique_locations"`
}

// Service serves match queries against a single immutable model generation.
// Loading happens once, on first use; concurrent callers share the attempt
// and its outcome.
type Service struct {
	loader  Loader
	ranker  Ranker
	logger  *zap.Logger
	history HistoryWriter

	defaultTopN int
	maxTopN     int

	loadOnce sync.Once
	loadErr  error
	vec      *topic.Vectorizer
	model    *topic.Model
	store    *corpus.Store
}

// NewService creates the matching service. The loader is not invoked until
// the first request or Ready call.
func NewService(loader Loader, ranker Ranker, logger *zap.Logger) *Service {
	return &Service{
		loader:      loader,
		ranker:      ranker,
		logger:      logger,
		defaultTopN: DefaultTopN,
		maxTopN:     MaxTopN,
	}
}

// WithHistory enables best-effort query history persistence.
func (s *Service) WithHistory(h HistoryWriter) *Service {
	s.history = h
	return s
}

// WithLimits overrides the default and maximum topN.
func (s *Service) WithLimits(defaultTopN, maxTopN int) *Service {
	if defaultTopN > 0 {
		s.defaultTopN = defaultTopN
	}
	if maxTopN > 0 {
		s.maxTopN = maxTopN
	}
	return s
}

func (s *Service) ensureLoaded() error {
	s.loadOnce.Do(func() {
		start := time.Now()
		set, err := s.loader.Load()
		if err != nil {
			if !errors.Is(err, domain.ErrModelUnavailable) {
				err = fmt.Errorf("%w: %v", domain.ErrModelUnavailable, err)
			}
			s.loadErr = err
			s.logger.Error("model load failed", zap.Error(err))
			return
		}

		store, err := corpus.FromPrecomputed(set.Records, set.Distributions, set.Model.Topics())
		if err != nil {
			s.loadErr = fmt.Errorf("%w: %v", domain.ErrModelUnavailable, err)
			s.logger.Error("corpus load failed", zap.Error(err))
			return
		}

		s.vec = topic.NewVectorizer(set.Vocabulary, nil)
		s.model = set.Model
		s.store = store

		metrics.ObserveModelLoad(time.Since(start))
		s.logger.Info("model loaded",
			zap.Int("topics", set.Model.Topics()),
			zap.Int("vocabulary_size", set.Vocabulary.Size()),
			zap.Int("jobs", store.Size()),
			zap.Duration("duration", time.Since(start)))
	})
	return s.loadErr
}

// Ready reports whether the model is loaded, triggering the load if it has
// not happened yet.
func (s *Service) Ready(_ context.Context) error {
	return s.ensureLoaded()
}

// MatchTopN ranks the posting corpus against a résumé text and returns the
// topN best matches. topN <= 0 selects the default; values above the maximum
// are clamped.
func (s *Service) MatchTopN(ctx context.Context, rawText string, topN int) ([]domain.Match, error) {
	start := time.Now()

	if strings.TrimSpace(rawText) == "" {
		metrics.ObserveMatch("empty_input", time.Since(start))
		return nil, domain.ErrEmptyInput
	}
	if topN <= 0 {
		topN = s.defaultTopN
	}
	if topN > s.maxTopN {
		topN = s.maxTopN
	}

	if err := s.ensureLoaded(); err != nil {
		metrics.ObserveMatch("model_unavailable", time.Since(start))
		return nil, err
	}

	counts := s.vec.Vectorize(rawText)
	if !hasMass(counts) {
		metrics.ObserveMatch("no_overlap", time.Since(start))
		return nil, domain.ErrNoVocabularyOverlap
	}

	dist, err := s.model.Infer(counts)
	if err != nil {
		metrics.ObserveMatch("infer_error", time.Since(start))
		return nil, fmt.Errorf("infer query distribution: %w", err)
	}

	matches := s.ranker.Rank(dist, s.store, topN)

	if s.history != nil {
		entry := history.NewEntry(rawText, topN, matches, time.Now())
		if err := s.history.Record(ctx, entry); err != nil {
			s.logger.Warn("history write failed", zap.Error(err))
		}
	}

	metrics.ObserveMatch("ok", time.Since(start))
	return matches, nil
}

// Jobs returns one page of the posting corpus in stored order, plus the
// total count. page starts at 1; perPage is capped at the maximum topN.
func (s *Service) Jobs(page, perPage int) ([]domain.Record, int, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > s.maxTopN {
		perPage = s.maxTopN
	}

	total := s.store.Size()
	start := (page - 1) * perPage
	if start >= total {
		return []domain.Record{}, total, nil
	}
	end := start + perPage
	if end > total {
		end = total
	}

	out := make([]domain.Record, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, s.store.Record(i))
	}
	return out, total, nil
}

// Stats aggregates corpus-level numbers for the stats endpoint.
func (s *Service) Stats() (Stats, error) {
	if err := s.ensureLoaded(); err != nil {
		return Stats{}, err
	}

	st := Stats{
		TotalJobs:      s.store.Size(),
		Topics:         s.model.Topics(),
		VocabularySize: s.vec.Vocabulary().Size(),
	}

	locations := make(map[string]struct{})
	var salarySum float64
	var salaryCount int
	for i := 0; i < s.store.Size(); i++ {
		rec := s.store.Record(i)
		if rec.Location != "" {
			locations[rec.Location] = struct{}{}
		}
		if rec.SalaryUSD != nil {
			salarySum += *rec.SalaryUSD
			salaryCount++
		}
	}
	st.UniqueLocations = len(locations)
	if salaryCount > 0 {
		st.AverageSalaryUSD = salarySum / float64(salaryCount)
	}
	return st, nil
}

func hasMass(counts []float64) bool {
	for _, c := range counts {
		if c > 0 {
			return true
		}
	}
	return false
}
