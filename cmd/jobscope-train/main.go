// jobscope-train fits the topic model offline and writes the versioned
// artifact set the API server loads at startup.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobscope/internal/artifact"
	"github.com/kailas-cloud/jobscope/internal/config"
	"github.com/kailas-cloud/jobscope/internal/ingest"
	logpkg "github.com/kailas-cloud/jobscope/internal/logger"
	"github.com/kailas-cloud/jobscope/internal/topic"
	"github.com/kailas-cloud/jobscope/internal/version"
)

type trainFlags struct {
	jobsPath    string
	resumesPath string
	outDir      string
	topics      int
	seed        int64
	maxIter     int
	batchSize   int
	maxTerms    int
	minDF       int
	maxDF       float64
	topTerms    int
}

func main() {
	var flags trainFlags

	cmd := &cobra.Command{
		Use:     "jobscope-train",
		Short:   "Train the job-matching topic model and write its artifact set",
		Version: version.Version,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(flags)
		},
	}

	cmd.Flags().StringVar(&flags.jobsPath, "jobs", "", "CSV file with job postings (required)")
	cmd.Flags().StringVar(&flags.resumesPath, "resumes", "", "optional CSV file with résumé texts, included in vocabulary fitting")
	cmd.Flags().StringVar(&flags.outDir, "out", "final_model", "output directory for the artifact set")
	cmd.Flags().IntVar(&flags.topics, "topics", 10, "number of latent topics")
	cmd.Flags().Int64Var(&flags.seed, "seed", 42, "random seed for reproducible training")
	cmd.Flags().IntVar(&flags.maxIter, "max-iter", 50, "full passes over the corpus")
	cmd.Flags().IntVar(&flags.batchSize, "batch-size", 128, "mini-batch size")
	cmd.Flags().IntVar(&flags.maxTerms, "max-terms", 5000, "vocabulary size cap")
	cmd.Flags().IntVar(&flags.minDF, "min-df", 2, "minimum document frequency")
	cmd.Flags().Float64Var(&flags.maxDF, "max-df", 0.95, "maximum document frequency proportion")
	cmd.Flags().IntVar(&flags.topTerms, "top-terms", 10, "top terms logged per topic after training")
	_ = cmd.MarkFlagRequired("jobs")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(flags trainFlags) error {
	logger, err := logpkg.NewLogger(config.GetEnv(), "")
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	start := time.Now()

	records, err := ingest.ReadJobs(flags.jobsPath)
	if err != nil {
		return fmt.Errorf("read job postings: %w", err)
	}
	logger.Info("Loaded job postings",
		zap.String("path", flags.jobsPath),
		zap.Int("count", len(records)),
	)

	// The vocabulary is fitted on postings plus résumés when a résumé dataset
	// is supplied; the topic model itself is always fitted on postings only.
	fitDocs := make([]string, 0, len(records))
	for _, r := range records {
		fitDocs = append(fitDocs, r.Text)
	}
	if flags.resumesPath != "" {
		resumes, err := ingest.ReadTexts(flags.resumesPath)
		if err != nil {
			return fmt.Errorf("read résumés: %w", err)
		}
		fitDocs = append(fitDocs, resumes...)
		logger.Info("Loaded résumé texts",
			zap.String("path", flags.resumesPath),
			zap.Int("count", len(resumes)),
		)
	}

	vocab, err := topic.BuildVocabulary(fitDocs, topic.BuildOptions{
		MinDF:    flags.minDF,
		MaxDF:    flags.maxDF,
		MaxTerms: flags.maxTerms,
	})
	if err != nil {
		return fmt.Errorf("build vocabulary: %w", err)
	}
	logger.Info("Vocabulary fitted", zap.Int("terms", vocab.Size()))

	vec := topic.NewVectorizer(vocab, nil)
	counts := make([][]float64, len(records))
	for i, r := range records {
		counts[i] = vec.Vectorize(r.Text)
	}

	model, err := topic.Train(counts, vocab.Size(), topic.TrainConfig{
		Topics:    flags.topics,
		Seed:      flags.seed,
		MaxIter:   flags.maxIter,
		BatchSize: flags.batchSize,
	})
	if err != nil {
		return fmt.Errorf("train model: %w", err)
	}
	logger.Info("Model trained",
		zap.Int("topics", model.Topics()),
		zap.Duration("duration", time.Since(start)),
	)

	for k := 0; k < model.Topics(); k++ {
		terms := make([]string, 0, flags.topTerms)
		for _, w := range model.TopTermIndices(k, flags.topTerms) {
			terms = append(terms, vocab.Term(w))
		}
		logger.Info("Topic summary",
			zap.Int("topic", k),
			zap.String("top_terms", strings.Join(terms, " ")),
		)
	}

	dists := make([][]float64, len(records))
	for i := range records {
		dist, err := model.Infer(counts[i])
		if err != nil {
			return fmt.Errorf("infer posting %q: %w", records[i].ID, err)
		}
		dists[i] = dist
	}

	set := &artifact.Set{
		Manifest: artifact.Manifest{
			FormatVersion: artifact.FormatVersion,
			Topics:        model.Topics(),
			VocabSize:     vocab.Size(),
			Records:       len(records),
			Alpha:         model.Alpha(),
			Seed:          flags.seed,
		},
		Vocabulary:    vocab,
		Model:         model,
		Records:       records,
		Distributions: dists,
	}
	if err := artifact.Write(flags.outDir, set); err != nil {
		return fmt.Errorf("write artifacts: %w", err)
	}

	logger.Info("Artifact set written",
		zap.String("dir", flags.outDir),
		zap.Int("jobs", len(records)),
		zap.Duration("total", time.Since(start)),
	)
	return nil
}
