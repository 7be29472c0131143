package artifact

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kailas-cloud/jobscope/internal/domain"
	"github.com/kailas-cloud/jobscope/internal/topic"
)

// Load reads and validates an artifact set from dir. Any missing file, bad
// checksum, version mismatch, or shape mismatch yields ErrModelUnavailable
// with the underlying cause attached.
func Load(dir string) (*Set, error) {
	manifestPath := filepath.Join(dir, ManifestFile)
	raw, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read manifest %s: %w", domain.ErrModelUnavailable, manifestPath, err)
	}
	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("%w: parse manifest: %w", domain.ErrModelUnavailable, err)
	}
	if m.FormatVersion != FormatVersion {
		return nil, fmt.Errorf(
			"%w: artifact format version %d, this build reads %d",
			domain.ErrModelUnavailable, m.FormatVersion, FormatVersion,
		)
	}
	if m.Topics <= 0 || m.VocabSize <= 0 {
		return nil, fmt.Errorf(
			"%w: manifest declares topics=%d vocab_size=%d",
			domain.ErrModelUnavailable, m.Topics, m.VocabSize,
		)
	}

	// Every data file must match the checksum recorded by the training run
	// that produced the manifest: files from different runs never mix.
	data := make(map[string][]byte, 4)
	for _, name := range []string{VocabularyFile, TopicsFile, RecordsFile, DistributionsFile} {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", domain.ErrModelUnavailable, name, err)
		}
		sum := sha256.Sum256(b)
		if got, want := hex.EncodeToString(sum[:]), m.Checksums[name]; got != want {
			return nil, fmt.Errorf(
				"%w: checksum mismatch for %s (artifact files are from different training runs?)",
				domain.ErrModelUnavailable, name,
			)
		}
		data[name] = b
	}

	var terms []string
	if err := json.Unmarshal(data[VocabularyFile], &terms); err != nil {
		return nil, fmt.Errorf("%w: parse vocabulary: %w", domain.ErrModelUnavailable, err)
	}
	vocab, err := topic.NewVocabulary(terms)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid vocabulary: %w", domain.ErrModelUnavailable, err)
	}
	if vocab.Size() != m.VocabSize {
		return nil, fmt.Errorf(
			"%w: vocabulary has %d terms, manifest declares %d",
			domain.ErrModelUnavailable, vocab.Size(), m.VocabSize,
		)
	}

	weights, err := decodeFloats(data[TopicsFile], m.Topics*m.VocabSize)
	if err != nil {
		return nil, fmt.Errorf("%w: read topic weights: %w", domain.ErrModelUnavailable, err)
	}
	model, err := topic.NewModel(m.Topics, m.VocabSize, m.Alpha, weights)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid topic weights: %w", domain.ErrModelUnavailable, err)
	}

	records, err := decodeRecords(data[RecordsFile])
	if err != nil {
		return nil, fmt.Errorf("%w: read corpus records: %w", domain.ErrModelUnavailable, err)
	}
	if len(records) != m.Records {
		return nil, fmt.Errorf(
			"%w: %d corpus records, manifest declares %d",
			domain.ErrModelUnavailable, len(records), m.Records,
		)
	}

	flat, err := decodeFloats(data[DistributionsFile], m.Records*m.Topics)
	if err != nil {
		return nil, fmt.Errorf("%w: read corpus distributions: %w", domain.ErrModelUnavailable, err)
	}
	dists := make([][]float64, m.Records)
	for i := range dists {
		dists[i] = flat[i*m.Topics : (i+1)*m.Topics]
	}

	return &Set{
		Manifest:      m,
		Vocabulary:    vocab,
		Model:         model,
		Records:       records,
		Distributions: dists,
	}, nil
}

func decodeFloats(b []byte, want int) ([]float64, error) {
	if len(b) != want*8 {
		return nil, fmt.Errorf("got %d bytes, want %d (%d float64 values)", len(b), want*8, want)
	}
	out := make([]float64, want)
	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, out); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeRecords(b []byte) ([]domain.Record, error) {
	var out []domain.Record
	scanner := bufio.NewScanner(bytes.NewReader(b))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var r domain.Record
		if err := json.Unmarshal(line, &r); err != nil {
			return nil, fmt.Errorf("invalid record line %d: %w", len(out)+1, err)
		}
		out = append(out, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
