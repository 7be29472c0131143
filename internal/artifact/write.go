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
	"time"

	"github.com/gofrs/flock"
)

// Write persists the set into dir atomically: files are written to a staging
// directory and swapped in with renames, so readers never observe a
// half-written artifact. A file lock serializes concurrent writers.
func Write(dir string, set *Set) error {
	lock := flock.New(dir + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquire artifact lock: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	next := dir + ".next"
	if err := os.RemoveAll(next); err != nil {
		return fmt.Errorf("clear staging dir: %w", err)
	}
	if err := os.MkdirAll(next, 0o755); err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}

	m := set.Manifest
	m.FormatVersion = FormatVersion
	if m.CreatedAt == "" {
		m.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	m.Topics = set.Model.Topics()
	m.VocabSize = set.Vocabulary.Size()
	m.Records = len(set.Records)
	m.Alpha = set.Model.Alpha()
	m.Checksums = make(map[string]string, 4)

	files := []struct {
		name   string
		encode func() ([]byte, error)
	}{
		{VocabularyFile, func() ([]byte, error) { return json.Marshal(set.Vocabulary.Terms()) }},
		{TopicsFile, func() ([]byte, error) { return encodeFloats(set.Model.Weights()) }},
		{RecordsFile, func() ([]byte, error) { return encodeRecords(set) }},
		{DistributionsFile, func() ([]byte, error) { return encodeFloats(flatten(set.Distributions)) }},
	}
	for _, f := range files {
		data, err := f.encode()
		if err != nil {
			return fmt.Errorf("encode %s: %w", f.name, err)
		}
		if err := os.WriteFile(filepath.Join(next, f.name), data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
		sum := sha256.Sum256(data)
		m.Checksums[f.name] = hex.EncodeToString(sum[:])
	}

	manifest, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(next, ManifestFile), manifest, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return swap(dir, next)
}

// swap replaces dir with next, keeping the old directory until the new one
// is in place.
func swap(dir, next string) error {
	old := dir + ".old"
	if err := os.RemoveAll(old); err != nil {
		return fmt.Errorf("clear previous artifact: %w", err)
	}
	if _, err := os.Stat(dir); err == nil {
		if err := os.Rename(dir, old); err != nil {
			return fmt.Errorf("retire current artifact: %w", err)
		}
	}
	if err := os.Rename(next, dir); err != nil {
		return fmt.Errorf("activate new artifact: %w", err)
	}
	return os.RemoveAll(old)
}

func encodeFloats(values []float64) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(values) * 8)
	if err := binary.Write(&buf, binary.LittleEndian, values); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeRecords(set *Set) ([]byte, error) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	enc := json.NewEncoder(w)
	for _, r := range set.Records {
		if err := enc.Encode(r); err != nil {
			return nil, err
		}
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func flatten(rows [][]float64) []float64 {
	var n int
	for _, r := range rows {
		n += len(r)
	}
	out := make([]float64, 0, n)
	for _, r := range rows {
		out = append(out, r...)
	}
	return out
}
