// Package history persists a compact record of served match queries.
// Persistence is best-effort: the matching path never fails because a
// history write failed.
package history

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kailas-cloud/jobscope/internal/domain"
)

// DB is the minimal list-store contract the repository needs.
type DB interface {
	LPush(ctx context.Context, key string, values ...string) error
	LTrim(ctx context.Context, key string, start, stop int64) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

// Entry is one served query. Only a hash of the query text is stored; the
// résumé itself never leaves the request.
type Entry struct {
	QueryHash   string       `json:"query_hash"`
	RequestedAt time.Time    `json:"requested_at"`
	TopN        int          `json:"top_n"`
	Matches     []EntryMatch `json:"matches"`
}

// EntryMatch is one ranked hit inside a history entry.
type EntryMatch struct {
	JobID string  `json:"job_id"`
	Rank  int     `json:"rank"`
	Score float64 `json:"score"`
}

// Store writes match history to a capped, expiring list.
type Store struct {
	db   DB
	key  string
	keep int64
	ttl  time.Duration
}

// New creates a history store. keep caps the list length; ttl expires the
// whole list after inactivity.
func New(db DB, keyPrefix string, keep int64, ttl time.Duration) *Store {
	return &Store{db: db, key: keyPrefix + "history", keep: keep, ttl: ttl}
}

// NewEntry builds a history entry from served matches.
func NewEntry(rawText string, topN int, matches []domain.Match, at time.Time) Entry {
	sum := sha256.Sum256([]byte(rawText))
	e := Entry{
		QueryHash:   hex.EncodeToString(sum[:8]),
		RequestedAt: at.UTC(),
		TopN:        topN,
		Matches:     make([]EntryMatch, len(matches)),
	}
	for i, m := range matches {
		e.Matches[i] = EntryMatch{JobID: m.Record.ID, Rank: m.Rank, Score: m.Score}
	}
	return e
}

// Record appends an entry and enforces the cap and TTL.
func (s *Store) Record(ctx context.Context, e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal history entry: %w", err)
	}
	if err := s.db.LPush(ctx, s.key, string(data)); err != nil {
		return err
	}
	if err := s.db.LTrim(ctx, s.key, 0, s.keep-1); err != nil {
		return err
	}
	return s.db.Expire(ctx, s.key, s.ttl)
}

// Recent returns up to n most recent entries, newest first.
func (s *Store) Recent(ctx context.Context, n int64) ([]Entry, error) {
	raw, err := s.db.LRange(ctx, s.key, 0, n-1)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(raw))
	for _, line := range raw {
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			return nil, fmt.Errorf("corrupt history entry: %w", err)
		}
		out = append(out, e)
	}
	return out, nil
}
