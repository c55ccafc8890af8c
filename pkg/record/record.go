// Package record wraps a single ingested log line: a KSUID-like
// identifier (a time-sortable google/uuid v7, the nearest equivalent
// the pack offers to the original's rksuid::Ksuid) paired with the
// line's tokenstream.TokenStream.
//
// Grounded on the cluster/tokens shape the teacher builds in
// internal/analyzer/autotemplate/miner.go, where each ingested line is
// held alongside its tokenized form for later similarity scoring
// against a cluster's representative tokens.
package record

import (
	"encoding/binary"
	"time"

	"github.com/google/uuid"

	"github.com/nharring-adjacent/drain-flow/pkg/tokenstream"
)

// Record is one tokenized, identified log line.
type Record struct {
	id    uuid.UUID
	inner tokenstream.TokenStream
}

// New tokenizes line and stamps it with a fresh time-sortable id.
func New(line string) Record {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails if the process-wide random source cannot be
		// read; fall back to a pure-random v4 rather than panic on a
		// line the caller is simply trying to ingest.
		id = uuid.New()
	}
	return Record{id: id, inner: tokenstream.FromLine(line)}
}

// ID returns the record's identifier.
func (r Record) ID() uuid.UUID { return r.id }

// Time extracts the creation timestamp embedded in the id. RFC 9562
// lays a UUIDv7's first 48 bits out as a big-endian Unix millisecond
// count; for a v4 fallback id (version nibble != 7) this returns the
// zero time rather than a misread value.
func (r Record) Time() time.Time {
	if r.id.Version() != 7 {
		return time.Time{}
	}
	var ms [8]byte
	copy(ms[2:], r.id[:6])
	millis := binary.BigEndian.Uint64(ms[:])
	return time.UnixMilli(int64(millis)).UTC()
}

// Len reports the number of tokens in the record.
func (r Record) Len() int { return r.inner.Len() }

// First returns the record's first token, if any.
func (r Record) First() (tokenstream.Token, bool) { return r.inner.First() }

// At returns the token at position i.
func (r Record) At(i int) (tokenstream.Token, bool) { return r.inner.At(i) }

// Tokens returns the record's tokens in order.
func (r Record) Tokens() []tokenstream.Token { return r.inner.Tokens() }

// Strings returns the rendered form of each token in order.
func (r Record) Strings() []string { return r.inner.Strings() }

// Render reconstructs the original line's text.
func (r Record) Render() string { return r.inner.Render() }

// Stream exposes the record's underlying token stream for callers
// (LogGroup generalization) that need positional mutation.
func (r *Record) Stream() *tokenstream.TokenStream { return &r.inner }

// SimilarityScore counts the positions, up to the shorter of the two
// records' lengths, at which the two records' tokens are Equal. This
// is the raw numerator the Drain index divides by length to compare
// against its threshold.
func (r Record) SimilarityScore(other Record) int {
	n := r.Len()
	if other.Len() < n {
		n = other.Len()
	}
	score := 0
	for i := 0; i < n; i++ {
		a, _ := r.At(i)
		b, _ := other.At(i)
		if a.Equal(b) {
			score++
		}
	}
	return score
}
