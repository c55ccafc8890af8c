// Package sharding layers caller-managed concurrency on top of a
// single-threaded-cooperative drain.Index, exactly as the
// specification's concurrency model asks: "a caller that wants
// concurrent ingestion must shard by length or by index instance".
//
// Grounded on the teacher's ShardedMiner/selectShard in
// internal/analyzer/autotemplate/miner.go: one independent instance
// per shard, picked by an fnv32a hash of the line's first token and
// token count, so related lines always land on the same shard's
// instance and its within-bucket insertion-order guarantees still
// hold for them.
package sharding

import (
	"hash/fnv"

	"github.com/nharring-adjacent/drain-flow/pkg/drain"
	"github.com/nharring-adjacent/drain-flow/pkg/loggroup"
	"github.com/nharring-adjacent/drain-flow/pkg/tokenstream"
)

// Index fans ingestion out across N independent drain.Index instances.
// It does not change the semantics of any single instance; it only
// picks which instance a given line belongs to.
type Index struct {
	shards []*drain.Index
}

// New creates a sharded index with the given shard count, each shard
// configured with the same domain filter patterns. A shardCount below
// 1 is treated as 1.
func New(shardCount int, domainPatterns []string) (*Index, error) {
	if shardCount < 1 {
		shardCount = 1
	}
	shards := make([]*drain.Index, shardCount)
	for i := range shards {
		idx, err := drain.New(domainPatterns)
		if err != nil {
			return nil, err
		}
		shards[i] = idx
	}
	return &Index{shards: shards}, nil
}

// ProcessLine routes line to the shard its first token and length hash
// to, then delegates to that shard's ProcessLine.
func (s *Index) ProcessLine(line string) (bool, error) {
	if line == "" {
		return false, nil
	}
	return s.shardFor(line).ProcessLine(line)
}

func (s *Index) shardFor(line string) *drain.Index {
	if len(s.shards) == 1 {
		return s.shards[0]
	}
	ts := tokenstream.FromLine(line)
	h := fnv.New32a()
	if first, ok := ts.First(); ok {
		h.Write([]byte(first.String()))
	}
	h.Write([]byte{byte(ts.Len())})
	idx := int(h.Sum32()) % len(s.shards)
	return s.shards[idx]
}

// Shards returns the underlying per-shard indices, for inspection
// (e.g. iterating every group across every shard).
func (s *Index) Shards() []*drain.Index {
	out := make([]*drain.Index, len(s.shards))
	copy(out, s.shards)
	return out
}

// IterGroups returns every group across every shard, flattened into
// the same "grouped by length bucket" shape a single drain.Index
// reports: each shard's length buckets in turn, so a length present in
// several shards appears once per shard.
func (s *Index) IterGroups() [][]*loggroup.LogGroup {
	var out [][]*loggroup.LogGroup
	for _, shard := range s.shards {
		out = append(out, shard.IterGroups()...)
	}
	return out
}
