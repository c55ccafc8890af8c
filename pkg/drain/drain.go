// Package drain implements the two-level online log template index:
// bucket by token length, then by first-token symbol, absorbing a new
// line into the best-matching existing group or forking a new one.
//
// Grounded on the teacher's MinerShard in
// internal/analyzer/autotemplate/miner.go — a tree keyed by token
// count and first token, storing clusters of similar template
// strings — generalized here to the two-level map the specification
// calls for, and on the exact-rational threshold comparison the
// original Rust SingleLayer uses in original_source/src/drains/simple.rs
// (there built on fraction::Ratio<BigInt>; here on math/big.Rat, the
// closest stdlib equivalent, since no arbitrary-precision rational
// library appears anywhere in the retrieval pack).
package drain

import (
	"fmt"
	"math/big"
	"regexp"
	"sync"

	"github.com/nharring-adjacent/drain-flow/pkg/interner"
	"github.com/nharring-adjacent/drain-flow/pkg/loggroup"
	"github.com/nharring-adjacent/drain-flow/pkg/record"
	"github.com/nharring-adjacent/drain-flow/pkg/tokenstream"
)

// Index is the Drain template index. It is safe for concurrent use: a
// single RWMutex guards the whole bucket map, matching the
// specification's description of the index as single-threaded
// cooperative at its core with any sharding left to the caller — the
// lock here exists only so one Index can be inspected (iter_groups,
// resolve) from a goroutine other than the one driving ProcessLine,
// not to parallelize ingestion itself.
type Index struct {
	mu        sync.RWMutex
	threshold *big.Rat
	baseLayer map[int]map[interner.Symbol][]*loggroup.LogGroup
	// domain holds optional caller-supplied prefilters (see package
	// patterns): a line matching any of them is excluded from the
	// index entirely — neither absorbed nor turned into a new group —
	// rather than being tokenized and bucketed.
	domain   []*regexp.Regexp
	interner *interner.Interner
}

// New constructs an Index with the default similarity threshold (1/2)
// and the given domain filter patterns. A domain pattern that fails to
// compile is a configuration error.
func New(domainPatterns []string) (*Index, error) {
	domain := make([]*regexp.Regexp, 0, len(domainPatterns))
	for _, p := range domainPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("drain: invalid domain pattern %q: %w", p, err)
		}
		domain = append(domain, re)
	}
	return &Index{
		threshold: big.NewRat(1, 2),
		baseLayer: make(map[int]map[interner.Symbol][]*loggroup.LogGroup),
		domain:    domain,
		interner:  interner.Global,
	}, nil
}

// SetThreshold updates the similarity threshold to numerator/denominator.
// A zero denominator is a configuration error.
func (idx *Index) SetThreshold(numerator, denominator int64) error {
	if denominator == 0 {
		return fmt.Errorf("drain: threshold denominator must be non-zero")
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.threshold = big.NewRat(numerator, denominator)
	return nil
}

// ProcessLine ingests one raw line. It returns true if a new group was
// created, false if the line was absorbed into an existing group.
// An empty line is a no-op reported as false.
func (idx *Index) ProcessLine(line string) (bool, error) {
	if line == "" {
		return false, nil
	}
	for _, re := range idx.domain {
		if re.MatchString(line) {
			return false, nil
		}
	}
	rec := record.New(line)
	length := rec.Len()
	if length == 0 {
		return false, nil
	}
	first, _ := rec.First()
	key := firstTokenKey(first)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	bucket, ok := idx.baseLayer[length]
	if !ok {
		bucket = make(map[interner.Symbol][]*loggroup.LogGroup)
		idx.baseLayer[length] = bucket
	}

	groups, ok := bucket[key]
	if !ok {
		bucket[key] = []*loggroup.LogGroup{loggroup.New(rec)}
		return true, nil
	}

	bestScore := -1
	bestIdx := -1
	for i, g := range groups {
		score := g.Event().SimilarityScore(rec)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	ratio := big.NewRat(int64(bestScore), int64(length))
	if ratio.Cmp(idx.threshold) > 0 {
		groups[bestIdx].AddExample(rec)
		return false, nil
	}

	bucket[key] = append(groups, loggroup.New(rec))
	return true, nil
}

// firstTokenKey derives the interner symbol a first token buckets
// under. A fresh tokenstream.FromLine only ever produces Value(String)
// tokens, which already carry an interned symbol for their exact text;
// any other variant (a caller-constructed record) falls back to
// interning the token's rendered form.
func firstTokenKey(tok tokenstream.Token) interner.Symbol {
	if tok.Kind == tokenstream.KindValue && tok.Val.Kind == tokenstream.TypedString {
		return tok.Val.Str
	}
	return interner.Global.Intern(tok.String())
}

// IterGroups returns every group, grouped by length bucket: one inner
// slice per token length. The outer sequence has no defined order
// across lengths; within a length, groups sharing a first token keep
// their insertion order, and the order between different first tokens
// is not defined.
func (idx *Index) IterGroups() [][]*loggroup.LogGroup {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make([][]*loggroup.LogGroup, 0, len(idx.baseLayer))
	for _, bucket := range idx.baseLayer {
		var cp []*loggroup.LogGroup
		for _, groups := range bucket {
			cp = append(cp, groups...)
		}
		out = append(out, cp)
	}
	return out
}

// Resolve delegates to the shared interner.
func (idx *Index) Resolve(sym interner.Symbol) string {
	return idx.interner.Resolve(sym)
}
