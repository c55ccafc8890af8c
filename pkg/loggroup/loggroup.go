// Package loggroup implements the template-generalizing cluster the
// Drain index buckets examples into.
//
// Grounded on the teacher's cluster/LogCluster shape in
// internal/analyzer/autotemplate/miner.go (a representative template
// plus accumulated example lines, generalized in place as dissimilar
// examples are absorbed) and on the original Rust LogGroup in
// original_source/src/log_group/mod.rs, extended here with the
// variables map and discover/update_variables pipeline the
// specification calls for but that particular Rust snapshot had not
// yet grown.
package loggroup

import (
	"time"

	"github.com/google/uuid"

	"github.com/nharring-adjacent/drain-flow/pkg/hyperloglog"
	"github.com/nharring-adjacent/drain-flow/pkg/record"
	"github.com/nharring-adjacent/drain-flow/pkg/tokenstream"
)

// hllPrecision is modest: variable cardinality tracking is a
// diagnostic aid, not an accounting system, so the smaller end of the
// HyperLogLog's supported precision range is plenty.
const hllPrecision = 10

// variable pairs a template position with the Token that position has
// been generalized to.
type variable struct {
	pos int
	tok tokenstream.Token
}

// LogGroup is a single cluster: a generalizing template record plus
// every example absorbed into it.
type LogGroup struct {
	id          uuid.UUID
	event       record.Record
	examples    []record.Record
	variables   map[int]tokenstream.Token
	cardinality map[int]*hyperloglog.HyperLogLog
}

// New creates a LogGroup whose template is event and which has not yet
// absorbed any examples.
func New(event record.Record) *LogGroup {
	return &LogGroup{
		id:          event.ID(),
		event:       event,
		variables:   make(map[int]tokenstream.Token),
		cardinality: make(map[int]*hyperloglog.HyperLogLog),
	}
}

// Event returns the group's template record.
func (g *LogGroup) Event() record.Record { return g.event }

// Examples returns the examples absorbed into the group, in insertion
// order. This never includes the template itself.
func (g *LogGroup) Examples() []record.Record { return g.examples }

// Len returns the number of examples absorbed so far.
func (g *LogGroup) Len() int { return len(g.examples) }

// IsEmpty reports whether the group has absorbed any examples yet.
func (g *LogGroup) IsEmpty() bool { return len(g.examples) == 0 }

// ID returns the group's identifier (the template's id).
func (g *LogGroup) ID() uuid.UUID { return g.id }

// Time returns the template's creation time.
func (g *LogGroup) Time() time.Time { return g.event.Time() }

// Variables returns a snapshot of the position→Token generalization
// map.
func (g *LogGroup) Variables() map[int]tokenstream.Token {
	out := make(map[int]tokenstream.Token, len(g.variables))
	for k, v := range g.variables {
		out[k] = v
	}
	return out
}

// VariableCardinality returns the approximate number of distinct
// values observed at a generalized position, or 0 if the position has
// not been generalized (or nothing has been recorded against it yet).
// This is a supplemental diagnostic beyond the core algorithm: it lets
// a caller judge, among several wildcard positions, which ones vary
// over a handful of values (likely an enum) versus effectively
// unbounded ones (likely an id or timestamp).
func (g *LogGroup) VariableCardinality(pos int) uint64 {
	h, ok := g.cardinality[pos]
	if !ok {
		return 0
	}
	return h.Count()
}

// AddExample absorbs rec into the group: positions where rec disagrees
// with the current template are discovered, recorded into variables,
// and the template is generalized at those positions. The example is
// always appended to examples regardless of whether any new variables
// were discovered.
func (g *LogGroup) AddExample(rec record.Record) {
	vars := g.discoverVariables(rec)
	g.examples = append(g.examples, rec)
	if len(vars) > 0 {
		g.updateVariables(vars)
	}
	g.trackCardinality(rec)
}

// discoverVariables zips the template's tokens with rec's tokens,
// skipping positions already generalized, and emits a variable for
// every position where the two disagree. Iteration stops at the
// shorter of the two lengths; the Drain index's bucketing guarantees
// every example reaching a group already has the same length as its
// template, so this is purely a defensive bound.
func (g *LogGroup) discoverVariables(rec record.Record) []variable {
	n := g.event.Len()
	if rec.Len() < n {
		n = rec.Len()
	}
	var out []variable
	for i := 0; i < n; i++ {
		if _, already := g.variables[i]; already {
			continue
		}
		tmplTok, _ := g.event.At(i)
		recTok, _ := rec.At(i)
		if !tmplTok.Equal(recTok) {
			out = append(out, variable{pos: i, tok: tokenstream.Wildcard()})
		}
	}
	return out
}

// updateVariables is the template's sole mutator: each discovered
// variable is recorded and the template token at that position is
// overwritten. A position already in variables is never revisited, so
// generalization is monotone.
func (g *LogGroup) updateVariables(vars []variable) {
	stream := g.event.Stream()
	for _, v := range vars {
		g.variables[v.pos] = v.tok
		stream.Overwrite(v.pos, v.tok)
	}
}

func (g *LogGroup) trackCardinality(rec record.Record) {
	for pos := range g.variables {
		tok, ok := rec.At(pos)
		if !ok {
			continue
		}
		h, ok := g.cardinality[pos]
		if !ok {
			h = hyperloglog.New(hllPrecision)
			g.cardinality[pos] = h
		}
		h.Add(tok.String())
	}
}

// String renders the group's template for diagnostics: each token's
// current text (literal, "*" for a wildcard, or the grokker name for a
// typed match), separated by the same inter-token gap the template's
// underlying stream was constructed with.
func (g *LogGroup) String() string {
	return g.event.Render()
}
