package tokenstream

import (
	"strings"

	"github.com/nharring-adjacent/drain-flow/pkg/interner"
)

// Offset is a (start, end) byte range into the original line.
type Offset struct {
	Start int
	End   int
}

type entry struct {
	Offset Offset
	Tok    Token
}

// TokenStream is the ordered (Offset, Token) sequence a raw line is
// reduced to. Offsets are strictly increasing and non-overlapping.
// A TokenStream is immutable once built except through Overwrite,
// which a LogGroup uses exclusively to generalize its own template.
type TokenStream struct {
	entries []entry
}

// FromLine splits a raw line into atoms on runs of ASCII whitespace,
// recording each atom's byte offsets, and interns each atom as a
// Value(String(...)) token. Type inference is deliberately deferred:
// the base construction keeps the raw string form so rendering stays
// stable; typing only happens when a Value token is compared against
// a TypedMatch token (see Token.Equal).
func FromLine(line string) TokenStream {
	var entries []entry
	n := len(line)
	i := 0
	for i < n {
		for i < n && isASCIISpace(line[i]) {
			i++
		}
		if i >= n {
			break
		}
		start := i
		for i < n && !isASCIISpace(line[i]) {
			i++
		}
		end := i
		sym := interner.Global.Intern(line[start:end])
		entries = append(entries, entry{
			Offset: Offset{Start: start, End: end},
			Tok:    ValueString(sym),
		})
	}
	return TokenStream{entries: entries}
}

func isASCIISpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

// Len reports the number of tokens in the stream.
func (ts TokenStream) Len() int { return len(ts.entries) }

// IsEmpty reports whether the stream has no tokens.
func (ts TokenStream) IsEmpty() bool { return len(ts.entries) == 0 }

// First returns the first token, if any.
func (ts TokenStream) First() (Token, bool) {
	if len(ts.entries) == 0 {
		return Token{}, false
	}
	return ts.entries[0].Tok, true
}

// At returns the token at index i.
func (ts TokenStream) At(i int) (Token, bool) {
	if i < 0 || i >= len(ts.entries) {
		return Token{}, false
	}
	return ts.entries[i].Tok, true
}

// Overwrite replaces the token at index i in place. This is the only
// mutation a TokenStream permits after construction; LogGroup uses it
// to generalize its template's positions to Wildcard.
func (ts *TokenStream) Overwrite(i int, tok Token) {
	if i >= 0 && i < len(ts.entries) {
		ts.entries[i].Tok = tok
	}
}

// Tokens returns the tokens in order, for borrowing comparisons.
func (ts TokenStream) Tokens() []Token {
	out := make([]Token, len(ts.entries))
	for i, e := range ts.entries {
		out[i] = e.Tok
	}
	return out
}

// Strings returns the rendered form of each token in order, for
// consuming iteration.
func (ts TokenStream) Strings() []string {
	out := make([]string, len(ts.entries))
	for i, e := range ts.entries {
		out[i] = e.Tok.String()
	}
	return out
}

// Render reconstructs a line from the stream: each token's rendered
// text, interleaved with a run of spaces as wide as the gap between
// the original atoms' offsets. For a TokenStream fresh from FromLine
// this reproduces the original line's inter-token spacing exactly;
// after a position has been generalized to Wildcard or a TypedMatch
// the spacing is unaffected, only that position's text changes.
func (ts TokenStream) Render() string {
	if len(ts.entries) == 0 {
		return ""
	}
	var b strings.Builder
	for i, e := range ts.entries {
		if i > 0 {
			gap := e.Offset.Start - ts.entries[i-1].Offset.End
			if gap < 1 {
				gap = 1
			}
			b.WriteString(strings.Repeat(" ", gap))
		}
		b.WriteString(e.Tok.String())
	}
	return b.String()
}
