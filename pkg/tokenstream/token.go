// Package tokenstream builds the normalized, offset-tracked token
// sequence a raw log line is reduced to before it ever reaches a
// LogGroup or the Drain index.
//
// It is grounded on the teacher's pkg/autotemplate/tokenize.go (the
// whitespace-splitting idiom) generalized with per-atom byte offsets
// so rendering can be stable, and on the wildcard-reflexive Token sum
// type the original Rust implementation defines in
// src/record/tokens.rs (carried over in spirit, not byte-for-byte: the
// Rust version backs Token equality with a RegexSet query and a
// custom_derive enum; Go expresses the same cascade with an ordered
// []*regexp.Regexp loop in package grokker).
package tokenstream

import (
	"math"
	"strconv"

	"github.com/nharring-adjacent/drain-flow/pkg/grokker"
	"github.com/nharring-adjacent/drain-flow/pkg/interner"
)

// TypedKind distinguishes the concrete Go representation held by a
// Value token.
type TypedKind int

const (
	TypedString TypedKind = iota
	TypedInt
	TypedFloat
)

// TypedToken is a concrete, non-wildcard value.
type TypedToken struct {
	Kind  TypedKind
	Str   interner.Symbol
	Int   int64
	Float float64
}

// TokenKind distinguishes the three Token variants.
type TokenKind int

const (
	KindWildcard TokenKind = iota
	KindTypedMatch
	KindValue
)

// Token is the sum type every position in a TokenStream holds: either
// a Wildcard (matches anything), a TypedMatch naming a Grokker type
// class, or a concrete Value.
type Token struct {
	Kind  TokenKind
	Match grokker.Grokker
	Val   TypedToken
}

// Wildcard returns the token that matches anything.
func Wildcard() Token { return Token{Kind: KindWildcard} }

// TypedMatch returns a token that matches any value of the named type
// class.
func TypedMatch(g grokker.Grokker) Token { return Token{Kind: KindTypedMatch, Match: g} }

// ValueString returns a concrete string-valued token.
func ValueString(sym interner.Symbol) Token {
	return Token{Kind: KindValue, Val: TypedToken{Kind: TypedString, Str: sym}}
}

// ValueInt returns a concrete integer-valued token.
func ValueInt(i int64) Token {
	return Token{Kind: KindValue, Val: TypedToken{Kind: TypedInt, Int: i}}
}

// ValueFloat returns a concrete float-valued token.
func ValueFloat(f float64) Token {
	return Token{Kind: KindValue, Val: TypedToken{Kind: TypedFloat, Float: f}}
}

// IsWildcard reports whether t is the Wildcard variant.
func (t Token) IsWildcard() bool { return t.Kind == KindWildcard }

// String renders the token's canonical text: "*" for a Wildcard, the
// type class name for a TypedMatch, and the concrete text for a
// Value (resolving String values through the shared interner).
func (t Token) String() string {
	switch t.Kind {
	case KindWildcard:
		return "*"
	case KindTypedMatch:
		return t.Match.String()
	case KindValue:
		switch t.Val.Kind {
		case TypedString:
			return interner.Global.Resolve(t.Val.Str)
		case TypedInt:
			return strconv.FormatInt(t.Val.Int, 10)
		case TypedFloat:
			return strconv.FormatFloat(t.Val.Float, 'g', -1, 64)
		}
	}
	return ""
}

// Equal implements the wildcard-reflexive equality relation from the
// specification. It is symmetric but deliberately not transitive: a
// Wildcard "equals" two tokens that are not equal to each other.
// Consumers (similarity scoring, variable discovery) must never rely
// on transitivity.
func (t Token) Equal(o Token) bool {
	if t.Kind == KindWildcard || o.Kind == KindWildcard {
		return true
	}
	if t.Kind == KindTypedMatch && o.Kind == KindTypedMatch {
		return t.Match == o.Match
	}
	if t.Kind == KindTypedMatch && o.Kind == KindValue {
		return typedMatchesValue(t.Match, o.Val)
	}
	if t.Kind == KindValue && o.Kind == KindTypedMatch {
		return typedMatchesValue(o.Match, t.Val)
	}
	return valueEqual(t.Val, o.Val)
}

// typedMatchesValue decides whether a concrete value could be of the
// named type class, reusing the same Grokker arbitration that
// classifies fresh atoms. A cross-variant mismatch (the value
// classifies to a different class, or doesn't classify at all, or the
// classification itself is ambiguous) is conservatively inequal.
func typedMatchesValue(g grokker.Grokker, v TypedToken) bool {
	var s string
	switch v.Kind {
	case TypedString:
		s = interner.Global.Resolve(v.Str)
	case TypedInt:
		s = strconv.FormatInt(v.Int, 10)
	case TypedFloat:
		s = strconv.FormatFloat(v.Float, 'g', -1, 64)
	}
	outcome, classified := grokker.Classify(s)
	return outcome == grokker.OutcomeTyped && classified == g
}

func valueEqual(a, b TypedToken) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case TypedString:
		return a.Str == b.Str
	case TypedInt:
		return a.Int == b.Int
	case TypedFloat:
		return ulpEqual(a.Float, b.Float, 1)
	}
	return false
}

// ulpEqual reports whether a and b are within ulps units in the last
// place of one another.
func ulpEqual(a, b float64, ulps uint64) bool {
	if a == b {
		return true
	}
	if math.IsNaN(a) || math.IsNaN(b) {
		return false
	}
	if (a < 0) != (b < 0) {
		return false
	}
	ua, ub := math.Float64bits(a), math.Float64bits(b)
	var diff uint64
	if ua > ub {
		diff = ua - ub
	} else {
		diff = ub - ua
	}
	return diff <= ulps
}
