// Package grokker classifies a single token atom into one of a fixed,
// ordered set of type classes using anchored regular expressions.
//
// The ordering of the Grokker enumeration is significant: match-set
// membership is reported by variant, and the ambiguity-arbitration
// cascade in Classify is defined directly in terms of which variants
// matched, not by pattern index into some external table. This mirrors
// the type-class cascade used by the teacher's own log-parsing code
// (internal/patterns/patterns.go's DefaultPatterns, and the Drain
// ports collected under other_examples/ that loop a slice of
// precompiled *regexp.Regexp over an atom) generalized from a handful
// of ad-hoc patterns into the full ordered enumeration this spec asks
// for.
package grokker

import "regexp"

// Grokker names a type class a token atom may belong to.
type Grokker int

const (
	Base10Integer Grokker = iota
	Base10Float
	Base16Integer
	Base16Float
	UUID
	MAC
	IPv6
	IPv4
	Hostname
	Month
	Day

	numGrokkers
)

var names = [numGrokkers]string{
	Base10Integer: "Base10Integer",
	Base10Float:   "Base10Float",
	Base16Integer: "Base16Integer",
	Base16Float:   "Base16Float",
	UUID:          "UUID",
	MAC:           "MAC",
	IPv6:          "IPv6",
	IPv4:          "IPv4",
	Hostname:      "Hostname",
	Month:         "Month",
	Day:           "Day",
}

// String returns the canonical name of the type class, used both for
// diagnostics and as the rendered form of a TypedMatch token.
func (g Grokker) String() string {
	if g < 0 || g >= numGrokkers {
		return "Unknown"
	}
	return names[g]
}

// patterns holds one anchored regex per Grokker variant, compiled once
// at package init. Anchoring on both ends means a pattern matches only
// when the *entire* atom belongs to the class, not some substring of
// it — classification operates on whole atoms produced by the
// tokenizer, never on raw lines.
var patterns = [numGrokkers]*regexp.Regexp{
	Base10Integer: regexp.MustCompile(`^[+-]?[0-9]+$`),
	Base10Float:   regexp.MustCompile(`^[+-]?(?:[0-9]+\.[0-9]+|\.[0-9]+)$`),
	Base16Integer: regexp.MustCompile(`^[+-]?(?:0[xX])?[0-9A-Fa-f]+$`),
	Base16Float:   regexp.MustCompile(`^[+-]?(?:0[xX])?(?:[0-9A-Fa-f]+\.[0-9A-Fa-f]*|\.[0-9A-Fa-f]+)$`),
	UUID:          regexp.MustCompile(`^[0-9A-Fa-f]{8}-[0-9A-Fa-f]{4}-[0-9A-Fa-f]{4}-[0-9A-Fa-f]{4}-[0-9A-Fa-f]{12}$`),
	MAC:           regexp.MustCompile(`^(?:[0-9A-Fa-f]{2}:){5}[0-9A-Fa-f]{2}$`),
	IPv6: regexp.MustCompile(`^(` +
		`([0-9A-Fa-f]{1,4}:){7}[0-9A-Fa-f]{1,4}` +
		`|([0-9A-Fa-f]{1,4}:){1,7}:` +
		`|([0-9A-Fa-f]{1,4}:){1,6}:[0-9A-Fa-f]{1,4}` +
		`|([0-9A-Fa-f]{1,4}:){1,5}(:[0-9A-Fa-f]{1,4}){1,2}` +
		`|([0-9A-Fa-f]{1,4}:){1,4}(:[0-9A-Fa-f]{1,4}){1,3}` +
		`|([0-9A-Fa-f]{1,4}:){1,3}(:[0-9A-Fa-f]{1,4}){1,4}` +
		`|([0-9A-Fa-f]{1,4}:){1,2}(:[0-9A-Fa-f]{1,4}){1,5}` +
		`|[0-9A-Fa-f]{1,4}:((:[0-9A-Fa-f]{1,4}){1,6})` +
		`|:((:[0-9A-Fa-f]{1,4}){1,7}|:)` +
		`)$`),
	IPv4: regexp.MustCompile(`^(?:(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)$`),
	Hostname: regexp.MustCompile(`^[0-9A-Za-z][0-9A-Za-z-]{0,62}(?:\.[0-9A-Za-z][0-9A-Za-z-]{0,62})*\.?$`),
	Month: regexp.MustCompile(`(?i)^(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun[e]?|jul[y]?|aug(?:ust)?|sep(?:tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)$`),
	Day:  regexp.MustCompile(`(?i)^(?:mon(?:day)?|tue(?:sday)?|wed(?:nesday)?|thu(?:rsday)?|fri(?:day)?|sat(?:urday)?|sun(?:day)?)$`),
}

// Outcome describes the result of classifying one atom.
type Outcome int

const (
	// OutcomeValue means the atom matched no type class; it should be
	// represented as a plain concrete value, not a typed match.
	OutcomeValue Outcome = iota
	// OutcomeTyped means exactly one type class applies (directly, or
	// after the ambiguity cascade resolved a tie).
	OutcomeTyped
	// OutcomeWildcard means two or more type classes matched and the
	// cascade couldn't resolve a single winner.
	OutcomeWildcard
)

// Classify decides, for a single atom, which type class (if any) it
// belongs to. The arbitration rules below implement the cascade from
// the specification: Hostname overlaps the numeric classes and UUID,
// so the more specific class always wins a tie where one exists, and
// any other ambiguity falls back to a Wildcard outcome.
//
// Hostname's label grammar (alphanumerics, hyphens, dots) is loose
// enough to also shape-match IPv4 dotted-quads and bare month/day
// names, none of which the cascade below is meant to arbitrate against
// Hostname — those three classes are expected to stand on their own.
// RE2 has no lookahead to exclude them inside the pattern itself, so
// Classify excludes those specific overlaps explicitly before building
// the matched set.
func Classify(atom string) (Outcome, Grokker) {
	var matched []Grokker
	for g := Grokker(0); g < numGrokkers; g++ {
		if !patterns[g].MatchString(atom) {
			continue
		}
		if g == Hostname && (patterns[IPv4].MatchString(atom) || patterns[Month].MatchString(atom) || patterns[Day].MatchString(atom)) {
			continue
		}
		matched = append(matched, g)
	}

	switch len(matched) {
	case 0:
		return OutcomeValue, 0
	case 1:
		return OutcomeTyped, matched[0]
	case 2:
		return classifyTwo(matched[0], matched[1])
	case 3:
		return classifyThree(matched)
	default:
		return OutcomeWildcard, 0
	}
}

func bit(g Grokker) uint16 { return 1 << uint(g) }

func classifyTwo(a, b Grokker) (Outcome, Grokker) {
	mask := bit(a) | bit(b)
	switch mask {
	case bit(UUID) | bit(Hostname):
		return OutcomeTyped, UUID
	case bit(Base10Integer) | bit(Base16Integer):
		return OutcomeTyped, Base10Integer
	case bit(Base10Float) | bit(Base16Float):
		return OutcomeTyped, Base10Float
	case bit(Base16Integer) | bit(Hostname):
		return OutcomeTyped, Base16Integer
	case bit(Base16Float) | bit(Hostname):
		return OutcomeTyped, Base16Float
	default:
		return OutcomeWildcard, 0
	}
}

func classifyThree(matched []Grokker) (Outcome, Grokker) {
	var mask uint16
	for _, g := range matched {
		mask |= bit(g)
	}
	switch mask {
	case bit(Base10Integer) | bit(Base16Integer) | bit(Hostname):
		return OutcomeTyped, Base10Integer
	case bit(Base10Float) | bit(Base16Float) | bit(Hostname):
		return OutcomeTyped, Base10Float
	default:
		return OutcomeWildcard, 0
	}
}
