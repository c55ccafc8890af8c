package tokenstream

import (
	"testing"

	"github.com/nharring-adjacent/drain-flow/pkg/grokker"
	"github.com/nharring-adjacent/drain-flow/pkg/interner"
)

func TestFromLineEmpty(t *testing.T) {
	ts := FromLine("")
	if ts.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", ts.Len())
	}
	if _, ok := ts.First(); ok {
		t.Fatal("First() ok = true for empty stream")
	}
}

func TestFromLineSingleAtom(t *testing.T) {
	ts := FromLine("hello")
	if ts.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", ts.Len())
	}
	first, ok := ts.First()
	if !ok || first.String() != "hello" {
		t.Fatalf("First() = %v, ok=%v", first, ok)
	}
}

func TestFromLineLengthMatchesAtomCount(t *testing.T) {
	line := "Message send failed to remote host: foo.bar.com"
	ts := FromLine(line)
	if ts.Len() != 7 {
		t.Fatalf("Len() = %d, want 7", ts.Len())
	}
}

func TestRenderRoundTripsNoExtraWhitespace(t *testing.T) {
	line := "Common prefix Common prefix Common prefix 1234"
	ts := FromLine(line)
	if got := ts.Render(); got != line {
		t.Fatalf("Render() = %q, want %q", got, line)
	}
}

func TestRenderStableUnderRetokenization(t *testing.T) {
	line := "user john logged in from 10.0.0.5"
	ts := FromLine(line)
	rendered := ts.Render()
	ts2 := FromLine(rendered)
	if ts.Len() != ts2.Len() {
		t.Fatalf("re-tokenization length changed: %d vs %d", ts.Len(), ts2.Len())
	}
	for i := 0; i < ts.Len(); i++ {
		a, _ := ts.At(i)
		b, _ := ts2.At(i)
		if !a.Equal(b) {
			t.Errorf("token %d changed under retokenization: %v vs %v", i, a, b)
		}
	}
}

func TestRepeatedAtomsBindToSuccessivePositions(t *testing.T) {
	ts := FromLine("foo foo foo")
	if ts.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", ts.Len())
	}
	prevEnd := -1
	for i := 0; i < ts.Len(); i++ {
		tok, _ := ts.At(i)
		if tok.String() != "foo" {
			t.Fatalf("token %d = %q, want foo", i, tok.String())
		}
		off := ts.entries[i].Offset
		if off.Start <= prevEnd {
			t.Fatalf("token %d offset %v does not start after previous end %d", i, off, prevEnd)
		}
		prevEnd = off.End
	}
}

func TestOverwriteMutatesInPlace(t *testing.T) {
	ts := FromLine("a b c")
	ts.Overwrite(1, Wildcard())
	tok, _ := ts.At(1)
	if !tok.IsWildcard() {
		t.Fatalf("At(1) = %v, want wildcard", tok)
	}
	other, _ := ts.At(0)
	if other.IsWildcard() {
		t.Fatal("Overwrite mutated an unrelated index")
	}
}

func TestWildcardReflexive(t *testing.T) {
	sym := interner.Global.Intern("anything")
	cases := []Token{
		Wildcard(),
		TypedMatch(grokker.UUID),
		ValueString(sym),
		ValueInt(42),
		ValueFloat(3.14),
	}
	w := Wildcard()
	for _, tok := range cases {
		if !w.Equal(tok) {
			t.Errorf("Wildcard().Equal(%v) = false, want true", tok)
		}
		if !tok.Equal(w) {
			t.Errorf("%v.Equal(Wildcard()) = false, want true", tok)
		}
	}
}

func TestValueStringEqualityBySymbol(t *testing.T) {
	a := interner.Global.Intern("same-text")
	b := interner.Global.Intern("same-text")
	if !ValueString(a).Equal(ValueString(b)) {
		t.Fatal("equal interned strings produced unequal Value tokens")
	}
	other := interner.Global.Intern("different-text")
	if ValueString(a).Equal(ValueString(other)) {
		t.Fatal("distinct strings compared equal")
	}
}

func TestTypedMatchVersusValue(t *testing.T) {
	sym := interner.Global.Intern("123")
	val := ValueString(sym)
	tm := TypedMatch(grokker.Base10Integer)
	if !tm.Equal(val) {
		t.Fatal("TypedMatch(Base10Integer) should match the value \"123\"")
	}
	wrong := TypedMatch(grokker.UUID)
	if wrong.Equal(val) {
		t.Fatal("TypedMatch(UUID) should not match the value \"123\"")
	}
}

func TestFloatULPEquality(t *testing.T) {
	a := ValueFloat(1.0)
	b := ValueFloat(1.0000000000000002) // one ULP above 1.0
	if !a.Equal(b) {
		t.Fatal("floats one ULP apart should compare equal")
	}
	c := ValueFloat(2.0)
	if a.Equal(c) {
		t.Fatal("distinct floats compared equal")
	}
}
