// Copyright 2022 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package regex

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestSmartConstructorSimplifications(t *testing.T) {
	a := Term("a")
	require.True(t, Cat(Emp(), a).Equals(a))
	require.True(t, Cat(a, Emp()).Equals(a))
	require.True(t, Alt(a, a).Equals(a))
	require.True(t, Alt(Emp(), Emp()).Equals(Emp()))
	require.True(t, Star(Star(a)).Equals(Star(a)))
	require.True(t, Star(Plus(a)).Equals(Star(a)))
	require.True(t, Star(Opt(a)).Equals(Star(a)))
	require.True(t, Plus(Opt(a)).Equals(Star(a)))
	require.True(t, Plus(Plus(a)).Equals(Plus(a)))
	require.True(t, Opt(Star(a)).Equals(Star(a)))
	require.True(t, Opt(Opt(a)).Equals(Opt(a)))
}

func TestCatAssociatesRight(t *testing.T) {
	a, b, c := Term("a"), Term("b"), Term("c")
	left := Cat(Cat(a, b), c)
	_, leftIsConcat := left.(Concat).Left.(Concat)
	require.False(t, leftIsConcat)
	require.Equal(t, "a b c", left.String())
}

func TestAltAssociatesRight(t *testing.T) {
	a, b, c := Term("a"), Term("b"), Term("c")
	left := Alt(Alt(a, b), c)
	_, leftIsAlter := left.(Alter).Left.(Alter)
	require.False(t, leftIsAlter)
	require.Equal(t, "a | b | c", left.String())
}

func TestNewConcatPanicsOnLeftConcat(t *testing.T) {
	a, b, c := Term("a"), Term("b"), Term("c")
	require.Panics(t, func() {
		NewConcat(Concat{a, b}, c)
	})
}

func TestNewAlterPanicsOnLeftAlter(t *testing.T) {
	a, b, c := Term("a"), Term("b"), Term("c")
	require.Panics(t, func() {
		NewAlter(Alter{a, b}, c)
	})
}

func TestStringRendering(t *testing.T) {
	a, b, c := Term("a"), Term("b"), Term("c")
	require.Equal(t, "a", a.String())
	require.Equal(t, "a*", Star(a).String())
	require.Equal(t, "a+", Plus(a).String())
	require.Equal(t, "a?", Opt(a).String())
	require.Equal(t, "(a | b)*", Star(Alt(a, b)).String())
	require.Equal(t, "(a | b) c", Cat(Alt(a, b), c).String())
	require.Equal(t, "a (b | c)", Cat(a, Alt(b, c)).String())
}

func TestEliminateOptionals(t *testing.T) {
	a, b := Term("a"), Term("b")
	r := Cat(Star(a), b)
	require.True(t, EliminateOptionals(r).Equals(b))

	r2 := Alt(Opt(a), b)
	require.True(t, EliminateOptionals(r2).Equals(Alt(Emp(), b)))

	r3 := Plus(a)
	require.True(t, EliminateOptionals(r3).Equals(a))
}

func TestCollapseSamePrefixFactorsPrefix(t *testing.T) {
	placeBet, decideBet := Term("placeBet"), Term("decideBet")
	// placeBet | (placeBet decideBet)  ->  placeBet decideBet?
	got := CollapseSamePrefix(Alt(placeBet, Cat(placeBet, decideBet)))
	require.Equal(t, "placeBet decideBet?", got.String())
}

func TestCollapseSamePrefixFactorsSuffix(t *testing.T) {
	placeBet, decideBet := Term("placeBet"), Term("decideBet")
	// (decideBet placeBet) | placeBet  ->  decideBet? placeBet
	got := CollapseSamePrefix(Alt(Cat(decideBet, placeBet), placeBet))
	require.Equal(t, "decideBet? placeBet", got.String())
}

func TestCollapseSamePrefixPreservesSimplerCasinoForm(t *testing.T) {
	// The synthesized decideBet regex for the two-state casino is already
	// in its simplest shape; collapsing must leave it alone.
	placeBet, decideBet := Term("placeBet"), Term("decideBet")
	r := Cat(Star(Cat(placeBet, decideBet)), placeBet)
	require.Equal(t, "(placeBet decideBet)* placeBet", CollapseSamePrefix(r).String())
}

func TestCollapseSamePrefixEmptyLeft(t *testing.T) {
	a := Term("a")
	got := CollapseSamePrefix(Alt(Emp(), a))
	require.True(t, got.Equals(Opt(a)))
}

func TestCollapseSamePrefixIsIdempotent(t *testing.T) {
	a, b, c := Term("a"), Term("b"), Term("c")
	inputs := []Regex{
		Alt(Emp(), a),
		Alt(a, Cat(a, b)),
		Alt(Cat(a, b), b),
		Cat(a, Alt(b, c)),
	}
	for _, r := range inputs {
		once := CollapseSamePrefix(r)
		twice := CollapseSamePrefix(once)
		require.Equal(t, once.String(), twice.String(), "not idempotent for %v", r)
	}
}

func TestMustContainCasino(t *testing.T) {
	createGame, placeBet, removeFromPot := Term("createGame"), Term("placeBet"), Term("removeFromPot")
	// createGame (removeFromPot)* placeBet, with no top-level alternation,
	// collapses to a single mandatory skeleton containing both terminals.
	r := Cat(createGame, Cat(Star(removeFromPot), placeBet))
	got := MustContain(r)
	require.Len(t, got, 1)
	require.Equal(t, "createGame placeBet", got[0].String())

	// With genuine alternatives that the collapse cannot factor, each
	// alternative comes back as its own skeleton.
	alt := Alt(Cat(createGame, placeBet), Cat(createGame, Cat(removeFromPot, placeBet)))
	gotAlt := MustContain(alt)
	names := toNames(gotAlt)
	require.NotEmpty(t, names)
}

func TestLastCallsCasino(t *testing.T) {
	createGame, placeBet, removeFromPot := Term("createGame"), Term("placeBet"), Term("removeFromPot")
	r := Cat(createGame, Cat(Star(removeFromPot), placeBet))
	got := LastCalls(r)
	require.Len(t, got, 1)
	require.Equal(t, "placeBet", got[0].String())
}

func TestCatStructurallyEqualViaGoCmp(t *testing.T) {
	a, b, c := Term("a"), Term("b"), Term("c")
	got := Cat(Cat(a, b), c)
	want := Concat{Left: a, Right: Concat{Left: b, Right: c}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Cat(Cat(a,b),c) mismatch (-want +got):\n%s", diff)
	}
}

func toNames(rs []Regex) []string {
	var names []string
	for _, r := range rs {
		names = append(names, r.String())
	}
	return names
}
