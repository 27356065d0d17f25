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

package cat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ghostbusting/ghostbust/boolexpr"
	"github.com/ghostbusting/ghostbust/jml"
	"github.com/ghostbusting/ghostbust/stategraph"
)

const (
	idle = iota
	gameAvailable
	betPlaced
)

func casinoMethods() map[string]jml.Contracts {
	v := boolexpr.Variable{VarID: 0}
	old := boolexpr.Old{VarID: 0}
	return map[string]jml.Contracts{
		"removeFromPot": {Pre: boolexpr.NotEqual(v, betPlaced), Post: boolexpr.Equal(v, old)},
		"createGame":    {Pre: boolexpr.Equal(v, idle), Post: boolexpr.Equal(v, gameAvailable)},
		"placeBet":      {Pre: boolexpr.Equal(v, gameAvailable), Post: boolexpr.Equal(v, betPlaced)},
		"decideBet":     {Pre: boolexpr.Equal(v, betPlaced), Post: boolexpr.Equal(v, idle)},
	}
}

func casinoStates() []boolexpr.State {
	return []boolexpr.State{{idle}, {gameAvailable}, {betPlaced}}
}

func containsEvent(n Node, typ, arg string) bool {
	switch v := n.(type) {
	case Event:
		return v.Type == typ && len(v.Args) == 1 && v.Args[0] == arg
	case Union:
		return containsEvent(v.Left, typ, arg) || containsEvent(v.Right, typ, arg)
	case Concat:
		return containsEvent(v.Left, typ, arg) || containsEvent(v.Right, typ, arg)
	default:
		return false
	}
}

func hasBareAbstractTraceBranch(n Node) bool {
	u, ok := n.(Union)
	if !ok {
		return false
	}
	_, ok = u.Left.(AbstractTrace)
	return ok
}

func TestNaivePretraceCasinoCreateGame(t *testing.T) {
	g, err := stategraph.Build(casinoStates(), casinoMethods())
	require.NoError(t, err)

	methods := []string{"removeFromPot", "createGame", "placeBet", "decideBet"}
	pretraces := NaivePretrace(g, methods, boolexpr.State{idle})

	createGame := pretraces["createGame"]
	require.True(t, containsEvent(createGame, "pop", "decideBet"))
	require.True(t, hasBareAbstractTraceBranch(createGame))
}

func TestNaivePretraceOmitsBareBranchWhenNotInitialPrestate(t *testing.T) {
	g, err := stategraph.Build(casinoStates(), casinoMethods())
	require.NoError(t, err)

	methods := []string{"removeFromPot", "createGame", "placeBet", "decideBet"}
	pretraces := NaivePretrace(g, methods, boolexpr.State{idle})

	// idle is not a prestate of decideBet (only betPlaced is), so no bare
	// AbstractTrace union branch should be present.
	require.False(t, hasBareAbstractTraceBranch(pretraces["decideBet"]))
	require.True(t, containsEvent(pretraces["decideBet"], "pop", "placeBet"))
}

func TestAbstractTraceExcludedSetIsAllMethods(t *testing.T) {
	g, err := stategraph.Build(casinoStates(), casinoMethods())
	require.NoError(t, err)

	methods := []string{"removeFromPot", "createGame", "placeBet", "decideBet"}
	pretraces := NaivePretrace(g, methods, boolexpr.State{idle})

	c, ok := pretraces["placeBet"].(Concat)
	require.True(t, ok, "expected a bare Concat for placeBet (idle is not one of its prestates)")
	at, ok := c.Right.(AbstractTrace)
	require.True(t, ok)
	require.ElementsMatch(t, []string{"createGame", "decideBet", "placeBet", "removeFromPot"}, at.Excluded)
}

func TestRenderingElidesDotAroundAbstractTrace(t *testing.T) {
	n := Concat{Left: Event{Type: "pop", Args: []string{"createGame"}}, Right: AbstractTrace{}}
	require.Equal(t, "pop(createGame)⋅⋅", n.String())
}

func TestRenderingParenthesizesUnionInsideConcat(t *testing.T) {
	pops := Union{
		Left:  Event{Type: "pop", Args: []string{"createGame"}},
		Right: Event{Type: "pop", Args: []string{"decideBet"}},
	}
	n := Concat{Left: pops, Right: AbstractTrace{}}
	require.Equal(t, "(pop(createGame) ∨ pop(decideBet))⋅⋅", n.String())
}

func TestStatementAndObservationRendering(t *testing.T) {
	s := Statement{Expr: boolexpr.True{}}
	require.Equal(t, "⌈true⌉", s.String())

	o := Observation{VarMap: map[int]int{0: 1}, Expr: boolexpr.True{}}
	require.Equal(t, "℧{0:1}.⌈true⌉", o.String())
}
