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

// Package cases holds the built-in worked examples used by cmd/ghostbust
// and by the end-to-end tests: small JML-contract fixtures that exercise
// every stage of the pipeline without needing a real parser front end.
package cases

import (
	"github.com/ghostbusting/ghostbust/boolexpr"
	"github.com/ghostbusting/ghostbust/jml"
)

// Case bundles everything build_graph and the CLI need for one fixture:
// the ghost variable names (for display only), the finite state universe,
// the initial state, and the per-method contracts.
type Case struct {
	Variables      []string
	PossibleStates []boolexpr.State
	InitialState   boolexpr.State
	Methods        map[string]jml.Contracts
}

func product2(values []int) []boolexpr.State {
	var out []boolexpr.State
	for _, a := range values {
		for _, b := range values {
			out = append(out, boolexpr.State{a, b})
		}
	}
	return out
}

// Casino is the four-method, three-state fixture: removeFromPot,
// createGame, placeBet, decideBet cycling
// IDLE -> GAME_AVAILABLE -> BET_PLACED -> IDLE.
func Casino() Case {
	const (
		idle = iota
		gameAvailable
		betPlaced
	)
	v := boolexpr.Variable{VarID: 0}
	old := boolexpr.Old{VarID: 0}

	return Case{
		Variables:      []string{"state"},
		PossibleStates: []boolexpr.State{{idle}, {gameAvailable}, {betPlaced}},
		InitialState:   boolexpr.State{idle},
		Methods: map[string]jml.Contracts{
			"removeFromPot": {Pre: boolexpr.NotEqual(v, betPlaced), Post: boolexpr.Equal(v, old)},
			"createGame":    {Pre: boolexpr.Equal(v, idle), Post: boolexpr.Equal(v, gameAvailable)},
			"placeBet":      {Pre: boolexpr.Equal(v, gameAvailable), Post: boolexpr.Equal(v, betPlaced)},
			"decideBet":     {Pre: boolexpr.Equal(v, betPlaced), Post: boolexpr.Equal(v, idle)},
		},
	}
}

// SimplerCasino drops removeFromPot, leaving a bare two-state,
// two-method cycle; its regex for decideBet is the simplest worked
// example of CollapseSamePrefix.
func SimplerCasino() Case {
	const (
		gameAvailable = iota
		betPlaced
	)
	v := boolexpr.Variable{VarID: 0}

	return Case{
		Variables:      []string{"state"},
		PossibleStates: []boolexpr.State{{gameAvailable}, {betPlaced}},
		InitialState:   boolexpr.State{gameAvailable},
		Methods: map[string]jml.Contracts{
			"placeBet":  {Pre: boolexpr.Equal(v, gameAvailable), Post: boolexpr.Equal(v, betPlaced)},
			"decideBet": {Pre: boolexpr.Equal(v, betPlaced), Post: boolexpr.Equal(v, gameAvailable)},
		},
	}
}

// SimplerCasinoWithInvariantAppended is SimplerCasino with a ghost
// "preState" slot and an explicit class invariant
// (state != BET_PLACED || preState == GAME_AVAILABLE) conjoined onto
// every method's pre/postcondition. The invariant is carried as an
// ordinary BoolExpr conjunct here rather than as a separate jml.Invariant
// clause, since the graph builder itself has no invariant-checking step
// (jml.Invariant is inert, matching the Python ADT -- see jml.go).
func SimplerCasinoWithInvariantAppended() Case {
	const (
		gameAvailable = iota
		betPlaced
	)
	state := boolexpr.Variable{VarID: 0}
	preState := boolexpr.Variable{VarID: 1}

	invariant := boolexpr.Or{
		Left:  boolexpr.NotEqual(state, betPlaced),
		Right: boolexpr.Equal(preState, gameAvailable),
	}

	return Case{
		Variables:      []string{"state", "preState"},
		PossibleStates: product2([]int{gameAvailable, betPlaced}),
		InitialState:   boolexpr.State{gameAvailable, gameAvailable},
		Methods: map[string]jml.Contracts{
			"placeBet": {
				Pre: boolexpr.And{Left: boolexpr.Equal(state, gameAvailable), Right: invariant},
				Post: boolexpr.And{
					Left: boolexpr.And{
						Left:  boolexpr.Equal(state, betPlaced),
						Right: boolexpr.Equal(preState, gameAvailable),
					},
					Right: invariant,
				},
			},
			"decideBet": {
				Pre:  boolexpr.And{Left: boolexpr.Equal(state, betPlaced), Right: invariant},
				Post: boolexpr.And{Left: boolexpr.Equal(state, gameAvailable), Right: invariant},
			},
		},
	}
}

// Imagine adds a third "quit" state (2), entered only through the quit
// method, to the placeBet/decideBet cycle, and omits the invariant
// conjunct from placeBet and decideBet (only quit's precondition
// references it) -- a variant of SimplerCasinoWithInvariantAppended that
// exercises a three-valued state component alongside the ghost preState
// slot.
func Imagine() Case {
	const (
		gameAvailable = iota
		betPlaced
		quitState
	)
	state := boolexpr.Variable{VarID: 0}
	preState := boolexpr.Variable{VarID: 1}

	invariant := boolexpr.Or{
		Left:  boolexpr.NotEqual(state, betPlaced),
		Right: boolexpr.Equal(preState, gameAvailable),
	}

	possibleStates := product2([]int{gameAvailable, betPlaced})
	possibleStates = append(possibleStates, boolexpr.State{quitState, gameAvailable}, boolexpr.State{quitState, betPlaced})

	return Case{
		Variables:      []string{"state", "preState"},
		PossibleStates: possibleStates,
		InitialState:   boolexpr.State{gameAvailable, gameAvailable},
		Methods: map[string]jml.Contracts{
			"placeBet": {
				Pre: boolexpr.Equal(state, gameAvailable),
				Post: boolexpr.And{
					Left:  boolexpr.Equal(state, betPlaced),
					Right: boolexpr.Equal(preState, gameAvailable),
				},
			},
			"decideBet": {
				Pre:  boolexpr.Equal(state, betPlaced),
				Post: boolexpr.Equal(state, gameAvailable),
			},
			"quit": {
				Pre:  boolexpr.And{Left: boolexpr.NotEqual(state, quitState), Right: invariant},
				Post: boolexpr.Equal(state, quitState),
			},
		},
	}
}

// Calculator models a five-button pocket calculator: enter_number,
// enter_operator, get_result, press_c, press_off. enter_number's
// postcondition references Old(0) to pick OPERAND1 versus OPERAND2 based
// on the prestate, so that OPERAND2 is reachable only via an intervening
// enter_operator rather than from any prestate -- see DESIGN.md.
func Calculator() Case {
	const (
		empty = iota
		operand1
		operator
		operand2
		result
		off
	)
	v := boolexpr.Variable{VarID: 0}
	old := boolexpr.Old{VarID: 0}

	return Case{
		Variables: []string{"state"},
		PossibleStates: []boolexpr.State{
			{empty}, {operand1}, {operator}, {operand2}, {result}, {off},
		},
		InitialState: boolexpr.State{empty},
		Methods: map[string]jml.Contracts{
			"enter_number": {
				Pre: boolexpr.Or{
					Left: boolexpr.Equal(v, empty),
					Right: boolexpr.Or{
						Left:  boolexpr.Equal(v, result),
						Right: boolexpr.Equal(v, operator),
					},
				},
				Post: boolexpr.Or{
					Left: boolexpr.And{
						Left:  boolexpr.Equal(v, operand1),
						Right: boolexpr.NotEqual(old, operator),
					},
					Right: boolexpr.And{
						Left:  boolexpr.Equal(v, operand2),
						Right: boolexpr.Equal(old, operator),
					},
				},
			},
			"enter_operator": {
				Pre: boolexpr.Or{
					Left:  boolexpr.Equal(v, operand1),
					Right: boolexpr.Equal(v, result),
				},
				Post: boolexpr.Equal(v, operator),
			},
			"get_result": {
				Pre:  boolexpr.Equal(v, operand2),
				Post: boolexpr.Equal(v, result),
			},
			"press_c": {
				Pre:  boolexpr.True{},
				Post: boolexpr.Equal(v, empty),
			},
			"press_off": {
				Pre:  boolexpr.True{},
				Post: boolexpr.Equal(v, off),
			},
		},
	}
}

// All returns every built-in case keyed by the name used on the CLI's
// -case flag.
func All() map[string]Case {
	return map[string]Case{
		"casino":                                 Casino(),
		"simpler_casino":                         SimplerCasino(),
		"simpler_casino_with_invariant_appended": SimplerCasinoWithInvariantAppended(),
		"imagine":                                Imagine(),
		"calculator":                             Calculator(),
	}
}
