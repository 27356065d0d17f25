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

// Package stategraph builds the reachable-state graph: for every method,
// the set of (prestate, poststate) pairs its contract admits over a given
// finite state universe.
package stategraph

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/ghostbusting/ghostbust/boolexpr"
	"github.com/ghostbusting/ghostbust/dictutil"
	"github.com/ghostbusting/ghostbust/jml"
)

// Graph is the adjacency map state -> method -> destination states. A
// Graph is built once and is read-only afterward; states with no outgoing
// edge are simply absent as top-level keys.
type Graph struct {
	// ID labels this build for log correlation; never consulted by any
	// algorithm over the graph.
	ID uuid.UUID

	adjacency map[string]map[string][]boolexpr.State
	// states indexes the string key back to the State value, since
	// boolexpr.State (a slice) cannot itself be a map key.
	states map[string]boolexpr.State
	// order records the order prestates were first inserted in, so
	// downstream consumers get deterministic iteration.
	order []string
}

func stateKey(s boolexpr.State) string { return s.String() }

// Transitions returns every (prestate, method, poststate) triple, method
// names lexicographically within each prestate, prestates in the order
// they first received an outgoing edge during construction (methods are
// visited in name order, states in possible_states order per method).
func (g Graph) Transitions() []Transition {
	var out []Transition
	for _, sKey := range g.orderedPrestates() {
		s := g.states[sKey]
		methods := make([]string, 0, len(g.adjacency[sKey]))
		for m := range g.adjacency[sKey] {
			methods = append(methods, m)
		}
		sort.Strings(methods)
		for _, m := range methods {
			for _, t := range g.adjacency[sKey][m] {
				out = append(out, Transition{From: s, Method: m, To: t})
			}
		}
	}
	return out
}

// Methods returns the set of method names with at least one outgoing edge
// anywhere in the graph, for callers that don't already have the original
// method map handy.
func (g Graph) Methods() []string {
	set := make(map[string]struct{})
	for _, ts := range g.adjacency {
		for m := range ts {
			set[m] = struct{}{}
		}
	}
	return dictutil.SortedKeys(set, func(a, b string) bool { return a < b })
}

// Destinations returns the destination states reachable from s via method,
// or nil if there is no such edge.
func (g Graph) Destinations(s boolexpr.State, method string) []boolexpr.State {
	ts, ok := g.adjacency[stateKey(s)]
	if !ok {
		return nil
	}
	return ts[method]
}

// HasOutgoing reports whether s has an outgoing edge for method.
func (g Graph) HasOutgoing(s boolexpr.State, method string) bool {
	return len(g.Destinations(s, method)) > 0
}

// States returns every reachable prestate, in construction order.
func (g Graph) States() []boolexpr.State {
	keys := g.orderedPrestates()
	out := make([]boolexpr.State, len(keys))
	for i, k := range keys {
		out[i] = g.states[k]
	}
	return out
}

func (g Graph) orderedPrestates() []string {
	return g.order
}

// Transition is one (prestate, method, poststate) edge of a Graph.
type Transition struct {
	From   boolexpr.State
	Method string
	To     boolexpr.State
}

// Build enumerates, for every method in methods, the Cartesian product of
// satisfying prestates and postcondition-satisfying states (or, if the
// postcondition contains Old, the prestate-dependent alternative), against
// possibleStates. Methods are visited in name order and states in
// possibleStates order; the graph iterates prestates in the order they
// first received an edge. Malformed contracts across all methods are accumulated
// and returned together rather than failing on the first one.
func Build(possibleStates []boolexpr.State, methods map[string]jml.Contracts) (Graph, error) {
	return BuildWithSatisfies(possibleStates, methods, boolexpr.Satisfies)
}

// SatisfiesFunc matches boolexpr.Satisfies' signature; BuildWithSatisfies
// accepts a custom one for testing or for callers with their own notion of
// "satisfies".
type SatisfiesFunc func(state boolexpr.State, expr boolexpr.BoolExpr, prestate boolexpr.State) (bool, error)

// BuildWithSatisfies is Build, parameterized over the satisfies predicate.
func BuildWithSatisfies(possibleStates []boolexpr.State, methods map[string]jml.Contracts, satisfies SatisfiesFunc) (Graph, error) {
	g := Graph{
		ID:        uuid.New(),
		adjacency: make(map[string]map[string][]boolexpr.State),
		states:    make(map[string]boolexpr.State),
	}

	methodNames := dictutil.SortedKeys(methods, func(a, b string) bool { return a < b })

	var errs error
	for _, name := range methodNames {
		contract := methods[name]
		pres, err := satisfyingStates(possibleStates, contract.Pre, nil, satisfies)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("method %q precondition: %w", name, err))
			continue
		}

		var pairs []edgePair
		if !contract.Post.ContainsOld() {
			posts, err := satisfyingStates(possibleStates, contract.Post, nil, satisfies)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("method %q postcondition: %w", name, err))
				continue
			}
			for _, pre := range pres {
				for _, post := range posts {
					pairs = append(pairs, edgePair{pre, post})
				}
			}
		} else {
			for _, pre := range pres {
				for _, post := range possibleStates {
					ok, err := satisfies(post, contract.Post, pre)
					if err != nil {
						errs = multierr.Append(errs, fmt.Errorf("method %q postcondition at prestate %v: %w", name, pre, err))
						continue
					}
					if ok {
						pairs = append(pairs, edgePair{pre, post})
					}
				}
			}
		}

		for _, p := range pairs {
			g.addEdge(p.pre, name, p.post)
		}
	}

	if errs != nil {
		return Graph{}, errs
	}
	return g, nil
}

type edgePair struct {
	pre, post boolexpr.State
}

func satisfyingStates(universe []boolexpr.State, expr boolexpr.BoolExpr, prestate boolexpr.State, satisfies SatisfiesFunc) ([]boolexpr.State, error) {
	var out []boolexpr.State
	for _, s := range universe {
		ok, err := satisfies(s, expr, prestate)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (g *Graph) addEdge(pre boolexpr.State, method string, post boolexpr.State) {
	key := stateKey(pre)
	if _, ok := g.adjacency[key]; !ok {
		g.adjacency[key] = make(map[string][]boolexpr.State)
		g.states[key] = pre
		g.order = append(g.order, key)
	}
	g.adjacency[key][method] = append(g.adjacency[key][method], post)
}

// TransitionMaps returns the forward and backward adjacency indices used
// by state elimination and CAT synthesis: forward[method][s] is the set of
// states method can reach from s, backward[method][t] is the set of
// states that can reach t via method.
func TransitionMaps(g Graph) (forward, backward map[string]map[string]map[string]struct{}) {
	forward = make(map[string]map[string]map[string]struct{})
	backward = make(map[string]map[string]map[string]struct{})
	for _, tr := range g.Transitions() {
		src, dst := stateKey(tr.From), stateKey(tr.To)
		if _, ok := forward[tr.Method]; !ok {
			forward[tr.Method] = make(map[string]map[string]struct{})
		}
		if _, ok := backward[tr.Method]; !ok {
			backward[tr.Method] = make(map[string]map[string]struct{})
		}
		dictutil.SetAdd(forward[tr.Method], src, dst)
		dictutil.SetAdd(backward[tr.Method], dst, src)
	}
	return forward, backward
}

// PrestatesAndPreceders returns, for every method, its set of possible
// prestates, and for every state, the set of methods it is a possible
// poststate of.
func PrestatesAndPreceders(g Graph) (prestates map[string]map[string]struct{}, preceders map[string]map[string]struct{}) {
	prestates = make(map[string]map[string]struct{})
	preceders = make(map[string]map[string]struct{})
	for _, tr := range g.Transitions() {
		dictutil.SetAdd(prestates, tr.Method, stateKey(tr.From))
		dictutil.SetAdd(preceders, stateKey(tr.To), tr.Method)
	}
	return prestates, preceders
}

// StateKey exposes the graph's internal string key for a state, so callers
// (cat, stateelim) can look states up in the maps returned by
// PrestatesAndPreceders/TransitionMaps without depending on Graph
// internals.
func StateKey(s boolexpr.State) string { return stateKey(s) }
