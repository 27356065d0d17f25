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

// Package stateelim converts a StateGraph into a single regular expression
// over method-name terminals, for a chosen starting state and target
// method, via Brzozowski-McCluskey state elimination: fold each
// intermediate node's in/self/out edges into composite regexes on its
// neighbors until only the two virtual endpoints remain.
package stateelim

import (
	"github.com/ghostbusting/ghostbust/boolexpr"
	"github.com/ghostbusting/ghostbust/regex"
	"github.com/ghostbusting/ghostbust/stategraph"
)

const (
	startNode = "S"
	endNode   = "E"
)

// rgraph mutates in place during ripout; it and its flipped index are
// local to a single From call and never escape it.
type rgraph map[string]map[string]regex.Regex

// From returns the regex over method-name terminals describing every call
// sequence, starting from startingState, that ends right at a state from
// which method could be invoked (method's set of prestates). If method
// can never be reached (its prestate set is empty), From returns Empty
// rather than an error.
func From(g stategraph.Graph, startingState boolexpr.State, method string) regex.Regex {
	rg, flipped := buildRegexGraph(g, startingState, method)
	if rg == nil {
		return regex.Emp()
	}

	for _, s := range g.States() {
		ripout(rg, flipped, stategraph.StateKey(s))
	}

	endings, ok := rg[startNode]
	if !ok {
		return regex.Emp()
	}
	r, ok := endings[endNode]
	if !ok {
		return regex.Emp()
	}
	return r
}

func buildRegexGraph(g stategraph.Graph, startingState boolexpr.State, method string) (rgraph, map[string]map[string]struct{}) {
	var endingNodes []string
	for _, s := range g.States() {
		if g.HasOutgoing(s, method) {
			endingNodes = append(endingNodes, stategraph.StateKey(s))
		}
	}
	if len(endingNodes) == 0 {
		return nil, nil
	}

	rg := make(rgraph)
	for _, s := range g.States() {
		key := stategraph.StateKey(s)
		rg[key] = make(map[string]regex.Regex)
	}
	for _, tr := range g.Transitions() {
		src, dst := stategraph.StateKey(tr.From), stategraph.StateKey(tr.To)
		term := regex.Term(tr.Method)
		if existing, ok := rg[src][dst]; ok {
			rg[src][dst] = regex.Alt(term, existing)
		} else {
			rg[src][dst] = term
		}
	}

	rg[startNode] = map[string]regex.Regex{stategraph.StateKey(startingState): regex.Emp()}
	for _, end := range endingNodes {
		rg[end][endNode] = regex.Emp()
	}

	return rg, flip(rg)
}

func flip(rg rgraph) map[string]map[string]struct{} {
	flipped := make(map[string]map[string]struct{})
	for s, ts := range rg {
		for d := range ts {
			if flipped[d] == nil {
				flipped[d] = make(map[string]struct{})
			}
			flipped[d][s] = struct{}{}
		}
	}
	return flipped
}

// ripout eliminates node from rg and flipped, folding its self-loop into
// every remaining path through it. Nodes are processed in the graph's own
// insertion order, not reverse topological order: reversing the order
// produces dramatically longer regexes for the same language.
func ripout(rg rgraph, flipped map[string]map[string]struct{}, node string) {
	if _, ok := rg[node]; !ok {
		return
	}
	if _, ok := flipped[node]; !ok {
		return
	}

	var rSelf regex.Regex = regex.Emp()
	if self, ok := rg[node][node]; ok {
		rSelf = regex.Star(self)
		delete(rg[node], node)
		delete(flipped[node], node)
	}

	additions := make(map[string]map[string]struct{})
	for nIn := range flipped[node] {
		rIn := rg[nIn][node]
		for nOut, rOut := range rg[node] {
			rNew := regex.Cat(rIn, regex.Cat(rSelf, rOut))
			if already, ok := rg[nIn][nOut]; ok {
				rNew = regex.Alt(already, rNew)
			}
			rg[nIn][nOut] = rNew

			if additions[nOut] == nil {
				additions[nOut] = make(map[string]struct{})
			}
			additions[nOut][nIn] = struct{}{}
		}
	}

	for n, add := range additions {
		if flipped[n] == nil {
			flipped[n] = make(map[string]struct{})
		}
		for s := range add {
			flipped[n][s] = struct{}{}
		}
	}

	for _, ts := range rg {
		delete(ts, node)
	}
	for _, ts := range flipped {
		delete(ts, node)
	}

	delete(rg, node)
	delete(flipped, node)
}
