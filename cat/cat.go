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

// Package cat holds the call-algebra term (CAT) ADT and the naive
// pre-trace synthesis that builds one CAT per method from a StateGraph.
package cat

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ghostbusting/ghostbust/boolexpr"
	"github.com/ghostbusting/ghostbust/dictutil"
	"github.com/ghostbusting/ghostbust/stategraph"
)

// Node is a call-algebra term. Unlike BoolExpr and Regex, two of its
// variants (FixPoint, Recvar) are carried only to complete the ADT: the
// core pipeline never constructs them, since it does no fixed-point
// recursion over CATs.
type Node interface {
	isCatNode()
	String() string
}

// Union is logical "either of these traces occurred": l ∨ r.
type Union struct{ Left, Right Node }

// Concat is sequential composition: l followed by r.
type Concat struct{ Left, Right Node }

// Event is a single named occurrence, e.g. Event{Type: "pop", Args: []string{"decideBet"}}.
type Event struct {
	Type string
	Args []string
}

// AbstractTrace stands for "arbitrary activity, except for any method
// named in Excluded". The naive pre-trace synthesis sets Excluded to
// every method name it was given, sorted -- see NaivePretrace.
type AbstractTrace struct{ Excluded []string }

// FixPoint and Recvar exist to complete the ADT; see Node's doc comment.
type FixPoint struct {
	Recvar string
	Body   Node
}

type Recvar struct{ Name string }

// Statement asserts that a BoolExpr holds at this point in the trace.
type Statement struct{ Expr boolexpr.BoolExpr }

// Observation pairs a variable renaming (as used by boolexpr.RenameOld,
// mapping an Old(i) slot to a fresh current-state Variable(j)) with a
// Statement-like assertion over the renamed expression.
type Observation struct {
	VarMap map[int]int
	Expr   boolexpr.BoolExpr
}

func (Union) isCatNode()         {}
func (Concat) isCatNode()        {}
func (Event) isCatNode()         {}
func (AbstractTrace) isCatNode() {}
func (FixPoint) isCatNode()      {}
func (Recvar) isCatNode()        {}
func (Statement) isCatNode()     {}
func (Observation) isCatNode()   {}

func (u Union) String() string { return fmt.Sprintf("%s ∨ %s", u.Left, u.Right) }

func (c Concat) String() string {
	l, r := parenthesized(c.Left), parenthesized(c.Right)
	if isAbstractTrace(c.Left) || isAbstractTrace(c.Right) {
		return l + r
	}
	return l + " ⋅ " + r
}

// parenthesized wraps Union operands of a Concat so the union's extent is
// unambiguous; every other node renders bare.
func parenthesized(n Node) string {
	if u, ok := n.(Union); ok {
		return fmt.Sprintf("(%s)", u)
	}
	return n.String()
}

func isAbstractTrace(n Node) bool {
	_, ok := n.(AbstractTrace)
	return ok
}

func (e Event) String() string {
	return fmt.Sprintf("%s(%s)", e.Type, strings.Join(e.Args, ","))
}

func (a AbstractTrace) String() string {
	if len(a.Excluded) == 0 {
		return "⋅⋅"
	}
	return fmt.Sprintf("⋅⋅excl{%s}", strings.Join(a.Excluded, ","))
}

func (f FixPoint) String() string { return fmt.Sprintf("μ%s.(%s)", f.Recvar, f.Body) }

func (r Recvar) String() string { return r.Name }

func (s Statement) String() string { return fmt.Sprintf("⌈%s⌉", s.Expr) }

func (o Observation) String() string {
	keys := make([]int, 0, len(o.VarMap))
	for k := range o.VarMap {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%d:%d", k, o.VarMap[k])
	}
	return fmt.Sprintf("℧{%s}.⌈%s⌉", strings.Join(parts, ","), o.Expr)
}

// NaivePretrace builds, for every name in methodNames, the CAT term
// describing "some method that could leave a prestate of m just fired,
// then arbitrary other activity", unioned with a bare AbstractTrace
// branch when the initial state is itself already a prestate of m
// (nothing need have fired first).
func NaivePretrace(g stategraph.Graph, methodNames []string, initialState boolexpr.State) map[string]Node {
	prestates, preceders := stategraph.PrestatesAndPreceders(g)

	sortedMethods := append([]string(nil), methodNames...)
	sort.Strings(sortedMethods)

	out := make(map[string]Node, len(methodNames))
	for _, m := range methodNames {
		pops := make(map[string]struct{})
		for s := range prestates[m] {
			for pop := range preceders[s] {
				pops[pop] = struct{}{}
			}
		}
		popNames := dictutil.SortedKeys(pops, func(a, b string) bool { return a < b })

		abstract := AbstractTrace{Excluded: sortedMethods}

		var preTrace Node
		if len(popNames) == 0 {
			preTrace = abstract
		} else {
			var popExpr Node = Event{Type: "pop", Args: []string{popNames[0]}}
			for _, p := range popNames[1:] {
				popExpr = Union{Left: popExpr, Right: Event{Type: "pop", Args: []string{p}}}
			}
			preTrace = Concat{Left: popExpr, Right: abstract}
		}

		if _, initialIsPrestate := prestates[m][stategraph.StateKey(initialState)]; initialIsPrestate {
			preTrace = Union{Left: AbstractTrace{Excluded: sortedMethods}, Right: preTrace}
		}

		out[m] = preTrace
	}
	return out
}
