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

// Package boolexpr contains the algebraic data type for quantifier-free
// boolean expressions over integer ghost variables, and the small set of
// operations (evaluation, negation-normal form, syntactic entailment) the
// rest of the pipeline needs from it.
package boolexpr

import "fmt"

// State is an immutable tuple of ghost variable values.
type State []int

// Equals reports whether s and other have the same values in the same
// positions.
func (s State) Equals(other State) bool {
	if len(s) != len(other) {
		return false
	}
	for i, v := range s {
		if other[i] != v {
			return false
		}
	}
	return true
}

// String renders the state as a bracketed list of its values, e.g. [0 1].
func (s State) String() string {
	return fmt.Sprintf("%v", []int(s))
}

// Value is the leaf of a boolean expression: a constant, a read of the
// current state, or a read of the prestate ("old" value).
//
// Value is a marker interface implemented by Literal, Variable and Old.
type Value interface {
	isValue()
	String() string
	// Resolve evaluates this value against state and prestate. prestate may
	// be nil unless this Value is an Old, in which case a nil prestate is a
	// malformed-expression fault.
	Resolve(state, prestate State) (int, error)
}

// Literal is a constant integer value term.
type Literal int

func (Literal) isValue() {}

// Resolve returns the literal's value
func (l Literal) Resolve(state, prestate State) (int, error) {
	return int(l), nil
}

func (l Literal) String() string { return fmt.Sprintf("%d", int(l)) }

// Variable reads state[VarID].
type Variable struct {
	VarID int
}

func (Variable) isValue() {}

// Resolve reads the current state at VarID.
func (v Variable) Resolve(state, prestate State) (int, error) {
	if v.VarID < 0 || v.VarID >= len(state) {
		return 0, fmt.Errorf("unknown variable %d: state has arity %d", v.VarID, len(state))
	}
	return state[v.VarID], nil
}

func (v Variable) String() string { return fmt.Sprintf("v%d", v.VarID) }

// Old reads prestate[VarID]; only meaningful in a postcondition.
type Old struct {
	VarID int
}

func (Old) isValue() {}

// Resolve reads the prestate at VarID; prestate must be non-nil.
func (o Old) Resolve(state, prestate State) (int, error) {
	if prestate == nil {
		return 0, fmt.Errorf("old(%d) referenced without a prestate", o.VarID)
	}
	if o.VarID < 0 || o.VarID >= len(prestate) {
		return 0, fmt.Errorf("unknown variable %d: prestate has arity %d", o.VarID, len(prestate))
	}
	return prestate[o.VarID], nil
}

func (o Old) String() string { return fmt.Sprintf("old(v%d)", o.VarID) }

// RelKind identifies a relational operator.
type RelKind int

const (
	// EQ is the equality relation.
	EQ RelKind = iota
	// NEQ is the inequality relation.
	NEQ
	// LT is the strict less-than relation.
	LT
	// LE is the less-than-or-equal relation.
	LE
	// GT is the strict greater-than relation.
	GT
	// GE is the greater-than-or-equal relation.
	GE
)

func (k RelKind) String() string {
	switch k {
	case EQ:
		return "="
	case NEQ:
		return "!="
	case LT:
		return "<"
	case LE:
		return "<="
	case GT:
		return ">"
	case GE:
		return ">="
	}
	return "?"
}

// BoolExpr is a quantifier-free boolean expression over Value terms.
//
// BoolExpr is a marker interface implemented by True, False, And, Or, Not
// and Rel. All implementations are immutable and structurally comparable
// through Equals.
type BoolExpr interface {
	isBoolExpr()
	String() string
	// ContainsOld reports whether any Rel reachable from this expression
	// references an Old value.
	ContainsOld() bool
}

// True is the BoolExpr that is always satisfied.
type True struct{}

func (True) isBoolExpr()       {}
func (True) ContainsOld() bool { return false }
func (True) String() string    { return "true" }

// False is the BoolExpr that is never satisfied.
type False struct{}

func (False) isBoolExpr()       {}
func (False) ContainsOld() bool { return false }
func (False) String() string    { return "false" }

// And is the conjunction of Left and Right.
type And struct {
	Left, Right BoolExpr
}

func (And) isBoolExpr() {}

// ContainsOld is true if either conjunct references Old.
func (a And) ContainsOld() bool { return a.Left.ContainsOld() || a.Right.ContainsOld() }
func (a And) String() string    { return fmt.Sprintf("(%s && %s)", a.Left, a.Right) }

// Or is the disjunction of Left and Right.
type Or struct {
	Left, Right BoolExpr
}

func (Or) isBoolExpr() {}

// ContainsOld is true if either disjunct references Old.
func (o Or) ContainsOld() bool { return o.Left.ContainsOld() || o.Right.ContainsOld() }
func (o Or) String() string    { return fmt.Sprintf("(%s || %s)", o.Left, o.Right) }

// Not is the negation of Expr.
type Not struct {
	Expr BoolExpr
}

func (Not) isBoolExpr()         {}
func (n Not) ContainsOld() bool { return n.Expr.ContainsOld() }
func (n Not) String() string    { return fmt.Sprintf("!%s", n.Expr) }

// Rel is a relational comparison between two Value terms.
type Rel struct {
	Kind        RelKind
	Left, Right Value
}

func (Rel) isBoolExpr() {}

// ContainsOld is true if either side is an Old value.
func (r Rel) ContainsOld() bool {
	_, lo := r.Left.(Old)
	_, ro := r.Right.(Old)
	return lo || ro
}

func (r Rel) String() string { return fmt.Sprintf("%s %s %s", r.Left, r.Kind, r.Right) }

// Negation returns the relation with the dual operator, same operands.
func (r Rel) Negation() Rel {
	dual := map[RelKind]RelKind{
		EQ: NEQ, NEQ: EQ,
		LT: GE, GE: LT,
		LE: GT, GT: LE,
	}
	return Rel{Kind: dual[r.Kind], Left: r.Left, Right: r.Right}
}

// Evaluate resolves both sides against state/prestate and applies Kind.
func (r Rel) Evaluate(state, prestate State) (bool, error) {
	l, err := r.Left.Resolve(state, prestate)
	if err != nil {
		return false, err
	}
	rr, err := r.Right.Resolve(state, prestate)
	if err != nil {
		return false, err
	}
	switch r.Kind {
	case EQ:
		return l == rr, nil
	case NEQ:
		return l != rr, nil
	case LT:
		return l < rr, nil
	case LE:
		return l <= rr, nil
	case GT:
		return l > rr, nil
	case GE:
		return l >= rr, nil
	}
	return false, fmt.Errorf("unknown relation kind %v", r.Kind)
}

func wrap(v int) Value { return Literal(v) }

// asValue lets the constructors below accept either a Value or a bare int
// literal, matching the "auto-wrapping" convenience of the source's
// _Rel/Equal/NotEqual/... helpers.
func asValue(x any) Value {
	switch v := x.(type) {
	case Value:
		return v
	case int:
		return wrap(v)
	default:
		panic(fmt.Sprintf("boolexpr: %v is not a Value or int", x))
	}
}

// Equal builds an EQ relation; either side may be a Value or an int literal.
func Equal(left, right any) Rel { return Rel{EQ, asValue(left), asValue(right)} }

// NotEqual builds a NEQ relation; either side may be a Value or an int literal.
func NotEqual(left, right any) Rel { return Rel{NEQ, asValue(left), asValue(right)} }

// LessThan builds an LT relation; either side may be a Value or an int literal.
func LessThan(left, right any) Rel { return Rel{LT, asValue(left), asValue(right)} }

// LessEqual builds an LE relation; either side may be a Value or an int literal.
func LessEqual(left, right any) Rel { return Rel{LE, asValue(left), asValue(right)} }

// GreaterThan builds a GT relation; either side may be a Value or an int literal.
func GreaterThan(left, right any) Rel { return Rel{GT, asValue(left), asValue(right)} }

// GreaterEqual builds a GE relation; either side may be a Value or an int literal.
func GreaterEqual(left, right any) Rel { return Rel{GE, asValue(left), asValue(right)} }

// Satisfies recursively evaluates expr against state, optionally consulting
// prestate for Old reads. prestate may be nil for expressions that do not
// contain Old (ContainsOld() == false); evaluating an Old without a
// prestate returns a MalformedExpression-style error.
func Satisfies(state State, expr BoolExpr, prestate State) (bool, error) {
	switch e := expr.(type) {
	case True:
		return true, nil
	case False:
		return false, nil
	case Rel:
		return e.Evaluate(state, prestate)
	case And:
		l, err := Satisfies(state, e.Left, prestate)
		if err != nil {
			return false, err
		}
		r, err := Satisfies(state, e.Right, prestate)
		if err != nil {
			return false, err
		}
		return l && r, nil
	case Or:
		l, err := Satisfies(state, e.Left, prestate)
		if err != nil {
			return false, err
		}
		r, err := Satisfies(state, e.Right, prestate)
		if err != nil {
			return false, err
		}
		return l || r, nil
	case Not:
		r, err := Satisfies(state, e.Expr, prestate)
		if err != nil {
			return false, err
		}
		return !r, nil
	}
	return false, fmt.Errorf("satisfies: unhandled BoolExpr %T", expr)
}

// dnCache memoizes DownpropNegations within a single call tree. BoolExprs
// are immutable so a structural-key cache is sound; the cache never escapes
// a DownpropNegations call and carries no process-wide state.
type dnCache map[string]BoolExpr

// DownpropNegations rewrites expr into negation-normal form: every Not
// ends up wrapping a Rel (via relational duality Not is then eliminated
// entirely, since NEQ is the dual of EQ and so on for every kind), never a
// composite node, and double negation collapses. The result is idempotent:
// DownpropNegations(DownpropNegations(e)) == DownpropNegations(e).
func DownpropNegations(expr BoolExpr) BoolExpr {
	return downprop(make(dnCache), expr)
}

func downprop(cache dnCache, expr BoolExpr) BoolExpr {
	key := expr.String()
	if v, ok := cache[key]; ok {
		return v
	}
	result := downpropUncached(cache, expr)
	cache[key] = result
	return result
}

func downpropUncached(cache dnCache, expr BoolExpr) BoolExpr {
	switch e := expr.(type) {
	case Not:
		switch inner := e.Expr.(type) {
		case True:
			return False{}
		case False:
			return True{}
		case Rel:
			return inner.Negation()
		case And:
			return Or{downprop(cache, Not{inner.Left}), downprop(cache, Not{inner.Right})}
		case Or:
			return And{downprop(cache, Not{inner.Left}), downprop(cache, Not{inner.Right})}
		case Not:
			return downprop(cache, inner.Expr)
		}
		return e
	case And:
		return And{downprop(cache, e.Left), downprop(cache, e.Right)}
	case Or:
		return Or{downprop(cache, e.Left), downprop(cache, e.Right)}
	}
	return expr
}

// ExprSatisfies is a syntactic entailment check over the negation-normal
// forms of one and other; an unmatched shape returns false. Not every
// true result is a valid implication: True implies anything here, two
// relations with different left operands always yield true, and
// NEQ implies NEQ regardless of operands. A conjunction on the left
// implies other only when both conjuncts do.
func ExprSatisfies(one, other BoolExpr) bool {
	one = DownpropNegations(one)
	other = DownpropNegations(other)

	switch {
	case isTrue(other), isTrue(one), isFalse(one):
		return true
	}
	if isFalse(other) {
		return false
	}

	switch l := one.(type) {
	case And:
		return ExprSatisfies(l.Left, other) && ExprSatisfies(l.Right, other)
	case Or:
		return ExprSatisfies(l.Left, other) || ExprSatisfies(l.Right, other)
	}
	switch r := other.(type) {
	case And:
		return ExprSatisfies(one, r.Left) && ExprSatisfies(one, r.Right)
	case Or:
		return ExprSatisfies(one, r.Left) || ExprSatisfies(one, r.Right)
	}

	lrel, lok := one.(Rel)
	rrel, rok := other.(Rel)
	if !lok || !rok {
		return false
	}
	sameOperands := valueEquals(lrel.Left, rrel.Left)
	switch {
	case lrel.Kind == EQ && rrel.Kind == EQ:
		return !sameOperands || valueEquals(lrel.Right, rrel.Right)
	case lrel.Kind == EQ && rrel.Kind == NEQ, lrel.Kind == NEQ && rrel.Kind == EQ:
		return !sameOperands || !valueEquals(lrel.Right, rrel.Right)
	case lrel.Kind == NEQ && rrel.Kind == NEQ:
		return true
	}
	return false
}

func isTrue(e BoolExpr) bool  { _, ok := e.(True); return ok }
func isFalse(e BoolExpr) bool { _, ok := e.(False); return ok }

func valueEquals(a, b Value) bool {
	return a.String() == b.String()
}

// RenameOld rewrites every Old(i) reachable from expr into Variable(remap[i]),
// for translating a postcondition into a form that observes prior state
// through an auxiliary current-state slot. Not exercised by the core
// pipeline (naive_pretrace works directly on the state graph); kept because
// it is named explicitly in the design as a building block for CATs that
// observe prior state directly from a BoolExpr.
func RenameOld(expr BoolExpr, remap map[int]int) BoolExpr {
	switch e := expr.(type) {
	case True, False:
		return expr
	case Not:
		return Not{RenameOld(e.Expr, remap)}
	case And:
		return And{RenameOld(e.Left, remap), RenameOld(e.Right, remap)}
	case Or:
		return Or{RenameOld(e.Left, remap), RenameOld(e.Right, remap)}
	case Rel:
		return Rel{Kind: e.Kind, Left: renameValue(e.Left, remap), Right: renameValue(e.Right, remap)}
	}
	return expr
}

func renameValue(v Value, remap map[int]int) Value {
	if o, ok := v.(Old); ok {
		return Variable{VarID: remap[o.VarID]}
	}
	return v
}
