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

// Package jml contains a small ADT for JML contract clauses: the
// precondition/postcondition pair the rest of the pipeline consumes, plus
// the other clause kinds the front end may hand back.
package jml

import "github.com/ghostbusting/ghostbust/boolexpr"

// ContractClause is a marker interface for the clause kinds a method or
// type declaration may carry.
type ContractClause interface {
	isContractClause()
}

// Requires is a method precondition.
type Requires struct {
	Expr boolexpr.BoolExpr
}

func (Requires) isContractClause() {}

// Ensures is a method postcondition.
type Ensures struct {
	Expr boolexpr.BoolExpr
}

func (Ensures) isContractClause() {}

// Forall is a quantified clause. Not exercised by the core pipeline, which
// does no quantifier elimination; defined so front ends that produce
// Forall clauses still type-check against this ADT.
type Forall struct {
	Variable string
}

func (Forall) isContractClause() {}

// Callable restricts which methods a contract's frame may call.
type Callable struct {
	Methods []string
}

func (Callable) isContractClause() {}

// Invariant is a class-level invariant, checked at every public method
// boundary by a front end. The StateGraph builder does not itself consume
// invariants (a method contract is only a (pre, post) pair); callers may
// fold an invariant into each method's pre/post before calling
// stategraph.Build, as cases.SimplerCasinoWithInvariantAppended does.
type Invariant struct {
	Expr boolexpr.BoolExpr
}

// Assignment records a ghost-variable set statement. Like Invariant it is
// not a ContractClause: it annotates a method body, not a contract.
type Assignment struct {
	Variable string
}

// Contracts is the per-method (precondition, postcondition) pair consumed
// by stategraph.Build.
type Contracts struct {
	Pre  boolexpr.BoolExpr
	Post boolexpr.BoolExpr
}
