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

// Command ghostbust runs the symbolic call-context pipeline over one of
// the built-in cases and prints, per method, its naive pre-trace CAT,
// regex, simplified regex, must-contain set, and last-calls set.
package main

import (
	"flag"
	"fmt"
	"sort"

	"github.com/golang/glog"

	"github.com/ghostbusting/ghostbust/cases"
	"github.com/ghostbusting/ghostbust/cat"
	"github.com/ghostbusting/ghostbust/regex"
	"github.com/ghostbusting/ghostbust/stateelim"
	"github.com/ghostbusting/ghostbust/stategraph"
)

var (
	caseName  = flag.String("case", "casino", "built-in case to run (casino, simpler_casino, simpler_casino_with_invariant_appended, imagine, calculator)")
	methodArg = flag.String("method", "", "restrict output to a single method name; empty means all methods")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	c, ok := cases.All()[*caseName]
	if !ok {
		glog.Exitf("unknown case %q", *caseName)
	}
	glog.Infof("running case %q with %d states, %d methods", *caseName, len(c.PossibleStates), len(c.Methods))

	g, err := stategraph.Build(c.PossibleStates, c.Methods)
	if err != nil {
		glog.Exitf("build_graph: %v", err)
	}

	methodNames := make([]string, 0, len(c.Methods))
	for name := range c.Methods {
		methodNames = append(methodNames, name)
	}
	sort.Strings(methodNames)

	pretraces := cat.NaivePretrace(g, methodNames, c.InitialState)

	for _, method := range methodNames {
		if *methodArg != "" && method != *methodArg {
			continue
		}
		report(g, c, pretraces, method)
	}
}

func report(g stategraph.Graph, c cases.Case, pretraces map[string]cat.Node, method string) {
	fmt.Printf("\nmethod=%s\n\n", method)
	fmt.Printf("naive cat:\n %s\n\n", pretraces[method])

	r := stateelim.From(g, c.InitialState, method)
	fmt.Printf("regex:\n %s\n\n", r)

	simplified := regex.CollapseSamePrefix(r)
	fmt.Printf("simpler:\n %s\n\n", simplified)

	must := regex.MustContain(r)
	fmt.Printf("must contain:\n %s\n\n", stringify(must))

	last := regex.LastCalls(r)
	fmt.Printf("traces end with:\n %s\n\n", stringify(last))
}

func stringify(rs []regex.Regex) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.String()
	}
	return out
}
