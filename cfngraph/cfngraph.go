// Package cfngraph builds the dependency graph over a template's resources.
package cfngraph

import (
	"sort"

	"github.com/basewarphq/cfnident/cfnrefs"
	"github.com/basewarphq/cfnident/cfntpl"
	tfdag "github.com/sourcegraph/tf-dag/dag"
)

// Graph is the directed reference graph of one template: an edge u -> v means
// resource u depends on resource v. Both directions are indexed. A Graph is
// built fresh per template and never mutated afterwards.
type Graph struct {
	deps       map[string]map[string]struct{}
	dependents map[string]map[string]struct{}
}

// Build extracts every Ref, Fn::GetAtt and DependsOn reference from each
// resource's full body and keeps the edges whose target is a resource of the
// same template. References to external names and self-references are
// dropped; duplicate references collapse into one edge.
func Build(resources map[string]*cfntpl.Resource) *Graph {
	g := &Graph{
		deps:       make(map[string]map[string]struct{}, len(resources)),
		dependents: make(map[string]map[string]struct{}, len(resources)),
	}
	for id := range resources {
		g.deps[id] = make(map[string]struct{})
		g.dependents[id] = make(map[string]struct{})
	}

	for id, res := range resources {
		for _, target := range cfnrefs.Extract(res.BodyMap()) {
			if target == id {
				continue
			}
			if _, ok := g.deps[target]; !ok {
				continue
			}
			g.deps[id][target] = struct{}{}
			g.dependents[target][id] = struct{}{}
		}
	}
	return g
}

// Len returns the number of resources in the graph.
func (g *Graph) Len() int {
	return len(g.deps)
}

// IDs returns every resource id, sorted.
func (g *Graph) IDs() []string {
	return sortedKeys(g.deps)
}

// Dependencies returns the ids that id depends on, sorted.
func (g *Graph) Dependencies(id string) []string {
	return sortedKeys(g.deps[id])
}

// Dependents returns the ids that depend on id, sorted.
func (g *Graph) Dependents(id string) []string {
	return sortedKeys(g.dependents[id])
}

// HasEdge reports whether from depends on to.
func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.deps[from][to]
	return ok
}

// Cycles returns the members of each reference cycle, sorted within each
// cycle and across cycles. Well-formed CloudFormation templates cannot
// contain reference cycles, so this is empty on valid input; the digest
// calculator uses it to name the offenders when the assumption is violated.
func (g *Graph) Cycles() [][]string {
	var acyclic tfdag.AcyclicGraph
	for _, id := range g.IDs() {
		acyclic.Add(id)
	}
	for _, id := range g.IDs() {
		for _, dep := range g.Dependencies(id) {
			acyclic.Connect(tfdag.BasicEdge(id, dep))
		}
	}

	var cycles [][]string
	for _, cycle := range acyclic.Cycles() {
		members := make([]string, 0, len(cycle))
		for _, vertex := range cycle {
			if id, ok := vertex.(string); ok {
				members = append(members, id)
			}
		}
		sort.Strings(members)
		cycles = append(cycles, members)
	}
	sort.Slice(cycles, func(i, j int) bool { return cycles[i][0] < cycles[j][0] })
	return cycles
}

func sortedKeys[V any](m map[string]V) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
