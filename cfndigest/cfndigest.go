// Package cfndigest computes stable, rename-resilient content digests for
// the resources of a CloudFormation template.
//
// A resource's digest covers its type, its reference-stripped body, and the
// digests of the resources it depends on, folded in dependency order. Because
// reference targets are erased before hashing and dependencies contribute
// through their own digests, renaming a resource changes no digest anywhere,
// while any real content change propagates to every resource that depends on
// the changed one. Deploy tooling uses this to correlate resources across two
// synthesized versions of a template; see the cfnmap package.
package cfndigest

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"sort"

	"github.com/basewarphq/cfnident/cfngraph"
	"github.com/basewarphq/cfnident/cfnhash"
	"github.com/basewarphq/cfnident/cfntpl"
	"go.uber.org/zap"
)

// Calculator computes resource digests. The zero value is ready to use.
type Calculator struct {
	// Logger receives debug-level progress entries. Nil disables logging.
	Logger *zap.Logger
}

// ComputeResourceDigests computes a digest for every resource of tpl using a
// zero Calculator. The returned map covers every id of tpl's Resources
// section; an empty or missing Resources section yields an empty map.
//
// Digests are deterministic across runs and processes: dependency digests are
// folded in lexicographic id order, not in graph traversal order.
func ComputeResourceDigests(tpl *cfntpl.Template) (map[string]string, error) {
	return Calculator{}.ComputeResourceDigests(tpl)
}

// ComputeResourceDigests computes a digest for every resource of tpl. It
// returns a *CycleError if the template's reference graph is cyclic, which
// well-formed CloudFormation input cannot be.
func (c Calculator) ComputeResourceDigests(tpl *cfntpl.Template) (map[string]string, error) {
	digests := make(map[string]string)
	if tpl == nil || len(tpl.Resources) == 0 {
		return digests, nil
	}

	graph := cfngraph.Build(tpl.Resources)

	// Kahn's algorithm over the "depends on" direction: start from the
	// resources with no dependencies and release a dependent once all of
	// its dependencies have been digested.
	pending := make(map[string]int)
	var queue []string
	for _, id := range graph.IDs() {
		if deps := graph.Dependencies(id); len(deps) > 0 {
			pending[id] = len(deps)
		} else {
			queue = append(queue, id)
		}
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		digests[id] = c.digest(tpl.Resources[id], graph.Dependencies(id), digests)
		for _, dependent := range graph.Dependents(id) {
			pending[dependent]--
			if pending[dependent] == 0 {
				delete(pending, dependent)
				queue = append(queue, dependent)
			}
		}
	}

	if len(pending) > 0 {
		cerr := &CycleError{Cycles: graph.Cycles()}
		for id := range pending {
			cerr.Undigested = append(cerr.Undigested, id)
		}
		sort.Strings(cerr.Undigested)
		return nil, cerr
	}

	if c.Logger != nil {
		c.Logger.Debug("computed resource digests",
			zap.Int("resources", len(digests)))
	}
	return digests, nil
}

// digest hashes one resource: its type, the canonical digest of its
// reference-stripped body, and the digests of its direct dependencies in
// lexicographic id order. All dependency digests are present by the time a
// resource is dequeued.
func (c Calculator) digest(res *cfntpl.Resource, depIDs []string, digests map[string]string) string {
	body := stripReferences(stripConstructPath(res.BodyMap()))

	h := sha256.New()
	io.WriteString(h, res.Type)
	io.WriteString(h, cfnhash.Digest(body))
	for _, dep := range depIDs {
		io.WriteString(h, digests[dep])
	}
	return hex.EncodeToString(h.Sum(nil))
}
