package cfndigest

import (
	"fmt"
	"strings"
)

// CycleError reports that a template's reference graph contains a cycle, so
// no topological order exists and the resources involved cannot be digested.
// CloudFormation rejects such templates; encountering one here means the
// input did not come from a successful synthesis.
type CycleError struct {
	// Cycles holds the members of each reference cycle, sorted.
	Cycles [][]string
	// Undigested lists every resource left without a digest: the cycle
	// members plus everything that depends on them, sorted.
	Undigested []string
}

func (e *CycleError) Error() string {
	if len(e.Cycles) == 0 {
		return fmt.Sprintf("dependency cycle left resources undigested: %s",
			strings.Join(e.Undigested, ", "))
	}
	parts := make([]string, 0, len(e.Cycles))
	for _, cycle := range e.Cycles {
		parts = append(parts, strings.Join(cycle, " -> "))
	}
	return fmt.Sprintf("dependency cycle detected among resources: %s",
		strings.Join(parts, "; "))
}
