// Package cfnmap correlates the resources of two versions of a
// CloudFormation template by content identity.
//
// Correlation runs the digest engine over both versions and pairs resources
// by digest rather than by logical id, so a resource that was merely renamed
// between synths is reported as a rename instead of a remove/add pair. When
// several resources share a digest on either side, no pairing is guessed: the
// group is reported as an ambiguity and the caller decides.
package cfnmap

import (
	"sort"

	"github.com/basewarphq/cfnident/cfndigest"
	"github.com/basewarphq/cfnident/cfntpl"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Rename pairs a resource's logical id in the old template with its id in
// the new one.
type Rename struct {
	From string
	To   string
}

// Ambiguity groups resources that share one digest across versions without a
// unique pairing, such as two identical buckets where one was renamed.
type Ambiguity struct {
	Before []string
	After  []string
}

// Result is the outcome of correlating two template versions. All slices are
// sorted: ids lexicographically, renames by From, ambiguities by their first
// Before id (or first After id when Before is empty).
type Result struct {
	// Unchanged lists ids present in both versions with equal digests.
	Unchanged []string
	// Modified lists ids present in both versions with different digests.
	Modified []string
	// Renames pairs resources whose digest moved to exactly one new id.
	Renames []Rename
	// Ambiguities holds digest groups with no unique pairing.
	Ambiguities []Ambiguity
	// Added lists ids of the new version with no counterpart in the old.
	Added []string
	// Removed lists ids of the old version with no counterpart in the new.
	Removed []string
}

// Correlator correlates template versions. The zero value is ready to use.
type Correlator struct {
	// Logger receives debug-level progress entries. Nil disables logging.
	Logger *zap.Logger
}

// Correlate compares two template versions using a zero Correlator.
func Correlate(before, after *cfntpl.Template) (*Result, error) {
	return Correlator{}.Correlate(before, after)
}

// Correlate computes both digest maps and pairs the resources. Ids present in
// both versions keep their identity and take no part in rename pairing, even
// when modified.
func (c Correlator) Correlate(before, after *cfntpl.Template) (*Result, error) {
	calc := cfndigest.Calculator{Logger: c.Logger}

	beforeDigests, err := calc.ComputeResourceDigests(before)
	if err != nil {
		return nil, errors.Wrap(err, "digesting old template")
	}
	afterDigests, err := calc.ComputeResourceDigests(after)
	if err != nil {
		return nil, errors.Wrap(err, "digesting new template")
	}

	res := &Result{}
	removedByDigest := make(map[string][]string)
	addedByDigest := make(map[string][]string)

	for id, digest := range beforeDigests {
		afterDigest, ok := afterDigests[id]
		switch {
		case !ok:
			removedByDigest[digest] = append(removedByDigest[digest], id)
		case afterDigest == digest:
			res.Unchanged = append(res.Unchanged, id)
		default:
			res.Modified = append(res.Modified, id)
		}
	}
	for id, digest := range afterDigests {
		if _, ok := beforeDigests[id]; !ok {
			addedByDigest[digest] = append(addedByDigest[digest], id)
		}
	}

	for _, digest := range digestKeys(removedByDigest, addedByDigest) {
		beforeIDs := removedByDigest[digest]
		afterIDs := addedByDigest[digest]
		sort.Strings(beforeIDs)
		sort.Strings(afterIDs)
		switch {
		case len(beforeIDs) == 1 && len(afterIDs) == 1:
			res.Renames = append(res.Renames, Rename{From: beforeIDs[0], To: afterIDs[0]})
		case len(afterIDs) == 0:
			res.Removed = append(res.Removed, beforeIDs...)
		case len(beforeIDs) == 0:
			res.Added = append(res.Added, afterIDs...)
		default:
			res.Ambiguities = append(res.Ambiguities, Ambiguity{Before: beforeIDs, After: afterIDs})
		}
	}

	sort.Strings(res.Unchanged)
	sort.Strings(res.Modified)
	sort.Strings(res.Added)
	sort.Strings(res.Removed)
	sort.Slice(res.Renames, func(i, j int) bool { return res.Renames[i].From < res.Renames[j].From })
	sort.Slice(res.Ambiguities, func(i, j int) bool {
		return ambiguityKey(res.Ambiguities[i]) < ambiguityKey(res.Ambiguities[j])
	})

	if c.Logger != nil {
		c.Logger.Debug("correlated templates",
			zap.Int("unchanged", len(res.Unchanged)),
			zap.Int("modified", len(res.Modified)),
			zap.Int("renames", len(res.Renames)),
			zap.Int("ambiguities", len(res.Ambiguities)),
			zap.Int("added", len(res.Added)),
			zap.Int("removed", len(res.Removed)))
	}
	return res, nil
}

func digestKeys(removed, added map[string][]string) []string {
	seen := make(map[string]struct{}, len(removed)+len(added))
	for digest := range removed {
		seen[digest] = struct{}{}
	}
	for digest := range added {
		seen[digest] = struct{}{}
	}
	keys := make([]string, 0, len(seen))
	for digest := range seen {
		keys = append(keys, digest)
	}
	sort.Strings(keys)
	return keys
}

func ambiguityKey(a Ambiguity) string {
	if len(a.Before) > 0 {
		return a.Before[0]
	}
	return a.After[0]
}
