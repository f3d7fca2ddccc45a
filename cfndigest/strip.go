package cfndigest

import "maps"

// constructPathKey is the CDK-internal annotation recording a resource's
// location in the construct tree. It changes when constructs are moved or
// renamed without the resource's content changing, so it is excluded from
// hashing.
const constructPathKey = "aws:cdk:path"

// refPlaceholderKey replaces reference expressions before hashing, so that
// the referenced resource's name does not leak into the digest of the
// resource referencing it.
const refPlaceholderKey = "__cloud_ref__"

// stripConstructPath returns body without Metadata["aws:cdk:path"]. The
// input is never mutated. A Metadata mapping left empty by the removal is
// dropped entirely, so annotating a previously unannotated resource does not
// change its digest.
func stripConstructPath(body map[string]any) map[string]any {
	meta, ok := body["Metadata"].(map[string]any)
	if !ok {
		return body
	}
	if _, ok := meta[constructPathKey]; !ok {
		return body
	}

	cleaned := maps.Clone(meta)
	delete(cleaned, constructPathKey)

	stripped := maps.Clone(body)
	if len(cleaned) == 0 {
		delete(stripped, "Metadata")
	} else {
		stripped["Metadata"] = cleaned
	}
	return stripped
}

// stripReferences replaces every sub-object containing a Ref, Fn::GetAtt or
// DependsOn key (checked in that order) with a placeholder naming the matched
// key, preserving the surrounding structure. Containers are rebuilt at every
// level; the input is never mutated.
func stripReferences(v any) any {
	switch val := v.(type) {
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = stripReferences(elem)
		}
		return out
	case map[string]any:
		for _, key := range []string{"Ref", "Fn::GetAtt", "DependsOn"} {
			if _, ok := val[key]; ok {
				return map[string]any{refPlaceholderKey: key}
			}
		}
		out := make(map[string]any, len(val))
		for key, child := range val {
			out[key] = stripReferences(child)
		}
		return out
	default:
		return v
	}
}
