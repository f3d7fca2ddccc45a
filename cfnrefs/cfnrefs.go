// Package cfnrefs extracts inter-resource references from CloudFormation
// template fragments.
//
// A reference is any nested object of the form {"Ref": id},
// {"Fn::GetAtt": id | [id, attr]} or {"DependsOn": id}. Extraction is
// tolerant: malformed shapes yield no id, or an id that does not name a real
// resource, which callers filter out against the template's Resources keys.
package cfnrefs

import "strings"

// Extract returns the resource ids referenced anywhere inside v. Duplicates
// are allowed; order follows the traversal. Callers deduplicate and drop ids
// that are not resources of the same template.
func Extract(v any) []string {
	switch val := v.(type) {
	case []any:
		var refs []string
		for _, elem := range val {
			refs = append(refs, Extract(elem)...)
		}
		return refs
	case map[string]any:
		// The special keys are terminal for the whole node: a matched
		// object is a reference expression, not a plain mapping, so its
		// other keys are not recursed into.
		if target, ok := val["Ref"]; ok {
			return refString(target)
		}
		if target, ok := val["Fn::GetAtt"]; ok {
			return getAttTarget(target)
		}
		if target, ok := val["DependsOn"]; ok {
			return refString(target)
		}
		var refs []string
		for _, child := range val {
			refs = append(refs, Extract(child)...)
		}
		return refs
	default:
		return nil
	}
}

func refString(target any) []string {
	if id, ok := target.(string); ok {
		return []string{id}
	}
	return nil
}

// getAttTarget extracts the resource id from either Fn::GetAtt form: the
// first element of [id, attr], or the part before the first dot of
// "id.attr".
func getAttTarget(target any) []string {
	switch val := target.(type) {
	case []any:
		if len(val) == 0 {
			return nil
		}
		return refString(val[0])
	case string:
		id, _, _ := strings.Cut(val, ".")
		return []string{id}
	default:
		return nil
	}
}
