// Package cfntpl models CloudFormation templates for the digest engine.
//
// The model is deliberately shallow: only Resources is typed, because only
// Resources is consumed downstream. Every other section is carried as decoded
// JSON so a parsed template round-trips without loss of the parts this module
// does not interpret.
package cfntpl

import "slices"

// Template is a CloudFormation template. Non-resource sections are kept as
// raw decoded values and never consumed by the digest engine.
type Template struct {
	AWSTemplateFormatVersion string               `json:"AWSTemplateFormatVersion,omitempty" yaml:"AWSTemplateFormatVersion,omitempty"`
	Description              string               `json:"Description,omitempty" yaml:"Description,omitempty"`
	Transform                any                  `json:"Transform,omitempty" yaml:"Transform,omitempty"`
	Metadata                 map[string]any       `json:"Metadata,omitempty" yaml:"Metadata,omitempty"`
	Parameters               map[string]any       `json:"Parameters,omitempty" yaml:"Parameters,omitempty"`
	Mappings                 map[string]any       `json:"Mappings,omitempty" yaml:"Mappings,omitempty"`
	Conditions               map[string]any       `json:"Conditions,omitempty" yaml:"Conditions,omitempty"`
	Resources                map[string]*Resource `json:"Resources,omitempty" yaml:"Resources,omitempty" validate:"dive"`
	Outputs                  map[string]any       `json:"Outputs,omitempty" yaml:"Outputs,omitempty"`
}

// Resource is a single entry of a template's Resources section.
type Resource struct {
	Type                string         `json:"Type" yaml:"Type" validate:"required"`
	Properties          map[string]any `json:"Properties,omitempty" yaml:"Properties,omitempty"`
	DependsOn           any            `json:"DependsOn,omitempty" yaml:"DependsOn,omitempty"`
	Metadata            map[string]any `json:"Metadata,omitempty" yaml:"Metadata,omitempty"`
	Condition           string         `json:"Condition,omitempty" yaml:"Condition,omitempty"`
	CreationPolicy      any            `json:"CreationPolicy,omitempty" yaml:"CreationPolicy,omitempty"`
	DeletionPolicy      string         `json:"DeletionPolicy,omitempty" yaml:"DeletionPolicy,omitempty"`
	UpdatePolicy        any            `json:"UpdatePolicy,omitempty" yaml:"UpdatePolicy,omitempty"`
	UpdateReplacePolicy string         `json:"UpdateReplacePolicy,omitempty" yaml:"UpdateReplacePolicy,omitempty"`
}

// BodyMap returns the resource's full JSON-shaped body: every set attribute,
// not just Properties. This is the value reference extraction walks and the
// digest calculator hashes.
func (r *Resource) BodyMap() map[string]any {
	body := map[string]any{"Type": r.Type}
	if r.Properties != nil {
		body["Properties"] = r.Properties
	}
	if r.DependsOn != nil {
		body["DependsOn"] = r.DependsOn
	}
	if r.Metadata != nil {
		body["Metadata"] = r.Metadata
	}
	if r.Condition != "" {
		body["Condition"] = r.Condition
	}
	if r.CreationPolicy != nil {
		body["CreationPolicy"] = r.CreationPolicy
	}
	if r.DeletionPolicy != "" {
		body["DeletionPolicy"] = r.DeletionPolicy
	}
	if r.UpdatePolicy != nil {
		body["UpdatePolicy"] = r.UpdatePolicy
	}
	if r.UpdateReplacePolicy != "" {
		body["UpdateReplacePolicy"] = r.UpdateReplacePolicy
	}
	return body
}

// DependsOnList normalizes the DependsOn attribute, which CloudFormation
// accepts as a single string or a list of strings. Non-string entries are
// dropped.
func (r *Resource) DependsOnList() []string {
	switch dep := r.DependsOn.(type) {
	case string:
		return []string{dep}
	case []string:
		return slices.Clone(dep)
	case []any:
		ids := make([]string, 0, len(dep))
		for _, v := range dep {
			if id, ok := v.(string); ok {
				ids = append(ids, id)
			}
		}
		return ids
	default:
		return nil
	}
}
