package cfntpl

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// ParseJSON decodes a JSON-serialized template.
func ParseJSON(data []byte) (*Template, error) {
	var tpl Template
	if err := json.Unmarshal(data, &tpl); err != nil {
		return nil, errors.Wrap(err, "parsing template JSON")
	}
	return &tpl, nil
}

// ParseYAML decodes a YAML-serialized template. Short-form intrinsics
// (!Ref, !GetAtt) are not resolved; templates using them must be converted
// to the long form first, which is what the CDK emits anyway.
func ParseYAML(data []byte) (*Template, error) {
	var tpl Template
	if err := yaml.Unmarshal(data, &tpl); err != nil {
		return nil, errors.Wrap(err, "parsing template YAML")
	}
	return &tpl, nil
}

// FromMap converts an already-decoded template, such as the output of CDK
// assertions' ToJSON, into a typed Template.
func FromMap(m map[string]any) (*Template, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, errors.Wrap(err, "encoding template map")
	}
	return ParseJSON(data)
}
