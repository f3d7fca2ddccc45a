package cfntpl

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

// CloudFormation's rule for logical ids: alphanumeric, at most 255 chars.
const maxLogicalIDLen = 255

var logicalIDPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// Validate checks the template against CloudFormation's structural rules:
// every resource has a Type, logical ids are alphanumeric and within the
// length limit, and DependsOn entries are strings naming resources present in
// the template. All violations are collected and reported in a single error.
//
// The digest engine never requires a validated template; this is a
// caller-facing check.
func (t *Template) Validate() error {
	var problems []string

	ids := make([]string, 0, len(t.Resources))
	for id := range t.Resources {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if !logicalIDPattern.MatchString(id) {
			problems = append(problems, fmt.Sprintf("logical id %q is not alphanumeric", id))
		}
		if len(id) > maxLogicalIDLen {
			problems = append(problems, fmt.Sprintf("logical id %q exceeds %d characters", id, maxLogicalIDLen))
		}
		problems = append(problems, t.dependsOnProblems(id, t.Resources[id])...)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(t); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			for _, e := range validationErrs {
				problems = append(problems, formatValidationError(e))
			}
		} else {
			return errors.Wrap(err, "template validation failed")
		}
	}

	if len(problems) > 0 {
		return errors.Errorf("template validation errors:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

func (t *Template) dependsOnProblems(id string, res *Resource) []string {
	var problems []string

	checkTarget := func(target any) {
		name, ok := target.(string)
		if !ok {
			problems = append(problems, fmt.Sprintf("%s.DependsOn entry %v is not a string", id, target))
			return
		}
		if _, ok := t.Resources[name]; !ok {
			problems = append(problems, fmt.Sprintf("%s.DependsOn names unknown resource %q", id, name))
		}
	}

	switch dep := res.DependsOn.(type) {
	case nil:
	case string:
		checkTarget(dep)
	case []any:
		for _, target := range dep {
			checkTarget(target)
		}
	case []string:
		for _, target := range dep {
			checkTarget(target)
		}
	default:
		problems = append(problems, fmt.Sprintf("%s.DependsOn is neither a string nor a list", id))
	}

	return problems
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Namespace())
	default:
		return fmt.Sprintf("%s failed %q validation", e.Namespace(), e.Tag())
	}
}
