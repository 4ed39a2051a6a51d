package schema

import (
	"errors"
	"net/url"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Adityahash12/agent-api-adapter/internal/diagnostic"
	"github.com/Adityahash12/agent-api-adapter/internal/payload"
)

// keyword failure reported by the compiled validator.
type failure struct {
	property string
	keyword  string
	message  string
}

// Validate checks data against s.
//
// Declared properties are visited in declaration order: an absent required
// property yields a required violation, a present property of the wrong type
// a type violation, and otherwise any failed keyword constraint a constraint
// violation. Required names that "properties" does not declare follow, each
// reported as a required violation when absent. Undeclared members are
// reported only when the schema is closed. Object-level constraint failures
// come last.
func Validate(s *Schema, data *payload.Object) diagnostic.Result {
	res := diagnostic.NewResult()

	byProp, root := s.keywordFailures(data)

	for _, p := range s.properties {
		v, _ := data.Get(p.Name)

		if v.IsAbsent() {
			if p.Required {
				res.Add(diagnostic.Required(p.Name))
			}

			continue
		}

		if !p.Accepts(v) {
			res.Add(diagnostic.TypeMismatch(p.Name, p.Expected(), TypeOf(v)))
			continue
		}

		for _, f := range byProp[p.Name] {
			res.Add(diagnostic.Constraint(p.Name, f.keyword, TypeOf(v), f.message))
		}
	}

	for _, name := range s.required {
		if _, declared := s.index[name]; declared {
			continue
		}

		if v, _ := data.Get(name); v.IsAbsent() {
			res.Add(diagnostic.Required(name))
		}
	}

	for _, name := range data.Keys() {
		if _, declared := s.index[name]; declared {
			continue
		}

		v, _ := data.Get(name)
		if v.IsAbsent() {
			continue
		}

		if s.closed {
			res.Add(diagnostic.AdditionalProperty(name, TypeOf(v)))
			continue
		}

		for _, f := range byProp[name] {
			res.Add(diagnostic.Constraint(name, f.keyword, TypeOf(v), f.message))
		}
	}

	for _, f := range root {
		res.Add(diagnostic.Constraint("", f.keyword, TypeObject, f.message))
	}

	return res
}

// keywordFailures runs the compiled validator and groups its leaf failures
// by top-level property. Failures already covered by the structural checks
// in Validate are dropped.
func (s *Schema) keywordFailures(data *payload.Object) (map[string][]failure, []failure) {
	if s.compiled == nil {
		return nil, nil
	}

	err := s.compiled.Validate(payload.ObjectOf(data).Interface())
	if err == nil {
		return nil, nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return nil, []failure{{keyword: "schema", message: err.Error()}}
	}

	byProp := make(map[string][]failure)

	var root []failure

	for _, leaf := range leaves(verr) {
		f := failure{
			property: topLevelProperty(leaf.InstanceLocation),
			keyword:  lastSegment(leaf.KeywordLocation),
			message:  leaf.Message,
		}

		if f.property == "" {
			if f.keyword == "required" || f.keyword == "additionalProperties" {
				continue
			}

			root = append(root, f)

			continue
		}

		if _, declared := s.index[f.property]; declared && f.keyword == "type" && isDirectChild(leaf.InstanceLocation) {
			continue
		}

		byProp[f.property] = append(byProp[f.property], f)
	}

	return byProp, root
}

func leaves(e *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(e.Causes) == 0 {
		return []*jsonschema.ValidationError{e}
	}

	var out []*jsonschema.ValidationError
	for _, c := range e.Causes {
		out = append(out, leaves(c)...)
	}

	return out
}

// topLevelProperty returns the first JSON Pointer token of loc, unescaped.
func topLevelProperty(loc string) string {
	loc = strings.TrimPrefix(loc, "/")
	if loc == "" {
		return ""
	}

	token, _, _ := strings.Cut(loc, "/")

	return unescapePointer(token)
}

func isDirectChild(loc string) bool {
	return strings.Count(loc, "/") == 1
}

func lastSegment(loc string) string {
	if i := strings.LastIndex(loc, "/"); i >= 0 {
		return unescapePointer(loc[i+1:])
	}

	return loc
}

// unescapePointer reverses the validator's location escaping, which
// percent-encodes tokens after applying JSON Pointer escapes.
func unescapePointer(token string) string {
	if u, err := url.PathUnescape(token); err == nil {
		token = u
	}

	return strings.ReplaceAll(strings.ReplaceAll(token, "~1", "/"), "~0", "~")
}
