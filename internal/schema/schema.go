package schema

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Adityahash12/agent-api-adapter/internal/apperr"
	"github.com/Adityahash12/agent-api-adapter/internal/payload"
)

// Primitive type names accepted in a property "type".
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeObject  = "object"
	TypeArray   = "array"
	TypeNull    = "null"
)

var supportedTypes = map[string]struct{}{
	TypeString:  {},
	TypeNumber:  {},
	TypeInteger: {},
	TypeBoolean: {},
	TypeObject:  {},
	TypeArray:   {},
	TypeNull:    {},
}

const resourceName = "schema.json"

// Property is one declared top-level property.
type Property struct {
	Name string
	// Types lists the accepted primitive types. Empty accepts any value.
	Types    []string
	Required bool
}

// Accepts reports whether v has one of the declared types.
func (p Property) Accepts(v payload.Value) bool {
	if len(p.Types) == 0 {
		return true
	}

	for _, t := range p.Types {
		if typeMatches(t, v) {
			return true
		}
	}

	return false
}

// Expected renders the declared types for messages.
func (p Property) Expected() string {
	return strings.Join(p.Types, " or ")
}

// Schema is a compiled target schema.
type Schema struct {
	properties []Property
	index      map[string]int
	required   []string
	closed     bool
	compiled   *jsonschema.Schema
}

// Names returns the declared property names in declaration order.
func (s *Schema) Names() []string {
	out := make([]string, len(s.properties))
	for i, p := range s.properties {
		out[i] = p.Name
	}

	return out
}

// Property returns the declared property called name.
func (s *Schema) Property(name string) (Property, bool) {
	i, ok := s.index[name]
	if !ok {
		return Property{}, false
	}

	return s.properties[i], true
}

// Required returns the names listed in "required", in document order and
// without duplicates. Names missing from "properties" are included.
func (s *Schema) Required() []string {
	out := make([]string, len(s.required))
	copy(out, s.required)

	return out
}

// Closed reports whether undeclared members are rejected.
func (s *Schema) Closed() bool { return s.closed }

// Compile validates doc as a flat object schema and compiles it.
// Every failure is a SchemaConfiguration error.
func Compile(doc payload.Value) (*Schema, error) {
	root, ok := doc.AsObject()
	if !ok {
		return nil, apperr.SchemaConfigurationf("target schema must be an object, got %s", doc.Kind())
	}

	if t, ok := root.Get("type"); ok {
		name, isStr := t.AsString()
		if !isStr || name != TypeObject {
			return nil, apperr.NewSchemaConfiguration(`target schema "type" must be "object"`)
		}
	}

	s := &Schema{index: make(map[string]int), required: []string{}}

	if err := s.readProperties(root); err != nil {
		return nil, err
	}

	if err := s.readRequired(root); err != nil {
		return nil, err
	}

	if err := s.readAdditional(root); err != nil {
		return nil, err
	}

	compiled, err := compileDocument(doc)
	if err != nil {
		return nil, apperr.WrapSchemaConfiguration(err, "failed to compile target schema")
	}

	s.compiled = compiled

	return s, nil
}

func (s *Schema) readProperties(root *payload.Object) error {
	v, ok := root.Get("properties")
	if !ok {
		return nil
	}

	props, ok := v.AsObject()
	if !ok {
		return apperr.SchemaConfigurationf(`"properties" must be an object, got %s`, v.Kind())
	}

	for _, name := range props.Keys() {
		member, _ := props.Get(name)

		p, err := readProperty(name, member)
		if err != nil {
			return err
		}

		s.index[name] = len(s.properties)
		s.properties = append(s.properties, p)
	}

	return nil
}

func readProperty(name string, v payload.Value) (Property, error) {
	p := Property{Name: name}

	if b, ok := v.AsBool(); ok && b {
		return p, nil
	}

	obj, ok := v.AsObject()
	if !ok {
		return p, apperr.SchemaConfigurationf("property %q: schema must be an object or true, got %s", name, v.Kind())
	}

	t, ok := obj.Get("type")
	if !ok {
		return p, nil
	}

	types, err := readTypes(t)
	if err != nil {
		return p, apperr.SchemaConfigurationf("property %q: %v", name, err)
	}

	p.Types = types

	return p, nil
}

func readTypes(v payload.Value) ([]string, error) {
	if name, ok := v.AsString(); ok {
		if _, ok := supportedTypes[name]; !ok {
			return nil, fmt.Errorf("unsupported type %q", name)
		}

		return []string{name}, nil
	}

	items, ok := v.AsArray()
	if !ok || len(items) == 0 {
		return nil, fmt.Errorf(`"type" must be a type name or a non-empty array of type names`)
	}

	out := make([]string, 0, len(items))

	for _, item := range items {
		name, ok := item.AsString()
		if !ok {
			return nil, fmt.Errorf(`"type" array entries must be strings, got %s`, item.Kind())
		}

		if _, ok := supportedTypes[name]; !ok {
			return nil, fmt.Errorf("unsupported type %q", name)
		}

		out = append(out, name)
	}

	return out, nil
}

func (s *Schema) readRequired(root *payload.Object) error {
	v, ok := root.Get("required")
	if !ok {
		return nil
	}

	items, ok := v.AsArray()
	if !ok {
		return apperr.SchemaConfigurationf(`"required" must be an array of strings, got %s`, v.Kind())
	}

	for _, item := range items {
		name, ok := item.AsString()
		if !ok {
			return apperr.SchemaConfigurationf(`"required" entries must be strings, got %s`, item.Kind())
		}

		if slices.Contains(s.required, name) {
			continue
		}

		s.required = append(s.required, name)

		if i, ok := s.index[name]; ok {
			s.properties[i].Required = true
		}
	}

	return nil
}

func (s *Schema) readAdditional(root *payload.Object) error {
	v, ok := root.Get("additionalProperties")
	if !ok {
		return nil
	}

	if b, ok := v.AsBool(); ok {
		s.closed = !b
		return nil
	}

	if _, ok := v.AsObject(); !ok {
		return apperr.SchemaConfigurationf(`"additionalProperties" must be a boolean or an object, got %s`, v.Kind())
	}

	return nil
}

func compileDocument(doc payload.Value) (*jsonschema.Schema, error) {
	data, err := doc.MarshalJSON()
	if err != nil {
		return nil, err
	}

	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	c.AssertFormat = true
	c.LoadURL = func(s string) (io.ReadCloser, error) {
		return nil, fmt.Errorf("external reference %q is not supported", s)
	}

	if err := c.AddResource(resourceName, bytes.NewReader(data)); err != nil {
		return nil, err
	}

	return c.Compile(resourceName)
}

// TypeOf returns the JSON Schema type name of v, or "absent".
func TypeOf(v payload.Value) string {
	switch v.Kind() {
	case payload.KindNull:
		return TypeNull
	case payload.KindBool:
		return TypeBoolean
	case payload.KindNumber:
		return TypeNumber
	case payload.KindString:
		return TypeString
	case payload.KindObject:
		return TypeObject
	case payload.KindArray:
		return TypeArray
	default:
		return "absent"
	}
}

func typeMatches(t string, v payload.Value) bool {
	switch t {
	case TypeInteger:
		return v.IsInteger()
	default:
		return TypeOf(v) == t
	}
}
