package dump

import (
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
)

const orderedMapPkg = "github.com/wk8/go-ordered-map/v2"

// Schema returns the JSON Schema of the document of the given version.
func Schema(version int) (*jsonschema.Schema, error) {
	r := &jsonschema.Reflector{DoNotReference: true, Anonymous: true}
	r.Mapper = func(t reflect.Type) *jsonschema.Schema {
		return mapOrdered(r, t)
	}

	var s *jsonschema.Schema
	switch version {
	case V1:
		s = r.Reflect(&DocumentV1{})
		s.Title = "wiztype class dump, version 1"
	case V2:
		s = r.Reflect(&DocumentV2{})
		s.Title = "wiztype class dump, version 2"
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	return s, nil
}

// mapOrdered describes an ordered map as an object whose values follow the
// map's value type. Interface values are enum option values.
func mapOrdered(r *jsonschema.Reflector, t reflect.Type) *jsonschema.Schema {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || t.PkgPath() != orderedMapPkg {
		return nil
	}
	get, ok := reflect.PointerTo(t).MethodByName("Get")
	if !ok {
		return nil
	}

	elem := get.Type.Out(0)
	if elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}

	var values *jsonschema.Schema
	if elem.Kind() == reflect.Interface {
		values = &jsonschema.Schema{OneOf: []*jsonschema.Schema{
			{Type: "integer", Minimum: "0", Maximum: "4294967295"},
			{Type: "string"},
		}}
	} else {
		values = r.ReflectFromType(elem)
		values.Version = ""
	}
	return &jsonschema.Schema{Type: "object", AdditionalProperties: values}
}
