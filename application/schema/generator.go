// Package schema generates JSON schemas for the configuration file, the event
// wire envelope and the persisted access store.
package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"github.com/invopop/jsonschema"
	"github.com/reglet-dev/sysdialog/domain/entities"
)

var actionKindType = reflect.TypeOf(entities.ActionKind(0))

// documents maps schema names to the types they describe.
var documents = map[string]any{
	"config": entities.Config{},
	"event":  entities.EventEnvelope{},
	"access": entities.AccessGrantSet{},
}

// GenerateSchema creates a JSON schema from a Go struct.
// It uses the `invopop/jsonschema` library to reflect on the struct
// and generate a standard JSON Schema (Draft 2020-12).
func GenerateSchema(v interface{}) ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true, // Expand struct definitions inline
		Mapper:         mapType,
	}
	schema := reflector.Reflect(v)

	jsonBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	return jsonBytes, nil
}

// Names lists the available named schemas.
func Names() []string {
	names := make([]string, 0, len(documents))
	for n := range documents {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ByName generates one of the named schemas.
func ByName(name string) ([]byte, error) {
	v, ok := documents[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q (have %v)", name, Names())
	}
	return GenerateSchema(v)
}

// mapType describes ActionKind by its text form, which is how it is encoded.
func mapType(t reflect.Type) *jsonschema.Schema {
	if t != actionKindType {
		return nil
	}
	s := &jsonschema.Schema{Type: "string"}
	for _, k := range entities.AllActionKinds() {
		s.Enum = append(s.Enum, k.String())
	}
	return s
}
