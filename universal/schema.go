package universal

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// SchemaTitle is the title of the document returned by Schema.
const SchemaTitle = "UniversalEvent"

// Schema returns the JSON Schema for an encoded EventConversion. Each union
// is a oneOf over its variants, and each variant pins its discriminant with
// a const.
func Schema() *jsonschema.Schema {
	s := object(EventConversion{}, map[string]*jsonschema.Schema{
		"data": eventDataSchema(),
	})
	s.Version = jsonschema.Version
	s.Title = SchemaTitle
	s.Description = "A backend notification converted to the universal event model."
	return s
}

// WriteSchema writes the indented schema document to w.
func WriteSchema(w io.Writer) error {
	b, err := json.MarshalIndent(Schema(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal universal schema: %w", err)
	}
	b = append(b, '\n')
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("write universal schema: %w", err)
	}
	return nil
}

func eventDataSchema() *jsonschema.Schema {
	return oneOf(
		variant("type", string(EventTypeStarted), StartedEvent{}, map[string]*jsonschema.Schema{
			"started": object(Started{}, map[string]*jsonschema.Schema{"details": anyValue()}),
		}),
		variant("type", string(EventTypeMessage), MessageEvent{}, map[string]*jsonschema.Schema{
			"message": messageSchema(),
		}),
		variant("type", string(EventTypeError), ErrorEvent{}, map[string]*jsonschema.Schema{
			"error": object(CrashInfo{}, map[string]*jsonschema.Schema{"details": anyValue()}),
		}),
		variant("type", string(EventTypeUnknown), UnknownEvent{}, map[string]*jsonschema.Schema{
			"raw": anyValue(),
		}),
	)
}

func messageSchema() *jsonschema.Schema {
	return oneOf(
		variant("kind", string(MessageKindParsed), ParsedMessage{}, map[string]*jsonschema.Schema{
			"parts": {Type: "array", Items: partSchema()},
		}),
		variant("kind", string(MessageKindUnparsed), UnparsedMessage{}, map[string]*jsonschema.Schema{
			"raw": anyValue(),
		}),
	)
}

func partSchema() *jsonschema.Schema {
	return oneOf(
		variant("type", string(PartTypeText), TextPart{}, nil),
		variant("type", string(PartTypeImage), ImagePart{}, map[string]*jsonschema.Schema{
			"source": attachmentSourceSchema(),
			"raw":    anyValue(),
		}),
		variant("type", string(PartTypeToolCall), ToolCallPart{}, map[string]*jsonschema.Schema{
			"input": anyValue(),
		}),
		variant("type", string(PartTypeToolResult), ToolResultPart{}, map[string]*jsonschema.Schema{
			"output": anyValue(),
		}),
		variant("type", string(PartTypeUnknown), UnknownPart{}, map[string]*jsonschema.Schema{
			"raw": anyValue(),
		}),
	)
}

func attachmentSourceSchema() *jsonschema.Schema {
	return oneOf(
		variant("type", string(SourceTypeURL), URLSource{}, nil),
		variant("type", string(SourceTypePath), PathSource{}, nil),
	)
}

// object reflects v into an inline object schema and replaces the named
// properties. Interface and raw JSON fields have no useful reflected form
// and are always overridden.
func object(v any, overrides map[string]*jsonschema.Schema) *jsonschema.Schema {
	r := &jsonschema.Reflector{
		Anonymous:      true,
		DoNotReference: true,
		ExpandedStruct: true,
	}
	s := r.Reflect(v)
	s.Version = ""
	s.Definitions = nil
	if s.Properties == nil {
		return s
	}
	for key, sub := range overrides {
		if _, ok := s.Properties.Get(key); ok {
			s.Properties.Set(key, sub)
		}
	}
	return s
}

// variant is object with the discriminant key prepended as a required const.
func variant(key, tag string, v any, overrides map[string]*jsonschema.Schema) *jsonschema.Schema {
	s := object(v, overrides)
	props := orderedmap.New[string, *jsonschema.Schema]()
	props.Set(key, &jsonschema.Schema{Type: "string", Const: tag})
	if s.Properties != nil {
		for p := s.Properties.Oldest(); p != nil; p = p.Next() {
			props.Set(p.Key, p.Value)
		}
	}
	s.Properties = props
	s.Required = append([]string{key}, s.Required...)
	s.Title = tag
	return s
}

func oneOf(variants ...*jsonschema.Schema) *jsonschema.Schema {
	return &jsonschema.Schema{OneOf: variants}
}

func anyValue() *jsonschema.Schema {
	return &jsonschema.Schema{Description: "Arbitrary JSON value."}
}
