package event

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Schema returns the JSON schema describing Event.
func Schema() *jsonschema.Schema {
	reflector := &jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := reflector.Reflect(&Event{})
	schema.Title = "playnorm event"
	schema.Description = "A normalized playback notification"
	return schema
}

// SchemaJSON renders Schema as indented JSON.
func SchemaJSON() ([]byte, error) {
	return json.MarshalIndent(Schema(), "", "  ")
}
