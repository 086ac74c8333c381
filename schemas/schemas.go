// Package schemas embeds the JSON Schemas shipped with promptlift.
package schemas

import _ "embed"

// RecordSchemaJSON is the schema every record in a JSON or JSONL file must satisfy.
//
//go:embed record.schema.json
var RecordSchemaJSON string
