// internal/appconfig/schema.go
package appconfig

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// configSchema constrains the shape of a user-supplied config file so a
// typo'd key or a string where a number belongs fails loudly at load time
// instead of silently falling back to a default.
var configSchema = map[string]interface{}{
	"type":                 "object",
	"additionalProperties": false,
	"properties": map[string]interface{}{
		"speakerNames": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string", "minLength": 1},
		},
		"choiceWords": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string", "minLength": 1},
		},
		"bytecodePatterns": map[string]interface{}{
			"type": "array",
			"items": map[string]interface{}{
				"type":                 "object",
				"required":             []interface{}{"pattern"},
				"additionalProperties": false,
				"properties": map[string]interface{}{
					"pattern": map[string]interface{}{"type": "string", "minLength": 1},
					"reason":  map[string]interface{}{"type": "string"},
				},
			},
		},
		"heuristics": map[string]interface{}{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]interface{}{
				"choiceWindow":       map[string]interface{}{"type": "integer", "minimum": 1},
				"bytecodeWordRatio":  map[string]interface{}{"type": "number", "exclusiveMinimum": 0, "maximum": 1},
				"maxQuoteLookahead":  map[string]interface{}{"type": "integer", "minimum": 1},
				"maxPlaceholderScan": map[string]interface{}{"type": "integer", "minimum": 1},
				"maxDeclaredSize":    map[string]interface{}{"type": "integer", "minimum": 1},
			},
		},
		"outputDir": map[string]interface{}{"type": "string"},
		"logFile":   map[string]interface{}{"type": "string"},
		"debug":     map[string]interface{}{"type": "boolean"},
	},
}

// ValidateSchema checks a raw config document against the configuration
// schema and returns a single error listing every violation.
func ValidateSchema(raw []byte) error {
	schemaLoader := gojsonschema.NewGoLoader(configSchema)
	documentLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}

	issues := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		issues = append(issues, desc.String())
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(issues, "; "))
}
