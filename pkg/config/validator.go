package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ValidateDocument validates a raw configuration document against the
// JSON schema
func ValidateDocument(doc []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(Schema)
	documentLoader := gojsonschema.NewBytesLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to validate schema: %w", err)
	}

	return schemaErrors(result)
}

// ValidateFile validates a configuration file against the JSON schema
func ValidateFile(configFile string) error {
	schemaLoader := gojsonschema.NewStringLoader(Schema)
	documentLoader := gojsonschema.NewReferenceLoader("file://" + configFile)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to validate schema: %w", err)
	}

	return schemaErrors(result)
}

func schemaErrors(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("configuration document is not valid:")
	for _, desc := range result.Errors() {
		sb.WriteString(fmt.Sprintf("\n  - %s", desc))
	}
	return errors.New(sb.String())
}
