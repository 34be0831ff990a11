package config

// Schema is the JSON schema for validating configuration documents.
// A document is an object of sections: env sections keyed by env name,
// plus an optional "defaults" section whose keys carry a scope prefix.
const Schema = `{
    "$schema": "http://json-schema.org/draft-07/schema#",
    "type": "object",
    "minProperties": 1,
    "propertyNames": {
        "pattern": "^(defaults|[a-z][a-z0-9]{0,11})$"
    },
    "properties": {
        "defaults": {
            "type": "object",
            "propertyNames": {
                "pattern": "^(\\*|[a-z][a-z0-9]{0,11})(\\.[A-Za-z0-9_-]+)+$"
            }
        }
    },
    "additionalProperties": {
        "type": "object"
    }
}`
