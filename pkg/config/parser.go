package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/williamokano/aws_config/pkg/envs"
	"github.com/williamokano/aws_config/pkg/storage"
)

// Load builds a Config from raw JSON documents. secretData may be empty.
func Load(data, secretData []byte, names envs.Names, version string) (*Config, error) {
	if err := ValidateDocument(data); err != nil {
		return nil, err
	}
	doc, err := parseDocument(data)
	if err != nil {
		return nil, err
	}

	secretDoc := map[string]map[string]interface{}{}
	if len(secretData) > 0 {
		if err := ValidateDocument(secretData); err != nil {
			return nil, err
		}
		if secretDoc, err = parseDocument(secretData); err != nil {
			return nil, err
		}
	}

	return New(doc, secretDoc, names, version)
}

// LoadFile builds a Config from JSON files. secretFile may be empty when
// the project keeps no secrets.
func LoadFile(configFile, secretFile string, names envs.Names, version string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	var secret []byte
	if secretFile != "" {
		if secret, err = os.ReadFile(secretFile); err != nil {
			return nil, fmt.Errorf("failed to open secret config file: %w", err)
		}
	}

	return Load(data, secret, names, version)
}

// LoadStore builds a Config from the consolidated parameter in a store,
// reading the latest {"data", "secret_data"} envelope. The store version
// becomes the config version.
func LoadStore(ctx context.Context, store storage.Store, parameterName string, names envs.Names) (*Config, error) {
	param, err := store.ReadLatest(ctx, parameterName)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data       map[string]map[string]interface{} `json:"data"`
		SecretData map[string]map[string]interface{} `json:"secret_data"`
	}
	if err := json.Unmarshal(param.Value, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse parameter %s: %w", parameterName, err)
	}

	return New(envelope.Data, envelope.SecretData, names, param.Version)
}

func parseDocument(raw []byte) (map[string]map[string]interface{}, error) {
	var doc map[string]map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse config document: %w", err)
	}
	return doc, nil
}
