package ssm

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// Config holds SSM Parameter Store configuration
type Config struct {
	Region          string `json:"region"`   // AWS region
	Endpoint        string `json:"endpoint"` // Optional: for LocalStack
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
	KeyID           string `json:"key_id"` // KMS key for SecureString values
	Tier            string `json:"tier"`   // Standard, Advanced or Intelligent-Tiering
	Secure          bool   `json:"secure"` // Store values as SecureString (default: true)
}

func parseConfig(options map[string]interface{}) (*Config, error) {
	cfg := &Config{
		Secure: true, // Default
	}

	// Extract each field from options map
	if v, ok := options["region"].(string); ok {
		cfg.Region = v
	}
	if v, ok := options["endpoint"].(string); ok {
		cfg.Endpoint = v
	}
	if v, ok := options["access_key_id"].(string); ok {
		cfg.AccessKeyID = v
	}
	if v, ok := options["secret_access_key"].(string); ok {
		cfg.SecretAccessKey = v
	}
	if v, ok := options["key_id"].(string); ok {
		cfg.KeyID = v
	}
	if v, ok := options["tier"].(string); ok {
		cfg.Tier = v
	}
	if v, ok := options["secure"].(bool); ok {
		cfg.Secure = v
	}

	if cfg.Tier != "" {
		if _, err := parseTier(cfg.Tier); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func parseTier(tier string) (types.ParameterTier, error) {
	switch types.ParameterTier(tier) {
	case types.ParameterTierStandard, types.ParameterTierAdvanced, types.ParameterTierIntelligentTiering:
		return types.ParameterTier(tier), nil
	default:
		return "", fmt.Errorf("unknown parameter tier: %s", tier)
	}
}
