package backblaze

import "fmt"

// Config holds Backblaze B2 store configuration
type Config struct {
	AccountID      string `json:"account_id"`
	ApplicationKey string `json:"application_key"`
	BucketName     string `json:"bucket_name"`
	Prefix         string `json:"prefix"` // Optional key prefix inside the bucket
}

func parseConfig(options map[string]interface{}) (*Config, error) {
	cfg := &Config{}

	// Extract each field from options map
	if v, ok := options["account_id"].(string); ok {
		cfg.AccountID = v
	} else {
		return nil, fmt.Errorf("missing required option: account_id")
	}
	if v, ok := options["application_key"].(string); ok {
		cfg.ApplicationKey = v
	} else {
		return nil, fmt.Errorf("missing required option: application_key")
	}
	if v, ok := options["bucket_name"].(string); ok {
		cfg.BucketName = v
	} else {
		return nil, fmt.Errorf("missing required option: bucket_name")
	}
	if v, ok := options["prefix"].(string); ok {
		cfg.Prefix = v
	}

	return cfg, nil
}
