package s3

import "fmt"

// Config holds S3 store configuration
type Config struct {
	S3URI           string `json:"s3uri"`    // Config directory, e.g. "s3://bucket/config/"
	Region          string `json:"region"`   // AWS region
	Endpoint        string `json:"endpoint"` // Optional: for LocalStack
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
	ForcePathStyle  bool   `json:"force_path_style"` // For LocalStack
}

func parseConfig(options map[string]interface{}) (*Config, error) {
	cfg := &Config{}

	// Extract each field from options map
	if v, ok := options["s3uri"].(string); ok {
		cfg.S3URI = v
	} else {
		return nil, fmt.Errorf("missing required option: s3uri")
	}
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
	if v, ok := options["force_path_style"].(bool); ok {
		cfg.ForcePathStyle = v
	}

	return cfg, nil
}
